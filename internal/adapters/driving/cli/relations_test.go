package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelkit/internal/core/domain"
)

func TestRelationsList(t *testing.T) {
	a, ws, _ := testApp()
	ws.rels.items = []domain.Relation{{ID: 1, Text: "works_for", Color: "#ff0000"}, {ID: 2, Text: "born_in"}}

	out, err := execute(t, a, "relations", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "works_for")
	assert.Contains(t, out, "#ff0000")
	assert.Contains(t, out, "Total: 2 relation types")
}

func TestRelationsList_Empty(t *testing.T) {
	a, _, _ := testApp()

	out, err := execute(t, a, "relations", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No relation types in project 7")
}

func TestRelationsCreate(t *testing.T) {
	a, ws, _ := testApp()

	out, err := execute(t, a, "relations", "create", "text=located_in", "color=#00ff00")

	require.NoError(t, err)
	assert.Contains(t, out, "Created relation 5 (located_in)")
	assert.Equal(t, domain.Fields{"text": "located_in", "color": "#00ff00"}, ws.rels.created)
}

func TestRelationsDelete(t *testing.T) {
	a, ws, _ := testApp()
	ws.rels.deleteResult = domain.BulkResult{Attempted: 2, Succeeded: 2}

	out, err := execute(t, a, "relations", "delete", "3", "4")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2 of 2 relations")
	assert.Equal(t, []int{3, 4}, ws.rels.selected)
}

func TestRelationsImport(t *testing.T) {
	a, ws, _ := testApp()
	ws.rels.importResult = domain.BulkResult{
		Attempted: 3,
		Succeeded: 2,
		Failed:    map[int]error{2: errors.New("duplicate text")},
	}

	out, err := execute(t, a, "relations", "import", "relations.json")

	assert.EqualError(t, err, "1 of 3 relations failed")
	assert.Contains(t, out, "Imported 2 of 3 relations")
	assert.Contains(t, out, "#2: duplicate text")
	assert.Equal(t, "relations.json", ws.rels.importPath)
}

func TestRelationsImport_ReadError(t *testing.T) {
	a, ws, _ := testApp()
	ws.rels.importErr = domain.ErrInvalidInput

	_, err := execute(t, a, "relations", "import", "broken.json")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
