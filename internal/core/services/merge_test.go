package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelkit/internal/core/domain"
)

func TestApplyFields_PartialUpdate(t *testing.T) {
	doc := domain.Document{ID: 1, Text: "keep", EntityConcordance: 0.5}

	require.NoError(t, applyFields(&doc, domain.Fields{"relation_concordance": 0.75}))

	assert.Equal(t, "keep", doc.Text)
	assert.InDelta(t, 0.5, doc.EntityConcordance, 1e-9)
	assert.InDelta(t, 0.75, doc.RelationConcordance, 1e-9)
}

func TestApplyFields_NullClears(t *testing.T) {
	approver := "dave"
	doc := domain.Document{ID: 1, AnnotationApprover: &approver}

	require.NoError(t, applyFields(&doc, domain.Fields{"annotation_approver": nil}))

	assert.Nil(t, doc.AnnotationApprover)
	assert.Equal(t, 1, doc.ID)
}

func TestApplyFields_NestedAnnotations(t *testing.T) {
	doc := domain.Document{ID: 1}

	err := applyFields(&doc, domain.Fields{
		"annotations": []any{
			map[string]any{"id": float64(5), "label": float64(2), "created_at": "2024-01-02T03:04:05Z"},
		},
		"annotator_assign": []any{"carol"},
	})

	require.NoError(t, err)
	require.Len(t, doc.Annotations, 1)
	assert.Equal(t, 5, doc.Annotations[0].ID)
	assert.Equal(t, 2, doc.Annotations[0].Label)
	assert.True(t, doc.Annotations[0].CreatedAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.Equal(t, []string{"carol"}, doc.AnnotatorAssign)
}

func TestApplyFields_TypeMismatch(t *testing.T) {
	rel := domain.Relation{ID: 1}

	err := applyFields(&rel, domain.Fields{"text": map[string]any{"nested": true}})

	assert.Error(t, err)
}
