package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/tuitest"
)

func TestPorts_Validate(t *testing.T) {
	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrMissingDocumentStore)
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingDocumentStore)
	assert.NoError(t, (&Ports{Documents: tuitest.NewStore(0)}).Validate())
}
