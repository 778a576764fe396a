// Package tui is an interactive browser for one project's documents.
// It is a driving adapter: every action goes through a driving.DocumentStore.
package tui

import (
	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
)

// Events is a source of store failure notifications.
type Events interface {
	Subscribe(buffer int) (<-chan domain.Notification, func())
}

// Ports aggregates what the browser drives.
type Ports struct {
	// Documents is the store of the project being browsed.
	Documents driving.DocumentStore

	// Events feeds the status line. Optional.
	Events Events
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Documents == nil {
		return ErrMissingDocumentStore
	}
	return nil
}
