package driving

import (
	"context"

	"github.com/custodia-labs/labelkit/internal/core/domain"
)

// RelationStore mirrors a project's relation-type definitions.
type RelationStore interface {
	// ProjectID returns the project this store is bound to.
	ProjectID() int

	// Items returns a copy of the loaded relations.
	Items() []domain.Relation

	// Busy reports whether any busy-gated operation is outstanding.
	Busy() bool

	// Selected returns the ids in the selection set.
	Selected() []int

	// UpdateSelected replaces the selection set.
	UpdateSelected(relationIDs []int)

	// ResetSelected empties the selection set.
	ResetSelected()

	// IsRelationSelected reports whether the selection set is non-empty.
	IsRelationSelected() bool

	// List replaces the loaded relations with the server's list.
	List(ctx context.Context) error

	// Create adds a relation and prepends it to the list.
	Create(ctx context.Context, fields domain.Fields) (domain.Relation, error)

	// Update patches a relation and merges the response into the list.
	Update(ctx context.Context, relationID int, fields domain.Fields) error

	// DeleteSelected deletes every selected relation.
	DeleteSelected(ctx context.Context) domain.BulkResult

	// Import creates one relation per entry of a local JSON array file.
	Import(ctx context.Context, path string) (domain.BulkResult, error)

	// Export writes the server's current relation list to a local file
	// and returns its path.
	Export(ctx context.Context) (string, error)

	// Upload sends a relation file for server-side import and reloads.
	Upload(ctx context.Context, path string) error
}
