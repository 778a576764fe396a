package driven

import (
	"context"

	"github.com/custodia-labs/labelkit/internal/core/domain"
)

// DocumentAPI issues document requests against the annotation server.
// Implementations make exactly one network call per method, never retry,
// and return transport or server failures unmodified.
type DocumentAPI interface {
	// List returns one page of documents matching opts.
	List(ctx context.Context, projectID int, opts domain.SearchOptions) (*domain.DocumentPage, error)

	// Create adds a single document.
	Create(ctx context.Context, projectID int, payload domain.Fields) (*domain.Document, error)

	// Update patches a document and returns the server's representation.
	Update(ctx context.Context, projectID, docID int, payload domain.Fields) (domain.Fields, error)

	// Delete removes a document.
	Delete(ctx context.Context, projectID, docID int) error

	// Upload sends a file for the server to split into documents.
	Upload(ctx context.Context, projectID int, upload domain.FileUpload) error

	// Export downloads every document of the project in the given format.
	Export(ctx context.Context, projectID int, format domain.ExportFormat) ([]byte, error)

	// Approve sets or clears the approval of a document's annotations.
	Approve(ctx context.Context, projectID, docID int, payload domain.Fields) (domain.Fields, error)

	// AddMapping assigns a user to a document.
	AddMapping(ctx context.Context, projectID int, payload domain.Fields) error

	// DeleteMapping removes the assignments of a document.
	DeleteMapping(ctx context.Context, projectID, docID int) error

	// RandomMapping asks the server to distribute documents among users of a role.
	RandomMapping(ctx context.Context, projectID int, payload domain.Fields) error
}

// AnnotationAPI issues annotation requests for one document.
type AnnotationAPI interface {
	List(ctx context.Context, projectID, docID int) ([]domain.Annotation, error)
	Create(ctx context.Context, projectID, docID int, payload domain.Fields) (*domain.Annotation, error)
	Update(ctx context.Context, projectID, docID, annotationID int, payload domain.Fields) (domain.Fields, error)
	Delete(ctx context.Context, projectID, docID, annotationID int) error
}

// ConnectionAPI issues connection requests for one document.
type ConnectionAPI interface {
	List(ctx context.Context, projectID, docID int) ([]domain.Connection, error)
	Create(ctx context.Context, projectID, docID int, payload domain.Fields) (*domain.Connection, error)
	Update(ctx context.Context, projectID, docID, connectionID int, payload domain.Fields) (domain.Fields, error)
	Delete(ctx context.Context, projectID, docID, connectionID int) error
}

// RelationAPI issues relation-type requests for a project.
type RelationAPI interface {
	List(ctx context.Context, projectID int) ([]domain.Relation, error)
	Create(ctx context.Context, projectID int, payload domain.Fields) (*domain.Relation, error)
	Update(ctx context.Context, projectID, relationID int, payload domain.Fields) (domain.Fields, error)
	Delete(ctx context.Context, projectID, relationID int) error

	// Upload sends a relation definition file for server-side import.
	Upload(ctx context.Context, projectID int, upload domain.FileUpload) error
}
