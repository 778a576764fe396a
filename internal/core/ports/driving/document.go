package driving

import (
	"context"

	"github.com/custodia-labs/labelkit/internal/core/domain"
)

// DocumentStore mirrors one page of a project's documents and the
// annotations and connections of the current document.
//
// Every mutating method blocks until the server has answered and the
// in-memory state reflects the result. Failures are returned and also
// published to the notifier.
type DocumentStore interface {
	// ProjectID returns the project this store is bound to.
	ProjectID() int

	// Items returns a copy of the loaded page.
	Items() []domain.Document

	// Total returns the number of documents matching the current search.
	Total() int

	// Busy reports whether any busy-gated operation is outstanding.
	Busy() bool

	// Current returns the current document, if one is set and loaded.
	Current() (domain.Document, bool)

	// SetCurrent makes the document with the given id current.
	SetCurrent(docID int) error

	// Approved reports whether the current document is approved.
	Approved() bool

	// Selected returns the ids in the selection set.
	Selected() []int

	// UpdateSelected replaces the selection set.
	UpdateSelected(docIDs []int)

	// ToggleSelected adds or removes one id from the selection set.
	ToggleSelected(docID int)

	// ResetSelected empties the selection set.
	ResetSelected()

	// IsDocumentSelected reports whether the selection set is non-empty.
	IsDocumentSelected() bool

	// SearchOptions returns the options used by List.
	SearchOptions() domain.SearchOptions

	// UpdateSearchOptions merges patch into the search options.
	UpdateSearchOptions(patch domain.SearchOptionsPatch)

	// ResetSearchOptions restores the default search options.
	ResetSearchOptions()

	// NextPage advances the offset by one page if more documents exist.
	NextPage() bool

	// PrevPage moves the offset back by one page, never below zero.
	PrevPage() bool

	// List replaces the loaded page with the server's page for the
	// current search options.
	List(ctx context.Context) error

	// Locate makes docID current, paging through the project's documents
	// if it is not loaded.
	Locate(ctx context.Context, docID int) error

	// Document returns a copy of the document with docID, paging to it
	// like Locate. The current document is left alone.
	Document(ctx context.Context, docID int) (domain.Document, error)

	// ApproveDocument toggles the approval of docID and returns the
	// document as the server reported it.
	ApproveDocument(ctx context.Context, docID int) (domain.Document, error)

	// Upload sends a local file to the server and reloads the page.
	Upload(ctx context.Context, path string, format domain.UploadFormat, splitter string) error

	// Export downloads all documents in format and returns the written path.
	Export(ctx context.Context, format domain.ExportFormat) (string, error)

	// Update patches a document and merges the response into the page.
	Update(ctx context.Context, docID int, fields domain.Fields) error

	// DeleteSelected deletes every selected document.
	DeleteSelected(ctx context.Context) domain.BulkResult

	// AddMapping assigns a user to every selected document the user is
	// not already assigned to.
	AddMapping(ctx context.Context, userID int, username string) domain.BulkResult

	// RemoveMapping removes the assignments of every selected document.
	RemoveMapping(ctx context.Context) domain.BulkResult

	// RandomMapping lets the server assign number documents per user of role.
	RandomMapping(ctx context.Context, role string, number int) error

	// AddAnnotation creates an annotation on the current document.
	AddAnnotation(ctx context.Context, fields domain.Fields) (domain.Annotation, error)

	// UpdateAnnotation patches an annotation of the current document.
	UpdateAnnotation(ctx context.Context, annotationID int, fields domain.Fields) error

	// DeleteAnnotation deletes an annotation of the current document and
	// every connection that references it.
	DeleteAnnotation(ctx context.Context, annotationID int) error

	// AddConnection links two annotations of the current document.
	AddConnection(ctx context.Context, fields domain.Fields) (domain.Connection, error)

	// UpdateConnection patches a connection of the current document.
	UpdateConnection(ctx context.Context, connectionID int, fields domain.Fields) error

	// DeleteConnection deletes a connection of the current document.
	DeleteConnection(ctx context.Context, connectionID int) error

	// Approve toggles the approval of the current document.
	Approve(ctx context.Context) error
}
