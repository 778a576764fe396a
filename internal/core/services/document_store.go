package services

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driven"
	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
	"github.com/custodia-labs/labelkit/internal/logger"
)

// Ensure DocumentStore implements the interface.
var _ driving.DocumentStore = (*DocumentStore)(nil)

// DocumentStore mirrors one page of a project's documents.
type DocumentStore struct {
	tracker

	docs        driven.DocumentAPI
	annotations driven.AnnotationAPI
	connections driven.ConnectionAPI
	files       driven.LocalFiles
	concurrency int

	// seek serialises page walks so that concurrent by-id lookups do not
	// move each other's search offset.
	seek sync.Mutex

	mu       sync.RWMutex
	items    []domain.Document
	total    int
	current  int
	selected []int
	options  domain.SearchOptions
	defaults domain.SearchOptions
}

// NewDocumentStore creates a document store bound to a project.
func NewDocumentStore(projectID int, deps Dependencies) *DocumentStore {
	opts := deps.searchOptions()
	return &DocumentStore{
		tracker:     tracker{projectID: projectID, notifier: deps.Notifier},
		docs:        deps.Documents,
		annotations: deps.Annotations,
		connections: deps.Connections,
		files:       deps.Files,
		concurrency: deps.concurrency(),
		items:       []domain.Document{},
		options:     opts,
		defaults:    opts,
	}
}

// Items returns a copy of the loaded page.
func (s *DocumentStore) Items() []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Document, len(s.items))
	for i := range s.items {
		out[i] = s.items[i].Clone()
	}
	return out
}

// Total returns the number of documents matching the current search.
func (s *DocumentStore) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Current returns the current document, if one is set and loaded.
func (s *DocumentStore) Current() (domain.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(s.current)
	if i < 0 {
		return domain.Document{}, false
	}
	return s.items[i].Clone(), true
}

// SetCurrent makes the document with the given id current.
func (s *DocumentStore) SetCurrent(docID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(docID) < 0 {
		return fmt.Errorf("document %d: %w", docID, domain.ErrNotFound)
	}
	s.current = docID
	return nil
}

// Approved reports whether the current document is approved.
func (s *DocumentStore) Approved() bool {
	doc, ok := s.Current()
	return ok && doc.IsApproved()
}

// Selected returns the ids in the selection set.
func (s *DocumentStore) Selected() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.selected)
}

// UpdateSelected replaces the selection set.
func (s *DocumentStore) UpdateSelected(docIDs []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = slices.Compact(slices.Sorted(slices.Values(docIDs)))
}

// ToggleSelected adds or removes one id from the selection set.
func (s *DocumentStore) ToggleSelected(docID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, found := slices.BinarySearch(s.selected, docID); found {
		s.selected = slices.Delete(s.selected, i, i+1)
	} else {
		s.selected = slices.Insert(s.selected, i, docID)
	}
}

// ResetSelected empties the selection set.
func (s *DocumentStore) ResetSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// IsDocumentSelected reports whether the selection set is non-empty.
func (s *DocumentStore) IsDocumentSelected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected) > 0
}

// SearchOptions returns the options used by List.
func (s *DocumentStore) SearchOptions() domain.SearchOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.options
}

// UpdateSearchOptions merges patch into the search options.
func (s *DocumentStore) UpdateSearchOptions(patch domain.SearchOptionsPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = patch.Apply(s.options)
}

// ResetSearchOptions restores the default search options.
func (s *DocumentStore) ResetSearchOptions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = s.defaults
}

// NextPage advances the offset by one page if more documents exist.
func (s *DocumentStore) NextPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.options.Limit <= 0 || s.options.Offset+s.options.Limit >= s.total {
		return false
	}
	s.options.Offset += s.options.Limit
	return true
}

// PrevPage moves the offset back by one page, never below zero.
func (s *DocumentStore) PrevPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.options.Offset == 0 {
		return false
	}
	s.options.Offset = max(0, s.options.Offset-s.options.Limit)
	return true
}

// List replaces the loaded page with the server's page for the current
// search options. The result never merges with the previous page.
func (s *DocumentStore) List(ctx context.Context) error {
	defer s.begin()()

	opts := s.SearchOptions()
	logger.Debug("Listing documents: project=%d limit=%d offset=%d q=%q", s.projectID, opts.Limit, opts.Offset, opts.Query)

	page, err := s.docs.List(ctx, s.projectID, opts)
	if err != nil {
		s.notify(domain.OpListDocuments, 0, err)
		return fmt.Errorf("failed to list documents: %w", err)
	}

	results := page.Results
	if results == nil {
		results = []domain.Document{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = results
	s.total = page.Count
	if s.indexOf(s.current) < 0 {
		s.current = 0
	}
	return nil
}

// Locate makes docID current, paging through the unfiltered document
// list from the start if it is not on the loaded page. The search
// options are left on the page where the document was found.
func (s *DocumentStore) Locate(ctx context.Context, docID int) error {
	s.seek.Lock()
	defer s.seek.Unlock()

	if _, err := s.find(ctx, docID); err != nil {
		return err
	}
	return s.SetCurrent(docID)
}

// Document returns a copy of docID without changing the current
// document. It pages to the document like Locate.
func (s *DocumentStore) Document(ctx context.Context, docID int) (domain.Document, error) {
	s.seek.Lock()
	defer s.seek.Unlock()
	return s.find(ctx, docID)
}

// find returns docID from the loaded page, or walks the unfiltered list
// from the first page until it is loaded. Caller must hold seek.
func (s *DocumentStore) find(ctx context.Context, docID int) (domain.Document, error) {
	if doc, ok := s.lookup(docID); ok {
		return doc, nil
	}

	s.ResetSearchOptions()
	for {
		if err := s.List(ctx); err != nil {
			return domain.Document{}, err
		}
		if doc, ok := s.lookup(docID); ok {
			return doc, nil
		}
		if !s.NextPage() {
			return domain.Document{}, fmt.Errorf("document %d: %w", docID, domain.ErrNotFound)
		}
	}
}

// lookup returns a copy of docID if it is on the loaded page.
func (s *DocumentStore) lookup(docID int) (domain.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(docID)
	if i < 0 {
		return domain.Document{}, false
	}
	return s.items[i].Clone(), true
}

// Upload sends a local file to the server and reloads the page so that
// server-assigned ids and pagination are reflected.
func (s *DocumentStore) Upload(ctx context.Context, path string, format domain.UploadFormat, splitter string) error {
	if err := validateUploadFormat(format); err != nil {
		s.notify(domain.OpUploadDocuments, 0, err)
		return err
	}

	defer s.begin()()

	content, err := s.files.ReadFile(path)
	if err != nil {
		s.notify(domain.OpUploadDocuments, 0, err)
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	logger.Debug("Uploading %s (%d bytes) as %s", path, len(content), format)
	upload := domain.FileUpload{
		Name:     filepath.Base(path),
		Content:  content,
		Format:   format,
		Splitter: splitter,
	}
	if err := s.docs.Upload(ctx, s.projectID, upload); err != nil {
		s.notify(domain.OpUploadDocuments, 0, err)
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}

	return s.List(ctx)
}

// Export downloads every document in format and writes it to the
// downloads directory as file.<format>.
func (s *DocumentStore) Export(ctx context.Context, format domain.ExportFormat) (string, error) {
	if err := validateExportFormat(format); err != nil {
		s.notify(domain.OpExportDocuments, 0, err)
		return "", err
	}

	defer s.begin()()

	data, err := s.docs.Export(ctx, s.projectID, format)
	if err != nil {
		s.notify(domain.OpExportDocuments, 0, err)
		return "", fmt.Errorf("failed to export documents: %w", err)
	}

	path, err := s.files.SaveDownload(format.FileName(), data)
	if err != nil {
		s.notify(domain.OpExportDocuments, 0, err)
		return "", fmt.Errorf("failed to save export: %w", err)
	}

	logger.Info("Exported %d bytes to %s", len(data), path)
	return path, nil
}

// Update patches a document and merges the response into the page.
// It is not busy-gated so field edits stay responsive.
func (s *DocumentStore) Update(ctx context.Context, docID int, fields domain.Fields) error {
	resp, err := s.docs.Update(ctx, s.projectID, docID, fields)
	if err != nil {
		s.notify(domain.OpUpdateDocument, docID, err)
		return fmt.Errorf("failed to update document %d: %w", docID, err)
	}
	return s.mergeDocument(docID, resp)
}

// DeleteSelected deletes every selected document. Each success removes
// its document from the page; the selection is cleared once all
// requests have settled.
func (s *DocumentStore) DeleteSelected(ctx context.Context) domain.BulkResult {
	ids := s.Selected()
	logger.Debug("Deleting %d documents from project %d", len(ids), s.projectID)

	result := fanOut(ctx, s.concurrency, ids, func(ctx context.Context, id int) (bool, error) {
		if err := s.docs.Delete(ctx, s.projectID, id); err != nil {
			s.notify(domain.OpDeleteDocument, id, err)
			return false, err
		}
		s.removeDocument(id)
		return false, nil
	})

	s.ResetSelected()
	logger.Debug("Deleted %d/%d documents", result.Succeeded, result.Attempted)
	return result
}

// AddMapping assigns a user to every selected document. Documents whose
// annotator or approver list already holds username are skipped; the
// check uses the loaded page, which may be stale.
func (s *DocumentStore) AddMapping(ctx context.Context, userID int, username string) domain.BulkResult {
	ids := s.Selected()

	result := fanOut(ctx, s.concurrency, ids, func(ctx context.Context, id int) (bool, error) {
		if s.isAssigned(id, username) {
			logger.Debug("Skipping document %d: %s already assigned", id, username)
			return true, nil
		}
		payload := domain.Fields{"document": id, "user": userID}
		if err := s.docs.AddMapping(ctx, s.projectID, payload); err != nil {
			s.notify(domain.OpAddMapping, id, err)
			return false, err
		}
		return false, nil
	})

	s.ResetSelected()
	return result
}

// RemoveMapping removes the assignments of every selected document.
func (s *DocumentStore) RemoveMapping(ctx context.Context) domain.BulkResult {
	ids := s.Selected()

	result := fanOut(ctx, s.concurrency, ids, func(ctx context.Context, id int) (bool, error) {
		if err := s.docs.DeleteMapping(ctx, s.projectID, id); err != nil {
			s.notify(domain.OpRemoveMapping, id, err)
			return false, err
		}
		return false, nil
	})

	s.ResetSelected()
	return result
}

// RandomMapping lets the server assign number documents to every user of
// role, then reloads the page.
func (s *DocumentStore) RandomMapping(ctx context.Context, role string, number int) error {
	if err := validateRandomMapping(role, number); err != nil {
		s.notify(domain.OpRandomMapping, 0, err)
		return err
	}

	defer s.begin()()

	payload := domain.Fields{"role": role, "number": number}
	if err := s.docs.RandomMapping(ctx, s.projectID, payload); err != nil {
		s.notify(domain.OpRandomMapping, 0, err)
		return fmt.Errorf("failed to assign documents: %w", err)
	}
	return s.List(ctx)
}

// AddAnnotation creates an annotation on the current document.
func (s *DocumentStore) AddAnnotation(ctx context.Context, fields domain.Fields) (domain.Annotation, error) {
	docID, err := s.currentID()
	if err != nil {
		return domain.Annotation{}, err
	}

	ann, err := s.annotations.Create(ctx, s.projectID, docID, fields)
	if err != nil {
		s.notify(domain.OpAddAnnotation, docID, err)
		return domain.Annotation{}, fmt.Errorf("failed to add annotation: %w", err)
	}

	_ = s.withDocument(docID, func(doc *domain.Document) error {
		doc.Annotations = append(doc.Annotations, *ann)
		return nil
	})
	return *ann, nil
}

// UpdateAnnotation patches an annotation of the current document.
func (s *DocumentStore) UpdateAnnotation(ctx context.Context, annotationID int, fields domain.Fields) error {
	docID, err := s.currentID()
	if err != nil {
		return err
	}

	resp, err := s.annotations.Update(ctx, s.projectID, docID, annotationID, fields)
	if err != nil {
		s.notify(domain.OpUpdateAnnotation, annotationID, err)
		return fmt.Errorf("failed to update annotation %d: %w", annotationID, err)
	}

	return s.withDocument(docID, func(doc *domain.Document) error {
		i := slices.IndexFunc(doc.Annotations, func(a domain.Annotation) bool { return a.ID == annotationID })
		if i < 0 {
			return nil
		}
		return applyFields(&doc.Annotations[i], resp)
	})
}

// DeleteAnnotation deletes an annotation of the current document together
// with every connection that uses it as source or target.
func (s *DocumentStore) DeleteAnnotation(ctx context.Context, annotationID int) error {
	docID, err := s.currentID()
	if err != nil {
		return err
	}

	if err := s.annotations.Delete(ctx, s.projectID, docID, annotationID); err != nil {
		s.notify(domain.OpDeleteAnnotation, annotationID, err)
		return fmt.Errorf("failed to delete annotation %d: %w", annotationID, err)
	}

	return s.withDocument(docID, func(doc *domain.Document) error {
		doc.RemoveAnnotation(annotationID)
		return nil
	})
}

// AddConnection links two annotations of the current document. Both
// endpoints must exist locally before the request is sent.
func (s *DocumentStore) AddConnection(ctx context.Context, fields domain.Fields) (domain.Connection, error) {
	docID, err := s.currentID()
	if err != nil {
		return domain.Connection{}, err
	}

	if err := s.checkEndpoints(docID, fields); err != nil {
		s.notify(domain.OpAddConnection, docID, err)
		return domain.Connection{}, err
	}

	conn, err := s.connections.Create(ctx, s.projectID, docID, fields)
	if err != nil {
		s.notify(domain.OpAddConnection, docID, err)
		return domain.Connection{}, fmt.Errorf("failed to add connection: %w", err)
	}

	_ = s.withDocument(docID, func(doc *domain.Document) error {
		doc.Connections = append(doc.Connections, *conn)
		return nil
	})
	return *conn, nil
}

// UpdateConnection patches a connection of the current document.
func (s *DocumentStore) UpdateConnection(ctx context.Context, connectionID int, fields domain.Fields) error {
	docID, err := s.currentID()
	if err != nil {
		return err
	}

	resp, err := s.connections.Update(ctx, s.projectID, docID, connectionID, fields)
	if err != nil {
		s.notify(domain.OpUpdateConnection, connectionID, err)
		return fmt.Errorf("failed to update connection %d: %w", connectionID, err)
	}

	return s.withDocument(docID, func(doc *domain.Document) error {
		i := slices.IndexFunc(doc.Connections, func(c domain.Connection) bool { return c.ID == connectionID })
		if i < 0 {
			return nil
		}
		return applyFields(&doc.Connections[i], resp)
	})
}

// DeleteConnection deletes a connection of the current document.
func (s *DocumentStore) DeleteConnection(ctx context.Context, connectionID int) error {
	docID, err := s.currentID()
	if err != nil {
		return err
	}

	if err := s.connections.Delete(ctx, s.projectID, docID, connectionID); err != nil {
		s.notify(domain.OpDeleteConnection, connectionID, err)
		return fmt.Errorf("failed to delete connection %d: %w", connectionID, err)
	}

	return s.withDocument(docID, func(doc *domain.Document) error {
		doc.RemoveConnection(connectionID)
		return nil
	})
}

// Approve toggles the approval of the current document and merges the
// server's answer into it.
func (s *DocumentStore) Approve(ctx context.Context) error {
	doc, ok := s.Current()
	if !ok {
		return domain.ErrNoCurrentDocument
	}
	_, err := s.approve(ctx, doc)
	return err
}

// ApproveDocument toggles the approval of docID, paging to it if needed,
// and returns the document with the server's response applied. The
// current document is left alone.
func (s *DocumentStore) ApproveDocument(ctx context.Context, docID int) (domain.Document, error) {
	doc, err := s.Document(ctx, docID)
	if err != nil {
		return domain.Document{}, err
	}
	return s.approve(ctx, doc)
}

// approve sends the toggle for doc and merges the response into both the
// page and the returned copy.
func (s *DocumentStore) approve(ctx context.Context, doc domain.Document) (domain.Document, error) {
	payload := domain.Fields{"approved": !doc.IsApproved()}
	resp, err := s.docs.Approve(ctx, s.projectID, doc.ID, payload)
	if err != nil {
		s.notify(domain.OpApproveDocument, doc.ID, err)
		return domain.Document{}, fmt.Errorf("failed to approve document %d: %w", doc.ID, err)
	}
	if err := applyFields(&doc, resp); err != nil {
		return domain.Document{}, err
	}
	if err := s.mergeDocument(doc.ID, resp); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

// indexOf returns the position of docID in the page (caller must hold lock).
func (s *DocumentStore) indexOf(docID int) int {
	if docID == 0 {
		return -1
	}
	return slices.IndexFunc(s.items, func(d domain.Document) bool { return d.ID == docID })
}

// currentID returns the id of the current document if it is still loaded.
func (s *DocumentStore) currentID() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.indexOf(s.current) < 0 {
		return 0, domain.ErrNoCurrentDocument
	}
	return s.current, nil
}

// withDocument runs fn on the loaded document with the given id. Documents
// that left the page while a request was in flight are ignored.
func (s *DocumentStore) withDocument(docID int, fn func(doc *domain.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(docID)
	if i < 0 {
		logger.Debug("Document %d no longer loaded, dropping update", docID)
		return nil
	}
	return fn(&s.items[i])
}

// mergeDocument applies a server response onto a loaded document. The
// response's id wins over docID when present.
func (s *DocumentStore) mergeDocument(docID int, fields domain.Fields) error {
	if id, ok := fields.Int("id"); ok {
		docID = id
	}
	return s.withDocument(docID, func(doc *domain.Document) error {
		return applyFields(doc, fields)
	})
}

func (s *DocumentStore) removeDocument(docID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(docID)
	if i < 0 {
		return
	}
	s.items = slices.Delete(s.items, i, i+1)
	if s.total > 0 {
		s.total--
	}
	if s.current == docID {
		s.current = 0
	}
}

func (s *DocumentStore) isAssigned(docID int, username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(docID)
	return i >= 0 && s.items[i].IsAssigned(username)
}

// checkEndpoints verifies that a connection's source and target exist in
// the document's annotations.
func (s *DocumentStore) checkEndpoints(docID int, fields domain.Fields) error {
	source, okSource := fields.Int("source")
	to, okTo := fields.Int("to")
	if !okSource || !okTo {
		return fmt.Errorf("%w: connection needs source and to", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(docID)
	if i < 0 {
		return domain.ErrNoCurrentDocument
	}
	for _, id := range []int{source, to} {
		if !s.items[i].HasAnnotation(id) {
			return fmt.Errorf("annotation %d: %w", id, domain.ErrDanglingConnection)
		}
	}
	return nil
}
