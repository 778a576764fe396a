// Package tuitest provides an in-memory document store for testing the
// browser's views.
package tuitest

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
)

// Store is a driving.DocumentStore over a fixed page. Methods the browser
// never calls panic through the nil embedded interface.
type Store struct {
	driving.DocumentStore

	mu       sync.Mutex
	docs     []domain.Document
	count    int
	opts     domain.SearchOptions
	current  int
	selected []int

	// ListErr is returned by List.
	ListErr error
	// ApproveErr is returned by Approve.
	ApproveErr error
	// DeleteErrs fails the deletion of the given ids.
	DeleteErrs map[int]error

	ListCalls    int
	ApproveCalls int
}

// NewStore returns a store holding docs as its page, with count documents
// matching in total.
func NewStore(count int, docs ...domain.Document) *Store {
	return &Store{
		docs:  docs,
		count: count,
		opts:  domain.DefaultSearchOptions(),
	}
}

// Sample returns three documents; the second is approved.
func Sample() []domain.Document {
	approver := "alice"
	return []domain.Document{
		{
			ID:   1,
			Text: "Alice met Bob in Paris",
			Annotations: []domain.Annotation{
				{ID: 10, Label: 1, StartOffset: 0, EndOffset: 5},
				{ID: 11, Label: 1, StartOffset: 10, EndOffset: 13},
			},
			Connections: []domain.Connection{{ID: 100, Source: 10, To: 11, Relation: 3}},
		},
		{ID: 2, Text: "second document", AnnotationApprover: &approver},
		{ID: 3, Text: "third document"},
	}
}

func (s *Store) ProjectID() int { return 1 }

func (s *Store) Items() []domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Document, len(s.docs))
	for i := range s.docs {
		out[i] = s.docs[i].Clone()
	}
	return out
}

func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Store) Current() (domain.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(s.current); i >= 0 {
		return s.docs[i].Clone(), true
	}
	return domain.Document{}, false
}

func (s *Store) SetCurrent(docID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(docID) < 0 {
		return domain.ErrNotFound
	}
	s.current = docID
	return nil
}

func (s *Store) Approved() bool {
	doc, ok := s.Current()
	return ok && doc.IsApproved()
}

func (s *Store) Selected() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selected)
}

func (s *Store) ToggleSelected(docID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, found := slices.BinarySearch(s.selected, docID); found {
		s.selected = slices.Delete(s.selected, i, i+1)
	} else {
		s.selected = slices.Insert(s.selected, i, docID)
	}
}

func (s *Store) IsDocumentSelected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selected) > 0
}

func (s *Store) SearchOptions() domain.SearchOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

func (s *Store) NextPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.Offset+s.opts.Limit >= s.count {
		return false
	}
	s.opts.Offset += s.opts.Limit
	return true
}

func (s *Store) PrevPage() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.Offset == 0 {
		return false
	}
	s.opts.Offset = max(0, s.opts.Offset-s.opts.Limit)
	return true
}

func (s *Store) List(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	return s.ListErr
}

func (s *Store) DeleteSelected(context.Context) domain.BulkResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := domain.BulkResult{Attempted: len(s.selected)}
	for _, id := range s.selected {
		if err := s.DeleteErrs[id]; err != nil {
			if res.Failed == nil {
				res.Failed = make(map[int]error)
			}
			res.Failed[id] = err
			continue
		}
		if i := s.indexOf(id); i >= 0 {
			s.docs = slices.Delete(s.docs, i, i+1)
			s.count--
		}
		res.Succeeded++
	}
	s.selected = nil
	return res
}

func (s *Store) Approve(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ApproveCalls++
	if s.ApproveErr != nil {
		return s.ApproveErr
	}
	i := s.indexOf(s.current)
	if i < 0 {
		return domain.ErrNoCurrentDocument
	}
	if s.docs[i].IsApproved() {
		s.docs[i].AnnotationApprover = nil
	} else {
		approver := "tester"
		s.docs[i].AnnotationApprover = &approver
	}
	return nil
}

func (s *Store) indexOf(docID int) int {
	return slices.IndexFunc(s.docs, func(d domain.Document) bool { return d.ID == docID })
}
