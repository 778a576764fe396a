package mcp

import (
	"context"
	"fmt"
	"slices"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
)

// mockWorkspace hands out one store of each kind and records the project.
type mockWorkspace struct {
	docs      *mockDocumentStore
	relations *mockRelationStore
	projects  []int
}

func newMockWorkspace() *mockWorkspace {
	return &mockWorkspace{
		docs:      &mockDocumentStore{options: domain.DefaultSearchOptions()},
		relations: &mockRelationStore{},
	}
}

func (m *mockWorkspace) Documents(projectID int) driving.DocumentStore {
	m.projects = append(m.projects, projectID)
	return m.docs
}

func (m *mockWorkspace) Relations(projectID int) driving.RelationStore {
	m.projects = append(m.projects, projectID)
	return m.relations
}

// mockDocumentStore implements the parts of driving.DocumentStore the
// server uses; the embedded interface panics on anything else.
type mockDocumentStore struct {
	driving.DocumentStore

	page    []domain.Document
	total   int
	options domain.SearchOptions
	listErr error

	// onApprove runs while an approval is in flight.
	onApprove func()
}

func (m *mockDocumentStore) ResetSearchOptions() { m.options = domain.DefaultSearchOptions() }

func (m *mockDocumentStore) UpdateSearchOptions(p domain.SearchOptionsPatch) {
	m.options = p.Apply(m.options)
}

func (m *mockDocumentStore) SearchOptions() domain.SearchOptions { return m.options }

func (m *mockDocumentStore) List(_ context.Context) error { return m.listErr }

func (m *mockDocumentStore) Items() []domain.Document { return slices.Clone(m.page) }

func (m *mockDocumentStore) Total() int { return m.total }

func (m *mockDocumentStore) find(docID int) (int, error) {
	if m.listErr != nil {
		return -1, m.listErr
	}
	for i := range m.page {
		if m.page[i].ID == docID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("document %d: %w", docID, domain.ErrNotFound)
}

func (m *mockDocumentStore) Document(_ context.Context, docID int) (domain.Document, error) {
	i, err := m.find(docID)
	if err != nil {
		return domain.Document{}, err
	}
	return m.page[i].Clone(), nil
}

func (m *mockDocumentStore) ApproveDocument(_ context.Context, docID int) (domain.Document, error) {
	i, err := m.find(docID)
	if err != nil {
		return domain.Document{}, err
	}
	if m.onApprove != nil {
		m.onApprove()
	}
	if m.page[i].IsApproved() {
		m.page[i].AnnotationApprover = nil
	} else {
		name := "admin"
		m.page[i].AnnotationApprover = &name
	}
	return m.page[i].Clone(), nil
}

// mockRelationStore implements the parts of driving.RelationStore the
// server uses.
type mockRelationStore struct {
	driving.RelationStore

	items     []domain.Relation
	listErr   error
	createErr error
	created   []domain.Fields
}

func (m *mockRelationStore) List(_ context.Context) error { return m.listErr }

func (m *mockRelationStore) Items() []domain.Relation { return slices.Clone(m.items) }

func (m *mockRelationStore) Create(_ context.Context, fields domain.Fields) (domain.Relation, error) {
	if m.createErr != nil {
		return domain.Relation{}, m.createErr
	}
	m.created = append(m.created, fields)
	text, _ := fields["text"].(string)
	color, _ := fields["color"].(string)
	rel := domain.Relation{ID: len(m.items) + 1, Text: text, Color: color}
	m.items = append([]domain.Relation{rel}, m.items...)
	return rel, nil
}

func sampleDocuments() []domain.Document {
	bob := "bob"
	return []domain.Document{
		{
			ID:   1,
			Text: "Alice met Bob",
			Annotations: []domain.Annotation{
				{ID: 10, Label: 1, StartOffset: 0, EndOffset: 5},
				{ID: 11, Label: 1, StartOffset: 10, EndOffset: 13},
			},
			Connections:     []domain.Connection{{ID: 100, Source: 10, To: 11, Relation: 7}},
			AnnotatorAssign: []string{"carol"},
		},
		{ID: 2, Text: "second", AnnotationApprover: &bob},
	}
}
