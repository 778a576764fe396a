package services

import (
	"sync"

	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
)

// Ensure Workspace implements the interface.
var _ driving.Workspace = (*Workspace)(nil)

// Workspace owns one document store and one relation store per project.
// Stores are created on first use and live as long as the workspace.
type Workspace struct {
	deps Dependencies

	mu        sync.Mutex
	documents map[int]*DocumentStore
	relations map[int]*RelationStore
}

// NewWorkspace creates an empty workspace.
func NewWorkspace(deps Dependencies) *Workspace {
	return &Workspace{
		deps:      deps,
		documents: make(map[int]*DocumentStore),
		relations: make(map[int]*RelationStore),
	}
}

// Documents returns the document store for a project.
func (w *Workspace) Documents(projectID int) driving.DocumentStore {
	w.mu.Lock()
	defer w.mu.Unlock()

	store, ok := w.documents[projectID]
	if !ok {
		store = NewDocumentStore(projectID, w.deps)
		w.documents[projectID] = store
	}
	return store
}

// Relations returns the relation store for a project.
func (w *Workspace) Relations(projectID int) driving.RelationStore {
	w.mu.Lock()
	defer w.mu.Unlock()

	store, ok := w.relations[projectID]
	if !ok {
		store = NewRelationStore(projectID, w.deps)
		w.relations[projectID] = store
	}
	return store
}
