package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driven"
	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
	"github.com/custodia-labs/labelkit/internal/logger"
)

// Ensure RelationStore implements the interface.
var _ driving.RelationStore = (*RelationStore)(nil)

// RelationStore mirrors a project's relation-type definitions.
type RelationStore struct {
	tracker

	relations   driven.RelationAPI
	files       driven.LocalFiles
	concurrency int

	mu       sync.RWMutex
	items    []domain.Relation
	selected []int
}

// NewRelationStore creates a relation store bound to a project.
func NewRelationStore(projectID int, deps Dependencies) *RelationStore {
	return &RelationStore{
		tracker:     tracker{projectID: projectID, notifier: deps.Notifier},
		relations:   deps.Relations,
		files:       deps.Files,
		concurrency: deps.concurrency(),
		items:       []domain.Relation{},
	}
}

// Items returns a copy of the loaded relations.
func (s *RelationStore) Items() []domain.Relation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Selected returns the ids in the selection set.
func (s *RelationStore) Selected() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.selected)
}

// UpdateSelected replaces the selection set.
func (s *RelationStore) UpdateSelected(relationIDs []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = slices.Compact(slices.Sorted(slices.Values(relationIDs)))
}

// ResetSelected empties the selection set.
func (s *RelationStore) ResetSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// IsRelationSelected reports whether the selection set is non-empty.
func (s *RelationStore) IsRelationSelected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected) > 0
}

// List replaces the loaded relations with the server's list.
func (s *RelationStore) List(ctx context.Context) error {
	defer s.begin()()

	relations, err := s.relations.List(ctx, s.projectID)
	if err != nil {
		s.notify(domain.OpListRelations, 0, err)
		return fmt.Errorf("failed to list relations: %w", err)
	}
	if relations == nil {
		relations = []domain.Relation{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = relations
	return nil
}

// Create adds a relation and prepends it to the list.
func (s *RelationStore) Create(ctx context.Context, fields domain.Fields) (domain.Relation, error) {
	rel, err := s.relations.Create(ctx, s.projectID, fields)
	if err != nil {
		return domain.Relation{}, fmt.Errorf("failed to create relation: %w", err)
	}
	s.prepend(*rel)
	return *rel, nil
}

// Update patches a relation and merges the response into the list.
func (s *RelationStore) Update(ctx context.Context, relationID int, fields domain.Fields) error {
	resp, err := s.relations.Update(ctx, s.projectID, relationID, fields)
	if err != nil {
		s.notify(domain.OpUpdateRelation, relationID, err)
		return fmt.Errorf("failed to update relation %d: %w", relationID, err)
	}

	if id, ok := resp.Int("id"); ok {
		relationID = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.items, func(r domain.Relation) bool { return r.ID == relationID })
	if i < 0 {
		return nil
	}
	return applyFields(&s.items[i], resp)
}

// DeleteSelected deletes every selected relation and clears the selection
// once all requests have settled.
func (s *RelationStore) DeleteSelected(ctx context.Context) domain.BulkResult {
	ids := s.Selected()

	result := fanOut(ctx, s.concurrency, ids, func(ctx context.Context, id int) (bool, error) {
		if err := s.relations.Delete(ctx, s.projectID, id); err != nil {
			s.notify(domain.OpDeleteRelation, id, err)
			return false, err
		}
		s.remove(id)
		return false, nil
	})

	s.ResetSelected()
	return result
}

// Import reads a JSON array of relation objects and creates each one.
// Relations are prepended as their requests complete, so the resulting
// order follows completion, not the file. Failures in the returned
// result are keyed by 1-based position in the file.
func (s *RelationStore) Import(ctx context.Context, path string) (domain.BulkResult, error) {
	defer s.begin()()

	data, err := s.files.ReadFile(path)
	if err != nil {
		s.notify(domain.OpImportRelations, 0, err)
		return domain.BulkResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var entries []domain.Fields
	if err := json.Unmarshal(data, &entries); err != nil {
		err = fmt.Errorf("%w: %s is not a JSON array of relations: %v", domain.ErrInvalidInput, path, err)
		s.notify(domain.OpImportRelations, 0, err)
		return domain.BulkResult{}, err
	}

	logger.Debug("Importing %d relations into project %d", len(entries), s.projectID)

	positions := make([]int, len(entries))
	for i := range entries {
		positions[i] = i + 1
	}

	result := fanOut(ctx, s.concurrency, positions, func(ctx context.Context, pos int) (bool, error) {
		rel, err := s.relations.Create(ctx, s.projectID, entries[pos-1])
		if err != nil {
			s.notify(domain.OpImportRelations, pos, err)
			return false, err
		}
		s.prepend(*rel)
		return false, nil
	})

	return result, nil
}

// Export fetches the relation list from the server, ignoring the loaded
// copy, and writes it as project_<id>_relations.json.
func (s *RelationStore) Export(ctx context.Context) (string, error) {
	defer s.begin()()

	relations, err := s.relations.List(ctx, s.projectID)
	if err != nil {
		s.notify(domain.OpExportRelations, 0, err)
		return "", fmt.Errorf("failed to fetch relations: %w", err)
	}
	if relations == nil {
		relations = []domain.Relation{}
	}

	data, err := json.MarshalIndent(relations, "", "  ")
	if err != nil {
		s.notify(domain.OpExportRelations, 0, err)
		return "", fmt.Errorf("failed to encode relations: %w", err)
	}

	path, err := s.files.SaveDownload(fmt.Sprintf("project_%d_relations.json", s.projectID), data)
	if err != nil {
		s.notify(domain.OpExportRelations, 0, err)
		return "", fmt.Errorf("failed to save relations: %w", err)
	}
	return path, nil
}

// Upload sends a relation file for server-side import and reloads.
func (s *RelationStore) Upload(ctx context.Context, path string) error {
	defer s.begin()()

	content, err := s.files.ReadFile(path)
	if err != nil {
		s.notify(domain.OpUploadRelations, 0, err)
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	upload := domain.FileUpload{Name: filepath.Base(path), Content: content}
	if err := s.relations.Upload(ctx, s.projectID, upload); err != nil {
		s.notify(domain.OpUploadRelations, 0, err)
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}

	return s.List(ctx)
}

func (s *RelationStore) prepend(rel domain.Relation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Insert(s.items, 0, rel)
}

func (s *RelationStore) remove(relationID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.DeleteFunc(s.items, func(r domain.Relation) bool { return r.ID == relationID })
}
