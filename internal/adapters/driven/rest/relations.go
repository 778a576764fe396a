package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driven"
)

// Ensure RelationService implements the interface.
var _ driven.RelationAPI = (*RelationService)(nil)

// RelationService talks to the relation-type endpoints of a project.
type RelationService struct {
	client *Client
}

// NewRelationService creates a relation service.
func NewRelationService(client *Client) *RelationService {
	return &RelationService{client: client}
}

// List returns every relation type of the project.
func (s *RelationService) List(ctx context.Context, projectID int) ([]domain.Relation, error) {
	body, err := s.client.Do(ctx, http.MethodGet, projectPath(projectID, "/relations"))
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	items, _, err := decodeList[domain.Relation](body)
	return items, err
}

// Create adds a relation type.
func (s *RelationService) Create(ctx context.Context, projectID int, payload domain.Fields) (*domain.Relation, error) {
	var rel domain.Relation
	if err := s.client.DoJSON(ctx, http.MethodPost, projectPath(projectID, "/relations"), &rel, WithJSON(payload)); err != nil {
		return nil, fmt.Errorf("create relation: %w", err)
	}
	return &rel, nil
}

// Update patches a relation type.
func (s *RelationService) Update(ctx context.Context, projectID, relationID int, payload domain.Fields) (domain.Fields, error) {
	var out domain.Fields
	path := projectPath(projectID, "/relations/%d", relationID)
	if err := s.client.DoJSON(ctx, http.MethodPatch, path, &out, WithJSON(payload)); err != nil {
		return nil, fmt.Errorf("update relation %d: %w", relationID, err)
	}
	return out, nil
}

// Delete removes a relation type.
func (s *RelationService) Delete(ctx context.Context, projectID, relationID int) error {
	if _, err := s.client.Do(ctx, http.MethodDelete, projectPath(projectID, "/relations/%d", relationID)); err != nil {
		return fmt.Errorf("delete relation %d: %w", relationID, err)
	}
	return nil
}

// Upload posts a relation definition file for server-side import.
func (s *RelationService) Upload(ctx context.Context, projectID int, upload domain.FileUpload) error {
	body, contentType, err := multipartUpload(upload, nil)
	if err != nil {
		return err
	}
	if _, err := s.client.Do(ctx, http.MethodPost, projectPath(projectID, "/relation-upload"), WithBody(body, contentType)); err != nil {
		return fmt.Errorf("upload relations %s: %w", upload.Name, err)
	}
	return nil
}
