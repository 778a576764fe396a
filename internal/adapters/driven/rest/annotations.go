package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driven"
)

var (
	_ driven.AnnotationAPI = (*AnnotationService)(nil)
	_ driven.ConnectionAPI = (*ConnectionService)(nil)
)

// AnnotationService talks to a document's annotation endpoints.
type AnnotationService struct {
	client *Client
}

// NewAnnotationService creates an annotation service.
func NewAnnotationService(client *Client) *AnnotationService {
	return &AnnotationService{client: client}
}

func (s *AnnotationService) List(ctx context.Context, projectID, docID int) ([]domain.Annotation, error) {
	body, err := s.client.Do(ctx, http.MethodGet, projectPath(projectID, "/docs/%d/annotations", docID))
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	items, _, err := decodeList[domain.Annotation](body)
	return items, err
}

func (s *AnnotationService) Create(ctx context.Context, projectID, docID int, payload domain.Fields) (*domain.Annotation, error) {
	var ann domain.Annotation
	path := projectPath(projectID, "/docs/%d/annotations", docID)
	if err := s.client.DoJSON(ctx, http.MethodPost, path, &ann, WithJSON(payload)); err != nil {
		return nil, fmt.Errorf("create annotation: %w", err)
	}
	return &ann, nil
}

func (s *AnnotationService) Update(ctx context.Context, projectID, docID, annotationID int, payload domain.Fields) (domain.Fields, error) {
	var out domain.Fields
	path := projectPath(projectID, "/docs/%d/annotations/%d", docID, annotationID)
	if err := s.client.DoJSON(ctx, http.MethodPatch, path, &out, WithJSON(payload)); err != nil {
		return nil, fmt.Errorf("update annotation %d: %w", annotationID, err)
	}
	return out, nil
}

func (s *AnnotationService) Delete(ctx context.Context, projectID, docID, annotationID int) error {
	path := projectPath(projectID, "/docs/%d/annotations/%d", docID, annotationID)
	if _, err := s.client.Do(ctx, http.MethodDelete, path); err != nil {
		return fmt.Errorf("delete annotation %d: %w", annotationID, err)
	}
	return nil
}

// ConnectionService talks to a document's connection endpoints.
type ConnectionService struct {
	client *Client
}

// NewConnectionService creates a connection service.
func NewConnectionService(client *Client) *ConnectionService {
	return &ConnectionService{client: client}
}

func (s *ConnectionService) List(ctx context.Context, projectID, docID int) ([]domain.Connection, error) {
	body, err := s.client.Do(ctx, http.MethodGet, projectPath(projectID, "/docs/%d/connections", docID))
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	items, _, err := decodeList[domain.Connection](body)
	return items, err
}

func (s *ConnectionService) Create(ctx context.Context, projectID, docID int, payload domain.Fields) (*domain.Connection, error) {
	var conn domain.Connection
	path := projectPath(projectID, "/docs/%d/connections", docID)
	if err := s.client.DoJSON(ctx, http.MethodPost, path, &conn, WithJSON(payload)); err != nil {
		return nil, fmt.Errorf("create connection: %w", err)
	}
	return &conn, nil
}

func (s *ConnectionService) Update(ctx context.Context, projectID, docID, connectionID int, payload domain.Fields) (domain.Fields, error) {
	var out domain.Fields
	path := projectPath(projectID, "/docs/%d/connections/%d", docID, connectionID)
	if err := s.client.DoJSON(ctx, http.MethodPatch, path, &out, WithJSON(payload)); err != nil {
		return nil, fmt.Errorf("update connection %d: %w", connectionID, err)
	}
	return out, nil
}

func (s *ConnectionService) Delete(ctx context.Context, projectID, docID, connectionID int) error {
	path := projectPath(projectID, "/docs/%d/connections/%d", docID, connectionID)
	if _, err := s.client.Do(ctx, http.MethodDelete, path); err != nil {
		return fmt.Errorf("delete connection %d: %w", connectionID, err)
	}
	return nil
}
