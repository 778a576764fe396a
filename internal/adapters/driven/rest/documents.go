package rest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driven"
)

// Ensure DocumentService implements the interface.
var _ driven.DocumentAPI = (*DocumentService)(nil)

// DocumentService talks to the document, mapping and approval endpoints.
type DocumentService struct {
	client *Client
}

// NewDocumentService creates a document service.
func NewDocumentService(client *Client) *DocumentService {
	return &DocumentService{client: client}
}

// List returns one page of documents.
func (s *DocumentService) List(ctx context.Context, projectID int, opts domain.SearchOptions) (*domain.DocumentPage, error) {
	query := []RequestOption{
		WithQuery("limit", strconv.Itoa(opts.Limit)),
		WithQuery("offset", strconv.Itoa(opts.Offset)),
		WithQuery("q", opts.Query),
	}
	if opts.FilterName != "" {
		query = append(query, WithQuery(opts.FilterName, opts.IsChecked))
	}

	body, err := s.client.Do(ctx, http.MethodGet, projectPath(projectID, "/docs"), query...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	results, count, err := decodeList[domain.Document](body)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentPage{Count: count, Results: results}, nil
}

// Create adds a single document.
func (s *DocumentService) Create(ctx context.Context, projectID int, payload domain.Fields) (*domain.Document, error) {
	var doc domain.Document
	if err := s.client.DoJSON(ctx, http.MethodPost, projectPath(projectID, "/docs"), &doc, WithJSON(payload)); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return &doc, nil
}

// Update patches a document.
func (s *DocumentService) Update(ctx context.Context, projectID, docID int, payload domain.Fields) (domain.Fields, error) {
	var out domain.Fields
	path := projectPath(projectID, "/docs/%d", docID)
	if err := s.client.DoJSON(ctx, http.MethodPatch, path, &out, WithJSON(payload)); err != nil {
		return nil, fmt.Errorf("update document %d: %w", docID, err)
	}
	return out, nil
}

// Delete removes a document.
func (s *DocumentService) Delete(ctx context.Context, projectID, docID int) error {
	if _, err := s.client.Do(ctx, http.MethodDelete, projectPath(projectID, "/docs/%d", docID)); err != nil {
		return fmt.Errorf("delete document %d: %w", docID, err)
	}
	return nil
}

// Upload posts a file as multipart form data with its format and
// splitter. The server spells the splitter field "spliter".
func (s *DocumentService) Upload(ctx context.Context, projectID int, upload domain.FileUpload) error {
	body, contentType, err := multipartUpload(upload, map[string]string{
		"format":  string(upload.Format),
		"spliter": upload.Splitter,
	})
	if err != nil {
		return err
	}

	if _, err := s.client.Do(ctx, http.MethodPost, projectPath(projectID, "/docs/upload"), WithBody(body, contentType)); err != nil {
		return fmt.Errorf("upload %s: %w", upload.Name, err)
	}
	return nil
}

// Export downloads all documents in format and returns the raw bytes.
func (s *DocumentService) Export(ctx context.Context, projectID int, format domain.ExportFormat) ([]byte, error) {
	body, err := s.client.Do(ctx, http.MethodGet, projectPath(projectID, "/docs/download"),
		WithQuery("q", string(format)),
		WithHeader("Accept", format.ContentType()),
		WithHeader("Content-Type", format.ContentType()),
	)
	if err != nil {
		return nil, fmt.Errorf("export documents as %s: %w", format, err)
	}
	return body, nil
}

// Approve sets or clears the approval of a document.
func (s *DocumentService) Approve(ctx context.Context, projectID, docID int, payload domain.Fields) (domain.Fields, error) {
	var out domain.Fields
	path := projectPath(projectID, "/docs/%d/approve-labels", docID)
	if err := s.client.DoJSON(ctx, http.MethodPost, path, &out, WithJSON(payload)); err != nil {
		return nil, fmt.Errorf("approve document %d: %w", docID, err)
	}
	return out, nil
}

// AddMapping assigns a user to a document.
func (s *DocumentService) AddMapping(ctx context.Context, projectID int, payload domain.Fields) error {
	if err := s.client.DoJSON(ctx, http.MethodPost, projectPath(projectID, "/docmappings"), nil, WithJSON(payload)); err != nil {
		return fmt.Errorf("add document mapping: %w", err)
	}
	return nil
}

// DeleteMapping removes the assignments of a document.
func (s *DocumentService) DeleteMapping(ctx context.Context, projectID, docID int) error {
	if _, err := s.client.Do(ctx, http.MethodDelete, projectPath(projectID, "/docmappings/%d", docID)); err != nil {
		return fmt.Errorf("delete document mapping %d: %w", docID, err)
	}
	return nil
}

// RandomMapping distributes documents among the users of a role.
func (s *DocumentService) RandomMapping(ctx context.Context, projectID int, payload domain.Fields) error {
	if err := s.client.DoJSON(ctx, http.MethodPost, projectPath(projectID, "/randomdocmapping"), nil, WithJSON(payload)); err != nil {
		return fmt.Errorf("random document mapping: %w", err)
	}
	return nil
}
