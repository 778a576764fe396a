package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/logger"
)

// RequestIDHeader carries a per-request UUID for correlating client and
// server logs.
const RequestIDHeader = "X-Request-ID"

// Client sends authenticated requests to the annotation server.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *limiter
	log     hclog.Logger
}

// NewClient creates a client. BaseURL and Token are required.
func NewClient(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	if cfg.BaseURL == "" || cfg.Token == "" {
		return nil, fmt.Errorf("%w: server url and token are required", domain.ErrNotConfigured)
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: invalid server url: %v", domain.ErrInvalidInput, err)
	}

	return &Client{
		cfg:     cfg,
		http:    cfg.newHTTPClient(),
		limiter: newLimiter(cfg.RateLimit, cfg.Burst),
		log:     logger.Component("rest"),
	}, nil
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

type request struct {
	query  url.Values
	header http.Header
	body   io.Reader
	json   any
}

// RequestOption customises a single request. Options are applied over
// the client defaults, so a header set here replaces the default one.
type RequestOption func(*request)

// WithQuery adds a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(r *request) { r.query.Add(key, value) }
}

// WithHeader sets a header.
func WithHeader(key, value string) RequestOption {
	return func(r *request) { r.header.Set(key, value) }
}

// WithJSON sends v as a JSON body.
func WithJSON(v any) RequestOption {
	return func(r *request) {
		r.json = v
		r.header.Set("Content-Type", "application/json")
	}
}

// WithBody sends raw bytes with the given content type.
func WithBody(body io.Reader, contentType string) RequestOption {
	return func(r *request) {
		r.body = body
		r.header.Set("Content-Type", contentType)
	}
}

// Do sends one request and returns the response body. Non-2xx responses
// are returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, opts ...RequestOption) ([]byte, error) {
	r := &request{query: url.Values{}, header: http.Header{}}
	r.header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(r)
	}

	body := r.body
	if r.json != nil {
		data, err := json.Marshal(r.json)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	endpoint := c.cfg.BaseURL + path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range r.header {
		req.Header[k] = v
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.limiter.Observe(resp)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Message:    errorMessage(respBody),
			Body:       respBody,
		}
	}
	return respBody, nil
}

// DoJSON sends one request and decodes a JSON response into out.
// A nil out discards the body.
func (c *Client) DoJSON(ctx context.Context, method, path string, out any, opts ...RequestOption) error {
	body, err := c.Do(ctx, method, path, opts...)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response of %s %s: %w", method, path, err)
	}
	return nil
}

// decodeList accepts either a bare JSON array or a paginated
// {"count": n, "results": [...]} envelope.
func decodeList[T any](body []byte) ([]T, int, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, fmt.Errorf("failed to decode list: %w", err)
		}
		return items, len(items), nil
	}

	var page struct {
		Count   int `json:"count"`
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, 0, fmt.Errorf("failed to decode page: %w", err)
	}
	return page.Results, page.Count, nil
}

// multipartUpload builds a multipart form holding the file under "file"
// plus any extra fields, returning the body and its content type.
func multipartUpload(upload domain.FileUpload, fields map[string]string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", upload.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(upload.Content); err != nil {
		return nil, "", fmt.Errorf("failed to write form file: %w", err)
	}

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func projectPath(projectID int, format string, args ...any) string {
	return fmt.Sprintf("/projects/%d", projectID) + fmt.Sprintf(format, args...)
}
