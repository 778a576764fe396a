package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driven"
)

var errServer = errors.New("server error")

// --- Mock implementations ---

// mockDocumentAPI implements driven.DocumentAPI for testing.
type mockDocumentAPI struct {
	mu sync.Mutex

	page    *domain.DocumentPage
	listErr error

	updateResp domain.Fields
	updateErr  error

	approveResp domain.Fields
	approveErr  error
	// approveHook runs while an approve request is in flight.
	approveHook func()

	deleteErrs  map[int]error
	mappingErrs map[int]error

	uploadErr error
	exportOut []byte
	exportErr error
	randomErr error

	listCalls     int
	lastOpts      domain.SearchOptions
	lastUpload    domain.FileUpload
	lastExport    domain.ExportFormat
	deleted       []int
	mappings      []domain.Fields
	unmapped      []int
	lastApprove   domain.Fields
	lastRandom    domain.Fields
	inFlight      atomic.Int32
	maxInFlight   atomic.Int32
	deleteStarted chan struct{}
	deleteRelease chan struct{}
}

var _ driven.DocumentAPI = (*mockDocumentAPI)(nil)

func (m *mockDocumentAPI) List(_ context.Context, _ int, opts domain.SearchOptions) (*domain.DocumentPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	m.lastOpts = opts
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.page == nil {
		return &domain.DocumentPage{}, nil
	}
	page := *m.page
	page.Results = append([]domain.Document(nil), m.page.Results...)
	return &page, nil
}

func (m *mockDocumentAPI) Create(_ context.Context, _ int, _ domain.Fields) (*domain.Document, error) {
	return nil, errors.New("not used")
}

func (m *mockDocumentAPI) Update(_ context.Context, _, _ int, _ domain.Fields) (domain.Fields, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.updateResp, nil
}

func (m *mockDocumentAPI) Delete(_ context.Context, _, docID int) error {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.maxInFlight.Load()
		if n <= peak || m.maxInFlight.CompareAndSwap(peak, n) {
			break
		}
	}

	if m.deleteStarted != nil {
		m.deleteStarted <- struct{}{}
		<-m.deleteRelease
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteErrs[docID]; err != nil {
		return err
	}
	m.deleted = append(m.deleted, docID)
	return nil
}

func (m *mockDocumentAPI) Upload(_ context.Context, _ int, upload domain.FileUpload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUpload = upload
	return m.uploadErr
}

func (m *mockDocumentAPI) Export(_ context.Context, _ int, format domain.ExportFormat) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastExport = format
	return m.exportOut, m.exportErr
}

func (m *mockDocumentAPI) Approve(_ context.Context, _, _ int, payload domain.Fields) (domain.Fields, error) {
	if m.approveHook != nil {
		m.approveHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastApprove = payload
	if m.approveErr != nil {
		return nil, m.approveErr
	}
	return m.approveResp, nil
}

func (m *mockDocumentAPI) AddMapping(_ context.Context, _ int, payload domain.Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	docID, _ := payload.Int("document")
	if err := m.mappingErrs[docID]; err != nil {
		return err
	}
	m.mappings = append(m.mappings, payload)
	return nil
}

func (m *mockDocumentAPI) DeleteMapping(_ context.Context, _, docID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.mappingErrs[docID]; err != nil {
		return err
	}
	m.unmapped = append(m.unmapped, docID)
	return nil
}

func (m *mockDocumentAPI) RandomMapping(_ context.Context, _ int, payload domain.Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastRandom = payload
	return m.randomErr
}

// mockAnnotationAPI implements driven.AnnotationAPI for testing.
type mockAnnotationAPI struct {
	created    *domain.Annotation
	updateResp domain.Fields
	err        error
	deleted    []int
}

func (m *mockAnnotationAPI) List(_ context.Context, _, _ int) ([]domain.Annotation, error) {
	return nil, m.err
}

func (m *mockAnnotationAPI) Create(_ context.Context, _, _ int, _ domain.Fields) (*domain.Annotation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.created, nil
}

func (m *mockAnnotationAPI) Update(_ context.Context, _, _, _ int, _ domain.Fields) (domain.Fields, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.updateResp, nil
}

func (m *mockAnnotationAPI) Delete(_ context.Context, _, _, annotationID int) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, annotationID)
	return nil
}

// mockConnectionAPI implements driven.ConnectionAPI for testing.
type mockConnectionAPI struct {
	created     *domain.Connection
	updateResp  domain.Fields
	err         error
	createCalls int
}

func (m *mockConnectionAPI) List(_ context.Context, _, _ int) ([]domain.Connection, error) {
	return nil, m.err
}

func (m *mockConnectionAPI) Create(_ context.Context, _, _ int, _ domain.Fields) (*domain.Connection, error) {
	m.createCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.created, nil
}

func (m *mockConnectionAPI) Update(_ context.Context, _, _, _ int, _ domain.Fields) (domain.Fields, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.updateResp, nil
}

func (m *mockConnectionAPI) Delete(_ context.Context, _, _, _ int) error {
	return m.err
}

// mockRelationAPI implements driven.RelationAPI for testing.
type mockRelationAPI struct {
	mu sync.Mutex

	relations  []domain.Relation
	listErr    error
	createErr  map[string]error
	updateResp domain.Fields
	deleteErrs map[int]error
	uploadErr  error

	nextID     int
	created    []domain.Fields
	deleted    []int
	lastUpload domain.FileUpload

	// beforeCreate runs before a create request is answered.
	beforeCreate func(text string)
}

func (m *mockRelationAPI) List(_ context.Context, _ int) ([]domain.Relation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.Relation(nil), m.relations...), nil
}

func (m *mockRelationAPI) Create(_ context.Context, _ int, payload domain.Fields) (*domain.Relation, error) {
	text, _ := payload["text"].(string)
	if m.beforeCreate != nil {
		m.beforeCreate(text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.createErr[text]; err != nil {
		return nil, err
	}
	m.nextID++
	m.created = append(m.created, payload)
	color, _ := payload["color"].(string)
	return &domain.Relation{ID: m.nextID, Text: text, Color: color}, nil
}

func (m *mockRelationAPI) Update(_ context.Context, _, _ int, _ domain.Fields) (domain.Fields, error) {
	return m.updateResp, nil
}

func (m *mockRelationAPI) Delete(_ context.Context, _, relationID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteErrs[relationID]; err != nil {
		return err
	}
	m.deleted = append(m.deleted, relationID)
	return nil
}

func (m *mockRelationAPI) Upload(_ context.Context, _ int, upload domain.FileUpload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUpload = upload
	return m.uploadErr
}

// mockFiles implements driven.LocalFiles for testing.
type mockFiles struct {
	mu    sync.Mutex
	files map[string][]byte
	saved map[string][]byte
}

func newMockFiles(files map[string][]byte) *mockFiles {
	return &mockFiles{files: files, saved: make(map[string][]byte)}
}

func (m *mockFiles) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: file does not exist", path)
	}
	return data, nil
}

func (m *mockFiles) SaveDownload(name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[name] = data
	return filepath.Join("downloads", name), nil
}

// mockNotifier implements driven.Notifier for testing.
type mockNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (m *mockNotifier) Notify(n domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
}

func (m *mockNotifier) ops() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	for i, n := range m.sent {
		out[i] = n.Op
	}
	return out
}

// --- Fixtures ---

type fixture struct {
	docs        *mockDocumentAPI
	annotations *mockAnnotationAPI
	connections *mockConnectionAPI
	relations   *mockRelationAPI
	files       *mockFiles
	notifier    *mockNotifier
}

func newFixture() *fixture {
	return &fixture{
		docs:        &mockDocumentAPI{},
		annotations: &mockAnnotationAPI{},
		connections: &mockConnectionAPI{},
		relations:   &mockRelationAPI{},
		files:       newMockFiles(map[string][]byte{}),
		notifier:    &mockNotifier{},
	}
}

func (f *fixture) deps() Dependencies {
	return Dependencies{
		Documents:   f.docs,
		Annotations: f.annotations,
		Connections: f.connections,
		Relations:   f.relations,
		Files:       f.files,
		Notifier:    f.notifier,
	}
}

func strPtr(s string) *string { return &s }

// sampleDocuments returns three documents; the first carries two
// annotations linked by a connection.
func sampleDocuments() []domain.Document {
	return []domain.Document{
		{
			ID:   1,
			Text: "Alice met Bob",
			Annotations: []domain.Annotation{
				{ID: 10, Label: 1, StartOffset: 0, EndOffset: 5, Document: 1},
				{ID: 11, Label: 1, StartOffset: 10, EndOffset: 13, Document: 1},
			},
			Connections: []domain.Connection{
				{ID: 100, Document: 1, Source: 10, To: 11, Relation: 7},
			},
			AnnotatorAssign: []string{"carol"},
		},
		{ID: 2, Text: "second", AnnotationApprover: strPtr("dave")},
		{ID: 3, Text: "third"},
	}
}
