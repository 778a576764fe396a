package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
)

// mockSettings implements driving.SettingsService.
type mockSettings struct {
	settings    domain.Settings
	getErr      error
	setErr      error
	validateErr error
	sets        [][2]string
}

func (m *mockSettings) Get() (domain.Settings, error) { return m.settings, m.getErr }

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets = append(m.sets, [2]string{key, value})
	return nil
}

func (m *mockSettings) Keys() []string {
	return []string{domain.KeyServerURL, domain.KeyServerToken, domain.KeyDefaultProject}
}

func (m *mockSettings) Validate() error { return m.validateErr }

// mockWorkspace hands out one store of each kind and records projects.
type mockWorkspace struct {
	docs     *mockDocumentStore
	rels     *mockRelationStore
	projects []int
}

func (m *mockWorkspace) Documents(projectID int) driving.DocumentStore {
	m.projects = append(m.projects, projectID)
	m.docs.pid = projectID
	return m.docs
}

func (m *mockWorkspace) Relations(projectID int) driving.RelationStore {
	m.projects = append(m.projects, projectID)
	m.rels.pid = projectID
	return m.rels
}

// mockDocumentStore overrides the methods the commands call. Anything
// else panics through the nil embedded interface.
type mockDocumentStore struct {
	driving.DocumentStore

	pid      int
	items    []domain.Document
	total    int
	opts     domain.SearchOptions
	current  int
	selected []int
	calls    []string

	listErr   error
	locateErr error
	approveOK bool

	deleteResult  domain.BulkResult
	mappingResult domain.BulkResult
	mappingUser   int
	mappingName   string

	fields    domain.Fields
	updatedID int
}

func newMockDocumentStore(docs ...domain.Document) *mockDocumentStore {
	return &mockDocumentStore{items: docs, total: len(docs), opts: domain.DefaultSearchOptions()}
}

func (m *mockDocumentStore) ProjectID() int                      { return m.pid }
func (m *mockDocumentStore) Items() []domain.Document            { return m.items }
func (m *mockDocumentStore) Total() int                          { return m.total }
func (m *mockDocumentStore) SearchOptions() domain.SearchOptions { return m.opts }
func (m *mockDocumentStore) Selected() []int                     { return m.selected }
func (m *mockDocumentStore) Approved() bool                      { return m.approveOK }

func (m *mockDocumentStore) UpdateSearchOptions(patch domain.SearchOptionsPatch) {
	m.opts = patch.Apply(m.opts)
}

func (m *mockDocumentStore) UpdateSelected(ids []int) {
	m.calls = append(m.calls, "select")
	m.selected = ids
}

func (m *mockDocumentStore) List(context.Context) error {
	m.calls = append(m.calls, "list")
	return m.listErr
}

func (m *mockDocumentStore) Locate(_ context.Context, docID int) error {
	m.calls = append(m.calls, "locate")
	if m.locateErr != nil {
		return m.locateErr
	}
	m.current = docID
	return nil
}

func (m *mockDocumentStore) Current() (domain.Document, bool) {
	for _, d := range m.items {
		if d.ID == m.current {
			return d, true
		}
	}
	return domain.Document{}, false
}

func (m *mockDocumentStore) Approve(context.Context) error {
	m.calls = append(m.calls, "approve")
	m.approveOK = !m.approveOK
	return nil
}

func (m *mockDocumentStore) DeleteSelected(context.Context) domain.BulkResult {
	m.calls = append(m.calls, "delete")
	return m.deleteResult
}

func (m *mockDocumentStore) AddMapping(_ context.Context, userID int, username string) domain.BulkResult {
	m.calls = append(m.calls, "assign")
	m.mappingUser, m.mappingName = userID, username
	return m.mappingResult
}

func (m *mockDocumentStore) RemoveMapping(context.Context) domain.BulkResult {
	m.calls = append(m.calls, "unassign")
	return m.mappingResult
}

func (m *mockDocumentStore) Update(_ context.Context, docID int, fields domain.Fields) error {
	m.updatedID, m.fields = docID, fields
	return nil
}

func (m *mockDocumentStore) AddAnnotation(_ context.Context, fields domain.Fields) (domain.Annotation, error) {
	m.fields = fields
	return domain.Annotation{ID: 77}, nil
}

func (m *mockDocumentStore) DeleteAnnotation(_ context.Context, id int) error {
	m.updatedID = id
	return nil
}

func (m *mockDocumentStore) AddConnection(_ context.Context, fields domain.Fields) (domain.Connection, error) {
	m.fields = fields
	return domain.Connection{ID: 88, Source: 1, To: 2}, nil
}

// mockRelationStore implements the relation commands' subset.
type mockRelationStore struct {
	driving.RelationStore

	pid          int
	items        []domain.Relation
	selected     []int
	deleteResult domain.BulkResult
	importResult domain.BulkResult
	importErr    error
	importPath   string
	created      domain.Fields
}

func (m *mockRelationStore) ProjectID() int             { return m.pid }
func (m *mockRelationStore) Items() []domain.Relation   { return m.items }
func (m *mockRelationStore) List(context.Context) error { return nil }
func (m *mockRelationStore) UpdateSelected(ids []int)   { m.selected = ids }

func (m *mockRelationStore) Create(_ context.Context, fields domain.Fields) (domain.Relation, error) {
	m.created = fields
	return domain.Relation{ID: 5, Text: fields["text"].(string)}, nil
}

func (m *mockRelationStore) DeleteSelected(context.Context) domain.BulkResult {
	return m.deleteResult
}

func (m *mockRelationStore) Import(_ context.Context, path string) (domain.BulkResult, error) {
	m.importPath = path
	return m.importResult, m.importErr
}

// testApp wires a project-7 workspace around fresh mocks.
func testApp() (*App, *mockWorkspace, *mockSettings) {
	ws := &mockWorkspace{docs: newMockDocumentStore(), rels: &mockRelationStore{}}
	st := &mockSettings{settings: domain.Settings{DefaultProject: 7}}
	return &App{
		Settings:  st,
		Workspace: func() (driving.Workspace, error) { return ws, nil },
	}, ws, st
}

// resetFlags returns every flag of the command tree to its default.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command against a and returns the combined output.
func execute(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	app = a
	t.Cleanup(func() {
		app = nil
		resetFlags(rootCmd)
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
