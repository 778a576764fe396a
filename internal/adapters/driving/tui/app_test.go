package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/tuitest"
	"github.com/custodia-labs/labelkit/internal/core/domain"
)

func newTestApp(t *testing.T) (*App, *tuitest.Store) {
	t.Helper()
	store := tuitest.NewStore(3, tuitest.Sample()...)
	app, err := NewApp(context.Background(), &Ports{Documents: store})
	require.NoError(t, err)
	app.SetDimensions(120, 30)
	return app, store
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, messages.ViewList, app.CurrentView())
	assert.True(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(context.Background(), &Ports{})

	assert.ErrorIs(t, err, ErrMissingDocumentStore)
	assert.Nil(t, app)
}

func TestApp_InitShowsLoading(t *testing.T) {
	app, _ := newTestApp(t)

	cmd := app.Init()

	assert.NotNil(t, cmd)
	assert.Equal(t, status.StateLoading, app.bar.State())
	assert.Equal(t, "Loading documents", app.bar.Message())
}

func TestApp_ViewBeforeSize(t *testing.T) {
	store := tuitest.NewStore(0)
	app, err := NewApp(context.Background(), &Ports{Documents: store})
	require.NoError(t, err)

	assert.Equal(t, "Initialising...", app.View())

	app.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	assert.True(t, app.Ready())
	assert.Equal(t, 100, app.bar.Width())
}

func TestApp_Quit(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestApp_PageLoaded(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.PageLoaded{})
	assert.Equal(t, status.StateInfo, app.bar.State())
	assert.Equal(t, "Loaded 3 of 3 documents", app.bar.Message())

	app.Update(messages.PageLoaded{Err: errors.New("offline")})
	assert.Equal(t, status.StateError, app.bar.State())
	assert.Equal(t, "offline", app.bar.Message())
}

func TestApp_DeleteFlow(t *testing.T) {
	app, store := newTestApp(t)

	app.Update(key(" "))
	_, cmd := app.Update(key("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, status.StateLoading, app.bar.State())

	app.Update(cmd())

	assert.Equal(t, "Deleted 1 of 1 documents", app.bar.Message())
	assert.Len(t, store.Items(), 2)
	assert.NotContains(t, app.View(), "Alice met Bob")
}

func TestApp_DeleteReportsFailures(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.DocumentsDeleted{Result: domain.BulkResult{
		Attempted: 3,
		Succeeded: 1,
		Failed:    map[int]error{2: errors.New("a"), 3: errors.New("b")},
	}})

	assert.Equal(t, status.StateError, app.bar.State())
	assert.Equal(t, "Deleted 1 of 3 documents, 2 failed", app.bar.Message())
}

func TestApp_Approval(t *testing.T) {
	tests := []struct {
		name  string
		msg   messages.ApprovalToggled
		state status.State
		text  string
	}{
		{"approved", messages.ApprovalToggled{DocumentID: 4, Approved: true}, status.StateInfo, "Document 4 approved"},
		{"unapproved", messages.ApprovalToggled{DocumentID: 4}, status.StateInfo, "Document 4 unapproved"},
		{"failed", messages.ApprovalToggled{DocumentID: 4, Err: errors.New("forbidden")}, status.StateError, "forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)

			app.Update(tt.msg)

			assert.Equal(t, tt.state, app.bar.State())
			assert.Equal(t, tt.text, app.bar.Message())
		})
	}
}

func TestApp_OpenAndBack(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewDocument, app.CurrentView())
	out := app.View()
	assert.Contains(t, out, "Document 1")
	assert.Contains(t, out, "Connections (1)")
	assert.Contains(t, out, "esc: back")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewList, app.CurrentView())
	assert.Contains(t, app.View(), "d: delete selected")
}

func TestApp_ApproveFromDocumentView(t *testing.T) {
	app, store := newTestApp(t)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app.Update(cmd())

	_, cmd = app.Update(key("a"))
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, "Document 1 approved", app.bar.Message())
	assert.True(t, store.Approved())
	assert.Contains(t, app.View(), "approved by tester")
}

func TestApp_Notifications(t *testing.T) {
	app, _ := newTestApp(t)
	ch := make(chan domain.Notification, 1)
	app.notifications = ch

	n := domain.Notification{Op: domain.OpDeleteDocument, ItemID: 7, Err: errors.New("boom")}
	_, cmd := app.Update(messages.Notified{Notification: n})

	assert.Equal(t, status.StateError, app.bar.State())
	assert.Equal(t, "documents.delete #7: boom", app.bar.Message())
	require.NotNil(t, cmd, "keeps listening")

	ch <- n
	assert.Equal(t, messages.Notified{Notification: n}, cmd())
}

func TestApp_NotificationWithoutSubscription(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.Notified{Notification: domain.Notification{Op: domain.OpListDocuments}})

	assert.Nil(t, cmd)
}

func TestApp_ViewFillsHeight(t *testing.T) {
	app, _ := newTestApp(t)
	app.SetDimensions(120, 20)

	out := app.View()

	assert.Equal(t, 20, len(splitLines(out)))
}

func TestApp_ViewFillsHeight_Overflow(t *testing.T) {
	docs := make([]domain.Document, 40)
	for i := range docs {
		docs[i] = domain.Document{ID: i + 1, Text: "document"}
	}
	store := tuitest.NewStore(40, docs...)
	app, err := NewApp(context.Background(), &Ports{Documents: store})
	require.NoError(t, err)
	app.SetDimensions(60, 12)
	store.ToggleSelected(1)

	lines := splitLines(app.View())

	assert.Len(t, lines, 12)
	assert.Contains(t, lines[0], "Project")
	assert.Contains(t, lines[11], "Ready")
}

func TestApp_ViewFillsHeight_DocumentPage(t *testing.T) {
	app, _ := newTestApp(t)
	app.SetDimensions(80, 8)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app.Update(cmd())

	lines := splitLines(app.View())

	assert.Len(t, lines, 8)
	assert.Contains(t, lines[0], "Document 1")
	assert.Contains(t, lines[7], "esc: back")
}

func splitLines(s string) []string {
	lines := []string{""}
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, "")
			continue
		}
		lines[len(lines)-1] += string(r)
	}
	return lines
}
