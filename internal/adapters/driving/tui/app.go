package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/commands"
	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/views/document"
	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/labelkit/internal/core/domain"
)

// statusHeight is the number of rows the status bar occupies.
const statusHeight = 1

// App is the browser's root model.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	listView     *documents.View
	documentView *document.View
	bar          *status.Bar

	currentView messages.ViewType

	// notifications is nil until Run subscribes to Events.
	notifications <-chan domain.Notification

	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates the browser. Store calls made from it use ctx.
func NewApp(ctx context.Context, ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          ctx,
		styles:       s,
		keymap:       km,
		listView:     documents.NewView(ctx, s, km, ports.Documents),
		documentView: document.NewView(ctx, s, km, ports.Documents),
		bar:          status.NewBar(s, km),
		currentView:  messages.ViewList,
	}, nil
}

// Init loads the first page and starts listening for notifications.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle(fmt.Sprintf("labelkit - project %d", a.ports.Documents.ProjectID())),
		a.listView.Init(),
	}
	if a.notifications != nil {
		cmds = append(cmds, commands.WaitForNotification(a.notifications))
	}
	a.syncPending()
	return tea.Batch(cmds...)
}

// Update routes messages to the active view and keeps the status line
// current.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), a.keymap.Quit) {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewDocument {
			a.documentView, cmd = a.documentView.Update(msg)
			return a, cmd
		}
		a.listView, cmd = a.listView.Update(msg)
		a.syncPending()
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewDocument:
			a.documentView.Reset()
			a.bar.SetHints(a.keymap.DetailHelp())
		case messages.ViewList:
			a.bar.SetHints(a.keymap.ListHelp())
		}
		return a, nil

	case messages.PageLoaded:
		a.listView, cmd = a.listView.Update(msg)
		if msg.Err != nil {
			a.bar.SetError(msg.Err.Error())
		} else {
			a.bar.SetInfo(fmt.Sprintf("Loaded %d of %d documents",
				len(a.ports.Documents.Items()), a.ports.Documents.Total()))
		}
		return a, cmd

	case messages.DocumentsDeleted:
		a.listView, cmd = a.listView.Update(msg)
		res := msg.Result
		summary := fmt.Sprintf("Deleted %d of %d documents", res.Succeeded, res.Attempted)
		if res.OK() {
			a.bar.SetInfo(summary)
		} else {
			a.bar.SetError(fmt.Sprintf("%s, %d failed", summary, len(res.Failed)))
		}
		return a, cmd

	case messages.ApprovalToggled:
		a.listView, _ = a.listView.Update(msg)
		a.documentView, _ = a.documentView.Update(msg)
		switch {
		case msg.Err != nil:
			a.bar.SetError(msg.Err.Error())
		case msg.Approved:
			a.bar.SetInfo(fmt.Sprintf("Document %d approved", msg.DocumentID))
		default:
			a.bar.SetInfo(fmt.Sprintf("Document %d unapproved", msg.DocumentID))
		}
		return a, nil

	case messages.Notified:
		a.bar.SetError(msg.Notification.String())
		if a.notifications == nil {
			return a, nil
		}
		return a, commands.WaitForNotification(a.notifications)
	}

	return a, nil
}

// syncPending mirrors the list view's in-flight call onto the status line.
func (a *App) syncPending() {
	if p := a.listView.Pending(); p != "" {
		a.bar.SetLoading(p)
	}
}

// View renders the active page with the status line pinned to the bottom.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	if a.currentView == messages.ViewDocument {
		body = a.documentView.View()
	} else {
		body = a.listView.View()
	}
	bar := a.bar.View()
	rows := a.height - lipgloss.Height(bar)
	if rows <= 0 {
		return bar
	}

	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if len(lines) > rows {
		lines = lines[:rows]
	}
	return strings.Join(lines, "\n") + strings.Repeat("\n", rows-len(lines)+1) + bar
}

// Run subscribes to notifications and runs the program until the user
// quits or the context is cancelled.
func (a *App) Run() error {
	if a.ports.Events != nil {
		ch, unsubscribe := a.ports.Events.Subscribe(0)
		defer unsubscribe()
		a.notifications = ch
	}

	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// SetDimensions sets the terminal size.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.listView.SetDimensions(width, max(1, height-statusHeight))
	a.documentView.SetDimensions(width, max(1, height-statusHeight))
	a.bar.SetWidth(width)
}

// CurrentView returns the active page.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Ready reports whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}
