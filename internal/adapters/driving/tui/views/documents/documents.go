// Package documents provides the page-of-documents view of the browser.
package documents

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/commands"
	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
)

// View lists the store's loaded page with a cursor and selection marks.
type View struct {
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	store  driving.DocumentStore

	cursor       int
	scrollOffset int
	width        int
	height       int

	// pending describes the store call in flight, if any. Keys that
	// would start another call are ignored until it settles.
	pending string
}

// NewView creates a list view over store.
func NewView(ctx context.Context, s *styles.Styles, km *keymap.KeyMap, store driving.DocumentStore) *View {
	return &View{
		ctx:    ctx,
		styles: s,
		keymap: km,
		store:  store,
		width:  80,
		height: 24,
	}
}

// Init loads the first page.
func (v *View) Init() tea.Cmd {
	return v.load("Loading documents")
}

// Update handles keys and the results of the calls the view started.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.PageLoaded, messages.DocumentsDeleted, messages.ApprovalToggled:
		v.pending = ""
		v.clampCursor()
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.Up):
		if v.cursor > 0 {
			v.cursor--
			v.adjustScroll()
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Down):
		if v.cursor < len(v.store.Items())-1 {
			v.cursor++
			v.adjustScroll()
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Toggle):
		if doc, ok := v.cursorDocument(); ok {
			v.store.ToggleSelected(doc.ID)
		}
		return v, nil

	case keymap.Matches(k, v.keymap.Open):
		doc, ok := v.cursorDocument()
		if !ok || v.store.SetCurrent(doc.ID) != nil {
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewDocument}
		}
	}

	if v.pending != "" {
		return v, nil
	}

	switch {
	case keymap.Matches(k, v.keymap.Delete):
		n := len(v.store.Selected())
		if n == 0 {
			return v, nil
		}
		v.pending = fmt.Sprintf("Deleting %d documents", n)
		return v, commands.DeleteSelected(v.ctx, v.store)

	case keymap.Matches(k, v.keymap.Approve):
		doc, ok := v.cursorDocument()
		if !ok {
			return v, nil
		}
		v.pending = fmt.Sprintf("Approving document %d", doc.ID)
		return v, commands.ToggleApproval(v.ctx, v.store, doc.ID)

	case keymap.Matches(k, v.keymap.NextPage):
		if !v.store.NextPage() {
			return v, nil
		}
		v.cursor, v.scrollOffset = 0, 0
		return v, v.load("Loading next page")

	case keymap.Matches(k, v.keymap.PrevPage):
		if !v.store.PrevPage() {
			return v, nil
		}
		v.cursor, v.scrollOffset = 0, 0
		return v, v.load("Loading previous page")

	case keymap.Matches(k, v.keymap.Reload):
		return v, v.load("Reloading")
	}
	return v, nil
}

func (v *View) load(label string) tea.Cmd {
	v.pending = label
	return commands.LoadPage(v.ctx, v.store)
}

func (v *View) cursorDocument() (domain.Document, bool) {
	items := v.store.Items()
	if v.cursor < 0 || v.cursor >= len(items) {
		return domain.Document{}, false
	}
	return items[v.cursor], true
}

// clampCursor keeps the cursor on the page after it shrank.
func (v *View) clampCursor() {
	n := len(v.store.Items())
	if v.cursor >= n {
		v.cursor = max(0, n-1)
	}
	v.adjustScroll()
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	} else if v.cursor >= v.scrollOffset+visible {
		v.scrollOffset = v.cursor - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	// title, blank line and the two-line selection footer
	return max(1, v.height-4)
}

// View renders the page.
func (v *View) View() string {
	var b strings.Builder

	so := v.store.SearchOptions()
	items := v.store.Items()
	title := fmt.Sprintf("Project %d · Documents", v.store.ProjectID())
	if len(items) > 0 {
		title += fmt.Sprintf(" %d-%d of %d", so.Offset+1, so.Offset+len(items), v.store.Total())
	}
	title += fmt.Sprintf(" (page %d)", so.Page())
	if so.Query != "" {
		title += fmt.Sprintf(" matching %q", so.Query)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	if len(items) == 0 {
		if v.pending != "" {
			b.WriteString(v.styles.Muted.Render("Loading documents..."))
		} else {
			b.WriteString(v.styles.Muted.Render("No documents on this page."))
		}
		b.WriteString("\n")
		return b.String()
	}

	selected := make(map[int]bool)
	for _, id := range v.store.Selected() {
		selected[id] = true
	}

	visible := v.visibleItemCount()
	for i := v.scrollOffset; i < len(items) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.renderDocument(i, &items[i], selected[items[i].ID]))
		b.WriteString("\n")
	}

	if n := len(selected); n > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Marked.Render(fmt.Sprintf("%d selected", n)))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderDocument(index int, doc *domain.Document, marked bool) string {
	box := "[ ]"
	if marked {
		box = v.styles.Marked.Render("[x]")
	}
	tick := " "
	if doc.IsApproved() {
		tick = v.styles.Approved.Render("✓")
	}

	maxText := max(10, v.width-20)
	text := truncate(doc.Text, maxText)
	counts := fmt.Sprintf("%da %dc", len(doc.Annotations), len(doc.Connections))

	if index == v.cursor {
		return box + " " + tick + " " + v.styles.Cursor.Render(fmt.Sprintf("%-6d %s", doc.ID, text)) +
			" " + v.styles.Muted.Render(counts)
	}
	return box + " " + tick + " " + v.styles.Normal.Render(fmt.Sprintf("%-6d %s", doc.ID, text)) +
		" " + v.styles.Muted.Render(counts)
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// SetDimensions sets the terminal size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.adjustScroll()
}

// Cursor returns the index of the row under the cursor.
func (v *View) Cursor() int {
	return v.cursor
}

// Pending describes the store call in flight, or "".
func (v *View) Pending() string {
	return v.pending
}
