// Package document shows the current document with its annotations and
// the connections between them.
package document

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

// View renders the store's current document.
type View struct {
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	store  driving.DocumentStore

	scroll  int
	width   int
	height  int
	pending bool
}

// NewView creates a document view over store.
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

// Reset scrolls back to the top; called when the view is entered.
func (v *View) Reset() {
	v.scroll = 0
}

// Update handles keys and approval results.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	case messages.ApprovalToggled:
		v.pending = false
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewList}
		}

	case keymap.Matches(k, v.keymap.Up):
		if v.scroll > 0 {
			v.scroll--
		}

	case keymap.Matches(k, v.keymap.Down):
		if v.scroll < len(v.lines())-1 {
			v.scroll++
		}

	case keymap.Matches(k, v.keymap.Approve):
		doc, ok := v.store.Current()
		if !ok || v.pending {
			return v, nil
		}
		v.pending = true
		return v, commands.ToggleApproval(v.ctx, v.store, doc.ID)
	}
	return v, nil
}

// View renders the visible part of the document.
func (v *View) View() string {
	lines := v.lines()
	visible := max(1, v.height)
	end := min(len(lines), v.scroll+visible)
	start := min(v.scroll, end)
	return strings.Join(lines[start:end], "\n") + "\n"
}

func (v *View) lines() []string {
	doc, ok := v.store.Current()
	if !ok {
		return []string{v.styles.Muted.Render("No document selected.")}
	}

	title := fmt.Sprintf("Document %d", doc.ID)
	if doc.IsApproved() {
		title += " " + v.styles.Approved.Render("✓ approved by "+*doc.AnnotationApprover)
	}
	out := []string{v.styles.Title.Render(title)}
	if len(doc.AnnotatorAssign) > 0 {
		out = append(out, v.styles.Muted.Render("Annotators: "+strings.Join(doc.AnnotatorAssign, ", ")))
	}
	if len(doc.ApproverAssign) > 0 {
		out = append(out, v.styles.Muted.Render("Approvers: "+strings.Join(doc.ApproverAssign, ", ")))
	}
	out = append(out, "")
	out = append(out, wrap(doc.Text, max(20, v.width-2))...)

	out = append(out, "", v.styles.Subtitle.Render(fmt.Sprintf("Annotations (%d)", len(doc.Annotations))))
	for _, a := range doc.Annotations {
		out = append(out, fmt.Sprintf("  #%-6d label %-4d [%d:%d] %s",
			a.ID, a.Label, a.StartOffset, a.EndOffset, v.styles.Label.Render(doc.Span(a))))
	}

	out = append(out, "", v.styles.Subtitle.Render(fmt.Sprintf("Connections (%d)", len(doc.Connections))))
	for _, c := range doc.Connections {
		out = append(out, fmt.Sprintf("  #%-6d %s -> %s  relation %d",
			c.ID, endpoint(&doc, c.Source), endpoint(&doc, c.To), c.Relation))
	}
	return out
}

// endpoint names a connection end by annotation id and covered text.
func endpoint(doc *domain.Document, annotationID int) string {
	for _, a := range doc.Annotations {
		if a.ID == annotationID {
			return fmt.Sprintf("%d %q", a.ID, doc.Span(a))
		}
	}
	return fmt.Sprintf("%d", annotationID)
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var line []rune
		for _, word := range strings.Fields(para) {
			w := []rune(word)
			if len(line) > 0 && len(line)+1+len(w) > width {
				lines = append(lines, string(line))
				line = line[:0]
			}
			if len(line) > 0 {
				line = append(line, ' ')
			}
			line = append(line, w...)
		}
		lines = append(lines, string(line))
	}
	return lines
}

// SetDimensions sets the terminal size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Scroll returns the index of the first visible line.
func (v *View) Scroll() int {
	return v.scroll
}
