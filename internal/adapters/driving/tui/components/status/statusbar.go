// Package status provides the status line of the document browser.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/labelkit/internal/adapters/driving/tui/styles"
)

// State is what the left side of the bar shows.
type State string

const (
	StateReady   State = "ready"
	StateLoading State = "loading"
	StateInfo    State = "info"
	StateError   State = "error"
)

// Bar shows the latest outcome on the left and key hints on the right.
type Bar struct {
	styles  *styles.Styles
	state   State
	message string
	hints   []key.Binding
	width   int
}

// NewBar creates a status bar showing the list-page hints.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		state:  StateReady,
		hints:  km.ListHelp(),
		width:  80,
	}
}

// View renders the bar on exactly one line of its configured width.
// Hints that do not fit are dropped from the end.
func (s *Bar) View() string {
	inner := max(1, s.width-s.styles.StatusBar.GetHorizontalFrameSize())
	left := s.renderLeft()
	right := s.renderRight(inner - lipgloss.Width(left) - 1)

	padding := max(1, inner-lipgloss.Width(left)-lipgloss.Width(right))
	return s.styles.StatusBar.Width(s.width).MaxHeight(1).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateLoading:
		if s.message != "" {
			return s.styles.Muted.Render(s.message + "...")
		}
		return s.styles.Muted.Render("Loading...")
	case StateInfo:
		return s.styles.Normal.Render(s.message)
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateReady:
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) renderRight(maxWidth int) string {
	hints := make([]string, 0, len(s.hints))
	for _, b := range s.hints {
		h := b.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	for len(hints) > 0 && lipgloss.Width(strings.Join(hints, " | ")) > maxWidth {
		hints = hints[:len(hints)-1]
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetLoading shows an operation in progress.
func (s *Bar) SetLoading(message string) {
	s.state = StateLoading
	s.message = message
}

// SetInfo shows the outcome of a successful operation.
func (s *Bar) SetInfo(message string) {
	s.state = StateInfo
	s.message = message
}

// SetError shows a failure.
func (s *Bar) SetError(message string) {
	s.state = StateError
	s.message = message
}

// SetHints replaces the key hints.
func (s *Bar) SetHints(bindings []key.Binding) {
	s.hints = bindings
}

// SetWidth sets the rendered width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear returns the bar to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// Width returns the rendered width.
func (s *Bar) Width() int {
	return s.width
}
