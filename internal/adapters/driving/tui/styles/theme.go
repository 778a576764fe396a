// Package styles holds the colours and lipgloss styles of the document browser.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette.
type Theme struct {
	// Primary highlights the cursor row and titles.
	Primary lipgloss.Color

	// Secondary marks section headers and annotation labels.
	Secondary lipgloss.Color

	Foreground lipgloss.Color
	Muted      lipgloss.Color

	// Success marks approved documents.
	Success lipgloss.Color

	// Warning marks documents in the selection set.
	Warning lipgloss.Color

	Error lipgloss.Color
	Bar   lipgloss.Color
}

// DefaultTheme returns the default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"),
		Secondary:  lipgloss.Color("#06B6D4"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Success:    lipgloss.Color("#A6E3A1"),
		Warning:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#F38BA8"),
		Bar:        lipgloss.Color("#181825"),
	}
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style

	// Cursor renders the row under the cursor.
	Cursor lipgloss.Style

	// Marked renders the checkbox of a selected row.
	Marked lipgloss.Style

	// Approved renders the approval tick.
	Approved lipgloss.Style

	// Label renders annotation spans in the detail view.
	Label lipgloss.Style

	Error     lipgloss.Style
	StatusBar lipgloss.Style
}

// NewStyles builds styles from theme; nil means DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Cursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Marked: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Warning),

		Approved: lipgloss.NewStyle().
			Foreground(theme.Success),

		Label: lipgloss.NewStyle().
			Underline(true).
			Foreground(theme.Secondary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles for DefaultTheme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}
