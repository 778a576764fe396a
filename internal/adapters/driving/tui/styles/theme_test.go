package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	for name, c := range map[string]lipgloss.Color{
		"primary":    theme.Primary,
		"secondary":  theme.Secondary,
		"foreground": theme.Foreground,
		"muted":      theme.Muted,
		"success":    theme.Success,
		"warning":    theme.Warning,
		"error":      theme.Error,
		"bar":        theme.Bar,
	} {
		assert.NotEmpty(t, string(c), name)
	}
}

func TestDefaultTheme_StateColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{theme.Primary, theme.Success, theme.Warning, theme.Error} {
		assert.False(t, seen[c], "duplicate colour %s", c)
		seen[c] = true
	}
}

func TestNewStyles(t *testing.T) {
	theme := DefaultTheme()
	theme.Primary = lipgloss.Color("#FF0000")
	s := NewStyles(theme)

	require.NotNil(t, s)
	assert.Equal(t, theme.Primary, s.Title.GetForeground())
	assert.Equal(t, theme.Bar, s.StatusBar.GetBackground())
}

func TestNewStyles_NilTheme(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme().Primary, s.Title.GetForeground())
}

func TestStyles_AllInitialised(t *testing.T) {
	s := DefaultStyles()

	for name, st := range map[string]lipgloss.Style{
		"title":     s.Title,
		"subtitle":  s.Subtitle,
		"normal":    s.Normal,
		"muted":     s.Muted,
		"cursor":    s.Cursor,
		"marked":    s.Marked,
		"approved":  s.Approved,
		"label":     s.Label,
		"error":     s.Error,
		"statusbar": s.StatusBar,
	} {
		assert.NotEqual(t, lipgloss.Style{}, st, name)
	}
}

func TestStyles_RenderKeepsText(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.Title.Render("Documents"), "Documents")
	assert.Contains(t, s.Cursor.Render("> 12"), "> 12")
}
