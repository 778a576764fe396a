package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}},
		{"back", km.Back, []string{"esc"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"open", km.Open, []string{"enter"}},
		{"toggle", km.Toggle, []string{" "}},
		{"delete", km.Delete, []string{"d"}},
		{"approve", km.Approve, []string{"a"}},
		{"next page", km.NextPage, []string{"n", "right"}},
		{"prev page", km.PrevPage, []string{"p", "left"}},
		{"reload", km.Reload, []string{"r"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keys, tt.binding.Keys())
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestKeyMap_ListHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ListHelp()

	require.Len(t, help, 7)
	assert.Equal(t, "space", help[0].Help().Key)
	assert.Equal(t, "q", help[len(help)-1].Help().Key)
}

func TestKeyMap_DetailHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.DetailHelp()

	require.Len(t, help, 3)
	assert.Equal(t, "esc", help[1].Help().Key)
}

func TestKeyMap_FullHelpCoversEveryBinding(t *testing.T) {
	km := DefaultKeyMap()

	count := 0
	for _, group := range km.FullHelp() {
		count += len(group)
	}

	assert.Equal(t, 11, count)
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches(" ", km.Toggle))
	assert.False(t, Matches("x", km.Quit))
	assert.False(t, Matches("", km.Delete))
}
