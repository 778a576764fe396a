// Package keymap defines the keybindings of the document browser.
package keymap

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding the browser reacts to.
type KeyMap struct {
	Quit key.Binding
	Back key.Binding
	Up   key.Binding
	Down key.Binding

	// Open shows the annotations and connections of the document under
	// the cursor.
	Open key.Binding

	// Toggle adds or removes the document under the cursor from the
	// selection set.
	Toggle key.Binding

	// Delete deletes every selected document.
	Delete key.Binding

	// Approve toggles approval of the document under the cursor.
	Approve key.Binding

	NextPage key.Binding
	PrevPage key.Binding
	Reload   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete selected"),
		),
		Approve: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "approve"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p", "prev page"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
	}
}

// ListHelp returns the hints shown on the list page.
func (k *KeyMap) ListHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Delete, k.Approve, k.NextPage, k.PrevPage, k.Open, k.Quit}
}

// DetailHelp returns the hints shown on the document page.
func (k *KeyMap) DetailHelp() []key.Binding {
	return []key.Binding{k.Approve, k.Back, k.Quit}
}

// FullHelp returns every binding grouped by purpose.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back},
		{k.Toggle, k.Delete, k.Approve},
		{k.NextPage, k.PrevPage, k.Reload, k.Quit},
	}
}

// Matches reports whether keyStr is one of binding's keys.
func Matches(keyStr string, binding key.Binding) bool {
	return slices.Contains(binding.Keys(), keyStr)
}
