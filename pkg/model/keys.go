package model

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap defines the keybindings of a section. Which ones apply depends on
// what the section is showing; forState picks them for the help view.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	First    key.Binding
	Last     key.Binding
	Search   key.Binding
	Filter   key.Binding
	Sort     key.Binding
	Refresh  key.Binding
	New      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Preview  key.Binding
	Errors   key.Binding
	Help     key.Binding

	NextField   key.Binding
	PrevField   key.Binding
	Save        key.Binding
	Cancel      key.Binding
	Upload      key.Binding
	RemoveImage key.Binding
	Option      key.Binding
	Editor      key.Binding

	Confirm key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		// Browsing.
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h", "pgup", "b", "u"),
			key.WithHelp("←/h/pgup", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l", "pgdown", "d"),
			key.WithHelp("→/l/pgdn", "next page"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "first page"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "last page"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter/e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "delete"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "preview"),
		),
		Errors: key.NewBinding(
			key.WithKeys("!"),
			key.WithHelp("!", "last error"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),

		// Form.
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Upload: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "add image"),
		),
		RemoveImage: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "drop last image"),
		),
		Option: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "next option"),
		),
		Editor: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "$EDITOR"),
		),

		// Prompts.
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
	}
}

// helpKeys satisfies help.KeyMap for one section state
type helpKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h helpKeys) ShortHelp() []key.Binding  { return h.short }
func (h helpKeys) FullHelp() [][]key.Binding { return h.full }

func (k keyMap) forState(s sectionState) helpKeys {
	switch s {
	case sectionEditing:
		return helpKeys{
			short: []key.Binding{k.NextField, k.Save, k.Upload, k.Cancel},
			full: [][]key.Binding{
				{k.NextField, k.PrevField},
				{k.Save, k.Cancel},
				{k.Upload, k.RemoveImage},
				{k.Option, k.Editor},
			},
		}
	case sectionUploading:
		return helpKeys{short: []key.Binding{k.Confirm, k.Cancel}}
	case sectionPreviewing:
		return helpKeys{short: []key.Binding{k.Up, k.Down, k.Cancel}}
	}
	return helpKeys{
		short: []key.Binding{k.Search, k.New, k.Edit, k.Delete, k.Help},
		full: [][]key.Binding{
			{k.Up, k.Down, k.PrevPage, k.NextPage, k.First, k.Last},
			{k.Search, k.Filter, k.Sort, k.Refresh},
			{k.New, k.Edit, k.Delete, k.Preview},
			{k.Errors, k.Help},
		},
	}
}
