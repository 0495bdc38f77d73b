package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Today      key.Binding
	ToggleView key.Binding
	CycleTheme key.Binding
	NewEvent   key.Binding
	EditEvent  key.Binding
	GotoDate   key.Binding
	PrevDay    key.Binding
	NextDay    key.Binding
	PrevRow    key.Binding
	NextRow    key.Binding
	PrevPage   key.Binding
	NextPage   key.Binding
}

// newKeyMap builds the idle bindings from the configured action → keys map.
func newKeyMap(bindings map[string][]string) keyMap {
	bind := func(action, desc string) key.Binding {
		keys := bindings[action]
		return key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(keys, "/"), desc),
		)
	}

	return keyMap{
		Quit:       bind("quit", "quit"),
		Help:       bind("help", "help"),
		Today:      bind("today", "today"),
		ToggleView: bind("toggle_view", "line/grid"),
		CycleTheme: bind("cycle_theme", "theme"),
		NewEvent:   bind("new_event", "new event"),
		EditEvent:  bind("edit_event", "edit event"),
		GotoDate:   bind("goto_date", "go to date"),
		PrevDay:    bind("prev_day", "previous day"),
		NextDay:    bind("next_day", "next day"),
		PrevRow:    bind("prev_row", "previous week/row"),
		NextRow:    bind("next_row", "next week/row"),
		PrevPage:   bind("prev_page", "previous chunk"),
		NextPage:   bind("next_page", "next chunk"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NewEvent, k.EditEvent, k.Today, k.ToggleView, k.GotoDate, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevDay, k.NextDay, k.PrevRow, k.NextRow, k.PrevPage, k.NextPage},
		{k.NewEvent, k.EditEvent, k.GotoDate, k.Today},
		{k.ToggleView, k.CycleTheme, k.Help, k.Quit},
	}
}

// formKeys are fixed while the event form is open.
type formKeys struct {
	Save   key.Binding
	Cancel key.Binding
	Delete key.Binding
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
}

var formKeyMap = formKeys{
	Save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Delete: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "delete")),
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	Left:   key.NewBinding(key.WithKeys("left")),
	Right:  key.NewBinding(key.WithKeys("right")),
}

var forceQuit = key.NewBinding(key.WithKeys("ctrl+c"))
