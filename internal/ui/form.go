package ui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	lipglossv1 "github.com/charmbracelet/lipgloss"

	appLog "github.com/cwarden/timeline/internal/log"
	"github.com/cwarden/timeline/internal/store"
	"github.com/cwarden/timeline/internal/theme"
	"github.com/cwarden/timeline/internal/timeline"
)

type formField int

const (
	fieldTitle formField = iota
	fieldEnd
	fieldDescription
	fieldColor
	fieldCount
)

// palette is the set of bar colors offered by the form. The empty entry
// uses the theme's bar color.
var palette = []struct {
	name string
	hex  string
}{
	{"theme", ""},
	{"rose", "#f43f5e"},
	{"amber", "#f59e0b"},
	{"emerald", "#10b981"},
	{"sky", "#0ea5e9"},
	{"violet", "#8b5cf6"},
}

// eventForm is the create/edit modal.
type eventForm struct {
	editingID   string
	start       string
	title       textinput.Model
	end         textinput.Model
	description textinput.Model
	color       int
	focus       formField
	err         string
}

func (m *Model) newForm(start string) *eventForm {
	b := m.themeBundle()

	title := textinput.New()
	title.Placeholder = "Event title"
	title.CharLimit = store.MaxTitleLength
	title.Width = store.MaxTitleLength + 1
	applyTextInputStyles(&title, b)

	end := textinput.New()
	end.Placeholder = "YYYY-MM-DD or +3d"
	end.CharLimit = 32
	end.Width = 20
	applyTextInputStyles(&end, b)

	desc := textinput.New()
	desc.Placeholder = "Optional notes"
	desc.CharLimit = 200
	desc.Width = 30
	applyTextInputStyles(&desc, b)

	return &eventForm{
		start:       start,
		title:       title,
		end:         end,
		description: desc,
	}
}

func (m *Model) openCreate(date string) tea.Cmd {
	if m.state != StateIdle {
		return nil
	}
	f := m.newForm(date)
	f.end.SetValue(date)
	m.form = f
	m.state = StateCreating
	return f.setFocus(fieldTitle)
}

func (m *Model) openEdit(id string) tea.Cmd {
	if m.state != StateIdle {
		return nil
	}
	e, ok := m.store.Get(id)
	if !ok {
		return m.showMessage("Event no longer exists")
	}

	f := m.newForm(e.StartDate)
	f.editingID = e.ID
	f.title.SetValue(e.Title)
	f.end.SetValue(e.EndDate)
	f.description.SetValue(e.Description)
	f.color = paletteIndex(e.Color)
	m.form = f
	m.state = StateEditing
	return f.setFocus(fieldTitle)
}

func paletteIndex(hex string) int {
	for i, c := range palette {
		if strings.EqualFold(c.hex, hex) {
			return i
		}
	}
	return 0
}

func (f *eventForm) setFocus(field formField) tea.Cmd {
	f.focus = field
	f.title.Blur()
	f.end.Blur()
	f.description.Blur()

	switch field {
	case fieldTitle:
		return f.title.Focus()
	case fieldEnd:
		return f.end.Focus()
	case fieldDescription:
		return f.description.Focus()
	}
	return nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) tea.Cmd {
	f := m.form

	switch {
	case key.Matches(msg, formKeyMap.Cancel):
		m.closeForm()
		return nil

	case key.Matches(msg, formKeyMap.Save):
		return m.saveForm()

	case key.Matches(msg, formKeyMap.Delete):
		if f.editingID != "" {
			return m.deleteFormEvent()
		}
		return nil

	case key.Matches(msg, formKeyMap.Next):
		return f.setFocus((f.focus + 1) % fieldCount)

	case key.Matches(msg, formKeyMap.Prev):
		return f.setFocus((f.focus + fieldCount - 1) % fieldCount)
	}

	if f.focus == fieldColor {
		switch {
		case key.Matches(msg, formKeyMap.Left):
			f.color = (f.color + len(palette) - 1) % len(palette)
		case key.Matches(msg, formKeyMap.Right), msg.String() == " ":
			f.color = (f.color + 1) % len(palette)
		}
		return nil
	}

	f.err = ""
	return m.updateInputs(msg)
}

// updateInputs forwards a message to whichever text input has focus.
func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.form != nil:
		f := m.form
		switch f.focus {
		case fieldTitle:
			f.title, cmd = f.title.Update(msg)
		case fieldEnd:
			f.end, cmd = f.end.Update(msg)
		case fieldDescription:
			f.description, cmd = f.description.Update(msg)
		}
	case m.gotoInput != nil:
		var ti textinput.Model
		ti, cmd = m.gotoInput.Update(msg)
		m.gotoInput = &ti
	}
	return cmd
}

// resolveEnd parses the end field; offsets such as +3d count from start.
func (m *Model) resolveEnd(f *eventForm) (string, error) {
	start, err := timeline.ParseDate(f.start)
	if err != nil {
		return "", err
	}
	input := strings.TrimSpace(f.end.Value())
	if input == "" {
		return f.start, nil
	}
	m.parser.SetNow(m.now())
	end, err := m.parser.ParseFrom(input, start)
	if err != nil {
		return "", err
	}
	return timeline.FormatDate(end), nil
}

func (m *Model) saveForm() tea.Cmd {
	f := m.form
	if strings.TrimSpace(f.title.Value()) == "" {
		f.err = "Title is required"
		return f.setFocus(fieldTitle)
	}
	end, err := m.resolveEnd(f)
	if err != nil {
		f.err = "Unrecognized end date"
		return f.setFocus(fieldEnd)
	}

	draft := store.Draft{
		Title:       f.title.Value(),
		Description: strings.TrimSpace(f.description.Value()),
		StartDate:   f.start,
		EndDate:     end,
		Color:       palette[f.color].hex,
	}

	if f.editingID == "" {
		e, err := m.store.Create(draft)
		if err != nil {
			f.err = formError(err)
			return nil
		}
		m.closeForm()
		m.reloadEvents()
		return m.highlight(e.ID)
	}

	if _, err := m.store.Update(f.editingID, draft); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			m.closeForm()
			m.reloadEvents()
			return m.showMessage("Event no longer exists")
		}
		f.err = formError(err)
		return nil
	}
	m.closeForm()
	m.reloadEvents()
	return nil
}

func (m *Model) deleteFormEvent() tea.Cmd {
	id := m.form.editingID
	m.closeForm()
	if err := m.store.Delete(id); err != nil {
		appLog.Info("delete failed", "id", id, "err", err)
	}
	m.reloadEvents()
	return m.showMessage("Event deleted")
}

func (m *Model) closeForm() {
	m.form = nil
	m.state = StateIdle
}

func formError(err error) string {
	switch {
	case errors.Is(err, store.ErrEmptyTitle):
		return "Title is required"
	case errors.Is(err, store.ErrInvalidDate):
		return "Unrecognized date"
	}
	return err.Error()
}

// highlight marks a new event until the highlight duration passes.
func (m *Model) highlight(id string) tea.Cmd {
	m.highlightID = id
	m.highlightSeq++
	seq := m.highlightSeq
	return tea.Tick(m.config.HighlightDuration, func(time.Time) tea.Msg {
		return highlightDoneMsg{seq: seq}
	})
}

// eventAt is the event covering date in the lowest lane.
func (m *Model) eventAt(date string) (store.Event, bool) {
	var found store.Event
	best := -1
	for _, e := range m.events {
		if e.StartDate > date || e.EndDate < date {
			continue
		}
		if slot := m.slots[e.ID]; best < 0 || slot < best {
			best = slot
			found = e
		}
	}
	return found, best >= 0
}

func (m *Model) themeBundle() theme.Bundle {
	b, _ := theme.Lookup(m.theme)
	return b
}

// Text inputs and help render with lipgloss v1 styles.
func applyTextInputStyles(ti *textinput.Model, b theme.Bundle) {
	ti.PromptStyle = lipglossv1.NewStyle().Foreground(lipglossv1.Color(b.Primary)).Bold(true)
	ti.TextStyle = lipglossv1.NewStyle().Foreground(lipglossv1.Color(b.Text))
	ti.PlaceholderStyle = lipglossv1.NewStyle().Foreground(lipglossv1.Color(b.Muted))
	ti.Cursor.Style = lipglossv1.NewStyle().Foreground(lipglossv1.Color(b.Primary))
}

func applyInputStyles(h *help.Model, b theme.Bundle) {
	keyStyle := lipglossv1.NewStyle().Foreground(lipglossv1.Color(b.Primary)).Bold(true)
	descStyle := lipglossv1.NewStyle().Foreground(lipglossv1.Color(b.Muted))
	sepStyle := lipglossv1.NewStyle().Foreground(lipglossv1.Color(b.Border))

	h.Styles.ShortKey = keyStyle
	h.Styles.ShortDesc = descStyle
	h.Styles.ShortSeparator = sepStyle
	h.Styles.FullKey = keyStyle
	h.Styles.FullDesc = descStyle
	h.Styles.FullSeparator = sepStyle
	h.Styles.Ellipsis = sepStyle
}
