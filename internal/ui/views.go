package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"github.com/cwarden/timeline/internal/store"
	"github.com/cwarden/timeline/internal/timeline"
)

func (m *Model) viewHelp() string {
	b := m.themeBundle()
	lines := []string{
		m.styles.Month.Render("Timeline Help"),
		"",
		m.help.FullHelpView(m.keys.FullHelp()),
		"",
		m.styles.Help.Render(wordwrap.String(
			"Mouse: double-click a day to add an event, click a bar to edit it, "+
				"drag the ▐ handle to change its end date, wheel to scroll.", 56)),
		"",
		m.styles.Help.Render("Theme: " + b.Name),
		m.styles.Help.Render("Press any key to return..."),
	}

	return m.styles.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) viewEventForm() string {
	f := m.form
	var sections []string

	heading := "New Event"
	if f.editingID != "" {
		heading = "Edit Event"
	}
	sections = append(sections, m.styles.Month.Render(heading), "")

	sections = append(sections, m.styles.Label.Render("Start")+m.formatDate(f.start))

	count := fmt.Sprintf(" %d/%d", len([]rune(f.title.Value())), store.MaxTitleLength)
	sections = append(sections, m.formRow(fieldTitle, "Title", f.title.View()+m.styles.Help.Render(count)))

	endHint := ""
	if end, err := m.resolveEnd(f); err == nil {
		if end < f.start {
			endHint = m.styles.Help.Render(" → " + f.start + " (clamped)")
		} else if end != strings.TrimSpace(f.end.Value()) {
			endHint = m.styles.Help.Render(" → " + end)
		}
	}
	sections = append(sections, m.formRow(fieldEnd, "End", f.end.View()+endHint))
	sections = append(sections, m.formRow(fieldDescription, "Notes", f.description.View()))
	sections = append(sections, m.formRow(fieldColor, "Color", m.renderSwatches()))
	sections = append(sections, "")

	if f.err != "" {
		sections = append(sections, m.styles.Error.Render(f.err), "")
	}

	save := "enter save"
	if strings.TrimSpace(f.title.Value()) == "" {
		save = m.styles.Help.Faint(true).Render(save)
	}
	hints := []string{save, "esc cancel", "tab next field"}
	if f.editingID != "" {
		hints = append(hints, "ctrl+d delete")
	}
	sections = append(sections, m.styles.Help.Render(strings.Join(hints, "  ·  ")))

	return m.styles.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) formRow(field formField, label, content string) string {
	marker := "  "
	if m.form.focus == field {
		marker = m.styles.Month.Render("› ")
	}
	return marker + m.styles.Label.Render(label) + content
}

func (m *Model) renderSwatches() string {
	var parts []string
	for i, c := range palette {
		style := m.styles.Bar
		if c.hex != "" {
			style = style.Background(lipgloss.Color(c.hex))
		}
		swatch := style.Render("  ")
		if i == m.form.color {
			swatch = "[" + swatch + "]"
		} else {
			swatch = " " + swatch + " "
		}
		parts = append(parts, swatch)
	}
	name := palette[m.form.color].name
	return strings.Join(parts, "") + " " + m.styles.Help.Render(name)
}

func (m *Model) renderTitleBar() string {
	left := m.styles.Title.Render(" ◆ Timeline ")

	month := ""
	if t, err := timeline.ParseDate(m.cursor); err == nil {
		month = t.Format("January 2006")
	}
	left += m.styles.TitleMuted.Render(" " + month)

	lineTab, gridTab := m.styles.Tab, m.styles.Tab
	if m.mode == ViewGrid {
		gridTab = m.styles.TabActive
	} else {
		lineTab = m.styles.TabActive
	}
	right := lineTab.Render("LINE") + gridTab.Render("GRID") + m.styles.TitleMuted.Render(" ")

	width := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if width < 0 {
		width = 0
	}
	middle := m.styles.TitleMuted.Render(strings.Repeat(" ", width))

	return left + middle + right
}

func (m *Model) renderStatusBar(p placement) string {
	if m.gotoInput != nil {
		line := " " + m.gotoInput.View()
		pad := m.width - lipgloss.Width(line)
		return line + m.styles.Status.Render(fill(pad))
	}

	left := fmt.Sprintf(" %s | Events: %d", m.formatDate(m.cursor), len(m.events))
	if m.state == StateResizing && m.gesture != nil {
		left += fmt.Sprintf(" | end → %s", m.gesture.end)
	}
	if n := p.hiddenTotal(); n > 0 {
		left += fmt.Sprintf(" | +%d hidden", n)
	}
	left = m.styles.Status.Render(left + " ")

	var right string
	if m.message != "" {
		right = m.styles.Message.Render(m.message)
	} else {
		h := m.help
		h.Width = m.width - lipgloss.Width(left) - 1
		if h.Width > 0 {
			right = h.ShortHelpView(m.keys.ShortHelp()) + m.styles.Status.Render(" ")
		}
	}

	width := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if width < 0 {
		width = 0
	}

	return left + m.styles.Status.Render(strings.Repeat(" ", width)) + right
}
