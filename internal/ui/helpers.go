package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"github.com/cwarden/timeline/internal/store"
	"github.com/cwarden/timeline/internal/timeline"
)

// fit truncates or pads plain text to exactly w cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	s = truncate.String(s, uint(w))
	if pad := w - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func fill(w int) string {
	if w <= 0 {
		return ""
	}
	return strings.Repeat(" ", w)
}

// barStyle is the fill of an event bar: the highlight for a fresh event,
// the event's own color, or the theme's bar color.
func (m *Model) barStyle(e store.Event) lipgloss.Style {
	if e.ID == m.highlightID {
		return m.styles.Highlight
	}
	if e.Color != "" {
		b := m.themeBundle()
		return m.styles.Bar.
			Foreground(lipgloss.Color(b.OnPrimary)).
			Background(lipgloss.Color(e.Color))
	}
	return m.styles.Bar
}

// edgeStyle is the leading edge of a bar, drawn over the bar's fill.
func (m *Model) edgeStyle(e store.Event) lipgloss.Style {
	return m.styles.BarEdge.Background(m.barStyle(e).GetBackground())
}

func (m *Model) handleStyle(e store.Event) lipgloss.Style {
	return m.styles.Handle.Background(m.barStyle(e).GetBackground())
}

// cellStyle is the background of a day cell.
func (m *Model) cellStyle(d timeline.DateItem) lipgloss.Style {
	switch {
	case d.ID == m.cursor:
		return m.styles.Cursor
	case d.IsWeekend:
		return m.styles.Weekend
	}
	return m.styles.Body
}

// dayNumberStyle styles the number of a day in a header.
func (m *Model) dayNumberStyle(d timeline.DateItem) lipgloss.Style {
	switch {
	case d.IsToday:
		return m.styles.Today
	case d.ID == m.cursor:
		return m.styles.Cursor
	case d.IsWeekend:
		return m.styles.DayNumber.Background(m.styles.Weekend.GetBackground())
	}
	return m.styles.DayNumber
}
