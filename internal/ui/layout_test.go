package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/cwarden/timeline/internal/config"
	"github.com/cwarden/timeline/internal/store"
)

func TestLineBarGeometry(t *testing.T) {
	m, st, _ := newTestModel(t, store.Draft{Title: "Trip", StartDate: "2024-01-10", EndDate: "2024-01-12"})
	id := st.Events()[0].ID

	bars := m.place().bars
	if len(bars) != 1 {
		t.Fatalf("Expected 1 bar, got %d", len(bars))
	}
	b := bars[0]
	if b.x != 54 || b.y != 3 || b.width != 35 {
		t.Errorf("Expected bar at x=54 y=3 width 35, got x=%d y=%d width %d", b.x, b.y, b.width)
	}
	if b.handleX() != 88 {
		t.Errorf("Expected handle at 88, got %d", b.handleX())
	}

	tests := []struct {
		name string
		x, y int
		kind hitKind
		date string
	}{
		{"bar body", 60, 3, hitBar, "2024-01-10"},
		{"handle", 88, 3, hitHandle, "2024-01-12"},
		{"gap after bar", 89, 3, hitCell, "2024-01-12"},
		{"empty cell", 100, 10, hitCell, "2024-01-13"},
		{"title bar", 60, 0, hitNone, ""},
		{"status bar", 60, 29, hitNone, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := m.hitTest(tt.x, tt.y)
			if h.kind != tt.kind {
				t.Errorf("Expected kind %d, got %d", tt.kind, h.kind)
			}
			if h.date != tt.date {
				t.Errorf("Expected date %q, got %q", tt.date, h.date)
			}
			if (tt.kind == hitBar || tt.kind == hitHandle) && h.eventID != id {
				t.Errorf("Expected event %s, got %s", id, h.eventID)
			}
		})
	}
}

func TestOverlappingEventsStack(t *testing.T) {
	m, st, _ := newTestModel(t,
		store.Draft{Title: "A", StartDate: "2024-01-10", EndDate: "2024-01-12"},
		store.Draft{Title: "B", StartDate: "2024-01-11", EndDate: "2024-01-13"},
		store.Draft{Title: "C", StartDate: "2024-01-13", EndDate: "2024-01-14"},
	)

	ys := map[string]int{}
	for _, b := range m.place().bars {
		ys[b.event.Title] = b.y
	}
	if ys["A"] != 3 || ys["B"] != 5 || ys["C"] != 3 {
		t.Errorf("Unexpected lanes: %v", ys)
	}

	// The preview relayouts: stretching A over C pushes C down.
	var a store.Event
	for _, e := range st.Events() {
		if e.Title == "A" {
			a = e
		}
	}
	m.Update(press(88, 3))
	m.Update(motion(88+24, 3))
	if m.gesture == nil || m.gesture.eventID != a.ID {
		t.Fatalf("Expected a resize of A")
	}
	for _, b := range m.place().bars {
		if b.event.Title == "C" && b.y == 3 {
			t.Errorf("C should move off lane 0 while A covers it")
		}
	}
}

func TestLineScrollExtendsWindow(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.setOffset(4248)
	if m.window.Len() != 392 {
		t.Errorf("Expected 392 days after appending, got %d", m.window.Len())
	}
	if got := m.window.Last().ID; got != "2024-08-03" {
		t.Errorf("Expected last day 2024-08-03, got %s", got)
	}
	if m.scrollX != 4248 {
		t.Errorf("Append should not move the view, got %d", m.scrollX)
	}

	m.setOffset(0)
	if got := m.window.First().ID; got != "2023-06-11" {
		t.Errorf("Expected first day 2023-06-11, got %s", got)
	}
	if m.scrollX != 336 {
		t.Errorf("Prepend should shift the offset by 28 columns, got %d", m.scrollX)
	}
	if got := m.dateAt(0, 10); got != "2023-07-09" {
		t.Errorf("Content under the pointer moved: %s", got)
	}
}

func TestWheelScrolls(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.Update(tea.MouseMsg{X: 60, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if m.scrollX != 2166+36 {
		t.Errorf("Expected three columns of scroll, got %d", m.scrollX)
	}
	m.Update(tea.MouseMsg{X: 60, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if m.scrollX != 2166 {
		t.Errorf("Expected return to 2166, got %d", m.scrollX)
	}
}

func TestGridGeometry(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.toggleView()

	if cw := m.gridColumnWidth(); cw != 8 {
		t.Errorf("Expected column width 8, got %d", cw)
	}
	if left := m.gridLeft(); left != 4 {
		t.Errorf("Expected left margin 4, got %d", left)
	}
	if m.scrollY != 68 {
		t.Errorf("Expected scrollY 68, got %d", m.scrollY)
	}

	// Row 13 (Jan 7 to Jan 20) starts at screen row 12.
	if got := m.dateAt(30, 12); got != "2024-01-10" {
		t.Errorf("Expected today, got %q", got)
	}
	if got := m.dateAt(4, 17); got != "2024-01-07" {
		t.Errorf("Expected row start, got %q", got)
	}
	if got := m.dateAt(4, 18); got != "2024-01-21" {
		t.Errorf("Expected next row, got %q", got)
	}
	if got := m.dateAt(2, 12); got != "" {
		t.Errorf("Margin should not hit a day, got %q", got)
	}
}

func TestGridSplitsAcrossRows(t *testing.T) {
	m, _, _ := newTestModel(t, store.Draft{Title: "Conf", StartDate: "2024-01-18", EndDate: "2024-01-23"})
	m.toggleView()

	bars := m.place().bars
	if len(bars) != 2 {
		t.Fatalf("Expected 2 segments, got %d", len(bars))
	}

	first, second := bars[0], bars[1]
	if first.x != 92 || first.y != 13 || first.width != 23 {
		t.Errorf("First segment at x=%d y=%d width %d", first.x, first.y, first.width)
	}
	if first.splitStart || !first.splitEnd {
		t.Errorf("First segment flags: start=%v end=%v", first.splitStart, first.splitEnd)
	}
	if first.handleX() != -1 {
		t.Errorf("Continued segment should not have a handle")
	}

	if second.x != 4 || second.y != 19 || second.width != 23 {
		t.Errorf("Second segment at x=%d y=%d width %d", second.x, second.y, second.width)
	}
	if !second.splitStart || second.splitEnd {
		t.Errorf("Second segment flags: start=%v end=%v", second.splitStart, second.splitEnd)
	}
	if second.handleX() != 26 {
		t.Errorf("Expected handle at 26, got %d", second.handleX())
	}
}

func TestGridResizeByRow(t *testing.T) {
	m, st, _ := newTestModel(t, store.Draft{Title: "Conf", StartDate: "2024-01-18", EndDate: "2024-01-23"})
	id := st.Events()[0].ID
	m.toggleView()

	m.Update(press(26, 19))
	if m.State() != StateResizing {
		t.Fatalf("Expected resizing, got %s", m.State())
	}

	// One row down and one column left: +14 -1 days.
	m.Update(motion(18, 25))
	m.Update(release(18, 25))

	got, _ := st.Get(id)
	if got.EndDate != "2024-02-05" {
		t.Errorf("Expected 2024-02-05, got %s", got.EndDate)
	}
}

func TestGridHiddenLanes(t *testing.T) {
	var drafts []store.Draft
	for i := 0; i < 7; i++ {
		drafts = append(drafts, store.Draft{Title: "E", StartDate: "2024-01-10", EndDate: "2024-01-10"})
	}
	m, _, _ := newTestModel(t, drafts...)
	m.toggleView()

	p := m.place()
	if len(p.bars) != 5 {
		t.Errorf("Expected 5 visible lanes, got %d", len(p.bars))
	}
	if p.hidden[13] != 2 {
		t.Errorf("Expected 2 hidden in row 13, got %d", p.hidden[13])
	}
	if p.hiddenTotal() != 2 {
		t.Errorf("Expected 2 hidden in total, got %d", p.hiddenTotal())
	}
}

func TestHandleX(t *testing.T) {
	tests := []struct {
		name string
		b    bar
		want int
	}{
		{"multi cell", bar{x: 5, width: 11}, 15},
		{"two cells", bar{x: 5, width: 2}, 6},
		{"one cell", bar{x: 5, width: 1}, -1},
		{"continues in next row", bar{x: 5, width: 11, splitEnd: true}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.handleX(); got != tt.want {
				t.Errorf("handleX() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNarrowBarClickEdits(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LineColumnWidth = 1
	m, st, _ := newTestModelWithConfig(t, cfg, store.Draft{Title: "Dentist", StartDate: "2024-01-10", EndDate: "2024-01-10"})

	// Centered at offset 125, today is column 60.
	bars := m.place().bars
	if len(bars) != 1 || bars[0].x != 60 || bars[0].width != 1 {
		t.Fatalf("Unexpected bars: %+v", bars)
	}

	m.Update(press(60, 3))
	if m.State() != StateEditing {
		t.Fatalf("Expected editing, got %s", m.State())
	}
	if m.form.editingID != st.Events()[0].ID {
		t.Errorf("Wrong event in form")
	}
}

func TestBarLeadingEdge(t *testing.T) {
	m, _, _ := newTestModel(t,
		store.Draft{Title: "Trip", StartDate: "2024-01-10", EndDate: "2024-01-12"},
		store.Draft{Title: "Conf", StartDate: "2024-01-18", EndDate: "2024-01-23"},
	)

	out := ansi.Strip(m.View())
	if !strings.Contains(out, "▎Trip") {
		t.Errorf("Line view bar should start with an edge:\n%s", out)
	}

	// In grid view the first segment keeps the edge and the continuation
	// is marked as split instead.
	m.toggleView()
	out = ansi.Strip(m.View())
	if !strings.Contains(out, "▎Conf") {
		t.Errorf("First grid segment should start with an edge:\n%s", out)
	}
	if !strings.Contains(out, "◂Conf") {
		t.Errorf("Continued grid segment should be marked:\n%s", out)
	}
}
