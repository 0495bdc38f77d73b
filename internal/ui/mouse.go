package ui

import (
	"errors"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	appLog "github.com/cwarden/timeline/internal/log"
	"github.com/cwarden/timeline/internal/store"
	"github.com/cwarden/timeline/internal/timeline"
)

// click remembers the last press on an empty cell for double-click
// detection.
type click struct {
	date string
	at   time.Time
}

// resizeGesture is the context of a drag on a bar's end handle. It exists
// only while the model is resizing.
type resizeGesture struct {
	eventID   string
	start     string
	originEnd string
	originX   int
	originY   int
	end       string
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.form != nil || m.gotoInput != nil || m.helpVisible {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m, m.handlePress(msg.X, msg.Y)
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
			m.scrollWheel(-1)
		case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
			m.scrollWheel(1)
		}

	case tea.MouseActionMotion:
		if m.state == StateResizing {
			m.dragResize(msg.X, msg.Y)
		}

	case tea.MouseActionRelease:
		if m.state == StateResizing {
			return m, m.finishResize()
		}
	}

	return m, nil
}

func (m *Model) scrollWheel(dir int) {
	step := 3 * m.lineColumnWidth()
	if m.mode == ViewGrid {
		step = m.gridRowHeight() / 2
		if step < 1 {
			step = 1
		}
	}
	m.scrollBy(dir * step)
}

func (m *Model) handlePress(x, y int) tea.Cmd {
	if m.state != StateIdle {
		return nil
	}

	h := m.hitTest(x, y)
	switch h.kind {
	case hitHandle:
		m.lastClick = click{}
		m.startResize(h.eventID, x, y)
		return nil

	case hitBar:
		m.lastClick = click{}
		return m.openEdit(h.eventID)

	case hitCell:
		m.cursor = h.date
		now := m.now()
		if m.lastClick.date == h.date && now.Sub(m.lastClick.at) <= m.config.DoubleClickInterval {
			m.lastClick = click{}
			return m.openCreate(h.date)
		}
		m.lastClick = click{date: h.date, at: now}
	}
	return nil
}

func (m *Model) startResize(id string, x, y int) {
	e, ok := m.store.Get(id)
	if !ok {
		return
	}
	m.gesture = &resizeGesture{
		eventID:   id,
		start:     e.StartDate,
		originEnd: e.EndDate,
		originX:   x,
		originY:   y,
		end:       e.EndDate,
	}
	m.state = StateResizing
	appLog.Debug("resize start", "id", id, "end", e.EndDate)
}

// dragResize previews the end date under the pointer. In grid view each
// row of vertical travel adds 14 days.
func (m *Model) dragResize(x, y int) {
	g := m.gesture
	if g == nil {
		return
	}

	cw := m.columnWidth()
	dx := x - g.originX
	if m.mode == ViewGrid {
		rows := int(math.Round(float64(y-g.originY) / float64(m.gridRowHeight())))
		dx += rows * timeline.RowDays * cw
	}

	if end, ok := timeline.ResizeEnd(g.start, g.originEnd, dx, float64(cw)); ok {
		g.end = end
	}
}

// finishResize commits the last valid preview and returns to idle.
func (m *Model) finishResize() tea.Cmd {
	g := m.gesture
	m.gesture = nil
	m.state = StateIdle
	if g == nil || g.end == g.originEnd {
		return nil
	}

	if err := m.store.SetEndDate(g.eventID, g.end); err != nil {
		m.reloadEvents()
		if errors.Is(err, store.ErrNotFound) {
			return m.showMessage("Event no longer exists")
		}
		return m.showMessage("Resize rejected: " + err.Error())
	}
	m.reloadEvents()
	return nil
}

func (m *Model) cancelResize() {
	m.gesture = nil
	m.state = StateIdle
}
