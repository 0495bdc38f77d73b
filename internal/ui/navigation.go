package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwarden/timeline/internal/timeline"
)

const (
	centerFrameInterval = 16 * time.Millisecond
	maxCenterFrames     = 30
)

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, forceQuit) {
		m.gesture = nil
		return m, tea.Quit
	}

	switch {
	case m.form != nil:
		return m, m.handleFormKeys(msg)
	case m.gotoInput != nil:
		return m, m.handleGotoKeys(msg)
	case m.helpVisible:
		// Any key closes the help overlay.
		m.helpVisible = false
		return m, nil
	case m.state == StateResizing:
		if msg.Type == tea.KeyEscape {
			m.cancelResize()
		}
		return m, nil
	}

	return m, m.handleIdleKeys(msg)
}

func (m *Model) handleIdleKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.helpVisible = true

	case key.Matches(msg, m.keys.Today):
		m.cursor = m.todayID()
		return m.jumpTo(m.cursor, true)

	case key.Matches(msg, m.keys.ToggleView):
		m.toggleView()

	case key.Matches(msg, m.keys.CycleTheme):
		return m.cycleTheme()

	case key.Matches(msg, m.keys.NewEvent):
		return m.openCreate(m.cursor)

	case key.Matches(msg, m.keys.EditEvent):
		if e, ok := m.eventAt(m.cursor); ok {
			return m.openEdit(e.ID)
		}
		return m.showMessage("No event on " + m.formatDate(m.cursor))

	case key.Matches(msg, m.keys.GotoDate):
		return m.openGoto()

	case key.Matches(msg, m.keys.PrevDay):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.NextDay):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PrevRow):
		m.moveCursor(-m.rowDays())
	case key.Matches(msg, m.keys.NextRow):
		m.moveCursor(m.rowDays())
	case key.Matches(msg, m.keys.PrevPage):
		m.moveCursor(-m.window.Policy().Chunk)
	case key.Matches(msg, m.keys.NextPage):
		m.moveCursor(m.window.Policy().Chunk)
	}

	return nil
}

// rowDays is the cursor step of the up/down keys.
func (m *Model) rowDays() int {
	if m.mode == ViewGrid {
		return timeline.RowDays
	}
	return 7
}

func (m *Model) moveCursor(days int) {
	id, err := timeline.AddDays(m.cursor, days)
	if err != nil {
		return
	}
	m.cursor = id
	if !m.window.Contains(id) {
		m.jumpTo(id, false)
		return
	}
	m.ensureVisible(id)
}

// ensureVisible scrolls the minimum distance that brings a date into view.
func (m *Model) ensureVisible(id string) {
	idx := m.window.IndexOf(id)
	if idx < 0 {
		return
	}
	v := m.viewport()
	pos := m.indexOffset(idx)
	size := m.cellSize()

	off := v.Offset
	if pos < off {
		off = pos
	} else if pos+size > off+v.Extent {
		off = pos + size - v.Extent
	}
	if off != v.Offset {
		m.setOffset(off)
	}
}

// jumpTo centers a date, rebuilding the window around it when it is not
// materialized.
func (m *Model) jumpTo(id string, animate bool) tea.Cmd {
	if !m.window.Contains(id) {
		date, err := timeline.ParseDate(id)
		if err != nil {
			return nil
		}
		m.window.Reset(date, m.config.WeekStartDay)
		animate = false
	}
	return m.centerOn(id, animate)
}

// centerOn scrolls so the cell of id is centered, immediately or through
// a short run of animation frames.
func (m *Model) centerOn(id string, animate bool) tea.Cmd {
	m.centerSeq++
	m.centerTarget = ""
	target, ok := m.centerOffset(id)
	if !ok {
		return nil
	}
	if !animate {
		m.setOffset(target)
		return nil
	}
	m.centerTarget = id
	m.centerFrames = 0
	return centerFrame(m.centerSeq)
}

func (m *Model) centerOffset(id string) (int, bool) {
	idx := m.window.IndexOf(id)
	if idx < 0 {
		return 0, false
	}
	v := m.viewport()
	var off int
	if m.mode == ViewGrid {
		off = timeline.CenterOffset(idx/timeline.RowDays, m.gridRowHeight(), v.Extent)
	} else {
		off = timeline.CenterOffset(idx, m.lineColumnWidth(), v.Extent)
	}
	return m.clampOffset(off), true
}

func (m *Model) stepCenter(seq int) tea.Cmd {
	if seq != m.centerSeq || m.centerTarget == "" {
		return nil
	}
	target, ok := m.centerOffset(m.centerTarget)
	if !ok {
		m.centerTarget = ""
		return nil
	}

	cur := m.offset()
	step := (target - cur) / 3
	if step == 0 {
		step = target - cur
	}
	m.setOffset(cur + step)
	m.centerFrames++

	if m.offset() == target || m.centerFrames >= maxCenterFrames {
		m.centerTarget = ""
		return nil
	}
	return centerFrame(seq)
}

func centerFrame(seq int) tea.Cmd {
	return tea.Tick(centerFrameInterval, func(time.Time) tea.Msg {
		return centerFrameMsg{seq: seq}
	})
}

// scrollBy moves the view by delta cells, cancelling any centering.
func (m *Model) scrollBy(delta int) {
	m.centerSeq++
	m.centerTarget = ""
	m.setOffset(m.offset() + delta)
}

func (m *Model) openGoto() tea.Cmd {
	ti := textinput.New()
	ti.Prompt = "Go to: "
	ti.Placeholder = "2024-05-01, next fri, +10d"
	ti.CharLimit = 40
	applyTextInputStyles(&ti, m.themeBundle())
	m.gotoInput = &ti
	return ti.Focus()
}

func (m *Model) handleGotoKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEscape:
		m.gotoInput = nil
		return nil

	case tea.KeyEnter:
		input := m.gotoInput.Value()
		m.gotoInput = nil

		m.parser.SetNow(m.now())
		date, err := m.parser.Parse(input)
		if err != nil {
			return m.showMessage(fmt.Sprintf("Invalid date: %v", err))
		}
		m.cursor = timeline.FormatDate(date)
		return m.jumpTo(m.cursor, true)
	}

	ti, cmd := m.gotoInput.Update(msg)
	m.gotoInput = &ti
	return cmd
}

func (m *Model) formatDate(id string) string {
	t, err := timeline.ParseDate(id)
	if err != nil {
		return id
	}
	return t.Format(m.config.DateFormat)
}
