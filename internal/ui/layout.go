package ui

import (
	"github.com/cwarden/timeline/internal/store"
	"github.com/cwarden/timeline/internal/timeline"
)

// Screen rows outside the scrolling body.
const (
	titleHeight      = 1
	statusHeight     = 1
	lineHeaderHeight = 2
	gridHeaderHeight = 1
	laneStride       = 2
)

func (m *Model) policy() timeline.Policy {
	if m.mode == ViewGrid {
		return timeline.GridPolicy(m.gridRowHeight())
	}
	return timeline.LinePolicy(m.lineColumnWidth())
}

func (m *Model) lineColumnWidth() int {
	if m.config.LineColumnWidth < 1 {
		return 1
	}
	return m.config.LineColumnWidth
}

func (m *Model) gridRowHeight() int {
	if m.config.GridRowHeight < 2 {
		return 2
	}
	return m.config.GridRowHeight
}

// gridColumnWidth is (width - margin) / 14, at least one cell.
func (m *Model) gridColumnWidth() int {
	w := (m.width - m.config.GridMargin) / timeline.RowDays
	if w < 1 {
		return 1
	}
	return w
}

func (m *Model) gridLeft() int {
	left := (m.width - m.gridColumnWidth()*timeline.RowDays) / 2
	if left < 0 {
		return 0
	}
	return left
}

// columnWidth is the width of one day in the active view.
func (m *Model) columnWidth() int {
	if m.mode == ViewGrid {
		return m.gridColumnWidth()
	}
	return m.lineColumnWidth()
}

// bodyTop is the first screen row of the scrolling body.
func (m *Model) bodyTop() int {
	if m.mode == ViewGrid {
		return titleHeight + gridHeaderHeight
	}
	return titleHeight + lineHeaderHeight
}

func (m *Model) bodyBottom() int {
	return m.height - statusHeight
}

// gridLanes is the number of lanes drawn under a grid row's day numbers.
func (m *Model) gridLanes() int {
	return m.gridRowHeight() - 1
}

// viewport is the scroll state along the active view's axis.
func (m *Model) viewport() timeline.Viewport {
	if m.mode == ViewGrid {
		return timeline.Viewport{Offset: m.scrollY, Extent: m.bodyBottom() - m.bodyTop()}
	}
	return timeline.Viewport{Offset: m.scrollX, Extent: m.width}
}

func (m *Model) offset() int {
	if m.mode == ViewGrid {
		return m.scrollY
	}
	return m.scrollX
}

// setOffset scrolls the active view, extends the window when an edge is
// near and keeps the result inside the content.
func (m *Model) setOffset(off int) {
	m.storeOffset(m.clampOffset(off))

	for i := 0; i < 16; i++ {
		res := m.window.OnScroll(m.viewport())
		if !res.Changed() {
			break
		}
		m.storeOffset(m.clampOffset(m.offset() + res.OffsetDelta))
		if res.Trimmed > 0 {
			m.dropStaleCursor()
		}
	}
}

func (m *Model) storeOffset(off int) {
	if m.mode == ViewGrid {
		m.scrollY = off
	} else {
		m.scrollX = off
	}
}

func (m *Model) clampOffset(off int) int {
	v := m.viewport()
	limit := m.window.Policy().Extent(m.window.Len()) - v.Extent
	if off > limit {
		off = limit
	}
	if off < 0 {
		off = 0
	}
	return off
}

// dropStaleCursor moves the cursor back into the window after a trim.
func (m *Model) dropStaleCursor() {
	if m.window.Contains(m.cursor) {
		return
	}
	if m.cursor < m.window.First().ID {
		m.cursor = m.window.First().ID
	} else {
		m.cursor = m.window.Last().ID
	}
}

// indexOffset is the scroll offset of the cell holding date index i.
func (m *Model) indexOffset(i int) int {
	if m.mode == ViewGrid {
		return i / timeline.RowDays * m.gridRowHeight()
	}
	return i * m.lineColumnWidth()
}

func (m *Model) cellSize() int {
	if m.mode == ViewGrid {
		return m.gridRowHeight()
	}
	return m.lineColumnWidth()
}

// bar is an event segment placed on screen.
type bar struct {
	event      store.Event
	slot       int
	x, y       int
	width      int
	splitStart bool
	splitEnd   bool
}

// handleX is the column of the drag handle, or -1 when the bar has none.
// A one cell bar has no handle so that clicking it still edits.
func (b bar) handleX() int {
	if b.splitEnd || b.width < 2 {
		return -1
	}
	return b.x + b.width - 1
}

// layoutEvents returns the events as displayed, with a resize preview
// applied, and their lanes.
func (m *Model) layoutEvents() ([]store.Event, map[string]int) {
	if m.gesture == nil || m.gesture.end == m.gesture.originEnd {
		return m.events, m.slots
	}
	events := make([]store.Event, len(m.events))
	copy(events, m.events)
	for i := range events {
		if events[i].ID == m.gesture.eventID {
			events[i].EndDate = m.gesture.end
		}
	}
	return events, timeline.AssignLanes(store.Spans(events))
}

// placement is the on-screen layout of event bars.
type placement struct {
	bars []bar
	// hidden counts segments in lanes that do not fit, per grid row
	// index; line view uses key 0.
	hidden map[int]int
}

func (p placement) hiddenTotal() int {
	n := 0
	for _, h := range p.hidden {
		n += h
	}
	return n
}

// place positions every visible event segment. Bars leave a one cell gap
// before the next day so adjacent events stay distinct.
func (m *Model) place() placement {
	events, slots := m.layoutEvents()
	if m.mode == ViewGrid {
		return m.placeGrid(events, slots)
	}
	return m.placeLine(events, slots)
}

func (m *Model) placeLine(events []store.Event, slots map[string]int) placement {
	p := placement{hidden: map[int]int{}}
	cw := m.lineColumnWidth()
	dates := m.window.Dates()

	for _, e := range events {
		start, end, ok := timeline.Place(e.Span(), dates)
		if !ok {
			continue
		}
		x := start*cw - m.scrollX
		width := (end - start + 1) * cw
		if x+width <= 0 || x >= m.width {
			continue
		}
		slot := slots[e.ID]
		y := m.bodyTop() + slot*laneStride
		if y >= m.bodyBottom() {
			p.hidden[0]++
			continue
		}
		p.bars = append(p.bars, bar{event: e, slot: slot, x: x, y: y, width: barWidth(width)})
	}
	return p
}

func (m *Model) placeGrid(events []store.Event, slots map[string]int) placement {
	p := placement{hidden: map[int]int{}}
	rh := m.gridRowHeight()
	cw := m.gridColumnWidth()
	left := m.gridLeft()
	top, bottom := m.bodyTop(), m.bodyBottom()

	for _, row := range m.visibleRows() {
		rowY := top + row.index*rh - m.scrollY
		for _, e := range events {
			seg, ok := timeline.ClipRow(e.Span(), row.dates)
			if !ok {
				continue
			}
			slot := slots[e.ID]
			if slot >= m.gridLanes() {
				p.hidden[row.index]++
				continue
			}
			y := rowY + 1 + slot
			if y < top || y >= bottom {
				continue
			}
			p.bars = append(p.bars, bar{
				event:      e,
				slot:       slot,
				x:          left + seg.StartCol*cw,
				y:          y,
				width:      barWidth(seg.Columns() * cw),
				splitStart: seg.SplitStart,
				splitEnd:   seg.SplitEnd,
			})
		}
	}
	return p
}

func barWidth(span int) int {
	if span > 1 {
		return span - 1
	}
	return 1
}

// gridRow is a grid row intersecting the viewport.
type gridRow struct {
	index int
	dates []timeline.DateItem
}

func (m *Model) visibleRows() []gridRow {
	rows := timeline.Rows(m.window.Dates(), timeline.RowDays)
	rh := m.gridRowHeight()
	v := m.viewport()
	if v.Extent < 1 {
		return nil
	}

	var out []gridRow
	first := v.Offset / rh
	last := (v.Offset + v.Extent - 1) / rh
	for i := first; i <= last && i < len(rows); i++ {
		out = append(out, gridRow{index: i, dates: rows[i]})
	}
	return out
}

type hitKind int

const (
	hitNone hitKind = iota
	hitCell
	hitBar
	hitHandle
)

type hit struct {
	kind    hitKind
	date    string
	eventID string
}

// hitTest resolves a screen position against the same layout View draws.
func (m *Model) hitTest(x, y int) hit {
	if y < titleHeight || y >= m.bodyBottom() || x < 0 || x >= m.width {
		return hit{}
	}

	bars := m.place().bars
	for i := len(bars) - 1; i >= 0; i-- {
		b := bars[i]
		if y != b.y || x < b.x || x >= b.x+b.width {
			continue
		}
		if x == b.handleX() {
			return hit{kind: hitHandle, date: m.dateAt(x, y), eventID: b.event.ID}
		}
		return hit{kind: hitBar, date: m.dateAt(x, y), eventID: b.event.ID}
	}

	if date := m.dateAt(x, y); date != "" {
		return hit{kind: hitCell, date: date}
	}
	return hit{}
}

// dateAt is the date of the cell under a screen position, or "".
func (m *Model) dateAt(x, y int) string {
	dates := m.window.Dates()
	var idx int

	if m.mode == ViewGrid {
		if y < m.bodyTop() {
			return ""
		}
		cw := m.gridColumnWidth()
		col := (x - m.gridLeft())
		if col < 0 || col >= cw*timeline.RowDays {
			return ""
		}
		row := (y - m.bodyTop() + m.scrollY) / m.gridRowHeight()
		idx = row*timeline.RowDays + col/cw
	} else {
		idx = (x + m.scrollX) / m.lineColumnWidth()
	}

	if idx < 0 || idx >= len(dates) {
		return ""
	}
	return dates[idx].ID
}
