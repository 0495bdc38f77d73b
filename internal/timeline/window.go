package timeline

import "time"

// Policy describes how a view extends its date window while scrolling.
//
// Content size is measured in the view's scroll unit (cells or pixels):
// every DaysPerStep days occupy StepSize units along the scroll axis.
type Policy struct {
	Chunk          int
	LeadThreshold  int
	TrailThreshold int
	DaysPerStep    int
	StepSize       int
}

// RowDays is the number of days per row in grid view.
const RowDays = 14

// Reference geometry the thresholds were tuned for.
const (
	referenceColumnWidth = 96
	referenceRowHeight   = 340
	trailDistance        = 1200
	gridLeadDistance     = 400
)

// LinePolicy is the line view policy for a column width: 28-day chunks,
// thresholds of 1200 units at the reference width of 96.
func LinePolicy(columnWidth int) Policy {
	if columnWidth < 1 {
		columnWidth = 1
	}
	threshold := trailDistance * columnWidth / referenceColumnWidth
	return Policy{
		Chunk:          28,
		LeadThreshold:  threshold,
		TrailThreshold: threshold,
		DaysPerStep:    1,
		StepSize:       columnWidth,
	}
}

// GridPolicy is the grid view policy for a row height: 56-day chunks, a 400
// unit leading and 1200 unit trailing threshold at the reference height of 340.
func GridPolicy(rowHeight int) Policy {
	if rowHeight < 1 {
		rowHeight = 1
	}
	return Policy{
		Chunk:          56,
		LeadThreshold:  gridLeadDistance * rowHeight / referenceRowHeight,
		TrailThreshold: trailDistance * rowHeight / referenceRowHeight,
		DaysPerStep:    RowDays,
		StepSize:       rowHeight,
	}
}

// Extent converts a day count to scroll units.
func (p Policy) Extent(days int) int {
	step := p.DaysPerStep
	if step < 1 {
		step = 1
	}
	return (days + step - 1) / step * p.StepSize
}

// Viewport is the scroll state reported by the renderer.
type Viewport struct {
	Offset int
	Extent int
}

// ScrollResult reports what OnScroll changed. OffsetDelta must be added to
// the scroll offset to keep the visible content in place.
type ScrollResult struct {
	Appended    int
	Prepended   int
	Trimmed     int
	OffsetDelta int
}

// Changed reports whether the date sequence was modified.
func (r ScrollResult) Changed() bool {
	return r.Appended > 0 || r.Prepended > 0 || r.Trimmed > 0
}

// Window is the materialized, growable sequence of dates.
type Window struct {
	dates   []DateItem
	policy  Policy
	maxDays int
	now     func() time.Time
}

// NewWindow wraps an initial date sequence. maxDays of zero leaves the
// window unbounded.
func NewWindow(dates []DateItem, policy Policy, maxDays int) *Window {
	return &Window{
		dates:   dates,
		policy:  policy,
		maxDays: maxDays,
		now:     time.Now,
	}
}

// SetClock overrides the clock used to flag today in generated chunks.
func (w *Window) SetClock(now func() time.Time) {
	w.now = now
}

// SetPolicy switches the scroll policy, e.g. on a view toggle.
func (w *Window) SetPolicy(p Policy) {
	w.policy = p
}

func (w *Window) Policy() Policy {
	return w.policy
}

// Dates returns the materialized sequence. Callers must not modify it.
func (w *Window) Dates() []DateItem {
	return w.dates
}

func (w *Window) Len() int {
	return len(w.dates)
}

// Content is the scrollable size of the whole window in scroll units.
func (w *Window) Content() int {
	return w.policy.Extent(len(w.dates))
}

// First and Last return the edges of the window.
func (w *Window) First() DateItem { return w.dates[0] }
func (w *Window) Last() DateItem  { return w.dates[len(w.dates)-1] }

// IndexOf returns the position of a date identifier, or -1.
func (w *Window) IndexOf(id string) int {
	if len(w.dates) == 0 {
		return -1
	}
	t, err := ParseDate(id)
	if err != nil {
		return -1
	}
	i := DaysBetween(w.dates[0].Date, t)
	if i < 0 || i >= len(w.dates) || w.dates[i].ID != id {
		return -1
	}
	return i
}

// Contains reports whether id is materialized.
func (w *Window) Contains(id string) bool {
	return w.IndexOf(id) >= 0
}

// TodayIndex returns the index of the item flagged as today, or -1.
func (w *Window) TodayIndex() int {
	for i, d := range w.dates {
		if d.IsToday {
			return i
		}
	}
	return -1
}

// Reset rebuilds the window around center.
func (w *Window) Reset(center time.Time, weekStart time.Weekday) {
	w.dates = GenerateAt(WindowStart(center, weekStart), initialSpan, w.now())
}

// OnScroll extends the window when the viewport nears either edge.
func (w *Window) OnScroll(v Viewport) ScrollResult {
	var res ScrollResult
	if len(w.dates) == 0 {
		return res
	}

	if v.Offset+v.Extent > w.Content()-w.policy.TrailThreshold {
		res.Appended = w.appendChunk()
		if trimmed := w.trimHead(); trimmed > 0 {
			res.Trimmed += trimmed
			res.OffsetDelta -= w.policy.Extent(trimmed)
		}
	}

	if v.Offset+res.OffsetDelta < w.policy.LeadThreshold {
		res.Prepended = w.prependChunk()
		res.OffsetDelta += w.policy.Extent(res.Prepended)
		res.Trimmed += w.trimTail()
	}

	return res
}

func (w *Window) appendChunk() int {
	next := w.Last().Date.AddDate(0, 0, 1)
	chunk := GenerateAt(next, w.policy.Chunk, w.now())
	w.dates = append(w.dates, chunk...)
	return len(chunk)
}

func (w *Window) prependChunk() int {
	start := w.First().Date.AddDate(0, 0, -w.policy.Chunk)
	chunk := GenerateAt(start, w.policy.Chunk, w.now())
	w.dates = append(chunk, w.dates...)
	return len(chunk)
}

// trimHead drops whole chunks from the front while the window is too long.
func (w *Window) trimHead() int {
	n := w.excess()
	if n == 0 {
		return 0
	}
	w.dates = append([]DateItem(nil), w.dates[n:]...)
	return n
}

func (w *Window) trimTail() int {
	n := w.excess()
	if n == 0 {
		return 0
	}
	w.dates = w.dates[:len(w.dates)-n]
	return n
}

// excess is the number of days over maxDays, rounded up to whole chunks so
// grid rows stay aligned.
func (w *Window) excess() int {
	if w.maxDays <= 0 || len(w.dates) <= w.maxDays {
		return 0
	}
	chunk := w.policy.Chunk
	if chunk < 1 {
		chunk = 1
	}
	over := len(w.dates) - w.maxDays
	n := (over + chunk - 1) / chunk * chunk
	if n >= len(w.dates) {
		return 0
	}
	return n
}

// CenterOffset returns the scroll offset that centers cell index within a
// viewport, never negative.
func CenterOffset(index, cell, viewport int) int {
	off := index*cell - (viewport/2 - cell/2)
	if off < 0 {
		return 0
	}
	return off
}
