package timeline

// Segment is the part of an event bar that falls inside one visible range.
// StartCol and EndCol are inclusive indexes into that range. A split side
// means the event continues beyond the range on that side.
type Segment struct {
	ID         string
	Row        int
	StartCol   int
	EndCol     int
	SplitStart bool
	SplitEnd   bool
}

// Columns is the number of days the segment covers.
func (s Segment) Columns() int {
	return s.EndCol - s.StartCol + 1
}

// Place locates a span in a date sequence for line view. ok is false when
// either endpoint is not materialized.
func Place(span Span, dates []DateItem) (start, end int, ok bool) {
	start, end = -1, -1
	for i, d := range dates {
		if d.ID == span.Start {
			start = i
		}
		if d.ID == span.End {
			end = i
		}
	}
	if start < 0 || end < 0 {
		return 0, 0, false
	}
	return start, end, true
}

// Rows chunks a date sequence into rows of size days.
func Rows(dates []DateItem, size int) [][]DateItem {
	if size < 1 {
		size = 1
	}
	var rows [][]DateItem
	for i := 0; i < len(dates); i += size {
		end := i + size
		if end > len(dates) {
			end = len(dates)
		}
		rows = append(rows, dates[i:end])
	}
	return rows
}

// ClipRow clips a span to one visible range. ok is false when the span does
// not intersect it.
func ClipRow(span Span, row []DateItem) (Segment, bool) {
	if len(row) == 0 {
		return Segment{}, false
	}
	first, last := row[0].ID, row[len(row)-1].ID
	if span.End < first || span.Start > last {
		return Segment{}, false
	}

	seg := Segment{ID: span.ID, StartCol: 0, EndCol: len(row) - 1}
	if span.Start < first {
		seg.SplitStart = true
	}
	if span.End > last {
		seg.SplitEnd = true
	}
	for i, d := range row {
		if d.ID == span.Start {
			seg.StartCol = i
		}
		if d.ID == span.End {
			seg.EndCol = i
		}
	}
	return seg, true
}

// ClipRows returns one segment for every row the span intersects.
func ClipRows(span Span, rows [][]DateItem) []Segment {
	var segs []Segment
	for i, row := range rows {
		if seg, ok := ClipRow(span, row); ok {
			seg.Row = i
			segs = append(segs, seg)
		}
	}
	return segs
}
