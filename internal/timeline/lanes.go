package timeline

import "sort"

// Span is the canonical closed date interval of an event.
type Span struct {
	ID    string
	Start string
	End   string
}

// Overlaps reports whether two closed intervals share at least one day.
// Identifiers sort chronologically, so plain string comparison is enough.
func (s Span) Overlaps(o Span) bool {
	return !(s.End < o.Start || s.Start > o.End)
}

// Covers reports whether the day id lies inside the span.
func (s Span) Covers(id string) bool {
	return s.Start <= id && id <= s.End
}

// AssignLanes packs spans into vertical slots so that overlapping spans
// never share one. Spans are placed greedily, earliest start first and
// longer spans first on a tie, into the lowest slot that is free. The result
// is deterministic but not guaranteed to use the minimum number of slots.
func AssignLanes(spans []Span) map[string]int {
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		if sorted[i].End != sorted[j].End {
			return sorted[i].End > sorted[j].End
		}
		return sorted[i].ID < sorted[j].ID
	})

	slots := make(map[string]int, len(sorted))
	var occupied [][]Span

	for _, span := range sorted {
		slot := 0
		for ; slot < len(occupied); slot++ {
			if !collides(occupied[slot], span) {
				break
			}
		}
		if slot == len(occupied) {
			occupied = append(occupied, nil)
		}
		occupied[slot] = append(occupied[slot], span)
		slots[span.ID] = slot
	}

	return slots
}

func collides(placed []Span, span Span) bool {
	for _, p := range placed {
		if p.Overlaps(span) {
			return true
		}
	}
	return false
}

// LaneCount returns the number of slots used by an assignment.
func LaneCount(slots map[string]int) int {
	n := 0
	for _, s := range slots {
		if s+1 > n {
			n = s + 1
		}
	}
	return n
}
