package timeline

import "math"

// ResizeEnd computes the end date produced by dragging an event's trailing
// edge dx units with columns of width colWidth. The drag moves the captured
// original end date by the rounded number of days. ok is false when the
// result would precede the event's start date.
func ResizeEnd(start, originEnd string, dx int, colWidth float64) (string, bool) {
	if colWidth <= 0 {
		return originEnd, false
	}
	days := int(math.Round(float64(dx) / colWidth))
	end, err := AddDays(originEnd, days)
	if err != nil {
		return originEnd, false
	}
	if end < start {
		return originEnd, false
	}
	return end, true
}
