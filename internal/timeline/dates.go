package timeline

import "time"

// DateItem is one materialized calendar day.
type DateItem struct {
	Date      time.Time
	ID        string
	IsToday   bool
	IsWeekend bool
	DayName   string
	MonthName string
	DayNumber int
}

const (
	initialSpan     = 364
	initialLookback = 182
)

// Generate returns days consecutive calendar days starting at start.
func Generate(start time.Time, days int) []DateItem {
	return GenerateAt(start, days, time.Now())
}

// GenerateAt is Generate with an explicit notion of now.
func GenerateAt(start time.Time, days int, now time.Time) []DateItem {
	if days <= 0 {
		return nil
	}

	today := FormatDate(Midnight(now))
	start = Midnight(start)

	items := make([]DateItem, 0, days)
	for i := 0; i < days; i++ {
		current := start.AddDate(0, 0, i)
		id := FormatDate(current)
		weekday := current.Weekday()
		items = append(items, DateItem{
			Date:      current,
			ID:        id,
			IsToday:   id == today,
			IsWeekend: weekday == time.Saturday || weekday == time.Sunday,
			DayName:   current.Format("Mon"),
			MonthName: current.Format("January"),
			DayNumber: current.Day(),
		})
	}
	return items
}

// InitialDates returns the startup window: 364 days beginning half a year
// before now, moved back to the previous weekStart so rows align on weeks.
func InitialDates(now time.Time, weekStart time.Weekday) []DateItem {
	return GenerateAt(WindowStart(now, weekStart), initialSpan, now)
}

// WindowStart returns the first day of a window centered on center.
func WindowStart(center time.Time, weekStart time.Weekday) time.Time {
	mid := Midnight(center).AddDate(0, 0, -initialLookback)
	back := (int(mid.Weekday()) - int(weekStart) + 7) % 7
	return mid.AddDate(0, 0, -back)
}
