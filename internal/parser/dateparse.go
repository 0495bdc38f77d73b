package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	weekdayRe   = regexp.MustCompile(`^(next|this)\s+(mon|monday|tue|tuesday|wed|wednesday|thu|thursday|fri|friday|sat|saturday|sun|sunday)$`)
	inRe        = regexp.MustCompile(`^in\s+(\d+)\s+(day|days|week|weeks|month|months)$`)
	fromNowRe   = regexp.MustCompile(`^(\d+)\s+(day|days|week|weeks|month|months)\s+from\s+(now|today)$`)
	offsetRe    = regexp.MustCompile(`^([+-])\s*(\d+)\s*(d|day|days|w|week|weeks|m|month|months)?$`)
	numericRe   = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})(?:[/-](\d{4}))?$`)
	monthNameRe = regexp.MustCompile(`^(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december)\s+(\d{1,2})(?:,?\s+(\d{4}))?$`)
)

// DateParser turns short date expressions into calendar days.
//
// Supported forms: 2024-05-01, 12/25/2024, 12/25, Jan 5, Jan 5 2025, today,
// tomorrow, yesterday, next fri, this mon, in 3 weeks, 2 days from now, and
// signed offsets such as +3d, -1w or +2 which count from a reference day.
type DateParser struct {
	now      time.Time
	location *time.Location
}

func NewDateParser() *DateParser {
	return &DateParser{
		now:      time.Now(),
		location: time.Local,
	}
}

func (p *DateParser) SetNow(now time.Time) {
	p.now = now
}

// Parse resolves input relative to today.
func (p *DateParser) Parse(input string) (time.Time, error) {
	return p.ParseFrom(input, p.today())
}

// ParseFrom resolves input; signed offsets count from ref.
func (p *DateParser) ParseFrom(input string, ref time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return time.Time{}, fmt.Errorf("empty input")
	}

	if t, err := time.ParseInLocation("2006-01-02", input, p.location); err == nil {
		return t, nil
	}
	if date, ok := p.parseOffset(input, ref); ok {
		return date, nil
	}
	if date, ok := p.parseRelative(input); ok {
		return date, nil
	}
	if date, ok := p.parseAbsolute(input); ok {
		return date, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date: %q", input)
}

func (p *DateParser) parseOffset(input string, ref time.Time) (time.Time, bool) {
	matches := offsetRe.FindStringSubmatch(input)
	if matches == nil {
		return time.Time{}, false
	}
	n, _ := strconv.Atoi(matches[2])
	if matches[1] == "-" {
		n = -n
	}
	return addUnit(p.midnight(ref), n, matches[3]), true
}

func (p *DateParser) parseRelative(input string) (time.Time, bool) {
	switch input {
	case "today":
		return p.today(), true
	case "tomorrow", "tmrw":
		return p.today().AddDate(0, 0, 1), true
	case "yesterday":
		return p.today().AddDate(0, 0, -1), true
	}

	if matches := weekdayRe.FindStringSubmatch(input); matches != nil {
		return p.findNextWeekday(p.parseWeekday(matches[2]), matches[1] == "next"), true
	}

	if matches := inRe.FindStringSubmatch(input); matches != nil {
		n, _ := strconv.Atoi(matches[1])
		return addUnit(p.today(), n, matches[2]), true
	}

	if matches := fromNowRe.FindStringSubmatch(input); matches != nil {
		n, _ := strconv.Atoi(matches[1])
		return addUnit(p.today(), n, matches[2]), true
	}

	return time.Time{}, false
}

func (p *DateParser) parseAbsolute(input string) (time.Time, bool) {
	// MM/DD/YYYY, MM-DD-YYYY, MM/DD (current year)
	if matches := numericRe.FindStringSubmatch(input); matches != nil {
		month, _ := strconv.Atoi(matches[1])
		day, _ := strconv.Atoi(matches[2])
		year := p.now.Year()
		if matches[3] != "" {
			year, _ = strconv.Atoi(matches[3])
		}
		return p.validDate(year, time.Month(month), day)
	}

	// Month DD[, YYYY]
	if matches := monthNameRe.FindStringSubmatch(input); matches != nil {
		day, _ := strconv.Atoi(matches[2])
		year := p.now.Year()
		if matches[3] != "" {
			year, _ = strconv.Atoi(matches[3])
		}
		return p.validDate(year, p.parseMonth(matches[1]), day)
	}

	return time.Time{}, false
}

// validDate rejects days that time.Date would silently normalize, like 2/30.
func (p *DateParser) validDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, p.location)
	if date.Month() != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

func addUnit(date time.Time, n int, unit string) time.Time {
	switch {
	case strings.HasPrefix(unit, "w"):
		return date.AddDate(0, 0, n*7)
	case strings.HasPrefix(unit, "m"):
		return date.AddDate(0, n, 0)
	default:
		return date.AddDate(0, 0, n)
	}
}

func (p *DateParser) parseWeekday(s string) time.Weekday {
	switch s {
	case "sun", "sunday":
		return time.Sunday
	case "mon", "monday":
		return time.Monday
	case "tue", "tuesday":
		return time.Tuesday
	case "wed", "wednesday":
		return time.Wednesday
	case "thu", "thursday":
		return time.Thursday
	case "fri", "friday":
		return time.Friday
	case "sat", "saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}

func (p *DateParser) parseMonth(s string) time.Month {
	switch s {
	case "jan", "january":
		return time.January
	case "feb", "february":
		return time.February
	case "mar", "march":
		return time.March
	case "apr", "april":
		return time.April
	case "may":
		return time.May
	case "jun", "june":
		return time.June
	case "jul", "july":
		return time.July
	case "aug", "august":
		return time.August
	case "sep", "sept", "september":
		return time.September
	case "oct", "october":
		return time.October
	case "nov", "november":
		return time.November
	case "dec", "december":
		return time.December
	default:
		return time.January
	}
}

func (p *DateParser) findNextWeekday(target time.Weekday, skipThisWeek bool) time.Time {
	date := p.today()
	daysUntilTarget := int(target - date.Weekday())

	if daysUntilTarget <= 0 || skipThisWeek {
		daysUntilTarget += 7
	}

	return date.AddDate(0, 0, daysUntilTarget)
}

func (p *DateParser) today() time.Time {
	return p.midnight(p.now)
}

func (p *DateParser) midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.location)
}
