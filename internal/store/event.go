package store

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/cwarden/timeline/internal/timeline"
)

// MaxTitleLength is the number of characters kept from a title.
const MaxTitleLength = 15

var (
	ErrNotFound       = errors.New("event not found")
	ErrEmptyTitle     = errors.New("title is required")
	ErrInvalidDate    = errors.New("invalid date")
	ErrEndBeforeStart = errors.New("end date is before start date")
)

// Event is a user event spanning StartDate through EndDate inclusive.
type Event struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description,omitempty"`
	StartDate   string `json:"startDate" yaml:"startDate"`
	EndDate     string `json:"endDate" yaml:"endDate"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Span returns the event's interval for layout.
func (e Event) Span() timeline.Span {
	return timeline.Span{ID: e.ID, Start: e.StartDate, End: e.EndDate}
}

// Spans converts events for lane assignment.
func Spans(events []Event) []timeline.Span {
	spans := make([]timeline.Span, len(events))
	for i, e := range events {
		spans[i] = e.Span()
	}
	return spans
}

// Draft holds the editable fields of an event.
type Draft struct {
	Title       string
	Description string
	StartDate   string
	EndDate     string
	Color       string
}

// Normalize validates a draft: the title must be non-blank and is cut to
// MaxTitleLength characters, both dates must parse, and an end date before
// the start is clamped to the start.
func (d Draft) Normalize() (Draft, error) {
	if strings.TrimSpace(d.Title) == "" {
		return d, ErrEmptyTitle
	}
	d.Title = TruncateTitle(d.Title)

	start, err := timeline.ParseDate(d.StartDate)
	if err != nil {
		return d, ErrInvalidDate
	}
	end, err := timeline.ParseDate(d.EndDate)
	if err != nil {
		return d, ErrInvalidDate
	}
	if end.Before(start) {
		d.EndDate = d.StartDate
	}
	return d, nil
}

// TruncateTitle keeps the first MaxTitleLength characters of s.
func TruncateTitle(s string) string {
	if utf8.RuneCountInString(s) <= MaxTitleLength {
		return s
	}
	return string([]rune(s)[:MaxTitleLength])
}
