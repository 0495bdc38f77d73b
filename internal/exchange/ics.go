package exchange

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	goical "github.com/emersion/go-ical"

	"github.com/cwarden/timeline/internal/store"
	"github.com/cwarden/timeline/internal/timeline"
)

const productID = "-//cwarden//timeline//EN"

// Events are exported as all-day VEVENTs; DTEND is exclusive so it is one
// day past the inclusive end date.
func exportICS(w io.Writer, events []store.Event) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	stamp := time.Now().UTC()
	for _, e := range events {
		start, err := timeline.ParseDate(e.StartDate)
		if err != nil {
			return fmt.Errorf("event %s: %w", e.ID, err)
		}
		end, err := timeline.ParseDate(e.EndDate)
		if err != nil {
			return fmt.Errorf("event %s: %w", e.ID, err)
		}

		ve := cal.AddEvent(e.ID)
		ve.SetDtStampTime(stamp)
		ve.SetAllDayStartAt(start)
		ve.SetAllDayEndAt(end.AddDate(0, 0, 1))
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Color != "" {
			ve.SetProperty(ics.ComponentPropertyColor, e.Color)
		}
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

func importICS(r io.Reader) ([]store.Event, error) {
	var events []store.Event

	dec := goical.NewDecoder(r)
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode calendar: %w", err)
		}

		for _, ve := range cal.Events() {
			e, err := parseVEvent(ve)
			if err != nil {
				return nil, err
			}
			events = append(events, e)
		}
	}
	return events, nil
}

func parseVEvent(ve goical.Event) (store.Event, error) {
	var e store.Event

	if p := ve.Props.Get(goical.PropUID); p != nil {
		e.ID = p.Value
	}
	if p := ve.Props.Get(goical.PropSummary); p != nil {
		e.Title, _ = p.Text()
	}
	if p := ve.Props.Get(goical.PropDescription); p != nil {
		e.Description, _ = p.Text()
	}
	if p := ve.Props.Get(goical.PropColor); p != nil {
		e.Color = strings.TrimSpace(p.Value)
	}

	start, err := ve.DateTimeStart(time.Local)
	if err != nil {
		return e, fmt.Errorf("event %q: DTSTART: %w", e.ID, err)
	}
	if start.IsZero() {
		return e, fmt.Errorf("event %q: missing DTSTART", e.ID)
	}
	end := start
	if p := ve.Props.Get(goical.PropDateTimeEnd); p != nil {
		dtend, err := p.DateTime(time.Local)
		if err != nil {
			return e, fmt.Errorf("event %q: DTEND: %w", e.ID, err)
		}
		// DTEND is exclusive; step back inside the last covered day.
		if dtend.After(start) {
			end = dtend.Add(-time.Nanosecond)
		}
	} else if p := ve.Props.Get(goical.PropDuration); p != nil {
		d, err := p.Duration()
		if err != nil {
			return e, fmt.Errorf("event %q: DURATION: %w", e.ID, err)
		}
		if d > 0 {
			end = start.Add(d - time.Nanosecond)
		}
	}

	e.StartDate = timeline.FormatDate(start.In(time.Local))
	e.EndDate = timeline.FormatDate(end.In(time.Local))
	return e, nil
}
