// Package exchange converts event lists to and from JSON, YAML and
// iCalendar files.
package exchange

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwarden/timeline/internal/store"
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	ICS  Format = "ics"
)

// ParseFormat accepts a format name or common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "ics", "ical", "icalendar":
		return ICS, nil
	}
	return "", fmt.Errorf("unknown format: %q", s)
}

// FormatFromPath guesses the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return JSON
}

// Export writes events to w.
func Export(w io.Writer, events []store.Event, format Format) error {
	if events == nil {
		events = []store.Event{}
	}
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(events); err != nil {
			return err
		}
		return enc.Close()
	case ICS:
		return exportICS(w, events)
	}
	return fmt.Errorf("unknown format: %q", format)
}

// Import reads events from r. Events are returned as found; validation
// happens when they are merged into a store.
func Import(r io.Reader, format Format) ([]store.Event, error) {
	var events []store.Event
	switch format {
	case JSON:
		if err := json.NewDecoder(r).Decode(&events); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&events); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case ICS:
		return importICS(r)
	default:
		return nil, fmt.Errorf("unknown format: %q", format)
	}
	return events, nil
}
