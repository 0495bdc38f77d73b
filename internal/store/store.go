package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"

	appLog "github.com/cwarden/timeline/internal/log"
	"github.com/cwarden/timeline/internal/theme"
	"github.com/cwarden/timeline/internal/timeline"
)

// Store owns the event list and the theme selection. Every mutation is
// written through to the KV; write failures are logged and otherwise
// ignored so the in-memory state stays authoritative.
type Store struct {
	mu     sync.RWMutex
	kv     KV
	events []Event
	theme  theme.Key
	newID  func() string
}

// New returns an empty store backed by kv. Call Load to read persisted state.
func New(kv KV) *Store {
	return &Store{
		kv:    kv,
		theme: theme.Default,
		newID: uuid.NewString,
	}
}

// Load reads the persisted events and theme. Missing or malformed data
// falls back to an empty list and the default theme.
func (s *Store) Load() {
	events := s.readEvents()
	key := s.readTheme()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	s.theme = key
}

// Reload re-reads the events entry and reports whether it differed from
// memory. Used when another process edits the file.
func (s *Store) Reload() bool {
	events := s.readEvents()

	s.mu.Lock()
	defer s.mu.Unlock()
	if equalEvents(events, s.events) {
		return false
	}
	s.events = events
	return true
}

func (s *Store) readEvents() []Event {
	data, err := s.kv.Get(EventsKey)
	if err != nil {
		if !errors.Is(err, ErrNotExist) {
			appLog.Error("events load failed", err)
		}
		return []Event{}
	}

	events, err := DecodeEvents(data)
	if err != nil {
		appLog.Error("events malformed, starting empty", err)
		return []Event{}
	}
	appLog.Debug("events loaded", "count", len(events))
	return events
}

func (s *Store) readTheme() theme.Key {
	data, err := s.kv.Get(ThemeKey)
	if err != nil {
		if !errors.Is(err, ErrNotExist) {
			appLog.Error("theme load failed", err)
		}
		return theme.Default
	}
	key := theme.Key(strings.TrimSpace(string(data)))
	if !theme.Valid(key) {
		appLog.Info("unknown theme, using default", "theme", key)
		return theme.Default
	}
	return key
}

// DecodeEvents parses a persisted event list, dropping entries that violate
// the event invariants.
func DecodeEvents(data []byte) ([]Event, error) {
	var raw []Event
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events := make([]Event, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, e := range raw {
		if e.ID == "" || seen[e.ID] {
			appLog.Info("dropping event with missing or duplicate id", "id", e.ID)
			continue
		}
		draft, err := e.draft().Normalize()
		if err != nil && !errors.Is(err, ErrEmptyTitle) {
			appLog.Info("dropping invalid event", "id", e.ID, "err", err)
			continue
		}
		if err == nil {
			e.EndDate = draft.EndDate
		}
		seen[e.ID] = true
		events = append(events, e)
	}
	return events, nil
}

// EncodeEvents serializes an event list in the persisted format.
func EncodeEvents(events []Event) ([]byte, error) {
	if events == nil {
		events = []Event{}
	}
	return json.Marshal(events)
}

func (e Event) draft() Draft {
	return Draft{
		Title:       e.Title,
		Description: e.Description,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Color:       e.Color,
	}
}

// Events returns a copy of the event list in insertion order.
func (s *Store) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Get returns the event with id.
func (s *Store) Get(id string) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return Event{}, false
	}
	return s.events[i], true
}

// Create validates d and appends a new event.
func (s *Store) Create(d Draft) (Event, error) {
	d, err := d.Normalize()
	if err != nil {
		return Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := Event{
		ID:          s.newID(),
		Title:       d.Title,
		Description: d.Description,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Color:       d.Color,
	}
	s.events = append(s.events, e)
	s.persistEvents()
	appLog.Info("event created", "id", e.ID, "start", e.StartDate, "end", e.EndDate)
	return e, nil
}

// Update replaces the editable fields of an existing event.
func (s *Store) Update(id string, d Draft) (Event, error) {
	d, err := d.Normalize()
	if err != nil {
		return Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Event{}, ErrNotFound
	}
	e := &s.events[i]
	e.Title = d.Title
	e.Description = d.Description
	e.StartDate = d.StartDate
	e.EndDate = d.EndDate
	e.Color = d.Color
	s.persistEvents()
	appLog.Info("event updated", "id", id)
	return *e, nil
}

// SetEndDate moves an event's end date, as a drag-resize does.
func (s *Store) SetEndDate(id, end string) error {
	if _, err := timeline.ParseDate(end); err != nil {
		return ErrInvalidDate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	if end < s.events[i].StartDate {
		return ErrEndBeforeStart
	}
	if s.events[i].EndDate == end {
		return nil
	}
	s.events[i].EndDate = end
	s.persistEvents()
	appLog.Debug("event resized", "id", id, "end", end)
	return nil
}

// Delete removes the event with id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.events = append(s.events[:i], s.events[i+1:]...)
	s.persistEvents()
	appLog.Info("event deleted", "id", id)
	return nil
}

// Merge adds events, replacing any with the same id. With replace, the
// existing list is discarded first. Returns the number of events written.
func (s *Store) Merge(events []Event, replace bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if replace {
		s.events = nil
	}
	n := 0
	for _, e := range events {
		d, err := e.draft().Normalize()
		if err != nil {
			appLog.Info("skipping invalid event", "id", e.ID, "err", err)
			continue
		}
		if e.ID == "" {
			e.ID = s.newID()
		}
		e.Title, e.EndDate = d.Title, d.EndDate
		if i := s.indexOf(e.ID); i >= 0 {
			s.events[i] = e
		} else {
			s.events = append(s.events, e)
		}
		n++
	}
	s.persistEvents()
	return n
}

// Theme returns the selected theme key.
func (s *Store) Theme() theme.Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme selects and persists a theme key.
func (s *Store) SetTheme(key theme.Key) {
	if !theme.Valid(key) {
		key = theme.Default
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = key
	if err := s.kv.Set(ThemeKey, []byte(key)); err != nil {
		appLog.Error("theme save failed", err, "theme", key)
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

// persistEvents writes the list; callers hold the lock.
func (s *Store) persistEvents() {
	data, err := EncodeEvents(s.events)
	if err != nil {
		appLog.Error("events encode failed", err)
		return
	}
	if err := s.kv.Set(EventsKey, data); err != nil {
		appLog.Error("events save failed", err, "count", len(s.events))
	}
}

func equalEvents(a, b []Event) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}
