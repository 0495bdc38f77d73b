package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// File settings
	DataDir  string
	LogFile  string
	LogLevel string

	// Display settings
	Theme           string
	StartupView     string
	WeekStartDay    time.Weekday
	DateFormat      string
	LineColumnWidth int
	GridRowHeight   int
	GridMargin      int

	// Behavior settings
	MaxWindowDays       int
	WatchStorage        bool
	DoubleClickInterval time.Duration
	HighlightDuration   time.Duration

	// KeyBindings maps an action to the keys that trigger it.
	KeyBindings map[string][]string

	// actions rebound by the file being loaded; the first bind replaces
	// the defaults, later binds add keys.
	rebound map[string]bool
}

// Actions that can be bound to keys.
var Actions = []string{
	"quit", "help", "today", "toggle_view", "cycle_theme",
	"new_event", "edit_event", "goto_date",
	"prev_day", "next_day", "prev_row", "next_row", "prev_page", "next_page",
}

var (
	setRe  = regexp.MustCompile(`^set\s+(\w+)\s+(.+)$`)
	bindRe = regexp.MustCompile(`^bind\s+(\S+)\s+(\S+)$`)
)

func DefaultConfig() *Config {
	return &Config{
		DataDir:  defaultDataDir(),
		LogLevel: "info",

		Theme:           "",
		StartupView:     "line",
		WeekStartDay:    time.Sunday,
		DateFormat:      "Mon Jan 2, 2006",
		LineColumnWidth: 12,
		GridRowHeight:   6,
		GridMargin:      2,

		MaxWindowDays:       1092,
		WatchStorage:        true,
		DoubleClickInterval: 400 * time.Millisecond,
		HighlightDuration:   time.Second,

		KeyBindings: map[string][]string{
			"quit":        {"q", "ctrl+c"},
			"help":        {"?"},
			"today":       {"t"},
			"toggle_view": {"v"},
			"cycle_theme": {"T"},
			"new_event":   {"n", "enter"},
			"edit_event":  {"e"},
			"goto_date":   {"g"},
			"prev_day":    {"h", "left"},
			"next_day":    {"l", "right"},
			"prev_row":    {"k", "up"},
			"next_row":    {"j", "down"},
			"prev_page":   {"K", "pgup"},
			"next_page":   {"J", "pgdown"},
		},
		rebound: map[string]bool{},
	}
}

// LoadConfig reads the first config file found in the search path, or
// returns the defaults when there is none.
func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	for _, path := range searchPaths() {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); err == nil {
			if err := config.loadFromFile(path); err != nil {
				return nil, fmt.Errorf("error loading config from %s: %w", path, err)
			}
			break
		}
	}

	return config, nil
}

// LoadFile reads an explicit config file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := config.loadFromFile(path); err != nil {
		return nil, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	return config, nil
}

func searchPaths() []string {
	home, _ := os.UserHomeDir()
	paths := []string{os.Getenv("TIMELINE_CONFIG")}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "timeline", "timelinerc"))
	}
	if home != "" {
		paths = append(paths,
			filepath.Join(home, ".config", "timeline", "timelinerc"),
			filepath.Join(home, ".timelinerc"),
		)
	}
	return paths
}

func (c *Config) loadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if err := c.parseLine(line); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}

	return scanner.Err()
}

func (c *Config) parseLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	if matches := setRe.FindStringSubmatch(line); matches != nil {
		return c.setVariable(matches[1], matches[2])
	}

	if matches := bindRe.FindStringSubmatch(line); matches != nil {
		return c.bind(matches[1], matches[2])
	}

	return fmt.Errorf("unknown config line: %s", line)
}

func (c *Config) bind(key, action string) error {
	if !validAction(action) {
		return fmt.Errorf("unknown action: %s", action)
	}
	if c.rebound == nil {
		c.rebound = map[string]bool{}
	}

	// A key belongs to one action.
	for a, keys := range c.KeyBindings {
		c.KeyBindings[a] = removeKey(keys, key)
	}

	if !c.rebound[action] {
		c.rebound[action] = true
		c.KeyBindings[action] = nil
	}
	c.KeyBindings[action] = append(c.KeyBindings[action], key)
	return nil
}

func (c *Config) setVariable(name, value string) error {
	// Remove quotes if present
	value = strings.Trim(strings.TrimSpace(value), `"'`)

	switch name {
	case "data_dir":
		c.DataDir = expandHome(value)

	case "log_file":
		c.LogFile = expandHome(value)

	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "error":
			c.LogLevel = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid log_level: %s", value)
		}

	case "theme":
		c.Theme = strings.ToLower(value)

	case "startup_view":
		switch strings.ToLower(value) {
		case "line", "grid":
			c.StartupView = strings.ToLower(value)
		default:
			return fmt.Errorf("invalid startup_view: %s", value)
		}

	case "week_start_day":
		switch strings.ToLower(value) {
		case "sunday", "sun", "0":
			c.WeekStartDay = time.Sunday
		case "monday", "mon", "1":
			c.WeekStartDay = time.Monday
		default:
			return fmt.Errorf("invalid week_start_day: %s", value)
		}

	case "date_format":
		c.DateFormat = value

	case "line_column_width":
		return setPositive(&c.LineColumnWidth, name, value)

	case "grid_row_height":
		if err := setPositive(&c.GridRowHeight, name, value); err != nil {
			return err
		}
		if c.GridRowHeight < 3 {
			return fmt.Errorf("invalid grid_row_height: %s (minimum 3)", value)
		}

	case "grid_margin":
		margin, err := strconv.Atoi(value)
		if err != nil || margin < 0 {
			return fmt.Errorf("invalid grid_margin: %s", value)
		}
		c.GridMargin = margin

	case "max_window_days":
		days, err := strconv.Atoi(value)
		if err != nil || days < 0 {
			return fmt.Errorf("invalid max_window_days: %s", value)
		}
		c.MaxWindowDays = days

	case "watch_storage":
		c.WatchStorage = parseBool(value)

	case "double_click_interval":
		d, err := parseDuration(value, time.Millisecond)
		if err != nil {
			return fmt.Errorf("invalid double_click_interval: %s", value)
		}
		c.DoubleClickInterval = d

	case "highlight_duration":
		d, err := parseDuration(value, time.Millisecond)
		if err != nil {
			return fmt.Errorf("invalid highlight_duration: %s", value)
		}
		c.HighlightDuration = d

	default:
		return fmt.Errorf("unknown config variable: %s", name)
	}

	return nil
}

func setPositive(dst *int, name, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fmt.Errorf("invalid %s: %s", name, value)
	}
	*dst = n
	return nil
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// parseDuration accepts a Go duration or a bare number of units.
func parseDuration(value string, unit time.Duration) (time.Duration, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid duration: %s", value)
	}
	return time.Duration(n) * unit, nil
}

func validAction(action string) bool {
	for _, a := range Actions {
		if a == action {
			return true
		}
	}
	return false
}

func removeKey(keys []string, key string) []string {
	out := keys[:0:0]
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "timeline")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "timeline")
}
