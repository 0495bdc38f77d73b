package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.StartupView != "line" {
		t.Errorf("Wrong default startup view: %s", cfg.StartupView)
	}

	if cfg.WeekStartDay != time.Sunday {
		t.Errorf("Wrong default week start day: %v", cfg.WeekStartDay)
	}

	if cfg.MaxWindowDays != 1092 {
		t.Errorf("Wrong default max window: %d", cfg.MaxWindowDays)
	}

	if cfg.DoubleClickInterval != 400*time.Millisecond {
		t.Errorf("Wrong default double click interval: %v", cfg.DoubleClickInterval)
	}

	if cfg.HighlightDuration != time.Second {
		t.Errorf("Wrong default highlight duration: %v", cfg.HighlightDuration)
	}

	if !cfg.WatchStorage {
		t.Error("Storage watching should be enabled by default")
	}

	for _, action := range Actions {
		if len(cfg.KeyBindings[action]) == 0 {
			t.Errorf("No default key for %s", action)
		}
	}
}

func TestParseLine(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		line     string
		check    func(*Config) bool
		hasError bool
	}{
		{
			line: "set week_start_day monday",
			check: func(c *Config) bool {
				return c.WeekStartDay == time.Monday
			},
		},
		{
			line: "set watch_storage false",
			check: func(c *Config) bool {
				return !c.WatchStorage
			},
		},
		{
			line: "set double_click_interval 250",
			check: func(c *Config) bool {
				return c.DoubleClickInterval == 250*time.Millisecond
			},
		},
		{
			line: "set highlight_duration 2s",
			check: func(c *Config) bool {
				return c.HighlightDuration == 2*time.Second
			},
		},
		{
			line: `set theme "Emerald"`,
			check: func(c *Config) bool {
				return c.Theme == "emerald"
			},
		},
		{
			line: "bind x new_event",
			check: func(c *Config) bool {
				keys := c.KeyBindings["new_event"]
				return len(keys) == 1 && keys[0] == "x"
			},
		},
		{
			line:     "bind x explode",
			hasError: true,
		},
		{
			line:     "color today yellow",
			hasError: true,
		},
		{
			line:     "invalid command",
			hasError: true,
		},
		{
			line: "# comment line",
		},
		{
			line: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			err := cfg.parseLine(tt.line)

			if tt.hasError && err == nil {
				t.Error("Expected error but got none")
			}

			if !tt.hasError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}

			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Check failed for line: %s", tt.line)
			}
		})
	}
}

func TestSetVariable(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		value    string
		check    func(*Config) bool
		hasError bool
	}{
		{
			name:  "data_dir",
			value: "~/timeline-data",
			check: func(c *Config) bool {
				return !strings.HasPrefix(c.DataDir, "~") && strings.HasSuffix(c.DataDir, "timeline-data")
			},
		},
		{
			name:  "line_column_width",
			value: "16",
			check: func(c *Config) bool {
				return c.LineColumnWidth == 16
			},
		},
		{
			name:     "line_column_width",
			value:    "0",
			hasError: true,
		},
		{
			name:     "grid_row_height",
			value:    "2",
			hasError: true,
		},
		{
			name:  "startup_view",
			value: "grid",
			check: func(c *Config) bool {
				return c.StartupView == "grid"
			},
		},
		{
			name:     "startup_view",
			value:    "month",
			hasError: true,
		},
		{
			name:  "log_level",
			value: "DEBUG",
			check: func(c *Config) bool {
				return c.LogLevel == "debug"
			},
		},
		{
			name:     "log_level",
			value:    "verbose",
			hasError: true,
		},
		{
			name:  "max_window_days",
			value: "0",
			check: func(c *Config) bool {
				return c.MaxWindowDays == 0
			},
		},
		{
			name:     "double_click_interval",
			value:    "soon",
			hasError: true,
		},
		{
			name:     "unknown_variable",
			value:    "something",
			hasError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			err := cfg.setVariable(tt.name, tt.value)

			if tt.hasError && err == nil {
				t.Error("Expected error but got none")
			}

			if !tt.hasError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}

			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Check failed for %s = %s", tt.name, tt.value)
			}
		})
	}
}

func TestBindReplacesThenAppends(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.bind("Q", "quit"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.bind("x", "quit"); err != nil {
		t.Fatal(err)
	}

	keys := cfg.KeyBindings["quit"]
	if len(keys) != 2 || keys[0] != "Q" || keys[1] != "x" {
		t.Errorf("Wrong quit keys: %v", keys)
	}

	// Stealing a key removes it from its previous action.
	if err := cfg.bind("h", "help"); err != nil {
		t.Fatal(err)
	}
	for _, k := range cfg.KeyBindings["prev_day"] {
		if k == "h" {
			t.Errorf("h still bound to prev_day: %v", cfg.KeyBindings["prev_day"])
		}
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "timelinerc")

	content := `# Test config file
set data_dir /tmp/timeline-test
set log_file /tmp/timeline-test/timeline.log
set startup_view grid
set week_start_day monday
set max_window_days 728

bind Q quit
bind s toggle_view
`

	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	cfg, err := LoadFile(configFile)
	if err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if cfg.DataDir != "/tmp/timeline-test" {
		t.Errorf("Wrong data dir: %s", cfg.DataDir)
	}

	if cfg.LogFile != "/tmp/timeline-test/timeline.log" {
		t.Errorf("Wrong log file: %s", cfg.LogFile)
	}

	if cfg.StartupView != "grid" {
		t.Errorf("Wrong startup view: %s", cfg.StartupView)
	}

	if cfg.WeekStartDay != time.Monday {
		t.Errorf("Wrong week start day: %v", cfg.WeekStartDay)
	}

	if cfg.MaxWindowDays != 728 {
		t.Errorf("Wrong max window: %d", cfg.MaxWindowDays)
	}

	if got := cfg.KeyBindings["quit"]; len(got) != 1 || got[0] != "Q" {
		t.Errorf("Wrong quit binding: %v", got)
	}

	if got := cfg.KeyBindings["toggle_view"]; len(got) != 1 || got[0] != "s" {
		t.Errorf("Wrong toggle binding: %v", got)
	}
}

func TestLoadFileReportsLine(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "timelinerc")
	content := "set startup_view grid\nset grid_margin wide\n"
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configFile)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("Expected line 2 error, got %v", err)
	}
}

func TestLoadConfigSearchPath(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "custom")
	if err := os.WriteFile(configFile, []byte("set theme indigo\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TIMELINE_CONFIG", configFile)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Theme != "indigo" {
		t.Errorf("Wrong theme: %s", cfg.Theme)
	}
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	if got := defaultDataDir(); got != "/xdg/data/timeline" {
		t.Errorf("Expected /xdg/data/timeline, got %s", got)
	}
}
