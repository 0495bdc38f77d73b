package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cwarden/timeline/internal/config"
	"github.com/cwarden/timeline/internal/exchange"
	"github.com/cwarden/timeline/internal/store"
	"github.com/cwarden/timeline/internal/ui"
)

func TestPrintEvents(t *testing.T) {
	events := []store.Event{
		{ID: "b", Title: "Offsite", StartDate: "2024-03-05", EndDate: "2024-03-07", Description: "Bring laptop"},
		{ID: "a", Title: "Standup", StartDate: "2024-03-04", EndDate: "2024-03-04"},
		{ID: "c", Title: "Later", StartDate: "2024-04-01", EndDate: "2024-04-01"},
	}
	from := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	to := time.Date(2024, 3, 6, 0, 0, 0, 0, time.Local)

	var buf bytes.Buffer
	printEvents(&buf, events, from, to, "2006-01-02")
	out := buf.String()

	want := "Events from 2024-03-04 to 2024-03-06:\n" +
		"  2024-03-04 - Standup\n" +
		"  2024-03-05 → 2024-03-07 - Offsite\n" +
		"    Bring laptop\n"
	if out != want {
		t.Errorf("Unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestPrintEventsEmpty(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)

	var buf bytes.Buffer
	printEvents(&buf, nil, day, day, "Mon Jan 2, 2006")
	out := buf.String()

	if !strings.HasPrefix(out, "Events for Sun Mar 10, 2024:") {
		t.Errorf("Unexpected header: %q", out)
	}
	if !strings.Contains(out, "No events found.") {
		t.Errorf("Expected empty notice, got %q", out)
	}
}

func TestParseView(t *testing.T) {
	tests := []struct {
		input   string
		want    ui.ViewMode
		wantErr bool
	}{
		{"", ui.ViewLine, false},
		{"line", ui.ViewLine, false},
		{"grid", ui.ViewGrid, false},
		{"month", ui.ViewLine, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseView(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseView(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseView(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		explicit, path string
		want           exchange.Format
		wantErr        bool
	}{
		{"", "", exchange.JSON, false},
		{"", "-", exchange.JSON, false},
		{"", "backup.yml", exchange.YAML, false},
		{"", "calendar.ics", exchange.ICS, false},
		{"yaml", "calendar.ics", exchange.YAML, false},
		{"csv", "events.csv", "", true},
	}

	for _, tt := range tests {
		got, err := resolveFormat(tt.explicit, tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveFormat(%q, %q) error = %v", tt.explicit, tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %s, want %s", tt.explicit, tt.path, got, tt.want)
		}
	}
}

// useMemFs points the commands at an in-memory filesystem and data dir.
func useMemFs(t *testing.T) afero.Fs {
	t.Helper()
	prevFs, prevCfg := appFs, cfg
	prevExport, prevOutput := exportFormat, exportOutput
	prevImport, prevReplace := importFormat, importReplace
	t.Cleanup(func() {
		appFs, cfg = prevFs, prevCfg
		exportFormat, exportOutput = prevExport, prevOutput
		importFormat, importReplace = prevImport, prevReplace
	})

	fsys := afero.NewMemMapFs()
	appFs = fsys
	cfg = config.DefaultConfig()
	cfg.DataDir = "/data"
	exportFormat, exportOutput = "", ""
	importFormat, importReplace = "", false
	return fsys
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&buf)
	c.SetIn(strings.NewReader(""))
	return c, &buf
}

func TestImportThenExport(t *testing.T) {
	fsys := useMemFs(t)

	input := `[
  {"id": "a", "title": "Standup", "startDate": "2024-03-04", "endDate": "2024-03-04"},
  {"id": "b", "title": "Offsite", "startDate": "2024-03-07", "endDate": "2024-03-05"},
  {"id": "c", "title": "Broken", "startDate": "someday", "endDate": "2024-03-05"}
]`
	if err := afero.WriteFile(fsys, "/in/events.json", []byte(input), 0o600); err != nil {
		t.Fatal(err)
	}

	c, out := testCommand()
	if err := runImport(c, []string{"/in/events.json"}); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := out.String(); got != "Imported 2 of 3 events.\n" {
		t.Errorf("Unexpected import output: %q", got)
	}
	if ok, _ := afero.Exists(fsys, "/data/events.json"); !ok {
		t.Error("Import should persist to the data directory")
	}

	exportOutput = "/out/backup.yaml"
	if err := fsys.MkdirAll("/out", 0o700); err != nil {
		t.Fatal(err)
	}
	c, _ = testCommand()
	if err := runExport(c, nil); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := fsys.Open("/out/backup.yaml")
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	events, err := exchange.Import(f, exchange.YAML)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 exported events, got %d", len(events))
	}
	for _, e := range events {
		if e.ID == "b" && e.EndDate != "2024-03-07" {
			t.Errorf("End before start should be clamped, got %s", e.EndDate)
		}
	}
}

func TestExportToStdout(t *testing.T) {
	useMemFs(t)
	exportFormat = "ics"

	c, out := testCommand()
	if err := runExport(c, nil); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out.String(), "BEGIN:VCALENDAR") {
		t.Errorf("Expected a calendar, got %q", out.String())
	}
}

func TestImportMissingFile(t *testing.T) {
	useMemFs(t)

	c, _ := testCommand()
	if err := runImport(c, []string{"/nope.json"}); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
