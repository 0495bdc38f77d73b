package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cwarden/timeline/internal/config"
	appLog "github.com/cwarden/timeline/internal/log"
	"github.com/cwarden/timeline/internal/store"
	"github.com/cwarden/timeline/internal/theme"
	"github.com/cwarden/timeline/internal/ui"
)

var (
	cfgFile   string
	dataDir   string
	viewFlag  string
	themeFlag string
	cfg       *config.Config

	// appFs backs the data directory and the files read and written by
	// export and import.
	appFs = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:   "timeline",
	Short: "A scrollable day timeline for the terminal",
	Long: `Timeline shows an endless horizontal line of days, or a two-week grid,
with multi-day events drawn as bars. Double-click a day to add an event,
click a bar to edit it and drag its end to change how long it runs.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Directory holding events.json and theme")
	rootCmd.Flags().StringVar(&viewFlag, "view", "", "Startup view: line or grid")
	rootCmd.Flags().StringVar(&themeFlag, "theme", "", "Theme: slate, indigo or emerald")
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	level, err := appLog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	appLog.SetLevel(level)
	if cfg.LogFile != "" {
		if err := appLog.OpenFile(cfg.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	return nil
}

// openStore loads the store under the configured data directory.
func openStore() (*store.Store, *store.FileKV, error) {
	if err := appFs.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("create data directory: %w", err)
	}
	kv := store.NewFileKV(appFs, cfg.DataDir)
	st := store.New(kv)
	st.Load()
	return st, kv, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	defer appLog.Close()

	view := cfg.StartupView
	if viewFlag != "" {
		view = viewFlag
	}
	mode, err := parseView(view)
	if err != nil {
		return err
	}

	st, kv, err := openStore()
	if err != nil {
		return err
	}

	// An explicit theme wins over the stored one and becomes the new default.
	selected := cfg.Theme
	if themeFlag != "" {
		selected = themeFlag
	}
	if selected != "" {
		key := theme.Key(selected)
		if !theme.Valid(key) {
			return fmt.Errorf("unknown theme %q (want one of %v)", selected, theme.Keys())
		}
		st.SetTheme(key)
	}

	var watcher *store.Watcher
	if cfg.WatchStorage {
		watcher, err = store.NewWatcher(kv)
		if err != nil {
			appLog.Error("storage watcher unavailable", err, "dir", kv.Dir())
		} else {
			defer watcher.Close()
		}
	}

	appLog.Info("starting", "data_dir", cfg.DataDir, "view", mode, "events", len(st.Events()))

	model := ui.NewModel(ui.Options{
		Config:  cfg,
		Store:   st,
		Watcher: watcher,
		View:    mode,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}

func parseView(s string) (ui.ViewMode, error) {
	switch s {
	case "", "line":
		return ui.ViewLine, nil
	case "grid":
		return ui.ViewGrid, nil
	}
	return ui.ViewLine, fmt.Errorf("unknown view %q (want line or grid)", s)
}
