package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/cwarden/timeline/internal/config"
	appLog "github.com/cwarden/timeline/internal/log"
	"github.com/cwarden/timeline/internal/parser"
	"github.com/cwarden/timeline/internal/store"
	"github.com/cwarden/timeline/internal/theme"
	"github.com/cwarden/timeline/internal/timeline"
)

type ViewMode int

const (
	ViewLine ViewMode = iota
	ViewGrid
)

func (v ViewMode) String() string {
	if v == ViewGrid {
		return "grid"
	}
	return "line"
}

// State is the interaction state.
type State int

const (
	StateIdle State = iota
	StateCreating
	StateEditing
	StateResizing
)

func (s State) String() string {
	switch s {
	case StateCreating:
		return "creating"
	case StateEditing:
		return "editing"
	case StateResizing:
		return "resizing"
	}
	return "idle"
}

// Options configures a Model.
type Options struct {
	Config  *config.Config
	Store   *store.Store
	Watcher *store.Watcher
	View    ViewMode
	Now     func() time.Time
}

type Model struct {
	// Core components
	config  *config.Config
	store   *store.Store
	watcher *store.Watcher
	parser  *parser.DateParser
	now     func() time.Time

	// View state
	mode    ViewMode
	state   State
	window  *timeline.Window
	events  []store.Event
	slots   map[string]int
	cursor  string
	scrollX int // line view offset in cells
	scrollY int // grid view offset in cells
	mounted bool

	// Centering animation
	centerTarget string
	centerSeq    int
	centerFrames int

	// Pointer state
	lastClick click
	gesture   *resizeGesture

	// Highlight of a newly created event
	highlightID  string
	highlightSeq int

	// UI state
	width       int
	height      int
	helpVisible bool
	message     string
	messageSeq  int

	// Modal state
	form      *eventForm
	gotoInput *textinput.Model

	keys   keyMap
	help   help.Model
	theme  theme.Key
	styles Styles
}

type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style
	Tab        lipgloss.Style
	TabActive  lipgloss.Style
	DayName    lipgloss.Style
	DayNumber  lipgloss.Style
	Today      lipgloss.Style
	Cursor     lipgloss.Style
	Weekend    lipgloss.Style
	Body       lipgloss.Style
	Month      lipgloss.Style
	Bar        lipgloss.Style
	BarEdge    lipgloss.Style
	Handle     lipgloss.Style
	Highlight  lipgloss.Style
	Hidden     lipgloss.Style
	Modal      lipgloss.Style
	Label      lipgloss.Style
	Help       lipgloss.Style
	Message    lipgloss.Style
	Error      lipgloss.Style
	Status     lipgloss.Style
}

// NewStyles derives the render styles of a theme.
func NewStyles(b theme.Bundle) Styles {
	c := lipgloss.Color
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(c(b.Text)).
			Background(c(b.Header)).
			Bold(true),
		TitleMuted: lipgloss.NewStyle().
			Foreground(c(b.Muted)).
			Background(c(b.Header)),
		Tab: lipgloss.NewStyle().
			Foreground(c(b.Muted)).
			Background(c(b.Header)).
			Padding(0, 1),
		TabActive: lipgloss.NewStyle().
			Foreground(c(b.OnPrimary)).
			Background(c(b.Primary)).
			Bold(true).
			Padding(0, 1),
		DayName: lipgloss.NewStyle().
			Foreground(c(b.Muted)),
		DayNumber: lipgloss.NewStyle().
			Foreground(c(b.Text)),
		Today: lipgloss.NewStyle().
			Foreground(c(b.OnPrimary)).
			Background(c(b.Primary)).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Foreground(c(b.Text)).
			Background(c(b.Light)).
			Bold(true),
		Weekend: lipgloss.NewStyle().
			Background(c(b.Item)),
		Body: lipgloss.NewStyle().
			Background(c(b.Card)),
		Month: lipgloss.NewStyle().
			Foreground(c(b.Primary)).
			Bold(true),
		Bar: lipgloss.NewStyle().
			Foreground(c(b.Text)).
			Background(c(b.Container)),
		BarEdge: lipgloss.NewStyle().
			Foreground(c(b.BarBorder)).
			Background(c(b.Container)),
		Handle: lipgloss.NewStyle().
			Foreground(c(b.Primary)).
			Background(c(b.Container)),
		Highlight: lipgloss.NewStyle().
			Foreground(c(b.Text)).
			Background(c(b.Highlight)).
			Bold(true),
		Hidden: lipgloss.NewStyle().
			Foreground(c(b.Muted)).
			Italic(true),
		Modal: lipgloss.NewStyle().
			Foreground(c(b.Text)).
			Background(c(b.Card)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(b.Primary)).
			Padding(1, 2),
		Label: lipgloss.NewStyle().
			Foreground(c(b.Muted)).
			Width(8),
		Help: lipgloss.NewStyle().
			Foreground(c(b.Muted)),
		Message: lipgloss.NewStyle().
			Foreground(c(b.OnPrimary)).
			Background(c(b.Primary)).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(c(b.ErrorColor)).
			Bold(true),
		Status: lipgloss.NewStyle().
			Foreground(c(b.Muted)).
			Background(c(b.Header)),
	}
}

func NewModel(opts Options) *Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	today := now()
	m := &Model{
		config:  cfg,
		store:   opts.Store,
		watcher: opts.Watcher,
		parser:  parser.NewDateParser(),
		now:     now,
		mode:    opts.View,
		cursor:  timeline.FormatDate(today),
		keys:    newKeyMap(cfg.KeyBindings),
		help:    help.New(),
	}

	m.window = timeline.NewWindow(
		timeline.InitialDates(today, cfg.WeekStartDay),
		m.policy(),
		cfg.MaxWindowDays,
	)
	m.window.SetClock(now)

	m.setTheme(m.store.Theme())
	m.reloadEvents()
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.watchCmd(),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case centerFrameMsg:
		return m, m.stepCenter(msg.seq)

	case highlightDoneMsg:
		if msg.seq == m.highlightSeq {
			m.highlightID = ""
		}
		return m, nil

	case messageTimeoutMsg:
		if msg.seq == m.messageSeq {
			m.message = ""
		}
		return m, nil

	case storageChangedMsg:
		if m.store.Reload() {
			m.reloadEvents()
			appLog.Info("reloaded events after external change", "count", len(m.events))
			return m, tea.Batch(m.showMessage("Events reloaded"), m.watchCmd())
		}
		return m, m.watchCmd()
	}

	// Forward blink and other input messages to the focused text input.
	return m, m.updateInputs(msg)
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	return m.renderCanvasView()
}

// State reports the interaction state.
func (m *Model) State() State {
	return m.state
}

// Mode reports the active view.
func (m *Model) Mode() ViewMode {
	return m.mode
}

func (m *Model) resize(width, height int) tea.Cmd {
	m.width = width
	m.height = height
	m.help.Width = width
	m.window.SetPolicy(m.policy())

	if !m.mounted {
		m.mounted = true
		m.centerOn(m.todayID(), false)
		return nil
	}

	m.setOffset(m.offset())
	return nil
}

func (m *Model) setTheme(key theme.Key) {
	b, ok := theme.Lookup(key)
	if !ok {
		appLog.Info("unknown theme, using default", "theme", key)
	}
	m.theme = b.Key
	m.styles = NewStyles(b)
	applyInputStyles(&m.help, b)
}

func (m *Model) cycleTheme() tea.Cmd {
	next := theme.Next(m.theme)
	m.store.SetTheme(next)
	m.setTheme(next)
	b, _ := theme.Lookup(next)
	return m.showMessage("Theme: " + b.Name)
}

func (m *Model) toggleView() {
	m.gesture = nil
	if m.state == StateResizing {
		m.state = StateIdle
	}
	if m.mode == ViewLine {
		m.mode = ViewGrid
	} else {
		m.mode = ViewLine
	}
	m.window.SetPolicy(m.policy())
	m.centerOn(m.cursor, false)
}

// reloadEvents refreshes the in-memory copy and recomputes lanes.
func (m *Model) reloadEvents() {
	m.events = m.store.Events()
	m.slots = timeline.AssignLanes(store.Spans(m.events))
}

func (m *Model) showMessage(msg string) tea.Cmd {
	m.message = msg
	m.messageSeq++
	seq := m.messageSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return messageTimeoutMsg{seq: seq}
	})
}

// watchCmd waits for the next external change to the events file.
func (m *Model) watchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ch := m.watcher.Changes()
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storageChangedMsg{}
	}
}

func (m *Model) todayID() string {
	return timeline.FormatDate(m.now())
}

// Message types
type messageTimeoutMsg struct{ seq int }
type highlightDoneMsg struct{ seq int }
type centerFrameMsg struct{ seq int }
type storageChangedMsg struct{}
