package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/studiowebux/wayqa/internal/analytics"
	"github.com/studiowebux/wayqa/internal/config"
	"github.com/studiowebux/wayqa/internal/logging"
	"github.com/studiowebux/wayqa/internal/state"
	"github.com/studiowebux/wayqa/internal/types"
)

// Options configures the TUI
type Options struct {
	TickInterval time.Duration
	Settings     config.Settings // shown in the Settings tab
	Logger       *log.Logger
	Closers      []io.Closer // closed when the program quits
	Stats        StatsSource // optional, enriches the response summary

	// Clipboard access, replaced in tests
	CopyText  func(string) error
	PasteText func() (string, error)
}

// StatsSource reports how a request has performed across recorded
// executions. *analytics.Manager implements it.
type StatsSource interface {
	StatsFor(method, url string) (analytics.Stats, bool, error)
	Invalidate()
}

// Model adapts state.State to the Bubble Tea Model-Update-View loop
type Model struct {
	state    *state.State
	settings config.Settings
	logger   *log.Logger
	closers  []io.Closer
	stats    StatsSource

	tickInterval time.Duration
	copyText     func(string) error
	pasteText    func() (string, error)

	// UI state
	width        int
	height       int
	responseView viewport.Model

	// what responseView currently holds
	shownResponse *types.Response
	shownTab      state.ResponseTab
	shownWidth    int
}

type tickMsg time.Time

type clipboardCopiedMsg struct {
	size int
	err  error
}

type clipboardPastedMsg struct {
	text string
	err  error
}

// New creates a TUI model around st
func New(st *state.State, opts Options) *Model {
	m := &Model{
		state:        st,
		settings:     opts.Settings,
		logger:       opts.Logger,
		closers:      opts.Closers,
		stats:        opts.Stats,
		tickInterval: opts.TickInterval,
		copyText:     opts.CopyText,
		pasteText:    opts.PasteText,
		responseView: viewport.New(80, 20),
		shownTab:     -1,
	}

	if m.tickInterval <= 0 {
		m.tickInterval = config.DefaultTickInterval
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}
	if m.copyText == nil {
		m.copyText = clipboardWrite
	}
	if m.pasteText == nil {
		m.pasteText = clipboardRead
	}

	return m
}

// Init initializes the TUI
func (m *Model) Init() tea.Cmd {
	return nil
}

// Cleanup closes database connections and log files
func (m *Model) Cleanup() {
	for _, c := range m.closers {
		if err := c.Close(); err != nil {
			m.logger.Error("cleanup failed", "err", err)
		}
	}
	m.closers = nil
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewport()

	case tickMsg:
		m.state.OnTick()
		if m.state.Running() {
			cmd = m.tick()
		}

	case clipboardCopiedMsg:
		if msg.err != nil {
			m.logger.Warn("clipboard write failed", "err", msg.err)
			m.state.SetStatus(fmt.Sprintf("Copy failed: %v", msg.err))
		} else {
			m.state.SetStatus(fmt.Sprintf("Copied %d characters to clipboard", msg.size))
		}

	case clipboardPastedMsg:
		if msg.err != nil {
			m.logger.Warn("clipboard read failed", "err", msg.err)
			m.state.SetStatus(fmt.Sprintf("Paste failed: %v", msg.err))
		} else {
			m.state.InsertText(msg.text)
		}
	}

	m.syncResponseView()
	return m, cmd
}

// View renders the current state
func (m *Model) View() string {
	return m.renderMain()
}

// tick schedules the next animation frame while a request runs
func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
