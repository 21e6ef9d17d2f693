package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/superstudent/internal/core"
	"github.com/vovakirdan/superstudent/internal/platform/session"
	"github.com/vovakirdan/superstudent/internal/registry"
	"github.com/vovakirdan/superstudent/internal/storage"
)

// helpRows is the number of rows below the level reserved for key help.
const helpRows = 1

// Options configures a Model.
type Options struct {
	// Store persists scores and checkpoints. Nil disables persistence.
	Store *storage.Store

	// Logger receives level events. Nil discards them.
	Logger *log.Logger

	// Resume restores the last saved checkpoint on start.
	Resume bool
}

// resizable is implemented by levels that adapt to a new terminal size
// without restarting.
type resizable interface {
	Resize(width, height int)
}

// Model is the Bubble Tea model for running a level.
type Model struct {
	session    *session.Session
	level      registry.Level
	screen     *core.Screen
	logger     *log.Logger
	config     core.RuntimeConfig
	resume     bool
	inputFrame core.InputFrame
	keys       KeyMap
	help       help.Model
	clock      *frameClock
	quitting   bool
}

// NewModel creates a new Bubble Tea model for the given level.
func NewModel(level registry.Level, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	sess := session.New(level, opts.Store, opts.Logger)

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		session:    sess,
		level:      level,
		screen:     core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-helpRows, 0)),
		logger:     sess.Logger(),
		config:     cfg,
		resume:     opts.Resume,
		inputFrame: core.NewInputFrame(),
		keys:       DefaultKeyMap(),
		help:       h,
		clock:      &frameClock{},
	}
}

// levelConfig returns the runtime config as the level sees it, without the
// help rows.
func (m Model) levelConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = max(cfg.ScreenH-helpRows, 0)
	return cfg
}

// Init initializes the model and starts the level.
func (m Model) Init() tea.Cmd {
	m.session.Start(m.levelConfig())
	if m.resume {
		m.session.Resume()
	}

	// Start the tick loop
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if ev, ok := MapMouse(msg); ok {
			m.inputFrame.AddPointer(ev)
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	if m.keys.MapKeyToFrame(msg, &m.inputFrame) || m.inputFrame.Has(core.ActionBack) {
		m.session.Finish()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	lc := m.levelConfig()
	m.screen.Resize(lc.ScreenW, lc.ScreenH)
	m.help.Width = msg.Width

	if r, ok := m.level.(resizable); ok {
		r.Resize(lc.ScreenW, lc.ScreenH)
	} else {
		m.session.Start(lc)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) {
		m.session.Finish()
		m.config.Seed = time.Now().UnixNano()
		m.session.Start(m.levelConfig())
		m.clock.Reset()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	m.inputFrame.DT = m.clock.Delta(now, m.config.TickRate)
	m.session.Step(m.inputFrame)

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.level.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	dir := filepath.Join(home, ".superstudent", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.level.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.level.Render(m.screen)

	var helpLine string
	if m.session.State().Checkpoint {
		helpLine = m.help.ShortHelpView(m.keys.CheckpointHelp())
	} else {
		helpLine = m.help.View(m.keys)
	}
	return RenderScreen(m.screen) + "\n" + helpLine
}

// State returns the last reported level state.
func (m Model) State() core.GameState {
	return m.session.State()
}

// Run starts the Bubble Tea program with the given level.
func Run(level registry.Level, cfg core.RuntimeConfig, opts Options) error {
	model := NewModel(level, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Clicks and drags
	)

	_, err := p.Run()
	return err
}
