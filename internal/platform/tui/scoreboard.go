package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/superstudent/internal/registry"
	"github.com/vovakirdan/superstudent/internal/storage"
)

// maxScores is the number of runs loaded per level.
const maxScores = 100

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextLevel key.Binding
	PrevLevel key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextLevel, k.PrevLevel, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextLevel, k.PrevLevel, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextLevel: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next level"),
		),
		PrevLevel: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev level"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for browsing recorded runs.
type ScoreboardModel struct {
	levels   []registry.LevelInfo
	cursor   int
	store    *storage.Store
	scores   []storage.ScoreEntry
	stats    *storage.LevelStats
	err      error
	table    table.Model
	help     help.Model
	keys     ScoreboardKeyMap
	width    int
	height   int
	quitting bool
}

// NewScoreboardModel creates a new scoreboard model starting at levelID.
func NewScoreboardModel(store *storage.Store, levelID string, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		levels: registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	for i, l := range m.levels {
		if l.ID == levelID {
			m.cursor = i
		}
	}

	m.table = m.createTable()
	if len(m.levels) > 0 {
		m.loadScores(m.levels[m.cursor].ID)
	}
	return m
}

// createTable creates a new table sized to the window.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 10},
		{Title: "Destroyed", Width: 10},
		{Title: "Date", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)), // Title, stats, help and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadScores loads runs and aggregates for the given level.
func (m *ScoreboardModel) loadScores(levelID string) {
	m.scores, m.stats, m.err = nil, nil, nil
	if m.store != nil {
		m.scores, m.err = m.store.TopScores(levelID, maxScores)
		if m.err == nil {
			m.stats, m.err = m.store.GetLevelStats(levelID)
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current scores.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.Destroyed),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextLevel):
			if len(m.levels) > 0 {
				m.cursor = (m.cursor + 1) % len(m.levels)
				m.loadScores(m.levels[m.cursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevLevel):
			if len(m.levels) > 0 {
				m.cursor = (m.cursor - 1 + len(m.levels)) % len(m.levels)
				m.loadScores(m.levels[m.cursor].ID)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	title := "HIGH SCORES"
	if len(m.levels) > 0 {
		title = fmt.Sprintf("HIGH SCORES - %s", m.levels[m.cursor].Title)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(dimStyle.Render("Error: " + m.err.Error()))
	case m.stats != nil && m.stats.RunsCount > 0:
		b.WriteString(dimStyle.Render(fmt.Sprintf(
			"%d runs  best %d  avg %.0f  %d dots destroyed  last played %s",
			m.stats.RunsCount, m.stats.HighScore, m.stats.AvgScore,
			m.stats.TotalDestroyed, m.stats.LastPlayed.Format("Jan 02 15:04"),
		)))
	}
	b.WriteString("\n\n")

	if len(m.scores) == 0 {
		empty := dimStyle.Italic(true).Padding(1, 4).
			Render("No scores recorded yet.\nPlay a level to set a high score!")
		b.WriteString(boxStyle.Render(empty))
	} else {
		b.WriteString(boxStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// RunScoreboard runs the scoreboard screen.
func RunScoreboard(store *storage.Store, levelID string, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(store, levelID, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
