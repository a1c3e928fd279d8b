package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/letterbox/internal/storage"
)

// Stats browser layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show the scene sidebar
	sidebarWidth       = 20
	maxRuns            = 100
)

// RunStore is the part of the store the stats browser reads.
type RunStore interface {
	RecentRuns(sceneID string, limit int) ([]storage.Run, error)
	SceneSummaries() ([]storage.SceneSummary, error)
}

// StatsKeyMap defines the key bindings for the stats browser.
type StatsKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextScene key.Binding
	PrevScene key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k StatsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextScene, k.PrevScene, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k StatsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextScene, k.PrevScene},
		{k.Quit},
	}
}

// DefaultStatsKeyMap returns default key bindings.
func DefaultStatsKeyMap() StatsKeyMap {
	return StatsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextScene: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next scene"),
		),
		PrevScene: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev scene"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// StatsModel is the Bubble Tea model for browsing recorded runs.
type StatsModel struct {
	summaries   []storage.SceneSummary
	cursor      int
	store       RunStore
	runs        []storage.Run
	err         error
	table       table.Model
	help        help.Model
	keys        StatsKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewStatsModel creates a stats browser over store.
func NewStatsModel(store RunStore, width, height int) StatsModel {
	h := help.New()
	h.ShowAll = false

	m := StatsModel{
		store:       store,
		keys:        DefaultStatsKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.summaries, m.err = store.SceneSummaries()
	m.table = m.createTable()
	if len(m.summaries) > 0 {
		m.loadRuns(m.summaries[0].SceneID)
	}
	return m
}

// RunColumns are the columns of the runs table.
func RunColumns() []table.Column {
	return []table.Column{
		{Title: "Host", Width: 5},
		{Title: "Mode", Width: 11},
		{Title: "Hz", Width: 4},
		{Title: "Frames", Width: 8},
		{Title: "FPS", Width: 6},
		{Title: "Stalls", Width: 6},
		{Title: "Skipped", Width: 7},
		{Title: "Resizes", Width: 9},
		{Title: "When", Width: 12},
	}
}

// RunRow formats one run for the runs table.
func RunRow(r storage.Run) table.Row {
	return table.Row{
		r.Host,
		r.Mode,
		fmt.Sprintf("%d", r.TickRate),
		fmt.Sprintf("%d", r.Frames),
		fmt.Sprintf("%.1f", r.FPS()),
		fmt.Sprintf("%d", r.Stalls),
		fmt.Sprintf("%d", r.SkippedDraws),
		fmt.Sprintf("%d/%d", r.ResizeRequests, r.ResizeRequests+r.ResizeSuppressed),
		r.CreatedAt.Format("Jan 02 15:04"),
	}
}

func (m *StatsModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(RunColumns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
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

func (m *StatsModel) loadRuns(sceneID string) {
	runs, err := m.store.RecentRuns(sceneID, maxRuns)
	if err != nil {
		m.err = err
		runs = nil
	}
	m.runs = runs

	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		rows[i] = RunRow(r)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the stats model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stats browser.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextScene):
			if len(m.summaries) > 0 {
				m.cursor = (m.cursor + 1) % len(m.summaries)
				m.loadRuns(m.summaries[m.cursor].SceneID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevScene):
			if len(m.summaries) > 0 {
				m.cursor = (m.cursor - 1 + len(m.summaries)) % len(m.summaries)
				m.loadRuns(m.summaries[m.cursor].SceneID)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table.SetHeight(max(m.height-10, 3))
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the stats browser.
func (m StatsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := "RUNS"
	if len(m.summaries) > 0 {
		s := m.summaries[m.cursor]
		title = fmt.Sprintf("RUNS - %s (%d runs, %.1f fps avg, %d stalls)", s.SceneID, s.Runs, s.FPS(), s.Stalls)
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := tableStyle.Render(m.renderTableContent())

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), "  ", tableRendered))
	} else {
		b.WriteString(tableRendered)
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m StatsModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Scenes\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, s := range m.summaries {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(fmt.Sprintf("%s%s (%d)", cursor, s.SceneID, s.Runs)))
		sidebar.WriteString("\n")
	}

	return sidebarStyle.Render(sidebar.String())
}

func (m StatsModel) renderTableContent() string {
	if m.err != nil {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("Error: " + m.err.Error())
	}
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nRun a scene to record one!")
	}
	return m.table.View()
}

// RunStats runs the stats browser.
func RunStats(store RunStore, width, height int) error {
	p := tea.NewProgram(NewStatsModel(store, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
