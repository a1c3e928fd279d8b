package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/letterbox/internal/registry"
)

// PickerModel is the Bubble Tea model for the scene picker.
type PickerModel struct {
	items    []registry.SceneInfo
	cursor   int
	width    int
	height   int
	keys     PickerKeyMap
	help     help.Model
	title    lipgloss.Style
	quitting bool
	selected *registry.SceneInfo
}

// NewPickerModel creates a picker over all registered scenes. r may be
// nil to use the default lipgloss renderer.
func NewPickerModel(width, height int, r *lipgloss.Renderer) PickerModel {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return PickerModel{
		items:  registry.List(),
		width:  width,
		height: height,
		keys:   DefaultPickerKeyMap(),
		help:   help.New(),
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
	}
}

// Init initializes the picker.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			if len(m.items) > 0 {
				selected := m.items[m.cursor]
				m.selected = &selected
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}

	return m, nil
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(m.title.Render("  L E T T E R B O X  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a scene", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, item.Title), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(m.help.View(m.keys), m.width))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the selected scene, or nil if none selected.
func (m PickerModel) Selected() *registry.SceneInfo {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width, ignoring ANSI sequences.
func centerText(text string, width int) string {
	visible := lipgloss.Width(text)
	if visible >= width {
		return text
	}
	padding := (width - visible) / 2
	return strings.Repeat(" ", padding) + text
}

// RunPicker runs the picker and returns the chosen scene ID, or "" if the
// user quit.
func RunPicker(width, height int) (string, error) {
	p := tea.NewProgram(NewPickerModel(width, height, nil), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	m, ok := finalModel.(PickerModel)
	if !ok || m.Selected() == nil {
		return "", nil
	}
	return m.Selected().ID, nil
}
