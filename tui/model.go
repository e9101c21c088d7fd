package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-surface/theme"
	"go-surface/widgets"
)

// Snapshot is one frame of router state for display
type Snapshot struct {
	Connected  bool
	PortName   string
	ActiveView string
	Sustained  bool
	Bindings   int
	LastEvents []string
	Colors     map[[2]int]theme.Color
}

// StateProvider hands the monitor router state. Snapshot must be safe
// to call from the TUI goroutine.
type StateProvider interface {
	Snapshot() Snapshot
	Updates() <-chan struct{}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

type Model struct {
	provider StateProvider
	snap     Snapshot
	quitting bool
}

type UpdateMsg struct{}

func NewModel(provider StateProvider) Model {
	return Model{
		provider: provider,
		snap:     provider.Snapshot(),
	}
}

func ListenForUpdates(provider StateProvider) tea.Cmd {
	return func() tea.Msg {
		<-provider.Updates()
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.provider)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key := msg.String(); key == "q" || key == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}

	case UpdateMsg:
		m.snap = m.provider.Snapshot()
		return m, ListenForUpdates(m.provider)
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("go-surface"))
	b.WriteString("\n\n")

	if m.snap.Connected {
		b.WriteString(fmt.Sprintf("%s %s\n",
			labelStyle.Render("port:"), m.snap.PortName))
	} else {
		b.WriteString(dimStyle.Render("waiting for controller...") + "\n")
	}

	view := m.snap.ActiveView
	if view == "" {
		view = "main"
	}
	if m.snap.Sustained {
		view += " (sustained)"
	}
	b.WriteString(fmt.Sprintf("%s %s\n",
		labelStyle.Render("layer:"), activeStyle.Render(view)))
	b.WriteString(fmt.Sprintf("%s %d\n\n",
		labelStyle.Render("bindings:"), m.snap.Bindings))

	b.WriteString(widgets.RenderSurface(m.snap.Colors))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("recent events") + "\n")
	if len(m.snap.LastEvents) == 0 {
		b.WriteString(dimStyle.Render("  (none)") + "\n")
	}
	for _, line := range m.snap.LastEvents {
		b.WriteString("  " + line + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("q to quit"))
	return b.String()
}
