package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gitlab.com/gomidi/midi/v2"

	"github.com/lselden/midistate/device"
	"github.com/lselden/midistate/tracker"
)

const refreshEvery = 50 * time.Millisecond

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type model struct {
	state    *tracker.State
	handler  *device.Handler
	port     string
	quitting bool
}

type tickMsg time.Time

func newModel(state *tracker.State, handler *device.Handler, port string) model {
	return model{state: state, handler: handler, port: port}
}

func tick() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.state.Reset()
		}
	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("notewatch"))
	sb.WriteString(dimStyle.Render("  " + m.port))
	sb.WriteString("\n\n")

	held := m.state.ActiveNotes()
	if len(held) == 0 {
		sb.WriteString(dimStyle.Render("  (no notes held)"))
		sb.WriteString("\n")
	}
	for _, key := range held {
		vel, _ := m.state.VelocityOf(key)
		bar := strings.Repeat("█", int(vel)/8+1)
		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			noteStyle.Render(fmt.Sprintf("%-4s", midi.Note(key).String())),
			dimStyle.Render(fmt.Sprintf("%3d", key)),
			barStyle.Render(bar)))
	}

	sb.WriteString("\n")
	if ev, ok := m.state.Last(); ok {
		sb.WriteString(dimStyle.Render("last: " + ev.String()))
		sb.WriteString("\n")
	}
	if n := m.handler.Dropped(); n > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("dropped: %d", n)))
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render("\nq quit · r reset"))
	return sb.String()
}
