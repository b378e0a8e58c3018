// ABOUTME: Emitter TUI showing live stream statistics
// ABOUTME: Real-time status display using bubbletea
package streamer

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUI manages the emitter status display.
type TUI struct {
	program  *tea.Program
	streamer *Streamer
	quitChan chan struct{} // Signal to stop the emitter
}

// tuiModel is the bubbletea model for the emitter TUI.
type tuiModel struct {
	status   Status
	streamer *Streamer
	quitting bool
	quitChan chan struct{}
}

type tickMsg time.Time

func (m tuiModel) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			m.quitting = true
			select {
			case m.quitChan <- struct{}{}:
			default:
			}
			return m, tea.Quit
		}

	case tickMsg:
		m.status = m.streamer.Status()
		return m, tickEvery()
	}

	return m, nil
}

func (m tuiModel) View() string {
	if m.quitting {
		return "Stopping stream...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86"))

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250"))

	var b strings.Builder

	b.WriteString(titleStyle.Render("VBAN Emitter"))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Stream: "))
	b.WriteString(valueStyle.Render(m.status.StreamName))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Destination: "))
	b.WriteString(valueStyle.Render(m.status.Destination))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Format: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d Hz, %d ch, %d-bit PCM",
		m.status.SampleRate, m.status.Channels, m.status.BitDepth)))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Uptime: "))
	b.WriteString(valueStyle.Render(m.status.Uptime.Round(time.Second).String()))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Packets sent: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%d (%s)", m.status.Packets, formatBytes(m.status.Bytes))))
	b.WriteString("\n")

	if m.status.SendErrors > 0 {
		errStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
		b.WriteString(errStyle.Render(fmt.Sprintf("Send errors: %d", m.status.SendErrors)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press 'q' or Ctrl+C to quit"))

	return b.String()
}

// formatBytes renders a byte count in a human-friendly unit.
func formatBytes(n uint64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// NewTUI creates a status display for a running streamer.
func NewTUI(s *Streamer) *TUI {
	return &TUI{
		streamer: s,
		quitChan: make(chan struct{}, 1),
	}
}

// Start runs the TUI until the user quits. It blocks.
func (t *TUI) Start() error {
	m := tuiModel{
		status:   t.streamer.Status(),
		streamer: t.streamer,
		quitChan: t.quitChan,
	}

	t.program = tea.NewProgram(m, tea.WithAltScreen())

	_, err := t.program.Run()
	return err
}

// Stop quits the TUI.
func (t *TUI) Stop() {
	if t.program != nil {
		t.program.Quit()
	}
}

// QuitChan returns the channel that signals when the user wants to quit.
func (t *TUI) QuitChan() <-chan struct{} {
	return t.quitChan
}
