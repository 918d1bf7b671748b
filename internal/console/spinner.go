package console

import (
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type doneMsg struct{}

type spinModel struct {
	spinner spinner.Model
	message string
	done    bool
}

func newSpinModel(message string) spinModel {
	return spinModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("214"))),
		),
		message: message,
	}
}

func (m spinModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.message + "\n"
}

// Spin runs fn while a spinner with message animates on out. When out is
// not a terminal fn simply runs. Spin returns after fn returns.
func Spin(out io.Writer, message string, fn func()) {
	if !IsTerminal(out) {
		fn()
		return
	}

	p := tea.NewProgram(newSpinModel(message), tea.WithOutput(out), tea.WithInput(nil))
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		fn()
		p.Send(doneMsg{})
	}()

	// a spinner that fails to start is cosmetic; the work still finishes
	_, _ = p.Run()
	<-finished
}
