package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tagfilterdb/querydesk/pkg/query"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if m.controller.State().Loading() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case completionMsg:
		if m.controller.Complete(msg.done) {
			m.viewport.SetContent(m.controller.State().Pretty())
			m.viewport.GotoTop()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		if m.cancel != nil {
			m.cancel()
		}
		m.quitting = true
		return m, tea.Quit

	case "ctrl+s":
		return m.submit()

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.controller.State().SetQueryText(m.input.Value())
	return m, cmd
}

// submit starts a new submission. A request still in flight is cancelled;
// its completion is dropped by the controller when it arrives.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel

	m.controller.State().SetQueryText(m.input.Value())
	task := m.controller.SubmitCurrent()
	m.viewport.SetContent("")

	return m, tea.Batch(m.spinner.Tick, submitCmd(ctx, releasing(task, cancel)))
}

func releasing(task query.Task, cancel context.CancelFunc) query.Task {
	return func(ctx context.Context) query.Completion {
		defer cancel()
		return task(ctx)
	}
}
