package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tagfilterdb/querydesk/pkg/query"
)

// completionMsg carries the outcome of a submission back to Update.
type completionMsg struct {
	done query.Completion
}

func submitCmd(ctx context.Context, task query.Task) tea.Cmd {
	return func() tea.Msg {
		return completionMsg{done: task(ctx)}
	}
}
