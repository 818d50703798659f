package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tagfilterdb/querydesk/pkg/query"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("querydesk"))
	if m.endpoint != "" {
		b.WriteString(hintStyle.Render(" " + m.endpoint))
	}
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	if m.controller.State().Status() == query.StatusSuccess {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("[ctrl+s submit, pgup/pgdown scroll, esc quit]"))

	return b.String()
}

func (m Model) renderStatus() string {
	state := m.controller.State()

	switch state.Status() {
	case query.StatusLoading:
		return fmt.Sprintf("%s Running query...", m.spinner.View())
	case query.StatusSuccess:
		return successStyle.Render("✓ Success")
	case query.StatusError:
		return errorStyle.Render(fmt.Sprintf("Error: %s", state.ErrorMessage()))
	default:
		return hintStyle.Render("Ready")
	}
}
