package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tagfilterdb/querydesk/pkg/query"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	editorHeight  = 6
)

// Model is the terminal front end of a query.Controller. Bubbletea calls
// Update on a single goroutine, which makes it the only owner of the
// controller and its state.
type Model struct {
	ctx        context.Context
	controller *query.Controller
	endpoint   string

	input    textarea.Model
	spinner  spinner.Model
	viewport viewport.Model

	// Cancels the request of the latest submission.
	cancel context.CancelFunc

	width    int
	height   int
	quitting bool
}

func New(ctx context.Context, controller *query.Controller, endpoint string) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a query..."
	ta.ShowLineNumbers = false
	ta.SetValue(controller.State().QueryText())
	ta.SetWidth(defaultWidth)
	ta.SetHeight(editorHeight)
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		ctx:        ctx,
		controller: controller,
		endpoint:   endpoint,
		input:      ta,
		spinner:    s,
		viewport:   viewport.New(defaultWidth, 1),
		width:      defaultWidth,
		height:     defaultHeight,
	}
	m.resize()

	return m
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// State exposes the controller state for callers that run the program.
func (m Model) State() *query.State {
	return m.controller.State()
}

func (m *Model) resize() {
	m.input.SetWidth(m.width)

	// Title, editor, status, hint and the blank lines between them.
	h := m.height - editorHeight - 6
	if h < 1 {
		h = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
}
