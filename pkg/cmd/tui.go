package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tagfilterdb/querydesk/pkg/tui"
)

func newTUICommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive terminal UI",
		Long: `Start the interactive terminal UI. Edit the query, press ctrl+s to submit
it and esc or ctrl+c to quit. Logs are written to a file so they do not
interfere with the screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, o)
		},
	}
}

func runTUI(cmd *cobra.Command, o *options) error {
	l, err := NewLogger(o.logLevel, logFile(o))
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	logger := l.Sugar()

	controller, ee, err := newController(o, logger)
	if err != nil {
		return err
	}

	m := tui.New(cmd.Context(), controller, ee.URL)

	p := tea.NewProgram(m,
		tea.WithContext(cmd.Context()),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run terminal UI: %w", err)
	}

	return nil
}
