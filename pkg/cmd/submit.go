package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tagfilterdb/querydesk/pkg/query"
)

const loopSize = 16

func newSubmitCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "submit [QUERY]",
		Short: "Submit a single query and print the result",
		Long: `Submit sends QUERY to the endpoint and prints the JSON result, indented
by two spaces. Without QUERY the query text is read from standard input.

On failure "Error: <message>" is printed to standard error and the command
exits with a non-zero status.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := o.logLevel
			if level == "" {
				level = "warn"
			}

			l, err := NewLogger(level)
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()

			logger := l.Sugar()

			controller, _, err := newController(o, logger)
			if err != nil {
				return err
			}

			text, err := queryText(cmd, args)
			if err != nil {
				return err
			}

			return Submit(cmd.Context(), controller, text, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

// queryText returns the argument, or standard input with a single trailing
// line break removed.
func queryText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("unable to read query from standard input: %w", err)
	}

	s := string(b)
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")

	return s, nil
}

// Submit runs a single submission of text through a Session and writes the
// outcome. The pretty printed result goes to out; an error message goes to
// errOut and ErrQueryFailed is returned.
func Submit(ctx context.Context, controller *query.Controller, text string, out, errOut io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := query.NewLoop(loopSize)
	go func() { _ = loop.Run(ctx) }()

	session := query.NewSession(loop, controller)

	if err := session.Submit(ctx, text); err != nil {
		return fmt.Errorf("unable to submit query: %w", err)
	}

	snapshot, err := session.Await(ctx)
	if err != nil {
		return fmt.Errorf("unable to wait for query result: %w", err)
	}

	if snapshot.Status == query.StatusError {
		_, _ = fmt.Fprintf(errOut, "Error: %s\n", snapshot.Error)
		return ErrQueryFailed
	}

	_, _ = fmt.Fprintln(out, snapshot.Pretty())

	return nil
}
