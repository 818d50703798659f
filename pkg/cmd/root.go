package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tagfilterdb/querydesk/pkg/version"
)

// ErrQueryFailed is returned by the submit command when the query ended in
// an error. The error message has already been printed by then.
var ErrQueryFailed = errors.New("query failed")

type options struct {
	endpoint string
	logLevel string
	logFile  string
}

func NewRootCmd() *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:   "querydesk",
		Short: "Submit queries to a compiler endpoint and inspect the results",
		Long: `querydesk sends a plain-text query to a query-execution endpoint and
shows the JSON result or the error it produced.

Without a subcommand the interactive terminal UI is started.`,
		Version:       version.Version(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, o)
		},
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&o.endpoint, "endpoint", "", "query endpoint URL (default: $QUERYDESK_ENDPOINT or "+defaultEndpointHint+")")
	rootCmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&o.logFile, "log-file", "", "log file used by the terminal UI (default: $QUERYDESK_LOG_FILE or querydesk.log)")

	rootCmd.AddCommand(newTUICommand(o))
	rootCmd.AddCommand(newSubmitCommand(o))
	rootCmd.AddCommand(newServeCommand(o))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "querydesk %s\n", version.Version())
		},
	}
}
