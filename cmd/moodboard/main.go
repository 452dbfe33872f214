package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mindwell/moodboard/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if os.Getenv("MOODBOARD_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describeError(err))
		if errors.Is(err, config.ErrNoSession) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	var metricsAddr string

	root := &cobra.Command{
		Use:           "moodboard",
		Short:         "moodboard is a terminal dashboard for your daily mood check-ins.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context(), a, metricsAddr)
		},
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "API base URL (overrides settings and MOODBOARD_API_URL)")
	root.PersistentFlags().StringVar(&a.outboxPath, "outbox", "", "path to the offline outbox database")
	root.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while the dashboard runs")

	root.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newRegisterCommand(a),
		newProfileCommand(a),
		newDeleteAccountCommand(a),
		newCheckInCommand(a),
		newJournalCommand(a),
		newProgressCommand(a),
		newSyncCommand(a),
		newVersionCommand(),
	)
	return root
}
