package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mindwell/moodboard/internal/appupdate"
	"github.com/mindwell/moodboard/internal/core"
	"github.com/mindwell/moodboard/internal/progress"
	"github.com/mindwell/moodboard/internal/version"
	"github.com/spf13/cobra"
)

func newProgressCommand(a *app) *cobra.Command {
	var rangeFlag, formatFlag string
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Print the mood chart and insights without the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := progress.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			session, err := a.session()
			if err != nil {
				return err
			}
			tr := a.cfg.UI.DefaultTimeRange
			if cmd.Flags().Changed("range") {
				tr = core.ParseTimeRange(rangeFlag)
			}

			loader := progress.NewLoader(a.client, progress.WithMetrics(a.metrics))
			defer loader.Stop()
			res := loader.Refresh(cmd.Context(), session.UserID, tr)
			loader.Accept(res)
			if res.Failed() {
				log.Printf("progress: %v", res.Err)
			}
			if err := progress.Write(a.out, res, format); err != nil {
				return err
			}
			if res.Failed() {
				return res.Err
			}
			return nil
		},
	}
	names := make([]string, 0, len(core.ValidTimeRanges))
	for _, tr := range core.ValidTimeRanges {
		names = append(names, string(tr))
	}
	cmd.Flags().StringVarP(&rangeFlag, "range", "r", "", "time range: "+strings.Join(names, ", "))
	cmd.Flags().StringVarP(&formatFlag, "format", "f", string(progress.FormatText), "output format: text, markup or json")
	return cmd
}

func newSyncCommand(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Send check-ins and journal entries saved while offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openOutbox()
			if err != nil {
				return err
			}
			defer store.Close()

			res, err := store.Flush(cmd.Context(), a.client, limit)
			if err != nil {
				return err
			}
			left, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("Delivered %d, rejected %d, %d still queued.\n", res.Delivered, res.Rejected, left)
			if res.Stopped {
				a.printf("The API is still unreachable; try again later.\n")
			}

			rejected, err := store.Rejected(cmd.Context())
			if err != nil {
				return err
			}
			for _, item := range rejected {
				a.printf("  rejected %s %s (%s): %s\n", item.Kind, item.ID,
					item.CreatedAt.Local().Format(time.DateTime), item.LastError)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "deliver at most this many items (0 = all)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version, optionally checking for a newer release",
		Args:  cobra.NoArgs,
		// Version needs neither config nor API.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, version.String())
			if !check {
				return nil
			}
			res, err := appupdate.Check(cmd.Context(), appupdate.Options{Version: version.Version})
			if err != nil {
				return fmt.Errorf("update check: %w", err)
			}
			fmt.Fprintln(out, res.Summary())
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}
