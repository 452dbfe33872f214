package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mindwell/moodboard/internal/api"
	"github.com/mindwell/moodboard/internal/core"
	"github.com/mindwell/moodboard/internal/outbox"
	"github.com/spf13/cobra"
)

func newCheckInCommand(a *app) *cobra.Command {
	var (
		req             api.CheckInRequest
		energy, anxiety int
	)
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record how you feel right now",
		Long:  "Record a mood check-in. Valid moods: " + strings.Join(core.ValidMoods, ", ") + ".",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.session()
			if err != nil {
				return err
			}
			req.UserID = session.UserID
			if cmd.Flags().Changed("energy") {
				req.EnergyLevel = &energy
			}
			if cmd.Flags().Changed("anxiety") {
				req.AnxietyLevel = &anxiety
			}
			if err := req.Validate(); err != nil {
				return err
			}

			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			_, err = a.client.CreateCheckIn(ctx, req)
			queued, err := queueIfUnavailable(cmd.Context(), a, err, func(ctx context.Context, s *outbox.Store) (string, error) {
				return s.EnqueueCheckIn(ctx, req)
			})
			if err != nil {
				return err
			}
			if queued {
				return nil
			}
			a.printf("Checked in: %s.\n", req.Mood)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&req.Mood, "mood", "m", "", "how you feel (required)")
	f.IntVarP(&energy, "energy", "e", 0, "energy level 1-10 (required)")
	f.IntVarP(&anxiety, "anxiety", "a", 0, "anxiety level 1-10")
	f.StringVarP(&req.Notes, "notes", "n", "", "free-form notes")
	return cmd
}

func newJournalCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Write or read journal entries",
	}
	cmd.AddCommand(newJournalAddCommand(a), newJournalListCommand(a))
	return cmd
}

func newJournalAddCommand(a *app) *cobra.Command {
	var req api.JournalRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a journal entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.session()
			if err != nil {
				return err
			}
			req.UserID = session.UserID
			if req.Title, err = a.ask("Title", req.Title); err != nil {
				return err
			}
			if req.Content, err = a.ask("Entry", req.Content); err != nil {
				return err
			}
			if err := req.Validate(); err != nil {
				return err
			}

			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			_, err = a.client.CreateJournalEntry(ctx, req)
			queued, err := queueIfUnavailable(cmd.Context(), a, err, func(ctx context.Context, s *outbox.Store) (string, error) {
				return s.EnqueueJournal(ctx, req)
			})
			if err != nil {
				return err
			}
			if !queued {
				a.printf("Saved %q.\n", req.Title)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&req.Title, "title", "t", "", "entry title")
	f.StringVarP(&req.Content, "content", "c", "", "entry text")
	f.StringVarP(&req.Mood, "mood", "m", "", "optional mood tag")
	f.BoolVar(&req.IsPrivate, "private", false, "mark the entry private")
	return cmd
}

func newJournalListCommand(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your journal entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.session()
			if err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			entries, err := a.client.JournalEntries(ctx, session.UserID)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				a.printf("No journal entries yet.\n")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			for _, e := range entries {
				a.printf("%s  %s\n", formatEntryDate(e.Date), journalHeading(e))
				if body := strings.TrimSpace(e.Content); body != "" {
					a.printf("    %s\n", body)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many entries")
	return cmd
}

// queueIfUnavailable spools a write when the API could not be reached. It
// reports whether the write was queued; other errors pass through unchanged.
func queueIfUnavailable(parent context.Context, a *app, sendErr error, enqueue func(context.Context, *outbox.Store) (string, error)) (bool, error) {
	if sendErr == nil {
		return false, nil
	}
	if !api.IsUnavailable(sendErr) {
		return false, sendErr
	}
	store, err := a.openOutbox()
	if err != nil {
		return false, fmt.Errorf("%w (and the outbox failed: %v)", sendErr, err)
	}
	defer store.Close()
	id, err := enqueue(parent, store)
	if err != nil {
		return false, fmt.Errorf("%w (and the outbox failed: %v)", sendErr, err)
	}
	a.printf("The API is unreachable; saved offline as %s. Run `moodboard sync` to send it later.\n", id)
	return true, nil
}

func journalHeading(e api.JournalEntry) string {
	var b strings.Builder
	b.WriteString(e.Title)
	if e.Mood != "" {
		b.WriteString(" [" + e.Mood + "]")
	}
	if e.IsPrivate {
		b.WriteString(" (private)")
	}
	return b.String()
}

func formatEntryDate(raw string) string {
	if t, ok := core.ParseTimestamp(raw, nil); ok {
		return t.Format("Jan 2 15:04")
	}
	return raw
}
