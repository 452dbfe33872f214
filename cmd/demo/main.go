// Command demo serves the moodboard API from memory so the dashboard can run
// without the real backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mindwell/moodboard/internal/demo"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		addr  string
		seed  bool
		quiet bool
	)
	cmd := &cobra.Command{
		Use:          "demo",
		Short:        "Run an in-memory moodboard API seeded with a demo account",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if quiet {
				log.SetOutput(io.Discard)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cmd.OutOrStdout(), addr, seed)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:5000", "listen address")
	cmd.Flags().BoolVar(&seed, "seed", true, "create the demo user with two weeks of check-ins")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "do not log requests")
	return cmd
}

func serve(ctx context.Context, out io.Writer, addr string, seed bool) error {
	store := demo.NewStore()
	if seed {
		u, err := demo.Seed(store)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "demo user: %s / %s (id %d)\n", u.Email, demo.DemoPassword, u.ID)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           demo.NewServer(store).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(out, "listening on http://%s\n", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
