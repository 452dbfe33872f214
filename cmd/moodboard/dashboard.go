package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mindwell/moodboard/internal/config"
	"github.com/mindwell/moodboard/internal/metrics"
	"github.com/mindwell/moodboard/internal/progress"
	"github.com/mindwell/moodboard/internal/tui"
)

const startupFlushLimit = 50

func runDashboard(parent context.Context, a *app, metricsAddr string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if err := tui.LoadThemes(config.ConfigDir()); err != nil {
		log.Printf("themes: %v", err)
	}
	tui.SetThemeByName(a.cfg.Theme)

	// A missing session is not fatal here: the dashboard opens on the
	// session-expired screen and picks the user up once they log in.
	session, err := a.session()
	if err != nil && !errors.Is(err, config.ErrNoSession) {
		return err
	}

	if metricsAddr != "" {
		stop := serveMetrics(a, metricsAddr)
		defer stop()
	}

	if session.UserID > 0 {
		flushOutbox(ctx, a)
	}

	loader := progress.NewLoader(a.client, progress.WithMetrics(a.metrics))
	model := tui.NewModel(tui.Options{
		Context:     ctx,
		Session:     session,
		Loader:      loader,
		TimeRange:   a.cfg.UI.DefaultTimeRange,
		AutoRefresh: time.Duration(a.cfg.UI.AutoRefreshSeconds) * time.Second,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	err = config.WatchSession(ctx, config.SessionPath(), func(s config.Session, err error) {
		program.Send(tui.SessionChangedMsg{Session: s, Err: err})
	})
	if err != nil {
		log.Printf("dashboard: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
			program.Quit()
		case <-ctx.Done():
		}
	}()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func serveMetrics(a *app, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.registry))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics: %v", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// flushOutbox delivers writes queued while offline. Failures are logged and
// never block the dashboard.
func flushOutbox(ctx context.Context, a *app) {
	store, err := a.openOutbox()
	if err != nil {
		log.Printf("outbox: %v", err)
		return
	}
	defer store.Close()

	flushCtx, cancel := a.requestContext(ctx)
	defer cancel()
	res, err := store.Flush(flushCtx, a.client, startupFlushLimit)
	if err != nil {
		log.Printf("outbox flush: %v", err)
		return
	}
	if res.Processed > 0 {
		log.Printf("outbox flush: delivered=%d rejected=%d stopped=%v", res.Delivered, res.Rejected, res.Stopped)
	}
}
