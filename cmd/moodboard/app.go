package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mindwell/moodboard/internal/api"
	"github.com/mindwell/moodboard/internal/config"
	"github.com/mindwell/moodboard/internal/metrics"
	"github.com/mindwell/moodboard/internal/outbox"
	"github.com/mindwell/moodboard/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// app is the state shared by every subcommand. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	cfg      config.Config
	registry *prometheus.Registry
	metrics  *metrics.Collector
	client   *api.Client

	apiURL     string
	outboxPath string

	in  *bufio.Reader
	out io.Writer
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config %s: %w", config.ConfigPath(), err)
	}
	if u := strings.TrimSpace(a.apiURL); u != "" {
		cfg.API.BaseURL = strings.TrimRight(u, "/")
	}
	a.cfg = cfg

	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.NewCollector(a.registry)
	a.client = api.NewClient(api.Options{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.RequestTimeout(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.RequestBurst,
		Metrics:           a.metrics,
		UserAgent:         "moodboard/" + version.Version,
	})

	a.in = bufio.NewReader(cmd.InOrStdin())
	a.out = cmd.OutOrStdout()
	return nil
}

func (a *app) session() (config.Session, error) {
	s, err := config.LoadSession()
	if err != nil {
		return config.Session{}, err
	}
	return s, nil
}

func (a *app) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, a.cfg.RequestTimeout())
}

func (a *app) openOutbox() (*outbox.Store, error) {
	path := strings.TrimSpace(a.outboxPath)
	if path == "" {
		p, err := outbox.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return outbox.OpenStore(path)
}

// ask returns value when set, otherwise prompts for a line on stdin.
func (a *app) ask(label, value string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return value, nil
	}
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func sessionFromUser(u api.User) config.Session {
	return config.Session{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// describeError turns API and validation failures into one readable line.
func describeError(err error) string {
	var apiErr *api.Error
	switch {
	case errors.Is(err, config.ErrNoSession):
		return "not logged in; run `moodboard login` first"
	case api.IsUnavailable(err):
		return "the moodboard API is unreachable: " + err.Error()
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	}
	if verrs, ok := api.AsValidation(err); ok {
		lines := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			lines = append(lines, fe.Message)
		}
		return strings.Join(lines, "; ")
	}
	return err.Error()
}
