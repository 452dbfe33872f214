// Package progress turns a user's raw mood history into what the dashboard
// draws: today's line, the bar chart and the insight block.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mindwell/moodboard/internal/api"
	"github.com/mindwell/moodboard/internal/config"
	"github.com/mindwell/moodboard/internal/core"
	"github.com/mindwell/moodboard/internal/metrics"
)

// ErrorMessage replaces today, chart and insights when a fetch fails.
const ErrorMessage = "Error loading data"

// Fetcher is the slice of the API client the loader needs.
type Fetcher interface {
	Progress(ctx context.Context, userID int64, tr core.TimeRange) (api.ProgressResponse, error)
}

type Result struct {
	Generation uint64
	UserID     int64
	TimeRange  core.TimeRange
	Today      *core.Today
	Series     core.Series
	Chart      core.Chart
	Insights   core.Insights
	FetchedAt  time.Time
	Err        error
}

// Failed reports whether the view should show ErrorMessage.
func (r Result) Failed() bool { return r.Err != nil }

// Loader runs progress fetches and tracks which one is current. Only the
// result of the most recent Begin may be applied.
type Loader struct {
	fetcher Fetcher
	metrics metrics.Recorder
	loc     *time.Location
	now     func() time.Time

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

type Option func(*Loader)

// WithLocation sets the zone used for zone-less timestamps and date labels.
func WithLocation(loc *time.Location) Option {
	return func(l *Loader) {
		if loc != nil {
			l.loc = loc
		}
	}
}

func WithMetrics(rec metrics.Recorder) Option {
	return func(l *Loader) {
		if rec != nil {
			l.metrics = rec
		}
	}
}

func NewLoader(fetcher Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher: fetcher,
		metrics: metrics.Nop{},
		loc:     time.Local,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Begin starts a new generation and cancels the fetch of the previous one.
// The returned context is derived from parent.
func (l *Loader) Begin(parent context.Context) (uint64, context.Context) {
	ctx, cancel := context.WithCancel(parent)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	l.cancel = cancel
	return l.gen, ctx
}

func (l *Loader) IsCurrent(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen == l.gen
}

// Stop cancels any in-flight fetch.
func (l *Loader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Load fetches and derives one result. It never panics on bad data; fetch
// failures land in Result.Err.
func (l *Loader) Load(ctx context.Context, gen uint64, userID int64, tr core.TimeRange) Result {
	res := Result{Generation: gen, UserID: userID, TimeRange: tr, FetchedAt: l.now()}
	if userID <= 0 {
		res.Err = config.ErrNoSession
		return res
	}

	resp, err := l.fetcher.Progress(ctx, userID, tr)
	if err != nil {
		log.Printf("[progress] fetch user=%d range=%s gen=%d: %v", userID, tr, gen, err)
		res.Err = fmt.Errorf("load progress: %w", err)
		return res
	}

	res.Today = core.NormalizeToday(resp.Today)
	res.Series = core.NormalizeSeries(resp.Historical, l.loc)
	res.Chart = core.BuildChart(res.Series)
	res.Insights = core.GenerateInsights(res.Series)
	return res
}

// Refresh is Begin followed by Load.
func (l *Loader) Refresh(parent context.Context, userID int64, tr core.TimeRange) Result {
	gen, ctx := l.Begin(parent)
	return l.Load(ctx, gen, userID, tr)
}

// Accept reports whether res may be applied and records the outcome.
func (l *Loader) Accept(res Result) bool {
	if !l.IsCurrent(res.Generation) {
		l.metrics.RecordRefresh(metrics.RefreshStale)
		return false
	}
	if res.Err != nil {
		if errors.Is(res.Err, context.Canceled) {
			l.metrics.RecordRefresh(metrics.RefreshStale)
			return false
		}
		l.metrics.RecordRefresh(metrics.RefreshFailed)
		return true
	}
	l.metrics.RecordRefresh(metrics.RefreshApplied)
	return true
}
