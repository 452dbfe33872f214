package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/mindwell/moodboard/internal/api"
	"github.com/mindwell/moodboard/internal/config"
	"github.com/mindwell/moodboard/internal/core"
	"github.com/mindwell/moodboard/internal/progress"
)

type stubFetcher struct {
	resp api.ProgressResponse
	err  error
}

func (s stubFetcher) Progress(context.Context, int64, core.TimeRange) (api.ProgressResponse, error) {
	return s.resp, s.err
}

func sampleResponse() api.ProgressResponse {
	return api.ProgressResponse{
		Envelope: api.Envelope{Success: true},
		Today:    &core.MetricPoint{Date: "2024-01-06T09:00:00", Value: core.Float64Ptr(4), Mood: "Calm"},
		Historical: []core.MetricPoint{
			{Date: "2024-01-05T09:00:00", Value: core.Float64Ptr(2)},
			{Date: "2024-01-06T09:00:00", Value: core.Float64Ptr(4)},
		},
	}
}

type persisted struct {
	ranges []core.TimeRange
	themes []string
}

func newTestModel(f progress.Fetcher, session config.Session) (Model, *persisted) {
	p := &persisted{}
	m := NewModel(Options{
		Session:   session,
		Loader:    progress.NewLoader(f, progress.WithLocation(time.UTC)),
		TimeRange: core.TimeRangeWeek,
		PersistTimeRange: func(tr core.TimeRange) error {
			p.ranges = append(p.ranges, tr)
			return nil
		},
		PersistTheme: func(name string) error {
			p.themes = append(p.themes, name)
			return nil
		},
		Now: func() time.Time { return time.Date(2024, 1, 6, 10, 30, 0, 0, time.UTC) },
	})
	m.width, m.height = 100, 40
	return m, p
}

var testSession = config.Session{UserID: 7, FirstName: "Robin", LastName: "Lee"}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFetchAppliesResult(t *testing.T) {
	m, _ := newTestModel(stubFetcher{resp: sampleResponse()}, testSession)
	msg := m.fetchCmd()()
	m, _ = update(t, m, msg)

	if m.result == nil || m.result.Failed() {
		t.Fatalf("result = %+v, want applied", m.result)
	}
	view := m.View()
	for _, want := range []string{
		"Your mood today: Calm",
		"Your average mood has been 3.0/5 over this period.",
		"Your mood trend appears to be improving.",
		"Great job! Keep up the positive momentum!",
		"Robin",
		"Last 7 Days",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestStaleResultIsIgnored(t *testing.T) {
	m, _ := newTestModel(stubFetcher{resp: sampleResponse()}, testSession)

	old := m.fetchCmd()
	fresh := m.fetchCmd()

	m, _ = update(t, m, fresh())
	applied := m.result.Generation
	m, _ = update(t, m, old())

	if m.result.Generation != applied {
		t.Fatalf("generation = %d, stale result overwrote %d", m.result.Generation, applied)
	}
}

func TestFetchErrorShowsErrorLoadingData(t *testing.T) {
	m, _ := newTestModel(stubFetcher{err: api.ErrUnavailable}, testSession)
	m, _ = update(t, m, m.fetchCmd()())

	view := m.View()
	if !strings.Contains(view, progress.ErrorMessage) {
		t.Fatalf("view missing %q:\n%s", progress.ErrorMessage, view)
	}
	if strings.Contains(view, "Your average mood") {
		t.Fatal("insights rendered alongside the error")
	}
}

func TestEmptySeriesShowsPlaceholders(t *testing.T) {
	m, _ := newTestModel(stubFetcher{resp: api.ProgressResponse{Envelope: api.Envelope{Success: true}}}, testSession)
	m, _ = update(t, m, m.fetchCmd()())

	view := m.View()
	for _, want := range []string{core.NoChartDataMessage, core.NotEnoughDataMessage, "No check-in yet today"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTimeRangeKeysCycleAndPersist(t *testing.T) {
	m, p := newTestModel(stubFetcher{resp: sampleResponse()}, testSession)

	m, cmd := update(t, m, key("t"))
	if m.timeRange != core.TimeRangeMonth {
		t.Fatalf("range after t = %s, want month", m.timeRange)
	}
	if cmd == nil || !m.refreshing {
		t.Fatal("changing range should start a refresh")
	}
	m.persistTimeRangeCmd()()
	if len(p.ranges) != 1 || p.ranges[0] != core.TimeRangeMonth {
		t.Fatalf("persisted = %v", p.ranges)
	}

	m, _ = update(t, m, key("T"))
	m, _ = update(t, m, key("T"))
	if m.timeRange != core.TimeRangeDay {
		t.Fatalf("range after T T = %s, want day", m.timeRange)
	}
}

func TestSessionLossShowsExpiredScreen(t *testing.T) {
	m, _ := newTestModel(stubFetcher{resp: sampleResponse()}, testSession)
	m, _ = update(t, m, SessionChangedMsg{Err: config.ErrNoSession})

	if !m.expired {
		t.Fatal("expired = false after session loss")
	}
	if !strings.Contains(m.View(), "moodboard login") {
		t.Fatal("expired view should point at moodboard login")
	}
	if _, cmd := update(t, m, key("r")); cmd != nil {
		t.Fatal("refresh should be disabled without a session")
	}

	m, cmd := update(t, m, SessionChangedMsg{Session: config.Session{UserID: 9, FirstName: "Kai"}})
	if m.expired || cmd == nil {
		t.Fatal("new session should resume and refresh")
	}
	if m.session.UserID != 9 {
		t.Fatalf("session = %+v", m.session)
	}
}

func TestNoSessionAtStart(t *testing.T) {
	m, _ := newTestModel(stubFetcher{}, config.Session{})
	if !m.expired {
		t.Fatal("model without a session should start expired")
	}
	if !strings.Contains(m.View(), "Your session has ended.") {
		t.Fatal("expected the session-expired screen")
	}
}

func TestNoSessionResultMarksExpired(t *testing.T) {
	m, _ := newTestModel(stubFetcher{resp: sampleResponse()}, testSession)
	gen, _ := m.loader.Begin(context.Background())
	m, _ = update(t, m, progressMsg(progress.Result{Generation: gen, Err: config.ErrNoSession}))
	if !m.expired {
		t.Fatal("ErrNoSession result should expire the session")
	}
	if m.result != nil {
		t.Fatal("ErrNoSession result should not be applied as data")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(stubFetcher{resp: sampleResponse()}, testSession)
	m, _ = update(t, m, key("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Moodboard Help") {
		t.Fatal("? should open help")
	}
	m, cmd := update(t, m, key("q"))
	if m.showHelp {
		t.Fatal("any key should dismiss help")
	}
	if cmd != nil {
		t.Fatal("q while help is open should only dismiss it")
	}
}

func TestThemeKeyPersists(t *testing.T) {
	saved, idx := snapshotThemeState()
	defer restoreThemeState(saved, idx)

	m, p := newTestModel(stubFetcher{resp: sampleResponse()}, testSession)
	m, cmd := update(t, m, key("c"))
	if cmd == nil {
		t.Fatal("c should persist the theme")
	}
	m, _ = update(t, m, cmd())
	if len(p.themes) != 1 || p.themes[0] != ActiveTheme().Name {
		t.Fatalf("persisted themes = %v", p.themes)
	}
	if !strings.HasPrefix(m.status, "theme: ") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestTooSmall(t *testing.T) {
	m, _ := newTestModel(stubFetcher{}, testSession)
	m.width, m.height = 20, 5
	if !strings.Contains(m.View(), "Terminal too small") {
		t.Fatal("expected resize hint")
	}
}

func TestHeaderShowsCurrentDate(t *testing.T) {
	m, _ := newTestModel(stubFetcher{resp: sampleResponse()}, testSession)
	header := ansi.Strip(m.renderHeader(m.width))
	if !strings.Contains(header, "Last 7 Days") || !strings.Contains(header, "Saturday, January 6, 2024") {
		t.Fatalf("header = %q, want range label and current date", header)
	}
}
