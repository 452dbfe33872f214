package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mindwell/moodboard/internal/api"
	"github.com/mindwell/moodboard/internal/config"
	"github.com/mindwell/moodboard/internal/core"
)

type fakeFetcher struct {
	mu    sync.Mutex
	resp  api.ProgressResponse
	err   error
	calls int
	block chan struct{}
}

func (f *fakeFetcher) Progress(ctx context.Context, _ int64, _ core.TimeRange) (api.ProgressResponse, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return api.ProgressResponse{}, ctx.Err()
		}
	}
	return f.resp, f.err
}

type recorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (r *recorder) RecordRequest(string, int, time.Duration) {}
func (r *recorder) RecordTransportFailure(string)            {}
func (r *recorder) RecordRefresh(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func TestLoad_EmptySeries(t *testing.T) {
	l := NewLoader(&fakeFetcher{resp: api.ProgressResponse{Envelope: api.Envelope{Success: true}}})
	res := l.Refresh(context.Background(), 1, core.TimeRangeWeek)
	if res.Err != nil {
		t.Fatalf("Err = %v", res.Err)
	}
	if !res.Chart.Empty || res.Chart.Placeholder != core.NoChartDataMessage {
		t.Fatalf("chart = %+v, want placeholder", res.Chart)
	}
	if got := res.Insights.Text(); got != core.NotEnoughDataMessage {
		t.Fatalf("insights = %q", got)
	}
	if got := res.Today.Label(); got != "No check-in yet today" {
		t.Fatalf("today = %q", got)
	}
}

func TestLoad_NoSession(t *testing.T) {
	f := &fakeFetcher{}
	l := NewLoader(f)
	res := l.Refresh(context.Background(), 0, core.TimeRangeWeek)
	if !errors.Is(res.Err, config.ErrNoSession) {
		t.Fatalf("Err = %v, want ErrNoSession", res.Err)
	}
	if f.calls != 0 {
		t.Fatalf("fetcher called %d times without a session", f.calls)
	}
}

func TestLoad_FetchFailure(t *testing.T) {
	l := NewLoader(&fakeFetcher{err: api.ErrUnavailable})
	res := l.Refresh(context.Background(), 3, core.TimeRangeMonth)
	if !res.Failed() || !errors.Is(res.Err, api.ErrUnavailable) {
		t.Fatalf("Err = %v, want wrapped ErrUnavailable", res.Err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, res, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), ErrorMessage) {
		t.Fatalf("text output = %q, want %q", buf.String(), ErrorMessage)
	}
}

// Eight raw points arriving over HTTP, the last three at 4, so the chart keeps seven and the trend is measured end to end.
func TestLoad_EndToEndOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var hist []string
		for i := 1; i <= 8; i++ {
			value := "1"
			if i > 5 {
				value = "4"
			}
			hist = append(hist, fmt.Sprintf(`{"date":"2024-01-%02dT10:00:00","metric_type":"mood","value":%s}`, i, value))
		}
		_, _ = io.WriteString(w, `{"success":true,"today":{"date":"2024-01-08T10:00:00","value":4,"mood":"Happy"},"historical":[`+strings.Join(hist, ",")+`]}`)
	}))
	defer srv.Close()

	rec := &recorder{}
	l := NewLoader(api.NewClient(api.Options{BaseURL: srv.URL}), WithLocation(time.UTC), WithMetrics(rec))
	gen, ctx := l.Begin(context.Background())
	res := l.Load(ctx, gen, 5, core.TimeRangeWeek)
	if res.Err != nil {
		t.Fatalf("Err = %v", res.Err)
	}
	if !l.Accept(res) {
		t.Fatal("current result rejected")
	}

	if len(res.Chart.Bars) != core.ChartWindow {
		t.Fatalf("bars = %d, want %d", len(res.Chart.Bars), core.ChartWindow)
	}
	if res.Chart.Bars[0].Label != "Jan 2" || res.Chart.Bars[6].Label != "Jan 8" {
		t.Fatalf("labels = %q..%q", res.Chart.Bars[0].Label, res.Chart.Bars[6].Label)
	}
	if res.Chart.Bars[6].HeightPercent != 80 {
		t.Fatalf("last bar height = %v, want 80", res.Chart.Bars[6].HeightPercent)
	}
	// (5*1 + 3*4) / 8 = 2.125
	if res.Insights.AverageText != "2.1" {
		t.Fatalf("average = %q, want 2.1", res.Insights.AverageText)
	}
	if res.Insights.Trend != core.TrendImproving {
		t.Fatalf("trend = %s, want improving", res.Insights.Trend)
	}
	if got := res.Today.Label(); got != "Your mood today: Happy" {
		t.Fatalf("today = %q", got)
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != "applied" {
		t.Fatalf("outcomes = %v", rec.outcomes)
	}
}

func TestBegin_CancelsPreviousAndMarksStale(t *testing.T) {
	f := &fakeFetcher{block: make(chan struct{}), resp: api.ProgressResponse{Envelope: api.Envelope{Success: true}}}
	rec := &recorder{}
	l := NewLoader(f, WithMetrics(rec))

	gen1, ctx1 := l.Begin(context.Background())
	done := make(chan Result, 1)
	go func() { done <- l.Load(ctx1, gen1, 1, core.TimeRangeWeek) }()

	gen2, _ := l.Begin(context.Background())
	if gen2 <= gen1 {
		t.Fatalf("generation did not advance: %d -> %d", gen1, gen2)
	}

	select {
	case res := <-done:
		if !errors.Is(res.Err, context.Canceled) {
			t.Fatalf("first load Err = %v, want context.Canceled", res.Err)
		}
		if l.Accept(res) {
			t.Fatal("stale result accepted")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first load was not cancelled")
	}

	if l.IsCurrent(gen1) || !l.IsCurrent(gen2) {
		t.Fatal("IsCurrent disagrees with latest generation")
	}
	if len(rec.outcomes) != 1 || rec.outcomes[0] != "stale" {
		t.Fatalf("outcomes = %v", rec.outcomes)
	}
}

func TestAccept_FailedCurrentResultIsApplied(t *testing.T) {
	rec := &recorder{}
	l := NewLoader(&fakeFetcher{err: errors.New("boom")}, WithMetrics(rec))
	res := l.Refresh(context.Background(), 1, core.TimeRangeWeek)
	if !l.Accept(res) {
		t.Fatal("failed current result should still be applied so the view can show the error")
	}
	if rec.outcomes[0] != "failed" {
		t.Fatalf("outcome = %q, want failed", rec.outcomes[0])
	}
}

func TestWrite_Formats(t *testing.T) {
	series := core.Series{
		{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), DateValid: true, Value: core.Float64Ptr(2)},
		{Date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), DateValid: true, Value: core.Float64Ptr(4)},
	}
	res := Result{
		TimeRange: core.TimeRangeWeek,
		Series:    series,
		Chart:     core.BuildChart(series),
		Insights:  core.GenerateInsights(series),
	}

	var text bytes.Buffer
	if err := Write(&text, res, FormatText); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Last 7 Days", "No check-in yet today", "Jan 5", "Jan 6", "3.0/5", "improving"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("text output missing %q:\n%s", want, text.String())
		}
	}

	var markup bytes.Buffer
	if err := Write(&markup, res, FormatMarkup); err != nil {
		t.Fatal(err)
	}
	if strings.Count(markup.String(), "<br><br>") != 2 {
		t.Errorf("markup = %q", markup.String())
	}

	var js bytes.Buffer
	if err := Write(&js, res, FormatJSON); err != nil {
		t.Fatal(err)
	}
	var decoded report
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("json output: %v", err)
	}
	if len(decoded.Bars) != 2 || decoded.Bars[1].HeightPercent != 80 || decoded.Trend != "improving" {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatText {
		t.Fatalf("ParseFormat(\"\") = %q, %v", f, err)
	}
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Fatalf("ParseFormat(JSON) = %q, %v", f, err)
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Fatal("expected error for yaml")
	}
}
