package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mindwell/moodboard/internal/core"
	"github.com/mindwell/moodboard/internal/metrics"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
	MetricTypeMood = "mood"
)

type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
	Metrics           metrics.Recorder
	UserAgent         string
}

type Client struct {
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
	metrics   metrics.Recorder
	userAgent string
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	var rec metrics.Recorder = metrics.Nop{}
	if opts.Metrics != nil {
		rec = opts.Metrics
	}

	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = "moodboard"
	}

	return &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		http:      httpClient,
		limiter:   rate.NewLimiter(limit, burst),
		metrics:   rec,
		userAgent: ua,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// Progress fetches the mood series for a user over a time range.
func (c *Client) Progress(ctx context.Context, userID int64, tr core.TimeRange) (ProgressResponse, error) {
	q := url.Values{}
	q.Set("time_range", string(tr))
	q.Set("metric_type", MetricTypeMood)
	path := "/api/progress/" + strconv.FormatInt(userID, 10) + "?" + q.Encode()

	var out ProgressResponse
	if err := c.do(ctx, "progress", http.MethodGet, path, nil, &out); err != nil {
		return ProgressResponse{}, err
	}
	return out, nil
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (User, error) {
	var out UserResponse
	if err := c.do(ctx, "login", http.MethodPost, "/login", req, &out); err != nil {
		return User{}, err
	}
	if out.User == nil {
		return User{}, fmt.Errorf("login: response carried no user")
	}
	return *out.User, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (User, error) {
	var out UserResponse
	if err := c.do(ctx, "register", http.MethodPost, "/register", req, &out); err != nil {
		return User{}, err
	}
	if out.User == nil {
		return User{}, fmt.Errorf("register: response carried no user")
	}
	return *out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	var out Envelope
	return c.do(ctx, "logout", http.MethodPost, "/logout", struct{}{}, &out)
}

func (c *Client) CreateCheckIn(ctx context.Context, req CheckInRequest) (CheckIn, error) {
	var out CheckInResponse
	if err := c.do(ctx, "checkins", http.MethodPost, "/api/checkins", req, &out); err != nil {
		return CheckIn{}, err
	}
	if out.CheckIn == nil {
		return CheckIn{UserID: req.UserID, Mood: req.Mood}, nil
	}
	return *out.CheckIn, nil
}

func (c *Client) CreateJournalEntry(ctx context.Context, req JournalRequest) (JournalEntry, error) {
	var out JournalEntryResponse
	if err := c.do(ctx, "journal", http.MethodPost, "/api/journal", req, &out); err != nil {
		return JournalEntry{}, err
	}
	if out.Entry == nil {
		return JournalEntry{UserID: req.UserID, Title: req.Title}, nil
	}
	return *out.Entry, nil
}

// JournalEntries lists a user's entries, newest first.
func (c *Client) JournalEntries(ctx context.Context, userID int64) ([]JournalEntry, error) {
	var out JournalListResponse
	path := "/api/journal/" + strconv.FormatInt(userID, 10)
	if err := c.do(ctx, "journal_list", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req ProfileUpdate) (User, error) {
	var out UserResponse
	if err := c.do(ctx, "profile", http.MethodPut, "/api/user/profile", req, &out); err != nil {
		return User{}, err
	}
	if out.User == nil {
		return User{}, fmt.Errorf("update profile: response carried no user")
	}
	return *out.User, nil
}

func (c *Client) DeleteAccount(ctx context.Context, userID int64) error {
	var out Envelope
	path := "/api/user/" + strconv.FormatInt(userID, 10)
	return c.do(ctx, "delete_account", http.MethodDelete, path, nil, &out)
}

type enveloped interface {
	envelope() Envelope
}

func (e Envelope) envelope() Envelope { return e }

func (c *Client) do(ctx context.Context, endpoint, method, path string, body any, out enveloped) error {
	if c == nil || c.baseURL == "" {
		return fmt.Errorf("api client is not configured")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: waiting for request slot: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordTransportFailure(endpoint)
		// A deadline means the API stopped answering; only cancellation is
		// the caller giving up.
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("%s: %w", endpoint, ctx.Err())
		}
		return fmt.Errorf("%s: %w: %w", endpoint, ErrUnavailable, err)
	}
	defer resp.Body.Close()
	c.metrics.RecordRequest(endpoint, resp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: reading response: %w: %w", endpoint, ErrUnavailable, err)
	}

	decodeErr := json.Unmarshal(data, out)
	env := out.envelope()

	if resp.StatusCode >= 300 || (decodeErr == nil && !env.Success) {
		apiErr := &Error{StatusCode: resp.StatusCode, Message: env.Message}
		if apiErr.Message == "" && decodeErr != nil {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%s: %w: %w", endpoint, ErrUnavailable, apiErr)
		}
		return fmt.Errorf("%s: %w", endpoint, apiErr)
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, decodeErr)
	}
	return nil
}
