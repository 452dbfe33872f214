package demo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mindwell/moodboard/internal/api"
)

func newTestServer(t *testing.T) (*Store, *httptest.Server) {
	t.Helper()
	store := fixedStore(time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC))
	srv := httptest.NewServer(NewServer(store).Router())
	t.Cleanup(srv.Close)
	return store, srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, api.Envelope) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	var env api.Envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp, env
}

func TestRegisterHandler(t *testing.T) {
	_, srv := newTestServer(t)

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"missing fields", `{"email":"a@example.com"}`, http.StatusBadRequest, "All fields are required"},
		{"bad email", `{"first_name":"A","last_name":"B","email":"nope","password":"Secret123"}`, http.StatusBadRequest, "Invalid email format"},
		{"weak password", `{"first_name":"A","last_name":"B","email":"a@example.com","password":"secret123"}`, http.StatusBadRequest, "Password needs an uppercase letter"},
		{"ok", `{"first_name":"A","last_name":"B","email":"a@example.com","password":"Secret123"}`, http.StatusCreated, "Registration successful"},
		{"duplicate", `{"first_name":"A","last_name":"B","email":"a@example.com","password":"Secret123"}`, http.StatusConflict, "Email already registered"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := postJSON(t, srv.URL+"/register", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if env.Message != tt.message {
				t.Fatalf("message = %q, want %q", env.Message, tt.message)
			}
			if env.Success != (tt.status < 300) {
				t.Fatalf("success = %v", env.Success)
			}
		})
	}
}

func TestRegisterHandler_RejectsNonJSON(t *testing.T) {
	_, srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/register", "text/plain", strings.NewReader("hi"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCheckInHandler_SanitizesNotesAndRejectsUnknownMood(t *testing.T) {
	store, srv := newTestServer(t)
	u, _ := store.Register(api.RegisterRequest{FirstName: "A", LastName: "B", Email: "a@example.com", Password: "Secret123"})

	body := `{"user_id":` + jsonInt(u.ID) + `,"mood":"Sleepy","energy_level":5}`
	resp, env := postJSON(t, srv.URL+"/api/checkins", body)
	if resp.StatusCode != http.StatusBadRequest || !strings.HasPrefix(env.Message, "Invalid mood.") {
		t.Fatalf("unknown mood -> %d %q", resp.StatusCode, env.Message)
	}

	body = `{"user_id":` + jsonInt(u.ID) + `,"mood":"Calm","energy_level":5,"notes":"<script>x()</script>fine"}`
	resp, err := http.Post(srv.URL+"/api/checkins", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out api.CheckInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated || out.CheckIn == nil {
		t.Fatalf("check-in -> %d %+v", resp.StatusCode, out)
	}
	if out.CheckIn.Notes != "fine" {
		t.Fatalf("notes = %q, want sanitized", out.CheckIn.Notes)
	}
}

func TestProgressHandler_UnknownRangeDefaultsToWeek(t *testing.T) {
	store, srv := newTestServer(t)
	u, err := Seed(store)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Get(srv.URL + "/api/progress/" + jsonInt(u.ID) + "?time_range=decade&metric_type=mood")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out api.ProgressResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.Success {
		t.Fatalf("success = false: %q", out.Message)
	}
	if n := len(out.Historical); n < 7 || n > 8 {
		t.Fatalf("historical = %d points, want a week's worth", n)
	}
	if out.Today == nil {
		t.Fatal("today missing")
	}
}

func TestDeleteHandler_NotFound(t *testing.T) {
	_, srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/user/99", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
