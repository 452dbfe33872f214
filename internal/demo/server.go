package demo

import (
	"encoding/json"
	"errors"
	"html"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mindwell/moodboard/internal/api"
	"github.com/mindwell/moodboard/internal/core"
)

const maxRequestBytes = 1 << 20

type Server struct {
	store  *Store
	policy *bluemonday.Policy
}

func NewServer(store *Store) *Server {
	return &Server{store: store, policy: bluemonday.StrictPolicy()}
}

// Router mounts every API route on a chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)

	r.Post("/register", s.register)
	r.Post("/login", s.login)
	r.Post("/logout", s.logout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/progress/{id}", s.progress)
		r.Post("/checkins", s.createCheckIn)
		r.Post("/journal", s.createJournalEntry)
		r.Get("/journal/{id}", s.journalEntries)
		r.Put("/user/profile", s.updateProfile)
		r.Delete("/user/{id}", s.deleteAccount)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Printf("[demo] %s %s -> %d (%s) request_id=%s",
			r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond), r.Header.Get("X-Request-ID"))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, api.Envelope{Success: false, Message: message})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		fail(w, http.StatusBadRequest, "Request must be JSON")
		return false
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(v); err != nil {
		fail(w, http.StatusBadRequest, "Malformed JSON body")
		return false
	}
	return true
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// clean strips markup from free text and stores it as plain text.
func (s *Server) clean(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(v)))
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	req.FirstName = s.clean(req.FirstName)
	req.LastName = s.clean(req.LastName)
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		fail(w, http.StatusBadRequest, "All fields are required")
		return
	}

	u, err := s.store.Register(req)
	var pwErr *PasswordError
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, api.UserResponse{
			Envelope: api.Envelope{Success: true, Message: "Registration successful"},
			User:     &u,
		})
	case errors.Is(err, ErrInvalidEmail):
		fail(w, http.StatusBadRequest, "Invalid email format")
	case errors.As(err, &pwErr):
		fail(w, http.StatusBadRequest, pwErr.Reason)
	case errors.Is(err, ErrEmailTaken):
		fail(w, http.StatusConflict, "Email already registered")
	default:
		log.Printf("[demo] register: %v", err)
		fail(w, http.StatusInternalServerError, "Registration failed. Please try again.")
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	u, err := s.store.Authenticate(req.Email, req.Password)
	if err != nil {
		fail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, api.UserResponse{
		Envelope: api.Envelope{Success: true, Message: "Login successful"},
		User:     &u,
	})
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.Envelope{Success: true, Message: "Logged out successfully"})
}

func (s *Server) progress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		fail(w, http.StatusNotFound, "User not found")
		return
	}
	tr := core.ParseTimeRange(r.URL.Query().Get("time_range"))
	if mt := r.URL.Query().Get("metric_type"); mt != "" && mt != api.MetricTypeMood {
		writeJSON(w, http.StatusOK, api.ProgressResponse{Envelope: api.Envelope{Success: true}, Historical: []core.MetricPoint{}})
		return
	}
	today, historical := s.store.Progress(id, tr)
	writeJSON(w, http.StatusOK, api.ProgressResponse{
		Envelope:   api.Envelope{Success: true},
		Today:      today,
		Historical: historical,
	})
}

func (s *Server) createCheckIn(w http.ResponseWriter, r *http.Request) {
	var req api.CheckInRequest
	if !decode(w, r, &req) {
		return
	}
	req.Notes = s.clean(req.Notes)
	if req.UserID <= 0 || strings.TrimSpace(req.Mood) == "" {
		fail(w, http.StatusBadRequest, "User ID and mood are required")
		return
	}
	if !core.IsValidMood(req.Mood) {
		fail(w, http.StatusBadRequest, "Invalid mood. Must be one of: "+strings.Join(core.ValidMoods, ", "))
		return
	}
	c, err := s.store.AddCheckIn(req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, api.CheckInResponse{
			Envelope: api.Envelope{Success: true, Message: "Check-in submitted successfully"},
			CheckIn:  &c,
		})
	case errors.Is(err, ErrUserNotFound):
		fail(w, http.StatusNotFound, "User not found")
	default:
		log.Printf("[demo] check-in: %v", err)
		fail(w, http.StatusInternalServerError, "An error occurred. Please try again.")
	}
}

func (s *Server) createJournalEntry(w http.ResponseWriter, r *http.Request) {
	var req api.JournalRequest
	if !decode(w, r, &req) {
		return
	}
	req.Title = s.clean(req.Title)
	req.Content = s.clean(req.Content)
	if req.UserID <= 0 || req.Title == "" || req.Content == "" {
		fail(w, http.StatusBadRequest, "User ID, title and content are required")
		return
	}
	e, err := s.store.AddJournalEntry(req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, api.JournalEntryResponse{
			Envelope: api.Envelope{Success: true, Message: "Journal entry created successfully"},
			Entry:    &e,
		})
	case errors.Is(err, ErrUserNotFound):
		fail(w, http.StatusNotFound, "User not found")
	default:
		log.Printf("[demo] journal: %v", err)
		fail(w, http.StatusInternalServerError, "Failed to create journal entry")
	}
}

func (s *Server) journalEntries(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		fail(w, http.StatusNotFound, "User not found")
		return
	}
	entries := s.store.JournalEntries(id)
	if entries == nil {
		entries = []api.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, api.JournalListResponse{Envelope: api.Envelope{Success: true}, Entries: entries})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req api.ProfileUpdate
	if !decode(w, r, &req) {
		return
	}
	req.FirstName = s.clean(req.FirstName)
	req.LastName = s.clean(req.LastName)
	if req.ID <= 0 || req.CurrentPassword == "" || req.FirstName == "" || req.LastName == "" || req.Email == "" {
		fail(w, http.StatusBadRequest, "All fields are required")
		return
	}

	u, err := s.store.UpdateProfile(req)
	var pwErr *PasswordError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, api.UserResponse{
			Envelope: api.Envelope{Success: true, Message: "Profile updated successfully"},
			User:     &u,
		})
	case errors.Is(err, ErrUserNotFound):
		fail(w, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrWrongPassword):
		fail(w, http.StatusUnauthorized, "Current password is incorrect")
	case errors.Is(err, ErrEmailTaken):
		fail(w, http.StatusConflict, "Email already in use")
	case errors.Is(err, ErrInvalidEmail):
		fail(w, http.StatusBadRequest, "Invalid email format")
	case errors.As(err, &pwErr):
		fail(w, http.StatusBadRequest, pwErr.Reason)
	default:
		log.Printf("[demo] profile: %v", err)
		fail(w, http.StatusInternalServerError, "An error occurred while updating profile")
	}
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		fail(w, http.StatusNotFound, "User not found")
		return
	}
	if err := s.store.DeleteUser(id); err != nil {
		fail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, api.Envelope{Success: true, Message: "Account deleted successfully"})
}
