// Package demo is an in-memory implementation of the moodboard HTTP API, used
// for local development and as the backend for client integration tests.
package demo

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mindwell/moodboard/internal/api"
	"github.com/mindwell/moodboard/internal/core"
	"golang.org/x/crypto/bcrypt"
)

// TimestampLayout matches the zone-less ISO timestamps the production API emits.
const TimestampLayout = "2006-01-02T15:04:05.999999"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrWrongPassword  = errors.New("current password is incorrect")
	ErrInvalidEmail   = errors.New("invalid email format")
	errPasswordPolicy = errors.New("password policy")
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

const minPasswordLength = 8

// bcryptCost is lowered by tests.
var bcryptCost = bcrypt.DefaultCost

// PasswordError carries the user-facing reason a password was rejected.
type PasswordError struct{ Reason string }

func (e *PasswordError) Error() string { return e.Reason }
func (e *PasswordError) Unwrap() error { return errPasswordPolicy }

// ValidatePassword enforces length plus lowercase, uppercase and digit.
func ValidatePassword(pw string) error {
	switch {
	case len(pw) < minPasswordLength:
		return &PasswordError{Reason: fmt.Sprintf("Password must be at least %d characters", minPasswordLength)}
	case !lowerPattern.MatchString(pw):
		return &PasswordError{Reason: "Password needs a lowercase letter"}
	case !upperPattern.MatchString(pw):
		return &PasswordError{Reason: "Password needs an uppercase letter"}
	case !digitPattern.MatchString(pw):
		return &PasswordError{Reason: "Password needs a number"}
	}
	return nil
}

type user struct {
	api.User
	passwordHash []byte
	createdAt    time.Time
}

type metric struct {
	id     int64
	userID int64
	date   time.Time
	value  float64
	mood   string
}

// Store holds users, check-ins, journal entries and mood metrics in memory.
type Store struct {
	mu       sync.RWMutex
	now      func() time.Time
	nextID   int64
	users    map[int64]*user
	checkins []api.CheckIn
	journal  []api.JournalEntry
	metrics  []metric
}

func NewStore() *Store {
	return &Store{
		now:   func() time.Time { return time.Now().UTC() },
		users: make(map[int64]*user),
	}
}

// SetClock overrides the store's notion of now; used by tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = func() time.Time { return now().UTC() }
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) findByEmail(email string) *user {
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (s *Store) Register(req api.RegisterRequest) (api.User, error) {
	email := strings.TrimSpace(req.Email)
	if !emailPattern.MatchString(email) {
		return api.User{}, ErrInvalidEmail
	}
	if err := ValidatePassword(req.Password); err != nil {
		return api.User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return api.User{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findByEmail(email) != nil {
		return api.User{}, ErrEmailTaken
	}
	now := s.now()
	u := &user{
		User: api.User{
			ID:        s.id(),
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Email:     email,
			CreatedAt: now.Format(TimestampLayout),
		},
		passwordHash: hash,
		createdAt:    now,
	}
	s.users[u.ID] = u
	return u.User, nil
}

func (s *Store) Authenticate(email, password string) (api.User, error) {
	s.mu.RLock()
	u := s.findByEmail(strings.TrimSpace(email))
	s.mu.RUnlock()
	if u == nil {
		return api.User{}, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) != nil {
		return api.User{}, ErrBadCredentials
	}
	return u.User, nil
}

func (s *Store) UpdateProfile(req api.ProfileUpdate) (api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[req.ID]
	if !ok {
		return api.User{}, ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword(u.passwordHash, []byte(req.CurrentPassword)) != nil {
		return api.User{}, ErrWrongPassword
	}
	email := strings.TrimSpace(req.Email)
	if !strings.EqualFold(email, u.Email) {
		if !emailPattern.MatchString(email) {
			return api.User{}, ErrInvalidEmail
		}
		if s.findByEmail(email) != nil {
			return api.User{}, ErrEmailTaken
		}
	}
	var hash []byte
	if req.NewPassword != "" {
		if err := ValidatePassword(req.NewPassword); err != nil {
			return api.User{}, err
		}
		h, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
		if err != nil {
			return api.User{}, fmt.Errorf("hash password: %w", err)
		}
		hash = h
	}

	u.FirstName = strings.TrimSpace(req.FirstName)
	u.LastName = strings.TrimSpace(req.LastName)
	u.Email = email
	if hash != nil {
		u.passwordHash = hash
	}
	return u.User, nil
}

// DeleteUser removes the user and everything they recorded.
func (s *Store) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)
	s.checkins = filterOut(s.checkins, func(c api.CheckIn) bool { return c.UserID == id })
	s.journal = filterOut(s.journal, func(e api.JournalEntry) bool { return e.UserID == id })
	s.metrics = filterOut(s.metrics, func(m metric) bool { return m.userID == id })
	return nil
}

func filterOut[T any](in []T, drop func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if !drop(v) {
			out = append(out, v)
		}
	}
	return out
}

// AddCheckIn records a check-in and the mood metric derived from it.
func (s *Store) AddCheckIn(req api.CheckInRequest) (api.CheckIn, error) {
	mood, ok := core.CanonicalMood(req.Mood)
	if !ok {
		return api.CheckIn{}, fmt.Errorf("invalid mood %q", req.Mood)
	}
	value, _ := core.MoodValue(mood)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[req.UserID]; !ok {
		return api.CheckIn{}, ErrUserNotFound
	}
	now := s.now()
	c := api.CheckIn{
		ID:           s.id(),
		UserID:       req.UserID,
		Date:         now.Format(TimestampLayout),
		Mood:         mood,
		EnergyLevel:  req.EnergyLevel,
		AnxietyLevel: req.AnxietyLevel,
		Notes:        req.Notes,
	}
	s.checkins = append(s.checkins, c)
	s.metrics = append(s.metrics, metric{id: s.id(), userID: req.UserID, date: now, value: value, mood: mood})
	return c, nil
}

// AddMetric inserts a raw mood metric at a given time. A nil value stores 0,
// which clients read as missing.
func (s *Store) AddMetric(userID int64, at time.Time, value *float64, mood string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := metric{id: s.id(), userID: userID, date: at.UTC(), mood: mood}
	if value != nil {
		m.value = *value
	}
	s.metrics = append(s.metrics, m)
}

func (s *Store) AddJournalEntry(req api.JournalRequest) (api.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[req.UserID]; !ok {
		return api.JournalEntry{}, ErrUserNotFound
	}
	e := api.JournalEntry{
		ID:        s.id(),
		UserID:    req.UserID,
		Date:      s.now().Format(TimestampLayout),
		Title:     req.Title,
		Content:   req.Content,
		Mood:      req.Mood,
		IsPrivate: req.IsPrivate,
	}
	s.journal = append(s.journal, e)
	return e, nil
}

// JournalEntries returns a user's entries newest first.
func (s *Store) JournalEntries(userID int64) []api.JournalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []api.JournalEntry
	for i := len(s.journal) - 1; i >= 0; i-- {
		if s.journal[i].UserID == userID {
			out = append(out, s.journal[i])
		}
	}
	return out
}

// Progress returns today's first metric and the metrics inside the range,
// oldest first.
func (s *Store) Progress(userID int64, tr core.TimeRange) (*core.MetricPoint, []core.MetricPoint) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	var start time.Time
	if lb := tr.Lookback(); lb > 0 {
		start = now.Add(-lb)
	}

	var rows []metric
	for _, m := range s.metrics {
		if m.userID != userID {
			continue
		}
		rows = append(rows, m)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })

	var today *core.MetricPoint
	historical := make([]core.MetricPoint, 0, len(rows))
	y, mo, d := now.Date()
	for _, m := range rows {
		p := m.point()
		if today == nil {
			if my, mm, md := m.date.Date(); my == y && mm == mo && md == d {
				today = &p
			}
		}
		if !start.IsZero() && m.date.Before(start) {
			continue
		}
		historical = append(historical, p)
	}
	return today, historical
}

func (m metric) point() core.MetricPoint {
	p := core.MetricPoint{
		ID:         m.id,
		UserID:     m.userID,
		Date:       m.date.Format(TimestampLayout),
		MetricType: api.MetricTypeMood,
		Mood:       m.mood,
	}
	if m.value != 0 {
		p.Value = core.Float64Ptr(m.value)
	}
	return p
}

func (s *Store) HasUser(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok
}
