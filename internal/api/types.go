package api

import "github.com/mindwell/moodboard/internal/core"

// Envelope is the common shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type UserResponse struct {
	Envelope
	User *User `json:"user,omitempty"`
}

type ProgressResponse struct {
	Envelope
	Today      *core.MetricPoint  `json:"today,omitempty"`
	Historical []core.MetricPoint `json:"historical,omitempty"`
}

type CheckInRequest struct {
	UserID       int64  `json:"user_id"`
	Mood         string `json:"mood"`
	EnergyLevel  *int   `json:"energy_level,omitempty"`
	AnxietyLevel *int   `json:"anxiety_level,omitempty"`
	Notes        string `json:"notes"`
}

type CheckIn struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"user_id"`
	Date         string `json:"date"`
	Mood         string `json:"mood"`
	EnergyLevel  *int   `json:"energy_level,omitempty"`
	AnxietyLevel *int   `json:"anxiety_level,omitempty"`
	Notes        string `json:"notes"`
}

type CheckInResponse struct {
	Envelope
	CheckIn *CheckIn `json:"checkin,omitempty"`
}

type JournalRequest struct {
	UserID    int64  `json:"user_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Mood      string `json:"mood,omitempty"`
	IsPrivate bool   `json:"is_private"`
}

type JournalEntry struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Date      string `json:"date"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Mood      string `json:"mood,omitempty"`
	IsPrivate bool   `json:"is_private"`
}

type JournalEntryResponse struct {
	Envelope
	Entry *JournalEntry `json:"entry,omitempty"`
}

type JournalListResponse struct {
	Envelope
	Entries []JournalEntry `json:"entries"`
}

// ProfileUpdate changes names and email; NewPassword is optional and sent only
// when set.
type ProfileUpdate struct {
	ID              int64  `json:"id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password,omitempty"`
}
