package api

import (
	"errors"
	"strings"

	"github.com/mindwell/moodboard/internal/core"
)

const MinPasswordLength = 8

// FieldError is a client-side validation failure on one form field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }

// ValidationErrors collects every failing field of a form.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// AsValidation unwraps a ValidationErrors value.
func AsValidation(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	ok := errors.As(err, &v)
	return v, ok
}

// Validate normalizes the mood label and checks required fields.
func (r *CheckInRequest) Validate() error {
	var errs ValidationErrors
	if strings.TrimSpace(r.Mood) == "" {
		errs = append(errs, FieldError{Field: "mood", Message: "Please select your mood"})
	} else if mood, ok := core.CanonicalMood(r.Mood); ok {
		r.Mood = mood
	} else {
		errs = append(errs, FieldError{Field: "mood", Message: "Unknown mood " + r.Mood})
	}
	if r.EnergyLevel == nil {
		errs = append(errs, FieldError{Field: "energy_level", Message: "Please set your energy level"})
	} else if *r.EnergyLevel < 1 || *r.EnergyLevel > 10 {
		errs = append(errs, FieldError{Field: "energy_level", Message: "Energy level must be between 1 and 10"})
	}
	if r.AnxietyLevel != nil && (*r.AnxietyLevel < 1 || *r.AnxietyLevel > 10) {
		errs = append(errs, FieldError{Field: "anxiety_level", Message: "Anxiety level must be between 1 and 10"})
	}
	return errs.orNil()
}

func (r *JournalRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	var errs ValidationErrors
	if r.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "Title is required"})
	}
	if r.Content == "" {
		errs = append(errs, FieldError{Field: "content", Message: "Content is required"})
	}
	if r.Mood != "" {
		mood, ok := core.CanonicalMood(r.Mood)
		if !ok {
			errs = append(errs, FieldError{Field: "mood", Message: "Unknown mood " + r.Mood})
		} else {
			r.Mood = mood
		}
	}
	return errs.orNil()
}

// ValidateProfileUpdate checks the new password against its confirmation.
func ValidateProfileUpdate(r *ProfileUpdate, confirm string) error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	var errs ValidationErrors
	if r.CurrentPassword == "" {
		errs = append(errs, FieldError{Field: "current_password", Message: "Current password is required"})
	}
	if r.NewPassword != "" {
		if r.NewPassword != confirm {
			errs = append(errs, FieldError{Field: "confirm_password", Message: "Passwords do not match"})
		} else if len(r.NewPassword) < MinPasswordLength {
			errs = append(errs, FieldError{Field: "new_password", Message: "Password must be at least 8 characters"})
		}
	}
	return errs.orNil()
}
