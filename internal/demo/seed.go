package demo

import (
	"fmt"
	"time"

	"github.com/mindwell/moodboard/internal/api"
	"github.com/mindwell/moodboard/internal/core"
)

const (
	DemoEmail    = "demo@moodboard.local"
	DemoPassword = "Moodboard1"
	seedDays     = 14
)

var seedMoods = []string{
	"Sad", "Tired", "Anxious", "Neutral", "Calm", "Hopeful", "Reflective",
	"", "Content", "Happy", "Calm", "Grateful", "Joyful", "Peaceful",
}

// Seed registers the demo user and backfills two weeks of daily mood samples
// ending today. One day carries no value to exercise imputation.
func Seed(store *Store) (api.User, error) {
	u, err := store.Register(api.RegisterRequest{
		FirstName: "Demo",
		LastName:  "User",
		Email:     DemoEmail,
		Password:  DemoPassword,
	})
	if err != nil {
		return api.User{}, fmt.Errorf("seed demo user: %w", err)
	}

	store.mu.RLock()
	now := store.now()
	store.mu.RUnlock()
	base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for i := range seedDays {
		day := base.AddDate(0, 0, i-seedDays+1)
		at := day.Add(9 * time.Hour)
		if at.After(now) {
			at = now
		}
		mood := seedMoods[i%len(seedMoods)]
		var value *float64
		if v, ok := core.MoodValue(mood); ok {
			value = core.Float64Ptr(v)
		}
		store.AddMetric(u.ID, at, value, mood)
	}
	return u, nil
}
