package core

import "strings"

// ValidMoods is the check-in vocabulary accepted by the API.
var ValidMoods = []string{
	"Sad", "Depressed", "Heartbroken", "Gloomy",
	"Anxious", "Panicked", "Worried", "Nervous",
	"Angry", "Furious", "Irritated", "Resentful",
	"Stressed", "Overwhelmed", "Burdened", "Pressured",
	"Lonely", "Isolated", "Abandoned", "Disconnected",

	"Confused", "Disoriented", "Uncertain", "Lost",
	"Numb", "Empty", "Detached", "Disassociated",
	"Ashamed", "Guilty", "Embarrassed", "Humiliated",
	"Hopeless", "Despairing", "Defeated", "Powerless",

	"Neutral", "Indifferent", "Apathetic", "Balanced",
	"Reflective", "Contemplative", "Thoughtful", "Pensive",
	"Tired", "Exhausted", "Drained", "Fatigued",

	"Happy", "Joyful", "Content", "Cheerful",
	"Excited", "Enthusiastic", "Eager", "Energized",
	"Peaceful", "Calm", "Serene", "Tranquil",
	"Grateful", "Thankful", "Appreciative", "Blessed",
	"Hopeful", "Optimistic", "Encouraged", "Confident",

	"Unknown", "Mixed", "Conflicted", "Unsure",
}

var moodScores = func() map[string]float64 {
	scores := map[string]float64{
		"Unknown":    3,
		"Mixed":      3,
		"Conflicted": 2,
		"Unsure":     3,
	}
	groups := []struct {
		score float64
		moods []string
	}{
		{1, []string{"Sad", "Depressed", "Heartbroken", "Gloomy", "Anxious", "Panicked", "Hopeless", "Despairing"}},
		{2, []string{"Angry", "Furious", "Stressed", "Overwhelmed", "Lonely", "Isolated", "Ashamed", "Guilty"}},
		{3, []string{"Confused", "Numb", "Tired", "Reflective", "Neutral", "Indifferent"}},
		{4, []string{"Happy", "Content", "Peaceful", "Calm"}},
		{5, []string{"Excited", "Joyful", "Grateful", "Hopeful"}},
	}
	for _, g := range groups {
		for _, mood := range g.moods {
			scores[mood] = g.score
		}
	}
	return scores
}()

// CanonicalMood matches a label case-insensitively against ValidMoods.
func CanonicalMood(label string) (string, bool) {
	label = strings.TrimSpace(label)
	for _, mood := range ValidMoods {
		if strings.EqualFold(mood, label) {
			return mood, true
		}
	}
	return "", false
}

// IsValidMood reports whether label is an exact entry of ValidMoods.
func IsValidMood(label string) bool {
	for _, mood := range ValidMoods {
		if mood == label {
			return true
		}
	}
	return false
}

// MoodValue maps a valid mood to its 1-5 score. Valid moods without an explicit
// score sit at the neutral default.
func MoodValue(mood string) (float64, bool) {
	if !IsValidMood(mood) {
		return 0, false
	}
	if v, ok := moodScores[mood]; ok {
		return v, true
	}
	return DefaultNeutralValue, true
}
