package insight

import (
	"math"
	"strings"
)

// TableVersion identifies the scoring table below. Changing any score or the
// happy subset changes every historic average, so it must come with a bump.
const TableVersion = "2025.1"

// NeutralScore is used for every label missing from the table.
const NeutralScore = 3

// MoodOther is the label an empty mood is counted under.
const MoodOther = "Other"

// MoodDefinition is one row of the static valence table.
type MoodDefinition struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Happy bool   `json:"is_happy"`
	Emoji string `json:"emoji,omitempty"`
}

var moodTable = []MoodDefinition{
	{Name: "Joy", Score: 5, Happy: true, Emoji: "🥰"},
	{Name: "Excited", Score: 5, Happy: true, Emoji: "🎉"},
	{Name: "Proud", Score: 5, Happy: true, Emoji: "😎"},
	{Name: "Love", Score: 5, Happy: true, Emoji: "❤️"},
	{Name: "Calm", Score: 4, Emoji: "🌿"},
	{Name: "Neutral", Score: 3, Emoji: "😶"},
	{Name: "Tired", Score: 2, Emoji: "😴"},
	{Name: "Stressed", Score: 2, Emoji: "🤯"},
	{Name: "Sad", Score: 1, Emoji: "💧"},
	{Name: "Angry", Score: 1, Emoji: "🤬"},
	{Name: "Sick", Score: 1, Emoji: "🤢"},
	{Name: MoodOther, Score: NeutralScore},
}

var moodIndex = func() map[string]MoodDefinition {
	idx := make(map[string]MoodDefinition, len(moodTable))
	for _, def := range moodTable {
		idx[def.Name] = def
	}
	return idx
}()

// Definitions returns a copy of the mood table in display order.
func Definitions() []MoodDefinition {
	out := make([]MoodDefinition, len(moodTable))
	copy(out, moodTable)
	return out
}

// Lookup returns the definition of an exact, case-sensitive label.
func Lookup(label string) (MoodDefinition, bool) {
	def, ok := moodIndex[label]
	return def, ok
}

// ScoreOf returns the 1-5 valence of a label. Custom and empty labels score 3.
func ScoreOf(label string) int {
	if def, ok := moodIndex[label]; ok {
		return def.Score
	}
	return NeutralScore
}

// IsHappy reports whether label belongs to the positive-affect subset.
func IsHappy(label string) bool {
	def, ok := moodIndex[label]
	return ok && def.Happy
}

// Normalize returns the label an entry is counted under. Blank moods become
// Other, everything else is kept verbatim.
func Normalize(label string) string {
	if strings.TrimSpace(label) == "" {
		return MoodOther
	}
	return label
}

// Band names the feeling of an average score.
func Band(score float64) string {
	switch {
	case score >= 4.5:
		return "Amazing"
	case score >= 4:
		return "Good"
	case score >= 3:
		return "Okay"
	case score >= 2:
		return "Low"
	default:
		return "Rough"
	}
}

// roundTenth rounds half away from zero to one decimal place.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
