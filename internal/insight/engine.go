// Package insight derives calendar grids, mood rollups and feature gates from a
// snapshot of journal entries. Every function here is a pure transform of its
// arguments: there is no I/O and no shared mutable state, so an Engine may be
// used from many goroutines at once.
package insight

import (
	"time"
)

// Entry is the read-only view of a journal record the engine works on.
// A zero CreatedAt marks a malformed record; such entries are skipped by every
// date-bucketed computation and reported through the Skipped counters.
type Entry struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Mood      string    `json:"mood"`
	Content   string    `json:"content"`
	MealType  string    `json:"meal_type,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	IsPublic  bool      `json:"is_public"`
	ProfileID string    `json:"profile_id"`
}

// MealTypeLife is the sentinel meal type of a non-food entry.
const MealTypeLife = "Life"

// Engine carries the explicit time context of a computation.
type Engine struct {
	// Location decides where a calendar day starts. Nil means time.Local.
	Location *time.Location
	// Now is only consulted for IsToday annotations and tenure. Nil means time.Now.
	Now func() time.Time
	// Policy holds the unlock thresholds. The zero value means DefaultPolicy.
	Policy Policy
}

func (e *Engine) loc() *time.Location {
	if e == nil || e.Location == nil {
		return time.Local
	}
	return e.Location
}

func (e *Engine) now() time.Time {
	if e == nil || e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Engine) policy() Policy {
	if e == nil {
		return DefaultPolicy
	}
	return e.Policy.normalize()
}

// dayKey identifies one local calendar day.
type dayKey struct {
	year  int
	month time.Month
	day   int
}

func (e *Engine) dayOf(t time.Time) dayKey {
	y, m, d := t.In(e.loc()).Date()
	return dayKey{year: y, month: m, day: d}
}

func (k dayKey) time(loc *time.Location) time.Time {
	return time.Date(k.year, k.month, k.day, 0, 0, 0, 0, loc)
}

func (k dayKey) String() string {
	return time.Date(k.year, k.month, k.day, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// startOfDay returns local midnight of t.
func (e *Engine) startOfDay(t time.Time) time.Time {
	return e.dayOf(t).time(e.loc())
}

// valid reports whether the entry can be placed on a calendar.
func valid(entry Entry) bool {
	return !entry.CreatedAt.IsZero()
}

// civilDays counts whole days between two local dates regardless of DST shifts.
func civilDays(from, to dayKey) int {
	a := time.Date(from.year, from.month, from.day, 0, 0, 0, 0, time.UTC)
	b := time.Date(to.year, to.month, to.day, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / (24 * time.Hour))
}
