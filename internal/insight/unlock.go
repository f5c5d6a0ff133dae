package insight

import (
	"fmt"
	"strings"
)

// Tier is an analytics view that may be gated behind tenure.
type Tier string

const (
	TierWeek  Tier = "week"
	TierMonth Tier = "month"
	TierYear  Tier = "year"
)

// ParseTier accepts week, month or year in any case.
func ParseTier(raw string) (Tier, error) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(raw))); t {
	case TierWeek, TierMonth, TierYear:
		return t, nil
	default:
		return "", fmt.Errorf("unknown tier %q", raw)
	}
}

// Policy is the tenure-based gate: a tier opens once the first entry is at
// least that many calendar days old. Sample-size gating is not supported.
type Policy struct {
	MonthDays int `json:"month_days" yaml:"month_days"`
	YearDays  int `json:"year_days"  yaml:"year_days"`
}

// DefaultPolicy unlocks the month view after 15 days and the year view after 60.
var DefaultPolicy = Policy{MonthDays: 15, YearDays: 60}

func (p Policy) normalize() Policy {
	if p.MonthDays <= 0 {
		p.MonthDays = DefaultPolicy.MonthDays
	}
	if p.YearDays <= 0 {
		p.YearDays = DefaultPolicy.YearDays
	}
	return p
}

// Required returns the tenure a tier needs and whether the tier is known.
func (p Policy) Required(tier Tier) (int, bool) {
	p = p.normalize()
	switch tier {
	case TierWeek:
		return 0, true
	case TierMonth:
		return p.MonthDays, true
	case TierYear:
		return p.YearDays, true
	default:
		return 0, false
	}
}

// TierState describes the gate of one tier.
type TierState struct {
	Tier          Tier `json:"tier"`
	Unlocked      bool `json:"unlocked"`
	RequiredDays  int  `json:"required_days"`
	RemainingDays int  `json:"remaining_days"`
}

// UnlockReport is the tenure and the gate state of every tier.
type UnlockReport struct {
	DaysActive int         `json:"days_active"`
	Tiers      []TierState `json:"tiers"`
}

// DaysActive returns the calendar days elapsed since the earliest entry.
func (e *Engine) DaysActive(entries []Entry) int {
	var first *Entry
	for i := range entries {
		if !valid(entries[i]) {
			continue
		}
		if first == nil || entries[i].CreatedAt.Before(first.CreatedAt) {
			first = &entries[i]
		}
	}
	if first == nil {
		return 0
	}
	days := civilDays(e.dayOf(first.CreatedAt), e.dayOf(e.now()))
	if days < 0 {
		return 0
	}
	return days
}

// IsUnlocked reports whether tier is available. It has no side effects; the
// caller decides what a locked tier means.
func (e *Engine) IsUnlocked(tier Tier, entries []Entry) bool {
	required, ok := e.policy().Required(tier)
	if !ok {
		return false
	}
	if required == 0 {
		return true
	}
	return e.DaysActive(entries) >= required
}

// Unlocks reports tenure and the state of every tier.
func (e *Engine) Unlocks(entries []Entry) UnlockReport {
	days := e.DaysActive(entries)
	policy := e.policy()
	report := UnlockReport{DaysActive: days}
	for _, tier := range []Tier{TierWeek, TierMonth, TierYear} {
		required, _ := policy.Required(tier)
		remaining := required - days
		if remaining < 0 {
			remaining = 0
		}
		report.Tiers = append(report.Tiers, TierState{
			Tier:          tier,
			Unlocked:      days >= required,
			RequiredDays:  required,
			RemainingDays: remaining,
		})
	}
	return report
}
