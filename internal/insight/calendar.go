package insight

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DayStatus is the state of one calendar cell.
type DayStatus string

const (
	StatusEmpty    DayStatus = "empty"
	StatusHasEntry DayStatus = "has-entry"
	StatusMatch    DayStatus = "match"
	StatusDim      DayStatus = "dim"
)

// MonthLayout is the wire format of YearMonth.
const MonthLayout = "2006-01"

var ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")

// YearMonth is a calendar month independent of any time zone.
type YearMonth struct {
	Year  int
	Month time.Month
}

// ParseYearMonth parses "YYYY-MM".
func ParseYearMonth(raw string) (YearMonth, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(raw))
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidMonth, raw)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the month t falls in, seen from loc.
func MonthOf(t time.Time, loc *time.Location) YearMonth {
	if loc == nil {
		loc = time.Local
	}
	y, m, _ := t.In(loc).Date()
	return YearMonth{Year: y, Month: m}
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Days returns the number of days in the month.
func (ym YearMonth) Days() int {
	return time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth { return ym.add(1) }

// Prev returns the preceding month.
func (ym YearMonth) Prev() YearMonth { return ym.add(-1) }

func (ym YearMonth) add(n int) YearMonth {
	t := time.Date(ym.Year, ym.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

func (ym *YearMonth) UnmarshalText(b []byte) error {
	parsed, err := ParseYearMonth(string(b))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// Filter narrows which days light up. Mood and Keyword are mutually
// exclusive; when both are set the mood filter wins and the keyword is ignored.
type Filter struct {
	Keyword string `json:"keyword,omitempty"`
	Mood    string `json:"mood,omitempty"`
}

// Effective returns the filter actually applied.
func (f Filter) Effective() Filter {
	if f.Mood != "" {
		return Filter{Mood: f.Mood}
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		return Filter{Keyword: kw}
	}
	return Filter{}
}

// Active reports whether any filter narrows the calendar.
func (f Filter) Active() bool {
	return f.Effective() != Filter{}
}

// DayCell is one date of the calendar grid.
type DayCell struct {
	Date       string    `json:"date"`
	Day        int       `json:"day"`
	Status     DayStatus `json:"status"`
	EntryCount int       `json:"entry_count"`
	IsToday    bool      `json:"is_today,omitempty"`
}

// Calendar is the grid of one month.
type Calendar struct {
	Month YearMonth `json:"month"`
	// LeadingBlanks is the weekday of the 1st (0 = Sunday), for grid alignment.
	LeadingBlanks int       `json:"leading_blanks"`
	Days          []DayCell `json:"days"`
	Filter        Filter    `json:"filter"`
	Skipped       int       `json:"skipped"`
}

// BuildCalendar maps every date of month to a cell whose status reflects the
// entries recorded that local day and the given filter.
func (e *Engine) BuildCalendar(month YearMonth, entries []Entry, filter Filter) Calendar {
	loc := e.loc()
	applied := filter.Effective()
	keyword := strings.ToLower(applied.Keyword)

	byDay := make(map[dayKey][]Entry)
	skipped := 0
	for _, entry := range entries {
		if !valid(entry) {
			skipped++
			continue
		}
		key := e.dayOf(entry.CreatedAt)
		if key.year != month.Year || key.month != month.Month {
			continue
		}
		byDay[key] = append(byDay[key], entry)
	}

	today := e.dayOf(e.now())
	first := time.Date(month.Year, month.Month, 1, 0, 0, 0, 0, loc)
	total := month.Days()

	cal := Calendar{
		Month:         month,
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]DayCell, 0, total),
		Filter:        applied,
		Skipped:       skipped,
	}
	for d := 1; d <= total; d++ {
		key := dayKey{year: month.Year, month: month.Month, day: d}
		dayEntries := byDay[key]
		cal.Days = append(cal.Days, DayCell{
			Date:       key.String(),
			Day:        d,
			Status:     dayStatus(dayEntries, applied, keyword),
			EntryCount: len(dayEntries),
			IsToday:    key == today,
		})
	}
	return cal
}

func dayStatus(entries []Entry, filter Filter, keyword string) DayStatus {
	switch {
	case len(entries) == 0:
		return StatusEmpty
	case filter.Mood != "":
		for _, entry := range entries {
			if Normalize(entry.Mood) == filter.Mood {
				return StatusMatch
			}
		}
		return StatusDim
	case keyword != "":
		for _, entry := range entries {
			if strings.Contains(strings.ToLower(entry.Content), keyword) ||
				strings.Contains(strings.ToLower(entry.MealType), keyword) {
				return StatusMatch
			}
		}
		return StatusDim
	default:
		return StatusHasEntry
	}
}
