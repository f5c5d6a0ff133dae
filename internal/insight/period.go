package insight

import (
	"math"
	"sort"
	"time"
)

// PeriodBucket summarizes the entries of one day.
type PeriodBucket struct {
	Label        string         `json:"label"`
	Date         string         `json:"date"`
	Count        int            `json:"count"`
	HappyCount   int            `json:"happy_count"`
	CountsByMood map[string]int `json:"counts_by_mood"`
	// AverageScore is nil for a day without entries. Callers must not
	// interpolate across nil buckets.
	AverageScore *float64 `json:"average_score"`
	Band         string   `json:"band,omitempty"`
}

// WeekReport holds the Sunday-to-Saturday buckets of one week.
type WeekReport struct {
	Start   string         `json:"start"`
	End     string         `json:"end"`
	Buckets []PeriodBucket `json:"buckets"`
	Total   int            `json:"total"`
	Skipped int            `json:"skipped"`
}

// MoodShare is one mood's share of a month.
type MoodShare struct {
	Name           string `json:"name"`
	Count          int    `json:"count"`
	PercentOfMonth int    `json:"percent_of_month"`
}

// MonthReport holds the mood distribution and daily trend of one month.
type MonthReport struct {
	Month   YearMonth      `json:"month"`
	Total   int            `json:"total"`
	Moods   []MoodShare    `json:"moods"`
	Days    []PeriodBucket `json:"days"`
	Skipped int            `json:"skipped"`
}

// MonthBucket summarizes one month of a year.
type MonthBucket struct {
	MonthLabel   string   `json:"month_label"`
	Month        int      `json:"month"`
	HappyCount   int      `json:"happy_count"`
	TotalCount   int      `json:"total_count"`
	AverageScore *float64 `json:"average_score"`
}

// YearReport holds the January-to-December buckets of one year.
type YearReport struct {
	Year    int           `json:"year"`
	Months  []MonthBucket `json:"months"`
	Total   int           `json:"total"`
	Skipped int           `json:"skipped"`
}

// tally accumulates the entries of one bucket.
type tally struct {
	count  int
	happy  int
	score  int
	byMood map[string]int
	order  []string
}

func (t *tally) add(entry Entry) {
	label := Normalize(entry.Mood)
	if t.byMood == nil {
		t.byMood = make(map[string]int)
	}
	if _, seen := t.byMood[label]; !seen {
		t.order = append(t.order, label)
	}
	t.byMood[label]++
	t.count++
	t.score += ScoreOf(label)
	if IsHappy(label) {
		t.happy++
	}
}

func (t *tally) average() *float64 {
	if t == nil || t.count == 0 {
		return nil
	}
	avg := roundTenth(float64(t.score) / float64(t.count))
	return &avg
}

func (t *tally) bucket(key dayKey, label string) PeriodBucket {
	b := PeriodBucket{
		Label:        label,
		Date:         key.String(),
		CountsByMood: map[string]int{},
	}
	if t == nil {
		return b
	}
	b.Count = t.count
	b.HappyCount = t.happy
	for mood, n := range t.byMood {
		b.CountsByMood[mood] = n
	}
	b.AverageScore = t.average()
	if b.AverageScore != nil {
		b.Band = Band(*b.AverageScore)
	}
	return b
}

// tallyDays groups entries between [from, to] by local day in one pass.
func (e *Engine) tallyDays(entries []Entry, from, to time.Time) (map[dayKey]*tally, int, int) {
	days := make(map[dayKey]*tally)
	skipped, total := 0, 0
	for _, entry := range entries {
		if !valid(entry) {
			skipped++
			continue
		}
		if entry.CreatedAt.Before(from) || !entry.CreatedAt.Before(to) {
			continue
		}
		key := e.dayOf(entry.CreatedAt)
		t := days[key]
		if t == nil {
			t = &tally{}
			days[key] = t
		}
		t.add(entry)
		total++
	}
	return days, skipped, total
}

// Weekly buckets the week (Sunday first) that contains anchor.
func (e *Engine) Weekly(entries []Entry, anchor time.Time) WeekReport {
	loc := e.loc()
	day := e.startOfDay(anchor)
	start := day.AddDate(0, 0, -int(day.Weekday()))
	end := start.AddDate(0, 0, 7)

	days, skipped, total := e.tallyDays(entries, start, end)
	report := WeekReport{
		Start:   start.Format(DateLayout),
		End:     end.AddDate(0, 0, -1).Format(DateLayout),
		Buckets: make([]PeriodBucket, 0, 7),
		Total:   total,
		Skipped: skipped,
	}
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		key := e.dayOf(d)
		report.Buckets = append(report.Buckets, days[key].bucket(key, d.In(loc).Format("Mon")))
	}
	return report
}

// Monthly reports the mood distribution of the month that contains anchor.
func (e *Engine) Monthly(entries []Entry, anchor time.Time) MonthReport {
	loc := e.loc()
	month := MonthOf(anchor, loc)
	start := time.Date(month.Year, month.Month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	report := MonthReport{Month: month, Moods: []MoodShare{}}
	var whole tally
	days := make(map[dayKey]*tally)
	for _, entry := range entries {
		if !valid(entry) {
			report.Skipped++
			continue
		}
		if entry.CreatedAt.Before(start) || !entry.CreatedAt.Before(end) {
			continue
		}
		whole.add(entry)
		key := e.dayOf(entry.CreatedAt)
		t := days[key]
		if t == nil {
			t = &tally{}
			days[key] = t
		}
		t.add(entry)
	}

	report.Total = whole.count
	report.Days = make([]PeriodBucket, 0, month.Days())
	for d := 1; d <= month.Days(); d++ {
		key := dayKey{year: month.Year, month: month.Month, day: d}
		report.Days = append(report.Days, days[key].bucket(key, key.time(loc).Format("2")))
	}
	if whole.count == 0 {
		return report
	}

	shares := make([]MoodShare, 0, len(whole.order))
	for _, name := range whole.order {
		count := whole.byMood[name]
		shares = append(shares, MoodShare{
			Name:           name,
			Count:          count,
			PercentOfMonth: int(math.Round(float64(count) / float64(whole.count) * 100)),
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Count > shares[j].Count
	})
	report.Moods = shares
	return report
}

// Yearly buckets the twelve months of the year that contains anchor.
func (e *Engine) Yearly(entries []Entry, anchor time.Time) YearReport {
	loc := e.loc()
	year := anchor.In(loc).Year()

	var months [12]tally
	report := YearReport{Year: year, Months: make([]MonthBucket, 0, 12)}
	for _, entry := range entries {
		if !valid(entry) {
			report.Skipped++
			continue
		}
		local := entry.CreatedAt.In(loc)
		if local.Year() != year {
			continue
		}
		months[local.Month()-1].add(entry)
		report.Total++
	}
	for i := range months {
		m := time.Month(i + 1)
		report.Months = append(report.Months, MonthBucket{
			MonthLabel:   m.String()[:3],
			Month:        int(m),
			HappyCount:   months[i].happy,
			TotalCount:   months[i].count,
			AverageScore: months[i].average(),
		})
	}
	return report
}
