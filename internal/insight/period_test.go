package insight

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekly_MixedMoodsOnOneDay(t *testing.T) {
	e := fixedEngine(time.UTC, at(t, "2025-01-10T00:00:00Z"))
	entries := []Entry{
		{ID: "1", CreatedAt: at(t, "2025-01-05T09:00:00Z"), Mood: "Joy"},
		{ID: "2", CreatedAt: at(t, "2025-01-05T21:00:00Z"), Mood: "Sad"},
	}

	report := e.Weekly(entries, at(t, "2025-01-05T12:00:00Z"))
	require.Len(t, report.Buckets, 7)

	sunday := report.Buckets[0]
	assert.Equal(t, "Sun", sunday.Label)
	assert.Equal(t, "2025-01-05", sunday.Date)
	require.NotNil(t, sunday.AverageScore)
	assert.InDelta(t, 3.0, *sunday.AverageScore, 1e-9)
	assert.Equal(t, map[string]int{"Joy": 1, "Sad": 1}, sunday.CountsByMood)
	assert.Equal(t, 1, sunday.HappyCount)
	assert.Equal(t, "Okay", sunday.Band)
}

func TestWeekly_StartsOnSunday(t *testing.T) {
	e := fixedEngine(time.UTC, at(t, "2025-01-10T00:00:00Z"))

	report := e.Weekly(nil, at(t, "2025-01-08T15:00:00Z"))
	assert.Equal(t, "2025-01-05", report.Start)
	assert.Equal(t, "2025-01-11", report.End)

	labels := make([]string, 0, 7)
	for _, b := range report.Buckets {
		labels = append(labels, b.Label)
		assert.Nil(t, b.AverageScore)
		assert.Empty(t, b.CountsByMood)
		assert.Empty(t, b.Band)
	}
	assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, labels)
}

func TestWeekly_SpansDSTChange(t *testing.T) {
	ny := newYork(t)
	e := fixedEngine(ny, at(t, "2025-03-20T00:00:00Z"))
	entries := []Entry{
		// 01:30 EST and 23:30 EDT, both on Sunday 2025-03-09.
		{ID: "1", CreatedAt: at(t, "2025-03-09T06:30:00Z"), Mood: "Joy"},
		{ID: "2", CreatedAt: at(t, "2025-03-10T03:30:00Z"), Mood: "Calm"},
		// 23:30 EDT on Saturday 2025-03-15.
		{ID: "3", CreatedAt: at(t, "2025-03-16T03:30:00Z"), Mood: "Sad"},
		// 00:30 EDT on the following Sunday.
		{ID: "4", CreatedAt: at(t, "2025-03-16T04:30:00Z"), Mood: "Sad"},
	}

	report := e.Weekly(entries, at(t, "2025-03-12T12:00:00Z"))
	assert.Equal(t, "2025-03-09", report.Start)
	assert.Equal(t, "2025-03-15", report.End)
	require.Len(t, report.Buckets, 7)

	dates := make([]string, 0, 7)
	for _, b := range report.Buckets {
		dates = append(dates, b.Date)
	}
	assert.Equal(t, []string{
		"2025-03-09", "2025-03-10", "2025-03-11", "2025-03-12",
		"2025-03-13", "2025-03-14", "2025-03-15",
	}, dates)
	assert.Equal(t, 2, report.Buckets[0].Count)
	assert.Equal(t, 1, report.Buckets[6].Count)
	assert.Equal(t, 3, report.Total)
}

func TestWeekly_CountsSumToEntriesInWeek(t *testing.T) {
	e := fixedEngine(time.UTC, at(t, "2025-01-20T00:00:00Z"))
	entries := []Entry{
		{ID: "before", CreatedAt: at(t, "2025-01-04T23:59:59Z"), Mood: "Joy"},
		{ID: "1", CreatedAt: at(t, "2025-01-05T00:00:00Z"), Mood: "Joy"},
		{ID: "2", CreatedAt: at(t, "2025-01-07T10:00:00Z"), Mood: "Sleepy after pho"},
		{ID: "3", CreatedAt: at(t, "2025-01-07T11:00:00Z"), Mood: ""},
		{ID: "4", CreatedAt: at(t, "2025-01-11T23:59:59Z"), Mood: "Calm"},
		{ID: "after", CreatedAt: at(t, "2025-01-12T00:00:00Z"), Mood: "Sad"},
		{ID: "broken", Mood: "Sad"},
	}

	report := e.Weekly(entries, at(t, "2025-01-09T00:00:00Z"))
	sum := 0
	for _, b := range report.Buckets {
		for _, n := range b.CountsByMood {
			sum += n
		}
	}
	assert.Equal(t, 4, sum)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 1, report.Skipped)

	tuesday := report.Buckets[2]
	assert.Equal(t, map[string]int{"Sleepy after pho": 1, MoodOther: 1}, tuesday.CountsByMood)
	require.NotNil(t, tuesday.AverageScore)
	assert.InDelta(t, 3.0, *tuesday.AverageScore, 1e-9)
}

func TestWeekly_RoundsToOneDecimal(t *testing.T) {
	e := fixedEngine(time.UTC, at(t, "2025-01-10T00:00:00Z"))
	entries := []Entry{
		{ID: "1", CreatedAt: at(t, "2025-01-06T08:00:00Z"), Mood: "Joy"},
		{ID: "2", CreatedAt: at(t, "2025-01-06T09:00:00Z"), Mood: "Joy"},
		{ID: "3", CreatedAt: at(t, "2025-01-06T10:00:00Z"), Mood: "Sad"},
	}

	report := e.Weekly(entries, at(t, "2025-01-06T00:00:00Z"))
	monday := report.Buckets[1]
	require.NotNil(t, monday.AverageScore)
	assert.Equal(t, 3.7, *monday.AverageScore)
}

func TestMonthly_SharesSortedByCount(t *testing.T) {
	e := fixedEngine(time.UTC, at(t, "2025-02-01T00:00:00Z"))
	entries := []Entry{
		{ID: "1", CreatedAt: at(t, "2025-01-02T10:00:00Z"), Mood: "Sad"},
		{ID: "2", CreatedAt: at(t, "2025-01-03T10:00:00Z"), Mood: "Calm"},
		{ID: "3", CreatedAt: at(t, "2025-01-04T10:00:00Z"), Mood: "Joy"},
		{ID: "4", CreatedAt: at(t, "2025-01-05T10:00:00Z"), Mood: "Joy"},
		{ID: "outside", CreatedAt: at(t, "2025-02-01T10:00:00Z"), Mood: "Calm"},
	}

	report := e.Monthly(entries, at(t, "2025-01-20T00:00:00Z"))
	assert.Equal(t, YearMonth{Year: 2025, Month: time.January}, report.Month)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, []MoodShare{
		{Name: "Joy", Count: 2, PercentOfMonth: 50},
		{Name: "Sad", Count: 1, PercentOfMonth: 25},
		{Name: "Calm", Count: 1, PercentOfMonth: 25},
	}, report.Moods)

	require.Len(t, report.Days, 31)
	assert.Equal(t, "2", report.Days[1].Label)
	require.NotNil(t, report.Days[1].AverageScore)
	assert.InDelta(t, 1.0, *report.Days[1].AverageScore, 1e-9)
	assert.Nil(t, report.Days[0].AverageScore)
}

func TestMonthly_PercentagesStayWithinRounding(t *testing.T) {
	e := fixedEngine(time.UTC, at(t, "2025-02-01T00:00:00Z"))
	entries := []Entry{
		{ID: "1", CreatedAt: at(t, "2025-01-02T10:00:00Z"), Mood: "Joy"},
		{ID: "2", CreatedAt: at(t, "2025-01-03T10:00:00Z"), Mood: "Calm"},
		{ID: "3", CreatedAt: at(t, "2025-01-04T10:00:00Z"), Mood: "Sad"},
		{ID: "4", CreatedAt: at(t, "2025-01-05T10:00:00Z"), Mood: "Tired"},
		{ID: "5", CreatedAt: at(t, "2025-01-06T10:00:00Z"), Mood: "Tired"},
		{ID: "6", CreatedAt: at(t, "2025-01-07T10:00:00Z"), Mood: "Love"},
	}

	report := e.Monthly(entries, at(t, "2025-01-01T00:00:00Z"))
	sum := 0
	for _, share := range report.Moods {
		sum += share.PercentOfMonth
	}
	assert.GreaterOrEqual(t, sum, 99)
	assert.LessOrEqual(t, sum, 101)
	assert.Equal(t, "Tired", report.Moods[0].Name)
}

func TestMonthly_EmptyMonth(t *testing.T) {
	e := fixedEngine(time.UTC, at(t, "2025-02-01T00:00:00Z"))
	entries := []Entry{{ID: "1", CreatedAt: at(t, "2024-12-31T10:00:00Z"), Mood: "Joy"}}

	report := e.Monthly(entries, at(t, "2025-01-15T00:00:00Z"))
	assert.Equal(t, 0, report.Total)
	assert.NotNil(t, report.Moods)
	assert.Empty(t, report.Moods)
	assert.Len(t, report.Days, 31)
}

func TestYearly_TwelveMonths(t *testing.T) {
	e := fixedEngine(time.UTC, at(t, "2025-12-31T00:00:00Z"))
	entries := []Entry{
		{ID: "1", CreatedAt: at(t, "2025-01-02T10:00:00Z"), Mood: "Joy"},
		{ID: "2", CreatedAt: at(t, "2025-01-03T10:00:00Z"), Mood: "Sad"},
		{ID: "3", CreatedAt: at(t, "2025-03-04T10:00:00Z"), Mood: "Love"},
		{ID: "4", CreatedAt: at(t, "2025-12-31T23:00:00Z"), Mood: "Proud"},
		{ID: "prev", CreatedAt: at(t, "2024-12-31T10:00:00Z"), Mood: "Joy"},
		{ID: "broken", Mood: "Joy"},
	}

	report := e.Yearly(entries, at(t, "2025-06-01T00:00:00Z"))
	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.Months, 12)

	assert.Equal(t, "Jan", report.Months[0].MonthLabel)
	assert.Equal(t, 1, report.Months[0].HappyCount)
	assert.Equal(t, 2, report.Months[0].TotalCount)
	require.NotNil(t, report.Months[0].AverageScore)
	assert.InDelta(t, 3.0, *report.Months[0].AverageScore, 1e-9)

	assert.Equal(t, 0, report.Months[1].TotalCount)
	assert.Nil(t, report.Months[1].AverageScore)

	assert.Equal(t, "Mar", report.Months[2].MonthLabel)
	assert.Equal(t, 1, report.Months[2].HappyCount)
	assert.Equal(t, "Dec", report.Months[11].MonthLabel)
	assert.Equal(t, 1, report.Months[11].HappyCount)
}

func TestAggregators_Idempotent(t *testing.T) {
	e := fixedEngine(time.UTC, at(t, "2025-12-31T00:00:00Z"))
	entries := []Entry{
		{ID: "1", CreatedAt: at(t, "2025-01-02T10:00:00Z"), Mood: "Joy"},
		{ID: "2", CreatedAt: at(t, "2025-01-02T11:00:00Z"), Mood: "custom"},
		{ID: "3", CreatedAt: at(t, "2025-01-03T10:00:00Z"), Mood: "Sad"},
	}
	anchor := at(t, "2025-01-02T00:00:00Z")

	assert.Equal(t, e.Weekly(entries, anchor), e.Weekly(entries, anchor))
	assert.Equal(t, e.Monthly(entries, anchor), e.Monthly(entries, anchor))
	assert.Equal(t, e.Yearly(entries, anchor), e.Yearly(entries, anchor))
}
