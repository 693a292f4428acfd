package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazelbrook/bookline/internal/interval"
	"github.com/hazelbrook/bookline/internal/schedule"
)

func mustMinute(t *testing.T, s string) schedule.MinuteOfDay {
	t.Helper()
	m, err := schedule.ParseMinuteOfDay(s)
	require.NoError(t, err)
	return m
}

func ruleFor(t *testing.T, weekday time.Weekday, open, close string) schedule.Rule {
	t.Helper()
	return schedule.Rule{
		ProviderID: uuid.New(),
		Weekday:    weekday,
		Open:       mustMinute(t, open),
		Close:      mustMinute(t, close),
	}
}

// Monday 2026-03-02 in UTC.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestGenerateSlotsSteppedByGranularity(t *testing.T) {
	rule := ruleFor(t, time.Monday, "09:00", "12:00")
	// 90-minute service at a 30-minute cadence inside a three-hour window.
	slots := GenerateSlots(monday, rule, 90*time.Minute, nil, monday.AddDate(0, 0, -7), 30*time.Minute)

	require.Len(t, slots, 4)
	assert.Equal(t, at(9, 0), slots[0].Start)
	assert.Equal(t, at(10, 30), slots[0].End)
	assert.Equal(t, at(10, 30), slots[3].Start)
	assert.Equal(t, at(12, 0), slots[3].End)
	for _, s := range slots {
		assert.True(t, s.Available, "slot %s should be free on an empty day", s.Start)
	}
}

func TestGenerateSlotsMarksOverlapsUnavailable(t *testing.T) {
	rule := ruleFor(t, time.Monday, "09:00", "12:00")
	busy := []interval.Interval{interval.New(at(10, 0), at(11, 0))}

	slots := GenerateSlots(monday, rule, 60*time.Minute, busy, monday.AddDate(0, 0, -7), 30*time.Minute)
	require.Len(t, slots, 5)

	byStart := make(map[time.Time]bool, len(slots))
	for _, s := range slots {
		byStart[s.Start] = s.Available
	}
	assert.True(t, byStart[at(9, 0)])
	// 09:30-10:30 and 10:30-11:30 clip the booking.
	assert.False(t, byStart[at(9, 30)])
	assert.False(t, byStart[at(10, 0)])
	assert.False(t, byStart[at(10, 30)])
	// Touching at 11:00 is not a conflict.
	assert.True(t, byStart[at(11, 0)])
}

func TestGenerateSlotsLastSlotFitsWindow(t *testing.T) {
	rule := ruleFor(t, time.Monday, "09:00", "17:00")
	slots := GenerateSlots(monday, rule, 60*time.Minute, nil, monday.AddDate(0, 0, -7), 60*time.Minute)

	require.NotEmpty(t, slots)
	last := slots[len(slots)-1]
	assert.Equal(t, at(16, 0), last.Start)
	assert.Equal(t, at(17, 0), last.End)
}

func TestGenerateSlotsTodayRoundsUpPastStarts(t *testing.T) {
	rule := ruleFor(t, time.Monday, "09:00", "12:00")
	now := at(9, 40)

	slots := GenerateSlots(monday, rule, 60*time.Minute, nil, now, 30*time.Minute)
	require.NotEmpty(t, slots)
	assert.Equal(t, at(10, 0), slots[0].Start, "first slot should start at the next boundary after now")
}

func TestGenerateSlotsTodayAlignedNowKept(t *testing.T) {
	rule := ruleFor(t, time.Monday, "09:00", "12:00")
	now := at(10, 0)

	slots := GenerateSlots(monday, rule, 60*time.Minute, nil, now, 30*time.Minute)
	require.NotEmpty(t, slots)
	assert.Equal(t, at(10, 0), slots[0].Start)
}

func TestGenerateSlotsPastDateEmpty(t *testing.T) {
	rule := ruleFor(t, time.Monday, "09:00", "12:00")
	now := monday.AddDate(0, 0, 3)

	slots := GenerateSlots(monday, rule, 60*time.Minute, nil, now, 30*time.Minute)
	assert.Empty(t, slots)
}

func TestGenerateSlotsServiceLongerThanWindow(t *testing.T) {
	rule := ruleFor(t, time.Monday, "09:00", "10:00")
	slots := GenerateSlots(monday, rule, 2*time.Hour, nil, monday.AddDate(0, 0, -7), 30*time.Minute)
	assert.Empty(t, slots)
}

func TestGenerateSlotsInvalidInputs(t *testing.T) {
	rule := ruleFor(t, time.Monday, "09:00", "12:00")
	assert.Nil(t, GenerateSlots(monday, rule, 0, nil, monday, 30*time.Minute))
	assert.Nil(t, GenerateSlots(monday, rule, time.Hour, nil, monday, 0))
}

func TestGenerateSlotsDeterministic(t *testing.T) {
	rule := ruleFor(t, time.Monday, "09:00", "12:00")
	busy := []interval.Interval{interval.New(at(10, 0), at(11, 0))}
	now := monday.AddDate(0, 0, -1)

	first := GenerateSlots(monday, rule, 60*time.Minute, busy, now, 30*time.Minute)
	second := GenerateSlots(monday, rule, 60*time.Minute, busy, now, 30*time.Minute)
	assert.Equal(t, first, second)
}
