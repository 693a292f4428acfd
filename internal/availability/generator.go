// Package availability computes the candidate slot set a provider can be
// booked into on a given date. The computation is pure: the evaluation
// instant is passed in, never read from the system clock.
package availability

import (
	"time"

	"github.com/hazelbrook/bookline/internal/interval"
	"github.com/hazelbrook/bookline/internal/schedule"
)

// Slot is a candidate bookable interval derived at query time, never
// persisted.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// GenerateSlots produces the ordered candidate slots for one date.
//
// Slots start at the rule's opening time and step forward by granularity, not
// by service duration, so starts are offered at a stable cadence. When date is
// today relative to now, the window start is rounded up to the next
// granularity boundary at or after now. A slot is unavailable when it overlaps
// any busy interval; touching intervals do not conflict.
func GenerateSlots(date time.Time, rule schedule.Rule, serviceDuration time.Duration, busy []interval.Interval, now time.Time, granularity time.Duration) []Slot {
	if serviceDuration <= 0 || granularity <= 0 {
		return nil
	}

	windowStart := rule.Open.At(date)
	windowEnd := rule.Close.At(date)

	if sameDay(date, now) && now.After(windowStart) {
		windowStart = roundUpTo(now, granularity)
	}
	if !windowStart.Before(windowEnd) {
		return nil
	}
	// A fully past date yields nothing: the last candidate end would already
	// be behind now.
	if windowEnd.Before(now) {
		return nil
	}

	var slots []Slot
	for start := windowStart; ; start = start.Add(granularity) {
		end := start.Add(serviceDuration)
		if end.After(windowEnd) {
			break
		}
		candidate := interval.New(start, end)
		available := true
		for _, b := range busy {
			if candidate.Overlaps(b) {
				available = false
				break
			}
		}
		slots = append(slots, Slot{Start: start, End: end, Available: available})
	}
	return slots
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// roundUpTo rounds t up to the next multiple of step within its day,
// returning t unchanged when already aligned.
func roundUpTo(t time.Time, step time.Duration) time.Time {
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := t.Sub(dayStart)
	rounded := (offset + step - 1) / step * step
	return dayStart.Add(rounded)
}
