// Package schedule manages recurring provider working hours. Rules are
// written by provider-facing configuration and read-only to the booking core.
package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MinuteOfDay is a clock time expressed as minutes since midnight.
type MinuteOfDay int

// ParseMinuteOfDay parses a 24-hour "HH:MM" string.
func ParseMinuteOfDay(s string) (MinuteOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("schedule: parse %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("schedule: %q is not a valid clock time", s)
	}
	return MinuteOfDay(h*60 + m), nil
}

// String formats the time as 24-hour "HH:MM".
func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// At anchors the clock time onto the given date, preserving its location.
func (m MinuteOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(m)/60, int(m)%60, 0, 0, date.Location())
}

// Rule is a provider's recurring working-hours window for one weekday.
type Rule struct {
	ProviderID uuid.UUID    `json:"provider_id"`
	Weekday    time.Weekday `json:"weekday"`
	Open       MinuteOfDay  `json:"open"`
	Close      MinuteOfDay  `json:"close"`
}

// Validate enforces the open-before-close invariant.
func (r Rule) Validate() error {
	if r.ProviderID == uuid.Nil {
		return fmt.Errorf("schedule: provider id required")
	}
	if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
		return fmt.Errorf("schedule: invalid weekday %d", r.Weekday)
	}
	if r.Open >= r.Close {
		return fmt.Errorf("schedule: open %s must be before close %s", r.Open, r.Close)
	}
	return nil
}
