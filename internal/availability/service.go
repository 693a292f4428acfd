package availability

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hazelbrook/bookline/internal/interval"
	"github.com/hazelbrook/bookline/internal/schedule"
	"github.com/hazelbrook/bookline/pkg/logging"
)

// ErrInvalidDuration is returned for non-positive service durations.
var ErrInvalidDuration = errors.New("availability: service duration must be positive")

// BusyLister returns the intervals already committed for a provider on a
// date, excluding cancelled and no-show bookings.
type BusyLister interface {
	ListBusyIntervals(ctx context.Context, providerID uuid.UUID, date time.Time) ([]interval.Interval, error)
}

// Service assembles the inputs for slot generation from the schedule and
// booking stores.
type Service struct {
	rules       schedule.RuleSource
	busy        BusyLister
	granularity time.Duration
	logger      *logging.Logger
}

// NewService creates an availability service.
func NewService(rules schedule.RuleSource, busy BusyLister, granularity time.Duration, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if granularity <= 0 {
		granularity = 30 * time.Minute
	}
	return &Service{rules: rules, busy: busy, granularity: granularity, logger: logger}
}

// Granularity exposes the configured slot cadence.
func (s *Service) Granularity() time.Duration {
	return s.granularity
}

// SlotsForDay returns the candidate slots for a provider on a date. An empty
// result means the provider is off that day, the date is in the past, or no
// slot of the requested duration fits.
func (s *Service) SlotsForDay(ctx context.Context, providerID uuid.UUID, date time.Time, serviceDuration time.Duration, now time.Time) ([]Slot, error) {
	if serviceDuration <= 0 {
		return nil, ErrInvalidDuration
	}

	rule, ok, err := s.rules.GetRule(ctx, providerID, date.Weekday())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	busy, err := s.busy.ListBusyIntervals(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	slots := GenerateSlots(date, rule, serviceDuration, busy, now, s.granularity)
	s.logger.Debug("availability computed",
		"provider_id", providerID,
		"date", date.Format(time.DateOnly),
		"slots", len(slots),
	)
	return slots, nil
}

// IsBookable reports whether the requested interval matches an available slot
// in the provider's current slot set. This is the UX-facing check run before
// booking creation; the store's overlap guard remains the final authority.
func (s *Service) IsBookable(ctx context.Context, providerID uuid.UUID, iv interval.Interval, now time.Time) (bool, error) {
	if err := iv.Validate(); err != nil {
		return false, err
	}
	slots, err := s.SlotsForDay(ctx, providerID, iv.Start, iv.Duration(), now)
	if err != nil {
		return false, err
	}
	for _, slot := range slots {
		if slot.Start.Equal(iv.Start) && slot.End.Equal(iv.End) {
			return slot.Available, nil
		}
	}
	return false, nil
}
