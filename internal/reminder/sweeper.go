package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hazelbrook/bookline/internal/booking"
	"github.com/hazelbrook/bookline/internal/events"
	"github.com/hazelbrook/bookline/pkg/logging"
)

var reminderTracer = otel.Tracer("bookline.internal.reminder")

// BookingSource lists the confirmed bookings a sweep considers.
type BookingSource interface {
	ListConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]booking.Booking, error)
}

// SentStore is the durable reminder record.
type SentStore interface {
	AlreadySent(ctx context.Context, bookingID uuid.UUID, kind Kind) (bool, error)
	MarkSent(ctx context.Context, bookingID uuid.UUID, kind Kind) (bool, error)
}

// Dispatcher sends the reminder event through the notification façade.
type Dispatcher interface {
	DispatchEvent(ctx context.Context, evt events.Event) int
}

// Sweeper selects confirmed bookings starting near the configured lead time
// and emits one reminder per booking. Overlapping runs tolerate each other
// through the sent-record check; no lock is assumed.
type Sweeper struct {
	bookings  BookingSource
	sent      SentStore
	dispatch  Dispatcher
	lead      time.Duration
	tolerance time.Duration
	itemDelay time.Duration
	logger    *logging.Logger
}

// NewSweeper creates a reminder sweeper.
func NewSweeper(bookings BookingSource, sent SentStore, dispatch Dispatcher, lead, tolerance time.Duration, logger *logging.Logger) *Sweeper {
	if logger == nil {
		logger = logging.Default()
	}
	if tolerance <= 0 {
		tolerance = time.Hour
	}
	return &Sweeper{
		bookings:  bookings,
		sent:      sent,
		dispatch:  dispatch,
		lead:      lead,
		tolerance: tolerance,
		logger:    logger,
	}
}

// WithItemDelay inserts a pause between per-booking dispatches to respect
// downstream rate limits.
func (s *Sweeper) WithItemDelay(d time.Duration) *Sweeper {
	if d >= 0 {
		s.itemDelay = d
	}
	return s
}

// Run executes one sweep relative to now and returns the number of bookings
// for which a reminder was dispatched and recorded. One booking's failure is
// logged and skipped; it never aborts the rest of the run.
func (s *Sweeper) Run(ctx context.Context, now time.Time) (int, error) {
	ctx, span := reminderTracer.Start(ctx, "reminder.sweep")
	defer span.End()

	from := now.Add(s.lead - s.tolerance)
	to := now.Add(s.lead + s.tolerance)

	candidates, err := s.bookings.ListConfirmedStartingBetween(ctx, from, to)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("reminder: list candidates: %w", err)
	}
	span.SetAttributes(attribute.Int("bookline.sweep_candidates", len(candidates)))

	if len(candidates) == 0 {
		return 0, nil
	}
	s.logger.Info("reminder sweep: processing candidates", "count", len(candidates), "window_from", from, "window_to", to)

	processed := 0
	for i := range candidates {
		b := &candidates[i]
		sent, err := s.processOne(ctx, b, now)
		if err != nil {
			s.logger.Error("reminder sweep: booking skipped", "booking_id", b.ID, "error", err)
			continue
		}
		if sent {
			processed++
		}
		if s.itemDelay > 0 && i < len(candidates)-1 {
			select {
			case <-ctx.Done():
				return processed, ctx.Err()
			case <-time.After(s.itemDelay):
			}
		}
	}
	return processed, nil
}

// processOne dispatches before recording: a crash between the two leaves an
// unrecorded send, so delivery is at-least-once, never silently dropped.
func (s *Sweeper) processOne(ctx context.Context, b *booking.Booking, now time.Time) (bool, error) {
	already, err := s.sent.AlreadySent(ctx, b.ID, KindUpcoming)
	if err != nil {
		return false, err
	}
	if already {
		s.logger.Debug("reminder sweep: already recorded", "booking_id", b.ID)
		return false, nil
	}

	s.dispatch.DispatchEvent(ctx, events.BookingReminderV1{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		ProviderID: b.ProviderID,
		StartAt:    b.Interval.Start,
		EndAt:      b.Interval.End,
		SentAt:     now.UTC(),
	})

	recorded, err := s.sent.MarkSent(ctx, b.ID, KindUpcoming)
	if err != nil {
		return false, err
	}
	if !recorded {
		// A concurrent run recorded first; its dispatch also went out.
		s.logger.Warn("reminder sweep: concurrent run recorded first", "booking_id", b.ID)
	}

	s.logger.Info("reminder sweep: reminder sent", "booking_id", b.ID, "start_at", b.Interval.Start)
	return true, nil
}
