package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hazelbrook/bookline/internal/events"
	"github.com/hazelbrook/bookline/internal/interval"
	"github.com/hazelbrook/bookline/pkg/logging"
)

var bookingTracer = otel.Tracer("bookline.internal.booking")

// BookingStore is the persistence surface the service drives.
type BookingStore interface {
	Create(ctx context.Context, b *Booking, evt events.Event) error
	Get(ctx context.Context, id uuid.UUID) (*Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, reason string, now time.Time, evt events.Event) (*Booking, error)
	ListActiveOn(ctx context.Context, providerID uuid.UUID, date time.Time) ([]Booking, error)
}

// AvailabilityChecker validates a requested interval against the provider's
// current slot set.
type AvailabilityChecker interface {
	IsBookable(ctx context.Context, providerID uuid.UUID, iv interval.Interval, now time.Time) (bool, error)
}

// Service creates bookings and drives their lifecycle transitions.
type Service struct {
	store        BookingStore
	availability AvailabilityChecker
	logger       *logging.Logger
}

// NewService constructs a booking service.
func NewService(store BookingStore, availability AvailabilityChecker, logger *logging.Logger) *Service {
	if store == nil {
		panic("booking: store required")
	}
	if availability == nil {
		panic("booking: availability checker required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, availability: availability, logger: logger}
}

// RequestInput carries a booking request from the boundary.
type RequestInput struct {
	CustomerID uuid.UUID
	ProviderID uuid.UUID
	ServiceID  uuid.UUID
	Interval   interval.Interval
	PriceCents int64
	Notes      string
}

// Request validates the requested slot against current availability and
// creates the booking in PENDING. A created event is queued with the insert.
func (s *Service) Request(ctx context.Context, in RequestInput, now time.Time) (*Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.request")
	defer span.End()
	span.SetAttributes(
		attribute.String("bookline.provider_id", in.ProviderID.String()),
		attribute.String("bookline.customer_id", in.CustomerID.String()),
	)

	if err := in.Interval.Validate(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	bookable, err := s.availability.IsBookable(ctx, in.ProviderID, in.Interval, now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !bookable {
		return nil, ErrSlotUnavailable
	}

	b := &Booking{
		ID:         uuid.New(),
		CustomerID: in.CustomerID,
		ProviderID: in.ProviderID,
		ServiceID:  in.ServiceID,
		Interval:   in.Interval,
		Status:     StatusPending,
		PriceCents: in.PriceCents,
		Notes:      in.Notes,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}

	evt := events.BookingCreatedV1{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		ProviderID: b.ProviderID,
		ServiceID:  b.ServiceID,
		StartAt:    b.Interval.Start,
		EndAt:      b.Interval.End,
		PriceCents: b.PriceCents,
		CreatedAt:  b.CreatedAt,
	}

	if err := s.store.Create(ctx, b, evt); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("booking requested",
		"booking_id", b.ID,
		"provider_id", b.ProviderID,
		"customer_id", b.CustomerID,
		"start_at", b.Interval.Start,
	)
	return b, nil
}

// Transition moves a booking to the target status, enforcing the transition
// table, the reason requirement for cancellations and no-shows, and the
// no-show timing rule. Each successful transition queues exactly one
// lifecycle event.
func (s *Service) Transition(ctx context.Context, bookingID uuid.UUID, target Status, actor Actor, reason string, now time.Time) (*Booking, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.transition")
	defer span.End()
	span.SetAttributes(
		attribute.String("bookline.booking_id", bookingID.String()),
		attribute.String("bookline.target_status", string(target)),
		attribute.String("bookline.actor_role", string(actor.Role)),
	)

	b, err := s.store.Get(ctx, bookingID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// Re-requesting an already-applied terminal status is a no-op; any other
	// attempt to leave a terminal state fails below.
	if b.Status == target && (target == StatusCancelled || target == StatusCompleted) {
		return b, nil
	}

	if !b.Status.CanTransitionTo(target) {
		return nil, ErrIllegalTransition
	}

	reason = strings.TrimSpace(reason)
	if target.RequiresReason() && reason == "" {
		return nil, ErrMissingReason
	}
	if target == StatusNoShow && now.Before(b.Interval.End) {
		return nil, ErrTooEarly
	}
	if !target.RequiresReason() {
		reason = ""
	}

	evt := lifecycleEvent(b, target, actor, reason, now)

	updated, err := s.store.UpdateStatus(ctx, b.ID, b.Status, target, reason, now.UTC(), evt)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.Info("booking transitioned",
		"booking_id", updated.ID,
		"from", b.Status,
		"to", updated.Status,
		"actor_role", actor.Role,
	)
	return updated, nil
}

// Get returns a booking by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.store.Get(ctx, id)
}

// ListActiveOn returns the provider's non-cancelled bookings for a calendar
// day.
func (s *Service) ListActiveOn(ctx context.Context, providerID uuid.UUID, date time.Time) ([]Booking, error) {
	return s.store.ListActiveOn(ctx, providerID, date)
}

func lifecycleEvent(b *Booking, target Status, actor Actor, reason string, now time.Time) events.Event {
	switch target {
	case StatusConfirmed:
		return events.BookingConfirmedV1{
			BookingID:   b.ID,
			CustomerID:  b.CustomerID,
			ProviderID:  b.ProviderID,
			StartAt:     b.Interval.Start,
			EndAt:       b.Interval.End,
			ConfirmedAt: now.UTC(),
		}
	case StatusCancelled:
		return events.BookingCancelledV1{
			BookingID:   b.ID,
			CustomerID:  b.CustomerID,
			ProviderID:  b.ProviderID,
			StartAt:     b.Interval.Start,
			CancelledBy: string(actor.Role),
			Reason:      reason,
			CancelledAt: now.UTC(),
		}
	case StatusCompleted:
		return events.BookingCompletedV1{
			BookingID:   b.ID,
			CustomerID:  b.CustomerID,
			ProviderID:  b.ProviderID,
			CompletedAt: now.UTC(),
		}
	case StatusNoShow:
		return events.BookingNoShowV1{
			BookingID:  b.ID,
			CustomerID: b.CustomerID,
			ProviderID: b.ProviderID,
			Reason:     reason,
			MarkedAt:   now.UTC(),
		}
	}
	return nil
}
