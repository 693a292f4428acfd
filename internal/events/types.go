// Package events defines versioned lifecycle events and the outbox through
// which they reach the notification dispatcher. One event is recorded per
// legal booking transition, in the same transaction as the booking write.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is a versioned lifecycle event payload.
type Event interface {
	EventType() string
}

const (
	TypeBookingCreated   = "booking.created.v1"
	TypeBookingConfirmed = "booking.confirmed.v1"
	TypeBookingCancelled = "booking.cancelled.v1"
	TypeBookingCompleted = "booking.completed.v1"
	TypeBookingNoShow    = "booking.no_show.v1"
	TypeBookingReminder  = "booking.reminder.v1"
)

type BookingCreatedV1 struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	ServiceID  uuid.UUID `json:"service_id"`
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	PriceCents int64     `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
}

func (BookingCreatedV1) EventType() string { return TypeBookingCreated }

type BookingConfirmedV1 struct {
	BookingID   uuid.UUID `json:"booking_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	ProviderID  uuid.UUID `json:"provider_id"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

func (BookingConfirmedV1) EventType() string { return TypeBookingConfirmed }

type BookingCancelledV1 struct {
	BookingID   uuid.UUID `json:"booking_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	ProviderID  uuid.UUID `json:"provider_id"`
	StartAt     time.Time `json:"start_at"`
	CancelledBy string    `json:"cancelled_by"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

func (BookingCancelledV1) EventType() string { return TypeBookingCancelled }

type BookingCompletedV1 struct {
	BookingID   uuid.UUID `json:"booking_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	ProviderID  uuid.UUID `json:"provider_id"`
	CompletedAt time.Time `json:"completed_at"`
}

func (BookingCompletedV1) EventType() string { return TypeBookingCompleted }

type BookingNoShowV1 struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	Reason     string    `json:"reason"`
	MarkedAt   time.Time `json:"marked_at"`
}

func (BookingNoShowV1) EventType() string { return TypeBookingNoShow }

type BookingReminderV1 struct {
	BookingID  uuid.UUID `json:"booking_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	SentAt     time.Time `json:"sent_at"`
}

func (BookingReminderV1) EventType() string { return TypeBookingReminder }
