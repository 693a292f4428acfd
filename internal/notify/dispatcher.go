package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hazelbrook/bookline/internal/events"
	"github.com/hazelbrook/bookline/pkg/logging"
)

// Dispatcher maps lifecycle events to notification intents and emits them.
// The mapping is deterministic for a given event; deduplication is the
// producer's concern (one event per transition, reminder records for sweeps).
type Dispatcher struct {
	emitter Emitter
	logger  *logging.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(emitter Emitter, logger *logging.Logger) *Dispatcher {
	if emitter == nil {
		panic("notify: emitter required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{emitter: emitter, logger: logger}
}

// Handle decodes an outbox entry and dispatches it. Unknown event types are
// logged and acknowledged so they do not wedge the outbox.
func (d *Dispatcher) Handle(ctx context.Context, entry events.OutboxEntry) error {
	evt, err := decodeEvent(entry.Type, entry.Payload)
	if err != nil {
		d.logger.Error("dispatch: undecodable event", "event_id", entry.ID, "type", entry.Type, "error", err)
		return nil
	}
	d.DispatchEvent(ctx, evt)
	return nil
}

// DispatchEvent emits every intent the event maps to, returning how many were
// emitted. A failed intent is logged and skipped; it never aborts the others
// and never propagates to the caller, so a delivery problem cannot roll back
// the state change that produced the event.
func (d *Dispatcher) DispatchEvent(ctx context.Context, evt events.Event) int {
	emitted := 0
	for _, intent := range IntentsFor(evt) {
		if intent.RecipientID == uuid.Nil {
			d.logger.Warn("dispatch: intent skipped, missing recipient", "kind", intent.Kind, "event_type", evt.EventType())
			continue
		}
		if err := d.emitter.Emit(ctx, intent); err != nil {
			d.logger.Error("dispatch: intent emit failed", "kind", intent.Kind, "recipient_id", intent.RecipientID, "error", err)
			continue
		}
		emitted++
	}
	return emitted
}

// IntentsFor is the pure event-to-intents mapping.
//
// Created notifies the provider, confirmation/completion/no-show/reminder
// notify the customer, and cancellation notifies the party other than whoever
// cancelled (both when the system cancelled).
func IntentsFor(evt events.Event) []Intent {
	switch e := evt.(type) {
	case events.BookingCreatedV1:
		return []Intent{{
			RecipientID: e.ProviderID,
			Kind:        KindBookingRequested,
			Title:       "New booking request",
			Message:     fmt.Sprintf("A customer requested %s.", formatWindow(e.StartAt, e.EndAt)),
			LinkRef:     bookingLink(e.BookingID),
		}}
	case events.BookingConfirmedV1:
		return []Intent{{
			RecipientID: e.CustomerID,
			Kind:        KindBookingConfirmed,
			Title:       "Booking confirmed",
			Message:     fmt.Sprintf("Your appointment %s is confirmed.", formatWindow(e.StartAt, e.EndAt)),
			LinkRef:     bookingLink(e.BookingID),
		}}
	case events.BookingCancelledV1:
		return cancellationIntents(e)
	case events.BookingCompletedV1:
		return []Intent{{
			RecipientID: e.CustomerID,
			Kind:        KindBookingCompleted,
			Title:       "Appointment completed",
			Message:     "Thanks for your visit.",
			LinkRef:     bookingLink(e.BookingID),
		}}
	case events.BookingNoShowV1:
		return []Intent{{
			RecipientID: e.CustomerID,
			Kind:        KindBookingNoShow,
			Title:       "Missed appointment",
			Message:     "You were marked as a no-show for your appointment.",
			LinkRef:     bookingLink(e.BookingID),
		}}
	case events.BookingReminderV1:
		return []Intent{{
			RecipientID: e.CustomerID,
			Kind:        KindBookingReminder,
			Title:       "Upcoming appointment",
			Message:     fmt.Sprintf("Reminder: your appointment is %s.", formatWindow(e.StartAt, e.EndAt)),
			LinkRef:     bookingLink(e.BookingID),
		}}
	}
	return nil
}

func cancellationIntents(e events.BookingCancelledV1) []Intent {
	toCustomer := Intent{
		RecipientID: e.CustomerID,
		Kind:        KindBookingCancelled,
		Title:       "Booking cancelled",
		Message:     fmt.Sprintf("Your appointment on %s was cancelled: %s", e.StartAt.Format("Jan 2 15:04"), e.Reason),
		LinkRef:     bookingLink(e.BookingID),
	}
	toProvider := Intent{
		RecipientID: e.ProviderID,
		Kind:        KindBookingCancelled,
		Title:       "Booking cancelled",
		Message:     fmt.Sprintf("The appointment on %s was cancelled: %s", e.StartAt.Format("Jan 2 15:04"), e.Reason),
		LinkRef:     bookingLink(e.BookingID),
	}
	switch e.CancelledBy {
	case "customer":
		return []Intent{toProvider}
	case "provider":
		return []Intent{toCustomer}
	default:
		// System-initiated: both parties hear about it.
		return []Intent{toCustomer, toProvider}
	}
}

func decodeEvent(eventType string, payload json.RawMessage) (events.Event, error) {
	switch eventType {
	case events.TypeBookingCreated:
		var e events.BookingCreatedV1
		err := json.Unmarshal(payload, &e)
		return e, err
	case events.TypeBookingConfirmed:
		var e events.BookingConfirmedV1
		err := json.Unmarshal(payload, &e)
		return e, err
	case events.TypeBookingCancelled:
		var e events.BookingCancelledV1
		err := json.Unmarshal(payload, &e)
		return e, err
	case events.TypeBookingCompleted:
		var e events.BookingCompletedV1
		err := json.Unmarshal(payload, &e)
		return e, err
	case events.TypeBookingNoShow:
		var e events.BookingNoShowV1
		err := json.Unmarshal(payload, &e)
		return e, err
	case events.TypeBookingReminder:
		var e events.BookingReminderV1
		err := json.Unmarshal(payload, &e)
		return e, err
	}
	return nil, fmt.Errorf("notify: unknown event type %q", eventType)
}

func formatWindow(start, end time.Time) string {
	return fmt.Sprintf("%s to %s", start.Format("Mon Jan 2 15:04"), end.Format("15:04"))
}

func bookingLink(id uuid.UUID) string {
	return "/bookings/" + id.String()
}
