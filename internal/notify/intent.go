// Package notify translates lifecycle events into notification intents
// addressed to the right party. Delivery itself belongs to an external
// mechanism behind the Emitter interface; the core only constructs and emits
// intents.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hazelbrook/bookline/pkg/logging"
)

// Kind classifies an intent for the downstream delivery channel.
type Kind string

const (
	KindBookingRequested Kind = "booking_requested"
	KindBookingConfirmed Kind = "booking_confirmed"
	KindBookingCancelled Kind = "booking_cancelled"
	KindBookingCompleted Kind = "booking_completed"
	KindBookingNoShow    Kind = "booking_no_show"
	KindBookingReminder  Kind = "booking_reminder"
)

// Intent is an ephemeral value describing one notification to one recipient.
// The core never persists it.
type Intent struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	LinkRef     string    `json:"link_ref"`
}

// Emitter hands an intent to the delivery mechanism.
type Emitter interface {
	Emit(ctx context.Context, intent Intent) error
}

// LogEmitter records intents in the log instead of delivering them; the
// development and test fallback when no queue is configured.
type LogEmitter struct {
	logger *logging.Logger
}

// NewLogEmitter creates a log-only emitter.
func NewLogEmitter(logger *logging.Logger) *LogEmitter {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogEmitter{logger: logger}
}

// Emit logs the intent.
func (e *LogEmitter) Emit(ctx context.Context, intent Intent) error {
	data, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("notify: marshal intent: %w", err)
	}
	e.logger.Info("intent emitted", "kind", intent.Kind, "recipient_id", intent.RecipientID, "intent", string(data))
	return nil
}

var _ Emitter = (*LogEmitter)(nil)
