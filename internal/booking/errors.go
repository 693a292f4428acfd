package booking

import "errors"

var (
	// ErrSlotUnavailable means the requested interval conflicts with an
	// existing booking or falls outside the provider's working hours.
	ErrSlotUnavailable = errors.New("booking: slot unavailable")

	// ErrIllegalTransition means the target status is not reachable from the
	// booking's current status.
	ErrIllegalTransition = errors.New("booking: illegal status transition")

	// ErrMissingReason means a cancellation or no-show was requested without
	// a reason.
	ErrMissingReason = errors.New("booking: cancellation reason required")

	// ErrTooEarly means a no-show was requested before the appointment ended.
	ErrTooEarly = errors.New("booking: cannot mark no-show before the appointment ends")

	// ErrNotFound means no booking exists for the given id.
	ErrNotFound = errors.New("booking: not found")
)
