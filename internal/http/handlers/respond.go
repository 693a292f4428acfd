// Package handlers implements the HTTP boundary over the booking core.
// Handlers parse and validate the wire shape, delegate to services, and map
// domain errors onto status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hazelbrook/bookline/internal/availability"
	"github.com/hazelbrook/bookline/internal/booking"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps core errors onto HTTP statuses. SlotUnavailable asks
// the caller to pick another slot; transition-rule violations indicate a
// mis-sequenced caller.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "slot unavailable, pick a different time")
	case errors.Is(err, booking.ErrIllegalTransition):
		writeError(w, http.StatusConflict, "status change not permitted from current state")
	case errors.Is(err, booking.ErrTooEarly):
		writeError(w, http.StatusConflict, "cannot mark no-show before the appointment ends")
	case errors.Is(err, booking.ErrMissingReason):
		writeError(w, http.StatusUnprocessableEntity, "a reason is required")
	case errors.Is(err, availability.ErrInvalidDuration):
		writeError(w, http.StatusBadRequest, "invalid service duration")
	case errors.Is(err, booking.ErrNotFound):
		writeError(w, http.StatusNotFound, "booking not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
