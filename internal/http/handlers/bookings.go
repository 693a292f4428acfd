package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hazelbrook/bookline/internal/booking"
	"github.com/hazelbrook/bookline/internal/identity"
	"github.com/hazelbrook/bookline/internal/interval"
	"github.com/hazelbrook/bookline/internal/observability/metrics"
	"github.com/hazelbrook/bookline/pkg/logging"
)

// BookingService drives booking creation and lifecycle transitions.
type BookingService interface {
	Request(ctx context.Context, in booking.RequestInput, now time.Time) (*booking.Booking, error)
	Transition(ctx context.Context, bookingID uuid.UUID, target booking.Status, actor booking.Actor, reason string, now time.Time) (*booking.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	ListActiveOn(ctx context.Context, providerID uuid.UUID, date time.Time) ([]booking.Booking, error)
}

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	bookings BookingService
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
	now      func() time.Time
}

// NewBookingHandler creates the booking handler.
func NewBookingHandler(bookings BookingService, m *metrics.BookingMetrics, logger *logging.Logger) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{bookings: bookings, metrics: m, logger: logger, now: time.Now}
}

type createBookingRequest struct {
	ProviderID string `json:"provider_id"`
	ServiceID  string `json:"service_id"`
	StartAt    string `json:"start_at"`
	EndAt      string `json:"end_at"`
	PriceCents int64  `json:"price_cents"`
	Notes      string `json:"notes"`
}

// Create handles POST /bookings. The customer is the acting identity.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "acting identity required")
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	providerID, err := uuid.Parse(req.ProviderID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid provider id")
		return
	}
	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service id")
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_at must be RFC 3339")
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_at must be RFC 3339")
		return
	}
	iv := interval.New(start, end)
	if err := iv.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "end_at must be after start_at")
		return
	}

	b, err := h.bookings.Request(r.Context(), booking.RequestInput{
		CustomerID: actor.ID,
		ProviderID: providerID,
		ServiceID:  serviceID,
		Interval:   iv,
		PriceCents: req.PriceCents,
		Notes:      req.Notes,
	}, h.now())
	if err != nil {
		h.metrics.ObserveCreated("error")
		writeDomainError(w, err)
		return
	}
	h.metrics.ObserveCreated("ok")

	writeJSON(w, http.StatusCreated, b)
}

// Get handles GET /bookings/{bookingID}.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	b, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type transitionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Transition handles POST /bookings/{bookingID}/status.
func (h *BookingHandler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "acting identity required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "bookingID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	target, err := booking.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown status")
		return
	}

	b, err := h.bookings.Transition(r.Context(), id, target, actor, req.Reason, h.now())
	if err != nil {
		h.metrics.ObserveTransition(string(target), "error")
		writeDomainError(w, err)
		return
	}
	h.metrics.ObserveTransition(string(target), "ok")

	writeJSON(w, http.StatusOK, b)
}

type bookingListResponse struct {
	ProviderID string            `json:"provider_id"`
	Date       string            `json:"date"`
	Bookings   []booking.Booking `json:"bookings"`
}

// ListForProvider handles GET /providers/{providerID}/bookings?date=.
func (h *BookingHandler) ListForProvider(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(chi.URLParam(r, "providerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid provider id")
		return
	}
	date, err := time.ParseInLocation(time.DateOnly, r.URL.Query().Get("date"), time.UTC)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	list, err := h.bookings.ListActiveOn(r.Context(), providerID, date)
	if err != nil {
		h.logger.Error("booking list failed", "provider_id", providerID, "error", err)
		writeDomainError(w, err)
		return
	}
	if list == nil {
		list = []booking.Booking{}
	}
	writeJSON(w, http.StatusOK, bookingListResponse{
		ProviderID: providerID.String(),
		Date:       date.Format(time.DateOnly),
		Bookings:   list,
	})
}
