package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hazelbrook/bookline/internal/availability"
	"github.com/hazelbrook/bookline/internal/observability/metrics"
	"github.com/hazelbrook/bookline/pkg/logging"
)

// SlotService computes the candidate slot set for a provider and date.
type SlotService interface {
	SlotsForDay(ctx context.Context, providerID uuid.UUID, date time.Time, serviceDuration time.Duration, now time.Time) ([]availability.Slot, error)
}

// AvailabilityHandler serves slot queries.
type AvailabilityHandler struct {
	slots   SlotService
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
	now     func() time.Time
}

// NewAvailabilityHandler creates the availability handler.
func NewAvailabilityHandler(slots SlotService, m *metrics.BookingMetrics, logger *logging.Logger) *AvailabilityHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AvailabilityHandler{slots: slots, metrics: m, logger: logger, now: time.Now}
}

type slotsResponse struct {
	ProviderID string              `json:"provider_id"`
	Date       string              `json:"date"`
	Slots      []availability.Slot `json:"slots"`
}

// GetSlots handles GET /providers/{providerID}/availability?date=&duration_minutes=.
func (h *AvailabilityHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
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

	durationMinutes, err := strconv.Atoi(r.URL.Query().Get("duration_minutes"))
	if err != nil || durationMinutes <= 0 {
		writeError(w, http.StatusBadRequest, "duration_minutes must be a positive integer")
		return
	}

	slots, err := h.slots.SlotsForDay(r.Context(), providerID, date, time.Duration(durationMinutes)*time.Minute, h.now())
	if err != nil {
		h.logger.Error("availability query failed", "provider_id", providerID, "error", err)
		writeDomainError(w, err)
		return
	}
	h.metrics.ObserveSlotQuery()

	if slots == nil {
		slots = []availability.Slot{}
	}
	writeJSON(w, http.StatusOK, slotsResponse{
		ProviderID: providerID.String(),
		Date:       date.Format(time.DateOnly),
		Slots:      slots,
	})
}
