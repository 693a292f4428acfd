package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hazelbrook/bookline/internal/schedule"
	"github.com/hazelbrook/bookline/pkg/logging"
)

// HoursStore persists working-hours rules.
type HoursStore interface {
	GetRule(ctx context.Context, providerID uuid.UUID, weekday time.Weekday) (schedule.Rule, bool, error)
	ListRules(ctx context.Context, providerID uuid.UUID) ([]schedule.Rule, error)
	UpsertRule(ctx context.Context, r schedule.Rule) error
	DeleteRule(ctx context.Context, providerID uuid.UUID, weekday time.Weekday) error
}

// CacheInvalidator drops cached rule entries after a write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, providerID uuid.UUID, weekday time.Weekday)
}

// HoursHandler manages provider working-hours configuration.
type HoursHandler struct {
	store  HoursStore
	cache  CacheInvalidator
	logger *logging.Logger
}

// NewHoursHandler creates the working-hours handler. cache may be nil when
// rule caching is disabled.
func NewHoursHandler(store HoursStore, cache CacheInvalidator, logger *logging.Logger) *HoursHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &HoursHandler{store: store, cache: cache, logger: logger}
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func parseWeekday(s string) (time.Weekday, bool) {
	d, ok := weekdayNames[strings.ToLower(s)]
	return d, ok
}

type hoursRule struct {
	Weekday string `json:"weekday"`
	Open    string `json:"open"`
	Close   string `json:"close"`
}

func toHoursRule(r schedule.Rule) hoursRule {
	return hoursRule{
		Weekday: strings.ToLower(r.Weekday.String()),
		Open:    r.Open.String(),
		Close:   r.Close.String(),
	}
}

type hoursListResponse struct {
	ProviderID string       `json:"provider_id"`
	Rules      []hoursRule  `json:"rules"`
}

// List handles GET /providers/{providerID}/hours.
func (h *HoursHandler) List(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(chi.URLParam(r, "providerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid provider id")
		return
	}

	rules, err := h.store.ListRules(r.Context(), providerID)
	if err != nil {
		h.logger.Error("hours list failed", "provider_id", providerID, "error", err)
		writeDomainError(w, err)
		return
	}

	out := make([]hoursRule, 0, len(rules))
	for _, rule := range rules {
		out = append(out, toHoursRule(rule))
	}
	writeJSON(w, http.StatusOK, hoursListResponse{ProviderID: providerID.String(), Rules: out})
}

type upsertHoursRequest struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Upsert handles PUT /providers/{providerID}/hours/{weekday}.
func (h *HoursHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(chi.URLParam(r, "providerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid provider id")
		return
	}
	weekday, ok := parseWeekday(chi.URLParam(r, "weekday"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown weekday")
		return
	}

	var req upsertHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	open, err := schedule.ParseMinuteOfDay(req.Open)
	if err != nil {
		writeError(w, http.StatusBadRequest, "open must be HH:MM")
		return
	}
	closeAt, err := schedule.ParseMinuteOfDay(req.Close)
	if err != nil {
		writeError(w, http.StatusBadRequest, "close must be HH:MM")
		return
	}

	rule := schedule.Rule{ProviderID: providerID, Weekday: weekday, Open: open, Close: closeAt}
	if err := rule.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := h.store.UpsertRule(r.Context(), rule); err != nil {
		h.logger.Error("hours upsert failed", "provider_id", providerID, "weekday", weekday, "error", err)
		writeDomainError(w, err)
		return
	}
	if h.cache != nil {
		h.cache.Invalidate(r.Context(), providerID, weekday)
	}

	writeJSON(w, http.StatusOK, toHoursRule(rule))
}

// Delete handles DELETE /providers/{providerID}/hours/{weekday}. A missing
// rule deletes cleanly; the day is simply closed either way.
func (h *HoursHandler) Delete(w http.ResponseWriter, r *http.Request) {
	providerID, err := uuid.Parse(chi.URLParam(r, "providerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid provider id")
		return
	}
	weekday, ok := parseWeekday(chi.URLParam(r, "weekday"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown weekday")
		return
	}

	if err := h.store.DeleteRule(r.Context(), providerID, weekday); err != nil {
		h.logger.Error("hours delete failed", "provider_id", providerID, "weekday", weekday, "error", err)
		writeDomainError(w, err)
		return
	}
	if h.cache != nil {
		h.cache.Invalidate(r.Context(), providerID, weekday)
	}

	w.WriteHeader(http.StatusNoContent)
}
