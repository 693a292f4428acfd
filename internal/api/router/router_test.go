package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazelbrook/bookline/internal/availability"
	"github.com/hazelbrook/bookline/internal/http/handlers"
)

type emptySlots struct{}

func (emptySlots) SlotsForDay(context.Context, uuid.UUID, time.Time, time.Duration, time.Time) ([]availability.Slot, error) {
	return nil, nil
}

func TestHealthz(t *testing.T) {
	r := New(&Config{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestUnconfiguredRoutesAre404(t *testing.T) {
	r := New(&Config{})

	req := httptest.NewRequest(http.MethodPost, "/internal/reminders/sweep", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAvailabilityRouteWired(t *testing.T) {
	r := New(&Config{
		Availability: handlers.NewAvailabilityHandler(emptySlots{}, nil, nil),
	})

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/providers/"+uuid.NewString()+"/availability?date=2026-03-02&duration_minutes=60", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookingMutationsRequireActorHeaders(t *testing.T) {
	r := New(&Config{
		Bookings: handlers.NewBookingHandler(nil, nil, nil),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing actor headers should be rejected before the handler")
}
