package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/hazelbrook/bookline/pkg/logging"
)

// SweepRunner executes one reminder sweep pass.
type SweepRunner interface {
	Run(ctx context.Context, now time.Time) (int, error)
}

// SweepHandler exposes a manual trigger for the reminder sweep, used by
// operators and scheduled invokers. The sweep itself is idempotent, so
// overlapping triggers are safe.
type SweepHandler struct {
	sweeper SweepRunner
	logger  *logging.Logger
	now     func() time.Time
}

// NewSweepHandler creates the sweep trigger handler.
func NewSweepHandler(sweeper SweepRunner, logger *logging.Logger) *SweepHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SweepHandler{sweeper: sweeper, logger: logger, now: time.Now}
}

type sweepResponse struct {
	RemindersSent int `json:"reminders_sent"`
}

// Trigger handles POST /internal/reminders/sweep.
func (h *SweepHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	sent, err := h.sweeper.Run(r.Context(), h.now())
	if err != nil {
		h.logger.Error("manual reminder sweep failed", "error", err)
		writeError(w, http.StatusInternalServerError, "sweep failed")
		return
	}
	writeJSON(w, http.StatusOK, sweepResponse{RemindersSent: sent})
}
