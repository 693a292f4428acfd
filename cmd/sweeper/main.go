package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hazelbrook/bookline/internal/app/bootstrap"
	"github.com/hazelbrook/bookline/internal/booking"
	appconfig "github.com/hazelbrook/bookline/internal/config"
	"github.com/hazelbrook/bookline/internal/events"
	"github.com/hazelbrook/bookline/internal/notify"
	"github.com/hazelbrook/bookline/internal/observability/metrics"
	"github.com/hazelbrook/bookline/internal/reminder"
	"github.com/hazelbrook/bookline/pkg/logging"
)

// The sweeper runs the reminder sweep on an interval and drains the event
// outbox. It is safe to run alongside the API server; reminder records and
// delivery stamps keep the two from double-sending.
func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting bookline sweeper",
		"env", cfg.Env,
		"sweep_interval", cfg.SweepInterval,
		"reminder_lead_time", cfg.ReminderLeadTime,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := bootstrap.BuildDBPool(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	emitter, err := bootstrap.BuildIntentEmitter(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build intent emitter", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	sweepMetrics := metrics.NewSweepMetrics(registry)

	outboxStore := events.NewOutboxStore(pool)
	bookingStore := booking.NewStore(pool, outboxStore)
	sentStore := reminder.NewStore(pool)
	dispatcher := notify.NewDispatcher(emitter, logger)
	sweeper := reminder.NewSweeper(bookingStore, sentStore, dispatcher, cfg.ReminderLeadTime, cfg.ReminderTolerance, logger).
		WithItemDelay(cfg.SweepItemDelay)

	deliverer := events.NewDeliverer(outboxStore, dispatcher, logger).
		WithInterval(cfg.OutboxPollInterval)
	go deliverer.Start(ctx)

	metricsSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()

		runSweep(ctx, sweeper, sweepMetrics, logger)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runSweep(ctx, sweeper, sweepMetrics, logger)
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down sweeper...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = metricsSrv.Shutdown(shutdownCtx)

	logger.Info("sweeper stopped")
}

func runSweep(ctx context.Context, sweeper *reminder.Sweeper, m *metrics.SweepMetrics, logger *logging.Logger) {
	start := time.Now()
	sent, err := sweeper.Run(ctx, start)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		m.ObserveRun("error", sent, elapsed)
		logger.Error("reminder sweep failed", "error", err, "reminders_sent", sent)
		return
	}
	m.ObserveRun("ok", sent, elapsed)
	if sent > 0 {
		logger.Info("reminder sweep complete", "reminders_sent", sent, "duration_seconds", elapsed)
	}
}
