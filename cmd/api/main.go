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

	"github.com/hazelbrook/bookline/internal/api/router"
	"github.com/hazelbrook/bookline/internal/app/bootstrap"
	"github.com/hazelbrook/bookline/internal/availability"
	"github.com/hazelbrook/bookline/internal/booking"
	appconfig "github.com/hazelbrook/bookline/internal/config"
	"github.com/hazelbrook/bookline/internal/events"
	"github.com/hazelbrook/bookline/internal/http/handlers"
	"github.com/hazelbrook/bookline/internal/notify"
	"github.com/hazelbrook/bookline/internal/observability/metrics"
	"github.com/hazelbrook/bookline/internal/reminder"
	"github.com/hazelbrook/bookline/internal/schedule"
	"github.com/hazelbrook/bookline/pkg/logging"
)

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting bookline API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := bootstrap.BuildDBPool(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	emitter, err := bootstrap.BuildIntentEmitter(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build intent emitter", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	// Stores
	outboxStore := events.NewOutboxStore(pool)
	bookingStore := booking.NewStore(pool, outboxStore)
	ruleStore := schedule.NewStore(pool)
	ruleSource := schedule.NewCachedStore(ruleStore, redisClient, cfg.WorkingHoursCacheTTL, logger)
	sentStore := reminder.NewStore(pool)

	// Services
	availabilitySvc := availability.NewService(ruleSource, bookingStore, cfg.SlotGranularity, logger)
	bookingSvc := booking.NewService(bookingStore, availabilitySvc, logger)
	dispatcher := notify.NewDispatcher(emitter, logger)
	sweeper := reminder.NewSweeper(bookingStore, sentStore, dispatcher, cfg.ReminderLeadTime, cfg.ReminderTolerance, logger).
		WithItemDelay(cfg.SweepItemDelay)

	// The API process delivers queued lifecycle events; the sweeper binary
	// runs its own deliverer when deployed separately.
	deliverer := events.NewDeliverer(outboxStore, dispatcher, logger).
		WithInterval(cfg.OutboxPollInterval)
	go deliverer.Start(ctx)

	r := router.New(&router.Config{
		Logger:             logger,
		Availability:       handlers.NewAvailabilityHandler(availabilitySvc, bookingMetrics, logger),
		Bookings:           handlers.NewBookingHandler(bookingSvc, bookingMetrics, logger),
		Hours:              handlers.NewHoursHandler(ruleStore, ruleSource, logger),
		Sweep:              handlers.NewSweepHandler(sweeper, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
