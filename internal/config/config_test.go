package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SlotGranularity != 30*time.Minute {
		t.Errorf("SlotGranularity = %v, want 30m", cfg.SlotGranularity)
	}
	if cfg.ReminderLeadTime != 24*time.Hour {
		t.Errorf("ReminderLeadTime = %v, want 24h", cfg.ReminderLeadTime)
	}
	if cfg.ReminderTolerance != time.Hour {
		t.Errorf("ReminderTolerance = %v, want 1h", cfg.ReminderTolerance)
	}
	if cfg.SweepInterval != 15*time.Minute {
		t.Errorf("SweepInterval = %v, want 15m", cfg.SweepInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SLOT_GRANULARITY_MINUTES", "15")
	t.Setenv("REMINDER_LEAD_TIME", "48h")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("RATE_LIMIT_PER_SECOND", "5.5")

	cfg := Load()

	if cfg.SlotGranularity != 15*time.Minute {
		t.Errorf("SlotGranularity = %v, want 15m", cfg.SlotGranularity)
	}
	if cfg.ReminderLeadTime != 48*time.Hour {
		t.Errorf("ReminderLeadTime = %v, want 48h", cfg.ReminderLeadTime)
	}
	if !cfg.RedisTLS {
		t.Error("RedisTLS = false, want true")
	}
	if cfg.RateLimitPerSecond != 5.5 {
		t.Errorf("RateLimitPerSecond = %v, want 5.5", cfg.RateLimitPerSecond)
	}
}

func TestLoadMalformedFallsBack(t *testing.T) {
	t.Setenv("SLOT_GRANULARITY_MINUTES", "soon")
	t.Setenv("SWEEP_INTERVAL", "whenever")

	cfg := Load()

	if cfg.SlotGranularity != 30*time.Minute {
		t.Errorf("SlotGranularity = %v, want default 30m", cfg.SlotGranularity)
	}
	if cfg.SweepInterval != 15*time.Minute {
		t.Errorf("SweepInterval = %v, want default 15m", cfg.SweepInterval)
	}
}
