package config_test

import (
	"testing"
	"time"

	"github.com/andviana23/trato-sub001/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "whsec_test")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.JobMaxAttempts != 3 {
		t.Fatalf("expected default of 3 attempts, got %d", cfg.JobMaxAttempts)
	}

	if cfg.JobRetryBase != 5*time.Second {
		t.Fatalf("expected 5s retry base, got %s", cfg.JobRetryBase)
	}

	if !cfg.DREIncomeTaxRate.IsZero() {
		t.Fatalf("expected zero default tax rate, got %s", cfg.DREIncomeTaxRate)
	}
}

func TestLoadRequiresWebhookSecret(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error when webhook secret is missing")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "whsec_test")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DEFAULT_UNIT_ID", "unit-42")
	t.Setenv("DRE_INCOME_TAX_RATE", "0.15")
	t.Setenv("WORKER_CONCURRENCY", "8")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.DefaultUnitID != "unit-42" {
		t.Fatalf("expected unit override, got %s", cfg.DefaultUnitID)
	}

	if cfg.DREIncomeTaxRate.String() != "0.15" {
		t.Fatalf("expected tax rate override, got %s", cfg.DREIncomeTaxRate)
	}

	if cfg.WorkerConcurrency != 8 {
		t.Fatalf("expected concurrency override, got %d", cfg.WorkerConcurrency)
	}

	if cfg.JWTSecret != "top-secret" || !cfg.AuthEnabled {
		t.Fatalf("expected auth settings to be set, got secret=%s enabled=%v", cfg.JWTSecret, cfg.AuthEnabled)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "whsec_test")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
