package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "TIMEZONE", "NOTIFIER", "ACK_OUTBOX", "REDIS_DB",
		"RECONCILE_MAX_ATTEMPTS", "RECONCILE_BASE_DELAY_MS", "UPCOMING_THRESHOLD_DAYS",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("BACKEND_URL", "http://localhost:5000/api")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port: got %q, want %q", cfg.Port, "8080")
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel: got %v, want %v", cfg.LogLevel, slog.LevelInfo)
	}
	if cfg.Reconcile.MaxAttempts != 3 {
		t.Errorf("MaxAttempts: got %d, want 3", cfg.Reconcile.MaxAttempts)
	}
	if cfg.Reconcile.BaseDelay != time.Second {
		t.Errorf("BaseDelay: got %v, want 1s", cfg.Reconcile.BaseDelay)
	}
	if cfg.Window.UpcomingThresholdDays != 3 {
		t.Errorf("UpcomingThresholdDays: got %d, want 3", cfg.Window.UpcomingThresholdDays)
	}
	if cfg.Notifier.Kind != NotifierLocal {
		t.Errorf("Notifier.Kind: got %q, want %q", cfg.Notifier.Kind, NotifierLocal)
	}
	if cfg.Redis.Outbox != OutboxMemory {
		t.Errorf("Redis.Outbox: got %q, want %q", cfg.Redis.Outbox, OutboxMemory)
	}
	if err := ValidateForRun(cfg); err != nil {
		t.Errorf("ValidateForRun: unexpected error: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:5000/api")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECONCILE_MAX_ATTEMPTS", "5")
	t.Setenv("RECONCILE_BASE_DELAY_MS", "250")
	t.Setenv("RECONCILE_CRON", "@every 1m")
	t.Setenv("NOTIFIER", "taskqueue")
	t.Setenv("ACK_OUTBOX", "redis")
	t.Setenv("TIMEZONE", "Asia/Manila")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel: got %v, want debug", cfg.LogLevel)
	}
	if cfg.Reconcile.MaxAttempts != 5 {
		t.Errorf("MaxAttempts: got %d, want 5", cfg.Reconcile.MaxAttempts)
	}
	if cfg.Reconcile.BaseDelay != 250*time.Millisecond {
		t.Errorf("BaseDelay: got %v, want 250ms", cfg.Reconcile.BaseDelay)
	}
	if cfg.Reconcile.Cron != "@every 1m" {
		t.Errorf("Cron: got %q", cfg.Reconcile.Cron)
	}
	if cfg.Notifier.Kind != NotifierTaskQueue {
		t.Errorf("Notifier.Kind: got %q", cfg.Notifier.Kind)
	}
	if cfg.Redis.Outbox != OutboxRedis {
		t.Errorf("Redis.Outbox: got %q", cfg.Redis.Outbox)
	}
	if cfg.Location.String() != "Asia/Manila" {
		t.Errorf("Location: got %q", cfg.Location.String())
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "invalid redis db",
			env:     map[string]string{"REDIS_DB": "zero"},
			wantErr: ErrInvalidRedisDB,
		},
		{
			name:    "invalid timezone",
			env:     map[string]string{"TIMEZONE": "Mars/Olympus"},
			wantErr: ErrInvalidTimezone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateForRunRequiresBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ValidateForRun(cfg); !errors.Is(err, ErrBackendURLMissing) {
		t.Errorf("got %v, want %v", err, ErrBackendURLMissing)
	}
}
