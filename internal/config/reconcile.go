package config

import (
	"os"
	"strconv"
	"time"
)

const (
	reconcileMaxAttemptsEnv = "RECONCILE_MAX_ATTEMPTS"
	reconcileBaseDelayMsEnv = "RECONCILE_BASE_DELAY_MS"
	reconcileCronEnv        = "RECONCILE_CRON"

	defaultReconcileMaxAttempts = 3
	defaultReconcileBaseDelay   = 1 * time.Second
	defaultReconcileCron        = "@every 15m"
)

type ReconcileConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Cron        string
}

func LoadReconcileConfig() *ReconcileConfig {
	maxAttempts := defaultReconcileMaxAttempts
	if v := os.Getenv(reconcileMaxAttemptsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxAttempts = parsed
		}
	}

	baseDelay := defaultReconcileBaseDelay
	if v := os.Getenv(reconcileBaseDelayMsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			baseDelay = time.Duration(parsed) * time.Millisecond
		}
	}

	cronSpec := os.Getenv(reconcileCronEnv)
	if cronSpec == "" {
		cronSpec = defaultReconcileCron
	}

	return &ReconcileConfig{
		MaxAttempts: maxAttempts,
		BaseDelay:   baseDelay,
		Cron:        cronSpec,
	}
}
