package config

import (
	"os"
	"strconv"
	"time"
)

const (
	backendURLEnv            = "BACKEND_URL"
	backendTokenEnv          = "BACKEND_TOKEN"
	backendTimeoutSecondsEnv = "BACKEND_TIMEOUT_SECONDS"
	backendRatePerSecondEnv  = "BACKEND_RATE_PER_SECOND"

	defaultBackendTimeout       = 30 * time.Second
	defaultBackendRatePerSecond = 5
)

type BackendConfig struct {
	URL           string
	Token         string
	Timeout       time.Duration
	RatePerSecond int
}

func LoadBackendConfig() *BackendConfig {
	timeout := defaultBackendTimeout
	if v := os.Getenv(backendTimeoutSecondsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}

	rate := defaultBackendRatePerSecond
	if v := os.Getenv(backendRatePerSecondEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			rate = parsed
		}
	}

	return &BackendConfig{
		URL:           os.Getenv(backendURLEnv),
		Token:         os.Getenv(backendTokenEnv),
		Timeout:       timeout,
		RatePerSecond: rate,
	}
}
