package config

import (
	"errors"
	"fmt"
	"net/url"
)

func ValidateForRun(cfg *Config) error {
	var errs []error

	if cfg.Backend == nil || cfg.Backend.URL == "" {
		errs = append(errs, ErrBackendURLMissing)
	} else if _, err := url.ParseRequestURI(cfg.Backend.URL); err != nil {
		errs = append(errs, fmt.Errorf("BACKEND_URL is not a valid URL: %w", err))
	}

	if cfg.Redis != nil && cfg.Redis.Outbox == OutboxRedis {
		if err := cfg.Redis.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
