package config

import (
	"os"
	"strconv"
)

const (
	pollinationToleranceDaysEnv = "POLLINATION_TOLERANCE_DAYS"
	upcomingThresholdDaysEnv    = "UPCOMING_THRESHOLD_DAYS"

	defaultPollinationToleranceDays = 2
	defaultUpcomingThresholdDays    = 3
)

type WindowConfig struct {
	PollinationToleranceDays int
	UpcomingThresholdDays    int
}

func LoadWindowConfig() *WindowConfig {
	tolerance := defaultPollinationToleranceDays
	if v := os.Getenv(pollinationToleranceDaysEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			tolerance = parsed
		}
	}

	upcoming := defaultUpcomingThresholdDays
	if v := os.Getenv(upcomingThresholdDaysEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			upcoming = parsed
		}
	}

	return &WindowConfig{
		PollinationToleranceDays: tolerance,
		UpcomingThresholdDays:    upcoming,
	}
}
