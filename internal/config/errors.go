package config

import "errors"

var (
	ErrRedisAddrMissing  = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB    = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidTimezone   = errors.New("TIMEZONE must be a valid IANA time zone")
	ErrBackendURLMissing = errors.New("BACKEND_URL environment variable is required")
	ErrInvalidSpecies    = errors.New("invalid species configuration")
)
