package outbox

import "errors"

var (
	ErrRedisConnection = errors.New("redis connection error")
	ErrInvalidAckData  = errors.New("invalid pending ack data")
)
