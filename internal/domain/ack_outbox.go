package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=ack_outbox.go -destination=ack_outbox_mock.go -package=domain

// PendingAck is a "sent" acknowledgement that could not be delivered and is
// waiting for the next reconciliation pass.
type PendingAck struct {
	PlantID  string       `json:"plant_id"`
	Type     ReminderType `json:"type"`
	QueuedAt time.Time    `json:"queued_at"`
	Attempts int          `json:"attempts"`
}

func (a PendingAck) Key() ReminderKey {
	return ReminderKey{PlantID: a.PlantID, Type: a.Type}
}

// AckOutbox stores pending acknowledgements, at most one per key.
type AckOutbox interface {
	Enqueue(ctx context.Context, ack PendingAck) error
	List(ctx context.Context) ([]PendingAck, error)
	Remove(ctx context.Context, key ReminderKey) error
}
