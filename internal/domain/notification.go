package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=notification.go -destination=notification_mock.go -package=domain

// NotificationHandle is the opaque, cancellable reference returned by the
// host notification API.
type NotificationHandle string

// NotificationPayload travels with a scheduled notification and comes back
// unchanged when it is delivered or tapped.
type NotificationPayload struct {
	PlantID           string       `json:"plantId"`
	PlantName         string       `json:"plantName,omitempty"`
	Type              ReminderType `json:"type"`
	PollinationWindow string       `json:"pollinationWindow,omitempty"`
}

func (p NotificationPayload) Key() ReminderKey {
	return ReminderKey{PlantID: p.PlantID, Type: p.Type}
}

type NotificationRequest struct {
	FireAt  time.Time
	Title   string
	Body    string
	Payload NotificationPayload
}

// Notifier is the host notification surface.
type Notifier interface {
	// RequestPermission must be called once before any Schedule call.
	RequestPermission(ctx context.Context) (bool, error)
	Schedule(ctx context.Context, req NotificationRequest) (NotificationHandle, error)
	// Cancel returns ErrHandleNotFound when the handle was already consumed.
	Cancel(ctx context.Context, handle NotificationHandle) error
}

type NotificationEventKind string

const (
	NotificationReceived NotificationEventKind = "notification.received"
	NotificationTapped   NotificationEventKind = "notification.tapped"
)

// NotificationEvent is emitted when the host delivers or the user taps a
// notification. It carries only the payload.
type NotificationEvent struct {
	Kind       NotificationEventKind `json:"kind"`
	Handle     NotificationHandle    `json:"handle,omitempty"`
	Payload    NotificationPayload   `json:"payload"`
	OccurredAt time.Time             `json:"occurred_at"`
}

// NotificationEventSink receives notification events from a Notifier.
type NotificationEventSink interface {
	PublishNotification(event NotificationEvent)
}
