package reconcile

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

// HandleEvent drops the registry entry of a delivered notification so the
// slot can be filled again if the backend reissues the reminder.
func (s *Scheduler) HandleEvent(ctx context.Context, event domain.NotificationEvent) {
	switch event.Kind {
	case domain.NotificationReceived:
		if event.Handle != "" {
			key, ok := s.registry.RemoveHandle(event.Handle)
			if !ok {
				// duplicate or late delivery; the key may already hold a newer handle
				slog.DebugContext(ctx, "ignoring delivery for unknown handle",
					slog.String("handle", string(event.Handle)),
					slog.String("key", event.Payload.Key().String()),
				)
				return
			}
			slog.DebugContext(ctx, "notification delivered",
				slog.String("key", key.String()),
			)
			return
		}
		if _, ok := s.registry.RemoveScheduled(event.Payload.Key()); ok {
			slog.DebugContext(ctx, "notification delivered",
				slog.String("key", event.Payload.Key().String()),
			)
		}
	case domain.NotificationTapped:
		slog.InfoContext(ctx, "notification tapped",
			slog.String("plant_id", event.Payload.PlantID),
			slog.String("reminder_type", event.Payload.Type.String()),
		)
	}
}

// ConsumeEvents handles events until ctx is done or events is closed.
func (s *Scheduler) ConsumeEvents(ctx context.Context, events <-chan domain.NotificationEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.HandleEvent(ctx, event)
		}
	}
}
