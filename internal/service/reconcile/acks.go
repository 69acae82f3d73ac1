package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

// ack reports a scheduled reminder as sent. Failures are kept in the outbox
// and retried at the start of the next pass.
func (s *Scheduler) ack(ctx context.Context, key domain.ReminderKey) {
	err := s.client.AckSent(ctx, key.PlantID, key.Type)
	if err == nil {
		return
	}

	if s.reconcileMetrics != nil {
		s.reconcileMetrics.RecordAckFailure(ctx, key.Type.String())
	}
	if errors.Is(err, domain.ErrAuth) {
		s.halt(ctx, err)
	}

	slog.WarnContext(ctx, "failed to acknowledge sent reminder",
		slog.String("key", key.String()),
		slog.String("error", err.Error()),
	)

	if err := s.outbox.Enqueue(ctx, domain.PendingAck{
		PlantID:  key.PlantID,
		Type:     key.Type,
		QueuedAt: time.Now(),
		Attempts: 1,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to store pending acknowledgement",
			slog.String("key", key.String()),
			slog.String("error", err.Error()),
		)
	}
}

// flushOutbox retries stored acknowledgements and returns how many succeeded.
func (s *Scheduler) flushOutbox(ctx context.Context) int {
	pending, err := s.outbox.List(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to list pending acknowledgements",
			slog.String("error", err.Error()),
		)
		return 0
	}

	retried := 0
	for _, p := range pending {
		key := p.Key()
		err := s.client.AckSent(ctx, p.PlantID, p.Type)

		switch {
		case err == nil:
			retried++
			if err := s.outbox.Remove(ctx, key); err != nil {
				slog.WarnContext(ctx, "failed to remove delivered acknowledgement",
					slog.String("key", key.String()),
					slog.String("error", err.Error()),
				)
			}
		case errors.Is(err, domain.ErrAuth):
			s.halt(ctx, err)
			return retried
		case domain.IsRetryable(err):
			if err := s.outbox.Enqueue(ctx, p); err != nil {
				slog.WarnContext(ctx, "failed to requeue acknowledgement",
					slog.String("key", key.String()),
					slog.String("error", err.Error()),
				)
			}
		default:
			slog.WarnContext(ctx, "backend rejected acknowledgement, dropping",
				slog.String("key", key.String()),
				slog.Int("attempts", p.Attempts),
				slog.String("error", err.Error()),
			)
			if err := s.outbox.Remove(ctx, key); err != nil {
				slog.WarnContext(ctx, "failed to remove rejected acknowledgement",
					slog.String("key", key.String()),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	return retried
}

func (s *Scheduler) pendingAcks(ctx context.Context) int {
	pending, err := s.outbox.List(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to count pending acknowledgements",
			slog.String("error", err.Error()),
		)
		return 0
	}
	return len(pending)
}
