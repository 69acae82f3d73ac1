package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/KasumiMercury/primind-pollination-agent/internal/observability/tracing"
)

// fetch retries retryable failures with exponential backoff. Exhausting the
// attempts yields errFetchExhausted.
func (s *Scheduler) fetch(ctx context.Context) ([]domain.ReminderRecord, error) {
	var lastErr error

	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(float64(s.cfg.BaseDelay) * math.Pow(2, float64(attempt-2)))
			slog.DebugContext(ctx, "retrying pending fetch",
				slog.Int("attempt", attempt),
				slog.Duration("backoff", backoff),
			)
			if err := s.wait(ctx, backoff); err != nil {
				return nil, err
			}
		}

		attemptCtx, span := tracing.StartFetchSpan(ctx, attempt)
		records, err := s.client.FetchPending(attemptCtx)
		tracing.EndWithError(span, err)

		if err == nil {
			s.recordFetchAttempt(ctx, "success")
			return records, nil
		}

		lastErr = err
		if !domain.IsRetryable(err) {
			s.recordFetchAttempt(ctx, "error")
			slog.ErrorContext(ctx, "failed to fetch pending reminders",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
			return nil, err
		}

		s.recordFetchAttempt(ctx, "retryable")
		slog.WarnContext(ctx, "pending fetch failed",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", s.cfg.MaxAttempts),
			slog.String("error", err.Error()),
		)
	}

	slog.WarnContext(ctx, "pending fetch retries exhausted, waiting for next trigger",
		slog.String("error", lastErr.Error()),
	)
	return nil, errors.Join(errFetchExhausted, lastErr)
}

func (s *Scheduler) recordFetchAttempt(ctx context.Context, outcome string) {
	if s.reconcileMetrics != nil {
		s.reconcileMetrics.RecordFetchAttempt(ctx, outcome)
	}
}
