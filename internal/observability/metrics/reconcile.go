package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	reconcileMeterName = "reconcile.service"
)

type ReconcileMetrics struct {
	passes          metric.Int64Counter
	reminders       metric.Int64Counter
	fetchAttempts   metric.Int64Counter
	ackFailures     metric.Int64Counter
	passDuration    metric.Float64Histogram
	scheduleLatency metric.Float64Histogram
}

func NewReconcileMetrics() (*ReconcileMetrics, error) {
	meter := otel.Meter(reconcileMeterName)

	passes, err := meter.Int64Counter(
		"reconcile_passes_total",
		metric.WithDescription("Total number of reconciliation passes by outcome"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		return nil, err
	}

	reminders, err := meter.Int64Counter(
		"reconcile_reminders_total",
		metric.WithDescription("Reminder records processed by outcome"),
		metric.WithUnit("{reminder}"),
	)
	if err != nil {
		return nil, err
	}

	fetchAttempts, err := meter.Int64Counter(
		"reconcile_fetch_attempts_total",
		metric.WithDescription("Pending queue fetch attempts by outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	ackFailures, err := meter.Int64Counter(
		"reconcile_ack_failures_total",
		metric.WithDescription("Acks that failed and were queued for retry"),
		metric.WithUnit("{ack}"),
	)
	if err != nil {
		return nil, err
	}

	passDuration, err := meter.Float64Histogram(
		"reconcile_pass_duration_seconds",
		metric.WithDescription("Reconciliation pass duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60,
		),
	)
	if err != nil {
		return nil, err
	}

	scheduleLatency, err := meter.Float64Histogram(
		"reconcile_schedule_duration_seconds",
		metric.WithDescription("Time spent scheduling one notification"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1,
		),
	)
	if err != nil {
		return nil, err
	}

	return &ReconcileMetrics{
		passes:          passes,
		reminders:       reminders,
		fetchAttempts:   fetchAttempts,
		ackFailures:     ackFailures,
		passDuration:    passDuration,
		scheduleLatency: scheduleLatency,
	}, nil
}

func (m *ReconcileMetrics) RecordPass(ctx context.Context, outcome string, duration time.Duration) {
	attrs := appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("outcome", outcome),
	})
	m.passes.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.passDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

func (m *ReconcileMetrics) RecordReminder(ctx context.Context, reminderType, outcome string) {
	m.reminders.Add(ctx, 1, metric.WithAttributes(appendLoadtestLabels(ctx, []attribute.KeyValue{
		attribute.String("reminder_type", reminderType),
		attribute.String("outcome", outcome),
	})...))
}

func (m *ReconcileMetrics) RecordFetchAttempt(ctx context.Context, outcome string) {
	m.fetchAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *ReconcileMetrics) RecordAckFailure(ctx context.Context, reminderType string) {
	m.ackFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reminder_type", reminderType),
	))
}

func (m *ReconcileMetrics) RecordScheduleDuration(ctx context.Context, reminderType string, duration time.Duration) {
	m.scheduleLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("reminder_type", reminderType),
	))
}
