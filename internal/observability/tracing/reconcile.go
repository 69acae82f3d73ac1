package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const reconcileTracerName = "github.com/KasumiMercury/primind-pollination-agent/internal/service/reconcile"

func ReconcileTracer() trace.Tracer {
	return otel.Tracer(reconcileTracerName)
}

func StartReconcileSpan(ctx context.Context, runID string, now time.Time) (context.Context, trace.Span) {
	return ReconcileTracer().Start(ctx, "reconcile.pass",
		trace.WithAttributes(
			attribute.String("reconcile.run_id", runID),
			attribute.String("reconcile.now", now.Format(time.RFC3339)),
		),
	)
}

func StartFetchSpan(ctx context.Context, attempt int) (context.Context, trace.Span) {
	return ReconcileTracer().Start(ctx, "reconcile.fetch",
		trace.WithAttributes(
			attribute.Int("fetch.attempt", attempt),
		),
	)
}

func StartScheduleSpan(ctx context.Context, plantID, reminderType string, fireAt time.Time) (context.Context, trace.Span) {
	return ReconcileTracer().Start(ctx, "reconcile.schedule",
		trace.WithAttributes(
			attribute.String("plant_id", plantID),
			attribute.String("reminder_type", reminderType),
			attribute.String("fire_at", fireAt.Format(time.RFC3339)),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return ReconcileTracer().Start(ctx, "backend."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func StartRedisOperationSpan(ctx context.Context, operation, key string) (context.Context, trace.Span) {
	return ReconcileTracer().Start(ctx, "outbox.redis."+operation,
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.String("db.key", key),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordReconcileResult(span trace.Span, scheduled, skipped, stale, failed, acksPending int, err error) {
	span.SetAttributes(
		attribute.Int("reconcile.scheduled_count", scheduled),
		attribute.Int("reconcile.skipped_count", skipped),
		attribute.Int("reconcile.stale_count", stale),
		attribute.Int("reconcile.failed_count", failed),
		attribute.Int("reconcile.acks_pending", acksPending),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
