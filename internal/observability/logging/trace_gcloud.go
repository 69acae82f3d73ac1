//go:build gcloud

package logging

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// correlationAttrs adds the Cloud Logging trace fields on top of the OTel ids
// so entries group under their request trace in the console.
func correlationAttrs(ctx context.Context, projectID string) []slog.Attr {
	attrs := traceAttrs(ctx)

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() || projectID == "" {
		return attrs
	}
	return append(attrs,
		slog.String("logging.googleapis.com/trace", fmt.Sprintf("projects/%s/traces/%s", projectID, sc.TraceID().String())),
		slog.String("logging.googleapis.com/spanId", sc.SpanID().String()),
		slog.Bool("logging.googleapis.com/trace_sampled", sc.IsSampled()),
	)
}
