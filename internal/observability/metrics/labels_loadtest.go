//go:build loadtest

package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/KasumiMercury/primind-pollination-agent/internal/observability/logging"
)

// appendLoadtestLabels tags series produced while load testing so they can
// be filtered out of dashboards.
func appendLoadtestLabels(ctx context.Context, attrs []attribute.KeyValue) []attribute.KeyValue {
	attrs = append(attrs, attribute.Bool("loadtest", true))
	if id := logging.RequestIDFromContext(ctx); id != "" {
		attrs = append(attrs, attribute.String("loadtest_request_id", id))
	}
	return attrs
}
