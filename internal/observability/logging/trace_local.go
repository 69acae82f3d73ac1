//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// correlationAttrs attaches the OTel trace and span ids. Local collectors
// have no project-scoped trace key.
func correlationAttrs(ctx context.Context, _ string) []slog.Attr {
	return traceAttrs(ctx)
}
