//go:build !gcloud

package reconcilerecorder

import (
	"context"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

const passMeasurement = "reconcile_pass"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ReconcileResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "reconcile result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, reconcile result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)

	slog.InfoContext(ctx, "reconcile result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket),
		bucket:   cfg.InfluxDBBucket,
	}, nil
}

// RecordPass writes one point per pass. Write failures are logged and never
// fail the pass.
func (r *influxDBRecorder) RecordPass(ctx context.Context, record domain.ReconcilePassRecord) error {
	if err := r.writeAPI.WritePoint(ctx, passPoint(record)); err != nil {
		slog.WarnContext(ctx, "failed to write reconcile pass to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("run_id", record.RunID),
			slog.String("bucket", r.bucket),
		)
	}
	return nil
}

func passPoint(record domain.ReconcilePassRecord) *write.Point {
	runID := record.RunID
	if runID == "" {
		runID = "default"
	}

	return influxdb2.NewPoint(
		passMeasurement,
		map[string]string{
			"run_id":  runID,
			"outcome": record.Outcome,
		},
		map[string]any{
			"fetched":      record.Fetched,
			"scheduled":    record.Scheduled,
			"skipped":      record.Skipped,
			"stale":        record.Stale,
			"failed":       record.Failed,
			"acks_failed":  record.AcksFailed,
			"acks_retried": record.AcksRetried,
			"duration_ms":  record.Duration.Milliseconds(),
		},
		record.StartedAt,
	)
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
