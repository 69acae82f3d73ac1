//go:build gcloud

package reconcilerecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt  time.Time `bigquery:"recorded_at"`
	StartedAt   time.Time `bigquery:"started_at"`
	RunID       string    `bigquery:"run_id"`
	Outcome     string    `bigquery:"outcome"`
	DurationMS  int64     `bigquery:"duration_ms"`
	Fetched     int64     `bigquery:"fetched"`
	Scheduled   int64     `bigquery:"scheduled"`
	Skipped     int64     `bigquery:"skipped"`
	Stale       int64     `bigquery:"stale"`
	Failed      int64     `bigquery:"failed"`
	AcksFailed  int64     `bigquery:"acks_failed"`
	AcksRetried int64     `bigquery:"acks_retried"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ReconcileResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "reconcile result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, reconcile result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, reconcile result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	slog.InfoContext(ctx, "reconcile result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter(),
	}, nil
}

func (r *bigQueryRecorder) RecordPass(ctx context.Context, record domain.ReconcilePassRecord) error {
	row := &bigQueryRecord{
		RecordedAt:  time.Now(),
		StartedAt:   record.StartedAt,
		RunID:       record.RunID,
		Outcome:     record.Outcome,
		DurationMS:  record.Duration.Milliseconds(),
		Fetched:     int64(record.Fetched),
		Scheduled:   int64(record.Scheduled),
		Skipped:     int64(record.Skipped),
		Stale:       int64(record.Stale),
		Failed:      int64(record.Failed),
		AcksFailed:  int64(record.AcksFailed),
		AcksRetried: int64(record.AcksRetried),
	}

	if err := r.inserter.Put(ctx, row); err != nil {
		slog.WarnContext(ctx, "failed to insert reconcile pass to BigQuery",
			slog.String("error", err.Error()),
			slog.String("run_id", record.RunID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
