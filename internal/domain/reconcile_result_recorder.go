package domain

import (
	"context"
	"time"
)

// ReconcilePassRecord summarizes one reconciliation pass for offline analysis.
type ReconcilePassRecord struct {
	RunID       string
	StartedAt   time.Time
	Duration    time.Duration
	Outcome     string
	Fetched     int
	Scheduled   int
	Skipped     int
	Stale       int
	Failed      int
	AcksFailed  int
	AcksRetried int
}

type ReconcileResultRecorder interface {
	RecordPass(ctx context.Context, record ReconcilePassRecord) error
	Close() error
}
