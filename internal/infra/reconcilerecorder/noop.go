package reconcilerecorder

import (
	"context"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.ReconcileResultRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordPass(_ context.Context, _ domain.ReconcilePassRecord) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
