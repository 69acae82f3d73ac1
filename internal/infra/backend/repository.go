package backend

import (
	"context"
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

//go:generate mockgen -source=repository.go -destination=mock.go -package=backend

// ReconciliationClient talks to the pollination backend. Every method makes
// exactly one request and never retries.
type ReconciliationClient interface {
	FetchPending(ctx context.Context) ([]domain.ReminderRecord, error)
	AckSent(ctx context.Context, plantID string, reminderType domain.ReminderType) error
	MarkFlowering(ctx context.Context, plantID string, gender domain.Gender, date time.Time) error
	MarkPollinated(ctx context.Context, plantID string, date time.Time) error
	AdvanceStatus(ctx context.Context, plantID string, to domain.LifecycleStatus) error
}
