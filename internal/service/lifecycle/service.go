package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=lifecycle

// Mirror forwards accepted transitions to the backend record store.
type Mirror interface {
	MarkFlowering(ctx context.Context, plantID string, gender domain.Gender, date time.Time) error
	MarkPollinated(ctx context.Context, plantID string, date time.Time) error
	AdvanceStatus(ctx context.Context, plantID string, to domain.LifecycleStatus) error
}

// Result is a transition together with its backend sync state.
type Result struct {
	Transition
	// Synced is false when the backend could not be reached. The optimistic
	// state is kept and corrected by the next fetch of the plant record.
	Synced bool
}

// Service applies a transition locally, then mirrors it to the backend.
type Service struct {
	machine *Machine
	mirror  Mirror
	now     func() time.Time
}

func NewService(machine *Machine, mirror Mirror) *Service {
	return &Service{
		machine: machine,
		mirror:  mirror,
		now:     time.Now,
	}
}

func (s *Service) Apply(ctx context.Context, plant domain.Plant, event Event) (Result, error) {
	tr, err := s.machine.Apply(ctx, plant, event, s.now())
	if err != nil {
		return Result{Transition: tr}, err
	}

	if err := s.forward(ctx, plant.ID, event); err != nil {
		if domain.IsRetryable(err) {
			slog.WarnContext(ctx, "transition applied locally, backend unreachable",
				slog.String("plant_id", plant.ID),
				slog.String("event", event.Name()),
				slog.String("error", err.Error()),
			)
			return Result{Transition: tr, Synced: false}, nil
		}

		slog.WarnContext(ctx, "backend rejected transition, rolling back",
			slog.String("plant_id", plant.ID),
			slog.String("event", event.Name()),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, domain.ErrAuth) {
			return Result{Transition: Transition{Plant: plant}}, err
		}
		return Result{Transition: Transition{Plant: plant}}, fmt.Errorf("%w: %w", ErrRemoteRejected, err)
	}

	return Result{Transition: tr, Synced: true}, nil
}

func (s *Service) forward(ctx context.Context, plantID string, event Event) error {
	switch ev := event.(type) {
	case MarkFlowering:
		return s.mirror.MarkFlowering(ctx, plantID, ev.Gender, ev.Date)
	case MarkPollinated:
		return s.mirror.MarkPollinated(ctx, plantID, ev.Date)
	case AdvanceStatus:
		return s.mirror.AdvanceStatus(ctx, plantID, ev.To)
	default:
		return fmt.Errorf("unsupported event %s", event.Name())
	}
}
