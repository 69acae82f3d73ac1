package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/KasumiMercury/primind-pollination-agent/internal/service/window"
)

// Transition is the outcome of a successful Apply.
type Transition struct {
	Plant domain.Plant
	// OutsideWindow is set when a pollination date falls outside the
	// estimated window plus tolerance. The transition is still applied.
	OutsideWindow bool
	Window        domain.PollinationWindow
}

// Machine is the only writer of a plant's status and lifecycle dates.
type Machine struct {
	estimator     *window.Estimator
	toleranceDays int
}

func NewMachine(estimator *window.Estimator, toleranceDays int) *Machine {
	if toleranceDays < 0 {
		toleranceDays = 0
	}
	return &Machine{
		estimator:     estimator,
		toleranceDays: toleranceDays,
	}
}

// Apply validates event against plant and returns the updated copy. On error
// the returned Transition holds the unchanged plant.
func (m *Machine) Apply(ctx context.Context, plant domain.Plant, event Event, now time.Time) (Transition, error) {
	if err := checkConsistent(plant, event); err != nil {
		return Transition{Plant: plant}, err
	}

	switch ev := event.(type) {
	case MarkFlowering:
		if m.inFuture(ev.Date, now) {
			return Transition{Plant: plant}, invalid(plant, ev, "flowering date is in the future")
		}
		return m.markFlowering(plant, ev)
	case MarkPollinated:
		if m.inFuture(ev.Date, now) {
			return Transition{Plant: plant}, invalid(plant, ev, "pollination date is in the future")
		}
		return m.markPollinated(ctx, plant, ev)
	case AdvanceStatus:
		return m.advance(plant, ev)
	default:
		return Transition{Plant: plant}, invalid(plant, event, "unsupported event")
	}
}

func (m *Machine) markFlowering(plant domain.Plant, ev MarkFlowering) (Transition, error) {
	if plant.Status != domain.StatusPlanted {
		return Transition{Plant: plant}, invalid(plant, ev, "flowering can only be marked on a planted plant")
	}
	if !ev.Gender.IsDetermined() {
		return Transition{Plant: plant}, invalid(plant, ev, fmt.Sprintf("gender must be male or female, got %q", ev.Gender))
	}
	if ev.Date.IsZero() {
		return Transition{Plant: plant}, invalid(plant, ev, "flowering date is required")
	}
	if !plant.DatePlanted.IsZero() && m.daysBetween(plant.DatePlanted, ev.Date) < 0 {
		return Transition{Plant: plant}, invalid(plant, ev, "flowering date is before planting date")
	}

	next := plant
	date := ev.Date
	next.DateFlowering = &date
	next.Gender = ev.Gender
	next.Status = domain.StatusFlowering

	return Transition{Plant: next, Window: m.estimator.Bounds(next)}, nil
}

func (m *Machine) markPollinated(ctx context.Context, plant domain.Plant, ev MarkPollinated) (Transition, error) {
	if plant.Status != domain.StatusFlowering {
		return Transition{Plant: plant}, invalid(plant, ev, "pollination can only be marked on a flowering plant")
	}
	if ev.Date.IsZero() {
		return Transition{Plant: plant}, invalid(plant, ev, "pollination date is required")
	}
	if m.daysBetween(*plant.DateFlowering, ev.Date) < 0 {
		return Transition{Plant: plant}, invalid(plant, ev, "pollination date is before flowering date")
	}

	w := m.estimator.Bounds(plant)
	outside := !m.estimator.WithinTolerance(w, ev.Date, m.toleranceDays)
	if outside {
		slog.WarnContext(ctx, "pollination date outside estimated window",
			slog.String("plant_id", plant.ID),
			slog.Time("date", ev.Date),
			slog.Any("earliest", w.Earliest),
			slog.Any("latest", w.Latest),
			slog.Int("tolerance_days", m.toleranceDays),
		)
	}

	next := plant
	date := ev.Date
	next.DatePollinated = &date
	next.Status = domain.StatusPollinated

	return Transition{Plant: next, OutsideWindow: outside, Window: w}, nil
}

func (m *Machine) advance(plant domain.Plant, ev AdvanceStatus) (Transition, error) {
	if plant.Status != domain.StatusPollinated && plant.Status != domain.StatusFruiting {
		return Transition{Plant: plant}, invalid(plant, ev, "only pollinated or fruiting plants can be advanced")
	}
	want, _ := plant.Status.Next()
	if ev.To != want {
		return Transition{Plant: plant}, invalid(plant, ev, fmt.Sprintf("next status is %s, got %s", want, ev.To))
	}

	next := plant
	next.Status = ev.To

	return Transition{Plant: next, Window: m.estimator.Bounds(next)}, nil
}

func (m *Machine) inFuture(date, now time.Time) bool {
	if date.IsZero() || now.IsZero() {
		return false
	}
	return m.daysBetween(now, date) > 0
}

func (m *Machine) daysBetween(a, b time.Time) int {
	loc := m.estimator.Location()
	return window.DaysBetween(a.In(loc), b.In(loc))
}

// checkConsistent rejects records whose dates disagree with their status.
func checkConsistent(plant domain.Plant, event Event) error {
	if plant.Status.Rank() < 0 {
		return invalid(plant, event, fmt.Sprintf("unknown status %q", plant.Status))
	}
	reached := plant.Status.Rank()
	if reached >= domain.StatusFlowering.Rank() && (plant.DateFlowering == nil || !plant.Gender.IsDetermined()) {
		return invalid(plant, event, "record past planted has no flowering date or gender")
	}
	if reached >= domain.StatusPollinated.Rank() && plant.DatePollinated == nil {
		return invalid(plant, event, "record past flowering has no pollination date")
	}
	if reached < domain.StatusPollinated.Rank() && plant.DatePollinated != nil {
		return invalid(plant, event, "pollination date set before pollinated status")
	}
	return nil
}

func invalid(plant domain.Plant, event Event, reason string) error {
	name := "unknown"
	if event != nil {
		name = event.Name()
	}
	return &domain.InvalidTransitionError{
		From:   plant.Status,
		Event:  name,
		Reason: reason,
	}
}
