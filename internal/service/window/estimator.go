package window

import (
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

// DefaultUpcomingThresholdDays is how close the window opening must be for a
// plant to be reported as upcoming rather than not ready.
const DefaultUpcomingThresholdDays = 3

// Estimator derives pollination windows from observed plant dates. It holds
// no per-plant state and is safe for concurrent use.
type Estimator struct {
	catalog      domain.SpeciesCatalog
	loc          *time.Location
	upcomingDays int
}

func NewEstimator(catalog domain.SpeciesCatalog, loc *time.Location, upcomingThresholdDays int) *Estimator {
	if loc == nil {
		loc = time.Local
	}
	if upcomingThresholdDays < 0 {
		upcomingThresholdDays = DefaultUpcomingThresholdDays
	}
	return &Estimator{
		catalog:      catalog,
		loc:          loc,
		upcomingDays: upcomingThresholdDays,
	}
}

func (e *Estimator) Location() *time.Location {
	return e.loc
}

// Estimate computes the window for plant as seen on the calendar day of now.
func (e *Estimator) Estimate(plant domain.Plant, now time.Time) domain.PollinationWindow {
	w := e.Bounds(plant)
	w.Status = e.classify(w, plant, now)
	return w
}

// Bounds returns the window dates without a status.
func (e *Estimator) Bounds(plant domain.Plant) domain.PollinationWindow {
	w := domain.PollinationWindow{Source: domain.WindowSourceNone}

	if e.catalog == nil {
		return w
	}
	species, ok := e.catalog.Lookup(plant.Species)
	if !ok {
		return w
	}

	var (
		base             time.Time
		earliest, latest int
	)
	switch {
	case plant.DateFlowering != nil:
		base = *plant.DateFlowering
		earliest = species.Offsets.FloweringEarliestDays
		latest = species.Offsets.FloweringLatestDays
		w.Source = domain.WindowSourceFlowering
	case !plant.DatePlanted.IsZero():
		base = plant.DatePlanted
		earliest = species.Offsets.PlantedEarliestDays
		latest = species.Offsets.PlantedLatestDays
		w.Source = domain.WindowSourcePlanted
	default:
		return w
	}

	day := e.civilDate(base)
	start := day.AddDate(0, 0, earliest)
	end := day.AddDate(0, 0, latest)
	w.Earliest = &start
	w.Latest = &end
	return w
}

func (e *Estimator) classify(w domain.PollinationWindow, plant domain.Plant, now time.Time) domain.WindowStatus {
	if plant.DatePollinated != nil {
		return domain.WindowCompleted
	}

	today := e.civilDate(now)

	if w.HasBounds() && !today.Before(*w.Earliest) && !today.After(*w.Latest) {
		return domain.WindowReady
	}
	if w.Latest != nil && today.After(*w.Latest) {
		return domain.WindowOverdue
	}
	if w.Earliest == nil {
		return domain.WindowUnknown
	}
	if DaysBetween(today, *w.Earliest) <= e.upcomingDays {
		return domain.WindowUpcoming
	}
	return domain.WindowNotReady
}

// WithinTolerance reports whether day lies inside the window widened by
// toleranceDays on both sides. A window without bounds accepts any day.
func (e *Estimator) WithinTolerance(w domain.PollinationWindow, day time.Time, toleranceDays int) bool {
	if !w.HasBounds() {
		return true
	}
	d := e.civilDate(day)
	lo := w.Earliest.AddDate(0, 0, -toleranceDays)
	hi := w.Latest.AddDate(0, 0, toleranceDays)
	return !d.Before(lo) && !d.After(hi)
}

func (e *Estimator) civilDate(t time.Time) time.Time {
	y, m, d := t.In(e.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.loc)
}

// DaysBetween counts calendar days from a to b, ignoring DST shifts.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
