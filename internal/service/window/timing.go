package window

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

// Timing is the daily pollination slot of a species on a given day together
// with the reminder fire times for that slot.
type Timing struct {
	Species          string    `json:"species"`
	WindowLabel      string    `json:"window_label"`
	OpensAt          time.Time `json:"opens_at"`
	ClosesAt         time.Time `json:"closes_at"`
	OneHourBefore    time.Time `json:"one_hour_before"`
	ThirtyMinsBefore time.Time `json:"thirty_mins_before"`
}

// ReminderTime returns the fire time for the given reminder type.
func (t Timing) ReminderTime(rt domain.ReminderType) (time.Time, bool) {
	switch rt {
	case domain.ReminderOneHourBefore:
		return t.OneHourBefore, true
	case domain.ReminderThirtyMinsBefore:
		return t.ThirtyMinsBefore, true
	default:
		return time.Time{}, false
	}
}

// Timing computes the pollination slot for species on the calendar day of day.
func (e *Estimator) Timing(speciesName string, day time.Time) (Timing, error) {
	if e.catalog == nil {
		return Timing{}, domain.ErrUnknownSpecies
	}
	species, ok := e.catalog.Lookup(speciesName)
	if !ok {
		return Timing{}, fmt.Errorf("%w: %s", domain.ErrUnknownSpecies, speciesName)
	}

	d := e.civilDate(day)
	opens := d.Add(time.Duration(species.Timing.StartHour) * time.Hour)
	closes := d.Add(time.Duration(species.Timing.EndHour) * time.Hour)
	oneHour := opens.Add(-time.Hour)

	return Timing{
		Species:          species.Name,
		WindowLabel:      fmt.Sprintf("%d:00 - %d:00", species.Timing.StartHour, species.Timing.EndHour),
		OpensAt:          opens,
		ClosesAt:         closes,
		OneHourBefore:    oneHour,
		ThirtyMinsBefore: oneHour.Add(30 * time.Minute),
	}, nil
}

// DisplayName returns the English display name of a species, falling back to
// the raw name.
func (e *Estimator) DisplayName(speciesName string) string {
	if e.catalog == nil {
		return speciesName
	}
	if s, ok := e.catalog.Lookup(speciesName); ok && s.EnglishName != "" {
		return s.EnglishName
	}
	return speciesName
}
