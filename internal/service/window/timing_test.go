package window

import (
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

func TestTiming(t *testing.T) {
	e := newTestEstimator()

	timing, err := e.Timing("ampalaya", day(10).Add(14*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if timing.WindowLabel != "6:00 - 9:00" {
		t.Errorf("WindowLabel: got %q, want %q", timing.WindowLabel, "6:00 - 9:00")
	}
	if want := day(10).Add(6 * time.Hour); !timing.OpensAt.Equal(want) {
		t.Errorf("OpensAt: got %v, want %v", timing.OpensAt, want)
	}
	if want := day(10).Add(5 * time.Hour); !timing.OneHourBefore.Equal(want) {
		t.Errorf("OneHourBefore: got %v, want %v", timing.OneHourBefore, want)
	}
	if want := day(10).Add(5*time.Hour + 30*time.Minute); !timing.ThirtyMinsBefore.Equal(want) {
		t.Errorf("ThirtyMinsBefore: got %v, want %v", timing.ThirtyMinsBefore, want)
	}

	got, ok := timing.ReminderTime(domain.ReminderThirtyMinsBefore)
	if !ok || !got.Equal(timing.ThirtyMinsBefore) {
		t.Errorf("ReminderTime(thirtyMinsBefore): got %v, %v", got, ok)
	}
	if _, ok := timing.ReminderTime("weekly"); ok {
		t.Error("ReminderTime should reject unknown types")
	}
}

func TestTimingUnknownSpecies(t *testing.T) {
	e := newTestEstimator()

	_, err := e.Timing("tomato", day(0))
	if !errors.Is(err, domain.ErrUnknownSpecies) {
		t.Errorf("got %v, want %v", err, domain.ErrUnknownSpecies)
	}
}

func TestDisplayName(t *testing.T) {
	e := newTestEstimator()

	if got := e.DisplayName("ampalaya"); got != "Bitter Gourd" {
		t.Errorf("got %q, want %q", got, "Bitter Gourd")
	}
	if got := e.DisplayName("tomato"); got != "tomato" {
		t.Errorf("got %q, want %q", got, "tomato")
	}
}
