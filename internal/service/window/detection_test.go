package window

import (
	"testing"
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

func TestGenderDetection(t *testing.T) {
	e := newTestEstimator()
	plant := domain.NewPlant("p1", "ampalaya", day(0))

	tests := []struct {
		name       string
		now        time.Time
		wantAge    int
		wantMale   bool
		wantFemale bool
	}{
		{name: "too young", now: day(29), wantAge: 29},
		{name: "male visible", now: day(30), wantAge: 30, wantMale: true},
		{name: "both visible", now: day(38).Add(20 * time.Hour), wantAge: 38, wantMale: true, wantFemale: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.GenderDetection(plant, tt.now)
			if !ok {
				t.Fatal("GenderDetection() ok = false, want true")
			}
			if got.AgeDays != tt.wantAge {
				t.Errorf("AgeDays = %d, want %d", got.AgeDays, tt.wantAge)
			}
			if got.CanDetectMale != tt.wantMale {
				t.Errorf("CanDetectMale = %v, want %v", got.CanDetectMale, tt.wantMale)
			}
			if got.CanDetectFemale != tt.wantFemale {
				t.Errorf("CanDetectFemale = %v, want %v", got.CanDetectFemale, tt.wantFemale)
			}
			if !got.MaleEarliest.Equal(day(30)) || !got.FemaleLatest.Equal(day(45)) {
				t.Errorf("bounds = %v..%v, want %v..%v", got.MaleEarliest, got.FemaleLatest, day(30), day(45))
			}
		})
	}
}

func TestGenderDetectionLabels(t *testing.T) {
	got, ok := newTestEstimator().GenderDetection(domain.NewPlant("p1", "ampalaya", day(0)), day(0))
	if !ok {
		t.Fatal("GenderDetection() ok = false")
	}
	// planted Mar 1: male Mar 31 - Apr 5, female Apr 8-15
	if got.MaleLabel != "Mar 31 - Apr 5" {
		t.Errorf("MaleLabel = %q", got.MaleLabel)
	}
	if got.FemaleLabel != "Apr 8-15" {
		t.Errorf("FemaleLabel = %q", got.FemaleLabel)
	}
}

func TestGenderDetectionUnavailable(t *testing.T) {
	e := newTestEstimator()

	tests := []struct {
		name  string
		plant domain.Plant
	}{
		{name: "unknown species", plant: domain.NewPlant("p1", "tomato", day(0))},
		{name: "no detection table", plant: domain.NewPlant("p1", "melon", day(0))},
		{name: "no planting date", plant: domain.Plant{ID: "p1", Species: "ampalaya"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := e.GenderDetection(tt.plant, day(40)); ok {
				t.Error("GenderDetection() ok = true, want false")
			}
		})
	}
}
