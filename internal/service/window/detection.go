package window

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

// Detection tells the grower when male and female flowers can first be told
// apart, which is when markFlowering becomes meaningful.
type Detection struct {
	MaleEarliest    time.Time `json:"male_earliest"`
	MaleLatest      time.Time `json:"male_latest"`
	FemaleEarliest  time.Time `json:"female_earliest"`
	FemaleLatest    time.Time `json:"female_latest"`
	MaleLabel       string    `json:"male_detection"`
	FemaleLabel     string    `json:"female_detection"`
	AgeDays         int       `json:"age_days"`
	CanDetectMale   bool      `json:"can_detect_male"`
	CanDetectFemale bool      `json:"can_detect_female"`
}

// GenderDetection returns the flower detection timeline for plant. It reports
// false when the plant has no planting date or its species has no detection
// table.
func (e *Estimator) GenderDetection(plant domain.Plant, now time.Time) (Detection, bool) {
	if e.catalog == nil || plant.DatePlanted.IsZero() {
		return Detection{}, false
	}
	species, ok := e.catalog.Lookup(plant.Species)
	if !ok {
		return Detection{}, false
	}
	male, female := species.Detection.Male, species.Detection.Female
	if male.IsZero() && female.IsZero() {
		return Detection{}, false
	}

	planted := e.civilDate(plant.DatePlanted)
	age := DaysBetween(planted, e.civilDate(now))

	d := Detection{
		MaleEarliest:    planted.AddDate(0, 0, male.Min),
		MaleLatest:      planted.AddDate(0, 0, male.Max),
		FemaleEarliest:  planted.AddDate(0, 0, female.Min),
		FemaleLatest:    planted.AddDate(0, 0, female.Max),
		AgeDays:         age,
		CanDetectMale:   age >= male.Min,
		CanDetectFemale: age >= female.Min,
	}
	d.MaleLabel = dateRangeLabel(d.MaleEarliest, d.MaleLatest)
	d.FemaleLabel = dateRangeLabel(d.FemaleEarliest, d.FemaleLatest)
	return d, true
}

// dateRangeLabel renders "Nov 15-20", or "Nov 28 - Dec 3" across months.
func dateRangeLabel(from, to time.Time) string {
	if from.Month() == to.Month() {
		return fmt.Sprintf("%s %d-%d", from.Format("Jan"), from.Day(), to.Day())
	}
	return fmt.Sprintf("%s %d - %s %d", from.Format("Jan"), from.Day(), to.Format("Jan"), to.Day())
}
