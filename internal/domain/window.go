package domain

import "time"

// WindowStatus classifies a pollination window relative to the current day.
type WindowStatus string

const (
	WindowCompleted WindowStatus = "completed"
	WindowReady     WindowStatus = "ready"
	WindowOverdue   WindowStatus = "overdue"
	WindowUpcoming  WindowStatus = "upcoming"
	WindowNotReady  WindowStatus = "not_ready"
	WindowUnknown   WindowStatus = "unknown"
)

func (s WindowStatus) String() string {
	return string(s)
}

// WindowSource records which observed date the bounds were derived from.
type WindowSource string

const (
	WindowSourceFlowering WindowSource = "flowering"
	WindowSourcePlanted   WindowSource = "planted"
	WindowSourceNone      WindowSource = "none"
)

// PollinationWindow is derived from a Plant on every read and never stored.
type PollinationWindow struct {
	Earliest *time.Time   `json:"earliest,omitempty"`
	Latest   *time.Time   `json:"latest,omitempty"`
	Source   WindowSource `json:"source"`
	Status   WindowStatus `json:"status"`
}

func (w PollinationWindow) HasBounds() bool {
	return w.Earliest != nil && w.Latest != nil
}

// SpeciesOffsets holds the day offsets used to derive a pollination window.
type SpeciesOffsets struct {
	PlantedEarliestDays   int `json:"planted_earliest_days" yaml:"planted_earliest_days"`
	PlantedLatestDays     int `json:"planted_latest_days" yaml:"planted_latest_days"`
	FloweringEarliestDays int `json:"flowering_earliest_days" yaml:"flowering_earliest_days"`
	FloweringLatestDays   int `json:"flowering_latest_days" yaml:"flowering_latest_days"`
}

// DailyTiming is the time-of-day range in which a species' flowers open.
type DailyTiming struct {
	StartHour int `json:"start_hour" yaml:"start_hour"`
	EndHour   int `json:"end_hour" yaml:"end_hour"`
}

// DayRange is an inclusive range of days after planting.
type DayRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

func (r DayRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// GenderDetection holds when male and female flowers first show after
// planting.
type GenderDetection struct {
	Male   DayRange `json:"male" yaml:"male"`
	Female DayRange `json:"female" yaml:"female"`
}

// Species describes one supported crop.
type Species struct {
	Name        string          `json:"name" yaml:"name"`
	EnglishName string          `json:"english_name" yaml:"english_name"`
	TagalogName string          `json:"tagalog_name" yaml:"tagalog_name"`
	Offsets     SpeciesOffsets  `json:"offsets" yaml:"offsets"`
	Timing      DailyTiming     `json:"timing" yaml:"timing"`
	Detection   GenderDetection `json:"gender_detection" yaml:"gender_detection"`
}

// SpeciesCatalog resolves species by name.
type SpeciesCatalog interface {
	Lookup(name string) (Species, bool)
}
