package domain

import (
	"time"
)

// Gender is the observed flower gender of a plant. Once set to male or
// female it never reverts to undetermined.
type Gender string

const (
	GenderUndetermined Gender = "undetermined"
	GenderMale         Gender = "male"
	GenderFemale       Gender = "female"
)

func (g Gender) String() string {
	return string(g)
}

func (g Gender) IsDetermined() bool {
	return g == GenderMale || g == GenderFemale
}

func ParseGender(s string) (Gender, bool) {
	switch Gender(s) {
	case GenderUndetermined, GenderMale, GenderFemale:
		return Gender(s), true
	case "":
		return GenderUndetermined, true
	default:
		return "", false
	}
}

// LifecycleStatus is the stage of a plant record. Stages only move forward.
type LifecycleStatus string

const (
	StatusPlanted    LifecycleStatus = "planted"
	StatusFlowering  LifecycleStatus = "flowering"
	StatusPollinated LifecycleStatus = "pollinated"
	StatusFruiting   LifecycleStatus = "fruiting"
	StatusHarvested  LifecycleStatus = "harvested"
)

var lifecycleOrder = []LifecycleStatus{
	StatusPlanted,
	StatusFlowering,
	StatusPollinated,
	StatusFruiting,
	StatusHarvested,
}

func (s LifecycleStatus) String() string {
	return string(s)
}

// Rank returns the position of s in the lifecycle, or -1 for unknown values.
func (s LifecycleStatus) Rank() int {
	for i, st := range lifecycleOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the stage that immediately follows s.
func (s LifecycleStatus) Next() (LifecycleStatus, bool) {
	r := s.Rank()
	if r < 0 || r+1 >= len(lifecycleOrder) {
		return "", false
	}
	return lifecycleOrder[r+1], true
}

func ParseLifecycleStatus(s string) (LifecycleStatus, bool) {
	st := LifecycleStatus(s)
	if st.Rank() < 0 {
		return "", false
	}
	return st, true
}

// Plant is a tracked plant record. Status, Gender and the optional dates are
// written only by the lifecycle state machine.
type Plant struct {
	ID             string          `json:"id"`
	Species        string          `json:"species"`
	DatePlanted    time.Time       `json:"date_planted"`
	Gender         Gender          `json:"gender"`
	DateFlowering  *time.Time      `json:"date_flowering,omitempty"`
	DatePollinated *time.Time      `json:"date_pollinated,omitempty"`
	Status         LifecycleStatus `json:"status"`
}

// NewPlant creates a plant in the planted stage.
func NewPlant(id, species string, datePlanted time.Time) Plant {
	return Plant{
		ID:          id,
		Species:     species,
		DatePlanted: datePlanted,
		Gender:      GenderUndetermined,
		Status:      StatusPlanted,
	}
}

func (p Plant) IsPollinated() bool {
	return p.DatePollinated != nil
}

func (p Plant) HasFlowered() bool {
	return p.DateFlowering != nil
}
