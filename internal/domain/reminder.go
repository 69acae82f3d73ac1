package domain

import (
	"fmt"
	"time"
)

// ReminderType identifies which of a plant's reminders a record refers to.
type ReminderType string

const (
	ReminderOneHourBefore    ReminderType = "oneHourBefore"
	ReminderThirtyMinsBefore ReminderType = "thirtyMinsBefore"
)

func (t ReminderType) String() string {
	return string(t)
}

func (t ReminderType) IsValid() bool {
	return t == ReminderOneHourBefore || t == ReminderThirtyMinsBefore
}

// ReminderRecord is one unit of work issued by the backend.
type ReminderRecord struct {
	PlantID           string       `json:"plantId"`
	PlantName         string       `json:"plantName"`
	PlantNameTagalog  string       `json:"plantNameTagalog,omitempty"`
	Type              ReminderType `json:"type"`
	ScheduledTime     time.Time    `json:"scheduledTime"`
	Message           string       `json:"message"`
	PollinationWindow string       `json:"pollinationWindow,omitempty"`
}

func (r ReminderRecord) Key() ReminderKey {
	return ReminderKey{PlantID: r.PlantID, Type: r.Type}
}

// IsStale reports whether the reminder's fire time is not in the future.
func (r ReminderRecord) IsStale(now time.Time) bool {
	return !r.ScheduledTime.After(now)
}

// ReminderKey is the deduplication key for scheduled notifications.
type ReminderKey struct {
	PlantID string       `json:"plant_id"`
	Type    ReminderType `json:"type"`
}

func (k ReminderKey) String() string {
	return fmt.Sprintf("%s:%s", k.PlantID, k.Type)
}
