package reconcile

import (
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/service/registry"
)

// Result summarizes one reconciliation pass.
type Result struct {
	RunID       string `json:"run_id,omitempty"`
	Fetched     int    `json:"fetched"`
	Scheduled   int    `json:"scheduled"`
	Skipped     int    `json:"skipped"`
	Stale       int    `json:"stale"`
	Failed      int    `json:"failed"`
	AcksPending int    `json:"acks_pending"`
	AcksRetried int    `json:"acks_retried"`
	// Busy is set when another pass was already running.
	Busy bool `json:"busy,omitempty"`
	// Disabled is set once notification permission has been denied.
	Disabled bool `json:"disabled,omitempty"`
}

type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Status is a point-in-time view of the scheduler for the control surface.
type Status struct {
	Running   bool             `json:"running"`
	Halted    bool             `json:"halted"`
	Disabled  bool             `json:"disabled"`
	LastRun   *Result          `json:"last_run,omitempty"`
	LastRunAt *time.Time       `json:"last_run_at,omitempty"`
	Scheduled []registry.Entry `json:"scheduled"`
}

const (
	outcomeSuccess   = "success"
	outcomeBusy      = "busy"
	outcomeDisabled  = "disabled"
	outcomeHalted    = "halted"
	outcomeExhausted = "fetch_exhausted"
	outcomeError     = "error"

	reminderScheduled = "scheduled"
	reminderSkipped   = "skipped"
	reminderStale     = "stale"
	reminderFailed    = "failed"
)
