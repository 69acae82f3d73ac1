package lifecycle

import (
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

// Event is a lifecycle mutation request. The set of events is closed.
type Event interface {
	Name() string
	isEvent()
}

// MarkFlowering records the first observed flower and its gender.
type MarkFlowering struct {
	Gender domain.Gender
	Date   time.Time
}

func (MarkFlowering) Name() string { return "markFlowering" }
func (MarkFlowering) isEvent()     {}

// MarkPollinated records the hand-pollination date.
type MarkPollinated struct {
	Date time.Time
}

func (MarkPollinated) Name() string { return "markPollinated" }
func (MarkPollinated) isEvent()     {}

// AdvanceStatus moves a pollinated plant to fruiting, or fruiting to harvested.
type AdvanceStatus struct {
	To domain.LifecycleStatus
}

func (AdvanceStatus) Name() string { return "advanceStatus" }
func (AdvanceStatus) isEvent()     {}
