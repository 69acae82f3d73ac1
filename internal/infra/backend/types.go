package backend

import (
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

type pendingResponse struct {
	Success *bool                   `json:"success,omitempty"`
	Data    []domain.ReminderRecord `json:"data"`
}

type notificationSentRequest struct {
	NotificationType domain.ReminderType `json:"notificationType"`
}

// envelope is the common write response body.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type floweringRequest struct {
	Gender domain.Gender `json:"gender"`
	Date   time.Time     `json:"date"`
}

type pollinateRequest struct {
	Date time.Time `json:"date"`
}

type statusRequest struct {
	NewStatus domain.LifecycleStatus `json:"newStatus"`
}
