package stub

import "github.com/KasumiMercury/primind-pollination-agent/internal/domain"

type PendingResponse struct {
	Success bool                    `json:"success"`
	Data    []domain.ReminderRecord `json:"data"`
}

type SeedRequest struct {
	Batches []SeedBatch `json:"batches"`
}

// SeedBatch generates Count plants whose first reminder fires at StartTime,
// spaced SpacingSeconds apart.
type SeedBatch struct {
	StartTime      string `json:"start_time"`
	Count          int    `json:"count"`
	SpacingSeconds int    `json:"spacing_seconds"`
	Species        string `json:"species"`
}

// FailureRequest makes the next Count backend calls answer StatusCode.
type FailureRequest struct {
	StatusCode int `json:"status_code"`
	Count      int `json:"count"`
}

type NotificationSentRequest struct {
	NotificationType domain.ReminderType `json:"notificationType"`
}

type FloweringRequest struct {
	Gender string `json:"gender"`
	Date   string `json:"date"`
}

type PollinateRequest struct {
	Date string `json:"date"`
}

type StatusRequest struct {
	NewStatus string `json:"newStatus"`
}
