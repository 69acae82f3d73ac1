package taskqueue

import (
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

// NotificationTask is the body delivered back to the agent when the task
// fires.
type NotificationTask struct {
	TaskID     string    `json:"task_id"`
	ScheduleAt time.Time `json:"-"`

	Title   string                     `json:"title"`
	Body    string                     `json:"body"`
	Payload domain.NotificationPayload `json:"payload"`
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

type PrimindTaskRequest struct {
	Task PrimindTask `json:"task"`
}

type PrimindTask struct {
	Name         string             `json:"name,omitempty"`
	HTTPRequest  PrimindHTTPRequest `json:"httpRequest"`
	ScheduleTime string             `json:"scheduleTime,omitempty"`
}

type PrimindHTTPRequest struct {
	URL     string            `json:"url,omitempty"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type PrimindTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
