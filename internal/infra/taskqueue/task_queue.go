package taskqueue

import "context"

//go:generate mockgen -source=task_queue.go -destination=mock.go -package=taskqueue

// TaskQueue registers delayed HTTP tasks that call back at fire time.
type TaskQueue interface {
	RegisterNotification(ctx context.Context, task *NotificationTask) (*TaskResponse, error)
	// DeleteTask returns ErrTaskNotFound when the task already ran or was removed.
	DeleteTask(ctx context.Context, taskName string) error
}
