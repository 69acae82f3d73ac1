package taskqueue

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
)

// Notifier delivers reminders as delayed tasks that call the agent's
// delivery endpoint at fire time.
type Notifier struct {
	queue            TaskQueue
	permissionDenied bool
}

var _ domain.Notifier = (*Notifier)(nil)

func NewNotifier(queue TaskQueue, permissionDenied bool) *Notifier {
	return &Notifier{
		queue:            queue,
		permissionDenied: permissionDenied,
	}
}

func (n *Notifier) RequestPermission(_ context.Context) (bool, error) {
	return !n.permissionDenied, nil
}

func (n *Notifier) Schedule(ctx context.Context, req domain.NotificationRequest) (domain.NotificationHandle, error) {
	task := &NotificationTask{
		TaskID:     TaskID(req),
		ScheduleAt: req.FireAt,
		Title:      req.Title,
		Body:       req.Body,
		Payload:    req.Payload,
	}

	if _, err := n.queue.RegisterNotification(ctx, task); err != nil {
		return "", fmt.Errorf("failed to schedule %s: %w", req.Payload.Key(), err)
	}
	// the delivery callback carries task_id, so the handle must be the same id
	return domain.NotificationHandle(task.TaskID), nil
}

func (n *Notifier) Cancel(ctx context.Context, handle domain.NotificationHandle) error {
	err := n.queue.DeleteTask(ctx, string(handle))
	if errors.Is(err, ErrTaskNotFound) {
		return domain.ErrHandleNotFound
	}
	return err
}

// TaskID derives a queue-safe task id from the reminder key and fire time.
func TaskID(req domain.NotificationRequest) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", req.Payload.Key().String(), req.FireAt.Unix())))
	return fmt.Sprintf("pollination-%s-%s", req.Payload.Type, hex.EncodeToString(sum[:12]))
}
