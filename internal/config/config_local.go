//go:build !gcloud

package config

import "errors"

func (c *TaskQueueConfig) Validate(kind NotifierKind) error {
	if kind != NotifierTaskQueue {
		return nil
	}
	if c.PrimindTasksURL == "" {
		return errors.New("PRIMIND_TASKS_URL is required when NOTIFIER=taskqueue")
	}
	if c.TargetURL == "" {
		return errors.New("TASK_QUEUE_TARGET_URL is required when NOTIFIER=taskqueue")
	}
	return nil
}
