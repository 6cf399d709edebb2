package queue

import (
	"encoding/json"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/notify"

	"github.com/hibiken/asynq"
)

const (
	// TaskNotificationSend 通知发送任务
	TaskNotificationSend = constants.TaskNotificationSend
)

// NotificationPayload 通知任务载荷
type NotificationPayload = notify.Message

// NewNotificationTask 创建通知发送任务
func NewNotificationTask(payload NotificationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationSend, body), nil
}

// ParseNotificationPayload 解析通知任务载荷
func ParseNotificationPayload(task *asynq.Task) (NotificationPayload, error) {
	var payload NotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NotificationPayload{}, err
	}
	return payload, nil
}
