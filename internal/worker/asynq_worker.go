package worker

import (
	"context"
	"strings"

	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/notify"
	"github.com/storefront-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Deliverer 同步发送并记录通知
type Deliverer interface {
	Deliver(ctx context.Context, msg notify.Message) error
}

// Consumer 异步任务消费者
type Consumer struct {
	deliverer Deliverer
}

// NewConsumer 创建消费者
func NewConsumer(deliverer Deliverer) *Consumer {
	return &Consumer{
		deliverer: deliverer,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskNotificationSend, c.handleNotificationSend)
}

// handleNotificationSend 发送结果已写入通知日志，失败不返回错误以免任务被重试或归档
func (c *Consumer) handleNotificationSend(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_notification_send_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseNotificationPayload(task)
	if err != nil {
		logger.Warnw("worker_notification_send_unmarshal_failed", "error", err)
		return nil
	}
	if strings.TrimSpace(payload.Type) == "" || strings.TrimSpace(payload.To) == "" {
		logger.Debugw("worker_notification_send_skip_invalid_payload",
			"device_id", payload.DeviceID,
			"type", payload.Type,
		)
		return nil
	}
	if c.deliverer == nil {
		logger.Warnw("worker_notification_send_skip_deliverer_nil", "device_id", payload.DeviceID, "type", payload.Type)
		return nil
	}
	if err := c.deliverer.Deliver(ctx, payload); err != nil {
		logger.Debugw("worker_notification_send_failed",
			"device_id", payload.DeviceID,
			"type", payload.Type,
			"error", err,
		)
	}
	return nil
}
