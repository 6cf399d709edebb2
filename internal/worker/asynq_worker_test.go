package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/notify"
	"github.com/storefront-next/internal/queue"

	"github.com/hibiken/asynq"
)

type recordingDeliverer struct {
	messages []notify.Message
	err      error
}

func (d *recordingDeliverer) Deliver(_ context.Context, msg notify.Message) error {
	d.messages = append(d.messages, msg)
	return d.err
}

func TestHandleNotificationSendDelivers(t *testing.T) {
	deliverer := &recordingDeliverer{err: errors.New("relay down")}
	consumer := NewConsumer(deliverer)
	task, err := queue.NewNotificationTask(queue.NotificationPayload{
		DeviceID: "dev",
		Type:     constants.NotificationTypeLogin,
		To:       "a@x.com",
		Username: "alice",
	})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if err := consumer.handleNotificationSend(context.Background(), task); err != nil {
		t.Fatalf("send failure should not fail the task: %v", err)
	}
	if len(deliverer.messages) != 1 || deliverer.messages[0].DeviceID != "dev" {
		t.Fatalf("unexpected delivered messages: %+v", deliverer.messages)
	}
}

func TestHandleNotificationSendSkipsInvalidPayload(t *testing.T) {
	deliverer := &recordingDeliverer{}
	consumer := NewConsumer(deliverer)

	if err := consumer.handleNotificationSend(context.Background(), asynq.NewTask(queue.TaskNotificationSend, []byte("{"))); err != nil {
		t.Fatalf("malformed payload should be dropped: %v", err)
	}
	task, _ := queue.NewNotificationTask(queue.NotificationPayload{Type: constants.NotificationTypeLogin})
	if err := consumer.handleNotificationSend(context.Background(), task); err != nil {
		t.Fatalf("payload without receiver should be dropped: %v", err)
	}
	if len(deliverer.messages) != 0 {
		t.Fatalf("expected no deliveries, got %d", len(deliverer.messages))
	}
}

func TestNewServiceRequiresQueue(t *testing.T) {
	if _, err := NewService(&config.QueueConfig{Enabled: false}, NewConsumer(nil)); err == nil {
		t.Fatalf("expected disabled queue error")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil); err == nil {
		t.Fatalf("expected nil consumer error")
	}
}
