package notify

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/metrics"
	"github.com/storefront-next/internal/models"
)

// Enqueuer 将通知交给异步队列
type Enqueuer interface {
	Enabled() bool
	EnqueueNotification(ctx context.Context, msg Message) error
}

// Dispatcher 通知调度：调用方永不阻塞，结果只写日志与指标
type Dispatcher struct {
	sender  Sender
	sink    LogSink
	queue   Enqueuer
	timeout time.Duration
	now     func() time.Time

	wg sync.WaitGroup
}

// NewDispatcher 创建调度器；queue 为空或未启用时在后台 goroutine 内直接发送
func NewDispatcher(sender Sender, sink LogSink, queue Enqueuer, timeout time.Duration) *Dispatcher {
	if sender == nil {
		sender = NoopSender{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		sender:  sender,
		sink:    sink,
		queue:   queue,
		timeout: timeout,
		now:     time.Now,
	}
}

// Sender 当前发送器
func (d *Dispatcher) Sender() Sender {
	return d.sender
}

// Dispatch 异步分发一条通知
func (d *Dispatcher) Dispatch(msg Message) {
	if d.queue != nil && d.queue.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		err := d.queue.EnqueueNotification(ctx, msg)
		cancel()
		if err == nil {
			return
		}
		logger.Warnw("notification_enqueue_failed",
			"device_id", msg.DeviceID,
			"type", msg.Type,
			"error", err,
		)
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		_ = d.Deliver(context.Background(), msg)
	}()
}

// Deliver 同步发送并记录结果（worker 与后台 goroutine 共用）
func (d *Dispatcher) Deliver(ctx context.Context, msg Message) error {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	err := d.sender.Send(sendCtx, msg)
	cancel()

	metrics.RecordNotification(msg.Type, err == nil)
	kind := msg.Type
	if err != nil {
		kind += constants.NotificationFailedSuffix
		logger.Warnw("notification_send_failed",
			"device_id", msg.DeviceID,
			"type", msg.Type,
			"sender", d.sender.Name(),
			"error", err,
		)
	}
	d.record(ctx, msg, kind)
	return err
}

// Wait 等待后台发送结束（关闭与测试使用）
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) record(ctx context.Context, msg Message, kind string) {
	if d.sink == nil {
		return
	}
	entry := models.NotificationLog{
		Type:      kind,
		To:        msg.To,
		Username:  msg.Username,
		Data:      logData(msg),
		Timestamp: d.now().UTC(),
	}
	if err := d.sink.Append(context.WithoutCancel(ctx), msg.DeviceID, entry); err != nil {
		logger.Warnw("notification_log_write_failed",
			"device_id", msg.DeviceID,
			"type", kind,
			"error", err,
		)
	}
}

// For 返回绑定到设备的通知器
func (d *Dispatcher) For(deviceID string) *DeviceNotifier {
	return &DeviceNotifier{dispatcher: d, deviceID: deviceID}
}

// DeviceNotifier 单设备通知入口
type DeviceNotifier struct {
	dispatcher *Dispatcher
	deviceID   string
}

func (n *DeviceNotifier) Registration(to, username string) {
	n.send(Message{Type: constants.NotificationTypeRegistration, To: to, Username: username})
}

func (n *DeviceNotifier) Login(to, username string) {
	n.send(Message{Type: constants.NotificationTypeLogin, To: to, Username: username})
}

func (n *DeviceNotifier) OrderSuccess(to, username string, order models.Order) {
	n.send(Message{
		Type:     constants.NotificationTypeOrderSuccess,
		To:       to,
		Username: username,
		Order:    NewOrderPayload(order),
	})
}

func (n *DeviceNotifier) OrderFailure(to, username, orderID, reason string) {
	if strings.TrimSpace(reason) == "" {
		reason = constants.OrderFailureReasonDefault
	}
	n.send(Message{
		Type:     constants.NotificationTypeOrderFailure,
		To:       to,
		Username: username,
		Order:    &OrderPayload{ID: orderID},
		Reason:   reason,
	})
}

func (n *DeviceNotifier) send(msg Message) {
	if n == nil || n.dispatcher == nil {
		return
	}
	msg.DeviceID = n.deviceID
	n.dispatcher.Dispatch(msg)
}
