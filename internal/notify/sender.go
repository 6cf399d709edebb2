package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"

	"github.com/tidwall/gjson"
)

var (
	ErrRelayRequestFailed  = errors.New("notify relay request failed")
	ErrRelayRejected       = errors.New("notify relay rejected message")
	ErrUnknownNotification = errors.New("unknown notification type")
)

const healthTimeout = 3 * time.Second

// Sender 通知发送能力
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Health(ctx context.Context) bool
	Name() string
}

// NewSender 按配置选择中继实现或空实现
func NewSender(cfg config.NotifyConfig) Sender {
	if !cfg.Enabled || strings.TrimSpace(cfg.BaseURL) == "" {
		return NoopSender{}
	}
	return NewRelaySender(cfg.BaseURL, cfg.Timeout())
}

// RelaySender 通过 HTTP 调用邮件中继服务
type RelaySender struct {
	baseURL string
	client  *http.Client
}

// NewRelaySender 创建中继发送器，timeout 约束单次请求
func NewRelaySender(baseURL string, timeout time.Duration) *RelaySender {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RelaySender{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Name 发送器名称
func (s *RelaySender) Name() string {
	return "relay"
}

// Send 发送一条通知；非 2xx、success=false 或超时均视为失败
func (s *RelaySender) Send(ctx context.Context, msg Message) error {
	path, ok := relayPath(msg.Type)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNotification, msg.Type)
	}
	body, err := json.Marshal(relayBody(msg))
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRelayRequestFailed, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRelayRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: http status %d", ErrRelayRequestFailed, resp.StatusCode)
	}
	result := gjson.ParseBytes(payload)
	if !result.Get("success").Bool() {
		reason := strings.TrimSpace(result.Get("error").String())
		if reason == "" {
			reason = "failed to send email"
		}
		return fmt.Errorf("%w: %s", ErrRelayRejected, reason)
	}
	return nil
}

// Health 探测中继服务 /health
func (s *RelaySender) Health(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+constants.RelayPathHealth, nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 16<<10))
	if err != nil {
		return false
	}
	return gjson.GetBytes(payload, "status").String() == "OK"
}

// NoopSender 中继未配置时使用，不发送任何请求
type NoopSender struct{}

// Name 发送器名称
func (NoopSender) Name() string {
	return "noop"
}

// Send 直接返回成功
func (NoopSender) Send(context.Context, Message) error {
	return nil
}

// Health 空实现始终可用
func (NoopSender) Health(context.Context) bool {
	return true
}
