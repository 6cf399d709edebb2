package models

import "time"

// JSON 通用键值数据
type JSON map[string]interface{}

// NotificationLog 通知发送记录（仅本地留存，尽力而为）
type NotificationLog struct {
	Type      string    `json:"type"`
	To        string    `json:"to"`
	Username  string    `json:"username"`
	Data      JSON      `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
