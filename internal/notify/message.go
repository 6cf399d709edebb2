package notify

import (
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
)

// UserPayload 邮件中的用户信息
type UserPayload struct {
	Username string `json:"username"`
}

// OrderItemPayload 订单行
type OrderItemPayload struct {
	Title    string       `json:"title"`
	Quantity int          `json:"quantity"`
	Price    models.Money `json:"price"`
}

// OrderPayload 订单摘要（失败通知只带 ID）
type OrderPayload struct {
	ID    string             `json:"id"`
	Items []OrderItemPayload `json:"items,omitempty"`
	Total *models.Money      `json:"total,omitempty"`
	Date  *time.Time         `json:"date,omitempty"`
}

// Message 一次通知请求，同时作为队列任务载荷
type Message struct {
	DeviceID string        `json:"device_id"`
	Type     string        `json:"type"`
	To       string        `json:"to"`
	Username string        `json:"username"`
	Order    *OrderPayload `json:"order,omitempty"`
	Reason   string        `json:"reason,omitempty"`
}

// NewOrderPayload 从订单构建成功通知载荷
func NewOrderPayload(order models.Order) *OrderPayload {
	items := make([]OrderItemPayload, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemPayload{
			Title:    item.Title,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	total := order.Total
	date := order.Date
	return &OrderPayload{
		ID:    order.ID,
		Items: items,
		Total: &total,
		Date:  &date,
	}
}

// relayPath 通知类型对应的中继接口
func relayPath(kind string) (string, bool) {
	switch kind {
	case constants.NotificationTypeRegistration:
		return constants.RelayPathRegistration, true
	case constants.NotificationTypeLogin:
		return constants.RelayPathLogin, true
	case constants.NotificationTypeOrderSuccess:
		return constants.RelayPathOrderSuccess, true
	case constants.NotificationTypeOrderFailure:
		return constants.RelayPathOrderFailure, true
	default:
		return "", false
	}
}

// relayBody 中继接口请求体
func relayBody(msg Message) map[string]interface{} {
	switch msg.Type {
	case constants.NotificationTypeRegistration, constants.NotificationTypeLogin:
		return map[string]interface{}{
			"to":       msg.To,
			"username": msg.Username,
		}
	case constants.NotificationTypeOrderFailure:
		return map[string]interface{}{
			"to":     msg.To,
			"user":   UserPayload{Username: msg.Username},
			"order":  msg.Order,
			"reason": msg.Reason,
		}
	default:
		return map[string]interface{}{
			"to":    msg.To,
			"user":  UserPayload{Username: msg.Username},
			"order": msg.Order,
		}
	}
}

// logData 记录到通知日志中的附加数据
func logData(msg Message) models.JSON {
	if msg.Order == nil && msg.Reason == "" {
		return nil
	}
	data := models.JSON{}
	if msg.Order != nil {
		data["order_id"] = msg.Order.ID
		if msg.Order.Total != nil {
			data["total"] = msg.Order.Total.String()
		}
		if len(msg.Order.Items) > 0 {
			data["item_count"] = len(msg.Order.Items)
		}
	}
	if msg.Reason != "" {
		data["reason"] = msg.Reason
	}
	return data
}
