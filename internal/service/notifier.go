package service

import "github.com/storefront-next/internal/models"

// Notifier 事务通知，所有方法立即返回，发送结果只记录不回传
type Notifier interface {
	Registration(to, username string)
	Login(to, username string)
	OrderSuccess(to, username string, order models.Order)
	OrderFailure(to, username, orderID, reason string)
}

// NopNotifier 不发送任何通知
type NopNotifier struct{}

func (NopNotifier) Registration(string, string) {}
func (NopNotifier) Login(string, string) {}
func (NopNotifier) OrderSuccess(string, string, models.Order) {}
func (NopNotifier) OrderFailure(string, string, string, string) {}
