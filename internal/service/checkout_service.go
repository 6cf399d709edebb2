package service

import (
	"context"
	"strings"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/metrics"
	"github.com/storefront-next/internal/models"

	"github.com/google/uuid"
)

// CheckoutInput 结账参数；支付结果由调用方给出
type CheckoutInput struct {
	AddressID        string
	PaymentSucceeded bool
	PaymentID        string
	FailureReason    string
}

// CheckoutResult 结账结果
type CheckoutResult struct {
	Success   bool          `json:"success"`
	Order     *models.Order `json:"order,omitempty"`
	Reference string        `json:"reference"`
	PaymentID string        `json:"payment_id,omitempty"`
	Summary   CartSummary   `json:"summary"`
	Reason    string        `json:"reason,omitempty"`
}

// CheckoutService 结账流程
type CheckoutService struct {
	auth     *AuthService
	cart     *CartStore
	profile  *ProfileStore
	notifier Notifier
	policy   ShippingPolicy
	minTotal models.Money
}

// NewCheckoutService 创建结账服务
func NewCheckoutService(shop config.ShopConfig, auth *AuthService, cart *CartStore, profile *ProfileStore, notifier Notifier) *CheckoutService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &CheckoutService{
		auth:     auth,
		cart:     cart,
		profile:  profile,
		notifier: notifier,
		policy:   NewShippingPolicy(shop),
		minTotal: models.NewMoneyFromFloat(shop.MinOrderAmount),
	}
}

// CheckoutPreview 结账预览，商品与金额来自同一份快照
type CheckoutPreview struct {
	Items   []models.CartItem `json:"items"`
	Summary CartSummary       `json:"summary"`
	Address *models.Address   `json:"address"`
}

// Preview 结账前预览：预选地址与金额
func (s *CheckoutService) Preview() CheckoutPreview {
	items := s.cart.Snapshot()
	preview := CheckoutPreview{
		Items:   items,
		Summary: SummarizeCart(items, s.policy),
	}
	if address, ok := s.profile.DefaultAddress(); ok {
		preview.Address = &address
	}
	return preview
}

// Checkout 对购物车快照结账
// 成功：追加 completed 订单、扣除已下单商品、发送成功通知；失败：不生成订单，保留购物车，发送失败通知。
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if err := s.auth.WaitReady(ctx); err != nil {
		return nil, err
	}
	session := s.auth.CurrentUser()
	if session == nil {
		return nil, ErrAuthRequired
	}

	items := s.cart.Snapshot()
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	var (
		address models.Address
		found   bool
	)
	if id := strings.TrimSpace(input.AddressID); id != "" {
		if address, found = s.profile.Address(id); !found {
			return nil, ErrAddressNotFound
		}
	} else if address, found = s.profile.DefaultAddress(); !found {
		return nil, ErrAddressRequired
	}

	summary := SummarizeCart(items, s.policy)
	// 最低金额按商品小计校验，不含运费
	if summary.Subtotal.LessThan(s.minTotal.Decimal) {
		return nil, ErrOrderAmountTooLow
	}

	if !input.PaymentSucceeded {
		reason := strings.TrimSpace(input.FailureReason)
		if reason == "" {
			reason = constants.OrderFailureReasonDefault
		}
		reference := constants.IDPrefixOrder + uuid.NewString()
		logger.Warnw("checkout_payment_failed",
			"user_id", session.ID,
			"reference", reference,
			"total", summary.Total.String(),
			"reason", reason,
		)
		metrics.RecordCheckout("payment_failed")
		s.notifier.OrderFailure(session.Email, session.Username, reference, reason)
		return &CheckoutResult{
			Success:   false,
			Reference: reference,
			PaymentID: input.PaymentID,
			Summary:   summary,
			Reason:    reason,
		}, nil
	}

	order, err := s.profile.AddOrder(OrderInput{
		Items:   items,
		Total:   summary.Total,
		Status:  constants.OrderStatusCompleted,
		Address: address,
	})
	if err != nil {
		return nil, err
	}
	s.cart.RemoveOrdered(items)

	logger.Infow("checkout_completed",
		"user_id", session.ID,
		"order_id", order.ID,
		"total", order.Total.String(),
	)
	metrics.RecordCheckout("completed")
	s.notifier.OrderSuccess(session.Email, session.Username, order)
	return &CheckoutResult{
		Success:   true,
		Order:     &order,
		Reference: order.ID,
		PaymentID: input.PaymentID,
		Summary:   summary,
	}, nil
}
