package public

import (
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结账请求，支付结果由客户端支付流程给出
type CheckoutRequest struct {
	AddressID        string `json:"address_id"`
	PaymentSucceeded bool   `json:"payment_succeeded"`
	PaymentID        string `json:"payment_id"`
	FailureReason    string `json:"failure_reason"`
}

// PreviewCheckout 结账预览：金额汇总与默认收货地址
func (h *Handler) PreviewCheckout(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	response.Success(c, storefront.Checkout.Preview())
}

// Checkout 提交结账
func (h *Handler) Checkout(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := storefront.Checkout.Checkout(c.Request.Context(), service.CheckoutInput{
		AddressID:        req.AddressID,
		PaymentSucceeded: req.PaymentSucceeded,
		PaymentID:        req.PaymentID,
		FailureReason:    req.FailureReason,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	if !result.Success {
		response.ErrorWithData(c, response.CodeBadRequest, result.Reason, result)
		return
	}
	response.SuccessWithMsg(c, "Order placed successfully", result)
}
