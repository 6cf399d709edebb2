package shared

import (
	"fmt"
	"strings"
)

// messages 错误提示文案，key 与接口错误码一一对应
var messages = map[string]string{
	"error.bad_request":              "invalid request",
	"error.unauthorized":             "please log in first",
	"error.forbidden":                "forbidden",
	"error.not_found":                "resource not found",
	"error.internal":                 "internal server error",
	"error.device_id_invalid":        "invalid X-Device-ID header",
	"error.storefront_unavailable":   "storefront unavailable",
	"error.auth_not_ready":           "session is still loading, retry shortly",
	"error.jwt_secret_missing":       "jwt secret is not configured",
	"error.auth_header_missing":      "authorization header is missing",
	"error.auth_header_invalid":      "authorization header is invalid",
	"error.token_invalid":            "token is invalid",
	"error.token_revoked":            "session has ended, please log in again",
	"error.token_issue_failed":       "failed to issue token",
	"error.email_invalid":            "please enter a valid email address",
	"error.username_required":        "username is required",
	"error.password_weak":            "password does not meet the policy",
	"error.email_exists":             "user with this email already exists",
	"error.invalid_credentials":      "invalid email or password",
	"error.register_failed":          "registration failed, please try again",
	"error.login_failed":             "login failed, please try again",
	"error.login_too_many":           "too many login attempts, retry in %d seconds",
	"error.rate_limited":             "too many requests, retry in %d seconds",
	"error.rate_limit_unavailable":   "rate limiter unavailable",
	"error.product_invalid":          "invalid product",
	"error.product_not_found":        "product not found",
	"error.cart_empty":               "your cart is empty",
	"error.cart_item_not_found":      "item is not in the cart",
	"error.address_invalid":          "name, street, city and phone are required",
	"error.address_not_found":        "address not found",
	"error.address_required":         "please add a delivery address",
	"error.order_invalid":            "invalid order",
	"error.order_not_found":          "order not found",
	"error.order_amount_too_low":     "order amount is below the minimum",
	"error.checkout_failed":          "checkout failed",
	"error.profile_invalid":          "invalid profile",
	"error.catalog_query_invalid":    "invalid catalog query",
	"error.catalog_unavailable":      "product catalog is unavailable",
	"error.notification_logs_failed": "failed to load notification logs",
}

// T 返回 key 对应的提示文案，未登记的 key 原样返回
func T(key string, args ...interface{}) string {
	msg, ok := messages[strings.TrimSpace(key)]
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
