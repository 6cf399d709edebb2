package public

import (
	"errors"

	"github.com/storefront-next/internal/catalog"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var sessionErrorRules = []mappedHandlerError{
	{target: service.ErrAuthNotReady, code: response.CodeServiceUnavailable, key: "error.auth_not_ready"},
	{target: service.ErrAuthRequired, code: response.CodeUnauthorized, key: "error.unauthorized"},
}

var registerErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrUsernameRequired, code: response.CodeBadRequest, key: "error.username_required"},
	{target: service.ErrEmailExists, code: response.CodeConflict, key: "error.email_exists"},
	{target: service.ErrCredentialStoreFailed, code: response.CodeInternal, key: "error.register_failed"},
	{target: service.ErrCredentialPersistFailed, code: response.CodeInternal, key: "error.register_failed"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidProduct, code: response.CodeBadRequest, key: "error.product_invalid"},
	{target: catalog.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: catalog.ErrCatalogUnavailable, code: response.CodeBadGateway, key: "error.catalog_unavailable"},
}

var addressErrorRules = []mappedHandlerError{
	{target: service.ErrAddressInvalid, code: response.CodeBadRequest, key: "error.address_invalid"},
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, key: "error.address_not_found"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrAddressRequired, code: response.CodeBadRequest, key: "error.address_required"},
	{target: service.ErrAddressNotFound, code: response.CodeNotFound, key: "error.address_not_found"},
	{target: service.ErrOrderAmountTooLow, code: response.CodeBadRequest, key: "error.order_amount_too_low"},
	{target: service.ErrOrderInvalid, code: response.CodeBadRequest, key: "error.order_invalid"},
}

var catalogErrorRules = []mappedHandlerError{
	{target: catalog.ErrInvalidQuery, code: response.CodeBadRequest, key: "error.catalog_query_invalid"},
	{target: catalog.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: catalog.ErrCatalogUnavailable, code: response.CodeBadGateway, key: "error.catalog_unavailable"},
}

func respondRegisterError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(sessionErrorRules, registerErrorRules), response.CodeInternal, "error.register_failed")
}

func respondLoginError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(sessionErrorRules, loginErrorRules), response.CodeInternal, "error.login_failed")
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(sessionErrorRules, cartErrorRules), response.CodeInternal, "error.internal")
}

func respondAddressError(c *gin.Context, err error) {
	respondWithMappedError(c, err, addressErrorRules, response.CodeInternal, "error.internal")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(sessionErrorRules, checkoutErrorRules), response.CodeInternal, "error.checkout_failed")
}

func respondCatalogError(c *gin.Context, err error) {
	respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.catalog_unavailable")
}
