package public

import (
	"strings"

	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListOrders 订单历史（新订单在前）
func (h *Handler) ListOrders(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.NormalizePagination(queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	orders := storefront.Profile.Orders()
	start, end := handlershared.PageBounds(len(orders), page, pageSize)
	total := int64(len(orders))
	response.SuccessWithPage(c, orders[start:end], response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}

// GetOrder 订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	order, found := storefront.Profile.Order(strings.TrimSpace(c.Param("id")))
	if !found {
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}
	response.Success(c, order)
}
