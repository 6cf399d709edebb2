package public

import (
	"context"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加入购物车请求
// 只传 product_id 时从商品目录补全标题、价格与图片
type CartItemRequest struct {
	ProductID   int           `json:"product_id" binding:"required"`
	Quantity    *int          `json:"quantity"`
	Title       string        `json:"title"`
	Price       *models.Money `json:"price"`
	Description string        `json:"description"`
	Image       string        `json:"image"`
}

// CartQuantityRequest 修改数量请求
type CartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartResponse 购物车响应
type CartResponse struct {
	Items   []models.CartItem   `json:"items"`
	Summary service.CartSummary `json:"summary"`
}

func (h *Handler) cartResponse(storefront *service.Storefront, items []models.CartItem) CartResponse {
	if items == nil {
		items = storefront.Cart.Snapshot()
	}
	return CartResponse{Items: items, Summary: storefront.CartSummary()}
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	response.Success(c, h.cartResponse(storefront, nil))
}

// GetCartSummary 获取购物车金额汇总
func (h *Handler) GetCartSummary(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	response.Success(c, storefront.CartSummary())
}

// AddCartItem 加入购物车（需登录）
func (h *Handler) AddCartItem(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	item, err := h.resolveCartItem(c.Request.Context(), req)
	if err != nil {
		respondCartError(c, err)
		return
	}
	items, err := storefront.AddToCart(c.Request.Context(), item)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, h.cartResponse(storefront, items))
}

func (h *Handler) resolveCartItem(ctx context.Context, req CartItemRequest) (models.CartItem, error) {
	item := models.CartItem{
		ID:          req.ProductID,
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.Price != nil && req.Title != "" {
		item.Price = *req.Price
		return item, nil
	}
	if req.ProductID <= 0 || h.Catalog == nil {
		return models.CartItem{}, service.ErrInvalidProduct
	}
	product, err := h.Catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return models.CartItem{}, err
	}
	return product.ToCartItem(item.Quantity), nil
}

// UpdateCartItemQuantity 修改数量，数量小于 1 时移除
func (h *Handler) UpdateCartItemQuantity(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	id, ok := parseIntParam(c, "id", "error.product_invalid")
	if !ok {
		return
	}
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	items := storefront.Cart.UpdateQuantity(id, *req.Quantity)
	response.Success(c, h.cartResponse(storefront, items))
}

// RemoveCartItem 移除购物车项（不存在时无变化）
func (h *Handler) RemoveCartItem(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	id, ok := parseIntParam(c, "id", "error.product_invalid")
	if !ok {
		return
	}
	items := storefront.Cart.RemoveItem(id)
	response.Success(c, h.cartResponse(storefront, items))
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	items := storefront.Cart.Clear()
	response.Success(c, h.cartResponse(storefront, items))
}
