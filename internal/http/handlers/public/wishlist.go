package public

import (
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
)

// WishlistItemRequest 加入心愿单请求
type WishlistItemRequest struct {
	ProductID int          `json:"product_id" binding:"required"`
	Title     string       `json:"title"`
	Price     models.Money `json:"price"`
	Image     string       `json:"image"`
	Category  string       `json:"category"`
}

// GetWishlist 获取心愿单
func (h *Handler) GetWishlist(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"items": storefront.Wishlist.Items()})
}

// AddWishlistItem 加入心愿单（已存在时保持原记录）
func (h *Handler) AddWishlistItem(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	var req WishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.ProductID <= 0 {
		respondError(c, response.CodeBadRequest, "error.product_invalid", nil)
		return
	}
	items := storefront.Wishlist.Add(models.WishlistItem{
		ID:       req.ProductID,
		Title:    req.Title,
		Price:    req.Price,
		Image:    req.Image,
		Category: req.Category,
	})
	response.Success(c, gin.H{"items": items})
}

// RemoveWishlistItem 移出心愿单
func (h *Handler) RemoveWishlistItem(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	id, ok := parseIntParam(c, "id", "error.product_invalid")
	if !ok {
		return
	}
	response.Success(c, gin.H{"items": storefront.Wishlist.Remove(id)})
}

// ClearWishlist 清空心愿单
func (h *Handler) ClearWishlist(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"items": storefront.Wishlist.Clear()})
}
