package public

import (
	"strings"

	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, err := h.Catalog.ListProducts(c.Request.Context(), queryInt(c, "limit", 0), queryInt(c, "skip", 0))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, page)
}

// SearchProducts 搜索商品
func (h *Handler) SearchProducts(c *gin.Context) {
	page, err := h.Catalog.Search(c.Request.Context(), c.Query("q"), queryInt(c, "limit", 0), queryInt(c, "skip", 0))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, page)
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIntParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	product, err := h.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, product)
}

// ListCategories 分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, gin.H{"items": categories})
}

// ListCategoryProducts 分类下的商品
func (h *Handler) ListCategoryProducts(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	page, err := h.Catalog.ListByCategory(c.Request.Context(), slug, queryInt(c, "limit", 0), queryInt(c, "skip", 0))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, page)
}
