package public

import (
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddressRequest 新增地址请求
type AddressRequest struct {
	Name      string `json:"name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"is_default"`
}

// AddressPatchRequest 地址局部更新请求，未出现的字段保持不变
type AddressPatchRequest struct {
	Name      *string `json:"name"`
	Street    *string `json:"street"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	ZipCode   *string `json:"zip_code"`
	Phone     *string `json:"phone"`
	IsDefault *bool   `json:"is_default"`
}

// ListAddresses 地址列表
func (h *Handler) ListAddresses(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"items": storefront.Profile.Addresses()})
}

// CreateAddress 新增地址
func (h *Handler) CreateAddress(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	address, err := storefront.Profile.AddAddress(service.AddressInput{
		Name:      req.Name,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Phone:     req.Phone,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		respondAddressError(c, err)
		return
	}
	response.Success(c, address)
}

// UpdateAddress 局部更新地址
func (h *Handler) UpdateAddress(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	id := strings.TrimSpace(c.Param("id"))
	var req AddressPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	address, found, err := storefront.Profile.UpdateAddress(id, service.AddressPatch{
		Name:      req.Name,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Phone:     req.Phone,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		respondAddressError(c, err)
		return
	}
	if !found {
		respondError(c, response.CodeNotFound, "error.address_not_found", nil)
		return
	}
	response.Success(c, address)
}

// DeleteAddress 删除地址（不会自动指定新的默认地址）
func (h *Handler) DeleteAddress(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	if !storefront.Profile.DeleteAddress(strings.TrimSpace(c.Param("id"))) {
		respondError(c, response.CodeNotFound, "error.address_not_found", nil)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
