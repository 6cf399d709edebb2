package public

import (
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest 资料更新请求
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// GetProfile 获取展示用资料（未设置时回退到会话信息）
func (h *Handler) GetProfile(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	profile := storefront.Profile.Profile()
	if user := storefront.Auth.CurrentUser(); user != nil {
		if profile.Username == "" {
			profile.Username = user.Username
		}
		if profile.Email == "" {
			profile.Email = user.Email
		}
	}
	response.Success(c, profile)
}

// UpdateProfile 更新展示用资料（不影响登录账号）
func (h *Handler) UpdateProfile(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	profile, err := storefront.Profile.UpdateProfile(req.Username, req.Email)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrProfileInvalid, code: response.CodeBadRequest, key: "error.profile_invalid"},
			{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
		}, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, profile)
}
