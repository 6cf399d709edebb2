package public

import (
	"errors"
	"time"

	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	User      *models.Session `json:"user"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Register 注册账号（不会自动登录）
func (h *Handler) Register(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	session, err := storefront.Auth.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, service.ErrWeakPassword) {
			handlershared.RespondErrorWithMsg(c, response.CodeBadRequest, err.Error(), nil)
			return
		}
		respondRegisterError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Registration successful! Please login.", gin.H{"user": session})
}

// Login 登录并签发访问令牌
func (h *Handler) Login(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	session, err := storefront.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondLoginError(c, err)
		return
	}
	token, expiresAt, err := h.TokenService.GenerateUserJWT(session, storefront.DeviceID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.token_issue_failed", err)
		return
	}
	response.Success(c, LoginResponse{
		User:      session,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// Logout 退出登录（无条件成功）
func (h *Handler) Logout(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	storefront.Auth.Logout(c.Request.Context())
	response.Success(c, gin.H{"logged_out": true})
}

// GetSession 当前设备的会话状态（未登录时 user 为 null）
func (h *Handler) GetSession(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{
		"loading":       storefront.Auth.Loading(),
		"authenticated": storefront.Auth.Authenticated(),
		"user":          storefront.Auth.CurrentUser(),
	})
}

// GetCurrentUser 当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	user := storefront.Auth.CurrentUser()
	if user == nil {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return
	}
	response.Success(c, user)
}
