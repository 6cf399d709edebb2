package router

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = constants.ContextKeyRequestID
const requestIDHeader = "X-Request-ID"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			constants.HeaderDeviceID,
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")
	exposeHeader := strings.Join([]string{requestIDHeader, constants.HeaderDeviceID}, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		c.Writer.Header().Set("Access-Control-Expose-Headers", exposeHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// 探活与指标抓取只记 debug 日志
var quietPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		log := sugar.With(
			"request_id", getRequestID(c),
			"device_id", c.GetString(constants.ContextKeyDeviceID),
			"user_id", c.GetString(constants.ContextKeyUserID),
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		switch {
		case len(c.Errors) > 0:
			log.Errorw("request", "errors", c.Errors.String())
		case isQuietPath(c.Request.URL.Path):
			log.Debugw("request")
		default:
			log.Infow("request")
		}
	}
}

func isQuietPath(path string) bool {
	_, ok := quietPaths[path]
	return ok
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// DeviceMiddleware 解析 X-Device-ID 并加载对应设备的 storefront
func DeviceMiddleware(registry *service.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if registry == nil {
			handlershared.RespondError(c, response.CodeInternal, "error.storefront_unavailable", nil)
			c.Abort()
			return
		}
		storefront, err := registry.Get(c.Request.Context(), c.GetHeader(constants.HeaderDeviceID))
		if err != nil {
			if errors.Is(err, service.ErrInvalidDeviceID) {
				handlershared.RespondError(c, response.CodeBadRequest, "error.device_id_invalid", nil)
			} else {
				handlershared.RespondError(c, response.CodeServiceUnavailable, "error.storefront_unavailable", err)
			}
			c.Abort()
			return
		}
		c.Set(constants.ContextKeyDeviceID, storefront.DeviceID)
		c.Set(constants.ContextKeyStorefront, storefront)
		c.Writer.Header().Set(constants.HeaderDeviceID, storefront.DeviceID)
		c.Next()
	}
}

// UserJWTAuthMiddleware 用户 JWT 鉴权中间件
// 令牌必须属于当前设备，且与设备上仍然有效的会话一致（退出登录后旧令牌立即失效）
func UserJWTAuthMiddleware(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil || !tokens.Configured() {
			handlershared.RespondError(c, response.CodeUnauthorized, "error.jwt_secret_missing", nil)
			c.Abort()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			handlershared.RespondError(c, response.CodeUnauthorized, "error.auth_header_missing", nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			handlershared.RespondError(c, response.CodeUnauthorized, "error.auth_header_invalid", nil)
			c.Abort()
			return
		}

		claims, err := tokens.ParseUserJWT(parts[1])
		if err != nil {
			handlershared.RespondError(c, response.CodeUnauthorized, "error.token_invalid", nil)
			c.Abort()
			return
		}

		storefront, ok := handlershared.GetStorefront(c)
		if !ok {
			c.Abort()
			return
		}
		if claims.DeviceID != storefront.DeviceID {
			handlershared.RespondError(c, response.CodeUnauthorized, "error.token_invalid", nil)
			c.Abort()
			return
		}
		if err := storefront.Auth.WaitReady(c.Request.Context()); err != nil {
			handlershared.RespondError(c, response.CodeServiceUnavailable, "error.auth_not_ready", nil)
			c.Abort()
			return
		}
		session := storefront.Auth.CurrentUser()
		if session == nil || session.ID != claims.UserID {
			handlershared.RespondError(c, response.CodeUnauthorized, "error.token_revoked", nil)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyUserEmail, claims.Email)
		c.Next()
	}
}
