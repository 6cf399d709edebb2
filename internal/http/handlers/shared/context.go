package shared

import (
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetDeviceID 读取设备中间件写入的设备 ID。
func GetDeviceID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(constants.ContextKeyDeviceID)
}

// GetStorefront 读取当前设备的 storefront，缺失时直接写错误响应。
func GetStorefront(c *gin.Context) (*service.Storefront, bool) {
	value, exists := c.Get(constants.ContextKeyStorefront)
	if !exists {
		RespondError(c, response.CodeBadRequest, "error.device_id_invalid", nil)
		return nil, false
	}
	storefront, ok := value.(*service.Storefront)
	if !ok || storefront == nil {
		RespondError(c, response.CodeInternal, "error.storefront_unavailable", nil)
		return nil, false
	}
	return storefront, true
}

// GetUserID 读取 JWT 中间件写入的用户 ID。
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(constants.ContextKeyUserID)
	if userID == "" {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return "", false
	}
	return userID, true
}
