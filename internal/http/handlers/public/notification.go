package public

import (
	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListNotificationLogs 本设备最近的邮件通知记录（新记录在前）
func (h *Handler) ListNotificationLogs(c *gin.Context) {
	storefront, ok := getStorefront(c)
	if !ok {
		return
	}
	logs, err := storefront.NotificationLogs(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.notification_logs_failed", err)
		return
	}
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	response.Success(c, gin.H{"items": logs})
}
