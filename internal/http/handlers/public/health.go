package public

import (
	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Health 服务健康检查（包含邮件中继与 Redis 状态）
func (h *Handler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	relay := "disabled"
	if h.Sender != nil && h.Sender.Name() != "noop" {
		relay = "down"
		if h.Sender.Health(ctx) {
			relay = "ok"
		}
	}
	redisStatus := "disabled"
	if cache.Enabled() {
		redisStatus = "ok"
		if err := cache.Ping(ctx); err != nil {
			redisStatus = "down"
		}
	}
	storage := ""
	if h.Backend != nil {
		storage = h.Backend.Name()
	}
	response.Success(c, gin.H{
		"status":      "OK",
		"storage":     storage,
		"relay":       relay,
		"redis":       redisStatus,
		"storefronts": h.Registry.Len(),
	})
}
