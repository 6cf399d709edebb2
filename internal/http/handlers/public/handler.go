package public

import "github.com/storefront-next/internal/provider"

// Handler 前台接口处理器入口
// 说明：所有接口均按 X-Device-ID 作用于对应设备的本地状态。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
