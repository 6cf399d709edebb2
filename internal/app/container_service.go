package app

import (
	"context"

	"github.com/storefront-next/internal/provider"
)

// ContainerService 持有依赖容器的生命周期，停止时刷新设备状态并释放连接
type ContainerService struct {
	container *provider.Container
}

// NewContainerService 创建容器服务
func NewContainerService(container *provider.Container) *ContainerService {
	return &ContainerService{container: container}
}

// Name 服务名称
func (s *ContainerService) Name() string {
	return "container"
}

// Start 阻塞直到退出信号
func (s *ContainerService) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// Stop 关闭容器
func (s *ContainerService) Stop(ctx context.Context) error {
	if s == nil || s.container == nil {
		return nil
	}
	return s.container.Close(ctx)
}
