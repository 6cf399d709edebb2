package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/catalog"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/kvstore"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/notify"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Backend     kvstore.Backend

	// Notification
	Sender     notify.Sender
	Dispatcher *notify.Dispatcher

	// Services
	Registry     *service.Registry
	TokenService *service.TokenService
	Catalog      *catalog.Client
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	backend, err := kvstore.Open(&cfg.Storage, &cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("open storage backend failed: %w", err)
	}
	logger.Infow("provider_storage_ready", "driver", backend.Name())

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Backend:     backend,
	}
	c.initNotification()
	c.initServices()
	return c, nil
}

func (c *Container) initNotification() {
	c.Sender = notify.NewSender(c.Config.Notify)
	sink := notify.NewKVLogSink(c.Backend, constants.NotificationLogLimit)
	var enqueuer notify.Enqueuer
	if c.QueueClient != nil {
		enqueuer = c.QueueClient
	}
	c.Dispatcher = notify.NewDispatcher(c.Sender, sink, enqueuer, c.Config.Notify.Timeout())
}

func (c *Container) initServices() {
	c.TokenService = service.NewTokenService(c.Config.UserJWT)
	c.Catalog = catalog.NewClient(c.Config.Catalog)
	c.Registry = service.NewRegistry(c.Config, c.Backend, func(deviceID string) service.Notifier {
		return c.Dispatcher.For(deviceID)
	})
}

// Close 刷新所有设备的待写数据并释放资源
func (c *Container) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Registry != nil {
		errs = append(errs, c.Registry.Close(ctx))
	}
	if c.Dispatcher != nil {
		errs = append(errs, c.Dispatcher.Wait(ctx))
	}
	if c.QueueClient != nil {
		errs = append(errs, c.QueueClient.Close())
	}
	if c.Backend != nil {
		errs = append(errs, c.Backend.Close())
	}
	errs = append(errs, cache.Close())
	return errors.Join(errs...)
}
