package app

import (
	"os"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"

	"go.uber.org/zap"
)

// 启动模式
const (
	ModeAll    = "all"    // HTTP API，队列启用时同时消费通知
	ModeAPI    = "api"    // 仅 HTTP API
	ModeWorker = "worker" // 仅通知消费
)

const defaultShutdownTimeout = 10 * time.Second

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// normalizeOptions 补齐默认参数；停止超时至少覆盖两次落盘写入
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
		if opts.Config != nil {
			if persist := 2 * opts.Config.Persist.WriteTimeout(); persist > opts.ShutdownTimeout {
				opts.ShutdownTimeout = persist
			}
		}
	}
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	return opts
}
