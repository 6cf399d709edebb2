package notify

import (
	"context"
	"sync"

	"github.com/storefront-next/internal/kvstore"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

// LogSink 按设备写通知日志
type LogSink interface {
	Append(ctx context.Context, deviceID string, entry models.NotificationLog) error
}

// KVLogSink 基于键值后端的日志写入，每个设备复用同一个仓库实例以串行化追加
type KVLogSink struct {
	backend kvstore.Backend
	limit   int

	mu    sync.Mutex
	repos map[string]repository.NotificationLogRepository
}

// NewKVLogSink 创建日志写入器
func NewKVLogSink(backend kvstore.Backend, limit int) *KVLogSink {
	return &KVLogSink{
		backend: backend,
		limit:   limit,
		repos:   make(map[string]repository.NotificationLogRepository),
	}
}

// Append 追加一条日志
func (s *KVLogSink) Append(ctx context.Context, deviceID string, entry models.NotificationLog) error {
	return s.repo(deviceID).Append(ctx, entry, s.limit)
}

func (s *KVLogSink) repo(deviceID string) repository.NotificationLogRepository {
	namespace := kvstore.NormalizeNamespace(deviceID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if repo, ok := s.repos[namespace]; ok {
		return repo
	}
	repo := repository.NewNotificationLogRepository(s.backend.For(namespace))
	s.repos[namespace] = repo
	return repo
}
