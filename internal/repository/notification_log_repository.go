package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/kvstore"
	"github.com/storefront-next/internal/models"
)

// NotificationLogRepository 通知发送记录持久化接口
type NotificationLogRepository interface {
	List(ctx context.Context) ([]models.NotificationLog, error)
	Append(ctx context.Context, entry models.NotificationLog, limit int) error
}

// KVNotificationLogRepository 键值存储实现（键 @email_logs，只保留最近 limit 条）
type KVNotificationLogRepository struct {
	mu  sync.Mutex
	doc blob
}

// NewNotificationLogRepository 创建通知记录仓库
func NewNotificationLogRepository(store kvstore.Store) *KVNotificationLogRepository {
	return &KVNotificationLogRepository{doc: newBlob(store, constants.StorageKeyEmailLogs)}
}

// List 读取通知记录（旧记录在前）
func (r *KVNotificationLogRepository) List(ctx context.Context) ([]models.NotificationLog, error) {
	var items []models.NotificationLog
	if _, err := r.doc.load(ctx, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.NotificationLog{}
	}
	return items, nil
}

// Append 追加一条记录并截断到最近 limit 条
func (r *KVNotificationLogRepository) Append(ctx context.Context, entry models.NotificationLog, limit int) error {
	if limit <= 0 {
		limit = constants.NotificationLogLimit
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []models.NotificationLog
	if _, err := r.doc.load(ctx, &items); err != nil {
		if !errors.Is(err, ErrCorruptDocument) {
			return err
		}
		// 记录损坏时从空列表重新开始
		items = nil
	}
	items = append(items, entry)
	if len(items) > limit {
		items = items[len(items)-limit:]
	}
	return r.doc.save(ctx, items)
}
