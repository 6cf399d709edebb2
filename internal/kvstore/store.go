package kvstore

import (
	"context"
	"errors"
	"strings"

	"github.com/storefront-next/internal/constants"
)

// ErrKeyRequired 空键
var ErrKeyRequired = errors.New("kvstore: key is required")

// Store 设备本地持久化键值存储
// 语义：按键最后写入者生效，不提供 CAS。
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend 存储后端，按命名空间（设备）隔离出独立的 Store
type Backend interface {
	Name() string
	For(namespace string) Store
	Close() error
}

// NormalizeNamespace 规范化命名空间
func NormalizeNamespace(namespace string) string {
	trimmed := strings.TrimSpace(namespace)
	if trimmed == "" {
		return constants.StorageNamespaceDefault
	}
	return trimmed
}

func normalizeKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", ErrKeyRequired
	}
	return trimmed, nil
}
