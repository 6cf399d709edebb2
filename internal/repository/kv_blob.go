package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/storefront-next/internal/kvstore"
)

var (
	// ErrStoreUnavailable 未绑定存储
	ErrStoreUnavailable = errors.New("repository: store unavailable")
	// ErrCorruptDocument 存储内容无法解析
	ErrCorruptDocument = errors.New("repository: corrupt document")
)

// blob 单键 JSON 文档读写
type blob struct {
	store kvstore.Store
	key   string
}

func newBlob(store kvstore.Store, key string) blob {
	return blob{store: store, key: key}
}

// load 读取并解析 JSON，返回是否存在
func (b blob) load(ctx context.Context, dest interface{}) (bool, error) {
	if b.store == nil {
		return false, ErrStoreUnavailable
	}
	raw, found, err := b.store.Get(ctx, b.key)
	if err != nil {
		return false, err
	}
	if !found || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("%w: decode %s failed: %w", ErrCorruptDocument, b.key, err)
	}
	return true, nil
}

func (b blob) save(ctx context.Context, value interface{}) error {
	if b.store == nil {
		return ErrStoreUnavailable
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s failed: %w", b.key, err)
	}
	return b.store.Set(ctx, b.key, string(payload))
}

func (b blob) remove(ctx context.Context) error {
	if b.store == nil {
		return ErrStoreUnavailable
	}
	return b.store.Remove(ctx, b.key)
}
