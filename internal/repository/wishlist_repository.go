package repository

import (
	"context"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/kvstore"
	"github.com/storefront-next/internal/models"
)

// WishlistRepository 心愿单持久化接口
type WishlistRepository interface {
	Load(ctx context.Context) ([]models.WishlistItem, bool, error)
	Save(ctx context.Context, items []models.WishlistItem) error
}

// KVWishlistRepository 键值存储实现（键 @wishlist）
type KVWishlistRepository struct {
	doc blob
}

// NewWishlistRepository 创建心愿单仓库
func NewWishlistRepository(store kvstore.Store) *KVWishlistRepository {
	return &KVWishlistRepository{doc: newBlob(store, constants.StorageKeyWishlist)}
}

// Load 读取心愿单
func (r *KVWishlistRepository) Load(ctx context.Context) ([]models.WishlistItem, bool, error) {
	var items []models.WishlistItem
	found, err := r.doc.load(ctx, &items)
	if err != nil || !found {
		return nil, found, err
	}
	return items, true, nil
}

// Save 覆盖写入心愿单
func (r *KVWishlistRepository) Save(ctx context.Context, items []models.WishlistItem) error {
	if items == nil {
		items = []models.WishlistItem{}
	}
	return r.doc.save(ctx, items)
}
