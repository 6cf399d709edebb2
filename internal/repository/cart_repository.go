package repository

import (
	"context"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/kvstore"
	"github.com/storefront-next/internal/models"
)

// CartRepository 购物车持久化接口
type CartRepository interface {
	Load(ctx context.Context) ([]models.CartItem, bool, error)
	Save(ctx context.Context, items []models.CartItem) error
}

// KVCartRepository 键值存储实现（键 @ecomm_cart）
type KVCartRepository struct {
	doc blob
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(store kvstore.Store) *KVCartRepository {
	return &KVCartRepository{doc: newBlob(store, constants.StorageKeyCart)}
}

// Load 读取购物车
func (r *KVCartRepository) Load(ctx context.Context) ([]models.CartItem, bool, error) {
	var items []models.CartItem
	found, err := r.doc.load(ctx, &items)
	if err != nil || !found {
		return nil, found, err
	}
	return items, true, nil
}

// Save 覆盖写入购物车
func (r *KVCartRepository) Save(ctx context.Context, items []models.CartItem) error {
	if items == nil {
		items = []models.CartItem{}
	}
	return r.doc.save(ctx, items)
}
