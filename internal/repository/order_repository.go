package repository

import (
	"context"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/kvstore"
	"github.com/storefront-next/internal/models"
)

// AddressRepository 收货地址持久化接口
type AddressRepository interface {
	Load(ctx context.Context) ([]models.Address, bool, error)
	Save(ctx context.Context, addresses []models.Address) error
}

// OrderRepository 订单历史持久化接口（新订单在前）
type OrderRepository interface {
	Load(ctx context.Context) ([]models.Order, bool, error)
	Save(ctx context.Context, orders []models.Order) error
}

// KVAddressRepository 键值存储实现（键 @user_addresses）
type KVAddressRepository struct {
	doc blob
}

// NewAddressRepository 创建地址仓库
func NewAddressRepository(store kvstore.Store) *KVAddressRepository {
	return &KVAddressRepository{doc: newBlob(store, constants.StorageKeyAddresses)}
}

// Load 读取地址列表
func (r *KVAddressRepository) Load(ctx context.Context) ([]models.Address, bool, error) {
	var items []models.Address
	found, err := r.doc.load(ctx, &items)
	if err != nil || !found {
		return nil, found, err
	}
	return items, true, nil
}

// Save 覆盖写入地址列表
func (r *KVAddressRepository) Save(ctx context.Context, addresses []models.Address) error {
	if addresses == nil {
		addresses = []models.Address{}
	}
	return r.doc.save(ctx, addresses)
}

// KVOrderRepository 键值存储实现（键 @user_orders）
type KVOrderRepository struct {
	doc blob
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(store kvstore.Store) *KVOrderRepository {
	return &KVOrderRepository{doc: newBlob(store, constants.StorageKeyOrders)}
}

// Load 读取订单历史
func (r *KVOrderRepository) Load(ctx context.Context) ([]models.Order, bool, error) {
	var items []models.Order
	found, err := r.doc.load(ctx, &items)
	if err != nil || !found {
		return nil, found, err
	}
	return items, true, nil
}

// Save 覆盖写入订单历史
func (r *KVOrderRepository) Save(ctx context.Context, orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	return r.doc.save(ctx, orders)
}
