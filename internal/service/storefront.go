package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/kvstore"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/metrics"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// Storefront 单个设备的全部本地状态
type Storefront struct {
	DeviceID string
	Auth     *AuthService
	Cart     *CartStore
	Wishlist *WishlistStore
	Profile  *ProfileStore
	Checkout *CheckoutService

	repos  *repository.Set
	policy ShippingPolicy
}

// NewStorefront 基于设备命名空间创建 store 集合
func NewStorefront(cfg *config.Config, deviceID string, store kvstore.Store, notifier Notifier) *Storefront {
	if cfg == nil {
		cfg = config.Default()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	repos := repository.NewSet(store)
	timeout := cfg.Persist.WriteTimeout()

	auth := NewAuthService(cfg, repos, notifier)
	cart := NewCartStore(repos.Cart, timeout)
	wishlist := NewWishlistStore(repos.Wishlist, timeout)
	profile := NewProfileStore(repos, timeout)
	return &Storefront{
		DeviceID: deviceID,
		Auth:     auth,
		Cart:     cart,
		Wishlist: wishlist,
		Profile:  profile,
		Checkout: NewCheckoutService(cfg.Shop, auth, cart, profile, notifier),
		repos:    repos,
		policy:   NewShippingPolicy(cfg.Shop),
	}
}

// Hydrate 启动时恢复全部 store
func (f *Storefront) Hydrate(ctx context.Context) {
	f.Auth.Restore(ctx)
	f.Cart.Hydrate(ctx)
	f.Wishlist.Hydrate(ctx)
	f.Profile.Hydrate(ctx)
}

// AddToCart 加入购物车，需要已登录；未登录时不修改状态
func (f *Storefront) AddToCart(ctx context.Context, item models.CartItem) ([]models.CartItem, error) {
	if err := f.Auth.WaitReady(ctx); err != nil {
		return nil, err
	}
	if !f.Auth.Authenticated() {
		return nil, ErrAuthRequired
	}
	if item.ID <= 0 || item.Price.IsNegative() {
		return nil, ErrInvalidProduct
	}
	return f.Cart.AddItem(item), nil
}

// CartSummary 当前购物车金额汇总
func (f *Storefront) CartSummary() CartSummary {
	return f.Cart.Summary(f.policy)
}

// NotificationLogs 本设备的通知发送记录
func (f *Storefront) NotificationLogs(ctx context.Context) ([]models.NotificationLog, error) {
	return f.repos.NotificationLogs.List(ctx)
}

// Flush 等待全部后台落盘完成
func (f *Storefront) Flush(ctx context.Context) error {
	return errors.Join(
		f.Auth.Flush(ctx),
		f.Cart.Flush(ctx),
		f.Wishlist.Flush(ctx),
		f.Profile.Flush(ctx),
	)
}

// Close 落盘并停止后台协程
func (f *Storefront) Close(ctx context.Context) error {
	return errors.Join(
		f.Auth.Close(ctx),
		f.Cart.Close(ctx),
		f.Wishlist.Close(ctx),
		f.Profile.Close(ctx),
	)
}

// NotifierFactory 按设备创建通知器
type NotifierFactory func(deviceID string) Notifier

type registryEntry struct {
	storefront *Storefront
	ready      chan struct{}
}

// Registry 按设备 ID 懒加载 Storefront
type Registry struct {
	cfg       *config.Config
	backend   kvstore.Backend
	notifiers NotifierFactory

	mu      sync.Mutex
	entries map[string]*registryEntry
	closed  bool
}

// NewRegistry 创建设备注册表
func NewRegistry(cfg *config.Config, backend kvstore.Backend, notifiers NotifierFactory) *Registry {
	return &Registry{
		cfg:       cfg,
		backend:   backend,
		notifiers: notifiers,
		entries:   make(map[string]*registryEntry),
	}
}

// NormalizeDeviceID 校验设备 ID，空值使用默认命名空间
func NormalizeDeviceID(deviceID string) (string, error) {
	trimmed := strings.TrimSpace(deviceID)
	if trimmed == "" {
		return kvstore.NormalizeNamespace(""), nil
	}
	if !deviceIDPattern.MatchString(trimmed) {
		return "", ErrInvalidDeviceID
	}
	return trimmed, nil
}

// Get 获取设备的 Storefront，首次访问时创建并恢复状态
func (r *Registry) Get(ctx context.Context, deviceID string) (*Storefront, error) {
	id, err := NormalizeDeviceID(deviceID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	entry, ok := r.entries[id]
	if !ok {
		var notifier Notifier
		if r.notifiers != nil {
			notifier = r.notifiers(id)
		}
		entry = &registryEntry{
			storefront: NewStorefront(r.cfg, id, r.backend.For(id), notifier),
			ready:      make(chan struct{}),
		}
		r.entries[id] = entry
		metrics.SetActiveStorefronts(len(r.entries))
	}
	r.mu.Unlock()

	if !ok {
		entry.storefront.Hydrate(context.WithoutCancel(ctx))
		close(entry.ready)
		logger.Debugw("storefront_loaded", "device_id", id)
	}

	select {
	case <-entry.ready:
		return entry.storefront, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len 已加载的设备数量
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close 停止接收新设备并落盘全部 Storefront
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	entries := make([]*registryEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, entry)
	}
	r.mu.Unlock()

	var errs []error
	for _, entry := range entries {
		select {
		case <-entry.ready:
		case <-ctx.Done():
			return ctx.Err()
		}
		if err := entry.storefront.Close(ctx); err != nil {
			logger.Warnw("storefront_close_failed", "device_id", entry.storefront.DeviceID, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
