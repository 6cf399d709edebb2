package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CartActionType 购物车动作类型
type CartActionType string

const (
	CartActionAddItem        CartActionType = "ADD_ITEM"
	CartActionRemoveItem     CartActionType = "REMOVE_ITEM"
	CartActionUpdateQuantity CartActionType = "UPDATE_QUANTITY"
	CartActionClear          CartActionType = "CLEAR_CART"
	CartActionLoad           CartActionType = "LOAD_CART"
)

// CartAction 购物车动作
type CartAction struct {
	Type     CartActionType
	Item     models.CartItem   // ADD_ITEM，Item.Quantity 为显式数量，<1 按 1 处理
	ID       int               // REMOVE_ITEM / UPDATE_QUANTITY
	Quantity int               // UPDATE_QUANTITY
	Items    []models.CartItem // LOAD_CART
}

// CartState 购物车状态
type CartState struct {
	Items []models.CartItem `json:"items"`
}

// reduceCart 纯函数：不修改入参，返回新状态
func reduceCart(state CartState, action CartAction) CartState {
	switch action.Type {
	case CartActionAddItem:
		quantity := action.Item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		items := cloneCartItems(state.Items)
		for i := range items {
			if items[i].ID == action.Item.ID {
				items[i].Quantity += quantity
				return CartState{Items: items}
			}
		}
		added := action.Item
		added.Quantity = quantity
		return CartState{Items: append(items, added)}
	case CartActionRemoveItem:
		return CartState{Items: removeCartItem(state.Items, action.ID)}
	case CartActionUpdateQuantity:
		if action.Quantity < 1 {
			return CartState{Items: removeCartItem(state.Items, action.ID)}
		}
		items := cloneCartItems(state.Items)
		for i := range items {
			if items[i].ID == action.ID {
				items[i].Quantity = action.Quantity
			}
		}
		return CartState{Items: items}
	case CartActionClear:
		return CartState{Items: []models.CartItem{}}
	case CartActionLoad:
		return CartState{Items: sanitizeCartItems(action.Items)}
	default:
		return CartState{Items: cloneCartItems(state.Items)}
	}
}

func removeCartItem(items []models.CartItem, id int) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// sanitizeCartItems 丢弃数量非法或重复 ID 的持久化记录
func sanitizeCartItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

func cloneCartItems(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}

// ShippingPolicy 运费规则：小计严格大于门槛免运费，否则收取固定运费
type ShippingPolicy struct {
	Currency      string
	FreeThreshold models.Money
	FlatFee       models.Money
}

// NewShippingPolicy 从配置构建运费规则
func NewShippingPolicy(cfg config.ShopConfig) ShippingPolicy {
	currency := strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = constants.CurrencyDefault
	}
	return ShippingPolicy{
		Currency:      currency,
		FreeThreshold: models.NewMoneyFromFloat(cfg.FreeShippingThreshold),
		FlatFee:       models.NewMoneyFromFloat(cfg.ShippingFee),
	}
}

// CartSummary 购物车金额汇总
type CartSummary struct {
	Subtotal     models.Money `json:"subtotal"`
	Shipping     models.Money `json:"shipping"`
	Total        models.Money `json:"total"`
	ItemCount    int          `json:"item_count"`
	FreeShipping bool         `json:"free_shipping"`
	Currency     string       `json:"currency,omitempty"`
}

// SummarizeCart 计算小计、运费、总计
func SummarizeCart(items []models.CartItem, policy ShippingPolicy) CartSummary {
	subtotal := models.NewMoneyFromDecimal(decimal.Zero)
	count := 0
	for _, item := range items {
		subtotal = subtotal.Plus(item.LineTotal())
		count += item.Quantity
	}
	shipping := policy.FlatFee
	free := subtotal.GreaterThan(policy.FreeThreshold.Decimal)
	if free {
		shipping = models.NewMoneyFromDecimal(decimal.Zero)
	}
	return CartSummary{
		Subtotal:     subtotal,
		Shipping:     shipping,
		Total:        subtotal.Plus(shipping),
		ItemCount:    count,
		FreeShipping: free,
		Currency:     policy.Currency,
	}
}

// CartStore 购物车 store
type CartStore struct {
	mu     sync.Mutex
	state  CartState
	repo   repository.CartRepository
	writer *asyncWriter
}

// NewCartStore 创建购物车 store
func NewCartStore(repo repository.CartRepository, persistTimeout time.Duration) *CartStore {
	return &CartStore{
		state:  CartState{Items: []models.CartItem{}},
		repo:   repo,
		writer: newAsyncWriter("cart", persistTimeout),
	}
}

// Hydrate 启动时读取持久化的购物车，读取失败按空购物车处理
func (s *CartStore) Hydrate(ctx context.Context) {
	var items []models.CartItem
	if s.repo != nil {
		loaded, _, err := s.repo.Load(ctx)
		if err != nil {
			logger.Warnw("cart_hydrate_failed", "error", err)
		} else {
			items = loaded
		}
	}
	s.Dispatch(CartAction{Type: CartActionLoad, Items: items})
}

// Dispatch 串行应用动作；除 LOAD_CART 外均触发异步落盘
func (s *CartStore) Dispatch(action CartAction) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduceCart(s.state, action)
	snapshot := cloneCartItems(s.state.Items)
	if action.Type != CartActionLoad {
		s.persistLocked(snapshot)
	}
	return snapshot
}

func (s *CartStore) persistLocked(snapshot []models.CartItem) {
	if s.repo == nil {
		return
	}
	persisted := cloneCartItems(snapshot)
	s.writer.Submit(func(ctx context.Context) error {
		return s.repo.Save(ctx, persisted)
	})
}

// RemoveOrdered 扣减已下单的数量，下单期间新加入的商品与数量保留
func (s *CartStore) RemoveOrdered(ordered []models.CartItem) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := make(map[int]int, len(s.state.Items))
	for _, item := range s.state.Items {
		current[item.ID] = item.Quantity
	}
	for _, item := range ordered {
		quantity, ok := current[item.ID]
		if !ok {
			continue
		}
		s.state = reduceCart(s.state, CartAction{Type: CartActionUpdateQuantity, ID: item.ID, Quantity: quantity - item.Quantity})
	}
	snapshot := cloneCartItems(s.state.Items)
	s.persistLocked(snapshot)
	return snapshot
}

// AddItem 加入购物车，已存在时累加数量
func (s *CartStore) AddItem(item models.CartItem) []models.CartItem {
	return s.Dispatch(CartAction{Type: CartActionAddItem, Item: item})
}

// RemoveItem 移除购物车项，不存在时无操作
func (s *CartStore) RemoveItem(id int) []models.CartItem {
	return s.Dispatch(CartAction{Type: CartActionRemoveItem, ID: id})
}

// UpdateQuantity 设置数量，<1 时移除
func (s *CartStore) UpdateQuantity(id, quantity int) []models.CartItem {
	return s.Dispatch(CartAction{Type: CartActionUpdateQuantity, ID: id, Quantity: quantity})
}

// Clear 清空购物车
func (s *CartStore) Clear() []models.CartItem {
	return s.Dispatch(CartAction{Type: CartActionClear})
}

// Load 整体替换（不合并）
func (s *CartStore) Load(items []models.CartItem) []models.CartItem {
	return s.Dispatch(CartAction{Type: CartActionLoad, Items: items})
}

// Snapshot 返回当前购物车的副本
func (s *CartStore) Snapshot() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCartItems(s.state.Items)
}

// Summary 汇总当前购物车
func (s *CartStore) Summary(policy ShippingPolicy) CartSummary {
	return SummarizeCart(s.Snapshot(), policy)
}

// Flush 等待后台落盘完成
func (s *CartStore) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

// Close 落盘剩余数据并停止后台协程
func (s *CartStore) Close(ctx context.Context) error {
	return s.writer.Close(ctx)
}
