package service

import (
	"context"
	"sync"
	"time"

	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

// WishlistActionType 心愿单动作类型
type WishlistActionType string

const (
	WishlistActionAdd    WishlistActionType = "ADD_TO_WISHLIST"
	WishlistActionRemove WishlistActionType = "REMOVE_FROM_WISHLIST"
	WishlistActionClear  WishlistActionType = "CLEAR_WISHLIST"
	WishlistActionLoad   WishlistActionType = "LOAD_WISHLIST"
)

// WishlistAction 心愿单动作
type WishlistAction struct {
	Type  WishlistActionType
	Item  models.WishlistItem
	ID    int
	Items []models.WishlistItem
}

// reduceWishlist 集合语义：同 ID 先到先得
func reduceWishlist(items []models.WishlistItem, action WishlistAction) []models.WishlistItem {
	switch action.Type {
	case WishlistActionAdd:
		for _, item := range items {
			if item.ID == action.Item.ID {
				return cloneWishlistItems(items)
			}
		}
		return append(cloneWishlistItems(items), action.Item)
	case WishlistActionRemove:
		out := make([]models.WishlistItem, 0, len(items))
		for _, item := range items {
			if item.ID != action.ID {
				out = append(out, item)
			}
		}
		return out
	case WishlistActionClear:
		return []models.WishlistItem{}
	case WishlistActionLoad:
		out := make([]models.WishlistItem, 0, len(action.Items))
		seen := make(map[int]struct{}, len(action.Items))
		for _, item := range action.Items {
			if _, ok := seen[item.ID]; ok {
				continue
			}
			seen[item.ID] = struct{}{}
			out = append(out, item)
		}
		return out
	default:
		return cloneWishlistItems(items)
	}
}

func cloneWishlistItems(items []models.WishlistItem) []models.WishlistItem {
	out := make([]models.WishlistItem, len(items))
	copy(out, items)
	return out
}

// WishlistStore 心愿单 store
type WishlistStore struct {
	mu     sync.Mutex
	items  []models.WishlistItem
	repo   repository.WishlistRepository
	writer *asyncWriter
}

// NewWishlistStore 创建心愿单 store
func NewWishlistStore(repo repository.WishlistRepository, persistTimeout time.Duration) *WishlistStore {
	return &WishlistStore{
		items:  []models.WishlistItem{},
		repo:   repo,
		writer: newAsyncWriter("wishlist", persistTimeout),
	}
}

// Hydrate 启动时读取持久化的心愿单
func (s *WishlistStore) Hydrate(ctx context.Context) {
	var items []models.WishlistItem
	if s.repo != nil {
		loaded, _, err := s.repo.Load(ctx)
		if err != nil {
			logger.Warnw("wishlist_hydrate_failed", "error", err)
		} else {
			items = loaded
		}
	}
	s.Dispatch(WishlistAction{Type: WishlistActionLoad, Items: items})
}

// Dispatch 串行应用动作；除 LOAD_WISHLIST 外均触发异步落盘
func (s *WishlistStore) Dispatch(action WishlistAction) []models.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = reduceWishlist(s.items, action)
	snapshot := cloneWishlistItems(s.items)
	if action.Type != WishlistActionLoad && s.repo != nil {
		persisted := cloneWishlistItems(snapshot)
		s.writer.Submit(func(ctx context.Context) error {
			return s.repo.Save(ctx, persisted)
		})
	}
	return snapshot
}

// Add 加入心愿单
func (s *WishlistStore) Add(item models.WishlistItem) []models.WishlistItem {
	return s.Dispatch(WishlistAction{Type: WishlistActionAdd, Item: item})
}

// Remove 移出心愿单
func (s *WishlistStore) Remove(id int) []models.WishlistItem {
	return s.Dispatch(WishlistAction{Type: WishlistActionRemove, ID: id})
}

// Clear 清空心愿单
func (s *WishlistStore) Clear() []models.WishlistItem {
	return s.Dispatch(WishlistAction{Type: WishlistActionClear})
}

// Load 整体替换
func (s *WishlistStore) Load(items []models.WishlistItem) []models.WishlistItem {
	return s.Dispatch(WishlistAction{Type: WishlistActionLoad, Items: items})
}

// Items 当前心愿单副本
func (s *WishlistStore) Items() []models.WishlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneWishlistItems(s.items)
}

// Contains 判断商品是否已收藏
func (s *WishlistStore) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// Flush 等待后台落盘完成
func (s *WishlistStore) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

// Close 落盘剩余数据并停止后台协程
func (s *WishlistStore) Close(ctx context.Context) error {
	return s.writer.Close(ctx)
}
