package repository

import "github.com/storefront-next/internal/kvstore"

// Set 单个设备命名空间下的全部仓库
type Set struct {
	Cart             CartRepository
	Wishlist         WishlistRepository
	Credentials      CredentialRepository
	Session          SessionRepository
	Profile          ProfileRepository
	Addresses        AddressRepository
	Orders           OrderRepository
	NotificationLogs NotificationLogRepository
}

// NewSet 基于同一命名空间的存储创建仓库集合，各仓库使用互不重叠的键
func NewSet(store kvstore.Store) *Set {
	return &Set{
		Cart:             NewCartRepository(store),
		Wishlist:         NewWishlistRepository(store),
		Credentials:      NewCredentialRepository(store),
		Session:          NewSessionRepository(store),
		Profile:          NewProfileRepository(store),
		Addresses:        NewAddressRepository(store),
		Orders:           NewOrderRepository(store),
		NotificationLogs: NewNotificationLogRepository(store),
	}
}
