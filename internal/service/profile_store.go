package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"

	"github.com/google/uuid"
)

// AddressInput 新增地址参数
type AddressInput struct {
	Name      string
	Street    string
	City      string
	State     string
	ZipCode   string
	Phone     string
	IsDefault bool
}

// AddressPatch 地址局部更新，nil 字段保持不变
type AddressPatch struct {
	Name      *string
	Street    *string
	City      *string
	State     *string
	ZipCode   *string
	Phone     *string
	IsDefault *bool
}

// OrderInput 新订单参数（ID 与日期由 store 生成）
type OrderInput struct {
	Items   []models.CartItem
	Total   models.Money
	Status  string
	Address models.Address
}

// ProfileStore 用户资料、收货地址与订单历史
type ProfileStore struct {
	mu        sync.Mutex
	profile   models.Profile
	addresses []models.Address
	orders    []models.Order

	repos         *repository.Set
	addressWriter *asyncWriter
	orderWriter   *asyncWriter
	profileWriter *asyncWriter

	now   func() time.Time
	newID func() string
}

// NewProfileStore 创建资料 store
func NewProfileStore(repos *repository.Set, persistTimeout time.Duration) *ProfileStore {
	return &ProfileStore{
		addresses:     []models.Address{},
		orders:        []models.Order{},
		repos:         repos,
		addressWriter: newAsyncWriter("addresses", persistTimeout),
		orderWriter:   newAsyncWriter("orders", persistTimeout),
		profileWriter: newAsyncWriter("profile", persistTimeout),
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// Hydrate 读取持久化数据，任一失败按空处理
func (s *ProfileStore) Hydrate(ctx context.Context) {
	if s.repos == nil {
		return
	}
	addresses, _, err := s.repos.Addresses.Load(ctx)
	if err != nil {
		logger.Warnw("addresses_hydrate_failed", "error", err)
	}
	orders, _, err := s.repos.Orders.Load(ctx)
	if err != nil {
		logger.Warnw("orders_hydrate_failed", "error", err)
	}
	profile, _, err := s.repos.Profile.Load(ctx)
	if err != nil {
		logger.Warnw("profile_hydrate_failed", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses = enforceSingleDefault(addresses)
	if orders != nil {
		s.orders = orders
	}
	if profile != nil {
		s.profile = *profile
	}
}

// AddAddress 新增地址；设为默认时先清除其他地址的默认标记
func (s *ProfileStore) AddAddress(input AddressInput) (models.Address, error) {
	address := models.Address{
		Name:      strings.TrimSpace(input.Name),
		Street:    strings.TrimSpace(input.Street),
		City:      strings.TrimSpace(input.City),
		State:     strings.TrimSpace(input.State),
		ZipCode:   strings.TrimSpace(input.ZipCode),
		Phone:     strings.TrimSpace(input.Phone),
		IsDefault: input.IsDefault,
	}
	if err := validateAddress(address); err != nil {
		return models.Address{}, err
	}
	address.ID = constants.IDPrefixAddress + s.newID()

	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneAddresses(s.addresses)
	if address.IsDefault {
		for i := range next {
			next[i].IsDefault = false
		}
	}
	next = append(next, address)
	s.addresses = next
	s.persistAddressesLocked()
	return address, nil
}

// UpdateAddress 合并局部字段；id 不存在时无操作并返回 false
func (s *ProfileStore) UpdateAddress(id string, patch AddressPatch) (models.Address, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i := range s.addresses {
		if s.addresses[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return models.Address{}, false, nil
	}

	merged := applyAddressPatch(s.addresses[index], patch)
	if err := validateAddress(merged); err != nil {
		return models.Address{}, true, err
	}

	next := cloneAddresses(s.addresses)
	next[index] = merged
	if merged.IsDefault {
		for i := range next {
			if i != index {
				next[i].IsDefault = false
			}
		}
	}
	s.addresses = next
	s.persistAddressesLocked()
	return merged, true, nil
}

// DeleteAddress 删除地址，不会自动指定新的默认地址
func (s *ProfileStore) DeleteAddress(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]models.Address, 0, len(s.addresses))
	removed := false
	for _, address := range s.addresses {
		if address.ID == id {
			removed = true
			continue
		}
		next = append(next, address)
	}
	if !removed {
		return false
	}
	s.addresses = next
	s.persistAddressesLocked()
	return true
}

// Addresses 地址列表副本
func (s *ProfileStore) Addresses() []models.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAddresses(s.addresses)
}

// Address 按 ID 查找地址
func (s *ProfileStore) Address(id string) (models.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, address := range s.addresses {
		if address.ID == id {
			return address, true
		}
	}
	return models.Address{}, false
}

// DefaultAddress 结账预选地址：默认地址，否则第一个地址
func (s *ProfileStore) DefaultAddress() (models.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, address := range s.addresses {
		if address.IsDefault {
			return address, true
		}
	}
	if len(s.addresses) > 0 {
		return s.addresses[0], true
	}
	return models.Address{}, false
}

// AddOrder 生成 ID 与日期后插入历史头部
func (s *ProfileStore) AddOrder(input OrderInput) (models.Order, error) {
	if len(input.Items) == 0 {
		return models.Order{}, ErrOrderInvalid
	}
	if input.Total.IsNegative() {
		return models.Order{}, ErrOrderInvalid
	}
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = constants.OrderStatusPending
	}
	if !isValidOrderStatus(status) {
		return models.Order{}, ErrOrderInvalid
	}

	order := models.Order{
		ID:      constants.IDPrefixOrder + s.newID(),
		Date:    s.now().UTC(),
		Items:   cloneCartItems(input.Items),
		Total:   input.Total,
		Status:  status,
		Address: input.Address,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]models.Order, 0, len(s.orders)+1)
	next = append(next, order)
	next = append(next, s.orders...)
	s.orders = next
	persisted := cloneOrders(next)
	if s.repos != nil {
		s.orderWriter.Submit(func(ctx context.Context) error {
			return s.repos.Orders.Save(ctx, persisted)
		})
	}
	return order.Clone(), nil
}

// Orders 订单历史副本（新订单在前）
func (s *ProfileStore) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrders(s.orders)
}

// Order 按 ID 查找订单
func (s *ProfileStore) Order(id string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.ID == id {
			return order.Clone(), true
		}
	}
	return models.Order{}, false
}

// Profile 展示用资料
func (s *ProfileStore) Profile() models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// UpdateProfile 更新展示用资料，不回写账号
func (s *ProfileStore) UpdateProfile(username, email string) (models.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.Profile{}, ErrProfileInvalid
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return models.Profile{}, err
	}
	profile := models.Profile{Username: username, Email: normalized}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
	if s.repos != nil {
		s.profileWriter.Submit(func(ctx context.Context) error {
			return s.repos.Profile.Save(ctx, profile)
		})
	}
	return profile, nil
}

// Flush 等待后台落盘完成
func (s *ProfileStore) Flush(ctx context.Context) error {
	for _, w := range []*asyncWriter{s.addressWriter, s.orderWriter, s.profileWriter} {
		if err := w.Flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close 落盘剩余数据并停止后台协程
func (s *ProfileStore) Close(ctx context.Context) error {
	for _, w := range []*asyncWriter{s.addressWriter, s.orderWriter, s.profileWriter} {
		if err := w.Close(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProfileStore) persistAddressesLocked() {
	if s.repos == nil {
		return
	}
	persisted := cloneAddresses(s.addresses)
	s.addressWriter.Submit(func(ctx context.Context) error {
		return s.repos.Addresses.Save(ctx, persisted)
	})
}

func validateAddress(address models.Address) error {
	if strings.TrimSpace(address.Name) == "" ||
		strings.TrimSpace(address.Street) == "" ||
		strings.TrimSpace(address.City) == "" ||
		strings.TrimSpace(address.Phone) == "" {
		return ErrAddressInvalid
	}
	return nil
}

func applyAddressPatch(address models.Address, patch AddressPatch) models.Address {
	if patch.Name != nil {
		address.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Street != nil {
		address.Street = strings.TrimSpace(*patch.Street)
	}
	if patch.City != nil {
		address.City = strings.TrimSpace(*patch.City)
	}
	if patch.State != nil {
		address.State = strings.TrimSpace(*patch.State)
	}
	if patch.ZipCode != nil {
		address.ZipCode = strings.TrimSpace(*patch.ZipCode)
	}
	if patch.Phone != nil {
		address.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.IsDefault != nil {
		address.IsDefault = *patch.IsDefault
	}
	return address
}

// enforceSingleDefault 持久化数据中出现多个默认地址时只保留第一个
func enforceSingleDefault(addresses []models.Address) []models.Address {
	out := cloneAddresses(addresses)
	seen := false
	for i := range out {
		if out[i].IsDefault {
			if seen {
				out[i].IsDefault = false
			}
			seen = true
		}
	}
	return out
}

func isValidOrderStatus(status string) bool {
	switch status {
	case constants.OrderStatusPending, constants.OrderStatusCompleted, constants.OrderStatusCancelled:
		return true
	default:
		return false
	}
}

func cloneAddresses(addresses []models.Address) []models.Address {
	out := make([]models.Address, len(addresses))
	copy(out, addresses)
	return out
}

func cloneOrders(orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	for i, order := range orders {
		out[i] = order.Clone()
	}
	return out
}
