package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/provider"
	"github.com/storefront-next/internal/service"
)

// 为指定设备写入演示数据：账号、收货地址、购物车与心愿单
func main() {
	var (
		deviceID string
		username string
		email    string
		password string
		products int
	)
	flag.StringVar(&deviceID, "device", "demo-device", "设备 ID")
	flag.StringVar(&username, "username", "demo", "演示账号用户名")
	flag.StringVar(&email, "email", "demo@example.com", "演示账号邮箱")
	flag.StringVar(&password, "password", "demo123", "演示账号密码")
	flag.IntVar(&products, "products", 3, "加入购物车的商品数量")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// 演示数据不发送邮件
	cfg.Notify.Enabled = false
	cfg.Queue.Enabled = false

	container, err := provider.NewContainer(cfg)
	if err != nil {
		stdLog.Fatalf("Failed to init container: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Close(closeCtx); err != nil {
			stdLog.Printf("Failed to close container: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	storefront, err := container.Registry.Get(ctx, deviceID)
	if err != nil {
		stdLog.Fatalf("Failed to load storefront: %v", err)
	}

	// 添加账号
	if _, err := storefront.Auth.Register(ctx, service.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	}); err != nil && !errors.Is(err, service.ErrEmailExists) {
		stdLog.Fatalf("Failed to register demo user: %v", err)
	}
	if _, err := storefront.Auth.Login(ctx, email, password); err != nil {
		stdLog.Fatalf("Failed to login demo user: %v", err)
	}

	// 添加收货地址
	if _, found := storefront.Profile.DefaultAddress(); !found {
		if _, err := storefront.Profile.AddAddress(service.AddressInput{
			Name:      username,
			Street:    "221B Baker Street",
			City:      "Mumbai",
			State:     "MH",
			ZipCode:   "400001",
			Phone:     "9876543210",
			IsDefault: true,
		}); err != nil {
			stdLog.Fatalf("Failed to add address: %v", err)
		}
	}

	// 添加购物车与心愿单
	page, err := container.Catalog.ListProducts(ctx, products+1, 0)
	if err != nil {
		stdLog.Fatalf("Failed to fetch catalog: %v", err)
	}
	for i, product := range page.Products {
		if i < products {
			if _, err := storefront.AddToCart(ctx, product.ToCartItem(1)); err != nil {
				stdLog.Fatalf("Failed to add cart item %d: %v", product.ID, err)
			}
			continue
		}
		storefront.Wishlist.Add(models.WishlistItem{
			ID:       product.ID,
			Title:    product.Title,
			Price:    product.Price,
			Image:    product.Thumbnail,
			Category: product.Category,
		})
	}

	summary := storefront.CartSummary()
	stdLog.Printf("Seeded device %s: user=%s cart_items=%d total=%s wishlist=%d",
		deviceID, email, summary.ItemCount, summary.Total.String(), len(storefront.Wishlist.Items()))
}
