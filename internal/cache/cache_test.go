package cache

import (
	"context"
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	if Enabled() {
		t.Fatalf("cache should be disabled")
	}
	if Client() != nil {
		t.Fatalf("client should be nil when disabled")
	}
	ctx := context.Background()
	if err := SetCatalogPayload(ctx, CatalogKey("/products", ""), `{"products":[]}`, time.Minute); err != nil {
		t.Fatalf("set on disabled cache should be noop: %v", err)
	}
	if _, hit, err := GetCatalogPayload(ctx, CatalogKey("/products", "")); err != nil || hit {
		t.Fatalf("disabled cache should miss, hit=%v err=%v", hit, err)
	}
	if err := DeleteCatalogPayload(ctx, CatalogKey("/products", "")); err != nil {
		t.Fatalf("delete on disabled cache should be noop: %v", err)
	}
	if err := Ping(ctx); err != nil {
		t.Fatalf("ping on disabled cache should be noop: %v", err)
	}
}

func TestCatalogKey(t *testing.T) {
	if got := CatalogKey("/products/search", "q=phone"); got != "catalog:products/search?q=phone" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := CatalogKey("products/categories", " "); got != "catalog:products/categories" {
		t.Fatalf("unexpected key: %s", got)
	}
}

func TestBuildKeyUsesDefaultPrefix(t *testing.T) {
	redisPrefix = ""
	if got := buildKey("kv:default:@wishlist"); got != "sf:kv:default:@wishlist" {
		t.Fatalf("unexpected key: %s", got)
	}
}
