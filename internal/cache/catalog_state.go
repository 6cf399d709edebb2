package cache

import (
	"context"
	"strings"
	"time"
)

const catalogCacheTTLDefault = 5 * time.Minute

// CatalogKey 商品目录响应缓存键（按请求路径 + 查询串区分）
func CatalogKey(path, rawQuery string) string {
	key := "catalog:" + strings.TrimPrefix(strings.TrimSpace(path), "/")
	if q := strings.TrimSpace(rawQuery); q != "" {
		key += "?" + q
	}
	return key
}

// GetCatalogPayload 获取商品目录原始响应
func GetCatalogPayload(ctx context.Context, key string) (string, bool, error) {
	return GetString(ctx, key)
}

// SetCatalogPayload 写入商品目录原始响应
func SetCatalogPayload(ctx context.Context, key, payload string, ttl time.Duration) error {
	if strings.TrimSpace(payload) == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = catalogCacheTTLDefault
	}
	return SetString(ctx, key, payload, ttl)
}

// DeleteCatalogPayload 淘汰商品目录缓存
func DeleteCatalogPayload(ctx context.Context, key string) error {
	return Del(ctx, key)
}
