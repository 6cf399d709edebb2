package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/storefront-next/internal/constants"

	"github.com/redis/go-redis/v9"
)

// RedisBackend 基于 Redis 字符串键的存储后端
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend 创建 Redis 存储后端
func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = constants.RedisPrefixDefault
	}
	return &RedisBackend{client: client, prefix: prefix}
}

// Name 后端名称
func (b *RedisBackend) Name() string {
	return "redis"
}

// For 获取命名空间视图
func (b *RedisBackend) For(namespace string) Store {
	return &redisStore{
		client: b.client,
		base:   fmt.Sprintf("%s:kv:%s", b.prefix, NormalizeNamespace(namespace)),
	}
}

// Close 由缓存模块统一管理连接，这里不关闭
func (b *RedisBackend) Close() error {
	return nil
}

type redisStore struct {
	client *redis.Client
	base   string
}

func (s *redisStore) buildKey(key string) (string, error) {
	normalized, err := normalizeKey(key)
	if err != nil {
		return "", err
	}
	return s.base + ":" + normalized, nil
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	fullKey, err := s.buildKey(key)
	if err != nil {
		return "", false, err
	}
	val, err := s.client.Get(ctx, fullKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	fullKey, err := s.buildKey(key)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, fullKey, value, 0).Err()
}

func (s *redisStore) Remove(ctx context.Context, key string) error {
	fullKey, err := s.buildKey(key)
	if err != nil {
		return err
	}
	return s.client.Del(ctx, fullKey).Err()
}
