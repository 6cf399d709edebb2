package kvstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
)

// Open 按配置选择存储后端
func Open(cfg *config.StorageConfig, redisCfg *config.RedisConfig) (Backend, error) {
	if cfg == nil {
		return nil, errors.New("storage config is nil")
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", constants.StorageDriverSQLite, constants.StorageDriverPostgres, "postgresql":
		if driver == "" || driver == constants.StorageDriverSQLite {
			if err := ensureSQLiteDir(cfg.DSN); err != nil {
				return nil, err
			}
		}
		if err := models.InitDB(driver, cfg.DSN, models.DBPoolConfig{
			MaxOpenConns:           cfg.Pool.MaxOpenConns,
			MaxIdleConns:           cfg.Pool.MaxIdleConns,
			ConnMaxLifetimeSeconds: cfg.Pool.ConnMaxLifetimeSeconds,
			ConnMaxIdleTimeSeconds: cfg.Pool.ConnMaxIdleTimeSeconds,
		}); err != nil {
			return nil, fmt.Errorf("init storage database failed: %w", err)
		}
		if err := models.AutoMigrate(models.DB); err != nil {
			return nil, fmt.Errorf("migrate storage database failed: %w", err)
		}
		return NewGormBackend(models.DB), nil
	case constants.StorageDriverRedis:
		if !cache.Enabled() {
			return nil, errors.New("storage driver redis requires redis.enabled=true")
		}
		prefix := ""
		if redisCfg != nil {
			prefix = redisCfg.Prefix
		}
		return NewRedisBackend(cache.Client(), prefix), nil
	case constants.StorageDriverMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func ensureSQLiteDir(dsn string) error {
	path := strings.TrimSpace(dsn)
	if path == "" || strings.HasPrefix(path, "file:") || strings.Contains(path, ":memory:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir failed: %w", err)
	}
	return nil
}
