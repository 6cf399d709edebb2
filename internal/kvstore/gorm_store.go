package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend 基于 GORM 的存储后端（sqlite / postgres）
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend 创建 GORM 存储后端
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

// Name 后端名称
func (b *GormBackend) Name() string {
	return "gorm:" + b.db.Dialector.Name()
}

// For 获取命名空间视图
func (b *GormBackend) For(namespace string) Store {
	return &gormStore{db: b.db, namespace: NormalizeNamespace(namespace)}
}

// Close 关闭底层连接
func (b *GormBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormStore struct {
	db        *gorm.DB
	namespace string
}

func (s *gormStore) Get(ctx context.Context, key string) (string, bool, error) {
	normalized, err := normalizeKey(key)
	if err != nil {
		return "", false, err
	}
	var entry models.KVEntry
	err = s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", s.namespace, normalized).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (s *gormStore) Set(ctx context.Context, key, value string) error {
	normalized, err := normalizeKey(key)
	if err != nil {
		return err
	}
	entry := &models.KVEntry{
		Namespace: s.namespace,
		Key:       normalized,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(entry).Error
}

func (s *gormStore) Remove(ctx context.Context, key string) error {
	normalized, err := normalizeKey(key)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key = ?", s.namespace, normalized).
		Delete(&models.KVEntry{}).Error
}
