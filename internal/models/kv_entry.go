package models

import "time"

// KVEntry 本地键值存储记录（namespace + key 唯一）
type KVEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Namespace string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_kv_namespace_key" json:"namespace"`
	Key       string    `gorm:"column:entry_key;type:varchar(128);not null;uniqueIndex:idx_kv_namespace_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

// TableName 指定表名
func (KVEntry) TableName() string {
	return "kv_entries"
}
