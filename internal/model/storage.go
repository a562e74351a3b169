package model

import "time"

// StorageEntry 本地键值存储的一行，对应浏览器版的 localStorage 条目
// Value 存放各 store 的版本化 JSON 快照，按命名空间键隔离
type StorageEntry struct {
	Key       string    `gorm:"primaryKey;size:191"`
	Value     string    `gorm:"type:text"`
	UpdatedAt time.Time
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}
