package repository

import (
	"errors"

	"study_tracker_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StorageRepository 键值持久层，承担浏览器版 localStorage 的角色
// 各 store 用互不相交的命名空间键读写，单条记录整存整取
type StorageRepository struct {
	DB *gorm.DB
}

func NewStorageRepository(db *gorm.DB) *StorageRepository {
	return &StorageRepository{DB: db}
}

// Get 读取指定键的原始值，第二个返回值表示键是否存在
func (r *StorageRepository) Get(key string) (string, bool, error) {
	var entry model.StorageEntry
	err := r.DB.Where("key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set 写入或覆盖指定键
func (r *StorageRepository) Set(key, value string) error {
	entry := model.StorageEntry{Key: key, Value: value}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Delete 删除指定键，键不存在时不报错
func (r *StorageRepository) Delete(key string) error {
	return r.DB.Where("key = ?", key).Delete(&model.StorageEntry{}).Error
}
