package service

import (
	"study_tracker_backend/pkg/logger"

	"go.uber.org/zap"
)

// 加命名空间之前使用的旧键
const (
	legacyCodingKey = "coding-storage"
	legacyGoalsKey  = "goals-storage"
)

// MigrationService 把加命名空间之前的旧数据一次性搬到新键下
// 旧键永远不删除，搬运时额外落一份 -backup 副本；
// 新键已有数据时跳过，重复执行是无害的空操作
type MigrationService struct {
	storage  Storage
	identity *IdentityService
}

func NewMigrationService(storage Storage, identity *IdentityService) *MigrationService {
	return &MigrationService{storage: storage, identity: identity}
}

// MigrateLegacyData 在任何 store 读取数据之前执行一次
func (s *MigrationService) MigrateLegacyData() error {
	migrated := false

	ok, err := s.migrateKey(legacyCodingKey, s.identity.StorageKey(studyStorageBaseKey))
	if err != nil {
		return err
	}
	migrated = migrated || ok

	ok, err = s.migrateKey(legacyGoalsKey, s.identity.StorageKey(goalsStorageBaseKey))
	if err != nil {
		return err
	}
	migrated = migrated || ok

	if migrated {
		logger.Log.Info("Legacy data migration completed, old keys preserved",
			zap.String("instanceId", s.identity.InstanceID()))
	}
	return nil
}

// migrateKey 只有旧键有数据且新键还不存在时才复制，原始值原样照搬
func (s *MigrationService) migrateKey(legacyKey, newKey string) (bool, error) {
	legacyValue, hasLegacy, err := s.storage.Get(legacyKey)
	if err != nil {
		return false, err
	}
	if !hasLegacy {
		return false, nil
	}

	_, hasNew, err := s.storage.Get(newKey)
	if err != nil {
		return false, err
	}
	if hasNew {
		// 新格式数据已存在，绝不覆盖
		return false, nil
	}

	logger.Log.Info("Migrating legacy data",
		zap.String("from", legacyKey),
		zap.String("to", newKey))

	if err := s.storage.Set(newKey, legacyValue); err != nil {
		return false, err
	}
	if err := s.storage.Set(legacyKey+"-backup", legacyValue); err != nil {
		return false, err
	}
	return true, nil
}
