package database

import (
	"log"

	"study_tracker_backend/internal/config"
	"study_tracker_backend/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 打开本地 SQLite 数据文件并迁移键值存储表
// 单用户本地应用不依赖外部数据库服务
func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := db.AutoMigrate(&model.StorageEntry{}); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}
