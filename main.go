package main

import (
	"flag"
	"log"

	"study_tracker_backend/internal/app"
	"study_tracker_backend/internal/config"
	"study_tracker_backend/pkg/logger"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行旧数据迁移，完成后退出")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移在 NewApp 装配阶段已经完成
	if *migrateOnly {
		log.Println("旧数据迁移完成，退出程序")
		return
	}

	application.Run()
}
