package main

import (
	"context"
	"log"
	"os"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/config"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/database"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/ingest"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/logger"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/repository"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/service"

	"go.uber.org/zap"
)

// 批量导入历史 CSV 数据集（设备导出/公开数据集格式）。
// 用法: import-readings <readings.csv>
func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <readings.csv>", os.Args[0])
	}
	csvPath := os.Args[1]

	cfg := config.Load()

	zlog, err := logger.NewLogger(cfg.Log.Level, "console", "import-readings")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		zlog.Fatal("Cannot connect to database", zap.Error(err))
	}
	defer db.Close()

	f, err := os.Open(csvPath)
	if err != nil {
		zlog.Fatal("Cannot open CSV file", zap.String("path", csvPath), zap.Error(err))
	}
	defer f.Close()

	readingsRepo := repository.NewPostgresReadingsRepository(db)
	accountsRepo := repository.NewPostgresAccountsRepository(db)
	provisioner := service.NewAccountProvisioner(accountsRepo, zlog)
	normalizer := ingest.NewNormalizer(ingest.NewTimeResolver(cfg.Location()))

	// 离线导入不经过 Redis 缓存
	pipeline := ingest.NewPipeline(normalizer, readingsRepo, provisioner, nil, zlog)

	result, err := pipeline.ImportCSV(context.Background(), f)
	if err != nil {
		zlog.Fatal("Import failed", zap.Error(err))
	}

	zlog.Info("Import finished",
		zap.String("file", csvPath),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("provisioned", result.Provisioned),
	)
}
