package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Niharika210149/Smart-Health-Monitor/internal/config"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/consumer"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/database"
	httpapi "github.com/Niharika210149/Smart-Health-Monitor/internal/http"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/ingest"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/logger"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/mqttclient"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/repository"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/score"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/service"
	"github.com/Niharika210149/Smart-Health-Monitor/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "smart-health-monitor")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	kv := store.NewRedisKV(redisClient)

	loc := cfg.Location()

	readingsRepo := repository.NewPostgresReadingsRepository(db)
	scoresRepo := repository.NewPostgresHealthScoresRepository(db)
	accountsRepo := repository.NewPostgresAccountsRepository(db)

	provisioner := service.NewAccountProvisioner(accountsRepo, log)
	normalizer := ingest.NewNormalizer(ingest.NewTimeResolver(loc))
	pipeline := ingest.NewPipeline(normalizer, readingsRepo, provisioner, kv, log)

	engine := score.NewEngine(readingsRepo, scoresRepo, log)
	reports := service.NewReportService(readingsRepo, scoresRepo, kv, loc, log)
	auth := service.NewAuthService(accountsRepo, log)

	router := httpapi.NewRouter(log)
	router.RegisterHealthRoute()
	router.RegisterSensorRoutes(httpapi.NewSensorHandler(pipeline, cfg.HTTP.APIKey, log))
	router.RegisterDataRoutes(httpapi.NewDataHandler(reports, loc, log))
	router.RegisterScoreRoutes(httpapi.NewScoreHandler(engine, scoresRepo, loc, log))
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(auth, log))
	router.RegisterExportRoutes(httpapi.NewExportHandler(reports, log))
	router.RegisterCacheRoutes(httpapi.NewCacheHandler(kv, log))

	// MQTT 消费（可选）：设备网关直发走同一条入库路径
	var mqttConsumer *consumer.MQTTConsumer
	if cfg.MQTT.Enabled {
		mqttClient, err := mqttclient.NewClient(&cfg.MQTT, log)
		if err != nil {
			log.Fatal("Failed to connect to MQTT broker", zap.Error(err))
		}
		mqttConsumer = consumer.NewMQTTConsumer(mqttClient, pipeline, cfg.MQTT.Topic, cfg.MQTT.QoS, log)
		if err := mqttConsumer.Start(context.Background()); err != nil {
			log.Fatal("Failed to start MQTT consumer", zap.Error(err))
		}
	}

	server := service.NewServer(cfg.HTTP.Addr, router, log)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down smart-health-monitor")

	if mqttConsumer != nil {
		mqttConsumer.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		log.Error("Failed to stop HTTP server gracefully", zap.Error(err))
	}
}
