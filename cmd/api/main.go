package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/tradebridge/marketplace-backend/internal/config"
	"github.com/tradebridge/marketplace-backend/internal/db"
	"github.com/tradebridge/marketplace-backend/internal/logging"
	"github.com/tradebridge/marketplace-backend/internal/model"
	"github.com/tradebridge/marketplace-backend/internal/server"
	"github.com/tradebridge/marketplace-backend/internal/storage"
)

var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := logging.New(cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.Fatalw("db connect failed", "err", err)
	}
	if err := conn.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.SellerProfile{},
		&model.BuyerProfile{},
		&model.Category{},
		&model.Product{},
		&model.RFQ{},
		&model.Trade{},
		&model.ChatRoom{},
		&model.ChatMessage{},
		&model.MessageReaction{},
		&model.Review{},
		&model.Notification{},
	); err != nil {
		logger.Fatalw("auto migrate failed", "err", err)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	}

	var uploader storage.Uploader
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSUploader(context.Background(), cfg.GCSBucket, cfg.GCSCredentials)
		if err != nil {
			logger.Fatalw("storage init failed", "err", err)
		}
		defer gcs.Close()
		uploader = gcs
	}

	srv := server.New(server.Options{
		Config:   cfg,
		DB:       conn,
		Redis:    rdb,
		Uploader: uploader,
		Logger:   logger,
		GitSHA:   gitSHA,
		Build:    buildTime,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	addr := ":" + port
	logger.Infow("starting server", "addr", addr)
	if err := srv.Start(addr); err != nil {
		logger.Fatalw("server stopped", "err", err)
	}
}
