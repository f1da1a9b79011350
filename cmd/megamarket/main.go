package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/Hansraja/MegaMarket/internal/config"
	"github.com/Hansraja/MegaMarket/internal/events/kafka"
	httpHandler "github.com/Hansraja/MegaMarket/internal/handler/http"
	"github.com/Hansraja/MegaMarket/internal/infrastructure/database"
	"github.com/Hansraja/MegaMarket/internal/infrastructure/database/postgres"
	"github.com/Hansraja/MegaMarket/internal/infrastructure/security"
	"github.com/Hansraja/MegaMarket/internal/infrastructure/storage"
	"github.com/Hansraja/MegaMarket/internal/infrastructure/storage/cloudinary"
	"github.com/Hansraja/MegaMarket/internal/infrastructure/storage/s3"
	"github.com/Hansraja/MegaMarket/internal/service"
	"github.com/Hansraja/MegaMarket/internal/utils/email"
	"github.com/Hansraja/MegaMarket/internal/utils/logger"
	"github.com/Hansraja/MegaMarket/internal/utils/rate"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if cfg.Database.AutoMigrate {
		log.Info("Running database migrations")
		migrationURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			cfg.Database.User, cfg.Database.Password, cfg.Database.Host,
			cfg.Database.Port, cfg.Database.DBName, cfg.Database.SSLMode)
		m, err := migrate.New("file://migrations", migrationURL)
		if err != nil {
			log.Fatal("Failed to create migration instance", zap.Error(err))
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
		log.Info("Migrations applied successfully")
	}

	dbPool, err := postgres.NewDBPool(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize PostgreSQL connection pool", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	var publisher kafka.Publisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Source, log)
		if err != nil {
			log.Fatal("Failed to create Kafka producer", zap.Error(err))
		}
		defer producer.Close()
		publisher = producer
	}

	cloudinaryClient := cloudinary.NewClient(cfg.Storage.Cloudinary, log)
	extraProviders := map[string]storage.Provider{}
	if cfg.Storage.S3.Enabled {
		s3Client, err := s3.NewClient(cfg.Storage.S3, log)
		if err != nil {
			log.Fatal("Failed to create S3 client", zap.Error(err))
		}
		extraProviders["s3"] = s3Client
	}

	hasher, err := security.NewArgon2idHasher(cfg.Security)
	if err != nil {
		log.Fatal("Failed to configure password hasher", zap.Error(err))
	}

	imageRepo := database.NewPgxImageRepository(dbPool)
	verificationRepo := database.NewPgxVerificationRepository(dbPool)
	userRepo := database.NewPgxUserRepository(dbPool)

	mailer := email.NewClient(cfg.SMTP, log)
	limiter := rate.NewLimiter(redisClient, log, cfg.RateLimit)

	assetService := service.NewAssetService(imageRepo, cloudinaryClient, extraProviders, publisher, log)
	verificationService := service.NewVerificationService(
		verificationRepo, userRepo, mailer, hasher, limiter, publisher, cfg.Verification.CodeTTL, log)
	userService := service.NewUserService(userRepo, assetService, hasher, publisher, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go verificationService.RunSweeper(ctx, cfg.Verification.SweepInterval)

	router := httpHandler.NewRouter(
		log,
		httpHandler.NewVerificationHandler(log, verificationService),
		httpHandler.NewUserHandler(log, userService),
		httpHandler.NewImageHandler(log, assetService, imageRepo),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
