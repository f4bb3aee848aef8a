package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/harborview/service-reservation/internal/application"
	"github.com/harborview/service-reservation/internal/config"
	"github.com/harborview/service-reservation/internal/events"
	"github.com/harborview/service-reservation/internal/handler"
	"github.com/harborview/service-reservation/internal/platform/auth"
	"github.com/harborview/service-reservation/internal/platform/cache"
	"github.com/harborview/service-reservation/internal/platform/database"
	"github.com/harborview/service-reservation/internal/platform/kafka"
	"github.com/harborview/service-reservation/internal/platform/logger"
	"github.com/harborview/service-reservation/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "server")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	dbCfg := database.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}

	db, err := database.Connect(dbCfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.RunMigrations(dbCfg.URL(), cfg.MigrationsDir, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	listingCache := cache.NewRedis(
		cfg.Redis.Addr,
		cfg.Redis.Password,
		cfg.Redis.DB,
		time.Duration(cfg.Redis.TTLSeconds)*time.Second,
	)
	defer func() { _ = listingCache.Close() }()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = producer.Close() }()

	bookingRepo := repository.NewGormBookingRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)

	notifier := events.NewKafkaNotifier(producer, cfg.Kafka.NotificationsTopic, log)

	bookingService := application.NewBookingService(bookingRepo, roomRepo, notifier, log)
	roomService := application.NewRoomService(roomRepo, bookingRepo, listingCache, log)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)

	router := handler.NewRouter(
		cfg.AppEnv,
		jwtManager,
		handler.NewBookingHandler(bookingService, log),
		handler.NewRoomHandler(roomService, log),
		handler.NewAdminHandler(bookingService, log),
		db,
		log,
	)

	srv := &http.Server{
		Addr:              cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}
