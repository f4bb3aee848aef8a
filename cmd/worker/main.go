package main

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/harborview/service-reservation/internal/config"
	"github.com/harborview/service-reservation/internal/email"
	"github.com/harborview/service-reservation/internal/events"
	"github.com/harborview/service-reservation/internal/platform/database"
	"github.com/harborview/service-reservation/internal/platform/kafka"
	"github.com/harborview/service-reservation/internal/platform/logger"
	"github.com/harborview/service-reservation/internal/repository"
	"github.com/harborview/service-reservation/internal/scheduler"
)

// The worker hosts the asynchronous side of the service: the notification
// consumer turning events into emails, and the reminder scheduler for
// tomorrow's confirmed stays.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "worker")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(database.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mailer := email.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, log)
	notificationHandler := events.NewNotificationHandler(mailer, cfg.SMTP.HousekeepingEmail, log)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
	defer func() { _ = consumer.Close() }()

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = producer.Close() }()

	bookingRepo := repository.NewGormBookingRepository(db)
	guestRepo := repository.NewGormGuestRepository(db)
	reminderLog := repository.NewGormReminderLog(db)
	notifier := events.NewKafkaNotifier(producer, cfg.Kafka.NotificationsTopic, log)

	reminders := scheduler.NewReminderScheduler(
		time.Duration(cfg.ReminderIntervalMinutes)*time.Minute,
		bookingRepo,
		guestRepo,
		reminderLog,
		notifier,
		log,
	)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := consumer.Consume(ctx, notificationHandler.Handle); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("notification consumer stopped", zap.Error(err))
			stop()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		reminders.Start(ctx)
	}()

	log.Info("worker started")
	<-ctx.Done()
	log.Info("shutting down")
	wg.Wait()
	log.Info("worker stopped")
}
