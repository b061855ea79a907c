package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pesokrava/product_marketplace/internal/config"
	"github.com/Pesokrava/product_marketplace/internal/delivery/events"
	"github.com/Pesokrava/product_marketplace/internal/pkg/database"
	"github.com/Pesokrava/product_marketplace/internal/pkg/logger"
	"github.com/Pesokrava/product_marketplace/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env, cfg.LogLevel)
	appLogger.Info("Starting notifier service...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(ctx, cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	consumer, err := events.NewConsumer(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS consumer", err)
	}
	defer consumer.Close()

	notifications := worker.NewNotificationWorker(
		worker.NewOwnerLookup(db),
		worker.NewLogDispatcher(appLogger),
		appLogger,
	)

	appLogger.Infof("Notifier listening on %s", cfg.NATS.Subject)
	consumer.Run(ctx, notifications.HandleEvent)

	appLogger.Info("Shutting down notifier service...")
}
