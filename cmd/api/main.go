package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pesokrava/product_marketplace/internal/config"
	"github.com/Pesokrava/product_marketplace/internal/delivery/events"
	httpDelivery "github.com/Pesokrava/product_marketplace/internal/delivery/http"
	"github.com/Pesokrava/product_marketplace/internal/delivery/http/handler"
	"github.com/Pesokrava/product_marketplace/internal/pkg/cache"
	"github.com/Pesokrava/product_marketplace/internal/pkg/database"
	"github.com/Pesokrava/product_marketplace/internal/pkg/logger"
	cacheRepo "github.com/Pesokrava/product_marketplace/internal/repository/cache"
	"github.com/Pesokrava/product_marketplace/internal/repository/postgres"
	"github.com/Pesokrava/product_marketplace/internal/usecase/comment"
	"github.com/Pesokrava/product_marketplace/internal/usecase/product"
	"github.com/Pesokrava/product_marketplace/internal/usecase/report"

	_ "github.com/Pesokrava/product_marketplace/docs"
)

// @title Product Marketplace API
// @version 1.0
// @description Product marketplace with threaded discussions, comment likes and a moderation queue.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/Pesokrava/product_marketplace
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @tag.name Products
// @tag.description Product listing and approval endpoints

// @tag.name Comments
// @tag.description Threaded product discussion endpoints

// @tag.name Reports
// @tag.description Moderation queue endpoints

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Env, cfg.LogLevel)
	logger.SetGlobalLogger(appLogger)
	appLogger.Info("Starting Product Marketplace API...")

	appLogger.Info("Connecting to PostgreSQL...")
	db, err := database.WaitForDB(context.Background(), cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL successfully")

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.RunMigrations(migrateCtx, db)
		cancel()
		if err != nil {
			appLogger.Fatal("Failed to run migrations", err)
		}
		appLogger.Info("Database migrations applied")
	}

	appLogger.Info("Connecting to Redis...")
	redisClient, err := cache.WaitForRedis(context.Background(), cfg, 10, 2*time.Second)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", err)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis successfully")

	appLogger.Info("Connecting to NATS...")
	publisher, err := events.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create NATS publisher", err)
	}
	defer publisher.Close()

	userRepo := postgres.NewUserRepository(db)
	productRepo := postgres.NewProductRepository(db)
	commentRepo := postgres.NewCommentRepository(db)
	likeRepo := postgres.NewLikeRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	moderationStore := postgres.NewModerationStore(db)
	throttle := cacheRepo.NewReportThrottle(
		redisClient,
		cfg.Moderation.ReportRateLimit,
		cfg.Moderation.ReportRateWindow,
	)

	productService := product.NewService(productRepo, publisher, cfg.NATS.Subject, appLogger)
	commentService := comment.NewService(commentRepo, likeRepo, productRepo, userRepo, appLogger)
	reportService := report.NewService(reportRepo, moderationStore, throttle, publisher, cfg.NATS.Subject, appLogger)

	productHandler := handler.NewProductHandler(productService, appLogger)
	commentHandler := handler.NewCommentHandler(commentService, appLogger)
	reportHandler := handler.NewReportHandler(reportService, appLogger)

	router := httpDelivery.NewRouter(productHandler, commentHandler, reportHandler, cfg, appLogger)
	httpHandler := router.Setup()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Infof("HTTP server listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("HTTP server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", err)
	}

	appLogger.Info("Server stopped gracefully")
}
