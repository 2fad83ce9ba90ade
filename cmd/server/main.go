package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/avlawson/candyshop-backend/config"
	"github.com/avlawson/candyshop-backend/internal/app/controller"
	"github.com/avlawson/candyshop-backend/internal/app/repository"
	"github.com/avlawson/candyshop-backend/internal/app/service"
	"github.com/avlawson/candyshop-backend/internal/db"
	"github.com/avlawson/candyshop-backend/internal/middleware"
	"github.com/avlawson/candyshop-backend/internal/router"
	"github.com/avlawson/candyshop-backend/internal/scheduler"
	"github.com/avlawson/candyshop-backend/internal/storage"
	"github.com/avlawson/candyshop-backend/pkg/cache"
	"github.com/avlawson/candyshop-backend/pkg/logger"
	"github.com/avlawson/candyshop-backend/pkg/mailer"
	"github.com/avlawson/candyshop-backend/pkg/platform/woocommerce"
	"github.com/avlawson/candyshop-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting candy shop backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the platform category cache. The shop works without it,
	// the cache just degrades to pass-through.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, category cache disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	packagingRepo := repository.NewPackagingRepository(db.GetDB())
	labelRepo := repository.NewLabelRepository(db.GetDB())
	settingsRepo := repository.NewSettingsRepository(db.GetDB())
	blockRepo := repository.NewBlockRepository(db.GetDB())
	slotRepo := repository.NewSlotRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// External clients
	wooClient, err := woocommerce.NewClient(woocommerce.Config{
		BaseURL:        cfg.Woo.BaseURL,
		ConsumerKey:    cfg.Woo.ConsumerKey,
		ConsumerSecret: cfg.Woo.ConsumerSecret,
	})
	if err != nil {
		logger.Fatal("Failed to create WooCommerce client", err)
	}
	categoryCache := cache.NewCategoryCache(redis.GetClient(), cfg.Woo.CategoryTTL)
	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize services
	pricingService := service.NewPricingService(categoryRepo, packagingRepo, labelRepo, settingsRepo, blockRepo)
	calendarService := service.NewCalendarService(blockRepo, settingsRepo)
	scheduleService := service.NewScheduleService(slotRepo, orderRepo, settingsRepo, calendarService, db.GetDB())
	notificationService := service.NewNotificationService(mail, cfg.SMTP.OwnerTo)
	orderService := service.NewOrderService(orderRepo, pricingService, notificationService, db.GetDB())
	platformService := service.NewPlatformService(orderRepo, wooClient, categoryCache)
	settingsService := service.NewSettingsService(settingsRepo)
	catalogService := service.NewCatalogService(categoryRepo, packagingRepo, labelRepo)
	paymentService, err := service.NewPaymentService(orderRepo, orderService, cfg)
	if err != nil {
		logger.Fatal("Failed to create payment service", err)
	}

	// Initialize controllers
	authController := controller.NewAuthController(cfg)
	quoteController := controller.NewQuoteController(pricingService)
	orderController := controller.NewOrderController(orderService)
	paymentController := controller.NewPaymentController(paymentService, orderService, platformService, notificationService)
	scheduleController := controller.NewScheduleController(scheduleService)
	calendarController := controller.NewCalendarController(calendarService)
	settingsController := controller.NewSettingsController(settingsService)
	catalogController := controller.NewCatalogController(catalogService)
	platformController := controller.NewPlatformController(platformService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Admin.JWTSecret)

	// Shipped orders revert to paid a day after shipping.
	revertScheduler := scheduler.NewShippedRevertScheduler(orderService)
	if err := revertScheduler.Start(); err != nil {
		logger.Fatal("Failed to start shipped revert scheduler", err)
	}
	defer revertScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		quoteController,
		orderController,
		paymentController,
		scheduleController,
		calendarController,
		settingsController,
		catalogController,
		platformController,
		uploadController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
