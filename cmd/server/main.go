package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"product_tracker/config"
	"product_tracker/internal/auth"
	"product_tracker/internal/cache"
	"product_tracker/internal/delivery"
	"product_tracker/internal/domain"
	"product_tracker/internal/repository"
	"product_tracker/internal/usecase"
	"product_tracker/pkg/db"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logLevel.String())
	}
	logger.SetLevel(logLevel)
	logger.Info("Starting Product Tracker...")

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("FATAL: Failed to connect to the database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connection established.")

	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenExpiryMins)*time.Minute)

	// --- Repositories ---
	var productRepo domain.ProductRepository = repository.NewPostgresProductRepository(database, logger)
	var cacheInvalidator domain.ProductCacheInvalidator = domain.NoopProductCacheInvalidator{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		cachedRepo := cache.NewCachedProductRepository(productRepo, redisClient, logger)
		productRepo = cachedRepo
		cacheInvalidator = cachedRepo
		logger.Infof("Product cache enabled at %s", cfg.RedisAddr)
	}
	supplierRepo := repository.NewPostgresSupplierRepository(database, logger)
	saleRepo := repository.NewPostgresSaleRepository(database, logger)
	movementRepo := repository.NewPostgresStockMovementRepository(database, logger)
	poRepo := repository.NewPostgresPurchaseOrderRepository(database, logger)
	userRepo := repository.NewPostgresUserRepository(database, logger)
	settingsRepo := repository.NewPostgresSettingsRepository(database, logger)
	auditRepo := repository.NewPostgresAuditRepository(database, logger)
	logger.Info("Repositories initialized.")

	// --- Use cases ---
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, logger)
	productUC := usecase.NewProductUseCase(productRepo, supplierRepo, auditRepo, logger)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, auditRepo, logger)
	saleUC := usecase.NewSaleUseCase(saleRepo, productRepo, settingsUC, auditRepo, cacheInvalidator, logger)
	stockUC := usecase.NewStockUseCase(movementRepo, productRepo, cacheInvalidator, logger)
	poUC := usecase.NewPurchaseOrderUseCase(poRepo, supplierRepo, productRepo, cacheInvalidator, logger)
	reportUC := usecase.NewReportUseCase(productRepo, saleRepo, settingsUC, logger)
	userUC := usecase.NewUserUseCase(userRepo, tokens, logger)
	logger.Info("Use cases initialized.")

	// --- Handlers ---
	productHandler := delivery.NewProductHandler(productUC, logger)
	supplierHandler := delivery.NewSupplierHandler(supplierUC, logger)
	saleHandler := delivery.NewSaleHandler(saleUC, userUC, logger)
	stockHandler := delivery.NewStockHandler(stockUC, logger)
	poHandler := delivery.NewPurchaseOrderHandler(poUC, logger)
	reportHandler := delivery.NewReportHandler(reportUC, logger)
	authHandler := delivery.NewAuthHandler(userUC, logger)
	settingsHandler := delivery.NewSettingsHandler(settingsUC, logger)
	auditHandler := delivery.NewAuditHandler(auditRepo, logger)
	logger.Info("Handlers initialized.")

	if logLevel != logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(delivery.RequestID())
	router.Use(delivery.RequestLogger(logger))

	authHandler.RegisterPublicRoutes(router)

	protected := router.Group("/", delivery.AuthMiddleware(tokens, logger))
	{
		authHandler.RegisterProtectedRoutes(protected)
		productHandler.RegisterRoutes(protected)
		supplierHandler.RegisterRoutes(protected)
		saleHandler.RegisterRoutes(protected)
		stockHandler.RegisterRoutes(protected)
		poHandler.RegisterRoutes(protected)
		reportHandler.RegisterRoutes(protected)
		settingsHandler.RegisterRoutes(protected)
	}

	admin := protected.Group("/", delivery.AdminOnly(logger))
	{
		authHandler.RegisterAdminRoutes(admin)
		settingsHandler.RegisterAdminRoutes(admin)
		auditHandler.RegisterRoutes(admin)
	}
	logger.Info("Routes registered.")

	logger.Infof("Starting server on port %s", cfg.HTTPPort)
	if err := router.Run(cfg.HTTPPort); err != nil {
		logger.Errorf("Failed to start server on port %s: %v", cfg.HTTPPort, err)
		os.Exit(1)
	}
}
