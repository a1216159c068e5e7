package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/warehouse-ops/operations-api/internal/api/handlers"
	"github.com/warehouse-ops/operations-api/internal/application"
	"github.com/warehouse-ops/operations-api/internal/domain"
	kafkainfra "github.com/warehouse-ops/operations-api/internal/infrastructure/kafka"
	mongoRepo "github.com/warehouse-ops/operations-api/internal/infrastructure/mongodb"
	"github.com/warehouse-ops/operations-api/internal/infrastructure/partner"
	"github.com/warehouse-ops/operations-api/pkg/kafka"
	"github.com/warehouse-ops/operations-api/pkg/logging"
	"github.com/warehouse-ops/operations-api/pkg/metrics"
	"github.com/warehouse-ops/operations-api/pkg/middleware"
	"github.com/warehouse-ops/operations-api/pkg/mongodb"
	"github.com/warehouse-ops/operations-api/pkg/tracing"
)

const serviceName = "operations-api"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting operations-api")

	config, err := loadConfig()
	if err != nil {
		logger.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}
	ctx := context.Background()

	// OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	tracingConfig.Environment = getEnv("ENVIRONMENT", "development")
	tracingConfig.Enabled = getEnv("TRACING_ENABLED", "false") == "true"

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else if tracerProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint)
	}

	// Prometheus metrics
	m := metrics.New(metrics.DefaultConfig(serviceName))

	// MongoDB
	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Kafka producer
	producer := kafka.NewProducer(config.Kafka)
	defer producer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	publisher := kafkainfra.NewEventPublisher(producer, m, logger)

	// Repositories
	db := mongoClient.Database()
	putawayRepo := mongoRepo.NewPutawayOrderRepository(db)
	bulkRepo := mongoRepo.NewBulkStorageOrderRepository(db)
	roRepo := mongoRepo.NewReplenishmentOrderRepository(db)
	poRepo := mongoRepo.NewPurchaseOrderRepository(db)
	ledgerRepo := mongoRepo.NewInventoryLedgerRepository(db)
	auditRepo := mongoRepo.NewAdjustmentAuditRepository(db)
	catalogRepo := mongoRepo.NewCatalogRepository(db)
	transactor := mongoRepo.NewTransactor(mongoClient)

	// Partner notifier
	notifier := partner.NewNotifier(config.Partner, m, logger)

	// Application services
	clock := domain.RealClock{}
	storageOrderService := application.NewStorageOrderService(
		putawayRepo, bulkRepo, domain.AlwaysAvailableChecker{}, publisher, clock, logger)
	replenishmentService := application.NewReplenishmentService(
		roRepo, domain.AlwaysAvailableChecker{}, publisher, clock, logger)
	purchaseOrderService := application.NewPurchaseOrderService(
		poRepo, catalogRepo, notifier, publisher, clock, logger)
	adjustmentService := application.NewAdjustmentService(
		ledgerRepo, auditRepo, catalogRepo, domain.LedgerStockChecker{Ledger: ledgerRepo},
		transactor, publisher, clock, logger)
	catalogService := application.NewCatalogService(catalogRepo, logger)

	// Gin router with the standard middleware stack
	router := gin.New()
	middleware.Setup(router, middleware.DefaultConfig(serviceName, logger.Logger))
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.SimpleTracingMiddleware(serviceName))
	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	api := router.Group("/api/v1")
	handlers.NewStorageOrderHandlers(storageOrderService, m, logger).RegisterRoutes(api)
	handlers.NewReplenishmentHandlers(replenishmentService, m, logger).RegisterRoutes(api)
	handlers.NewPurchaseOrderHandlers(purchaseOrderService, logger).RegisterRoutes(api)
	handlers.NewAdjustmentHandlers(adjustmentService, m, logger).RegisterRoutes(api)
	handlers.NewCatalogHandlers(catalogService, logger).RegisterRoutes(api)

	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
