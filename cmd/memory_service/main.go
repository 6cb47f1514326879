package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"Mnemo/internal/config"
	kafkadb "Mnemo/internal/database/kafka"
	mongodb "Mnemo/internal/database/mongo"
	redisdb "Mnemo/internal/database/redis"
	"Mnemo/internal/memory/api"
	"Mnemo/internal/memory/cache"
	"Mnemo/internal/memory/consumer"
	"Mnemo/internal/memory/publisher"
	"Mnemo/internal/memory/service"
	"Mnemo/internal/memory/store"
	"Mnemo/internal/models"
	"Mnemo/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.Init(level)
	appLogger := logger.New("memory_service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Kafka first: the initialized notification travels over it.
	kafkaClient, err := kafkadb.GetClient(&cfg.Databases.Kafka)
	if err != nil {
		appLogger.Fatal(err.Error())
	}
	defer kafkaClient.Close()

	eventPublisher := publisher.NewEventPublisher(kafkaClient.Writer, appLogger)

	// Durable storage. A failure here leaves the engine non-functional:
	// report it on the bus and exit, there is no in-memory fallback.
	mongoClient, err := mongodb.GetClient(&cfg.Databases.MongoDB)
	if err != nil {
		eventPublisher.Publish(ctx, models.EventInitialized, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		appLogger.Fatal(err.Error())
	}
	defer mongodb.Close(ctx)

	db := mongoClient.Database(cfg.Databases.MongoDB.Database)
	collections, err := store.NewMongoCollections(ctx, db)
	if err != nil {
		eventPublisher.Publish(ctx, models.EventInitialized, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		appLogger.Fatal(err.Error())
	}

	// Initialize memory service
	opts := []service.Option{service.WithObserver(eventPublisher)}
	health := map[string]api.HealthChecker{
		"mongodb": func(c *gin.Context) error { return mongodb.HealthCheck(c.Request.Context()) },
		"kafka":   func(c *gin.Context) error { return kafkaClient.HealthCheck(c.Request.Context()) },
	}

	if cfg.Memory.CacheBackend == "redis" {
		redisClient, err := redisdb.GetClient(&cfg.Databases.Redis)
		if err != nil {
			appLogger.Fatal(err.Error())
		}
		defer redisdb.Close()
		opts = append(opts, service.WithCaches(cache.NewRedisCaches(redisClient, cfg.Memory.StoreName, nil)))
		health["redis"] = func(c *gin.Context) error { return redisdb.HealthCheck(c.Request.Context()) }
	}

	memoryService := service.NewMemoryService(collections, cfg.Memory, appLogger, opts...)

	// Initial consolidation sweep, then announce readiness.
	if err := memoryService.Start(ctx); err != nil {
		eventPublisher.Publish(ctx, models.EventInitialized, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		appLogger.Fatal(err.Error())
	}
	eventPublisher.Publish(ctx, models.EventInitialized, map[string]interface{}{
		"success": true,
	})

	// Initialize and start Kafka consumer
	kafkaConsumer := consumer.NewKafkaConsumer(kafkaClient, memoryService, eventPublisher, appLogger)
	kafkaConsumer.Start(ctx)

	// HTTP query surface
	handler := api.NewHandler(memoryService, health)
	router := api.SetupRouter(handler)
	go func() {
		addr := cfg.Server.Address
		if addr == "" {
			addr = ":8080"
		}
		if err := router.Run(addr); err != nil {
			appLogger.WithError(err).Error("http server stopped")
		}
	}()

	appLogger.Info("Memory service started")

	// Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	cancel()
	appLogger.Info("Memory service stopped")
}
