package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"github.com/shelfsense/backend/internal/catalog"
	cataloghttp "github.com/shelfsense/backend/internal/catalog/delivery/http"
	catalogrepo "github.com/shelfsense/backend/internal/catalog/repository"
	"github.com/shelfsense/backend/internal/middleware"
	"github.com/shelfsense/backend/internal/replenishment"
	replhttp "github.com/shelfsense/backend/internal/replenishment/delivery/http"
	"github.com/shelfsense/backend/internal/replenishment/domain"
	replrepo "github.com/shelfsense/backend/internal/replenishment/repository"
	"github.com/shelfsense/backend/internal/replenishment/usecase/command"
	"github.com/shelfsense/backend/internal/stock"
	stockhttp "github.com/shelfsense/backend/internal/stock/delivery/http"
	stockrepo "github.com/shelfsense/backend/internal/stock/repository"
	"github.com/shelfsense/backend/kafka"
	"github.com/shelfsense/backend/pkg/cache"
	"github.com/shelfsense/backend/pkg/database"
	"github.com/shelfsense/backend/pkg/logger"
	"github.com/shelfsense/backend/pkg/tracing"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "shelfsense-backend")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting shelfsense backend")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "shelfsensedb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Kafka publisher is optional; without brokers the lifecycle events are dropped
	var publisher domain.EventPublisher = domain.NopPublisher{}
	brokers := splitBrokers(getEnv("KAFKA_BROKERS", ""))
	if len(brokers) > 0 {
		kafkaPublisher, err := kafka.NewPublisher(brokers)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher

		logger.Logger.Info().
			Strs("brokers", brokers).
			Msg("Kafka publisher initialized")
	}

	// Redis cache is optional; an empty address disables projection caching
	projectionCache := cache.NewFromAddr(getEnv("REDIS_ADDR", ""), cache.DefaultTTL)
	if projectionCache != nil {
		logger.Logger.Info().
			Str("addr", getEnv("REDIS_ADDR", "")).
			Msg("Redis projection cache initialized")
	}

	// Initialize handlers with Wire DI
	catalogHandler, err := catalog.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize catalog handler")
	}

	stockHandler, err := stock.InitializeHTTPHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize stock handler")
	}

	replenishmentHandler, err := replenishment.InitializeHTTPHandler(db, publisher, projectionCache)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize replenishment handler")
	}

	logger.Logger.Info().Msg("Handlers initialized")

	// Consume warehouse confirmations when brokers are configured
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()
	if len(brokers) > 0 {
		consumer, err := startConfirmationConsumer(consumerCtx, db, publisher, brokers)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start warehouse confirmation consumer")
		}
		defer consumer.Close()
	}

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8080")
	go startHTTPServer(catalogHandler, stockHandler, replenishmentHandler, sqlDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func runMigrations(db *gorm.DB) error {
	if err := catalogrepo.NewGormCatalogRepository(db).AutoMigrate(); err != nil {
		return err
	}
	if err := stockrepo.NewGormShelfStockRepository(db).AutoMigrate(); err != nil {
		return err
	}
	if err := replrepo.NewStore(db).AutoMigrate(); err != nil {
		return err
	}
	return nil
}

// startConfirmationConsumer wires warehouse confirmation events back into the
// stock request lifecycle commands.
func startConfirmationConsumer(ctx context.Context, db *gorm.DB, publisher domain.EventPublisher, brokers []string) (*kafka.Consumer, error) {
	store := replrepo.NewStore(db)
	policy := replenishment.PolicyFromEnv()

	inTransitHandler := command.NewMarkInTransitHandler(store, policy)
	deliveredHandler := command.NewMarkDeliveredHandler(store, publisher)
	cancelledHandler := command.NewMarkCancelledHandler(store, publisher)

	groupID := getEnv("KAFKA_GROUP_ID", "shelfsense-backend")
	consumer, err := kafka.NewConsumer(brokers, groupID, []string{kafka.TopicWarehouseConfirmations})
	if err != nil {
		return nil, err
	}

	consumer.RegisterHandler(kafka.EventTypeConfirmDispatched, func(ctx context.Context, event kafka.WarehouseConfirmationEvent) error {
		_, err := inTransitHandler.Handle(ctx, command.MarkInTransitCommand{RequestID: event.RequestID, ETA: event.ETA})
		return err
	})
	consumer.RegisterHandler(kafka.EventTypeConfirmDelivered, func(ctx context.Context, event kafka.WarehouseConfirmationEvent) error {
		_, err := deliveredHandler.Handle(ctx, command.MarkDeliveredCommand{RequestID: event.RequestID})
		return err
	})
	consumer.RegisterHandler(kafka.EventTypeConfirmCancelled, func(ctx context.Context, event kafka.WarehouseConfirmationEvent) error {
		_, err := cancelledHandler.Handle(ctx, command.MarkCancelledCommand{RequestID: event.RequestID, Reason: event.Reason})
		return err
	})

	if err := consumer.Start(ctx); err != nil {
		return nil, err
	}

	logger.Logger.Info().
		Str("group_id", groupID).
		Str("topic", kafka.TopicWarehouseConfirmations).
		Msg("Warehouse confirmation consumer started")

	return consumer, nil
}

func startHTTPServer(catalogHandler *cataloghttp.CatalogHandler, stockHandler *stockhttp.StockHandler, replenishmentHandler *replhttp.ReplenishmentHandler, db *sql.DB, port string) {
	// Setup router
	router := mux.NewRouter()

	// Register routes
	catalogHandler.RegisterRoutes(router)
	stockHandler.RegisterRoutes(router)
	replenishmentHandler.RegisterRoutes(router)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	chain := middleware.TracingMiddleware("http.request", middleware.LoggingMiddleware(router))
	if err := http.ListenAndServe(":"+port, c.Handler(chain)); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func splitBrokers(value string) []string {
	if value == "" {
		return nil
	}
	var brokers []string
	for _, broker := range strings.Split(value, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
