package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shelfsense/backend/internal/replenishment"
	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/internal/replenishment/repository"
	"github.com/shelfsense/backend/internal/replenishment/usecase/command"
	"github.com/shelfsense/backend/kafka"
	"github.com/shelfsense/backend/pkg/database"
	"github.com/shelfsense/backend/pkg/logger"
)

// The sweeper runs one replenishment pass over every stocked pair and exits.
// It is meant to be scheduled (cron, Kubernetes CronJob) alongside the API
// server, which exposes the same pass behind POST /api/replenishment/trigger-all.
func main() {
	_ = godotenv.Load()

	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init("shelfsense-sweeper", isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "shelfsensedb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	var publisher domain.EventPublisher = domain.NopPublisher{}
	if brokers := splitBrokers(getEnv("KAFKA_BROKERS", "")); len(brokers) > 0 {
		kafkaPublisher, err := kafka.NewPublisher(brokers)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka publisher")
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	store := repository.NewStore(db)
	handler := command.NewTriggerReplenishmentHandler(store, publisher, replenishment.PolicyFromEnv())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	result, err := handler.Handle(ctx)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Replenishment sweep failed")
	}

	for _, pairErr := range result.Errors {
		logger.Logger.Warn().
			Uint("product_id", pairErr.ProductID).
			Uint("shelf_id", pairErr.ShelfID).
			Str("error", pairErr.Message).
			Msg("Pair skipped during sweep")
	}

	logger.Logger.Info().
		Str("run_id", result.RunID).
		Int("alerts_created", result.AlertsCreated).
		Int("alerts_found", result.AlertsFound).
		Int("requests_created", result.RequestsCreated).
		Int("tasks_assigned", result.TasksAssigned).
		Int("pair_errors", len(result.Errors)).
		Dur("duration", time.Since(start)).
		Msg("Replenishment sweep finished")

	if len(result.Errors) > 0 {
		os.Exit(1)
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
