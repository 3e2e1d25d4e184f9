package main

import (
	"context"
	"log"

	"pricefeed/internal/auth"
	"pricefeed/internal/config"
	"pricefeed/internal/database"
	"pricefeed/internal/etl"
	"pricefeed/internal/events"
	"pricefeed/internal/logger"
	"pricefeed/internal/pricenow"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)
	logger.Info("Environment: %s", cfg.Env)
	logger.Info("API base: %s", cfg.APIBase)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Pricenow client
	tokens := auth.NewManager(cfg, logger)
	client := pricenow.NewClient(cfg, tokens, logger)

	var publisher *events.Publisher
	if cfg.KafkaBrokers != "" {
		publisher = events.NewPublisher(cfg.KafkaBrokers, logger)
		defer publisher.Close()
	}

	runner := etl.NewRunner(cfg, client, db, publisher, logger)

	run, err := runner.Run(context.Background())
	if err != nil {
		logger.Fatal("Sync run failed: %v", err)
	}

	logger.Info("Sync run %s finished: %d products, %d price rows", run.ID, run.Products, run.PriceRows)
}
