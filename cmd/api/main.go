package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pricefeed/internal/api"
	"pricefeed/internal/auth"
	"pricefeed/internal/config"
	"pricefeed/internal/database"
	"pricefeed/internal/etl"
	"pricefeed/internal/events"
	"pricefeed/internal/logger"
	"pricefeed/internal/pricenow"
	"pricefeed/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Pricenow client and runner
	tokens := auth.NewManager(cfg, logger)
	client := pricenow.NewClient(cfg, tokens, logger)

	var publisher *events.Publisher
	if cfg.KafkaBrokers != "" {
		publisher = events.NewPublisher(cfg.KafkaBrokers, logger)
		defer publisher.Close()
	}

	runner := etl.NewRunner(cfg, client, db, publisher, logger)

	// Recurring syncs
	if cfg.SyncSchedule != "" {
		sched, err := scheduler.New(cfg.SyncSchedule, func() {
			if _, err := runner.Run(context.Background()); err != nil {
				logger.Error("Scheduled sync failed: %v", err)
			}
		}, logger)
		if err != nil {
			logger.Fatal("Failed to set up scheduler: %v", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// Initialize API server
	server := api.New(cfg, logger, db, runner)

	// Start server
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
}
