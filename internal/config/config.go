package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment: "prod" or "staging"
	Env string

	// Identity provider
	AuthURL           string
	ClientID          string
	ClientSecret      string
	Audience          string
	GrantType         string
	AuthVersionHeader string

	// Pricenow APIs
	APIBase           string
	MainAPIVersion    string
	PricingAPIVersion string
	PageSize          int

	// Token cache
	TokenCachePath string

	// Database
	DatabaseURL string

	// Kafka (empty disables event publishing)
	KafkaBrokers string

	// API server
	APIPort string
	APIHost string

	// Cron expression for recurring syncs in server mode (empty disables)
	SyncSchedule string

	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	env := getEnv("PRICENOW_ENV", "prod")

	authURL := "https://auth.pricenow.ch/oauth/token"
	apiBase := "https://api.pricenow.dev"
	if env == "staging" {
		authURL = "https://pricenow-staging.eu.auth0.com/oauth/token"
		apiBase = "https://api.test.pricenow.dev"
	}

	cfg := &Config{
		Env:               env,
		AuthURL:           getEnv("AUTH_URL", authURL),
		ClientID:          getEnv("PRICENOW_CLIENT_ID", ""),
		ClientSecret:      getEnv("PRICENOW_CLIENT_SECRET", ""),
		Audience:          getEnv("AUDIENCE", ""),
		GrantType:         getEnv("GRANT_TYPE", "client_credentials"),
		AuthVersionHeader: getEnv("AUTH_VERSION_HEADER", ""),
		APIBase:           getEnv("API_BASE", apiBase),
		MainAPIVersion:    getEnv("MAIN_API_VERSION", "2024-01-01"),
		PricingAPIVersion: getEnv("PRICING_API_VERSION", ""),
		PageSize:          getEnvAsInt("PAGE_SIZE", 1000),
		TokenCachePath:    getEnv("TOKEN_CACHE_FILE", ".pricenow_token_cache.json"),
		DatabaseURL:       getEnv("DATABASE_URL", "sqlite://pricefeed.db"),
		KafkaBrokers:      getEnv("KAFKA_BROKERS", ""),
		APIPort:           getEnv("API_PORT", "8080"),
		APIHost:           getEnv("API_HOST", "0.0.0.0"),
		SyncSchedule:      getEnv("SYNC_SCHEDULE", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("missing Pricenow credentials (PRICENOW_CLIENT_ID, PRICENOW_CLIENT_SECRET)")
	}
	if cfg.Audience == "" || cfg.AuthVersionHeader == "" || cfg.PricingAPIVersion == "" {
		return nil, fmt.Errorf("missing Pricenow API headers (AUDIENCE, AUTH_VERSION_HEADER, PRICING_API_VERSION)")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
