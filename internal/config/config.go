package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// API Configuration
	APIPort          string
	APIHost          string
	HTTPWriteTimeout time.Duration
	CORSOrigins      []string

	// Shared secret for the sync trigger endpoints
	SyncSecret string

	// Remote catalog
	CatalogAPIURL     string
	CatalogAPIToken   string
	CatalogStoreID    string
	CatalogTimeout    time.Duration
	CatalogRetries    int
	CatalogRetryDelay time.Duration

	// Sync
	SyncPageSize int
	SyncSchedule string
	SyncLeaseTTL time.Duration

	// Kafka
	KafkaBrokers []string
	KafkaTopic   string
	WebhookAsync bool

	// Storefront read cache
	CacheTTL time.Duration

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:       getEnv("DATABASE_URL", "sqlite://storesync.db"),
		APIPort:           getEnv("API_PORT", "8080"),
		APIHost:           getEnv("API_HOST", "0.0.0.0"),
		HTTPWriteTimeout:  getEnvAsDuration("HTTP_WRITE_TIMEOUT", 10*time.Minute),
		CORSOrigins:       getEnvAsSlice("CORS_ORIGINS", []string{"*"}),
		SyncSecret:        getEnv("SYNC_SECRET", ""),
		CatalogAPIURL:     getEnv("CATALOG_API_URL", "https://api.printful.com"),
		CatalogAPIToken:   getEnv("CATALOG_API_TOKEN", ""),
		CatalogStoreID:    getEnv("CATALOG_STORE_ID", ""),
		CatalogTimeout:    getEnvAsDuration("CATALOG_TIMEOUT", 30*time.Second),
		CatalogRetries:    getEnvAsInt("CATALOG_RETRIES", 3),
		CatalogRetryDelay: getEnvAsDuration("CATALOG_RETRY_DELAY", time.Second),
		SyncPageSize:      getEnvAsInt("SYNC_PAGE_SIZE", 100),
		SyncSchedule:      lookupEnv("SYNC_SCHEDULE", "0 0 3 * * *"),
		SyncLeaseTTL:      getEnvAsDuration("SYNC_LEASE_TTL", 2*time.Hour),
		KafkaBrokers:      getEnvAsSlice("KAFKA_BROKERS", nil),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "catalog-events"),
		WebhookAsync:      getEnvAsBool("WEBHOOK_ASYNC", false),
		CacheTTL:          getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// lookupEnv is getEnv for settings where an explicitly empty value means
// "off".
func lookupEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
