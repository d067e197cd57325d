package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// DefaultAEDToKRWRate is used when neither the stored setting nor the
// environment provides a rate.
const DefaultAEDToKRWRate = "385"

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Logging
	LogFile string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// OwnerPasswordHash is the bcrypt hash of the single owner's password.
	// Empty disables authentication.
	OwnerPasswordHash string

	// DefaultAEDToKRWRate is the fallback for the aed_to_krw_rate setting.
	DefaultAEDToKRWRate decimal.Decimal

	// ClosingBatchSize caps rows per insert batch when writing closing details.
	ClosingBatchSize int
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		LogFile:           getEnv("LOG_FILE", ""),
		JWTSecret:         getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		OwnerPasswordHash: getEnv("OWNER_PASSWORD_HASH", ""),
	}

	// Parse JWT expiration duration
	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	rateStr := getEnv("DEFAULT_AED_TO_KRW_RATE", DefaultAEDToKRWRate)
	rate, err := decimal.NewFromString(rateStr)
	if err != nil || !rate.IsPositive() || !rate.Equal(rate.Truncate(8)) {
		return nil, fmt.Errorf("DEFAULT_AED_TO_KRW_RATE must be a positive number with at most 8 decimal places, got %q", rateStr)
	}
	config.DefaultAEDToKRWRate = rate

	batchStr := getEnv("CLOSING_BATCH_SIZE", "100")
	batch, err := strconv.Atoi(batchStr)
	if err != nil || batch < 1 {
		return nil, fmt.Errorf("CLOSING_BATCH_SIZE must be a positive integer, got %q", batchStr)
	}
	config.ClosingBatchSize = batch

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// AuthEnabled reports whether protected routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.OwnerPasswordHash != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
