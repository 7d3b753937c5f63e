package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	CatalogPath string

	// Economy knobs. Defaults match the live product; overridable for
	// staging experiments.
	StartingBalance  int64
	ClaimBonusAmount int64
	ClaimCooldown    time.Duration
	ConsolationRate  float64

	// FeedBots enables the synthetic drop generator for the live feed.
	FeedBots bool
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "kazino"),
		CatalogPath: getEnv("CATALOG_PATH", "configs/catalog.env"),
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	starting, err := getEnvInt("STARTING_BALANCE", 500)
	if err != nil {
		return nil, err
	}
	cfg.StartingBalance = int64(starting)

	bonus, err := getEnvInt("CLAIM_BONUS_AMOUNT", 100)
	if err != nil {
		return nil, err
	}
	cfg.ClaimBonusAmount = int64(bonus)

	cooldownMin, err := getEnvInt("CLAIM_COOLDOWN_MINUTES", 20)
	if err != nil {
		return nil, err
	}
	cfg.ClaimCooldown = time.Duration(cooldownMin) * time.Minute

	rateStr := getEnv("CONSOLATION_RATE", "0.05")
	rate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil || rate < 0 || rate >= 1 {
		return nil, fmt.Errorf("invalid CONSOLATION_RATE value %q", rateStr)
	}
	cfg.ConsolationRate = rate

	cfg.FeedBots = getEnv("FEED_BOTS", "true") == "true"

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
