package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the application
type Config struct {
	ServerPort           string
	DatabasePath         string
	ScraperBaseURL       string
	DataSource           string
	ScrapeIntervalHours  string
	BackfillDelaySeconds string
	PozoMaxNumber        string
	LogLevel             string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "3000"),
		DatabasePath:         getEnv("DATABASE_PATH", "./quini6.db"),
		ScraperBaseURL:       getEnv("SCRAPER_BASE_URL", "https://www.quini-6-resultados.com.ar"),
		DataSource:           getEnv("DATA_SOURCE", "scrape"),
		ScrapeIntervalHours:  getEnv("SCRAPE_INTERVAL_HOURS", "6"),
		BackfillDelaySeconds: getEnv("BACKFILL_DELAY_SECONDS", "3"),
		PozoMaxNumber:        getEnv("POZO_MAX_NUMBER", "99"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetScrapeInterval returns the scheduled scrape interval as a duration
func (c *Config) GetScrapeInterval() time.Duration {
	hours, err := strconv.Atoi(c.ScrapeIntervalHours)
	if err != nil || hours <= 0 {
		logrus.Warnf("Invalid SCRAPE_INTERVAL_HOURS value '%s', using default 6 hours", c.ScrapeIntervalHours)
		return 6 * time.Hour
	}
	return time.Duration(hours) * time.Hour
}

// GetBackfillDelay returns the pause between archived page fetches
func (c *Config) GetBackfillDelay() time.Duration {
	seconds, err := strconv.Atoi(c.BackfillDelaySeconds)
	if err != nil || seconds < 0 {
		logrus.Warnf("Invalid BACKFILL_DELAY_SECONDS value '%s', using default 3 seconds", c.BackfillDelaySeconds)
		return 3 * time.Second
	}
	return time.Duration(seconds) * time.Second
}

// GetPozoMaxNumber returns the highest ball value accepted when building the
// synthesized draw
func (c *Config) GetPozoMaxNumber() int {
	max, err := strconv.Atoi(c.PozoMaxNumber)
	if err != nil || max <= 0 {
		logrus.Warnf("Invalid POZO_MAX_NUMBER value '%s', using default 99", c.PozoMaxNumber)
		return 99
	}
	return max
}

// GetLogLevel parses the configured log level, defaulting to info
func (c *Config) GetLogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid LOG_LEVEL value '%s', using default info", c.LogLevel)
		return logrus.InfoLevel
	}
	return level
}
