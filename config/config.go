package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// HTTP API
	HTTPPort int

	// Ingestion
	DataDir      string
	WatchEnabled bool
	FeedURL      string // optional live pipeline feed, empty = disabled

	// Database configuration
	DatabaseHost     string
	DatabasePort     string
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Analysis configuration
	Analysis AnalysisConfig
}

// AnalysisConfig holds statistical parameters and analyzer schedules
type AnalysisConfig struct {
	// Recompute intervals
	TrendIntervalMinutes       int
	PeriodicityIntervalMinutes int
	AnomalyIntervalMinutes     int
	CorrelationIntervalMinutes int
	SummaryIntervalMinutes     int

	// Anomaly detection
	RollingWindowDays  int     // trailing window for the baseline mean
	DeviationThreshold float64 // flag beyond this many standard deviations
	CriticalLowRatio   float64 // days under this fraction of the mean are critical

	// Trend detection
	TrendNoiseRatio float64 // projected change below this fraction of the mean is flat
	TrendWindowDays int

	// Correlation
	CorrelationMinDays   int
	StrongPositiveCutoff float64
	StrongNegativeCutoff float64

	// Per-country overrides loaded from the thresholds file
	ThresholdsPath string
	Overrides      map[string]CountryThresholds
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		HTTPPort: getEnvInt("HTTP_PORT", 8080),

		DataDir:      getEnvOrDefault("DATA_DIR", "./data"),
		WatchEnabled: getEnvOrDefault("WATCH_ENABLED", "true") == "true",
		FeedURL:      os.Getenv("FEED_WS_URL"),

		// Database configuration
		DatabaseHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DatabasePort:     getEnvOrDefault("DB_PORT", "5432"),
		DatabaseName:     getEnvOrDefault("DB_NAME", "flytxt_logs"),
		DatabaseUser:     getEnvOrDefault("DB_USER", "flytxt"),
		DatabasePassword: getEnvOrDefault("DB_PASSWORD", "flytxt123"),

		// Redis configuration
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		// Analysis configuration
		Analysis: AnalysisConfig{
			TrendIntervalMinutes:       getEnvInt("ANALYSIS_TREND_INTERVAL", 30),
			PeriodicityIntervalMinutes: getEnvInt("ANALYSIS_PERIODICITY_INTERVAL", 60),
			AnomalyIntervalMinutes:     getEnvInt("ANALYSIS_ANOMALY_INTERVAL", 15),
			CorrelationIntervalMinutes: getEnvInt("ANALYSIS_CORRELATION_INTERVAL", 60),
			SummaryIntervalMinutes:     getEnvInt("ANALYSIS_SUMMARY_INTERVAL", 10),

			RollingWindowDays:  getEnvInt("ANALYSIS_ROLLING_WINDOW", 7),
			DeviationThreshold: getEnvFloat("ANALYSIS_DEVIATION_THRESHOLD", 2.0),
			CriticalLowRatio:   getEnvFloat("ANALYSIS_CRITICAL_LOW_RATIO", 0.10),

			TrendNoiseRatio: getEnvFloat("ANALYSIS_TREND_NOISE_RATIO", 0.05),
			TrendWindowDays: getEnvInt("ANALYSIS_TREND_WINDOW", 30),

			CorrelationMinDays:   getEnvInt("ANALYSIS_CORRELATION_MIN_DAYS", 10),
			StrongPositiveCutoff: getEnvFloat("ANALYSIS_STRONG_POSITIVE", 0.7),
			StrongNegativeCutoff: getEnvFloat("ANALYSIS_STRONG_NEGATIVE", -0.3),

			ThresholdsPath: getEnvOrDefault("ANALYSIS_THRESHOLDS_FILE", ""),
		},
	}

	if cfg.Analysis.ThresholdsPath != "" {
		overrides, err := LoadThresholds(cfg.Analysis.ThresholdsPath)
		if err != nil {
			log.Printf("⚠️  Failed to load thresholds file %s: %v", cfg.Analysis.ThresholdsPath, err)
		} else {
			cfg.Analysis.Overrides = overrides
		}
	}

	return cfg
}

// WindowFor returns the rolling window for a country, honoring overrides
func (a AnalysisConfig) WindowFor(country string) int {
	if o, ok := a.Overrides[country]; ok && o.RollingWindowDays != nil {
		return *o.RollingWindowDays
	}
	return a.RollingWindowDays
}

// DeviationFor returns the deviation threshold for a country, honoring overrides
func (a AnalysisConfig) DeviationFor(country string) float64 {
	if o, ok := a.Overrides[country]; ok && o.DeviationThreshold != nil {
		return *o.DeviationThreshold
	}
	return a.DeviationThreshold
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvFloat gets environment variable as float64 or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var floatValue float64
	if _, err := fmt.Sscanf(value, "%f", &floatValue); err != nil {
		return defaultValue
	}
	return floatValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
