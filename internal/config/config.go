package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port    string
	BaseURL string

	// Database
	DBDriver string // "sqlite" or "postgres"
	DBPath   string // SQLite file path
	DBURL    string // PostgreSQL connection string

	// Background recalculation
	RecalcSchedule  string // cron expression
	RecalcOnStartup bool

	// Economics defaults
	DefaultCleaningCost       float64
	DefaultFuelPricePerTon    float64
	DefaultDowntimeCostPerDay float64
	DowntimeDays              int
	CriticalCostPerDay        float64

	// Exposure
	ExposureWindowDays int
}

func Load() *Config {
	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	return &Config{
		Port:                      getEnv("PORT", "8080"),
		BaseURL:                   getEnv("BASE_URL", "http://localhost:8080"),
		DBDriver:                  getEnv("DB_DRIVER", "sqlite"),
		DBPath:                    getEnv("DB_PATH", "./data/hullwatch.db"),
		DBURL:                     getEnv("DATABASE_URL", ""),
		RecalcSchedule:            getEnv("RECALC_SCHEDULE", "0 */6 * * *"), // every 6 hours
		RecalcOnStartup:           getEnvBool("RECALC_ON_STARTUP", true),
		DefaultCleaningCost:       getEnvFloat("DEFAULT_CLEANING_COST", 85000),
		DefaultFuelPricePerTon:    getEnvFloat("DEFAULT_FUEL_PRICE_PER_TON", 4200),
		DefaultDowntimeCostPerDay: getEnvFloat("DEFAULT_DOWNTIME_COST_PER_DAY", 120000),
		DowntimeDays:              getEnvInt("DOWNTIME_DAYS", 3),
		CriticalCostPerDay:        getEnvFloat("CRITICAL_COST_PER_DAY", 5000),
		ExposureWindowDays:        getEnvInt("EXPOSURE_WINDOW_DAYS", 30),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	val = strings.ToLower(val)
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return f
}
