package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL         string
	JWTSecret           string
	JWTExpiration       time.Duration
	ServerPort          string
	HolidayFeedURL      string
	HolidayFeedTTL      time.Duration
	BootstrapAdminEmail string
}

func Load() *Config {
	// Optional .env; real environments set variables directly.
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:         getEnv("DATABASE_URL", "postgresql://postgres@localhost:5432/worklog"),
		JWTSecret:           getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTExpiration:       24 * time.Hour,
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		HolidayFeedURL:      getEnv("HOLIDAY_FEED_URL", "https://holidays-jp.github.io/api/v1/date.json"),
		HolidayFeedTTL:      getEnvDuration("HOLIDAY_FEED_TTL", 12*time.Hour),
		BootstrapAdminEmail: getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
