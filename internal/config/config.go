package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port              string
	DBUrl             string
	JWTSecret         string
	AppEnv            string
	LogLevel          string
	RedisURL          string
	CoachSharePercent decimal.Decimal
	AdminRateLimit    int
	AdminRateWindow   time.Duration
	AdminEmail        string
	AdminPassword     string
	CORSOrigins       string

	// EnvFileLoaded is false when no .env file was found; the process then
	// relies on the real environment only.
	EnvFileLoaded bool
}

func LoadConfig() (*Config, error) {
	envFileLoaded := godotenv.Load() == nil

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	coachShare, err := getEnvDecimal("COACH_SHARE_PERCENT", decimal.NewFromInt(80))
	if err != nil {
		return nil, err
	}
	if coachShare.IsNegative() || coachShare.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("COACH_SHARE_PERCENT must be between 0 and 100, got %s", coachShare)
	}

	rateLimit, err := getEnvInt("ADMIN_RATE_LIMIT", 30)
	if err != nil {
		return nil, err
	}
	rateWindow, err := getEnvDuration("ADMIN_RATE_WINDOW", time.Minute)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:              getEnv("PORT", "8080"),
		DBUrl:             getEnv("DB_URL", ""),
		JWTSecret:         jwtSecret,
		AppEnv:            normalizeEnv(getEnv("APP_ENV", "production")),
		LogLevel:          strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		RedisURL:          getEnv("REDIS_URL", ""),
		CoachSharePercent: coachShare,
		AdminRateLimit:    rateLimit,
		AdminRateWindow:   rateWindow,
		AdminEmail:        getEnv("DEFAULT_ADMIN_EMAIL", ""),
		AdminPassword:     getEnv("DEFAULT_ADMIN_PASSWORD", ""),
		CORSOrigins:       getEnv("CORS_ORIGINS", "*"),
		EnvFileLoaded:     envFileLoaded,
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return parsed, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, value)
	}
	return parsed, nil
}

func getEnvDecimal(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	parsed, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a number, got %q", key, value)
	}
	return parsed, nil
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}
