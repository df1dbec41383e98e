package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=mirotec port=5432 sslmode=disable"

type Config struct {
	HTTPPort       string
	DatabaseDriver string // postgres | sqlite
	DatabaseDSN    string
	JWTSecret      string
	JWTTTLHours    int
	CORSOrigins    string
	RedisAddress   string // empty: no redis, in-process locks
	LogLevel       string

	// JSON file overriding the built-in machine consumption table.
	ConsumptionTablePath string
	SummaryCacheTTL      int // seconds
}

func Load() *Config {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		DatabaseDriver:       getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseDSN:          getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		JWTTTLHours:          getEnvInt("JWT_TTL_HOURS", 24),
		CORSOrigins:          getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		RedisAddress:         getEnv("REDIS_ADDRESS", ""),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		ConsumptionTablePath: getEnv("MACHINE_CONSUMPTION_FILE", ""),
		SummaryCacheTTL:      getEnvInt("SUMMARY_CACHE_TTL_SECONDS", 60),
	}

	SetLogLevel(cfg.LogLevel)
	logger := GetLogger()

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}
	if len(cfg.JWTSecret) < 32 {
		logger.Fatal("JWT_SECRET must be at least 32 characters")
	}
	if cfg.JWTTTLHours <= 0 {
		logger.Fatal("JWT_TTL_HOURS must be positive")
	}
	if cfg.DatabaseDriver == "postgres" && cfg.DatabaseDSN == defaultDSN {
		logger.Warn("DATABASE_DSN is using the default value, set your own Postgres DSN for production")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		logger.Warn("CORS_ALLOWED_ORIGINS is using the default value")
	}

	return cfg
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		GetLogger().WithField("key", key).Warnf("invalid integer %q, using %d", v, def)
		return def
	}
	return n
}
