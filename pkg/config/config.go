package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	AllowedOrigins  []string
}

// DatabaseConfig is optional: with no URL the gazetteer is loaded from the
// embedded dataset instead of Postgres.
type DatabaseConfig struct {
	URL string
}

func (d DatabaseConfig) Enabled() bool { return d.URL != "" }

type AMapConfig struct {
	Key            string
	BaseURL        string
	SearchTimeout  time.Duration
	GeocodeTimeout time.Duration
}

type PipelineConfig struct {
	ResolveInterval time.Duration
	SessionTTL      time.Duration
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AMap     AMapConfig
	Pipeline PipelineConfig
}

// Load builds the configuration from the environment. A .env file is
// honored when present; real environment variables win over it.
func Load(logger *slog.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", slog.Any("error", err))
	}

	return &Config{
		Server: ServerConfig{
			Addr:            getEnv("SERVER_ADDR", ":8080"),
			ShutdownTimeout: getDuration(logger, "SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			RateLimitRPS:    getFloat(logger, "RATE_LIMIT_RPS", 20),
			RateLimitBurst:  getInt(logger, "RATE_LIMIT_BURST", 40),
			AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		AMap: AMapConfig{
			Key:            os.Getenv("AMAP_KEY"),
			BaseURL:        os.Getenv("AMAP_BASE_URL"),
			SearchTimeout:  getDuration(logger, "AMAP_SEARCH_TIMEOUT", 8*time.Second),
			GeocodeTimeout: getDuration(logger, "AMAP_GEOCODE_TIMEOUT", 6*time.Second),
		},
		Pipeline: PipelineConfig{
			ResolveInterval: getDuration(logger, "RESOLVE_INTERVAL", 150*time.Millisecond),
			SessionTTL:      getDuration(logger, "SESSION_TTL", 24*time.Hour),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(logger *slog.Logger, key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn("invalid duration, using default",
			slog.String("key", key), slog.String("value", v))
		return fallback
	}
	return d
}

func getInt(logger *slog.Logger, key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("invalid integer, using default",
			slog.String("key", key), slog.String("value", v))
		return fallback
	}
	return n
}

func getFloat(logger *slog.Logger, key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Warn("invalid number, using default",
			slog.String("key", key), slog.String("value", v))
		return fallback
	}
	return f
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
