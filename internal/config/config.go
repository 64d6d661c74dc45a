package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Health    HealthConfig
	Geo       GeoConfig
	Cache     CacheConfig
	Refresh   RefreshConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type HealthConfig struct {
	// Command is the external health tool invocation, split on whitespace.
	Command []string
	Timeout time.Duration
}

type GeoConfig struct {
	APIURL   string
	APIToken string
	Timeout  time.Duration
}

type CacheConfig struct {
	FilePath string
}

type RefreshConfig struct {
	Schedule   string
	JobTimeout time.Duration
}

type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// It's okay if .env file doesn't exist in production
	}

	serverPort, _ := strconv.Atoi(getEnv("SERVER_PORT", "3000"))
	rateLimit, _ := strconv.Atoi(getEnv("RATE_LIMIT", "60"))

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: serverPort,
		},
		Health: HealthConfig{
			Command: strings.Fields(getEnv("HEALTH_COMMAND", "walrus health --committee --json")),
			Timeout: getDuration("HEALTH_TIMEOUT", time.Minute),
		},
		Geo: GeoConfig{
			APIURL:   getEnv("GEO_API_URL", "https://ipinfo.io"),
			APIToken: getEnv("GEO_API_TOKEN", ""),
			Timeout:  getDuration("GEO_API_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			FilePath: getEnv("CACHE_FILE", "node_health_cache.json"),
		},
		Refresh: RefreshConfig{
			Schedule:   getEnv("REFRESH_SCHEDULE", "0 */6 * * *"),
			JobTimeout: getDuration("REFRESH_JOB_TIMEOUT", 10*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Limit:  rateLimit,
			Window: getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
