package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/kitbuilder587/ddg-crawler/internal/domain"
)

var (
	ErrInvalidMaxResults = errors.New("SEARCH_MAX_RESULTS must be positive")
	ErrTooManyRetries    = errors.New("SEARCH_MAX_RETRIES cannot exceed 10")
)

type Config struct {
	Search    SearchConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

type SearchConfig struct {
	BaseURL      string
	Region       string
	Timeout      time.Duration
	MaxResults   int
	MaxRetries   int
	InitialDelay time.Duration
}

type CacheConfig struct {
	TTL time.Duration
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

type LogConfig struct {
	Level string
}

type MetricsConfig struct {
	Addr string
}

func Load() (*Config, error) {
	cfg := &Config{
		Search: SearchConfig{
			BaseURL:      getEnvOrDefault("DDG_BASE_URL", "https://html.duckduckgo.com"),
			Region:       os.Getenv("DDG_REGION"),
			Timeout:      time.Duration(getEnvIntOrDefault("DDG_TIMEOUT_SEC", 30)) * time.Second,
			MaxResults:   getEnvIntOrDefault("SEARCH_MAX_RESULTS", 10),
			MaxRetries:   getEnvIntOrDefault("SEARCH_MAX_RETRIES", 3),
			InitialDelay: time.Duration(getEnvIntOrDefault("SEARCH_INITIAL_DELAY_SEC", 1)) * time.Second,
		},
		Cache: CacheConfig{
			TTL: time.Duration(getEnvIntOrDefault("CACHE_TTL_SEC", 3600)) * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvIntOrDefault("RATE_LIMIT_PER_MINUTE", 0),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Addr: os.Getenv("METRICS_ADDR"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Search.MaxResults <= 0 {
		return ErrInvalidMaxResults
	}
	if c.Search.MaxRetries <= 0 {
		return domain.ErrInvalidMaxRetries
	}
	if c.Search.MaxRetries > 10 {
		return ErrTooManyRetries
	}
	if c.Search.InitialDelay <= 0 {
		return domain.ErrInvalidDelay
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
