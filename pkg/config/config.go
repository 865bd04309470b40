package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIBase = "https://crm-ia-eight.vercel.app"

// Application settings
type Config struct {
	Server     ServerConfig
	Logging    LoggingConfig
	Generation GenerationConfig
	Studio     StudioConfig
}

// Server settings
type ServerConfig struct {
	Port           string
	HandlerTimeout time.Duration
}

// Generation service settings
type GenerationConfig struct {
	APIBase            string
	RequestTimeout     time.Duration
	RateLimitPerSecond int
	RateLimitBurst     int
	SinkURL            string
	SinkSecret         string
}

type StudioConfig struct {
	MaxImageBytes int
}

// Logging settings
type LoggingConfig struct {
	Level string
}

// Load reads the environment, after merging any .env file in the working
// directory. Variables already set win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			HandlerTimeout: getDurationEnv("HANDLER_TIMEOUT", "90s"),
		},
		Generation: GenerationConfig{
			APIBase:            strings.TrimRight(getEnv("API_BASE", DefaultAPIBase), "/"),
			RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", "60s"),
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 5),
			RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 5),
			SinkURL:            getEnv("SINK_URL", ""),
			SinkSecret:         getEnv("SINK_SECRET", ""),
		},
		Studio: StudioConfig{
			MaxImageBytes: getIntEnv("MAX_IMAGE_BYTES", 8<<20),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getDurationEnv(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
