// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config представляет конфигурацию приложения
type Config struct {
	// Spotify API
	SpotifyClientID     string
	SpotifyClientSecret string

	// Kafka
	KafkaBootstrapServers []string
	KafkaTopic            string

	// Producer
	TrackLimit     int
	MaxConcurrency int
	FetchInterval  time.Duration
	RequestTimeout time.Duration

	// Health
	HealthCheckEnabled bool
	HealthPort         int

	// Logging
	LogLevel string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл если он существует
	_ = godotenv.Load()

	config := &Config{
		SpotifyClientID:       getEnv("SPOTIFY_CLIENT_ID", ""),
		SpotifyClientSecret:   getEnv("SPOTIFY_CLIENT_SECRET", ""),
		KafkaBootstrapServers: splitServers(getEnv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092")),
		KafkaTopic:            getEnv("KAFKA_TOPIC", "spotify-stats"),
		TrackLimit:            getEnvInt("TRACK_LIMIT", 50),
		MaxConcurrency:        getEnvInt("MAX_CONCURRENCY", 5),
		FetchInterval:         getEnvDuration("FETCH_INTERVAL", 60*time.Minute),
		RequestTimeout:        getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		HealthCheckEnabled:    getEnvBool("HEALTH_CHECK_ENABLED", true),
		HealthPort:            getEnvInt("HEALTH_PORT", 8080),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate проверяет обязательные поля конфигурации
func (c *Config) Validate() error {
	if c.SpotifyClientID == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_ID is required")
	}
	if c.SpotifyClientSecret == "" {
		return fmt.Errorf("SPOTIFY_CLIENT_SECRET is required")
	}
	if len(c.KafkaBootstrapServers) == 0 {
		return fmt.Errorf("KAFKA_BOOTSTRAP_SERVERS is required")
	}
	if c.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required")
	}
	if c.TrackLimit <= 0 || c.TrackLimit > 50 {
		return fmt.Errorf("TRACK_LIMIT must be between 1 and 50, got %d", c.TrackLimit)
	}
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("MAX_CONCURRENCY must be positive, got %d", c.MaxConcurrency)
	}
	if c.FetchInterval <= 0 {
		return fmt.Errorf("FETCH_INTERVAL must be positive")
	}
	return nil
}

// splitServers разбирает список серверов из строки с разделителем-запятой
func splitServers(value string) []string {
	var servers []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			servers = append(servers, s)
		}
	}
	return servers
}

// getEnv получает переменную окружения как строку
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvBool получает переменную окружения как bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
