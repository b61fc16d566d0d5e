// Package app содержит фабрику компонентов и жизненный цикл приложения.
package app

import (
	"fmt"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/config"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/gateway/kafka"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/gateway/spotify"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/infrastructure/health"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/orchestrator"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/scheduler"

	"go.uber.org/zap"
)

// ComponentFactory создает компоненты приложения
type ComponentFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewComponentFactory создает новую фабрику компонентов
func NewComponentFactory(config *config.Config, logger *zap.Logger) *ComponentFactory {
	if config == nil {
		logger.Fatal("Config cannot be nil")
	}
	if logger == nil {
		panic("Logger cannot be nil")
	}

	return &ComponentFactory{
		config: config,
		logger: logger,
	}
}

// CreateSpotifyClient создает Spotify клиент
func (f *ComponentFactory) CreateSpotifyClient() (*spotify.Client, error) {
	if f.config.SpotifyClientID == "" || f.config.SpotifyClientSecret == "" {
		return nil, fmt.Errorf("spotify client ID and secret are required")
	}

	auth := spotify.NewClientCredentials(f.config.SpotifyClientID, f.config.SpotifyClientSecret, f.logger)

	client, err := spotify.NewClient(auth, f.config.RequestTimeout, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create spotify client: %w", err)
	}

	f.logger.Info("Spotify client created successfully")
	return client, nil
}

// CreateProducer создает продюсера Kafka
func (f *ComponentFactory) CreateProducer() (*kafka.Producer, error) {
	if len(f.config.KafkaBootstrapServers) == 0 {
		return nil, fmt.Errorf("kafka bootstrap servers are required")
	}
	if f.config.KafkaTopic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	producer := kafka.NewProducer(kafka.Config{
		BootstrapServers: f.config.KafkaBootstrapServers,
		Topic:            f.config.KafkaTopic,
	}, f.logger)

	f.logger.Info("Kafka producer created",
		zap.Strings("bootstrap_servers", f.config.KafkaBootstrapServers),
		zap.String("topic", f.config.KafkaTopic))
	return producer, nil
}

// CreateOrchestrator создает оркестратора со всеми зависимостями
func (f *ComponentFactory) CreateOrchestrator() (*orchestrator.Orchestrator, error) {
	spotifyClient, err := f.CreateSpotifyClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create spotify client: %w", err)
	}

	producer, err := f.CreateProducer()
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	o := orchestrator.New(spotifyClient, producer, f.config, f.logger)
	f.logger.Info("Orchestrator created successfully")
	return o, nil
}

// CreateHealthServer создает сервер health check
func (f *ComponentFactory) CreateHealthServer(checker health.Checker) (*health.Server, error) {
	if !f.config.HealthCheckEnabled {
		f.logger.Info("Health check server is disabled")
		return nil, nil
	}

	if f.config.HealthPort <= 0 {
		return nil, fmt.Errorf("health port is required when health check is enabled")
	}

	server := health.NewServer(f.config.HealthPort, checker, f.logger)
	f.logger.Info("Health check server created", zap.Int("port", f.config.HealthPort))
	return server, nil
}

// CreateScheduler создает планировщик пакетной обработки
func (f *ComponentFactory) CreateScheduler(runner scheduler.BatchRunner) *scheduler.Scheduler {
	s := scheduler.New(runner, f.config.FetchInterval, f.logger)
	f.logger.Info("Scheduler created", zap.Duration("interval", f.config.FetchInterval))
	return s
}

// CreateApp создает полный экземпляр приложения со всеми зависимостями
func (f *ComponentFactory) CreateApp() (*App, error) {
	o, err := f.CreateOrchestrator()
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	healthServer, err := f.CreateHealthServer(o)
	if err != nil {
		return nil, fmt.Errorf("failed to create health server: %w", err)
	}

	app := &App{
		config:       f.config,
		logger:       f.logger,
		orchestrator: o,
		scheduler:    f.CreateScheduler(o),
		health:       healthServer,
		stopChan:     make(chan struct{}),
	}

	f.logger.Info("Application created successfully with all dependencies")
	return app, nil
}
