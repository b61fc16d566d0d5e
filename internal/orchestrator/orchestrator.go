// Package orchestrator координирует получение статистики Spotify
// и отправку сообщений в Kafka.
package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/config"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/gateway/kafka"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/gateway/spotify"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/model"

	"go.uber.org/zap"
)

// ErrNotInitialized возвращается при использовании оркестратора до Initialize
var ErrNotInitialized = errors.New("orchestrator is not initialized, call Initialize first")

// Orchestrator владеет клиентом Spotify и продюсером Kafka и выполняет
// пакетную обработку стран с ограниченной конкурентностью
type Orchestrator struct {
	spotifyClient  spotify.Interface
	producer       kafka.Interface
	metrics        *kafka.MetricsObserver
	logger         *zap.Logger
	trackLimit     int
	maxConcurrency int
	countries      []string

	mu          sync.Mutex
	initialized bool
}

// New создает новый оркестратор
func New(spotifyClient spotify.Interface, producer kafka.Interface, cfg *config.Config, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		spotifyClient:  spotifyClient,
		producer:       producer,
		metrics:        kafka.NewMetricsObserver(),
		logger:         logger,
		trackLimit:     cfg.TrackLimit,
		maxConcurrency: cfg.MaxConcurrency,
		countries:      spotify.DefaultCountries(),
	}
}

// Initialize регистрирует наблюдателей доставки и подключает продюсера
func (o *Orchestrator) Initialize() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.initialized {
		return nil
	}

	o.logger.Info("Initializing orchestrator")

	o.producer.AddObserver(kafka.NewLoggingObserver(o.logger))
	o.producer.AddObserver(o.metrics)

	if err := o.producer.Connect(); err != nil {
		return err
	}

	o.initialized = true
	o.logger.Info("Orchestrator initialized successfully")

	return nil
}

// Shutdown отключает продюсера и освобождает ресурсы
func (o *Orchestrator) Shutdown() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.producer.Disconnect(); err != nil {
		o.logger.Error("Failed to disconnect producer", zap.Error(err))
		return err
	}

	o.initialized = false
	o.logger.Info("Orchestrator shut down")

	return nil
}

// isInitialized проверяет готовность оркестратора
func (o *Orchestrator) isInitialized() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.initialized
}

// ProcessSingleCountry обрабатывает одну страну.
// Ошибка возвращается только при вызове до Initialize: сбой получения
// данных или отправки представлен в результате, а не ошибкой.
func (o *Orchestrator) ProcessSingleCountry(ctx context.Context, countryCode string) (model.CountryResult, error) {
	if !o.isInitialized() {
		return model.CountryResult{}, ErrNotInitialized
	}

	return o.processCountry(ctx, countryCode), nil
}

// Metrics возвращает снимок накопленных метрик доставки
func (o *Orchestrator) Metrics() model.Metrics {
	return o.metrics.Snapshot()
}

// HealthCheck проверяет состояние компонентов.
// Неудачная проверка аутентификации делает систему нездоровой,
// но не возвращает ошибку: пакетная обработка при этом продолжает
// работать и отражает сбои в результатах по странам.
func (o *Orchestrator) HealthCheck(ctx context.Context) model.HealthStatus {
	status := model.HealthStatus{
		OrchestratorInitialized: o.isInitialized(),
		SpotifyClientReady:      o.spotifyClient != nil,
		KafkaProducerReady:      o.producer != nil && o.producer.Connected(),
		Timestamp:               time.Now().UTC(),
	}

	if o.spotifyClient != nil {
		if err := o.spotifyClient.CheckAuth(ctx); err != nil {
			status.SpotifyError = err.Error()
			o.logger.Warn("Spotify auth probe failed", zap.Error(err))
		} else {
			status.SpotifyAuthOK = true
		}
	}

	status.OverallHealthy = status.OrchestratorInitialized &&
		status.SpotifyClientReady &&
		status.KafkaProducerReady &&
		status.SpotifyAuthOK

	return status
}

// processCountry выполняет пайплайн получения и отправки для одной страны
func (o *Orchestrator) processCountry(ctx context.Context, countryCode string) model.CountryResult {
	o.logger.Info("Processing country", zap.String("country_code", countryCode))

	stats, err := o.spotifyClient.TopTracksByCountry(ctx, countryCode, o.trackLimit)
	if err != nil {
		o.logger.Error("Failed to fetch country stats",
			zap.String("country_code", countryCode),
			zap.Error(err))
		return model.CountryResult{
			CountryCode: countryCode,
			Status:      model.StatusError,
			Error:       err.Error(),
		}
	}

	if err := o.producer.Send(ctx, stats); err != nil {
		o.logger.Error("Failed to send country stats",
			zap.String("country_code", countryCode),
			zap.Error(err))
		return model.CountryResult{
			CountryCode: countryCode,
			Status:      model.StatusError,
			Error:       err.Error(),
		}
	}

	return model.CountryResult{
		CountryCode: countryCode,
		Status:      model.StatusSuccess,
		TracksCount: stats.TotalTracks,
		Timestamp:   stats.Timestamp,
	}
}
