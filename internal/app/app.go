package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/config"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/infrastructure/health"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/model"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/orchestrator"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/scheduler"

	"go.uber.org/zap"
)

// Режимы работы приложения
const (
	ModeScheduler = "scheduler"
	ModeOnce      = "once"
	ModeStatus    = "status"
)

// App связывает компоненты продюсера и управляет их жизненным циклом
type App struct {
	config       *config.Config
	logger       *zap.Logger
	orchestrator *orchestrator.Orchestrator
	scheduler    *scheduler.Scheduler
	health       *health.Server
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewApp создает новый экземпляр приложения
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	factory := NewComponentFactory(cfg, logger)
	return factory.CreateApp()
}

// Run запускает приложение в указанном режиме
func (a *App) Run(ctx context.Context, mode string) error {
	switch mode {
	case ModeScheduler:
		return a.runScheduler(ctx)
	case ModeOnce:
		return a.runOnce(ctx)
	case ModeStatus:
		return a.runStatus(ctx)
	default:
		return fmt.Errorf("unknown mode %q, expected %s, %s or %s", mode, ModeScheduler, ModeOnce, ModeStatus)
	}
}

// Stop инициирует graceful остановку режима scheduler
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		close(a.stopChan)
	})
}

// runScheduler запускает периодическую пакетную обработку
// с health check сервером
func (a *App) runScheduler(ctx context.Context) error {
	if err := a.orchestrator.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize orchestrator: %w", err)
	}
	defer a.shutdown()

	// Проверка здоровья перед запуском расписания: с нерабочими
	// учетными данными периодические запуски бессмысленны
	status := a.orchestrator.HealthCheck(ctx)
	if !status.OverallHealthy {
		return fmt.Errorf("startup health check failed: %s", status.SpotifyError)
	}
	a.logger.Info("Startup health check passed")

	if a.health != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.health.Start(); err != nil && err != http.ErrServerClosed {
				a.logger.Error("Health check server failed", zap.Error(err))
			}
		}()
	}

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	a.logger.Info("Application started in scheduler mode")

	select {
	case <-ctx.Done():
		a.logger.Info("Shutdown requested by context")
	case <-a.stopChan:
		a.logger.Info("Shutdown requested by stop signal")
	}

	a.scheduler.Stop()

	return nil
}

// runOnce выполняет один пакетный запуск и завершается
func (a *App) runOnce(ctx context.Context) error {
	if err := a.orchestrator.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize orchestrator: %w", err)
	}
	defer a.shutdown()

	report, err := a.orchestrator.ProcessAllCountries(ctx, nil, 0)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	a.logger.Info("Single batch run completed",
		zap.Int("total_countries", report.TotalCountries),
		zap.Int("successful", report.Successful),
		zap.Int("failed", report.Failed),
		zap.Float64("processing_time_seconds", report.ProcessingTimeSeconds))

	return nil
}

// runStatus выводит состояние компонентов и завершается
func (a *App) runStatus(ctx context.Context) error {
	if err := a.orchestrator.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize orchestrator: %w", err)
	}
	defer a.shutdown()

	status := struct {
		Health  model.HealthStatus `json:"health"`
		Metrics model.Metrics      `json:"metrics"`
	}{
		Health:  a.orchestrator.HealthCheck(ctx),
		Metrics: a.orchestrator.Metrics(),
	}

	encoded, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode health status: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(encoded))

	if !status.Health.OverallHealthy {
		return fmt.Errorf("producer is unhealthy")
	}
	return nil
}

// shutdown останавливает health check сервер и оркестратора
func (a *App) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.health != nil {
		if err := a.health.Stop(shutdownCtx); err != nil {
			a.logger.Error("Failed to stop health check server", zap.Error(err))
		}
	}

	if err := a.orchestrator.Shutdown(); err != nil {
		a.logger.Error("Failed to shut down orchestrator", zap.Error(err))
	}

	a.wg.Wait()
	a.logger.Info("Application stopped")
}
