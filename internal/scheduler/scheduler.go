// Package scheduler реализует периодический запуск пакетной обработки.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/model"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// BatchRunner определяет интерфейс запуска пакетной обработки
type BatchRunner interface {
	// ProcessAllCountries обрабатывает страны пакетом
	ProcessAllCountries(ctx context.Context, countryCodes []string, maxConcurrency int) (*model.BatchReport, error)

	// Metrics возвращает накопленные метрики доставки
	Metrics() model.Metrics
}

// Scheduler запускает пакетную обработку с фиксированным интервалом
type Scheduler struct {
	cron     *cron.Cron
	runner   BatchRunner
	interval time.Duration
	logger   *zap.Logger
}

// New создает новый планировщик
func New(runner BatchRunner, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		runner:   runner,
		interval: interval,
		logger:   logger,
	}
}

// Start выполняет первый запуск сразу и регистрирует периодические запуски
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Scheduler starting", zap.Duration("interval", s.interval))

	// Первый запуск не ждет интервала
	s.RunBatch(ctx)

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() {
		s.RunBatch(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule batch job: %w", err)
	}

	s.cron.Start()

	return nil
}

// Stop останавливает планировщик, дожидаясь завершения текущего запуска
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Scheduler stopped")
}

// RunBatch выполняет один пакетный запуск и логирует итог
func (s *Scheduler) RunBatch(ctx context.Context) {
	s.logger.Info("Starting scheduled batch run")

	report, err := s.runner.ProcessAllCountries(ctx, nil, 0)
	if err != nil {
		s.logger.Error("Scheduled batch run failed", zap.Error(err))
		return
	}

	s.logger.Info("Scheduled batch run completed",
		zap.Int("total_countries", report.TotalCountries),
		zap.Int("successful", report.Successful),
		zap.Int("failed", report.Failed),
		zap.Float64("processing_time_seconds", report.ProcessingTimeSeconds))

	metrics := s.runner.Metrics()
	s.logger.Info("Accumulated delivery metrics",
		zap.Int64("messages_sent", metrics.MessagesSent),
		zap.Int64("messages_failed", metrics.MessagesFailed),
		zap.Int("countries_processed", metrics.CountriesProcessed),
		zap.Float64("success_rate", metrics.SuccessRate))
}
