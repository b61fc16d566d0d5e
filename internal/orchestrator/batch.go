package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/infrastructure/worker"
	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/model"

	"go.uber.org/zap"
)

// ProcessAllCountries обрабатывает страны пакетом с ограниченной
// конкурентностью. Пустой список стран заменяется списком по умолчанию,
// неположительный maxConcurrency — значением из конфигурации.
// Сбой одной страны не прерывает и не блокирует остальные; отчет
// формируется после завершения синхронной части всех пайплайнов.
func (o *Orchestrator) ProcessAllCountries(ctx context.Context, countryCodes []string, maxConcurrency int) (*model.BatchReport, error) {
	if !o.isInitialized() {
		return nil, ErrNotInitialized
	}

	if len(countryCodes) == 0 {
		countryCodes = o.countries
	}
	if maxConcurrency <= 0 {
		maxConcurrency = o.maxConcurrency
	}

	o.logger.Info("Starting batch processing",
		zap.Int("countries", len(countryCodes)),
		zap.Int("max_concurrency", maxConcurrency))

	startTime := time.Now()

	pool := worker.NewPool(maxConcurrency, len(countryCodes), o.logger)
	pool.Start()

	resultsChan := make(chan model.CountryResult, len(countryCodes))

	for _, countryCode := range countryCodes {
		code := countryCode
		job := worker.Job{
			CountryCode: code,
			Handler: func() error {
				result := o.processCountry(ctx, code)
				resultsChan <- result
				if result.Status != model.StatusSuccess {
					return errors.New(result.Error)
				}
				return nil
			},
		}

		if err := pool.Submit(job); err != nil {
			resultsChan <- model.CountryResult{
				CountryCode: code,
				Status:      model.StatusError,
				Error:       err.Error(),
			}
		}
	}

	// Stop дожидается завершения всех принятых задач
	pool.Stop()
	close(resultsChan)

	results := make([]model.CountryResult, 0, len(countryCodes))
	successful := 0
	failed := 0
	for result := range resultsChan {
		results = append(results, result)
		if result.Status == model.StatusSuccess {
			successful++
		} else {
			failed++
		}
	}

	processingTime := time.Since(startTime)

	report := &model.BatchReport{
		TotalCountries:        len(countryCodes),
		Successful:            successful,
		Failed:                failed,
		ProcessingTimeSeconds: processingTime.Seconds(),
		Results:               results,
	}

	o.logger.Info("Batch processing completed",
		zap.Int("total_countries", report.TotalCountries),
		zap.Int("successful", report.Successful),
		zap.Int("failed", report.Failed),
		zap.Duration("processing_time", processingTime))

	return report, nil
}
