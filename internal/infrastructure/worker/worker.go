// Package worker реализует пул воркеров с ограниченной конкурентностью
// для пакетной обработки стран.
package worker

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrPoolStopped возвращается при добавлении задачи в остановленный пул
var ErrPoolStopped = errors.New("worker pool is stopped")

// Job представляет задачу обработки одной страны
type Job struct {
	CountryCode string
	Handler     func() error
}

// Metrics метрики пула воркеров
type Metrics struct {
	mu             sync.RWMutex
	processedJobs  int64
	failedJobs     int64
	processingTime time.Duration
}

// Pool пул воркеров: не более workers задач выполняется одновременно,
// остальные ждут в очереди. Stop закрывает очередь и дожидается
// завершения всех принятых задач.
type Pool struct {
	workers  int
	jobQueue chan Job
	wg       sync.WaitGroup
	logger   *zap.Logger
	metrics  *Metrics
	stopOnce sync.Once
	stopped  bool
	mu       sync.Mutex
}

var _ PoolInterface = (*Pool)(nil)

// NewPool создает новый пул воркеров
func NewPool(workers int, queueSize int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, queueSize),
		logger:   logger,
		metrics:  &Metrics{},
	}
}

// Start запускает воркеров пула
func (wp *Pool) Start() {
	wp.logger.Debug("Starting worker pool", zap.Int("workers", wp.workers))

	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop закрывает очередь и дожидается завершения всех принятых задач
func (wp *Pool) Stop() {
	wp.stopOnce.Do(func() {
		wp.mu.Lock()
		wp.stopped = true
		wp.mu.Unlock()
		close(wp.jobQueue)
	})

	wp.wg.Wait()
	wp.logger.Debug("Worker pool stopped")
}

// Submit добавляет задачу в очередь.
// Блокируется, если очередь заполнена.
func (wp *Pool) Submit(job Job) error {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return ErrPoolStopped
	}
	wp.mu.Unlock()

	wp.jobQueue <- job
	return nil
}

// worker основной цикл воркера
func (wp *Pool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		wp.processJob(job, id)
	}

	wp.logger.Debug("Worker stopping", zap.Int("worker_id", id))
}

// processJob обрабатывает задачу
func (wp *Pool) processJob(job Job, workerID int) {
	startTime := time.Now()

	wp.logger.Debug("Processing job",
		zap.Int("worker_id", workerID),
		zap.String("country_code", job.CountryCode))

	if err := job.Handler(); err != nil {
		wp.logger.Error("Job processing failed",
			zap.Int("worker_id", workerID),
			zap.String("country_code", job.CountryCode),
			zap.Error(err))

		wp.metrics.mu.Lock()
		wp.metrics.failedJobs++
		wp.metrics.mu.Unlock()
		return
	}

	wp.metrics.mu.Lock()
	wp.metrics.processedJobs++
	wp.metrics.processingTime += time.Since(startTime)
	wp.metrics.mu.Unlock()

	wp.logger.Debug("Job processed successfully",
		zap.Int("worker_id", workerID),
		zap.String("country_code", job.CountryCode),
		zap.Duration("duration", time.Since(startTime)))
}

// GetProcessedJobs возвращает количество успешно обработанных задач
func (wp *Pool) GetProcessedJobs() int64 {
	wp.metrics.mu.RLock()
	defer wp.metrics.mu.RUnlock()
	return wp.metrics.processedJobs
}

// GetFailedJobs возвращает количество неудачных задач
func (wp *Pool) GetFailedJobs() int64 {
	wp.metrics.mu.RLock()
	defer wp.metrics.mu.RUnlock()
	return wp.metrics.failedJobs
}

// GetProcessingTime возвращает суммарное время обработки
func (wp *Pool) GetProcessingTime() time.Duration {
	wp.metrics.mu.RLock()
	defer wp.metrics.mu.RUnlock()
	return wp.metrics.processingTime
}
