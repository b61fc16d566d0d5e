package worker

import "time"

// PoolInterface определяет интерфейс пула воркеров
type PoolInterface interface {
	// Start запускает воркеров пула
	Start()

	// Stop закрывает очередь и дожидается завершения всех принятых задач
	Stop()

	// Submit добавляет задачу в очередь
	Submit(job Job) error

	// GetProcessedJobs возвращает количество успешно обработанных задач
	GetProcessedJobs() int64

	// GetFailedJobs возвращает количество неудачных задач
	GetFailedJobs() int64

	// GetProcessingTime возвращает суммарное время обработки
	GetProcessingTime() time.Duration
}
