package health

import (
	"context"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/model"
)

// ServerInterface определяет интерфейс для health check сервера
type ServerInterface interface {
	// Start запускает health check сервер
	Start() error

	// Stop останавливает health check сервер
	Stop(ctx context.Context) error
}

// Checker определяет источник статуса здоровья системы
type Checker interface {
	// HealthCheck возвращает состояние компонентов системы
	HealthCheck(ctx context.Context) model.HealthStatus
}
