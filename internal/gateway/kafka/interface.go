// Package kafka реализует продюсера статистики Spotify для Apache Kafka.
package kafka

import (
	"context"
	"time"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/model"
)

// Interface определяет интерфейс продюсера Kafka
type Interface interface {
	// Connect подключается к кластеру Kafka
	Connect() error

	// Send отправляет статистику страны в топик.
	// Отправка асинхронная: метод возвращается после постановки сообщения
	// в очередь, подтверждение доставки приходит позже через наблюдателей.
	// Вызов до Connect возвращает ErrNotConnected.
	Send(ctx context.Context, stats *model.CountryStats) error

	// Disconnect отключается от кластера, дожидаясь отправки
	// поставленных в очередь сообщений
	Disconnect() error

	// Connected сообщает, установлено ли подключение к кластеру
	Connected() bool

	// AddObserver регистрирует наблюдателя доставки
	AddObserver(observer Observer)

	// RemoveObserver удаляет наблюдателя доставки
	RemoveObserver(observer Observer)
}

// DeliveryMetadata содержит метаданные подтвержденной доставки
type DeliveryMetadata struct {
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
}

// Observer определяет интерфейс наблюдателя за результатами доставки.
// Сообщение доступно наблюдателям только для чтения.
type Observer interface {
	// OnSent вызывается после подтверждения доставки сообщения брокером
	OnSent(message *model.OutboundMessage, metadata DeliveryMetadata)

	// OnFailed вызывается при ошибке доставки сообщения
	OnFailed(message *model.OutboundMessage, err error)
}
