package kafka

import (
	"sync"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/model"

	"go.uber.org/zap"
)

// LoggingObserver записывает результаты доставки в лог
type LoggingObserver struct {
	logger *zap.Logger
}

var _ Observer = (*LoggingObserver)(nil)

// NewLoggingObserver создает наблюдателя с логированием
func NewLoggingObserver(logger *zap.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// OnSent логирует успешную доставку
func (o *LoggingObserver) OnSent(message *model.OutboundMessage, metadata DeliveryMetadata) {
	o.logger.Info("Message delivered",
		zap.String("message_id", message.MessageID),
		zap.String("country_code", message.CountryStats.CountryCode),
		zap.Int("tracks_count", message.CountryStats.TotalTracks),
		zap.Int("partition", metadata.Partition),
		zap.Int64("offset", metadata.Offset))
}

// OnFailed логирует ошибку доставки
func (o *LoggingObserver) OnFailed(message *model.OutboundMessage, err error) {
	o.logger.Error("Message delivery failed",
		zap.String("message_id", message.MessageID),
		zap.String("country_code", message.CountryStats.CountryCode),
		zap.Error(err))
}

// MetricsObserver накапливает метрики доставки за время жизни процесса.
// Уведомления приходят конкурентно из callback-ов доставки, счетчики
// защищены мьютексом.
type MetricsObserver struct {
	mu             sync.Mutex
	messagesSent   int64
	messagesFailed int64
	countries      map[string]struct{}
}

var _ Observer = (*MetricsObserver)(nil)

// NewMetricsObserver создает наблюдателя-аккумулятор метрик
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{
		countries: make(map[string]struct{}),
	}
}

// OnSent учитывает успешную доставку
func (o *MetricsObserver) OnSent(message *model.OutboundMessage, _ DeliveryMetadata) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.messagesSent++
	o.countries[message.CountryStats.CountryCode] = struct{}{}
}

// OnFailed учитывает ошибку доставки
func (o *MetricsObserver) OnFailed(_ *model.OutboundMessage, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.messagesFailed++
}

// HasCountry сообщает, была ли страна успешно обработана
func (o *MetricsObserver) HasCountry(countryCode string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	_, ok := o.countries[countryCode]
	return ok
}

// Snapshot возвращает текущее состояние метрик.
// SuccessRate равен 0, пока не обработано ни одного сообщения.
func (o *MetricsObserver) Snapshot() model.Metrics {
	o.mu.Lock()
	defer o.mu.Unlock()

	total := o.messagesSent + o.messagesFailed
	successRate := 0.0
	if total > 0 {
		successRate = float64(o.messagesSent) / float64(total)
	}

	return model.Metrics{
		MessagesSent:       o.messagesSent,
		MessagesFailed:     o.messagesFailed,
		CountriesProcessed: len(o.countries),
		SuccessRate:        successRate,
	}
}
