package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/model"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Метаданные продюсера, вкладываемые в каждое сообщение
const (
	producerType    = "spotify_stats_producer"
	producerVersion = "1.0.0"
)

// Политика доставки: подтверждение от всех реплик, ограниченные повторы
// с фиксированной задержкой, сжатие и таймаут отправки. Успешная отправка
// означает, что сообщение сохранено брокером, а не поставлено в очередь локально.
const (
	maxAttempts  = 3
	retryBackoff = 1 * time.Second
	sendTimeout  = 30 * time.Second
)

// ErrNotConnected возвращается при вызове Send до Connect
var ErrNotConnected = errors.New("producer is not connected, call Connect first")

// messageWriter описывает используемое подмножество kafka.Writer
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config представляет конфигурацию продюсера
type Config struct {
	BootstrapServers []string
	Topic            string
}

// Producer отправляет статистику стран в Kafka и уведомляет наблюдателей
// о результатах доставки. Сообщения одной страны попадают в одну партицию
// (ключ — код страны), порядок между странами не гарантируется.
type Producer struct {
	config Config
	logger *zap.Logger

	mu        sync.RWMutex
	observers []Observer
	writer    messageWriter

	// newWriter подменяется в тестах
	newWriter func() messageWriter
}

var _ Interface = (*Producer)(nil)

// NewProducer создает новый продюсер Kafka
func NewProducer(config Config, logger *zap.Logger) *Producer {
	p := &Producer{
		config: config,
		logger: logger,
	}
	p.newWriter = p.createWriter

	return p
}

// createWriter создает kafka.Writer с фиксированной политикой доставки
func (p *Producer) createWriter() messageWriter {
	return &kafka.Writer{
		Addr:            kafka.TCP(p.config.BootstrapServers...),
		Topic:           p.config.Topic,
		Balancer:        &kafka.Hash{},
		RequiredAcks:    kafka.RequireAll,
		MaxAttempts:     maxAttempts,
		WriteBackoffMin: retryBackoff,
		WriteBackoffMax: retryBackoff,
		Compression:     kafka.Gzip,
		WriteTimeout:    sendTimeout,
		Async:           true,
		Completion:      p.completion,
	}
}

// Connect подключается к кластеру Kafka
func (p *Producer) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer != nil {
		return nil
	}

	p.writer = p.newWriter()

	p.logger.Info("Connected to Kafka",
		zap.Strings("bootstrap_servers", p.config.BootstrapServers),
		zap.String("topic", p.config.Topic))

	return nil
}

// Disconnect отключается от кластера, дожидаясь отправки поставленных
// в очередь сообщений
func (p *Producer) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		return nil
	}

	err := p.writer.Close()
	p.writer = nil

	if err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}

	p.logger.Info("Disconnected from Kafka")

	return nil
}

// Connected сообщает, установлено ли подключение к кластеру
func (p *Producer) Connected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.writer != nil
}

// Send отправляет статистику страны в топик
func (p *Producer) Send(ctx context.Context, stats *model.CountryStats) error {
	p.mu.RLock()
	writer := p.writer
	p.mu.RUnlock()

	if writer == nil {
		return ErrNotConnected
	}

	message := p.prepareMessage(stats)

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}

	// WriterData переносит сообщение в completion callback,
	// где по нему уведомляются наблюдатели
	kafkaMessage := kafka.Message{
		Key:        []byte(stats.CountryCode),
		Value:      payload,
		WriterData: message,
	}

	if err := writer.WriteMessages(ctx, kafkaMessage); err != nil {
		return fmt.Errorf("failed to enqueue message for %s: %w", stats.CountryCode, err)
	}

	p.logger.Debug("Message enqueued",
		zap.String("message_id", message.MessageID),
		zap.String("country_code", stats.CountryCode),
		zap.Int("tracks_count", stats.TotalTracks))

	return nil
}

// AddObserver регистрирует наблюдателя доставки
func (p *Producer) AddObserver(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// RemoveObserver удаляет наблюдателя доставки
func (p *Producer) RemoveObserver(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, registered := range p.observers {
		if registered == observer {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			return
		}
	}
}

// prepareMessage оборачивает статистику в исходящее сообщение.
// MessageID генерируется заново на каждую попытку отправки.
func (p *Producer) prepareMessage(stats *model.CountryStats) *model.OutboundMessage {
	return &model.OutboundMessage{
		MessageID:    uuid.NewString(),
		CountryStats: stats,
		ProducerInfo: model.ProducerInfo{
			ProducerType:     producerType,
			Version:          producerVersion,
			KafkaTopic:       p.config.Topic,
			BootstrapServers: strings.Join(p.config.BootstrapServers, ","),
		},
	}
}

// completion обрабатывает подтверждения доставки от kafka.Writer.
// Брокер сообщает результат ровно один раз на каждое сообщение.
func (p *Producer) completion(messages []kafka.Message, err error) {
	for _, message := range messages {
		outbound, ok := message.WriterData.(*model.OutboundMessage)
		if !ok {
			p.logger.Error("Completion for message without outbound payload",
				zap.String("topic", message.Topic))
			continue
		}

		if err != nil {
			p.notifyFailed(outbound, err)
		} else {
			p.notifySent(outbound, DeliveryMetadata{
				Topic:     message.Topic,
				Partition: message.Partition,
				Offset:    message.Offset,
				Timestamp: message.Time,
			})
		}
	}
}

// notifySent уведомляет всех наблюдателей об успешной доставке
func (p *Producer) notifySent(message *model.OutboundMessage, metadata DeliveryMetadata) {
	for _, observer := range p.snapshotObservers() {
		p.safeNotify(func() {
			observer.OnSent(message, metadata)
		})
	}
}

// notifyFailed уведомляет всех наблюдателей об ошибке доставки
func (p *Producer) notifyFailed(message *model.OutboundMessage, err error) {
	for _, observer := range p.snapshotObservers() {
		p.safeNotify(func() {
			observer.OnFailed(message, err)
		})
	}
}

// snapshotObservers возвращает копию списка наблюдателей, чтобы уведомления
// не держали блокировку и не мешали добавлению/удалению наблюдателей
func (p *Producer) snapshotObservers() []Observer {
	p.mu.RLock()
	defer p.mu.RUnlock()

	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	return observers
}

// safeNotify вызывает наблюдателя, перехватывая панику: сбой одного
// наблюдателя не должен мешать остальным
func (p *Producer) safeNotify(notify func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Observer failed", zap.Any("panic", r))
		}
	}()

	notify()
}
