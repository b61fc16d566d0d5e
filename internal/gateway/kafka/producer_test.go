package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/model"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeWriter собирает сообщения вместо отправки в Kafka
type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	writeErr error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.writeErr != nil {
		return w.writeErr
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// recordingObserver запоминает уведомления
type recordingObserver struct {
	mu     sync.Mutex
	sent   []*model.OutboundMessage
	failed []*model.OutboundMessage
}

func (o *recordingObserver) OnSent(message *model.OutboundMessage, _ DeliveryMetadata) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, message)
}

func (o *recordingObserver) OnFailed(message *model.OutboundMessage, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed = append(o.failed, message)
}

// panickingObserver всегда паникует
type panickingObserver struct{}

func (panickingObserver) OnSent(*model.OutboundMessage, DeliveryMetadata) { panic("observer bug") }
func (panickingObserver) OnFailed(*model.OutboundMessage, error)          { panic("observer bug") }

func newTestProducer() (*Producer, *fakeWriter) {
	writer := &fakeWriter{}
	producer := NewProducer(Config{
		BootstrapServers: []string{"localhost:9092"},
		Topic:            "spotify-stats",
	}, zap.NewNop())
	producer.newWriter = func() messageWriter { return writer }

	return producer, writer
}

func testStats(countryCode string, trackCount int) *model.CountryStats {
	tracks := make([]model.Track, 0, trackCount)
	for i := 0; i < trackCount; i++ {
		tracks = append(tracks, model.NewTrack(
			fmt.Sprintf("%s-%d", countryCode, i), "Song", "Artist", "Album", 50, 180000, false, nil))
	}
	return model.NewCountryStats(countryCode, countryCode, tracks)
}

func TestProducer_SendBeforeConnect(t *testing.T) {
	producer, _ := newTestProducer()

	err := producer.Send(context.Background(), testStats("US", 1))

	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestProducer_SendKeysByCountryCode(t *testing.T) {
	producer, writer := newTestProducer()
	assert.NoError(t, producer.Connect())

	assert.NoError(t, producer.Send(context.Background(), testStats("US", 3)))
	assert.NoError(t, producer.Send(context.Background(), testStats("DE", 2)))

	assert.Len(t, writer.messages, 2)
	assert.Equal(t, []byte("US"), writer.messages[0].Key)
	assert.Equal(t, []byte("DE"), writer.messages[1].Key)

	// Сериализованное сообщение соответствует wire-схеме
	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.NotEmpty(t, decoded["message_id"])
	assert.Contains(t, decoded, "country_stats")
	assert.Contains(t, decoded, "producer_info")

	producerInfo := decoded["producer_info"].(map[string]interface{})
	assert.Equal(t, "spotify_stats_producer", producerInfo["producer_type"])
	assert.Equal(t, "spotify-stats", producerInfo["kafka_topic"])
}

func TestProducer_FreshMessageIDPerSend(t *testing.T) {
	producer, writer := newTestProducer()
	assert.NoError(t, producer.Connect())

	stats := testStats("US", 1)
	assert.NoError(t, producer.Send(context.Background(), stats))
	assert.NoError(t, producer.Send(context.Background(), stats))

	first := writer.messages[0].WriterData.(*model.OutboundMessage)
	second := writer.messages[1].WriterData.(*model.OutboundMessage)
	assert.NotEqual(t, first.MessageID, second.MessageID)
}

func TestProducer_CompletionNotifiesObservers(t *testing.T) {
	producer, writer := newTestProducer()
	logging := &recordingObserver{}
	metrics := NewMetricsObserver()
	producer.AddObserver(logging)
	producer.AddObserver(metrics)

	assert.NoError(t, producer.Connect())
	assert.NoError(t, producer.Send(context.Background(), testStats("US", 3)))

	// Имитируем подтверждение доставки от брокера
	producer.completion(writer.messages, nil)

	assert.Len(t, logging.sent, 1)
	snapshot := metrics.Snapshot()
	assert.Equal(t, int64(1), snapshot.MessagesSent)
	assert.True(t, metrics.HasCountry("US"))
}

func TestProducer_CompletionFailureNotifiesObservers(t *testing.T) {
	producer, writer := newTestProducer()
	observer := &recordingObserver{}
	metrics := NewMetricsObserver()
	producer.AddObserver(observer)
	producer.AddObserver(metrics)

	assert.NoError(t, producer.Connect())
	assert.NoError(t, producer.Send(context.Background(), testStats("FR", 1)))

	producer.completion(writer.messages, fmt.Errorf("request timed out"))

	assert.Empty(t, observer.sent)
	assert.Len(t, observer.failed, 1)
	assert.Equal(t, int64(1), metrics.Snapshot().MessagesFailed)
}

func TestProducer_ObserverPanicDoesNotBlockOthers(t *testing.T) {
	producer, writer := newTestProducer()
	recording := &recordingObserver{}
	producer.AddObserver(panickingObserver{})
	producer.AddObserver(recording)

	assert.NoError(t, producer.Connect())
	assert.NoError(t, producer.Send(context.Background(), testStats("US", 1)))

	producer.completion(writer.messages, nil)

	assert.Len(t, recording.sent, 1)
}

func TestProducer_RemoveObserver(t *testing.T) {
	producer, writer := newTestProducer()
	observer := &recordingObserver{}
	producer.AddObserver(observer)
	producer.RemoveObserver(observer)

	assert.NoError(t, producer.Connect())
	assert.NoError(t, producer.Send(context.Background(), testStats("US", 1)))

	producer.completion(writer.messages, nil)

	assert.Empty(t, observer.sent)
}

func TestProducer_DisconnectClosesWriter(t *testing.T) {
	producer, writer := newTestProducer()
	assert.NoError(t, producer.Connect())

	assert.NoError(t, producer.Disconnect())

	assert.True(t, writer.closed)
	assert.ErrorIs(t, producer.Send(context.Background(), testStats("US", 1)), ErrNotConnected)
}

func TestProducer_WriteErrorReturned(t *testing.T) {
	producer, writer := newTestProducer()
	writer.writeErr = fmt.Errorf("writer closed")

	assert.NoError(t, producer.Connect())

	err := producer.Send(context.Background(), testStats("US", 1))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "US")
}
