package app

import (
	"context"
	"testing"
	"time"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		SpotifyClientID:       "client-id",
		SpotifyClientSecret:   "client-secret",
		KafkaBootstrapServers: []string{"localhost:9092"},
		KafkaTopic:            "spotify-stats",
		TrackLimit:            50,
		MaxConcurrency:        5,
		FetchInterval:         time.Hour,
		RequestTimeout:        30 * time.Second,
		HealthCheckEnabled:    true,
		HealthPort:            8080,
	}
}

func TestCreateSpotifyClient_MissingCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.SpotifyClientSecret = ""
	factory := NewComponentFactory(cfg, zap.NewNop())

	_, err := factory.CreateSpotifyClient()

	assert.Error(t, err)
}

func TestCreateProducer(t *testing.T) {
	factory := NewComponentFactory(testConfig(), zap.NewNop())

	producer, err := factory.CreateProducer()

	assert.NoError(t, err)
	assert.NotNil(t, producer)
	assert.False(t, producer.Connected())
}

func TestCreateProducer_MissingTopic(t *testing.T) {
	cfg := testConfig()
	cfg.KafkaTopic = ""
	factory := NewComponentFactory(cfg, zap.NewNop())

	_, err := factory.CreateProducer()

	assert.Error(t, err)
}

func TestCreateHealthServer_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.HealthCheckEnabled = false
	factory := NewComponentFactory(cfg, zap.NewNop())

	server, err := factory.CreateHealthServer(nil)

	assert.NoError(t, err)
	assert.Nil(t, server)
}

func TestNewApp_WiresAllComponents(t *testing.T) {
	app, err := NewApp(testConfig(), zap.NewNop())

	assert.NoError(t, err)
	assert.NotNil(t, app.orchestrator)
	assert.NotNil(t, app.scheduler)
	assert.NotNil(t, app.health)
}

func TestRun_UnknownMode(t *testing.T) {
	app, err := NewApp(testConfig(), zap.NewNop())
	assert.NoError(t, err)

	err = app.Run(context.Background(), "turbo")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
