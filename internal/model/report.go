package model

import "time"

// Статусы обработки страны
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// CountryResult представляет результат обработки одной страны
type CountryResult struct {
	CountryCode string    `json:"country_code"`
	Status      string    `json:"status"`
	TracksCount int       `json:"tracks_count,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// BatchReport представляет итог одного пакетного запуска.
// Результат не сохраняется между запусками.
type BatchReport struct {
	TotalCountries        int             `json:"total_countries"`
	Successful            int             `json:"successful"`
	Failed                int             `json:"failed"`
	ProcessingTimeSeconds float64         `json:"processing_time_seconds"`
	Results               []CountryResult `json:"results"`
}

// Metrics представляет накопленные метрики доставки за время жизни процесса
type Metrics struct {
	MessagesSent       int64   `json:"messages_sent"`
	MessagesFailed     int64   `json:"messages_failed"`
	CountriesProcessed int     `json:"countries_processed"`
	SuccessRate        float64 `json:"success_rate"`
}

// HealthStatus представляет состояние компонентов системы.
// OverallHealthy — конъюнкция всех проверок: неудачная проверка
// аутентификации делает систему нездоровой, хотя пакетная обработка
// при этом продолжает работать.
type HealthStatus struct {
	OrchestratorInitialized bool      `json:"orchestrator_initialized"`
	SpotifyClientReady      bool      `json:"spotify_client_ready"`
	KafkaProducerReady      bool      `json:"kafka_producer_ready"`
	SpotifyAuthOK           bool      `json:"spotify_auth_ok"`
	SpotifyError            string    `json:"spotify_error,omitempty"`
	OverallHealthy          bool      `json:"overall_healthy"`
	Timestamp               time.Time `json:"timestamp"`
}
