// Package model содержит типы данных для статистики Spotify и исходящих сообщений.
package model

import "time"

// Значения по умолчанию для треков с неполными данными из API
const (
	UnknownTrackID   = "unknown"
	UnknownTrackName = "Unknown Track"
	UnknownArtist    = "Unknown Artist"
	UnknownAlbum     = "Unknown Album"
)

// Track представляет трек из Spotify API.
// Значение неизменяемо после создания через NewTrack.
type Track struct {
	TrackID    string  `json:"track_id"`
	Name       string  `json:"name"`
	Artist     string  `json:"artist"`
	Album      string  `json:"album"`
	Popularity int     `json:"popularity"`
	DurationMs int     `json:"duration_ms"`
	Explicit   bool    `json:"explicit"`
	PreviewURL *string `json:"preview_url"`
}

// NewTrack создает трек, подставляя значения по умолчанию вместо
// отсутствующих полей и ограничивая популярность диапазоном [0, 100]
func NewTrack(trackID, name, artist, album string, popularity, durationMs int, explicit bool, previewURL *string) Track {
	if trackID == "" {
		trackID = UnknownTrackID
	}
	if name == "" {
		name = UnknownTrackName
	}
	if artist == "" {
		artist = UnknownArtist
	}
	if album == "" {
		album = UnknownAlbum
	}
	if popularity < 0 {
		popularity = 0
	}
	if popularity > 100 {
		popularity = 100
	}
	if durationMs < 0 {
		durationMs = 0
	}

	return Track{
		TrackID:    trackID,
		Name:       name,
		Artist:     artist,
		Album:      album,
		Popularity: popularity,
		DurationMs: durationMs,
		Explicit:   explicit,
		PreviewURL: previewURL,
	}
}

// PlaceholderTrack возвращает трек-заглушку для записей, которые не удалось разобрать
func PlaceholderTrack() Track {
	return NewTrack("", "", "", "", 0, 0, false, nil)
}

// CountryStats представляет статистику по одной стране.
// TotalTracks всегда равен len(TopTracks); пустой список треков — валидное
// состояние "данные не найдены", отличное от ошибки получения.
type CountryStats struct {
	CountryCode string    `json:"country_code"`
	CountryName string    `json:"country_name"`
	TopTracks   []Track   `json:"top_tracks"`
	Timestamp   time.Time `json:"timestamp"`
	TotalTracks int       `json:"total_tracks"`
}

// NewCountryStats создает статистику страны с инвариантом TotalTracks == len(tracks)
func NewCountryStats(countryCode, countryName string, tracks []Track) *CountryStats {
	if tracks == nil {
		tracks = []Track{}
	}

	return &CountryStats{
		CountryCode: countryCode,
		CountryName: countryName,
		TopTracks:   tracks,
		Timestamp:   time.Now().UTC(),
		TotalTracks: len(tracks),
	}
}

// EmptyCountryStats создает валидную пустую статистику для страны,
// по которой не удалось получить данные
func EmptyCountryStats(countryCode, countryName string) *CountryStats {
	return NewCountryStats(countryCode, countryName, nil)
}

// ProducerInfo содержит метаданные продюсера, вкладываемые в каждое сообщение
type ProducerInfo struct {
	ProducerType     string `json:"producer_type"`
	Version          string `json:"version"`
	KafkaTopic       string `json:"kafka_topic"`
	BootstrapServers string `json:"bootstrap_servers"`
}

// OutboundMessage представляет сообщение, отправляемое в Kafka.
// MessageID генерируется заново на каждую попытку отправки: повторная
// отправка той же статистики дает новую идентичность сообщения.
type OutboundMessage struct {
	MessageID    string        `json:"message_id"`
	CountryStats *CountryStats `json:"country_stats"`
	ProducerInfo ProducerInfo  `json:"producer_info"`
}
