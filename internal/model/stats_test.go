package model

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTrack_ClampsPopularity(t *testing.T) {
	tests := []struct {
		name       string
		popularity int
		want       int
	}{
		{"below range", -10, 0},
		{"lower bound", 0, 0},
		{"in range", 73, 73},
		{"upper bound", 100, 100},
		{"above range", 150, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := NewTrack("id", "name", "artist", "album", tt.popularity, 1000, false, nil)
			assert.Equal(t, tt.want, track.Popularity)
		})
	}
}

func TestNewTrack_Defaults(t *testing.T) {
	track := NewTrack("", "", "", "", 0, -5, false, nil)

	assert.Equal(t, UnknownTrackID, track.TrackID)
	assert.Equal(t, UnknownTrackName, track.Name)
	assert.Equal(t, UnknownArtist, track.Artist)
	assert.Equal(t, UnknownAlbum, track.Album)
	assert.Equal(t, 0, track.DurationMs)
	assert.Nil(t, track.PreviewURL)
}

func TestPlaceholderTrack(t *testing.T) {
	track := PlaceholderTrack()

	assert.Equal(t, UnknownTrackName, track.Name)
	assert.Equal(t, 0, track.Popularity)
	assert.False(t, track.Explicit)
}

func TestNewCountryStats_TotalMatchesLength(t *testing.T) {
	tracks := []Track{
		NewTrack("1", "Song A", "Artist A", "Album A", 80, 200000, false, nil),
		NewTrack("2", "Song B", "Artist B", "Album B", 60, 180000, true, nil),
	}

	stats := NewCountryStats("US", "United States", tracks)

	assert.Equal(t, 2, stats.TotalTracks)
	assert.Len(t, stats.TopTracks, stats.TotalTracks)
	assert.False(t, stats.Timestamp.IsZero())
}

func TestEmptyCountryStats_SameShapeAsNilTracks(t *testing.T) {
	// Пустой результат поиска и пустой плейлист должны давать одинаковую форму
	fromEmpty := EmptyCountryStats("XX", "XX")
	fromNil := NewCountryStats("XX", "XX", nil)

	assert.Equal(t, 0, fromEmpty.TotalTracks)
	assert.Equal(t, 0, fromNil.TotalTracks)
	assert.NotNil(t, fromEmpty.TopTracks)
	assert.NotNil(t, fromNil.TopTracks)
	assert.Empty(t, fromEmpty.TopTracks)
}

func TestOutboundMessage_JSONSchema(t *testing.T) {
	stats := NewCountryStats("US", "United States", []Track{
		NewTrack("abc", "Song", "Artist", "Album", 90, 210000, false, nil),
	})

	msg := OutboundMessage{
		MessageID:    "11111111-2222-3333-4444-555555555555",
		CountryStats: stats,
		ProducerInfo: ProducerInfo{
			ProducerType:     "spotify_stats_producer",
			Version:          "1.0.0",
			KafkaTopic:       "spotify-stats",
			BootstrapServers: "localhost:9092",
		},
	}

	data, err := json.Marshal(msg)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "message_id")
	assert.Contains(t, decoded, "country_stats")
	assert.Contains(t, decoded, "producer_info")

	countryStats := decoded["country_stats"].(map[string]interface{})
	assert.Equal(t, "US", countryStats["country_code"])
	assert.Contains(t, countryStats, "top_tracks")
	assert.Contains(t, countryStats, "total_tracks")

	// Временная метка сериализуется в ISO-8601
	timestamp := countryStats["timestamp"].(string)
	assert.True(t, strings.Contains(timestamp, "T"))
}
