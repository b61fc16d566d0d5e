// Package spotify реализует клиент для работы с Spotify Web API.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/model"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
)

// Максимальный размер страницы Spotify API
const maxPageSize = 50

// tokenTransport добавляет токен к каждому запросу
type tokenTransport struct {
	base  http.RoundTripper
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(req)
}

// searchAPI описывает используемое подмножество Spotify Web API
type searchAPI interface {
	Search(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error)
	GetPlaylistItems(ctx context.Context, playlistID spotify.ID, opts ...spotify.RequestOption) (*spotify.PlaylistItemPage, error)
}

// Client представляет клиент для получения популярных треков по странам.
// Spotify не предоставляет прямого эндпоинта топ-треков по стране, поэтому
// используется поиск популярного плейлиста как приближение.
type Client struct {
	auth    TokenSource
	logger  *zap.Logger
	timeout time.Duration

	// newAPIClient подменяется в тестах
	newAPIClient func(ctx context.Context) (searchAPI, error)
}

var _ Interface = (*Client)(nil)

// NewClient создает новый Spotify клиент
func NewClient(auth TokenSource, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	if auth == nil {
		return nil, fmt.Errorf("token source is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		auth:    auth,
		logger:  logger,
		timeout: timeout,
	}
	c.newAPIClient = c.createAPIClient

	logger.Info("Spotify client created successfully with client credentials flow")

	return c, nil
}

// createAPIClient создает новый Spotify API клиент для каждого запроса
func (c *Client) createAPIClient(ctx context.Context) (searchAPI, error) {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Timeout: c.timeout,
		Transport: &tokenTransport{
			base:  http.DefaultTransport,
			token: token,
		},
	}

	c.logger.Debug("Created new Spotify client for request")

	return spotify.New(httpClient), nil
}

// CheckAuth проверяет, что токен доступа может быть получен
func (c *Client) CheckAuth(ctx context.Context) error {
	if _, err := c.auth.Token(ctx); err != nil {
		return fmt.Errorf("spotify auth check failed: %w", err)
	}
	return nil
}

// TopTracksByCountry получает популярные треки страны.
// Ошибка возвращается только при сбое аутентификации; все остальные сбои
// дают валидную пустую статистику.
func (c *Client) TopTracksByCountry(ctx context.Context, countryCode string, limit int) (*model.CountryStats, error) {
	countryName := CountryName(countryCode)

	api, err := c.newAPIClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with spotify: %w", err)
	}

	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := fmt.Sprintf("top %s hits", countryCode)
	result, err := api.Search(ctx, query, spotify.SearchTypePlaylist,
		spotify.Market(countryCode), spotify.Limit(1))
	if err != nil {
		c.logger.Warn("Playlist search failed",
			zap.String("country_code", countryCode),
			zap.Error(err))
		return model.EmptyCountryStats(countryCode, countryName), nil
	}

	if result.Playlists == nil || len(result.Playlists.Playlists) == 0 {
		c.logger.Warn("No playlists found for country",
			zap.String("country_code", countryCode))
		return model.EmptyCountryStats(countryCode, countryName), nil
	}

	playlist := result.Playlists.Playlists[0]
	if playlist.ID == "" {
		c.logger.Warn("Playlist without ID in search result",
			zap.String("country_code", countryCode))
		return model.EmptyCountryStats(countryCode, countryName), nil
	}

	items, err := api.GetPlaylistItems(ctx, playlist.ID,
		spotify.Market(countryCode), spotify.Limit(limit))
	if err != nil {
		c.logger.Warn("Failed to get playlist items",
			zap.String("country_code", countryCode),
			zap.String("playlist_id", string(playlist.ID)),
			zap.Error(err))
		return model.EmptyCountryStats(countryCode, countryName), nil
	}

	tracks := make([]model.Track, 0, len(items.Items))
	for _, item := range items.Items {
		// Пропускаем эпизоды и записи без трека
		full := item.Track.Track
		if full == nil || full.ID == "" {
			continue
		}
		tracks = append(tracks, parseTrack(full))
	}

	c.logger.Info("Fetched top tracks for country",
		zap.String("country_code", countryCode),
		zap.Int("tracks_count", len(tracks)))

	return model.NewCountryStats(countryCode, countryName, tracks), nil
}

// parseTrack преобразует трек Spotify API в модель.
// Отсутствующие поля заменяются значениями по умолчанию, а не ошибкой.
func parseTrack(full *spotify.FullTrack) model.Track {
	artist := ""
	if len(full.Artists) > 0 {
		artist = full.Artists[0].Name
	}

	var previewURL *string
	if full.PreviewURL != "" {
		url := full.PreviewURL
		previewURL = &url
	}

	return model.NewTrack(
		string(full.ID),
		full.Name,
		artist,
		full.Album.Name,
		int(full.Popularity),
		int(full.Duration),
		full.Explicit,
		previewURL,
	)
}
