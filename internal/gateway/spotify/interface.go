package spotify

import (
	"context"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/model"
)

// Interface определяет интерфейс для получения данных из Spotify API
type Interface interface {
	// TopTracksByCountry получает популярные треки страны.
	// Ошибка возвращается только при сбое аутентификации; любой другой
	// сбой (сеть, пустой поиск, отсутствующий плейлист) дает валидную
	// пустую статистику с nil-ошибкой — сбой одной страны не должен
	// прерывать пакетную обработку.
	TopTracksByCountry(ctx context.Context, countryCode string, limit int) (*model.CountryStats, error)

	// CheckAuth проверяет, что токен доступа может быть получен
	CheckAuth(ctx context.Context) error
}

// TokenSource определяет стратегию получения токена доступа
type TokenSource interface {
	// Token возвращает действующий токен доступа
	Token(ctx context.Context) (string, error)
}
