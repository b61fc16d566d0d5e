package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultTokenURL = "https://accounts.spotify.com/api/token"

// Обновляем токен заранее, чтобы не отправлять запросы с истекающим токеном
const tokenExpiryMargin = 30 * time.Second

// ClientCredentials реализует получение токена по Client Credentials Flow.
// Токен кэшируется до истечения срока действия.
type ClientCredentials struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client
	logger       *zap.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

var _ TokenSource = (*ClientCredentials)(nil)

// NewClientCredentials создает источник токенов Client Credentials Flow
func NewClientCredentials(clientID, clientSecret string, logger *zap.Logger) *ClientCredentials {
	return &ClientCredentials{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     defaultTokenURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}
}

// Token возвращает действующий токен доступа, запрашивая новый при необходимости
func (a *ClientCredentials) Token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.accessToken != "" && time.Now().Before(a.expiresAt.Add(-tokenExpiryMargin)) {
		return a.accessToken, nil
	}

	token, expiresIn, err := a.requestToken(ctx)
	if err != nil {
		return "", err
	}

	a.accessToken = token
	a.expiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)

	a.logger.Info("Spotify access token obtained",
		zap.Int("expires_in_seconds", expiresIn))

	return a.accessToken, nil
}

// requestToken выполняет запрос токена к accounts.spotify.com
func (a *ClientCredentials) requestToken(ctx context.Context) (string, int, error) {
	body := strings.NewReader("grant_type=client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create token request: %w", err)
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(a.clientID + ":" + a.clientSecret))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to get token: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			a.logger.Warn("Failed to close token response body", zap.Error(closeErr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", 0, fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", 0, fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResponse.AccessToken == "" {
		return "", 0, fmt.Errorf("no access token received")
	}

	return tokenResponse.AccessToken, tokenResponse.ExpiresIn, nil
}
