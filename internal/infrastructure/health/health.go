// Package health реализует HTTP healthcheck сервер для мониторинга
// состояния продюсера.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server представляет HTTP сервер для health check
type Server struct {
	server    *http.Server
	logger    *zap.Logger
	port      int
	startTime time.Time
	checker   Checker
}

var _ ServerInterface = (*Server)(nil)

// Status представляет статус здоровья системы
type Status struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Components map[string]string `json:"components,omitempty"`
}

// NewServer создает новый health check сервер
func NewServer(port int, checker Checker, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	hs := &Server{
		server:    server,
		logger:    logger,
		port:      port,
		startTime: time.Now(),
		checker:   checker,
	}

	mux.HandleFunc("/health", hs.healthHandler)
	mux.HandleFunc("/ready", hs.readyHandler)

	return hs
}

// Start запускает health check сервер
func (hs *Server) Start() error {
	hs.logger.Info("Starting health check server", zap.Int("port", hs.port))
	return hs.server.ListenAndServe()
}

// Stop останавливает health check сервер
func (hs *Server) Stop(ctx context.Context) error {
	hs.logger.Info("Stopping health check server")
	return hs.server.Shutdown(ctx)
}

// formatDuration форматирует время в читаемый формат (например: 8s)
func formatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%ds", seconds)
}

// healthHandler обрабатывает запросы /health
func (hs *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := Status{
		Status:     "healthy",
		Timestamp:  time.Now(),
		Uptime:     formatDuration(time.Since(hs.startTime)),
		Version:    "1.0.0",
		Components: hs.checkComponents(r.Context()),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(status); err != nil {
		hs.logger.Error("Failed to encode health status", zap.Error(err))
	}
}

// readyHandler обрабатывает запросы /ready
func (hs *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	components := hs.checkComponents(r.Context())

	overallStatus := "ready"
	for _, componentStatus := range components {
		if componentStatus != "healthy" {
			overallStatus = "unhealthy"
			break
		}
	}

	status := Status{
		Status:     overallStatus,
		Timestamp:  time.Now(),
		Uptime:     formatDuration(time.Since(hs.startTime)),
		Version:    "1.0.0",
		Components: components,
	}

	w.Header().Set("Content-Type", "application/json")

	if overallStatus == "ready" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		hs.logger.Warn("Readiness check failed", zap.Any("components", components))
	}

	if err := json.NewEncoder(w).Encode(status); err != nil {
		hs.logger.Error("Failed to encode ready status", zap.Error(err))
	}
}

// checkComponents проверяет состояние всех компонентов
func (hs *Server) checkComponents(ctx context.Context) map[string]string {
	components := make(map[string]string)

	if hs.checker == nil {
		components["orchestrator"] = "unhealthy"
		return components
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	healthStatus := hs.checker.HealthCheck(ctx)

	components["orchestrator"] = componentStatus(healthStatus.OrchestratorInitialized)
	components["spotify_client"] = componentStatus(healthStatus.SpotifyClientReady)
	components["kafka_producer"] = componentStatus(healthStatus.KafkaProducerReady)
	components["spotify_auth"] = componentStatus(healthStatus.SpotifyAuthOK)

	return components
}

// componentStatus преобразует результат проверки в строковый статус
func componentStatus(healthy bool) string {
	if healthy {
		return "healthy"
	}
	return "unhealthy"
}
