package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"weather-panel/logger"
	"weather-panel/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the current snapshot, health and metrics over HTTP
type Server struct {
	store     *SnapshotStore
	sunOffset time.Duration
	server    *http.Server
}

// currentWeatherResponse is the body of GET /api/weather/current
type currentWeatherResponse struct {
	Snapshot models.WeatherSnapshot `json:"snapshot"`
	Display  displayValues          `json:"display"`
}

type displayValues struct {
	TemperatureF int    `json:"temperatureF"`
	MinF         int    `json:"minF"`
	MaxF         int    `json:"maxF"`
	FeelsLikeF   int    `json:"feelsLikeF"`
	Sunrise      string `json:"sunrise"`
	Sunset       string `json:"sunset"`
}

// NewServer creates a status server listening on addr. gatherer supplies /metrics.
func NewServer(store *SnapshotStore, gatherer prometheus.Gatherer, addr string, sunOffset time.Duration) *Server {
	mux := http.NewServeMux()

	server := &Server{
		store:     store,
		sunOffset: sunOffset,
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	mux.HandleFunc("/api/weather/current", server.handleGetCurrentWeather)
	mux.HandleFunc("/api/health", server.handleHealthCheck)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return server
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins the API server. It returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	logger.GetLogger().Infow("Starting status server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleGetCurrentWeather returns the snapshot currently on screen
func (s *Server) handleGetCurrentWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	snapshot, ok := s.store.Current()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "No city has been looked up yet",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(currentWeatherResponse{
		Snapshot: snapshot,
		Display: displayValues{
			TemperatureF: models.KelvinToFahrenheit(snapshot.TempCurrentK),
			MinF:         models.KelvinToFahrenheit(snapshot.TempMinK),
			MaxF:         models.KelvinToFahrenheit(snapshot.TempMaxK),
			FeelsLikeF:   models.KelvinToFahrenheit(snapshot.TempFeelsLikeK),
			Sunrise:      models.FormatSunTime(snapshot.SunriseUnix, s.sunOffset),
			Sunset:       models.FormatSunTime(snapshot.SunsetUnix, s.sunOffset),
		},
	})
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
