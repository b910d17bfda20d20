// Package api provides the HTTP server for the engagement engine.
// It exposes the award, profile, achievement and leaderboard endpoints
// consumed by the platform's dashboards.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heritageworks/engage/internal/app/points"
	"github.com/heritageworks/engage/internal/health"
)

// Server is the engagement HTTP API server.
type Server struct {
	awards         *points.AwardService
	leaderboards   *points.LeaderboardService
	registry       registryReader
	checker        *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(awards *points.AwardService, leaderboards *points.LeaderboardService, registry registryReader) *Server {
	return &Server{awards: awards, leaderboards: leaderboards, registry: registry}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealthChecker attaches a checker whose probe results are reported
// by /health. Without one, /health only confirms the server is up.
func (s *Server) SetHealthChecker(c *health.Checker) { s.checker = c }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/awards", s.handleAward)
		r.Get("/profiles/{userID}", s.handleProfile)
		r.Get("/profiles/{userID}/activities", s.handleActivities)
		r.Get("/profiles/{userID}/achievements", s.handleUserAchievements)
		r.Get("/profiles/{userID}/streak", s.handleStreak)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/leaderboard/position", s.handlePosition)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// handleHealth reports liveness plus the latest probe results when a
// checker is attached. Degraded probes answer 503 so load balancers can
// rotate the instance out.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.checker == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	status := "ok"
	code := http.StatusOK
	if !s.checker.IsHealthy() {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": s.checker.Statuses(),
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the dashboard frontends.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
