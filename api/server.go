package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"flytxt-analytics/cache"
	"flytxt-analytics/config"
	"flytxt-analytics/database"
	"flytxt-analytics/realtime"
)

// Server handles HTTP API requests
type Server struct {
	repo     *database.LogRepository
	redis    *cache.RedisClient
	broker   *realtime.Broker
	analysis config.AnalysisConfig
}

// NewServer creates a new API server instance
func NewServer(repo *database.LogRepository, redis *cache.RedisClient, broker *realtime.Broker, analysis config.AnalysisConfig) *Server {
	return &Server{
		repo:     repo,
		redis:    redis,
		broker:   broker,
		analysis: analysis,
	}
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()

	// Register routes
	mux.Handle("GET /api/events", s.broker) // SSE Endpoint
	mux.HandleFunc("GET /api/trends", s.handleGetTrends)
	mux.HandleFunc("GET /api/weekdays", s.handleGetWeekdays)
	mux.HandleFunc("GET /api/hours", s.handleGetHours)
	mux.HandleFunc("GET /api/forecast", s.handleGetForecast)
	mux.HandleFunc("GET /api/anomalies", s.handleGetAnomalies)
	mux.HandleFunc("GET /api/correlations", s.handleGetCorrelations)
	mux.HandleFunc("GET /api/countries", s.handleGetCountries)
	mux.HandleFunc("GET /api/summary", s.handleGetSummary)

	mux.HandleFunc("GET /health", s.handleHealth)

	// Add middleware
	handler := s.corsMiddleware(s.loggingMiddleware(mux))

	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("🚀 API Server starting on %s", serverAddr)
	return http.ListenAndServe(serverAddr, handler)
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}
