package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vaultline/vaultline/common/logging"
	"github.com/vaultline/vaultline/common/middleware"
	"github.com/vaultline/vaultline/internal/auth"
	"github.com/vaultline/vaultline/internal/handlers"
)

// NewRouter constructs a ServeMux with activity API routes registered,
// wrapped in request-id, CORS and auth middleware.
func NewRouter(h *handlers.Handler, verifier *auth.Verifier, logger *logging.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/activity", h.Activity)
	mux.HandleFunc("/api/v1/insights/metrics", h.InsightsMetrics)
	mux.HandleFunc("/api/v1/insights/cards", h.InsightsCards)
	mux.HandleFunc("/healthz", h.Health)
	mux.Handle("/metrics", promhttp.Handler())

	cors := middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	})

	return middleware.RequestID(cors(auth.Middleware(verifier, logger)(mux)))
}
