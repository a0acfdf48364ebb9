package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/credit-engine/internal/config"
	"github.com/Dan9191/credit-engine/internal/handler"
	"github.com/Dan9191/credit-engine/internal/metrics"
	"github.com/Dan9191/credit-engine/internal/middleware"
)

func newRouter(h *handler.Handler, cfg *config.Config, m *metrics.Metrics, logger *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.MetricsMiddleware(m))

	// Public routes
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", m.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))
	api.HandleFunc("/credit/calculate", h.CalculateCredit).Methods("POST")
	api.HandleFunc("/income/analyze", h.AnalyzeIncome).Methods("POST")
	api.HandleFunc("/income/upload-documents", h.UploadDocuments).Methods("POST")
	api.HandleFunc("/dashboard/stats", h.DashboardStats).Methods("GET")
	api.HandleFunc("/score/explanation", h.ScoreExplanation).Methods("GET")

	// Protected routes
	auth := middleware.AuthMiddleware(cfg.JWTSecret)
	api.Handle("/assessments/{id}", auth(http.HandlerFunc(h.GetAssessment))).Methods("GET")

	r.NotFoundHandler = jsonError(http.StatusNotFound, "not found")
	r.MethodNotAllowedHandler = jsonError(http.StatusMethodNotAllowed, "method not allowed")
	return r
}

func jsonError(status int, msg string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
	})
}
