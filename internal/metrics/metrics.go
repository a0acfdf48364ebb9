// Package metrics registers the service's Prometheus collectors:
//
//	credit_engine_assessments_total{kind,category}
//	credit_engine_credit_score
//	credit_engine_collaborator_errors_total{collaborator}
//	credit_engine_http_requests_total{route,method,status}
//	credit_engine_http_request_duration_seconds{route,method}
//	go_* and process_* system metrics
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry           *prometheus.Registry
	assessments        *prometheus.CounterVec
	creditScores       prometheus.Histogram
	collaboratorErrors *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		assessments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_assessments_total",
				Help: "Number of completed assessments",
			},
			[]string{"kind", "category"},
		),
		creditScores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "credit_engine_credit_score",
			Help:    "Distribution of issued credit scores",
			Buckets: prometheus.LinearBuckets(300, 50, 13),
		}),
		collaboratorErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_collaborator_errors_total",
				Help: "Failed calls to audit store, publisher, storage or mailer",
			},
			[]string{"collaborator"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_http_requests_total",
				Help: "HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_engine_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}

	m.registry.MustRegister(
		m.assessments,
		m.creditScores,
		m.collaboratorErrors,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAssessment counts one assessment; score is recorded for credit only.
func (m *Metrics) ObserveAssessment(kind, category string, score int) {
	m.assessments.WithLabelValues(kind, category).Inc()
	if kind == "credit" {
		m.creditScores.Observe(float64(score))
	}
}

func (m *Metrics) CollaboratorError(name string) {
	m.collaboratorErrors.WithLabelValues(name).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, seconds float64) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(seconds)
}
