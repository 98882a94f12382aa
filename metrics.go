package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trackplanner",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trackplanner",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	planDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "trackplanner",
			Name:      "plan_duration_seconds",
			Help:      "Time spent computing one plan",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	plansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trackplanner",
			Name:      "plans_total",
			Help:      "Total number of planning calls",
		},
		[]string{"found"},
	)

	searchNodesExpanded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "trackplanner",
			Name:      "search_nodes_expanded_total",
			Help:      "Total number of search nodes expanded across all plans",
		},
	)

	landmarksStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "trackplanner",
			Name:      "landmarks_stored",
			Help:      "Number of landmarks currently in the store",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(planDuration)
	prometheus.MustRegister(plansTotal)
	prometheus.MustRegister(searchNodesExpanded)
	prometheus.MustRegister(landmarksStored)
}

// metricsMiddleware records HTTP request duration and count per route.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(ww.status)

		// Use the chi route pattern so path labels stay low-cardinality.
		path := chi.RouteContext(r.Context()).RoutePattern()
		if path == "" {
			path = "unmatched"
		}

		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
