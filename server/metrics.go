package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_http_requests_total",
		Help: "Portal page requests by method, path pattern, and status.",
	}, []string{"method", "path", "status"})

	sessionRedirectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portal_session_redirects_total",
		Help: "Requests bounced to the sign-in splash for lack of a session.",
	})
)

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// MetricsMiddleware counts requests by final status.
func (s *Server) MetricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(recorder, r)
		requestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(recorder.status)).Inc()
	}
}

// MetricsHandler serves the prometheus scrape endpoint.
func (s *Server) MetricsHandler() http.Handler {
	return promhttp.Handler()
}
