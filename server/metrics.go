package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"portfolio/demo"
)

const metricsNamespace = "portfolio"

type metrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	conversions *prometheus.CounterVec
	listActions *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "The total number of HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "The time spent serving HTTP requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "conversions_total",
			Help:      "The total number of submitted infix expressions by outcome.",
		}, []string{"outcome"}),
		listActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "list_actions_total",
			Help:      "The total number of linked list demo actions by action.",
		}, []string{"action"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requests,
		m.duration,
		m.conversions,
		m.listActions,
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *metrics) observeConversion(result demo.ConvertResult) {
	outcome := "converted"
	switch {
	case len(result.Infix) == 0:
		outcome = "empty"
	case len(result.Message) > 0:
		outcome = "failed"
	}
	m.conversions.WithLabelValues(outcome).Inc()
}

func (m *metrics) observeListAction(action demo.Action) {
	label := string(action)
	if !action.Known() {
		label = "unknown"
	}
	m.listActions.WithLabelValues(label).Inc()
}

// middleware must wrap the mux directly so r.Pattern is filled in once the
// mux has routed the request.
func (m *metrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := newStatusRecorder(w)
		next.ServeHTTP(recorder, r)

		route := r.Pattern
		if len(route) == 0 {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(recorder.status)).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
