// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Assistant outcome labels
const (
	OutcomeOK            = "ok"
	OutcomeUpstreamError = "upstream_error"
	OutcomeRejected      = "rejected"
	OutcomeUnavailable   = "unavailable"
)

// Metrics holds the Prometheus collectors of the results service.
// All methods are no-ops on a nil *Metrics.
type Metrics struct {
	namespace         string
	histogramBuckets  []float64
	runtimeCollectors bool
	registry          *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	queryDuration       *prometheus.HistogramVec
	seatDrift           prometheus.Gauge
	houseSize           prometheus.Gauge
	assistantRequests   *prometheus.CounterVec
	liveSubscribers     prometheus.Gauge
	livePublishes       prometheus.Counter
}

// New creates the collectors on a fresh registry unless WithRegistry is given.
func New(opts ...Option) *Metrics {
	m := &Metrics{
		namespace:        "election",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	if m.runtimeCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.queryDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "db",
		Name:      "query_duration_milliseconds",
		Help:      "Database statement duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"kind", "result"})

	m.seatDrift = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "seats",
		Name:      "drift",
		Help:      "Allocated seats minus house size of the latest seat allocation",
	})

	m.houseSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "seats",
		Name:      "house_size",
		Help:      "Configured number of seats in the house",
	})

	m.assistantRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "assistant",
		Name:      "requests_total",
		Help:      "Chat relay requests by outcome",
	}, []string{"outcome"})

	m.liveSubscribers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "live",
		Name:      "subscribers",
		Help:      "Number of connected result stream subscribers",
	})

	m.livePublishes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "live",
		Name:      "publishes_total",
		Help:      "Number of summary changes pushed to subscribers",
	})

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordHTTPRequest counts a request and observes its duration.
func (m *Metrics) RecordHTTPRequest(endpoint, method string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(statusCode)
	m.httpRequests.WithLabelValues(endpoint, method, code).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, code).Observe(milliseconds(duration))
}

// ObserveQuery records the duration of a database statement.
// kind is "query" or "exec".
func (m *Metrics) ObserveQuery(kind string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.queryDuration.WithLabelValues(kind, result).Observe(milliseconds(duration))
}

// SetSeatAllocation publishes the house size and drift of an allocation.
func (m *Metrics) SetSeatAllocation(houseSize, drift int) {
	if m == nil {
		return
	}
	m.houseSize.Set(float64(houseSize))
	m.seatDrift.Set(float64(drift))
}

// RecordAssistantRequest counts a chat relay request by outcome.
func (m *Metrics) RecordAssistantRequest(outcome string) {
	if m == nil {
		return
	}
	m.assistantRequests.WithLabelValues(outcome).Inc()
}

// SetLiveSubscribers sets the number of connected stream subscribers.
func (m *Metrics) SetLiveSubscribers(n int) {
	if m == nil {
		return
	}
	m.liveSubscribers.Set(float64(n))
}

// RecordLivePublish counts a summary pushed to subscribers.
func (m *Metrics) RecordLivePublish() {
	if m == nil {
		return
	}
	m.livePublishes.Inc()
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
