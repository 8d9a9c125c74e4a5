package metrics

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amirhossein-jamali/seat-hold/internal/domain/port/core"
)

const namespace = "seat_hold"

// PrometheusMetrics records seat-hold metrics on a private registry
type PrometheusMetrics struct {
	registry *prometheus.Registry

	transitions   *prometheus.CounterVec
	sweeps        *prometheus.CounterVec
	reclaimed     prometheus.Counter
	sweepDuration prometheus.Histogram
	queryDuration *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec

	poolOpen    prometheus.Gauge
	poolInUse   prometheus.Gauge
	poolIdle    prometheus.Gauge
	poolWait    prometheus.Gauge
	poolMaxOpen prometheus.Gauge
}

var _ core.Metrics = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates and registers all collectors
func NewPrometheusMetrics() *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &PrometheusMetrics{
		registry: registry,
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seat_transitions_total",
			Help:      "Seat transition attempts by target status and outcome",
		}, []string{"to_status", "outcome"}),
		sweeps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expiry_sweeps_total",
			Help:      "Expiry sweep cycles by result",
		}, []string{"result"}),
		reclaimed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "holds_reclaimed_total",
			Help:      "Expired holds returned to AVAILABLE by the sweeper",
		}),
		sweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "expiry_sweep_duration_seconds",
			Help:      "Duration of expiry sweep cycles",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		queryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_query_duration_seconds",
			Help:      "Seat store statement latency by operation and result",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"operation", "result"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code",
		}, []string{"route", "method", "code"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		poolOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "db_pool", Name: "open_connections",
			Help: "Open connections in the database pool",
		}),
		poolInUse: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "db_pool", Name: "in_use_connections",
			Help: "Connections currently in use",
		}),
		poolIdle: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "db_pool", Name: "idle_connections",
			Help: "Idle connections in the pool",
		}),
		poolWait: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "db_pool", Name: "wait_count",
			Help: "Total number of connections waited for",
		}),
		poolMaxOpen: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "db_pool", Name: "max_open_connections",
			Help: "Configured maximum of open connections",
		}),
	}
}

// ObserveTransition counts one transition attempt
func (m *PrometheusMetrics) ObserveTransition(toStatus string, outcome core.TransitionOutcome) {
	m.transitions.WithLabelValues(toStatus, string(outcome)).Inc()
}

// ObserveSweep records one sweep cycle
func (m *PrometheusMetrics) ObserveSweep(reclaimed int64, seconds float64, failed bool) {
	if failed {
		m.sweeps.WithLabelValues("failed").Inc()
		return
	}
	m.sweeps.WithLabelValues("ok").Inc()
	m.reclaimed.Add(float64(reclaimed))
	m.sweepDuration.Observe(seconds)
}

// ObserveQuery records the latency of one store statement
func (m *PrometheusMetrics) ObserveQuery(operation string, seconds float64, failed bool) {
	result := "ok"
	if failed {
		result = "error"
	}
	m.queryDuration.WithLabelValues(operation, result).Observe(seconds)
}

// ObserveHTTPRequest records one served request
func (m *PrometheusMetrics) ObserveHTTPRequest(route, method string, code int, seconds float64) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(seconds)
}

// RecordPoolStats publishes a connection pool snapshot
func (m *PrometheusMetrics) RecordPoolStats(stats sql.DBStats) {
	m.poolOpen.Set(float64(stats.OpenConnections))
	m.poolInUse.Set(float64(stats.InUse))
	m.poolIdle.Set(float64(stats.Idle))
	m.poolWait.Set(float64(stats.WaitCount))
	m.poolMaxOpen.Set(float64(stats.MaxOpenConnections))
}

// Registry exposes the underlying registry
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
