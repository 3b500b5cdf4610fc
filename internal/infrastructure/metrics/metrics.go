// Package metrics expone métricas Prometheus de las operaciones CRUD y del servidor HTTP.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics colectores registrados en un Registerer.
type Metrics struct {
	operations       *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec
	requestDuration  *prometheus.HistogramVec
	requestsTotal    *prometheus.CounterVec
	inFlight         prometheus.Gauge
}

// New registra los colectores en reg (prometheus.DefaultRegisterer en producción).
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "crud_operations_total",
			Help: "Total de operaciones CRUD por entidad, operación y resultado",
		}, []string{"entity", "operation", "result"}),
		operationLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crud_operation_duration_seconds",
			Help:    "Duración de operaciones CRUD en segundos",
			Buckets: prometheus.DefBuckets,
		}, []string{"entity", "operation"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		}),
	}
}

// ObserveOperation registra el resultado de una operación del núcleo CRUD.
func (m *Metrics) ObserveOperation(entity, operation string, err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(entity, operation, result).Inc()
	m.operationLatency.WithLabelValues(entity, operation).Observe(d.Seconds())
}

// RecordHTTP registra duración y conteo de una petición HTTP; path es la ruta registrada, no la URL.
func (m *Metrics) RecordHTTP(method, path string, status int, d time.Duration) {
	s := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, s).Observe(d.Seconds())
	m.requestsTotal.WithLabelValues(method, path, s).Inc()
}

// IncInFlight / DecInFlight peticiones en curso.
func (m *Metrics) IncInFlight() { m.inFlight.Inc() }
func (m *Metrics) DecInFlight() { m.inFlight.Dec() }
