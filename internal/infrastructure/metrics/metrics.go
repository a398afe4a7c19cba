// Package metrics expone métricas Prometheus del núcleo y del servidor HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-erp/internal/domain/entity"
)

// Metrics implementa ports.Metrics sobre un registro propio.
type Metrics struct {
	registry *prometheus.Registry

	LedgerEntries        *prometheus.CounterVec
	DocumentTransitions  *prometheus.CounterVec
	Settlements          *prometheus.CounterVec
	ReservationsRejected prometheus.Counter
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
}

// New registra las métricas bajo namespace (ej. "inventario").
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.LedgerEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_entries_total",
			Help:      "Movimientos confirmados en el libro por motivo",
		},
		[]string{"reason"},
	)
	m.DocumentTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "document_transitions_total",
			Help:      "Transiciones de documentos por tipo, transición y resultado",
		},
		[]string{"type", "transition", "result"},
	)
	m.Settlements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_total",
			Help:      "Liquidaciones por resultado",
		},
		[]string{"result"},
	)
	m.ReservationsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_rejected_total",
			Help:      "Reservas rechazadas por stock insuficiente",
		},
	)
	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de requests HTTP",
		},
		[]string{"method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de requests HTTP en segundos",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(
		m.LedgerEntries,
		m.DocumentTransitions,
		m.Settlements,
		m.ReservationsRejected,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

func (m *Metrics) LedgerAppended(reason entity.MovementReason) {
	m.LedgerEntries.WithLabelValues(string(reason)).Inc()
}

func (m *Metrics) DocumentTransition(docType entity.DocumentType, transition, result string) {
	m.DocumentTransitions.WithLabelValues(string(docType), transition, result).Inc()
}

func (m *Metrics) SettlementApplied(result string) {
	m.Settlements.WithLabelValues(result).Inc()
}

func (m *Metrics) ReservationRejected() {
	m.ReservationsRejected.Inc()
}

// Middleware registra cantidad y duración de requests. Usa la ruta registrada, no la URL,
// para no disparar la cardinalidad con IDs.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler devuelve el handler HTTP del endpoint /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry devuelve el registro de Prometheus.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
