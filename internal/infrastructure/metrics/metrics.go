// Package metrics contadores Prometheus del ledger, del planificador de etiquetas y del servidor HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/labels"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Namespace prefijo de todas las métricas.
const Namespace = "stockledger"

var (
	_ inventory.Metrics = (*Collectors)(nil)
	_ labels.Metrics    = (*Collectors)(nil)
)

// Collectors agrupa los vectores registrados en un Registerer.
type Collectors struct {
	Movements     *prometheus.CounterVec
	Compensations *prometheus.CounterVec
	LabelPlans    *prometheus.CounterVec
	LabelWarnings *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
}

// New registra los colectores en reg. Con reg nil se usa el registro por defecto.
func New(reg prometheus.Registerer) *Collectors {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collectors{
		Movements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "movements_total",
			Help:      "Movimientos registrados por tipo y resultado",
		}, []string{"type", "outcome"}),

		Compensations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "compensations_total",
			Help:      "Rollbacks ejecutados por resultado",
		}, []string{"outcome"}),

		LabelPlans: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "label_plans_total",
			Help:      "Planes de etiquetas por resultado",
		}, []string{"outcome"}),

		LabelWarnings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "label_warnings_total",
			Help:      "Advertencias emitidas por el planificador de etiquetas",
		}, []string{"warning"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total de requests HTTP",
		}, []string{"method", "path", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de los requests HTTP en segundos",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// MovementRecorded implementa inventory.Metrics.
func (c *Collectors) MovementRecorded(movementType entity.MovementType, outcome string) {
	c.Movements.WithLabelValues(string(movementType), outcome).Inc()
}

// CompensationFinished implementa inventory.Metrics.
func (c *Collectors) CompensationFinished(outcome string) {
	c.Compensations.WithLabelValues(outcome).Inc()
}

// LabelPlanned implementa labels.Metrics.
func (c *Collectors) LabelPlanned(outcome string) {
	c.LabelPlans.WithLabelValues(outcome).Inc()
}

// LabelWarning implementa labels.Metrics.
func (c *Collectors) LabelWarning(w entity.LabelWarning) {
	c.LabelWarnings.WithLabelValues(string(w)).Inc()
}

// ObserveHTTP registra un request terminado.
func (c *Collectors) ObserveHTTP(method, path, status string, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, path, status).Inc()
	c.HTTPDuration.WithLabelValues(method, path, status).Observe(elapsed.Seconds())
}
