// Package metrics expone contadores Prometheus del ciclo de envío al SRI.
// Todos los métodos aceptan receptor nil para que los componentes funcionen sin métricas.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa las métricas de transporte y orquestación.
type Metrics struct {
	SOAPAttempts       *prometheus.CounterVec
	Outcomes           *prometheus.CounterVec
	ContingencyPending prometheus.Gauge
	SubmitDuration     prometheus.Histogram
}

// New registra las métricas en reg; nil usa el registro por defecto.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		SOAPAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sri_soap_attempts_total",
			Help: "Intentos SOAP por operación y resultado (ok, fault, error)",
		}, []string{"operation", "result"}),
		Outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sri_outcomes_total",
			Help: "Resultados de submit y checkStatus por tipo",
		}, []string{"kind"}),
		ContingencyPending: f.NewGauge(prometheus.GaugeOpts{
			Name: "sri_contingency_pending",
			Help: "Comprobantes en contingencia tras el último reintento",
		}),
		SubmitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "sri_submit_duration_seconds",
			Help:    "Duración de submit de punta a punta (incluye la espera de autorización)",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
	}
}

// ObserveAttempt registra un intento SOAP.
func (m *Metrics) ObserveAttempt(operation, result string) {
	if m == nil {
		return
	}
	m.SOAPAttempts.WithLabelValues(operation, result).Inc()
}

// ObserveOutcome registra el tipo de resultado de una operación del orquestador.
func (m *Metrics) ObserveOutcome(kind string) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(kind).Inc()
}

// SetContingencyPending fija la cantidad de pendientes en contingencia.
func (m *Metrics) SetContingencyPending(n int) {
	if m == nil {
		return
	}
	m.ContingencyPending.Set(float64(n))
}

// ObserveSubmit registra la duración de submit. Llamar con time.Now() del inicio.
func (m *Metrics) ObserveSubmit(start time.Time) {
	if m == nil {
		return
	}
	m.SubmitDuration.Observe(time.Since(start).Seconds())
}
