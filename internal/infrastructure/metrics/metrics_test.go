package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturacion-sri/internal/infrastructure/metrics"
)

func TestMetrics_NilEsSeguro(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveAttempt("validarComprobante", "ok")
		m.ObserveOutcome("authorized")
		m.SetContingencyPending(3)
		m.ObserveSubmit(time.Now())
	})
}

func TestMetrics_Contadores(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.ObserveAttempt("validarComprobante", "fault")
	m.ObserveAttempt("validarComprobante", "fault")
	m.ObserveOutcome("denied")
	m.SetContingencyPending(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SOAPAttempts.WithLabelValues("validarComprobante", "fault")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("denied")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ContingencyPending))
}
