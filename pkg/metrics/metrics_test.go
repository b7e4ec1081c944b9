package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("catalog", reg)

	m.ImportRows.WithLabelValues("service", "created").Add(2)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ImportRows.WithLabelValues("service", "created")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewMetricsWithoutRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics("catalog", nil)
		NewMetrics("catalog", nil)
	})
}
