package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue gathers the registry and sums the counter samples of name
// whose labels include every pair in labels
func counterValue(t *testing.T, r *Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := r.GetPrometheusRegistry().Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matches(m, labels) {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}

func matches(m *dto.Metric, labels map[string]string) bool {
	found := 0
	for _, lp := range m.GetLabel() {
		if v, ok := labels[lp.GetName()]; ok {
			if v != lp.GetValue() {
				return false
			}
			found++
		}
	}
	return found == len(labels)
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.NotNil(t, r.CalculationsTotal)
	assert.NotNil(t, r.OverridesTotal)
	assert.NotNil(t, r.HTTPRequestsTotal)
	assert.NotNil(t, r.GetPrometheusRegistry())
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}

func TestRecordCalculation(t *testing.T) {
	r := NewRegistry()
	r.RecordCalculation("WIND", "ok", 4, 2*time.Millisecond)
	r.RecordCalculation("WIND", "ok", 2, time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, r, "azload_calculations_total", map[string]string{"load_type": "WIND", "status": "ok"}))
	assert.Equal(t, 6.0, counterValue(t, r, "azload_loads_generated_total", map[string]string{"load_type": "WIND"}))
}

func TestRecordOverrideAndLock(t *testing.T) {
	r := NewRegistry()
	r.RecordOverride("MEMBER_TAG", true)
	r.RecordOverride("MEMBER_TAG", false)
	r.RecordOverride("MEMBER_TAG", false)
	r.RecordLock("invalid")

	assert.Equal(t, 1.0, counterValue(t, r, "azload_mcp_overrides_total", map[string]string{"kind": "MEMBER_TAG", "outcome": "accepted"}))
	assert.Equal(t, 2.0, counterValue(t, r, "azload_mcp_overrides_total", map[string]string{"kind": "MEMBER_TAG", "outcome": "rejected"}))
	assert.Equal(t, 1.0, counterValue(t, r, "azload_mcp_lock_attempts_total", map[string]string{"result": "invalid"}))
}

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.RecordCalculation("DEAD", "ok", 1, time.Millisecond)
		r.RecordOverride("BUILDING_TYPE", true)
		r.RecordLock("locked")
		r.RecordClassifierFallback("classify-building")
		r.RecordModelLoaded()
		r.RecordStoreError("save")
		r.RecordHTTPRequest("GET", "/healthz", "200", time.Millisecond)
	})
}
