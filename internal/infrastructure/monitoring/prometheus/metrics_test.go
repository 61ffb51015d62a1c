package prometheus

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreeningMetrics_Counters(t *testing.T) {
	m := NewScreeningMetrics()

	m.DockingsTotal.Inc()
	m.DockingsTotal.Inc()
	m.DockingFailures.Inc()
	m.SelectionSize.Set(2000)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DockingsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DockingFailures))
	assert.Equal(t, 2000.0, testutil.ToFloat64(m.SelectionSize))
}

func TestScreeningMetrics_Handler(t *testing.T) {
	m := NewScreeningMetrics()
	m.CompoundsScored.Add(42)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	count, err := testutil.GatherAndCount(m.Registry(), "molscreen_compounds_scored_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestScreeningMetrics_IndependentRegistries(t *testing.T) {
	// Two instances must not collide on metric registration.
	m1 := NewScreeningMetrics()
	m2 := NewScreeningMetrics()
	m1.DockingsTotal.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(m2.DockingsTotal))
}
