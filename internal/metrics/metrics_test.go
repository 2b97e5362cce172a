package metrics

import (
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routekit/pkg/router"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	require.NotNil(t, m.Counter)
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	require.NotNil(t, m.Gauge)
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, h.Write(&m))
	require.NotNil(t, m.Histogram)
	return m.GetHistogram().GetSampleCount()
}

func TestObserveCompile(t *testing.T) {
	r := New(WithRegistry(prometheus.NewRegistry()))

	table := &router.RouteTable{
		Routes: make([]router.CompiledRoute, 3),
		Nodes:  make([]router.PageNode, 5),
	}
	r.ObserveCompile(2*time.Millisecond, table, nil)

	assert.Equal(t, 1.0, counterValue(t, r.compilesTotal.WithLabelValues("success", "")))
	assert.Equal(t, 3.0, gaugeValue(t, r.routes))
	assert.Equal(t, 5.0, gaugeValue(t, r.nodes))

	err := fmt.Errorf("compile: %w", &router.Error{Kind: router.DuplicateRole})
	r.ObserveCompile(time.Millisecond, nil, err)
	r.ObserveCompile(time.Millisecond, nil, stderrors.New("boom"))

	assert.Equal(t, 1.0, counterValue(t, r.compilesTotal.WithLabelValues("error", "duplicate_role")))
	assert.Equal(t, 1.0, counterValue(t, r.compilesTotal.WithLabelValues("error", "internal")))
	assert.Equal(t, uint64(3), histogramCount(t, r.compileDuration))
	// Failed compiles keep the last good counts.
	assert.Equal(t, 3.0, gaugeValue(t, r.routes))
}

func TestObservePublish(t *testing.T) {
	r := New(WithRegistry(prometheus.NewRegistry()))

	r.ObservePublish(nil)
	r.ObservePublish(stderrors.New("denied"))
	r.ObservePublish(nil)

	assert.Equal(t, 2.0, counterValue(t, r.publishesTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, counterValue(t, r.publishesTotal.WithLabelValues("error")))
}

func TestDevClients(t *testing.T) {
	r := New(WithRegistry(prometheus.NewRegistry()))

	r.ClientConnected()
	r.ClientConnected()
	r.ClientDisconnected()
	assert.Equal(t, 1.0, gaugeValue(t, r.devClients))
}

func TestNamespaceAndLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(
		WithRegistry(reg),
		WithNamespace("app"),
		WithSubsystem("routes"),
		WithConstLabels(prometheus.Labels{"project": "demo"}),
		WithBuckets([]float64{1}),
	)
	r.ObserveCompile(time.Second, &router.RouteTable{}, nil)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			assert.Equal(t, "demo", labels["project"], f.GetName())
		}
	}
	assert.True(t, names["app_routes_compiles_total"])
	assert.True(t, names["app_routes_compile_duration_seconds"])
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveCompile(time.Second, nil, nil)
		r.ObservePublish(nil)
		r.ClientConnected()
		r.ClientDisconnected()
	})
}
