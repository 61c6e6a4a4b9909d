package prom

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/nodetree/pkg/observability"
)

func gatherValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				sum += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				sum += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				sum += float64(m.GetHistogram().GetSampleCount())
			}
		}
		return sum
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OnRebuildComplete(ctx, "parametric", 7, 6, time.Millisecond, nil)
	m.OnRebuildComplete(ctx, "tree", 0, 0, time.Millisecond, errors.New("bad"))
	m.OnGestureComplete(ctx, "lasso", 2, time.Second)
	m.OnResponse(ctx, "GET", "/api/graph", 200, time.Millisecond)

	assert.Equal(t, 2.0, gatherValue(t, reg, "nodetree_rebuilds_total"))
	assert.Equal(t, 7.0, gatherValue(t, reg, "nodetree_graph_nodes"))
	assert.Equal(t, 6.0, gatherValue(t, reg, "nodetree_graph_connections"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "nodetree_selection_gestures_total"))
	assert.Equal(t, 1.0, gatherValue(t, reg, "nodetree_http_requests_total"))
}

func TestRegisterInstallsHooks(t *testing.T) {
	defer observability.Reset()
	m := New(prometheus.NewRegistry())
	m.Register()
	assert.Same(t, m, observability.Rebuild())
	assert.Same(t, m, observability.Selection())
	assert.Same(t, m, observability.HTTP())
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.OnGestureComplete(context.Background(), "window", 1, 0)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `nodetree_selection_gestures_total{mode="window"} 1`)
}
