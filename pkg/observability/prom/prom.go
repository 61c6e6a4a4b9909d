// Package prom implements the observability hooks with Prometheus collectors.
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/nodetree/pkg/observability"
)

const namespace = "nodetree"

// Metrics records rebuild, selection and HTTP events.
type Metrics struct {
	rebuilds        *prometheus.CounterVec
	rebuildDuration *prometheus.HistogramVec
	graphNodes      prometheus.Gauge
	graphConns      prometheus.Gauge

	gestures    *prometheus.CounterVec
	gestureHits *prometheus.HistogramVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// It panics if a collector is already registered, like prometheus.MustRegister.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebuilds_total",
			Help:      "Graph rebuilds by layout mode and outcome.",
		}, []string{"mode", "outcome"}),
		rebuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rebuild_duration_seconds",
			Help:      "Time to tear down and rebuild the graph.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"mode"}),
		graphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes in the graph after the last rebuild.",
		}),
		graphConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_connections",
			Help:      "Connections in the graph after the last rebuild.",
		}),
		gestures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_gestures_total",
			Help:      "Completed selection gestures by mode.",
		}, []string{"mode"}),
		gestureHits: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "selection_gesture_hits",
			Help:      "Nodes hit per selection gesture.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}, []string{"mode"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.rebuilds, m.rebuildDuration, m.graphNodes, m.graphConns,
		m.gestures, m.gestureHits,
		m.requests, m.requestDuration,
	)
	return m
}

// Register installs m as the global rebuild, selection and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetRebuildHooks(m)
	observability.SetSelectionHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) OnRebuildStart(context.Context, string) {}

func (m *Metrics) OnRebuildComplete(_ context.Context, mode string, nodes, conns int, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.rebuilds.WithLabelValues(mode, outcome).Inc()
	m.rebuildDuration.WithLabelValues(mode).Observe(d.Seconds())
	if err == nil {
		m.graphNodes.Set(float64(nodes))
		m.graphConns.Set(float64(conns))
	}
}

func (m *Metrics) OnGestureComplete(_ context.Context, mode string, hits int, _ time.Duration) {
	m.gestures.WithLabelValues(mode).Inc()
	m.gestureHits.WithLabelValues(mode).Observe(float64(hits))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.RebuildHooks   = (*Metrics)(nil)
	_ observability.SelectionHooks = (*Metrics)(nil)
	_ observability.HTTPHooks      = (*Metrics)(nil)
)
