package stats

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsExporter mirrors the JSON /stats snapshot as Prometheus gauges
// on a dedicated registry, so these metrics never collide with the
// default global registry's process/go collectors.
type metricsExporter struct {
	registry *prometheus.Registry

	poolTotal     *prometheus.GaugeVec
	poolAvailable *prometheus.GaugeVec
	poolBusy      *prometheus.GaugeVec
	poolWaiting   *prometheus.GaugeVec

	queuePending    *prometheus.GaugeVec
	queueProcessing *prometheus.GaugeVec

	connections         prometheus.Gauge
	authenticatedUsers  prometheus.Gauge
}

func newMetricsExporter() *metricsExporter {
	reg := prometheus.NewRegistry()

	m := &metricsExporter{
		registry: reg,
		poolTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "enginecore_pool_total", Help: "Engines currently in the pool.",
		}, []string{"kind"}),
		poolAvailable: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "enginecore_pool_available", Help: "Engines currently idle and acquirable.",
		}, []string{"kind"}),
		poolBusy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "enginecore_pool_busy", Help: "Engines currently running a search.",
		}, []string{"kind"}),
		poolWaiting: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "enginecore_pool_waiting", Help: "Dispatcher iterations blocked waiting for an engine.",
		}, []string{"kind"}),
		queuePending: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "enginecore_queue_pending", Help: "Requests waiting to be dequeued.",
		}, []string{"kind"}),
		queueProcessing: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "enginecore_queue_processing", Help: "Requests currently held by a Dispatcher iteration.",
		}, []string{"kind"}),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "enginecore_gateway_connections", Help: "Live WebSocket connections.",
		}),
		authenticatedUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "enginecore_gateway_authenticated_users", Help: "Connections past the auth handshake.",
		}),
	}

	reg.MustRegister(
		m.poolTotal, m.poolAvailable, m.poolBusy, m.poolWaiting,
		m.queuePending, m.queueProcessing,
		m.connections, m.authenticatedUsers,
	)
	return m
}

// observe pushes one JSON snapshot's values into the gauges. Called on
// every /stats read so /metrics never goes stale between scrapes.
func (m *metricsExporter) observe(snap Snapshot) {
	for kind, p := range snap.Pools {
		m.poolTotal.WithLabelValues(kind).Set(float64(p.Total))
		m.poolAvailable.WithLabelValues(kind).Set(float64(p.Available))
		m.poolBusy.WithLabelValues(kind).Set(float64(p.Busy))
		m.poolWaiting.WithLabelValues(kind).Set(float64(p.Waiting))
	}
	for kind, q := range snap.Queues {
		m.queuePending.WithLabelValues(kind).Set(float64(q.Pending))
		m.queueProcessing.WithLabelValues(kind).Set(float64(q.Processing))
	}
	m.connections.Set(float64(snap.Connections))
	m.authenticatedUsers.Set(float64(snap.AuthenticatedUsers))
}

func (m *metricsExporter) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
