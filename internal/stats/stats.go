// Package stats exposes read-only JSON and Prometheus snapshots of the
// live Gateway, Pool, and Queue state for operators (§4.8).
package stats

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ocx-chess/enginecore/internal/circuitbreaker"
	"github.com/ocx-chess/enginecore/internal/enginepool"
	"github.com/ocx-chess/enginecore/internal/requestqueue"
)

// ConnectionCounter is the narrow slice of gateway.Gateway the stats
// server reads — kept as an interface so this package doesn't import
// gateway.
type ConnectionCounter interface {
	ConnectionCount() int
	AuthenticatedCount() int
}

// PoolSnapshot is the §4.8 per-pool shape.
type PoolSnapshot struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Busy      int `json:"busy"`
	Waiting   int `json:"waiting"`
}

// QueueSnapshot is the §4.8 per-queue shape.
type QueueSnapshot struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
}

// Snapshot is the full GET /stats payload.
type Snapshot struct {
	Connections        int                      `json:"connections"`
	AuthenticatedUsers int                      `json:"authenticatedUsers"`
	Pools              map[string]PoolSnapshot  `json:"pools"`
	Queues             map[string]QueueSnapshot `json:"queues"`
	BreakerHealth      string                   `json:"breakerHealth,omitempty"`
	Breakers           map[string]string        `json:"breakers,omitempty"`
}

// Server owns the named pools/queues this deployment runs and answers
// /stats, /metrics, /healthz.
type Server struct {
	gateway  ConnectionCounter
	pools    map[string]*enginepool.Pool
	queues   map[string]*requestqueue.Queue
	breakers *circuitbreaker.EnginePoolBreakers

	metrics *metricsExporter
}

// New constructs a stats Server. pools and queues are keyed by the same
// names used in log lines elsewhere ("suggestion", "analysis"). breakers
// may be nil, in which case the snapshot omits breaker health.
func New(gw ConnectionCounter, pools map[string]*enginepool.Pool, queues map[string]*requestqueue.Queue, breakers *circuitbreaker.EnginePoolBreakers) *Server {
	return &Server{
		gateway:  gw,
		pools:    pools,
		queues:   queues,
		breakers: breakers,
		metrics:  newMetricsExporter(),
	}
}

// Router builds the read-only HTTP surface (§4.8 + ambient /metrics,
// /healthz).
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.handleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	return r
}

func (s *Server) snapshot() Snapshot {
	pools := make(map[string]PoolSnapshot, len(s.pools))
	for name, p := range s.pools {
		st := p.Stats()
		pools[name] = PoolSnapshot{Total: st.Total, Available: st.Available, Busy: st.Busy, Waiting: st.Waiting}
	}
	queues := make(map[string]QueueSnapshot, len(s.queues))
	for name, q := range s.queues {
		st := q.Stats()
		queues[name] = QueueSnapshot{Pending: st.Pending, Processing: st.Processing}
	}

	snap := Snapshot{Pools: pools, Queues: queues}
	if s.gateway != nil {
		snap.Connections = s.gateway.ConnectionCount()
		snap.AuthenticatedUsers = s.gateway.AuthenticatedCount()
	}
	if s.breakers != nil {
		snap.BreakerHealth, snap.Breakers = s.breakers.HealthStatus()
	}
	return snap
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	s.metrics.observe(snap)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

// handleMetrics re-observes the current snapshot before every scrape so
// values never lag behind a /stats read that nobody made.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.metrics.observe(s.snapshot())
	s.metrics.handler().ServeHTTP(w, r)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
