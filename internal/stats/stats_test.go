package stats

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocx-chess/enginecore/internal/circuitbreaker"
	"github.com/ocx-chess/enginecore/internal/enginepool"
	"github.com/ocx-chess/enginecore/internal/requestqueue"
	"github.com/ocx-chess/enginecore/internal/uciengine"
)

func TestHandleStatsReturnsPoolAndQueueSnapshots(t *testing.T) {
	engines := []*uciengine.Process{uciengine.New(0, uciengine.KindSuggestion, "")}
	pool := enginepool.NewPreloaded(uciengine.KindSuggestion, circuitbreaker.New(circuitbreaker.DefaultConfig("test")), engines)
	queue := requestqueue.New()

	srv := New(nil, map[string]*enginepool.Pool{"suggestion": pool}, map[string]*requestqueue.Queue{"suggestion": queue}, circuitbreaker.NewEnginePoolBreakers())

	req := httptest.NewRequest("GET", "/stats", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.Pools["suggestion"].Total)
	assert.Equal(t, 1, snap.Pools["suggestion"].Available)
	assert.Equal(t, 0, snap.Queues["suggestion"].Pending)
	assert.Equal(t, "HEALTHY", snap.BreakerHealth)
}

func TestHandleHealthzAlwaysOK(t *testing.T) {
	srv := New(nil, nil, nil, nil)
	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)
}

func TestHandleMetricsExposesPrometheusFormat(t *testing.T) {
	engines := []*uciengine.Process{uciengine.New(0, uciengine.KindSuggestion, "")}
	pool := enginepool.NewPreloaded(uciengine.KindSuggestion, circuitbreaker.New(circuitbreaker.DefaultConfig("test")), engines)
	srv := New(nil, map[string]*enginepool.Pool{"suggestion": pool}, nil, nil)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "enginecore_pool_total")
}
