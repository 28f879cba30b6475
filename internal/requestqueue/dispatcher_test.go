package requestqueue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocx-chess/enginecore/internal/circuitbreaker"
	"github.com/ocx-chess/enginecore/internal/enginepool"
	"github.com/ocx-chess/enginecore/internal/uciengine"
)

func newTestDispatcher(t *testing.T, poolSize int) (*Queue, *Dispatcher) {
	t.Helper()
	engines := make([]*uciengine.Process, poolSize)
	for i := range engines {
		engines[i] = uciengine.New(i, uciengine.KindSuggestion, "")
	}
	pool := enginepool.NewPreloaded(uciengine.KindSuggestion, circuitbreaker.New(circuitbreaker.DefaultConfig("test")), engines)
	q := New()
	return q, NewDispatcher("test", q, pool)
}

func TestDispatcherDeliversResult(t *testing.T) {
	q, d := newTestDispatcher(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	done := make(chan struct{})
	var gotResult interface{}
	var gotErr error

	q.Enqueue(&Request{
		ID:     "r1",
		UserID: "u",
		Process: func(engine interface{}) (interface{}, error) {
			return "ok", nil
		},
		Callback: func(result interface{}, err error) {
			gotResult, gotErr = result, err
			close(done)
		},
		IsOpen: func() bool { return true },
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never invoked")
	}
	assert.Equal(t, "ok", gotResult)
	assert.NoError(t, gotErr)
}

// S6: disconnect cleanup. A Pending request for a user is cancelled; its
// callback must never fire.
func TestDispatcherSkipsCancelledPending(t *testing.T) {
	q, d := newTestDispatcher(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	called := false
	req := &Request{
		ID:     "r1",
		UserID: "u",
		Process: func(engine interface{}) (interface{}, error) {
			return "should not run", nil
		},
		Callback: func(result interface{}, err error) { called = true },
		IsOpen:   func() bool { return true },
	}
	q.Enqueue(req)
	q.CancelForUser("u")

	go d.Run(ctx)
	time.Sleep(100 * time.Millisecond)

	assert.False(t, called, "a cancelled Pending request must never invoke its callback")
}

// S6: a Processing request whose connection closes mid-flight completes
// but its callback observes IsOpen()==false and sends nothing.
func TestDispatcherSkipsCallbackWhenConnectionClosed(t *testing.T) {
	q, d := newTestDispatcher(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	open := true
	called := false
	q.Enqueue(&Request{
		ID:     "r1",
		UserID: "u",
		Process: func(engine interface{}) (interface{}, error) {
			open = false // connection closes while processing is in flight
			return "result", nil
		},
		Callback: func(result interface{}, err error) { called = true },
		IsOpen:   func() bool { return open },
	})

	go d.Run(ctx)
	time.Sleep(100 * time.Millisecond)

	assert.False(t, called)
}

func TestDispatcherReleasesEngineAfterProcess(t *testing.T) {
	q, d := newTestDispatcher(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	for i := 0; i < 3; i++ {
		done := make(chan struct{})
		q.Enqueue(&Request{
			ID:     "r",
			UserID: "u",
			Process: func(engine interface{}) (interface{}, error) {
				return nil, nil
			},
			Callback: func(result interface{}, err error) { close(done) },
			IsOpen:   func() bool { return true },
		})
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("iteration %d: engine was never released back to the pool", i)
		}
	}
}

func TestDispatcherStopsOnContextCancel(t *testing.T) {
	q, d := newTestDispatcher(t, 1)
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop after context cancellation")
	}
	_ = q
	require.NotNil(t, d)
}
