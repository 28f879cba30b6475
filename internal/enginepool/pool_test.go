package enginepool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocx-chess/enginecore/internal/circuitbreaker"
	"github.com/ocx-chess/enginecore/internal/uciengine"
)

func newTestPool(n int) *Pool {
	engines := make([]*uciengine.Process, n)
	for i := 0; i < n; i++ {
		engines[i] = uciengine.New(i, uciengine.KindSuggestion, "")
	}
	return NewPreloaded(uciengine.KindSuggestion, circuitbreaker.New(circuitbreaker.DefaultConfig("test")), engines)
}

// Invariant 3: pool exclusivity — at most one caller ever holds a given
// engine at a time.
func TestAcquireReleaseExclusivity(t *testing.T) {
	p := newTestPool(1)
	ctx := context.Background()

	e1, err := p.Acquire(ctx)
	require.NoError(t, err)
	require.NotNil(t, e1)

	stats := p.Stats()
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 0, stats.Available)
	assert.Equal(t, 1, stats.Busy)

	acquired := make(chan *uciengine.Process, 1)
	go func() {
		e2, err := p.Acquire(ctx)
		require.NoError(t, err)
		acquired <- e2
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-acquired:
		t.Fatal("second acquire should block while the only engine is busy")
	default:
	}

	p.Release(e1)

	select {
	case e2 := <-acquired:
		assert.Same(t, e1, e2, "the released engine must transfer directly to the waiter")
	case <-time.After(time.Second):
		t.Fatal("waiter was never fulfilled after release")
	}
}

// Waiters are served in FIFO arrival order.
func TestAcquireWaitersFIFO(t *testing.T) {
	p := newTestPool(1)
	ctx := context.Background()

	held, err := p.Acquire(ctx)
	require.NoError(t, err)

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < 3; i++ {
		wg.Add(1)
		idx := i
		go func() {
			defer wg.Done()
			time.Sleep(time.Duration(idx) * 10 * time.Millisecond)
			e, err := p.Acquire(ctx)
			require.NoError(t, err)
			mu.Lock()
			order = append(order, idx)
			mu.Unlock()
			p.Release(e)
		}()
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(50 * time.Millisecond)
	p.Release(held)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestShutdownRefusesWaiters(t *testing.T) {
	p := newTestPool(1)
	ctx := context.Background()

	held, err := p.Acquire(ctx)
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, err := p.Acquire(ctx)
		errCh <- err
	}()
	time.Sleep(20 * time.Millisecond)

	p.Shutdown()
	_ = held

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrPoolShutdown)
	case <-time.After(time.Second):
		t.Fatal("waiter was never refused on shutdown")
	}

	_, err = p.Acquire(ctx)
	assert.ErrorIs(t, err, ErrPoolShutdown)
}

func TestRemoveDropsEngine(t *testing.T) {
	p := newTestPool(2)
	ctx := context.Background()

	e, err := p.Acquire(ctx)
	require.NoError(t, err)
	p.Remove(e)

	stats := p.Stats()
	assert.Equal(t, 1, stats.Total)
}
