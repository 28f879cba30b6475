// Package enginepool keeps a fixed-size set of ready uciengine.Process
// instances of one kind, hands them out exclusively, and queues callers
// in FIFO order when none are free.
package enginepool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ocx-chess/enginecore/internal/circuitbreaker"
	"github.com/ocx-chess/enginecore/internal/uciengine"
)

var (
	ErrPoolShutdown = errors.New("enginepool: pool is shut down")
	ErrInitFailed   = errors.New("enginepool: one or more engines failed to start")
)

// Stats is a point-in-time snapshot of pool occupancy.
type Stats struct {
	Total     int
	Available int
	Busy      int
	Waiting   int
}

// waiter is a one-shot continuation for a blocked Acquire call.
type waiter struct {
	ch chan *uciengine.Process
}

// Pool owns N uciengine.Process instances of a single Kind.
type Pool struct {
	kind    uciengine.Kind
	size    int
	path    string
	breaker *circuitbreaker.CircuitBreaker

	mu       sync.Mutex
	engines  []*uciengine.Process
	busy     map[*uciengine.Process]bool
	waiters  []waiter
	shutdown bool

	ctx    context.Context
	cancel context.CancelFunc

	log *slog.Logger
}

// New constructs a pool for the given kind; call Init to spawn engines.
func New(kind uciengine.Kind, size int, binaryPath string, breaker *circuitbreaker.CircuitBreaker) *Pool {
	return &Pool{
		kind:    kind,
		size:    size,
		path:    binaryPath,
		breaker: breaker,
		busy:    make(map[*uciengine.Process]bool),
		log:     slog.Default().With("pool", kind.String()),
	}
}

// NewPreloaded builds a pool around already-constructed engines, skipping
// the spawn-and-handshake step Init performs. Production wiring has no
// use for this (engines always come from Init); it exists so tests in
// this package and in internal/requestqueue can exercise Acquire/
// Release/Shutdown against pool slots without spawning real
// subprocesses.
func NewPreloaded(kind uciengine.Kind, breaker *circuitbreaker.CircuitBreaker, engines []*uciengine.Process) *Pool {
	return &Pool{
		kind:    kind,
		size:    len(engines),
		breaker: breaker,
		engines: engines,
		busy:    make(map[*uciengine.Process]bool),
		log:     slog.Default().With("pool", kind.String()),
	}
}

// Init starts all N engines in parallel and waits for every one to
// become ready. If any fails, the whole pool fails — engines that did
// start are stopped before returning.
func (p *Pool) Init(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	type result struct {
		proc *uciengine.Process
		err  error
	}
	results := make(chan result, p.size)

	for i := 0; i < p.size; i++ {
		id := i
		go func() {
			proc := uciengine.New(id, p.kind, p.path)
			_, err := circuitbreaker.ExecuteWithFallback(p.breaker,
				func() (interface{}, error) { return nil, proc.Start(p.ctx) },
				func(breakerErr error) (interface{}, error) { return nil, breakerErr },
			)
			results <- result{proc: proc, err: err}
		}()
	}

	engines := make([]*uciengine.Process, 0, p.size)
	var firstErr error
	for i := 0; i < p.size; i++ {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		engines = append(engines, r.proc)
	}

	if firstErr != nil {
		for _, e := range engines {
			e.Stop()
		}
		return fmt.Errorf("%w: %v", ErrInitFailed, firstErr)
	}

	p.mu.Lock()
	p.engines = engines
	p.mu.Unlock()

	p.log.Info("engine pool initialized", "size", p.size)
	return nil
}

// Acquire blocks until an engine is available, the pool shuts down, or
// ctx is cancelled.
func (p *Pool) Acquire(ctx context.Context) (*uciengine.Process, error) {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return nil, ErrPoolShutdown
	}
	for _, e := range p.engines {
		if !p.busy[e] {
			p.busy[e] = true
			p.mu.Unlock()
			return e, nil
		}
	}
	w := waiter{ch: make(chan *uciengine.Process, 1)}
	p.waiters = append(p.waiters, w)
	p.mu.Unlock()

	select {
	case e := <-w.ch:
		if e == nil {
			return nil, ErrPoolShutdown
		}
		return e, nil
	case <-ctx.Done():
		p.removeWaiter(w)
		return nil, ctx.Err()
	}
}

// Release marks engine free. If a waiter is queued, ownership transfers
// directly to it — the engine is never observably idle while a waiter
// exists.
func (p *Pool) Release(e *uciengine.Process) {
	p.mu.Lock()
	if len(p.waiters) > 0 {
		next := p.waiters[0]
		p.waiters = p.waiters[1:]
		p.mu.Unlock()
		next.ch <- e
		return
	}
	delete(p.busy, e)
	p.mu.Unlock()
}

// Remove drops a dead engine from the pool entirely (EngineDied). The
// pool is not auto-replenished.
func (p *Pool) Remove(e *uciengine.Process) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.busy, e)
	for i, existing := range p.engines {
		if existing == e {
			p.engines = append(p.engines[:i], p.engines[i+1:]...)
			break
		}
	}
}

// Stats returns a best-effort snapshot of pool occupancy.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := len(p.engines)
	busy := 0
	for _, e := range p.engines {
		if p.busy[e] {
			busy++
		}
	}
	return Stats{
		Total:     total,
		Available: total - busy,
		Busy:      busy,
		Waiting:   len(p.waiters),
	}
}

// Shutdown refuses all queued waiters and stops every engine.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	p.shutdown = true
	waiters := p.waiters
	p.waiters = nil
	engines := p.engines
	p.mu.Unlock()

	for _, w := range waiters {
		w.ch <- nil
	}
	for _, e := range engines {
		e.Stop()
	}
	if p.cancel != nil {
		p.cancel()
	}
}

func (p *Pool) removeWaiter(target waiter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, w := range p.waiters {
		if w.ch == target.ch {
			p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
			return
		}
	}
}
