// Package shutdown implements the graceful termination sequence: stop
// accepting new connections, cancel the shared context every Dispatcher
// and heartbeat loop selects on, shut down every Engine Pool, then wait
// briefly for in-flight dispatcher iterations to drain.
package shutdown

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Pool is the slice of enginepool.Pool the Coordinator needs.
type Pool interface {
	Shutdown()
}

// Coordinator owns the HTTP servers, the shared cancellation context,
// and the pools that must be drained on shutdown.
type Coordinator struct {
	servers     []*http.Server
	pools       []Pool
	cancel      context.CancelFunc
	dispatchers *sync.WaitGroup
	timeout     time.Duration
	log         *slog.Logger
}

// New constructs a Coordinator. cancel is the CancelFunc for the shared
// context every Dispatcher and heartbeat loop selects on; dispatchers is
// a WaitGroup the caller Add(1)'d once per running Dispatcher.Run
// goroutine and Done()'d when it returns; timeout bounds server shutdown
// and the post-pool-shutdown drain wait.
func New(servers []*http.Server, pools []Pool, cancel context.CancelFunc, dispatchers *sync.WaitGroup, timeout time.Duration) *Coordinator {
	return &Coordinator{servers: servers, pools: pools, cancel: cancel, dispatchers: dispatchers, timeout: timeout, log: slog.Default()}
}

// Run blocks until ctx is cancelled (typically by a signal handler),
// then executes the shutdown sequence (§5.4): stop HTTP servers, cancel
// the shared context, shut down every pool, bound-wait for dispatcher
// goroutines to drain.
func (c *Coordinator) Run(ctx context.Context) {
	<-ctx.Done()
	c.log.Info("shutdown signal received, draining")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	for _, srv := range c.servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			c.log.Error("http server shutdown error", "addr", srv.Addr, "error", err)
		}
	}

	c.cancel()

	for _, p := range c.pools {
		p.Shutdown()
	}

	if c.dispatchers != nil {
		drained := make(chan struct{})
		go func() {
			c.dispatchers.Wait()
			close(drained)
		}()
		select {
		case <-drained:
		case <-time.After(c.timeout):
			c.log.Warn("dispatcher drain timed out, proceeding with exit")
		}
	}

	c.log.Info("shutdown complete")
}
