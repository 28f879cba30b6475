package requestqueue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ocx-chess/enginecore/internal/enginepool"
)

// emptyPollInterval is how long the Dispatcher sleeps between empty-queue
// polls before retrying Dequeue.
const emptyPollInterval = 25 * time.Millisecond

// Dispatcher runs one background loop per Queue: dequeue a fair request,
// acquire an engine from the matching pool, run the request's process
// closure, release the engine, then invoke the callback.
type Dispatcher struct {
	queue *Queue
	pool  *enginepool.Pool
	log   *slog.Logger
}

// NewDispatcher binds a Queue to the Pool its requests draw engines from.
func NewDispatcher(name string, queue *Queue, pool *enginepool.Pool) *Dispatcher {
	return &Dispatcher{queue: queue, pool: pool, log: slog.Default().With("dispatcher", name)}
}

// Run blocks, processing requests until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		req := d.queue.Dequeue()
		if req == nil {
			select {
			case <-time.After(emptyPollInterval):
			case <-ctx.Done():
				return
			}
			continue
		}

		d.runOne(ctx, req)
	}
}

func (d *Dispatcher) runOne(ctx context.Context, req *Request) {
	defer d.queue.MarkDone(req)

	engine, err := d.pool.Acquire(ctx)
	if err != nil {
		if errors.Is(err, enginepool.ErrPoolShutdown) {
			d.deliver(req, nil, err)
			return
		}
		return
	}

	if !d.queue.Valid(req) {
		d.pool.Release(engine)
		return
	}

	result, procErr := func() (result interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errRecovered(r)
			}
		}()
		return req.Process(engine)
	}()

	d.pool.Release(engine)

	if !d.queue.Valid(req) {
		return
	}
	d.deliver(req, result, procErr)
}

func (d *Dispatcher) deliver(req *Request, result interface{}, err error) {
	if req.IsOpen != nil && !req.IsOpen() {
		return
	}
	req.setStatus(StatusDone)
	req.Callback(result, err)
}

type recoveredErr struct{ v interface{} }

func (e recoveredErr) Error() string { return "requestqueue: process panicked" }

func errRecovered(v interface{}) error { return recoveredErr{v: v} }
