// Package requestqueue serializes per-kind requests into a fair FIFO,
// collapsing stale requests from the same user (supersede) and ensuring
// a user with a request already in flight never blocks other users.
package requestqueue

import (
	"errors"
	"sync"
)

var ErrSuperseded = errors.New("requestqueue: request superseded")

// Status is the lifecycle state of a Request.
type Status int

const (
	StatusPending Status = iota
	StatusProcessing
	StatusDone
	StatusSuperseded
	StatusCancelled
)

// Request is one unit of work. Process runs against the engine the
// Dispatcher acquired for this iteration (an *uciengine.Process, passed
// as interface{} to keep this package engine-agnostic); Callback
// delivers the result (or error) back to the client. IsOpen reports
// whether the originating connection can still receive a response —
// checked immediately before Callback (Process runs regardless).
type Request struct {
	ID     string
	UserID string

	Process  func(engine interface{}) (interface{}, error)
	Callback func(result interface{}, err error)
	IsOpen   func() bool

	mu     sync.Mutex
	status Status
}

func (r *Request) setStatus(s Status) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

// Status returns the request's current lifecycle status.
func (r *Request) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Queue holds Pending requests in arrival order, the set of user ids
// currently Processing, and the most recently enqueued request per user
// (for Valid).
type Queue struct {
	mu         sync.Mutex
	pending    []*Request
	processing map[string]bool
	lastByUser map[string]*Request
}

// New constructs an empty queue.
func New() *Queue {
	return &Queue{processing: make(map[string]bool), lastByUser: make(map[string]*Request)}
}

// Enqueue appends req, first superseding (silently dropping, no
// callback) any still-Pending request from the same user, then records
// req as that user's latest request — including when an older request
// from the same user is already Processing, so Valid invalidates it.
func (q *Queue) Enqueue(req *Request) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.pending[:0:0]
	for _, existing := range q.pending {
		if existing.UserID == req.UserID {
			existing.setStatus(StatusSuperseded)
			continue
		}
		kept = append(kept, existing)
	}
	req.setStatus(StatusPending)
	q.pending = append(kept, req)
	q.lastByUser[req.UserID] = req
}

// Dequeue picks the first Pending request whose user is not currently
// Processing; if every Pending user is already Processing, it falls back
// to the oldest Pending request regardless. Returns nil if the queue is
// empty.
func (q *Queue) Dequeue() *Request {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}

	idx := -1
	for i, req := range q.pending {
		if !q.processing[req.UserID] {
			idx = i
			break
		}
	}
	if idx == -1 {
		idx = 0
	}

	req := q.pending[idx]
	q.pending = append(q.pending[:idx], q.pending[idx+1:]...)
	q.processing[req.UserID] = true
	req.setStatus(StatusProcessing)
	return req
}

// MarkDone clears the Processing flag for req's user. Call after the
// Dispatcher iteration for req fully finishes (callback invoked or
// dropped).
func (q *Queue) MarkDone(req *Request) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.processing, req.UserID)
}

// Valid reports whether req is still the newest request enqueued for its
// user, Pending or Processing alike — i.e. no later Enqueue call has
// superseded it since it was dequeued — and has not been cancelled.
func (q *Queue) Valid(req *Request) bool {
	q.mu.Lock()
	latest := q.lastByUser[req.UserID]
	q.mu.Unlock()
	if latest != req {
		return false
	}
	return req.Status() != StatusCancelled
}

// CancelForUser removes every Pending request belonging to userID. Any
// already-Processing request is left to finish; its callback is
// responsible for checking IsOpen.
func (q *Queue) CancelForUser(userID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.pending[:0:0]
	for _, req := range q.pending {
		if req.UserID == userID {
			req.setStatus(StatusCancelled)
			continue
		}
		kept = append(kept, req)
	}
	q.pending = kept
}

// Snapshot is a point-in-time count of queue occupancy.
type Snapshot struct {
	Pending    int
	Processing int
}

// Stats returns a best-effort consistent snapshot.
func (q *Queue) Stats() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Snapshot{Pending: len(q.pending), Processing: len(q.processing)}
}
