package gateway

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ConnState is the lifecycle state of a Client connection.
type ConnState int

const (
	StateAwaitingAuth ConnState = iota
	StateAuthenticated
	StateClosed
)

// Client is the Gateway's exclusively-owned handle on one WebSocket
// connection. Handlers receive a *Client but must treat it as a weak
// reference: call IsOpen before sending.
type Client struct {
	ID     uuid.UUID
	UserID string
	Email  string

	conn *websocket.Conn

	mu    sync.Mutex
	state ConnState
	alive atomic.Bool

	send chan []byte
}

func newClient(conn *websocket.Conn) *Client {
	c := &Client{
		ID:    uuid.New(),
		conn:  conn,
		state: StateAwaitingAuth,
		send:  make(chan []byte, 32),
	}
	c.alive.Store(true)
	return c
}

// State returns the connection's current lifecycle state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s ConnState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Client) authenticate(userID, email string) {
	c.mu.Lock()
	c.UserID = userID
	c.Email = email
	c.state = StateAuthenticated
	c.mu.Unlock()
}

// IsOpen reports whether the connection can still receive frames.
// Handlers must check this immediately before writing a response.
func (c *Client) IsOpen() bool {
	return c.State() != StateClosed
}

// markAlive flips the heartbeat liveness flag to true, called whenever a
// pong frame arrives.
func (c *Client) markAlive() {
	c.alive.Store(true)
}

// checkAndClearAlive returns the current liveness flag, then clears it —
// called once per heartbeat tick before sending the next ping.
func (c *Client) checkAndClearAlive() bool {
	return c.alive.Swap(false)
}

// Send enqueues a frame for the write pump. Non-blocking: if the send
// buffer is full the frame is dropped rather than stalling the
// Dispatcher that produced it (Transient error kind).
func (c *Client) Send(frame []byte) {
	if !c.IsOpen() {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}
