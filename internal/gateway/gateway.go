// Package gateway terminates WebSocket connections, runs the auth
// handshake, enforces heartbeat liveness, and routes authenticated
// frames to the core's handlers.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ocx-chess/enginecore/internal/authclient"
)

const (
	defaultAuthTimeout     = 10 * time.Second
	defaultHeartbeatPeriod = 30 * time.Second
	writeWait              = 10 * time.Second
	pongWaitMargin         = 10 * time.Second
)

// Close codes for auth failures (§6 of the wire protocol).
const (
	CloseAuthTimeout     = 4001
	CloseNoToken         = 4002
	CloseInvalidToken    = 4003
)

// Handler processes one routed message type against an authenticated
// client. Handle is called on the connection's read goroutine, so it is
// expected to validate synchronously and enqueue a work item, never to
// block on an engine itself; the engine work runs on the Dispatcher.
type Handler interface {
	Handle(raw json.RawMessage, client *Client)
}

// Canceler is satisfied by internal/requestqueue.Queue; the Gateway
// depends on this narrow interface instead of importing requestqueue
// directly, so a connection's disconnect cleanup can reach every
// registered queue without the gateway package knowing their concrete
// type.
type Canceler interface {
	CancelForUser(userID string)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     buildCheckOrigin(),
}

// buildCheckOrigin allows every origin in development and restricts to
// an explicit allowlist when ENGINECORE_ENV=production.
func buildCheckOrigin() func(r *http.Request) bool {
	env := os.Getenv("ENGINECORE_ENV")
	allowedRaw := os.Getenv("ENGINECORE_ALLOWED_ORIGINS")

	if env == "production" && allowedRaw != "" {
		allowed := make(map[string]bool)
		for _, origin := range strings.Split(allowedRaw, ",") {
			allowed[strings.TrimSpace(origin)] = true
		}
		return func(r *http.Request) bool {
			return allowed[r.Header.Get("Origin")]
		}
	}
	return func(r *http.Request) bool { return true }
}

// Gateway owns every live Client connection.
type Gateway struct {
	verifier  authclient.Verifier
	handlers  map[string]Handler
	cancelers []Canceler

	authTimeout     time.Duration
	heartbeatPeriod time.Duration

	mu      sync.Mutex
	clients map[*Client]struct{}

	log *slog.Logger
}

// New constructs a Gateway with the default 10s auth timeout and 30s
// heartbeat period. handlers maps a frame's "type" discriminator (e.g.
// "suggestion", "analyze") to the Handler that processes it. cancelers
// receives every connection's disconnect cleanup call.
func New(verifier authclient.Verifier, handlers map[string]Handler, cancelers []Canceler) *Gateway {
	return NewWithTimeouts(verifier, handlers, cancelers, defaultAuthTimeout, defaultHeartbeatPeriod)
}

// NewWithTimeouts is New with explicit auth/heartbeat timing, for
// Config-driven wiring in cmd/gateway and for tests that need faster
// heartbeat cycles than production.
func NewWithTimeouts(verifier authclient.Verifier, handlers map[string]Handler, cancelers []Canceler, authTimeout, heartbeatPeriod time.Duration) *Gateway {
	return &Gateway{
		verifier:        verifier,
		handlers:        handlers,
		cancelers:       cancelers,
		authTimeout:     authTimeout,
		heartbeatPeriod: heartbeatPeriod,
		clients:         make(map[*Client]struct{}),
		log:             slog.Default().With("component", "gateway"),
	}
}

// ServeHTTP upgrades the connection and runs its lifecycle to
// completion. Implements http.Handler so it can be mounted directly on
// a mux route.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := newClient(conn)
	g.register(client)
	defer g.unregister(client)

	go g.writePump(client)

	if !g.authenticate(client) {
		return
	}

	g.readPump(client)
}

func (g *Gateway) register(c *Client) {
	g.mu.Lock()
	g.clients[c] = struct{}{}
	g.mu.Unlock()
}

func (g *Gateway) unregister(c *Client) {
	g.mu.Lock()
	delete(g.clients, c)
	g.mu.Unlock()

	c.setState(StateClosed)
	close(c.send)
	c.conn.Close()

	if c.UserID != "" {
		for _, canceler := range g.cancelers {
			canceler.CancelForUser(c.UserID)
		}
	}
}

// ConnectionCount returns the number of live connections, for the stats
// endpoint.
func (g *Gateway) ConnectionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.clients)
}

// AuthenticatedCount returns the number of connections past the auth
// handshake.
func (g *Gateway) AuthenticatedCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for c := range g.clients {
		if c.State() == StateAuthenticated {
			n++
		}
	}
	return n
}

func (g *Gateway) authenticate(client *Client) bool {
	client.conn.SetReadDeadline(time.Now().Add(g.authTimeout))

	_, payload, err := client.conn.ReadMessage()
	if err != nil {
		client.conn.Close()
		return false
	}

	var msg AuthMessage
	if err := json.Unmarshal(payload, &msg); err != nil || msg.Type != "auth" {
		client.Send(errorFrame("auth_error", "first frame must be {type:\"auth\",token}"))
		g.closeWithCode(client, CloseNoToken, "expected auth frame")
		return false
	}
	if msg.Token == "" {
		g.closeWithCode(client, CloseNoToken, "missing token")
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.authTimeout)
	defer cancel()

	identity, err := g.verifier.VerifyToken(ctx, msg.Token)
	if err != nil {
		g.closeWithCode(client, CloseInvalidToken, "invalid token")
		return false
	}

	client.authenticate(identity.ID, identity.Email)
	client.conn.SetReadDeadline(time.Time{})
	client.Send(authSuccess(OutboundUser{ID: identity.ID, Email: identity.Email}))
	return true
}

func (g *Gateway) closeWithCode(client *Client, code int, reason string) {
	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(code, reason)
	client.conn.WriteControl(websocket.CloseMessage, msg, deadline)
	client.conn.Close()
}

func (g *Gateway) readPump(client *Client) {
	pongWait := g.heartbeatPeriod + pongWaitMargin
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.markAlive()
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	go g.heartbeat(client, done)
	defer close(done)

	for {
		_, payload, err := client.conn.ReadMessage()
		if err != nil {
			return
		}
		g.route(payload, client)
	}
}

func (g *Gateway) route(payload []byte, client *Client) {
	var env InboundEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		client.Send(errorFrame("error", "malformed json"))
		return
	}

	handler, ok := g.handlers[env.Type]
	if !ok {
		client.Send(errorFrame("error", "unknown message type: "+env.Type))
		return
	}
	handler.Handle(payload, client)
}

func (g *Gateway) heartbeat(client *Client, done <-chan struct{}) {
	ticker := time.NewTicker(g.heartbeatPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !client.checkAndClearAlive() {
				client.conn.Close()
				return
			}
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (g *Gateway) writePump(client *Client) {
	for frame := range client.send {
		client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}
