// Package relay owns the outbound realtime stream: a long-lived websocket
// to the downstream consumer and the pipeline loop that feeds it.
package relay

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/superstream-live/streamrelay/pkg/config"
	"github.com/superstream-live/streamrelay/pkg/logger"
)

// Logical event names on the outbound stream.
const (
	EventNameMessage  = "message"
	EventNameReaction = "reaction"
)

// Publisher is the fire-and-forget push the pipeline emits on. Failed sends
// are logged and dropped, never surfaced to the chat-handling path.
type Publisher interface {
	Publish(event string, payload any)
}

// Envelope is the wire frame for one outbound event.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Emitter maintains one websocket connection per process. Reconnection is
// bounded by config; while disconnected, published events are dropped.
type Emitter struct {
	endpoint    string
	attempts    int
	dialTimeout time.Duration
	dialer      *websocket.Dialer

	mu           sync.Mutex // serializes writes and conn swaps
	conn         *websocket.Conn
	connected    atomic.Bool
	reconnecting atomic.Bool
	closed       atomic.Bool
}

func NewEmitter(cfg config.RelayConfig) *Emitter {
	attempts := cfg.ReconnectAttempts
	if attempts <= 0 {
		attempts = 5
	}
	dialTimeout := time.Duration(cfg.DialTimeoutSecs) * time.Second
	if dialTimeout <= 0 {
		dialTimeout = 10 * time.Second
	}

	return &Emitter{
		endpoint:    cfg.Endpoint,
		attempts:    attempts,
		dialTimeout: dialTimeout,
		dialer:      websocket.DefaultDialer,
	}
}

// Connect dials the downstream endpoint, retrying up to the configured
// attempt count with doubling backoff.
func (e *Emitter) Connect(ctx context.Context) error {
	var lastErr error
	backoff := time.Second

	for attempt := 1; attempt <= e.attempts; attempt++ {
		dialCtx, cancel := context.WithTimeout(ctx, e.dialTimeout)
		conn, _, err := e.dialer.DialContext(dialCtx, e.endpoint, nil)
		cancel()
		if err == nil {
			e.mu.Lock()
			e.conn = conn
			e.mu.Unlock()
			e.connected.Store(true)
			logger.InfoCF("relay", "Connected to stream", map[string]any{"endpoint": e.endpoint})
			return nil
		}

		lastErr = err
		logger.WarnCF("relay", "Connection attempt failed", map[string]any{
			"attempt": attempt,
			"error":   err.Error(),
		})

		if attempt == e.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}

	return fmt.Errorf("connect %s: %w", e.endpoint, lastErr)
}

// IsConnected reports whether the outbound channel is currently usable.
func (e *Emitter) IsConnected() bool {
	return e.connected.Load()
}

// Publish pushes one event downstream. It never blocks on acknowledgement
// and never returns an error: a send onto a disconnected channel is dropped
// with a log line, and a failed write marks the connection down and kicks
// off a background reconnect.
func (e *Emitter) Publish(event string, payload any) {
	if !e.connected.Load() {
		logger.WarnCF("relay", "Stream disconnected, dropping event", map[string]any{"event": event})
		return
	}

	e.mu.Lock()
	conn := e.conn
	var err error
	if conn != nil {
		err = conn.WriteJSON(Envelope{Event: event, Data: payload})
	}
	e.mu.Unlock()

	if err != nil {
		e.connected.Store(false)
		logger.ErrorCF("relay", "Write failed, dropping event", map[string]any{
			"event": event,
			"error": err.Error(),
		})
		go e.reconnect()
	}
}

// reconnect re-dials in the background after a broken write. At most one
// reconnect runs at a time; further failures leave the emitter disconnected
// and events keep getting dropped rather than crashing the relay.
func (e *Emitter) reconnect() {
	if e.closed.Load() || !e.reconnecting.CompareAndSwap(false, true) {
		return
	}
	defer e.reconnecting.Store(false)

	if err := e.Connect(context.Background()); err != nil {
		logger.ErrorCF("relay", "Reconnect gave up", map[string]any{"error": err.Error()})
	}
}

// Close tears down the connection. Publishes after Close are dropped.
func (e *Emitter) Close() {
	e.closed.Store(true)
	e.connected.Store(false)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.conn != nil {
		_ = e.conn.Close()
		e.conn = nil
	}
}
