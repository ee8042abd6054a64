package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superstream-live/streamrelay/pkg/config"
)

// streamServer is a minimal downstream endpoint that collects received
// envelopes.
type streamServer struct {
	server    *httptest.Server
	envelopes chan Envelope
}

func newStreamServer(t *testing.T) *streamServer {
	t.Helper()

	s := &streamServer{envelopes: make(chan Envelope, 16)}
	upgrader := websocket.Upgrader{}

	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var env Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			s.envelopes <- env
		}
	}))
	t.Cleanup(s.server.Close)

	return s
}

func (s *streamServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.server.URL, "http")
}

func TestEmitter_ConnectAndPublish(t *testing.T) {
	srv := newStreamServer(t)

	emitter := NewEmitter(config.RelayConfig{Endpoint: srv.wsURL(), ReconnectAttempts: 1})
	defer emitter.Close()

	require.NoError(t, emitter.Connect(context.Background()))
	assert.True(t, emitter.IsConnected())

	emitter.Publish(EventNameMessage, map[string]string{"text": "hello"})

	select {
	case env := <-srv.envelopes:
		assert.Equal(t, EventNameMessage, env.Event)
		data, ok := env.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "hello", data["text"])
	case <-time.After(2 * time.Second):
		t.Fatal("downstream never received the event")
	}
}

func TestEmitter_PublishWhileDisconnected(t *testing.T) {
	emitter := NewEmitter(config.RelayConfig{Endpoint: "ws://127.0.0.1:1/stream", ReconnectAttempts: 1})
	defer emitter.Close()

	// Never connected: publishes are dropped without panicking or blocking.
	emitter.Publish(EventNameMessage, map[string]string{"text": "dropped"})
	assert.False(t, emitter.IsConnected())
}

func TestEmitter_ConnectGivesUpAfterAttempts(t *testing.T) {
	emitter := NewEmitter(config.RelayConfig{
		Endpoint:          "ws://127.0.0.1:1/stream",
		ReconnectAttempts: 1,
		DialTimeoutSecs:   1,
	})
	defer emitter.Close()

	err := emitter.Connect(context.Background())
	require.Error(t, err)
	assert.False(t, emitter.IsConnected())
}

func TestEmitter_ConnectHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	emitter := NewEmitter(config.RelayConfig{
		Endpoint:          "ws://127.0.0.1:1/stream",
		ReconnectAttempts: 3,
		DialTimeoutSecs:   1,
	})
	defer emitter.Close()

	err := emitter.Connect(ctx)
	assert.Error(t, err)
}

func TestEmitter_DefaultAttempts(t *testing.T) {
	emitter := NewEmitter(config.RelayConfig{Endpoint: "ws://example.com/stream"})
	assert.Equal(t, 5, emitter.attempts)
	assert.Equal(t, 10*time.Second, emitter.dialTimeout)
}

func TestEmitter_PublishAfterClose(t *testing.T) {
	srv := newStreamServer(t)

	emitter := NewEmitter(config.RelayConfig{Endpoint: srv.wsURL(), ReconnectAttempts: 1})
	require.NoError(t, emitter.Connect(context.Background()))

	emitter.Close()
	assert.False(t, emitter.IsConnected())
	emitter.Publish(EventNameMessage, map[string]string{"text": "late"})
}
