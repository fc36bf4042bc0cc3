package loggical

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketTransportOptions configures a WebSocketTransport.
type WebSocketTransportOptions struct {
	TransportOptions

	// Header is sent with the dial request (auth tokens and the like).
	Header http.Header

	// Dialer overrides the default dialer.
	Dialer *websocket.Dialer
}

// WebSocketTransport streams formatted lines to a WebSocket endpoint as
// text messages. Writes are serialized by a mutex; the connection performs
// its own buffering, so a slow peer slows this transport only; the
// logger's isolation keeps other transports unaffected.
type WebSocketTransport struct {
	TransportOptions

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	writes uint64
	errs   uint64
}

// NewWebSocketTransport dials the endpoint at construction. A failed dial
// is a configuration error and is returned immediately.
func NewWebSocketTransport(url string, opts WebSocketTransportOptions) (*WebSocketTransport, error) {
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.Dial(url, opts.Header)
	if err != nil {
		return nil, fmt.Errorf("loggical: websocket dial %s: %w", url, err)
	}
	return &WebSocketTransport{
		TransportOptions: opts.TransportOptions,
		conn:             conn,
	}, nil
}

// Write sends the formatted line as one text message.
func (t *WebSocketTransport) Write(message string, md *Metadata) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return errors.New("loggical: websocket transport closed")
	}
	if err := t.conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
		t.errs++
		return err
	}
	t.writes++
	return nil
}

// Configure replaces the transport's gating options.
func (t *WebSocketTransport) Configure(opts TransportOptions) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.TransportOptions = opts
}

// Close sends a close frame and tears down the connection. No re-open.
func (t *WebSocketTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = t.conn.WriteMessage(websocket.CloseMessage, msg)
	return t.conn.Close()
}

func (t *WebSocketTransport) Name() string { return "websocket" }

func (t *WebSocketTransport) Status() TransportStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TransportStatus{
		Name:   "websocket",
		Writes: t.writes,
		Errors: t.errs,
		Closed: t.closed,
	}
}
