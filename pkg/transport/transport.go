// Package transport owns the single long-lived pub/sub connection to the
// coordinating server.
//
// A short-timeout liveness probe precedes every dial attempt, so an
// unreachable server degrades immediately to offline mode instead of hanging
// on the WebSocket handshake. After a transport-level drop the connection
// retries a fixed small number of times with a fixed delay, then settles
// into the Failed state for the remainder of the session.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/tutorlink/tutorsync/pkg/codec"
	"github.com/tutorlink/tutorsync/pkg/logger"
)

const (
	// DefaultProbeTimeout bounds the pre-flight liveness check.
	DefaultProbeTimeout = 2 * time.Second
	// DefaultRetryDelay is the fixed delay between reconnection attempts.
	DefaultRetryDelay = 2 * time.Second
	// DefaultMaxRetries caps reconnection attempts after a drop.
	DefaultMaxRetries = 3

	// CloseMessageCode identifies a normal close on teardown.
	CloseMessageCode = 1000
)

// Frame is the wire shape of every pub/sub message, in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Handler receives the raw payload of an inbound event.
type Handler func(data json.RawMessage)

// Config carries the transport collaborators and knobs.
type Config struct {
	// BaseURL is the http(s) endpoint of the coordinating server. The probe
	// hits GET <BaseURL>/ and the WebSocket dial targets <BaseURL>/ws with
	// the scheme switched to ws(s).
	BaseURL string

	Marshaler   codec.Marshaler
	Unmarshaler codec.Unmarshaler
	Logger      logger.Logger

	// ProbeTimeout bounds the liveness probe. Zero means DefaultProbeTimeout.
	ProbeTimeout time.Duration

	// Retryer is the reconnection policy. Nil means a FixedDelayRetryer with
	// DefaultRetryDelay and DefaultMaxRetries.
	Retryer Retryer

	// Dialer overrides the gorilla dialer, mainly for tests.
	Dialer *gorilla.Dialer
}

// Connection is the transport adapter. The zero value is not usable;
// construct with New.
type Connection struct {
	baseURL string
	wsURL   string

	marshaler   codec.Marshaler
	unmarshaler codec.Unmarshaler
	logger      logger.Logger

	probeTimeout time.Duration
	probeClient  *http.Client
	dialer       *gorilla.Dialer
	retryer      Retryer

	// connLock guards writes to the WebSocket connection, not the whole
	// connect/reconnect process, so senders fail fast while reconnecting.
	connLock sync.Mutex
	conn     *gorilla.Conn

	stateLock sync.RWMutex
	state     State

	handlersLock sync.RWMutex
	handlers     map[string][]Handler
	statusSubs   []func(connected bool)

	// closedCh is closed once on deliberate teardown, stopping the read and
	// reconnection loops.
	closedCh  chan struct{}
	closeOnce sync.Once
}

func New(conf *Config) *Connection {
	probeTimeout := conf.ProbeTimeout
	if probeTimeout == 0 {
		probeTimeout = DefaultProbeTimeout
	}
	retryer := conf.Retryer
	if retryer == nil {
		retryer = NewFixedDelayRetryer(DefaultRetryDelay, DefaultMaxRetries)
	}
	dialer := conf.Dialer
	if dialer == nil {
		dialer = &gorilla.Dialer{
			Proxy:             gorilla.DefaultDialer.Proxy,
			HandshakeTimeout:  gorilla.DefaultDialer.HandshakeTimeout,
			EnableCompression: true,
		}
	}

	return &Connection{
		baseURL:      strings.TrimSuffix(conf.BaseURL, "/"),
		wsURL:        wsEndpoint(conf.BaseURL),
		marshaler:    conf.Marshaler,
		unmarshaler:  conf.Unmarshaler,
		logger:       conf.Logger,
		probeTimeout: probeTimeout,
		probeClient:  &http.Client{Timeout: probeTimeout},
		dialer:       dialer,
		retryer:      retryer,
		handlers:     make(map[string][]Handler),
		closedCh:     make(chan struct{}),
		state:        StateUninitialized,
	}
}

func wsEndpoint(baseURL string) string {
	u := strings.TrimSuffix(baseURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/ws"
}

// State returns the current lifecycle state.
func (c *Connection) State() State {
	c.stateLock.RLock()
	defer c.stateLock.RUnlock()
	return c.state
}

// IsConnected reports whether events can currently be sent and received.
func (c *Connection) IsConnected() bool {
	return c.State() == StateConnected
}

func (c *Connection) transitionTo(newState State) error {
	c.stateLock.Lock()
	defer c.stateLock.Unlock()

	if err := c.state.validateTransitionTo(newState); err != nil {
		return err
	}

	c.state = newState
	c.logger.Debug("transport state transitioned", "new_state", newState)

	return nil
}

// On registers a handler for an inbound event name. Handlers run on the read
// goroutine, so they observe events in the order the transport delivers them.
func (c *Connection) On(eventName string, h Handler) {
	c.handlersLock.Lock()
	defer c.handlersLock.Unlock()
	c.handlers[eventName] = append(c.handlers[eventName], h)
}

// OnStatus registers a connectivity observer, called with true on every
// transition into Connected and false on every transition out of it.
func (c *Connection) OnStatus(fn func(connected bool)) {
	c.handlersLock.Lock()
	defer c.handlersLock.Unlock()
	c.statusSubs = append(c.statusSubs, fn)
}

func (c *Connection) notifyStatus(connected bool) {
	c.handlersLock.RLock()
	subs := make([]func(bool), len(c.statusSubs))
	copy(subs, c.statusSubs)
	c.handlersLock.RUnlock()

	for _, fn := range subs {
		fn(connected)
	}
}

// Connect probes the server and, if alive, dials the WebSocket endpoint.
// It is idempotent: calling while already probing, connecting, or connected
// is a no-op. A probe or dial failure leaves the connection in Disconnected
// and returns the error; the caller decides whether to stay in local-only
// mode or retry later.
func (c *Connection) Connect(ctx context.Context) error {
	c.stateLock.Lock()
	switch c.state {
	case StateProbing, StateConnecting, StateConnected:
		c.stateLock.Unlock()
		c.logger.Debug("transport already connecting or connected, skipping", "state", c.state)
		return nil
	case StateFailed, StateClosed:
		state := c.state
		c.stateLock.Unlock()
		return fmt.Errorf("transport is %v and cannot connect again", state)
	}
	c.state = StateProbing
	c.stateLock.Unlock()

	return c.connectOnce(ctx)
}

// connectOnce runs one probe-then-dial sequence. The caller must have
// already moved the state to Probing.
func (c *Connection) connectOnce(ctx context.Context) error {
	if err := c.probe(ctx); err != nil {
		if stateErr := c.transitionTo(StateDisconnected); stateErr != nil {
			c.logger.Error("BUG: transport failed to transition to disconnected", "error", stateErr)
		}
		c.logger.Info("liveness probe failed, staying offline", "error", err)
		return fmt.Errorf("liveness probe failed: %w", err)
	}

	if err := c.transitionTo(StateConnecting); err != nil {
		return err
	}

	conn, res, err := c.dialer.DialContext(ctx, c.wsURL, nil)
	if err != nil {
		if stateErr := c.transitionTo(StateDisconnected); stateErr != nil {
			c.logger.Error("BUG: transport failed to transition to disconnected", "error", stateErr)
		}
		c.logger.Info("websocket dial failed", "error", err)
		return fmt.Errorf("dialing %s: %w", c.wsURL, err)
	}
	if res != nil {
		res.Body.Close()
	}

	c.connLock.Lock()
	c.conn = conn
	c.connLock.Unlock()

	if err := c.transitionTo(StateConnected); err != nil {
		return err
	}
	c.retryer.Reset()

	go c.readLoop(conn)

	c.notifyStatus(true)

	return nil
}

// probe performs the pre-flight liveness check: GET <base>/ must answer with
// a success status within the probe timeout.
func (c *Connection) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}

	res, err := c.probeClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("probe returned status %d", res.StatusCode)
	}

	return nil
}

// Send emits an operation event. If the connection is not currently
// Connected the event is silently dropped: offline mutations stay local
// until the next full resync supersedes them.
func (c *Connection) Send(eventName string, payload any) {
	if !c.IsConnected() {
		c.logger.Debug("transport not connected, dropping event", "event", eventName)
		return
	}

	data, err := c.marshaler.Marshal(payload)
	if err != nil {
		c.logger.Warn("failed to encode outbound event", "event", eventName, "error", err)
		return
	}

	frame, err := c.marshaler.Marshal(Frame{Event: eventName, Data: data})
	if err != nil {
		c.logger.Warn("failed to encode outbound frame", "event", eventName, "error", err)
		return
	}

	c.connLock.Lock()
	conn := c.conn
	var writeErr error
	if conn != nil {
		writeErr = conn.WriteMessage(gorilla.TextMessage, frame)
	}
	c.connLock.Unlock()

	if writeErr != nil {
		c.logger.Warn("failed to write outbound event", "event", eventName, "error", writeErr)
	}
}

func (c *Connection) readLoop(conn *gorilla.Conn) {
	for {
		select {
		case <-c.closedCh:
			return
		default:
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.closedCh:
				return
			default:
			}
			c.logger.Info("transport connection dropped", "error", err)
			c.handleDrop()
			return
		}

		c.dispatch(data)
	}
}

// dispatch decodes a frame and runs its handlers synchronously, preserving
// the per-connection delivery order the reconciliation layer relies on.
func (c *Connection) dispatch(data []byte) {
	var frame Frame
	if err := c.unmarshaler.Unmarshal(data, &frame); err != nil {
		c.logger.Warn("discarding undecodable inbound frame", "error", err)
		return
	}

	c.handlersLock.RLock()
	handlers := make([]Handler, len(c.handlers[frame.Event]))
	copy(handlers, c.handlers[frame.Event])
	c.handlersLock.RUnlock()

	if len(handlers) == 0 {
		c.logger.Debug("no handler for inbound event", "event", frame.Event)
		return
	}

	for _, h := range handlers {
		h(frame.Data)
	}
}

// handleDrop transitions out of Connected and runs the bounded reconnection
// loop. When the retry budget is exhausted the connection settles into
// Failed and the process continues in local-only mode.
func (c *Connection) handleDrop() {
	c.connLock.Lock()
	c.conn = nil
	c.connLock.Unlock()

	if err := c.transitionTo(StateDisconnected); err != nil {
		c.logger.Error("BUG: transport failed to transition to disconnected", "error", err)
		return
	}

	c.notifyStatus(false)

	for attempt := 0; ; attempt++ {
		delay, retry := c.retryer.NextDelay(attempt, nil)
		if !retry {
			if err := c.transitionTo(StateFailed); err != nil {
				c.logger.Error("BUG: transport failed to transition to failed", "error", err)
				return
			}
			c.logger.Warn("reconnection attempts exhausted, staying in local-only mode")
			return
		}

		select {
		case <-c.closedCh:
			return
		case <-time.After(delay):
		}

		// A caller-initiated Connect may have raced us while we slept; if the
		// state moved on, that attempt owns the connection now.
		c.stateLock.Lock()
		if c.state != StateDisconnected {
			c.stateLock.Unlock()
			c.logger.Debug("reconnect superseded by a caller-initiated connect")
			return
		}
		c.state = StateProbing
		c.stateLock.Unlock()

		c.logger.Info("attempting to reconnect", "attempt", attempt+1)
		if err := c.connectOnce(context.Background()); err == nil {
			return
		}
	}
}

// Close tears the connection down deterministically. After Close the
// connection cannot be reused.
func (c *Connection) Close(ctx context.Context) error {
	var closeErr error

	c.closeOnce.Do(func() {
		close(c.closedCh)

		c.stateLock.Lock()
		c.state = StateClosed
		c.stateLock.Unlock()

		c.connLock.Lock()
		conn := c.conn
		c.conn = nil
		c.connLock.Unlock()

		if conn == nil {
			return
		}

		if deadline, ok := ctx.Deadline(); ok {
			if err := conn.SetWriteDeadline(deadline); err != nil {
				c.logger.Warn("failed to set close write deadline", "error", err)
			}
		}
		if err := conn.WriteMessage(gorilla.CloseMessage,
			gorilla.FormatCloseMessage(CloseMessageCode, "")); err != nil {
			c.logger.Debug("failed to write close message", "error", err)
		}
		closeErr = conn.Close()
	})

	return closeErr
}
