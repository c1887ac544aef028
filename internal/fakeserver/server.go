// Package fakeserver provides an in-process coordinating server for tests:
// the liveness probe endpoint, the snapshot endpoint, and a WebSocket pub/sub
// endpoint speaking the same frame shape as the transport. Probe and
// snapshot behavior are configurable to inject the failure modes the engine
// must degrade through.
package fakeserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	gorilla "github.com/gorilla/websocket"
)

// Frame mirrors the transport wire shape.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type Server struct {
	httpServer *httptest.Server
	upgrader   gorilla.Upgrader

	mu                  sync.Mutex
	conns               []*gorilla.Conn
	received            []Frame
	snapshot            any
	snapshotStatus      int
	snapshotContentType string
	probeStatus         int
}

// New starts a fake coordinator. Close it when the test is done.
func New() *Server {
	s := &Server{
		snapshotStatus:      http.StatusOK,
		snapshotContentType: "application/json",
		probeStatus:         http.StatusOK,
		snapshot:            map[string]any{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleProbe)
	mux.HandleFunc("/api/sync", s.handleSnapshot)
	mux.HandleFunc("/ws", s.handleWS)
	s.httpServer = httptest.NewServer(mux)

	return s
}

// URL is the http base URL of the fake coordinator.
func (s *Server) URL() string {
	return s.httpServer.URL
}

func (s *Server) Close() {
	s.DropClients()
	s.httpServer.Close()
}

// SetProbeStatus makes the probe endpoint answer with the given status.
func (s *Server) SetProbeStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.probeStatus = code
}

// SetSnapshot sets the body served by the snapshot endpoint.
func (s *Server) SetSnapshot(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = v
}

// FailSnapshot makes the snapshot endpoint answer with the given status.
func (s *Server) FailSnapshot(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshotStatus = status
}

// SetSnapshotContentType overrides the content type of snapshot responses,
// for exercising the wrong-content-type failure mode.
func (s *Server) SetSnapshotContentType(ct string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshotContentType = ct
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.mu.Lock()
	status := s.probeStatus
	s.mu.Unlock()
	w.WriteHeader(status)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := s.snapshotStatus
	ct := s.snapshotContentType
	snap := s.snapshot
	s.mu.Unlock()

	w.Header().Set("Content-Type", ct)
	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}

	body, err := json.Marshal(snap)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(body)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.conns = append(s.conns, conn)
	s.mu.Unlock()

	go s.readLoop(conn)
}

func (s *Server) readLoop(conn *gorilla.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.removeConn(conn)
			return
		}
		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		s.mu.Lock()
		s.received = append(s.received, frame)
		s.mu.Unlock()
	}
}

func (s *Server) removeConn(conn *gorilla.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.conns {
		if c == conn {
			s.conns = append(s.conns[:i], s.conns[i+1:]...)
			break
		}
	}
}

// Broadcast pushes an event to every connected client.
func (s *Server) Broadcast(eventName string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(Frame{Event: eventName, Data: data})
	if err != nil {
		return err
	}

	s.mu.Lock()
	conns := make([]*gorilla.Conn, len(s.conns))
	copy(conns, s.conns)
	s.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(gorilla.TextMessage, frame); err != nil {
			return err
		}
	}
	return nil
}

// Received returns a copy of every frame clients have sent so far.
func (s *Server) Received() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Frame, len(s.received))
	copy(out, s.received)
	return out
}

// ReceivedNames returns the event names of received frames, in order.
func (s *Server) ReceivedNames() []string {
	frames := s.Received()
	names := make([]string, len(frames))
	for i, f := range frames {
		names[i] = f.Event
	}
	return names
}

// WaitForEvent polls until a frame with the given event name has been
// received or the timeout expires.
func (s *Server) WaitForEvent(eventName string, timeout time.Duration) (Frame, bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, f := range s.Received() {
			if f.Event == eventName {
				return f, true
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	return Frame{}, false
}

// ClientCount reports how many WebSocket clients are connected.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// WaitForClients polls until at least n clients are connected or the timeout
// expires.
func (s *Server) WaitForClients(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.ClientCount() >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// DropClients forcefully closes every client connection, simulating a
// transport-level drop.
func (s *Server) DropClients() {
	s.mu.Lock()
	conns := s.conns
	s.conns = nil
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}
