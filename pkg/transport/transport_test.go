package transport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlink/tutorsync/internal/fakeserver"
	"github.com/tutorlink/tutorsync/pkg/codec"
	"github.com/tutorlink/tutorsync/pkg/logger"
)

func newTestConnection(baseURL string) *Connection {
	return New(&Config{
		BaseURL:      baseURL,
		Marshaler:    codec.JSON{},
		Unmarshaler:  codec.JSON{},
		Logger:       logger.New(slog.NewTextHandler(io.Discard, nil)),
		ProbeTimeout: time.Second,
		Retryer:      NewFixedDelayRetryer(10*time.Millisecond, 2),
	})
}

func TestConnectAndSend(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()

	conn := newTestConnection(srv.URL())
	defer conn.Close(context.Background())

	require.NoError(t, conn.Connect(context.Background()))
	assert.Equal(t, StateConnected, conn.State())
	assert.True(t, conn.IsConnected())

	conn.Send("createSlot", map[string]string{"id": "slot_1"})

	frame, ok := srv.WaitForEvent("createSlot", time.Second)
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"slot_1"}`, string(frame.Data))
}

func TestConnectIsIdempotent(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()

	conn := newTestConnection(srv.URL())
	defer conn.Close(context.Background())

	require.NoError(t, conn.Connect(context.Background()))
	require.NoError(t, conn.Connect(context.Background()))

	require.True(t, srv.WaitForClients(1, time.Second))
	assert.Equal(t, 1, srv.ClientCount())
}

func TestProbeFailureStaysOffline(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()
	srv.SetProbeStatus(http.StatusServiceUnavailable)

	conn := newTestConnection(srv.URL())
	defer conn.Close(context.Background())

	err := conn.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateDisconnected, conn.State())

	// Sending while offline is a silent drop, not a panic or an error.
	conn.Send("createSlot", map[string]string{"id": "slot_1"})
	assert.Equal(t, 0, srv.ClientCount())
}

func TestInboundDispatchPreservesOrder(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()

	conn := newTestConnection(srv.URL())
	defer conn.Close(context.Background())

	var mu sync.Mutex
	var seen []string
	conn.On("slotCreated", func(data json.RawMessage) {
		var payload struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(data, &payload))
		mu.Lock()
		seen = append(seen, payload.ID)
		mu.Unlock()
	})

	require.NoError(t, conn.Connect(context.Background()))

	for _, id := range []string{"slot_1", "slot_2", "slot_3"} {
		require.NoError(t, srv.Broadcast("slotCreated", map[string]string{"id": id}))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 3
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"slot_1", "slot_2", "slot_3"}, seen)
}

func TestReconnectAfterDrop(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()

	conn := newTestConnection(srv.URL())
	defer conn.Close(context.Background())

	var mu sync.Mutex
	var statuses []bool
	conn.OnStatus(func(connected bool) {
		mu.Lock()
		statuses = append(statuses, connected)
		mu.Unlock()
	})

	require.NoError(t, conn.Connect(context.Background()))
	require.True(t, srv.WaitForClients(1, time.Second))

	srv.DropClients()

	require.Eventually(t, conn.IsConnected, 2*time.Second, 10*time.Millisecond)
	require.True(t, srv.WaitForClients(1, time.Second))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false, true}, statuses)
}

// recordingLogger captures Error-level messages so tests can assert the
// transport stayed quiet.
type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Error(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) Warn(string, ...any)  {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Debug(string, ...any) {}

func (l *recordingLogger) errorMessages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.errors...)
}

func TestCallerConnectDuringRetryWindow(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()

	log := &recordingLogger{}
	conn := New(&Config{
		BaseURL:      srv.URL(),
		Marshaler:    codec.JSON{},
		Unmarshaler:  codec.JSON{},
		Logger:       log,
		ProbeTimeout: time.Second,
		Retryer:      NewFixedDelayRetryer(300*time.Millisecond, 1),
	})
	defer conn.Close(context.Background())

	require.NoError(t, conn.Connect(context.Background()))
	require.True(t, srv.WaitForClients(1, time.Second))

	srv.DropClients()
	require.Eventually(t, func() bool {
		return conn.State() == StateDisconnected
	}, time.Second, 5*time.Millisecond)

	// Reconnect explicitly while the retry loop is still sleeping.
	require.NoError(t, conn.Connect(context.Background()))
	require.True(t, conn.IsConnected())

	// Once the delay elapses the retry loop must bow out without disturbing
	// the caller's connection or logging errors.
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, StateConnected, conn.State())
	assert.Empty(t, log.errorMessages())
}

func TestRetryBudgetExhaustionSettlesIntoFailed(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()

	conn := newTestConnection(srv.URL())
	defer conn.Close(context.Background())

	require.NoError(t, conn.Connect(context.Background()))
	require.True(t, srv.WaitForClients(1, time.Second))

	// Every reconnection probe now fails, so the retry budget drains.
	srv.SetProbeStatus(http.StatusServiceUnavailable)
	srv.DropClients()

	require.Eventually(t, func() bool {
		return conn.State() == StateFailed
	}, 2*time.Second, 10*time.Millisecond)

	// Failed is terminal for the session.
	assert.Error(t, conn.Connect(context.Background()))
}

func TestCloseIsTerminal(t *testing.T) {
	srv := fakeserver.New()
	defer srv.Close()

	conn := newTestConnection(srv.URL())
	require.NoError(t, conn.Connect(context.Background()))

	require.NoError(t, conn.Close(context.Background()))
	assert.Equal(t, StateClosed, conn.State())
	assert.Error(t, conn.Connect(context.Background()))
}
