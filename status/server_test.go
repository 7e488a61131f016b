package status_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Alia5/padmapper/binding"
	"github.com/Alia5/padmapper/display"
	"github.com/Alia5/padmapper/engine"
	"github.com/Alia5/padmapper/status"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu      sync.Mutex
	current engine.Status
	updates chan engine.Status
}

func newFakeSource(st engine.Status) *fakeSource {
	return &fakeSource{current: st, updates: make(chan engine.Status)}
}

func (f *fakeSource) Status() engine.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeSource) Updates() <-chan engine.Status { return f.updates }

func (f *fakeSource) publish(st engine.Status) {
	f.mu.Lock()
	f.current = st
	f.mu.Unlock()
	f.updates <- st
}

func startServer(t *testing.T, src status.Source, cache *display.Cache, ctrl status.Controller) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := status.NewServer(src, cache, slog.New(slog.DiscardHandler))
	if ctrl != nil {
		srv.SetController(ctrl)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
	return ln.Addr().String()
}

func readMessage(t *testing.T, conn *websocket.Conn) status.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var m status.Message
	require.NoError(t, conn.ReadJSON(&m))
	return m
}

func TestWebSocketStream(t *testing.T) {
	src := newFakeSource(engine.Status{Phase: "idle"})
	addr := startServer(t, src, nil, nil)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readMessage(t, conn)
	assert.Equal(t, "full", first.Type)
	require.NotNil(t, first.Status)
	assert.Equal(t, "idle", first.Status.Phase)
	assert.False(t, first.Status.Running)

	running := engine.Status{Running: true, Phase: "idle", Connected: true, Ticks: 1}
	src.publish(running)
	// Same state, new tick: not forwarded.
	running.Ticks = 2
	src.publish(running)
	pressed := engine.Status{
		Running:   true,
		Phase:     "tracking",
		Connected: true,
		Pressed:   []binding.InputID{binding.FaceSouth},
		Asserted:  []binding.InputID{binding.FaceSouth},
		Ticks:     3,
	}
	src.publish(pressed)

	m := readMessage(t, conn)
	assert.Equal(t, "change", m.Type)
	assert.True(t, m.Status.Running)
	assert.Equal(t, uint64(1), m.Status.Ticks)

	m2 := readMessage(t, conn)
	assert.Equal(t, "change", m2.Type)
	assert.Equal(t, "tracking", m2.Status.Phase)
	assert.Equal(t, []binding.InputID{binding.FaceSouth}, m2.Status.Pressed)
	assert.Greater(t, m2.Seq, m.Seq)
}

func TestStatusEndpoint(t *testing.T) {
	src := newFakeSource(engine.Status{Running: true, Phase: "tracking", Connected: true, Ticks: 9})
	cache := display.NewCache(display.Rect{W: 1920, H: 1080})
	addr := startServer(t, src, cache, nil)

	resp, err := http.Get("http://" + addr + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snap status.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, "tracking", snap.Status.Phase)
	assert.Equal(t, uint64(9), snap.Status.Ticks)
	assert.Equal(t, []display.Rect{{W: 1920, H: 1080}}, snap.Displays)

	post, err := http.Post("http://"+addr+"/status", "text/plain", nil)
	require.NoError(t, err)
	post.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, post.StatusCode)

	// No controller, no control routes.
	start, err := http.Post("http://"+addr+"/start", "text/plain", nil)
	require.NoError(t, err)
	start.Body.Close()
	assert.Equal(t, http.StatusNotFound, start.StatusCode)
}

type fakeController struct {
	mu         sync.Mutex
	authorized bool
	running    bool
}

func (f *fakeController) Start() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running || !f.authorized {
		return false
	}
	f.running = true
	return true
}

func (f *fakeController) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
}

func (f *fakeController) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func postControl(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "text/plain", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestControlRoutes(t *testing.T) {
	ctrl := &fakeController{}
	addr := startServer(t, newFakeSource(engine.Status{Phase: "idle"}), nil, ctrl)
	base := "http://" + addr

	code, body := postControl(t, base+"/start")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, false, body["running"])
	assert.NotEmpty(t, body["error"])

	ctrl.mu.Lock()
	ctrl.authorized = true
	ctrl.mu.Unlock()

	code, body = postControl(t, base+"/start")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["running"])
	assert.True(t, ctrl.Running())

	// Starting twice is not an error.
	code, _ = postControl(t, base+"/start")
	assert.Equal(t, http.StatusOK, code)

	code, body = postControl(t, base+"/stop")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["running"])
	assert.False(t, ctrl.Running())

	get, err := http.Get(base + "/stop")
	require.NoError(t, err)
	get.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, get.StatusCode)
}

func TestForeignOriginsAreRejected(t *testing.T) {
	ctrl := &fakeController{authorized: true}
	addr := startServer(t, newFakeSource(engine.Status{Phase: "idle"}), nil, ctrl)

	tests := []struct {
		origin string
		ok     bool
	}{
		{"", true},
		{"http://localhost:8080", true},
		{"http://127.0.0.1", true},
		{"http://[::1]:3000", true},
		{"https://evil.example", false},
		{"http://192.168.1.20", false},
		{"null", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", header)
			if tt.ok {
				require.NoError(t, err)
				conn.Close()
			} else {
				require.Error(t, err)
				require.NotNil(t, resp)
				assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			}

			ctrl.Stop()
			req, err := http.NewRequest(http.MethodPost, "http://"+addr+"/start", nil)
			require.NoError(t, err)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			post, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			post.Body.Close()
			if tt.ok {
				assert.Equal(t, http.StatusOK, post.StatusCode)
				assert.True(t, ctrl.Running())
			} else {
				assert.Equal(t, http.StatusForbidden, post.StatusCode)
				assert.False(t, ctrl.Running())
			}
		})
	}
}
