package viiperout

import (
	"bufio"
	"context"
	"encoding"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Alia5/padmapper/binding"
	"github.com/Alia5/padmapper/display"
	"github.com/Alia5/padmapper/engine"
	"github.com/Alia5/padmapper/gamepad"
	"github.com/Alia5/padmapper/internal/viiper"
	"github.com/Alia5/padmapper/output"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu      sync.Mutex
	reports [][]byte
	err     error
	closed  bool
}

func (f *fakeWriter) WriteBinary(v encoding.BinaryMarshaler) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, data)
	return nil
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return f.err
}

func (f *fakeWriter) mouse(t *testing.T) []viiper.MouseState {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]viiper.MouseState, 0, len(f.reports))
	for _, r := range f.reports {
		var st viiper.MouseState
		require.NoError(t, st.UnmarshalBinary(r))
		out = append(out, st)
	}
	return out
}

type rawRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *rawRecorder) Log(device string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, fmt.Sprintf("%s % x", device, data))
}

func newTestBackend(cursor *output.Cursor) (*Backend, *fakeWriter, *fakeWriter, *rawRecorder) {
	m, k, raw := &fakeWriter{}, &fakeWriter{}, &rawRecorder{}
	return newBackend(m, k, cursor, slog.New(slog.DiscardHandler), raw), m, k, raw
}

func TestBackendCoalescesMouseReports(t *testing.T) {
	b, m, _, _ := newTestBackend(nil)

	b.MoveBy(3, -2, true)
	b.MoveBy(4, 1, true)
	b.ButtonDown(engine.ButtonLeft)
	b.ButtonUp(engine.ButtonLeft)
	b.Scroll(360)
	b.AuxButtonDown(7)
	b.flushMouse()
	b.flushMouse()
	b.flushMouse()

	b.ButtonDown(engine.ButtonRight)
	b.ButtonDown(engine.ButtonRight)
	b.AuxButtonDown(4)
	b.flushMouse()
	b.flushMouse()
	b.ButtonUp(engine.ButtonRight)
	b.AuxButtonUp(4)
	b.ButtonDown(engine.ButtonMiddle)
	b.ButtonUp(engine.ButtonMiddle)
	b.flushMouse()
	b.flushMouse()
	b.flushMouse()
	b.flushMouse()
	b.flushMouse()

	assert.Equal(t, []viiper.MouseState{
		{Buttons: viiper.MouseLeft, DX: 7, DY: -1, Wheel: 3},
		{},
		{Buttons: viiper.MouseRight},
		{Buttons: viiper.MouseRight | viiper.MouseBack},
		{Buttons: viiper.MouseBack},
		{},
		{Buttons: viiper.MouseMiddle},
		{},
	}, m.mouse(t))
}

func TestBackendCarriesLargeDeltas(t *testing.T) {
	b, m, _, _ := newTestBackend(nil)

	b.MoveBy(40000, -1, false)
	b.Scroll(-40000)
	b.Scroll(60)
	b.flushMouse()
	b.flushMouse()
	b.flushMouse()

	assert.Equal(t, []viiper.MouseState{
		{DX: 32767, DY: -1, Wheel: -333},
		{DX: 7233},
	}, m.mouse(t))
}

func TestBackendKeyboardReports(t *testing.T) {
	b, _, k, _ := newTestBackend(nil)

	b.KeyDown(0xE2)
	b.KeyDown(0x2B)
	b.KeyUp(0x2B)
	b.KeyUp(0xE2)
	b.KeyUp(0xE2)
	b.KeyDown(0x1FF)
	for range 6 {
		b.flushKeyboard()
	}

	assert.Equal(t, [][]byte{
		{viiper.ModLeftAlt, 0},
		{viiper.ModLeftAlt, 1, 0x2B},
		{viiper.ModLeftAlt, 0},
		{0, 0},
	}, k.reports)
}

func TestBackendClampsThroughCursor(t *testing.T) {
	cursor := output.NewCursor(display.NewCache(display.Rect{W: 100, H: 100}))
	b, m, _, _ := newTestBackend(cursor)

	b.MoveBy(100, 0, false)
	b.MoveBy(5, 0, false)
	b.MoveBy(-10, 70, false)
	b.flushMouse()

	assert.Equal(t, []viiper.MouseState{{DX: 39, DY: 49}}, m.mouse(t))
}

func TestBackendDropsFailedWrites(t *testing.T) {
	b, m, k, raw := newTestBackend(nil)
	m.err = errors.New("broken pipe")

	b.ButtonDown(engine.ButtonLeft)
	b.ButtonUp(engine.ButtonLeft)
	b.KeyDown(0x04)
	assert.NotPanics(t, func() {
		b.flushMouse()
		b.flushMouse()
	})
	b.flushKeyboard()

	assert.Empty(t, m.reports)
	assert.Len(t, k.reports, 1)
	assert.Equal(t, []string{"mouse 01 00 00 00 00 00 00 00 00", "mouse 00 00 00 00 00 00 00 00 00", "keyboard 00 01 04"}, raw.lines)

	err := b.Close()
	assert.ErrorContains(t, err, "broken pipe")
	assert.True(t, m.closed)
	assert.True(t, k.closed)
}

func TestCloseWritesFinalState(t *testing.T) {
	b, m, k, _ := newTestBackend(nil)

	b.ButtonDown(engine.ButtonLeft)
	b.ButtonUp(engine.ButtonLeft)
	b.AuxButtonDown(5)
	b.MoveBy(2, 0, false)
	b.KeyDown(0x04)
	b.KeyDown(0x05)
	require.NoError(t, b.Close())

	assert.Equal(t, []viiper.MouseState{{Buttons: viiper.MouseForward, DX: 2}}, m.mouse(t))
	assert.Equal(t, [][]byte{{0, 2, 0x04, 0x05}}, k.reports)
}

// hostDevice keeps the latest report like the VIIPER server does and hands
// it to periodic host polls, clearing relative deltas on each poll.
type hostDevice struct {
	fakeWriter
	latest []byte
	polled [][]byte
}

func (h *hostDevice) WriteBinary(v encoding.BinaryMarshaler) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return err
	}
	h.latest = data
	return nil
}

func (h *hostDevice) poll(relative bool) {
	if h.latest == nil {
		return
	}
	h.polled = append(h.polled, slices.Clone(h.latest))
	if relative {
		clear(h.latest[1:])
	}
}

// countingPointer totals the motion the engine asks for.
type countingPointer struct {
	*Backend
	dx, dy int
}

func (p *countingPointer) MoveBy(dx, dy int, drag bool) {
	p.dx += dx
	p.dy += dy
	p.Backend.MoveBy(dx, dy, drag)
}

// runTimeline drives core at the engine rate against hosts polling at the
// VIIPER device intervals, in microseconds.
func runTimeline(b *Backend, core *engine.Core, mouse, keyboard *hostDevice, snapshots func(tick int) gamepad.Snapshot, length int) {
	tickEvery := int(time.Second/time.Microsecond) / engine.DefaultRate
	tick := 0
	for now := range length {
		if now%tickEvery == 0 {
			core.Tick(snapshots(tick))
			tick++
		}
		if now%int(MousePeriod/time.Microsecond) == 0 {
			b.flushMouse()
		}
		if now%int(KeyboardPeriod/time.Microsecond) == 0 {
			b.flushKeyboard()
		}
		if now%10000 == 5000 {
			mouse.poll(true)
		}
		if now%5000 == 2500 {
			keyboard.poll(false)
		}
	}
}

func distinct(reports [][]byte) [][]byte {
	var out [][]byte
	for _, r := range reports {
		if len(out) == 0 || !slices.Equal(out[len(out)-1], r) {
			out = append(out, r)
		}
	}
	return out
}

func TestHostSeesEveryKeyComboStage(t *testing.T) {
	mouse, keyboard := &hostDevice{}, &hostDevice{}
	b := newBackend(mouse, keyboard, nil, slog.New(slog.DiscardHandler), nil)
	core := engine.NewCore(b, b, binding.Default(), 1.0/engine.DefaultRate)

	runTimeline(b, core, mouse, keyboard, func(tick int) gamepad.Snapshot {
		return gamepad.Snapshot{DpadUp: tick >= 1}
	}, 100000)

	assert.Equal(t, [][]byte{
		{viiper.ModLeftAlt, 0},
		{viiper.ModLeftAlt, 1, 0x2B},
		{viiper.ModLeftAlt, 0},
		{0, 0},
	}, distinct(keyboard.polled))
}

func TestHostSeesMotionAndClickInSameTick(t *testing.T) {
	mouse, keyboard := &hostDevice{}, &hostDevice{}
	b := newBackend(mouse, keyboard, nil, slog.New(slog.DiscardHandler), nil)
	ptr := &countingPointer{Backend: b}
	core := engine.NewCore(ptr, b, binding.Default(), 1.0/engine.DefaultRate)

	runTimeline(b, core, mouse, keyboard, func(tick int) gamepad.Snapshot {
		held := tick >= 1 && tick < 20
		if held {
			return gamepad.Snapshot{LeftX: 1, FaceSouth: true}
		}
		return gamepad.Snapshot{}
	}, 400000)

	require.NotZero(t, ptr.dx)
	var dx, dy int
	clicked := false
	for _, r := range mouse.polled {
		var st viiper.MouseState
		require.NoError(t, st.UnmarshalBinary(r))
		dx += int(st.DX)
		dy += int(st.DY)
		clicked = clicked || st.Buttons&viiper.MouseLeft != 0
	}
	assert.Equal(t, ptr.dx, dx, "no motion lost between polls")
	assert.Equal(t, ptr.dy, dy)
	assert.True(t, clicked)
	last := mouse.polled[len(mouse.polled)-1]
	assert.Equal(t, byte(0), last[0], "button released at the end")
}

func TestPickBus(t *testing.T) {
	tests := []struct {
		name    string
		buses   string
		want    uint32
		wantID  uint32
		created bool
	}{
		{name: "reuse first", buses: `{"buses":[2,5]}`, want: 0, wantID: 2},
		{name: "reuse requested", buses: `{"buses":[2,5]}`, want: 5, wantID: 5},
		{name: "create requested", buses: `{"buses":[2,5]}`, want: 7, wantID: 7, created: true},
		{name: "create any", buses: `{"buses":[]}`, want: 0, wantID: 1, created: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := false
			client := viiper.WithTransport(viiper.NewMockTransport(func(path string, payload any, _ map[string]string) (string, error) {
				switch path {
				case "bus/list":
					return tt.buses, nil
				case "bus/create":
					created = true
					if payload == nil {
						return `{"busId":1}`, nil
					}
					return fmt.Sprintf(`{"busId":%s}`, payload), nil
				}
				return "", fmt.Errorf("unexpected %s", path)
			}))
			got, err := pickBus(context.Background(), client, tt.want)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got)
			assert.Equal(t, tt.created, created)
		})
	}
}

// fakeServer speaks just enough of the VIIPER API to attach devices and
// collect the reports streamed to them.
type fakeServer struct {
	ln      net.Listener
	mu      sync.Mutex
	streams map[string][][]byte
}

func startFakeServer(t *testing.T) *fakeServer {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeServer{ln: ln, streams: map[string][][]byte{}}
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.handle(conn)
		}
	}()
	return s
}

func (s *fakeServer) handle(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	line, err := r.ReadString('\x00')
	if err != nil {
		return
	}
	line = strings.TrimSuffix(line, "\x00")
	switch {
	case line == "bus/list":
		_, _ = io.WriteString(conn, `{"buses":[]}`+"\n")
	case line == "bus/create":
		_, _ = io.WriteString(conn, `{"busId":1}`+"\n")
	case strings.HasPrefix(line, "bus/1/add") && strings.Contains(line, `"mouse"`):
		_, _ = io.WriteString(conn, `{"busId":1,"devId":"1","type":"mouse"}`+"\n")
	case strings.HasPrefix(line, "bus/1/add"):
		_, _ = io.WriteString(conn, `{"busId":1,"devId":"2","type":"keyboard"}`+"\n")
	case line == "bus/1/1":
		for {
			report := make([]byte, 9)
			if _, err := io.ReadFull(r, report); err != nil {
				return
			}
			s.record(line, report)
		}
	case line == "bus/1/2":
		for {
			head := make([]byte, 2)
			if _, err := io.ReadFull(r, head); err != nil {
				return
			}
			keys := make([]byte, head[1])
			if _, err := io.ReadFull(r, keys); err != nil {
				return
			}
			s.record(line, append(head, keys...))
		}
	}
}

func (s *fakeServer) record(path string, report []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.streams[path] = append(s.streams[path], report)
}

func (s *fakeServer) reports(path string) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.streams[path]...)
}

func TestOpenAttachesDevices(t *testing.T) {
	srv := startFakeServer(t)
	client := viiper.New(srv.ln.Addr().String())

	b, err := Open(context.Background(), client, Options{Logger: slog.New(slog.DiscardHandler)})
	require.NoError(t, err)

	b.ButtonDown(engine.ButtonLeft)
	b.KeyDown(0x04)

	require.Eventually(t, func() bool {
		return len(srv.reports("bus/1/1")) == 1 && len(srv.reports("bus/1/2")) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []byte{0x01, 0, 0, 0, 0, 0, 0, 0, 0}, srv.reports("bus/1/1")[0])
	assert.Equal(t, []byte{0, 1, 0x04}, srv.reports("bus/1/2")[0])

	require.NoError(t, b.Close())
}

func TestOpenFailsWithoutServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = Open(context.Background(), viiper.New(addr), Options{Logger: slog.New(slog.DiscardHandler)})
	assert.ErrorContains(t, err, "list buses")
}

func TestPingerGate(t *testing.T) {
	var fail error
	client := viiper.WithTransport(viiper.NewMockTransport(func(path string, _ any, _ map[string]string) (string, error) {
		if fail != nil {
			return "", fail
		}
		return `{"server":"VIIPER","version":"1.0.0"}`, nil
	}))
	p := NewPinger(client, time.Second, slog.New(slog.DiscardHandler))
	gate := p.Gate()

	assert.False(t, gate.IsAuthorized(), "unauthorized before the first ping")

	require.NoError(t, p.Ping(context.Background()))
	assert.True(t, gate.IsAuthorized())

	fail = errors.New("connection refused")
	assert.Error(t, p.Ping(context.Background()))
	assert.False(t, gate.IsAuthorized())
	assert.ErrorContains(t, p.Err(), "connection refused")
}
