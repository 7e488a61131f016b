package testing

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Alia5/padmapper/engine"
	"github.com/Alia5/padmapper/gamepad"
)

// Recorder implements engine.Pointer and engine.Keyboard and records every
// call as a short text event, in order.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

func CreateRecorder(t *testing.T) *Recorder {
	t.Helper()
	return &Recorder{}
}

func (r *Recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *Recorder) MoveBy(dx, dy int, dragging bool) {
	if dragging {
		r.add("drag %d,%d", dx, dy)
		return
	}
	r.add("move %d,%d", dx, dy)
}

func (r *Recorder) ButtonDown(b engine.Button) { r.add("%s-down", b) }
func (r *Recorder) ButtonUp(b engine.Button)   { r.add("%s-up", b) }
func (r *Recorder) AuxButtonDown(n int)        { r.add("aux%d-down", n) }
func (r *Recorder) AuxButtonUp(n int)          { r.add("aux%d-up", n) }
func (r *Recorder) Scroll(dy int)              { r.add("scroll %d", dy) }
func (r *Recorder) KeyDown(code uint16)        { r.add("key-down 0x%02X", code) }
func (r *Recorder) KeyUp(code uint16)          { r.add("key-up 0x%02X", code) }

// Events returns a copy of all recorded events.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// Actions returns the recorded events without pointer motion and scrolling.
func (r *Recorder) Actions() []string {
	var out []string
	for _, e := range r.Events() {
		if strings.HasPrefix(e, "move ") || strings.HasPrefix(e, "drag ") || strings.HasPrefix(e, "scroll ") {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Source is a controllable engine.Source.
type Source struct {
	slot      gamepad.Slot
	connected atomic.Bool
	conns     chan bool
}

func CreateSource(t *testing.T, connected bool) *Source {
	t.Helper()
	s := &Source{conns: make(chan bool, 8)}
	s.connected.Store(connected)
	return s
}

func (s *Source) Current() gamepad.Snapshot { return s.slot.Load() }
func (s *Source) Connected() bool           { return s.connected.Load() }
func (s *Source) Connections() <-chan bool  { return s.conns }
func (s *Source) Set(snap gamepad.Snapshot) { s.slot.Store(snap) }

func (s *Source) SetConnected(connected bool) {
	if s.connected.Swap(connected) == connected {
		return
	}
	select {
	case s.conns <- connected:
	default:
	}
}

// Gate is a switchable authorization gate.
type Gate struct {
	allowed atomic.Bool
}

func CreateGate(t *testing.T, allowed bool) *Gate {
	t.Helper()
	g := &Gate{}
	g.allowed.Store(allowed)
	return g
}

func (g *Gate) IsAuthorized() bool { return g.allowed.Load() }
func (g *Gate) Set(allowed bool)   { g.allowed.Store(allowed) }
