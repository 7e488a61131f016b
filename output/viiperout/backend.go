// Package viiperout injects pointer and keyboard input through a VIIPER
// server: one virtual mouse and one virtual keyboard on a bus, each fed the
// device's input-state reports over its stream.
//
// The server keeps only the latest report per device and clears relative
// deltas on every host poll. The backend therefore never writes a report per
// call: it accumulates motion and queues button and key transitions, and a
// flush loop writes at most one report per device per period. Each period
// exceeds the device's poll interval, so every report is seen by a poll and
// a pulse's down state is never overwritten before the host reads it.
package viiperout

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/Alia5/padmapper/engine"
	"github.com/Alia5/padmapper/internal/log"
	"github.com/Alia5/padmapper/internal/viiper"
	"github.com/Alia5/padmapper/output"
)

// Report periods. The VIIPER mouse is polled every 10 ms and the keyboard
// every 5 ms.
const (
	MousePeriod    = 12 * time.Millisecond
	KeyboardPeriod = 6 * time.Millisecond
)

// reportWriter is the write side of a device stream.
type reportWriter interface {
	WriteBinary(v encoding.BinaryMarshaler) error
	Close() error
}

// Options configures Open.
type Options struct {
	// BusID selects the bus to reuse or create. Zero reuses the first
	// existing bus or lets the server allocate one.
	BusID  uint32
	Cursor *output.Cursor
	Logger *slog.Logger
	// Raw, when set, receives every report sent.
	Raw log.RawLogger
}

// Backend implements engine.Pointer and engine.Keyboard.
type Backend struct {
	logger *slog.Logger
	raw    log.RawLogger
	cursor *output.Cursor

	mu       sync.Mutex
	mouse    reportWriter
	keyboard reportWriter
	wheel    output.Wheel

	// Latest requested state, and the states not yet reported, oldest first.
	buttons      uint8
	buttonQueue  []uint8
	dx, dy, roll int
	keys         viiper.KeyboardState
	keyQueue     []viiper.KeyboardState

	stop chan struct{}
	done sync.WaitGroup
}

var _ output.Device = (*Backend)(nil)

// Open attaches a mouse and a keyboard to a bus on the server behind client.
func Open(ctx context.Context, client *viiper.Client, opts Options) (*Backend, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	busID, err := pickBus(ctx, client, opts.BusID)
	if err != nil {
		return nil, err
	}

	mouse, mdev, err := client.AddDeviceAndConnect(ctx, busID, viiper.DeviceMouse)
	if err != nil {
		return nil, fmt.Errorf("add mouse: %w", err)
	}
	keyboard, kdev, err := client.AddDeviceAndConnect(ctx, busID, viiper.DeviceKeyboard)
	if err != nil {
		_ = mouse.Close()
		return nil, fmt.Errorf("add keyboard: %w", err)
	}
	logger.Info("VIIPER devices attached", "bus", busID, "mouse", mdev.DevId, "keyboard", kdev.DevId)

	b := newBackend(mouse, keyboard, opts.Cursor, logger, opts.Raw)
	b.start(MousePeriod, KeyboardPeriod)
	return b, nil
}

func pickBus(ctx context.Context, client *viiper.Client, want uint32) (uint32, error) {
	list, err := client.BusListCtx(ctx)
	if err != nil {
		return 0, fmt.Errorf("list buses: %w", err)
	}
	switch {
	case want != 0 && slices.Contains(list.Buses, want):
		return want, nil
	case want == 0 && len(list.Buses) > 0:
		return list.Buses[0], nil
	}
	created, err := client.BusCreateCtx(ctx, want)
	if err != nil {
		return 0, fmt.Errorf("create bus: %w", err)
	}
	return created.BusID, nil
}

func newBackend(mouse, keyboard reportWriter, cursor *output.Cursor, logger *slog.Logger, raw log.RawLogger) *Backend {
	return &Backend{
		logger:   logger.With("component", "viiperout"),
		raw:      raw,
		cursor:   cursor,
		mouse:    mouse,
		keyboard: keyboard,
	}
}

// MoveBy adds to the motion carried into the next mouse report.
func (b *Backend) MoveBy(dx, dy int, _ bool) {
	if b.cursor != nil {
		dx, dy = b.cursor.Move(dx, dy)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dx += dx
	b.dy += dy
}

func (b *Backend) ButtonDown(btn engine.Button) { b.setButton(primaryBit(btn), true) }
func (b *Backend) ButtonUp(btn engine.Button)   { b.setButton(primaryBit(btn), false) }

func (b *Backend) AuxButtonDown(n int) { b.setAux(n, true) }
func (b *Backend) AuxButtonUp(n int)   { b.setAux(n, false) }

// Scroll converts pixels to wheel detents; positive wheel is up.
func (b *Backend) Scroll(dy int) {
	dy = b.wheel.Detents(dy)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.roll += dy
}

func (b *Backend) KeyDown(code uint16) { b.setKey(code, true) }
func (b *Backend) KeyUp(code uint16)   { b.setKey(code, false) }

// Close stops the flush loop, writes the final state of any transition still
// queued and detaches both devices.
func (b *Backend) Close() error {
	if b.stop != nil {
		close(b.stop)
		b.done.Wait()
		b.stop = nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.buttonQueue) > 0 || b.dx != 0 || b.dy != 0 || b.roll != 0 {
		b.buttonQueue = append(b.buttonQueue[:0], b.buttons)
		b.flushMouseLocked()
	}
	if len(b.keyQueue) > 0 {
		b.keyQueue = append(b.keyQueue[:0], b.keys)
		b.flushKeyboardLocked()
	}
	return errors.Join(b.mouse.Close(), b.keyboard.Close())
}

func (b *Backend) start(mousePeriod, keyboardPeriod time.Duration) {
	b.stop = make(chan struct{})
	b.done.Add(2)
	go b.flushEvery(mousePeriod, b.flushMouse)
	go b.flushEvery(keyboardPeriod, b.flushKeyboard)
}

func (b *Backend) flushEvery(period time.Duration, flush func()) {
	defer b.done.Done()
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-b.stop:
			return
		case <-t.C:
			flush()
		}
	}
}

// flushMouse writes one report carrying the oldest queued button state and
// as much of the pending motion as fits; the rest waits for the next period.
func (b *Backend) flushMouse() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flushMouseLocked()
}

func (b *Backend) flushMouseLocked() {
	if len(b.buttonQueue) == 0 && b.dx == 0 && b.dy == 0 && b.roll == 0 {
		return
	}
	st := viiper.MouseState{Buttons: b.buttons}
	if len(b.buttonQueue) > 0 {
		st.Buttons = b.buttonQueue[0]
		b.buttonQueue = b.buttonQueue[1:]
	}
	st.DX, st.DY, st.Wheel = clampInt16(b.dx), clampInt16(b.dy), clampInt16(b.roll)
	b.dx -= int(st.DX)
	b.dy -= int(st.DY)
	b.roll -= int(st.Wheel)
	b.send("mouse", b.mouse, &st)
}

// flushKeyboard writes the oldest queued keyboard state.
func (b *Backend) flushKeyboard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flushKeyboardLocked()
}

func (b *Backend) flushKeyboardLocked() {
	if len(b.keyQueue) == 0 {
		return
	}
	st := b.keyQueue[0]
	b.keyQueue = b.keyQueue[1:]
	b.send("keyboard", b.keyboard, &st)
}

func (b *Backend) setAux(n int, down bool) {
	var bit uint8
	switch n {
	case 4:
		bit = viiper.MouseBack
	case 5:
		bit = viiper.MouseForward
	default:
		b.logger.Debug("Unsupported auxiliary button", "button", n)
		return
	}
	b.setButton(bit, down)
}

func (b *Backend) setButton(bit uint8, down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	next := b.buttons &^ bit
	if down {
		next |= bit
	}
	if next == b.buttons {
		return
	}
	b.buttons = next
	b.buttonQueue = append(b.buttonQueue, next)
}

func (b *Backend) setKey(code uint16, down bool) {
	if code > 0xFF {
		b.logger.Debug("Key code out of range", "code", code)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	next := b.keys
	if down {
		next.Press(uint8(code))
	} else {
		next.Release(uint8(code))
	}
	if next == b.keys {
		return
	}
	b.keys = next
	b.keyQueue = append(b.keyQueue, next)
}

func (b *Backend) send(device string, w reportWriter, v encoding.BinaryMarshaler) {
	if b.raw != nil {
		if data, err := v.MarshalBinary(); err == nil {
			b.raw.Log(device, data)
		}
	}
	if err := w.WriteBinary(v); err != nil {
		b.logger.Debug("Output report dropped", "device", device, "error", err)
	}
}

func primaryBit(btn engine.Button) uint8 {
	switch btn {
	case engine.ButtonRight:
		return viiper.MouseRight
	case engine.ButtonMiddle:
		return viiper.MouseMiddle
	default:
		return viiper.MouseLeft
	}
}

func clampInt16(v int) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}
