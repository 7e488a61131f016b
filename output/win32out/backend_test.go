package win32out

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/Alia5/padmapper/binding"
	"github.com/Alia5/padmapper/display"
	"github.com/Alia5/padmapper/engine"
	"github.com/Alia5/padmapper/output"

	"github.com/stretchr/testify/assert"
)

type fakeInjector struct {
	calls []string
	err   error
	pos   *display.Point
}

func (f *fakeInjector) cursorPos() (display.Point, error) {
	if f.pos == nil {
		return display.Point{}, errors.New("no cursor")
	}
	return *f.pos, nil
}

func (f *fakeInjector) mouseEvent(flags uint32, dx, dy int32, data int32) error {
	f.calls = append(f.calls, fmt.Sprintf("mouse 0x%04X %d,%d %d", flags, dx, dy, data))
	if flags == mouseMove && f.pos != nil {
		f.pos.X += int(dx)
		f.pos.Y += int(dy)
	}
	return f.err
}

func (f *fakeInjector) keybdEvent(vk uint8, flags uint32) error {
	f.calls = append(f.calls, fmt.Sprintf("key 0x%02X %d", vk, flags))
	return f.err
}

func TestBackendCalls(t *testing.T) {
	inj := &fakeInjector{}
	b := newBackend(inj, nil, slog.New(slog.DiscardHandler))

	b.ButtonDown(engine.ButtonLeft)
	b.MoveBy(5, -6, true)
	b.ButtonUp(engine.ButtonLeft)
	b.ButtonDown(engine.ButtonRight)
	b.ButtonUp(engine.ButtonMiddle)
	b.AuxButtonDown(4)
	b.AuxButtonUp(5)
	b.AuxButtonDown(9)
	b.Scroll(-18)
	b.Scroll(0)
	b.KeyDown(binding.KeyLeftAlt)
	b.KeyDown(binding.KeyTab)
	b.KeyUp(binding.KeyLeft)
	b.KeyDown(0x99)

	assert.Equal(t, []string{
		"mouse 0x0002 0,0 0",
		"mouse 0x0001 5,-6 0",
		"mouse 0x0004 0,0 0",
		"mouse 0x0008 0,0 0",
		"mouse 0x0040 0,0 0",
		"mouse 0x0080 0,0 1",
		"mouse 0x0100 0,0 2",
		"mouse 0x0800 0,0 -18",
		"key 0xA4 0",
		"key 0x09 0",
		"key 0x25 3",
	}, inj.calls)
}

func TestBackendClampsAndDropsErrors(t *testing.T) {
	inj := &fakeInjector{err: errors.New("access denied")}
	cursor := output.NewCursor(display.NewCache(display.Rect{W: 20, H: 20}))
	b := newBackend(inj, cursor, slog.New(slog.DiscardHandler))

	assert.NotPanics(t, func() { b.MoveBy(-50, 3, false) })
	assert.Equal(t, []string{"mouse 0x0001 -10,3 0"}, inj.calls)
	assert.NoError(t, b.Close())
}

func TestBackendClampsFromRealPointer(t *testing.T) {
	inj := &fakeInjector{pos: &display.Point{X: 95, Y: 50}}
	cursor := output.NewCursor(display.NewCache(display.Rect{W: 100, H: 100}))
	b := newBackend(inj, cursor, slog.New(slog.DiscardHandler))

	b.MoveBy(20, 0, false)
	// The user dragged the physical mouse to the left edge.
	inj.pos = &display.Point{X: 3, Y: 50}
	b.MoveBy(-20, 5, false)
	b.MoveBy(-20, 0, false)

	assert.Equal(t, []string{
		"mouse 0x0001 4,0 0",
		"mouse 0x0001 -3,5 0",
	}, inj.calls)
	p, ok := cursor.Position()
	assert.True(t, ok)
	assert.Equal(t, display.Point{X: 0, Y: 55}, p)
}

func TestVirtualKeys(t *testing.T) {
	for _, k := range binding.KeyCatalog {
		_, ok := VirtualKey(k.Code)
		assert.True(t, ok, "no virtual key for %s", k.Name)
	}
	tests := []struct {
		hid  uint16
		want uint8
	}{
		{binding.KeyA, 'A'},
		{binding.KeyZ, 'Z'},
		{binding.Key0, '0'},
		{binding.KeyF1, 0x70},
		{binding.KeyF12, 0x7B},
		{binding.KeyLeftGUI, 0x5B},
	}
	for _, tt := range tests {
		got, ok := VirtualKey(tt.hid)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got, binding.KeyName(tt.hid))
	}
}
