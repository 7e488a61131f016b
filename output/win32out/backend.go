// Package win32out injects pointer and keyboard input with the user32
// mouse_event and keybd_event calls.
package win32out

import (
	"fmt"
	"log/slog"

	"github.com/Alia5/padmapper/display"
	"github.com/Alia5/padmapper/engine"
	"github.com/Alia5/padmapper/output"
)

// mouse_event flags.
const (
	mouseMove       = 0x0001
	mouseLeftDown   = 0x0002
	mouseLeftUp     = 0x0004
	mouseRightDown  = 0x0008
	mouseRightUp    = 0x0010
	mouseMiddleDown = 0x0020
	mouseMiddleUp   = 0x0040
	mouseXDown      = 0x0080
	mouseXUp        = 0x0100
	mouseWheel      = 0x0800

	xButton1 = 0x0001
	xButton2 = 0x0002
)

// keybd_event flags.
const (
	keyExtended = 0x0001
	keyUp       = 0x0002
)

// injector performs the raw user32 calls.
type injector interface {
	mouseEvent(flags uint32, dx, dy int32, data int32) error
	keybdEvent(vk uint8, flags uint32) error
	cursorPos() (display.Point, error)
}

// Backend implements output.Device.
type Backend struct {
	logger *slog.Logger
	cursor *output.Cursor
	inj    injector
}

var _ output.Device = (*Backend)(nil)

func newBackend(inj injector, cursor *output.Cursor, logger *slog.Logger) *Backend {
	return &Backend{logger: logger.With("component", "win32out"), cursor: cursor, inj: inj}
}

// MoveBy clamps from the real pointer position: the user may have moved the
// physical mouse, and Windows pointer acceleration scales relative events.
func (b *Backend) MoveBy(dx, dy int, _ bool) {
	if b.cursor != nil {
		if p, err := b.inj.cursorPos(); err == nil {
			b.cursor.Warp(p)
		}
		dx, dy = b.cursor.Move(dx, dy)
	}
	if dx == 0 && dy == 0 {
		return
	}
	b.check("move", b.inj.mouseEvent(mouseMove, int32(dx), int32(dy), 0))
}

func (b *Backend) ButtonDown(btn engine.Button) {
	b.check("button down", b.inj.mouseEvent(buttonFlags(btn, true), 0, 0, 0))
}

func (b *Backend) ButtonUp(btn engine.Button) {
	b.check("button up", b.inj.mouseEvent(buttonFlags(btn, false), 0, 0, 0))
}

func (b *Backend) AuxButtonDown(n int) { b.aux(n, mouseXDown) }
func (b *Backend) AuxButtonUp(n int)   { b.aux(n, mouseXUp) }

// Scroll passes pixels straight through: one wheel detent is 120 units.
func (b *Backend) Scroll(dy int) {
	if dy == 0 {
		return
	}
	b.check("scroll", b.inj.mouseEvent(mouseWheel, 0, 0, int32(dy)))
}

func (b *Backend) KeyDown(code uint16) { b.key(code, 0) }
func (b *Backend) KeyUp(code uint16)   { b.key(code, keyUp) }

func (b *Backend) Close() error { return nil }

func (b *Backend) aux(n int, flag uint32) {
	var data int32
	switch n {
	case 4:
		data = xButton1
	case 5:
		data = xButton2
	default:
		b.logger.Debug("Unsupported auxiliary button", "button", n)
		return
	}
	b.check("aux button", b.inj.mouseEvent(flag, 0, 0, data))
}

func (b *Backend) key(code uint16, flags uint32) {
	vk, ok := VirtualKey(code)
	if !ok {
		b.logger.Debug("No virtual-key code for key", "code", fmt.Sprintf("0x%02X", code))
		return
	}
	if extendedKey(code) {
		flags |= keyExtended
	}
	b.check("key", b.inj.keybdEvent(vk, flags))
}

func (b *Backend) check(op string, err error) {
	if err != nil {
		b.logger.Debug("Output event dropped", "op", op, "error", err)
	}
}

func buttonFlags(btn engine.Button, down bool) uint32 {
	switch btn {
	case engine.ButtonRight:
		if down {
			return mouseRightDown
		}
		return mouseRightUp
	case engine.ButtonMiddle:
		if down {
			return mouseMiddleDown
		}
		return mouseMiddleUp
	default:
		if down {
			return mouseLeftDown
		}
		return mouseLeftUp
	}
}
