// Package uinputout injects pointer and keyboard input through Linux uinput
// virtual devices.
package uinputout

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Alia5/padmapper/engine"
	"github.com/Alia5/padmapper/output"
	"github.com/Alia5/padmapper/permission"

	"github.com/bendahl/uinput"
)

// DefaultName prefixes the virtual device names.
const DefaultName = "padmapper"

type mouseDevice interface {
	Move(x, y int32) error
	ButtonPress(code uint16) error
	ButtonRelease(code uint16) error
	Wheel(horizontal bool, delta int32) error
	Close() error
}

type keyboardDevice interface {
	KeyDown(key int) error
	KeyUp(key int) error
	Close() error
}

// Options configures Open.
type Options struct {
	// Path is the uinput device node; empty means /dev/uinput.
	Path   string
	Name   string
	Cursor *output.Cursor
	Logger *slog.Logger
}

// Backend implements output.Device over a uinput mouse and keyboard.
type Backend struct {
	logger   *slog.Logger
	cursor   *output.Cursor
	mouse    mouseDevice
	keyboard keyboardDevice
	wheel    output.Wheel
}

var _ output.Device = (*Backend)(nil)

// Open creates the virtual mouse and keyboard.
func Open(opts Options) (*Backend, error) {
	if opts.Path == "" {
		opts.Path = permission.DefaultUinputPath
	}
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	mouse, err := createPointer(opts.Path, opts.Name+" mouse")
	if err != nil {
		return nil, fmt.Errorf("create uinput mouse: %w", err)
	}
	keyboard, err := uinput.CreateKeyboard(opts.Path, []byte(opts.Name+" keyboard"))
	if err != nil {
		_ = mouse.Close()
		return nil, fmt.Errorf("create uinput keyboard: %w", err)
	}
	opts.Logger.Info("uinput devices created", "path", opts.Path, "name", opts.Name)
	return newBackend(mouse, keyboard, opts.Cursor, opts.Logger), nil
}

func newBackend(m mouseDevice, k keyboardDevice, cursor *output.Cursor, logger *slog.Logger) *Backend {
	return &Backend{
		logger:   logger.With("component", "uinputout"),
		cursor:   cursor,
		mouse:    m,
		keyboard: k,
	}
}

// Gate authorizes injection while the device node is writable.
func Gate(path string, logger *slog.Logger) permission.Gate {
	if path == "" {
		path = permission.DefaultUinputPath
	}
	return permission.Cached(permission.Check("uinput", permission.WritableDevice(path), logger), permission.DefaultTTL)
}

func (b *Backend) MoveBy(dx, dy int, _ bool) {
	if b.cursor != nil {
		dx, dy = b.cursor.Move(dx, dy)
	}
	if dx == 0 && dy == 0 {
		return
	}
	b.check("move", b.mouse.Move(int32(dx), int32(dy)))
}

func (b *Backend) ButtonDown(btn engine.Button) {
	b.check("button down "+btn.String(), b.mouse.ButtonPress(buttonCode(btn)))
}

func (b *Backend) ButtonUp(btn engine.Button) {
	b.check("button up "+btn.String(), b.mouse.ButtonRelease(buttonCode(btn)))
}

// AuxButtonDown presses BTN_SIDE for 4 and BTN_EXTRA for 5.
func (b *Backend) AuxButtonDown(n int) {
	if code, ok := b.auxCode(n); ok {
		b.check("aux down", b.mouse.ButtonPress(code))
	}
}

func (b *Backend) AuxButtonUp(n int) {
	if code, ok := b.auxCode(n); ok {
		b.check("aux up", b.mouse.ButtonRelease(code))
	}
}

func (b *Backend) Scroll(dy int) {
	n := b.wheel.Detents(dy)
	if n == 0 {
		return
	}
	b.check("scroll", b.mouse.Wheel(false, int32(n)))
}

func (b *Backend) KeyDown(code uint16) {
	if key, ok := b.evdev(code); ok {
		b.check("key down", b.keyboard.KeyDown(key))
	}
}

func (b *Backend) KeyUp(code uint16) {
	if key, ok := b.evdev(code); ok {
		b.check("key up", b.keyboard.KeyUp(key))
	}
}

// Close destroys both virtual devices.
func (b *Backend) Close() error {
	return errors.Join(b.mouse.Close(), b.keyboard.Close())
}

func buttonCode(btn engine.Button) uint16 {
	switch btn {
	case engine.ButtonRight:
		return btnRight
	case engine.ButtonMiddle:
		return btnMiddle
	default:
		return btnLeft
	}
}

func (b *Backend) auxCode(n int) (uint16, bool) {
	switch n {
	case 4:
		return btnSide, true
	case 5:
		return btnExtra, true
	}
	b.logger.Debug("Unsupported auxiliary button", "button", n)
	return 0, false
}

func (b *Backend) evdev(code uint16) (int, bool) {
	key, ok := EvdevCode(code)
	if !ok {
		b.logger.Debug("No evdev code for key", "code", fmt.Sprintf("0x%02X", code))
	}
	return key, ok
}

func (b *Backend) check(op string, err error) {
	if err != nil {
		b.logger.Debug("Output event dropped", "op", op, "error", err)
	}
}
