//go:build windows

package win32out

import (
	"log/slog"
	"unsafe"

	"github.com/Alia5/padmapper/display"
	"github.com/Alia5/padmapper/output"

	"golang.org/x/sys/windows"
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	procMouseEvent   = user32.NewProc("mouse_event")
	procKeybdEvent   = user32.NewProc("keybd_event")
	procGetCursorPos = user32.NewProc("GetCursorPos")
)

type user32Injector struct{}

func (user32Injector) mouseEvent(flags uint32, dx, dy int32, data int32) error {
	if err := procMouseEvent.Find(); err != nil {
		return err
	}
	_, _, _ = procMouseEvent.Call(uintptr(flags), uintptr(dx), uintptr(dy), uintptr(data), 0)
	return nil
}

func (user32Injector) keybdEvent(vk uint8, flags uint32) error {
	if err := procKeybdEvent.Find(); err != nil {
		return err
	}
	_, _, _ = procKeybdEvent.Call(uintptr(vk), 0, uintptr(flags), 0)
	return nil
}

func (user32Injector) cursorPos() (display.Point, error) {
	var pt struct{ X, Y int32 }
	if err := procGetCursorPos.Find(); err != nil {
		return display.Point{}, err
	}
	r, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if r == 0 {
		return display.Point{}, err
	}
	return display.Point{X: int(pt.X), Y: int(pt.Y)}, nil
}

// Open returns a backend injecting through user32.
func Open(cursor *output.Cursor, logger *slog.Logger) (*Backend, error) {
	if err := user32.Load(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return newBackend(user32Injector{}, cursor, logger), nil
}
