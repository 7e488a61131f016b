package engine

import (
	"fmt"

	"github.com/Alia5/padmapper/gamepad"
)

// Button is a primary pointer button.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	}
	return fmt.Sprintf("Button(%d)", uint8(b))
}

// Pointer is the pointer output surface. Calls are fire-and-forget;
// implementations clamp movement to the visible displays.
type Pointer interface {
	MoveBy(dx, dy int, dragging bool)
	ButtonDown(b Button)
	ButtonUp(b Button)
	// AuxButtonDown and AuxButtonUp take the conventional button number, 4 or 5.
	AuxButtonDown(n int)
	AuxButtonUp(n int)
	// Scroll moves the vertical wheel; positive scrolls up.
	Scroll(dy int)
}

// Keyboard is the keyboard output surface. Codes are HID keyboard usage codes.
type Keyboard interface {
	KeyDown(code uint16)
	KeyUp(code uint16)
}

// Source supplies controller snapshots and connectivity.
type Source interface {
	Current() gamepad.Snapshot
	Connected() bool
	// Connections delivers connect (true) and disconnect (false) notifications.
	Connections() <-chan bool
}

// Gate decides whether output injection is allowed.
type Gate interface {
	IsAuthorized() bool
}
