package output

import (
	"io"

	"github.com/Alia5/padmapper/engine"
)

// Device is an output backend: a virtual pointer and keyboard that must be
// closed on exit.
type Device interface {
	engine.Pointer
	engine.Keyboard
	io.Closer
}
