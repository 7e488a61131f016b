// Package gamepad holds controller snapshots and the raw-to-snapshot device
// mappings. Hardware sampling lives in gamepad/sdlreader.
package gamepad

import "sync/atomic"

// Snapshot is the controller state at one sampling instant. Stick axes are in
// [-1, 1] with Y positive-up; triggers are in [0, 1].
type Snapshot struct {
	LeftX, LeftY   float64
	RightX, RightY float64
	L2, R2         float64

	DpadUp, DpadDown, DpadLeft, DpadRight bool

	FaceSouth, FaceEast, FaceWest, FaceNorth bool

	L1, R1, L3, R3  bool
	Options, Create bool
}

// Slot is a single-slot "latest value" cell. Writers replace the snapshot
// wholesale; readers always see a complete one. Updates between reads are
// coalesced.
type Slot struct {
	p atomic.Pointer[Snapshot]
}

// Store publishes snap as the latest snapshot.
func (s *Slot) Store(snap Snapshot) {
	s.p.Store(&snap)
}

// Load returns the latest snapshot, or the zero snapshot if none was stored.
func (s *Slot) Load() Snapshot {
	if p := s.p.Load(); p != nil {
		return *p
	}
	return Snapshot{}
}

// Reset clears the slot back to the zero snapshot.
func (s *Slot) Reset() {
	s.p.Store(nil)
}
