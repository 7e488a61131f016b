// Package engine turns controller snapshots into pointer and keyboard output.
//
// Each tick the engine normalizes the latest snapshot, integrates stick motion
// into whole-pixel deltas, diffs the digital inputs against the previous tick
// and runs the bound action for every press or release edge. Anything the
// engine pressed is released again when it stops, loses the controller or
// swaps its binding table.
package engine

import (
	"math"

	"github.com/Alia5/padmapper/binding"
	"github.com/Alia5/padmapper/gamepad"
)

const (
	// StickDeadZone is the radial dead zone of the left stick.
	StickDeadZone = 0.15
	// ScrollDeadZone is the axial dead zone of the right stick's Y axis.
	ScrollDeadZone = 0.10
	// CursorSpeed is the pointer speed at full deflection, in pixels per second.
	CursorSpeed = 1600.0
	// ScrollSpeed is the scroll speed at full deflection, in units per second.
	ScrollSpeed = 2200.0
)

// Vec is a normalized 2D stick vector.
type Vec struct {
	X, Y float64
}

// Frame is a normalized snapshot.
type Frame struct {
	Pressed [binding.NumInputs]bool
	Left    Vec
	ScrollY float64
}

// Normalize digitizes s against the trigger threshold and applies the stick
// dead zones.
func Normalize(s gamepad.Snapshot, threshold float64) Frame {
	var f Frame
	f.Pressed[binding.DpadUp] = s.DpadUp
	f.Pressed[binding.DpadDown] = s.DpadDown
	f.Pressed[binding.DpadLeft] = s.DpadLeft
	f.Pressed[binding.DpadRight] = s.DpadRight
	f.Pressed[binding.FaceSouth] = s.FaceSouth
	f.Pressed[binding.FaceEast] = s.FaceEast
	f.Pressed[binding.FaceWest] = s.FaceWest
	f.Pressed[binding.FaceNorth] = s.FaceNorth
	f.Pressed[binding.L1] = s.L1
	f.Pressed[binding.R1] = s.R1
	f.Pressed[binding.L2] = s.L2 > threshold
	f.Pressed[binding.R2] = s.R2 > threshold
	f.Pressed[binding.L3] = s.L3
	f.Pressed[binding.R3] = s.R3
	f.Pressed[binding.Options] = s.Options
	f.Pressed[binding.Create] = s.Create

	f.Left = RadialDeadZone(s.LeftX, s.LeftY, StickDeadZone)
	f.ScrollY = AxialDeadZone(s.RightY, ScrollDeadZone)
	return f
}

// RadialDeadZone zeroes vectors shorter than dz and rescales the rest so the
// magnitude ramps linearly from 0 at the dead-zone edge to 1 at full
// deflection. Direction is preserved.
func RadialDeadZone(x, y, dz float64) Vec {
	m := math.Hypot(x, y)
	if m < dz || m == 0 {
		return Vec{}
	}
	scaled := math.Min((m-dz)/(1-dz), 1)
	return Vec{X: x / m * scaled, Y: y / m * scaled}
}

// AxialDeadZone applies the same ramp to a single axis, keeping its sign.
func AxialDeadZone(v, dz float64) float64 {
	m := math.Abs(v)
	if m < dz {
		return 0
	}
	return math.Copysign(math.Min((m-dz)/(1-dz), 1), v)
}
