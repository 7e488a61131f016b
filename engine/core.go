package engine

import (
	"github.com/Alia5/padmapper/binding"
	"github.com/Alia5/padmapper/gamepad"
)

// Phase is the edge dispatcher state.
type Phase uint8

const (
	// PhaseIdle has no baseline; the next tick records one.
	PhaseIdle Phase = iota
	// PhaseTracking dispatches edges against the previous tick.
	PhaseTracking
)

func (p Phase) String() string {
	if p == PhaseTracking {
		return "tracking"
	}
	return "idle"
}

// Core is the single-threaded tick logic of the engine. It is not safe for
// concurrent use; Engine drives it from one goroutine.
type Core struct {
	pointer  Pointer
	keyboard Keyboard
	table    binding.Table
	dt       float64

	phase Phase
	prev  [binding.NumInputs]bool

	// asserted holds the action whose press effector ran for each input, so
	// the release always matches what was pressed.
	asserted  [binding.NumInputs]bool
	pressedBy [binding.NumInputs]binding.Action
	leftHolds int

	cursorX Accumulator
	cursorY Accumulator
	scroll  Accumulator

	ticks uint64
}

// NewCore returns an idle core. dt is the fixed tick period in seconds.
func NewCore(p Pointer, k Keyboard, t binding.Table, dt float64) *Core {
	return &Core{pointer: p, keyboard: k, table: t, dt: dt}
}

// Tick processes one snapshot. The first tick after construction or Reset
// only records the baseline.
func (c *Core) Tick(s gamepad.Snapshot) {
	c.ticks++
	f := Normalize(s, c.table.TriggerThreshold)

	if c.phase == PhaseIdle {
		c.prev = f.Pressed
		c.phase = PhaseTracking
		return
	}

	c.integrate(f)
	c.dispatch(f.Pressed)
	c.prev = f.Pressed
}

func (c *Core) integrate(f Frame) {
	dx := c.cursorX.Step(f.Left.X, CursorSpeed, c.dt)
	dy := c.cursorY.Step(f.Left.Y, CursorSpeed, c.dt)
	if dx != 0 || dy != 0 {
		// Stick Y is positive-up, screen Y grows downward.
		c.pointer.MoveBy(dx, -dy, c.leftHolds > 0)
	}
	if d := c.scroll.Step(f.ScrollY, ScrollSpeed, c.dt); d != 0 {
		c.pointer.Scroll(d)
	}
}

func (c *Core) dispatch(now [binding.NumInputs]bool) {
	for _, id := range binding.Order {
		was, is := c.prev[id], now[id]
		switch {
		case was == is:
		case is:
			a := c.table.Lookup(id)
			if a.IsNone() {
				continue
			}
			c.press(a)
			c.asserted[id] = true
			c.pressedBy[id] = a
		case c.asserted[id]:
			c.release(c.pressedBy[id])
			c.asserted[id] = false
			c.pressedBy[id] = binding.Action{}
		}
	}
}

// ReleaseAll runs the release effector for every asserted input exactly
// once, in dispatch order, and clears the asserted set. The previous pressed
// map is kept so inputs still held do not re-fire.
func (c *Core) ReleaseAll() {
	for _, id := range binding.Order {
		if !c.asserted[id] {
			continue
		}
		c.release(c.pressedBy[id])
		c.asserted[id] = false
		c.pressedBy[id] = binding.Action{}
	}
	c.leftHolds = 0
}

// Reset releases everything and returns to PhaseIdle with cleared state.
func (c *Core) Reset() {
	c.ReleaseAll()
	c.phase = PhaseIdle
	c.prev = [binding.NumInputs]bool{}
	c.cursorX.Reset()
	c.cursorY.Reset()
	c.scroll.Reset()
}

// Swap releases everything pressed under the current table and adopts t.
func (c *Core) Swap(t binding.Table) {
	c.ReleaseAll()
	c.table = t
}

// Table returns the active binding table.
func (c *Core) Table() binding.Table { return c.table }

// Phase returns the dispatcher state.
func (c *Core) Phase() Phase { return c.phase }

// Ticks returns the number of processed ticks.
func (c *Core) Ticks() uint64 { return c.ticks }

// Pressed returns the inputs held as of the last tick, in dispatch order.
func (c *Core) Pressed() []binding.InputID {
	var out []binding.InputID
	for _, id := range binding.Order {
		if c.prev[id] {
			out = append(out, id)
		}
	}
	return out
}

// Asserted returns the inputs whose press effector ran and has not been
// released yet, in dispatch order.
func (c *Core) Asserted() []binding.InputID {
	var out []binding.InputID
	for _, id := range binding.Order {
		if c.asserted[id] {
			out = append(out, id)
		}
	}
	return out
}
