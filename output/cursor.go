// Package output holds what the pointer backends share: a tracked cursor
// position clamped to the visible displays.
package output

import (
	"sync"

	"github.com/Alia5/padmapper/display"
)

// Cursor tracks where the pointer should be so that relative motion never
// leaves the visible desktop. The position is seeded at the centre of the
// first display on the first move that sees a display.
type Cursor struct {
	mu     sync.Mutex
	cache  *display.Cache
	pos    display.Point
	seeded bool
}

func NewCursor(cache *display.Cache) *Cursor {
	return &Cursor{cache: cache}
}

// Move advances the tracked position by (dx, dy), clamps it to the nearest
// visible display and returns the delta actually applied. Without any
// display the delta passes through unchanged.
func (c *Cursor) Move(dx, dy int) (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.seeded {
		primary, ok := c.cache.Primary()
		if !ok {
			return dx, dy
		}
		c.pos = primary.Center()
		c.seeded = true
	}

	next := c.cache.ClampToNearestVisible(display.Point{X: c.pos.X + dx, Y: c.pos.Y + dy})
	adx, ady := next.X-c.pos.X, next.Y-c.pos.Y
	c.pos = next
	return adx, ady
}

// Position returns the tracked position and whether it has been seeded.
func (c *Cursor) Position() (display.Point, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos, c.seeded
}

// Warp sets the tracked position, clamped to the visible displays.
func (c *Cursor) Warp(p display.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = c.cache.ClampToNearestVisible(p)
	c.seeded = true
}
