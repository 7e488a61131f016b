// Package display tracks the active display rectangles and clamps pointer
// positions onto them.
package display

import (
	"fmt"
	"image"
	"sync"
)

// Point is a pixel position in global desktop coordinates.
type Point struct {
	X, Y int
}

// Rect is a display's bounds in global desktop coordinates.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@%d,%d", r.W, r.H, r.X, r.Y)
}

// Center returns the middle pixel of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies on r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Clamp moves p onto r along each axis independently.
func (r Rect) Clamp(p Point) Point {
	return Point{X: clamp(p.X, r.X, r.X+r.W-1), Y: clamp(p.Y, r.Y, r.Y+r.H-1)}
}

// FromImage converts an image.Rectangle.
func FromImage(b image.Rectangle) Rect {
	return Rect{X: b.Min.X, Y: b.Min.Y, W: b.Dx(), H: b.Dy()}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Cache holds the current display layout. Readers never block each other;
// Replace swaps the whole layout.
type Cache struct {
	mu    sync.RWMutex
	rects []Rect
}

func NewCache(rects ...Rect) *Cache {
	c := &Cache{}
	c.Replace(rects)
	return c
}

// Replace installs a new layout. Empty rectangles are ignored.
func (c *Cache) Replace(rects []Rect) {
	next := make([]Rect, 0, len(rects))
	for _, r := range rects {
		if r.W > 0 && r.H > 0 {
			next = append(next, r)
		}
	}
	c.mu.Lock()
	c.rects = next
	c.mu.Unlock()
}

// Rects returns a copy of the current layout.
func (c *Cache) Rects() []Rect {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Rect(nil), c.rects...)
}

// Primary returns the first display, if any.
func (c *Cache) Primary() (Rect, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.rects) == 0 {
		return Rect{}, false
	}
	return c.rects[0], true
}

// ClampToNearestVisible returns the point on any display closest to p, by
// squared distance. Ties go to the earlier display; with no displays p is
// returned unchanged.
func (c *Cache) ClampToNearestVisible(p Point) Point {
	c.mu.RLock()
	rects := c.rects
	c.mu.RUnlock()

	best, bestDist := p, -1
	for _, r := range rects {
		q := r.Clamp(p)
		dx, dy := q.X-p.X, q.Y-p.Y
		d := dx*dx + dy*dy
		if bestDist < 0 || d < bestDist {
			best, bestDist = q, d
		}
	}
	return best
}

// Equal reports whether both layouts are identical, order included.
func Equal(a, b []Rect) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
