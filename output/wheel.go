package output

import "sync"

// PixelsPerDetent converts scroll distance to wheel detents. It matches the
// Windows WHEEL_DELTA so every backend scrolls at the same rate.
const PixelsPerDetent = 120

// Wheel turns scroll distance in pixels into whole wheel detents, carrying
// the remainder so slow scrolling still advances.
type Wheel struct {
	mu  sync.Mutex
	rem int
}

// Detents adds px and returns the detents to emit. Positive is up.
func (w *Wheel) Detents(px int) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if px != 0 && (px > 0) != (w.rem > 0) {
		w.rem = 0
	}
	w.rem += px
	n := w.rem / PixelsPerDetent
	w.rem -= n * PixelsPerDetent
	return n
}
