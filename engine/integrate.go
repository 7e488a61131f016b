package engine

import "math"

// truncEpsilon absorbs float error so a carry of 0.9999999 counts as a unit.
const truncEpsilon = 1e-9

// Accumulator carries sub-unit motion between ticks so slow, steady input
// still produces whole-unit output without drift.
type Accumulator struct {
	acc float64
}

// Step adds v*speed*dt and returns the whole units that are ready, truncated
// toward zero. A zero input discards any remainder.
func (a *Accumulator) Step(v, speed, dt float64) int {
	if v == 0 {
		a.acc = 0
		return 0
	}
	a.acc += v * speed * dt
	d := int(a.acc + math.Copysign(truncEpsilon, a.acc))
	a.acc -= float64(d)
	return d
}

// Remainder returns the carried sub-unit value.
func (a *Accumulator) Remainder() float64 { return a.acc }

// Reset discards the carried value.
func (a *Accumulator) Reset() { a.acc = 0 }
