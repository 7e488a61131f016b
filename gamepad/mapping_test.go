package gamepad

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAxis(t *testing.T) {
	assert.InDelta(t, 0, NormalizeAxis(0), 1e-9)
	assert.InDelta(t, 1, NormalizeAxis(math.MaxInt16), 1e-9)
	assert.InDelta(t, -1, NormalizeAxis(math.MinInt16), 1e-9)
}

func TestNormalizeTrigger(t *testing.T) {
	tests := []struct {
		name     string
		raw      int16
		min, max int16
		want     float64
	}{
		{name: "full range rest", raw: math.MinInt16, min: math.MinInt16, max: math.MaxInt16, want: 0},
		{name: "full range pulled", raw: math.MaxInt16, min: math.MinInt16, max: math.MaxInt16, want: 1},
		{name: "half range rest", raw: 0, min: 0, max: math.MaxInt16, want: 0},
		{name: "below range clamps", raw: -100, min: 0, max: math.MaxInt16, want: 0},
		{name: "degenerate range", raw: 10, min: 5, max: 5, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeTrigger(tt.raw, tt.min, tt.max), 1e-9)
		})
	}
}

func TestStandardMappingInvertsY(t *testing.T) {
	m := GetMapping(0x045E, 0x0B13)
	var s Snapshot
	for _, am := range m.Axes {
		if am.Target == axisLeftY {
			am.Apply(&s, math.MaxInt16) // SDL down
		}
	}
	assert.InDelta(t, -1, s.LeftY, 1e-9)
}

func TestButtonsAndHat(t *testing.T) {
	var s Snapshot
	ButtonMapping{Target: btnSouth}.Apply(&s, true)
	ButtonMapping{Target: btnCreate}.Apply(&s, true)
	ButtonMapping{Target: btnHome}.Apply(&s, true)
	ApplyHat(&s, hatUp|hatLeft)

	assert.True(t, s.FaceSouth)
	assert.True(t, s.Create)
	assert.True(t, s.DpadUp)
	assert.True(t, s.DpadLeft)
	assert.False(t, s.DpadDown)
	assert.False(t, s.DpadRight)
}

func TestGetMappingFallsBackToGeneric(t *testing.T) {
	m := GetMapping(0xFFFF, 0xFFFF)
	assert.NotNil(t, m)
	assert.NotEmpty(t, m.Axes)
}

func TestSlot(t *testing.T) {
	var slot Slot
	assert.Equal(t, Snapshot{}, slot.Load())

	slot.Store(Snapshot{LeftX: 0.5, FaceSouth: true})
	slot.Store(Snapshot{LeftX: -0.25})
	assert.Equal(t, Snapshot{LeftX: -0.25}, slot.Load())

	slot.Reset()
	assert.Equal(t, Snapshot{}, slot.Load())
}
