package engine_test

import (
	"math"
	"testing"

	"github.com/Alia5/padmapper/binding"
	"github.com/Alia5/padmapper/engine"
	"github.com/Alia5/padmapper/gamepad"

	"github.com/stretchr/testify/assert"
)

func magnitude(v engine.Vec) float64 { return math.Hypot(v.X, v.Y) }

func TestRadialDeadZoneRamp(t *testing.T) {
	directions := []float64{0, math.Pi / 6, math.Pi / 2, 2.5, math.Pi, -math.Pi / 4}
	for _, dir := range directions {
		cos, sin := math.Cos(dir), math.Sin(dir)

		for _, m := range []float64{0, 0.05, 0.1, engine.StickDeadZone} {
			v := engine.RadialDeadZone(m*cos, m*sin, engine.StickDeadZone)
			assert.InDelta(t, 0, magnitude(v), 1e-9, "m=%v dir=%v", m, dir)
		}

		full := engine.RadialDeadZone(cos, sin, engine.StickDeadZone)
		assert.InDelta(t, 1, magnitude(full), 1e-9)
		assert.InDelta(t, cos, full.X, 1e-9, "direction preserved")
		assert.InDelta(t, sin, full.Y, 1e-9, "direction preserved")

		prev := 0.0
		for m := engine.StickDeadZone + 0.001; m <= 1; m += 0.01 {
			got := magnitude(engine.RadialDeadZone(m*cos, m*sin, engine.StickDeadZone))
			assert.GreaterOrEqual(t, got, prev, "monotonic at m=%v", m)
			assert.InDelta(t, (m-engine.StickDeadZone)/(1-engine.StickDeadZone), got, 1e-9)
			prev = got
		}
	}
}

func TestRadialDeadZoneClampsCorners(t *testing.T) {
	v := engine.RadialDeadZone(1, 1, engine.StickDeadZone)
	assert.InDelta(t, 1, magnitude(v), 1e-9)
}

func TestAxialDeadZone(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 0, want: 0},
		{in: 0.09, want: 0},
		{in: -0.09, want: 0},
		{in: 0.55, want: 0.5},
		{in: -0.55, want: -0.5},
		{in: 1, want: 1},
		{in: -1, want: -1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, engine.AxialDeadZone(tt.in, engine.ScrollDeadZone), 1e-9, "in=%v", tt.in)
	}
}

func TestNormalizeDigitizesTriggers(t *testing.T) {
	tests := []struct {
		name   string
		l2, r2 float64
		wantL2 bool
		wantR2 bool
	}{
		{name: "released", l2: 0, r2: 0},
		{name: "at threshold", l2: 0.60, r2: 0.60},
		{name: "above threshold", l2: 0.61, r2: 0.9, wantL2: true, wantR2: true},
		{name: "only right", l2: 0.2, r2: 1, wantR2: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := engine.Normalize(gamepad.Snapshot{L2: tt.l2, R2: tt.r2}, binding.DefaultTriggerThreshold)
			assert.Equal(t, tt.wantL2, f.Pressed[binding.L2])
			assert.Equal(t, tt.wantR2, f.Pressed[binding.R2])
		})
	}
}

func TestNormalizePassesButtonsThrough(t *testing.T) {
	s := gamepad.Snapshot{
		DpadUp:    true,
		FaceSouth: true,
		L1:        true,
		R3:        true,
		Create:    true,
		LeftX:     0.1,
		RightY:    -1,
	}
	f := engine.Normalize(s, 0.5)

	var want [binding.NumInputs]bool
	want[binding.DpadUp] = true
	want[binding.FaceSouth] = true
	want[binding.L1] = true
	want[binding.R3] = true
	want[binding.Create] = true
	assert.Equal(t, want, f.Pressed)
	assert.Equal(t, engine.Vec{}, f.Left)
	assert.InDelta(t, -1, f.ScrollY, 1e-9)
}
