package trellis

import (
	"math"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestArcRoundTrip(t *testing.T) {
	for _, r := range []float64{0.5, 1, 10, 260} {
		for _, theta := range []float64{-math.Pi, -0.3, 0, 0.7, 2 * math.Pi} {
			got := ArcAngle(ArcLength(theta, r), r)
			if !approxEqual(got, theta, 1e-12) {
				t.Errorf("r=%v theta=%v: round trip = %v", r, theta, got)
			}
		}
	}
}

func TestArcAngleNonPositiveRadius(t *testing.T) {
	if ArcAngle(5, 0) != 0 || ArcAngle(5, -1) != 0 {
		t.Error("non-positive radius should collapse every arc to 0")
	}
}

func TestCurvedRadiusValidation(t *testing.T) {
	logs := observeLogs(t, zapcore.WarnLevel)

	c := NewCurvedLayout(CurvedConfig{Radius: -2})
	if c.Radius() != 0 {
		t.Errorf("Radius = %v, want 0 after invalid construction", c.Radius())
	}
	c.SetRadius(10)
	c.SetRadius(0)
	c.SetRadius(math.NaN())
	if c.Radius() != 10 {
		t.Errorf("Radius = %v, want 10", c.Radius())
	}
	if n := logs.FilterMessage("curved layout radius must be positive").Len(); n != 3 {
		t.Errorf("logged %d radius warnings, want 3", n)
	}
}

func TestCurvedRejectsNonFiniteRadius(t *testing.T) {
	for _, r := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		logs := observeLogs(t, zapcore.WarnLevel)
		c := NewCurvedLayout(CurvedConfig{Radius: r})
		if c.Radius() != 0 {
			t.Errorf("radius %v: Radius = %v, want 0", r, c.Radius())
		}
		if logs.Len() != 1 {
			t.Errorf("radius %v: logged %d warnings, want 1", r, logs.Len())
		}
	}
}

func TestCurvedZeroRadiusStillVirtualizes(t *testing.T) {
	observeLogs(t, zapcore.WarnLevel)
	ds := newCells(5000, 10, 10)
	c := NewCurvedLayout(CurvedConfig{Radius: 0})
	c.SetViewport(Vec3{X: 50})
	c.EnableViewport(true)
	pass(c, ds, 0)

	if n := len(c.MeasuredIndices()); n != 1 {
		t.Errorf("measured %d items, want 1", n)
	}
}

func TestCurvedPlacement(t *testing.T) {
	const r = 10
	ds := newCells(3, r*0.5, 1)
	c := NewCurvedLayout(CurvedConfig{Radius: r})
	pass(c, ds, 0)

	// Three arcs of 0.5 rad centered on 0: -0.5, 0, 0.5.
	for i, want := range []float64{-0.5, 0, 0.5} {
		theta, ok := c.Angle(i)
		if !ok {
			t.Fatalf("Angle(%d) not ok", i)
		}
		if !approxEqual(theta, want, 1e-12) {
			t.Errorf("Angle(%d) = %v, want %v", i, theta, want)
		}
		cell := cellAt(ds, i)
		if !approxEqual(cell.X, r*math.Sin(want), 1e-9) {
			t.Errorf("cell %d X = %v, want %v", i, cell.X, r*math.Sin(want))
		}
		if !approxEqual(cell.Z, r*math.Cos(want), 1e-9) {
			t.Errorf("cell %d Z = %v, want %v", i, cell.Z, r*math.Cos(want))
		}
		if !approxEqual(cell.RotationY, -want, 1e-12) {
			t.Errorf("cell %d RotationY = %v, want %v", i, cell.RotationY, -want)
		}
	}
	assertNear(t, "content arc", c.ContentSize(AxisX), 15)
}

func TestCurvedFacingAxis(t *testing.T) {
	logs := observeLogs(t, zapcore.WarnLevel)

	c := NewCurvedLayout(CurvedConfig{Radius: 5})
	if c.FacingAxis() != AxisZ {
		t.Errorf("default facing = %v, want Z", c.FacingAxis())
	}
	c.SetFacingAxis(AxisX)
	if c.FacingAxis() != AxisZ || logs.Len() != 1 {
		t.Error("facing along the orientation axis should be rejected")
	}

	c.SetFacingAxis(AxisY)
	ds := newCells(1, 1, 1)
	pass(c, ds, 0)
	cell := cellAt(ds, 0)
	assertNear(t, "Y", cell.Y, 5)
	assertNear(t, "rotation about Z", cell.Rotation, 0)

	stack := NewCurvedLayout(CurvedConfig{LinearConfig: LinearConfig{Orientation: Stack}, Radius: 1})
	if stack.FacingAxis() != AxisX {
		t.Errorf("stack facing = %v, want X", stack.FacingAxis())
	}
}

func TestCurvedViewportInAngles(t *testing.T) {
	const r = 100
	ds := newCells(50, 10, 10)
	c := NewCurvedLayout(CurvedConfig{LinearConfig: LinearConfig{Gravity: GravityLeft}, Radius: r})
	c.SetViewport(Vec3{X: 50})
	c.EnableViewport(true)
	pass(c, ds, 0)

	// 50 units of arc hold five 10-unit items; the sixth closes the gap.
	if n := len(c.MeasuredIndices()); n != 6 {
		t.Errorf("measured %d items, want 6", n)
	}
	assertNear(t, "overhang", c.Overhang(AxisX, DirectionForward), 10)
	d, _ := c.DistanceToChild(2, AxisX)
	assertNear(t, "distance", d, 20)
	a, _ := c.AverageExtent()
	assertNear(t, "average arc", a, 10)

	// Item 1 is centered 15 units in from the left edge at -25.
	c.ShiftBy(-10, AxisX)
	theta, _ := c.Angle(1)
	assertNear(t, "angle after shift", theta, ArcAngle(-20, r))
}
