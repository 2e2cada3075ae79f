package trellis

import (
	"math"

	"go.uber.org/zap"
)

// ArcLength returns the length of an arc of angle radians on a circle of
// radius r.
func ArcLength(angle, r float64) float64 {
	return angle * r
}

// ArcAngle returns the angle in radians subtended by an arc of length on a
// circle of radius r. A non-positive radius collapses every arc to 0.
func ArcAngle(length, r float64) float64 {
	if r <= 0 {
		return 0
	}
	return length / r
}

// CurvedConfig configures a CurvedLayout.
type CurvedConfig struct {
	LinearConfig
	// Radius of the ring or arch. Must be positive.
	Radius float64
}

// CurvedLayout bends a LinearLayout around a circle. Every extent the
// wrapped layout sees is an angle (length / radius), so its cache, gravity
// and viewport logic run unchanged in angular units. Items are rotated by
// their angular offset and pushed out to the radius along the facing axis.
type CurvedLayout struct {
	linear *LinearLayout
	radius float64
	facing Axis
}

// NewCurvedLayout creates a ring or arch layout. A radius that is not a
// positive finite number is logged and the layout degrades to radius 0,
// collapsing every item onto one point until SetRadius is given a valid
// value.
func NewCurvedLayout(cfg CurvedConfig) *CurvedLayout {
	c := &CurvedLayout{linear: NewLinearLayout(cfg.LinearConfig)}
	c.linear.toUnits = c.angle
	c.facing = AxisZ
	if c.linear.axis() == AxisZ {
		c.facing = AxisX
	}
	if validRadius(cfg.Radius) {
		c.radius = cfg.Radius
	} else {
		warnConfig("curved layout radius must be positive", zap.Float64("radius", cfg.Radius))
	}
	return c
}

func validRadius(r float64) bool {
	return r > 0 && !math.IsInf(r, 1)
}

// angle converts a host length to radians.
func (c *CurvedLayout) angle(length float64) float64 {
	if math.IsInf(length, 1) {
		return length
	}
	return ArcAngle(length, c.radius)
}

// length converts radians back to a host length.
func (c *CurvedLayout) length(angle float64) float64 {
	return ArcLength(angle, c.radius)
}

// Kind implements Layout.
func (c *CurvedLayout) Kind() LayoutKind { return KindCurved }

// Linear returns the wrapped layout. Its measurements are in radians.
func (c *CurvedLayout) Linear() *LinearLayout { return c.linear }

// Radius returns the current radius.
func (c *CurvedLayout) Radius() float64 { return c.radius }

// SetRadius changes the radius. Values that are not positive and finite are
// rejected.
func (c *CurvedLayout) SetRadius(r float64) {
	if !validRadius(r) {
		warnConfig("curved layout radius must be positive", zap.Float64("radius", r))
		return
	}
	if r != c.radius {
		c.radius = r
		c.linear.Invalidate()
	}
}

// FacingAxis returns the axis items are pushed out along. It defaults to
// AxisZ, or AxisX for a Stack orientation.
func (c *CurvedLayout) FacingAxis() Axis { return c.facing }

// SetFacingAxis changes the facing axis. It must differ from the orientation
// axis.
func (c *CurvedLayout) SetFacingAxis(a Axis) {
	if a > AxisZ || a == c.linear.axis() {
		warnConfig("facing axis must differ from the orientation axis",
			zap.Stringer("facing", a), zap.Stringer("orientation", c.linear.orientation))
		return
	}
	c.facing = a
}

// rotationAxis is the axis perpendicular to both orientation and facing.
func (c *CurvedLayout) rotationAxis() Axis {
	return 3 - c.linear.axis() - c.facing
}

// Handles implements Layout. A curved layout positions along the
// orientation and facing axes but only scrolls along the orientation axis.
func (c *CurvedLayout) Handles(axis Axis) bool { return c.linear.Handles(axis) }

func (c *CurvedLayout) Viewport() Vec3 { return c.linear.Viewport() }
func (c *CurvedLayout) SetViewport(v Vec3) { c.linear.SetViewport(v) }
func (c *CurvedLayout) ViewportEnabled() bool { return c.linear.ViewportEnabled() }
func (c *CurvedLayout) EnableViewport(enabled bool) { c.linear.EnableViewport(enabled) }
func (c *CurvedLayout) DividerPadding(axis Axis) float64 { return c.linear.DividerPadding(axis) }
func (c *CurvedLayout) Invalidate() { c.linear.Invalidate() }
func (c *CurvedLayout) InvalidateIndex(index int) { c.linear.InvalidateIndex(index) }
func (c *CurvedLayout) IsInvalidated() bool { return c.linear.IsInvalidated() }
func (c *CurvedLayout) IsMeasured(index int) bool { return c.linear.IsMeasured(index) }
func (c *CurvedLayout) MeasuredIndices() []int { return c.linear.MeasuredIndices() }
func (c *CurvedLayout) PostMeasurement() bool { return c.linear.PostMeasurement() }
func (c *CurvedLayout) Visibility(index int) Visibility { return c.linear.Visibility(index) }
func (c *CurvedLayout) InViewport(index int) bool { return c.linear.InViewport(index) }
func (c *CurvedLayout) Trim() []int { return c.linear.Trim() }
func (c *CurvedLayout) measureGaps(ds DataSource) []int { return c.linear.measureGaps(ds) }

func (c *CurvedLayout) SetDividerPadding(axis Axis, padding float64) {
	c.linear.SetDividerPadding(axis, padding)
}

func (c *CurvedLayout) MeasureChild(ds DataSource, index int) bool {
	return c.linear.MeasureChild(ds, index)
}

func (c *CurvedLayout) MeasureUntilFull(ds DataSource, center int) []int {
	return c.linear.MeasureUntilFull(ds, center)
}

func (c *CurvedLayout) DirectionToChild(index int, axis Axis) Direction {
	return c.linear.DirectionToChild(index, axis)
}

// Angle returns the angular offset of index in radians.
func (c *CurvedLayout) Angle(index int) (float64, bool) {
	cache := c.linear.Cache(index)
	if cache == nil {
		return 0, false
	}
	return cache.DataOffset(index)
}

// LayoutChild implements Layout. The item is rotated by its angle about the
// rotation axis and placed on the circle: r·sinθ along the orientation axis
// and r·cosθ along the facing axis.
func (c *CurvedLayout) LayoutChild(item Item, index int) {
	theta, ok := c.Angle(index)
	if !ok {
		return
	}
	o := c.linear.axis()
	sign := axisSign(o)
	sin, cos := math.Sincos(theta)
	item.SetOffset(o, sign*c.radius*sin)
	item.SetOffset(c.facing, c.radius*cos)
	item.SetRotation(c.rotationAxis(), -sign*theta)
}

func (c *CurvedLayout) PreMeasureNext(ds DataSource, axis Axis, dir Direction) float64 {
	return c.length(c.linear.PreMeasureNext(ds, axis, dir))
}

func (c *CurvedLayout) Overhang(axis Axis, dir Direction) float64 {
	return c.length(c.linear.Overhang(axis, dir))
}

func (c *CurvedLayout) ShiftBy(delta float64, axis Axis) {
	c.linear.ShiftBy(c.angle(delta), axis)
}

func (c *CurvedLayout) DistanceToChild(index int, axis Axis) (float64, bool) {
	d, ok := c.linear.DistanceToChild(index, axis)
	return c.length(d), ok
}

func (c *CurvedLayout) ContentSize(axis Axis) float64 {
	return c.length(c.linear.ContentSize(axis))
}

// AverageExtent returns the mean item arc length.
func (c *CurvedLayout) AverageExtent() (float64, bool) {
	a, ok := c.linear.AverageExtent()
	return c.length(a), ok
}
