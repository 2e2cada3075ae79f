package trellis

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// computeLocalTransform computes the cell's affine matrix from its placement.
// Returns [a, b, c, d, tx, ty].
//
// Cell-local space is image space (origin top-left, Y down) while layout
// space is Y up, so the pivot step also flips Y. Composition order:
//
//	Translate(-PivotX, -PivotY) -> FlipY -> Scale -> Rotate -> Translate(X, Y)
func computeLocalTransform(c *Cell) [6]float64 {
	sx := c.ScaleX
	sy := -c.ScaleY
	sin, cos := math.Sincos(c.Rotation)

	preTx := -c.PivotX * sx
	preTy := -c.PivotY * sy

	return [6]float64{
		cos * sx,
		sin * sx,
		-sin * sy,
		cos * sy,
		cos*preTx - sin*preTy + c.X,
		sin*preTx + cos*preTy + c.Y,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// worldAABB computes the axis-aligned bounding box for a rectangle of size
// (w, h) transformed by the given affine matrix.
func worldAABB(t [6]float64, w, h float64) Rect {
	x0, y0 := transformPoint(t, 0, 0)
	x1, y1 := transformPoint(t, w, 0)
	x2, y2 := transformPoint(t, w, h)
	x3, y3 := transformPoint(t, 0, h)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// LayoutToLocal converts a layout-space point into the cell's own space.
func (c *Cell) LayoutToLocal(x, y float64) (float64, float64) {
	return transformPoint(invertAffine(c.Transform()), x, y)
}

// ScreenView returns the matrix mapping layout space (origin at the center,
// Y up) onto a screen region (origin top-left, Y down) of the given size,
// scaled by unit pixels per layout unit.
func ScreenView(screen Rect, unit float64) ebiten.GeoM {
	var m ebiten.GeoM
	m.Scale(unit, -unit)
	m.Translate(screen.X+screen.Width/2, screen.Y+screen.Height/2)
	return m
}

// ScreenToLayout maps a screen point back into layout space for the view
// built by ScreenView(screen, unit).
func ScreenToLayout(screen Rect, unit, sx, sy float64) (float64, float64) {
	return transformPoint(invertAffine(viewMatrix(screen, unit)), sx, sy)
}

// viewMatrix is ScreenView as a raw affine matrix.
func viewMatrix(screen Rect, unit float64) [6]float64 {
	return [6]float64{unit, 0, 0, -unit, screen.X + screen.Width/2, screen.Y + screen.Height/2}
}

// ScreenBounds returns the cell's bounds in screen space for the given view.
func (c *Cell) ScreenBounds(screen Rect, unit float64) Rect {
	return worldAABB(multiplyAffine(viewMatrix(screen, unit), c.Transform()), c.Width, c.Height)
}

// HitTest reports whether the layout-space point (x, y) falls on the cell.
// Invisible cells are never hit.
func (c *Cell) HitTest(x, y float64) bool {
	if c.Visibility == Invisible {
		return false
	}
	if !c.Bounds().Contains(x, y) {
		return false
	}
	lx, ly := c.LayoutToLocal(x, y)
	return Rect{Width: c.Width, Height: c.Height}.Contains(lx, ly)
}
