package trellis

import "github.com/hajimehoshi/ebiten/v2"

// cellIDCounter is not atomic; cells are created on the update thread.
var cellIDCounter uint32

func nextCellID() uint32 {
	cellIDCounter++
	return cellIDCounter
}

// Cell is a ready-made Item. It records the placement the engine computes
// and exposes it as a 2D affine transform for drawing. Offsets address the
// cell's center: the pivot defaults to the middle of the cell.
type Cell struct {
	// Identity
	ID   uint32
	Name string

	// Extent per axis, read by the layouts.
	Width, Height, Depth float64

	// Placement (written by the layouts)
	X, Y, Z float64
	// Rotation is about the Z axis, the only rotation visible in 2D.
	Rotation float64
	// RotationX and RotationY are kept for hosts that render in 3D.
	RotationX, RotationY float64

	ScaleX, ScaleY float64
	PivotX, PivotY float64

	Visibility Visibility

	// Metadata
	UserData any

	transform      [6]float64
	transformDirty bool
}

// NewCell creates a cell of the given width and height with its pivot at the
// center.
func NewCell(name string, width, height float64) *Cell {
	c := &Cell{
		ID:     nextCellID(),
		Name:   name,
		Width:  width,
		Height: height,
		ScaleX: 1,
		ScaleY: 1,
		PivotX: width / 2,
		PivotY: height / 2,
	}
	c.transformDirty = true
	return c
}

// Size implements Item.
func (c *Cell) Size(axis Axis) float64 {
	switch axis {
	case AxisX:
		return c.Width
	case AxisY:
		return c.Height
	case AxisZ:
		return c.Depth
	}
	mustAxis(axis)
	return 0
}

// SetSize resizes the cell and recenters its pivot.
func (c *Cell) SetSize(width, height float64) {
	c.Width, c.Height = width, height
	c.PivotX, c.PivotY = width/2, height/2
	c.transformDirty = true
}

// SetOffset implements Item.
func (c *Cell) SetOffset(axis Axis, offset float64) {
	switch axis {
	case AxisX:
		c.X = offset
	case AxisY:
		c.Y = offset
	case AxisZ:
		c.Z = offset
	default:
		mustAxis(axis)
	}
	c.transformDirty = true
}

// SetRotation implements Item.
func (c *Cell) SetRotation(axis Axis, radians float64) {
	switch axis {
	case AxisX:
		c.RotationX = radians
	case AxisY:
		c.RotationY = radians
	case AxisZ:
		c.Rotation = radians
	default:
		mustAxis(axis)
	}
	c.transformDirty = true
}

// SetVisibility implements Item.
func (c *Cell) SetVisibility(v Visibility) {
	c.Visibility = v
}

// Offset returns the cell's position as a Vec3.
func (c *Cell) Offset() Vec3 {
	return Vec3{X: c.X, Y: c.Y, Z: c.Z}
}

// Transform returns the cell's local affine matrix [a, b, c, d, tx, ty],
// recomputing it if the placement changed.
func (c *Cell) Transform() [6]float64 {
	if c.transformDirty {
		c.transform = computeLocalTransform(c)
		c.transformDirty = false
	}
	return c.transform
}

// GeoM returns the cell's transform as an ebiten.GeoM, composed with view so
// that layout space (Y up, origin at the container center) maps to the
// screen.
func (c *Cell) GeoM(view ebiten.GeoM) ebiten.GeoM {
	t := c.Transform()
	var m ebiten.GeoM
	m.SetElement(0, 0, t[0])
	m.SetElement(1, 0, t[1])
	m.SetElement(0, 1, t[2])
	m.SetElement(1, 1, t[3])
	m.SetElement(0, 2, t[4])
	m.SetElement(1, 2, t[5])
	m.Concat(view)
	return m
}

// Bounds returns the axis-aligned bounds of the cell in layout space.
func (c *Cell) Bounds() Rect {
	return worldAABB(c.Transform(), c.Width, c.Height)
}
