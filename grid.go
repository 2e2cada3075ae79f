package trellis

import (
	"math"
	"slices"

	"go.uber.org/zap"
)

// GridConfig configures a GridLayout.
type GridConfig struct {
	// Orientation is the scrolling direction. Vertical grids have Count
	// columns; horizontal grids have Count rows. Stack is not supported.
	Orientation Orientation
	// Count is the number of columns (vertical) or rows (horizontal).
	Count int
	// CellWidth and CellHeight fix the cell size. Zero measures items.
	CellWidth, CellHeight float64
	// DividerPadding holds the gap between columns (X) and rows (Y).
	DividerPadding Vec3
	// GravityX and GravityY align the grid inside the viewport.
	GravityX, GravityY Gravity
	// MeasuredCells turns off uniform cell sizing, which is on by default.
	MeasuredCells bool
	// OuterPadding adds half a divider around the grid edges.
	OuterPadding bool
}

// GridLayout realizes a 2-D grid from a 1-D data source with two chunked
// LinearLayouts, one per axis. The cross axis (across the scroll direction)
// is chunked by Count, so each of its chunks is one line of cells; the
// scrolling axis is chunked to Count, so each chunk is one column (or row)
// running along the scroll direction.
//
// PostMeasurement runs in two phases. The cross axis finalizes first and
// decides how much a fixed cell size must shrink for Count cells to fit;
// the scrolling axis then applies the same ratio to its own fixed cell size
// so cells keep their aspect.
type GridLayout struct {
	layoutState

	orientation Orientation
	count       int
	cellSize    Vec3
	gravity     [2]Gravity
	uniform     bool
	outer       bool

	x, y *LinearLayout
}

// NewGridLayout creates a grid. A missing Count or a Stack orientation is
// logged and replaced with a one-line vertical grid.
func NewGridLayout(cfg GridConfig) *GridLayout {
	g := &GridLayout{
		layoutState: newLayoutState(),
		orientation: Vertical,
		count:       1,
		gravity:     [2]Gravity{cfg.GravityX, cfg.GravityY},
		uniform:     !cfg.MeasuredCells,
		outer:       cfg.OuterPadding,
	}
	if cfg.Orientation == Stack {
		warnConfig("grid layout does not support stack orientation")
	} else {
		g.orientation = cfg.Orientation
	}
	if cfg.Count <= 0 {
		warnConfig("grid layout needs a positive chunk count", zap.Int("count", cfg.Count))
	} else {
		g.count = cfg.Count
	}
	g.setDividerPadding(AxisX, cfg.DividerPadding.X)
	g.setDividerPadding(AxisY, cfg.DividerPadding.Y)
	for _, a := range []Axis{AxisX, AxisY} {
		if v := cfg.cellSize(a); v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			warnConfig("cell size must be finite and non-negative", zap.Stringer("axis", a), zap.Float64("size", v))
		} else {
			g.cellSize.Set(a, v)
		}
	}
	g.rebuild()
	return g
}

func (cfg GridConfig) cellSize(axis Axis) float64 {
	if axis == AxisX {
		return cfg.CellWidth
	}
	return cfg.CellHeight
}

// rebuild recreates both axis layouts from the grid configuration.
func (g *GridLayout) rebuild() {
	var bx, by ChunkBreaker
	if g.orientation == Vertical {
		bx, by = ChunkBreakerBy(g.count), ChunkBreakerTo(g.count)
	} else {
		bx, by = ChunkBreakerTo(g.count), ChunkBreakerBy(g.count)
	}
	g.x = newLinearLayout(LinearConfig{
		Orientation:    Horizontal,
		Gravity:        g.gravity[0],
		DividerPadding: g.divider.X,
		UniformSize:    g.uniform,
		OuterPadding:   g.outer,
	}, bx)
	g.y = newLinearLayout(LinearConfig{
		Orientation:    Vertical,
		Gravity:        g.gravity[1],
		DividerPadding: g.divider.Y,
		UniformSize:    g.uniform,
		OuterPadding:   g.outer,
	}, by)
	g.x.fixedSize = g.cellSize.X
	g.y.fixedSize = g.cellSize.Y
	for _, l := range []*LinearLayout{g.x, g.y} {
		l.setViewport(g.viewport)
		l.enableViewport(g.viewportEnabled)
	}
	g.clearMeasured()
}

// Kind implements Layout.
func (g *GridLayout) Kind() LayoutKind { return KindGrid }

// Handles implements Layout.
func (g *GridLayout) Handles(axis Axis) bool { return axis == AxisX || axis == AxisY }

// Orientation returns the scrolling direction.
func (g *GridLayout) Orientation() Orientation { return g.orientation }

// SetOrientation changes the scrolling direction. Stack is rejected.
func (g *GridLayout) SetOrientation(o Orientation) {
	if o != Horizontal && o != Vertical {
		warnConfig("grid layout does not support orientation", zap.Stringer("orientation", o))
		return
	}
	if o != g.orientation {
		g.orientation = o
		g.rebuild()
	}
}

// Count returns the number of columns (vertical) or rows (horizontal).
func (g *GridLayout) Count() int { return g.count }

// SetCount changes the number of columns or rows.
func (g *GridLayout) SetCount(n int) {
	if n <= 0 {
		warnConfig("grid layout needs a positive chunk count", zap.Int("count", n))
		return
	}
	if n != g.count {
		g.count = n
		g.rebuild()
	}
}

// SetCellWidth fixes the cell width. Zero returns to measured widths.
func (g *GridLayout) SetCellWidth(w float64) { g.setCellSize(AxisX, w) }

// SetCellHeight fixes the cell height. Zero returns to measured heights.
func (g *GridLayout) SetCellHeight(h float64) { g.setCellSize(AxisY, h) }

func (g *GridLayout) setCellSize(axis Axis, v float64) {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		warnConfig("cell size must be finite and non-negative", zap.Stringer("axis", axis), zap.Float64("size", v))
		return
	}
	if g.cellSize.Get(axis) == v {
		return
	}
	g.cellSize.Set(axis, v)
	g.layoutFor(axis).fixedSize = v
	g.Invalidate()
}

// CellSize returns the cell size currently applied on each axis, after any
// shrink-to-fit. Components are 0 until a pass has run.
func (g *GridLayout) CellSize() Vec3 {
	var out Vec3
	for _, l := range []*LinearLayout{g.x, g.y} {
		out.Set(l.axis(), l.cellSize())
	}
	return out
}

// Rows returns the layout arranging cells along X: rows of cells for a
// vertical grid, or rows chunked round-robin for a horizontal one.
func (g *GridLayout) Rows() *LinearLayout { return g.x }

// Columns returns the layout arranging cells along Y.
func (g *GridLayout) Columns() *LinearLayout { return g.y }

func (g *GridLayout) layoutFor(axis Axis) *LinearLayout {
	switch axis {
	case AxisX:
		return g.x
	case AxisY:
		return g.y
	}
	return nil
}

// cross is the layout across the scroll direction; main runs along it.
func (g *GridLayout) cross() *LinearLayout {
	if g.orientation == Vertical {
		return g.x
	}
	return g.y
}

func (g *GridLayout) main() *LinearLayout {
	if g.orientation == Vertical {
		return g.y
	}
	return g.x
}

// SetViewport implements Layout.
func (g *GridLayout) SetViewport(v Vec3) {
	if g.setViewport(v) {
		g.x.SetViewport(v)
		g.y.SetViewport(v)
		g.clearMeasured()
	}
}

// EnableViewport implements Layout.
func (g *GridLayout) EnableViewport(enabled bool) {
	if g.enableViewport(enabled) {
		g.x.EnableViewport(enabled)
		g.y.EnableViewport(enabled)
		g.clearMeasured()
	}
}

// SetDividerPadding implements Layout. X spaces columns, Y spaces rows.
func (g *GridLayout) SetDividerPadding(axis Axis, padding float64) {
	l := g.layoutFor(axis)
	if l == nil {
		warnConfig("grid layout has no divider on axis", zap.Stringer("axis", axis))
		return
	}
	if g.setDividerPadding(axis, padding) {
		l.SetDividerPadding(axis, padding)
		g.Invalidate()
	}
}

// Invalidate implements Layout.
func (g *GridLayout) Invalidate() {
	g.x.Invalidate()
	g.y.Invalidate()
	g.clearMeasured()
}

// InvalidateIndex implements Layout.
func (g *GridLayout) InvalidateIndex(index int) {
	g.x.InvalidateIndex(index)
	g.y.InvalidateIndex(index)
	g.unmarkMeasured(index)
}

// MeasureChild implements Layout. An item counts as measured once both axes
// have it.
func (g *GridLayout) MeasureChild(ds DataSource, index int) bool {
	if g.IsMeasured(index) {
		return true
	}
	if !g.x.MeasureChild(ds, index) || !g.y.MeasureChild(ds, index) {
		g.x.InvalidateIndex(index)
		g.y.InvalidateIndex(index)
		return false
	}
	g.markMeasured(index)
	return true
}

// MeasureUntilFull implements Layout. Measurement starts at the beginning of
// the line holding center and proceeds in whole lines so that every chunk
// of the scrolling axis starts on the same line.
func (g *GridLayout) MeasureUntilFull(ds DataSource, center int) []int {
	n := ds.Len()
	if n == 0 {
		return nil
	}
	center = max(0, min(center, n-1))
	start := center / g.count * g.count
	main := g.main()

	var out []int
	measure := func(i int) {
		if !g.IsMeasured(i) && g.MeasureChild(ds, i) {
			out = append(out, i)
		}
	}
	for i := start; i < n; i++ {
		measure(i)
		if (i+1)%g.count == 0 && main.full() {
			break
		}
	}
	if !main.full() {
		for i := start - 1; i >= 0; i-- {
			measure(i)
			if i%g.count == 0 && main.full() {
				break
			}
		}
	}
	return out
}

func (g *GridLayout) measureGaps(ds DataSource) []int {
	lo, hi, ok := g.measuredRange()
	if !ok {
		return nil
	}
	var out []int
	for i := lo; i <= hi; i++ {
		if !g.IsMeasured(i) && g.MeasureChild(ds, i) {
			out = append(out, i)
		}
	}
	return out
}

// PostMeasurement implements Layout.
func (g *GridLayout) PostMeasurement() bool {
	cross, main := g.cross(), g.main()

	// Phase A: the cross axis settles its cell size.
	cross.sizeScale = cross.fitRatio(g.count)
	inCross := cross.PostMeasurement()

	// Phase B: the scrolling axis reads the ratio phase A settled on.
	main.sizeScale = cross.sizeScale
	inMain := main.PostMeasurement()

	return inCross && inMain
}

// LayoutChild implements Layout.
func (g *GridLayout) LayoutChild(item Item, index int) {
	g.x.LayoutChild(item, index)
	g.y.LayoutChild(item, index)
}

// Visibility implements Layout.
func (g *GridLayout) Visibility(index int) Visibility {
	vx, vy := g.x.Visibility(index), g.y.Visibility(index)
	switch {
	case vx == Invisible || vy == Invisible:
		return Invisible
	case vx == Visible && vy == Visible:
		return Visible
	default:
		return Placeholder
	}
}

// InViewport implements Layout.
func (g *GridLayout) InViewport(index int) bool {
	return g.Visibility(index) != Invisible
}

// PreMeasureNext implements Layout. Only the scrolling axis pre-measures; it
// adds a whole line of cells at a time.
func (g *GridLayout) PreMeasureNext(ds DataSource, axis Axis, dir Direction) float64 {
	main := g.main()
	if axis != main.axis() || dir == DirectionNone {
		return 0
	}
	extent, measured := main.preMeasureLine(ds, dir)
	for _, i := range measured {
		if g.x.MeasureChild(ds, i) && g.y.MeasureChild(ds, i) {
			g.markMeasured(i)
		}
	}
	return extent
}

// Overhang implements Layout.
func (g *GridLayout) Overhang(axis Axis, dir Direction) float64 {
	if l := g.layoutFor(axis); l != nil {
		return l.Overhang(axis, dir)
	}
	return 0
}

// ShiftBy implements Layout.
func (g *GridLayout) ShiftBy(delta float64, axis Axis) {
	if l := g.layoutFor(axis); l != nil {
		l.ShiftBy(delta, axis)
	}
}

// DistanceToChild implements Layout.
func (g *GridLayout) DistanceToChild(index int, axis Axis) (float64, bool) {
	if l := g.layoutFor(axis); l != nil {
		return l.DistanceToChild(index, axis)
	}
	return 0, false
}

// DirectionToChild implements Layout.
func (g *GridLayout) DirectionToChild(index int, axis Axis) Direction {
	if l := g.layoutFor(axis); l != nil {
		return l.DirectionToChild(index, axis)
	}
	return DirectionNone
}

// ContentSize implements Layout.
func (g *GridLayout) ContentSize(axis Axis) float64 {
	if l := g.layoutFor(axis); l != nil {
		return l.ContentSize(axis)
	}
	return 0
}

// AverageExtent returns the mean line extent along the scrolling axis,
// divided by Count so that it converts distances into data indices.
func (g *GridLayout) AverageExtent() (float64, bool) {
	a, ok := g.main().AverageExtent()
	if !ok {
		return 0, false
	}
	return a / float64(g.count), true
}

// Trim implements Layout. A cell trimmed on either axis is dropped from
// both.
func (g *GridLayout) Trim() []int {
	removed := append(g.x.Trim(), g.y.Trim()...)
	slices.Sort(removed)
	removed = slices.Compact(removed)
	for _, i := range removed {
		g.x.InvalidateIndex(i)
		g.y.InvalidateIndex(i)
		g.unmarkMeasured(i)
	}
	return removed
}
