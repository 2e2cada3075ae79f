package trellis

import (
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"
)

// LayoutKind tags the closed set of layout variants.
type LayoutKind uint8

const (
	KindLinear LayoutKind = iota
	KindCurved
	KindGrid
)

func (k LayoutKind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindCurved:
		return "curved"
	case KindGrid:
		return "grid"
	default:
		return fmt.Sprintf("LayoutKind(%d)", uint8(k))
	}
}

// Layout is the contract shared by LinearLayout, CurvedLayout and
// GridLayout. The set is closed: Curved wraps a Linear and Grid composes two
// chunked Linears, rather than extending them.
//
// A pass runs MeasureUntilFull (or MeasureChild per index), then
// PostMeasurement, then LayoutChild per measured index. Passes are not
// reentrant. Distances, overhangs and shifts are expressed in data order:
// positive values point toward higher data indices regardless of the axis
// sign convention.
type Layout interface {
	// Kind reports the layout variant.
	Kind() LayoutKind
	// Handles reports whether the layout positions items along axis.
	Handles(axis Axis) bool

	Viewport() Vec3
	SetViewport(v Vec3)
	ViewportEnabled() bool
	EnableViewport(enabled bool)
	DividerPadding(axis Axis) float64
	SetDividerPadding(axis Axis, padding float64)

	// Invalidate discards every measurement.
	Invalidate()
	// InvalidateIndex discards the measurement of a single item.
	InvalidateIndex(index int)
	// IsInvalidated reports whether nothing is measured.
	IsInvalidated() bool
	IsMeasured(index int) bool
	// MeasuredIndices returns the measured data indices in ascending order.
	MeasuredIndices() []int

	// MeasureChild measures one item into the cache. It reports false when
	// the data source has no item at index.
	MeasureChild(ds DataSource, index int) bool
	// MeasureUntilFull measures outward from center until the viewport is
	// covered or the data runs out, returning the newly measured indices.
	MeasureUntilFull(ds DataSource, center int) []int
	// PostMeasurement finalizes sizes, paddings and offsets. It reports
	// whether every measured item lies inside the viewport.
	PostMeasurement() bool
	// LayoutChild applies the computed placement of index to item.
	LayoutChild(item Item, index int)

	// Visibility classifies index against the viewport.
	Visibility(index int) Visibility
	// InViewport reports whether any part of index overlaps the viewport.
	InViewport(index int) bool

	// PreMeasureNext measures the next item past the measured range in dir
	// and returns the extent it adds, signed by dir; 0 if nothing was added.
	PreMeasureNext(ds DataSource, axis Axis, dir Direction) float64
	// Overhang returns how far measured content extends past the viewport
	// edge in dir, never negative.
	Overhang(axis Axis, dir Direction) float64
	// ShiftBy moves every measured item by delta without re-measuring.
	ShiftBy(delta float64, axis Axis)
	// DistanceToChild returns how far content must scroll to bring index to
	// the gravity anchor. ok is false when index is not measured.
	DistanceToChild(index int, axis Axis) (float64, bool)
	// DirectionToChild returns which way to scroll to reach index.
	DirectionToChild(index int, axis Axis) Direction
	// ContentSize returns the measured content extent along axis.
	ContentSize(axis Axis) float64

	// Trim drops measured items at either end that are fully outside the
	// viewport and returns their indices.
	Trim() []int

	// measureGaps re-measures indices missing between the first and last
	// measured ones, after single-item invalidation.
	measureGaps(ds DataSource) []int
}

// layoutState is the configuration and bookkeeping every layout carries.
type layoutState struct {
	viewport        Vec3
	viewportEnabled bool
	divider         Vec3
	measured        map[int]struct{}
}

func newLayoutState() layoutState {
	return layoutState{
		viewport: Vec3{X: Unbounded, Y: Unbounded, Z: Unbounded},
		measured: make(map[int]struct{}),
	}
}

// Viewport returns the viewport extents.
func (s *layoutState) Viewport() Vec3 { return s.viewport }

// ViewportEnabled reports whether the viewport clips.
func (s *layoutState) ViewportEnabled() bool { return s.viewportEnabled }

// DividerPadding returns the padding between adjacent items along axis.
func (s *layoutState) DividerPadding(axis Axis) float64 { return s.divider.Get(axis) }

// IsInvalidated reports whether nothing is measured.
func (s *layoutState) IsInvalidated() bool { return len(s.measured) == 0 }

// IsMeasured reports whether index is measured.
func (s *layoutState) IsMeasured(index int) bool {
	_, ok := s.measured[index]
	return ok
}

// MeasuredIndices returns the measured data indices in ascending order.
func (s *layoutState) MeasuredIndices() []int {
	out := make([]int, 0, len(s.measured))
	for i := range s.measured {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

func (s *layoutState) markMeasured(index int) { s.measured[index] = struct{}{} }
func (s *layoutState) unmarkMeasured(index int) { delete(s.measured, index) }
func (s *layoutState) clearMeasured() { clear(s.measured) }

// measuredRange returns the lowest and highest measured index.
func (s *layoutState) measuredRange() (lo, hi int, ok bool) {
	if len(s.measured) == 0 {
		return 0, 0, false
	}
	lo, hi = math.MaxInt, math.MinInt
	for i := range s.measured {
		lo = min(lo, i)
		hi = max(hi, i)
	}
	return lo, hi, true
}

// setViewport validates and stores v. It reports whether anything changed.
func (s *layoutState) setViewport(v Vec3) bool {
	for _, a := range Axes {
		if e := v.Get(a); e < 0 || math.IsNaN(e) {
			warnConfig("viewport extent must be non-negative", zap.Stringer("axis", a), zap.Float64("extent", e))
			return false
		}
	}
	if v == s.viewport {
		return false
	}
	s.viewport = v
	return true
}

func (s *layoutState) enableViewport(enabled bool) bool {
	if s.viewportEnabled == enabled {
		return false
	}
	s.viewportEnabled = enabled
	return true
}

func (s *layoutState) setDividerPadding(axis Axis, padding float64) bool {
	mustAxis(axis)
	if padding < 0 || math.IsNaN(padding) || math.IsInf(padding, 0) {
		warnConfig("divider padding must be finite and non-negative", zap.Stringer("axis", axis), zap.Float64("padding", padding))
		return false
	}
	if s.divider.Get(axis) == padding {
		return false
	}
	s.divider.Set(axis, padding)
	return true
}

// extent returns the clipping extent along axis, +Inf when the viewport is
// disabled.
func (s *layoutState) extent(axis Axis) float64 {
	if !s.viewportEnabled {
		return Unbounded
	}
	return s.viewport.Get(axis)
}
