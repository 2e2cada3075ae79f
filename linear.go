package trellis

import (
	"math"
	"slices"

	"go.uber.org/zap"
)

// LinearConfig configures a LinearLayout.
type LinearConfig struct {
	// Orientation picks the axis items are arranged along.
	Orientation Orientation
	// Gravity aligns content smaller than the viewport. Edge gravities must
	// match the orientation axis.
	Gravity Gravity
	// DividerPadding is the gap between adjacent items.
	DividerPadding float64
	// UniformSize gives every item the size of the largest one.
	UniformSize bool
	// OuterPadding adds half a divider before the first and after the last
	// item.
	OuterPadding bool
}

// chunkAnchor remembers where a chunk's content started so that a pass
// which had to discard offsets (uniform sizing, interior insertion) can put
// content back where it was.
type chunkAnchor struct {
	first int
	start float64
}

// LinearLayout arranges items end-to-end along one axis. It can be chunked:
// GridLayout runs two of these, each splitting the data into rows or columns
// with a ChunkBreaker and keeping one MeasurementCache per chunk.
type LinearLayout struct {
	layoutState

	orientation  Orientation
	gravity      Gravity
	uniformSize  bool
	outerPadding bool

	breaker ChunkBreaker
	caches  map[int]*MeasurementCache
	anchors map[int]chunkAnchor
	fresh   bool // gravity must be re-derived on the next pass

	fixedSize float64 // cell size set by a grid, 0 when measured
	sizeScale float64 // shrink ratio applied to fixedSize

	// toUnits converts host lengths into cache units. CurvedLayout swaps it
	// for an arc-length-to-angle mapping.
	toUnits func(float64) float64
}

// NewLinearLayout creates a linear layout. Invalid settings in cfg are
// logged and replaced by defaults.
func NewLinearLayout(cfg LinearConfig) *LinearLayout {
	return newLinearLayout(cfg, singleChunk{})
}

func newLinearLayout(cfg LinearConfig, breaker ChunkBreaker) *LinearLayout {
	l := &LinearLayout{
		layoutState:  newLayoutState(),
		orientation:  Horizontal,
		uniformSize:  cfg.UniformSize,
		outerPadding: cfg.OuterPadding,
		breaker:      breaker,
		caches:       make(map[int]*MeasurementCache),
		anchors:      make(map[int]chunkAnchor),
		fresh:        true,
		sizeScale:    1,
		toUnits:      func(v float64) float64 { return v },
	}
	l.SetOrientation(cfg.Orientation)
	l.SetGravity(cfg.Gravity)
	l.setDividerPadding(l.axis(), cfg.DividerPadding)
	return l
}

// Kind implements Layout.
func (l *LinearLayout) Kind() LayoutKind { return KindLinear }

func (l *LinearLayout) axis() Axis { return l.orientation.Axis() }

// Handles implements Layout.
func (l *LinearLayout) Handles(axis Axis) bool { return axis == l.axis() }

// Orientation returns the layout orientation.
func (l *LinearLayout) Orientation() Orientation { return l.orientation }

// SetOrientation changes the orientation axis. The change is rejected if the
// current gravity does not apply to the new axis.
func (l *LinearLayout) SetOrientation(o Orientation) {
	if o > Stack {
		warnConfig("unknown orientation", zap.Stringer("orientation", o))
		return
	}
	if !l.gravity.compatible(o.Axis()) {
		warnConfig("gravity incompatible with orientation",
			zap.Stringer("gravity", l.gravity), zap.Stringer("orientation", o))
		return
	}
	if o == l.orientation {
		return
	}
	div := l.divider.Get(l.axis())
	l.orientation = o
	l.divider = Vec3{}
	l.divider.Set(o.Axis(), div)
	l.Invalidate()
}

// Gravity returns the layout gravity.
func (l *LinearLayout) Gravity() Gravity { return l.gravity }

// SetGravity changes alignment. Edge gravities that do not belong to the
// orientation axis are rejected.
func (l *LinearLayout) SetGravity(g Gravity) {
	if !g.compatible(l.axis()) {
		warnConfig("gravity incompatible with orientation",
			zap.Stringer("gravity", g), zap.Stringer("orientation", l.orientation))
		return
	}
	if g == l.gravity {
		return
	}
	l.gravity = g
	l.Invalidate()
}

// UniformSize reports whether uniform sizing is on.
func (l *LinearLayout) UniformSize() bool { return l.uniformSize }

// SetUniformSize toggles uniform sizing.
func (l *LinearLayout) SetUniformSize(enabled bool) {
	if l.uniformSize != enabled {
		l.uniformSize = enabled
		l.Invalidate()
	}
}

// OuterPadding reports whether outer padding is on.
func (l *LinearLayout) OuterPadding() bool { return l.outerPadding }

// SetOuterPadding toggles outer padding.
func (l *LinearLayout) SetOuterPadding(enabled bool) {
	if l.outerPadding != enabled {
		l.outerPadding = enabled
		l.Invalidate()
	}
}

// SetViewport implements Layout.
func (l *LinearLayout) SetViewport(v Vec3) {
	if l.setViewport(v) {
		l.Invalidate()
	}
}

// EnableViewport implements Layout.
func (l *LinearLayout) EnableViewport(enabled bool) {
	if l.enableViewport(enabled) {
		l.Invalidate()
	}
}

// SetDividerPadding implements Layout. Only the orientation axis is used.
func (l *LinearLayout) SetDividerPadding(axis Axis, padding float64) {
	if l.setDividerPadding(axis, padding) && axis == l.axis() {
		l.Invalidate()
	}
}

// Invalidate implements Layout.
func (l *LinearLayout) Invalidate() {
	clear(l.caches)
	clear(l.anchors)
	l.clearMeasured()
	l.fresh = true
}

// InvalidateIndex implements Layout.
func (l *LinearLayout) InvalidateIndex(index int) {
	if !l.IsMeasured(index) {
		return
	}
	l.unmarkMeasured(index)
	k := l.breaker.ChunkIndex(index)
	if c, ok := l.caches[k]; ok {
		c.RemoveData(index)
		if c.Count() == 0 {
			delete(l.caches, k)
			delete(l.anchors, k)
		}
	}
}

// Cache returns the measurement cache of the chunk holding index, or nil.
func (l *LinearLayout) Cache(index int) *MeasurementCache {
	return l.caches[l.breaker.ChunkIndex(index)]
}

func (l *LinearLayout) cacheFor(index int) *MeasurementCache {
	k := l.breaker.ChunkIndex(index)
	c, ok := l.caches[k]
	if !ok {
		c = NewMeasurementCache()
		c.SetOuterPadding(l.outerPadding)
		l.caches[k] = c
	}
	return c
}

func (l *LinearLayout) chunkKeys() []int {
	keys := make([]int, 0, len(l.caches))
	for k := range l.caches {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ext is the viewport extent in cache units.
func (l *LinearLayout) ext() float64 {
	e := l.extent(l.axis())
	if math.IsInf(e, 1) {
		return e
	}
	return l.toUnits(e)
}

func (l *LinearLayout) bounded() bool { return !math.IsInf(l.ext(), 1) }

// layoutOffset is where the first measured item is anchored before gravity
// is applied: the start edge of the viewport, or 0 when unbounded.
func (l *LinearLayout) layoutOffset() float64 {
	if !l.bounded() {
		return 0
	}
	return -l.ext() / 2
}

func (l *LinearLayout) dividerUnits() float64 {
	return l.toUnits(l.divider.Get(l.axis()))
}

// MeasureChild implements Layout.
func (l *LinearLayout) MeasureChild(ds DataSource, index int) bool {
	if l.IsMeasured(index) {
		return true
	}
	if index < 0 || index >= ds.Len() {
		return false
	}
	item := ds.Get(index)
	if item == nil {
		return false
	}
	size := item.Size(l.axis())
	if l.fixedSize > 0 {
		size = l.fixedSize * l.sizeScale
	}
	l.measureItem(index, l.toUnits(size))
	return true
}

func (l *LinearLayout) measureItem(index int, size float64) {
	c := l.cacheFor(index)
	pos := l.insertPos(c, l.breaker.PositionInChunk(index))
	half := l.dividerUnits() / 2
	c.AddData(index, pos, size, half, half)
	l.placeNew(c, index, pos)
	l.markMeasured(index)
}

// insertPos finds the cache position for an item ranked pic in its chunk.
// Appending and prepending are the common cases.
func (l *LinearLayout) insertPos(c *MeasurementCache, pic int) int {
	n := c.Count()
	if n == 0 {
		return 0
	}
	if last, _ := c.Last(); l.breaker.PositionInChunk(last) < pic {
		return n
	}
	if first, _ := c.First(); l.breaker.PositionInChunk(first) > pic {
		return 0
	}
	ids := c.IDs()
	pos, _ := slices.BinarySearchFunc(ids, pic, func(id, target int) int {
		return l.breaker.PositionInChunk(id) - target
	})
	return pos
}

// placeNew computes the offset of a freshly added entry from whichever
// neighbor already has one.
func (l *LinearLayout) placeNew(c *MeasurementCache, id, pos int) {
	if prev, ok := c.ID(pos - 1); ok {
		if end, ok := c.outerEnd(prev); ok {
			c.SetDataOffsetAfter(id, end)
			return
		}
	}
	if next, ok := c.ID(pos + 1); ok {
		if start, ok := c.outerStart(next); ok {
			c.SetDataOffsetBefore(id, start)
			return
		}
	}
	c.SetDataOffsetAfter(id, l.layoutOffset())
}

// MeasureUntilFull implements Layout.
func (l *LinearLayout) MeasureUntilFull(ds DataSource, center int) []int {
	n := ds.Len()
	if n == 0 {
		return nil
	}
	center = max(0, min(center, n-1))
	var out []int
	measure := func(i int) {
		if l.IsMeasured(i) {
			return
		}
		if l.MeasureChild(ds, i) {
			out = append(out, i)
		}
	}
	measure(center)
	for i := center + 1; i < n && !l.full(); i++ {
		measure(i)
	}
	for i := center - 1; i >= 0 && !l.full(); i-- {
		measure(i)
	}
	return out
}

// full reports whether measured content covers the viewport.
func (l *LinearLayout) full() bool {
	if !l.bounded() {
		return false
	}
	ext := l.ext()
	if ext <= eps {
		// A collapsed extent, such as a curved layout with no radius, holds
		// one item.
		return len(l.caches) > 0
	}
	return l.contentUnits() > ext+eps
}

func (l *LinearLayout) measureGaps(ds DataSource) []int {
	lo, hi, ok := l.measuredRange()
	if !ok {
		return nil
	}
	var out []int
	for i := lo; i <= hi; i++ {
		if !l.IsMeasured(i) && l.MeasureChild(ds, i) {
			out = append(out, i)
		}
	}
	return out
}

// contentUnits is the largest chunk's size with padding.
func (l *LinearLayout) contentUnits() float64 {
	var m float64
	for _, c := range l.caches {
		m = max(m, c.TotalSizeWithPadding())
	}
	return m
}

// cellSize returns the size every entry should take, or 0 to keep measured
// sizes.
func (l *LinearLayout) cellSize() float64 {
	if l.fixedSize > 0 {
		return l.fixedSize * l.sizeScale
	}
	if !l.uniformSize {
		return 0
	}
	var m float64
	for _, c := range l.caches {
		m = max(m, c.MaxSize())
	}
	return m
}

// chunkStart recovers where chunk k's content currently starts.
func (l *LinearLayout) chunkStart(k int) (float64, bool) {
	c := l.caches[k]
	if s, ok := c.contentStart(); ok {
		return s, true
	}
	a, ok := l.anchors[k]
	if !ok {
		return 0, false
	}
	if first, ok := c.First(); ok && first == a.first {
		return a.start, true
	}
	return 0, false
}

// gravityStart is the content start implied by gravity.
func (l *LinearLayout) gravityStart(content float64, count int) float64 {
	ext := l.ext()
	if !l.bounded() {
		switch l.gravity.align() {
		case alignStart:
			return 0
		case alignEnd:
			return -content
		default:
			return -content / 2
		}
	}
	half := ext / 2
	switch l.gravity.align() {
	case alignStart:
		return -half
	case alignEnd:
		return half - content
	case alignFill:
		if count > 1 || content > ext {
			return -half
		}
		return -content / 2
	default:
		if content > ext {
			return -half
		}
		return -content / 2
	}
}

// fillGap returns the per-gap padding that stretches the widest chunk across
// ext, and that chunk's cell count. Fixed-size chunks count as full even when
// fewer cells are measured, so a short last row keeps the column spacing.
func (l *LinearLayout) fillGap(keys []int, ext float64) (float64, int) {
	var size float64
	cells := 0
	for _, k := range keys {
		c := l.caches[k]
		if n := c.Count(); n > cells {
			cells, size = n, c.TotalSize()
		}
	}
	if by, ok := l.breaker.(ChunkBreakerBy); ok && by.Count() > cells && cells > 0 {
		size *= float64(by.Count()) / float64(cells)
		cells = by.Count()
	}
	gaps := cells - 1
	if l.outerPadding {
		gaps = cells
	}
	if gaps <= 0 {
		return 0, cells
	}
	return max(0, ext-size) / float64(gaps), cells
}

// PostMeasurement implements Layout. Chunks share one cell size and one
// starting offset so cells line up across rows and columns.
func (l *LinearLayout) PostMeasurement() bool {
	keys := l.chunkKeys()
	if len(keys) == 0 {
		l.fresh = false
		return true
	}

	// Capture starts before sizes or paddings discard offsets.
	refs := make(map[int]float64, len(keys))
	var common float64
	haveCommon := false
	for _, k := range keys {
		if s, ok := l.chunkStart(k); ok {
			refs[k] = s
			if !haveCommon {
				common, haveCommon = s, true
			}
		}
	}

	if size := l.cellSize(); size > 0 {
		for _, k := range keys {
			l.caches[k].ApplyUniformSize(size)
		}
	}

	ext := l.ext()
	fillCells := 0
	if l.gravity == GravityFill && l.bounded() {
		var gap float64
		gap, fillCells = l.fillGap(keys, ext)
		for _, k := range keys {
			l.caches[k].SetGapPadding(gap)
		}
	}

	content := l.contentUnits()
	fits := content <= ext+eps
	inBounds := true
	for _, k := range keys {
		c := l.caches[k]
		start, ok := refs[k]
		if !ok && haveCommon {
			start, ok = common, true
		}
		if l.fresh || !ok || fits {
			start = l.gravityStart(content, max(c.Count(), fillCells))
		}
		c.layoutFrom(start)
		first, _ := c.First()
		l.anchors[k] = chunkAnchor{first: first, start: start}

		if l.bounded() {
			last, _ := c.Last()
			s, _ := c.StartOffset(first)
			e, _ := c.EndOffset(last)
			if s < -ext/2-eps || e > ext/2+eps {
				inBounds = false
			}
		}
	}
	l.fresh = false
	return inBounds
}

// LayoutChild implements Layout.
func (l *LinearLayout) LayoutChild(item Item, index int) {
	c := l.Cache(index)
	if c == nil {
		return
	}
	off, ok := c.DataOffset(index)
	if !ok {
		return
	}
	a := l.axis()
	item.SetOffset(a, axisSign(a)*off)
}

// Offset returns the signed axis offset of index, as LayoutChild would
// apply it.
func (l *LinearLayout) Offset(index int) (float64, bool) {
	c := l.Cache(index)
	if c == nil {
		return 0, false
	}
	off, ok := c.DataOffset(index)
	if !ok {
		return 0, false
	}
	return axisSign(l.axis()) * off, true
}

// edges returns the start and end of index in cache units.
func (l *LinearLayout) edges(index int) (start, end float64, ok bool) {
	c := l.Cache(index)
	if c == nil {
		return 0, 0, false
	}
	if start, ok = c.StartOffset(index); !ok {
		return 0, 0, false
	}
	end, ok = c.EndOffset(index)
	return start, end, ok
}

// Visibility implements Layout.
func (l *LinearLayout) Visibility(index int) Visibility {
	s, e, ok := l.edges(index)
	if !ok {
		return Invisible
	}
	if !l.bounded() {
		return Visible
	}
	half := l.ext() / 2
	switch {
	case e <= -half+eps || s >= half-eps:
		return Invisible
	case s >= -half-eps && e <= half+eps:
		return Visible
	default:
		return Placeholder
	}
}

// InViewport implements Layout.
func (l *LinearLayout) InViewport(index int) bool {
	return l.Visibility(index) != Invisible
}

// contentEdge returns the outermost measured edge in dir, padding that
// counts toward layout included.
func (l *LinearLayout) contentEdge(dir Direction) (float64, bool) {
	edge, found := 0.0, false
	for _, c := range l.caches {
		var v float64
		var ok bool
		if dir == DirectionForward {
			last, _ := c.Last()
			v, ok = c.outerEnd(last)
		} else {
			first, _ := c.First()
			v, ok = c.outerStart(first)
		}
		if !ok {
			continue
		}
		switch {
		case !found:
			edge, found = v, true
		case dir == DirectionForward:
			edge = max(edge, v)
		default:
			edge = min(edge, v)
		}
	}
	return edge, found
}

// Overhang implements Layout.
func (l *LinearLayout) Overhang(axis Axis, dir Direction) float64 {
	if axis != l.axis() || dir == DirectionNone || !l.bounded() {
		return 0
	}
	edge, ok := l.contentEdge(dir)
	if !ok {
		return 0
	}
	half := l.ext() / 2
	if dir == DirectionForward {
		return max(0, edge-half)
	}
	return max(0, -half-edge)
}

// nextLine returns the data indices that extend the measured range by one
// step in dir: one item for a plain layout, one row or column of chunk
// heads for a chunked one.
func (l *LinearLayout) nextLine(ds DataSource, dir Direction) []int {
	lo, hi, ok := l.measuredRange()
	if !ok {
		return nil
	}
	n := ds.Len()
	if _, single := l.breaker.(singleChunk); single {
		next := hi + 1
		if dir == DirectionBackward {
			next = lo - 1
		}
		if next < 0 || next >= n {
			return nil
		}
		return []int{next}
	}

	p := l.breaker.PositionInChunk(hi) + 1
	if dir == DirectionBackward {
		p = l.breaker.PositionInChunk(lo) - 1
	}
	if p < 0 {
		return nil
	}
	var chunks []int
	if to, ok := l.breaker.(ChunkBreakerTo); ok {
		for k := 0; k < int(to); k++ {
			chunks = append(chunks, k)
		}
	} else {
		chunks = l.chunkKeys()
	}
	var out []int
	for _, k := range chunks {
		if i := l.breaker.DataIndex(k, p); i >= 0 && i < n && !l.IsMeasured(i) {
			out = append(out, i)
		}
	}
	return out
}

// PreMeasureNext implements Layout.
func (l *LinearLayout) PreMeasureNext(ds DataSource, axis Axis, dir Direction) float64 {
	if axis != l.axis() || dir == DirectionNone {
		return 0
	}
	extent, _ := l.preMeasureLine(ds, dir)
	return extent
}

// preMeasureLine measures nextLine and returns the signed extent it added
// along with the indices measured.
func (l *LinearLayout) preMeasureLine(ds DataSource, dir Direction) (float64, []int) {
	next := l.nextLine(ds, dir)
	if len(next) == 0 {
		return 0, nil
	}
	before, ok := l.contentEdge(dir)
	if !ok {
		return 0, nil
	}
	measured := next[:0]
	for _, i := range next {
		if l.MeasureChild(ds, i) {
			measured = append(measured, i)
		}
	}
	after, _ := l.contentEdge(dir)
	return float64(dir) * math.Abs(after-before), measured
}

// fitRatio returns the factor that shrinks a fixed cell size so exactly n
// cells fit the viewport, or 1 when they already fit.
func (l *LinearLayout) fitRatio(n int) float64 {
	if l.fixedSize <= 0 || n <= 0 || !l.bounded() {
		return 1
	}
	gaps := float64(n - 1)
	if l.outerPadding {
		gaps = float64(n)
	}
	div := l.dividerUnits() * gaps
	need := float64(n)*l.fixedSize + div
	if need <= l.ext()+eps {
		return 1
	}
	return max(0, (l.ext()-div)/(float64(n)*l.fixedSize))
}

// ShiftBy implements Layout.
func (l *LinearLayout) ShiftBy(delta float64, axis Axis) {
	if axis != l.axis() || delta == 0 {
		return
	}
	for k, c := range l.caches {
		c.ShiftBy(delta)
		if a, ok := l.anchors[k]; ok {
			a.start += delta
			l.anchors[k] = a
		}
	}
}

// DistanceToChild implements Layout. The anchor follows gravity: the
// viewport start edge, end edge, or center.
func (l *LinearLayout) DistanceToChild(index int, axis Axis) (float64, bool) {
	if axis != l.axis() {
		return 0, false
	}
	s, e, ok := l.edges(index)
	if !ok {
		return 0, false
	}
	if !l.bounded() {
		return (s + e) / 2, true
	}
	half := l.ext() / 2
	switch l.gravity.align() {
	case alignStart:
		return s + half, true
	case alignEnd:
		return e - half, true
	default:
		return (s + e) / 2, true
	}
}

// DirectionToChild implements Layout.
func (l *LinearLayout) DirectionToChild(index int, axis Axis) Direction {
	if axis != l.axis() {
		return DirectionNone
	}
	if d, ok := l.DistanceToChild(index, axis); ok {
		return Direction(signOf(d))
	}
	lo, hi, ok := l.measuredRange()
	switch {
	case !ok:
		return DirectionNone
	case index < lo:
		return DirectionBackward
	case index > hi:
		return DirectionForward
	default:
		return DirectionNone
	}
}

// ContentSize implements Layout.
func (l *LinearLayout) ContentSize(axis Axis) float64 {
	if axis != l.axis() {
		return 0
	}
	return l.contentUnits()
}

// AverageExtent returns the mean measured item extent along the orientation
// axis, divider included.
func (l *LinearLayout) AverageExtent() (float64, bool) {
	var total float64
	var n int
	for _, c := range l.caches {
		total += c.TotalSizeWithPadding()
		n += c.Count()
	}
	if n == 0 {
		return 0, false
	}
	if !l.outerPadding {
		total += l.dividerUnits() * float64(len(l.caches))
	}
	return total / float64(n), true
}

// Trim implements Layout.
func (l *LinearLayout) Trim() []int {
	if !l.bounded() {
		return nil
	}
	half := l.ext() / 2
	outside := func(c *MeasurementCache, id int) bool {
		s, ok1 := c.StartOffset(id)
		e, ok2 := c.EndOffset(id)
		if !ok1 || !ok2 {
			return false
		}
		return e <= -half+eps || s >= half-eps
	}

	var removed []int
	for k, c := range l.caches {
		for {
			id, ok := c.First()
			if !ok || !outside(c, id) {
				break
			}
			c.RemoveData(id)
			l.unmarkMeasured(id)
			removed = append(removed, id)
		}
		for {
			id, ok := c.Last()
			if !ok || !outside(c, id) {
				break
			}
			c.RemoveData(id)
			l.unmarkMeasured(id)
			removed = append(removed, id)
		}
		if c.Count() == 0 {
			delete(l.caches, k)
			delete(l.anchors, k)
		}
	}
	slices.Sort(removed)
	return removed
}
