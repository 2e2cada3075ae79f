package trellis

import (
	"math"
	"slices"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// allItems is queued by NotifyDataChanged.
const allItems = -1

const defaultChangeQueue = 256

// ContainerConfig configures a Container.
type ContainerConfig struct {
	// Scroll configures the container's ScrollController.
	Scroll ScrollConfig
	// ChangeQueue is the capacity of the change notification queue. When it
	// overflows the next Update discards every measurement.
	ChangeQueue int
}

// Container is the top-level object that owns a data source, the layouts
// that arrange it and the scroll controller that moves them. It is driven
// from the host's update thread; only the Notify methods may be called from
// other goroutines.
type Container struct {
	ds       DataSource
	layouts  []Layout
	scroller *ScrollController
	debug    bool

	count  int   // Len seen by the last pass, for static sources
	anchor int   // index MeasureUntilFull restarts from
	placed []int // indices placed by the last pass, ascending
	dirty  bool
	inPass bool

	current    int
	hasCurrent bool

	changes  chan int
	overflow atomic.Bool

	script  *ScrollScript
	overlay *DebugOverlay

	// OnRecycle is called for every item that was placed or measured and is
	// no longer measured by any layout. The item's visibility has already
	// been set to Invisible.
	OnRecycle func(index int, item Item)
}

// NewContainer creates a container over ds arranged by layouts. Each axis
// scrolls with the first layout that handles it.
func NewContainer(ds DataSource, cfg ContainerConfig, layouts ...Layout) *Container {
	if ds == nil {
		ds = NewSliceDataSource()
	}
	q := cfg.ChangeQueue
	if q <= 0 {
		q = defaultChangeQueue
	}
	c := &Container{
		ds:      ds,
		layouts: slices.Clone(layouts),
		count:   ds.Len(),
		dirty:   true,
		changes: make(chan int, q),
	}
	c.scroller = newScrollController(c, cfg.Scroll)
	return c
}

// DataSource returns the container's data source.
func (c *Container) DataSource() DataSource { return c.ds }

// SetDataSource replaces the data source and discards every measurement.
func (c *Container) SetDataSource(ds DataSource) {
	if ds == nil {
		ds = NewSliceDataSource()
	}
	c.scroller.Cancel()
	c.ds = ds
	c.count = ds.Len()
	c.anchor = 0
	c.placed = nil
	c.invalidateAll()
}

// Layouts returns the container's layouts. The returned slice MUST NOT be
// mutated.
func (c *Container) Layouts() []Layout { return c.layouts }

// Scroller returns the container's scroll controller.
func (c *Container) Scroller() *ScrollController { return c.scroller }

// SetViewport sets and enables the viewport of every layout. Use Unbounded
// for an axis that should never clip.
func (c *Container) SetViewport(v Vec3) {
	for _, l := range c.layouts {
		l.SetViewport(v)
		l.EnableViewport(true)
	}
	c.dirty = true
}

// SetDebugMode enables or disables debug mode. When enabled, per-pass timing
// and counts are logged at debug level and a warning is logged when more
// items are measured than virtualization should allow.
func (c *Container) SetDebugMode(enabled bool) {
	c.debug = enabled
}

// RequestLayout marks the container so that the next Update runs a pass.
func (c *Container) RequestLayout() { c.dirty = true }

// NotifyDataChanged reports that the data set changed as a whole. It is safe
// to call from any goroutine.
func (c *Container) NotifyDataChanged() { c.enqueue(allItems) }

// NotifyItemChanged reports that the item at index changed. It is safe to
// call from any goroutine.
func (c *Container) NotifyItemChanged(index int) {
	if index < 0 {
		return
	}
	c.enqueue(index)
}

func (c *Container) enqueue(index int) {
	select {
	case c.changes <- index:
	default:
		c.overflow.Store(true)
	}
}

// Update advances the container by one tick at the ebiten tick rate. Call
// it from the game's Update.
func (c *Container) Update() {
	c.Advance(float32(1.0 / float64(ebiten.TPS())))
}

// Advance applies queued changes, runs the attached scroll script, ticks
// scrolling by dt seconds and runs a layout pass if one was requested.
func (c *Container) Advance(dt float32) {
	c.drainChanges()
	if c.script != nil {
		c.script.step(c)
	}
	c.scroller.Update(dt)
	if c.dirty {
		c.runPass(!c.scroller.IsScrolling())
	}
	if c.overlay != nil {
		c.overlay.update(float64(dt))
	}
}

// Layout runs a pass immediately, trimming unless a scroll is in flight.
func (c *Container) Layout() {
	c.drainChanges()
	c.runPass(!c.scroller.IsScrolling())
}

func (c *Container) drainChanges() {
	if c.overflow.Swap(false) {
		// Individual notifications were dropped; nothing can be trusted.
		for done := false; !done; {
			select {
			case <-c.changes:
			default:
				done = true
			}
		}
		c.count = c.ds.Len()
		c.anchor = min(c.anchor, max(0, c.count-1))
		c.invalidateAll()
		return
	}
	all := false
	var items []int
	for done := false; !done; {
		select {
		case i := <-c.changes:
			if i == allItems {
				all = true
			} else {
				items = append(items, i)
			}
		default:
			done = true
		}
	}
	if all {
		c.dataChanged()
		return
	}
	for _, i := range items {
		c.itemChanged(i)
	}
}

// dataChanged handles a whole-set change. A static source is stale only
// when its count differs; a dynamic source is invalidated item by item so
// the anchor survives.
func (c *Container) dataChanged() {
	n := c.ds.Len()
	if !c.ds.IsDynamic() {
		if n != c.count {
			c.count = n
			c.anchor = min(c.anchor, max(0, n-1))
			c.invalidateAll()
		}
		c.dirty = true
		return
	}
	c.count = n
	for _, l := range c.layouts {
		for _, i := range l.MeasuredIndices() {
			l.InvalidateIndex(i)
		}
	}
	c.anchor = min(c.anchor, max(0, n-1))
	c.dirty = true
}

// itemChanged re-measures index in every layout that had it. An item at
// the edge of the measured range is re-added next to its neighbor, so the
// pass keeps it.
func (c *Container) itemChanged(index int) {
	if !c.ds.IsDynamic() && c.ds.Len() != c.count {
		c.dataChanged()
		return
	}
	for _, l := range c.layouts {
		if !l.IsMeasured(index) {
			continue
		}
		l.InvalidateIndex(index)
		l.MeasureChild(c.ds, index)
	}
	c.dirty = true
}

func (c *Container) invalidateAll() {
	for _, l := range c.layouts {
		l.Invalidate()
	}
	c.hasCurrent = false
	c.dirty = true
}

// runPass measures, finalizes, places and classifies items. Passes are not
// reentrant: a pass requested from inside one is deferred to the next
// Update.
func (c *Container) runPass(trim bool) {
	if c.inPass {
		c.dirty = true
		return
	}
	c.inPass = true
	defer func() { c.inPass = false }()
	c.dirty = false

	var stats passStats
	var t0 time.Time
	if c.debug {
		t0 = time.Now()
	}

	n := c.ds.Len()
	for _, l := range c.layouts {
		for _, i := range l.MeasuredIndices() {
			if i >= n {
				l.InvalidateIndex(i)
			}
		}
		if n == 0 {
			continue
		}
		if l.IsInvalidated() {
			l.MeasureUntilFull(c.ds, c.anchor)
		} else {
			l.measureGaps(c.ds)
		}
	}

	if c.debug {
		stats.measureTime = time.Since(t0)
		t0 = time.Now()
	}

	stats.inBounds = true
	for _, l := range c.layouts {
		if !l.PostMeasurement() {
			stats.inBounds = false
		}
	}

	var trimmed []int
	if trim {
		trimmed = c.trim()
	}

	if c.debug {
		stats.postTime = time.Since(t0)
		t0 = time.Now()
	}

	measured := c.measuredIndices()
	for _, i := range measured {
		item := c.ds.Get(i)
		if item == nil {
			continue
		}
		vis := Visible
		for _, l := range c.layouts {
			if !l.IsMeasured(i) {
				continue
			}
			l.LayoutChild(item, i)
			vis = combineVisibility(vis, l.Visibility(i))
		}
		item.SetVisibility(vis)
		if vis != Invisible {
			stats.visible++
		}
	}
	stats.recycled = c.recycle(trimmed, measured)
	c.placed = measured
	c.updateCurrent()

	if c.debug {
		stats.placeTime = time.Since(t0)
		stats.measured = len(measured)
		c.debugCheckMeasured(len(measured))
		c.debugLog(stats)
	}
}

// combineVisibility keeps the most restrictive of a and b.
func combineVisibility(a, b Visibility) Visibility {
	switch {
	case a == Invisible || b == Invisible:
		return Invisible
	case a == Placeholder || b == Placeholder:
		return Placeholder
	default:
		return Visible
	}
}

// trim drops items that left the viewport from every layout and returns
// their indices.
func (c *Container) trim() []int {
	var removed []int
	for _, l := range c.layouts {
		removed = append(removed, l.Trim()...)
	}
	return removed
}

// recycle hides and reports every item that was placed by the last pass or
// trimmed by this one and is no longer measured. It returns the number
// recycled.
func (c *Container) recycle(trimmed, measured []int) int {
	dropped := append(slices.Clone(c.placed), trimmed...)
	slices.Sort(dropped)
	dropped = slices.Compact(dropped)
	n := 0
	for _, i := range dropped {
		if _, ok := slices.BinarySearch(measured, i); ok {
			continue
		}
		item := c.ds.Get(i)
		if item == nil {
			continue
		}
		n++
		item.SetVisibility(Invisible)
		if c.OnRecycle != nil {
			c.OnRecycle(i, item)
		}
	}
	return n
}

// measuredIndices returns the union of every layout's measured indices.
func (c *Container) measuredIndices() []int {
	var out []int
	for _, l := range c.layouts {
		out = append(out, l.MeasuredIndices()...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// MeasuredIndices returns the indices measured by any layout, ascending.
func (c *Container) MeasuredIndices() []int { return c.measuredIndices() }

// ItemAt returns the topmost measured item under the layout-space point
// (x, y). Items are hit-tested in reverse data order, so later items win
// where cells overlap. Only items that implement HitTest can be hit.
func (c *Container) ItemAt(x, y float64) (int, bool) {
	idx := c.measuredIndices()
	for i := len(idx) - 1; i >= 0; i-- {
		h, ok := c.ds.Get(idx[i]).(interface{ HitTest(x, y float64) bool })
		if ok && h.HitTest(x, y) {
			return idx[i], true
		}
	}
	return 0, false
}

// updateCurrent picks the measured item nearest the gravity anchor of the
// primary scrolling layout.
func (c *Container) updateCurrent() {
	c.hasCurrent = false
	l, axis, ok := c.primary()
	if !ok {
		return
	}
	best := math.Inf(1)
	for _, i := range l.MeasuredIndices() {
		d, ok := l.DistanceToChild(i, axis)
		if !ok {
			continue
		}
		if d = math.Abs(d); d < best-eps {
			best, c.current, c.hasCurrent = d, i, true
		}
	}
	if c.hasCurrent {
		c.anchor = c.current
	}
}

// CurrentIndex returns the measured item nearest the gravity anchor of the
// primary scrolling layout, as of the last pass.
func (c *Container) CurrentIndex() (int, bool) { return c.current, c.hasCurrent }

// VisibleCount returns how many items overlap the viewport of the primary
// scrolling layout.
func (c *Container) VisibleCount() int {
	l, _, ok := c.primary()
	if !ok {
		return 0
	}
	n := 0
	for _, i := range l.MeasuredIndices() {
		if l.InViewport(i) {
			n++
		}
	}
	return n
}

// primary returns the first layout and the axis it scrolls along.
func (c *Container) primary() (Layout, Axis, bool) {
	if len(c.layouts) == 0 {
		return nil, AxisX, false
	}
	l := c.layouts[0]
	return l, scrollAxis(l), true
}

// scrollAxis is the axis a layout scrolls along.
func scrollAxis(l Layout) Axis {
	switch v := l.(type) {
	case *LinearLayout:
		return v.axis()
	case *CurvedLayout:
		return v.linear.axis()
	case *GridLayout:
		return v.main().axis()
	}
	panic("trellis: unknown layout kind " + l.Kind().String())
}

// ScrollAxis returns the axis the primary layout scrolls along.
func (c *Container) ScrollAxis() Axis {
	_, a, _ := c.primary()
	return a
}

func (c *Container) scrollLayout(axis Axis) Layout {
	for _, l := range c.layouts {
		if l.Handles(axis) {
			return l
		}
	}
	return nil
}

func (c *Container) dataSource() DataSource { return c.ds }
func (c *Container) relayout() { c.runPass(false) }
func (c *Container) requestLayout() { c.dirty = true }
func (c *Container) settle() { c.runPass(true) }
