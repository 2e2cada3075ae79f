package trellis

import (
	"math"
	"sync"
)

// cacheEntry is the measured extent of one item along one axis. offset is
// the item's center and is meaningful only when hasOffset is set.
type cacheEntry struct {
	id           int
	size         float64
	startPadding float64
	endPadding   float64
	offset       float64
	hasOffset    bool
}

// MeasurementCache is an ordered, per-axis cache of item sizes, paddings and
// computed offsets. Entries are keyed by an opaque id (the data index) and
// ordered by position, a 0-based rank among cached entries.
//
// Offsets are only ever written by SetDataOffsetAfter and SetDataOffsetBefore,
// each relative to a neighbor whose offset is already known, so offsets
// propagate in data order.
//
// All methods are safe for concurrent use. Callers on the update thread are
// the only expected mutators; background goroutines should invalidate
// through Container.NotifyItemChanged instead.
type MeasurementCache struct {
	mu sync.Mutex

	entries map[int]*cacheEntry
	order   []int // position -> id

	// slot numbers make boundary insert/remove O(1) for position lookup:
	// pos(id) = slot[id] - base.
	slot map[int]int
	base int

	totalSize    float64
	paddingSum   float64 // every entry's start+end padding, outer included
	outerPadding bool
}

// NewMeasurementCache creates an empty cache with outer padding disabled.
func NewMeasurementCache() *MeasurementCache {
	return &MeasurementCache{
		entries: make(map[int]*cacheEntry),
		slot:    make(map[int]int),
	}
}

// SetOuterPadding enables or disables counting the first entry's start
// padding and the last entry's end padding.
func (c *MeasurementCache) SetOuterPadding(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outerPadding != enabled {
		c.outerPadding = enabled
		c.clearOffsetsLocked()
	}
}

// OuterPadding reports whether outer padding is counted.
func (c *MeasurementCache) OuterPadding() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outerPadding
}

// AddData inserts an entry for id at pos (clamped into [0, Count()]) and
// returns its size including padding. Inserting at either end keeps existing
// offsets. Inserting in the interior clears every computed offset, so the
// next pass re-walks them from the start.
//
// Adding an id that is already cached updates its size and padding in place
// and clears offsets if anything changed.
func (c *MeasurementCache) AddData(id, pos int, size, startPad, endPad float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[id]; ok {
		if e.size != size || e.startPadding != startPad || e.endPadding != endPad {
			c.totalSize += size - e.size
			c.paddingSum += startPad + endPad - e.startPadding - e.endPadding
			e.size, e.startPadding, e.endPadding = size, startPad, endPad
			c.clearOffsetsLocked()
		}
		return size + startPad + endPad
	}

	n := len(c.order)
	pos = max(0, min(pos, n))

	e := &cacheEntry{id: id, size: size, startPadding: startPad, endPadding: endPad}
	c.entries[id] = e
	c.totalSize += size
	c.paddingSum += startPad + endPad

	switch {
	case pos == n:
		c.slot[id] = c.base + n
		c.order = append(c.order, id)
	case pos == 0:
		c.base--
		c.slot[id] = c.base
		c.order = append(c.order, 0)
		copy(c.order[1:], c.order)
		c.order[0] = id
	default:
		c.order = append(c.order, 0)
		copy(c.order[pos+1:], c.order[pos:])
		c.order[pos] = id
		c.renumberLocked()
		c.clearOffsetsLocked()
	}
	return size + startPad + endPad
}

// RemoveData removes the entry for id. It reports whether the id was cached.
// Removing an interior entry leaves a gap, so every offset is cleared.
func (c *MeasurementCache) RemoveData(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return false
	}
	pos := c.slot[id] - c.base
	last := len(c.order) - 1

	delete(c.entries, id)
	delete(c.slot, id)
	c.totalSize -= e.size
	c.paddingSum -= e.startPadding + e.endPadding

	switch pos {
	case 0:
		c.order = c.order[1:]
		c.base++
	case last:
		c.order = c.order[:last]
	default:
		c.order = append(c.order[:pos], c.order[pos+1:]...)
		c.renumberLocked()
		c.clearOffsetsLocked()
	}
	if len(c.order) == 0 {
		c.resetLocked()
	}
	return true
}

// Clear discards every entry and all totals.
func (c *MeasurementCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// InvalidateOffsets forgets computed offsets but keeps sizes and paddings.
func (c *MeasurementCache) InvalidateOffsets() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearOffsetsLocked()
}

func (c *MeasurementCache) resetLocked() {
	clear(c.entries)
	clear(c.slot)
	c.order = c.order[:0]
	c.base = 0
	c.totalSize = 0
	c.paddingSum = 0
}

func (c *MeasurementCache) clearOffsetsLocked() {
	for _, e := range c.entries {
		e.hasOffset = false
	}
}

func (c *MeasurementCache) renumberLocked() {
	c.base = 0
	for i, id := range c.order {
		c.slot[id] = i
	}
}

// Count returns the number of cached entries.
func (c *MeasurementCache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Contains reports whether id is cached.
func (c *MeasurementCache) Contains(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[id]
	return ok
}

// ID returns the id at position pos.
func (c *MeasurementCache) ID(pos int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pos < 0 || pos >= len(c.order) {
		return 0, false
	}
	return c.order[pos], true
}

// Pos returns the position of id.
func (c *MeasurementCache) Pos(id int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slot[id]
	if !ok {
		return 0, false
	}
	return s - c.base, true
}

// First returns the id at position 0.
func (c *MeasurementCache) First() (int, bool) { return c.ID(0) }

// Last returns the id at the last position.
func (c *MeasurementCache) Last() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.order) == 0 {
		return 0, false
	}
	return c.order[len(c.order)-1], true
}

// IDs returns a copy of the cached ids in position order.
func (c *MeasurementCache) IDs() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, len(c.order))
	copy(out, c.order)
	return out
}

// Size returns the cached size of id.
func (c *MeasurementCache) Size(id int) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return 0, false
	}
	return e.size, true
}

// Padding returns the start and end padding of id.
func (c *MeasurementCache) Padding(id int) (start, end float64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return 0, 0, false
	}
	return e.startPadding, e.endPadding, true
}

// DataOffset returns the center offset of id, if it has been computed.
func (c *MeasurementCache) DataOffset(id int) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok || !e.hasOffset {
		return 0, false
	}
	return e.offset, true
}

// StartOffset returns the offset of id's start edge, padding excluded.
func (c *MeasurementCache) StartOffset(id int) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok || !e.hasOffset {
		return 0, false
	}
	return e.offset - e.size/2, true
}

// EndOffset returns the offset of id's end edge, padding excluded.
func (c *MeasurementCache) EndOffset(id int) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok || !e.hasOffset {
		return 0, false
	}
	return e.offset + e.size/2, true
}

// leadingLocked is the start padding of e as it counts toward layout.
func (c *MeasurementCache) leadingLocked(e *cacheEntry) float64 {
	if !c.outerPadding && c.slot[e.id] == c.base {
		return 0
	}
	return e.startPadding
}

// trailingLocked is the end padding of e as it counts toward layout.
func (c *MeasurementCache) trailingLocked(e *cacheEntry) float64 {
	if !c.outerPadding && c.slot[e.id]-c.base == len(c.order)-1 {
		return 0
	}
	return e.endPadding
}

// SetDataOffsetAfter places id immediately after a neighbor ending at
// precedingEnd and returns where id ends, its end padding included.
func (c *MeasurementCache) SetDataOffsetAfter(id int, precedingEnd float64) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return 0, false
	}
	start := precedingEnd + c.leadingLocked(e)
	e.offset = start + e.size/2
	e.hasOffset = true
	return start + e.size + c.trailingLocked(e), true
}

// SetDataOffsetBefore places id immediately before a neighbor starting at
// followingStart and returns where id starts, its start padding included.
func (c *MeasurementCache) SetDataOffsetBefore(id int, followingStart float64) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return 0, false
	}
	end := followingStart - c.trailingLocked(e)
	e.offset = end - e.size/2
	e.hasOffset = true
	return end - e.size - c.leadingLocked(e), true
}

// ShiftBy adds delta to every computed offset.
func (c *MeasurementCache) ShiftBy(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.hasOffset {
			e.offset += delta
		}
	}
}

// UniformSize gives every entry the size of the largest one and returns that
// size. Offsets are cleared because sizes changed.
func (c *MeasurementCache) UniformSize() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.order) == 0 {
		return 0
	}
	maxSize := math.Inf(-1)
	for _, e := range c.entries {
		maxSize = max(maxSize, e.size)
	}
	c.applySizeLocked(maxSize)
	return maxSize
}

// MaxSize returns the largest cached size, or 0 when empty.
func (c *MeasurementCache) MaxSize() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var m float64
	for _, e := range c.entries {
		m = max(m, e.size)
	}
	return m
}

// ApplyUniformSize gives every entry the same size.
func (c *MeasurementCache) ApplyUniformSize(size float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applySizeLocked(size)
}

func (c *MeasurementCache) applySizeLocked(size float64) {
	for _, e := range c.entries {
		e.size = size
	}
	c.totalSize = size * float64(len(c.order))
	c.clearOffsetsLocked()
}

// UniformPadding spreads total evenly over the gaps between entries (and the
// two outer gaps when outer padding is enabled). It returns the padding of a
// single gap.
func (c *MeasurementCache) UniformPadding(total float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.order)
	if n == 0 {
		return 0
	}
	gaps := n - 1
	if c.outerPadding {
		gaps = n
	}
	var gap float64
	if gaps > 0 {
		gap = total / float64(gaps)
	}
	c.setGapLocked(gap)
	return gap
}

// SetGapPadding gives every gap the same padding, half on each side of an
// entry.
func (c *MeasurementCache) SetGapPadding(gap float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setGapLocked(gap)
}

func (c *MeasurementCache) setGapLocked(gap float64) {
	n := len(c.order)
	for _, e := range c.entries {
		e.startPadding = gap / 2
		e.endPadding = gap / 2
	}
	c.paddingSum = gap * float64(n)
	c.clearOffsetsLocked()
}

// TotalSize returns the sum of entry sizes.
func (c *MeasurementCache) TotalSize() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalSize
}

// TotalPadding returns the padding that counts toward layout.
func (c *MeasurementCache) TotalPadding() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPaddingLocked()
}

func (c *MeasurementCache) totalPaddingLocked() float64 {
	n := len(c.order)
	if n == 0 {
		return 0
	}
	p := c.paddingSum
	if !c.outerPadding {
		p -= c.entries[c.order[0]].startPadding
		p -= c.entries[c.order[n-1]].endPadding
	}
	return p
}

// TotalSizeWithPadding returns TotalSize() + TotalPadding().
func (c *MeasurementCache) TotalSizeWithPadding() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalSize + c.totalPaddingLocked()
}

// layoutFrom re-walks every entry in order starting at start and returns the
// end of the last entry. Offsets are written with SetDataOffsetAfter
// semantics.
func (c *MeasurementCache) layoutFrom(start float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	end := start
	for _, id := range c.order {
		e := c.entries[id]
		s := end + c.leadingLocked(e)
		e.offset = s + e.size/2
		e.hasOffset = true
		end = s + e.size + c.trailingLocked(e)
	}
	return end
}

// contentStart returns the start of the first entry including any outer
// padding, if offsets are known.
func (c *MeasurementCache) contentStart() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.order) == 0 {
		return 0, false
	}
	e := c.entries[c.order[0]]
	if !e.hasOffset {
		return 0, false
	}
	return e.offset - e.size/2 - c.leadingLocked(e), true
}

// outerEnd returns where id ends including the end padding that counts
// toward layout.
func (c *MeasurementCache) outerEnd(id int) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok || !e.hasOffset {
		return 0, false
	}
	return e.offset + e.size/2 + c.trailingLocked(e), true
}

// outerStart returns where id starts including the start padding that
// counts toward layout.
func (c *MeasurementCache) outerStart(id int) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok || !e.hasOffset {
		return 0, false
	}
	return e.offset - e.size/2 - c.leadingLocked(e), true
}
