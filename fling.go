package trellis

import (
	"math"

	"go.uber.org/zap"
)

// flingOffset converts a fling velocity into a scroll offset, capped at
// limit in either direction. A non-positive or infinite limit leaves the
// offset uncapped.
func flingOffset(velocity, factor, limit float64) float64 {
	off := velocity * factor
	if limit > 0 && !math.IsInf(limit, 1) {
		off = max(-limit, min(off, limit))
	}
	return off
}

// ballisticDistance is how far a body starting at velocity travels before
// a constant deceleration stops it: v² / (2·decel), signed like velocity.
func ballisticDistance(velocity, decel float64) float64 {
	if decel <= 0 {
		return 0
	}
	return math.Copysign(velocity*velocity/(2*decel), velocity)
}

// averager is implemented by every layout variant.
type averager interface {
	AverageExtent() (float64, bool)
}

// Fling scrolls by an offset proportional to velocity on each axis, in data
// order. Each component is capped at MaxFlingViewports viewport extents.
func (s *ScrollController) Fling(velocity Vec3) {
	var offset Vec3
	for _, a := range Axes {
		v := velocity.Get(a)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			warnConfig("fling velocity must be finite", zap.Stringer("axis", a), zap.Float64("velocity", v))
			return
		}
		l := s.host.scrollLayout(a)
		if l == nil || v == 0 {
			continue
		}
		var limit float64
		if l.ViewportEnabled() {
			limit = s.cfg.MaxFlingViewports * l.Viewport().Get(a)
		}
		offset.Set(a, flingOffset(v, s.cfg.FlingFactor, limit))
	}
	s.ScrollByOffset(offset)
}

// FlingToPosition projects a fling along axis to the item where constant
// deceleration would stop it and scrolls there. The travel distance is
// converted to items through the average measured item extent.
func (s *ScrollController) FlingToPosition(axis Axis, velocity float64) {
	if math.IsNaN(velocity) || math.IsInf(velocity, 0) {
		warnConfig("fling velocity must be finite", zap.Float64("velocity", velocity))
		return
	}
	l := s.host.scrollLayout(axis)
	if l == nil {
		warnConfig("no layout scrolls along axis", zap.Stringer("axis", axis))
		return
	}
	n := s.host.dataSource().Len()
	if n == 0 {
		return
	}
	cur, ok := s.host.CurrentIndex()
	if !ok {
		cur = 0
	}
	avg, ok := l.(averager).AverageExtent()
	if !ok || avg <= 0 {
		s.ScrollToPosition(cur)
		return
	}
	items := int(math.Round(ballisticDistance(velocity, s.cfg.Deceleration) / avg))
	s.ScrollToPosition(max(0, min(cur+items, n-1)))
}
