package trellis

import (
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// ScrollState is the phase of the scroll state machine.
type ScrollState uint8

const (
	ScrollIdle      ScrollState = iota // no request has run yet, or the last was cancelled
	ScrollMeasuring                    // pre-measuring the next step
	ScrollShifting                     // an animated shift is in flight
	ScrollSettled                      // the last request finished
	ScrollUnsettled                    // a step finished but the target is not reached
)

func (s ScrollState) String() string {
	switch s {
	case ScrollIdle:
		return "idle"
	case ScrollMeasuring:
		return "measuring"
	case ScrollShifting:
		return "shifting"
	case ScrollSettled:
		return "settled"
	case ScrollUnsettled:
		return "unsettled"
	default:
		return fmt.Sprintf("ScrollState(%d)", uint8(s))
	}
}

// ScrollTarget describes a scroll request. Positional targets bring Index to
// the gravity anchor of each scrolling layout; offset targets move content
// by Offset, expressed in data order (positive values reveal later items).
type ScrollTarget struct {
	Positional bool
	Index      int
	Offset     Vec3
}

// ScrollListener is notified when a scroll request starts and finishes.
// ScrollFinished is called exactly once per request; completed is false when
// the request was cancelled or superseded by a newer one.
type ScrollListener interface {
	ScrollStarted(target ScrollTarget)
	ScrollFinished(target ScrollTarget, completed bool)
}

// ScrollListenerFuncs adapts plain functions to ScrollListener. Nil fields
// are skipped.
type ScrollListenerFuncs struct {
	Started  func(target ScrollTarget)
	Finished func(target ScrollTarget, completed bool)
}

// ScrollStarted implements ScrollListener.
func (f ScrollListenerFuncs) ScrollStarted(target ScrollTarget) {
	if f.Started != nil {
		f.Started(target)
	}
}

// ScrollFinished implements ScrollListener.
func (f ScrollListenerFuncs) ScrollFinished(target ScrollTarget, completed bool) {
	if f.Finished != nil {
		f.Finished(target, completed)
	}
}

// Scroll defaults applied by NewScrollController to zero fields.
const (
	DefaultScrollVelocity    = 1000.0 // host units per second
	DefaultFlingFactor       = 0.25   // seconds of travel per unit of fling velocity
	DefaultMaxFlingViewports = 2.0
	DefaultFlingDeceleration = 4000.0 // host units per second squared
	DefaultScrollMaxSteps    = 4096
)

// ScrollConfig configures a ScrollController. Zero fields take the defaults
// above.
type ScrollConfig struct {
	// Animated turns on frame-ticked shifts. When false every request
	// converges synchronously.
	Animated bool
	// Velocity is the animated shift speed in host units per second.
	Velocity float64
	// Ease shapes each animated shift. Defaults to ease.Linear.
	Ease ease.TweenFunc
	// PageSize is the number of items per page for ScrollToPage. Zero uses
	// the number of items currently in the viewport.
	PageSize int
	// FlingFactor converts a fling velocity into an offset.
	FlingFactor float64
	// MaxFlingViewports caps a fling offset at this many viewport extents.
	MaxFlingViewports float64
	// Deceleration is the constant deceleration of FlingToPosition.
	Deceleration float64
	// MaxSteps bounds the number of pre-measure and shift steps a single
	// request may take.
	MaxSteps int
}

func (cfg *ScrollConfig) applyDefaults() {
	positive := func(name string, v *float64, def float64) {
		if *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
			warnConfig("scroll setting must be finite and positive", zap.String("setting", name), zap.Float64("value", *v))
			*v = 0
		}
		if *v == 0 {
			*v = def
		}
	}
	positive("velocity", &cfg.Velocity, DefaultScrollVelocity)
	positive("flingFactor", &cfg.FlingFactor, DefaultFlingFactor)
	positive("maxFlingViewports", &cfg.MaxFlingViewports, DefaultMaxFlingViewports)
	positive("deceleration", &cfg.Deceleration, DefaultFlingDeceleration)
	if cfg.Ease == nil {
		cfg.Ease = ease.Linear
	}
	if cfg.PageSize < 0 {
		warnConfig("page size must not be negative", zap.Int("pageSize", cfg.PageSize))
		cfg.PageSize = 0
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultScrollMaxSteps
	}
}

// scrollHost is what a ScrollController drives. Container implements it.
type scrollHost interface {
	// scrollLayout returns the layout that scrolls along axis, or nil.
	scrollLayout(axis Axis) Layout
	dataSource() DataSource
	// relayout runs a layout pass now, without trimming.
	relayout()
	// requestLayout marks the host dirty so the next Update runs a pass.
	requestLayout()
	// settle trims items that left the viewport and runs a pass.
	settle()
	CurrentIndex() (int, bool)
	VisibleCount() int
}

// scrollRequest is one in-flight request.
type scrollRequest struct {
	target    ScrollTarget
	remaining Vec3 // offset targets only
	steps     int
}

// ScrollController drives the layouts of its host toward a target index or
// offset. Each step pre-measures at most one line per axis, clamps the shift
// to what is measured, and either applies it at once or animates it over
// subsequent Update calls.
type ScrollController struct {
	host      scrollHost
	cfg       ScrollConfig
	state     ScrollState
	req       *scrollRequest
	tween     *shiftTween
	listeners []ScrollListener
}

func newScrollController(host scrollHost, cfg ScrollConfig) *ScrollController {
	cfg.applyDefaults()
	return &ScrollController{host: host, cfg: cfg}
}

// State returns the current state.
func (s *ScrollController) State() ScrollState { return s.state }

// IsScrolling reports whether a request is in flight.
func (s *ScrollController) IsScrolling() bool { return s.req != nil }

// Animated reports whether shifts are animated.
func (s *ScrollController) Animated() bool { return s.cfg.Animated }

// SetAnimated toggles animated shifts. It applies to the next request.
func (s *ScrollController) SetAnimated(enabled bool) { s.cfg.Animated = enabled }

// Velocity returns the animated shift speed.
func (s *ScrollController) Velocity() float64 { return s.cfg.Velocity }

// SetVelocity sets the animated shift speed. Non-positive values are
// rejected.
func (s *ScrollController) SetVelocity(v float64) {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		warnConfig("scroll velocity must be finite and positive", zap.Float64("velocity", v))
		return
	}
	s.cfg.Velocity = v
}

// PageSize returns the configured page size, 0 meaning the visible count.
func (s *ScrollController) PageSize() int { return s.cfg.PageSize }

// SetPageSize sets the page size. Negative values are rejected.
func (s *ScrollController) SetPageSize(n int) {
	if n < 0 {
		warnConfig("page size must not be negative", zap.Int("pageSize", n))
		return
	}
	s.cfg.PageSize = n
}

// AddListener registers l for scroll notifications.
func (s *ScrollController) AddListener(l ScrollListener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

// RemoveListener unregisters l. Listeners are compared with ==, so register
// a pointer when it must be removed later.
func (s *ScrollController) RemoveListener(l ScrollListener) {
	for i, x := range s.listeners {
		if x == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

// ScrollToPosition scrolls until index sits at the gravity anchor, or as
// close as the content allows.
func (s *ScrollController) ScrollToPosition(index int) {
	n := s.host.dataSource().Len()
	if index < 0 || index >= n {
		warnConfig("scroll position out of range", zap.Int("index", index), zap.Int("len", n))
		return
	}
	s.start(ScrollTarget{Positional: true, Index: index})
}

// ScrollToNextItem scrolls to the item after the current one.
func (s *ScrollController) ScrollToNextItem() { s.scrollToRelative(1) }

// ScrollToPrevItem scrolls to the item before the current one.
func (s *ScrollController) ScrollToPrevItem() { s.scrollToRelative(-1) }

func (s *ScrollController) scrollToRelative(step int) {
	n := s.host.dataSource().Len()
	if n == 0 {
		return
	}
	cur, ok := s.host.CurrentIndex()
	if s.req != nil && s.req.target.Positional {
		// Repeated presses walk from the pending target, not from wherever
		// the animation has got to.
		cur, ok = s.req.target.Index, true
	}
	if !ok {
		cur = 0
		step = 0
	}
	s.ScrollToPosition(max(0, min(cur+step, n-1)))
}

// ScrollToPage scrolls to the first item of page, counting from 1.
func (s *ScrollController) ScrollToPage(page int) {
	if page < 1 {
		warnConfig("page numbers start at 1", zap.Int("page", page))
		return
	}
	size := s.cfg.PageSize
	if size <= 0 {
		size = max(1, s.host.VisibleCount())
	}
	n := s.host.dataSource().Len()
	if n == 0 {
		return
	}
	s.ScrollToPosition(min((page-1)*size, n-1))
}

// ScrollByOffset moves content by offset, in data order per axis. The shift
// stops early at the first or last data item.
func (s *ScrollController) ScrollByOffset(offset Vec3) {
	for _, a := range Axes {
		if v := offset.Get(a); math.IsNaN(v) || math.IsInf(v, 0) {
			warnConfig("scroll offset must be finite", zap.Stringer("axis", a), zap.Float64("offset", v))
			return
		}
	}
	s.start(ScrollTarget{Offset: offset})
}

// Cancel stops the request in flight, leaving content where it is.
func (s *ScrollController) Cancel() {
	if s.req == nil {
		return
	}
	s.finish(false)
	s.state = ScrollIdle
}

// start supersedes any request in flight with target.
func (s *ScrollController) start(target ScrollTarget) {
	if s.req != nil {
		s.finish(false)
	}
	s.req = &scrollRequest{target: target, remaining: target.Offset}
	for _, l := range s.listeners {
		l.ScrollStarted(target)
	}
	// Steps read measured offsets, so pending changes land first.
	s.host.relayout()
	s.run()
}

// run advances the current request until it finishes or an animated shift
// has been started.
func (s *ScrollController) run() {
	for s.req != nil {
		if s.req.steps >= s.cfg.MaxSteps {
			logger.Warn("scroll did not converge", zap.Int("steps", s.req.steps))
			s.finish(true)
			return
		}
		s.state = ScrollMeasuring
		shift, moved := s.step()
		if !moved {
			s.finish(true)
			return
		}
		s.req.steps++
		if s.cfg.Animated {
			s.tween = newShiftTween(shift, s.cfg.Velocity, s.cfg.Ease)
			s.state = ScrollShifting
			return
		}
		for _, a := range Axes {
			s.shift(a, shift.Get(a))
		}
		s.host.relayout()
		s.state = ScrollUnsettled
	}
}

// step computes the next shift per axis, in data order. It pre-measures one
// more line on an axis whose measured overhang cannot cover the remaining
// distance, then clamps the shift to the overhang so content never travels
// past the first or last item.
func (s *ScrollController) step() (Vec3, bool) {
	ds := s.host.dataSource()
	var shift Vec3
	moved := false
	for _, a := range Axes {
		l := s.host.scrollLayout(a)
		if l == nil {
			continue
		}
		remaining := s.remaining(l, a)
		if nearlyZero(remaining) {
			continue
		}
		dir := Direction(signOf(remaining))
		want := math.Abs(remaining)
		h := l.Overhang(a, dir)
		if h < want-eps {
			l.PreMeasureNext(ds, a, dir)
			h = l.Overhang(a, dir)
		}
		step := min(want, h)
		if step <= eps {
			continue
		}
		shift.Set(a, float64(dir)*step)
		moved = true
		if !s.req.target.Positional {
			s.req.remaining.Set(a, s.req.remaining.Get(a)-float64(dir)*step)
		}
	}
	return shift, moved
}

// remaining returns the distance still to travel along axis in data order.
// An unmeasured positional target is infinitely far in its direction.
func (s *ScrollController) remaining(l Layout, axis Axis) float64 {
	t := s.req.target
	if !t.Positional {
		return s.req.remaining.Get(axis)
	}
	if d, ok := l.DistanceToChild(t.Index, axis); ok {
		return d
	}
	if dir := l.DirectionToChild(t.Index, axis); dir != DirectionNone {
		return float64(dir) * math.Inf(1)
	}
	return 0
}

// shift moves content so that the view travels by delta in data order.
func (s *ScrollController) shift(axis Axis, delta float64) {
	if l := s.host.scrollLayout(axis); l != nil && delta != 0 {
		l.ShiftBy(-delta, axis)
	}
}

// Update advances an animated shift by dt seconds. When the shift lands,
// the next step starts in the same call.
func (s *ScrollController) Update(dt float32) {
	if s.tween == nil {
		return
	}
	done := s.tween.Update(dt, s.shift)
	s.host.requestLayout()
	if !done {
		return
	}
	s.tween = nil
	s.state = ScrollUnsettled
	s.host.relayout()
	s.run()
}

// finish ends the current request and notifies listeners.
func (s *ScrollController) finish(completed bool) {
	req := s.req
	s.req = nil
	s.tween = nil
	s.state = ScrollSettled
	if completed {
		s.host.settle()
	}
	for _, l := range s.listeners {
		l.ScrollFinished(req.target, completed)
	}
}
