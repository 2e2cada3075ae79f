package trellis

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// shiftTween animates a content shift on up to three axes at once. Each axis
// tween runs from 0 to its total shift; every Update hands the layout only
// the increment since the previous frame, so a tween that is detached part
// way leaves content where it was last moved.
//
// There is no global animation manager. The ScrollController owns at most
// one shiftTween and ticks it from Update.
type shiftTween struct {
	tweens [3]*gween.Tween
	target [3]float64
	last   [3]float64
	done   [3]bool
}

// newShiftTween creates tweens for every non-zero component of shift. Each
// axis runs for |shift| / velocity seconds.
func newShiftTween(shift Vec3, velocity float64, fn ease.TweenFunc) *shiftTween {
	if fn == nil {
		fn = ease.Linear
	}
	t := &shiftTween{}
	for _, a := range Axes {
		v := shift.Get(a)
		if nearlyZero(v) {
			t.done[a] = true
			continue
		}
		duration := float32(math.Abs(v) / velocity)
		t.tweens[a] = gween.New(0, float32(v), duration, fn)
		t.target[a] = v
	}
	return t
}

// Update advances every axis by dt seconds and calls apply with the
// increment each axis moved this frame. It reports whether all axes have
// finished.
func (t *shiftTween) Update(dt float32, apply func(axis Axis, delta float64)) bool {
	for _, a := range Axes {
		if t.done[a] {
			continue
		}
		val, finished := t.tweens[a].Update(dt)
		cur := float64(val)
		if finished {
			// Land exactly on the target; gween works in float32.
			cur = t.target[a]
		}
		delta := cur - t.last[a]
		t.last[a] = cur
		if delta != 0 {
			apply(a, delta)
		}
		t.done[a] = finished
	}
	return t.Done()
}

// Done reports whether every axis has finished.
func (t *shiftTween) Done() bool {
	return t.done[AxisX] && t.done[AxisY] && t.done[AxisZ]
}
