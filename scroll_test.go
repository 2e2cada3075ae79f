package trellis

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
)

// newStrip returns a container over n 10x10 cells laid out left to right in
// a 50-wide viewport, after its first pass.
func newStrip(n int, cfg ContainerConfig) (*Container, *SliceDataSource) {
	ds := newCells(n, 10, 10)
	l := NewLinearLayout(LinearConfig{Gravity: GravityLeft})
	c := NewContainer(ds, cfg, l)
	c.SetViewport(Vec3{X: 50, Y: Unbounded, Z: Unbounded})
	c.Layout()
	return c, ds
}

func animated(velocity float64) ContainerConfig {
	return ContainerConfig{Scroll: ScrollConfig{Animated: true, Velocity: velocity}}
}

type scrollRecorder struct {
	events []string
}

func describeTarget(t ScrollTarget) string {
	if t.Positional {
		return fmt.Sprintf("index %d", t.Index)
	}
	return fmt.Sprintf("offset %v", t.Offset.X)
}

func (r *scrollRecorder) ScrollStarted(t ScrollTarget) {
	r.events = append(r.events, "start "+describeTarget(t))
}

func (r *scrollRecorder) ScrollFinished(t ScrollTarget, completed bool) {
	r.events = append(r.events, fmt.Sprintf("finish %s %v", describeTarget(t), completed))
}

func intRange(lo, hi int) []int {
	var out []int
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}
	return out
}

func TestFirstPass(t *testing.T) {
	c, ds := newStrip(100, ContainerConfig{})
	// Item 5 is measured to cover the viewport, then trimmed: it starts on
	// the right edge.
	if diff := cmp.Diff(intRange(0, 4), c.MeasuredIndices()); diff != "" {
		t.Errorf("measured (-want +got):\n%s", diff)
	}
	for i := 0; i <= 4; i++ {
		assertNear(t, fmt.Sprintf("cell %d X", i), cellAt(ds, i).X, -20+10*float64(i))
	}
	if v := cellAt(ds, 5).Visibility; v != Invisible {
		t.Errorf("cell 5 is %v, want Invisible", v)
	}
	if cur, ok := c.CurrentIndex(); !ok || cur != 0 {
		t.Errorf("CurrentIndex = %d, %v; want 0, true", cur, ok)
	}
	if n := c.VisibleCount(); n != 5 {
		t.Errorf("VisibleCount = %d, want 5", n)
	}
}

func TestScrollToPositionSync(t *testing.T) {
	c, ds := newStrip(100, ContainerConfig{})
	var recycled []int
	c.OnRecycle = func(i int, _ Item) { recycled = append(recycled, i) }
	rec := &scrollRecorder{}
	c.Scroller().AddListener(rec)

	c.Scroller().ScrollToPosition(10)

	assertNear(t, "cell 10 X", cellAt(ds, 10).X, -20)
	if diff := cmp.Diff(intRange(10, 14), c.MeasuredIndices()); diff != "" {
		t.Errorf("measured (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(intRange(0, 9), recycled); diff != "" {
		t.Errorf("recycled (-want +got):\n%s", diff)
	}
	for _, i := range recycled {
		if v := cellAt(ds, i).Visibility; v != Invisible {
			t.Errorf("recycled cell %d is %v", i, v)
		}
	}
	if cur, _ := c.CurrentIndex(); cur != 10 {
		t.Errorf("CurrentIndex = %d, want 10", cur)
	}
	want := []string{"start index 10", "finish index 10 true"}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	if c.Scroller().IsScrolling() || c.Scroller().State() != ScrollSettled {
		t.Errorf("state = %v after a sync scroll", c.Scroller().State())
	}
}

func TestScrollToPositionClampsAtEnd(t *testing.T) {
	c, ds := newStrip(20, ContainerConfig{})
	rec := &scrollRecorder{}
	c.Scroller().AddListener(rec)

	c.Scroller().ScrollToPosition(19)

	assertNear(t, "cell 19 X", cellAt(ds, 19).X, 20)
	assertNear(t, "cell 15 X", cellAt(ds, 15).X, -20)
	if cur, _ := c.CurrentIndex(); cur != 15 {
		t.Errorf("CurrentIndex = %d, want 15", cur)
	}
	want := []string{"start index 19", "finish index 19 true"}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestScrollByOffset(t *testing.T) {
	c, ds := newStrip(100, ContainerConfig{})
	c.Scroller().ScrollByOffset(Vec3{X: 25})

	if diff := cmp.Diff(intRange(2, 7), c.MeasuredIndices()); diff != "" {
		t.Errorf("measured (-want +got):\n%s", diff)
	}
	assertNear(t, "cell 2 X", cellAt(ds, 2).X, -25)
	for _, i := range []int{2, 7} {
		if v := cellAt(ds, i).Visibility; v != Placeholder {
			t.Errorf("cell %d is %v, want Placeholder", i, v)
		}
	}
	for i := 3; i < 7; i++ {
		if v := cellAt(ds, i).Visibility; v != Visible {
			t.Errorf("cell %d is %v, want Visible", i, v)
		}
	}
}

func TestScrollBackwardAtStartIsNoop(t *testing.T) {
	c, ds := newStrip(100, ContainerConfig{})
	rec := &scrollRecorder{}
	c.Scroller().AddListener(rec)

	c.Scroller().ScrollByOffset(Vec3{X: -30})

	assertNear(t, "cell 0 X", cellAt(ds, 0).X, -20)
	want := []string{"start offset -30", "finish offset -30 true"}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestScrollAnimated(t *testing.T) {
	c, ds := newStrip(100, animated(100))
	rec := &scrollRecorder{}
	c.Scroller().AddListener(rec)

	c.Scroller().ScrollByOffset(Vec3{X: 10})
	if !c.Scroller().IsScrolling() || c.Scroller().State() != ScrollShifting {
		t.Fatalf("state = %v, want shifting", c.Scroller().State())
	}
	assertNear(t, "cell 0 X before tick", cellAt(ds, 0).X, -20)

	c.Advance(0.05)
	if x := cellAt(ds, 0).X; !approxEqual(x, -25, 1e-4) {
		t.Errorf("cell 0 X half way = %v, want -25", x)
	}
	if cellAt(ds, 0).Visibility == Invisible {
		t.Error("cell 0 trimmed while the scroll is in flight")
	}

	c.Advance(0.06)
	if c.Scroller().IsScrolling() {
		t.Fatal("scroll still in flight")
	}
	assertNear(t, "cell 0 X", cellAt(ds, 0).X, -30)
	assertNear(t, "cell 1 X", cellAt(ds, 1).X, -20)
	if c.Layouts()[0].IsMeasured(0) || cellAt(ds, 0).Visibility != Invisible {
		t.Error("cell 0 should be trimmed once the scroll settles")
	}
	want := []string{"start offset 10", "finish offset 10 true"}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestScrollSupersede(t *testing.T) {
	c, ds := newStrip(100, animated(100))
	rec := &scrollRecorder{}
	c.Scroller().AddListener(rec)

	c.Scroller().ScrollByOffset(Vec3{X: 10})
	c.Advance(0.05)
	c.Scroller().ScrollToPosition(0)

	want := []string{"start offset 10", "finish offset 10 false", "start index 0"}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
	// A superseded shift is not rolled back.
	if x := cellAt(ds, 0).X; !approxEqual(x, -25, 1e-4) {
		t.Errorf("cell 0 X = %v, want -25", x)
	}

	c.Advance(1)
	assertNear(t, "cell 0 X", cellAt(ds, 0).X, -20)
	want = append(want, "finish index 0 true")
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestScrollCancel(t *testing.T) {
	c, ds := newStrip(100, animated(100))
	rec := &scrollRecorder{}
	c.Scroller().AddListener(rec)

	c.Scroller().ScrollByOffset(Vec3{X: 10})
	c.Advance(0.05)
	c.Scroller().Cancel()
	c.Scroller().Cancel()

	if c.Scroller().IsScrolling() || c.Scroller().State() != ScrollIdle {
		t.Errorf("state = %v after cancel", c.Scroller().State())
	}
	c.Advance(1)
	if x := cellAt(ds, 0).X; !approxEqual(x, -25, 1e-4) {
		t.Errorf("cell 0 X = %v, want -25", x)
	}
	want := []string{"start offset 10", "finish offset 10 false"}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestScrollToPage(t *testing.T) {
	logs := observeLogs(t, zapcore.WarnLevel)
	c, ds := newStrip(100, ContainerConfig{})

	c.Scroller().ScrollToPage(3)
	assertNear(t, "cell 10 X", cellAt(ds, 10).X, -20)

	c.Scroller().SetPageSize(2)
	c.Scroller().ScrollToPage(1)
	assertNear(t, "cell 0 X", cellAt(ds, 0).X, -20)

	c.Scroller().ScrollToPage(0)
	c.Scroller().SetPageSize(-1)
	if c.Scroller().PageSize() != 2 {
		t.Errorf("PageSize = %d, want 2", c.Scroller().PageSize())
	}
	if logs.Len() != 2 {
		t.Errorf("logged %d warnings, want 2", logs.Len())
	}
}

func TestScrollNextAndPrev(t *testing.T) {
	c, ds := newStrip(100, ContainerConfig{})

	c.Scroller().ScrollToNextItem()
	assertNear(t, "cell 1 X", cellAt(ds, 1).X, -20)
	c.Scroller().ScrollToPrevItem()
	assertNear(t, "cell 0 X", cellAt(ds, 0).X, -20)
	c.Scroller().ScrollToPrevItem()
	assertNear(t, "cell 0 X at start", cellAt(ds, 0).X, -20)
}

func TestScrollNextWalksFromPendingTarget(t *testing.T) {
	c, ds := newStrip(100, animated(100))

	c.Scroller().ScrollToNextItem()
	c.Scroller().ScrollToNextItem()
	for i := 0; i < 10 && c.Scroller().IsScrolling(); i++ {
		c.Advance(1)
	}
	if cur, _ := c.CurrentIndex(); cur != 2 {
		t.Errorf("CurrentIndex = %d, want 2", cur)
	}
	assertNear(t, "cell 2 X", cellAt(ds, 2).X, -20)
}

func TestScrollRejectsInvalidRequests(t *testing.T) {
	logs := observeLogs(t, zapcore.WarnLevel)
	c, _ := newStrip(10, ContainerConfig{})
	rec := &scrollRecorder{}
	c.Scroller().AddListener(rec)

	c.Scroller().ScrollToPosition(-1)
	c.Scroller().ScrollToPosition(10)
	c.Scroller().ScrollByOffset(Vec3{X: math.NaN()})
	c.Scroller().SetVelocity(0)

	if len(rec.events) != 0 {
		t.Errorf("rejected requests notified listeners: %v", rec.events)
	}
	if c.Scroller().Velocity() != DefaultScrollVelocity {
		t.Errorf("Velocity = %v", c.Scroller().Velocity())
	}
	if logs.Len() != 4 {
		t.Errorf("logged %d warnings, want 4", logs.Len())
	}
}

func TestScrollListenerRemoval(t *testing.T) {
	c, _ := newStrip(100, ContainerConfig{})
	rec := &scrollRecorder{}
	var finished int
	funcs := &ScrollListenerFuncs{Finished: func(ScrollTarget, bool) { finished++ }}
	c.Scroller().AddListener(rec)
	c.Scroller().AddListener(funcs)

	c.Scroller().ScrollToPosition(3)
	c.Scroller().RemoveListener(rec)
	c.Scroller().ScrollToPosition(4)

	if len(rec.events) != 2 {
		t.Errorf("removed listener saw %d events, want 2", len(rec.events))
	}
	if finished != 2 {
		t.Errorf("finished %d times, want 2", finished)
	}
}

func TestScrollConfigDefaults(t *testing.T) {
	logs := observeLogs(t, zapcore.WarnLevel)
	cfg := ScrollConfig{Velocity: -1, PageSize: -3}
	cfg.applyDefaults()

	want := ScrollConfig{
		Velocity:          DefaultScrollVelocity,
		FlingFactor:       DefaultFlingFactor,
		MaxFlingViewports: DefaultMaxFlingViewports,
		Deceleration:      DefaultFlingDeceleration,
		MaxSteps:          DefaultScrollMaxSteps,
	}
	cfg.Ease = nil
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("defaults (-want +got):\n%s", diff)
	}
	if logs.Len() != 2 {
		t.Errorf("logged %d warnings, want 2", logs.Len())
	}
}

func TestScrollStateString(t *testing.T) {
	if ScrollShifting.String() != "shifting" || ScrollState(9).String() != "ScrollState(9)" {
		t.Error("unexpected ScrollState strings")
	}
}

func TestFlingOffset(t *testing.T) {
	tests := []struct {
		velocity, factor, limit, want float64
	}{
		{100, 0.25, 0, 25},
		{1000, 0.25, 50, 50},
		{-1000, 0.25, 50, -50},
		{1000, 0.25, math.Inf(1), 250},
	}
	for _, tt := range tests {
		if got := flingOffset(tt.velocity, tt.factor, tt.limit); got != tt.want {
			t.Errorf("flingOffset(%v, %v, %v) = %v, want %v", tt.velocity, tt.factor, tt.limit, got, tt.want)
		}
	}
}

func TestBallisticDistance(t *testing.T) {
	assertNear(t, "forward", ballisticDistance(100, 50), 100)
	assertNear(t, "backward", ballisticDistance(-100, 50), -100)
	assertNear(t, "no deceleration", ballisticDistance(100, 0), 0)
}

func TestFling(t *testing.T) {
	c, _ := newStrip(100, ContainerConfig{})
	c.Scroller().Fling(Vec3{X: 100})
	if diff := cmp.Diff(intRange(2, 7), c.MeasuredIndices()); diff != "" {
		t.Errorf("measured (-want +got):\n%s", diff)
	}
}

func TestFlingToPosition(t *testing.T) {
	logs := observeLogs(t, zapcore.WarnLevel)
	c, ds := newStrip(100, ContainerConfig{Scroll: ScrollConfig{Deceleration: 5000}})

	// 1000²/(2·5000) = 100 units, ten 10-unit items.
	c.Scroller().FlingToPosition(AxisX, 1000)
	if cur, _ := c.CurrentIndex(); cur != 10 {
		t.Errorf("CurrentIndex = %d, want 10", cur)
	}
	assertNear(t, "cell 10 X", cellAt(ds, 10).X, -20)

	c.Scroller().FlingToPosition(AxisX, -5000)
	if cur, _ := c.CurrentIndex(); cur != 0 {
		t.Errorf("CurrentIndex = %d, want 0", cur)
	}

	c.Scroller().FlingToPosition(AxisY, 1000)
	if logs.FilterMessage("no layout scrolls along axis").Len() != 1 {
		t.Error("fling on an unhandled axis should be logged")
	}
}
