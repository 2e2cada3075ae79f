package trellis

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
)

func newTestGrid(cfg GridConfig, viewport Vec3) *GridLayout {
	g := NewGridLayout(cfg)
	g.SetViewport(viewport)
	g.EnableViewport(true)
	return g
}

func TestGridVerticalFixedCells(t *testing.T) {
	ds := newCells(30, 10, 10)
	g := newTestGrid(GridConfig{
		Orientation: Vertical,
		Count:       3,
		CellWidth:   10,
		CellHeight:  10,
		GravityY:    GravityTop,
	}, Vec3{X: 30, Y: 20})

	if !pass(g, ds, 0) {
		t.Error("pass reported content out of bounds")
	}
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8}
	if diff := cmp.Diff(want, g.MeasuredIndices()); diff != "" {
		t.Errorf("measured (-want +got):\n%s", diff)
	}

	c := cellAt(ds, 4)
	assertNear(t, "item 4 X", c.X, 0)
	assertNear(t, "item 4 Y", c.Y, -5)
	c = cellAt(ds, 0)
	assertNear(t, "item 0 X", c.X, -10)
	assertNear(t, "item 0 Y", c.Y, 5)

	for i := 0; i < 6; i++ {
		if v := cellAt(ds, i).Visibility; v != Visible {
			t.Errorf("item %d visibility = %v, want Visible", i, v)
		}
	}
	for i := 6; i < 9; i++ {
		if v := cellAt(ds, i).Visibility; v != Invisible {
			t.Errorf("item %d visibility = %v, want Invisible", i, v)
		}
	}
	if diff := cmp.Diff(Vec3{X: 10, Y: 10}, g.CellSize()); diff != "" {
		t.Errorf("cell size (-want +got):\n%s", diff)
	}
}

func TestGridShrinksCellsToFit(t *testing.T) {
	ds := newCells(30, 10, 10)
	g := newTestGrid(GridConfig{
		Orientation: Vertical,
		Count:       3,
		CellWidth:   10,
		CellHeight:  10,
		GravityY:    GravityTop,
	}, Vec3{X: 24, Y: 20})
	pass(g, ds, 0)

	size := g.CellSize()
	assertNear(t, "cell width", size.X, 8)
	assertNear(t, "cell height", size.Y, 8)
	assertNear(t, "item 0 X", cellAt(ds, 0).X, -8)
	assertNear(t, "item 1 X", cellAt(ds, 1).X, 0)
	assertNear(t, "item 3 Y", cellAt(ds, 3).Y, -2)
}

func TestGridHorizontal(t *testing.T) {
	ds := newCells(20, 10, 10)
	g := newTestGrid(GridConfig{
		Orientation: Horizontal,
		Count:       2,
		CellWidth:   10,
		CellHeight:  10,
	}, Vec3{X: 20, Y: 20})
	pass(g, ds, 0)

	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5}, g.MeasuredIndices()); diff != "" {
		t.Errorf("measured (-want +got):\n%s", diff)
	}
	// Items fill columns top to bottom before moving right.
	c := cellAt(ds, 0)
	assertNear(t, "item 0 X", c.X, -5)
	assertNear(t, "item 0 Y", c.Y, 5)
	c = cellAt(ds, 3)
	assertNear(t, "item 3 X", c.X, 5)
	assertNear(t, "item 3 Y", c.Y, -5)
}

func TestGridFillKeepsColumnsAligned(t *testing.T) {
	tests := []struct {
		name  string
		items int
		wantX []float64
	}{
		{"short last row", 5, []float64{-25, 0, 25, -25, 0}},
		{"single item", 1, []float64{-25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := newCells(tt.items, 10, 10)
			g := newTestGrid(GridConfig{
				Orientation: Vertical,
				Count:       3,
				GravityX:    GravityFill,
				GravityY:    GravityTop,
			}, Vec3{X: 60, Y: 100})
			pass(g, ds, 0)

			for i, want := range tt.wantX {
				assertNear(t, fmt.Sprintf("item %d X", i), cellAt(ds, i).X, want)
			}
		})
	}
}

func TestGridPreMeasuresWholeLines(t *testing.T) {
	ds := newCells(30, 10, 10)
	g := newTestGrid(GridConfig{
		Orientation: Vertical,
		Count:       3,
		CellWidth:   10,
		CellHeight:  10,
		GravityY:    GravityTop,
	}, Vec3{X: 30, Y: 20})
	pass(g, ds, 0)

	if got := g.PreMeasureNext(ds, AxisX, DirectionForward); got != 0 {
		t.Errorf("cross axis pre-measured %v", got)
	}
	assertNear(t, "overhang before", g.Overhang(AxisY, DirectionForward), 10)
	assertNear(t, "line extent", g.PreMeasureNext(ds, AxisY, DirectionForward), 10)
	assertNear(t, "overhang after", g.Overhang(AxisY, DirectionForward), 20)
	if n := len(g.MeasuredIndices()); n != 12 {
		t.Errorf("measured %d items, want 12", n)
	}
	if got := g.PreMeasureNext(ds, AxisY, DirectionBackward); got != 0 {
		t.Errorf("pre-measured %v before the first line", got)
	}

	a, ok := g.AverageExtent()
	if !ok {
		t.Fatal("AverageExtent not ok")
	}
	assertNear(t, "average per item", a*3, 10)
}

func TestGridTrimDropsBothAxes(t *testing.T) {
	ds := newCells(30, 10, 10)
	g := newTestGrid(GridConfig{
		Orientation: Vertical,
		Count:       3,
		CellWidth:   10,
		CellHeight:  10,
		GravityY:    GravityTop,
	}, Vec3{X: 30, Y: 20})
	pass(g, ds, 0)
	g.PreMeasureNext(ds, AxisY, DirectionForward)

	g.ShiftBy(-20, AxisY)
	removed := g.Trim()
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5}, removed); diff != "" {
		t.Errorf("removed (-want +got):\n%s", diff)
	}
	for _, i := range removed {
		if g.IsMeasured(i) || g.Rows().IsMeasured(i) || g.Columns().IsMeasured(i) {
			t.Errorf("item %d still measured after trim", i)
		}
	}
	if diff := cmp.Diff([]int{6, 7, 8, 9, 10, 11}, g.MeasuredIndices()); diff != "" {
		t.Errorf("measured (-want +got):\n%s", diff)
	}
}

func TestGridRejectsInvalidConfig(t *testing.T) {
	logs := observeLogs(t, zapcore.WarnLevel)

	g := NewGridLayout(GridConfig{Orientation: Stack, Count: 0})
	if g.Orientation() != Vertical || g.Count() != 1 {
		t.Errorf("got %v grid of %d, want vertical grid of 1", g.Orientation(), g.Count())
	}
	g.SetCount(-1)
	g.SetOrientation(Stack)
	g.SetCellWidth(-3)
	g.SetDividerPadding(AxisZ, 1)
	if g.Count() != 1 || g.Orientation() != Vertical {
		t.Error("invalid setters should leave the grid unchanged")
	}
	if logs.Len() != 6 {
		t.Errorf("logged %d warnings, want 6", logs.Len())
	}

	g.SetCount(4)
	if g.Count() != 4 {
		t.Errorf("Count = %d, want 4", g.Count())
	}
	if !g.Handles(AxisX) || !g.Handles(AxisY) || g.Handles(AxisZ) {
		t.Error("grid should handle X and Y only")
	}
}

func TestGridItemInvalidation(t *testing.T) {
	ds := newCells(30, 10, 10)
	g := newTestGrid(GridConfig{
		Orientation: Vertical,
		Count:       3,
		CellWidth:   10,
		CellHeight:  10,
		GravityY:    GravityTop,
	}, Vec3{X: 30, Y: 20})
	pass(g, ds, 0)

	g.InvalidateIndex(4)
	if g.IsMeasured(4) || g.Rows().IsMeasured(4) || g.Columns().IsMeasured(4) {
		t.Fatal("item 4 still measured")
	}
	pass(g, ds, 0)
	c := cellAt(ds, 4)
	assertNear(t, "item 4 X", c.X, 0)
	assertNear(t, "item 4 Y", c.Y, -5)
}
