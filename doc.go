// Package trellis is a virtualized layout and measurement engine for
// retained-mode scenes built on [Ebitengine].
//
// Trellis arranges an ordered collection of items along one axis, on a grid,
// or around an arc, inside a bounded or unbounded viewport. It measures only
// the items the viewport needs, re-measures incrementally when data changes,
// recycles items that scroll out of view, and animates scrolling. It never
// draws: items report their size and receive an offset, a rotation and a
// visibility.
//
// # Quick start
//
// Wrap items in a [DataSource], pick a layout and hand both to a
// [Container]:
//
//	ds := trellis.NewSliceDataSource()
//	for i := range 100 {
//		ds.Append(trellis.NewCell(fmt.Sprint(i), 80, 40))
//	}
//	list := trellis.NewLinearLayout(trellis.LinearConfig{
//		Orientation:    trellis.Vertical,
//		Gravity:        trellis.GravityTop,
//		DividerPadding: 4,
//	})
//	c := trellis.NewContainer(ds, trellis.ContainerConfig{}, list)
//	c.SetViewport(trellis.Vec3{X: 320, Y: 480, Z: trellis.Unbounded})
//
// Call [Container.Update] from your game's Update and draw the visible cells
// with [Cell.GeoM] composed with [ScreenView]:
//
//	view := trellis.ScreenView(trellis.Rect{Width: 320, Height: 480}, 1)
//	for _, i := range c.MeasuredIndices() {
//		cell := ds.Get(i).(*trellis.Cell)
//		if cell.Visibility == trellis.Invisible {
//			continue
//		}
//		op := &ebiten.DrawImageOptions{GeoM: cell.GeoM(view)}
//		screen.DrawImage(img, op)
//	}
//
// To find the cell under the cursor, map the screen point back with
// [ScreenToLayout] and ask [Container.ItemAt].
//
// # Layouts
//
// [LinearLayout] places items end to end along one axis. [CurvedLayout]
// bends a linear layout around a circle of a given radius, for rings and
// arches. [GridLayout] composes two chunked linear layouts into rows and
// columns. Layout space has its origin at the viewport center with Y up;
// data order runs toward -Y so item 0 of a vertical list sits at the top.
//
// Each layout keeps one [MeasurementCache] per chunk. A pass measures
// outward from an anchor until the viewport is covered, then finalizes
// uniform sizes, fill padding and gravity, then places each item.
//
// # Scrolling
//
// [ScrollController] moves content toward a data index or by an offset,
// pre-measuring one line at a time and never scrolling past the first or
// last item. With [ScrollConfig.Animated] set, each step is a tween (via
// [gween]) ticked by [Container.Update]; a new request supersedes the one in
// flight. [ScrollListener] receives start and finish notifications; the
// trellis/ecs module forwards them into a [Donburi] world.
//
// # Diagnostics
//
// Configuration errors are logged through a [zap] logger installed with
// [SetLogger] and the offending change is rejected. [Container.SetDebugMode]
// adds per-pass timing and counts at debug level, and
// [Container.EnableDebugOverlay] draws FPS and measurement counts on screen.
// [LoadScrollScript] replays a JSON list of scroll requests across frames
// for demos and visual checks.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
// [zap]: https://pkg.go.dev/go.uber.org/zap
package trellis
