package trellis

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// overlayRefresh is how often, in seconds, the overlay text is rebuilt.
const overlayRefresh = 0.5

// DebugOverlay shows FPS, TPS and the container's measurement and scroll
// state in a small panel. It is refreshed from Container.Advance every half
// second and drawn with ebitenutil.DebugPrint.
type DebugOverlay struct {
	c       *Container
	img     *ebiten.Image
	text    string
	elapsed float64
	stale   bool
}

// EnableDebugOverlay turns the overlay on or off. Draw it with
// DrawDebugOverlay from the game's Draw.
func (c *Container) EnableDebugOverlay(enabled bool) {
	switch {
	case enabled && c.overlay == nil:
		c.overlay = &DebugOverlay{c: c}
		c.overlay.refresh()
	case !enabled && c.overlay != nil:
		if c.overlay.img != nil {
			c.overlay.img.Deallocate()
		}
		c.overlay = nil
	}
}

// DrawDebugOverlay draws the overlay at the top-left of dst. It does nothing
// when the overlay is off.
func (c *Container) DrawDebugOverlay(dst *ebiten.Image) {
	if c.overlay != nil {
		c.overlay.draw(dst)
	}
}

func (o *DebugOverlay) update(dt float64) {
	o.elapsed += dt
	if o.elapsed < overlayRefresh {
		return
	}
	o.elapsed = 0
	o.refresh()
}

func (o *DebugOverlay) refresh() {
	o.text = overlayText(o.c, ebiten.ActualFPS(), ebiten.ActualTPS())
	o.stale = true
}

func (o *DebugOverlay) draw(dst *ebiten.Image) {
	if o.img == nil {
		// 180x64 fits four lines of the debug font.
		o.img = ebiten.NewImage(180, 64)
		o.stale = true
	}
	if o.stale {
		o.img.Clear()
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, o.text)
		o.stale = false
	}
	dst.DrawImage(o.img, nil)
}

func overlayText(c *Container, fps, tps float64) string {
	current := "-"
	if i, ok := c.CurrentIndex(); ok {
		current = fmt.Sprint(i)
	}
	return fmt.Sprintf("FPS: %.1f TPS: %.1f\nmeasured: %d visible: %d\ncurrent: %s\nscroll: %s",
		fps, tps, len(c.MeasuredIndices()), c.VisibleCount(), current, c.scroller.State())
}
