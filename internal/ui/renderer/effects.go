package renderer

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/colorwargame/colorwar/internal/game/core"
)

// Flash shape, in cell-size units so the renderer can scale it.
const (
	flashSeconds    = float32(0.3)
	flashStartScale = float32(0.3)
	flashEndScale   = float32(0.72)
)

// ExplosionFlash is one expanding ring drawn over a cell that detonated.
// The delay staggers rings so deeper cascade waves appear later.
type ExplosionFlash struct {
	at    core.Coordinate
	clr   color.RGBA
	delay float32

	radius *gween.Tween
	alpha  *gween.Tween

	scale    float32
	strength float32
	live     bool
	done     bool
}

// NewExplosionFlash creates a flash over the cell at, tinted with the
// detonating player's color, starting after delay.
func NewExplosionFlash(at core.Coordinate, clr color.RGBA, delay time.Duration) *ExplosionFlash {
	return &ExplosionFlash{
		at:     at,
		clr:    clr,
		delay:  float32(delay.Seconds()),
		radius: gween.New(flashStartScale, flashEndScale, flashSeconds, ease.OutQuad),
		alpha:  gween.New(1, 0, flashSeconds, ease.Linear),
	}
}

// Update advances the animation by dt seconds and reports whether the
// flash has finished. Time left over after the delay expires carries into
// the tweens so long frames do not stall the ring.
func (f *ExplosionFlash) Update(dt float32) bool {
	if f.done {
		return true
	}
	if f.delay > 0 {
		f.delay -= dt
		if f.delay >= 0 {
			return false
		}
		dt = -f.delay
		f.delay = 0
	}
	f.live = true
	f.scale, _ = f.radius.Update(dt)
	f.strength, f.done = f.alpha.Update(dt)
	return f.done
}

// Live reports whether the delay has elapsed and the ring is showing.
func (f *ExplosionFlash) Live() bool {
	return f.live && !f.done
}

// Draw paints the ring at its current size and fade.
func (f *ExplosionFlash) Draw(screen *ebiten.Image, br *BoardRenderer) {
	if !f.Live() {
		return
	}
	cx, cy := br.CellCenter(f.at)

	// color.RGBA is alpha-premultiplied, so the fade scales every channel.
	clr := color.RGBA{
		R: uint8(float32(f.clr.R) * f.strength),
		G: uint8(float32(f.clr.G) * f.strength),
		B: uint8(float32(f.clr.B) * f.strength),
		A: uint8(255 * f.strength),
	}
	vector.DrawFilledCircle(screen, cx, cy, f.scale*float32(br.cellSize), clr, true)
}
