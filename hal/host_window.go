//go:build !tinygo && cgo

package hal

import (
	"image"
	"os"

	"starterkit/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Scale int
	Feed  <-chan Command
}

// RunWindow starts a desktop window that shows the OLED and maps the keyboard
// onto the simulated sensors. It blocks until the window closes.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 4
	}
	h := newHost(os.Stderr)
	step := newApp(h)

	g := &hostGame{h: h, step: step, feed: cfg.Feed}
	ebiten.SetWindowTitle("starterkit (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*cfg.Scale, h.fb.height*cfg.Scale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
	feed    <-chan Command
}

var padKeys = map[ebiten.Key]string{
	ebiten.KeyArrowUp:    "up",
	ebiten.KeyArrowDown:  "down",
	ebiten.KeyArrowLeft:  "left",
	ebiten.KeyArrowRight: "right",
	ebiten.KeyEnter:      "button",
	ebiten.KeySpace:      "button",
}

var bandKeys = map[ebiten.Key]int{
	ebiten.Key1: 1,
	ebiten.Key2: 2,
	ebiten.Key3: 3,
	ebiten.Key4: 4,
}

func (g *hostGame) pollKeys() {
	b := g.h.board
	for key, target := range padKeys {
		if inpututil.IsKeyJustPressed(key) {
			_ = b.Apply(Command{Op: OpPress, Target: target})
		}
		if inpututil.IsKeyJustReleased(key) {
			_ = b.Apply(Command{Op: OpRelease, Target: target})
		}
	}
	for key, band := range bandKeys {
		if inpututil.IsKeyJustPressed(key) {
			_ = b.Apply(Command{Op: OpTiltBand, Value: band})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		b.nudgeDial(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		b.nudgeDial(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		b.toggle("upside")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		b.toggle("touch")
	}
}

func (g *hostGame) Update() error {
	g.pollKeys()
	return tickOnce(g.h, g.step, g.feed)
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
