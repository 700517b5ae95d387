//go:build !tinygo && cgo

package hal

import (
	"context"
	"image"
	"sync"

	"macrodeck/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	tileW   = 128
	tileH   = 64
	tileGap = 8
)

// WindowConfig controls the desktop simulator.
type WindowConfig struct {
	Hz      int
	Columns int
	Host    HostConfig
}

var unitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyQ, ebiten.KeyW, ebiten.KeyE, ebiten.KeyR,
	ebiten.KeyA, ebiten.KeyS, ebiten.KeyD, ebiten.KeyF,
	ebiten.KeyZ, ebiten.KeyX, ebiten.KeyC, ebiten.KeyV,
}

// RunWindow starts a desktop window that shows every OLED of the deck and
// maps keys (1234/QWER/ASDF/ZXCV) and mouse clicks to buttons.
// It blocks until the window closes or the firmware fails.
func RunWindow(newApp NewApp, cfg WindowConfig) error {
	h := newHost(cfg.Host)
	step, err := newApp(h)
	if err != nil {
		return err
	}
	if cfg.Columns <= 0 {
		cfg.Columns = 4
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := &hostGame{h: h, cols: cfg.Columns}
	go func() {
		if err := runSteps(ctx, h, step, cfg.Hz, 0); err != nil && err != context.Canceled {
			g.fail(err)
		}
	}()

	w, hh := g.Layout(0, 0)
	ebiten.SetWindowTitle("macrodeck (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(w*2, hh*2)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return g.failure()
}

type hostGame struct {
	h    *hostHAL
	cols int

	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte

	mu  sync.Mutex
	err error
}

func (g *hostGame) fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err == nil {
		g.err = err
	}
}

func (g *hostGame) failure() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

func (g *hostGame) rows() int {
	n := g.h.deck.unitCount()
	return (n + g.cols - 1) / g.cols
}

func (g *hostGame) Update() error {
	if err := g.failure(); err != nil {
		return err
	}

	mouseUnit := -1
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		col, row := x/(tileW+tileGap), y/(tileH+tileGap)
		if col < g.cols {
			mouseUnit = row*g.cols + col
		}
	}
	for i := 0; i < g.h.deck.unitCount(); i++ {
		pressed := i == mouseUnit
		if i < len(unitKeys) && ebiten.IsKeyPressed(unitKeys[i]) {
			pressed = true
		}
		g.h.setPressed(i, pressed)
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	w, h := g.Layout(0, 0)
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		g.scratch = make([]byte, FrameBytes)
		g.fbImg = ebiten.NewImage(w, h)
	}

	dst := g.img.Pix
	for i := range dst {
		dst[i] = 0x20
		if i%4 == 3 {
			dst[i] = 0xFF
		}
	}
	for u := 0; u < g.h.deck.unitCount(); u++ {
		g.h.deck.snapshot(u, g.scratch)
		x0 := (u % g.cols) * (tileW + tileGap)
		y0 := (u / g.cols) * (tileH + tileGap)
		for y := 0; y < tileH; y++ {
			for x := 0; x < tileW; x++ {
				var v byte
				if pixelOn(g.scratch, x, y) {
					v = 0xFF
				}
				j := ((y0+y)*w + x0 + x) * 4
				dst[j+0] = v
				dst[j+1] = v
				dst[j+2] = v
			}
		}
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cols*(tileW+tileGap) - tileGap, g.rows()*(tileH+tileGap) - tileGap
}
