package grove

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Game adapts a TreeContext to ebiten.Game. Each Update steps the tree once
// per raw event, or once if mutations are queued, and stays idle otherwise.
// Draw paints the last materialized tree.
type Game struct {
	tree    *TreeContext
	input   *EbitenInput
	backend EbitenBackend
	fps     *fpsOverlay
	mounted bool
}

// NewGame creates a Game rendering root.
func NewGame(root Component, cfg Config) *Game {
	t := NewTreeContext(root, cfg)
	g := &Game{tree: t, input: NewEbitenInput()}
	if t.cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	return g
}

// Tree returns the underlying tree context.
func (g *Game) Tree() *TreeContext { return g.tree }

// Update implements ebiten.Game.
func (g *Game) Update() error {
	t := g.tree
	if t.testRunner != nil {
		t.testRunner.step(t)
	}

	stepped := false
	if !g.mounted {
		t.Step(nil)
		g.mounted = true
		stepped = true
	}
	if ev := t.nextInjected(); ev != nil {
		t.Step(ev)
		stepped = true
	}
	for _, ev := range g.input.Poll() {
		t.Step(&ev)
		stepped = true
	}
	if !stepped && t.Pending() {
		t.Step(nil)
	}

	x, y := ebiten.CursorPosition()
	cursor, _ := t.Tree().CursorAt(float64(x), float64(y))
	ebiten.SetCursorShape(cursor.ebitenShape())

	if g.fps != nil {
		g.fps.update()
	}
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	t := g.tree
	screen.Fill(t.cfg.ClearColor.RGBA())
	g.backend.Target = screen
	start := time.Now()
	g.backend.Draw(t.Tree())
	t.debugLogDraw(time.Since(start))
	if g.fps != nil {
		g.fps.draw(screen)
	}

	written, err := flushScreenshots(screen, t.takeScreenshots(), t.cfg.ScreenshotDir, time.Now())
	if err != nil {
		t.log.printf("%v", err)
	}
	if t.cfg.Debug {
		for _, path := range written {
			t.log.printf("screenshot: wrote %s", path)
		}
	}
}

// Layout implements ebiten.Game. The logical screen matches the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.input.SetSize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run opens a window and runs root until the window is closed. It closes
// the tree, cancelling spawned tasks, before returning.
func Run(root Component, cfg Config) error {
	g := NewGame(root, cfg)
	defer g.tree.Close()

	c := g.tree.cfg
	ebiten.SetWindowTitle(c.Title)
	ebiten.SetWindowSize(c.Width, c.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(c.TPS)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("grove: run: %w", err)
	}
	return nil
}

// fpsOverlay draws the current FPS and TPS in the top-left corner,
// refreshed about every half second.
type fpsOverlay struct {
	img        *ebiten.Image
	lastUpdate time.Time
}

func newFPSOverlay() *fpsOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &fpsOverlay{img: ebiten.NewImage(100, 32)}
}

func (o *fpsOverlay) update() {
	if time.Since(o.lastUpdate) < 500*time.Millisecond {
		return
	}
	o.lastUpdate = time.Now()

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
