package grove

import "testing"

func TestGameLayoutTracksWindow(t *testing.T) {
	g := NewGame(ComponentFunc(func(*RenderCtx) {}), Config{})
	w, h := g.Layout(800, 600)
	if w != 800 || h != 600 {
		t.Errorf("Layout = %dx%d, want 800x600", w, h)
	}
	if g.input.width != 800 || g.input.height != 600 {
		t.Errorf("input size = %dx%d, want 800x600", g.input.width, g.input.height)
	}
	if g.fps != nil {
		t.Error("fps overlay created without ShowFPS")
	}
	if g.Tree() == nil || g.Tree().Frame() != 0 {
		t.Error("game should wrap an unmounted tree")
	}
}
