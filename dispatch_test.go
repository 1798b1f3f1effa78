package grove

import (
	"slices"
	"testing"
)

// square is a keyed component that composes a 50x50 fill at (x, y) and
// records the events its handler sees.
type square struct {
	name string
	x, y float64
	stop bool
	log  *[]string
}

func (s square) Key() string { return s.name }

func (s square) Render(ctx *RenderCtx) {
	ctx.Compose(func(c *ComposeCtx) {
		c = c.Translate(s.x, s.y)
		c.AddLeaf(Fill{Shape: Rect{Width: 50, Height: 50}})
		c.AttachEvent(func(e Event) Propagation {
			if !e.IsLocalXYIn() {
				return Continue
			}
			*s.log = append(*s.log, s.name)
			if s.stop {
				return Stop
			}
			return Continue
		})
	})
}

func TestFrontMostHandlerSeesEventFirst(t *testing.T) {
	tests := []struct {
		name  string
		stopB bool
		want  []string
	}{
		{"continue", false, []string{"b", "a"}},
		{"stop", true, []string{"b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log []string
			a := square{name: "a", x: 0, y: 0, log: &log}
			b := square{name: "b", x: 25, y: 25, stop: tt.stopB, log: &log}
			tree := newTestTree(ComponentFunc(func(ctx *RenderCtx) {
				// b is added first, so b is in front of a.
				ctx.Add(b)
				ctx.Add(a)
			}))
			rt := tree.Step(pointerAt(40, 40))
			if !slices.Equal(log, tt.want) {
				t.Errorf("handlers = %v, want %v", log, tt.want)
			}

			// a is drawn before b.
			hits := rt.HitTest(40, 40)
			if len(hits) != 2 {
				t.Fatalf("HitTest found %d leaves, want 2", len(hits))
			}
			assertVec(t, "front hit local", hits[0].Local, Vec2{15, 15})
			assertVec(t, "back hit local", hits[1].Local, Vec2{40, 40})
		})
	}
}

func TestStopHidesEventFromOnRawEvent(t *testing.T) {
	seen := false
	tree := newTestTree(ComponentFunc(func(ctx *RenderCtx) {
		ctx.Root().AttachEvent(func(Event) Propagation { return Stop })
		ctx.Root().OnRawEvent(func(RawEvent) { seen = true })
	}))
	tree.Step(&RawEvent{Kind: EventKeyDown})
	if seen {
		t.Error("OnRawEvent saw a stopped event")
	}
}

func TestRawEventVisibleToEveryHandler(t *testing.T) {
	count := 0
	var raw RawEvent
	tree := newTestTree(ComponentFunc(func(ctx *RenderCtx) {
		for range 3 {
			ctx.Root().AttachEvent(func(Event) Propagation {
				count++
				return Continue
			})
		}
		ctx.Root().OnRawEvent(func(ev RawEvent) { raw = ev })
	}))
	tree.Step(&RawEvent{Kind: EventTextInput, Text: "hi"})
	if count != 3 {
		t.Errorf("handlers called %d times, want 3", count)
	}
	if raw.Text != "hi" {
		t.Errorf("raw text = %q, want hi", raw.Text)
	}
	tree.Step(nil)
	if count != 3 {
		t.Error("raw event leaked into the next iteration")
	}
}

func leaf(w, h float64) *RenderingTree {
	return &RenderingTree{Kind: NodeLeaf, Leaf: Fill{Shape: Rect{Width: w, Height: h}}}
}

func TestHitTestOrder(t *testing.T) {
	back := leaf(100, 100)
	front := leaf(20, 20)
	rt := &RenderingTree{Kind: NodeChildren, Children: []*RenderingTree{
		back,
		{Kind: NodeTranslate, X: 10, Y: 10, Children: []*RenderingTree{front}},
	}}
	hits := rt.HitTest(15, 15)
	if len(hits) != 2 || hits[0].Node != front || hits[1].Node != back {
		t.Fatalf("hits = %+v, want front then back", hits)
	}
	assertVec(t, "front local", hits[0].Local, Vec2{5, 5})
	if hits := rt.HitTest(500, 500); len(hits) != 0 {
		t.Errorf("miss returned %d hits", len(hits))
	}
}

func TestHitTestOnTopWins(t *testing.T) {
	top := leaf(100, 100)
	last := leaf(100, 100)
	rt := &RenderingTree{Kind: NodeChildren, Children: []*RenderingTree{
		{Kind: NodeOnTop, Children: []*RenderingTree{top}},
		last,
	}}
	hits := rt.HitTest(50, 50)
	if len(hits) != 2 || hits[0].Node != top || hits[1].Node != last {
		t.Errorf("on-top leaf should be hit first")
	}
}

func TestHitTestClip(t *testing.T) {
	inner := leaf(100, 100)
	escaped := leaf(100, 100)
	rt := &RenderingTree{Kind: NodeClip, Clip: Rect{Width: 10, Height: 10}, ClipOp: ClipIntersect,
		Children: []*RenderingTree{
			inner,
			{Kind: NodeOnTop, Children: []*RenderingTree{escaped}},
		}}

	hits := rt.HitTest(50, 50)
	if len(hits) != 1 || hits[0].Node != escaped {
		t.Errorf("outside the clip only the on-top leaf should hit, got %d hits", len(hits))
	}
	hits = rt.HitTest(5, 5)
	if len(hits) != 2 || hits[0].Node != escaped || hits[1].Node != inner {
		t.Errorf("inside the clip both leaves should hit, got %d hits", len(hits))
	}
}

func TestCursorAt(t *testing.T) {
	rt := &RenderingTree{Kind: NodeChildren, Children: []*RenderingTree{
		{Kind: NodeCursor, Cursor: CursorText, Children: []*RenderingTree{leaf(100, 100)}},
		{Kind: NodeCursor, Cursor: CursorPointer, Children: []*RenderingTree{
			{Kind: NodeTranslate, X: 10, Children: []*RenderingTree{leaf(20, 20)}},
		}},
		{Kind: NodeTranslate, Y: 200, Children: []*RenderingTree{leaf(10, 10)}},
	}}
	tests := []struct {
		name   string
		x, y   float64
		want   Cursor
		wantOK bool
	}{
		{"front leaf without cursor", 5, 205, CursorDefault, false},
		{"pointer region", 15, 5, CursorPointer, true},
		{"text region", 50, 50, CursorText, true},
		{"nothing", 500, 500, CursorDefault, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := rt.CursorAt(tt.x, tt.y)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CursorAt(%v, %v) = %v, %v, want %v, %v", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestVisitActions(t *testing.T) {
	a, b, c := leaf(1, 1), leaf(1, 1), leaf(1, 1)
	group := &RenderingTree{Kind: NodeTranslate, X: 5, Children: []*RenderingTree{a, b}}
	rt := &RenderingTree{Kind: NodeChildren, Children: []*RenderingTree{c, group}}

	var visited []*RenderingTree
	rt.Visit(func(n *RenderingTree, inv [6]float64) VisitAction {
		visited = append(visited, n)
		if n == group {
			assertMatrix(t, "group inverse", inv, translateAffine(-5, 0))
		}
		return VisitContinue
	})
	if want := []*RenderingTree{rt, group, b, a, c}; !slices.Equal(visited, want) {
		t.Errorf("visit order wrong: got %d nodes", len(visited))
	}

	visited = nil
	rt.Visit(func(n *RenderingTree, _ [6]float64) VisitAction {
		visited = append(visited, n)
		if n == group {
			return VisitSkipChildren
		}
		return VisitContinue
	})
	if want := []*RenderingTree{rt, group, c}; !slices.Equal(visited, want) {
		t.Errorf("skip children visited %d nodes, want 3", len(visited))
	}

	visited = nil
	rt.Visit(func(n *RenderingTree, _ [6]float64) VisitAction {
		visited = append(visited, n)
		if n == b {
			return VisitStop
		}
		return VisitContinue
	})
	if len(visited) != 3 {
		t.Errorf("stop visited %d nodes, want 3", len(visited))
	}
}

func TestTreeBoundsAndContains(t *testing.T) {
	rt := &RenderingTree{Kind: NodeChildren, Children: []*RenderingTree{
		{Kind: NodeTranslate, X: 10, Y: 10, Children: []*RenderingTree{leaf(20, 20)}},
		{Kind: NodeScale, X: 2, Y: 2, Children: []*RenderingTree{leaf(5, 5)}},
	}}
	r, ok := rt.Bounds()
	if !ok || r != (Rect{0, 0, 30, 30}) {
		t.Errorf("Bounds = %v, %v, want {0 0 30 30}", r, ok)
	}
	if !rt.Contains(9, 9) || !rt.Contains(25, 25) {
		t.Error("Contains missed a leaf")
	}
	if rt.Contains(5, 20) {
		t.Error("Contains hit a gap")
	}

	clipped := &RenderingTree{Kind: NodeClip, Clip: Rect{Width: 15, Height: 15}, Children: rt.Children}
	if r, _ := clipped.Bounds(); r != (Rect{0, 0, 15, 15}) {
		t.Errorf("clipped Bounds = %v, want {0 0 15 15}", r)
	}
	if clipped.Contains(25, 25) {
		t.Error("Contains ignored the clip")
	}
}

func TestBoundsUnderAbsoluteIsGlobal(t *testing.T) {
	sub := &RenderingTree{Kind: NodeTranslate, X: 100, Y: 100, Children: []*RenderingTree{
		leaf(10, 10),
		{Kind: NodeAbsolute, X: 5, Y: 5, Children: []*RenderingTree{leaf(10, 10)}},
	}}
	r, ok := sub.Bounds()
	if !ok || r != (Rect{5, 5, 105, 105}) {
		t.Errorf("Bounds = %v, %v, want {5 5 105 105}", r, ok)
	}
}

func TestLabelBounds(t *testing.T) {
	got := Label{Text: "ab\nlonger"}.Bounds()
	want := Rect{Width: 6 * labelGlyphWidth, Height: 2 * labelGlyphHeight}
	if got != want {
		t.Errorf("Bounds = %v, want %v", got, want)
	}
	if (Label{}).Contains(0, 0) {
		t.Error("empty label should contain nothing")
	}
}

func TestSpriteExplicitSize(t *testing.T) {
	s := Sprite{Width: 8, Height: 4}
	if s.Bounds() != (Rect{Width: 8, Height: 4}) {
		t.Errorf("Bounds = %v", s.Bounds())
	}
	if !s.Contains(7, 3) || s.Contains(9, 3) {
		t.Error("Contains disagrees with Bounds")
	}
}
