package grove

import (
	"fmt"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// NodeKind identifies the role of a RenderingTree node.
type NodeKind uint8

const (
	NodeEmpty     NodeKind = iota // draws nothing
	NodeChildren                  // plain group
	NodeTranslate                 // offsets children by (X, Y)
	NodeAbsolute                  // places children at (X, Y) from the root, ignoring ancestors
	NodeRotate                    // rotates children by Angle radians
	NodeScale                     // scales children by (X, Y)
	NodeClip                      // gates children by Clip and ClipOp
	NodeOnTop                     // draws and hit-tests children above everything else
	NodeCursor                    // requests Cursor while the pointer is over a child
	NodeLeaf                      // a single drawable primitive
)

var nodeKindNames = [...]string{
	NodeEmpty:     "empty",
	NodeChildren:  "children",
	NodeTranslate: "translate",
	NodeAbsolute:  "absolute",
	NodeRotate:    "rotate",
	NodeScale:     "scale",
	NodeClip:      "clip",
	NodeOnTop:     "on_top",
	NodeCursor:    "cursor",
	NodeLeaf:      "leaf",
}

// String returns the kind name.
func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

// RenderingTree is an immutable, materialized scene graph node.
// Children are listed in draw order: later children are drawn on top.
//
// Uses a flat struct with a Kind discriminator rather than one type per
// node kind, so that walkers switch on Kind without type assertions.
type RenderingTree struct {
	Kind NodeKind

	// X and Y are the offset of NodeTranslate and NodeAbsolute nodes and the
	// factors of NodeScale nodes.
	X, Y float64
	// Angle is the NodeRotate angle in radians.
	Angle float64

	Clip   Shape
	ClipOp ClipOp
	Cursor Cursor
	Leaf   Drawable

	Children []*RenderingTree
}

// local returns the transform from this node's child space to global space,
// given the transform m of its parent's space.
func (rt *RenderingTree) local(m [6]float64) [6]float64 {
	switch rt.Kind {
	case NodeTranslate:
		return multiplyAffine(m, translateAffine(rt.X, rt.Y))
	case NodeAbsolute:
		return translateAffine(rt.X, rt.Y)
	case NodeRotate:
		return multiplyAffine(m, rotateAffine(rt.Angle))
	case NodeScale:
		return multiplyAffine(m, scaleAffine(rt.X, rt.Y))
	default:
		return m
	}
}

// Bounds returns the axis-aligned bounding box of everything the tree draws,
// in the coordinate space of the tree's parent. Parts below a NodeAbsolute
// are placed from the root, so they contribute global coordinates. It
// reports false for a tree that draws nothing.
func (rt *RenderingTree) Bounds() (Rect, bool) {
	return rt.bounds(identityTransform)
}

func (rt *RenderingTree) bounds(m [6]float64) (Rect, bool) {
	if rt == nil {
		return Rect{}, false
	}
	m = rt.local(m)
	if rt.Kind == NodeLeaf {
		if rt.Leaf == nil {
			return Rect{}, false
		}
		return transformRect(m, rt.Leaf.Bounds()), true
	}

	var r Rect
	found := false
	for _, c := range rt.Children {
		cb, ok := c.bounds(m)
		if !ok {
			continue
		}
		if !found {
			r, found = cb, true
			continue
		}
		r = r.Union(cb)
	}
	if found && rt.Kind == NodeClip && rt.ClipOp == ClipIntersect && rt.Clip != nil {
		r, found = intersectRect(r, transformRect(m, rt.Clip.Bounds()))
	}
	return r, found
}

// Contains reports whether the point (x, y), given in the tree's parent
// space, hits any leaf of the tree. Clips are respected.
func (rt *RenderingTree) Contains(x, y float64) bool {
	return rt.containsAt(identityTransform, x, y)
}

// intersectRect returns the overlap of a and b and whether it is non-empty.
func intersectRect(a, b Rect) (Rect, bool) {
	minX := math.Max(a.X, b.X)
	minY := math.Max(a.Y, b.Y)
	maxX := math.Min(a.X+a.Width, b.X+b.Width)
	maxY := math.Min(a.Y+a.Height, b.Y+b.Height)
	if maxX < minX || maxY < minY {
		return Rect{}, false
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Drawable is a leaf primitive. Bounds and Contains use the leaf's local
// coordinates.
type Drawable interface {
	Bounds() Rect
	Contains(x, y float64) bool
}

// Fill is a solid-colored shape.
type Fill struct {
	Shape Shape
	Color Color
}

// Bounds returns the shape's bounds.
func (f Fill) Bounds() Rect {
	if f.Shape == nil {
		return Rect{}
	}
	return f.Shape.Bounds()
}

// Contains reports whether (x, y) lies inside the shape.
func (f Fill) Contains(x, y float64) bool {
	return f.Shape != nil && f.Shape.Contains(x, y)
}

// Sprite draws an image with its top-left corner at the local origin.
// A zero Width or Height uses the image's own size.
type Sprite struct {
	Image         *ebiten.Image
	Width, Height float64
}

// size returns the drawn width and height.
func (s Sprite) size() (float64, float64) {
	w, h := s.Width, s.Height
	if s.Image != nil {
		b := s.Image.Bounds()
		if w == 0 {
			w = float64(b.Dx())
		}
		if h == 0 {
			h = float64(b.Dy())
		}
	}
	return w, h
}

// Bounds returns the sprite's rectangle.
func (s Sprite) Bounds() Rect {
	w, h := s.size()
	return Rect{Width: w, Height: h}
}

// Contains reports whether (x, y) lies inside the sprite's rectangle.
func (s Sprite) Contains(x, y float64) bool {
	return s.Bounds().Contains(x, y)
}

// Glyph cell of ebitenutil's debug font.
const (
	labelGlyphWidth  = 6
	labelGlyphHeight = 16
)

// Label is a line or block of text drawn with ebiten's debug font, top-left
// at the local origin.
type Label struct {
	Text string
}

// Bounds returns the text block's rectangle.
func (l Label) Bounds() Rect {
	if l.Text == "" {
		return Rect{}
	}
	lines := strings.Split(l.Text, "\n")
	width := 0
	for _, line := range lines {
		width = max(width, len([]rune(line)))
	}
	return Rect{Width: float64(width * labelGlyphWidth), Height: float64(len(lines) * labelGlyphHeight)}
}

// Contains reports whether (x, y) lies inside the text block.
func (l Label) Contains(x, y float64) bool {
	return l.Text != "" && l.Bounds().Contains(x, y)
}
