package grove

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw submission time.
type Color struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
	A float64 `yaml:"a"`
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is opaque black.
var ColorBlack = Color{0, 0, 0, 1}

// premultiplied returns the color as premultiplied float32 components, the
// layout ebiten.Vertex expects.
func (c Color) premultiplied() (r, g, b, a float32) {
	return float32(c.R * c.A), float32(c.G * c.A), float32(c.B * c.A), float32(c.A)
}

// RGBA converts the color to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	clamp := func(v float64) uint8 {
		return uint8(math.Max(0, math.Min(255, math.Round(v*255))))
	}
	return color.RGBA{
		R: clamp(c.R * c.A),
		G: clamp(c.G * c.A),
		B: clamp(c.B * c.A),
		A: clamp(c.A),
	}
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Bounds returns r itself, so Rect can be used as a Shape.
func (r Rect) Bounds() Rect { return r }

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	minX := math.Min(r.X, other.X)
	minY := math.Min(r.Y, other.Y)
	maxX := math.Max(r.X+r.Width, other.X+other.Width)
	maxY := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// MouseButtons is a bitmask of currently pressed mouse buttons.
type MouseButtons uint8

// Has reports whether b is pressed.
func (m MouseButtons) Has(b MouseButton) bool {
	return m&(1<<b) != 0
}

// With returns m with b marked as pressed.
func (m MouseButtons) With(b MouseButton) MouseButtons {
	return m | 1<<b
}

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// ClipOp selects how a clip shape gates its subtree.
type ClipOp uint8

const (
	ClipIntersect  ClipOp = iota // keep only what lies inside the shape
	ClipDifference               // keep only what lies outside the shape
)

// Cursor is a mouse cursor shape requested by a subtree.
type Cursor uint8

const (
	CursorDefault Cursor = iota
	CursorText
	CursorCrosshair
	CursorPointer
	CursorMove
	CursorEWResize
	CursorNSResize
	CursorNotAllowed
)

// ebitenShape maps the cursor to ebiten's cursor shape.
func (c Cursor) ebitenShape() ebiten.CursorShapeType {
	switch c {
	case CursorText:
		return ebiten.CursorShapeText
	case CursorCrosshair:
		return ebiten.CursorShapeCrosshair
	case CursorPointer:
		return ebiten.CursorShapePointer
	case CursorMove:
		return ebiten.CursorShapeMove
	case CursorEWResize:
		return ebiten.CursorShapeEWResize
	case CursorNSResize:
		return ebiten.CursorShapeNSResize
	case CursorNotAllowed:
		return ebiten.CursorShapeNotAllowed
	default:
		return ebiten.CursorShapeDefault
	}
}
