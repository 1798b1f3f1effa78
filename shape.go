package grove

import "math"

// Shape is a closed region in local coordinates. Shapes back clip nodes and
// Fill leaves, and answer point-in-subtree queries during hit testing.
type Shape interface {
	Contains(x, y float64) bool
	Bounds() Rect
}

// Circle is a circular region in local coordinates.
type Circle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c Circle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Bounds returns the circle's bounding square.
func (c Circle) Bounds() Rect {
	return Rect{
		X:      c.CenterX - c.Radius,
		Y:      c.CenterY - c.Radius,
		Width:  2 * c.Radius,
		Height: 2 * c.Radius,
	}
}

// Polygon is a convex polygon in local coordinates.
// Points must define a convex polygon in either winding order.
type Polygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside a convex polygon using cross-product sign test.
func (p Polygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	// Check that the point is on the same side of every edge.
	var positive, negative bool
	for i := 0; i < n; i++ {
		x1 := p.Points[i].X
		y1 := p.Points[i].Y
		j := (i + 1) % n
		x2 := p.Points[j].X
		y2 := p.Points[j].Y

		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// Bounds returns the polygon's axis-aligned bounding box.
func (p Polygon) Bounds() Rect {
	if len(p.Points) == 0 {
		return Rect{}
	}
	minX, minY := p.Points[0].X, p.Points[0].Y
	maxX, maxY := minX, minY
	for _, pt := range p.Points[1:] {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// circleSegments is the number of edges used to approximate a circle outline.
const circleSegments = 32

// outline returns the shape's boundary as a convex point list, used to
// fan-triangulate fills. Unknown shapes fall back to their bounding box.
func outline(s Shape) []Vec2 {
	switch v := s.(type) {
	case Polygon:
		return v.Points
	case Circle:
		pts := make([]Vec2, circleSegments)
		for i := range pts {
			sin, cos := math.Sincos(2 * math.Pi * float64(i) / circleSegments)
			pts[i] = Vec2{v.CenterX + cos*v.Radius, v.CenterY + sin*v.Radius}
		}
		return pts
	default:
		r := s.Bounds()
		return []Vec2{
			{r.X, r.Y},
			{r.X + r.Width, r.Y},
			{r.X + r.Width, r.Y + r.Height},
			{r.X, r.Y + r.Height},
		}
	}
}
