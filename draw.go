package grove

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

var whitePixelImage *ebiten.Image

// ensureWhitePixel lazily creates a 1x1 white image used as the source
// texture for solid fills.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// EbitenBackend draws materialized trees onto an ebiten image. Children are
// drawn in order, on-top subtrees after everything else. Difference clips
// only gate hit testing; their children draw unclipped.
type EbitenBackend struct {
	// Target is the image drawn onto, typically the screen passed to
	// ebiten.Game.Draw.
	Target *ebiten.Image

	verts []ebiten.Vertex
	inds  []uint16
	onTop []deferredDraw
}

// deferredDraw is an on-top subtree waiting for the main pass to finish.
type deferredDraw struct {
	node *RenderingTree
	m    [6]float64
}

// Draw renders tree onto Target.
func (b *EbitenBackend) Draw(tree *RenderingTree) {
	if b.Target == nil || tree == nil {
		return
	}
	b.onTop = b.onTop[:0]
	b.draw(b.Target, tree, identityTransform, false)
	// On-top subtrees may queue further on-top subtrees; those draw in place.
	for i := 0; i < len(b.onTop); i++ {
		d := b.onTop[i]
		for _, c := range d.node.Children {
			b.draw(b.Target, c, d.m, true)
		}
	}
}

func (b *EbitenBackend) draw(target *ebiten.Image, n *RenderingTree, parent [6]float64, inOnTop bool) {
	if n == nil {
		return
	}
	m := n.local(parent)
	switch n.Kind {
	case NodeEmpty:
		return
	case NodeOnTop:
		if !inOnTop {
			b.onTop = append(b.onTop, deferredDraw{node: n, m: m})
			return
		}
	case NodeClip:
		if n.Clip != nil && n.ClipOp == ClipIntersect {
			r := clipBounds(m, n.Clip, target.Bounds())
			if r.Empty() {
				return
			}
			target = target.SubImage(r).(*ebiten.Image)
		}
	case NodeLeaf:
		b.drawLeaf(target, n.Leaf, m)
		return
	}
	for _, c := range n.Children {
		b.draw(target, c, m, inOnTop)
	}
}

func (b *EbitenBackend) drawLeaf(target *ebiten.Image, leaf Drawable, m [6]float64) {
	switch d := leaf.(type) {
	case Fill:
		if d.Shape == nil || d.Color.A <= 0 {
			return
		}
		b.verts, b.inds = fillVertices(m, d.Shape, d.Color, b.verts[:0], b.inds[:0])
		if len(b.inds) == 0 {
			return
		}
		var op ebiten.DrawTrianglesOptions
		op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
		target.DrawTriangles(b.verts, b.inds, ensureWhitePixel(), &op)
	case Sprite:
		if d.Image == nil {
			return
		}
		var op ebiten.DrawImageOptions
		ib := d.Image.Bounds()
		w, h := d.size()
		if ib.Dx() > 0 && ib.Dy() > 0 {
			op.GeoM.Scale(w/float64(ib.Dx()), h/float64(ib.Dy()))
		}
		op.GeoM.Concat(affineGeoM(m))
		target.DrawImage(d.Image, &op)
	case Label:
		if d.Text == "" {
			return
		}
		x, y := transformPoint(m, 0, 0)
		ebitenutil.DebugPrintAt(target, d.Text, int(math.Round(x)), int(math.Round(y)))
	case Text:
		drawText(target, d, m)
	}
}

// affineGeoM converts an affine matrix to an ebiten.GeoM.
func affineGeoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// fillVertices appends a fan triangulation of shape's outline, transformed
// by m, to verts and inds. The vertex source is the center of the white
// pixel and the color is premultiplied.
func fillVertices(m [6]float64, shape Shape, c Color, verts []ebiten.Vertex, inds []uint16) ([]ebiten.Vertex, []uint16) {
	pts := outline(shape)
	if len(pts) < 3 {
		return verts, inds
	}
	r, g, bl, a := c.premultiplied()
	base := uint16(len(verts))
	for _, p := range pts {
		x, y := transformPoint(m, p.X, p.Y)
		verts = append(verts, ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: r, ColorG: g, ColorB: bl, ColorA: a,
		})
	}
	// Fan triangulation: vertex 0 is the hub.
	for i := 0; i < len(pts)-2; i++ {
		inds = append(inds, base, base+uint16(i+1), base+uint16(i+2))
	}
	return verts, inds
}

// clipBounds returns the pixel rectangle a clip of shape under m keeps,
// limited to within. An axis-aligned Rect keeps exactly the pixels whose
// centers it covers, the same pixels a Fill of that Rect paints. Other
// clips keep every pixel their bounding box touches.
func clipBounds(m [6]float64, shape Shape, within image.Rectangle) image.Rectangle {
	r := transformRect(m, shape.Bounds())
	var px image.Rectangle
	if _, ok := shape.(Rect); ok && isAxisAligned(m) {
		px = image.Rect(
			int(math.Ceil(r.X-0.5)), int(math.Ceil(r.Y-0.5)),
			int(math.Ceil(r.X+r.Width-0.5)), int(math.Ceil(r.Y+r.Height-0.5)),
		)
	} else {
		px = image.Rect(
			int(math.Floor(r.X)), int(math.Floor(r.Y)),
			int(math.Ceil(r.X+r.Width)), int(math.Ceil(r.Y+r.Height)),
		)
	}
	return px.Intersect(within)
}
