package grove

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// TTFFont wraps Ebitengine's text/v2 for TrueType font rendering.
type TTFFont struct {
	face *text.GoTextFace
	lh   float64 // cached line height
}

// LoadTTFFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadTTFFont(ttfData []byte, size float64) (*TTFFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("grove: parse TTF data: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}

	// Line height from metrics
	m := face.Metrics()
	return &TTFFont{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// MeasureString returns the width and height of the rendered text.
func (f *TTFFont) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *TTFFont) LineHeight() float64 {
	return f.lh
}

// Face returns the underlying GoTextFace for direct Ebitengine text/v2 rendering.
func (f *TTFFont) Face() *text.GoTextFace {
	return f.face
}

// Text is a block of TrueType text, top-left at the local origin. Use
// Label when no font is at hand.
type Text struct {
	Font    *TTFFont
	Content string
	Color   Color
}

// Bounds returns the measured text block.
func (t Text) Bounds() Rect {
	if t.Font == nil || t.Content == "" {
		return Rect{}
	}
	w, h := t.Font.MeasureString(t.Content)
	return Rect{Width: w, Height: h}
}

// Contains reports whether (x, y) lies inside the measured text block.
func (t Text) Contains(x, y float64) bool {
	return t.Font != nil && t.Content != "" && t.Bounds().Contains(x, y)
}

// drawText renders t onto target under the affine transform m.
func drawText(target *ebiten.Image, t Text, m [6]float64) {
	if t.Font == nil || t.Content == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM = affineGeoM(m)
	op.ColorScale.Scale(t.Color.premultiplied())
	op.LineSpacing = t.Font.lh
	text.Draw(target, t.Content, t.Font.face, op)
}
