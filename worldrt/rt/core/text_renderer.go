package core

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type TextVertex struct {
	Pos   [2]float32
	UV    [2]float32
	Color [4]float32
}

// TextItem is one overlay string. Position is in pixels from the top left corner.
type TextItem struct {
	Text     string
	Position [2]float32
	Scale    float32
	Color    [4]float32
}

type glyph struct {
	uvMin [2]float32
	uvMax [2]float32
	size  [2]float32
	off   [2]float32
	adv   float32
}

// TextRenderer rasterizes printable ASCII into an alpha atlas and builds overlay quads.
type TextRenderer struct {
	Atlas  *image.Alpha
	face   font.Face
	glyphs map[rune]glyph
}

const atlasSize = 256

func NewTextRenderer(face font.Face) *TextRenderer {
	atlas := image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize))
	glyphs := make(map[rune]glyph)

	x, y, rowHeight := 1, 1, 0
	for r := rune(32); r < 127; r++ {
		bounds, mask, maskp, adv, ok := face.Glyph(fixed.Point26_6{}, r)
		if !ok {
			continue
		}
		w, h := bounds.Dx(), bounds.Dy()
		if x+w >= atlasSize {
			x = 1
			y += rowHeight + 2
			rowHeight = 0
		}
		if y+h >= atlasSize {
			break
		}
		draw.Draw(atlas, image.Rect(x, y, x+w, y+h), mask, maskp, draw.Src)
		glyphs[r] = glyph{
			uvMin: [2]float32{float32(x) / atlasSize, float32(y) / atlasSize},
			uvMax: [2]float32{float32(x+w) / atlasSize, float32(y+h) / atlasSize},
			size:  [2]float32{float32(w), float32(h)},
			off:   [2]float32{float32(bounds.Min.X), float32(bounds.Min.Y)},
			adv:   float32(adv) / 64,
		}
		x += w + 2
		rowHeight = max(rowHeight, h)
	}
	return &TextRenderer{Atlas: atlas, face: face, glyphs: glyphs}
}

// NewDefaultTextRenderer uses the built-in 7x13 bitmap face.
func NewDefaultTextRenderer() *TextRenderer {
	return NewTextRenderer(basicfont.Face7x13)
}

// BuildVertices returns two triangles per glyph in clip space.
func (tr *TextRenderer) BuildVertices(items []TextItem, screenW, screenH int) []TextVertex {
	vertices := make([]TextVertex, 0, len(items)*6*16)
	sw, sh := float32(screenW), float32(screenH)
	metrics := tr.face.Metrics()
	ascent := float32(metrics.Ascent.Ceil())
	lineHeight := float32(metrics.Height.Ceil())

	for _, item := range items {
		posX := item.Position[0]
		posY := item.Position[1] + ascent*item.Scale
		for _, r := range item.Text {
			if r == '\n' {
				posX = item.Position[0]
				posY += lineHeight * item.Scale
				continue
			}
			g, ok := tr.glyphs[r]
			if !ok {
				continue
			}
			x0 := (posX+g.off[0]*item.Scale)/sw*2 - 1
			y0 := 1 - (posY+g.off[1]*item.Scale)/sh*2
			x1 := (posX+(g.off[0]+g.size[0])*item.Scale)/sw*2 - 1
			y1 := 1 - (posY+(g.off[1]+g.size[1])*item.Scale)/sh*2

			tl := TextVertex{Pos: [2]float32{x0, y0}, UV: g.uvMin, Color: item.Color}
			tr_ := TextVertex{Pos: [2]float32{x1, y0}, UV: [2]float32{g.uvMax[0], g.uvMin[1]}, Color: item.Color}
			bl := TextVertex{Pos: [2]float32{x0, y1}, UV: [2]float32{g.uvMin[0], g.uvMax[1]}, Color: item.Color}
			br := TextVertex{Pos: [2]float32{x1, y1}, UV: g.uvMax, Color: item.Color}
			vertices = append(vertices, tl, tr_, bl, tr_, br, bl)

			posX += g.adv * item.Scale
		}
	}
	return vertices
}

// LineHeight is the distance between baselines at scale.
func (tr *TextRenderer) LineHeight(scale float32) float32 {
	return float32(tr.face.Metrics().Height.Ceil()) * scale
}
