package report

import (
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/industrial-cv/blockmeasure/internal/detect"
	"github.com/industrial-cv/blockmeasure/internal/geometry"
)

var regular *truetype.Font

func init() {
	var err error
	regular, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// face returns a Go Regular font face at the given point size.
func face(size float64) font.Face {
	return truetype.NewFace(regular, &truetype.Options{Size: size})
}

// Fixed palette, one entry per block type.
var (
	colorSquare = mustHex("#00c853") // green
	colorRect   = mustHex("#2962ff") // blue
	colorLong   = mustHex("#d50000") // red
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// typeColor maps a classification to its display color. The switch is
// exhaustive over the closed BlockType set; the final return covers the
// impossible out-of-range value without inventing a fourth class.
func typeColor(t detect.BlockType) colorful.Color {
	switch t {
	case detect.TypeSquareLike:
		return colorSquare
	case detect.TypeRectangle:
		return colorRect
	case detect.TypeLongRectangle:
		return colorLong
	}
	return colorSquare
}

// labelBackground derives the opaque patch color behind text from the
// text color: a strongly darkened variant keeps contrast against any
// foreground while still hinting at the block's class.
func labelBackground(fg colorful.Color) color.Color {
	h, s, _ := fg.Hsl()
	return colorful.Hsl(h, s*0.4, 0.12)
}

// drawLabel renders text with its baseline at (x, y) over an opaque
// background patch sized to the text extent.
func drawLabel(dc *gg.Context, text string, x, y, size float64, fg colorful.Color) {
	dc.SetFontFace(face(size))
	w, h := dc.MeasureString(text)

	dc.SetColor(labelBackground(fg))
	dc.DrawRectangle(x-4, y-h-4, w+8, h+8)
	dc.Fill()

	dc.SetColor(fg)
	dc.DrawString(text, x, y)
}

// strokeRotatedRect draws the four edges of a rotated rectangle.
func strokeRotatedRect(dc *gg.Context, r geometry.RotatedRect, width float64) {
	v := r.Vertices()
	dc.SetLineWidth(width)
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		dc.DrawLine(v[i].X, v[i].Y, v[j].X, v[j].Y)
	}
	dc.Stroke()
}
