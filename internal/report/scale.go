package report

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
)

// scaleBarLength is the fixed on-image length of the reference bar.
const scaleBarLength = 100

// DrawScale draws a 100-pixel reference bar with end caps at origin, a
// unit-length label (100 px divided by pixelsPerMM, rounded to whole
// millimeters), and a secondary note stating the raw pixels-per-mm ratio
// to two decimals. The "mm" unit is nominal: pixelsPerMM is whatever
// scalar ratio the caller supplies, with no calibration applied.
func DrawScale(img image.Image, pixelsPerMM float64, origin image.Point) image.Image {
	dc := gg.NewContextForImage(img)

	x, y := float64(origin.X), float64(origin.Y)
	end := x + scaleBarLength

	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(3)
	dc.DrawLine(x, y, end, y)
	dc.Stroke()

	dc.SetLineWidth(2)
	dc.DrawLine(x, y-10, x, y+10)
	dc.DrawLine(end, y-10, end, y+10)
	dc.Stroke()

	unitLabel, ratioNote := scaleLabels(pixelsPerMM)
	drawLabel(dc, unitLabel, x+20, y-15, 13, mustHex("#ffffff"))
	drawLabel(dc, ratioNote, x, y+30, 11, mustHex("#c8c8c8"))

	return dc.Image()
}

// scaleLabels produces the two scale-bar annotations: the rounded unit
// length covered by the 100 px bar, and the raw ratio to two decimals.
func scaleLabels(pixelsPerMM float64) (unitLabel, ratioNote string) {
	mm := int(math.Round(scaleBarLength / pixelsPerMM))
	return fmt.Sprintf("%d mm", mm), fmt.Sprintf("Scale: %.2f pixels/mm", pixelsPerMM)
}

// DrawGrid overlays evenly spaced reference lines at the given pixel
// spacing, with coordinate labels every 5th line. Grid strokes are drawn
// at 30% opacity, leaving the result 70% original and 30% grid where the
// overlay lands. A spacing below 1 returns an unmodified copy.
func DrawGrid(img image.Image, spacing int) image.Image {
	dc := gg.NewContextForImage(img)
	if spacing < 1 {
		return dc.Image()
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	dc.SetRGBA255(100, 100, 100, 77) // ~30% opacity
	dc.SetLineWidth(1)
	for x := 0; x < w; x += spacing {
		dc.DrawLine(float64(x), 0, float64(x), float64(h))
	}
	for y := 0; y < h; y += spacing {
		dc.DrawLine(0, float64(y), float64(w), float64(y))
	}
	dc.Stroke()

	dc.SetFontFace(face(10))
	dc.SetRGBA255(150, 150, 150, 77)
	for x := 0; x < w; x += spacing * 5 {
		dc.DrawString(fmt.Sprintf("%d", x), float64(x)+5, 20)
	}
	for y := 0; y < h; y += spacing * 5 {
		dc.DrawString(fmt.Sprintf("%d", y), 5, float64(y)+15)
	}

	return dc.Image()
}
