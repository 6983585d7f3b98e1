package report

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestScaleLabels(t *testing.T) {
	tests := []struct {
		name        string
		pixelsPerMM float64
		wantUnit    string
		wantRatio   string
	}{
		{"ten per mm", 10.0, "10 mm", "Scale: 10.00 pixels/mm"},
		{"four per mm", 4.0, "25 mm", "Scale: 4.00 pixels/mm"},
		{"fractional rounds", 3.0, "33 mm", "Scale: 3.00 pixels/mm"},
		{"sub-unit ratio", 12.34, "8 mm", "Scale: 12.34 pixels/mm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, ratio := scaleLabels(tt.pixelsPerMM)
			if unit != tt.wantUnit {
				t.Errorf("unit label: got %q, want %q", unit, tt.wantUnit)
			}
			if ratio != tt.wantRatio {
				t.Errorf("ratio note: got %q, want %q", ratio, tt.wantRatio)
			}
			if !strings.Contains(ratio, "10.00") && tt.pixelsPerMM == 10.0 {
				t.Errorf("ratio note %q should state the raw ratio to 2 decimals", ratio)
			}
		})
	}
}

func TestDrawScaleBar(t *testing.T) {
	img := solidImage(200, 100, color.RGBA{0, 0, 0, 255})
	out := DrawScale(img, 10.0, image.Point{X: 20, Y: 60})

	// The bar runs 100 px from the origin; its midpoint must now be
	// white.
	r, g, b, _ := out.At(70, 60).RGBA()
	if uint8(r>>8) < 200 || uint8(g>>8) < 200 || uint8(b>>8) < 200 {
		t.Errorf("bar midpoint not white: (%d,%d,%d)", uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}

	// End caps extend vertically at both ends.
	r, _, _, _ = out.At(20, 66).RGBA()
	if uint8(r>>8) < 200 {
		t.Error("left end cap missing")
	}
	r, _, _, _ = out.At(120, 54).RGBA()
	if uint8(r>>8) < 200 {
		t.Error("right end cap missing")
	}

	// Input untouched.
	if img.RGBAAt(70, 60) != (color.RGBA{0, 0, 0, 255}) {
		t.Error("DrawScale mutated the input image")
	}
}

func TestDrawGridBlending(t *testing.T) {
	img := solidImage(160, 120, color.RGBA{255, 255, 255, 255})
	out := DrawGrid(img, 40)

	// A pixel on a grid line is a 70/30 blend of white and the gray
	// stroke: noticeably darker than white, far lighter than the stroke
	// color itself.
	onLine := false
	for _, x := range []int{39, 40, 41} {
		r, _, _, _ := out.At(x, 60).RGBA()
		v := uint8(r >> 8)
		if v < 245 && v > 150 {
			onLine = true
			break
		}
	}
	if !onLine {
		t.Error("grid line not blended at expected position")
	}

	// Between lines the image is untouched.
	r, g, b, _ := out.At(20, 20).RGBA()
	if uint8(r>>8) != 255 || uint8(g>>8) != 255 || uint8(b>>8) != 255 {
		t.Errorf("off-line pixel altered: (%d,%d,%d)", uint8(r>>8), uint8(g>>8), uint8(b>>8))
	}
}

func TestDrawGridInvalidSpacing(t *testing.T) {
	img := solidImage(50, 50, color.RGBA{10, 200, 10, 255})
	out := DrawGrid(img, 0)

	r, g, b, _ := out.At(25, 25).RGBA()
	if uint8(r>>8) != 10 || uint8(g>>8) != 200 || uint8(b>>8) != 10 {
		t.Error("zero spacing should return an unmodified copy")
	}
}
