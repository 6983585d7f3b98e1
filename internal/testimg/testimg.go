// Package testimg generates synthetic block scenes: random filled
// rectangles over a gray background with sensor-style noise and a faint
// reference grid. The output exercises the full detection pipeline
// without needing camera hardware or sample files.
package testimg

import (
	"image"
	"image/color"
	"math/rand"

	"github.com/fogleman/gg"
)

// Options controls scene generation. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	// Width and Height of the generated canvas; both must be at least
	// 200 to leave room for block placement.
	Width, Height int

	// Blocks is the number of random filled rectangles drawn.
	Blocks int

	// NoiseSigma is the standard deviation of the additive Gaussian
	// pixel noise, in 8-bit intensity steps. Zero disables noise.
	NoiseSigma float64

	// GridSpacing places faint reference lines; zero disables the grid.
	GridSpacing int

	// Seed makes generation reproducible.
	Seed int64
}

// DefaultOptions mirrors the classic 800x600 eight-block test scene.
func DefaultOptions() Options {
	return Options{
		Width:       800,
		Height:      600,
		Blocks:      8,
		NoiseSigma:  15,
		GridSpacing: 50,
		Seed:        1,
	}
}

// Generate renders a synthetic block scene. Identical Options always
// produce an identical image.
func Generate(o Options) image.Image {
	rng := rand.New(rand.NewSource(o.Seed))

	dc := gg.NewContext(o.Width, o.Height)
	dc.SetRGB255(50, 50, 50)
	dc.Clear()

	for i := 0; i < o.Blocks; i++ {
		x := float64(50 + rng.Intn(o.Width-150))
		y := float64(50 + rng.Intn(o.Height-150))
		w := float64(30 + rng.Intn(90))
		h := float64(30 + rng.Intn(90))

		dc.SetRGB255(rng.Intn(256), rng.Intn(256), rng.Intn(256))
		dc.DrawRectangle(x, y, w, h)
		dc.Fill()

		// A rotated outline around each block keeps the scene from
		// being purely axis-aligned.
		angle := gg.Radians(rng.Float64()*60 - 30)
		dc.Push()
		dc.RotateAbout(angle, x+w/2, y+h/2)
		dc.SetRGB(1, 1, 1)
		dc.SetLineWidth(2)
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()
		dc.Pop()
	}

	if o.GridSpacing > 0 {
		dc.SetRGBA255(100, 100, 100, 255)
		dc.SetLineWidth(1)
		for x := 0; x < o.Width; x += o.GridSpacing {
			dc.DrawLine(float64(x), 0, float64(x), float64(o.Height))
		}
		for y := 0; y < o.Height; y += o.GridSpacing {
			dc.DrawLine(0, float64(y), float64(o.Width), float64(y))
		}
		dc.Stroke()
	}

	img := dc.Image()
	if o.NoiseSigma <= 0 {
		return img
	}
	return addNoise(img, o.NoiseSigma, rng)
}

// addNoise applies additive Gaussian intensity noise per pixel, clamped
// to the 8-bit range.
func addNoise(img image.Image, sigma float64, rng *rand.Rand) image.Image {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			n := rng.NormFloat64() * sigma
			out.SetRGBA(x, y, color.RGBA{
				R: clamp8(float64(r>>8) + n),
				G: clamp8(float64(g>>8) + n),
				B: clamp8(float64(b>>8) + n),
				A: 255,
			})
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
