package detect

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// preprocess converts an image into the binary edge map the contour stage
// consumes: grayscale -> Gaussian smoothing -> Canny -> morphological
// closing. The mask is indexed mask[y][x] over the image's pixel grid.
func preprocess(img image.Image, p Params) [][]bool {
	gray := imaging.Grayscale(img)

	// bild's Gaussian is parameterized by radius; a k-wide kernel
	// corresponds to radius (k-1)/2. Kernel 1 means no smoothing.
	var smoothed image.Image = gray
	if p.BlurKernel > 1 {
		smoothed = blur.Gaussian(gray, float64(p.BlurKernel-1)/2)
	}

	lum := luminance(smoothed)
	edges := canny(lum, p.CannyLow, p.CannyHigh)
	return closeMask(edges, p.MorphKernel, p.MorphIterations)
}

// luminance extracts a normalized [0,1] intensity grid from an image that
// has already been reduced to grayscale (R == G == B).
func luminance(img image.Image) [][]float64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	lum := make([][]float64, h)
	for y := 0; y < h; y++ {
		lum[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			r, _, _, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			lum[y][x] = float64(r>>8) / 255.0
		}
	}
	return lum
}

// canny performs Canny edge detection on a normalized luminance grid:
// Sobel gradients, non-maximum suppression, then double-threshold
// hysteresis. Thresholds are on the 0-255 scale of the original pixel
// values. Returns a binary mask with edges marked true.
func canny(lum [][]float64, thresholdLow, thresholdHigh int) [][]bool {
	h := len(lum)
	if h == 0 {
		return nil
	}
	w := len(lum[0])

	sobelX := [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY := [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}

	magnitude := make([][]float64, h)
	direction := make([][]float64, h)
	for y := 0; y < h; y++ {
		magnitude[y] = make([]float64, w)
		direction[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, h-1)
					px := clamp(x+kx, 0, w-1)
					gx += lum[py][px] * sobelX[ky+1][kx+1]
					gy += lum[py][px] * sobelY[ky+1][kx+1]
				}
			}
			magnitude[y][x] = math.Sqrt(gx*gx + gy*gy)
			direction[y][x] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression: keep only local maxima along the gradient
	// direction so edges thin to single-pixel ridges.
	suppressed := make([][]float64, h)
	for y := 0; y < h; y++ {
		suppressed[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			if y == 0 || y == h-1 || x == 0 || x == w-1 {
				continue
			}

			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[y][x-1], magnitude[y][x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[y-1][x+1], magnitude[y+1][x-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[y-1][x], magnitude[y+1][x]
			default:
				n1, n2 = magnitude[y-1][x-1], magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	lowThresh := float64(thresholdLow) / 255.0
	highThresh := float64(thresholdHigh) / 255.0

	edges := make([][]bool, h)
	for y := 0; y < h; y++ {
		edges[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			val := suppressed[y][x]
			if val >= highThresh {
				edges[y][x] = true
			} else if val >= lowThresh {
				// Weak edge: keep only when adjacent to a strong one.
				for ky := -1; ky <= 1 && !edges[y][x]; ky++ {
					for kx := -1; kx <= 1; kx++ {
						py := clamp(y+ky, 0, h-1)
						px := clamp(x+kx, 0, w-1)
						if suppressed[py][px] >= highThresh {
							edges[y][x] = true
							break
						}
					}
				}
			}
		}
	}
	return edges
}

// closeMask applies a morphological closing: kernel-sized dilation repeated
// iterations times, then the matching erosions. Closing bridges gaps up to
// roughly iterations*(kernel-1) pixels so traced boundaries form closed
// loops.
func closeMask(mask [][]bool, kernel, iterations int) [][]bool {
	if kernel <= 1 || iterations <= 0 {
		return mask
	}
	out := mask
	for i := 0; i < iterations; i++ {
		out = dilate(out, kernel)
	}
	for i := 0; i < iterations; i++ {
		out = erode(out, kernel)
	}
	return out
}

func dilate(mask [][]bool, kernel int) [][]bool {
	return morph(mask, kernel, false)
}

func erode(mask [][]bool, kernel int) [][]bool {
	return morph(mask, kernel, true)
}

// morph runs one dilation (all=false: any set neighbor sets the pixel) or
// erosion (all=true: every neighbor must be set) with a square structuring
// element of the given size. Pixels outside the grid count as unset.
func morph(mask [][]bool, kernel int, all bool) [][]bool {
	h := len(mask)
	if h == 0 {
		return mask
	}
	w := len(mask[0])
	r := kernel / 2

	out := make([][]bool, h)
	for y := 0; y < h; y++ {
		out[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			hit := all
			for ky := -r; ky <= r; ky++ {
				for kx := -r; kx <= r; kx++ {
					py, px := y+ky, x+kx
					set := py >= 0 && py < h && px >= 0 && px < w && mask[py][px]
					if all && !set {
						hit = false
					}
					if !all && set {
						hit = true
					}
				}
			}
			out[y][x] = hit
		}
	}
	return out
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
