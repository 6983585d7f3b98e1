package detect

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/industrial-cv/blockmeasure/internal/geometry"
)

// ErrEmptyImage is returned by Detect when the input image is nil or has
// no pixels. It marks a boundary failure, distinct from a valid pass that
// simply found nothing.
var ErrEmptyImage = errors.New("empty input image")

// BlockType classifies a measured block by its aspect ratio.
type BlockType int

const (
	// TypeSquareLike covers aspect ratios below 1.2.
	TypeSquareLike BlockType = iota
	// TypeRectangle covers aspect ratios in [1.2, 2.0).
	TypeRectangle
	// TypeLongRectangle covers aspect ratios of 2.0 and above.
	TypeLongRectangle
)

// String returns the display name used in labels, reports, and CSV rows.
func (t BlockType) String() string {
	switch t {
	case TypeSquareLike:
		return "Square-like"
	case TypeRectangle:
		return "Rectangle"
	case TypeLongRectangle:
		return "Long-Rectangle"
	}
	return fmt.Sprintf("BlockType(%d)", int(t))
}

// Classify maps an aspect ratio (>= 1) to its BlockType. The mapping is
// total: every ratio lands in exactly one class.
func Classify(aspectRatio float64) BlockType {
	switch {
	case aspectRatio < 1.2:
		return TypeSquareLike
	case aspectRatio < 2.0:
		return TypeRectangle
	default:
		return TypeLongRectangle
	}
}

// BlockMeasurement is the measured description of one accepted contour.
// Values are created once per detection pass and never mutated afterwards.
type BlockMeasurement struct {
	// Contour is the originating boundary point sequence (owned copy).
	Contour geometry.Contour `json:"contour"`

	// Area is the enclosed polygon area in square pixels.
	Area float64 `json:"area"`

	// Perimeter is the closed-path arc length in pixels.
	Perimeter float64 `json:"perimeter"`

	// BoundingBox is the minimal axis-aligned rectangle enclosing the
	// contour.
	BoundingBox image.Rectangle `json:"bounding_box"`

	// RotatedRect is the minimal-area enclosing rectangle at arbitrary
	// orientation.
	RotatedRect geometry.RotatedRect `json:"rotated_rect"`

	// Center equals RotatedRect.Center.
	Center geometry.PointF `json:"center"`

	// AspectRatio is the longer rotated-rect side over the shorter one,
	// always >= 1.
	AspectRatio float64 `json:"aspect_ratio"`

	// Type is the classification derived from AspectRatio.
	Type BlockType `json:"type"`

	// Angle equals RotatedRect.Angle, in degrees.
	Angle float64 `json:"angle"`
}

// Params is the tunable configuration for one detection pass. A Detector
// snapshots its Params when Detect starts, so a pass is unaffected by
// later setter calls.
type Params struct {
	// BlurKernel is the Gaussian smoothing kernel width (odd, >= 1;
	// 1 disables smoothing).
	BlurKernel int `json:"blur_kernel"`

	// CannyLow and CannyHigh are the hysteresis thresholds of the edge
	// detector, on the 0-255 intensity scale.
	CannyLow  int `json:"canny_low"`
	CannyHigh int `json:"canny_high"`

	// MorphKernel is the structuring-element width of the closing step
	// (odd, >= 1).
	MorphKernel int `json:"morph_kernel"`

	// MorphIterations is the number of dilate/erode rounds applied.
	MorphIterations int `json:"morph_iterations"`

	// MinArea is the minimum enclosed contour area, in square pixels,
	// for a contour to produce a measurement.
	MinArea float64 `json:"min_area"`
}

// DefaultParams returns the default pipeline tuning: 5px blur, 50/150
// edge thresholds, 3px closing kernel with 2 iterations, and a 100px²
// minimum contour area.
func DefaultParams() Params {
	return Params{
		BlurKernel:      5,
		CannyLow:        50,
		CannyHigh:       150,
		MorphKernel:     3,
		MorphIterations: 2,
		MinArea:         100,
	}
}

// Detector runs the block detection pipeline. The zero value is not
// usable; construct with New. A Detector carries no state between passes
// beyond its configuration, so identical input and configuration always
// produce identical output.
type Detector struct {
	params Params
}

// New returns a Detector with DefaultParams.
func New() *Detector {
	return &Detector{params: DefaultParams()}
}

// Params returns the current configuration.
func (d *Detector) Params() Params {
	return d.params
}

// SetPreprocessing configures the smoothing and edge-detection stage.
// blurKernel must be a positive odd width; the thresholds must satisfy
// 0 <= low < high.
func (d *Detector) SetPreprocessing(blurKernel, cannyLow, cannyHigh int) error {
	if blurKernel < 1 || blurKernel%2 == 0 {
		return fmt.Errorf("blur kernel must be positive and odd, got %d", blurKernel)
	}
	if cannyLow < 0 || cannyHigh <= cannyLow {
		return fmt.Errorf("invalid edge thresholds %d/%d: need 0 <= low < high", cannyLow, cannyHigh)
	}
	d.params.BlurKernel = blurKernel
	d.params.CannyLow = cannyLow
	d.params.CannyHigh = cannyHigh
	return nil
}

// SetMorphology configures the closing stage. kernelSize must be a
// positive odd width; iterations must be non-negative (0 disables
// closing).
func (d *Detector) SetMorphology(kernelSize, iterations int) error {
	if kernelSize < 1 || kernelSize%2 == 0 {
		return fmt.Errorf("morphology kernel must be positive and odd, got %d", kernelSize)
	}
	if iterations < 0 {
		return fmt.Errorf("morphology iterations must be non-negative, got %d", iterations)
	}
	d.params.MorphKernel = kernelSize
	d.params.MorphIterations = iterations
	return nil
}

// SetMinArea configures the validity filter: contours enclosing less than
// area square pixels are discarded.
func (d *Detector) SetMinArea(area float64) error {
	if area < 0 {
		return fmt.Errorf("minimum area must be non-negative, got %g", area)
	}
	d.params.MinArea = area
	return nil
}

// DetectOptions selects per-pass extras.
type DetectOptions struct {
	// DrawOverlay requests an annotated copy of the input image in
	// DetectResult.Overlay: bounding boxes, rotated-rect edges, center
	// markers, and contour outlines for every retained measurement. No
	// measurement text is drawn; that is the report layer's job.
	DrawOverlay bool
}

// DetectResult holds the outcome of one detection pass.
type DetectResult struct {
	// Blocks are the measurements, in contour discovery order.
	Blocks []BlockMeasurement `json:"blocks"`

	// Count is len(Blocks).
	Count int `json:"count"`

	// Overlay is the annotated input copy, present only when requested.
	Overlay image.Image `json:"-"`
}

// Detect runs the full pipeline on one image: preprocess, extract external
// contours, filter by minimum area, measure, and classify. A result with
// Count == 0 is a valid "nothing detected" outcome, not an error.
func (d *Detector) Detect(img image.Image, opts DetectOptions) (*DetectResult, error) {
	if img == nil {
		return nil, ErrEmptyImage
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, ErrEmptyImage
	}

	p := d.params // snapshot for this pass

	mask := preprocess(img, p)
	contours := extractContours(mask)

	blocks := make([]BlockMeasurement, 0, len(contours))
	for _, c := range contours {
		area := c.Area()
		if area < p.MinArea {
			continue
		}
		blocks = append(blocks, measure(c, area))
	}

	result := &DetectResult{Blocks: blocks, Count: len(blocks)}
	if opts.DrawOverlay {
		result.Overlay = drawOverlay(img, blocks)
	}
	return result, nil
}

// measure computes the full measurement record for a validated contour.
func measure(c geometry.Contour, area float64) BlockMeasurement {
	rot := c.MinAreaRect()

	longer := math.Max(rot.Width, rot.Height)
	shorter := math.Min(rot.Width, rot.Height)
	aspect := 1.0
	if shorter > 0 {
		aspect = longer / shorter
	}

	return BlockMeasurement{
		Contour:     c.Clone(),
		Area:        area,
		Perimeter:   c.Perimeter(),
		BoundingBox: c.BoundingBox(),
		RotatedRect: rot,
		Center:      rot.Center,
		AspectRatio: aspect,
		Type:        Classify(aspect),
		Angle:       rot.Angle,
	}
}

// drawOverlay renders the geometry-only annotation pass onto a copy of the
// input: green bounding boxes, blue rotated-rect edges, red center dots,
// and cyan contour outlines.
func drawOverlay(img image.Image, blocks []BlockMeasurement) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetLineWidth(2)

	for _, b := range blocks {
		dc.SetRGB(0, 1, 0)
		box := b.BoundingBox
		dc.DrawRectangle(float64(box.Min.X), float64(box.Min.Y),
			float64(box.Dx()), float64(box.Dy()))
		dc.Stroke()

		dc.SetRGB(0, 0, 1)
		v := b.RotatedRect.Vertices()
		for i := 0; i < 4; i++ {
			w := v[(i+1)%4]
			dc.DrawLine(v[i].X, v[i].Y, w.X, w.Y)
		}
		dc.Stroke()

		dc.SetRGB(1, 0, 0)
		dc.DrawCircle(b.Center.X, b.Center.Y, 5)
		dc.Fill()

		dc.SetRGB(0, 1, 1)
		for i, p := range b.Contour {
			q := b.Contour[(i+1)%len(b.Contour)]
			dc.DrawLine(float64(p.X), float64(p.Y), float64(q.X), float64(q.Y))
		}
		dc.Stroke()
	}
	return dc.Image()
}
