// Package detect implements the block detection and measurement pipeline.
//
// Detection turns a raster image into an ordered sequence of validated,
// classified BlockMeasurement records through six stages:
//
//  1. Preprocessing: grayscale reduction, Gaussian smoothing, Canny edge
//     detection, and morphological closing to bridge small boundary gaps.
//  2. Contour extraction: external (outermost) closed boundaries of the
//     binary edge map, traced as compressed point sequences.
//  3. Validation: contours below the configured minimum enclosed area are
//     discarded and never reach any downstream consumer.
//  4. Measurement: enclosed area, perimeter, axis-aligned bounding box, and
//     minimal-area rotated rectangle (rotating calipers over the convex
//     hull), with derived center, aspect ratio, and classification.
//  5. Optional overlay: a side-effect-free annotated copy of the input.
//  6. Ordering: results follow the row-major discovery order of the scan,
//     which is stable and reproducible for identical input and parameters.
//
// # Configuration
//
// Tunable parameters (blur kernel, Canny thresholds, closing kernel and
// iteration count, minimum area) are held by the Detector and adjusted via
// setters. Each call to Detect operates on a snapshot of the parameters
// taken when the pass starts, so reconfiguring a Detector never perturbs a
// pass already underway. A Detector must not be reconfigured concurrently
// with an in-flight Detect call; use independent Detector values for
// concurrent passes.
//
// # Error Handling
//
// A nil or zero-area input image yields ErrEmptyImage. An image in which
// nothing is detected is not an error: Detect returns a result with
// Count == 0, which callers must treat as a meaningful "nothing detected"
// outcome.
//
// # Classification
//
// Block types are a total function of the aspect ratio (longer side over
// shorter side, always >= 1):
//
//	ratio < 1.2         Square-like
//	1.2 <= ratio < 2.0  Rectangle
//	ratio >= 2.0        Long-Rectangle
package detect
