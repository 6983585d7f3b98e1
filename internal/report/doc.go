// Package report renders block measurements for human consumption:
// annotated overlays, a composite report canvas with a statistics panel,
// reference scale bars, and blended coordinate grids.
//
// The package consumes detect.BlockMeasurement values read-only and never
// runs detection itself. Every operation returns a freshly drawn image;
// input images are never mutated.
//
// Text is rendered with the Go Regular truetype face, and every label is
// drawn over an opaque background patch sized to the text extent so values
// stay legible regardless of the underlying image content. Block colors
// are keyed by classification through a closed, exhaustive mapping, so an
// unmapped type cannot occur at runtime.
package report
