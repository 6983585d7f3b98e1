package detect

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// FilterBySize returns the measurements whose area lies in
// [minArea, maxArea], inclusive, preserving input order. Filtering an
// already-filtered sequence with the same bounds returns it unchanged.
func FilterBySize(blocks []BlockMeasurement, minArea, maxArea float64) []BlockMeasurement {
	out := make([]BlockMeasurement, 0, len(blocks))
	for _, b := range blocks {
		if b.Area >= minArea && b.Area <= maxArea {
			out = append(out, b)
		}
	}
	return out
}

// Largest returns the measurement with the greatest area. Ties resolve to
// the first occurrence in input order. ok is false when blocks is empty;
// the zero BlockMeasurement returned in that case must not be treated as
// data.
func Largest(blocks []BlockMeasurement) (m BlockMeasurement, ok bool) {
	if len(blocks) == 0 {
		return BlockMeasurement{}, false
	}
	best := blocks[0]
	for _, b := range blocks[1:] {
		if b.Area > best.Area {
			best = b
		}
	}
	return best, true
}

// Smallest returns the measurement with the least area. Ties resolve to
// the first occurrence in input order. ok is false when blocks is empty.
func Smallest(blocks []BlockMeasurement) (m BlockMeasurement, ok bool) {
	if len(blocks) == 0 {
		return BlockMeasurement{}, false
	}
	best := blocks[0]
	for _, b := range blocks[1:] {
		if b.Area < best.Area {
			best = b
		}
	}
	return best, true
}

// csvHeader is the fixed column order of the export format.
var csvHeader = []string{
	"BlockID", "Type", "Area", "Perimeter", "Width", "Height",
	"AspectRatio", "CenterX", "CenterY", "Angle",
}

// ToCSV renders the measurement sequence as CSV: one header line plus one
// line per measurement. BlockID is the 1-based position in the input
// sequence, not a stable identity across passes. Floating-point fields are
// written with two decimals.
func ToCSV(blocks []BlockMeasurement) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i, b := range blocks {
		row := []string{
			strconv.Itoa(i + 1),
			b.Type.String(),
			fmt.Sprintf("%.2f", b.Area),
			fmt.Sprintf("%.2f", b.Perimeter),
			fmt.Sprintf("%.2f", b.RotatedRect.Width),
			fmt.Sprintf("%.2f", b.RotatedRect.Height),
			fmt.Sprintf("%.2f", b.AspectRatio),
			fmt.Sprintf("%.2f", b.Center.X),
			fmt.Sprintf("%.2f", b.Center.Y),
			fmt.Sprintf("%.2f", b.Angle),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return sb.String(), nil
}
