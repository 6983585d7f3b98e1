package detect

import (
	"image"
	"testing"

	"github.com/industrial-cv/blockmeasure/internal/geometry"
)

// maskFromRows builds a binary mask from a string picture: '#' marks
// foreground, anything else background.
func maskFromRows(rows []string) [][]bool {
	mask := make([][]bool, len(rows))
	for y, row := range rows {
		mask[y] = make([]bool, len(row))
		for x, ch := range row {
			mask[y][x] = ch == '#'
		}
	}
	return mask
}

func TestExtractContoursFilledRect(t *testing.T) {
	mask := maskFromRows([]string{
		"..........",
		".#######..",
		".#######..",
		".#######..",
		".#######..",
		"..........",
	})

	contours := extractContours(mask)
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}

	box := contours[0].BoundingBox()
	want := image.Rect(1, 1, 8, 5)
	if box != want {
		t.Errorf("bounding box: got %v, want %v", box, want)
	}

	// Boundary pixels span [1..7]x[1..4]: shoelace area 6x3.
	if area := contours[0].Area(); area != 18 {
		t.Errorf("area: got %.1f, want 18", area)
	}
}

func TestExtractContoursSeparateComponents(t *testing.T) {
	mask := maskFromRows([]string{
		"............",
		".###....##..",
		".###....##..",
		".###........",
		"............",
	})

	contours := extractContours(mask)
	if len(contours) != 2 {
		t.Fatalf("got %d contours, want 2", len(contours))
	}

	// Discovery order is row-major by first pixel: the left block first.
	if contours[0][0].X > contours[1][0].X {
		t.Errorf("contours out of scan order: starts %v, %v", contours[0][0], contours[1][0])
	}
}

func TestExtractContoursSuppressesNested(t *testing.T) {
	// A ring with a separate blob inside its hole. The blob's boundary is
	// enclosed by the ring's outer boundary and must not be reported.
	mask := maskFromRows([]string{
		"..........",
		".########.",
		".#......#.",
		".#..##..#.",
		".#..##..#.",
		".#......#.",
		".########.",
		"..........",
	})

	contours := extractContours(mask)
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1 (inner blob suppressed)", len(contours))
	}

	box := contours[0].BoundingBox()
	want := image.Rect(1, 1, 9, 7)
	if box != want {
		t.Errorf("outer boundary box: got %v, want %v", box, want)
	}
}

func TestExtractContoursEmptyMask(t *testing.T) {
	if got := extractContours(nil); len(got) != 0 {
		t.Errorf("nil mask: got %d contours, want 0", len(got))
	}
	if got := extractContours(maskFromRows([]string{"....", "...."})); len(got) != 0 {
		t.Errorf("blank mask: got %d contours, want 0", len(got))
	}
}

func TestTraceBoundaryCompressesCollinear(t *testing.T) {
	mask := maskFromRows([]string{
		"......",
		".####.",
		".####.",
		".####.",
		"......",
	})

	contours := extractContours(mask)
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}

	// A rectangle boundary compresses to its four corners.
	c := contours[0]
	if len(c) != 4 {
		t.Errorf("contour length: got %d (%v), want 4 corners", len(c), c)
	}
	corners := map[geometry.Point]bool{
		{X: 1, Y: 1}: true, {X: 4, Y: 1}: true, {X: 4, Y: 3}: true, {X: 1, Y: 3}: true,
	}
	for _, p := range c {
		if !corners[p] {
			t.Errorf("unexpected contour point %v", p)
		}
	}
}

func TestCloseMaskBridgesGap(t *testing.T) {
	// Two line segments with a one-pixel gap: closing with a 3px kernel
	// must merge them into a single component.
	mask := maskFromRows([]string{
		".........",
		".###.###.",
		".........",
	})

	closed := closeMask(mask, 3, 1)
	contours := extractContours(closed)
	if len(contours) != 1 {
		t.Errorf("after closing: got %d components, want 1", len(contours))
	}

	// Without closing the gap keeps them apart.
	contours = extractContours(mask)
	if len(contours) != 2 {
		t.Errorf("without closing: got %d components, want 2", len(contours))
	}
}

func TestCannyUniformProducesNoEdges(t *testing.T) {
	lum := make([][]float64, 20)
	for y := range lum {
		lum[y] = make([]float64, 20)
		for x := range lum[y] {
			lum[y][x] = 0.5
		}
	}

	edges := canny(lum, 50, 150)
	for y := range edges {
		for x := range edges[y] {
			if edges[y][x] {
				t.Fatalf("edge reported at (%d,%d) in uniform image", x, y)
			}
		}
	}
}

func TestCannyStepEdge(t *testing.T) {
	// Vertical step from dark to bright: an edge column must appear near
	// the transition.
	lum := make([][]float64, 20)
	for y := range lum {
		lum[y] = make([]float64, 20)
		for x := range lum[y] {
			if x >= 10 {
				lum[y][x] = 1.0
			} else {
				lum[y][x] = 0.1
			}
		}
	}

	edges := canny(lum, 50, 150)
	found := false
	for y := 5; y < 15 && !found; y++ {
		for x := 8; x <= 12; x++ {
			if edges[y][x] {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no edge detected near a strong step transition")
	}
}
