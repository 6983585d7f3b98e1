package detect

import (
	"image"

	"github.com/industrial-cv/blockmeasure/internal/geometry"
)

// extractContours finds the external closed boundaries of a binary edge
// map. Connected foreground components (8-connectivity) are labelled in
// row-major scan order; each component's outer boundary is traced with
// Moore-neighbor tracing; boundaries nested inside an earlier or later
// boundary are suppressed so only outermost contours are reported.
//
// The returned order is the discovery order of each component's first
// (topmost, then leftmost) pixel, which is stable for identical input.
func extractContours(mask [][]bool) []geometry.Contour {
	h := len(mask)
	if h == 0 {
		return nil
	}
	w := len(mask[0])

	labels := make([]int, w*h)
	var starts []geometry.Point

	next := 1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask[y][x] && labels[y*w+x] == 0 {
				labelComponent(mask, labels, w, h, x, y, next)
				starts = append(starts, geometry.Point{X: x, Y: y})
				next++
			}
		}
	}

	contours := make([]geometry.Contour, 0, len(starts))
	for i, start := range starts {
		c := traceBoundary(labels, w, h, i+1, start)
		if len(c) > 0 {
			contours = append(contours, c)
		}
	}
	return suppressNested(contours)
}

// labelComponent flood-fills one 8-connected component with the given
// label. Iterative with an explicit stack so large components cannot
// overflow the goroutine stack.
func labelComponent(mask [][]bool, labels []int, w, h, startX, startY, label int) {
	stack := []geometry.Point{{X: startX, Y: startY}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
			continue
		}
		if !mask[p.Y][p.X] || labels[p.Y*w+p.X] != 0 {
			continue
		}
		labels[p.Y*w+p.X] = label

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, geometry.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
}

// mooreDirs enumerates the 8-neighborhood in clockwise order starting
// from the western neighbor.
var mooreDirs = [8]geometry.Point{
	{X: -1, Y: 0},  // W
	{X: -1, Y: -1}, // NW
	{X: 0, Y: -1},  // N
	{X: 1, Y: -1},  // NE
	{X: 1, Y: 0},   // E
	{X: 1, Y: 1},   // SE
	{X: 0, Y: 1},   // S
	{X: -1, Y: 1},  // SW
}

// traceBoundary walks the outer boundary of a labelled component using
// Moore-neighbor tracing. start must be the component's first pixel in
// row-major order, which guarantees its western neighbor is outside the
// component. Consecutive collinear points are compressed away; the
// geometric extent of the boundary is preserved.
func traceBoundary(labels []int, w, h, label int, start geometry.Point) geometry.Contour {
	inComp := func(p geometry.Point) bool {
		return p.X >= 0 && p.X < w && p.Y >= 0 && p.Y < h && labels[p.Y*w+p.X] == label
	}

	var pts geometry.Contour
	push := func(p geometry.Point) {
		n := len(pts)
		if n >= 1 && pts[n-1] == p {
			return
		}
		if n >= 2 {
			a, b := pts[n-2], pts[n-1]
			// Drop b when a, b, p are collinear.
			if (b.X-a.X)*(p.Y-b.Y)-(b.Y-a.Y)*(p.X-b.X) == 0 {
				pts = pts[:n-1]
			}
		}
		pts = append(pts, p)
	}

	push(start)

	cur := start
	// Backtrack starts at the western neighbor, known to be outside.
	back := geometry.Point{X: start.X - 1, Y: start.Y}
	firstMove := geometry.Point{}

	// Generous upper bound on boundary length; guards against a cycle
	// that never re-enters the start state.
	maxSteps := 4*w*h + 8

	for step := 0; step < maxSteps; step++ {
		// Index of the backtrack cell in the clockwise neighborhood.
		bi := -1
		for i, d := range mooreDirs {
			if cur.X+d.X == back.X && cur.Y+d.Y == back.Y {
				bi = i
				break
			}
		}
		if bi < 0 {
			break
		}

		found := false
		prev := back
		for i := 1; i <= 8; i++ {
			d := mooreDirs[(bi+i)%8]
			n := geometry.Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			if inComp(n) {
				back = prev
				cur = n
				found = true
				break
			}
			prev = n
		}
		if !found {
			// Isolated pixel.
			break
		}

		if step == 0 {
			firstMove = cur
		} else if cur == firstMove && pts[len(pts)-1] == start {
			// Re-entered the first transition: the boundary is closed.
			pts = pts[:len(pts)-1]
			break
		}
		push(cur)
	}

	// Drop a duplicated closing point if the walk appended one.
	if len(pts) >= 2 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// suppressNested removes contours fully enclosed inside another contour,
// matching the external-boundaries-only contract. Containment is tested by
// bounding-box inclusion plus an even-odd point test on the inner
// contour's start point.
func suppressNested(contours []geometry.Contour) []geometry.Contour {
	if len(contours) < 2 {
		return contours
	}

	boxes := make([]image.Rectangle, len(contours))
	for i, c := range contours {
		boxes[i] = c.BoundingBox()
	}

	out := make([]geometry.Contour, 0, len(contours))
	for i, c := range contours {
		nested := false
		for j, outer := range contours {
			if i == j || boxes[i] == boxes[j] {
				continue
			}
			if boxes[i].In(boxes[j]) && outer.Contains(c[0]) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, c)
		}
	}
	return out
}
