// Package geometry provides the numerically stable planar primitives the
// block detector is built on: contour area and arc length, axis-aligned
// bounds, convex hulls, and minimal-area enclosing rectangles.
//
// All coordinates use the image convention: (0,0) at the top-left, X
// increasing rightward, Y increasing downward. Angles are reported in
// degrees and follow the same orientation (positive angles rotate from +X
// toward +Y).
package geometry

import (
	"image"
	"math"
	"sort"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PointF is a real-valued coordinate, used for derived quantities such as
// rotated-rectangle centers that generally fall between pixel centers.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Contour is an ordered, closed sequence of points outlining the external
// boundary of a connected region. The closing edge from the last point back
// to the first is implicit. Consecutive collinear points may be omitted;
// area and extent are unaffected by that compression.
type Contour []Point

// Clone returns an independent copy of the contour.
func (c Contour) Clone() Contour {
	out := make(Contour, len(c))
	copy(out, c)
	return out
}

// Area returns the enclosed polygon area of the closed contour, computed
// with the shoelace formula. The result is non-negative regardless of
// winding direction. Contours with fewer than 3 points enclose nothing.
func (c Contour) Area() float64 {
	if len(c) < 3 {
		return 0
	}
	var sum float64
	for i, p := range c {
		q := c[(i+1)%len(c)]
		sum += float64(p.X)*float64(q.Y) - float64(q.X)*float64(p.Y)
	}
	return math.Abs(sum) / 2
}

// Perimeter returns the arc length of the closed contour, including the
// implicit closing edge.
func (c Contour) Perimeter() float64 {
	if len(c) < 2 {
		return 0
	}
	var sum float64
	for i, p := range c {
		q := c[(i+1)%len(c)]
		sum += math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
	}
	return sum
}

// BoundingBox returns the minimal axis-aligned rectangle enclosing the
// contour. The rectangle spans the full extent of the boundary pixels, so
// a contour over pixels [minX..maxX] yields Dx() == maxX-minX+1. The zero
// rectangle is returned for an empty contour.
func (c Contour) BoundingBox() image.Rectangle {
	if len(c) == 0 {
		return image.Rectangle{}
	}
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := c[0].X, c[0].Y
	for _, p := range c[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Contains reports whether the point q lies strictly inside the closed
// polygon described by the contour, using an even-odd ray cast.
func (c Contour) Contains(q Point) bool {
	if len(c) < 3 {
		return false
	}
	inside := false
	x, y := float64(q.X), float64(q.Y)
	j := len(c) - 1
	for i := 0; i < len(c); i++ {
		xi, yi := float64(c[i].X), float64(c[i].Y)
		xj, yj := float64(c[j].X), float64(c[j].Y)
		if (yi > y) != (yj > y) &&
			x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// ConvexHull returns the convex hull of the contour's points in boundary
// order, using Andrew's monotone chain. Collinear points on the hull
// boundary are dropped. Degenerate
// inputs (fewer than 3 distinct points, or all points collinear) return
// the reduced chain, which may have fewer than 3 points.
func (c Contour) ConvexHull() []Point {
	pts := make([]Point, len(c))
	copy(pts, c)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	// Deduplicate; repeated points break the chain invariants.
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return pts
	}

	cross := func(o, a, b Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	hull := make([]Point, 0, 2*len(pts))
	// Lower hull.
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	// Upper hull.
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// RotatedRect is a rectangle at arbitrary orientation: the minimal-area
// enclosing rectangle of a point set as produced by MinAreaRect.
type RotatedRect struct {
	// Center of the rectangle.
	Center PointF `json:"center"`

	// Width is the extent along the edge direction the fit selected.
	Width float64 `json:"width"`

	// Height is the extent perpendicular to Width.
	Height float64 `json:"height"`

	// Angle is the direction of the Width edge in degrees, in (-90, 90].
	// The convention is inherited directly from the calipers fit; no
	// renormalization against Width/Height ordering is applied.
	Angle float64 `json:"angle"`
}

// Vertices returns the four corners of the rectangle in order, suitable
// for drawing its outline edge by edge.
func (r RotatedRect) Vertices() [4]PointF {
	rad := r.Angle * math.Pi / 180
	ux, uy := math.Cos(rad), math.Sin(rad)
	vx, vy := -uy, ux
	hw, hh := r.Width/2, r.Height/2
	return [4]PointF{
		{r.Center.X - ux*hw - vx*hh, r.Center.Y - uy*hw - vy*hh},
		{r.Center.X + ux*hw - vx*hh, r.Center.Y + uy*hw - vy*hh},
		{r.Center.X + ux*hw + vx*hh, r.Center.Y + uy*hw + vy*hh},
		{r.Center.X - ux*hw + vx*hh, r.Center.Y - uy*hw + vy*hh},
	}
}

// MinAreaRect computes the minimal-area enclosing rectangle of the
// contour's points by rotating calipers over the convex hull: for each
// hull edge, the points are projected onto the edge direction and its
// perpendicular, and the orientation with the smallest projected area
// wins. A degenerate contour (all points collinear, or fewer than 3
// points) yields a rectangle with zero Height along the dominant
// direction.
func (c Contour) MinAreaRect() RotatedRect {
	hull := c.ConvexHull()
	switch len(hull) {
	case 0:
		return RotatedRect{}
	case 1:
		p := hull[0]
		return RotatedRect{Center: PointF{float64(p.X), float64(p.Y)}}
	case 2:
		return segmentRect(hull[0], hull[1])
	}

	best := RotatedRect{}
	bestArea := math.Inf(1)
	for i := range hull {
		a, b := hull[i], hull[(i+1)%len(hull)]
		ex, ey := float64(b.X-a.X), float64(b.Y-a.Y)
		n := math.Hypot(ex, ey)
		if n == 0 {
			continue
		}
		ux, uy := ex/n, ey/n
		vx, vy := -uy, ux

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			pu := float64(p.X)*ux + float64(p.Y)*uy
			pv := float64(p.X)*vx + float64(p.Y)*vy
			minU = math.Min(minU, pu)
			maxU = math.Max(maxU, pu)
			minV = math.Min(minV, pv)
			maxV = math.Max(maxV, pv)
		}

		w, h := maxU-minU, maxV-minV
		if w*h < bestArea {
			bestArea = w * h
			cu, cv := (minU+maxU)/2, (minV+maxV)/2
			best = RotatedRect{
				Center: PointF{cu*ux + cv*vx, cu*uy + cv*vy},
				Width:  w,
				Height: h,
				Angle:  edgeAngle(ux, uy),
			}
		}
	}
	return best
}

// segmentRect is the degenerate fit for a two-point hull.
func segmentRect(a, b Point) RotatedRect {
	ex, ey := float64(b.X-a.X), float64(b.Y-a.Y)
	n := math.Hypot(ex, ey)
	r := RotatedRect{
		Center: PointF{(float64(a.X) + float64(b.X)) / 2, (float64(a.Y) + float64(b.Y)) / 2},
		Width:  n,
	}
	if n > 0 {
		r.Angle = edgeAngle(ex/n, ey/n)
	}
	return r
}

// edgeAngle maps a unit direction to degrees in (-90, 90].
func edgeAngle(ux, uy float64) float64 {
	deg := math.Atan2(uy, ux) * 180 / math.Pi
	for deg <= -90 {
		deg += 180
	}
	for deg > 90 {
		deg -= 180
	}
	return deg
}
