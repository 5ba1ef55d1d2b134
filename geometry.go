package main

import "math"

// Point is a position in the plane, in whatever unit the polygon uses
// (pixels for an interactive session, tiles for map files)
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Midpoint returns the point halfway between p and other
func (p Point) Midpoint(other Point) Point {
	return Point{X: (p.X + other.X) / 2, Y: (p.Y + other.Y) / 2}
}

// Orientation is the turn direction of an ordered triple of points
type Orientation int

const (
	Collinear Orientation = iota
	Clockwise
	CounterClockwise
)

func (o Orientation) String() string {
	switch o {
	case Clockwise:
		return "clockwise"
	case CounterClockwise:
		return "counter-clockwise"
	default:
		return "collinear"
	}
}

// orientation classifies the turn a -> b -> c. Collinear is exact: map
// coordinates are snapped to the tile grid, so there is no tolerance.
func orientation(a, b, c Point) Orientation {
	val := (b.Y-a.Y)*(c.X-b.X) - (b.X-a.X)*(c.Y-b.Y)
	switch {
	case val > 0:
		return Clockwise
	case val < 0:
		return CounterClockwise
	}
	return Collinear
}

// onSegment checks if point q lies within the bounding box of segment pr
func onSegment(p, q, r Point) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}

// LineSegment represents a line segment between two points
type LineSegment struct {
	P1 Point `json:"p1"`
	P2 Point `json:"p2"`
}

// Length returns the Euclidean length of the segment
func (s LineSegment) Length() float64 {
	return s.P1.Distance(s.P2)
}

// SegmentsIntersect reports whether segment p1q1 and segment p2q2 share at
// least one point. Touching and overlapping collinear segments intersect.
func SegmentsIntersect(p1, q1, p2, q2 Point) bool {
	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}

	// Check for collinear cases
	if o1 == Collinear && onSegment(p1, p2, q1) {
		return true
	}
	if o2 == Collinear && onSegment(p1, q2, q1) {
		return true
	}
	if o3 == Collinear && onSegment(p2, p1, q2) {
		return true
	}
	if o4 == Collinear && onSegment(p2, q1, q2) {
		return true
	}

	return false
}

// DoSegmentsIntersect is SegmentsIntersect for LineSegment values
func DoSegmentsIntersect(seg1, seg2 LineSegment) bool {
	return SegmentsIntersect(seg1.P1, seg1.P2, seg2.P1, seg2.P2)
}

// PointInPolygon checks if a point is inside a closed ring (last vertex
// equal to the first) using ray casting to the right.
//
// Each edge is ordered so that its lower endpoint comes first and counts as
// a crossing when y1 < p.Y <= y2. The half-open interval keeps a ray passing
// exactly through a vertex from being counted twice, and horizontal edges
// never count.
func PointInPolygon(ring []Point, p Point) bool {
	inside := false
	for i := 0; i+1 < len(ring); i++ {
		a, b := ring[i], ring[i+1]
		if a.Y > b.Y {
			a, b = b, a
		}

		if p.Y > a.Y && p.Y <= b.Y && p.X <= a.X+(b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) {
			inside = !inside
		}
	}

	return inside
}
