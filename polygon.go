package main

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPolygon is returned when an edit or a bulk load would leave
	// the polygon with fewer than 3 vertices or with intersecting edges
	ErrInvalidPolygon = errors.New("invalid polygon")
	// ErrPolygonOpen is returned when a closed polygon is required
	ErrPolygonOpen = errors.New("polygon is not closed")
	// ErrTooManyVertices is returned when a polygon or random sample would
	// exceed maxVertices
	ErrTooManyVertices = errors.New("too many vertices")
)

// maxVertices caps every polygon the service builds a graph for. Validation
// is quadratic and the graph build cubic in the vertex count.
const maxVertices = 1000

// Polygon is a simple polygon built by successive vertex appends.
//
// While open, Vertices holds the placed vertices in order. Once closed it
// holds the ring, with a final vertex equal to the first.
type Polygon struct {
	Vertices []Point `json:"vertices"`
}

// NewPolygon builds a closed polygon from an open or closed vertex list and
// validates it
func NewPolygon(points []Point) (*Polygon, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no vertices", ErrInvalidPolygon)
	}
	if len(points) > maxVertices+1 {
		return nil, fmt.Errorf("%w: %d given, limit is %d", ErrTooManyVertices, len(points), maxVertices)
	}

	ring := make([]Point, len(points), len(points)+1)
	copy(ring, points)
	if ring[0] != ring[len(ring)-1] || len(ring) == 1 {
		ring = append(ring, ring[0])
	}

	polygon := &Polygon{Vertices: ring}
	if err := polygon.Validate(); err != nil {
		return nil, err
	}
	return polygon, nil
}

// IsClosed reports whether the polygon has been closed
func (p *Polygon) IsClosed() bool {
	n := len(p.Vertices)
	return n >= 4 && p.Vertices[0] == p.Vertices[n-1]
}

// Len returns the number of distinct vertices
func (p *Polygon) Len() int {
	if p.IsClosed() {
		return len(p.Vertices) - 1
	}
	return len(p.Vertices)
}

// Corners returns the distinct vertices without the closing duplicate
func (p *Polygon) Corners() []Point {
	return p.Vertices[:p.Len()]
}

// Edge returns the boundary edge from vertex i to vertex i+1 (mod n)
func (p *Polygon) Edge(i int) LineSegment {
	n := p.Len()
	return LineSegment{P1: p.Vertices[i], P2: p.Vertices[(i+1)%n]}
}

// Contains reports whether pt lies inside the closed polygon
func (p *Polygon) Contains(pt Point) bool {
	if !p.IsClosed() {
		return false
	}
	return PointInPolygon(p.Vertices, pt)
}

// IndexOf returns the position of pt among the placed vertices, or -1
func (p *Polygon) IndexOf(pt Point) int {
	for i, v := range p.Corners() {
		if v == pt {
			return i
		}
	}
	return -1
}

// BoundaryLength returns the perimeter of the closed polygon
func (p *Polygon) BoundaryLength() float64 {
	total := 0.0
	for i := 0; i+1 < len(p.Vertices); i++ {
		total += p.Vertices[i].Distance(p.Vertices[i+1])
	}
	return total
}

// Append places a new vertex at the end of an open polygon. Appending the
// first vertex of a polygon with at least 3 vertices closes it.
func (p *Polygon) Append(pt Point) error {
	if p.IsClosed() {
		return fmt.Errorf("%w: polygon is already closed", ErrInvalidPolygon)
	}

	n := len(p.Vertices)
	if n == 0 {
		p.Vertices = append(p.Vertices, pt)
		return nil
	}

	if pt == p.Vertices[0] {
		if n < 3 {
			return fmt.Errorf("%w: need at least 3 vertices to close, have %d", ErrInvalidPolygon, n)
		}
		return p.Close()
	}
	if n >= maxVertices {
		return fmt.Errorf("%w: limit is %d", ErrTooManyVertices, maxVertices)
	}
	if p.IndexOf(pt) >= 0 {
		return fmt.Errorf("%w: vertex (%g, %g) already placed", ErrInvalidPolygon, pt.X, pt.Y)
	}

	last := p.Vertices[n-1]
	// Edge n-2 is adjacent to the new edge and shares its endpoint
	for k := 0; k+2 < n; k++ {
		if SegmentsIntersect(last, pt, p.Vertices[k], p.Vertices[k+1]) {
			return fmt.Errorf("%w: edge to (%g, %g) crosses edge %d", ErrInvalidPolygon, pt.X, pt.Y, k)
		}
	}

	if n >= 2 {
		prev := p.Vertices[n-2]
		if orientation(prev, last, pt) == Collinear {
			if foldsBack(prev, last, pt) {
				return fmt.Errorf("%w: edge to (%g, %g) folds back", ErrInvalidPolygon, pt.X, pt.Y)
			}
			// Join collinear edges
			p.Vertices = p.Vertices[:n-1]
		}
	}

	p.Vertices = append(p.Vertices, pt)
	return nil
}

// Close joins the last vertex back to the first. Redundant collinear
// vertices at the seam are dropped. On error the polygon is unchanged.
func (p *Polygon) Close() error {
	if p.IsClosed() {
		return nil
	}

	n := len(p.Vertices)
	if n < 3 {
		return fmt.Errorf("%w: need at least 3 vertices to close, have %d", ErrInvalidPolygon, n)
	}

	first, last := p.Vertices[0], p.Vertices[n-1]
	// Edge 0 starts at the first vertex and edge n-2 ends at the last one
	for k := 1; k+2 < n; k++ {
		if SegmentsIntersect(last, first, p.Vertices[k], p.Vertices[k+1]) {
			return fmt.Errorf("%w: closing edge crosses edge %d", ErrInvalidPolygon, k)
		}
	}

	vertices := make([]Point, n)
	copy(vertices, p.Vertices)

	prev := vertices[n-2]
	if orientation(prev, last, first) == Collinear {
		if foldsBack(prev, last, first) {
			return fmt.Errorf("%w: closing edge folds back", ErrInvalidPolygon)
		}
		vertices = vertices[:n-1]
	}

	m := len(vertices)
	if m >= 3 && orientation(vertices[m-1], vertices[0], vertices[1]) == Collinear {
		if foldsBack(vertices[m-1], vertices[0], vertices[1]) {
			return fmt.Errorf("%w: closing edge folds back", ErrInvalidPolygon)
		}
		vertices = vertices[1:]
	}

	if len(vertices) < 3 {
		return fmt.Errorf("%w: only %d vertices left after merging collinear edges", ErrInvalidPolygon, len(vertices))
	}

	p.Vertices = append(vertices, vertices[0])
	return nil
}

// RemoveTrailing truncates the open polygon back to, and excluding, target.
// It reports whether target was a placed vertex.
func (p *Polygon) RemoveTrailing(target Point) bool {
	if p.IsClosed() {
		return false
	}

	idx := p.IndexOf(target)
	if idx < 0 {
		return false
	}
	p.Vertices = p.Vertices[:idx]
	return true
}

// Reopen drops the closing vertex so editing can continue
func (p *Polygon) Reopen() {
	if p.IsClosed() {
		p.Vertices = p.Vertices[:len(p.Vertices)-1]
	}
}

// Validate checks every polygon invariant on a closed ring
func (p *Polygon) Validate() error {
	if !p.IsClosed() {
		n := len(p.Vertices)
		if n < 3 || p.Vertices[0] == p.Vertices[n-1] {
			return fmt.Errorf("%w: need at least 3 vertices", ErrInvalidPolygon)
		}
		return ErrPolygonOpen
	}

	n := p.Len()
	if n < 3 {
		return fmt.Errorf("%w: need at least 3 vertices, have %d", ErrInvalidPolygon, n)
	}
	if n > maxVertices {
		return fmt.Errorf("%w: %d vertices, limit is %d", ErrTooManyVertices, n, maxVertices)
	}

	seen := make(map[Point]int, n)
	for i, v := range p.Corners() {
		if j, ok := seen[v]; ok {
			return fmt.Errorf("%w: vertices %d and %d coincide", ErrInvalidPolygon, j, i)
		}
		seen[v] = i
	}

	for i := 0; i < n; i++ {
		a := p.Vertices[(i+n-1)%n]
		b := p.Vertices[i]
		c := p.Vertices[(i+1)%n]
		if orientation(a, b, c) == Collinear {
			return fmt.Errorf("%w: vertex %d is collinear with its neighbours", ErrInvalidPolygon, i)
		}
	}

	for i := 0; i < n; i++ {
		ei := p.Edge(i)
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if DoSegmentsIntersect(ei, p.Edge(j)) {
				return fmt.Errorf("%w: edges %d and %d intersect", ErrInvalidPolygon, i, j)
			}
		}
	}

	return nil
}

// Clone returns a deep copy
func (p *Polygon) Clone() *Polygon {
	vertices := make([]Point, len(p.Vertices))
	copy(vertices, p.Vertices)
	return &Polygon{Vertices: vertices}
}

// foldsBack reports whether c, collinear with a and b, turns back over the
// edge ab instead of continuing past b
func foldsBack(a, b, c Point) bool {
	return (b.X-a.X)*(c.X-b.X)+(b.Y-a.Y)*(c.Y-b.Y) < 0
}
