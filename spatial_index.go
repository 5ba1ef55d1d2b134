package main

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

// boxPadding widens every box so axis-aligned edges, which have zero width
// or height, still produce a valid rtreego.Rect
const boxPadding = 1e-6

// EdgeEntry wraps a polygon boundary edge for R-tree storage
type EdgeEntry struct {
	Index   int
	Segment LineSegment
	BBox    rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *EdgeEntry) Bounds() rtreego.Rect {
	return e.BBox
}

// SpatialIndex answers "which boundary edges could this segment touch"
type SpatialIndex struct {
	tree  *rtreego.Rtree
	edges []*EdgeEntry
}

// NewSpatialIndex indexes every boundary edge of a closed polygon
func NewSpatialIndex(polygon *Polygon) (*SpatialIndex, error) {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	n := polygon.Len()
	edges := make([]*EdgeEntry, 0, n)
	for i := 0; i < n; i++ {
		seg := polygon.Edge(i)
		bbox, err := segmentBoundingBox(seg)
		if err != nil {
			return nil, err
		}
		entry := &EdgeEntry{Index: i, Segment: seg, BBox: bbox}
		tree.Insert(entry)
		edges = append(edges, entry)
	}

	return &SpatialIndex{tree: tree, edges: edges}, nil
}

// Len returns the number of indexed edges
func (si *SpatialIndex) Len() int {
	return len(si.edges)
}

// QuerySegment returns the boundary edges whose bounding box overlaps the
// bounding box of seg
func (si *SpatialIndex) QuerySegment(seg LineSegment) []*EdgeEntry {
	bbox, err := segmentBoundingBox(seg)
	if err != nil {
		// Cannot happen for finite coordinates; fall back to a full scan
		return si.edges
	}

	results := si.tree.SearchIntersect(bbox)
	entries := make([]*EdgeEntry, 0, len(results))
	for _, item := range results {
		entries = append(entries, item.(*EdgeEntry))
	}

	return entries
}

// segmentBoundingBox computes the padded axis-aligned bounding box of seg
func segmentBoundingBox(seg LineSegment) (rtreego.Rect, error) {
	minX := math.Min(seg.P1.X, seg.P2.X) - boxPadding
	minY := math.Min(seg.P1.Y, seg.P2.Y) - boxPadding
	maxX := math.Max(seg.P1.X, seg.P2.X) + boxPadding
	maxY := math.Max(seg.P1.Y, seg.P2.Y) + boxPadding

	return rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{maxX - minX, maxY - minY},
	)
}
