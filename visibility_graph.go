package main

import (
	"fmt"
	"log"
	"time"
)

// BuildVisibilityGraph constructs the visibility graph of a closed simple
// polygon. Every boundary edge is a graph edge; any other vertex pair is
// connected when the segment between them stays inside the polygon.
func BuildVisibilityGraph(polygon *Polygon) (*Graph, error) {
	if polygon == nil || !polygon.IsClosed() {
		return nil, fmt.Errorf("%w: cannot build graph", ErrPolygonOpen)
	}
	n := polygon.Len()
	if n < 3 {
		return nil, fmt.Errorf("%w: need at least 3 vertices, have %d", ErrInvalidPolygon, n)
	}

	// Safety limit: prevent massive graphs
	if n > maxVertices {
		log.Printf("❌ ERROR: Too many vertices (%d). Simplify the polygon.\n", n)
		return nil, fmt.Errorf("%w: %d vertices, limit is %d", ErrTooManyVertices, n, maxVertices)
	}

	startTime := time.Now()
	totalPossibleEdges := (n * (n - 1)) / 2
	log.Printf("🗺️  Building visibility graph over %d vertices...\n", n)
	log.Printf("   Checking up to %d possible edges...\n", totalPossibleEdges)

	index, err := NewSpatialIndex(polygon)
	if err != nil {
		return nil, fmt.Errorf("failed to index polygon edges: %w", err)
	}

	graph := &Graph{
		Polygon: polygon,
		Edges:   make(map[NodeID]map[NodeID]float64, n+2),
		index:   index,
	}

	edgesAdded := 0
	for i := 0; i < n; i++ {
		// All polygon edges are also edges of the visibility graph
		j := (i + 1) % n
		w := polygon.Vertices[i].Distance(polygon.Vertices[j])
		graph.setEdge(Vertex(i), Vertex(j), w)
		graph.setEdge(Vertex(j), Vertex(i), w)
		edgesAdded++

		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // adjacent through the seam
			}
			if graph.AddTerminalEdge(Vertex(i), Vertex(j), polygon.Vertices[i], polygon.Vertices[j], true) {
				edgesAdded++
			}
		}
	}

	log.Printf("   ✅ Edges added: %d (%.1f%% of pairs)\n", edgesAdded, 100*float64(edgesAdded)/float64(totalPossibleEdges))
	log.Printf("   ⏱️  Build time: %s\n", time.Since(startTime))

	return graph, nil
}

// AddTerminalEdge adds the edge from -> to when the two positions see each
// other inside the polygon, and the reverse edge as well when symmetric is
// set. It reports whether the edge was added.
//
// Boundary edges incident to a vertex endpoint are skipped in the crossing
// test, since the segment always touches them at that vertex.
func (g *Graph) AddTerminalEdge(from, to NodeID, fromPos, toPos Point, symmetric bool) bool {
	if !g.isVisible(from, to, fromPos, toPos) {
		return false
	}

	w := fromPos.Distance(toPos)
	g.setEdge(from, to, w)
	if symmetric {
		g.setEdge(to, from, w)
	}
	return true
}

// isVisible reports whether the open segment a-b lies inside the polygon
func (g *Graph) isVisible(ia, ib NodeID, a, b Point) bool {
	// In case it doesn't intersect with any polygon edge, discard if the
	// midpoint is outside of the polygon
	if !PointInPolygon(g.Polygon.Vertices, a.Midpoint(b)) {
		return false
	}

	n := g.Polygon.Len()
	for _, entry := range g.index.QuerySegment(LineSegment{P1: a, P2: b}) {
		if incident(entry.Index, n, ia) || incident(entry.Index, n, ib) {
			continue
		}
		if SegmentsIntersect(a, b, entry.Segment.P1, entry.Segment.P2) {
			return false
		}
	}

	return true
}

// incident reports whether boundary edge k (from vertex k to k+1) ends at id
func incident(k, n int, id NodeID) bool {
	if id.Kind != VertexNode {
		return false
	}
	return k == id.Index || (k+1)%n == id.Index
}

// ConnectTerminals wires the start and end points into the graph for one
// query: start -> every visible vertex, every visible vertex -> end, and
// start -> end when the two see each other directly
func (g *Graph) ConnectTerminals(start, end Point) {
	g.PurgeTerminals()
	g.start, g.end = start, end

	for i, p := range g.Polygon.Corners() {
		g.AddTerminalEdge(StartID, Vertex(i), start, p, false)
		g.AddTerminalEdge(Vertex(i), EndID, p, end, false)
	}
	g.AddTerminalEdge(StartID, EndID, start, end, false)
}

// PurgeTerminals removes the start node and every edge into the end node
func (g *Graph) PurgeTerminals() {
	delete(g.Edges, StartID)
	delete(g.Edges, EndID)
	for _, adj := range g.Edges {
		delete(adj, EndID)
		delete(adj, StartID)
	}
	g.start, g.end = Point{}, Point{}
}

// HasTerminals reports whether start/end are currently wired
func (g *Graph) HasTerminals() bool {
	_, ok := g.Edges[StartID]
	return ok
}
