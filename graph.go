package main

import "fmt"

// NodeKind tags what a graph node stands for
type NodeKind uint8

const (
	VertexNode NodeKind = iota
	StartNode
	EndNode
)

// NodeID identifies a visibility graph node: a polygon vertex, or one of the
// two per-query terminals
type NodeID struct {
	Kind  NodeKind
	Index int // Vertex index; zero for terminals
}

var (
	StartID = NodeID{Kind: StartNode}
	EndID   = NodeID{Kind: EndNode}
)

// Vertex returns the node identifier of polygon vertex i
func Vertex(i int) NodeID {
	return NodeID{Kind: VertexNode, Index: i}
}

// IsTerminal reports whether id is the start or the end node
func (id NodeID) IsTerminal() bool {
	return id.Kind != VertexNode
}

func (id NodeID) String() string {
	switch id.Kind {
	case StartNode:
		return "start"
	case EndNode:
		return "end"
	default:
		return fmt.Sprintf("v%d", id.Index)
	}
}

// Graph is a weighted visibility graph over the vertices of one polygon
type Graph struct {
	Polygon *Polygon
	Edges   map[NodeID]map[NodeID]float64

	index      *SpatialIndex
	start, end Point
}

// Edge represents a connection between two nodes with a cost
type Edge struct {
	From NodeID
	To   NodeID
	Cost float64 // Euclidean distance
}

// Position returns the location of a node
func (g *Graph) Position(id NodeID) Point {
	switch id.Kind {
	case StartNode:
		return g.start
	case EndNode:
		return g.end
	default:
		return g.Polygon.Vertices[id.Index]
	}
}

// NumVertices returns the number of polygon vertices in the graph
func (g *Graph) NumVertices() int {
	return g.Polygon.Len()
}

// Cost returns the weight of the edge from -> to, if present
func (g *Graph) Cost(from, to NodeID) (float64, bool) {
	w, ok := g.Edges[from][to]
	return w, ok
}

// Neighbors returns the outgoing edges of a node
func (g *Graph) Neighbors(id NodeID) []Edge {
	adj := g.Edges[id]
	edges := make([]Edge, 0, len(adj))
	for to, cost := range adj {
		edges = append(edges, Edge{From: id, To: to, Cost: cost})
	}
	return edges
}

// NumEdges counts vertex-vertex edges once and terminal edges once per
// direction present
func (g *Graph) NumEdges() int {
	return len(g.AllEdges())
}

// AllEdges lists every edge, with symmetric vertex-vertex edges reported once
func (g *Graph) AllEdges() []Edge {
	edges := make([]Edge, 0)
	for from, adj := range g.Edges {
		for to, cost := range adj {
			if from.Kind == VertexNode && to.Kind == VertexNode && from.Index > to.Index {
				continue
			}
			edges = append(edges, Edge{From: from, To: to, Cost: cost})
		}
	}
	return edges
}

// Lines returns the graph edges as line segments for visualization
func (g *Graph) Lines() []LineSegment {
	edges := g.AllEdges()
	lines := make([]LineSegment, 0, len(edges))
	for _, edge := range edges {
		lines = append(lines, LineSegment{P1: g.Position(edge.From), P2: g.Position(edge.To)})
	}
	return lines
}

func (g *Graph) setEdge(from, to NodeID, cost float64) {
	adj, ok := g.Edges[from]
	if !ok {
		adj = make(map[NodeID]float64)
		g.Edges[from] = adj
	}
	adj[to] = cost
}
