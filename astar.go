package main

import (
	"container/heap"
	"errors"
	"fmt"
	"log"
	"math"
	"time"
)

var (
	// ErrQueryOutsidePolygon is returned when start or end is not inside
	// the polygon
	ErrQueryOutsidePolygon = errors.New("query point outside polygon")
	// ErrNoPath is returned when the search exhausts the frontier without
	// reaching the end. For a simple polygon and two interior points this
	// indicates a defect.
	ErrNoPath = errors.New("no path found")
)

// SearchResult is the outcome of one shortest-path query
type SearchResult struct {
	Path     []Point       `json:"path"`
	Length   float64       `json:"length"`
	Expanded int           `json:"expanded"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Node represents a polygon vertex in the A* search
type Node struct {
	Vertex int     // Vertex index in the polygon
	G      float64 // Cost from start to this node
	H      float64 // Heuristic cost from this node to end
	F      float64 // Total cost (G + H)
	Parent NodeID
	Index  int // Index in the heap, -1 when not queued
	Closed bool
}

// PriorityQueue implements heap.Interface for A* algorithm
type PriorityQueue []*Node

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].F != pq[j].F {
		return pq[i].F < pq[j].F
	}
	return pq[i].Vertex < pq[j].Vertex
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	node := x.(*Node)
	node.Index = n
	*pq = append(*pq, node)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*pq = old[0 : n-1]
	return node
}

// FindPath wires start and end into the graph and computes the shortest
// path between them. The terminals stay wired until the next query or an
// explicit PurgeTerminals, so a renderer can show them.
func FindPath(graph *Graph, start, end Point) (SearchResult, error) {
	if graph == nil {
		return SearchResult{}, ErrPolygonOpen
	}
	if !graph.Polygon.Contains(start) {
		return SearchResult{}, fmt.Errorf("%w: start (%g, %g)", ErrQueryOutsidePolygon, start.X, start.Y)
	}
	if !graph.Polygon.Contains(end) {
		return SearchResult{}, fmt.Errorf("%w: end (%g, %g)", ErrQueryOutsidePolygon, end.X, end.Y)
	}

	startTime := time.Now()
	graph.ConnectTerminals(start, end)

	result, err := AStarPathOnGraph(graph)
	result.Elapsed = time.Since(startTime)
	return result, err
}

// AStarPathOnGraph runs A* from the start terminal to the end terminal of a
// graph whose terminals are already wired.
//
// The end terminal is never queued. Its best cost is tracked on the side and
// the search stops once no open vertex has f below it.
func AStarPathOnGraph(graph *Graph) (SearchResult, error) {
	if !graph.HasTerminals() {
		return SearchResult{}, fmt.Errorf("%w: terminals are not wired", ErrNoPath)
	}

	n := graph.NumVertices()
	endPoint := graph.Position(EndID)

	nodes := make([]*Node, n)
	for i := range nodes {
		nodes[i] = &Node{
			Vertex: i,
			G:      math.Inf(1),
			H:      graph.Polygon.Vertices[i].Distance(endPoint),
			F:      math.Inf(1),
			Index:  -1,
		}
	}

	openSet := &PriorityQueue{}
	heap.Init(openSet)

	gEnd := math.Inf(1)
	parentEnd := NodeID{}
	reachedEnd := false

	relax := func(from NodeID, g float64) {
		for to, cost := range graph.Edges[from] {
			tentativeG := g + cost
			switch to.Kind {
			case EndNode:
				if tentativeG < gEnd {
					gEnd = tentativeG
					parentEnd = from
					reachedEnd = true
				}
			case VertexNode:
				neighbor := nodes[to.Index]
				if neighbor.Closed || tentativeG >= neighbor.G {
					continue
				}
				neighbor.G = tentativeG
				neighbor.F = tentativeG + neighbor.H
				neighbor.Parent = from
				if neighbor.Index < 0 {
					heap.Push(openSet, neighbor)
				} else {
					// Found a better path to this neighbor
					heap.Fix(openSet, neighbor.Index)
				}
			}
		}
	}

	relax(StartID, 0)

	nodesExplored := 0
	for openSet.Len() > 0 {
		if reachedEnd && (*openSet)[0].F >= gEnd {
			break
		}

		current := heap.Pop(openSet).(*Node)
		current.Closed = true
		nodesExplored++

		relax(Vertex(current.Vertex), current.G)
	}

	if !reachedEnd {
		log.Printf("   ❌ No path found after expanding %d nodes\n", nodesExplored)
		return SearchResult{Expanded: nodesExplored}, ErrNoPath
	}

	// Reconstruct path
	path := []Point{endPoint}
	for last := parentEnd; last.Kind != StartNode; last = nodes[last.Index].Parent {
		path = append(path, graph.Position(last))
	}
	path = append(path, graph.Position(StartID))

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return SearchResult{
		Path:     path,
		Length:   gEnd,
		Expanded: nodesExplored,
	}, nil
}

// PathLength sums the segment lengths of a polyline
func PathLength(path []Point) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += path[i].Distance(path[i+1])
	}
	return total
}
