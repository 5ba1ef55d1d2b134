package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPolygon(t *testing.T, points []Point) *Polygon {
	t.Helper()
	p, err := NewPolygon(points)
	require.NoError(t, err)
	return p
}

func mustGraph(t *testing.T, points []Point) *Graph {
	t.Helper()
	g, err := BuildVisibilityGraph(mustPolygon(t, points))
	require.NoError(t, err)
	return g
}

func TestBuildVisibilityGraphSquare(t *testing.T) {
	g := mustGraph(t, []Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}})

	assert.Equal(t, 4, g.NumVertices())
	assert.Equal(t, 6, g.NumEdges())

	w, ok := g.Cost(Vertex(0), Vertex(2))
	require.True(t, ok)
	assert.InDelta(t, 4*1.4142135623730951, w, 1e-12)
}

func TestBuildVisibilityGraphConvexIsComplete(t *testing.T) {
	hexagon := []Point{{0, 0}, {4, 0}, {6, 2}, {6, 5}, {3, 7}, {0, 5}}
	g := mustGraph(t, hexagon)

	n := len(hexagon)
	assert.Equal(t, n*(n-1)/2, g.NumEdges())
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			w, ok := g.Cost(Vertex(i), Vertex(j))
			assert.True(t, ok, "edge %d-%d", i, j)
			assert.InDelta(t, hexagon[i].Distance(hexagon[j]), w, 1e-12)
		}
	}
}

func TestBuildVisibilityGraphConcave(t *testing.T) {
	// v0(0,0) v1(6,0) v2(6,6) v3(0,6) v4(0,4) v5(4,4) v6(4,2) v7(0,2)
	g := mustGraph(t, cShape(1))

	has := func(i, j int) bool {
		_, ok := g.Cost(Vertex(i), Vertex(j))
		return ok
	}

	// Boundary
	for i := 0; i < 8; i++ {
		assert.True(t, has(i, (i+1)%8), "boundary edge %d", i)
	}

	assert.True(t, has(6, 1), "reflex vertex sees the far corner")
	assert.True(t, has(5, 2))
	assert.True(t, has(6, 5))
	assert.False(t, has(7, 4), "segment runs through the notch")
	assert.False(t, has(0, 3), "segment runs along the notch mouth")
	assert.False(t, has(7, 5), "segment crosses the notch")
	assert.False(t, has(0, 5), "segment crosses the notch floor")
}

func TestBuildVisibilityGraphSymmetric(t *testing.T) {
	g := mustGraph(t, cShape(32))

	for from, adj := range g.Edges {
		for to, w := range adj {
			back, ok := g.Cost(to, from)
			require.True(t, ok, "%v -> %v has no reverse", from, to)
			assert.Equal(t, w, back)
		}
	}
}

func TestBuildVisibilityGraphRejectsOpen(t *testing.T) {
	p := &Polygon{}
	require.NoError(t, p.Append(Point{0, 0}))
	require.NoError(t, p.Append(Point{4, 0}))
	require.NoError(t, p.Append(Point{4, 4}))

	g, err := BuildVisibilityGraph(p)
	assert.ErrorIs(t, err, ErrPolygonOpen)
	assert.Nil(t, g)
}

func TestConnectAndPurgeTerminals(t *testing.T) {
	g := mustGraph(t, cShape(1))
	before := g.NumEdges()

	g.ConnectTerminals(Point{1, 1}, Point{1, 5})
	require.True(t, g.HasTerminals())
	assert.Greater(t, g.NumEdges(), before)

	_, direct := g.Cost(StartID, EndID)
	assert.False(t, direct, "notch blocks the straight line")

	_, ok := g.Cost(StartID, Vertex(6))
	assert.True(t, ok)
	_, ok = g.Cost(Vertex(6), StartID)
	assert.False(t, ok, "terminal edges are one-way")
	_, ok = g.Cost(Vertex(5), EndID)
	assert.True(t, ok)
	_, ok = g.Cost(EndID, Vertex(5))
	assert.False(t, ok, "terminal edges are one-way")

	g.PurgeTerminals()
	assert.False(t, g.HasTerminals())
	assert.Equal(t, before, g.NumEdges())
	for from, adj := range g.Edges {
		assert.False(t, from.IsTerminal())
		for to := range adj {
			assert.False(t, to.IsTerminal())
		}
	}
}

func TestSpatialIndexQuerySegment(t *testing.T) {
	idx, err := NewSpatialIndex(mustPolygon(t, cShape(1)))
	require.NoError(t, err)
	assert.Equal(t, 8, idx.Len())

	// A vertical segment through the notch touches the two notch edges and the
	// outer top and bottom edges only
	found := map[int]bool{}
	for _, e := range idx.QuerySegment(LineSegment{P1: Point{2, -1}, P2: Point{2, 7}}) {
		found[e.Index] = true
	}
	assert.Equal(t, map[int]bool{0: true, 2: true, 4: true, 6: true}, found)
}

func TestNodeIDString(t *testing.T) {
	assert.Equal(t, "start", StartID.String())
	assert.Equal(t, "end", EndID.String())
	assert.Equal(t, "v3", Vertex(3).String())
	assert.NotEqual(t, Vertex(0), StartID)
}

func TestBuildVisibilityGraphVertexLimit(t *testing.T) {
	n := maxVertices + 1
	ring := make([]Point, 0, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		ring = append(ring, Point{X: 1000 * math.Cos(a), Y: 1000 * math.Sin(a)})
	}
	ring = append(ring, ring[0])

	g, err := BuildVisibilityGraph(&Polygon{Vertices: ring})
	assert.ErrorIs(t, err, ErrTooManyVertices)
	assert.Nil(t, g)
}
