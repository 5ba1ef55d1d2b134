package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomPolygon(t *testing.T) {
	for seed := int64(1); seed <= 30; seed++ {
		rnd := rand.New(rand.NewSource(seed))
		polygon, err := GenerateRandomPolygon(rnd, 12, 10, 0.5, 1)
		require.NoError(t, err, "seed %d", seed)

		assert.True(t, polygon.IsClosed())
		assert.NoError(t, polygon.Validate())
		assert.GreaterOrEqual(t, polygon.Len(), 3)
		for _, v := range polygon.Corners() {
			assert.True(t, v.X >= 1 && v.X <= 11 && v.Y >= 1 && v.Y <= 9, "vertex %v off the interior grid", v)
			assert.Equal(t, float64(int(v.X)), v.X)
			assert.Equal(t, float64(int(v.Y)), v.Y)
		}
	}
}

func TestGenerateRandomPolygonTileSize(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	polygon, err := GenerateRandomPolygon(rnd, 16, 12, 0.5, 32)
	require.NoError(t, err)

	for _, v := range polygon.Vertices {
		assert.Zero(t, int(v.X)%32)
		assert.Zero(t, int(v.Y)%32)
	}
}

func TestGenerateRandomPolygonDeterministic(t *testing.T) {
	a, err := GenerateRandomPolygon(rand.New(rand.NewSource(42)), 12, 10, 0.5, 1)
	require.NoError(t, err)
	b, err := GenerateRandomPolygon(rand.New(rand.NewSource(42)), 12, 10, 0.5, 1)
	require.NoError(t, err)
	assert.Equal(t, a.Vertices, b.Vertices)
}

func TestGenerateRandomPolygonTooSparse(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	_, err := GenerateRandomPolygon(rnd, 3, 3, 0.5, 1)
	assert.ErrorIs(t, err, ErrInvalidPolygon)

	_, err = GenerateRandomPolygon(rnd, 1, 10, 0.5, 1)
	assert.ErrorIs(t, err, ErrInvalidPolygon)
}

func TestUntangleBowtie(t *testing.T) {
	points := []Point{{0, 0}, {2, 2}, {2, 0}, {0, 2}}
	moves := untangle(points)

	assert.Equal(t, 1, moves)
	assert.Equal(t, []Point{{0, 0}, {2, 0}, {2, 2}, {0, 2}}, points)
	_, err := NewPolygon(points)
	assert.NoError(t, err)
}

func TestUntangleShortensTour(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	points := sampleGrid(rnd, 16, 16, 40)
	before := PathLength(append(append([]Point(nil), points...), points[0]))

	untangle(points)
	after := PathLength(append(append([]Point(nil), points...), points[0]))

	assert.LessOrEqual(t, after, before)

	c := len(points)
	for i := 0; i < c; i++ {
		for j := i + 2; j < c; j++ {
			if i == 0 && j == c-1 {
				continue
			}
			p1, p2 := points[i], points[i+1]
			p3, p4 := points[j], points[(j+1)%c]
			if SegmentsIntersect(p1, p2, p3, p4) {
				// Only collinear overlaps can survive the 2-opt pass
				assert.Equal(t, Collinear, orientation(p1, p2, p3))
				assert.Equal(t, Collinear, orientation(p1, p2, p4))
			}
		}
	}
}

func TestGenerateRandomPolygonLimits(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	for _, tc := range []struct {
		name          string
		width, height int
		density       float64
		err           error
	}{
		{"grid too wide", maxGridSize + 1, 10, 0.5, ErrTooManyVertices},
		{"too many points", 200, 200, 0.5, ErrTooManyVertices},
		{"huge grid", 1 << 30, 1 << 30, 0.5, ErrTooManyVertices},
		{"zero density", 12, 10, 0, ErrInvalidPolygon},
		{"density above one", 12, 10, 1.5, ErrInvalidPolygon},
	} {
		t.Run(tc.name, func(t *testing.T) {
			polygon, err := GenerateRandomPolygon(rnd, tc.width, tc.height, tc.density, 1)
			assert.ErrorIs(t, err, tc.err)
			assert.Nil(t, polygon)
		})
	}
}
