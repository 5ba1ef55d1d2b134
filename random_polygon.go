package main

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
)

// maxRandomAttempts bounds how many samples are drawn before giving up on a
// random polygon
const maxRandomAttempts = 32

// untangleEpsilon keeps rounding noise from counting as a shorter tour
const untangleEpsilon = 1e-9

// Bounds on random maps: the grid is allocated in full and 2-opt is
// quadratic per pass in the number of sampled points
const (
	maxGridSize     = 1024
	maxRandomPoints = 400
)

// GenerateRandomPolygon samples int((width-1)*(height-1)*density²) distinct
// points of the interior tile grid and untangles them into a simple polygon.
// Coordinates are multiplied by tileSize.
func GenerateRandomPolygon(rnd *rand.Rand, width, height int, density, tileSize float64) (*Polygon, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("%w: grid %dx%d is too small", ErrInvalidPolygon, width, height)
	}
	if width > maxGridSize || height > maxGridSize {
		log.Printf("❌ ERROR: Grid too large (%dx%d), limit is %d per side\n", width, height, maxGridSize)
		return nil, fmt.Errorf("%w: grid %dx%d exceeds %d per side", ErrTooManyVertices, width, height, maxGridSize)
	}
	if !(density > 0 && density <= 1) {
		return nil, fmt.Errorf("%w: density %g outside (0, 1]", ErrInvalidPolygon, density)
	}
	c := int(float64((width-1)*(height-1)) * density * density)
	if c < 3 {
		return nil, fmt.Errorf("%w: density %.2f yields %d points", ErrInvalidPolygon, density, c)
	}
	if c > maxRandomPoints {
		log.Printf("❌ ERROR: Too many points (%d). Reduce the grid or the density.\n", c)
		return nil, fmt.Errorf("%w: %d points sampled, limit is %d", ErrTooManyVertices, c, maxRandomPoints)
	}

	var lastErr error
	for attempt := 1; attempt <= maxRandomAttempts; attempt++ {
		points := sampleGrid(rnd, width, height, c)
		moves := untangle(points)

		ring := SimplifyRing(points)
		for i := range ring {
			ring[i] = Point{X: ring[i].X * tileSize, Y: ring[i].Y * tileSize}
		}

		polygon, err := NewPolygon(ring)
		if err == nil {
			log.Printf("🎲 Random polygon: %d vertices (%d sampled, %d 2-opt moves, attempt %d)\n",
				polygon.Len(), c, moves, attempt)
			return polygon, nil
		}
		if !errors.Is(err, ErrInvalidPolygon) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("no simple polygon after %d attempts: %w", maxRandomAttempts, lastErr)
}

// sampleGrid picks c distinct points from the grid 1..width-1 x 1..height-1
func sampleGrid(rnd *rand.Rand, width, height, c int) []Point {
	grid := make([]Point, 0, (width-1)*(height-1))
	for i := 1; i < width; i++ {
		for j := 1; j < height; j++ {
			grid = append(grid, Point{X: float64(i), Y: float64(j)})
		}
	}
	rnd.Shuffle(len(grid), func(i, j int) {
		grid[i], grid[j] = grid[j], grid[i]
	})
	if c > len(grid) {
		c = len(grid)
	}
	return grid[:c]
}

// untangle removes crossings from the closed tour through points with 2-opt
// moves: whenever two non-adjacent edges intersect and reconnecting them
// shortens the tour, the vertices between them are reversed. Passes repeat
// until one makes no move; every move strictly shortens the tour, so this
// terminates. It returns the number of moves made.
func untangle(points []Point) int {
	c := len(points)
	moves := 0

	for improved := true; improved; {
		improved = false
		for i := 0; i < c-1; i++ {
			for j := i + 2; j < c; j++ {
				if i == 0 && j == c-1 {
					continue
				}
				p1, p2 := points[i], points[i+1]
				p3, p4 := points[j], points[(j+1)%c]

				if !SegmentsIntersect(p1, p2, p3, p4) {
					continue
				}
				if p1.Distance(p2)+p3.Distance(p4) <= p1.Distance(p3)+p2.Distance(p4)+untangleEpsilon {
					continue
				}

				reverse(points[i+1 : j+1])
				moves++
				improved = true
			}
		}
	}

	return moves
}

func reverse(points []Point) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}
