package main

import (
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"

	"github.com/google/uuid"
)

// Session owns one polygon, its visibility graph and the current query.
// It is the explicit replacement for editor-wide globals and is not safe for
// concurrent use.
//
// The lifecycle is edit -> close -> build graph -> query (repeatable) ->
// purge. Closing, loading or generating a polygon rebuilds the graph;
// EditMap drops it.
type Session struct {
	ID       string
	TileSize float64

	polygon *Polygon
	graph   *Graph
	start   *Point
	end     *Point
	result  *SearchResult
}

// NewSession creates an empty session in edit mode
func NewSession(tileSize float64) *Session {
	return &Session{
		ID:       uuid.New().String(),
		TileSize: tileSize,
		polygon:  &Polygon{},
	}
}

// Polygon returns the current polygon, open or closed
func (s *Session) Polygon() *Polygon { return s.polygon }

// Graph returns the visibility graph, nil while editing
func (s *Session) Graph() *Graph { return s.graph }

// Result returns the last successful search result, if any
func (s *Session) Result() *SearchResult { return s.result }

// Editing reports whether the polygon is open for edits
func (s *Session) Editing() bool { return !s.polygon.IsClosed() }

// Align snaps a position to the nearest tile grid intersection
func (s *Session) Align(p Point) Point {
	if s.TileSize <= 0 {
		return p
	}
	return Point{
		X: math.Round(p.X/s.TileSize) * s.TileSize,
		Y: math.Round(p.Y/s.TileSize) * s.TileSize,
	}
}

// PlaceVertex handles an editor click at p. The position is snapped to the
// grid. Clicking a placed vertex (other than the first, once there are more)
// rewinds to before it, clicking the first vertex closes the polygon, and
// anything else appends.
func (s *Session) PlaceVertex(p Point) error {
	if !s.Editing() {
		return fmt.Errorf("%w: polygon is closed, call EditMap first", ErrInvalidPolygon)
	}

	tiled := s.Align(p)
	n := len(s.polygon.Vertices)
	if idx := s.polygon.IndexOf(tiled); idx >= 0 && (n == 1 || idx != 0) {
		s.polygon.RemoveTrailing(tiled)
		return nil
	}

	if err := s.polygon.Append(tiled); err != nil {
		return err
	}
	if s.polygon.IsClosed() {
		return s.rebuild()
	}
	return nil
}

// ClosePolygon closes the polygon being edited and builds its graph
func (s *Session) ClosePolygon() error {
	if err := s.polygon.Close(); err != nil {
		return err
	}
	return s.rebuild()
}

// EditMap reopens the polygon for editing, dropping the graph and query
func (s *Session) EditMap() {
	s.ResetQuery()
	s.polygon.Reopen()
	s.graph = nil
}

// SetPolygon replaces the polygon wholesale. The previous polygon and graph
// are kept if the new one is invalid.
func (s *Session) SetPolygon(polygon *Polygon) error {
	if err := polygon.Validate(); err != nil {
		return err
	}
	graph, err := BuildVisibilityGraph(polygon)
	if err != nil {
		return err
	}

	s.ResetQuery()
	s.polygon = polygon
	s.graph = graph
	return nil
}

// LoadMap replaces the polygon with the one in a tile map file
func (s *Session) LoadMap(r io.Reader) error {
	polygon, err := ReadMap(r, s.TileSize)
	if err != nil {
		return err
	}
	return s.SetPolygon(polygon)
}

// LoadGeoJSON replaces the polygon with the outer ring of a GeoJSON polygon
// given in tile coordinates
func (s *Session) LoadGeoJSON(data []byte) error {
	polygon, err := ReadGeoJSONMap(data, s.TileSize)
	if err != nil {
		return err
	}
	return s.SetPolygon(polygon)
}

// SaveMap writes the closed polygon in the tile map format
func (s *Session) SaveMap(w io.Writer) error {
	if !s.polygon.IsClosed() {
		return ErrPolygonOpen
	}
	return WriteMap(w, s.polygon, s.TileSize)
}

// RandomMap replaces the polygon with a random one on a width x height grid
func (s *Session) RandomMap(rnd *rand.Rand, width, height int, density float64) error {
	polygon, err := GenerateRandomPolygon(rnd, width, height, density, s.TileSize)
	if err != nil {
		return err
	}
	return s.SetPolygon(polygon)
}

// Route computes the shortest path between two points inside the polygon
func (s *Session) Route(start, end Point) (SearchResult, error) {
	if s.graph == nil {
		return SearchResult{}, ErrPolygonOpen
	}

	s.ResetQuery()
	result, err := FindPath(s.graph, start, end)
	if err != nil {
		s.graph.PurgeTerminals()
		return result, err
	}

	s.start, s.end = &start, &end
	s.result = &result
	log.Printf("✅ Path found with %d waypoints, length %.2f (%.2f tiles), %d nodes expanded in %s\n",
		len(result.Path), result.Length, result.Length/s.tileDivisor(), result.Expanded, result.Elapsed)
	return result, nil
}

// ResetQuery clears start, end and the last result and purges the terminal
// nodes from the graph
func (s *Session) ResetQuery() {
	s.start, s.end, s.result = nil, nil, nil
	if s.graph != nil {
		s.graph.PurgeTerminals()
	}
}

// Scene returns the read-only view used by renderers
func (s *Session) Scene() Scene {
	return Scene{
		Polygon: s.polygon,
		Graph:   s.graph,
		Start:   s.start,
		End:     s.end,
		Result:  s.result,
	}
}

// rebuild builds the graph of a freshly closed polygon. On failure the
// polygon goes back to edit mode.
func (s *Session) rebuild() error {
	graph, err := BuildVisibilityGraph(s.polygon)
	if err != nil {
		s.polygon.Reopen()
		return err
	}
	s.ResetQuery()
	s.graph = graph
	return nil
}

func (s *Session) tileDivisor() float64 {
	if s.TileSize <= 0 {
		return 1
	}
	return s.TileSize
}
