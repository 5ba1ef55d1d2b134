package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrMalformedMap is returned when a map file line is not exactly two
// integers
var ErrMalformedMap = errors.New("malformed map file")

// ReadMap parses a map file: one vertex per line as two whitespace separated
// integers in tile units. Blank lines are ignored. Nothing is returned unless
// every line parses and the polygon is valid.
func ReadMap(r io.Reader, tileSize float64) (*Polygon, error) {
	var points []Point

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: expected 2 integers, got %d fields", ErrMalformedMap, lineNo, len(fields))
		}
		x, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedMap, lineNo, err)
		}
		y, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedMap, lineNo, err)
		}

		points = append(points, Point{X: float64(x) * tileSize, Y: float64(y) * tileSize})
		if len(points) > maxVertices+1 {
			return nil, fmt.Errorf("%w: map has more than %d vertices", ErrTooManyVertices, maxVertices)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read map: %w", err)
	}

	return NewPolygon(points)
}

// WriteMap writes the polygon ring in the map file format. Coordinates are
// divided by tileSize and floored.
func WriteMap(w io.Writer, polygon *Polygon, tileSize float64) error {
	bw := bufio.NewWriter(w)
	for _, p := range polygon.Vertices {
		x := int(math.Floor(p.X / tileSize))
		y := int(math.Floor(p.Y / tileSize))
		if _, err := fmt.Fprintf(bw, "%d %d\n", x, y); err != nil {
			return fmt.Errorf("failed to write map: %w", err)
		}
	}
	return bw.Flush()
}

// LoadMapFile reads a map file from disk
func LoadMapFile(filename string, tileSize float64) (*Polygon, error) {
	log.Printf("📂 Loading map from %s...\n", filename)

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open map: %w", err)
	}
	defer f.Close()

	polygon, err := ReadMap(f, tileSize)
	if err != nil {
		return nil, err
	}

	log.Printf("   ✅ Map loaded: %d vertices\n", polygon.Len())
	return polygon, nil
}

// SaveMapFile writes a map file to disk
func SaveMapFile(filename string, polygon *Polygon, tileSize float64) error {
	log.Printf("💾 Saving map to %s...\n", filename)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create map: %w", err)
	}

	if err := WriteMap(f, polygon, tileSize); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadGeoJSONMap takes the outer ring of the first Polygon or MultiPolygon
// feature in a GeoJSON FeatureCollection (or single Feature). Coordinates are
// in tiles, like the map file format, and must be integers.
func ReadGeoJSONMap(data []byte, tileSize float64) (*Polygon, error) {
	var features []*geojson.Feature
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && len(fc.Features) > 0 {
		features = fc.Features
	} else if f, ferr := geojson.UnmarshalFeature(data); ferr == nil {
		features = []*geojson.Feature{f}
	} else {
		return nil, fmt.Errorf("%w: not a GeoJSON feature or feature collection: %v", ErrMalformedMap, ferr)
	}

	for _, feature := range features {
		ring, ok := outerRing(feature.Geometry)
		if !ok {
			continue
		}
		if len(ring) > maxVertices+1 {
			return nil, fmt.Errorf("%w: ring has %d points, limit is %d", ErrTooManyVertices, len(ring), maxVertices)
		}

		points := make([]Point, 0, len(ring))
		for i, p := range ring {
			if !isTileCoordinate(p.X()) || !isTileCoordinate(p.Y()) {
				return nil, fmt.Errorf("%w: point %d (%g, %g) is not on the tile grid", ErrMalformedMap, i, p.X(), p.Y())
			}
			points = append(points, Point{X: p.X() * tileSize, Y: p.Y() * tileSize})
		}
		return NewPolygon(points)
	}

	return nil, fmt.Errorf("%w: no polygon feature found", ErrMalformedMap)
}

func isTileCoordinate(v float64) bool {
	return !math.IsInf(v, 0) && math.Trunc(v) == v
}

// outerRing returns the first outer ring of a polygonal geometry
func outerRing(g orb.Geometry) (orb.Ring, bool) {
	switch geometry := g.(type) {
	case orb.Polygon:
		if len(geometry) > 0 {
			return geometry[0], true
		}
	case orb.MultiPolygon:
		for _, polygon := range geometry {
			if len(polygon) > 0 {
				return polygon[0], true
			}
		}
	case orb.Ring:
		return geometry, true
	}
	return nil, false
}
