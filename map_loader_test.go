package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMap(t *testing.T) {
	polygon, err := ReadMap(strings.NewReader("0 0\n4 0\n\n4 4\n0 4\n"), 32)
	require.NoError(t, err)

	assert.True(t, polygon.IsClosed())
	assert.Equal(t, []Point{{0, 0}, {128, 0}, {128, 128}, {0, 128}, {0, 0}}, polygon.Vertices)
}

func TestReadMapErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input string
		err   error
	}{
		{"three numbers", "0 0\n4 0 1\n4 4\n", ErrMalformedMap},
		{"letters", "0 0\na b\n4 4\n", ErrMalformedMap},
		{"float", "0 0\n4.5 0\n4 4\n", ErrMalformedMap},
		{"single number", "0 0\n4\n4 4\n", ErrMalformedMap},
		{"empty", "", ErrInvalidPolygon},
		{"two vertices", "0 0\n4 0\n", ErrInvalidPolygon},
		{"bowtie", "0 0\n4 4\n4 0\n0 4\n0 0\n", ErrInvalidPolygon},
		{"repeated vertex", "0 0\n4 0\n4 4\n4 0\n0 4\n", ErrInvalidPolygon},
	} {
		t.Run(tc.name, func(t *testing.T) {
			polygon, err := ReadMap(strings.NewReader(tc.input), 1)
			assert.ErrorIs(t, err, tc.err)
			assert.Nil(t, polygon)
		})
	}
}

func TestWriteMapRoundTrip(t *testing.T) {
	polygon := mustPolygon(t, cShape(32))

	var buf bytes.Buffer
	require.NoError(t, WriteMap(&buf, polygon, 32))
	assert.True(t, strings.HasPrefix(buf.String(), "0 0\n6 0\n6 6\n"))

	loaded, err := ReadMap(&buf, 32)
	require.NoError(t, err)
	assert.Equal(t, polygon.Vertices, loaded.Vertices)
}

func TestWriteMapFloors(t *testing.T) {
	polygon := mustPolygon(t, []Point{{0, 0}, {70, 10}, {40, 90}})

	var buf bytes.Buffer
	require.NoError(t, WriteMap(&buf, polygon, 32))
	assert.Equal(t, "0 0\n2 0\n1 2\n0 0\n", buf.String())
}

func TestMapFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "notch.map")
	polygon := mustPolygon(t, cShape(32))

	require.NoError(t, SaveMapFile(filename, polygon, 32))
	loaded, err := LoadMapFile(filename, 32)
	require.NoError(t, err)
	assert.Equal(t, polygon.Vertices, loaded.Vertices)

	_, err = LoadMapFile(filepath.Join(t.TempDir(), "missing.map"), 32)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadGeoJSONMap(t *testing.T) {
	collection := `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [1, 1]}},
			{"type": "Feature", "properties": {"name": "room"}, "geometry": {
				"type": "Polygon",
				"coordinates": [[[0, 0], [4, 0], [4, 4], [0, 4], [0, 0]]]
			}}
		]
	}`
	polygon, err := ReadGeoJSONMap([]byte(collection), 32)
	require.NoError(t, err)
	assert.Equal(t, []Point{{0, 0}, {128, 0}, {128, 128}, {0, 128}, {0, 0}}, polygon.Vertices)

	feature := `{"type": "Feature", "properties": {}, "geometry": {
		"type": "MultiPolygon",
		"coordinates": [[[[0, 0], [6, 0], [3, 5], [0, 0]]]]
	}}`
	polygon, err = ReadGeoJSONMap([]byte(feature), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, polygon.Len())
}

func TestReadGeoJSONMapErrors(t *testing.T) {
	_, err := ReadGeoJSONMap([]byte(`not json`), 1)
	assert.ErrorIs(t, err, ErrMalformedMap)

	noPolygon := `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "properties": {}, "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]}}
	]}`
	_, err = ReadGeoJSONMap([]byte(noPolygon), 1)
	assert.ErrorIs(t, err, ErrMalformedMap)

	bowtie := `{"type": "Feature", "properties": {}, "geometry": {
		"type": "Polygon",
		"coordinates": [[[0, 0], [4, 4], [4, 0], [0, 4], [0, 0]]]
	}}`
	_, err = ReadGeoJSONMap([]byte(bowtie), 1)
	assert.ErrorIs(t, err, ErrInvalidPolygon)

	offGrid := `{"type": "Feature", "properties": {}, "geometry": {
		"type": "Polygon",
		"coordinates": [[[0, 0], [1.25, 0], [1, 1], [0, 0]]]
	}}`
	_, err = ReadGeoJSONMap([]byte(offGrid), 32)
	assert.ErrorIs(t, err, ErrMalformedMap)
}

func TestMapVertexLimit(t *testing.T) {
	// Reading stops once the limit is passed
	var b strings.Builder
	n := maxVertices + 10
	for i := 0; i < n/2; i++ {
		fmt.Fprintf(&b, "%d %d\n%d %d\n", i, i, i+1, i)
	}
	_, err := ReadMap(strings.NewReader(b.String()), 1)
	assert.ErrorIs(t, err, ErrTooManyVertices)

	ring := make([]Point, n)
	for i := range ring {
		ring[i] = Point{X: float64(i % 2), Y: float64(i)}
	}
	_, err = NewPolygon(ring)
	assert.ErrorIs(t, err, ErrTooManyVertices)
}
