package main

import (
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Colors used by the PNG renderer
var (
	colorStart   = color.RGBA{0x16, 0xa3, 0x4a, 0xff}
	colorEnd     = color.RGBA{0xdc, 0x26, 0x26, 0xff}
	colorGrid    = color.RGBA{0xa3, 0xa3, 0xa3, 0xff}
	colorPath    = color.RGBA{0xfa, 0xcc, 0x15, 0xff}
	colorMap     = color.RGBA{0x25, 0x63, 0xeb, 0xff}
	colorPolygon = color.RGBA{0xbf, 0xdb, 0xfe, 0xff}
	colorGraph   = color.RGBA{0x60, 0xa5, 0xfa, 0xff}
)

const dotRadius = 5

// Scene is the read-only view of a session handed to renderers
type Scene struct {
	Polygon *Polygon
	Graph   *Graph
	Start   *Point
	End     *Point
	Result  *SearchResult
}

func toOrbPoint(p Point) orb.Point {
	return orb.Point{p.X, p.Y}
}

func toLineString(points []Point) orb.LineString {
	ls := make(orb.LineString, 0, len(points))
	for _, p := range points {
		ls = append(ls, toOrbPoint(p))
	}
	return ls
}

// RenderGeoJSON exports the scene as a FeatureCollection. Every feature
// carries a "kind" property: polygon, outline, edge, path, start or end.
func RenderGeoJSON(scene Scene) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if scene.Polygon != nil && len(scene.Polygon.Vertices) > 0 {
		if scene.Polygon.IsClosed() {
			ring := orb.Ring(toLineString(scene.Polygon.Vertices))
			f := geojson.NewFeature(orb.Polygon{ring})
			f.Properties["kind"] = "polygon"
			f.Properties["vertices"] = scene.Polygon.Len()
			f.Properties["area"] = math.Abs(planar.Area(ring))
			fc.Append(f)
		} else {
			f := geojson.NewFeature(toLineString(scene.Polygon.Vertices))
			f.Properties["kind"] = "outline"
			fc.Append(f)
		}
	}

	if scene.Graph != nil {
		for _, edge := range scene.Graph.AllEdges() {
			f := geojson.NewFeature(orb.LineString{
				toOrbPoint(scene.Graph.Position(edge.From)),
				toOrbPoint(scene.Graph.Position(edge.To)),
			})
			f.Properties["kind"] = "edge"
			f.Properties["from"] = edge.From.String()
			f.Properties["to"] = edge.To.String()
			f.Properties["cost"] = edge.Cost
			fc.Append(f)
		}
	}

	if scene.Result != nil && len(scene.Result.Path) > 1 {
		f := geojson.NewFeature(toLineString(scene.Result.Path))
		f.Properties["kind"] = "path"
		f.Properties["length"] = scene.Result.Length
		fc.Append(f)
	}

	if scene.Start != nil {
		f := geojson.NewFeature(toOrbPoint(*scene.Start))
		f.Properties["kind"] = "start"
		fc.Append(f)
	}
	if scene.End != nil {
		f := geojson.NewFeature(toOrbPoint(*scene.End))
		f.Properties["kind"] = "end"
		fc.Append(f)
	}

	return fc
}

// RenderPNG draws the scene on a width x height canvas with a tile grid
func RenderPNG(w io.Writer, scene Scene, width, height int, tileSize float64, showGraph bool) error {
	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	// Draw the grid
	if tileSize > 0 {
		dc.SetColor(colorGrid)
		dc.SetLineWidth(1)
		for x := 0.0; x <= float64(width); x += tileSize {
			dc.DrawLine(x, 0, x, float64(height))
		}
		for y := 0.0; y <= float64(height); y += tileSize {
			dc.DrawLine(0, y, float64(width), y)
		}
		dc.Stroke()
	}

	if scene.Polygon != nil && scene.Polygon.IsClosed() {
		for i, p := range scene.Polygon.Vertices {
			if i == 0 {
				dc.MoveTo(p.X, p.Y)
			} else {
				dc.LineTo(p.X, p.Y)
			}
		}
		dc.ClosePath()
		dc.SetColor(colorPolygon)
		dc.Fill()
	}

	if showGraph && scene.Graph != nil {
		dc.SetColor(colorGraph)
		dc.SetLineWidth(1)
		for _, line := range scene.Graph.Lines() {
			dc.DrawLine(line.P1.X, line.P1.Y, line.P2.X, line.P2.Y)
		}
		dc.Stroke()
	}

	if scene.Polygon != nil {
		drawPolyline(dc, scene.Polygon.Vertices, colorMap, 3)
	}
	if scene.Result != nil {
		drawPolyline(dc, scene.Result.Path, colorPath, 3)
	}

	if scene.Start != nil {
		drawDot(dc, *scene.Start, colorStart)
	}
	if scene.End != nil {
		drawDot(dc, *scene.End, colorEnd)
	}

	return dc.EncodePNG(w)
}

func drawPolyline(dc *gg.Context, points []Point, col color.RGBA, lineWidth float64) {
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
	}
	dc.SetColor(col)
	dc.SetLineWidth(lineWidth)
	dc.Stroke()

	for _, p := range points {
		drawDot(dc, p, col)
	}
}

func drawDot(dc *gg.Context, p Point, col color.RGBA) {
	dc.DrawCircle(p.X, p.Y, dotRadius)
	dc.SetColor(col)
	dc.Fill()
}
