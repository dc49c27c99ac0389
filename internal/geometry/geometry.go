// Package geometry routes edges between circular node glyphs and maps between
// screen and graph coordinates. All functions are pure.
package geometry

import "math"

// NodeDiameter is the rendered size of a node glyph in graph units.
const NodeDiameter = 128.0

// NodeRadius is the radius used when clipping edges at a node's rim.
const NodeRadius = NodeDiameter / 2

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p * k.
func (p Point) Scale(k float64) Point { return Point{X: p.X * k, Y: p.Y * k} }

// Len returns the Euclidean length of p as a vector.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Dist returns the distance between p and q.
func Dist(p, q Point) float64 { return q.Sub(p).Len() }

// Segment is a drawable straight line.
type Segment struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Len returns the segment length.
func (s Segment) Len() float64 { return Dist(s.From, s.To) }

// BoundaryPoint returns the point on the circle of radius r around center that
// faces toward. When toward coincides with center the center is returned.
func BoundaryPoint(center, toward Point, r float64) Point {
	d := toward.Sub(center)
	l := d.Len()
	if l == 0 {
		return center
	}

	return center.Add(d.Scale(r / l))
}

// Clip returns the segment between two circle centers, trimmed so that both
// ends sit on the rims.
func Clip(a, b Point, r float64) Segment {
	return Segment{
		From: BoundaryPoint(a, b, r),
		To:   BoundaryPoint(b, a, r),
	}
}

// Box is a node's anchor position and measured size. A zero size means the
// rendering layer has not measured the node yet.
type Box struct {
	Position Point
	Width    float64
	Height   float64
}

// Measured reports whether the box has a usable size.
func (b Box) Measured() bool {
	return b.Width > 0 && b.Height > 0 && !math.IsNaN(b.Position.X) && !math.IsNaN(b.Position.Y)
}

// Center returns the middle of the box.
func (b Box) Center() Point {
	return Point{X: b.Position.X + b.Width/2, Y: b.Position.Y + b.Height/2}
}

// Route computes the rim-to-rim segment from source to target. It returns
// false when either box is unmeasured; the edge is skipped for that frame.
func Route(source, target Box) (Segment, bool) {
	if !source.Measured() || !target.Measured() {
		return Segment{}, false
	}

	r := math.Min(source.Width, source.Height) / 2
	rt := math.Min(target.Width, target.Height) / 2
	sc, tc := source.Center(), target.Center()

	return Segment{
		From: BoundaryPoint(sc, tc, r),
		To:   BoundaryPoint(tc, sc, rt),
	}, true
}
