package geometry

// FallbackCenter is used as the new-node position when the viewport has not
// been measured.
var FallbackCenter = Point{X: 100, Y: 100}

// Camera is the pan/zoom transform of a viewport. Screen = graph*Zoom + (X, Y).
type Camera struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Zoom   float64 `json:"zoom"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Measured reports whether the viewport size and zoom are known.
func (c Camera) Measured() bool {
	return c.Width > 0 && c.Height > 0 && c.Zoom > 0
}

// ScreenToGraph maps a screen coordinate (relative to the viewport's top-left)
// into graph coordinates.
func (c Camera) ScreenToGraph(p Point) Point {
	return Point{X: (p.X - c.X) / c.Zoom, Y: (p.Y - c.Y) / c.Zoom}
}

// GraphToScreen is the inverse of ScreenToGraph.
func (c Camera) GraphToScreen(p Point) Point {
	return Point{X: p.X*c.Zoom + c.X, Y: p.Y*c.Zoom + c.Y}
}

// Center returns the viewport center in graph coordinates, or FallbackCenter
// when the camera is unmeasured.
func (c Camera) Center() Point {
	if !c.Measured() {
		return FallbackCenter
	}

	return c.ScreenToGraph(Point{X: c.Width / 2, Y: c.Height / 2})
}
