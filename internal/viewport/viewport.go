// Package viewport computes the pan/zoom bound of the read-only graph view and
// the camera that initially frames it.
package viewport

import (
	"math"

	"github.com/graphway/graphway/internal/geometry"
)

// Defaults for Options.
const (
	DefaultMargin  = 500.0
	DefaultPadding = 0.2
	MinZoom        = 0.1
	MaxZoom        = 2.0
)

// TargetRatio is the width/height ratio the bound is corrected to.
const TargetRatio = 16.0 / 9.0

// Options tunes the bound computation.
type Options struct {
	Margin     float64
	NodeWidth  float64
	NodeHeight float64
	Ratio      float64
}

// DefaultOptions returns the margin, glyph footprint and ratio used by the
// participant view.
func DefaultOptions() Options {
	return Options{
		Margin:     DefaultMargin,
		NodeWidth:  geometry.NodeDiameter,
		NodeHeight: geometry.NodeDiameter,
		Ratio:      TargetRatio,
	}
}

// Bounds returns the hard pan bound for the given node anchor positions. With
// no positions there is no bound and ok is false.
func Bounds(positions []geometry.Point, opts Options) (geometry.Rect, bool) {
	box, ok := geometry.BoundingBox(positions)
	if !ok {
		return geometry.Rect{}, false
	}

	r := box.Expand(opts.Margin)
	r.MaxX += opts.NodeWidth
	r.MaxY += opts.NodeHeight

	ratio := opts.Ratio
	if ratio <= 0 {
		ratio = TargetRatio
	}

	return CorrectAspect(r, ratio), true
}

// CorrectAspect grows r symmetrically along one axis until width/height equals
// ratio. A rectangle already at ratio, or a degenerate one, is returned as is.
func CorrectAspect(r geometry.Rect, ratio float64) geometry.Rect {
	w, h := r.Width(), r.Height()
	if w <= 0 || h <= 0 {
		return r
	}

	switch cur := w / h; {
	case cur < ratio:
		d := h*ratio - w
		r.MinX -= d / 2
		r.MaxX += d / 2
	case cur > ratio:
		d := w/ratio - h
		r.MinY -= d / 2
		r.MaxY += d / 2
	}

	return r
}

// FitCamera returns the camera that shows bound inside a screen of the given
// size with fractional padding on every side, centered.
func FitCamera(bound geometry.Rect, screenW, screenH, padding float64) geometry.Camera {
	cam := geometry.Camera{Width: screenW, Height: screenH, Zoom: 1}
	if screenW <= 0 || screenH <= 0 || bound.Width() <= 0 || bound.Height() <= 0 {
		return cam
	}

	zx := screenW / (bound.Width() * (1 + padding))
	zy := screenH / (bound.Height() * (1 + padding))
	cam.Zoom = clamp(math.Min(zx, zy), MinZoom, MaxZoom)

	c := bound.Center()
	cam.X = screenW/2 - c.X*cam.Zoom
	cam.Y = screenH/2 - c.Y*cam.Zoom

	return cam
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
