// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backdrop

import "math"

// Rect is an axis-aligned rectangle in renderer-space coordinates,
// stored as origin plus size. Width and height may be zero; a zero-size
// rectangle signals "nothing to render" to the pass manager.
type Rect struct {
	X, Y float64
	W, H float64
}

// NewRect creates a rectangle from origin and size.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Pad returns the rectangle expanded symmetrically by p on all sides.
// A negative p shrinks the rectangle.
func (r Rect) Pad(p float64) Rect {
	return Rect{
		X: r.X - p,
		Y: r.Y - p,
		W: r.W + 2*p,
		H: r.H + 2*p,
	}
}

// Fit returns the intersection of r with bounds. If the intersection is
// empty or inverted, the result keeps r's origin with zero dimensions.
func (r Rect) Fit(bounds Rect) Rect {
	x0 := math.Max(r.X, bounds.X)
	y0 := math.Max(r.Y, bounds.Y)
	x1 := math.Min(r.MaxX(), bounds.MaxX())
	y1 := math.Min(r.MaxY(), bounds.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: r.X, Y: r.Y}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// ceilEps guards the rounding in Ceil against float noise on frames that
// already sit on the pixel grid, keeping the operation idempotent.
const ceilEps = 1e-3

// Ceil returns the rectangle snapped outward to whole device pixels at
// the given resolution (device pixels per renderer unit). The origin is
// floored and the far edges are ceiled, so the result always covers r and
// never grows by more than one pixel per axis. Applying Ceil to its own
// result is a no-op.
func (r Rect) Ceil(resolution float64) Rect {
	if resolution <= 0 {
		resolution = 1
	}
	x1 := math.Ceil((r.MaxX()-ceilEps)*resolution) / resolution
	y1 := math.Ceil((r.MaxY()-ceilEps)*resolution) / resolution
	x0 := math.Floor((r.X+ceilEps)*resolution) / resolution
	y0 := math.Floor((r.Y+ceilEps)*resolution) / resolution
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains returns true if other lies entirely within r.
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.MaxX() <= r.MaxX() && other.MaxY() <= r.MaxY()
}

// Intersects returns true if r and other overlap with positive area.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.MaxX() && other.X < r.MaxX() &&
		r.Y < other.MaxY() && other.Y < r.MaxY()
}
