// Package view converts between world coordinates (meters) and surface
// coordinates (pixels) for the drilling-pattern editor.
//
// A [Transform] holds the current [State]: zoom scale, pan offsets, a base
// offset used to centre a pattern, and the viewport size. The surface origin
// sits past the ruler margins, so a world point at (0, 0) with no offsets maps
// to (RulerSize, RulerSize).
//
//	sx = RulerSize + x·PixelsPerMeter·scale + baseOffsetX + panOffsetX
//	sy = RulerSize + y·PixelsPerMeter·scale + baseOffsetY + panOffsetY
//
// [Transform.SurfaceToWorld] is the exact algebraic inverse. Both conversions
// are pure functions of the current state.
//
// Scale is expected to be positive, but a zero or negative scale never
// produces NaN or Inf: every world point collapses onto the offset origin and
// the inverse returns the world origin.
package view

import (
	"math"
)

const (
	// PixelsPerMeter is the surface length of one world meter at scale 1.
	PixelsPerMeter = 20.0

	// RulerSize is the width of the horizontal and vertical ruler strips.
	// It doubles as the fixed surface margin on both axes.
	RulerSize = 30.0

	// MinScale and MaxScale bound interactive zooming.
	MinScale = 0.05
	MaxScale = 100.0

	// ZoomStep is the multiplicative factor applied by ZoomIn and ZoomOut.
	ZoomStep = 1.2
)

// Point is a 2D coordinate, in meters or pixels depending on context.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// State is the mutable view state of the editor surface.
type State struct {
	Scale       float64 `json:"scale" toml:"scale"`
	PanOffsetX  float64 `json:"pan_offset_x" toml:"pan_offset_x"`
	PanOffsetY  float64 `json:"pan_offset_y" toml:"pan_offset_y"`
	BaseOffsetX float64 `json:"base_offset_x" toml:"base_offset_x"`
	BaseOffsetY float64 `json:"base_offset_y" toml:"base_offset_y"`
	Width       float64 `json:"width" toml:"width"`
	Height      float64 `json:"height" toml:"height"`
}

// DefaultState returns a state for a viewport of the given size at scale 1.
func DefaultState(width, height float64) State {
	return State{Scale: 1, Width: width, Height: height}
}

// TotalOffsetX is the combined base and pan offset on the x axis.
func (s State) TotalOffsetX() float64 { return s.BaseOffsetX + s.PanOffsetX }

// TotalOffsetY is the combined base and pan offset on the y axis.
func (s State) TotalOffsetY() float64 { return s.BaseOffsetY + s.PanOffsetY }

// PixelsPerUnit is the surface length of one world meter at the current scale.
// It is zero for a non-positive scale.
func (s State) PixelsPerUnit() float64 {
	if !(s.Scale > 0) {
		return 0
	}
	return PixelsPerMeter * s.Scale
}

// Transform maps between world and surface coordinates.
// The zero value is not usable; create one with New.
type Transform struct {
	state State
}

// New creates a transform with the given initial state.
func New(s State) *Transform {
	return &Transform{state: s}
}

// State returns a copy of the current view state.
func (t *Transform) State() State { return t.state }

// SetViewport updates the viewport size without touching scale or offsets.
func (t *Transform) SetViewport(width, height float64) {
	t.state.Width = width
	t.state.Height = height
}

// SetBaseOffset replaces the base offset, typically after centring a pattern.
func (t *Transform) SetBaseOffset(x, y float64) {
	t.state.BaseOffsetX = x
	t.state.BaseOffsetY = y
}

// WorldToSurface converts a world point in meters to surface pixels.
func (t *Transform) WorldToSurface(p Point) Point {
	ppu := t.state.PixelsPerUnit()
	return Point{
		X: RulerSize + p.X*ppu + t.state.TotalOffsetX(),
		Y: RulerSize + p.Y*ppu + t.state.TotalOffsetY(),
	}
}

// SurfaceToWorld converts surface pixels back to world meters.
func (t *Transform) SurfaceToWorld(p Point) Point {
	ppu := t.state.PixelsPerUnit()
	if ppu == 0 {
		return Point{}
	}
	return Point{
		X: (p.X - RulerSize - t.state.TotalOffsetX()) / ppu,
		Y: (p.Y - RulerSize - t.state.TotalOffsetY()) / ppu,
	}
}

// InViewport reports whether a surface point lies inside the drawable area,
// i.e. past the ruler margins and within the viewport size.
func (t *Transform) InViewport(p Point) bool {
	return p.X >= RulerSize && p.Y >= RulerSize &&
		p.X <= t.state.Width && p.Y <= t.state.Height
}

// Pan shifts the view by the given number of pixels.
func (t *Transform) Pan(dx, dy float64) {
	t.state.PanOffsetX += dx
	t.state.PanOffsetY += dy
}

// Zoom sets the scale directly, clamped to [MinScale, MaxScale].
// The world point at the surface origin stays fixed.
func (t *Transform) Zoom(scale float64) {
	t.state.Scale = clampScale(scale)
}

// ZoomIn multiplies the scale by ZoomStep, anchored at the surface point (sx, sy).
func (t *Transform) ZoomIn(sx, sy float64) { t.ZoomAt(ZoomStep, sx, sy) }

// ZoomOut divides the scale by ZoomStep, anchored at the surface point (sx, sy).
func (t *Transform) ZoomOut(sx, sy float64) { t.ZoomAt(1/ZoomStep, sx, sy) }

// ZoomAt multiplies the scale by factor while keeping the world point under
// the surface point (sx, sy) in place. The pan offset absorbs the difference.
func (t *Transform) ZoomAt(factor, sx, sy float64) {
	if !(factor > 0) {
		return
	}
	anchor := t.SurfaceToWorld(Point{X: sx, Y: sy})
	if !(t.state.Scale > 0) {
		t.state.Scale = 1
	}
	t.state.Scale = clampScale(t.state.Scale * factor)

	// Re-solve the pan offset so WorldToSurface(anchor) == (sx, sy).
	ppu := t.state.PixelsPerUnit()
	t.state.PanOffsetX = sx - RulerSize - anchor.X*ppu - t.state.BaseOffsetX
	t.state.PanOffsetY = sy - RulerSize - anchor.Y*ppu - t.state.BaseOffsetY
}

// Reset restores scale 1 and clears the pan offset. The base offset and the
// viewport size are kept.
func (t *Transform) Reset() {
	t.state.Scale = 1
	t.state.PanOffsetX = 0
	t.state.PanOffsetY = 0
}

// Fit sets the base offset and scale so the world rectangle [min, max] is
// centred in the drawable area with the given pixel padding on each side.
// Pan offsets are cleared. An empty or degenerate rectangle only centres.
func (t *Transform) Fit(min, max Point, padding float64) {
	drawW := t.state.Width - RulerSize - 2*padding
	drawH := t.state.Height - RulerSize - 2*padding
	w, h := max.X-min.X, max.Y-min.Y

	scale := 1.0
	if w > 0 && h > 0 && drawW > 0 && drawH > 0 {
		scale = math.Min(drawW/(w*PixelsPerMeter), drawH/(h*PixelsPerMeter))
	} else if w > 0 && drawW > 0 {
		scale = drawW / (w * PixelsPerMeter)
	} else if h > 0 && drawH > 0 {
		scale = drawH / (h * PixelsPerMeter)
	}
	t.state.Scale = clampScale(scale)
	t.state.PanOffsetX = 0
	t.state.PanOffsetY = 0

	ppu := t.state.PixelsPerUnit()
	cx, cy := (min.X+max.X)/2, (min.Y+max.Y)/2
	t.state.BaseOffsetX = (t.state.Width-RulerSize)/2 - cx*ppu
	t.state.BaseOffsetY = (t.state.Height-RulerSize)/2 - cy*ppu
}

func clampScale(s float64) float64 {
	if math.IsNaN(s) {
		return 1
	}
	return math.Max(MinScale, math.Min(MaxScale, s))
}
