package view

import (
	"math"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	scales := []float64{0.001, 0.05, 0.5, 1, 2.5, 17, 63.2, 100}
	offsets := []float64{-5000, -123.4, 0, 42.5, 9000}
	points := []Point{{0, 0}, {5, 5}, {-12.5, 300}, {1e4, -1e4}, {0.003, 0.007}}

	for _, s := range scales {
		for _, ox := range offsets {
			for _, oy := range offsets {
				tr := New(State{
					Scale:       s,
					PanOffsetX:  ox,
					PanOffsetY:  oy,
					BaseOffsetX: oy / 3,
					BaseOffsetY: ox / 7,
					Width:       800,
					Height:      600,
				})
				for _, p := range points {
					got := tr.SurfaceToWorld(tr.WorldToSurface(p))
					if math.Abs(got.X-p.X) > 1e-3 || math.Abs(got.Y-p.Y) > 1e-3 {
						t.Fatalf("scale=%v offset=(%v,%v): round trip %v -> %v", s, ox, oy, p, got)
					}
				}
			}
		}
	}
}

func TestWorldToSurface(t *testing.T) {
	tr := New(State{Scale: 2, PanOffsetX: 10, PanOffsetY: -4, BaseOffsetX: 5, Width: 800, Height: 600})

	got := tr.WorldToSurface(Point{X: 3, Y: 1})
	wantX := RulerSize + 3*PixelsPerMeter*2 + 15
	wantY := RulerSize + 1*PixelsPerMeter*2 - 4
	if got.X != wantX || got.Y != wantY {
		t.Errorf("WorldToSurface = %v, want (%v, %v)", got, wantX, wantY)
	}
}

func TestDegenerateScale(t *testing.T) {
	for _, s := range []float64{0, -1, math.NaN()} {
		tr := New(State{Scale: s, PanOffsetX: 7, Width: 800, Height: 600})

		sp := tr.WorldToSurface(Point{X: 100, Y: 100})
		if math.IsNaN(sp.X) || math.IsInf(sp.X, 0) || math.IsNaN(sp.Y) {
			t.Errorf("scale %v: WorldToSurface produced %v", s, sp)
		}
		if sp.X != RulerSize+7 || sp.Y != RulerSize {
			t.Errorf("scale %v: WorldToSurface = %v, want collapsed onto offset origin", s, sp)
		}

		wp := tr.SurfaceToWorld(Point{X: 400, Y: 300})
		if wp != (Point{}) {
			t.Errorf("scale %v: SurfaceToWorld = %v, want origin", s, wp)
		}
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	tr := New(State{Scale: 1, PanOffsetX: 20, PanOffsetY: 35, BaseOffsetX: 100, Width: 800, Height: 600})
	anchor := Point{X: 412, Y: 187}
	before := tr.SurfaceToWorld(anchor)

	tr.ZoomIn(anchor.X, anchor.Y)
	tr.ZoomIn(anchor.X, anchor.Y)
	tr.ZoomOut(anchor.X, anchor.Y)

	after := tr.SurfaceToWorld(anchor)
	if math.Abs(before.X-after.X) > 1e-9 || math.Abs(before.Y-after.Y) > 1e-9 {
		t.Errorf("anchor moved: before %v, after %v", before, after)
	}
	if got, want := tr.State().Scale, ZoomStep; math.Abs(got-want) > 1e-12 {
		t.Errorf("Scale = %v, want %v", got, want)
	}
}

func TestZoomClamps(t *testing.T) {
	tr := New(DefaultState(800, 600))

	tr.Zoom(1e6)
	if tr.State().Scale != MaxScale {
		t.Errorf("Scale = %v, want %v", tr.State().Scale, MaxScale)
	}
	tr.Zoom(0)
	if tr.State().Scale != MinScale {
		t.Errorf("Scale = %v, want %v", tr.State().Scale, MinScale)
	}

	// Non-positive factors are ignored.
	tr.ZoomAt(-2, 100, 100)
	if tr.State().Scale != MinScale {
		t.Errorf("negative factor changed scale to %v", tr.State().Scale)
	}
}

func TestPanAndReset(t *testing.T) {
	tr := New(DefaultState(800, 600))
	tr.SetBaseOffset(12, 8)
	tr.Pan(30, -10)
	tr.Pan(5, 5)
	tr.Zoom(3)

	s := tr.State()
	if s.PanOffsetX != 35 || s.PanOffsetY != -5 {
		t.Errorf("pan = (%v, %v), want (35, -5)", s.PanOffsetX, s.PanOffsetY)
	}
	if s.TotalOffsetX() != 47 || s.TotalOffsetY() != 3 {
		t.Errorf("total = (%v, %v), want (47, 3)", s.TotalOffsetX(), s.TotalOffsetY())
	}

	tr.Reset()
	s = tr.State()
	if s.Scale != 1 || s.PanOffsetX != 0 || s.PanOffsetY != 0 {
		t.Errorf("after Reset: %+v", s)
	}
	if s.BaseOffsetX != 12 || s.BaseOffsetY != 8 {
		t.Errorf("Reset cleared base offset: %+v", s)
	}
}

func TestInViewport(t *testing.T) {
	tr := New(DefaultState(800, 600))

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Point{400, 300}, true},
		{"on margin", Point{RulerSize, RulerSize}, true},
		{"in ruler strip", Point{10, 300}, false},
		{"above ruler", Point{400, 10}, false},
		{"past width", Point{801, 300}, false},
		{"past height", Point{400, 601}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.InViewport(tt.p); got != tt.want {
				t.Errorf("InViewport(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestFitCentresPattern(t *testing.T) {
	tr := New(DefaultState(830, 630))
	tr.Pan(50, 50)
	tr.Fit(Point{X: 0, Y: 0}, Point{X: 40, Y: 30}, 20)

	s := tr.State()
	if s.PanOffsetX != 0 || s.PanOffsetY != 0 {
		t.Errorf("Fit kept pan offset: %+v", s)
	}

	centre := tr.WorldToSurface(Point{X: 20, Y: 15})
	wantX := RulerSize + (830-RulerSize)/2
	wantY := RulerSize + (630-RulerSize)/2
	if math.Abs(centre.X-wantX) > 1e-9 || math.Abs(centre.Y-wantY) > 1e-9 {
		t.Errorf("centre maps to %v, want (%v, %v)", centre, wantX, wantY)
	}

	for _, corner := range []Point{{0, 0}, {40, 30}} {
		if !tr.InViewport(tr.WorldToSurface(corner)) {
			t.Errorf("corner %v not visible after Fit", corner)
		}
	}
}

func TestDistance(t *testing.T) {
	if d := (Point{X: 0, Y: 0}).Distance(Point{X: 3, Y: 4}); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}
