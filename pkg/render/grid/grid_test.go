package grid

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/openpit/blastgrid/pkg/scene"
	"github.com/openpit/blastgrid/pkg/view"
)

func state(scale, panX, panY float64) view.State {
	return view.State{Scale: scale, PanOffsetX: panX, PanOffsetY: panY, Width: 800, Height: 600}
}

func verticalLines(g *scene.Group) []float64 {
	var xs []float64
	g.Walk(func(s scene.Shape) {
		if l, ok := s.(*scene.Line); ok && l.X1 == l.X2 && l.Class == "grid-major" {
			xs = append(xs, l.X1)
		}
	})
	return xs
}

func TestAlignedStart(t *testing.T) {
	tests := []struct {
		offset, step, want float64
	}{
		{0, 80, 30},
		{25, 80, 55},
		{80, 80, 30},
		{-10, 80, 100},
		{-160, 80, 30},
		{-170, 80, 100},
	}
	for _, tt := range tests {
		got := AlignedStart(view.RulerSize, tt.offset, tt.step)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("AlignedStart(30, %v, %v) = %v, want %v", tt.offset, tt.step, got, tt.want)
		}
		if got < view.RulerSize {
			t.Errorf("AlignedStart(30, %v, %v) = %v precedes margin", tt.offset, tt.step, got)
		}
	}
}

func TestGridContinuityUnderPan(t *testing.T) {
	const spacing = 4.0
	r := New()
	stepPx := spacing * view.PixelsPerMeter

	for _, base := range []float64{0, -37.5, 213} {
		before := verticalLines(r.Render(state(1, base, 0), spacing, 3, false).Grid)
		for _, delta := range []float64{0.5, 13, 40, stepPx - 0.25} {
			after := verticalLines(r.Render(state(1, base+delta, 0), spacing, 3, false).Grid)
			for _, x := range after {
				prev := x - delta
				if prev < view.RulerSize {
					continue // entered from behind the ruler
				}
				if !containsApprox(before, prev) {
					t.Errorf("base=%v delta=%v: line at %v has no predecessor at %v", base, delta, x, prev)
				}
			}
		}
	}
}

func containsApprox(xs []float64, v float64) bool {
	for _, x := range xs {
		if math.Abs(x-v) < 1e-6 {
			return true
		}
	}
	return false
}

func TestCacheHitMatchesFreshRender(t *testing.T) {
	st := state(1.5, 12, -7)

	r := New()
	first := r.Render(st, 4, 3.5, false)
	second := r.Render(st, 4, 3.5, false)
	if first.GridHit {
		t.Error("first render should miss")
	}
	if !second.GridHit {
		t.Error("second render should hit")
	}

	fresh := New().Render(st, 4, 3.5, false)
	if !sameLines(second.Grid, fresh.Grid) {
		t.Error("cached grid differs from a fresh render")
	}

	// Mutating a returned group must not leak into the cache.
	second.Grid.Destroy()
	third := r.Render(st, 4, 3.5, false)
	if !third.GridHit || !sameLines(third.Grid, fresh.Grid) {
		t.Error("destroying a returned group corrupted the cache")
	}
}

func sameLines(a, b *scene.Group) bool {
	var la, lb []scene.Line
	a.Walk(func(s scene.Shape) { la = append(la, *s.(*scene.Line)) })
	b.Walk(func(s scene.Shape) { lb = append(lb, *s.(*scene.Line)) })
	if len(la) != len(lb) {
		return false
	}
	for i := range la {
		if la[i].X1 != lb[i].X1 || la[i].Y1 != lb[i].Y1 || la[i].X2 != lb[i].X2 || la[i].Y2 != lb[i].Y2 || la[i].Class != lb[i].Class {
			return false
		}
	}
	return true
}

func TestCacheIsBounded(t *testing.T) {
	r := New(WithCacheSize(5))
	for i := 0; i < 12; i++ {
		r.Render(state(1, float64(i), 0), 4, 3, true)
	}
	lines, marks := r.CacheLen()
	if lines != 5 || marks != 5 {
		t.Errorf("CacheLen() = %d, %d; want 5, 5", lines, marks)
	}
	// The oldest pans were evicted; the newest still hit.
	if !r.Render(state(1, 11, 0), 4, 3, false).GridHit {
		t.Error("newest entry should still be cached")
	}
	if r.Render(state(1, 0, 0), 4, 3, false).GridHit {
		t.Error("oldest entry should have been evicted")
	}
}

func TestPreciseModeReusesGrid(t *testing.T) {
	r := New()
	st := state(1, 0, 0)

	precise := r.Render(st, 4, 3, true)
	if precise.Intersections == nil || precise.Intersections.Len() == 0 {
		t.Fatal("precise render produced no intersections")
	}
	plain := r.Render(st, 4, 3, false)
	if !plain.GridHit {
		t.Error("toggling precise mode off should reuse the grid")
	}
	if plain.Intersections != nil {
		t.Error("plain render should not carry intersections")
	}
	again := r.Render(st, 4, 3, true)
	if !again.GridHit || !again.IntersectionsHit {
		t.Errorf("re-enabling precise mode: grid hit %v, intersections hit %v", again.GridHit, again.IntersectionsHit)
	}

	// 80 px spacing over 770 px: 10 columns; 60 px burden over 570 px: 10 rows.
	if n := precise.Intersections.Count(scene.KindCircle); n != 100 {
		t.Errorf("intersections = %d, want 100", n)
	}
}

func TestLineCapWarns(t *testing.T) {
	var buf bytes.Buffer
	r := New(WithLogger(log.New(&buf)))

	res := r.Render(state(view.MinScale, 0, 0), 0.01, 0.01, true)
	if !res.Capped {
		t.Error("Capped = false for a sub-pixel grid")
	}
	if n := res.Grid.Count(scene.KindLine); n > 4*MaxGridLines {
		t.Errorf("line count %d exceeds cap", n)
	}
	if n := res.Intersections.Count(scene.KindCircle); n != MaxIntersections {
		t.Errorf("intersections = %d, want %d", n, MaxIntersections)
	}
	if !strings.Contains(buf.String(), "cap reached") {
		t.Errorf("expected a cap warning, got %q", buf.String())
	}
}

func TestDegenerateScale(t *testing.T) {
	r := New()
	for _, scale := range []float64{0, -2, math.NaN()} {
		res := r.Render(state(scale, 0, 0), 4, 3, true)
		if res.Grid == nil || res.Grid.Len() != 0 {
			t.Errorf("scale %v: expected an empty grid", scale)
		}
	}
}

func TestCloseDestroysCache(t *testing.T) {
	r := New()
	r.Render(state(1, 0, 0), 4, 3, true)
	r.Close()
	if lines, marks := r.CacheLen(); lines != 0 || marks != 0 {
		t.Errorf("CacheLen() after Close = %d, %d", lines, marks)
	}
	if r.Render(state(1, 0, 0), 4, 3, false).GridHit {
		t.Error("render after Close should miss")
	}
}
