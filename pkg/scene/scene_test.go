package scene

import (
	"errors"
	"testing"
)

type recorder struct {
	kinds []Kind
	fail  Kind
}

func (r *recorder) record(k Kind) error {
	if r.fail != 0 && k == r.fail {
		return errors.New("boom")
	}
	r.kinds = append(r.kinds, k)
	return nil
}

func (r *recorder) DrawLine(Line) error       { return r.record(KindLine) }
func (r *recorder) DrawCircle(Circle) error   { return r.record(KindCircle) }
func (r *recorder) DrawPolygon(Polygon) error { return r.record(KindPolygon) }
func (r *recorder) DrawText(Text) error       { return r.record(KindText) }

func sampleGroup() *Group {
	inner := NewGroup("inner")
	inner.Add(&Circle{CX: 1, CY: 1, R: 2}, &Text{Value: "A1"})

	g := NewGroup("outer")
	g.Add(&Line{X1: 0, Y1: 0, X2: 10, Y2: 0, Style: Style{Dash: []float64{2, 2}}}, inner, nil)
	g.Add(&Polygon{Points: []float64{0, 0, 1, 0, 0, 1}})
	return g
}

func TestGroupBatchDrawOrder(t *testing.T) {
	r := &recorder{}
	if err := sampleGroup().BatchDraw(r); err != nil {
		t.Fatalf("BatchDraw: %v", err)
	}
	want := []Kind{KindLine, KindCircle, KindText, KindPolygon}
	if len(r.kinds) != len(want) {
		t.Fatalf("drew %v, want %v", r.kinds, want)
	}
	for i := range want {
		if r.kinds[i] != want[i] {
			t.Errorf("draw[%d] = %v, want %v", i, r.kinds[i], want[i])
		}
	}
}

func TestGroupBatchDrawStopsOnError(t *testing.T) {
	r := &recorder{fail: KindText}
	if err := sampleGroup().BatchDraw(r); err == nil {
		t.Error("BatchDraw should surface drawer errors")
	}
}

func TestCloneIsDeep(t *testing.T) {
	g := sampleGroup()
	c := g.CloneGroup()

	line := c.Children()[0].(*Line)
	line.X2 = 99
	line.Style.Dash[0] = 7

	orig := g.Children()[0].(*Line)
	if orig.X2 != 10 || orig.Style.Dash[0] != 2 {
		t.Errorf("mutating clone changed original: %+v", orig)
	}
	if c.Count(KindCircle) != 1 || c.Count(KindGroup) != 1 {
		t.Errorf("clone counts: circles=%d groups=%d", c.Count(KindCircle), c.Count(KindGroup))
	}
}

func TestGroupRemoveAndDestroy(t *testing.T) {
	g := NewGroup("g")
	a := &Circle{R: 1}
	b := &Circle{R: 2}
	g.Add(a, b)

	if !g.Remove(a) {
		t.Error("Remove(a) = false")
	}
	if g.Remove(a) {
		t.Error("Remove(a) twice = true")
	}
	if g.Len() != 1 {
		t.Errorf("Len() = %d, want 1", g.Len())
	}

	g.Destroy()
	g.Add(a)
	if !g.Destroyed() || g.Len() != 0 {
		t.Errorf("destroyed group accepted children: len=%d", g.Len())
	}
	if c := g.CloneGroup(); c.Destroyed() || c.Len() != 0 {
		t.Error("clone of destroyed group should be empty and live")
	}
}

func TestSurfaceLayers(t *testing.T) {
	s := NewSurface(800, 600)
	if len(s.Layers()) != len(DefaultLayers) {
		t.Fatalf("layers = %d, want %d", len(s.Layers()), len(DefaultLayers))
	}
	if s.Layer("nope") != nil {
		t.Error("unknown layer should be nil")
	}

	s.Layer(LayerGrid).Add(&Line{})
	s.Layer(LayerPoints).Add(&Circle{})
	s.Layer(LayerRulers).Add(&Text{})
	s.Layer(LayerRulers).Visible = false

	r := &recorder{}
	if err := s.BatchDraw(r); err != nil {
		t.Fatalf("BatchDraw: %v", err)
	}
	if len(r.kinds) != 2 || r.kinds[0] != KindLine || r.kinds[1] != KindCircle {
		t.Errorf("drew %v, want [line circle]", r.kinds)
	}

	s.Layer(LayerGrid).Replace(&Polygon{}, &Polygon{})
	if n := len(s.Layer(LayerGrid).Shapes()); n != 2 {
		t.Errorf("after Replace: %d shapes, want 2", n)
	}
}

func TestKindString(t *testing.T) {
	if KindPolygon.String() != "polygon" || Kind(42).String() != "unknown" {
		t.Error("Kind.String mismatch")
	}
}
