package points

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/openpit/blastgrid/pkg/errors"
	"github.com/openpit/blastgrid/pkg/pattern"
	"github.com/openpit/blastgrid/pkg/scene"
	"github.com/openpit/blastgrid/pkg/view"
)

func newTestLayer(events *[]Event) *Layer {
	vt := view.New(view.DefaultState(1600, 1600))
	return NewLayer(vt, pattern.DefaultSettings(),
		WithHandler(func(e Event) { *events = append(*events, e) }),
		WithClock(func() time.Time { return time.UnixMilli(1700000000000) }),
	)
}

// Three well-separated points all place cleanly.
func TestPlacementScenarioA(t *testing.T) {
	var events []Event
	ly := newTestLayer(&events)

	var placed []pattern.DrillPoint
	for _, pos := range []view.Point{{X: 5, Y: 5}, {X: 9, Y: 5}, {X: 5, Y: 7.5}} {
		ly.SetPoints(placed)
		p, v := ly.PlaceWorld(pos)
		if !v.Valid || v.IsDuplicate {
			t.Fatalf("PlaceWorld(%v) = %+v, want valid", pos, v)
		}
		placed = append(placed, p)
	}
	for _, e := range events {
		if e.Type != PointPlaced {
			t.Errorf("unexpected event %v", e.Type)
		}
	}
	if len(events) != 3 {
		t.Errorf("events = %d, want 3", len(events))
	}
}

func TestPlacementScenarioB(t *testing.T) {
	existing := []pattern.DrillPoint{{ID: "A1", X: 10, Y: 10, Depth: 12}}

	tests := []struct {
		name    string
		pos     view.Point
		outcome Outcome
		dup     bool
	}{
		{"duplicate", view.Point{X: 10.005, Y: 10.005}, Duplicate, true},
		{"too close", view.Point{X: 10.05, Y: 10.05}, TooClose, false},
		{"clear", view.Point{X: 50, Y: 50}, Accepted, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []Event
			ly := newTestLayer(&events)
			ly.SetPoints(existing)

			_, v := ly.PlaceWorld(tt.pos)
			if v.Outcome != tt.outcome || v.IsDuplicate != tt.dup {
				t.Errorf("outcome = %v dup = %v, want %v %v", v.Outcome, v.IsDuplicate, tt.outcome, tt.dup)
			}
			if tt.dup {
				if v.Existing == nil || v.Existing.ID != "A1" {
					t.Errorf("Existing = %+v, want A1", v.Existing)
				}
				if len(events) != 1 || events[0].Type != DuplicateDetected {
					t.Errorf("events = %+v, want one DuplicateDetected", events)
				}
			}
		})
	}
}

func TestDuplicateRejectionIsPure(t *testing.T) {
	points := []pattern.DrillPoint{
		{ID: "A1", X: 10, Y: 10, Depth: 12, Azimuth: pattern.Float(45), Dip: pattern.Float(80)},
		{ID: "A2", X: 14, Y: 10, Depth: 12},
	}
	before := make([]pattern.DrillPoint, len(points))
	for i, p := range points {
		before[i] = p.Clone()
	}

	v := Validate(view.Point{X: 10.001, Y: 10}, points, nil, "")
	if v.Valid || !v.IsDuplicate {
		t.Fatalf("Validate = %+v, want duplicate", v)
	}
	*v.Existing.Azimuth = 0
	v.Existing.X = -1

	if !reflect.DeepEqual(points, before) {
		t.Error("validation result aliases the caller's points")
	}
}

func TestValidateBoundsAndExclusion(t *testing.T) {
	vt := view.New(view.DefaultState(800, 600))
	points := []pattern.DrillPoint{{ID: "A1", X: 5, Y: 5, Depth: 12}}

	if v := Validate(view.Point{X: 5, Y: 5}, points, vt, "A1"); !v.Valid {
		t.Errorf("excluded self should not conflict: %+v", v)
	}
	if v := Validate(view.Point{X: -1, Y: 5}, points, vt, ""); v.Outcome != OutOfBounds {
		t.Errorf("behind the ruler: %v, want out_of_bounds", v.Outcome)
	}
	// 800 px wide: x = (800-30)/20 = 38.5 m is the last drawable meter.
	if v := Validate(view.Point{X: 39, Y: 5}, points, vt, ""); v.Outcome != OutOfBounds {
		t.Errorf("past the viewport: %v, want out_of_bounds", v.Outcome)
	}
	if v := Validate(view.Point{X: 39, Y: 5}, points, nil, ""); !v.Valid {
		t.Errorf("nil transform skips bounds: %+v", v)
	}
}

func TestNewID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	a, b := NewID(now), NewID(now)
	if !strings.HasPrefix(a, "pt-1700000000123-") {
		t.Errorf("NewID = %q", a)
	}
	if a == b {
		t.Error("ids generated in the same millisecond collide")
	}
	if err := errors.ValidatePointID(a); err != nil {
		t.Errorf("generated id is invalid: %v", err)
	}
}

func TestPlacedPointUsesSettings(t *testing.T) {
	var events []Event
	ly := newTestLayer(&events)
	s := pattern.DefaultSettings()
	s.Depth = 15
	ly.SetSettings(s)

	p, v := ly.PlaceAt(view.Point{X: 130, Y: 130})
	if !v.Valid {
		t.Fatalf("PlaceAt = %+v", v)
	}
	if p.X != 5 || p.Y != 5 {
		t.Errorf("world position = (%v, %v), want (5, 5)", p.X, p.Y)
	}
	if p.Depth != 15 || p.Spacing != s.Spacing || p.Burden != s.Burden {
		t.Errorf("point = %+v, want settings copied", p)
	}
	if len(events) != 1 || events[0].To != (view.Point{X: 5, Y: 5}) {
		t.Errorf("events = %+v", events)
	}
}

func TestSelect(t *testing.T) {
	var events []Event
	ly := newTestLayer(&events)
	ly.SetPoints([]pattern.DrillPoint{{ID: "A1", X: 1, Y: 1, Depth: 12}})

	if p := ly.Select("A1"); p == nil || p.ID != "A1" {
		t.Errorf("Select(A1) = %+v", p)
	}
	if ly.Selected() != "A1" {
		t.Errorf("Selected() = %q", ly.Selected())
	}
	if p := ly.Select("nope"); p != nil {
		t.Errorf("Select(nope) = %+v, want nil", p)
	}
	if ly.Selected() != "" {
		t.Error("unknown id should clear the selection")
	}
	if len(events) != 2 || events[1].Type != PointSelected || events[1].Point != nil {
		t.Errorf("events = %+v", events)
	}
}

func TestDragRevertsToLastValid(t *testing.T) {
	var events []Event
	ly := newTestLayer(&events)
	points := []pattern.DrillPoint{
		{ID: "A1", X: 5, Y: 5, Depth: 12},
		{ID: "A2", X: 9, Y: 5, Depth: 12},
	}
	ly.SetPoints(points)

	if err := ly.BeginDrag("A1"); err != nil {
		t.Fatalf("BeginDrag: %v", err)
	}
	steps := []struct {
		to    view.Point
		shown view.Point
		valid bool
	}{
		{view.Point{X: 6, Y: 5}, view.Point{X: 6, Y: 5}, true},
		{view.Point{X: 7, Y: 5}, view.Point{X: 7, Y: 5}, true},
		{view.Point{X: 9.05, Y: 5}, view.Point{X: 7, Y: 5}, false}, // too close to A2
		{view.Point{X: 9, Y: 5}, view.Point{X: 7, Y: 5}, false},    // on top of A2
	}
	for i, s := range steps {
		shown, v := ly.DragToWorld(s.to)
		if v.Valid != s.valid || shown != s.shown {
			t.Errorf("step %d: shown %v valid %v, want %v %v", i, shown, v.Valid, s.shown, s.valid)
		}
	}

	// The dragged marker is drawn at the revert anchor.
	var drawn *scene.Circle
	ly.Render().Walk(func(sh scene.Shape) {
		if c, ok := sh.(*scene.Circle); ok && c.ID == "A1" {
			drawn = c
		}
	})
	if want := (view.Point{X: 30 + 7*20, Y: 30 + 5*20}); drawn == nil || drawn.CX != want.X || drawn.CY != want.Y {
		t.Errorf("dragged marker at %+v, want %v", drawn, want)
	}

	to, moved := ly.EndDrag()
	if !moved || to != (view.Point{X: 7, Y: 5}) {
		t.Errorf("EndDrag = %v, %v", to, moved)
	}
	if len(events) != 1 || events[0].Type != PointMoved || events[0].Point.ID != "A1" {
		t.Errorf("events = %+v", events)
	}
	if points[0].X != 5 {
		t.Error("drag mutated the caller's points")
	}
}

func TestDragWithoutMovementEmitsNothing(t *testing.T) {
	var events []Event
	ly := newTestLayer(&events)
	ly.SetPoints([]pattern.DrillPoint{{ID: "A1", X: 5, Y: 5, Depth: 12}})

	if err := ly.BeginDrag("missing"); !errors.Is(err, errors.ErrCodePointNotFound) {
		t.Errorf("BeginDrag(missing) = %v", err)
	}
	_ = ly.BeginDrag("A1")
	if _, moved := ly.EndDrag(); moved {
		t.Error("EndDrag reported a move without movement")
	}
	if len(events) != 0 {
		t.Errorf("events = %+v", events)
	}
}

func TestMove(t *testing.T) {
	var events []Event
	ly := newTestLayer(&events)
	ly.SetPoints([]pattern.DrillPoint{
		{ID: "A1", X: 5, Y: 5, Depth: 12},
		{ID: "A2", X: 9, Y: 5, Depth: 12},
	})

	v, err := ly.Move("A1", view.Point{X: 9.001, Y: 5})
	if err != nil || v.Outcome != Duplicate {
		t.Errorf("Move onto A2 = %+v, %v", v, err)
	}
	if _, dragging := ly.Dragging(); dragging {
		t.Error("rejected move left a drag open")
	}
	if v, err := ly.Move("A1", view.Point{X: 5, Y: 8}); err != nil || !v.Valid {
		t.Errorf("Move = %+v, %v", v, err)
	}
	if len(events) != 1 || events[0].Type != PointMoved || events[0].To != (view.Point{X: 5, Y: 8}) {
		t.Errorf("events = %+v", events)
	}
}

func TestDispatchTable(t *testing.T) {
	var events []Event
	ly := newTestLayer(&events)
	ly.SetPoints([]pattern.DrillPoint{{ID: "A1", X: 5, Y: 5, Depth: 12}})

	if !ly.Handle(Input{Kind: Click, PointID: "A1"}) || ly.Selected() != "A1" {
		t.Error("click on a point should select it")
	}
	ly.Handle(Input{Kind: DragStart, PointID: "A1"})
	ly.Handle(Input{Kind: DragMove, At: view.Point{X: 30 + 6*20, Y: 30 + 5*20}})
	ly.Handle(Input{Kind: DragEnd})
	ly.Handle(Input{Kind: Click, At: view.Point{X: 30 + 20*20, Y: 30 + 20*20}})

	var types []EventType
	for _, e := range events {
		types = append(types, e.Type)
	}
	want := []EventType{PointSelected, PointMoved, PointPlaced}
	if !reflect.DeepEqual(types, want) {
		t.Errorf("events = %v, want %v", types, want)
	}

	// Replacing the points drops handlers of points that are gone.
	ly.SetPoints([]pattern.DrillPoint{{ID: "B1", X: 1, Y: 1, Depth: 12}})
	d := ly.Dispatcher()
	if d.Has(Click, "A1") || !d.Has(Click, "B1") {
		t.Error("stale handlers survived SetPoints")
	}
	if ly.Handle(Input{Kind: DragStart, PointID: "A1"}) {
		t.Error("drag start on a removed point should not dispatch")
	}
}

func TestRenderCustomDepthIndicator(t *testing.T) {
	var events []Event
	ly := newTestLayer(&events)
	s := pattern.DefaultSettings()
	ly.SetPoints([]pattern.DrillPoint{
		{ID: "A1", X: 5, Y: 5, Depth: s.Depth},
		{ID: "A2", X: 9, Y: 5, Depth: s.Depth + 3},
	})
	g := ly.Render()
	if n := g.Count(scene.KindCircle); n != 2 {
		t.Errorf("circles = %d, want 2", n)
	}
	if n := g.Count(scene.KindPolygon); n != 1 {
		t.Errorf("custom-depth indicators = %d, want 1", n)
	}
	if n := g.Count(scene.KindText); n != 2 {
		t.Errorf("labels = %d, want 2", n)
	}
}

func TestLayerWithoutTransform(t *testing.T) {
	var events []Event
	ly := NewLayer(nil, pattern.DefaultSettings(),
		WithHandler(func(e Event) { events = append(events, e) }),
	)
	ly.SetPoints([]pattern.DrillPoint{{ID: "A1", X: 5, Y: 5, Depth: 12}})

	t.Run("place at surface", func(t *testing.T) {
		p, v := ly.PlaceAt(view.Point{X: -400, Y: 9000})
		if !v.Valid {
			t.Fatalf("PlaceAt = %+v, want valid", v)
		}
		if p.X != -400 || p.Y != 9000 {
			t.Errorf("placed at (%v, %v), want (-400, 9000)", p.X, p.Y)
		}
	})

	t.Run("background click", func(t *testing.T) {
		events = nil
		if !ly.Handle(Input{Kind: Click, At: view.Point{X: 20, Y: 20}}) {
			t.Fatal("background click not dispatched")
		}
		if len(events) != 1 || events[0].Type != PointPlaced {
			t.Errorf("events = %v, want one PointPlaced", events)
		}
	})

	t.Run("drag", func(t *testing.T) {
		if err := ly.BeginDrag("A1"); err != nil {
			t.Fatalf("BeginDrag: %v", err)
		}
		got, v := ly.DragTo(view.Point{X: 8, Y: 5})
		if !v.Valid || got != (view.Point{X: 8, Y: 5}) {
			t.Errorf("DragTo = %v, %+v", got, v)
		}
		ly.CancelDrag()
	})

	t.Run("render at world positions", func(t *testing.T) {
		var c *scene.Circle
		ly.Render().Walk(func(s scene.Shape) {
			if cc, ok := s.(*scene.Circle); ok && cc.ID == "A1" {
				c = cc
			}
		})
		if c == nil || c.CX != 5 || c.CY != 5 {
			t.Errorf("A1 circle = %+v, want centre (5, 5)", c)
		}
	})
}

func TestSetPointsIgnoresEmptyIDs(t *testing.T) {
	var events []Event
	ly := newTestLayer(&events)
	ly.SetPoints([]pattern.DrillPoint{{ID: "", X: 5, Y: 5, Depth: 12}})
	ly.SetPoints(nil)

	d := ly.Dispatcher()
	for _, kind := range []Interaction{Click, DragMove, DragEnd, Hover} {
		if !d.Has(kind, "") {
			t.Errorf("background %v handler removed", kind)
		}
	}
	if !ly.Handle(Input{Kind: Click, At: view.Point{X: 30 + 20*20, Y: 30 + 20*20}}) {
		t.Error("background click no longer dispatched")
	}
	if len(events) != 1 || events[0].Type != PointPlaced {
		t.Errorf("events = %v, want one PointPlaced", events)
	}
}
