package points

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/openpit/blastgrid/pkg/errors"
	"github.com/openpit/blastgrid/pkg/observability"
	"github.com/openpit/blastgrid/pkg/pattern"
	"github.com/openpit/blastgrid/pkg/view"
)

// Option configures a Layer.
type Option func(*Layer)

// WithLogger sets the layer logger.
func WithLogger(l *log.Logger) Option {
	return func(ly *Layer) {
		if l != nil {
			ly.logger = l
		}
	}
}

// WithHandler sets the receiver of output events.
func WithHandler(h EventHandler) Option { return func(ly *Layer) { ly.handler = h } }

// WithClock replaces the clock used for generated ids.
func WithClock(now func() time.Time) Option { return func(ly *Layer) { ly.now = now } }

// WithStyle overrides the default point style.
func WithStyle(s Style) Option { return func(ly *Layer) { ly.style = s } }

type dragState struct {
	id        string
	start     view.Point // world position when the drag began
	lastValid view.Point // last position that passed validation
}

// Layer is the interactive point layer. It is not safe for concurrent use.
type Layer struct {
	logger   *log.Logger
	handler  EventHandler
	now      func() time.Time
	style    Style
	settings pattern.Settings
	vt       *view.Transform
	points   []pattern.DrillPoint
	selected string
	hovered  string
	drag     *dragState
	dispatch *Dispatcher
}

// NewLayer creates a layer over the given transform and settings. With a nil
// transform surface and world coordinates are the same and no bounds check
// applies.
func NewLayer(vt *view.Transform, settings pattern.Settings, opts ...Option) *Layer {
	ly := &Layer{
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		now:      time.Now,
		style:    DefaultStyle(),
		settings: settings,
		vt:       vt,
		dispatch: NewDispatcher(),
	}
	for _, opt := range opts {
		opt(ly)
	}
	ly.dispatch.On(Click, "", func(in Input) { ly.PlaceAt(in.At) })
	ly.dispatch.On(DragMove, "", func(in Input) { ly.DragTo(in.At) })
	ly.dispatch.On(DragEnd, "", func(Input) { ly.EndDrag() })
	ly.dispatch.On(Hover, "", func(Input) { ly.hovered = "" })
	return ly
}

// SetPoints replaces the points the layer reads from. The slice is never
// modified. Per-point handlers are rebuilt so that no handler outlives the
// point it was registered for.
func (ly *Layer) SetPoints(points []pattern.DrillPoint) {
	for _, p := range ly.points {
		if p.ID != "" {
			ly.dispatch.Off(p.ID)
		}
	}
	ly.points = points
	for _, p := range points {
		id := p.ID
		if id == "" {
			continue
		}
		ly.dispatch.On(Click, id, func(Input) { ly.Select(id) })
		ly.dispatch.On(Hover, id, func(Input) { ly.hovered = id })
		ly.dispatch.On(DragStart, id, func(Input) { _ = ly.BeginDrag(id) })
	}
	if ly.drag != nil && ly.index(ly.drag.id) < 0 {
		ly.drag = nil
	}
	if ly.selected != "" && ly.index(ly.selected) < 0 {
		ly.selected = ""
	}
}

// Points returns the slice set by SetPoints.
func (ly *Layer) Points() []pattern.DrillPoint { return ly.points }

// SetSettings replaces the pattern settings used for new points.
func (ly *Layer) SetSettings(s pattern.Settings) { ly.settings = s }

// Handle routes one input through the dispatch table.
func (ly *Layer) Handle(in Input) bool { return ly.dispatch.Dispatch(in) }

// Dispatcher exposes the dispatch table, mainly for inspection in tests.
func (ly *Layer) Dispatcher() *Dispatcher { return ly.dispatch }

// Validate checks a world position against the current points.
func (ly *Layer) Validate(pos view.Point, excludeID string) Validation {
	return Validate(pos, ly.points, ly.vt, excludeID)
}

// PlaceAt validates a surface position and, if it passes, emits PointPlaced
// with a fully populated new point.
func (ly *Layer) PlaceAt(surface view.Point) (pattern.DrillPoint, Validation) {
	return ly.PlaceWorld(ly.toWorld(surface))
}

// PlaceWorld is PlaceAt for a world position.
func (ly *Layer) PlaceWorld(pos view.Point) (pattern.DrillPoint, Validation) {
	v := ly.Validate(pos, "")
	observability.Placement().OnPlacement(string(v.Outcome))
	if !v.Valid {
		ly.logger.Debug("placement rejected", "x", pos.X, "y", pos.Y, "outcome", v.Outcome)
		if v.IsDuplicate {
			ly.emit(Event{Type: DuplicateDetected, Point: v.Existing, Message: v.Reason})
		}
		return pattern.DrillPoint{}, v
	}
	p := ly.NewPoint(pos)
	ly.logger.Debug("point placed", "id", p.ID, "x", pos.X, "y", pos.Y)
	ly.emit(Event{Type: PointPlaced, Point: &p, To: pos})
	return p, v
}

// NewPoint builds a point at pos with a fresh id and the pattern defaults.
func (ly *Layer) NewPoint(pos view.Point) pattern.DrillPoint {
	return pattern.DrillPoint{
		ID:      NewID(ly.now()),
		X:       pos.X,
		Y:       pos.Y,
		Depth:   ly.settings.Depth,
		Spacing: ly.settings.Spacing,
		Burden:  ly.settings.Burden,
	}
}

// NewID returns an id of the form pt-<unix millis>-<random suffix>.
func NewID(t time.Time) string {
	return fmt.Sprintf("pt-%d-%s", t.UnixMilli(), uuid.NewString()[:8])
}

// Select emits PointSelected with the matching point, or nil when no point
// has that id. An unknown id is not an error.
func (ly *Layer) Select(id string) *pattern.DrillPoint {
	var sel *pattern.DrillPoint
	if i := ly.index(id); i >= 0 {
		p := ly.points[i].Clone()
		sel = &p
		ly.selected = id
	} else {
		ly.selected = ""
	}
	ly.emit(Event{Type: PointSelected, Point: sel})
	return sel
}

// Selected returns the id of the selected point, or "".
func (ly *Layer) Selected() string { return ly.selected }

// BeginDrag starts dragging point id.
func (ly *Layer) BeginDrag(id string) error {
	i := ly.index(id)
	if i < 0 {
		return errors.New(errors.ErrCodePointNotFound, "point %q not found", id)
	}
	pos := ly.points[i].Position()
	ly.drag = &dragState{id: id, start: pos, lastValid: pos}
	return nil
}

// Dragging reports the dragged point id, if any.
func (ly *Layer) Dragging() (string, bool) {
	if ly.drag == nil {
		return "", false
	}
	return ly.drag.id, true
}

// DragTo moves the dragged point to a surface position. The candidate is
// re-validated with the point's own id excluded. A valid candidate becomes
// the new revert anchor; an invalid one leaves the point at the last valid
// intermediate position, which is returned along with the validation.
func (ly *Layer) DragTo(surface view.Point) (view.Point, Validation) {
	return ly.DragToWorld(ly.toWorld(surface))
}

// DragToWorld is DragTo for a world position.
func (ly *Layer) DragToWorld(pos view.Point) (view.Point, Validation) {
	if ly.drag == nil {
		return pos, Validation{Outcome: Invalid, Reason: "no drag in progress"}
	}
	v := ly.Validate(pos, ly.drag.id)
	if v.Valid {
		ly.drag.lastValid = pos
	} else {
		ly.logger.Debug("drag step rejected, reverting", "id", ly.drag.id, "outcome", v.Outcome)
	}
	return ly.drag.lastValid, v
}

// EndDrag finishes the drag. If the point ended somewhere other than where
// it started, PointMoved is emitted with the last valid position.
func (ly *Layer) EndDrag() (view.Point, bool) {
	d := ly.drag
	ly.drag = nil
	if d == nil {
		return view.Point{}, false
	}
	if d.lastValid == d.start {
		return d.start, false
	}
	i := ly.index(d.id)
	if i < 0 {
		return d.lastValid, false
	}
	p := ly.points[i].Clone()
	ly.emit(Event{Type: PointMoved, Point: &p, To: d.lastValid})
	return d.lastValid, true
}

// CancelDrag abandons the drag without emitting anything.
func (ly *Layer) CancelDrag() { ly.drag = nil }

// Move validates and applies a single move, as a one-step drag.
func (ly *Layer) Move(id string, to view.Point) (Validation, error) {
	if err := ly.BeginDrag(id); err != nil {
		return Validation{}, err
	}
	_, v := ly.DragToWorld(to)
	if !v.Valid {
		ly.CancelDrag()
		return v, nil
	}
	ly.EndDrag()
	return v, nil
}

// toWorld maps a surface position to world meters. Without a transform the
// two spaces coincide.
func (ly *Layer) toWorld(p view.Point) view.Point {
	if ly.vt == nil {
		return p
	}
	return ly.vt.SurfaceToWorld(p)
}

func (ly *Layer) toSurface(p view.Point) view.Point {
	if ly.vt == nil {
		return p
	}
	return ly.vt.WorldToSurface(p)
}

func (ly *Layer) emit(e Event) {
	if ly.handler != nil {
		ly.handler(e)
	}
}

func (ly *Layer) index(id string) int {
	for i := range ly.points {
		if ly.points[i].ID == id {
			return i
		}
	}
	return -1
}
