package points

import (
	"github.com/openpit/blastgrid/pkg/pattern"
	"github.com/openpit/blastgrid/pkg/view"
)

// EventType identifies an output event.
type EventType int

const (
	PointPlaced EventType = iota + 1
	PointSelected
	PointMoved
	DuplicateDetected
)

func (t EventType) String() string {
	switch t {
	case PointPlaced:
		return "point_placed"
	case PointSelected:
		return "point_selected"
	case PointMoved:
		return "point_moved"
	case DuplicateDetected:
		return "duplicate_detected"
	}
	return "unknown"
}

// Event is emitted by the layer for the caller to apply.
//
//   - PointPlaced: Point is the new point, ready to append.
//   - PointSelected: Point is the selection, or nil when nothing matched.
//   - PointMoved: Point is the point before the move, To the new collar.
//   - DuplicateDetected: Message explains, Point is the existing point.
type Event struct {
	Type    EventType
	Point   *pattern.DrillPoint
	To      view.Point
	Message string
}

// EventHandler receives events in emission order.
type EventHandler func(Event)

// Interaction is a kind of user input on the editor surface.
type Interaction int

const (
	Click Interaction = iota + 1
	Hover
	DragStart
	DragMove
	DragEnd
)

func (i Interaction) String() string {
	switch i {
	case Click:
		return "click"
	case Hover:
		return "hover"
	case DragStart:
		return "drag_start"
	case DragMove:
		return "drag_move"
	case DragEnd:
		return "drag_end"
	}
	return "unknown"
}

// Input is one user interaction. PointID is empty for input on the
// background; At is in surface pixels.
type Input struct {
	Kind    Interaction
	PointID string
	At      view.Point
}

type dispatchKey struct {
	kind Interaction
	id   string
}

// Dispatcher routes input through a single table keyed by interaction kind
// and point id. Handlers registered with an empty id act as the fallback for
// their kind.
type Dispatcher struct {
	table map[dispatchKey]func(Input)
}

// NewDispatcher creates an empty dispatch table.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{table: make(map[dispatchKey]func(Input))}
}

// On registers h for kind on point id, replacing any previous handler.
func (d *Dispatcher) On(kind Interaction, id string, h func(Input)) {
	d.table[dispatchKey{kind, id}] = h
}

// Off removes every handler registered for point id.
func (d *Dispatcher) Off(id string) {
	for k := range d.table {
		if k.id == id {
			delete(d.table, k)
		}
	}
}

// Has reports whether a handler is registered for exactly (kind, id).
func (d *Dispatcher) Has(kind Interaction, id string) bool {
	_, ok := d.table[dispatchKey{kind, id}]
	return ok
}

// Len returns the number of registered handlers.
func (d *Dispatcher) Len() int { return len(d.table) }

// Dispatch calls the handler for (in.Kind, in.PointID), falling back to
// the kind's background handler. It reports whether a handler ran.
func (d *Dispatcher) Dispatch(in Input) bool {
	if h, ok := d.table[dispatchKey{in.Kind, in.PointID}]; ok {
		h(in)
		return true
	}
	if h, ok := d.table[dispatchKey{in.Kind, ""}]; ok {
		h(in)
		return true
	}
	return false
}
