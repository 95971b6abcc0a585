// Package scene is a minimal retained-mode 2D scene graph.
//
// Renderers build [Group] values out of primitive shapes ([Line], [Circle],
// [Polygon], [Text]); groups are composited onto named [Layer] values of a
// [Surface]. Nothing in this package knows how to rasterize: a [Drawer]
// (see pkg/render/sink) binds the graph to SVG, PNG or any other backend.
//
// Every container implements the [Node] capability interface: children can
// be added and removed, a container can be destroyed (after which it ignores
// further additions), and a batch draw walks the live tree in insertion order.
package scene

// Kind identifies a primitive or container type.
type Kind int

const (
	KindGroup Kind = iota
	KindLine
	KindCircle
	KindPolygon
	KindText
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindLine:
		return "line"
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Shape is anything that can be placed in a group.
type Shape interface {
	Kind() Kind
	// Clone returns a deep copy that shares no mutable state.
	Clone() Shape
}

// Node is the container capability shared by groups and layers.
type Node interface {
	Add(shapes ...Shape)
	Remove(s Shape) bool
	Destroy()
	Destroyed() bool
	BatchDraw(d Drawer) error
}

// Drawer receives primitives in paint order.
type Drawer interface {
	DrawLine(l Line) error
	DrawCircle(c Circle) error
	DrawPolygon(p Polygon) error
	DrawText(t Text) error
}

// Style holds paint attributes. Empty colors mean "none".
type Style struct {
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"stroke_width,omitempty"`
	Fill        string    `json:"fill,omitempty"`
	Dash        []float64 `json:"dash,omitempty"`
	Opacity     float64   `json:"opacity,omitempty"` // 0 means opaque
}

func (s Style) clone() Style {
	if s.Dash != nil {
		s.Dash = append([]float64(nil), s.Dash...)
	}
	return s
}

// Line is a straight segment.
type Line struct {
	X1, Y1, X2, Y2 float64
	Style          Style
	Class          string
}

func (l *Line) Kind() Kind { return KindLine }
func (l *Line) Clone() Shape {
	c := *l
	c.Style = l.Style.clone()
	return &c
}

// Circle is a filled and/or stroked circle.
type Circle struct {
	CX, CY, R float64
	Style     Style
	Class     string
	ID        string
}

func (c *Circle) Kind() Kind { return KindCircle }
func (c *Circle) Clone() Shape {
	cc := *c
	cc.Style = c.Style.clone()
	return &cc
}

// Polygon is a closed path through Points (x0, y0, x1, y1, ...).
type Polygon struct {
	Points []float64
	Style  Style
	Class  string
}

func (p *Polygon) Kind() Kind { return KindPolygon }
func (p *Polygon) Clone() Shape {
	c := *p
	c.Points = append([]float64(nil), p.Points...)
	c.Style = p.Style.clone()
	return &c
}

// Anchor is the horizontal text alignment.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Text is a single-line label. Rotation is in degrees about (X, Y).
type Text struct {
	X, Y     float64
	Value    string
	Size     float64
	Anchor   Anchor
	Rotation float64
	Style    Style
	Class    string
}

func (t *Text) Kind() Kind { return KindText }
func (t *Text) Clone() Shape {
	c := *t
	c.Style = t.Style.clone()
	return &c
}
