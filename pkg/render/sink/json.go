package sink

import (
	"encoding/json"

	"github.com/openpit/blastgrid/pkg/scene"
)

// Document is the JSON form of a rendered surface.
type Document struct {
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	Layers []LayerDocument `json:"layers"`
}

// LayerDocument lists the primitives of one visible layer in paint order.
type LayerDocument struct {
	Name   string      `json:"name"`
	Shapes []ShapeJSON `json:"shapes"`
}

// ShapeJSON is one primitive. Only the fields of its kind are set.
type ShapeJSON struct {
	Kind     string       `json:"kind"`
	Class    string       `json:"class,omitempty"`
	ID       string       `json:"id,omitempty"`
	Points   []float64    `json:"points,omitempty"`
	R        float64      `json:"r,omitempty"`
	Text     string       `json:"text,omitempty"`
	Size     float64      `json:"size,omitempty"`
	Anchor   scene.Anchor `json:"anchor,omitempty"`
	Rotation float64      `json:"rotation,omitempty"`
	Style    scene.Style  `json:"style"`
}

type jsonDrawer struct {
	shapes []ShapeJSON
}

// RenderJSON serializes the visible content of the surface.
func RenderJSON(s *scene.Surface) ([]byte, error) {
	doc := Document{Width: s.Width, Height: s.Height, Layers: []LayerDocument{}}
	for _, l := range s.Layers() {
		if !l.Visible || l.Destroyed() {
			continue
		}
		d := &jsonDrawer{shapes: []ShapeJSON{}}
		if err := l.BatchDraw(d); err != nil {
			return nil, err
		}
		doc.Layers = append(doc.Layers, LayerDocument{Name: l.Name, Shapes: d.shapes})
	}
	return json.MarshalIndent(doc, "", "  ")
}

func (d *jsonDrawer) DrawLine(l scene.Line) error {
	d.shapes = append(d.shapes, ShapeJSON{Kind: "line", Class: l.Class, Points: []float64{l.X1, l.Y1, l.X2, l.Y2}, Style: l.Style})
	return nil
}

func (d *jsonDrawer) DrawCircle(c scene.Circle) error {
	d.shapes = append(d.shapes, ShapeJSON{Kind: "circle", Class: c.Class, ID: c.ID, Points: []float64{c.CX, c.CY}, R: c.R, Style: c.Style})
	return nil
}

func (d *jsonDrawer) DrawPolygon(p scene.Polygon) error {
	d.shapes = append(d.shapes, ShapeJSON{Kind: "polygon", Class: p.Class, Points: p.Points, Style: p.Style})
	return nil
}

func (d *jsonDrawer) DrawText(t scene.Text) error {
	d.shapes = append(d.shapes, ShapeJSON{
		Kind: "text", Class: t.Class, Points: []float64{t.X, t.Y},
		Text: t.Value, Size: t.Size, Anchor: t.Anchor, Rotation: t.Rotation, Style: t.Style,
	})
	return nil
}
