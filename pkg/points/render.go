package points

import (
	"github.com/openpit/blastgrid/pkg/scene"
	"github.com/openpit/blastgrid/pkg/view"
)

// Style holds the paint attributes of drawn points.
type Style struct {
	Radius      float64
	Point       scene.Style
	Selected    scene.Style
	Hovered     scene.Style
	Dragging    scene.Style
	CustomDepth scene.Style
	Label       scene.Style
	LabelSize   float64
}

// DefaultStyle returns the editor's point style.
func DefaultStyle() Style {
	return Style{
		Radius:      5,
		Point:       scene.Style{Fill: "#2f6db5", Stroke: "#1d4677", StrokeWidth: 1},
		Selected:    scene.Style{Fill: "#2f6db5", Stroke: "#f0a030", StrokeWidth: 3},
		Hovered:     scene.Style{Fill: "#4d8ad3", Stroke: "#1d4677", StrokeWidth: 1.5},
		Dragging:    scene.Style{Fill: "#4d8ad3", Stroke: "#f0a030", StrokeWidth: 2, Opacity: 0.8},
		CustomDepth: scene.Style{Fill: "#e06c1f"},
		Label:       scene.Style{Fill: "#33404d"},
		LabelSize:   9,
	}
}

// Indicator geometry relative to the point centre, in pixels.
const (
	indicatorOffset = 7.0
	indicatorSize   = 5.0
)

// Render draws every point at its surface position. A dragged point is
// drawn at its last valid drag position. Points with a custom depth get a
// small triangle above and to the right of the marker.
func (ly *Layer) Render() *scene.Group {
	g := scene.NewGroup("points")
	st := ly.style
	for _, p := range ly.points {
		pos := p.Position()
		style := st.Point
		switch {
		case ly.drag != nil && ly.drag.id == p.ID:
			pos = ly.drag.lastValid
			style = st.Dragging
		case p.ID == ly.selected:
			style = st.Selected
		case p.ID == ly.hovered:
			style = st.Hovered
		}
		s := ly.toSurface(pos)

		g.Add(&scene.Circle{CX: s.X, CY: s.Y, R: st.Radius, Style: style, Class: "point", ID: p.ID})
		if p.HasCustomDepth(ly.settings) {
			g.Add(&scene.Polygon{Points: triangle(s), Style: st.CustomDepth, Class: "custom-depth"})
		}
		g.Add(&scene.Text{
			X: s.X, Y: s.Y + st.Radius + st.LabelSize + 1,
			Value: p.ID, Size: st.LabelSize, Anchor: scene.AnchorMiddle,
			Style: st.Label, Class: "point-label",
		})
	}
	return g
}

// triangle returns an upward triangle centred at the indicator offset.
func triangle(c view.Point) []float64 {
	x, y := c.X+indicatorOffset, c.Y-indicatorOffset
	h := indicatorSize / 2
	return []float64{x, y - h, x + h, y + h, x - h, y + h}
}
