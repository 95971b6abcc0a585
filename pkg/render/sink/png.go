package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/openpit/blastgrid/pkg/fonts"
	"github.com/openpit/blastgrid/pkg/scene"
)

type pngDrawer struct {
	dc *gg.Context
}

// RenderPNG rasterizes the surface at its own size.
func RenderPNG(s *scene.Surface) ([]byte, error) {
	w, h := int(math.Ceil(s.Width)), int(math.Ceil(s.Height))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("sink: surface size %vx%v is empty", s.Width, s.Height)
	}
	d := &pngDrawer{dc: gg.NewContext(w, h)}
	bg := s.Background
	if bg == "" {
		bg = "#ffffff"
	}
	d.dc.SetHexColor(bg)
	d.dc.Clear()

	if err := s.BatchDraw(d); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := d.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("sink: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *pngDrawer) DrawLine(l scene.Line) error {
	if !d.stroke(l.Style) {
		return nil
	}
	d.dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
	d.dc.Stroke()
	return nil
}

func (d *pngDrawer) DrawCircle(c scene.Circle) error {
	d.dc.DrawCircle(c.CX, c.CY, c.R)
	d.paint(c.Style)
	return nil
}

func (d *pngDrawer) DrawPolygon(p scene.Polygon) error {
	if len(p.Points) < 6 || len(p.Points)%2 != 0 {
		return fmt.Errorf("sink: polygon needs at least 3 points, got %d coordinates", len(p.Points))
	}
	d.dc.MoveTo(p.Points[0], p.Points[1])
	for i := 2; i < len(p.Points); i += 2 {
		d.dc.LineTo(p.Points[i], p.Points[i+1])
	}
	d.dc.ClosePath()
	d.paint(p.Style)
	return nil
}

func (d *pngDrawer) DrawText(t scene.Text) error {
	fill := t.Style.Fill
	if fill == "" {
		fill = "#000000"
	}
	face, err := fonts.Face(t.Size)
	if err != nil {
		return fmt.Errorf("sink: font: %w", err)
	}
	d.dc.Push()
	defer d.dc.Pop()
	d.dc.SetFontFace(face)
	if t.Rotation != 0 {
		d.dc.RotateAbout(gg.Radians(t.Rotation), t.X, t.Y)
	}
	d.dc.SetHexColor(fill)
	ax := 0.0
	switch t.Anchor {
	case scene.AnchorMiddle:
		ax = 0.5
	case scene.AnchorEnd:
		ax = 1
	}
	// ay=0 anchors on the baseline, like SVG.
	d.dc.DrawStringAnchored(t.Value, t.X, t.Y, ax, 0)
	return nil
}

// paint fills and/or strokes the current path.
func (d *pngDrawer) paint(s scene.Style) {
	if s.Fill != "" {
		d.setColor(s.Fill, s.Opacity)
		if s.Stroke != "" {
			d.dc.FillPreserve()
		} else {
			d.dc.Fill()
		}
	}
	if d.stroke(s) {
		d.dc.Stroke()
	}
	d.dc.ClearPath()
}

// stroke configures the stroke and reports whether there is one.
func (d *pngDrawer) stroke(s scene.Style) bool {
	if s.Stroke == "" {
		return false
	}
	d.setColor(s.Stroke, s.Opacity)
	w := s.StrokeWidth
	if w <= 0 {
		w = 1
	}
	d.dc.SetLineWidth(w)
	d.dc.SetDash(s.Dash...)
	return true
}

func (d *pngDrawer) setColor(hex string, opacity float64) {
	d.dc.SetHexColor(hex)
	if opacity > 0 && opacity < 1 {
		r, g, b, _ := parseHex(hex)
		d.dc.SetRGBA(r, g, b, opacity)
	}
}

func parseHex(hex string) (r, g, b float64, ok bool) {
	var ri, gi, bi int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &ri, &gi, &bi); err != nil {
		return 0, 0, 0, false
	}
	return float64(ri) / 255, float64(gi) / 255, float64(bi) / 255, true
}
