// Package sink turns a composited [scene.Surface] into output bytes.
//
// Each sink is a [scene.Drawer]: the surface walks its layers bottom to top
// and hands every primitive to the drawer in paint order.
package sink

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/openpit/blastgrid/pkg/fonts"
	"github.com/openpit/blastgrid/pkg/scene"
)

type SVGOption func(*svgDrawer)

// WithTitle adds a <title> element.
func WithTitle(title string) SVGOption { return func(d *svgDrawer) { d.title = title } }

// WithClasses emits class attributes so the output can be styled with CSS.
func WithClasses() SVGOption { return func(d *svgDrawer) { d.classes = true } }

type svgDrawer struct {
	buf     bytes.Buffer
	title   string
	classes bool
}

// RenderSVG serializes the surface as a standalone SVG document.
func RenderSVG(s *scene.Surface, opts ...SVGOption) ([]byte, error) {
	d := &svgDrawer{}
	for _, opt := range opts {
		opt(d)
	}

	fmt.Fprintf(&d.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	if d.title != "" {
		fmt.Fprintf(&d.buf, "  <title>%s</title>\n", html.EscapeString(d.title))
	}
	if s.Background != "" {
		fmt.Fprintf(&d.buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.Background)
	}

	for _, l := range s.Layers() {
		if !l.Visible || l.Destroyed() || len(l.Shapes()) == 0 {
			continue
		}
		fmt.Fprintf(&d.buf, `  <g id="layer-%s">`+"\n", l.Name)
		if err := l.BatchDraw(d); err != nil {
			return nil, err
		}
		d.buf.WriteString("  </g>\n")
	}

	d.buf.WriteString("</svg>\n")
	return d.buf.Bytes(), nil
}

func (d *svgDrawer) DrawLine(l scene.Line) error {
	fmt.Fprintf(&d.buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"%s%s/>`+"\n",
		l.X1, l.Y1, l.X2, l.Y2, d.class(l.Class), styleAttrs(l.Style))
	return nil
}

func (d *svgDrawer) DrawCircle(c scene.Circle) error {
	id := ""
	if c.ID != "" {
		id = fmt.Sprintf(` data-id="%s"`, html.EscapeString(c.ID))
	}
	fmt.Fprintf(&d.buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f"%s%s%s/>`+"\n",
		c.CX, c.CY, c.R, id, d.class(c.Class), styleAttrs(c.Style))
	return nil
}

func (d *svgDrawer) DrawPolygon(p scene.Polygon) error {
	if len(p.Points)%2 != 0 {
		return fmt.Errorf("sink: polygon has odd coordinate count %d", len(p.Points))
	}
	var pts strings.Builder
	for i := 0; i < len(p.Points); i += 2 {
		if i > 0 {
			pts.WriteByte(' ')
		}
		fmt.Fprintf(&pts, "%.2f,%.2f", p.Points[i], p.Points[i+1])
	}
	fmt.Fprintf(&d.buf, `    <polygon points="%s"%s%s/>`+"\n", pts.String(), d.class(p.Class), styleAttrs(p.Style))
	return nil
}

func (d *svgDrawer) DrawText(t scene.Text) error {
	transform := ""
	if t.Rotation != 0 {
		transform = fmt.Sprintf(` transform="rotate(%.1f %.2f %.2f)"`, t.Rotation, t.X, t.Y)
	}
	anchor := t.Anchor
	if anchor == "" {
		anchor = scene.AnchorStart
	}
	fmt.Fprintf(&d.buf, `    <text x="%.2f" y="%.2f" font-size="%.1f" font-family="%s" text-anchor="%s"%s%s%s>%s</text>`+"\n",
		t.X, t.Y, t.Size, fonts.FontFamily, anchor, transform, d.class(t.Class), styleAttrs(t.Style), html.EscapeString(t.Value))
	return nil
}

func (d *svgDrawer) class(c string) string {
	if !d.classes || c == "" {
		return ""
	}
	return fmt.Sprintf(` class="%s"`, c)
}

func styleAttrs(s scene.Style) string {
	var b strings.Builder
	fill := s.Fill
	if fill == "" {
		fill = "none"
	}
	fmt.Fprintf(&b, ` fill="%s"`, fill)
	if s.Stroke != "" {
		fmt.Fprintf(&b, ` stroke="%s" stroke-width="%.2f"`, s.Stroke, s.StrokeWidth)
	}
	if len(s.Dash) > 0 {
		parts := make([]string, len(s.Dash))
		for i, v := range s.Dash {
			parts[i] = fmt.Sprintf("%g", v)
		}
		fmt.Fprintf(&b, ` stroke-dasharray="%s"`, strings.Join(parts, " "))
	}
	if s.Opacity > 0 && s.Opacity < 1 {
		fmt.Fprintf(&b, ` opacity="%.2f"`, s.Opacity)
	}
	return b.String()
}
