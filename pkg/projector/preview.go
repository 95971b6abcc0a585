package projector

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/openpit/blastgrid/pkg/errors"
	"github.com/openpit/blastgrid/pkg/fonts"
)

// Preview colors.
const (
	previewBackground = "#1e2228"
	previewGrid       = "#3a414b"
	previewAxis       = "#5d6875"
	previewLabel      = "#d8dde3"

	previewLabelSize = 11
)

// DrawScene draws s onto dc with a perspective camera. It is used both for
// still previews and by frame loops that own a long-lived context.
func DrawScene(dc *gg.Context, s *Scene) {
	w, h := float64(dc.Width()), float64(dc.Height())
	vp := s.Camera.ViewProjection(w / h)

	dc.SetHexColor(previewBackground)
	dc.Clear()
	if face, err := fonts.Face(previewLabelSize); err == nil {
		dc.SetFontFace(face)
	}

	// Reference grid on the lowest collar plane, centred under the target.
	b := CollarBounds(s.Holes)
	half := s.GridSize / 2
	step := s.GridSize / GridDivisions
	cx, cz, gy := s.Camera.Target.X, s.Camera.Target.Z, b.Min.Y
	dc.SetLineWidth(1)
	dc.SetHexColor(previewGrid)
	for i := 0; i <= GridDivisions; i++ {
		o := -half + float64(i)*step
		drawSegment(dc, vp, r3.Vec{X: cx + o, Y: gy, Z: cz - half}, r3.Vec{X: cx + o, Y: gy, Z: cz + half}, w, h)
		drawSegment(dc, vp, r3.Vec{X: cx - half, Y: gy, Z: cz + o}, r3.Vec{X: cx + half, Y: gy, Z: cz + o}, w, h)
	}
	dc.Stroke()

	// North arrow along -Z.
	dc.SetHexColor(previewAxis)
	dc.SetLineWidth(2)
	n0 := r3.Vec{X: cx, Y: gy, Z: cz}
	n1 := r3.Vec{X: cx, Y: gy, Z: cz - half}
	drawSegment(dc, vp, n0, n1, w, h)
	dc.Stroke()
	if x, y, ok := ProjectPoint(vp, n1, w, h); ok {
		dc.SetHexColor(previewLabel)
		dc.DrawStringAnchored("N", x, y-6, 0.5, 1)
	}

	// Far holes first.
	holes := slices.Clone(s.Holes)
	slices.SortFunc(holes, func(a, b Hole) int {
		da := r3.Norm(r3.Sub(a.Collar, s.Camera.Position))
		db := r3.Norm(r3.Sub(b.Collar, s.Camera.Position))
		switch {
		case da > db:
			return -1
		case da < db:
			return 1
		}
		return 0
	})
	for _, hole := range holes {
		x0, y0, ok0 := ProjectPoint(vp, hole.Collar, w, h)
		x1, y1, ok1 := ProjectPoint(vp, hole.Toe, w, h)
		if !ok0 || !ok1 {
			continue
		}
		dc.SetHexColor(hole.Color)
		dc.SetLineWidth(math.Min(6, math.Max(2, 600/r3.Norm(r3.Sub(hole.Collar, s.Camera.Position)))))
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()
		dc.DrawCircle(x0, y0, 3)
		dc.Fill()
		dc.SetHexColor(previewLabel)
		dc.DrawStringAnchored(hole.ID, x0, y0-6, 0.5, 1)
	}
}

// drawSegment adds a projected segment to the current path. Segments with an
// endpoint behind the camera are dropped.
func drawSegment(dc *gg.Context, vp mat.Matrix, a, b r3.Vec, w, h float64) {
	x0, y0, ok0 := ProjectPoint(vp, a, w, h)
	x1, y1, ok1 := ProjectPoint(vp, b, w, h)
	if ok0 && ok1 {
		dc.DrawLine(x0, y0, x1, y1)
	}
}

// RenderPNG draws a still preview of s.
func RenderPNG(s *Scene, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "preview size must be positive, got %dx%d", width, height)
	}
	dc := gg.NewContext(width, height)
	DrawScene(dc, s)
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode preview")
	}
	return buf.Bytes(), nil
}

// RenderJSON serializes the scene.
func RenderJSON(s *Scene) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode scene")
	}
	return data, nil
}
