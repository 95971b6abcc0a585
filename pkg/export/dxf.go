package export

import (
	"math"
	"os"
	"path/filepath"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/entity"

	"github.com/openpit/blastgrid/pkg/errors"
	"github.com/openpit/blastgrid/pkg/pattern"
)

// DXF layer names.
const (
	LayerCollars = "COLLARS"
	LayerTraces  = "TRACES"
	LayerLabels  = "LABELS"
	LayerBounds  = "BOUNDS"
)

const (
	// minCollarRadius keeps collars visible when the diameter is tiny.
	minCollarRadius = 0.05
	labelHeight     = 0.5
)

// DXF draws collars as circles, hole traces as 3D lines and ids as text,
// plus a plan rectangle around the collars.
func DXF(traces []Trace, s pattern.Settings) ([]byte, error) {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0

	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerBounds, color.White},
		{LayerCollars, color.Red},
		{LayerTraces, color.Yellow},
		{LayerLabels, color.Cyan},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "add layer %s", l.name)
		}
	}

	radius := math.Max(s.Diameter/2, minCollarRadius)
	minE, minN := math.Inf(1), math.Inf(1)
	maxE, maxN := math.Inf(-1), math.Inf(-1)
	minZ := math.Inf(1)

	for _, t := range traces {
		e, n, z := t.Collar[0], t.Collar[1], t.Collar[2]
		minE, maxE = math.Min(minE, e), math.Max(maxE, e)
		minN, maxN = math.Min(minN, n), math.Max(maxN, n)
		minZ = math.Min(minZ, z)

		if err := d.ChangeLayer(LayerCollars); err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "select layer")
		}
		if _, err := d.Circle(e, n, z, radius); err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "collar %s", t.ID)
		}
		if err := d.ChangeLayer(LayerTraces); err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "select layer")
		}
		if _, err := d.Line(e, n, z, t.Toe[0], t.Toe[1], t.Toe[2]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "trace %s", t.ID)
		}
		if err := d.ChangeLayer(LayerLabels); err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "select layer")
		}
		if _, err := d.Text(t.ID, e+radius*2, n+radius*2, z, labelHeight); err != nil {
			return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "label %s", t.ID)
		}
	}

	if err := d.ChangeLayer(LayerBounds); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "select layer")
	}
	pad := s.Burden / 2
	outline := entity.NewLwPolyline(5)
	outline.Vertices[0] = []float64{minE - pad, minN - pad}
	outline.Vertices[1] = []float64{maxE + pad, minN - pad}
	outline.Vertices[2] = []float64{maxE + pad, maxN + pad}
	outline.Vertices[3] = []float64{minE - pad, maxN + pad}
	outline.Vertices[4] = []float64{minE - pad, minN - pad}
	d.AddEntity(outline)

	return saveDrawing(d)
}

// saveDrawing writes through a temporary file; the drawing only saves to paths.
func saveDrawing(d *drawing.Drawing) ([]byte, error) {
	dir, err := os.MkdirTemp("", "blastgrid-dxf-*")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "create temp dir")
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "pattern.dxf")
	if err := d.SaveAs(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "write dxf")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "read dxf")
	}
	return data, nil
}
