// Package export writes a blast pattern to CAD and GIS interchange formats.
//
// Exports work on absolute site coordinates (easting, northing, elevation),
// so a project needs either survey points or an origin that georeferences its
// editor points. Points with a non-positive coordinate are left out, like in
// the 3D scene.
package export

import (
	"math"
	"slices"
	"strings"

	"github.com/openpit/blastgrid/pkg/errors"
	"github.com/openpit/blastgrid/pkg/pattern"
	"github.com/openpit/blastgrid/pkg/projector"
)

// Supported export formats.
const (
	FormatDXF     = "dxf"
	FormatGeoJSON = "geojson"
)

// Formats lists the supported formats.
var Formats = []string{FormatDXF, FormatGeoJSON}

// ValidateFormat checks that format is a supported export format.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"unsupported export format %q (want %s)", format, strings.Join(Formats, " or "))
	}
	return nil
}

// Extension returns the file extension for format, including the dot.
func Extension(format string) string {
	if format == FormatGeoJSON {
		return ".geojson"
	}
	return "." + format
}

// Trace is one hole in absolute site coordinates.
type Trace struct {
	ID       string
	Collar   [3]float64 // easting, northing, elevation
	Toe      [3]float64
	Depth    float64
	Azimuth  float64
	Dip      float64
	Oriented bool
}

// Traces converts survey points to hole traces. Points without usable
// coordinates are skipped and their ids returned.
func Traces(points []pattern.SurveyPoint) (traces []Trace, skipped []string) {
	for _, pt := range points {
		if !pt.HasValidCoordinates() {
			skipped = append(skipped, pt.ID)
			continue
		}
		o := projector.Orient(pt.Azimuth, pt.Dip)
		depth := math.Max(pt.Depth, 0)
		// Local frame is X east, Y up, Z south.
		toe := [3]float64{
			pt.Easting + o.Axis.X*depth,
			pt.Northing - o.Axis.Z*depth,
			pt.Elevation + o.Axis.Y*depth,
		}
		traces = append(traces, Trace{
			ID:       pt.ID,
			Collar:   [3]float64{pt.Easting, pt.Northing, pt.Elevation},
			Toe:      toe,
			Depth:    pt.Depth,
			Azimuth:  o.Azimuth,
			Dip:      o.Dip,
			Oriented: o.Oriented,
		})
	}
	return traces, skipped
}

// Export renders the project in the given format.
func Export(format string, p *pattern.Project) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	traces, _ := Traces(p.SurveyPoints())
	if len(traces) == 0 {
		return nil, errors.New(errors.ErrCodeExportFailed,
			"project %q has no georeferenced points; add survey points or set an origin", p.Name)
	}
	switch format {
	case FormatDXF:
		return DXF(traces, p.Settings)
	default:
		return GeoJSON(traces, p.Settings)
	}
}
