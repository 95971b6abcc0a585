// Package projector builds the 3D drill-hole scene from surveyed points.
//
// Absolute site coordinates are shifted onto a local meter grid whose origin
// is the per-axis minimum over all points with usable coordinates. The local
// frame is right-handed with X pointing east, Y up and Z south, so that a
// camera looking north sees east to the right.
//
// Each hole is a cylinder hanging from its collar. When both survey angles
// are known the cylinder is tilted from vertical and turned to its bearing;
// when either angle is missing it stays vertical.
package projector

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/openpit/blastgrid/pkg/pattern"
)

const (
	// MinHoleLength is the shortest cylinder drawn, so zero-depth holes stay visible.
	MinHoleLength = 0.5

	// GridSize is the edge length of the reference grid, independent of the
	// pattern extent.
	GridSize = 100.0

	// GridDivisions is the number of reference grid cells per side.
	GridDivisions = 10

	// DefaultUnitScale maps one meter to one scene unit.
	DefaultUnitScale = 1.0
)

// Origin is the absolute position of the local frame's origin.
type Origin struct {
	Easting   float64 `json:"easting"`
	Northing  float64 `json:"northing"`
	Elevation float64 `json:"elevation"`
}

// Hole is one oriented drill hole in local coordinates.
type Hole struct {
	ID       string  `json:"id"`
	Collar   r3.Vec  `json:"collar"`
	Toe      r3.Vec  `json:"toe"`
	Axis     r3.Vec  `json:"axis"` // unit vector from collar to toe
	Length   float64 `json:"length"`
	Depth    float64 `json:"depth"`
	Azimuth  float64 `json:"azimuth"`
	Dip      float64 `json:"dip"`
	Oriented bool    `json:"oriented"` // false when drawn with the vertical fallback
	Compass  string  `json:"compass"`
	Color    string  `json:"color"`
}

// Scene is the projected 3D scene.
type Scene struct {
	Origin    Origin   `json:"origin"`
	UnitScale float64  `json:"unit_scale"`
	Holes     []Hole   `json:"holes"`
	Skipped   []string `json:"skipped,omitempty"` // ids excluded for missing coordinates
	Camera    Camera   `json:"camera"`
	GridSize  float64  `json:"grid_size"`
}

// SkippedCount returns the number of points left out of the scene.
func (s *Scene) SkippedCount() int { return len(s.Skipped) }

// Option configures a Projector.
type Option func(*Projector)

// WithLogger sets the logger for data-quality diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(p *Projector) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithUnitScale sets the number of scene units per meter.
func WithUnitScale(s float64) Option {
	return func(p *Projector) {
		if s > 0 && !math.IsInf(s, 0) {
			p.unitScale = s
		}
	}
}

// Projector turns survey points into a Scene.
type Projector struct {
	logger    *log.Logger
	unitScale float64
}

// New creates a projector.
func New(opts ...Option) *Projector {
	p := &Projector{
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		unitScale: DefaultUnitScale,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ComputeOrigin returns the per-axis minimum over points whose easting,
// northing and elevation are all strictly positive. The second result is
// false when no point qualifies.
func ComputeOrigin(points []pattern.SurveyPoint) (Origin, bool) {
	o := Origin{Easting: math.Inf(1), Northing: math.Inf(1), Elevation: math.Inf(1)}
	found := false
	for _, p := range points {
		if !p.HasValidCoordinates() {
			continue
		}
		found = true
		o.Easting = math.Min(o.Easting, p.Easting)
		o.Northing = math.Min(o.Northing, p.Northing)
		o.Elevation = math.Min(o.Elevation, p.Elevation)
	}
	if !found {
		return Origin{}, false
	}
	return o, true
}

// Local converts an absolute position to local scene coordinates.
func (o Origin) Local(easting, northing, elevation, unitScale float64) r3.Vec {
	return r3.Vec{
		X: (easting - o.Easting) * unitScale,
		Y: (elevation - o.Elevation) * unitScale,
		Z: -(northing - o.Northing) * unitScale,
	}
}

// Project builds the scene. Points with a non-positive coordinate are
// skipped and reported; points without both angles hang vertically.
func (p *Projector) Project(points []pattern.SurveyPoint) *Scene {
	sc := &Scene{UnitScale: p.unitScale, GridSize: GridSize}

	origin, ok := ComputeOrigin(points)
	if !ok {
		for _, pt := range points {
			sc.Skipped = append(sc.Skipped, pt.ID)
		}
		if len(points) > 0 {
			p.logger.Warn("no survey point has usable coordinates", "skipped", len(points))
		}
		sc.Camera = Frame(nil)
		return sc
	}
	sc.Origin = origin

	fallback := 0
	for _, pt := range points {
		if !pt.HasValidCoordinates() {
			p.logger.Debug("skipping point with missing coordinates",
				"id", pt.ID, "easting", pt.Easting, "northing", pt.Northing, "elevation", pt.Elevation)
			sc.Skipped = append(sc.Skipped, pt.ID)
			continue
		}
		h := p.hole(origin, pt)
		if !h.Oriented {
			fallback++
		}
		sc.Holes = append(sc.Holes, h)
	}
	if n := len(sc.Skipped); n > 0 {
		p.logger.Warn("skipped survey points with missing coordinates", "count", n)
	}
	if fallback > 0 {
		p.logger.Info("holes without survey angles drawn vertical", "count", fallback)
	}

	sc.Camera = Frame(sc.Holes)
	return sc
}

func (p *Projector) hole(o Origin, pt pattern.SurveyPoint) Hole {
	collar := o.Local(pt.Easting, pt.Northing, pt.Elevation, p.unitScale)
	o3 := Orient(pt.Azimuth, pt.Dip)
	length := math.Max(pt.Depth*p.unitScale, MinHoleLength)
	return Hole{
		ID:       pt.ID,
		Collar:   collar,
		Toe:      r3.Add(collar, r3.Scale(length, o3.Axis)),
		Axis:     o3.Axis,
		Length:   length,
		Depth:    pt.Depth,
		Azimuth:  o3.Azimuth,
		Dip:      o3.Dip,
		Oriented: o3.Oriented,
		Compass:  Compass(o3.Azimuth),
		Color:    ColorFor(pt.ID),
	}
}
