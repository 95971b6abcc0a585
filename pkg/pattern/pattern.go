// Package pattern holds the blast-pattern data model: drill points, the
// pattern-wide settings they inherit from, survey points for 3D display and
// the project file that ties them together.
//
// The editor core never owns these collections. A caller (the CLI, or any
// other host) loads a [Project], hands slices of points to the renderers and
// the point layer, and applies the events they emit.
package pattern

import (
	"math"

	"github.com/openpit/blastgrid/pkg/errors"
	"github.com/openpit/blastgrid/pkg/view"
)

// Default pattern settings, in meters.
const (
	DefaultSpacing  = 4.0
	DefaultBurden   = 3.5
	DefaultDepth    = 12.0
	DefaultDiameter = 0.115
	DefaultStemming = 2.5
	DefaultSubDrill = 1.0
)

// depthTolerance absorbs text round-trips when comparing a point's depth
// against the pattern depth.
const depthTolerance = 1e-9

// Settings are the pattern-wide defaults applied to newly placed points.
type Settings struct {
	Spacing  float64 `toml:"spacing" json:"spacing"`
	Burden   float64 `toml:"burden" json:"burden"`
	Depth    float64 `toml:"depth" json:"depth"`
	Diameter float64 `toml:"diameter" json:"diameter"`
	Stemming float64 `toml:"stemming" json:"stemming"`
	SubDrill float64 `toml:"sub_drill" json:"sub_drill"`
}

// DefaultSettings returns the settings used by new projects.
func DefaultSettings() Settings {
	return Settings{
		Spacing:  DefaultSpacing,
		Burden:   DefaultBurden,
		Depth:    DefaultDepth,
		Diameter: DefaultDiameter,
		Stemming: DefaultStemming,
		SubDrill: DefaultSubDrill,
	}
}

// Validate checks that spacing, burden and depth are positive and the rest
// are non-negative.
func (s Settings) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"spacing", s.Spacing}, {"burden", s.Burden}, {"depth", s.Depth}} {
		if err := errors.ValidatePositive(f.name, f.v); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"diameter", s.Diameter}, {"stemming", s.Stemming}, {"sub_drill", s.SubDrill}} {
		if err := errors.ValidateNonNegative(f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}

// DrillPoint is a planned hole in the 2D pattern. X and Y are world meters in
// editor space (y grows towards the bottom of the surface, i.e. south).
type DrillPoint struct {
	ID       string   `toml:"id" json:"id"`
	X        float64  `toml:"x" json:"x"`
	Y        float64  `toml:"y" json:"y"`
	Depth    float64  `toml:"depth" json:"depth"`
	Spacing  float64  `toml:"spacing" json:"spacing"`
	Burden   float64  `toml:"burden" json:"burden"`
	Azimuth  *float64 `toml:"azimuth,omitempty" json:"azimuth,omitempty"`
	Dip      *float64 `toml:"dip,omitempty" json:"dip,omitempty"`
	Stemming *float64 `toml:"stemming,omitempty" json:"stemming,omitempty"`
}

// Position returns the collar position in world meters.
func (p DrillPoint) Position() view.Point {
	return view.Point{X: p.X, Y: p.Y}
}

// HasCustomDepth reports whether the point's depth differs from the pattern depth.
func (p DrillPoint) HasCustomDepth(s Settings) bool {
	return math.Abs(p.Depth-s.Depth) > depthTolerance
}

// HasOrientation reports whether both survey angles are present.
func (p DrillPoint) HasOrientation() bool {
	return p.Azimuth != nil && p.Dip != nil
}

// StemmingOr returns the point's stemming override, or def when it has none.
func (p DrillPoint) StemmingOr(def float64) float64 {
	if p.Stemming != nil {
		return *p.Stemming
	}
	return def
}

// ChargeLength is the explosive column length: drilled length (depth plus
// sub-drill) minus stemming, never negative.
func (p DrillPoint) ChargeLength(s Settings) float64 {
	return math.Max(0, p.Depth+s.SubDrill-p.StemmingOr(s.Stemming))
}

// Clone returns a copy that shares no pointers with p.
func (p DrillPoint) Clone() DrillPoint {
	p.Azimuth = cloneFloat(p.Azimuth)
	p.Dip = cloneFloat(p.Dip)
	p.Stemming = cloneFloat(p.Stemming)
	return p
}

// Validate checks the id, coordinates, depth and optional angles.
func (p DrillPoint) Validate() error {
	if err := errors.ValidatePointID(p.ID); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"x", p.X}, {"y", p.Y}} {
		if err := errors.ValidateFinite(f.name, f.v); err != nil {
			return err
		}
	}
	if err := errors.ValidatePositive("depth", p.Depth); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPoint, err, "point %s", p.ID)
	}
	if p.Stemming != nil {
		if err := errors.ValidateNonNegative("stemming", *p.Stemming); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPoint, err, "point %s", p.ID)
		}
	}
	return errors.ValidateAngles(p.Azimuth, p.Dip)
}

// SurveyPoint is a surveyed hole in absolute site coordinates. Non-positive
// coordinates are sentinels for missing data.
type SurveyPoint struct {
	ID        string   `toml:"id" json:"id"`
	Easting   float64  `toml:"easting" json:"easting"`
	Northing  float64  `toml:"northing" json:"northing"`
	Elevation float64  `toml:"elevation" json:"elevation"`
	Depth     float64  `toml:"depth" json:"depth"`
	Azimuth   *float64 `toml:"azimuth,omitempty" json:"azimuth,omitempty"`
	Dip       *float64 `toml:"dip,omitempty" json:"dip,omitempty"`
}

// HasValidCoordinates reports whether easting, northing and elevation are all
// strictly positive.
func (s SurveyPoint) HasValidCoordinates() bool {
	return s.Easting > 0 && s.Northing > 0 && s.Elevation > 0
}

// HasOrientation reports whether both survey angles are present.
func (s SurveyPoint) HasOrientation() bool {
	return s.Azimuth != nil && s.Dip != nil
}

// Float returns a pointer to v, for filling optional fields.
func Float(v float64) *float64 { return &v }

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
