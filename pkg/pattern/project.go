package pattern

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/openpit/blastgrid/pkg/cache"
	"github.com/openpit/blastgrid/pkg/errors"
	"github.com/openpit/blastgrid/pkg/view"
)

// FileExtension is the conventional extension of project files.
const FileExtension = ".toml"

// Origin anchors editor coordinates to the site grid. Easting and northing
// of the editor origin (0, 0) plus the bench elevation of the collars.
type Origin struct {
	Easting   float64 `toml:"easting" json:"easting"`
	Northing  float64 `toml:"northing" json:"northing"`
	Elevation float64 `toml:"elevation" json:"elevation"`
}

// IsSet reports whether every coordinate is positive.
func (o Origin) IsSet() bool {
	return o.Easting > 0 && o.Northing > 0 && o.Elevation > 0
}

// Project is the on-disk unit of work: one blast on one bench.
type Project struct {
	Name     string        `toml:"name" json:"name"`
	Site     string        `toml:"site,omitempty" json:"site,omitempty"`
	Settings Settings      `toml:"settings" json:"settings"`
	Origin   Origin        `toml:"origin" json:"origin"`
	View     view.State    `toml:"view" json:"view"`
	Points   []DrillPoint  `toml:"point" json:"points"`
	Survey   []SurveyPoint `toml:"survey" json:"survey,omitempty"`
}

// NewProject creates an empty project with default settings and a default view.
func NewProject(name string) *Project {
	return &Project{
		Name:     name,
		Settings: DefaultSettings(),
		View:     view.DefaultState(800, 600),
	}
}

// Load reads a project file.
func Load(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "project %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "open project %s", path)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Decode reads a project from TOML. Unknown keys are rejected so that typos
// in hand-edited files do not silently fall back to defaults.
func Decode(r io.Reader) (*Project, error) {
	p := &Project{}
	md, err := toml.NewDecoder(r).Decode(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProject, err, "parse project")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidProject, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if !md.IsDefined("view") {
		p.View = view.DefaultState(800, 600)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes the project atomically (temp file + rename).
func (p *Project) Save(path string) error {
	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".project-*.toml")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save project %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "save project %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save project %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save project %s", path)
	}
	return nil
}

// Encode writes the project as TOML.
func (p *Project) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(p); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode project")
	}
	return nil
}

// Validate checks settings, every point, and id uniqueness.
func (p *Project) Validate() error {
	if err := p.Settings.Validate(); err != nil {
		return err
	}
	seen := make(map[string]bool, len(p.Points))
	for _, pt := range p.Points {
		if err := pt.Validate(); err != nil {
			return err
		}
		if seen[pt.ID] {
			return errors.New(errors.ErrCodeInvalidProject, "duplicate point id %q", pt.ID)
		}
		seen[pt.ID] = true
	}
	for _, s := range p.Survey {
		if err := errors.ValidatePointID(s.ID); err != nil {
			return err
		}
		if err := errors.ValidateAngles(s.Azimuth, s.Dip); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPoint, err, "survey point %s", s.ID)
		}
	}
	return nil
}

// Hash returns a content hash of the project, used in artifact cache keys.
func (p *Project) Hash() string {
	data, _ := json.Marshal(p)
	return cache.Hash(data)
}

// Point returns the point with the given id.
func (p *Project) Point(id string) (DrillPoint, bool) {
	i := p.index(id)
	if i < 0 {
		return DrillPoint{}, false
	}
	return p.Points[i], true
}

// AddPoint appends pt. Ids must be unique.
func (p *Project) AddPoint(pt DrillPoint) error {
	if err := pt.Validate(); err != nil {
		return err
	}
	if p.index(pt.ID) >= 0 {
		return errors.New(errors.ErrCodeInvalidProject, "duplicate point id %q", pt.ID)
	}
	p.Points = append(p.Points, pt)
	return nil
}

// MovePoint updates the collar position of an existing point.
func (p *Project) MovePoint(id string, to view.Point) error {
	i := p.index(id)
	if i < 0 {
		return errors.New(errors.ErrCodePointNotFound, "point %q not found", id)
	}
	p.Points[i].X = to.X
	p.Points[i].Y = to.Y
	return nil
}

// RemovePoint deletes the point with the given id.
func (p *Project) RemovePoint(id string) error {
	i := p.index(id)
	if i < 0 {
		return errors.New(errors.ErrCodePointNotFound, "point %q not found", id)
	}
	p.Points = slices.Delete(p.Points, i, i+1)
	return nil
}

// SurveyPoints returns the surveyed holes. When the project has no survey
// data but an origin is set, planned points are georeferenced instead:
// easting grows with x and northing shrinks with y.
func (p *Project) SurveyPoints() []SurveyPoint {
	if len(p.Survey) > 0 || !p.Origin.IsSet() {
		return p.Survey
	}
	out := make([]SurveyPoint, len(p.Points))
	for i, pt := range p.Points {
		out[i] = SurveyPoint{
			ID:        pt.ID,
			Easting:   p.Origin.Easting + pt.X,
			Northing:  p.Origin.Northing - pt.Y,
			Elevation: p.Origin.Elevation,
			Depth:     pt.Depth,
			Azimuth:   cloneFloat(pt.Azimuth),
			Dip:       cloneFloat(pt.Dip),
		}
	}
	return out
}

func (p *Project) index(id string) int {
	return slices.IndexFunc(p.Points, func(pt DrillPoint) bool { return pt.ID == id })
}
