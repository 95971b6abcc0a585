// Package pipeline composites the editor surface and produces artifacts.
//
// The pipeline is the single entry point used by the CLI: it takes a blast
// pattern project, runs the grid, ruler and point renderers onto a layered
// [scene.Surface], and encodes the result. The 3D projection and the
// interchange exports are driven from here too, so caching and logging
// behave the same for every output.
//
// # Architecture
//
// Rendering is an explicit function of state:
//
//	Render(state) -> RenderResult
//
// The caller invokes it whenever the pattern or the view changes. Each
// renderer memoizes its own output by a key derived from the view state, so
// repeated calls with an unchanged view reuse cached geometry. Encoded
// artifacts are additionally cached by project hash in a [cache.Cache].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	defer runner.Close()
//
//	result, err := runner.RenderProject(ctx, project, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/openpit/blastgrid/pkg/cache"
	"github.com/openpit/blastgrid/pkg/errors"
	"github.com/openpit/blastgrid/pkg/view"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultSceneWidth is the default 3D preview width in pixels.
	DefaultSceneWidth = 1024

	// DefaultSceneHeight is the default 3D preview height in pixels.
	DefaultSceneHeight = 768

	// TTLArtifact is how long encoded renders stay in the artifact cache.
	TTLArtifact = 7 * 24 * time.Hour

	// TTLExport is how long exports stay in the artifact cache.
	TTLExport = 30 * 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats lists the 2D surface formats.
var ValidFormats = []string{FormatSVG, FormatPNG, FormatJSON}

// ValidSceneFormats lists the 3D scene formats.
var ValidSceneFormats = []string{FormatPNG, FormatJSON}

// =============================================================================
// Options
// =============================================================================

// Options configures a render or scene run.
type Options struct {
	// 2D surface
	Formats    []string `json:"formats,omitempty"`
	Width      float64  `json:"width,omitempty"`  // overrides the project's viewport
	Height     float64  `json:"height,omitempty"` // overrides the project's viewport
	Precise    bool     `json:"precise,omitempty"`
	HideRulers bool     `json:"hide_rulers,omitempty"`
	Legend     bool     `json:"legend,omitempty"`
	Title      string   `json:"title,omitempty"`
	Selected   string   `json:"selected,omitempty"`

	// 3D scene
	SceneWidth  int     `json:"scene_width,omitempty"`
	SceneHeight int     `json:"scene_height,omitempty"`
	UnitScale   float64 `json:"unit_scale,omitempty"`

	// Runtime options (not serialized)
	Refresh bool        `json:"-"`
	Logger  *log.Logger `json:"-"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is a valid 2D surface format.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid surface formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSceneFormat checks that a format is a valid 3D scene format.
func ValidateSceneFormat(format string) error {
	if !slices.Contains(ValidSceneFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid scene format: %q (must be one of: %s)", format, strings.Join(ValidSceneFormats, ", "))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetRenderDefaults sets default values for 2D rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender applies defaults and validates the 2D options.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidView, "viewport size must not be negative: %vx%v", o.Width, o.Height)
	}
	return nil
}

// SetSceneDefaults sets default values for the 3D scene.
func (o *Options) SetSceneDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.SceneWidth == 0 {
		o.SceneWidth = DefaultSceneWidth
	}
	if o.SceneHeight == 0 {
		o.SceneHeight = DefaultSceneHeight
	}
	if o.UnitScale == 0 {
		o.UnitScale = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForScene applies defaults and validates the 3D options.
func (o *Options) ValidateForScene() error {
	o.SetSceneDefaults()
	for _, f := range o.Formats {
		if err := ValidateSceneFormat(f); err != nil {
			return err
		}
	}
	if o.SceneWidth < 0 || o.SceneHeight < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scene size must be positive: %dx%d", o.SceneWidth, o.SceneHeight)
	}
	return errors.ValidatePositive("unit scale", o.UnitScale)
}

// ViewFor returns the project's view with any size override applied.
func (o *Options) ViewFor(st view.State) view.State {
	if o.Width > 0 {
		st.Width = o.Width
	}
	if o.Height > 0 {
		st.Height = o.Height
	}
	return st
}

// RenderKeyOpts returns cache key options for a surface artifact.
func (o *Options) RenderKeyOpts(format string, st view.State) cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format:  format,
		Width:   st.Width,
		Height:  st.Height,
		Scale:   st.Scale,
		PanX:    st.TotalOffsetX(),
		PanY:    st.TotalOffsetY(),
		Precise: o.Precise,
		Rulers:  !o.HideRulers,
		Legend:  o.Legend,
		Title:   o.Title,
		Select:  o.Selected,
	}
}

// SceneKeyOpts returns cache key options for a scene artifact.
func (o *Options) SceneKeyOpts(format string) cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Format:    format,
		Width:     o.SceneWidth,
		Height:    o.SceneHeight,
		UnitScale: o.UnitScale,
	}
}
