// Package render groups the renderers of the pattern plan.
//
// Each renderer turns domain state into [scene] groups and knows nothing
// about output formats:
//
//   - [grid]: the spacing × burden grid, with optional intersection marks
//   - [ruler]: horizontal and vertical rulers with nice-number ticks
//   - [sink]: SVG, PNG and JSON encoders for a composited surface
//
// The point layer lives in pkg/points because it is interactive as well as
// drawable. pkg/pipeline composites all of them onto one surface.
//
// [scene]: github.com/openpit/blastgrid/pkg/scene
// [grid]: github.com/openpit/blastgrid/pkg/render/grid
// [ruler]: github.com/openpit/blastgrid/pkg/render/ruler
// [sink]: github.com/openpit/blastgrid/pkg/render/sink
package render
