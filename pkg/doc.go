// Package pkg provides the core libraries for blastgrid, a drill-and-blast
// pattern editor.
//
// # Overview
//
// A blast pattern is a set of drill holes laid out on a spacing × burden
// grid on one bench. The pkg directory is organized into four areas:
//
//  1. Domain: [pattern] (project files, points, generation), [view]
//     (world/surface transform), [points] (placement and drag validation)
//  2. Rendering: [scene] (retained 2D scene graph), [render/grid],
//     [render/ruler], [render/sink] (SVG, PNG, JSON)
//  3. Survey: [projector] (3D hole traces and preview), [export] (DXF and
//     GeoJSON)
//  4. Orchestration: [pipeline] (cached render, scene and export runs),
//     [cache], [observability], [errors]
//
// # Architecture
//
// The typical data flow through blastgrid:
//
//	project.toml
//	     ↓
//	[pattern] package (load + validate)
//	     ↓
//	[pipeline] package (grid, points, rulers → scene.Surface)
//	     ↓
//	[render/sink] package (SVG/PNG/JSON)
//
// Surveyed holes take a second path:
//
//	[pattern] SurveyPoints → [projector] Scene → PNG/JSON preview
//	                       → [export] DXF/GeoJSON
//
// # Quick Start
//
//	p, _ := pattern.Load("bench-420.toml")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	defer runner.Close()
//
//	res, _ := runner.RenderProject(ctx, p, pipeline.Options{Formats: []string{"svg"}})
//	os.WriteFile("bench-420.svg", res.Artifacts["svg"], 0o644)
//
// [pattern]: github.com/openpit/blastgrid/pkg/pattern
// [view]: github.com/openpit/blastgrid/pkg/view
// [points]: github.com/openpit/blastgrid/pkg/points
// [scene]: github.com/openpit/blastgrid/pkg/scene
// [render/grid]: github.com/openpit/blastgrid/pkg/render/grid
// [render/ruler]: github.com/openpit/blastgrid/pkg/render/ruler
// [render/sink]: github.com/openpit/blastgrid/pkg/render/sink
// [projector]: github.com/openpit/blastgrid/pkg/projector
// [export]: github.com/openpit/blastgrid/pkg/export
// [pipeline]: github.com/openpit/blastgrid/pkg/pipeline
// [cache]: github.com/openpit/blastgrid/pkg/cache
// [observability]: github.com/openpit/blastgrid/pkg/observability
// [errors]: github.com/openpit/blastgrid/pkg/errors
package pkg
