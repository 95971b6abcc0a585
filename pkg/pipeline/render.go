package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/openpit/blastgrid/pkg/observability"
	"github.com/openpit/blastgrid/pkg/pattern"
	"github.com/openpit/blastgrid/pkg/points"
	"github.com/openpit/blastgrid/pkg/render/sink"
	"github.com/openpit/blastgrid/pkg/scene"
	"github.com/openpit/blastgrid/pkg/view"
)

// Surface colors.
const (
	BackgroundColor = "#fbfcfd"
	LegendColor     = "#5a6b7b"
)

// State is everything a 2D render depends on.
type State struct {
	Settings pattern.Settings
	Points   []pattern.DrillPoint
	View     view.State
	Selected string
	Hovered  string
}

// StateFor builds the render state of a project under opts.
func StateFor(p *pattern.Project, opts Options) State {
	return State{
		Settings: p.Settings,
		Points:   p.Points,
		View:     opts.ViewFor(p.View),
		Selected: opts.Selected,
	}
}

// RenderResult is the composited surface plus what happened while building it.
type RenderResult struct {
	Surface   *scene.Surface
	RulerUnit float64
	CacheInfo CacheInfo
	Warnings  []string
	Failed    []string // layers skipped after a renderer failure
	Duration  time.Duration
}

// CacheInfo tracks which caches served a render.
type CacheInfo struct {
	GridHit          bool
	IntersectionsHit bool
	RulersHit        bool
	ArtifactHit      bool // every requested artifact came from the artifact cache
}

// Render composites the surface for st. It never fails: a renderer that
// panics is logged, reported in Failed and its layer left empty.
func (r *Runner) Render(ctx context.Context, st State, opts Options) *RenderResult {
	opts.SetRenderDefaults()
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	layers := scene.DefaultLayers
	observability.Render().OnRenderStart(ctx, layers)

	surf := scene.NewSurface(st.View.Width, st.View.Height)
	surf.Background = BackgroundColor
	res := &RenderResult{Surface: surf}

	r.layer(ctx, res, scene.LayerBackground, func() []scene.Shape {
		return []scene.Shape{&scene.Polygon{
			Points: []float64{0, 0, st.View.Width, 0, st.View.Width, st.View.Height, 0, st.View.Height},
			Style:  scene.Style{Fill: BackgroundColor},
			Class:  "background",
		}}
	})

	r.layer(ctx, res, scene.LayerGrid, func() []scene.Shape {
		g := r.grid.Render(st.View, st.Settings.Spacing, st.Settings.Burden, opts.Precise)
		res.CacheInfo.GridHit = g.GridHit
		res.CacheInfo.IntersectionsHit = g.IntersectionsHit
		if g.Capped {
			res.Warnings = append(res.Warnings, "grid truncated at the line cap")
		}
		shapes := []scene.Shape{g.Grid}
		if g.Intersections != nil {
			shapes = append(shapes, g.Intersections)
		}
		return shapes
	})

	r.layer(ctx, res, scene.LayerPoints, func() []scene.Shape {
		ly := points.NewLayer(view.New(st.View), st.Settings, points.WithLogger(r.Logger))
		ly.SetPoints(st.Points)
		if st.Selected != "" && ly.Select(st.Selected) == nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("selected point %q not found", st.Selected))
		}
		if st.Hovered != "" {
			ly.Handle(points.Input{Kind: points.Hover, PointID: st.Hovered})
		}
		return []scene.Shape{ly.Render()}
	})

	if opts.HideRulers {
		surf.Layer(scene.LayerRulers).Visible = false
	} else {
		r.layer(ctx, res, scene.LayerRulers, func() []scene.Shape {
			rr := r.rulers.Render(st.View)
			res.RulerUnit = rr.Unit
			res.CacheInfo.RulersHit = rr.Hit
			if rr.Capped {
				res.Warnings = append(res.Warnings, "ruler ticks truncated at the tick cap")
			}
			return []scene.Shape{rr.Rulers}
		})
	}

	r.layer(ctx, res, scene.LayerOverlay, func() []scene.Shape {
		if !opts.Legend {
			return nil
		}
		return []scene.Shape{legend(st, res.RulerUnit)}
	})

	res.Duration = time.Since(start)
	var err error
	if len(res.Failed) > 0 {
		err = fmt.Errorf("%d layer(s) failed: %v", len(res.Failed), res.Failed)
	}
	observability.Render().OnRenderComplete(ctx, layers, res.Duration, err)
	r.Logger.Debug("composited surface",
		"points", len(st.Points),
		"grid_hit", res.CacheInfo.GridHit,
		"rulers_hit", res.CacheInfo.RulersHit,
		"duration", res.Duration)
	return res
}

// layer fills one surface layer, recovering from renderer panics.
func (r *Runner) layer(ctx context.Context, res *RenderResult, name string, build func() []scene.Shape) {
	defer func() {
		if v := recover(); v != nil {
			err := fmt.Errorf("%s renderer: %v", name, v)
			r.Logger.Error("layer render failed, skipping", "layer", name, "err", err)
			observability.Render().OnLayerFailed(ctx, name, err)
			res.Failed = append(res.Failed, name)
			res.Warnings = append(res.Warnings, err.Error())
			res.Surface.Layer(name).Replace()
		}
	}()
	res.Surface.Layer(name).Replace(build()...)
}

func legend(st State, unit float64) *scene.Group {
	g := scene.NewGroup("legend")
	s := pattern.Summarize(st.Points, st.Settings)
	text := fmt.Sprintf("%d holes  S %.2f m  B %.2f m  scale %.2f", s.Holes, st.Settings.Spacing, st.Settings.Burden, st.View.Scale)
	if unit > 0 {
		text += fmt.Sprintf("  tick %g m", unit)
	}
	g.Add(&scene.Text{
		X: st.View.Width - 8, Y: st.View.Height - 8,
		Value: text, Size: 10, Anchor: scene.AnchorEnd,
		Style: scene.Style{Fill: LegendColor}, Class: "legend",
	})
	return g
}

// encode turns a surface into one artifact.
func encode(surf *scene.Surface, format, title string) ([]byte, error) {
	switch format {
	case FormatSVG:
		var opts []sink.SVGOption
		if title != "" {
			opts = append(opts, sink.WithTitle(title))
		}
		return sink.RenderSVG(surf, append(opts, sink.WithClasses())...)
	case FormatPNG:
		return sink.RenderPNG(surf)
	case FormatJSON:
		return sink.RenderJSON(surf)
	}
	return nil, ValidateFormat(format)
}
