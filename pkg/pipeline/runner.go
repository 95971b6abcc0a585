package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/openpit/blastgrid/pkg/cache"
	"github.com/openpit/blastgrid/pkg/errors"
	"github.com/openpit/blastgrid/pkg/export"
	"github.com/openpit/blastgrid/pkg/observability"
	"github.com/openpit/blastgrid/pkg/pattern"
	"github.com/openpit/blastgrid/pkg/projector"
	"github.com/openpit/blastgrid/pkg/render/grid"
	"github.com/openpit/blastgrid/pkg/render/ruler"
)

// Runner owns the renderers and their caches, and the artifact cache.
//
// The grid and ruler renderers are not safe for concurrent use; the runner
// serializes access to them, so a single Runner may be shared by goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	mu     sync.Mutex
	grid   *grid.Renderer
	rulers *ruler.Renderer
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		grid:   grid.New(grid.WithLogger(logger)),
		rulers: ruler.New(ruler.WithLogger(logger)),
	}
}

// Result contains the encoded outputs of a project render.
type Result struct {
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Render is the composited surface. It is nil when every artifact came
	// from the artifact cache.
	Render *RenderResult

	// Stats summarizes the pattern.
	Stats pattern.Stats

	CacheInfo CacheInfo
}

// RenderProject renders a project's editor surface in the requested formats.
func (r *Runner) RenderProject(ctx context.Context, p *pattern.Project, opts Options) (*Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	st := StateFor(p, opts)
	if err := errors.ValidatePositive("viewport width", st.View.Width); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("viewport height", st.View.Height); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
		Stats:     pattern.Summarize(p.Points, p.Settings),
	}
	hash := p.Hash()

	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.RenderKey(hash, opts.RenderKeyOpts(format, st.View))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			result.Artifacts[format] = data
		}
		if len(result.Artifacts) == len(opts.Formats) {
			result.CacheInfo.ArtifactHit = true
			r.Logger.Debug("render served from artifact cache", "formats", opts.Formats)
			return result, nil
		}
		clear(result.Artifacts)
	}

	rr := r.Render(ctx, st, opts)
	result.Render = rr
	result.CacheInfo = rr.CacheInfo
	for _, w := range rr.Warnings {
		r.Logger.Warn(w)
	}

	for _, format := range opts.Formats {
		data, err := encode(rr.Surface, format, opts.Title)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode %s", format)
		}
		result.Artifacts[format] = data
		if len(rr.Failed) == 0 {
			_ = r.Cache.Set(ctx, r.Keyer.RenderKey(hash, opts.RenderKeyOpts(format, st.View)), data, TTLArtifact)
		}
	}

	r.Logger.Info("rendered pattern",
		"holes", result.Stats.Holes,
		"formats", opts.Formats,
		"duration", rr.Duration)
	return result, nil
}

// SceneResult contains the projected 3D scene and its encoded outputs.
type SceneResult struct {
	Scene     *projector.Scene
	Artifacts map[string][]byte
	CacheHit  bool
}

// RenderScene projects the project's survey points and encodes the scene.
// The scene itself is always recomputed; only encoded artifacts are cached.
func (r *Runner) RenderScene(ctx context.Context, p *pattern.Project, opts Options) (*SceneResult, error) {
	if err := opts.ValidateForScene(); err != nil {
		return nil, err
	}

	start := time.Now()
	sc := projector.New(
		projector.WithLogger(r.Logger),
		projector.WithUnitScale(opts.UnitScale),
	).Project(p.SurveyPoints())
	observability.Render().OnProjectComplete(ctx, len(sc.Holes), sc.SkippedCount(), time.Since(start))

	result := &SceneResult{Scene: sc, Artifacts: make(map[string][]byte)}
	hash := p.Hash()
	hits := 0
	for _, format := range opts.Formats {
		key := r.Keyer.SceneKey(hash, opts.SceneKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				result.Artifacts[format] = data
				hits++
				continue
			}
		}

		var data []byte
		var err error
		switch format {
		case FormatPNG:
			data, err = projector.RenderPNG(sc, opts.SceneWidth, opts.SceneHeight)
		case FormatJSON:
			data, err = projector.RenderJSON(sc)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render scene %s", format)
		}
		result.Artifacts[format] = data
		_ = r.Cache.Set(ctx, key, data, TTLArtifact)
	}
	result.CacheHit = hits == len(opts.Formats)

	r.Logger.Info("projected scene",
		"holes", len(sc.Holes),
		"skipped", sc.SkippedCount(),
		"duration", time.Since(start))
	return result, nil
}

// Export writes the project in an interchange format. The second result
// reports an artifact cache hit.
func (r *Runner) Export(ctx context.Context, p *pattern.Project, format string, refresh bool) ([]byte, bool, error) {
	if err := export.ValidateFormat(format); err != nil {
		return nil, false, err
	}
	key := r.Keyer.ExportKey(p.Hash(), cache.ExportKeyOpts{Format: format})
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, true, nil
		}
	}

	data, err := export.Export(format, p)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, TTLExport); err != nil {
		r.Logger.Debug("export not cached", "err", err)
	}
	r.Logger.Info("exported pattern", "format", format, "bytes", len(data))
	return data, false, nil
}

// CacheLen reports the entry counts of the renderer caches.
func (r *Runner) CacheLen() (gridLines, intersections, rulers int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gridLines, intersections = r.grid.CacheLen()
	return gridLines, intersections, r.rulers.CacheLen()
}

// Close tears down the renderer caches and the artifact cache.
func (r *Runner) Close() error {
	r.mu.Lock()
	r.grid.Close()
	r.rulers.Close()
	r.mu.Unlock()
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			return fmt.Errorf("close cache: %w", err)
		}
	}
	return nil
}
