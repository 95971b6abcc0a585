// Package grid renders the background grid of the pattern editor.
//
// Major lines follow the pattern spacing (vertical lines, along x) and burden
// (horizontal lines, along y); minor lines sit halfway between them. Line
// positions are anchored to the world origin through the total view offset,
// so panning slides the grid instead of restarting it at the margin.
//
// Every [Renderer] owns two bounded caches, one for the line geometry and one
// for precise-mode intersection markers. Cached groups are never handed out
// directly; callers always receive a deep clone.
package grid

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/openpit/blastgrid/pkg/cache"
	"github.com/openpit/blastgrid/pkg/observability"
	"github.com/openpit/blastgrid/pkg/scene"
	"github.com/openpit/blastgrid/pkg/view"
)

const (
	// MaxGridLines caps each line loop (minor x, minor y, major x, major y).
	MaxGridLines = 1000

	// MaxIntersections caps the precise-mode marker count.
	MaxIntersections = MaxGridLines / 4

	// IntersectionRadius is the marker radius in pixels.
	IntersectionRadius = 2.0
)

// Layer names reported to cache hooks.
const (
	hookGrid          = "grid"
	hookIntersections = "intersections"
)

// Key identifies one rendered grid. Two renders with equal keys produce
// identical geometry.
type Key struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
	Width   float64
	Height  float64
	Spacing float64
	Burden  float64
	Precise bool
}

// Style holds the paint attributes of the grid.
type Style struct {
	Major        scene.Style
	Minor        scene.Style
	Intersection scene.Style
}

// DefaultStyle is a light engineering-paper look.
func DefaultStyle() Style {
	return Style{
		Major:        scene.Style{Stroke: "#b8c4d0", StrokeWidth: 1},
		Minor:        scene.Style{Stroke: "#e3e8ee", StrokeWidth: 0.5, Dash: []float64{2, 3}},
		Intersection: scene.Style{Fill: "#4a7fb5", Opacity: 0.7},
	}
}

// Result is the output of one render call.
type Result struct {
	Grid             *scene.Group
	Intersections    *scene.Group // nil unless precise mode was requested
	GridHit          bool
	IntersectionsHit bool
	Capped           bool // a line or marker cap was reached while building
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for performance and geometry warnings.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCacheSize sets the entry limit of each cache.
func WithCacheSize(n int) Option { return func(r *Renderer) { r.cacheSize = n } }

// WithStyle overrides the default style.
func WithStyle(s Style) Option { return func(r *Renderer) { r.style = s } }

// Renderer builds and caches grid geometry. It is not safe for concurrent use.
type Renderer struct {
	logger        *log.Logger
	style         Style
	cacheSize     int
	lines         *cache.Bounded[Key, *scene.Group]
	intersections *cache.Bounded[Key, *scene.Group]
}

// New creates a renderer with its own caches.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		style:     DefaultStyle(),
		cacheSize: cache.DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lines = newGroupCache(r.cacheSize, hookGrid)
	r.intersections = newGroupCache(r.cacheSize, hookIntersections)
	return r
}

func newGroupCache(size int, name string) *cache.Bounded[Key, *scene.Group] {
	c := cache.NewBounded[Key, *scene.Group](size)
	c.OnEvict = func(_ Key, g *scene.Group) {
		observability.Cache().OnCacheEvict(name)
		if g != nil {
			g.Destroy()
		}
	}
	return c
}

// KeyFor builds the cache key for a view state and pattern dimensions.
func KeyFor(st view.State, spacing, burden float64, precise bool) Key {
	return Key{
		Scale:   st.Scale,
		OffsetX: st.TotalOffsetX(),
		OffsetY: st.TotalOffsetY(),
		Width:   st.Width,
		Height:  st.Height,
		Spacing: spacing,
		Burden:  burden,
		Precise: precise,
	}
}

// Render returns the grid for the given view and pattern dimensions. The
// line geometry is shared between precise and normal mode; intersection
// markers are cached under their own key.
func (r *Renderer) Render(st view.State, spacing, burden float64, precise bool) Result {
	var res Result

	lineKey := KeyFor(st, spacing, burden, false)
	if g, ok := lookup(r.lines, lineKey, hookGrid); ok {
		res.Grid = g.CloneGroup()
		res.GridHit = true
	} else {
		g, capped := r.buildLines(st, spacing, burden)
		r.lines.Set(lineKey, g)
		res.Grid = g.CloneGroup()
		res.Capped = capped
	}

	if !precise {
		return res
	}
	markKey := KeyFor(st, spacing, burden, true)
	if g, ok := lookup(r.intersections, markKey, hookIntersections); ok {
		res.Intersections = g.CloneGroup()
		res.IntersectionsHit = true
		return res
	}
	g, capped := r.buildIntersections(st, spacing, burden)
	r.intersections.Set(markKey, g)
	res.Intersections = g.CloneGroup()
	res.Capped = res.Capped || capped
	return res
}

// lookup treats a missing or destroyed handle as a miss and drops it.
func lookup(c *cache.Bounded[Key, *scene.Group], k Key, name string) (*scene.Group, bool) {
	g, ok := c.Get(k)
	if ok && g != nil && !g.Destroyed() {
		observability.Cache().OnCacheHit(name)
		return g, true
	}
	if ok {
		c.Delete(k)
	}
	observability.Cache().OnCacheMiss(name)
	return nil, false
}

// CacheLen returns the number of cached line and intersection groups.
func (r *Renderer) CacheLen() (lines, intersections int) {
	return r.lines.Len(), r.intersections.Len()
}

// Close destroys every cached group. The renderer may be reused afterwards.
func (r *Renderer) Close() {
	for _, c := range []*cache.Bounded[Key, *scene.Group]{r.lines, r.intersections} {
		for _, k := range c.Keys() {
			if g, _ := c.Get(k); g != nil {
				g.Destroy()
			}
		}
		c.Clear()
	}
}

func (r *Renderer) buildLines(st view.State, spacing, burden float64) (*scene.Group, bool) {
	g := scene.NewGroup(hookGrid)
	ppu := st.PixelsPerUnit()
	spacingPx, burdenPx := spacing*ppu, burden*ppu
	if !usableStep(spacingPx) || !usableStep(burdenPx) {
		r.logger.Warn("grid step is degenerate, skipping grid",
			"spacing", spacing, "burden", burden, "scale", st.Scale)
		return g, false
	}

	minor := scene.NewGroup("minor")
	major := scene.NewGroup("major")
	capped := false

	// Minor lines first so majors paint on top.
	for _, l := range []struct {
		into     *scene.Group
		stepX    float64
		stepY    float64
		style    scene.Style
		class    string
		logLabel string
	}{
		{minor, spacingPx / 2, burdenPx / 2, r.style.Minor, "grid-minor", "minor"},
		{major, spacingPx, burdenPx, r.style.Major, "grid-major", "major"},
	} {
		xs, cx := Positions(view.RulerSize, st.TotalOffsetX(), l.stepX, st.Width)
		ys, cy := Positions(view.RulerSize, st.TotalOffsetY(), l.stepY, st.Height)
		for _, x := range xs {
			l.into.Add(&scene.Line{X1: x, Y1: view.RulerSize, X2: x, Y2: st.Height, Style: l.style, Class: l.class})
		}
		for _, y := range ys {
			l.into.Add(&scene.Line{X1: view.RulerSize, Y1: y, X2: st.Width, Y2: y, Style: l.style, Class: l.class})
		}
		if cx || cy {
			capped = true
			r.logger.Warn("grid line cap reached, grid truncated",
				"lines", l.logLabel, "max", MaxGridLines, "scale", st.Scale)
		}
	}

	g.Add(minor, major)
	return g, capped
}

func (r *Renderer) buildIntersections(st view.State, spacing, burden float64) (*scene.Group, bool) {
	g := scene.NewGroup(hookIntersections)
	ppu := st.PixelsPerUnit()
	spacingPx, burdenPx := spacing*ppu, burden*ppu
	if !usableStep(spacingPx) || !usableStep(burdenPx) {
		return g, false
	}
	xs, _ := Positions(view.RulerSize, st.TotalOffsetX(), spacingPx, st.Width)
	ys, _ := Positions(view.RulerSize, st.TotalOffsetY(), burdenPx, st.Height)

	n := 0
	for _, y := range ys {
		for _, x := range xs {
			if n >= MaxIntersections {
				r.logger.Warn("intersection cap reached, markers truncated", "max", MaxIntersections)
				return g, true
			}
			g.Add(&scene.Circle{CX: x, CY: y, R: IntersectionRadius, Style: r.style.Intersection, Class: "grid-intersection"})
			n++
		}
	}
	return g, false
}

// AlignedStart returns the first line position at or after margin for lines
// spaced step apart and anchored at margin+offset.
func AlignedStart(margin, offset, step float64) float64 {
	m := math.Mod(offset, step)
	if m < 0 {
		m += step
	}
	return margin + m
}

// Positions lists line positions from the aligned start up to limit,
// inclusive. It reports whether MaxGridLines cut the list short.
func Positions(margin, offset, step, limit float64) ([]float64, bool) {
	if !usableStep(step) {
		return nil, false
	}
	var out []float64
	for p := AlignedStart(margin, offset, step); p <= limit; p += step {
		if len(out) >= MaxGridLines {
			return out, true
		}
		out = append(out, p)
	}
	return out, false
}

func usableStep(step float64) bool {
	return step > 0 && !math.IsInf(step, 0) && !math.IsNaN(step)
}
