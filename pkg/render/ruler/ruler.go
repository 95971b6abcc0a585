// Package ruler renders the two measurement rulers along the top and left
// edges of the pattern editor.
//
// The measurement unit adapts to the zoom level: [ChooseUnit] picks, from a
// fixed candidate set, the unit whose on-screen length is closest to
// [TargetSpacing] pixels. Ticks come in three levels: labeled main ticks
// every five units, plain major ticks every unit, and micro ticks at a fifth
// of a unit when they are far enough apart to read.
package ruler

import (
	"io"
	"math"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/openpit/blastgrid/pkg/cache"
	"github.com/openpit/blastgrid/pkg/observability"
	"github.com/openpit/blastgrid/pkg/scene"
	"github.com/openpit/blastgrid/pkg/view"
)

const (
	// TargetSpacing is the preferred on-screen length of one unit, in pixels.
	TargetSpacing = 75.0

	// MaxTicks caps the number of ticks per axis.
	MaxTicks = 500

	// MainEvery is the number of units between labeled main ticks.
	MainEvery = 5

	// MicroDivisions is the number of micro intervals per unit.
	MicroDivisions = 5

	// MinMicroSpacing is the smallest pixel gap at which micro ticks are drawn.
	MinMicroSpacing = 4.0
)

// Tick lengths in pixels, measured from the inner edge of the strip.
const (
	mainTickLen  = 12.0
	majorTickLen = 8.0
	microTickLen = 4.0
	labelSize    = 9.0
)

// Units are the candidate measurement units in meters.
var Units = []float64{0.1, 0.2, 0.5, 1, 2, 5, 10, 20, 50, 100}

// TickLevel classifies a tick.
type TickLevel int

const (
	Micro TickLevel = iota
	Major
	Main
)

// Tick is one computed tick on an axis.
type Tick struct {
	Pos   float64 // surface position along the axis, pixels
	Value float64 // world value, meters
	Level TickLevel
}

// ChooseUnit returns the candidate unit whose pixel length is closest to
// TargetSpacing. Ties go to the smaller unit. It returns 0 for a
// non-positive or non-finite pixelsPerUnit.
func ChooseUnit(pixelsPerUnit float64) float64 {
	if !(pixelsPerUnit > 0) || math.IsInf(pixelsPerUnit, 0) {
		return 0
	}
	best, bestDiff := Units[0], math.Inf(1)
	for _, c := range Units {
		if d := math.Abs(c*pixelsPerUnit - TargetSpacing); d < bestDiff {
			best, bestDiff = c, d
		}
	}
	return best
}

// Ticks computes the ticks of one axis. offset is the total view offset on
// that axis and limit the far edge of the viewport. The second result
// reports whether MaxTicks cut the axis short.
func Ticks(offset, pixelsPerUnit, unit, limit float64) ([]Tick, bool) {
	if !(pixelsPerUnit > 0) || !(unit > 0) {
		return nil, false
	}
	sub := 1
	if unit/MicroDivisions*pixelsPerUnit >= MinMicroSpacing {
		sub = MicroDivisions
	}
	step := unit / float64(sub)

	var ticks []Tick
	first := math.Floor((-offset / pixelsPerUnit) / step)
	for k := int64(first); ; k++ {
		v := float64(k) * step
		pos := view.RulerSize + offset + v*pixelsPerUnit
		if pos < view.RulerSize {
			continue
		}
		if pos > limit {
			return ticks, false
		}
		if len(ticks) >= MaxTicks {
			return ticks, true
		}
		ticks = append(ticks, Tick{Pos: pos, Value: v, Level: level(k, sub)})
	}
}

func level(k int64, sub int) TickLevel {
	switch {
	case k%int64(sub*MainEvery) == 0:
		return Main
	case k%int64(sub) == 0:
		return Major
	}
	return Micro
}

// FormatLabel prints a tick value with the precision its unit needs.
func FormatLabel(v, unit float64) string {
	prec := 0
	if unit < 1 {
		prec = 1
	}
	if math.Abs(v) < 1e-9 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// Key identifies one rendered pair of rulers.
type Key struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
	Width   float64
	Height  float64
}

// KeyFor builds the cache key for a view state.
func KeyFor(st view.State) Key {
	return Key{
		Scale:   st.Scale,
		OffsetX: st.TotalOffsetX(),
		OffsetY: st.TotalOffsetY(),
		Width:   st.Width,
		Height:  st.Height,
	}
}

// Style holds the paint attributes of the rulers.
type Style struct {
	Background scene.Style
	Tick       scene.Style
	Label      scene.Style
}

// DefaultStyle matches the editor chrome.
func DefaultStyle() Style {
	return Style{
		Background: scene.Style{Fill: "#f4f6f8", Stroke: "#c5ccd4", StrokeWidth: 1},
		Tick:       scene.Style{Stroke: "#5b6773", StrokeWidth: 1},
		Label:      scene.Style{Fill: "#33404d"},
	}
}

// Result is the output of one render call.
type Result struct {
	Rulers *scene.Group
	Unit   float64
	Hit    bool
	Capped bool
}

type entry struct {
	group  *scene.Group
	unit   float64
	capped bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used for warnings.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithCacheSize sets the entry limit of the cache.
func WithCacheSize(n int) Option { return func(r *Renderer) { r.cacheSize = n } }

// WithStyle overrides the default style.
func WithStyle(s Style) Option { return func(r *Renderer) { r.style = s } }

// Renderer builds and caches both rulers together, since they share the
// unit computation. It is not safe for concurrent use.
type Renderer struct {
	logger    *log.Logger
	style     Style
	cacheSize int
	cache     *cache.Bounded[Key, entry]
}

// New creates a renderer with its own cache.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		style:     DefaultStyle(),
		cacheSize: cache.DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cache = cache.NewBounded[Key, entry](r.cacheSize)
	r.cache.OnEvict = func(_ Key, e entry) {
		observability.Cache().OnCacheEvict("rulers")
		if e.group != nil {
			e.group.Destroy()
		}
	}
	return r
}

// Render returns both rulers for the given view state.
func (r *Renderer) Render(st view.State) Result {
	key := KeyFor(st)
	if e, ok := r.cache.Get(key); ok && e.group != nil && !e.group.Destroyed() {
		observability.Cache().OnCacheHit("rulers")
		return Result{Rulers: e.group.CloneGroup(), Unit: e.unit, Hit: true, Capped: e.capped}
	} else if ok {
		r.cache.Delete(key)
	}
	observability.Cache().OnCacheMiss("rulers")

	e := r.build(st)
	r.cache.Set(key, e)
	return Result{Rulers: e.group.CloneGroup(), Unit: e.unit, Capped: e.capped}
}

// CacheLen returns the number of cached ruler pairs.
func (r *Renderer) CacheLen() int { return r.cache.Len() }

// Close destroys every cached group.
func (r *Renderer) Close() {
	for _, k := range r.cache.Keys() {
		if e, _ := r.cache.Get(k); e.group != nil {
			e.group.Destroy()
		}
	}
	r.cache.Clear()
}

func (r *Renderer) build(st view.State) entry {
	g := scene.NewGroup("rulers")
	bg := r.style.Background
	g.Add(
		&scene.Polygon{Points: rect(view.RulerSize, 0, st.Width, view.RulerSize), Style: bg, Class: "ruler-strip"},
		&scene.Polygon{Points: rect(0, view.RulerSize, view.RulerSize, st.Height), Style: bg, Class: "ruler-strip"},
		&scene.Polygon{Points: rect(0, 0, view.RulerSize, view.RulerSize), Style: bg, Class: "ruler-corner"},
	)

	ppu := st.PixelsPerUnit()
	unit := ChooseUnit(ppu)
	if unit == 0 {
		r.logger.Warn("ruler scale is degenerate, drawing empty rulers", "scale", st.Scale)
		return entry{group: g}
	}

	xt, cx := Ticks(st.TotalOffsetX(), ppu, unit, st.Width)
	yt, cy := Ticks(st.TotalOffsetY(), ppu, unit, st.Height)
	if cx || cy {
		r.logger.Warn("ruler tick cap reached", "max", MaxTicks, "unit", unit)
	}

	horizontal := scene.NewGroup("horizontal")
	for _, t := range xt {
		n := tickLen(t.Level)
		horizontal.Add(&scene.Line{X1: t.Pos, Y1: view.RulerSize, X2: t.Pos, Y2: view.RulerSize - n, Style: r.style.Tick, Class: "ruler-tick"})
		if t.Level == Main {
			horizontal.Add(&scene.Text{
				X: t.Pos + 2, Y: view.RulerSize - mainTickLen - 2,
				Value: FormatLabel(t.Value, unit), Size: labelSize,
				Anchor: scene.AnchorStart, Style: r.style.Label, Class: "ruler-label",
			})
		}
	}

	vertical := scene.NewGroup("vertical")
	for _, t := range yt {
		n := tickLen(t.Level)
		vertical.Add(&scene.Line{X1: view.RulerSize, Y1: t.Pos, X2: view.RulerSize - n, Y2: t.Pos, Style: r.style.Tick, Class: "ruler-tick"})
		if t.Level == Main {
			vertical.Add(&scene.Text{
				X: view.RulerSize - mainTickLen - 2, Y: t.Pos + 2,
				Value: FormatLabel(t.Value, unit), Size: labelSize,
				Anchor: scene.AnchorStart, Rotation: -90, Style: r.style.Label, Class: "ruler-label",
			})
		}
	}

	g.Add(horizontal, vertical)
	return entry{group: g, unit: unit, capped: cx || cy}
}

func tickLen(l TickLevel) float64 {
	switch l {
	case Main:
		return mainTickLen
	case Major:
		return majorTickLen
	}
	return microTickLen
}

func rect(x0, y0, x1, y1 float64) []float64 {
	return []float64{x0, y0, x1, y0, x1, y1, x0, y1}
}
