package scene

// Standard layer names, bottom to top.
const (
	LayerBackground = "background"
	LayerGrid       = "grid"
	LayerPoints     = "points"
	LayerRulers     = "rulers"
	LayerOverlay    = "overlay"
)

// DefaultLayers is the stacking order used by the pattern editor. Rulers sit
// above points so that points scrolled under the ruler strip are hidden.
var DefaultLayers = []string{LayerBackground, LayerGrid, LayerPoints, LayerRulers, LayerOverlay}

// Layer is one rendering surface in a stack. It holds top-level groups.
type Layer struct {
	Name      string
	Visible   bool
	groups    []Shape
	destroyed bool
}

// NewLayer creates a visible, empty layer.
func NewLayer(name string) *Layer {
	return &Layer{Name: name, Visible: true}
}

// Add appends shapes to the layer.
func (l *Layer) Add(shapes ...Shape) {
	if l.destroyed {
		return
	}
	for _, s := range shapes {
		if s != nil {
			l.groups = append(l.groups, s)
		}
	}
}

// Remove detaches s from the layer.
func (l *Layer) Remove(s Shape) bool {
	for i, c := range l.groups {
		if c == s {
			l.groups = append(l.groups[:i], l.groups[i+1:]...)
			return true
		}
	}
	return false
}

// Replace drops the current content and installs shapes in one step.
func (l *Layer) Replace(shapes ...Shape) {
	l.groups = l.groups[:0]
	l.Add(shapes...)
}

// Destroy drops all content and marks the layer dead.
func (l *Layer) Destroy() {
	l.groups = nil
	l.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (l *Layer) Destroyed() bool { return l.destroyed }

// Shapes returns the top-level content of the layer.
func (l *Layer) Shapes() []Shape { return l.groups }

// BatchDraw draws the layer content if the layer is visible.
func (l *Layer) BatchDraw(d Drawer) error {
	if l.destroyed || !l.Visible {
		return nil
	}
	for _, s := range l.groups {
		if err := drawShape(d, s); err != nil {
			return err
		}
	}
	return nil
}

var _ Node = (*Layer)(nil)

// Surface is a fixed-size stack of layers.
type Surface struct {
	Width, Height float64
	Background    string
	layers        []*Layer
	byName        map[string]*Layer
}

// NewSurface creates a surface with the given layers, bottom first.
// With no names, DefaultLayers is used.
func NewSurface(width, height float64, names ...string) *Surface {
	if len(names) == 0 {
		names = DefaultLayers
	}
	s := &Surface{
		Width:  width,
		Height: height,
		byName: make(map[string]*Layer, len(names)),
	}
	for _, n := range names {
		l := NewLayer(n)
		s.layers = append(s.layers, l)
		s.byName[n] = l
	}
	return s
}

// Layer returns the named layer, or nil if the surface has none by that name.
func (s *Surface) Layer(name string) *Layer { return s.byName[name] }

// Layers returns the layers bottom first.
func (s *Surface) Layers() []*Layer { return s.layers }

// BatchDraw draws every layer bottom to top.
func (s *Surface) BatchDraw(d Drawer) error {
	for _, l := range s.layers {
		if err := l.BatchDraw(d); err != nil {
			return err
		}
	}
	return nil
}
