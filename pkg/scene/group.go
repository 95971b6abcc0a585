package scene

import "fmt"

// Group is an ordered container of shapes, possibly nested.
type Group struct {
	Name      string
	children  []Shape
	destroyed bool
}

// NewGroup creates an empty named group.
func NewGroup(name string) *Group {
	return &Group{Name: name}
}

func (g *Group) Kind() Kind { return KindGroup }

// Clone deep-copies the group and its children. A destroyed group clones to
// an empty live group of the same name.
func (g *Group) Clone() Shape {
	c := &Group{Name: g.Name}
	if g.destroyed {
		return c
	}
	c.children = make([]Shape, 0, len(g.children))
	for _, s := range g.children {
		c.children = append(c.children, s.Clone())
	}
	return c
}

// CloneGroup is Clone with a concrete return type.
func (g *Group) CloneGroup() *Group { return g.Clone().(*Group) }

// Add appends shapes. Nil shapes and additions to a destroyed group are ignored.
func (g *Group) Add(shapes ...Shape) {
	if g.destroyed {
		return
	}
	for _, s := range shapes {
		if s != nil {
			g.children = append(g.children, s)
		}
	}
}

// Remove detaches the first occurrence of s (compared by identity).
func (g *Group) Remove(s Shape) bool {
	for i, c := range g.children {
		if c == s {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return true
		}
	}
	return false
}

// Destroy drops all children and marks the group dead.
func (g *Group) Destroy() {
	g.children = nil
	g.destroyed = true
}

// Destroyed reports whether Destroy has been called.
func (g *Group) Destroyed() bool { return g.destroyed }

// Children returns the direct children. The slice must not be modified.
func (g *Group) Children() []Shape { return g.children }

// Len returns the number of direct children.
func (g *Group) Len() int { return len(g.children) }

// Count returns the number of primitives of kind k in the whole subtree.
func (g *Group) Count(k Kind) int {
	n := 0
	for _, s := range g.children {
		if s.Kind() == k {
			n++
		}
		if sub, ok := s.(*Group); ok {
			n += sub.Count(k)
		}
	}
	return n
}

// Walk calls fn for every primitive in paint order, descending into groups.
func (g *Group) Walk(fn func(Shape)) {
	for _, s := range g.children {
		if sub, ok := s.(*Group); ok {
			sub.Walk(fn)
			continue
		}
		fn(s)
	}
}

// BatchDraw sends every primitive to d. It stops at the first drawer error.
func (g *Group) BatchDraw(d Drawer) error {
	if g.destroyed {
		return nil
	}
	for _, s := range g.children {
		if err := drawShape(d, s); err != nil {
			return err
		}
	}
	return nil
}

func drawShape(d Drawer, s Shape) error {
	switch v := s.(type) {
	case *Group:
		return v.BatchDraw(d)
	case *Line:
		return d.DrawLine(*v)
	case *Circle:
		return d.DrawCircle(*v)
	case *Polygon:
		return d.DrawPolygon(*v)
	case *Text:
		return d.DrawText(*v)
	}
	return fmt.Errorf("scene: unsupported shape %T", s)
}

var _ Node = (*Group)(nil)
