package cache

// ScopedKeyer wraps a Keyer with a prefix so that artifacts of different
// projects or sites never share keys, even if their contents hash alike.
//
// Example usage:
//
//	// Keys for one site of a mine
//	siteKeyer := NewScopedKeyer(NewDefaultKeyer(), "site:north-pit:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// RenderKey generates a prefixed key for 2D render artifacts.
func (k *ScopedKeyer) RenderKey(projectHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(projectHash, opts)
}

// SceneKey generates a prefixed key for 3D scene artifacts.
func (k *ScopedKeyer) SceneKey(projectHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(projectHash, opts)
}

// ExportKey generates a prefixed key for export artifacts.
func (k *ScopedKeyer) ExportKey(projectHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(projectHash, opts)
}
