// Package fonts provides the typeface used for raster labels.
//
// The Go Regular font ships inside golang.org/x/image, so PNG output looks
// the same on every machine without a system font lookup. The parsed font is
// cached after first use; faces are created per call because a font.Face
// keeps a glyph cache that is not safe for concurrent use.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultSize is the label size in points used when none is given.
const DefaultSize = 12.0

// FontFamily is the CSS font-family matching the raster typeface.
const FontFamily = `Go, 'DejaVu Sans', Arial, sans-serif`

var (
	regular     *truetype.Font
	regularErr  error
	regularOnce sync.Once
)

// Regular returns the parsed Go Regular font.
func Regular() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// Face returns a new face of Go Regular at size points (72 DPI, so one
// point is one pixel). A non-positive size means DefaultSize.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultSize
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
