package pattern

import (
	"fmt"

	"github.com/openpit/blastgrid/pkg/errors"
)

// GridOptions describes a rectangular pattern of rows × holes.
type GridOptions struct {
	Rows      int
	Holes     int     // holes per row
	Staggered bool    // shift every other row by half a spacing
	OriginX   float64 // world position of the first hole
	OriginY   float64
}

// RowLabel returns the letter label of a zero-based row: A…Z, AA, AB, …
func RowLabel(row int) string {
	label := ""
	for row >= 0 {
		label = string(rune('A'+row%26)) + label
		row = row/26 - 1
	}
	return label
}

// Generate lays out a regular pattern from settings. Rows run along x at
// the pattern spacing and are separated by the burden along y. Holes are
// named by row letter and one-based position, e.g. "A1", "B4".
func Generate(s Settings, o GridOptions) ([]DrillPoint, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if o.Rows <= 0 || o.Holes <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "rows and holes must be positive, got %d×%d", o.Rows, o.Holes)
	}
	points := make([]DrillPoint, 0, o.Rows*o.Holes)
	for r := 0; r < o.Rows; r++ {
		shift := 0.0
		if o.Staggered && r%2 == 1 {
			shift = s.Spacing / 2
		}
		for h := 0; h < o.Holes; h++ {
			points = append(points, DrillPoint{
				ID:      fmt.Sprintf("%s%d", RowLabel(r), h+1),
				X:       o.OriginX + shift + float64(h)*s.Spacing,
				Y:       o.OriginY + float64(r)*s.Burden,
				Depth:   s.Depth,
				Spacing: s.Spacing,
				Burden:  s.Burden,
			})
		}
	}
	return points, nil
}
