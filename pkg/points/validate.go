// Package points implements the point layer of the pattern editor: placing,
// selecting and dragging drill points, with the validation rules that keep a
// pattern free of duplicates and crowded holes.
//
// The layer never owns the authoritative point collection. It reads the
// slice the caller supplies and reports what happened through [Event]
// values; the caller decides whether to apply them.
package points

import (
	"fmt"
	"math"

	"github.com/openpit/blastgrid/pkg/pattern"
	"github.com/openpit/blastgrid/pkg/view"
)

const (
	// DuplicateTolerance is the distance in meters below which a candidate
	// is considered the same position as an existing point.
	DuplicateTolerance = 0.01

	// MinPointDistance is the smallest allowed distance between two points.
	MinPointDistance = 0.1
)

// Outcome classifies a validation result.
type Outcome string

const (
	Accepted    Outcome = "accepted"
	Duplicate   Outcome = "duplicate"
	TooClose    Outcome = "too_close"
	OutOfBounds Outcome = "out_of_bounds"
	Invalid     Outcome = "invalid"
)

// Validation is the result of checking a candidate position. Failed checks
// are ordinary values, not errors.
type Validation struct {
	Valid       bool
	Outcome     Outcome
	Reason      string
	IsDuplicate bool
	Existing    *pattern.DrillPoint // the conflicting point for duplicates
}

// Validate checks a candidate world position against existing points.
// A point whose id equals excludeID is ignored, so a dragged point never
// conflicts with itself. When vt is non-nil the candidate must also land
// inside the drawable viewport.
//
// Checks run in order: duplicate, minimum distance, bounds. Validate never
// modifies points.
func Validate(pos view.Point, points []pattern.DrillPoint, vt *view.Transform, excludeID string) Validation {
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) {
		return Validation{Outcome: Invalid, Reason: "position is not a finite coordinate"}
	}

	nearest, nearestDist := -1, math.Inf(1)
	for i := range points {
		if excludeID != "" && points[i].ID == excludeID {
			continue
		}
		if d := pos.Distance(points[i].Position()); d < nearestDist {
			nearest, nearestDist = i, d
		}
	}

	if nearest >= 0 && nearestDist < DuplicateTolerance {
		existing := points[nearest].Clone()
		return Validation{
			Outcome:     Duplicate,
			Reason:      fmt.Sprintf("a point already exists at this position (%s)", existing.ID),
			IsDuplicate: true,
			Existing:    &existing,
		}
	}
	if nearest >= 0 && nearestDist < MinPointDistance {
		return Validation{
			Outcome: TooClose,
			Reason:  fmt.Sprintf("points must be at least %g m apart", MinPointDistance),
		}
	}
	if vt != nil && !vt.InViewport(vt.WorldToSurface(pos)) {
		return Validation{Outcome: OutOfBounds, Reason: "position is outside the drawing area"}
	}
	return Validation{Valid: true, Outcome: Accepted}
}
