package pattern

import (
	"github.com/paulmach/orb"
)

// Stats summarises a pattern for reports and the CLI.
type Stats struct {
	Holes       int       `json:"holes"`
	CustomDepth int       `json:"custom_depth"`
	Oriented    int       `json:"oriented"`
	Bound       orb.Bound `json:"bound"`
	DrillLength float64   `json:"drill_length"`  // sum of depth + sub-drill
	ChargeTotal float64   `json:"charge_length"` // sum of explosive column lengths
}

// Width returns the east-west extent of the pattern in meters.
func (s Stats) Width() float64 { return s.Bound.Max.X() - s.Bound.Min.X() }

// Height returns the north-south extent of the pattern in meters.
func (s Stats) Height() float64 { return s.Bound.Max.Y() - s.Bound.Min.Y() }

// Summarize computes statistics over points using the pattern settings.
func Summarize(points []DrillPoint, s Settings) Stats {
	var st Stats
	if len(points) == 0 {
		return st
	}
	mp := make(orb.MultiPoint, 0, len(points))
	for _, p := range points {
		st.Holes++
		if p.HasCustomDepth(s) {
			st.CustomDepth++
		}
		if p.HasOrientation() {
			st.Oriented++
		}
		st.DrillLength += p.Depth + s.SubDrill
		st.ChargeTotal += p.ChargeLength(s)
		mp = append(mp, orb.Point{p.X, p.Y})
	}
	st.Bound = mp.Bound()
	return st
}
