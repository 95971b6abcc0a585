package projector

import (
	"math"
	"unicode"
	"unicode/utf8"

	"gonum.org/v1/gonum/spatial/r3"
)

// Fallback angles used when a hole has no complete survey.
const (
	FallbackAzimuth = 0.0
	FallbackDip     = 90.0
)

var (
	// Down is the un-rotated cylinder axis.
	Down = r3.Vec{X: 0, Y: -1, Z: 0}

	axisLateral  = r3.Vec{X: 1}
	axisVertical = r3.Vec{Y: 1}
)

// Orientation is the resolved attitude of one hole.
type Orientation struct {
	Azimuth  float64 // degrees clockwise from north
	Dip      float64 // degrees below horizontal
	Oriented bool    // false for the vertical fallback
	Axis     r3.Vec  // unit vector from collar to toe

	tilt, heading r3.Rotation
}

// Orient resolves survey angles into a hole axis. Missing azimuth or dip
// selects the fallback: azimuth 0, dip 90 and no rotation at all.
//
// Otherwise the hole is first tilted away from vertical by 90°-dip about the
// east (X) axis, which leans the toe to the north, and then turned about the
// vertical (Y) axis by -azimuth so that bearings run clockwise seen from above.
func Orient(azimuth, dip *float64) Orientation {
	if azimuth == nil || dip == nil {
		return Orientation{Azimuth: FallbackAzimuth, Dip: FallbackDip, Axis: Down}
	}
	az, d := normalizeAzimuth(*azimuth), clampDip(*dip)
	o := Orientation{
		Azimuth:  az,
		Dip:      d,
		Oriented: true,
		tilt:     r3.NewRotation(radians(90-d), axisLateral),
		heading:  r3.NewRotation(-radians(az), axisVertical),
	}
	o.Axis = r3.Unit(o.Apply(Down))
	return o
}

// Apply rotates a vector from cylinder space (axis along -Y, pivot at the
// collar) into the local scene frame.
func (o Orientation) Apply(v r3.Vec) r3.Vec {
	if !o.Oriented {
		return v
	}
	return o.heading.Rotate(o.tilt.Rotate(v))
}

// Compass returns the 8-point compass direction of an azimuth. Each sector is
// 45° wide and centred on its direction, so boundaries fall at 22.5° offsets.
func Compass(azimuth float64) string {
	dirs := [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	az := normalizeAzimuth(azimuth)
	return dirs[int(math.Floor((az+22.5)/45))%len(dirs)]
}

// palette maps the first letter of a hole id to a color.
var palette = [26]string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8", "#f58231", "#911eb4",
	"#46f0f0", "#f032e6", "#bcf60c", "#fabebe", "#008080", "#e6beff",
	"#9a6324", "#fffac8", "#800000", "#aaffc3", "#808000", "#ffd8b1",
	"#000075", "#808080", "#1f77b4", "#ff7f0e", "#2ca02c", "#d62728",
	"#9467bd", "#8c564b",
}

// FallbackColor is used for ids that do not start with a letter.
const FallbackColor = "#888888"

// ColorFor returns the display color of a hole id, chosen by its first
// letter (case-insensitive).
func ColorFor(id string) string {
	r, _ := utf8.DecodeRuneInString(id)
	r = unicode.ToUpper(r)
	if r < 'A' || r > 'Z' {
		return FallbackColor
	}
	return palette[r-'A']
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func normalizeAzimuth(az float64) float64 {
	if math.IsNaN(az) || math.IsInf(az, 0) {
		return 0
	}
	az = math.Mod(az, 360)
	if az < 0 {
		az += 360
	}
	return az
}

func clampDip(d float64) float64 {
	if math.IsNaN(d) {
		return FallbackDip
	}
	return math.Max(-90, math.Min(90, d))
}
