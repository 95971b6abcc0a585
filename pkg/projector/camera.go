package projector

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// MinFrameExtent is the smallest footprint the camera frames.
	MinFrameExtent = 20.0

	// FrameDistanceFactor multiplies the footprint to get the camera offset.
	FrameDistanceFactor = 2.0

	// MinCameraHeight is the lowest camera elevation above the target.
	MinCameraHeight = 40.0

	// DefaultFOV is the vertical field of view in degrees.
	DefaultFOV = 50.0
)

// Camera is a perspective camera aimed at Target.
type Camera struct {
	Position r3.Vec  `json:"position"`
	Target   r3.Vec  `json:"target"`
	Up       r3.Vec  `json:"up"`
	Distance float64 `json:"distance"`
	FOV      float64 `json:"fov"`
	Near     float64 `json:"near"`
	Far      float64 `json:"far"`
}

// Bounds is an axis-aligned box in local coordinates.
type Bounds struct {
	Min, Max r3.Vec
}

// Center returns the midpoint of the box.
func (b Bounds) Center() r3.Vec { return r3.Scale(0.5, r3.Add(b.Min, b.Max)) }

// CollarBounds returns the box around every collar. It is the zero box for
// no holes.
func CollarBounds(holes []Hole) Bounds {
	if len(holes) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: holes[0].Collar, Max: holes[0].Collar}
	for _, h := range holes[1:] {
		c := h.Collar
		b.Min = r3.Vec{X: math.Min(b.Min.X, c.X), Y: math.Min(b.Min.Y, c.Y), Z: math.Min(b.Min.Z, c.Z)}
		b.Max = r3.Vec{X: math.Max(b.Max.X, c.X), Y: math.Max(b.Max.Y, c.Y), Z: math.Max(b.Max.Z, c.Z)}
	}
	return b
}

// Frame places the camera on the south-east diagonal of the collar
// footprint, looking at its centre. The offset along each horizontal axis is
// max(width, depth, MinFrameExtent)·FrameDistanceFactor and the height is
// max(offset/2, MinCameraHeight).
func Frame(holes []Hole) Camera {
	b := CollarBounds(holes)
	center := b.Center()
	width := b.Max.X - b.Min.X
	depth := b.Max.Z - b.Min.Z
	d := math.Max(math.Max(width, depth), MinFrameExtent) * FrameDistanceFactor

	pos := r3.Add(center, r3.Vec{X: d, Y: math.Max(d*0.5, MinCameraHeight), Z: d})
	dist := r3.Norm(r3.Sub(pos, center))
	return Camera{
		Position: pos,
		Target:   center,
		Up:       axisVertical,
		Distance: dist,
		FOV:      DefaultFOV,
		Near:     0.1,
		Far:      dist*4 + GridSize,
	}
}

// ViewProjection returns the combined perspective × look-at matrix for an
// image of the given aspect ratio. Both are the usual OpenGL-style matrices,
// written row-major.
func (c Camera) ViewProjection(aspect float64) *mat.Dense {
	f := r3.Unit(r3.Sub(c.Target, c.Position))
	s := r3.Unit(r3.Cross(f, c.Up))
	u := r3.Cross(s, f)
	view := mat.NewDense(4, 4, []float64{
		s.X, s.Y, s.Z, -r3.Dot(s, c.Position),
		u.X, u.Y, u.Z, -r3.Dot(u, c.Position),
		-f.X, -f.Y, -f.Z, r3.Dot(f, c.Position),
		0, 0, 0, 1,
	})

	if aspect == 0 {
		aspect = 1
	}
	t := 1 / math.Tan(radians(c.FOV)/2)
	nf := 1 / (c.Near - c.Far)
	proj := mat.NewDense(4, 4, []float64{
		t / aspect, 0, 0, 0,
		0, t, 0, 0,
		0, 0, (c.Far + c.Near) * nf, 2 * c.Far * c.Near * nf,
		0, 0, -1, 0,
	})

	var vp mat.Dense
	vp.Mul(proj, view)
	return &vp
}

// ProjectPoint maps a local point through vp to image pixels. The second
// result is false for points behind the camera.
func ProjectPoint(vp mat.Matrix, p r3.Vec, width, height float64) (x, y float64, ok bool) {
	var clip mat.VecDense
	clip.MulVec(vp, mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1}))
	w := clip.AtVec(3)
	if w <= 1e-9 {
		return 0, 0, false
	}
	nx, ny := clip.AtVec(0)/w, clip.AtVec(1)/w
	return (nx*0.5 + 0.5) * width, (1 - (ny*0.5 + 0.5)) * height, true
}
