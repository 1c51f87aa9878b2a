// Package viewmatrix frames model-space points into a square preview image.
package viewmatrix

import (
	"fmt"
	"math"

	"meshrelax/internal/mathutil"
)

// ByName returns a camera orientation: "iso", "top" or "front".
// An empty name means iso.
func ByName(name string) (mathutil.Mat3, error) {
	switch name {
	case "", "iso":
		return mathutil.IsoView, nil
	case "top":
		return mathutil.TopView, nil
	case "front":
		return mathutil.FrontView, nil
	}
	return mathutil.Mat3{}, fmt.Errorf("viewmatrix: unknown view %q", name)
}

// Projection maps points to screen x, y (pixels) and depth.
type Projection struct {
	R      mathutil.Mat3
	Center mathutil.Vec3
	Scale  float64
	Size   int

	perspective bool
	camDist     float64
	zCenter     float64
}

// Fit frames pts, rotated by r, into a size×size image leaving margin
// pixels on each side. A positive fov (degrees) adds a perspective
// foreshortening; zero keeps the projection orthographic.
func Fit(pts []mathutil.Vec3, r mathutil.Mat3, size, margin int, fov float64) Projection {
	rotated := make([]mathutil.Vec3, len(pts))
	for i, p := range pts {
		rotated[i] = r.MulVec3(p)
	}
	lo, hi := mathutil.Bounds(rotated)
	if len(pts) == 0 {
		lo, hi = mathutil.Vec3{}, mathutil.Vec3{}
	}
	center := lo.Lerp(hi, 0.5)
	span := math.Max(hi[0]-lo[0], hi[1]-lo[1])
	if span < 0.001 {
		span = 0.001
	}

	pr := Projection{
		R:      r,
		Center: center,
		Scale:  float64(size-2*margin) / span,
		Size:   size,
	}
	if fov > 0 {
		halfFOV := mathutil.Deg2Rad(fov / 2)
		xyMax := math.Max(span/2, 0.001)
		pr.perspective = true
		pr.zCenter = center[2]
		pr.camDist = xyMax / math.Tan(halfFOV)
	}
	return pr
}

// Project returns the screen position and depth of p. Larger depth is
// closer to the viewer.
func (pr Projection) Project(p mathutil.Vec3) (x, y, z float64) {
	t := pr.R.MulVec3(p)
	if pr.perspective {
		depth := math.Max(pr.camDist-(t[2]-pr.zCenter), 0.1)
		factor := pr.camDist / depth
		t[0] = (t[0]-pr.Center[0])*factor + pr.Center[0]
		t[1] = (t[1]-pr.Center[1])*factor + pr.Center[1]
	}
	half := float64(pr.Size) / 2
	return (t[0]-pr.Center[0])*pr.Scale + half, -(t[1]-pr.Center[1])*pr.Scale + half, t[2]
}

// ProjectVertices projects every point. Returns px, py, pz slices
// (screen X, screen Y, depth).
func (pr Projection) ProjectVertices(pts []mathutil.Vec3) ([]float64, []float64, []float64) {
	n := len(pts)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)
	for i, p := range pts {
		px[i], py[i], pz[i] = pr.Project(p)
	}
	return px, py, pz
}
