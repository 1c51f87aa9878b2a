package mathutil

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Plane is an oriented plane through Origin with unit Normal.
type Plane struct {
	Origin Vec3
	Normal Vec3
}

// SignedDistance returns the offset of p along the plane normal.
func (pl Plane) SignedDistance(p Vec3) float64 {
	return p.Sub(pl.Origin).Dot(pl.Normal)
}

// Project returns the closest point on the plane to p.
func (pl Plane) Project(p Vec3) Vec3 {
	return p.Sub(pl.Normal.Scale(pl.SignedDistance(p)))
}

// FitPlane returns the least-squares plane through pts: the centroid and the
// eigenvector of the covariance matrix with the smallest eigenvalue.
// ok is false for fewer than three points or when the decomposition fails.
func FitPlane(pts []Vec3) (Plane, bool) {
	if len(pts) < 3 {
		return Plane{}, false
	}
	c := Centroid(pts)

	var cov [6]float64 // xx, xy, xz, yy, yz, zz
	for _, p := range pts {
		d := p.Sub(c)
		cov[0] += d[0] * d[0]
		cov[1] += d[0] * d[1]
		cov[2] += d[0] * d[2]
		cov[3] += d[1] * d[1]
		cov[4] += d[1] * d[2]
		cov[5] += d[2] * d[2]
	}
	sym := mat.NewSymDense(3, []float64{
		cov[0], cov[1], cov[2],
		cov[1], cov[3], cov[4],
		cov[2], cov[4], cov[5],
	})

	var es mat.EigenSym
	if !es.Factorize(sym, true) {
		return Plane{}, false
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	// Eigenvalues come back in ascending order.
	n := Vec3{vecs.At(0, 0), vecs.At(1, 0), vecs.At(2, 0)}.Normalize()
	if n.LenSq() == 0 {
		return Plane{}, false
	}
	return Plane{Origin: c, Normal: n}, true
}

// Planarity returns the largest absolute distance of pts from their
// least-squares plane. Fewer than four points are trivially planar.
func Planarity(pts []Vec3) float64 {
	if len(pts) < 4 {
		return 0
	}
	pl, ok := FitPlane(pts)
	if !ok {
		return 0
	}
	var worst float64
	for _, p := range pts {
		worst = math.Max(worst, math.Abs(pl.SignedDistance(p)))
	}
	return worst
}
