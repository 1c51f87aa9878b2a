// Package target provides closest-point oracles for projection constraints.
package target

import (
	"math"

	"meshrelax/internal/mathutil"
)

// Oracle answers closest-point queries against some fixed geometry.
type Oracle interface {
	ClosestPoint(p mathutil.Vec3) mathutil.Vec3
}

// Func adapts a plain function to Oracle.
type Func func(mathutil.Vec3) mathutil.Vec3

func (f Func) ClosestPoint(p mathutil.Vec3) mathutil.Vec3 { return f(p) }

// Plane projects onto an infinite plane.
type Plane struct{ mathutil.Plane }

func (pl Plane) ClosestPoint(p mathutil.Vec3) mathutil.Vec3 {
	if pl.Normal.LenSq() == 0 {
		return p
	}
	return pl.Project(p)
}

// Sphere projects onto the surface of a sphere. The centre itself maps to
// the top of the sphere.
type Sphere struct {
	Centre mathutil.Vec3
	Radius float64
}

func (s Sphere) ClosestPoint(p mathutil.Vec3) mathutil.Vec3 {
	d := p.Sub(s.Centre)
	if d.LenSq() < mathutil.ZeroTolerance {
		return s.Centre.Add(mathutil.Vec3{0, 0, s.Radius})
	}
	return s.Centre.Add(d.Normalize().Scale(s.Radius))
}

// Cylinder projects onto an infinite circular cylinder around the line
// through Origin along Axis.
type Cylinder struct {
	Origin mathutil.Vec3
	Axis   mathutil.Vec3
	Radius float64
}

func (c Cylinder) ClosestPoint(p mathutil.Vec3) mathutil.Vec3 {
	axis := c.Axis.Normalize()
	if axis.LenSq() == 0 {
		return p
	}
	d := p.Sub(c.Origin)
	along := axis.Scale(d.Dot(axis))
	radial := d.Sub(along)
	if radial.LenSq() < mathutil.ZeroTolerance {
		return p
	}
	return c.Origin.Add(along).Add(radial.Normalize().Scale(c.Radius))
}

// Polyline projects onto a chain of segments.
type Polyline []mathutil.Vec3

func (l Polyline) ClosestPoint(p mathutil.Vec3) mathutil.Vec3 {
	switch len(l) {
	case 0:
		return p
	case 1:
		return l[0]
	}
	best, bestD := l[0], math.Inf(1)
	for i := 1; i < len(l); i++ {
		q := closestOnSegment(l[i-1], l[i], p)
		if d := q.Sub(p).LenSq(); d < bestD {
			best, bestD = q, d
		}
	}
	return best
}

func closestOnSegment(a, b, p mathutil.Vec3) mathutil.Vec3 {
	ab := b.Sub(a)
	l := ab.LenSq()
	if l < mathutil.ZeroTolerance {
		return a
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(ab)/l))
	return a.Lerp(b, t)
}
