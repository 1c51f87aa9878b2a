package mathutil

import "math"

// Rigid is a rotation followed by a translation: p' = R·p + T.
type Rigid struct {
	R Mat3
	T Vec3
}

func RigidIdentity() Rigid {
	return Rigid{R: Mat3Identity()}
}

// Apply transforms the point p.
func (a Rigid) Apply(p Vec3) Vec3 {
	return a.R.MulVec3(p).Add(a.T)
}

// Then returns the transform that applies b first and a second.
func (a Rigid) Then(b Rigid) Rigid {
	return Rigid{R: Mat3Mul(a.R, b.R), T: a.R.MulVec3(b.T).Add(a.T)}
}

// Inverse undoes a.
func (a Rigid) Inverse() Rigid {
	rt := a.R.Transpose()
	return Rigid{R: rt, T: rt.MulVec3(a.T).Neg()}
}

func (a Rigid) IsIdentity() bool {
	id := Mat3Identity()
	for i := range a.R {
		if math.Abs(a.R[i]-id[i]) > 1e-8 {
			return false
		}
	}
	return a.T.Len() <= 1e-8
}

// RotationAbout turns by angle radians around the line through origin with
// unit direction axis.
func RotationAbout(origin, axis Vec3, angle float64) Rigid {
	r := RotAxis(axis, angle)
	return Rigid{R: r, T: origin.Sub(r.MulVec3(origin))}
}

// RotAxis is the rotation matrix for angle radians around a unit axis.
func RotAxis(axis Vec3, a float64) Mat3 {
	return QuatToMat3(QuatFromAxisAngle(axis, a))
}

func RotX(a float64) Mat3 { return RotAxis(Vec3{1, 0, 0}, a) }
func RotY(a float64) Mat3 { return RotAxis(Vec3{0, 1, 0}, a) }
func RotZ(a float64) Mat3 { return RotAxis(Vec3{0, 0, 1}, a) }

// SignedAngle returns the angle in (-π, π] turning a onto b around axis.
// a and b must be perpendicular to axis.
func SignedAngle(a, b, axis Vec3) float64 {
	return math.Atan2(axis.Dot(a.Cross(b)), a.Dot(b))
}

func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
