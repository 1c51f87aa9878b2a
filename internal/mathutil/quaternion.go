package mathutil

import "math"

// Quat represents a quaternion (x, y, z, w).
type Quat [4]float64

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// QuatFromAxisAngle builds a rotation of angle radians around a unit axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	s, c := math.Sin(angle*0.5), math.Cos(angle*0.5)
	return Quat{axis[0] * s, axis[1] * s, axis[2] * s, c}
}

// QuatFromRotationVector converts a rotation vector (axis scaled by angle).
// Near-zero vectors map to the identity.
func QuatFromRotationVector(v Vec3) Quat {
	angle := v.Len()
	if angle < ZeroTolerance {
		return QuatIdentity()
	}
	return QuatFromAxisAngle(v.Scale(1/angle), angle)
}

// RotationVector returns the rotation vector (axis × angle) of a unit quaternion,
// taking the shortest arc.
func (q Quat) RotationVector() Vec3 {
	if q[3] < 0 {
		q = Quat{-q[0], -q[1], -q[2], -q[3]}
	}
	v := Vec3{q[0], q[1], q[2]}
	s := v.Len()
	if s < ZeroTolerance {
		return Vec3{}
	}
	angle := 2 * math.Atan2(s, q[3])
	return v.Scale(angle / s)
}

// Mul returns the Hamilton product a × b (apply b, then a).
func (a Quat) Mul(b Quat) Quat {
	return Quat{
		a[3]*b[0] + a[0]*b[3] + a[1]*b[2] - a[2]*b[1],
		a[3]*b[1] - a[0]*b[2] + a[1]*b[3] + a[2]*b[0],
		a[3]*b[2] + a[0]*b[1] - a[1]*b[0] + a[2]*b[3],
		a[3]*b[3] - a[0]*b[0] - a[1]*b[1] - a[2]*b[2],
	}
}

// Conj returns the conjugate (the inverse for unit quaternions).
func (q Quat) Conj() Quat {
	return Quat{-q[0], -q[1], -q[2], q[3]}
}

// Normalize returns q scaled to unit length; degenerate input yields the identity.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if l < ZeroTolerance {
		return QuatIdentity()
	}
	return Quat{q[0] / l, q[1] / l, q[2] / l, q[3] / l}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	return QuatToMat3(q).MulVec3(v)
}

// QuatToMat3 converts a quaternion to a 3×3 rotation matrix.
func QuatToMat3(q Quat) Mat3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}
