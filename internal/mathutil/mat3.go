package mathutil

// Mat3 is a row-major 3×3 matrix; rows are m[0:3], m[3:6], m[6:9].
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Row returns row i.
func (m Mat3) Row(i int) Vec3 {
	return Vec3{m[3*i], m[3*i+1], m[3*i+2]}
}

// Col returns column j.
func (m Mat3) Col(j int) Vec3 {
	return Vec3{m[j], m[3+j], m[6+j]}
}

// Mat3Mul returns a·b.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for i := range 3 {
		r := a.Row(i)
		for j := range 3 {
			m[3*i+j] = r.Dot(b.Col(j))
		}
	}
	return m
}

func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{m.Row(0).Dot(v), m.Row(1).Dot(v), m.Row(2).Dot(v)}
}

// Transpose is the inverse of a rotation.
func (m Mat3) Transpose() Mat3 {
	var t Mat3
	for i := range 3 {
		for j := range 3 {
			t[3*j+i] = m[3*i+j]
		}
	}
	return t
}
