package meshgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshrelax/internal/mathutil"
)

func euler(m *Mesh) int { return m.VertexCount() - m.EdgeCount() + m.FaceCount() }

func TestGrid(t *testing.T) {
	tests := []struct {
		name      string
		triangles bool
		v, e, f   int
	}{
		{"quads", false, 12, 17, 6},
		{"triangles", true, 12, 23, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Grid(3, 2, 0.5, tt.triangles)
			require.NoError(t, err)
			require.NoError(t, m.Validate())
			assert.Equal(t, tt.v, m.VertexCount())
			assert.Equal(t, tt.e, m.EdgeCount())
			assert.Equal(t, tt.f, m.FaceCount())
			assert.Equal(t, 1, euler(m))
			assert.Equal(t, mathutil.Vec3{1.5, 1, 0}, *m.VertexData(11))
		})
	}

	_, err := Grid(0, 3, 1, false)
	assert.Error(t, err)
}

func TestBox(t *testing.T) {
	m, err := Box(mathutil.Vec3{-1, -1, -1}, mathutil.Vec3{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Equal(t, 2, euler(m))
	assert.Equal(t, 12, m.EdgeCount())
	assert.Equal(t, mathutil.Vec3{1, 2, 3}, *m.VertexData(7))
	for v := range m.Vertices() {
		assert.False(t, m.IsBoundaryVertex(v))
	}
}

func TestIcosahedronIsOutward(t *testing.T) {
	m, err := Icosahedron(2)
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	assert.Equal(t, 12, m.VertexCount())
	assert.Equal(t, 30, m.EdgeCount())
	assert.Equal(t, 20, m.FaceCount())

	for v := range m.Vertices() {
		assert.Equal(t, 5, m.Degree(v))
		assert.InDelta(t, 2, m.VertexData(v).Len(), 1e-12)
	}
	for f := range m.Faces() {
		c := m.FaceVertexList(f)
		a, b, d := *m.VertexData(c[0]), *m.VertexData(c[1]), *m.VertexData(c[2])
		n := b.Sub(a).Cross(d.Sub(a))
		assert.Greater(t, n.Dot(a.Add(b).Add(d)), 0.0, "face %d faces inward", f)
	}
}

func TestPrism(t *testing.T) {
	v, err := Prism(2)
	require.NoError(t, err)
	require.NoError(t, v.Validate())
	assert.Equal(t, 2, v.CellCount())
	assert.Equal(t, 12, v.VertexCount())
	assert.Equal(t, 22, v.FaceCount())
	assert.Equal(t, 88, v.HalfedgeCount())
	assert.Equal(t, mathutil.Vec3{1, 1, 2}, *v.VertexData(11))

	for c := range v.Cells() {
		n := 0
		for range v.CellFaces(c) {
			n++
		}
		assert.Equal(t, 6, n)
	}

	_, err = Prism(0)
	assert.Error(t, err)
}

func TestJitterIsSeeded(t *testing.T) {
	a, err := Grid(2, 2, 1, false)
	require.NoError(t, err)
	b := a.Clone()
	Jitter(a, 0.1, 42)
	Jitter(b, 0.1, 42)
	assert.Equal(t, Positions(a), Positions(b))

	flat, err := Grid(2, 2, 1, false)
	require.NoError(t, err)
	for v := range a.Vertices() {
		d := a.VertexData(v).Sub(*flat.VertexData(v))
		for k := range 3 {
			assert.LessOrEqual(t, d[k], 0.1)
			assert.GreaterOrEqual(t, d[k], -0.1)
		}
	}
	assert.NotEqual(t, Positions(flat), Positions(a))
	assert.Len(t, Positions(a), a.VertexSlots())
}
