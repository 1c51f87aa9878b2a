package hemesh_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshrelax/internal/hemesh"
	"meshrelax/internal/mathutil"
)

func faceCentre(m *pmesh, f hemesh.FaceID) mathutil.Vec3 {
	var pts []mathutil.Vec3
	for v := range m.FaceVertices(f) {
		pts = append(pts, *m.VertexData(v))
	}
	return mathutil.Centroid(pts)
}

func TestDualOfCube(t *testing.T) {
	m := unitCube(t)
	d := m.Dual(func(dst *mathutil.Vec3, f hemesh.FaceID) { *dst = faceCentre(m, f) }, nil)
	require.NoError(t, d.Validate())
	assert.Equal(t, 6, d.VertexCount())
	assert.Equal(t, 12, d.EdgeCount())
	assert.Equal(t, 8, d.FaceCount())
	for f := range d.Faces() {
		assert.Equal(t, 3, d.FaceDegree(f))
	}
	assert.Equal(t, mathutil.Vec3{0.5, 0.5, 0}, *d.VertexData(0))

	dd := d.Dual(nil, nil)
	require.NoError(t, dd.Validate())
	assert.Equal(t, 8, dd.VertexCount())
	assert.Equal(t, 6, dd.FaceCount())
}

func TestDualSkipsBoundaryVertices(t *testing.T) {
	m := quadGrid(t, 3)
	var src []hemesh.VertexID
	d := m.Dual(nil, func(_ *struct{}, v hemesh.VertexID) { src = append(src, v) })
	require.NoError(t, d.Validate())
	assert.Equal(t, 9, d.VertexCount())
	assert.Equal(t, 4, d.FaceCount())
	assert.ElementsMatch(t, []hemesh.VertexID{gv(3, 1, 1), gv(3, 2, 1), gv(3, 1, 2), gv(3, 2, 2)}, src)
}

func TestAppendAndSplitDisjoint(t *testing.T) {
	m := unitCube(t)
	other := unitCube(t)
	off := m.Append(other, nil, nil, func(dst, src *struct{}) {})
	require.NoError(t, m.Validate())
	assert.Equal(t, hemesh.VertexID(8), off)
	assert.Equal(t, 16, m.VertexCount())
	assert.Equal(t, 12, m.FaceCount())
	assert.Equal(t, 4, euler(m))

	m.AddVertex()
	parts := m.SplitDisjoint()
	require.Len(t, parts, 3)
	for _, p := range parts[:2] {
		require.NoError(t, p.Validate())
		assert.Equal(t, 8, p.VertexCount())
		assert.Equal(t, 6, p.FaceCount())
		assert.Equal(t, 2, euler(p))
	}
	assert.Equal(t, 1, parts[2].VertexCount())
	assert.Equal(t, *other.VertexData(7), *parts[1].VertexData(7))
}

func TestAppendKeepsRemovedSlots(t *testing.T) {
	m := unitCube(t)
	other := quadGrid(t, 2)
	other.RemoveFace(0)
	m.Append(other, nil, nil, nil)
	require.NoError(t, m.Validate())
	m.Compact()
	require.NoError(t, m.Validate())
	assert.Equal(t, 6+3, m.FaceCount())
}
