package hemesh_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshrelax/internal/hemesh"
	"meshrelax/internal/mathutil"
)

func unroll(m *pmesh, start hemesh.FaceID) int {
	return m.Unroll(start,
		func(v hemesh.VertexID) mathutil.Vec3 { return *m.VertexData(v) },
		func(v hemesh.VertexID, p mathutil.Vec3) { *m.VertexData(v) = p })
}

func TestUnrollCubeIsFlat(t *testing.T) {
	m := unitCube(t)
	cuts := unroll(m, 0)
	require.NoError(t, m.Validate())
	assert.Equal(t, 7, cuts)
	assert.Equal(t, 14, m.VertexCount())
	assert.Len(t, m.Components(), 1)

	for v := range m.Vertices() {
		assert.InDelta(t, 0, m.VertexData(v)[2], 1e-9, "vertex %d", v)
	}
	for h := range m.Halfedges() {
		a, b := *m.VertexData(m.Start(h)), *m.VertexData(m.End(h))
		assert.InDelta(t, 1, a.Dist(b), 1e-9)
	}
	// no two faces overlap: face centres are at least one unit apart
	var centres []mathutil.Vec3
	for f := range m.Faces() {
		centres = append(centres, faceCentre(m, f))
	}
	for i := range centres {
		for j := range i {
			assert.GreaterOrEqual(t, centres[i].Dist(centres[j]), 1-1e-9)
		}
	}
}

func TestUnrollFoldedStrip(t *testing.T) {
	// three unit squares folded 90 degrees at each hinge
	pts := []mathutil.Vec3{
		{0, 0, 0}, {0, 1, 0},
		{1, 0, 0}, {1, 1, 0},
		{1, 0, 1}, {1, 1, 1},
		{2, 0, 1}, {2, 1, 1},
	}
	m := build(t, pts, [][]hemesh.VertexID{{0, 2, 3, 1}, {2, 4, 5, 3}, {4, 6, 7, 5}})
	assert.Zero(t, unroll(m, 0))
	require.NoError(t, m.Validate())

	want := []float64{0, 0, 1, 1, 2, 2, 3, 3}
	for v := range m.Vertices() {
		p := *m.VertexData(v)
		assert.InDelta(t, 0, p[2], 1e-9)
		assert.InDelta(t, want[v], p[0], 1e-9, "vertex %d", v)
	}
}

func TestUnrollKeepsExcludedVertices(t *testing.T) {
	pts := []mathutil.Vec3{{0, 0, 0}, {0, 1, 0}, {1, 0, 0}, {1, 1, 0}, {1, 0, 1}, {1, 1, 1}}
	m := build(t, pts, [][]hemesh.VertexID{{0, 2, 3, 1}, {2, 4, 5, 3}})
	m.Vertex(4).Tag = hemesh.TagExcluded
	unroll(m, 0)
	assert.Equal(t, mathutil.Vec3{1, 0, 1}, *m.VertexData(4))
	assert.InDelta(t, 2, m.VertexData(5)[0], 1e-9)
	assert.InDelta(t, 0, math.Abs(m.VertexData(5)[2]), 1e-9)
}
