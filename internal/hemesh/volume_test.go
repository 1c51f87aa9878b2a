package hemesh_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshrelax/internal/hemesh"
)

type vol = hemesh.Volume[struct{}, struct{}, struct{}, string]

func tetra(a, b, c, d hemesh.VertexID) [][]hemesh.VertexID {
	return [][]hemesh.VertexID{{a, c, b}, {a, b, d}, {b, c, d}, {a, d, c}}
}

func twoTetra(t *testing.T) *vol {
	t.Helper()
	m := hemesh.NewVolume(hemesh.Factory[struct{}, struct{}, struct{}, string]{
		Cell: func() string { return "cell" },
	}, hemesh.Capacity{})
	m.AddVertices(5)
	cells, err := m.AddCells([][][]hemesh.VertexID{tetra(0, 1, 2, 3), tetra(4, 1, 3, 2)})
	require.NoError(t, err)
	require.Len(t, cells, 2)
	require.NoError(t, m.Validate())
	return m
}

func TestVolumeTwoCells(t *testing.T) {
	m := twoTetra(t)
	assert.Equal(t, 2, m.CellCount())
	assert.Equal(t, 14, m.FaceCount())
	assert.Equal(t, 42, m.HalfedgeCount())
	assert.Equal(t, "cell", *m.CellData(1))

	boundary := 0
	for f := range m.Faces() {
		if m.CellOf(f) == hemesh.NoCell {
			boundary++
		}
	}
	assert.Equal(t, 6, boundary)

	for c := range m.Cells() {
		assert.Len(t, collect(m.CellFaces(c)), 4)
	}
}

func TestVolumeRadialCycles(t *testing.T) {
	m := twoTetra(t)
	var shared, outer hemesh.HalfedgeID = hemesh.NoHalfedge, hemesh.NoHalfedge
	for h := range m.Halfedges() {
		if m.Start(h) == 1 && m.End(h) == 2 && m.Halfedge(h).Cell() != hemesh.NoCell {
			shared = h
		}
		if m.Start(h) == 0 && m.End(h) == 1 && m.Halfedge(h).Cell() != hemesh.NoCell {
			outer = h
		}
	}
	require.NotEqual(t, hemesh.NoHalfedge, shared)
	require.NotEqual(t, hemesh.NoHalfedge, outer)

	// 1-2 lies on both cells and the outer shell
	assert.Len(t, collect(m.EdgeFaces(shared)), 6)
	// 0-1 lies on the first cell and the outer shell only
	assert.Len(t, collect(m.EdgeFaces(outer)), 4)

	a := m.Adjacent(outer)
	assert.Equal(t, outer, m.Adjacent(a))
	assert.Equal(t, m.Start(outer), m.End(a))
	assert.NotEqual(t, m.FaceOf(outer), m.FaceOf(a))
}

func TestVolumeCompact(t *testing.T) {
	m := twoTetra(t)
	m.AddVertex()
	m.Compact()
	require.NoError(t, m.Validate())
	assert.Equal(t, 6, m.VertexCount())
}

func TestAddCellsRejectsOpenCell(t *testing.T) {
	m := hemesh.NewVolume(hemesh.Factory[struct{}, struct{}, struct{}, string]{}, hemesh.Capacity{})
	m.AddVertices(4)
	open := tetra(0, 1, 2, 3)
	open[3] = []hemesh.VertexID{0, 2, 3}
	_, err := m.AddCells([][][]hemesh.VertexID{open})
	assert.True(t, errors.Is(err, hemesh.ErrNonManifold))
	assert.Zero(t, m.FaceCount())
	assert.Zero(t, m.HalfedgeCount())
}
