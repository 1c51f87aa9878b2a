package hemesh_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"meshrelax/internal/hemesh"
	"meshrelax/internal/mathutil"
)

type pmesh = hemesh.Mesh[mathutil.Vec3, struct{}, struct{}]

var posFactory = hemesh.Factory[mathutil.Vec3, struct{}, struct{}, struct{}]{}

func build(t *testing.T, pts []mathutil.Vec3, polys [][]hemesh.VertexID) *pmesh {
	t.Helper()
	m, err := hemesh.FromPolygons(posFactory, len(pts), polys)
	require.NoError(t, err)
	for i, p := range pts {
		*m.VertexData(hemesh.VertexID(i)) = p
	}
	require.NoError(t, m.Validate())
	return m
}

// unitCube has vertex x + 2y + 4z at (x, y, z) and outward quad faces.
func unitCube(t *testing.T) *pmesh {
	var pts []mathutil.Vec3
	for v := range 8 {
		pts = append(pts, mathutil.Vec3{float64(v & 1), float64(v >> 1 & 1), float64(v >> 2 & 1)})
	}
	return build(t, pts, [][]hemesh.VertexID{
		{0, 2, 3, 1}, {4, 5, 7, 6},
		{0, 1, 5, 4}, {2, 6, 7, 3},
		{0, 4, 6, 2}, {1, 3, 7, 5},
	})
}

func gridPoints(n int) []mathutil.Vec3 {
	var pts []mathutil.Vec3
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			pts = append(pts, mathutil.Vec3{float64(i), float64(j), 0})
		}
	}
	return pts
}

func gv(n, i, j int) hemesh.VertexID { return hemesh.VertexID(j*(n+1) + i) }

// triGrid is an n×n grid of unit squares, each cut along its (i,j)-(i+1,j+1) diagonal.
func triGrid(t *testing.T, n int) *pmesh {
	var polys [][]hemesh.VertexID
	for j := range n {
		for i := range n {
			a, b, c, d := gv(n, i, j), gv(n, i+1, j), gv(n, i+1, j+1), gv(n, i, j+1)
			polys = append(polys, []hemesh.VertexID{a, b, c}, []hemesh.VertexID{a, c, d})
		}
	}
	return build(t, gridPoints(n), polys)
}

func quadGrid(t *testing.T, n int) *pmesh {
	var polys [][]hemesh.VertexID
	for j := range n {
		for i := range n {
			polys = append(polys, []hemesh.VertexID{gv(n, i, j), gv(n, i+1, j), gv(n, i+1, j+1), gv(n, i, j+1)})
		}
	}
	return build(t, gridPoints(n), polys)
}

func boundaryHalfedges(m *pmesh) int {
	n := 0
	for h := range m.Halfedges() {
		if m.FaceOf(h) == hemesh.NoFace {
			n++
		}
	}
	return n
}

func euler(m *pmesh) int {
	return m.VertexCount() - m.EdgeCount() + m.FaceCount()
}

// topology lists every link of m: next, prev, start and face per halfedge,
// first per vertex and face. Removed slots record -2.
func topology(m *pmesh) []int32 {
	var out []int32
	for i := range m.HalfedgeSlots() {
		h := hemesh.HalfedgeID(i)
		if !m.IsHalfedgeLive(h) {
			out = append(out, -2)
			continue
		}
		out = append(out, int32(m.Next(h)), int32(m.Prev(h)), int32(m.Start(h)), int32(m.FaceOf(h)))
	}
	for i := range m.VertexSlots() {
		v := hemesh.VertexID(i)
		if !m.IsVertexLive(v) {
			out = append(out, -2)
			continue
		}
		out = append(out, int32(m.FirstOut(v)))
	}
	for i := range m.FaceSlots() {
		f := hemesh.FaceID(i)
		if !m.IsFaceLive(f) {
			out = append(out, -2)
			continue
		}
		out = append(out, int32(m.Face(f).First()))
	}
	return out
}
