package relax

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshrelax/internal/dynamics"
	"meshrelax/internal/mathutil"
	"meshrelax/internal/meshgen"
	"meshrelax/internal/target"
)

func tight() dynamics.Settings {
	s := dynamics.DefaultSettings()
	s.Tolerance = 1e-9
	s.MaxSteps = 5000
	return s
}

func worstFace(m *meshgen.Mesh) float64 {
	var worst float64
	for f := range m.Faces() {
		var pts []mathutil.Vec3
		for v := range m.FaceVertices(f) {
			pts = append(pts, *m.VertexData(v))
		}
		worst = math.Max(worst, mathutil.Planarity(pts))
	}
	return worst
}

func TestBindSkipsRemovedVertices(t *testing.T) {
	m, err := meshgen.Grid(2, 2, 1, false)
	require.NoError(t, err)
	extra := m.AddVertex()
	*m.VertexData(extra) = mathutil.Vec3{9, 9, 9}
	m.RemoveVertex(extra)

	b := Bind(m)
	assert.Len(t, b.Bodies, 9)
	assert.Equal(t, -1, b.Body(extra))
	for i := range b.Bodies {
		assert.Equal(t, i, b.Body(b.Vertex(i)))
		assert.Equal(t, *m.VertexData(b.Vertex(i)), b.Bodies[i].Position)
	}

	b.Bodies[4].Position = mathutil.Vec3{1, 1, 5}
	b.Store()
	assert.Equal(t, mathutil.Vec3{1, 1, 5}, *m.VertexData(b.Vertex(4)))
}

func TestBindConstraintSets(t *testing.T) {
	m, err := meshgen.Grid(3, 3, 1, false)
	require.NoError(t, err)
	b := Bind(m)
	assert.Len(t, b.FacePlanarity(1), 9)
	assert.Len(t, b.Springs(-1, 0.1), m.EdgeCount())
	assert.Len(t, b.PinBoundary(1).Handles(), 12)
	assert.Len(t, b.Onto(target.Sphere{Radius: 1}, 1, false).Handles(), 16)
	assert.NotNil(t, b.EqualEdges(1))

	closed, err := meshgen.Box(mathutil.Vec3{}, mathutil.Vec3{1, 1, 1})
	require.NoError(t, err)
	cb := Bind(closed)
	assert.Nil(t, cb.PinBoundary(1))
	assert.Nil(t, cb.Onto(target.Sphere{Radius: 1}, 1, true))
}

func TestRelaxPlanarizesJitteredGrid(t *testing.T) {
	m, err := meshgen.Grid(4, 4, 1, false)
	require.NoError(t, err)
	meshgen.Jitter(m, 0.2, 1)
	require.Greater(t, worstFace(m), 0.01)

	rep, err := Relax(context.Background(), m, tight(), Goals{Planarity: 1})
	require.NoError(t, err)
	assert.True(t, rep.Converged)
	assert.Less(t, worstFace(m), 1e-6)
	require.NoError(t, m.Validate())
}

func TestRelaxOntoSphere(t *testing.T) {
	m, err := meshgen.Icosahedron(1)
	require.NoError(t, err)
	meshgen.Jitter(m, 0.3, 2)
	sphere := target.Sphere{Radius: 2}

	rep, err := Relax(context.Background(), m, tight(), Goals{Onto: Target{Oracle: sphere, Weight: 1}})
	require.NoError(t, err)
	assert.True(t, rep.Converged)
	for v := range m.Vertices() {
		assert.InDelta(t, 2, m.VertexData(v).Len(), 1e-6)
	}
}

func TestRelaxHonoursCancellation(t *testing.T) {
	m, err := meshgen.Grid(3, 3, 1, false)
	require.NoError(t, err)
	meshgen.Jitter(m, 0.2, 3)
	before := meshgen.Positions(m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := Relax(ctx, m, tight(), Goals{Planarity: 1, PinBoundary: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, rep.Steps)
	assert.Equal(t, before, meshgen.Positions(m))
}

func TestRunStopsAtMaxSteps(t *testing.T) {
	m, err := meshgen.Grid(3, 3, 1, false)
	require.NoError(t, err)
	meshgen.Jitter(m, 0.2, 4)
	b := Bind(m)
	s := dynamics.DefaultSettings()
	s.Tolerance = 0
	s.MaxSteps = 7

	rep, err := Run(context.Background(), dynamics.NewSolver(s), b.Bodies, b.FacePlanarity(1))
	require.NoError(t, err)
	assert.Equal(t, 7, rep.Steps)
	assert.False(t, rep.Converged)
}

func meanEdge(m *meshgen.Mesh) float64 {
	var sum float64
	for h := range m.Edges() {
		sum += edgeLength(m, h)
	}
	return sum / float64(m.EdgeCount())
}

func allTriangles(t *testing.T, m *meshgen.Mesh) {
	t.Helper()
	for f := range m.Faces() {
		assert.Equal(t, 3, m.FaceDegree(f))
	}
}

func TestRemeshRefines(t *testing.T) {
	m, err := meshgen.Grid(4, 4, 1, true)
	require.NoError(t, err)
	before, faces := meanEdge(m), m.FaceCount()

	st, err := Remesh(m, RemeshOptions{Length: 0.5, Iterations: 3})
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	allTriangles(t, m)

	assert.Positive(t, st.Splits)
	assert.Greater(t, m.FaceCount(), faces)
	assert.Less(t, meanEdge(m), 0.8*before)
	assert.Equal(t, 1, m.VertexCount()-m.EdgeCount()+m.FaceCount())
	assert.Equal(t, m.VertexCount(), m.VertexSlots())
}

func TestRemeshCoarsens(t *testing.T) {
	m, err := meshgen.Grid(6, 6, 1, true)
	require.NoError(t, err)
	faces := m.FaceCount()

	st, err := Remesh(m, RemeshOptions{Length: 3, Iterations: 2})
	require.NoError(t, err)
	require.NoError(t, m.Validate())
	allTriangles(t, m)

	assert.Positive(t, st.Collapses)
	assert.Less(t, m.FaceCount(), faces)
	assert.Equal(t, 1, m.VertexCount()-m.EdgeCount()+m.FaceCount())
	for v := range m.Vertices() {
		p := *m.VertexData(v)
		assert.True(t, p[0] >= 0 && p[0] <= 6 && p[1] >= 0 && p[1] <= 6, "vertex %d left the sheet: %v", v, p)
	}
}

func TestRemeshRejectsBadLength(t *testing.T) {
	m, err := meshgen.Grid(1, 1, 1, true)
	require.NoError(t, err)
	_, err = Remesh(m, RemeshOptions{})
	assert.Error(t, err)
	assert.Equal(t, 2, m.FaceCount())
}
