package dynamics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshrelax/internal/mathutil"
	"meshrelax/internal/target"
)

func solveTight(t *testing.T, bodies []Body, cs ...Constraint) *Solver {
	t.Helper()
	settings := DefaultSettings()
	settings.Tolerance = 1e-10
	settings.AngularTolerance = 1e-10
	settings.MaxSteps = 5000
	s := NewSolver(settings)
	require.True(t, s.Solve(bodies, cs), "no convergence after %d steps", s.StepCount())
	return s
}

func TestPlanarityPolygon(t *testing.T) {
	bodies := Bodies(randomPoints(5, 6, 10))
	solveTight(t, bodies, NewPlanarity([]int{0, 1, 2, 3, 4, 5}, 1))
	assert.Less(t, mathutil.Planarity(Positions(bodies)), 1e-6)
}

func TestOnTargetSphere(t *testing.T) {
	bodies := Bodies(randomPoints(6, 5, 4))
	sphere := target.Sphere{Centre: mathutil.Vec3{2, 2, 2}, Radius: 3}
	solveTight(t, bodies, NewOnTarget([]int{0, 1, 2, 3, 4}, sphere, 1))
	for _, b := range bodies {
		assert.InDelta(t, 3, b.Position.Dist(sphere.Centre), 1e-6)
	}
}

func TestDistance(t *testing.T) {
	bodies := Bodies([]mathutil.Vec3{{0, 0, 0}, {1, 0, 0}})
	solveTight(t, bodies, NewDistance(0, 1, 2, 1))
	assert.InDelta(t, 2, bodies[0].Position.Dist(bodies[1].Position), 1e-6)
	// symmetric corrections keep the midpoint
	assert.InDelta(t, 0.5, bodies[0].Position.Add(bodies[1].Position).Scale(0.5)[0], 1e-9)
}

func TestEqualLength(t *testing.T) {
	bodies := Bodies([]mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {3, 0, 0}, {6, 0, 0}})
	solveTight(t, bodies, NewEqualLength([][2]int{{0, 1}, {1, 2}, {2, 3}}, 1))
	l01 := bodies[0].Position.Dist(bodies[1].Position)
	assert.InDelta(t, l01, bodies[1].Position.Dist(bodies[2].Position), 1e-6)
	assert.InDelta(t, l01, bodies[2].Position.Dist(bodies[3].Position), 1e-6)
}

func TestAnchorAgainstGravity(t *testing.T) {
	bodies := Bodies([]mathutil.Vec3{{0, 0, 0}})
	bodies[0].Mass = 2
	anchor := AnchorHere(bodies, []int{0}, 1)
	gravity := NewConstantForce([]int{0}, mathutil.Vec3{0, 0, -0.1}, 1)
	solveTight(t, bodies, anchor, gravity)
	// equilibrium: the anchor's pull cancels force/mass
	assert.InDelta(t, -0.05, bodies[0].Position[2], 1e-6)
}

func TestSpringRestLength(t *testing.T) {
	bodies := Bodies([]mathutil.Vec3{{0, 0, 0}, {0, 3, 0}})
	solveTight(t, bodies, NewSpring(0, 1, 1, 0.1))
	assert.InDelta(t, 1, bodies[0].Position.Dist(bodies[1].Position), 1e-6)
}

func TestAlignRotation(t *testing.T) {
	bodies := Bodies([]mathutil.Vec3{{0, 0, 0}})
	goal := mathutil.QuatFromAxisAngle(mathutil.Vec3{0, 0, 1}, math.Pi/2)
	align := NewAlignRotation([]int{0}, goal, 1)
	require.True(t, align.AppliesRotation())

	solveTight(t, bodies, align)
	got := bodies[0].Rotation.Rotate(mathutil.Vec3{1, 0, 0})
	assert.InDelta(t, 0, got[0], 1e-6)
	assert.InDelta(t, 1, got[1], 1e-6)
	assert.Equal(t, mathutil.Vec3{}, bodies[0].Position)
}

func TestDegenerateQuadHoldsStill(t *testing.T) {
	p := mathutil.Vec3{1, 1, 1}
	bodies := Bodies([]mathutil.Vec3{p, p, p, p})
	s := NewSolver(DefaultSettings())
	s.Step(bodies, []Constraint{NewPlanarQuad(0, 1, 2, 3, 1)})
	assert.True(t, s.IsConverged())
	for _, b := range bodies {
		assert.Equal(t, p, b.Position)
	}
}
