package dynamics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshrelax/internal/mathutil"
)

func randomPoints(seed int64, n int, scale float64) []mathutil.Vec3 {
	rng := rand.New(rand.NewSource(seed))
	pts := make([]mathutil.Vec3, n)
	for i := range pts {
		pts[i] = mathutil.Vec3{rng.Float64() * scale, rng.Float64() * scale, rng.Float64() * scale}
	}
	return pts
}

func TestPlanarQuadScenario(t *testing.T) {
	bodies := Bodies(randomPoints(0, 4, 10))
	require.Greater(t, mathutil.Planarity(Positions(bodies)), 1e-3)

	settings := DefaultSettings()
	settings.Tolerance = 1e-9
	settings.MaxSteps = 2000
	s := NewSolver(settings)
	ok := s.Solve(bodies, []Constraint{NewPlanarQuad(0, 1, 2, 3, 1)})

	require.True(t, ok)
	assert.Less(t, s.StepCount(), 500)
	assert.Less(t, mathutil.Planarity(Positions(bodies)), 1e-6)
	assert.Less(t, s.MaxSpeed(), settings.Tolerance)
}

func TestFullDampingIsMonotone(t *testing.T) {
	bodies := Bodies(randomPoints(0, 4, 10))
	settings := DefaultSettings()
	settings.Damping = 1
	settings.Tolerance = 1e-9
	s := NewSolver(settings)
	quad := []Constraint{NewPlanarQuad(0, 1, 2, 3, 1)}

	last := math.Inf(1)
	for range 10 {
		s.Step(bodies, quad)
		assert.LessOrEqual(t, s.MaxSpeed(), last+1e-12)
		last = s.MaxSpeed()
		if s.IsConverged() {
			break
		}
	}
	assert.True(t, s.IsConverged())
	assert.LessOrEqual(t, s.StepCount(), 3)
	assert.Less(t, mathutil.Planarity(Positions(bodies)), 1e-9)
}

// With momentum the step length swings, so compare the largest step of
// consecutive eight-step windows instead of consecutive steps.
func TestDefaultDampingEnvelopeDecays(t *testing.T) {
	bodies := Bodies(randomPoints(0, 4, 10))
	settings := DefaultSettings()
	settings.Tolerance = 1e-10
	settings.MaxSteps = 1000
	s := NewSolver(settings)
	quad := []Constraint{NewPlanarQuad(0, 1, 2, 3, 1)}

	const window = 8
	var peaks []float64
	peak := 0.0
	for !s.IsConverged() && s.StepCount() < settings.MaxSteps {
		s.Step(bodies, quad)
		peak = max(peak, s.MaxSpeed())
		if s.StepCount()%window == 0 {
			peaks = append(peaks, peak)
			peak = 0
		}
	}
	require.True(t, s.IsConverged())
	require.Greater(t, len(peaks), 3)
	for i := 2; i < len(peaks); i++ {
		assert.Less(t, peaks[i], peaks[i-1], "window %d", i)
	}
	assert.Less(t, mathutil.Planarity(Positions(bodies)), 1e-6)
}

func TestUntouchedBodyKeepsPosition(t *testing.T) {
	pts := append(randomPoints(0, 4, 10), mathutil.Vec3{50, 50, 50})
	bodies := Bodies(pts)
	bodies[4].Velocity = mathutil.Vec3{1, 1, 1}
	s := NewSolver(DefaultSettings())
	quad := []Constraint{NewPlanarQuad(0, 1, 2, 3, 1)}
	for range 20 {
		s.Step(bodies, quad)
		assert.Equal(t, mathutil.Vec3{50, 50, 50}, bodies[4].Position)
	}
	assert.Less(t, bodies[4].Velocity.Len(), 1e-5)
	assert.Zero(t, bodies[4].WeightSum)
}

func TestSerialAndParallelAgree(t *testing.T) {
	pts := randomPoints(7, 40, 10)
	rng := rand.New(rand.NewSource(3))
	var quads []Constraint
	for range 60 {
		p := rng.Perm(len(pts))
		quads = append(quads, NewPlanarQuad(p[0], p[1], p[2], p[3], 1+rng.Float64()))
	}
	run := func(par bool) []mathutil.Vec3 {
		settings := DefaultSettings()
		settings.Parallel = par
		settings.Workers = 4
		bodies := Bodies(pts)
		s := NewSolver(settings)
		for range 25 {
			s.Step(bodies, quads)
		}
		return Positions(bodies)
	}
	assert.Equal(t, run(false), run(true))
}

func TestSolveStopsAtMaxSteps(t *testing.T) {
	bodies := Bodies(randomPoints(1, 4, 10))
	settings := DefaultSettings()
	settings.Tolerance = 0
	settings.MaxSteps = 3
	s := NewSolver(settings)
	assert.False(t, s.Solve(bodies, []Constraint{NewPlanarQuad(0, 1, 2, 3, 1)}))
	assert.Equal(t, 3, s.StepCount())

	s.Reset()
	assert.Zero(t, s.StepCount())
	assert.False(t, s.IsConverged())
}

func TestNoConstraintsConvergesImmediately(t *testing.T) {
	bodies := Bodies(randomPoints(2, 3, 1))
	s := NewSolver(DefaultSettings())
	assert.True(t, s.Solve(bodies, nil))
	assert.Equal(t, 1, s.StepCount())
}
