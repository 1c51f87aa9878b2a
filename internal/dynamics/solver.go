package dynamics

import (
	"meshrelax/internal/parallel"
)

// Settings tune the solver.
type Settings struct {
	// Damping removes this fraction of each body's velocity every step.
	// Only at 1 is the largest per-step displacement non-increasing; below
	// that momentum makes it oscillate under a decaying envelope.
	Damping        float64 `json:"damping" toml:"damping" yaml:"damping"`
	AngularDamping float64 `json:"angular_damping" toml:"angular_damping" yaml:"angular_damping"`

	// The solver is converged once no body moves farther than Tolerance
	// and none turns by more than AngularTolerance radians in a step.
	Tolerance        float64 `json:"tolerance" toml:"tolerance" yaml:"tolerance"`
	AngularTolerance float64 `json:"angular_tolerance" toml:"angular_tolerance" yaml:"angular_tolerance"`

	// Parallel evaluates constraints and integrates bodies on Workers
	// goroutines (0 = one per CPU).
	Parallel bool `json:"parallel" toml:"parallel" yaml:"parallel"`
	Workers  int  `json:"workers" toml:"workers" yaml:"workers"`

	// MaxSteps bounds Solve. 0 leaves it unbounded.
	MaxSteps int `json:"max_steps" toml:"max_steps" yaml:"max_steps"`
}

// DefaultSettings returns the settings used when a field is left zero by
// configuration.
func DefaultSettings() Settings {
	return Settings{
		Damping:          0.5,
		AngularDamping:   0.5,
		Tolerance:        1e-6,
		AngularTolerance: 1e-6,
		Parallel:         true,
	}
}

// Solver steps bodies under a set of constraints.
type Solver struct {
	settings Settings

	moved, turned []float64
	steps         int
	maxSpeed      float64
	maxTurn       float64
	converged     bool
}

func NewSolver(s Settings) *Solver {
	return &Solver{settings: s}
}

func (s *Solver) Settings() Settings  { return s.settings }
func (s *Solver) StepCount() int      { return s.steps }
func (s *Solver) IsConverged() bool   { return s.converged }
func (s *Solver) MaxSpeed() float64   { return s.maxSpeed }
func (s *Solver) MaxAngular() float64 { return s.maxTurn }

// Reset forgets all progress. The next Step starts from scratch.
func (s *Solver) Reset() {
	s.moved, s.turned = nil, nil
	s.steps = 0
	s.maxSpeed, s.maxTurn = 0, 0
	s.converged = false
}

func (s *Solver) workers() int {
	if !s.settings.Parallel {
		return 1
	}
	return s.settings.Workers
}

// Step runs one solver iteration over bodies.
func (s *Solver) Step(bodies []Body, constraints []Constraint) {
	if len(s.moved) != len(bodies) {
		s.moved = make([]float64, len(bodies))
		s.turned = make([]float64, len(bodies))
	}
	for i := range bodies {
		bodies[i].clearSums()
	}

	workers := s.workers()
	parallel.For(len(constraints), workers, func(i int) {
		constraints[i].Calculate(bodies)
	})
	for _, c := range constraints {
		c.Apply(bodies)
	}

	damping, angular := s.settings.Damping, s.settings.AngularDamping
	parallel.For(len(bodies), workers, func(i int) {
		s.moved[i], s.turned[i] = bodies[i].integrate(damping, angular)
	})

	s.maxSpeed, s.maxTurn = 0, 0
	for i := range bodies {
		s.maxSpeed = max(s.maxSpeed, s.moved[i])
		s.maxTurn = max(s.maxTurn, s.turned[i])
	}
	s.converged = s.maxSpeed < s.settings.Tolerance && s.maxTurn < s.settings.AngularTolerance
	s.steps++
}

// Solve steps until converged or, when MaxSteps is set, until that many
// steps have run in total. It reports whether the solver converged.
func (s *Solver) Solve(bodies []Body, constraints []Constraint) bool {
	for !s.converged {
		if s.settings.MaxSteps > 0 && s.steps >= s.settings.MaxSteps {
			break
		}
		s.Step(bodies, constraints)
	}
	return s.converged
}
