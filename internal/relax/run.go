package relax

import (
	"context"
	"fmt"

	"meshrelax/internal/dynamics"
	"meshrelax/internal/hemesh"
	"meshrelax/internal/mathutil"
	"meshrelax/internal/target"
)

// Report summarises a solver run.
type Report struct {
	Steps     int
	Converged bool
	MaxSpeed  float64
}

// Run steps s until it converges, reaches its MaxSteps, or ctx is done.
// Cancellation is checked between steps; the bodies keep the state of the
// last completed step.
func Run(ctx context.Context, s *dynamics.Solver, bodies []dynamics.Body, constraints []dynamics.Constraint) (Report, error) {
	maxSteps := s.Settings().MaxSteps
	for !s.IsConverged() {
		if maxSteps > 0 && s.StepCount() >= maxSteps {
			break
		}
		if err := ctx.Err(); err != nil {
			return report(s), fmt.Errorf("relax: after %d steps: %w", s.StepCount(), err)
		}
		s.Step(bodies, constraints)
	}
	return report(s), nil
}

func report(s *dynamics.Solver) Report {
	return Report{Steps: s.StepCount(), Converged: s.IsConverged(), MaxSpeed: s.MaxSpeed()}
}

// Goals selects the constraints Relax derives from a mesh. Zero weights
// disable a goal.
type Goals struct {
	Planarity   float64
	EqualEdges  float64
	PinBoundary float64
	Onto        Target
}

// Target pairs an oracle with the weight pulling vertices onto it.
type Target struct {
	Oracle       target.Oracle
	Weight       float64
	BoundaryOnly bool
}

// Relax binds m, solves the goals with the given settings and stores the
// result, also when ctx ends the run early.
func Relax[E, F any](ctx context.Context, m *hemesh.Mesh[mathutil.Vec3, E, F], settings dynamics.Settings, g Goals) (Report, error) {
	b := Bind(m)
	var cs []dynamics.Constraint
	if g.Planarity > 0 {
		cs = b.FacePlanarity(g.Planarity)
	}
	add := func(c dynamics.Constraint) {
		if c != nil {
			cs = append(cs, c)
		}
	}
	if g.EqualEdges > 0 {
		add(b.EqualEdges(g.EqualEdges))
	}
	if g.PinBoundary > 0 {
		add(b.PinBoundary(g.PinBoundary))
	}
	if g.Onto.Oracle != nil && g.Onto.Weight > 0 {
		add(b.Onto(g.Onto.Oracle, g.Onto.Weight, g.Onto.BoundaryOnly))
	}

	rep, err := Run(ctx, dynamics.NewSolver(settings), b.Bodies, cs)
	b.Store()
	return rep, err
}
