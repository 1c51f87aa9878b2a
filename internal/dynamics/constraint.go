package dynamics

import "meshrelax/internal/mathutil"

// Constraint is anything the solver can step: a positional constraint, a
// rotational one, or a force.
//
// Calculate may run concurrently with other constraints' Calculate and must
// only read bodies. Apply runs serially and adds the computed result into
// the accumulators of the constraint's handles.
type Constraint interface {
	Handles() []int
	Weight() float64
	AppliesRotation() bool
	Calculate(bodies []Body)
	Apply(bodies []Body)
}

// moves is the shared part of positional constraints: one correction
// vector per handle, applied with the constraint's weight.
type moves struct {
	handles []int
	weight  float64
	deltas  []mathutil.Vec3
}

func newMoves(handles []int, weight float64) moves {
	return moves{handles: handles, weight: weight, deltas: make([]mathutil.Vec3, len(handles))}
}

func (m *moves) Handles() []int        { return m.handles }
func (m *moves) Weight() float64       { return m.weight }
func (m *moves) AppliesRotation() bool { return false }

func (m *moves) Apply(bodies []Body) {
	for i, h := range m.handles {
		b := &bodies[h]
		b.MoveSum = b.MoveSum.Add(m.deltas[i].Scale(m.weight))
		b.WeightSum += m.weight
	}
}

func (m *moves) points(bodies []Body) []mathutil.Vec3 {
	pts := make([]mathutil.Vec3, len(m.handles))
	for i, h := range m.handles {
		pts[i] = bodies[h].Position
	}
	return pts
}

func (m *moves) hold() {
	clear(m.deltas)
}
