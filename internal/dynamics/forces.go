package dynamics

import "meshrelax/internal/mathutil"

// ConstantForce pushes bodies with a fixed force, gravity for example.
// Weight scales the force.
type ConstantForce struct {
	handles []int
	weight  float64
	Force   mathutil.Vec3
}

func NewConstantForce(handles []int, force mathutil.Vec3, weight float64) *ConstantForce {
	return &ConstantForce{handles: handles, weight: weight, Force: force}
}

func (f *ConstantForce) Handles() []int        { return f.handles }
func (f *ConstantForce) Weight() float64       { return f.weight }
func (f *ConstantForce) AppliesRotation() bool { return false }
func (f *ConstantForce) Calculate([]Body)      {}

func (f *ConstantForce) Apply(bodies []Body) {
	d := f.Force.Scale(f.weight)
	for _, h := range f.handles {
		bodies[h].ForceSum = bodies[h].ForceSum.Add(d)
	}
}

// Spring is a Hooke spring between two bodies. Weight is the stiffness.
type Spring struct {
	handles [2]int
	weight  float64
	Rest    float64
	force   mathutil.Vec3
}

func NewSpring(a, b int, rest, stiffness float64) *Spring {
	return &Spring{handles: [2]int{a, b}, weight: stiffness, Rest: rest}
}

func (s *Spring) Handles() []int        { return s.handles[:] }
func (s *Spring) Weight() float64       { return s.weight }
func (s *Spring) AppliesRotation() bool { return false }

func (s *Spring) Calculate(bodies []Body) {
	d := bodies[s.handles[1]].Position.Sub(bodies[s.handles[0]].Position)
	l := d.Len()
	if l < mathutil.ZeroTolerance {
		s.force = mathutil.Vec3{}
		return
	}
	s.force = d.Scale(s.weight * (l - s.Rest) / l)
}

func (s *Spring) Apply(bodies []Body) {
	a, b := &bodies[s.handles[0]], &bodies[s.handles[1]]
	a.ForceSum = a.ForceSum.Add(s.force)
	b.ForceSum = b.ForceSum.Sub(s.force)
}
