package dynamics

import (
	"meshrelax/internal/mathutil"
	"meshrelax/internal/target"
)

// PlanarQuad pulls four bodies onto the plane through their centroid whose
// normal is the cross product of the quad's diagonals.
type PlanarQuad struct{ moves }

func NewPlanarQuad(a, b, c, d int, weight float64) *PlanarQuad {
	return &PlanarQuad{newMoves([]int{a, b, c, d}, weight)}
}

func (q *PlanarQuad) Calculate(bodies []Body) {
	p := q.points(bodies)
	n := p[2].Sub(p[0]).Cross(p[3].Sub(p[1])).Normalize()
	if n.LenSq() == 0 {
		q.hold()
		return
	}
	c := mathutil.Centroid(p)
	for i := range p {
		q.deltas[i] = n.Scale(-p[i].Sub(c).Dot(n))
	}
}

// Planarity pulls any number of bodies onto their least-squares plane.
type Planarity struct{ moves }

func NewPlanarity(handles []int, weight float64) *Planarity {
	return &Planarity{newMoves(handles, weight)}
}

func (c *Planarity) Calculate(bodies []Body) {
	p := c.points(bodies)
	pl, ok := mathutil.FitPlane(p)
	if !ok {
		c.hold()
		return
	}
	for i := range p {
		c.deltas[i] = pl.Project(p[i]).Sub(p[i])
	}
}

// OnTarget pulls bodies onto the closest point of an external geometry.
type OnTarget struct {
	moves
	target target.Oracle
}

func NewOnTarget(handles []int, t target.Oracle, weight float64) *OnTarget {
	return &OnTarget{moves: newMoves(handles, weight), target: t}
}

func (c *OnTarget) Calculate(bodies []Body) {
	for i, h := range c.handles {
		p := bodies[h].Position
		c.deltas[i] = c.target.ClosestPoint(p).Sub(p)
	}
}

// Distance keeps two bodies a fixed length apart, moving both equally.
type Distance struct {
	moves
	Length float64
}

func NewDistance(a, b int, length, weight float64) *Distance {
	return &Distance{moves: newMoves([]int{a, b}, weight), Length: length}
}

func (c *Distance) Calculate(bodies []Body) {
	pullTogether(c.deltas, bodies[c.handles[0]].Position, bodies[c.handles[1]].Position, c.Length)
}

// pullTogether writes the symmetric corrections that bring a and b to
// length apart. Coincident points are left alone.
func pullTogether(deltas []mathutil.Vec3, a, b mathutil.Vec3, length float64) {
	d := b.Sub(a)
	l := d.Len()
	if l < mathutil.ZeroTolerance {
		deltas[0], deltas[1] = mathutil.Vec3{}, mathutil.Vec3{}
		return
	}
	corr := d.Scale((l - length) / l * 0.5)
	deltas[0], deltas[1] = corr, corr.Neg()
}

// EqualLength pulls a set of edges towards their common mean length.
// Handles come in pairs, one pair per edge.
type EqualLength struct{ moves }

func NewEqualLength(edges [][2]int, weight float64) *EqualLength {
	handles := make([]int, 0, 2*len(edges))
	for _, e := range edges {
		handles = append(handles, e[0], e[1])
	}
	return &EqualLength{newMoves(handles, weight)}
}

func (c *EqualLength) Calculate(bodies []Body) {
	n := len(c.handles) / 2
	if n == 0 {
		return
	}
	var mean float64
	for i := range n {
		mean += bodies[c.handles[2*i]].Position.Dist(bodies[c.handles[2*i+1]].Position)
	}
	mean /= float64(n)
	for i := range n {
		a, b := bodies[c.handles[2*i]].Position, bodies[c.handles[2*i+1]].Position
		pullTogether(c.deltas[2*i:2*i+2], a, b, mean)
	}
}

// Anchor pins bodies to fixed positions.
type Anchor struct {
	moves
	Targets []mathutil.Vec3
}

// NewAnchor pins each handle to the matching target.
func NewAnchor(handles []int, targets []mathutil.Vec3, weight float64) *Anchor {
	if len(handles) != len(targets) {
		panic("dynamics: anchor needs one target per handle")
	}
	return &Anchor{moves: newMoves(handles, weight), Targets: targets}
}

// AnchorHere pins bodies where they currently are.
func AnchorHere(bodies []Body, handles []int, weight float64) *Anchor {
	targets := make([]mathutil.Vec3, len(handles))
	for i, h := range handles {
		targets[i] = bodies[h].Position
	}
	return NewAnchor(handles, targets, weight)
}

func (c *Anchor) Calculate(bodies []Body) {
	for i, h := range c.handles {
		c.deltas[i] = c.Targets[i].Sub(bodies[h].Position)
	}
}

// AlignRotation turns bodies towards a target orientation.
type AlignRotation struct {
	handles []int
	weight  float64
	Target  mathutil.Quat
	turns   []mathutil.Vec3
}

func NewAlignRotation(handles []int, goal mathutil.Quat, weight float64) *AlignRotation {
	return &AlignRotation{handles: handles, weight: weight, Target: goal.Normalize(), turns: make([]mathutil.Vec3, len(handles))}
}

func (c *AlignRotation) Handles() []int        { return c.handles }
func (c *AlignRotation) Weight() float64       { return c.weight }
func (c *AlignRotation) AppliesRotation() bool { return true }

func (c *AlignRotation) Calculate(bodies []Body) {
	for i, h := range c.handles {
		c.turns[i] = c.Target.Mul(bodies[h].Rotation.Conj()).RotationVector()
	}
}

func (c *AlignRotation) Apply(bodies []Body) {
	for i, h := range c.handles {
		b := &bodies[h]
		b.RotateSum = b.RotateSum.Add(c.turns[i].Scale(c.weight))
		b.RotateWeightSum += c.weight
	}
}
