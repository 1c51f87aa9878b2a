// Package dynamics implements a position-based constraint solver.
//
// Each step every constraint computes, from a read-only view of the
// bodies, where it would like its handles to be. The solver blends those
// requests per body as a weighted average, adds any forces, and moves the
// bodies with damped velocities until they stop moving.
package dynamics

import "meshrelax/internal/mathutil"

// Body is a point mass that may also carry an orientation.
type Body struct {
	Position mathutil.Vec3
	Velocity mathutil.Vec3
	Mass     float64

	Rotation        mathutil.Quat
	AngularVelocity mathutil.Vec3

	// Accumulators, zeroed at the start of every step.
	ForceSum        mathutil.Vec3
	MoveSum         mathutil.Vec3
	WeightSum       float64
	TorqueSum       mathutil.Vec3
	RotateSum       mathutil.Vec3
	RotateWeightSum float64
}

// NewBody returns a unit-mass body at rest at p with identity rotation.
func NewBody(p mathutil.Vec3) Body {
	return Body{Position: p, Mass: 1, Rotation: mathutil.QuatIdentity()}
}

// Bodies wraps each point in a unit-mass body.
func Bodies(points []mathutil.Vec3) []Body {
	out := make([]Body, len(points))
	for i, p := range points {
		out[i] = NewBody(p)
	}
	return out
}

// Positions copies the body positions out.
func Positions(bodies []Body) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(bodies))
	for i := range bodies {
		out[i] = bodies[i].Position
	}
	return out
}

func (b *Body) clearSums() {
	b.ForceSum = mathutil.Vec3{}
	b.MoveSum = mathutil.Vec3{}
	b.WeightSum = 0
	b.TorqueSum = mathutil.Vec3{}
	b.RotateSum = mathutil.Vec3{}
	b.RotateWeightSum = 0
}

func (b *Body) inverseMass() float64 {
	if b.Mass <= 0 {
		return 1
	}
	return 1 / b.Mass
}

// integrate advances the body one step and returns the distance moved and
// the angle turned. A body no constraint or force touched keeps its pose;
// only its velocities decay.
func (b *Body) integrate(damping, angularDamping float64) (float64, float64) {
	b.Velocity = b.Velocity.Scale(1 - damping)
	b.AngularVelocity = b.AngularVelocity.Scale(1 - angularDamping)

	var moved, turned float64
	if b.WeightSum > 0 || b.ForceSum.LenSq() > 0 {
		b.Velocity = b.Velocity.Add(b.ForceSum.Scale(b.inverseMass()))
		if b.WeightSum > 0 {
			b.Velocity = b.Velocity.Add(b.MoveSum.Scale(1 / b.WeightSum))
		}
		b.Position = b.Position.Add(b.Velocity)
		moved = b.Velocity.Len()
	}
	if b.RotateWeightSum > 0 || b.TorqueSum.LenSq() > 0 {
		b.AngularVelocity = b.AngularVelocity.Add(b.TorqueSum.Scale(b.inverseMass()))
		if b.RotateWeightSum > 0 {
			b.AngularVelocity = b.AngularVelocity.Add(b.RotateSum.Scale(1 / b.RotateWeightSum))
		}
		b.Rotation = mathutil.QuatFromRotationVector(b.AngularVelocity).Mul(b.Rotation).Normalize()
		turned = b.AngularVelocity.Len()
	}
	return moved, turned
}
