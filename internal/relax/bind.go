// Package relax runs the constraint solver over the vertex positions of a
// halfedge mesh and writes the result back.
package relax

import (
	"meshrelax/internal/dynamics"
	"meshrelax/internal/hemesh"
	"meshrelax/internal/mathutil"
	"meshrelax/internal/target"
)

// Binding wraps the live vertices of a mesh as solver bodies. Body i stands
// for vertex Vertex(i). The mesh must not change topology while bound.
type Binding[E, F any] struct {
	Bodies []dynamics.Body

	mesh *hemesh.Mesh[mathutil.Vec3, E, F]
	ids  []hemesh.VertexID
	body []int
}

// Bind creates one unit-mass body per live vertex.
func Bind[E, F any](m *hemesh.Mesh[mathutil.Vec3, E, F]) *Binding[E, F] {
	b := &Binding[E, F]{mesh: m, body: make([]int, m.VertexSlots())}
	for i := range b.body {
		b.body[i] = -1
	}
	for v := range m.Vertices() {
		b.body[v] = len(b.ids)
		b.ids = append(b.ids, v)
		b.Bodies = append(b.Bodies, dynamics.NewBody(*m.VertexData(v)))
	}
	return b
}

// Body returns the body index of v, or -1 for a removed vertex.
func (b *Binding[E, F]) Body(v hemesh.VertexID) int { return b.body[v] }

// Vertex returns the vertex behind body i.
func (b *Binding[E, F]) Vertex(i int) hemesh.VertexID { return b.ids[i] }

// Store copies body positions back onto the mesh.
func (b *Binding[E, F]) Store() {
	for i, v := range b.ids {
		*b.mesh.VertexData(v) = b.Bodies[i].Position
	}
}

func (b *Binding[E, F]) handles(vs []hemesh.VertexID) []int {
	out := make([]int, len(vs))
	for i, v := range vs {
		out[i] = b.body[v]
	}
	return out
}

// FacePlanarity returns one planarity constraint per face with four or more
// corners. Quads use the diagonal construction, larger faces a fitted plane.
func (b *Binding[E, F]) FacePlanarity(weight float64) []dynamics.Constraint {
	var out []dynamics.Constraint
	for f := range b.mesh.Faces() {
		h := b.handles(b.mesh.FaceVertexList(f))
		switch {
		case len(h) == 4:
			out = append(out, dynamics.NewPlanarQuad(h[0], h[1], h[2], h[3], weight))
		case len(h) > 4:
			out = append(out, dynamics.NewPlanarity(h, weight))
		}
	}
	return out
}

func (b *Binding[E, F]) edges() [][2]int {
	var out [][2]int
	for h := range b.mesh.Edges() {
		out = append(out, [2]int{b.body[b.mesh.Start(h)], b.body[b.mesh.End(h)]})
	}
	return out
}

// EqualEdges pushes every edge towards the mean edge length. It returns nil
// for a mesh without edges.
func (b *Binding[E, F]) EqualEdges(weight float64) dynamics.Constraint {
	e := b.edges()
	if len(e) == 0 {
		return nil
	}
	return dynamics.NewEqualLength(e, weight)
}

// Springs puts a spring on every edge. A negative rest length keeps each
// edge's current length.
func (b *Binding[E, F]) Springs(rest, stiffness float64) []dynamics.Constraint {
	var out []dynamics.Constraint
	for _, e := range b.edges() {
		r := rest
		if r < 0 {
			r = b.Bodies[e[0]].Position.Dist(b.Bodies[e[1]].Position)
		}
		out = append(out, dynamics.NewSpring(e[0], e[1], r, stiffness))
	}
	return out
}

func (b *Binding[E, F]) boundary() []int {
	var out []int
	for i, v := range b.ids {
		if b.mesh.IsBoundaryVertex(v) {
			out = append(out, i)
		}
	}
	return out
}

// PinBoundary anchors boundary vertices where they are now. It returns nil
// for a closed mesh.
func (b *Binding[E, F]) PinBoundary(weight float64) dynamics.Constraint {
	h := b.boundary()
	if len(h) == 0 {
		return nil
	}
	return dynamics.AnchorHere(b.Bodies, h, weight)
}

// Onto pulls vertices onto the oracle's geometry, all of them or only those
// on the boundary.
func (b *Binding[E, F]) Onto(o target.Oracle, weight float64, boundaryOnly bool) dynamics.Constraint {
	var h []int
	if boundaryOnly {
		h = b.boundary()
	} else {
		h = make([]int, len(b.ids))
		for i := range h {
			h[i] = i
		}
	}
	if len(h) == 0 {
		return nil
	}
	return dynamics.NewOnTarget(h, o, weight)
}
