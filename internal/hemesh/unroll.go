package hemesh

import "meshrelax/internal/mathutil"

// Unroll flattens the faces reachable from start into start's plane.
//
// A breadth-first walk over faces builds a spanning tree; every interior
// edge between two reached faces that is not a tree edge is detached
// before any geometry moves, so the surface opens up along a cut. The tree
// is then walked depth first and each face is rotated about the edge it
// shares with its parent until it lies in the parent's plane, composing
// hinge transforms down the tree. Every vertex moves once; vertices
// stamped with TagExcluded stay where they are.
//
// pos must read positions from vertex payload so that vertices duplicated
// by the cut report the right location. Unroll returns the number of
// detached edges.
func (m *Mesh[V, E, F]) Unroll(start FaceID, pos func(VertexID) mathutil.Vec3, setPos func(VertexID, mathutil.Vec3)) int {
	m.checkFace(start)

	parent := make([]HalfedgeID, m.faces.Len())
	tag := m.NextTag()
	m.fc(start).Tag = tag
	parent[start] = NoHalfedge
	queue := []FaceID{start}
	var cuts []HalfedgeID
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		for h := range m.FaceHalfedges(f) {
			g := m.he(h ^ 1).face
			if g == NoFace {
				continue
			}
			if m.fc(g).Tag != tag {
				m.fc(g).Tag = tag
				parent[g] = h ^ 1
				queue = append(queue, g)
				continue
			}
			if h == parent[f] || h^1 == parent[g] || m.he(h).Tag == tag {
				continue
			}
			m.he(h).Tag, m.he(h^1).Tag = tag, tag
			cuts = append(cuts, h)
		}
	}
	for _, h := range cuts {
		if _, err := m.DetachEdge(h); err != nil {
			panic("hemesh: unroll cut on a boundary edge: " + err.Error())
		}
	}

	orig := make([]mathutil.Vec3, m.verts.Len())
	for v := range m.Vertices() {
		orig[v] = pos(v)
	}
	centre := func(f FaceID) mathutil.Vec3 {
		var pts []mathutil.Vec3
		for v := range m.FaceVertices(f) {
			pts = append(pts, orig[v])
		}
		return mathutil.Centroid(pts)
	}

	xf := make([]mathutil.Rigid, m.faces.Len())
	xf[start] = mathutil.RigidIdentity()
	faceTag, vertexTag := m.NextTag(), m.NextTag()
	m.fc(start).Tag = faceTag
	for v := range m.FaceVertices(start) {
		if m.vx(v).Tag != TagExcluded {
			m.vx(v).Tag = vertexTag
		}
	}
	var stack []HalfedgeID
	for h := range m.FaceHalfedges(start) {
		stack = append(stack, h)
	}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		p, g := m.he(h).face, m.he(h^1).face
		if g == NoFace || m.fc(g).Tag == faceTag {
			continue
		}
		m.fc(g).Tag = faceTag
		xf[g] = xf[p].Then(m.hinge(h, orig, centre(p), centre(g)))
		for v := range m.FaceVertices(g) {
			if t := m.vx(v).Tag; t == vertexTag || t == TagExcluded {
				continue
			}
			m.vx(v).Tag = vertexTag
			setPos(v, xf[g].Apply(orig[v]))
		}
		for x := range m.FaceHalfedges(g) {
			if x != h^1 {
				stack = append(stack, x)
			}
		}
	}
	return len(cuts)
}

// hinge rotates the face across h about h's line so that its centre ends
// up on the opposite side of the line from the centre of h's own face.
func (m *Mesh[V, E, F]) hinge(h HalfedgeID, orig []mathutil.Vec3, parentCentre, childCentre mathutil.Vec3) mathutil.Rigid {
	a, b := orig[m.he(h).start], orig[m.he(h^1).start]
	axis := b.Sub(a).Normalize()
	x := parentCentre.Sub(a).Reject(axis)
	y := childCentre.Sub(a).Reject(axis)
	if axis.LenSq() == 0 || x.LenSq() < mathutil.ZeroTolerance || y.LenSq() < mathutil.ZeroTolerance {
		return mathutil.RigidIdentity()
	}
	return mathutil.RotationAbout(a, axis, mathutil.SignedAngle(y, x.Neg(), axis))
}
