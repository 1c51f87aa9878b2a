package hemesh

import "fmt"

// SplitEdge inserts a vertex in the middle of h's edge and returns the new
// halfedge leaving it towards End(h). Both adjacent faces gain a corner.
func (m *Mesh[V, E, F]) SplitEdge(h HalfedgeID) HalfedgeID {
	m.checkHalfedge(h)
	return m.splitEdge(h)
}

// SplitFace connects Start(from) and Start(to), two non-adjacent corners
// of the same face at distinct vertices. The part of the face from `from` up to `to` moves to a
// new face bounded by the returned halfedge.
func (m *Mesh[V, E, F]) SplitFace(from, to HalfedgeID) (HalfedgeID, error) {
	m.checkHalfedge(from)
	m.checkHalfedge(to)
	f := m.he(from).face
	if f == NoFace || m.he(to).face != f {
		return NoHalfedge, fmt.Errorf("hemesh: split face: halfedges %d and %d do not share a face: %w", from, to, ErrDegenerate)
	}
	if from == to || m.he(from).next == to || m.he(to).next == from {
		return NoHalfedge, fmt.Errorf("hemesh: split face %d: corners are adjacent: %w", f, ErrDegenerate)
	}
	a, b := m.he(from).start, m.he(to).start
	if a == b {
		return NoHalfedge, fmt.Errorf("hemesh: split face %d: both corners are vertex %d: %w", f, a, ErrDegenerate)
	}
	pf, pt := m.he(from).prev, m.he(to).prev
	x := m.newPair(a, b)
	y := x ^ 1
	m.link(pf, x)
	m.link(x, to)
	m.link(pt, y)
	m.link(y, from)
	m.he(x).face = f
	m.fc(f).first = x
	g := m.addFace(y)
	for h := range m.HalfedgesFrom(y) {
		m.he(h).face = g
	}
	return y, nil
}

// MergeFaces removes the interior edge of h, joining its two faces into
// the face of h. Refused when h is a boundary edge, both sides belong to
// the same face, the faces share another edge, or an endpoint would drop
// below degree 2.
func (m *Mesh[V, E, F]) MergeFaces(h HalfedgeID) error {
	m.checkHalfedge(h)
	t := h ^ 1
	f, g := m.he(h).face, m.he(t).face
	switch {
	case f == NoFace || g == NoFace:
		return fmt.Errorf("hemesh: merge faces at %d: %w", h, ErrBoundary)
	case f == g:
		return fmt.Errorf("hemesh: merge faces at %d: both sides are face %d: %w", h, f, ErrNonManifold)
	}
	u, v := m.he(h).start, m.he(t).start
	if m.Degree(u) < 3 || m.Degree(v) < 3 {
		return fmt.Errorf("hemesh: merge faces at %d: endpoint degree below 3: %w", h, ErrNonManifold)
	}
	for x := range m.HalfedgesFrom(h) {
		if x != h && m.he(x^1).face == g {
			return fmt.Errorf("hemesh: merge faces at %d: faces %d and %d also share edge %d: %w", h, f, g, EdgeIndex(x), ErrNonManifold)
		}
	}
	m.mergeFaces(h)
	return nil
}

func (m *Mesh[V, E, F]) mergeFaces(h HalfedgeID) {
	t := h ^ 1
	f, g := m.he(h).face, m.he(t).face
	u, v := m.he(h).start, m.he(t).start
	for x := range m.HalfedgesFrom(t) {
		m.he(x).face = f
	}
	nh, nt := m.he(h).next, m.he(t).next
	m.link(m.he(h).prev, nt)
	m.link(m.he(t).prev, nh)
	m.fc(f).first = nh
	m.faces.remove(int(g))
	if m.vx(u).first == h {
		m.vx(u).first = nt
	}
	if m.vx(v).first == t {
		m.vx(v).first = nh
	}
	m.removePair(h)
}

// RemoveFace turns f into a hole. Edges left with no face on either side
// are removed; their vertices stay, possibly isolated.
func (m *Mesh[V, E, F]) RemoveFace(f FaceID) {
	m.checkFace(f)
	var loop []HalfedgeID
	for h := range m.FaceHalfedges(f) {
		loop = append(loop, h)
	}
	for _, h := range loop {
		m.he(h).face = NoFace
	}
	m.faces.remove(int(f))
	touched := make([]VertexID, 0, 2*len(loop))
	for _, h := range loop {
		touched = append(touched, m.he(h).start, m.he(h^1).start)
		if m.he(h^1).face == NoFace {
			m.unlinkEdge(h)
		}
	}
	for _, v := range touched {
		m.preferBoundary(v)
	}
}

// RemoveEdge removes h's edge together with the faces on either side.
func (m *Mesh[V, E, F]) RemoveEdge(h HalfedgeID) {
	m.checkHalfedge(h)
	for _, s := range [2]HalfedgeID{h, h ^ 1} {
		if f := m.he(s).face; f != NoFace {
			m.RemoveFace(f)
		}
	}
	if m.hedges.live(int(h)) {
		m.unlinkEdge(h)
	}
}

// DetachEdge splits an interior edge into two boundary edges. h stays on
// its face with a fresh boundary twin; the returned halfedge takes the
// place of h's former twin on the opposite face. Endpoints already on a
// boundary are duplicated so that each keeps a single boundary fan; the
// copy carries the side of the opposite face and the vertex payload.
func (m *Mesh[V, E, F]) DetachEdge(h HalfedgeID) (HalfedgeID, error) {
	m.checkHalfedge(h)
	t := h ^ 1
	g := m.he(t).face
	if m.he(h).face == NoFace || g == NoFace {
		return NoHalfedge, fmt.Errorf("hemesh: detach %d: %w", h, ErrBoundary)
	}
	u, v := m.he(h).start, m.he(t).start
	bu, bv := m.boundaryOut(u), m.boundaryOut(v)
	var biu, biv HalfedgeID = NoHalfedge, NoHalfedge
	if bu != NoHalfedge {
		biu = m.he(bu).prev
	}
	if bv != NoHalfedge {
		biv = m.he(bv).prev
	}

	n1 := m.newPair(u, v)
	n2 := n1 ^ 1
	m.he(n1).Data, m.he(n2).Data = m.he(h).Data, m.he(t).Data

	// n2 replaces t on face g; t becomes boundary.
	pt, nt := m.he(t).prev, m.he(t).next
	m.link(pt, n2)
	m.link(n2, nt)
	m.he(n2).face = g
	m.he(t).face = NoFace
	if m.fc(g).first == t {
		m.fc(g).first = n2
	}

	if bu == NoHalfedge {
		m.link(t, n1)
		m.vx(u).first = n1
	} else {
		m.link(t, bu)
		m.link(biu, n1)
		m.moveFan(n1, m.cloneVertex(u))
	}
	if bv == NoHalfedge {
		m.link(n1, t)
		m.vx(v).first = t
	} else {
		m.link(n1, bv)
		m.link(biv, t)
		m.moveFan(t, m.cloneVertex(v))
	}
	return n2, nil
}

// moveFan re-roots the star cycle through h at vertex w.
func (m *Mesh[V, E, F]) moveFan(h HalfedgeID, w VertexID) {
	for _, x := range m.outgoingFrom(h) {
		m.he(x).start = w
	}
	m.vx(w).first = h
}

func (m *Mesh[V, E, F]) outgoingFrom(h HalfedgeID) []HalfedgeID {
	out := []HalfedgeID{h}
	for x := m.he(h ^ 1).next; x != h; x = m.he(x ^ 1).next {
		out = append(out, x)
		if len(out) > m.hedges.Len() {
			panic(fmt.Sprintf("hemesh: fan from halfedge %d does not close", h))
		}
	}
	return out
}

// CollapseEdge merges End(h) into Start(h). Triangles on either side of
// the edge disappear and their two remaining sides fuse into one edge;
// larger faces lose a corner. The collapse is refused, leaving the mesh
// unchanged, when
//   - another edge already joins the endpoints,
//   - both endpoints lie on a boundary but the edge does not,
//   - the endpoints share more neighbours than there are incident triangles,
//   - the two outer sides of a collapsing triangle already share a face,
//   - a boundary side of the edge belongs to a loop of three or fewer halfedges.
func (m *Mesh[V, E, F]) CollapseEdge(h HalfedgeID) error {
	m.checkHalfedge(h)
	if err := m.canCollapse(h); err != nil {
		return fmt.Errorf("hemesh: collapse %d: %w", h, err)
	}
	m.collapse(h)
	return nil
}

func (m *Mesh[V, E, F]) canCollapse(h HalfedgeID) error {
	t := h ^ 1
	u, v := m.he(h).start, m.he(t).start
	fh, ft := m.he(h).face, m.he(t).face
	if fh != NoFace && fh == ft {
		return fmt.Errorf("edge has face %d on both sides: %w", fh, ErrNonManifold)
	}
	if p := m.parallelTo(h); p != NoHalfedge {
		return fmt.Errorf("halfedge %d also joins %d and %d: %w", p, u, v, ErrNonManifold)
	}
	if fh != NoFace && ft != NoFace && m.IsBoundaryVertex(u) && m.IsBoundaryVertex(v) {
		return fmt.Errorf("interior edge joins two boundary vertices: %w", ErrNonManifold)
	}
	triangles := 0
	for _, s := range [2]HalfedgeID{h, t} {
		if m.he(s).face == NoFace {
			if m.LoopLength(s) <= 3 {
				return fmt.Errorf("boundary loop of halfedge %d is too short: %w", s, ErrNonManifold)
			}
			continue
		}
		if m.LoopLength(s) != 3 {
			continue
		}
		triangles++
		o1, o2 := m.he(s).next^1, m.he(s).prev^1
		if m.he(o1).face == m.he(o2).face {
			return fmt.Errorf("outer sides of triangle %d share a face: %w", m.he(s).face, ErrNonManifold)
		}
	}
	if n := m.commonNeighbours(u, v); n != triangles {
		return fmt.Errorf("%d shared neighbours for %d triangles: %w", n, triangles, ErrNonManifold)
	}
	return nil
}

func (m *Mesh[V, E, F]) collapse(h HalfedgeID) {
	t := h ^ 1
	u, v := m.he(h).start, m.he(t).start
	for _, o := range m.outgoingFrom(m.vx(v).first) {
		m.he(o).start = u
	}

	candidates := []HalfedgeID{m.he(h).next, m.he(t).next}
	for _, s := range [2]HalfedgeID{h, t} {
		f := m.he(s).face
		if f == NoFace || m.LoopLength(s) != 3 {
			p, n := m.he(s).prev, m.he(s).next
			if n == s^1 {
				n = m.he(n).next
			}
			if p != s^1 {
				m.link(p, n)
			}
			if f != NoFace && m.fc(f).first == s {
				m.fc(f).first = n
			}
			continue
		}
		// keep is the inner side already touching u; it takes the place of
		// the outer twin of the side that touched v.
		keep, drop := m.he(s).prev, m.he(s).next
		if s == t {
			keep, drop = drop, keep
		}
		outer := drop ^ 1
		opp := m.he(m.he(s).prev).start
		candidates = append(candidates, keep)

		m.link(m.he(outer).prev, keep)
		m.link(keep, m.he(outer).next)
		of := m.he(outer).face
		m.he(keep).face = of
		if of != NoFace && m.fc(of).first == outer {
			m.fc(of).first = keep
		}
		if first := m.vx(opp).first; first == outer || first == drop {
			if m.he(keep).start == opp {
				m.vx(opp).first = keep
			} else {
				m.vx(opp).first = keep ^ 1
			}
		}
		m.faces.remove(int(f))
		m.removePair(drop)
	}
	m.removePair(h)
	m.verts.remove(int(v))
	m.repairFirst(u, candidates...)
}
