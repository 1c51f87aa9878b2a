package hemesh

import "fmt"

// Graph is a halfedge graph without faces.
type Graph[V, E any] struct {
	core[V, E]
}

// NewGraph returns an empty graph. Face and cell factories are ignored.
func NewGraph[V, E any](f Factory[V, E, struct{}, struct{}], c Capacity) *Graph[V, E] {
	return &Graph[V, E]{core: newCore(f.Vertex, f.Halfedge, c)}
}

// AddEdge connects u and v and returns the halfedge from u to v.
func (g *Graph[V, E]) AddEdge(u, v VertexID) HalfedgeID {
	return g.insertEdge(u, v)
}

// RemoveEdge removes h and its twin. Endpoints stay, possibly isolated.
func (g *Graph[V, E]) RemoveEdge(h HalfedgeID) {
	g.checkHalfedge(h)
	g.unlinkEdge(h)
}

// RemoveVertex removes v with all its edges.
func (g *Graph[V, E]) RemoveVertex(v VertexID) {
	g.checkVertex(v)
	for g.vx(v).first != NoHalfedge {
		g.unlinkEdge(g.vx(v).first)
	}
	g.verts.remove(int(v))
}

// SplitEdge inserts a vertex in the middle of h's edge and returns the new
// halfedge leaving it towards End(h).
func (g *Graph[V, E]) SplitEdge(h HalfedgeID) HalfedgeID {
	g.checkHalfedge(h)
	return g.splitEdge(h)
}

// CollapseEdge merges End(h) into Start(h). It refuses when the endpoints
// share a neighbour, since that would create a parallel edge, or when
// another edge joins them, since that would become a loop.
func (g *Graph[V, E]) CollapseEdge(h HalfedgeID) error {
	g.checkHalfedge(h)
	u, v := g.he(h).start, g.he(h^1).start
	if p := g.parallelTo(h); p != NoHalfedge {
		return fmt.Errorf("hemesh: collapse %d: halfedge %d also joins %d and %d: %w", h, p, u, v, ErrNonManifold)
	}
	if n := g.commonNeighbours(u, v); n > 0 {
		return fmt.Errorf("hemesh: collapse %d: %d shared neighbours: %w", h, n, ErrNonManifold)
	}
	t := h ^ 1
	nh, nt := g.he(h).next, g.he(t).next
	for o := range g.OutgoingHalfedges(v) {
		g.he(o).start = u
	}
	for _, s := range [2]HalfedgeID{h, t} {
		p, n := g.he(s).prev, g.he(s).next
		if n == s^1 {
			// s is the only edge at its end; drop it from the neighbour chain.
			n = g.he(s ^ 1).next
		}
		if p != s^1 {
			g.link(p, n)
		}
	}
	g.removePair(h)
	g.verts.remove(int(v))
	g.repairFirst(u, nh, nt)
	return nil
}

// Clone returns a deep copy. Payload values are copied by assignment.
func (g *Graph[V, E]) Clone() *Graph[V, E] {
	return &Graph[V, E]{core: g.cloneCore()}
}

// Compact drops removed elements and renumbers the rest.
func (g *Graph[V, E]) Compact() {
	vmap, hmap := g.compactCore()
	g.remapCore(vmap, hmap, nil, nil)
}

// Validate checks every topological invariant.
func (g *Graph[V, E]) Validate() error {
	return g.validateCore(true)
}

// splitEdge is shared by graphs and meshes. Windings around both faces are
// preserved and the new edge inherits the split edge's payload.
func (g *core[V, E]) splitEdge(h HalfedgeID) HalfedgeID {
	t := h ^ 1
	v := g.he(t).start
	w := VertexID(g.verts.add(Vertex[V]{first: NoHalfedge, Data: make0(g.newVertex)}))
	a := g.newPair(w, v)
	b := a ^ 1
	g.he(a).face, g.he(b).face = g.he(h).face, g.he(t).face
	g.he(a).cell, g.he(b).cell = g.he(h).cell, g.he(t).cell
	g.he(a).Data, g.he(b).Data = g.he(h).Data, g.he(t).Data

	nh, pt := g.he(h).next, g.he(t).prev
	g.he(t).start = w
	if nh == t {
		g.link(h, a)
		g.link(a, b)
		g.link(b, t)
	} else {
		g.link(h, a)
		g.link(a, nh)
		g.link(pt, b)
		g.link(b, t)
	}
	if g.vx(v).first == t {
		g.vx(v).first = b
	}
	g.vx(w).first = a
	if g.he(a).face != NoFace && g.he(t).face == NoFace {
		g.vx(w).first = t
	}
	return a
}

// parallelTo returns another halfedge from Start(h) to End(h), or NoHalfedge.
func (g *core[V, E]) parallelTo(h HalfedgeID) HalfedgeID {
	v := g.he(h ^ 1).start
	for o := range g.OutgoingHalfedges(g.he(h).start) {
		if o != h && g.he(o^1).start == v {
			return o
		}
	}
	return NoHalfedge
}

func (g *core[V, E]) commonNeighbours(u, v VertexID) int {
	tag := g.NextTag()
	for w := range g.ConnectedVertices(u) {
		g.vx(w).Tag = tag
	}
	n := 0
	for w := range g.ConnectedVertices(v) {
		if w != u && w != v && g.vx(w).Tag == tag {
			n++
		}
	}
	return n
}
