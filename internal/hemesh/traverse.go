package hemesh

import (
	"fmt"
	"iter"
)

// HalfedgesFrom yields h and the halfedges following it by Next until the
// cycle closes.
func (g *core[V, E]) HalfedgesFrom(h HalfedgeID) iter.Seq[HalfedgeID] {
	g.checkHalfedge(h)
	return func(yield func(HalfedgeID) bool) {
		limit := g.hedges.Len()
		for x, n := h, 0; ; n++ {
			if n > limit {
				panic(fmt.Sprintf("hemesh: cycle from halfedge %d does not close", h))
			}
			if !yield(x) {
				return
			}
			x = g.he(x).next
			if x == h {
				return
			}
			g.checkHalfedge(x)
		}
	}
}

// LoopLength counts the halfedges in h's Next cycle.
func (g *core[V, E]) LoopLength(h HalfedgeID) int {
	n := 0
	for range g.HalfedgesFrom(h) {
		n++
	}
	return n
}

// OutgoingHalfedges yields the halfedges leaving v in NextAtStart order,
// starting at First.
func (g *core[V, E]) OutgoingHalfedges(v VertexID) iter.Seq[HalfedgeID] {
	first := g.Vertex(v).first
	return func(yield func(HalfedgeID) bool) {
		if first == NoHalfedge {
			return
		}
		limit := g.hedges.Len()
		for h, n := first, 0; ; n++ {
			if n > limit {
				panic(fmt.Sprintf("hemesh: star of vertex %d does not close", v))
			}
			if !yield(h) {
				return
			}
			h = g.he(h ^ 1).next
			if h == first {
				return
			}
			g.checkHalfedge(h)
		}
	}
}

// IncomingHalfedges yields the twins of OutgoingHalfedges.
func (g *core[V, E]) IncomingHalfedges(v VertexID) iter.Seq[HalfedgeID] {
	return func(yield func(HalfedgeID) bool) {
		for h := range g.OutgoingHalfedges(v) {
			if !yield(h ^ 1) {
				return
			}
		}
	}
}

// ConnectedVertices yields the far end of every outgoing halfedge.
func (g *core[V, E]) ConnectedVertices(v VertexID) iter.Seq[VertexID] {
	return func(yield func(VertexID) bool) {
		for h := range g.OutgoingHalfedges(v) {
			if !yield(g.he(h ^ 1).start) {
				return
			}
		}
	}
}

// Degree returns the number of edges at v.
func (g *core[V, E]) Degree(v VertexID) int {
	n := 0
	for range g.OutgoingHalfedges(v) {
		n++
	}
	return n
}

// Vertices yields every live vertex id.
func (g *core[V, E]) Vertices() iter.Seq[VertexID] {
	return func(yield func(VertexID) bool) {
		for i := range g.verts.items {
			if g.verts.items[i].removed {
				continue
			}
			if !yield(VertexID(i)) {
				return
			}
		}
	}
}

// Halfedges yields every live halfedge id.
func (g *core[V, E]) Halfedges() iter.Seq[HalfedgeID] {
	return func(yield func(HalfedgeID) bool) {
		for i := range g.hedges.items {
			if g.hedges.items[i].removed {
				continue
			}
			if !yield(HalfedgeID(i)) {
				return
			}
		}
	}
}

// Edges yields the even halfedge of every live pair.
func (g *core[V, E]) Edges() iter.Seq[HalfedgeID] {
	return func(yield func(HalfedgeID) bool) {
		for i := 0; i < len(g.hedges.items); i += 2 {
			if g.hedges.items[i].removed {
				continue
			}
			if !yield(HalfedgeID(i)) {
				return
			}
		}
	}
}

// BreadthFirstVertices walks the vertices reachable from seeds, each once,
// in breadth-first order. Vertices already stamped with TagExcluded are
// neither yielded nor crossed.
func (g *core[V, E]) BreadthFirstVertices(seeds ...VertexID) iter.Seq[VertexID] {
	return func(yield func(VertexID) bool) {
		tag := g.NextTag()
		queue := make([]VertexID, 0, len(seeds))
		for _, s := range seeds {
			g.checkVertex(s)
			if t := g.vx(s).Tag; t == tag || t == TagExcluded {
				continue
			}
			g.vx(s).Tag = tag
			queue = append(queue, s)
		}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			if !yield(v) {
				return
			}
			for w := range g.ConnectedVertices(v) {
				if t := g.vx(w).Tag; t == tag || t == TagExcluded {
					continue
				}
				g.vx(w).Tag = tag
				queue = append(queue, w)
			}
		}
	}
}

// Components returns the vertex sets of the connected components,
// isolated vertices included, ordered by their lowest vertex id.
func (g *core[V, E]) Components() [][]VertexID {
	tag := g.NextTag()
	var out [][]VertexID
	for v := range g.Vertices() {
		if g.vx(v).Tag == tag {
			continue
		}
		var comp []VertexID
		queue := []VertexID{v}
		g.vx(v).Tag = tag
		for len(queue) > 0 {
			x := queue[0]
			queue = queue[1:]
			comp = append(comp, x)
			for w := range g.ConnectedVertices(x) {
				if g.vx(w).Tag != tag {
					g.vx(w).Tag = tag
					queue = append(queue, w)
				}
			}
		}
		out = append(out, comp)
	}
	return out
}
