package hemesh

import "fmt"

func corrupt(format string, args ...any) error {
	return fmt.Errorf("hemesh: "+format+": %w", append(args, ErrCorrupt)...)
}

// validateCore checks halfedge links and vertex references. Surfaces also
// require each vertex star to reach all of its outgoing halfedges.
func (g *core[V, E]) validateCore(stars bool) error {
	nh := len(g.hedges.items)
	if nh%2 != 0 {
		return corrupt("odd halfedge slot count %d", nh)
	}
	for i := range g.hedges.items {
		h := HalfedgeID(i)
		r := g.he(h)
		if r.removed != g.he(h^1).removed {
			return corrupt("halfedge %d removed without its twin", h)
		}
		if r.removed {
			continue
		}
		if r.index != int32(i) {
			return corrupt("halfedge %d carries index %d", h, r.index)
		}
		if !g.verts.live(int(r.start)) {
			return corrupt("halfedge %d starts at dead vertex %d", h, r.start)
		}
		if r.start == g.he(h^1).start {
			return corrupt("halfedge %d is a loop at vertex %d", h, r.start)
		}
		if !g.hedges.live(int(r.next)) || !g.hedges.live(int(r.prev)) {
			return corrupt("halfedge %d links to a dead halfedge", h)
		}
		if g.he(r.next).prev != h {
			return corrupt("halfedge %d: next.prev is %d", h, g.he(r.next).prev)
		}
		if g.he(r.prev).next != h {
			return corrupt("halfedge %d: prev.next is %d", h, g.he(r.prev).next)
		}
		if g.he(r.next).start != g.he(h^1).start {
			return corrupt("halfedge %d: next does not leave its end vertex", h)
		}
		if g.he(r.next).face != r.face {
			return corrupt("halfedge %d: face %d differs from next's face %d", h, r.face, g.he(r.next).face)
		}
		if a := r.adjacent; a != NoHalfedge {
			if !g.hedges.live(int(a)) || g.he(a).adjacent != h {
				return corrupt("halfedge %d: adjacent %d is not symmetric", h, a)
			}
			if g.he(a).start != g.he(h^1).start || g.he(a).cell != r.cell || g.he(a).face == r.face {
				return corrupt("halfedge %d: adjacent %d does not mirror it within the cell", h, a)
			}
		}
	}
	outDegree := make([]int, len(g.verts.items))
	for i := range g.hedges.items {
		if r := &g.hedges.items[i]; !r.removed {
			outDegree[r.start]++
		}
	}
	for i := range g.verts.items {
		v := VertexID(i)
		r := g.vx(v)
		if r.removed {
			if outDegree[i] > 0 {
				return corrupt("removed vertex %d still has %d halfedges", v, outDegree[i])
			}
			continue
		}
		if r.index != int32(i) {
			return corrupt("vertex %d carries index %d", v, r.index)
		}
		if r.first == NoHalfedge {
			if outDegree[i] > 0 {
				return corrupt("isolated vertex %d has %d halfedges", v, outDegree[i])
			}
			continue
		}
		if !g.hedges.live(int(r.first)) || g.he(r.first).start != v {
			return corrupt("vertex %d: first halfedge %d does not leave it", v, r.first)
		}
		h, n := r.first, 0
		for {
			if g.he(h).start != v {
				return corrupt("vertex %d: star reaches halfedge %d of vertex %d", v, h, g.he(h).start)
			}
			n++
			h = g.he(h ^ 1).next
			if h == r.first {
				break
			}
			if n > nh {
				return corrupt("vertex %d: star does not close", v)
			}
		}
		if stars && n != outDegree[i] {
			return corrupt("vertex %d: star covers %d of %d outgoing halfedges", v, n, outDegree[i])
		}
	}
	return nil
}
