package hemesh

import "fmt"

// Vertex is a vertex record.
type Vertex[V any] struct {
	Element
	first HalfedgeID
	Data  V
}

// First returns one outgoing halfedge, or NoHalfedge for an isolated vertex.
// On a boundary it is a boundary halfedge.
func (v *Vertex[V]) First() HalfedgeID { return v.first }

// Halfedge is a directed edge record. Its twin is always the other half
// of the same allocation pair.
type Halfedge[E any] struct {
	Element
	prev, next HalfedgeID
	start      VertexID
	face       FaceID
	adjacent   HalfedgeID
	cell       CellID
	Data       E
}

func (h *Halfedge[E]) Next() HalfedgeID     { return h.next }
func (h *Halfedge[E]) Prev() HalfedgeID     { return h.prev }
func (h *Halfedge[E]) Start() VertexID      { return h.start }
func (h *Halfedge[E]) Face() FaceID         { return h.face }
func (h *Halfedge[E]) Adjacent() HalfedgeID { return h.adjacent }
func (h *Halfedge[E]) Cell() CellID         { return h.cell }

// Face is a face record.
type Face[F any] struct {
	Element
	first HalfedgeID
	Data  F
}

func (f *Face[F]) First() HalfedgeID { return f.first }

// Cell is a volume cell record.
type Cell[C any] struct {
	Element
	first HalfedgeID
	Data  C
}

func (c *Cell[C]) First() HalfedgeID { return c.first }

// core holds vertices and halfedges and everything that only needs them.
type core[V, E any] struct {
	verts  ElementList[Vertex[V], *Vertex[V]]
	hedges ElementList[Halfedge[E], *Halfedge[E]]

	newVertex   func() V
	newHalfedge func() E

	tag int64
}

func newCore[V, E any](newV func() V, newE func() E, c Capacity) core[V, E] {
	return core[V, E]{
		verts:       newElementList[Vertex[V]](c.Vertices),
		hedges:      newElementList[Halfedge[E]](c.Halfedges),
		newVertex:   newV,
		newHalfedge: newE,
	}
}

// NextTag returns a fresh traversal stamp. The counter only grows.
func (g *core[V, E]) NextTag() int64 {
	g.tag++
	return g.tag
}

func (g *core[V, E]) VertexCount() int   { return g.verts.Count() }
func (g *core[V, E]) HalfedgeCount() int { return g.hedges.Count() }
func (g *core[V, E]) EdgeCount() int     { return g.hedges.Count() / 2 }

// VertexSlots and HalfedgeSlots include removed elements; ids are below them.
func (g *core[V, E]) VertexSlots() int   { return g.verts.Len() }
func (g *core[V, E]) HalfedgeSlots() int { return g.hedges.Len() }

// AddVertex appends an isolated vertex.
func (g *core[V, E]) AddVertex() VertexID {
	return VertexID(g.verts.add(Vertex[V]{first: NoHalfedge, Data: make0(g.newVertex)}))
}

// AddVertices appends n isolated vertices and returns the first id.
func (g *core[V, E]) AddVertices(n int) VertexID {
	first := VertexID(g.verts.Len())
	for range n {
		g.AddVertex()
	}
	return first
}

// Vertex returns the record of a live vertex.
func (g *core[V, E]) Vertex(v VertexID) *Vertex[V] {
	g.checkVertex(v)
	return &g.verts.items[v]
}

// Halfedge returns the record of a live halfedge.
func (g *core[V, E]) Halfedge(h HalfedgeID) *Halfedge[E] {
	g.checkHalfedge(h)
	return &g.hedges.items[h]
}

func (g *core[V, E]) VertexData(v VertexID) *V     { return &g.Vertex(v).Data }
func (g *core[V, E]) HalfedgeData(h HalfedgeID) *E { return &g.Halfedge(h).Data }

func (g *core[V, E]) IsVertexLive(v VertexID) bool     { return g.verts.live(int(v)) }
func (g *core[V, E]) IsHalfedgeLive(h HalfedgeID) bool { return g.hedges.live(int(h)) }

func (g *core[V, E]) checkVertex(v VertexID) {
	if !g.verts.live(int(v)) {
		panic(fmt.Sprintf("hemesh: vertex %d is removed or out of range", v))
	}
}

func (g *core[V, E]) checkHalfedge(h HalfedgeID) {
	if !g.hedges.live(int(h)) {
		panic(fmt.Sprintf("hemesh: halfedge %d is removed or out of range", h))
	}
}

// Twin returns the oppositely directed half of h's edge.
func Twin(h HalfedgeID) HalfedgeID { return h ^ 1 }

// EdgeIndex returns the undirected edge index shared by h and its twin.
func EdgeIndex(h HalfedgeID) int { return int(h >> 1) }

func (g *core[V, E]) Twin(h HalfedgeID) HalfedgeID {
	g.checkHalfedge(h)
	return h ^ 1
}

func (g *core[V, E]) Next(h HalfedgeID) HalfedgeID { return g.Halfedge(h).next }
func (g *core[V, E]) Prev(h HalfedgeID) HalfedgeID { return g.Halfedge(h).prev }
func (g *core[V, E]) Start(h HalfedgeID) VertexID  { return g.Halfedge(h).start }
func (g *core[V, E]) End(h HalfedgeID) VertexID    { return g.Halfedge(h ^ 1).start }
func (g *core[V, E]) FaceOf(h HalfedgeID) FaceID   { return g.Halfedge(h).face }

// NextAtStart rotates to the next outgoing halfedge around Start(h).
func (g *core[V, E]) NextAtStart(h HalfedgeID) HalfedgeID { return g.Halfedge(h ^ 1).next }

// PrevAtStart rotates to the previous outgoing halfedge around Start(h).
func (g *core[V, E]) PrevAtStart(h HalfedgeID) HalfedgeID { return g.Halfedge(h).prev ^ 1 }

// FirstOut returns the vertex's First halfedge.
func (g *core[V, E]) FirstOut(v VertexID) HalfedgeID { return g.Vertex(v).first }

// FirstIn returns a halfedge ending at v, or NoHalfedge.
func (g *core[V, E]) FirstIn(v VertexID) HalfedgeID {
	h := g.Vertex(v).first
	if h == NoHalfedge {
		return NoHalfedge
	}
	return h ^ 1
}

// IsBoundaryEdge reports whether either side of h's edge has no face.
func (g *core[V, E]) IsBoundaryEdge(h HalfedgeID) bool {
	g.checkHalfedge(h)
	return g.he(h).face == NoFace || g.he(h^1).face == NoFace
}

// IsBoundaryVertex reports whether v has an outgoing halfedge without a face.
// Isolated vertices are not boundary vertices.
func (g *core[V, E]) IsBoundaryVertex(v VertexID) bool {
	h := g.Vertex(v).first
	return h != NoHalfedge && g.he(h).face == NoFace
}

// FindHalfedge returns the halfedge from u to v, or NoHalfedge.
func (g *core[V, E]) FindHalfedge(u, v VertexID) HalfedgeID {
	for h := range g.OutgoingHalfedges(u) {
		if g.he(h^1).start == v {
			return h
		}
	}
	return NoHalfedge
}

func (g *core[V, E]) he(h HalfedgeID) *Halfedge[E] { return &g.hedges.items[h] }
func (g *core[V, E]) vx(v VertexID) *Vertex[V]     { return &g.verts.items[v] }

func (g *core[V, E]) link(a, b HalfedgeID) {
	g.he(a).next = b
	g.he(b).prev = a
}

// newPair allocates h (u->v) and its twin at indices 2k and 2k+1, linked
// to each other so the pair forms a closed two-halfedge loop.
func (g *core[V, E]) newPair(u, v VertexID) HalfedgeID {
	h := HalfedgeID(g.hedges.Len())
	if h&1 != 0 {
		panic("hemesh: halfedge list lost pair alignment")
	}
	for i, s := range [2]VertexID{u, v} {
		g.hedges.add(Halfedge[E]{
			prev:     h + HalfedgeID(1-i),
			next:     h + HalfedgeID(1-i),
			start:    s,
			face:     NoFace,
			adjacent: NoHalfedge,
			cell:     NoCell,
			Data:     make0(g.newHalfedge),
		})
	}
	return h
}

func (g *core[V, E]) removePair(h HalfedgeID) {
	g.hedges.remove(int(h))
	g.hedges.remove(int(h ^ 1))
}

func (g *core[V, E]) cloneVertex(v VertexID) VertexID {
	d := g.vx(v).Data
	return VertexID(g.verts.add(Vertex[V]{first: NoHalfedge, Data: d}))
}

// insertEdge creates a pair between u and v and splices it into both
// stars. A non-isolated endpoint receives the edge in front of its First
// halfedge, which for surfaces must be a boundary halfedge.
func (g *core[V, E]) insertEdge(u, v VertexID) HalfedgeID {
	g.checkVertex(u)
	g.checkVertex(v)
	if u == v {
		panic(fmt.Sprintf("hemesh: edge from vertex %d to itself", u))
	}
	for _, x := range [2]VertexID{u, v} {
		if f := g.vx(x).first; f != NoHalfedge && g.he(f).face != NoFace {
			panic(fmt.Sprintf("hemesh: vertex %d is interior, cannot attach an edge", x))
		}
	}
	h := g.newPair(u, v)
	g.spliceOut(h, u)
	g.spliceOut(h^1, v)
	return h
}

// spliceOut inserts outgoing h (whose twin arrives at v) into v's star.
func (g *core[V, E]) spliceOut(h HalfedgeID, v VertexID) {
	o := g.vx(v).first
	if o == NoHalfedge {
		g.vx(v).first = h
		return
	}
	p := g.he(o).prev
	g.link(p, h)
	g.link(h^1, o)
}

// unlinkEdge detaches h's pair from both endpoint stars and removes it.
// Endpoints left without edges become isolated.
func (g *core[V, E]) unlinkEdge(h HalfedgeID) {
	t := h ^ 1
	for _, s := range [2]HalfedgeID{h, t} {
		v := g.he(s).start
		p, n := g.he(s).prev, g.he(s^1).next
		if p == s^1 {
			g.vx(v).first = NoHalfedge
			continue
		}
		g.link(p, n)
		if g.vx(v).first == s {
			g.vx(v).first = n
		}
	}
	g.removePair(h)
}

// repairFirst points v at the first live candidate starting at v, then
// prefers a boundary halfedge if the star has one.
func (g *core[V, E]) repairFirst(v VertexID, candidates ...HalfedgeID) {
	f := g.vx(v).first
	if f == NoHalfedge || !g.hedges.live(int(f)) || g.he(f).start != v {
		f = NoHalfedge
		for _, c := range candidates {
			if c != NoHalfedge && g.hedges.live(int(c)) && g.he(c).start == v {
				f = c
				break
			}
		}
	}
	g.vx(v).first = f
	g.preferBoundary(v)
}

func (g *core[V, E]) preferBoundary(v VertexID) {
	f := g.vx(v).first
	if f == NoHalfedge || g.he(f).face == NoFace {
		return
	}
	h, n := f, 0
	for {
		if g.he(h).face == NoFace {
			g.vx(v).first = h
			return
		}
		h = g.he(h ^ 1).next
		if h == f {
			return
		}
		if n++; n > g.hedges.Len() {
			panic(fmt.Sprintf("hemesh: star of vertex %d does not close", v))
		}
	}
}

func (g *core[V, E]) boundaryOut(v VertexID) HalfedgeID {
	f := g.vx(v).first
	if f != NoHalfedge && g.he(f).face == NoFace {
		return f
	}
	return NoHalfedge
}

func (g *core[V, E]) cloneCore() core[V, E] {
	return core[V, E]{
		verts:       g.verts.clone(),
		hedges:      g.hedges.clone(),
		newVertex:   g.newVertex,
		newHalfedge: g.newHalfedge,
		tag:         g.tag,
	}
}
