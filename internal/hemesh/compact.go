package hemesh

func (g *core[V, E]) compactCore() (vmap, hmap []int32) {
	return g.verts.compact(), g.hedges.compact()
}

func remapID[T ~int32](m []int32, id T) T {
	if id < 0 || m == nil {
		return id
	}
	return T(m[id])
}

// remapCore rewrites every vertex and halfedge reference after compaction.
// A nil map leaves that id kind unchanged.
func (g *core[V, E]) remapCore(vmap, hmap, fmap, cmap []int32) {
	for i := range g.verts.items {
		v := &g.verts.items[i]
		v.first = remapID(hmap, v.first)
	}
	for i := range g.hedges.items {
		h := &g.hedges.items[i]
		h.prev = remapID(hmap, h.prev)
		h.next = remapID(hmap, h.next)
		h.adjacent = remapID(hmap, h.adjacent)
		h.start = remapID(vmap, h.start)
		h.face = remapID(fmap, h.face)
		h.cell = remapID(cmap, h.cell)
	}
}
