package hemesh

// Append copies every element of other into m, offsetting ids. Payload is
// copied by assignment unless a set callback is given, in which case the
// callback receives the new element's factory value and the source value.
// It returns the id offset applied to other's vertices.
func (m *Mesh[V, E, F]) Append(other *Mesh[V, E, F], setV func(dst, src *V), setE func(dst, src *E), setF func(dst, src *F)) VertexID {
	voff := int32(m.verts.Len())
	hoff := int32(m.hedges.Len())
	foff := int32(m.faces.Len())
	shift := func(id, off int32) int32 {
		if id < 0 {
			return id
		}
		return id + off
	}

	for i := range other.verts.items {
		src := &other.verts.items[i]
		r := Vertex[V]{first: HalfedgeID(shift(int32(src.first), hoff)), Data: src.Data}
		if setV != nil {
			r.Data = make0(m.newVertex)
			setV(&r.Data, &src.Data)
		}
		n := m.verts.add(r)
		if src.removed {
			m.verts.remove(n)
		}
	}
	for i := range other.hedges.items {
		src := &other.hedges.items[i]
		r := Halfedge[E]{
			prev:     HalfedgeID(shift(int32(src.prev), hoff)),
			next:     HalfedgeID(shift(int32(src.next), hoff)),
			start:    VertexID(shift(int32(src.start), voff)),
			face:     FaceID(shift(int32(src.face), foff)),
			adjacent: HalfedgeID(shift(int32(src.adjacent), hoff)),
			cell:     src.cell,
			Data:     src.Data,
		}
		if setE != nil {
			r.Data = make0(m.newHalfedge)
			setE(&r.Data, &src.Data)
		}
		n := m.hedges.add(r)
		if src.removed {
			m.hedges.remove(n)
		}
	}
	for i := range other.faces.items {
		src := &other.faces.items[i]
		r := Face[F]{first: HalfedgeID(shift(int32(src.first), hoff)), Data: src.Data}
		if setF != nil {
			r.Data = make0(m.newFace)
			setF(&r.Data, &src.Data)
		}
		n := m.faces.add(r)
		if src.removed {
			m.faces.remove(n)
		}
	}
	return VertexID(voff)
}

// Dual returns a mesh with one vertex per face of m and one face per
// interior vertex of m, winding through the faces around that vertex.
// Boundary and isolated vertices, and vertices with fewer than three
// faces, produce no dual face. Dual vertex i corresponds to the i-th live
// face of m.
func (m *Mesh[V, E, F]) Dual(setV func(dst *V, face FaceID), setF func(dst *F, vertex VertexID)) *Mesh[V, E, F] {
	d := &Mesh[V, E, F]{polyCore: polyCore[V, E, F]{
		core:    newCore(m.newVertex, m.newHalfedge, Capacity{Vertices: m.FaceCount(), Faces: m.VertexCount()}),
		faces:   newElementList[Face[F]](m.VertexCount()),
		newFace: m.newFace,
	}}
	faceVertex := make([]VertexID, m.faces.Len())
	for f := range m.Faces() {
		dv := d.AddVertex()
		faceVertex[f] = dv
		if setV != nil {
			setV(&d.vx(dv).Data, f)
		}
	}

	var polys [][]VertexID
	var sources []VertexID
	for v := range m.Vertices() {
		if m.vx(v).first == NoHalfedge || m.IsBoundaryVertex(v) {
			continue
		}
		var poly []VertexID
		for f := range m.VertexFaces(v) {
			poly = append(poly, faceVertex[f])
		}
		if len(poly) < 3 {
			continue
		}
		polys = append(polys, poly)
		sources = append(sources, v)
	}
	faces, err := d.AddPolygons(polys)
	if err != nil {
		// Dual faces of a valid manifold mesh always assemble.
		panic("hemesh: dual of a broken mesh: " + err.Error())
	}
	if setF != nil {
		for i, f := range faces {
			setF(&d.fc(f).Data, sources[i])
		}
	}
	return d
}

// SplitDisjoint returns one mesh per connected component, each compacted.
// Payload is copied by assignment. Isolated vertices form their own
// single-vertex meshes.
func (m *Mesh[V, E, F]) SplitDisjoint() []*Mesh[V, E, F] {
	comps := m.Components()
	owner := make([]int, m.verts.Len())
	for i, comp := range comps {
		for _, v := range comp {
			owner[v] = i
		}
	}
	out := make([]*Mesh[V, E, F], len(comps))
	for i := range comps {
		c := m.Clone()
		for v := range c.Vertices() {
			if owner[v] != i {
				c.verts.remove(int(v))
			}
		}
		for h := range c.Halfedges() {
			if owner[c.he(h).start] != i {
				c.hedges.remove(int(h))
			}
		}
		for f := range c.Faces() {
			if owner[c.he(c.fc(f).first).start] != i {
				c.faces.remove(int(f))
			}
		}
		c.Compact()
		out[i] = c
	}
	return out
}
