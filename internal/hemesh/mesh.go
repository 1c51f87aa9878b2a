package hemesh

import "fmt"

// Mesh is a halfedge surface: a graph whose halfedges may bound faces.
type Mesh[V, E, F any] struct {
	polyCore[V, E, F]
}

// NewMesh returns an empty mesh.
func NewMesh[V, E, F any](f Factory[V, E, F, struct{}], c Capacity) *Mesh[V, E, F] {
	return &Mesh[V, E, F]{polyCore: polyCore[V, E, F]{
		core:    newCore(f.Vertex, f.Halfedge, c),
		faces:   newElementList[Face[F]](c.Faces),
		newFace: f.Face,
	}}
}

// FromPolygons builds a mesh with nVerts vertices and one face per polygon.
func FromPolygons[V, E, F any](f Factory[V, E, F, struct{}], nVerts int, polys [][]VertexID) (*Mesh[V, E, F], error) {
	halfedges := 0
	for _, p := range polys {
		halfedges += 2 * len(p)
	}
	m := NewMesh(f, Capacity{Vertices: nVerts, Halfedges: halfedges, Faces: len(polys)})
	m.AddVertices(nVerts)
	if _, err := m.AddPolygons(polys); err != nil {
		return nil, err
	}
	return m, nil
}

// AddEdge connects two isolated or boundary vertices with a pair of
// boundary halfedges and returns the one from u to v.
func (m *Mesh[V, E, F]) AddEdge(u, v VertexID) HalfedgeID {
	return m.insertEdge(u, v)
}

type protoHalfedge struct {
	start VertexID
	face  int32
	next  int32
}

// AddPolygons adds one face per polygon over currently isolated vertices.
// Shared sides become twins, open sides get boundary twins linked into
// boundary loops. Nothing is added when the polygons repeat a directed
// edge, repeat a corner, or leave a vertex with more than one boundary fan
// or a star that splits into separate fans.
func (m *Mesh[V, E, F]) AddPolygons(polys [][]VertexID) ([]FaceID, error) {
	pairs := make(map[[2]VertexID]int32)
	var protos []protoHalfedge
	sides := make([][]int32, len(polys))

	for i, poly := range polys {
		if len(poly) < 3 {
			return nil, fmt.Errorf("hemesh: polygon %d has %d corners: %w", i, len(poly), ErrDegenerate)
		}
		for j, v := range poly {
			m.checkVertex(v)
			if m.vx(v).first != NoHalfedge {
				return nil, fmt.Errorf("hemesh: polygon %d: vertex %d already has edges: %w", i, v, ErrNonManifold)
			}
			for _, w := range poly[:j] {
				if w == v {
					return nil, fmt.Errorf("hemesh: polygon %d repeats vertex %d: %w", i, v, ErrDegenerate)
				}
			}
		}
		sides[i] = make([]int32, len(poly))
		for j, a := range poly {
			b := poly[(j+1)%len(poly)]
			key := [2]VertexID{min(a, b), max(a, b)}
			base, ok := pairs[key]
			if !ok {
				base = int32(len(protos))
				protos = append(protos,
					protoHalfedge{start: key[0], face: -1, next: -1},
					protoHalfedge{start: key[1], face: -1, next: -1})
				pairs[key] = base
			}
			idx := base
			if protos[base].start != a {
				idx = base + 1
			}
			if protos[idx].face != -1 {
				return nil, fmt.Errorf("hemesh: polygon %d repeats directed edge %d->%d: %w", i, a, b, ErrNonManifold)
			}
			protos[idx].face = int32(i)
			sides[i][j] = idx
		}
	}
	for _, s := range sides {
		for j, idx := range s {
			protos[idx].next = s[(j+1)%len(s)]
		}
	}

	boundaryOut := make(map[VertexID]int32)
	anyOut := make(map[VertexID]int32)
	outCount := make(map[VertexID]int)
	for idx := range protos {
		p := &protos[idx]
		outCount[p.start]++
		anyOut[p.start] = int32(idx)
		if p.face != -1 {
			continue
		}
		if _, dup := boundaryOut[p.start]; dup {
			return nil, fmt.Errorf("hemesh: vertex %d would carry two boundary fans: %w", p.start, ErrNonManifold)
		}
		boundaryOut[p.start] = int32(idx)
	}
	for idx := range protos {
		p := &protos[idx]
		if p.face != -1 {
			continue
		}
		end := protos[idx^1].start
		next, ok := boundaryOut[end]
		if !ok {
			return nil, fmt.Errorf("hemesh: boundary at vertex %d does not continue: %w", end, ErrNonManifold)
		}
		p.next = next
	}
	for v, first := range anyOut {
		n := 0
		for h := first; ; {
			n++
			h = protos[h^1].next
			if h == first || n > len(protos) {
				break
			}
		}
		if n != outCount[v] {
			return nil, fmt.Errorf("hemesh: faces around vertex %d do not form one fan: %w", v, ErrNonManifold)
		}
	}

	base := HalfedgeID(m.hedges.Len())
	for _, p := range protos {
		m.hedges.add(Halfedge[E]{
			start:    p.start,
			face:     NoFace,
			next:     base + HalfedgeID(p.next),
			adjacent: NoHalfedge,
			cell:     NoCell,
			Data:     make0(m.newHalfedge),
		})
	}
	for idx := range protos {
		m.he(base + HalfedgeID(protos[idx].next)).prev = base + HalfedgeID(idx)
	}
	faces := make([]FaceID, len(polys))
	for i, s := range sides {
		f := m.addFace(base + HalfedgeID(s[0]))
		faces[i] = f
		for _, idx := range s {
			m.he(base + HalfedgeID(idx)).face = f
		}
	}
	for v, idx := range anyOut {
		if b, ok := boundaryOut[v]; ok {
			idx = b
		}
		m.vx(v).first = base + HalfedgeID(idx)
	}
	return faces, nil
}

// RemoveVertex removes v, its faces and its edges.
func (m *Mesh[V, E, F]) RemoveVertex(v VertexID) {
	m.checkVertex(v)
	for m.vx(v).first != NoHalfedge {
		if f := m.firstFaceAt(v); f != NoFace {
			m.RemoveFace(f)
			continue
		}
		m.unlinkEdge(m.vx(v).first)
	}
	m.verts.remove(int(v))
}

func (m *Mesh[V, E, F]) firstFaceAt(v VertexID) FaceID {
	for f := range m.VertexFaces(v) {
		return f
	}
	return NoFace
}

// Clone returns a deep copy. Payload values are copied by assignment.
func (m *Mesh[V, E, F]) Clone() *Mesh[V, E, F] {
	return &Mesh[V, E, F]{polyCore: m.clonePoly()}
}

// Compact drops removed elements and renumbers the rest.
func (m *Mesh[V, E, F]) Compact() {
	vmap, hmap := m.compactCore()
	fmap := m.faces.compact()
	m.remapCore(vmap, hmap, fmap, nil)
	m.remapFaces(hmap)
}

// Validate checks every topological invariant, including that boundary
// vertices point at a boundary halfedge.
func (m *Mesh[V, E, F]) Validate() error {
	if err := m.validateCore(true); err != nil {
		return err
	}
	if err := m.validateFaces(); err != nil {
		return err
	}
	for v := range m.Vertices() {
		first := m.vx(v).first
		if first == NoHalfedge || m.he(first).face == NoFace {
			continue
		}
		for h := range m.OutgoingHalfedges(v) {
			if m.he(h).face == NoFace {
				return corrupt("boundary vertex %d points at interior halfedge %d", v, first)
			}
		}
	}
	return nil
}
