package hemesh

import (
	"fmt"
	"iter"
)

// polyCore adds faces to the vertex/halfedge core. Meshes and volumes
// share it.
type polyCore[V, E, F any] struct {
	core[V, E]
	faces   ElementList[Face[F], *Face[F]]
	newFace func() F
}

func (m *polyCore[V, E, F]) FaceCount() int { return m.faces.Count() }
func (m *polyCore[V, E, F]) FaceSlots() int { return m.faces.Len() }

// Face returns the record of a live face.
func (m *polyCore[V, E, F]) Face(f FaceID) *Face[F] {
	m.checkFace(f)
	return &m.faces.items[f]
}

func (m *polyCore[V, E, F]) FaceData(f FaceID) *F     { return &m.Face(f).Data }
func (m *polyCore[V, E, F]) IsFaceLive(f FaceID) bool { return m.faces.live(int(f)) }

func (m *polyCore[V, E, F]) checkFace(f FaceID) {
	if !m.faces.live(int(f)) {
		panic(fmt.Sprintf("hemesh: face %d is removed or out of range", f))
	}
}

func (m *polyCore[V, E, F]) fc(f FaceID) *Face[F] { return &m.faces.items[f] }

func (m *polyCore[V, E, F]) addFace(first HalfedgeID) FaceID {
	return FaceID(m.faces.add(Face[F]{first: first, Data: make0(m.newFace)}))
}

// Faces yields every live face id.
func (m *polyCore[V, E, F]) Faces() iter.Seq[FaceID] {
	return func(yield func(FaceID) bool) {
		for i := range m.faces.items {
			if m.faces.items[i].removed {
				continue
			}
			if !yield(FaceID(i)) {
				return
			}
		}
	}
}

// FaceHalfedges yields the face's halfedges in winding order.
func (m *polyCore[V, E, F]) FaceHalfedges(f FaceID) iter.Seq[HalfedgeID] {
	return m.HalfedgesFrom(m.Face(f).first)
}

// FaceVertices yields the face's corners in winding order.
func (m *polyCore[V, E, F]) FaceVertices(f FaceID) iter.Seq[VertexID] {
	return func(yield func(VertexID) bool) {
		for h := range m.FaceHalfedges(f) {
			if !yield(m.he(h).start) {
				return
			}
		}
	}
}

// FaceVertexList collects FaceVertices.
func (m *polyCore[V, E, F]) FaceVertexList(f FaceID) []VertexID {
	var out []VertexID
	for v := range m.FaceVertices(f) {
		out = append(out, v)
	}
	return out
}

func (m *polyCore[V, E, F]) FaceDegree(f FaceID) int {
	return m.LoopLength(m.Face(f).first)
}

// VertexFaces yields the faces around v in star order, skipping boundary gaps.
func (m *polyCore[V, E, F]) VertexFaces(v VertexID) iter.Seq[FaceID] {
	return func(yield func(FaceID) bool) {
		for h := range m.OutgoingHalfedges(v) {
			if f := m.he(h).face; f != NoFace && !yield(f) {
				return
			}
		}
	}
}

// BreadthFirstFaces walks faces reachable across shared edges from seeds.
// Faces stamped with TagExcluded are neither yielded nor crossed.
func (m *polyCore[V, E, F]) BreadthFirstFaces(seeds ...FaceID) iter.Seq[FaceID] {
	return func(yield func(FaceID) bool) {
		tag := m.NextTag()
		var queue []FaceID
		visit := func(f FaceID) {
			if t := m.fc(f).Tag; t == tag || t == TagExcluded {
				return
			}
			m.fc(f).Tag = tag
			queue = append(queue, f)
		}
		for _, s := range seeds {
			m.checkFace(s)
			visit(s)
		}
		for len(queue) > 0 {
			f := queue[0]
			queue = queue[1:]
			if !yield(f) {
				return
			}
			for h := range m.FaceHalfedges(f) {
				if g := m.he(h ^ 1).face; g != NoFace {
					visit(g)
				}
			}
		}
	}
}

func (m *polyCore[V, E, F]) validateFaces() error {
	for i := range m.faces.items {
		f := FaceID(i)
		r := m.fc(f)
		if r.removed {
			continue
		}
		if r.index != int32(i) {
			return corrupt("face %d carries index %d", f, r.index)
		}
		if !m.hedges.live(int(r.first)) || m.he(r.first).face != f {
			return corrupt("face %d: first halfedge %d is not on it", f, r.first)
		}
		if n := m.LoopLength(r.first); n < 2 {
			return corrupt("face %d has %d sides", f, n)
		}
	}
	for h := range m.Halfedges() {
		if f := m.he(h).face; f != NoFace && !m.faces.live(int(f)) {
			return corrupt("halfedge %d is on dead face %d", h, f)
		}
	}
	return nil
}

func (m *polyCore[V, E, F]) remapFaces(hmap []int32) {
	for i := range m.faces.items {
		m.faces.items[i].first = remapID(hmap, m.faces.items[i].first)
	}
}

func (m *polyCore[V, E, F]) clonePoly() polyCore[V, E, F] {
	return polyCore[V, E, F]{core: m.cloneCore(), faces: m.faces.clone(), newFace: m.newFace}
}
