package hemesh

import (
	"fmt"
	"iter"
	"slices"
)

// Volume is a halfedge cell complex. Each cell is a closed shell of faces;
// a face shared by two cells appears once per cell with opposite windings,
// and the two copies' halfedges are twins. Within a cell, the two
// halfedges on either side of an edge are Adjacent to each other. Faces on
// the outside of the complex get a boundary twin face with no cell.
type Volume[V, E, F, C any] struct {
	polyCore[V, E, F]
	cells   ElementList[Cell[C], *Cell[C]]
	newCell func() C
}

// NewVolume returns an empty volume.
func NewVolume[V, E, F, C any](f Factory[V, E, F, C], c Capacity) *Volume[V, E, F, C] {
	return &Volume[V, E, F, C]{
		polyCore: polyCore[V, E, F]{
			core:    newCore(f.Vertex, f.Halfedge, c),
			faces:   newElementList[Face[F]](c.Faces),
			newFace: f.Face,
		},
		cells:   newElementList[Cell[C]](c.Cells),
		newCell: f.Cell,
	}
}

func (m *Volume[V, E, F, C]) CellCount() int { return m.cells.Count() }

// Cell returns the record of a live cell.
func (m *Volume[V, E, F, C]) Cell(c CellID) *Cell[C] {
	if !m.cells.live(int(c)) {
		panic(fmt.Sprintf("hemesh: cell %d is removed or out of range", c))
	}
	return &m.cells.items[c]
}

func (m *Volume[V, E, F, C]) CellData(c CellID) *C { return &m.Cell(c).Data }

// Cells yields every live cell id.
func (m *Volume[V, E, F, C]) Cells() iter.Seq[CellID] {
	return func(yield func(CellID) bool) {
		for i := range m.cells.items {
			if m.cells.items[i].removed {
				continue
			}
			if !yield(CellID(i)) {
				return
			}
		}
	}
}

// CellOf returns the cell owning face f, or NoCell for a boundary face.
func (m *Volume[V, E, F, C]) CellOf(f FaceID) CellID {
	return m.he(m.Face(f).first).cell
}

func (m *Volume[V, E, F, C]) Adjacent(h HalfedgeID) HalfedgeID { return m.Halfedge(h).adjacent }

// CellFaces yields the faces of c, walking across Adjacent links.
func (m *Volume[V, E, F, C]) CellFaces(c CellID) iter.Seq[FaceID] {
	first := m.Cell(c).first
	return func(yield func(FaceID) bool) {
		tag := m.NextTag()
		start := m.he(first).face
		m.fc(start).Tag = tag
		queue := []FaceID{start}
		for len(queue) > 0 {
			f := queue[0]
			queue = queue[1:]
			if !yield(f) {
				return
			}
			for h := range m.FaceHalfedges(f) {
				g := m.he(m.he(h).adjacent).face
				if m.fc(g).Tag != tag {
					m.fc(g).Tag = tag
					queue = append(queue, g)
				}
			}
		}
	}
}

// EdgeFaces yields the faces around h's edge in radial order, alternating
// between the two faces of each cell the edge passes through.
func (m *Volume[V, E, F, C]) EdgeFaces(h HalfedgeID) iter.Seq[FaceID] {
	m.checkHalfedge(h)
	return func(yield func(FaceID) bool) {
		limit := m.hedges.Len()
		for x, n := h, 0; ; n++ {
			if n > limit {
				panic(fmt.Sprintf("hemesh: radial cycle of halfedge %d does not close", h))
			}
			if !yield(m.he(x).face) {
				return
			}
			if !yield(m.he(m.he(x).adjacent).face) {
				return
			}
			x = m.he(x).adjacent ^ 1
			if x == h {
				return
			}
		}
	}
}

type faceKey string

func cycleKey(poly []VertexID) faceKey {
	lo := 0
	for i, v := range poly {
		if v < poly[lo] {
			lo = i
		}
	}
	b := make([]byte, 0, 4*len(poly))
	for i := range poly {
		v := uint32(poly[(lo+i)%len(poly)])
		b = append(b, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return faceKey(b)
}

// AddCells adds one cell per closed polyhedron over currently isolated
// vertices. Each cell is a list of faces wound outward. Faces of
// different cells with reversed windings become twin faces; every other
// face receives a boundary twin. Nothing is added when a cell is not
// closed, a polygon is degenerate, or a face or edge would be shared by
// more cells than a manifold complex allows.
func (m *Volume[V, E, F, C]) AddCells(cells [][][]VertexID) ([]CellID, error) {
	type faceRef struct{ cell, face int }
	owner := make(map[faceKey]faceRef)
	for ci, cell := range cells {
		if len(cell) < 4 {
			return nil, fmt.Errorf("hemesh: cell %d has %d faces: %w", ci, len(cell), ErrDegenerate)
		}
		edges := make(map[[2]VertexID]int)
		for fi, poly := range cell {
			if len(poly) < 3 {
				return nil, fmt.Errorf("hemesh: cell %d face %d has %d corners: %w", ci, fi, len(poly), ErrDegenerate)
			}
			for j, v := range poly {
				m.checkVertex(v)
				if m.vx(v).first != NoHalfedge {
					return nil, fmt.Errorf("hemesh: cell %d: vertex %d already has edges: %w", ci, v, ErrNonManifold)
				}
				if slices.Contains(poly[:j], v) {
					return nil, fmt.Errorf("hemesh: cell %d face %d repeats vertex %d: %w", ci, fi, v, ErrDegenerate)
				}
				edges[[2]VertexID{v, poly[(j+1)%len(poly)]}]++
			}
			k := cycleKey(poly)
			if _, dup := owner[k]; dup {
				return nil, fmt.Errorf("hemesh: cell %d face %d is wound the same way as another face: %w", ci, fi, ErrNonManifold)
			}
			owner[k] = faceRef{ci, fi}
		}
		for e, n := range edges {
			if n != 1 || edges[[2]VertexID{e[1], e[0]}] != 1 {
				return nil, fmt.Errorf("hemesh: cell %d is not closed at edge %d-%d: %w", ci, e[0], e[1], ErrNonManifold)
			}
		}
	}

	// Plan every face: cell faces in input order, each followed by its
	// boundary twin when no other cell supplies one.
	type plan struct {
		poly []VertexID
		cell int
		twin int
	}
	var plans []plan
	index := make(map[faceRef]int)
	for ci, cell := range cells {
		for fi, poly := range cell {
			index[faceRef{ci, fi}] = len(plans)
			plans = append(plans, plan{poly: poly, cell: ci, twin: -1})
		}
	}
	for i := range len(plans) {
		p := plans[i]
		rev := slices.Clone(p.poly)
		slices.Reverse(rev)
		if ref, ok := owner[cycleKey(rev)]; ok {
			if ref.cell == p.cell {
				return nil, fmt.Errorf("hemesh: cell %d contains a face and its reverse: %w", p.cell, ErrNonManifold)
			}
			plans[i].twin = index[ref]
			continue
		}
		plans[i].twin = len(plans)
		plans = append(plans, plan{poly: rev, cell: -1, twin: i})
	}

	// Boundary edges must pair up exactly once outside the cells too.
	outer := make(map[[2]VertexID]int)
	for _, p := range plans {
		if p.cell != -1 {
			continue
		}
		for j, v := range p.poly {
			outer[[2]VertexID{v, p.poly[(j+1)%len(p.poly)]}]++
		}
	}
	for e, n := range outer {
		if n != 1 || outer[[2]VertexID{e[1], e[0]}] != 1 {
			return nil, fmt.Errorf("hemesh: boundary edge %d-%d is not manifold: %w", e[0], e[1], ErrNonManifold)
		}
	}

	// Allocate halfedge pairs face by face; the twin face reuses them.
	cellIDs := make([]CellID, len(cells))
	for ci := range cells {
		cellIDs[ci] = CellID(m.cells.add(Cell[C]{first: NoHalfedge, Data: make0(m.newCell)}))
	}
	faceIDs := make([]FaceID, len(plans))
	loops := make([][]HalfedgeID, len(plans))
	for i, p := range plans {
		faceIDs[i] = m.addFace(NoHalfedge)
		loops[i] = make([]HalfedgeID, len(p.poly))
	}
	for i, p := range plans {
		if p.twin < i {
			continue
		}
		tp := plans[p.twin].poly
		for j, a := range p.poly {
			b := p.poly[(j+1)%len(p.poly)]
			h := m.newPair(a, b)
			loops[i][j] = h
			// In the twin, the edge b->a starts at b's position.
			loops[p.twin][slices.Index(tp, b)] = h ^ 1
		}
	}
	for i, p := range plans {
		cell := NoCell
		if p.cell >= 0 {
			cell = cellIDs[p.cell]
		}
		f := faceIDs[i]
		m.fc(f).first = loops[i][0]
		for j, h := range loops[i] {
			m.link(h, loops[i][(j+1)%len(loops[i])])
			m.he(h).face = f
			m.he(h).cell = cell
			if m.vx(p.poly[j]).first == NoHalfedge {
				m.vx(p.poly[j]).first = h
			}
		}
		if cell != NoCell && m.cells.items[cell].first == NoHalfedge {
			m.cells.items[cell].first = loops[i][0]
		}
	}

	// Adjacent pairs the two sides of each edge within one cell, or within
	// the outer shell for boundary faces.
	type sided struct {
		cell CellID
		a, b VertexID
	}
	byEdge := make(map[sided]HalfedgeID)
	for i := range plans {
		for _, h := range loops[i] {
			r := m.he(h)
			byEdge[sided{r.cell, r.start, m.he(h ^ 1).start}] = h
		}
	}
	for i := range plans {
		for _, h := range loops[i] {
			r := m.he(h)
			r.adjacent = byEdge[sided{r.cell, m.he(h ^ 1).start, r.start}]
		}
	}
	return cellIDs, nil
}

// Compact drops removed elements and renumbers the rest.
func (m *Volume[V, E, F, C]) Compact() {
	vmap, hmap := m.compactCore()
	fmap := m.faces.compact()
	cmap := m.cells.compact()
	m.remapCore(vmap, hmap, fmap, cmap)
	m.remapFaces(hmap)
	for i := range m.cells.items {
		m.cells.items[i].first = remapID(hmap, m.cells.items[i].first)
	}
}

// Validate checks halfedge, face and cell invariants: symmetric Adjacent
// links within each cell, twin faces matching edge for edge, and closed
// radial cycles around every edge.
func (m *Volume[V, E, F, C]) Validate() error {
	if err := m.validateCore(false); err != nil {
		return err
	}
	if err := m.validateFaces(); err != nil {
		return err
	}
	for h := range m.Halfedges() {
		r := m.he(h)
		if r.adjacent == NoHalfedge {
			return corrupt("halfedge %d has no adjacent halfedge", h)
		}
		if r.cell != NoCell && !m.cells.live(int(r.cell)) {
			return corrupt("halfedge %d is in dead cell %d", h, r.cell)
		}
		if m.he(r.next).cell != r.cell {
			return corrupt("face %d spans two cells", r.face)
		}
		if m.he(r.next^1).face != m.he(h^1).face {
			return corrupt("face %d has no single twin face", r.face)
		}
		if m.he(h^1).cell == r.cell && r.cell != NoCell {
			return corrupt("halfedge %d twins a face of its own cell", h)
		}
		n := 0
		for range m.EdgeFaces(h) {
			n++
		}
		if n%2 != 0 {
			return corrupt("radial cycle of halfedge %d is odd", h)
		}
	}
	for c := range m.Cells() {
		first := m.cells.items[c].first
		if !m.hedges.live(int(first)) || m.he(first).cell != c {
			return corrupt("cell %d: first halfedge %d is not in it", c, first)
		}
	}
	return nil
}
