package relax

import (
	"errors"
	"fmt"

	"meshrelax/internal/hemesh"
	"meshrelax/internal/mathutil"
)

// RemeshOptions drives edge-length remeshing of a triangle mesh.
type RemeshOptions struct {
	Length     float64 // target edge length
	Iterations int     // split/collapse rounds, at least one
}

// RemeshStats counts what Remesh did.
type RemeshStats struct {
	Splits    int
	Collapses int
	Rejected  int // collapses refused by the topology
}

// Remesh splits edges longer than 4/3 of the target length and collapses
// edges shorter than 4/5 of it. Split triangles are cut again so triangles
// stay triangles. The mesh is compacted afterwards.
func Remesh[E, F any](m *hemesh.Mesh[mathutil.Vec3, E, F], opt RemeshOptions) (RemeshStats, error) {
	if opt.Length <= 0 {
		return RemeshStats{}, fmt.Errorf("relax: remesh: target length %g", opt.Length)
	}
	hi, lo := opt.Length*4/3, opt.Length*4/5
	var st RemeshStats
	for range max(opt.Iterations, 1) {
		n, err := splitLong(m, hi)
		st.Splits += n
		if err != nil {
			return st, err
		}
		c, r := collapseShort(m, lo, hi)
		st.Collapses += c
		st.Rejected += r
	}
	m.Compact()
	return st, nil
}

func edgeLength[E, F any](m *hemesh.Mesh[mathutil.Vec3, E, F], h hemesh.HalfedgeID) float64 {
	return m.VertexData(m.Start(h)).Dist(*m.VertexData(m.End(h)))
}

func isTriangle[E, F any](m *hemesh.Mesh[mathutil.Vec3, E, F], h hemesh.HalfedgeID) bool {
	f := m.FaceOf(h)
	return f != hemesh.NoFace && m.FaceDegree(f) == 3
}

func splitLong[E, F any](m *hemesh.Mesh[mathutil.Vec3, E, F], hi float64) (int, error) {
	var long []hemesh.HalfedgeID
	for h := range m.Edges() {
		if edgeLength(m, h) > hi {
			long = append(long, h)
		}
	}
	for _, h := range long {
		t := m.Twin(h)
		triH, triT := isTriangle(m, h), isTriangle(m, t)
		mid := m.VertexData(m.Start(h)).Lerp(*m.VertexData(m.End(h)), 0.5)

		a := m.SplitEdge(h)
		*m.VertexData(m.Start(a)) = mid
		if triH {
			if _, err := m.SplitFace(a, m.Next(m.Next(a))); err != nil {
				return 0, fmt.Errorf("relax: remesh: %w", err)
			}
		}
		if triT {
			if _, err := m.SplitFace(t, m.Next(m.Next(t))); err != nil {
				return 0, fmt.Errorf("relax: remesh: %w", err)
			}
		}
	}
	return len(long), nil
}

func collapseShort[E, F any](m *hemesh.Mesh[mathutil.Vec3, E, F], lo, hi float64) (collapsed, rejected int) {
	var short []hemesh.HalfedgeID
	for h := range m.Edges() {
		if edgeLength(m, h) < lo {
			short = append(short, h)
		}
	}
	for _, h := range short {
		if !m.IsHalfedgeLive(h) || edgeLength(m, h) >= lo {
			continue
		}
		u, v := m.Start(h), m.End(h)
		bu, bv := m.IsBoundaryVertex(u), m.IsBoundaryVertex(v)
		if bv && !bu {
			h, u, v, bu = m.Twin(h), v, u, true
		}
		// boundary vertices keep their place
		p := m.VertexData(u).Lerp(*m.VertexData(v), 0.5)
		if bu {
			p = *m.VertexData(u)
		}
		if stretches(m, v, p, hi) || stretches(m, u, p, hi) {
			continue
		}
		if err := m.CollapseEdge(h); err != nil {
			if errors.Is(err, hemesh.ErrNonManifold) {
				rejected++
			}
			continue
		}
		*m.VertexData(u) = p
		collapsed++
	}
	return collapsed, rejected
}

// stretches reports whether a vertex at p would be farther than hi from
// one of v's neighbours.
func stretches[E, F any](m *hemesh.Mesh[mathutil.Vec3, E, F], v hemesh.VertexID, p mathutil.Vec3, hi float64) bool {
	for w := range m.ConnectedVertices(v) {
		if m.VertexData(w).Dist(p) > hi {
			return true
		}
	}
	return false
}
