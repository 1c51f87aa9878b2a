// Package meshgen builds procedural input meshes through the public
// halfedge construction API.
package meshgen

import (
	"fmt"
	"math"
	"math/rand"

	"meshrelax/internal/hemesh"
	"meshrelax/internal/mathutil"
)

// Mesh is a surface whose vertices carry their position.
type Mesh = hemesh.Mesh[mathutil.Vec3, struct{}, struct{}]

// Volume is a cell complex whose vertices carry their position.
type Volume = hemesh.Volume[mathutil.Vec3, struct{}, struct{}, struct{}]

var factory = hemesh.Factory[mathutil.Vec3, struct{}, struct{}, struct{}]{}

func fromPolygons(pts []mathutil.Vec3, polys [][]hemesh.VertexID) (*Mesh, error) {
	m, err := hemesh.FromPolygons(factory, len(pts), polys)
	if err != nil {
		return nil, err
	}
	for i, p := range pts {
		*m.VertexData(hemesh.VertexID(i)) = p
	}
	return m, nil
}

// Grid returns an nx×ny sheet of square cells of the given size in the XY
// plane. With triangles set every cell is cut along its rising diagonal.
func Grid(nx, ny int, size float64, triangles bool) (*Mesh, error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("meshgen: grid %dx%d: need at least one cell", nx, ny)
	}
	id := func(i, j int) hemesh.VertexID { return hemesh.VertexID(j*(nx+1) + i) }

	pts := make([]mathutil.Vec3, 0, (nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			pts = append(pts, mathutil.Vec3{float64(i) * size, float64(j) * size, 0})
		}
	}
	var polys [][]hemesh.VertexID
	for j := range ny {
		for i := range nx {
			a, b, c, d := id(i, j), id(i+1, j), id(i+1, j+1), id(i, j+1)
			if triangles {
				polys = append(polys, []hemesh.VertexID{a, b, c}, []hemesh.VertexID{a, c, d})
			} else {
				polys = append(polys, []hemesh.VertexID{a, b, c, d})
			}
		}
	}
	return fromPolygons(pts, polys)
}

// cubeFaces lists outward quads of a cube whose corner x + 2y + 4z sits at
// (x, y, z).
var cubeFaces = [6][4]int{
	{0, 2, 3, 1}, {4, 5, 7, 6},
	{0, 1, 5, 4}, {2, 6, 7, 3},
	{0, 4, 6, 2}, {1, 3, 7, 5},
}

func cubeCorner(lo, hi mathutil.Vec3, c int) mathutil.Vec3 {
	var p mathutil.Vec3
	for k := range 3 {
		p[k] = lo[k]
		if c>>k&1 == 1 {
			p[k] = hi[k]
		}
	}
	return p
}

// Box returns the closed quad surface of the axis-aligned box [lo, hi].
func Box(lo, hi mathutil.Vec3) (*Mesh, error) {
	pts := make([]mathutil.Vec3, 8)
	for c := range pts {
		pts[c] = cubeCorner(lo, hi, c)
	}
	polys := make([][]hemesh.VertexID, len(cubeFaces))
	for i, f := range cubeFaces {
		polys[i] = []hemesh.VertexID{hemesh.VertexID(f[0]), hemesh.VertexID(f[1]), hemesh.VertexID(f[2]), hemesh.VertexID(f[3])}
	}
	return fromPolygons(pts, polys)
}

var icoFaces = [20][3]hemesh.VertexID{
	{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
	{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
	{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
	{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
}

// Icosahedron returns a regular icosahedron of the given circumradius
// centred at the origin, with outward triangles.
func Icosahedron(radius float64) (*Mesh, error) {
	t := (1 + math.Sqrt(5)) / 2
	pts := []mathutil.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	for i := range pts {
		pts[i] = pts[i].Normalize().Scale(radius)
	}
	polys := make([][]hemesh.VertexID, len(icoFaces))
	for i, f := range icoFaces {
		polys[i] = f[:]
	}
	return fromPolygons(pts, polys)
}

// Prism returns a column of n unit cubes stacked along Z, one cell each.
// Neighbouring cells share a twin face.
func Prism(n int) (*Volume, error) {
	if n < 1 {
		return nil, fmt.Errorf("meshgen: prism of %d cells", n)
	}
	v := hemesh.NewVolume(factory, hemesh.Capacity{
		Vertices:  4 * (n + 1),
		Halfedges: 48 * n,
		Faces:     6 * n,
		Cells:     n,
	})
	first := v.AddVertices(4 * (n + 1))
	for i := range 4 * (n + 1) {
		*v.VertexData(first + hemesh.VertexID(i)) = mathutil.Vec3{float64(i & 1), float64(i >> 1 & 1), float64(i >> 2)}
	}
	cells := make([][][]hemesh.VertexID, n)
	for k := range cells {
		base := first + hemesh.VertexID(4*k)
		for _, f := range cubeFaces {
			cells[k] = append(cells[k], []hemesh.VertexID{base + hemesh.VertexID(f[0]), base + hemesh.VertexID(f[1]), base + hemesh.VertexID(f[2]), base + hemesh.VertexID(f[3])})
		}
	}
	if _, err := v.AddCells(cells); err != nil {
		return nil, err
	}
	return v, nil
}

// Jitter moves every live vertex by a uniform random offset in
// [-amount, amount] per axis. The same seed gives the same mesh.
func Jitter(m *Mesh, amount float64, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for v := range m.Vertices() {
		p := m.VertexData(v)
		for k := range 3 {
			p[k] += (2*rng.Float64() - 1) * amount
		}
	}
}

// Positions returns the position of every vertex slot, removed ones
// included, indexed by VertexID.
func Positions(m *Mesh) []mathutil.Vec3 {
	pts := make([]mathutil.Vec3, m.VertexSlots())
	for v := range m.Vertices() {
		pts[v] = *m.VertexData(v)
	}
	return pts
}
