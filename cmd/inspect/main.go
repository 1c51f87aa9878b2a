package main

import (
	"flag"
	"fmt"
	"os"

	"meshrelax/internal/hemesh"
	"meshrelax/internal/mathutil"
	"meshrelax/internal/meshgen"
)

func main() {
	shape := flag.String("shape", "grid", "Shape: grid, trigrid, box, ico or prism")
	n := flag.Int("n", 3, "Cells per side for grids, cells for prisms")
	dual := flag.Bool("dual", false, "Also report the dual of surface meshes")
	flag.Parse()

	if *shape == "prism" {
		v, err := meshgen.Prism(*n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Volume: cells=%d, faces=%d, edges=%d, verts=%d\n", v.CellCount(), v.FaceCount(), v.EdgeCount(), v.VertexCount())
		boundary := 0
		for f := range v.Faces() {
			if v.CellOf(f) == hemesh.NoCell {
				boundary++
			}
		}
		fmt.Printf("  Boundary faces: %d\n", boundary)
		report("Validate", v.Validate())
		return
	}

	m, err := build(*shape, *n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	describe("Mesh", m)
	if *dual {
		d := m.Dual(
			func(dst *mathutil.Vec3, f hemesh.FaceID) { *dst = faceCentre(m, f) },
			nil)
		describe("Dual", d)
	}
}

func build(shape string, n int) (*meshgen.Mesh, error) {
	switch shape {
	case "grid":
		return meshgen.Grid(n, n, 1, false)
	case "trigrid":
		return meshgen.Grid(n, n, 1, true)
	case "box":
		return meshgen.Box(mathutil.Vec3{}, mathutil.Vec3{1, 1, 1})
	case "ico":
		return meshgen.Icosahedron(1)
	}
	return nil, fmt.Errorf("unknown shape %q", shape)
}

func describe(label string, m *meshgen.Mesh) {
	v, e, f := m.VertexCount(), m.EdgeCount(), m.FaceCount()
	fmt.Printf("%s: verts=%d, edges=%d, faces=%d, euler=%d\n", label, v, e, f, v-e+f)

	degrees := map[int]int{}
	for f := range m.Faces() {
		degrees[m.FaceDegree(f)]++
	}
	fmt.Printf("  Face sizes: %v\n", degrees)

	loops, boundary := 0, 0
	seen := make(map[hemesh.HalfedgeID]bool)
	for h := range m.Halfedges() {
		if m.FaceOf(h) != hemesh.NoFace || seen[h] {
			continue
		}
		loops++
		for x := range m.HalfedgesFrom(h) {
			seen[x] = true
			boundary++
		}
	}
	fmt.Printf("  Boundary: %d loops, %d halfedges\n", loops, boundary)
	fmt.Printf("  Components: %d\n", len(m.Components()))

	lo, hi := mathutil.Bounds(meshgen.Positions(m))
	fmt.Printf("  BBox: X[%.2f, %.2f] Y[%.2f, %.2f] Z[%.2f, %.2f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
	report("  Validate", m.Validate())
}

func faceCentre(m *meshgen.Mesh, f hemesh.FaceID) mathutil.Vec3 {
	var pts []mathutil.Vec3
	for v := range m.FaceVertices(f) {
		pts = append(pts, *m.VertexData(v))
	}
	return mathutil.Centroid(pts)
}

func report(label string, err error) {
	if err != nil {
		fmt.Printf("%s: %v\n", label, err)
		os.Exit(1)
	}
	fmt.Printf("%s: ok\n", label)
}
