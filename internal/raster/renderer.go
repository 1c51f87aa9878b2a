package raster

import (
	"image"

	"meshrelax/internal/mathutil"
	"meshrelax/internal/viewmatrix"
)

// Options controls a preview render.
type Options struct {
	Size        int           // output edge in pixels
	Supersample int           // render at Size*Supersample
	View        mathutil.Mat3 // camera orientation
	FOV         float64       // degrees; zero is orthographic
	Color       Color
	Edges       Color // polygon outlines; zero alpha draws none
	Background  Color
}

// DefaultColor is the neutral grey used for surfaces.
var DefaultColor = Color{160, 160, 170, 255}

// RenderPolygons renders polygons, given as index lists into pts, to an
// NRGBA image of Size*Supersample pixels. Polygons are fan-triangulated.
// The caller downsamples supersampled output.
func RenderPolygons(pts []mathutil.Vec3, polys [][]int, opt Options) *image.NRGBA {
	ss := max(opt.Supersample, 1)
	renderSize := max(opt.Size*ss, 0)
	fb := NewFrameBuffer(renderSize, renderSize)
	fb.Clear(opt.Background)
	if len(polys) == 0 || renderSize == 0 {
		return fb.Img
	}
	c := opt.Color
	if c == (Color{}) {
		c = DefaultColor
	}

	pr := viewmatrix.Fit(pts, opt.View, renderSize, 16*ss, opt.FOV)
	px, py, pz := pr.ProjectVertices(pts)

	lc := DefaultLightConfig()
	for _, poly := range polys {
		for i := 1; i+1 < len(poly); i++ {
			RasterizeTriangle(fb, px, py, pz, [3]int{poly[0], poly[i], poly[i+1]}, c, &lc)
		}
	}
	if opt.Edges[3] > 0 {
		bias := depthBias(pz)
		for _, poly := range polys {
			for i, a := range poly {
				b := poly[(i+1)%len(poly)]
				if a < 0 || b < 0 || a >= len(px) || b >= len(px) {
					continue
				}
				fb.DrawLine(px[a], py[a], pz[a], px[b], py[b], pz[b], opt.Edges, bias)
			}
		}
	}
	return fb.Img
}

// depthBias is a small fraction of the depth range of pz.
func depthBias(pz []float64) float64 {
	lo, hi := pz[0], pz[0]
	for _, z := range pz {
		lo, hi = min(lo, z), max(hi, z)
	}
	return 0.01*(hi-lo) + 1e-9
}
