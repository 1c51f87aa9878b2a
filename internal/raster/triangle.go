package raster

import (
	"math"

	"meshrelax/internal/mathutil"
)

// Color is a straight-alpha RGBA color in sRGB.
type Color [4]uint8

// RasterizeTriangle fills one flat-shaded triangle through the z-buffer.
// px, py, pz hold projected vertices and vi picks three of them.
func RasterizeTriangle(fb *FrameBuffer, px, py, pz []float64, vi [3]int, c Color, lc *LightConfig) {
	for _, i := range vi {
		if i < 0 || i >= len(px) {
			return
		}
	}
	x0, y0, z0 := px[vi[0]], py[vi[0]], pz[vi[0]]
	x1, y1, z1 := px[vi[1]], py[vi[1]], pz[vi[1]]
	x2, y2, z2 := px[vi[2]], py[vi[2]], pz[vi[2]]

	n := mathutil.Vec3{x1 - x0, y1 - y0, z1 - z0}.Cross(mathutil.Vec3{x2 - x0, y2 - y0, z2 - z0})
	if n.Len() < 1e-8 {
		return
	}
	out := lc.Shade(c, n.Normalize())

	minX := max(int(math.Min(math.Min(x0, x1), x2)), 0)
	maxX := min(int(math.Max(math.Max(x0, x1), x2))+1, fb.Width-1)
	minY := max(int(math.Min(math.Min(y0, y1), y2)), 0)
	maxY := min(int(math.Max(math.Max(y0, y1), y2))+1, fb.Height-1)
	if minX >= maxX || minY >= maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if math.Abs(det) < 1e-8 {
		return
	}
	inv := 1 / det
	for sy := minY; sy <= maxY; sy++ {
		dy := float64(sy) - y2
		for sx := minX; sx <= maxX; sx++ {
			dx := float64(sx) - x2
			w0 := ((y1-y2)*dx + (x2-x1)*dy) * inv
			w1 := ((y2-y0)*dx + (x0-x2)*dy) * inv
			w2 := 1 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}
			fb.plot(sx, sy, w0*z0+w1*z1+w2*z2, out)
		}
	}
}
