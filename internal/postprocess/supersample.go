package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample shrinks img so that its longer side is maxSize, keeping the
// aspect ratio. Filtering runs on premultiplied colour so transparent
// background does not bleed dark fringes into surface edges. Images that
// already fit are returned as is.
func Downsample(img *image.NRGBA, maxSize int) *image.NRGBA {
	b := img.Bounds()
	w, h := fit(b.Dx(), b.Dy(), maxSize)
	if w == b.Dx() && h == b.Dy() {
		return img
	}

	premul := image.NewRGBA(b)
	draw.Draw(premul, b, img, b.Min, draw.Src)
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(small, small.Bounds(), premul, b, draw.Src, nil)

	// Catmull-Rom rings, so colour may exceed alpha; clamp on the way back.
	out := image.NewNRGBA(small.Bounds())
	for i := 0; i < len(small.Pix); i += 4 {
		a := float64(small.Pix[i+3])
		out.Pix[i+3] = small.Pix[i+3]
		if a <= 1 {
			continue
		}
		for k := range 3 {
			out.Pix[i+k] = clamp8(float64(small.Pix[i+k]) * 255 / a)
		}
	}
	return out
}

// fit scales w×h down so that neither side exceeds limit.
func fit(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
