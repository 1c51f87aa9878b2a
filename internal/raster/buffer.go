package raster

import (
	"image"
	"math"
)

// FrameBuffer is an RGBA image with one depth value per pixel. Larger depth
// is nearer the camera.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8 // aliases Img.Pix
	ZBuf   []float64
	Img    *image.NRGBA
}

// NewFrameBuffer allocates a transparent buffer with every depth at -inf.
func NewFrameBuffer(w, h int) *FrameBuffer {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  img.Pix,
		ZBuf:   make([]float64, w*h),
		Img:    img,
	}
	fb.Clear(Color{})
	return fb
}

// Clear fills the image with bg and resets depth.
func (fb *FrameBuffer) Clear(bg Color) {
	for i := range fb.ZBuf {
		fb.ZBuf[i] = math.Inf(-1)
		copy(fb.Color[4*i:4*i+4], bg[:])
	}
}

// plot writes c at (x, y) if z is nearer than the stored depth.
func (fb *FrameBuffer) plot(x, y int, z float64, c Color) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	i := y*fb.Width + x
	if z <= fb.ZBuf[i] {
		return
	}
	fb.ZBuf[i] = z
	copy(fb.Color[4*i:4*i+4], c[:])
}

// DrawLine draws a depth-tested segment between two projected points.
// bias is added to the depth so that edges show on top of their own faces.
func (fb *FrameBuffer) DrawLine(x0, y0, z0, x1, y1, z1 float64, c Color, bias float64) {
	n := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if n == 0 {
		fb.plot(int(math.Round(x0)), int(math.Round(y0)), math.Max(z0, z1)+bias, c)
		return
	}
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		x := int(math.Round(x0 + (x1-x0)*t))
		y := int(math.Round(y0 + (y1-y0)*t))
		fb.plot(x, y, z0+(z1-z0)*t+bias, c)
	}
}
