package raster

import (
	"math"

	"meshrelax/internal/mathutil"
)

// viewDir points from the camera into the screen, in screen space.
var viewDir = mathutil.Vec3{0, -110, -400}.Normalize()

// LightConfig is a fixed screen-space light rig: a key light, a rim light,
// a hemisphere fill and a Blinn-Phong highlight on the key.
type LightConfig struct {
	Key mathutil.Vec3 // unit direction towards the key light
	Rim mathutil.Vec3

	Ambient float64
	Hemi    float64
	KeyInt  float64
	RimInt  float64
	SpecInt float64
	SpecPow float64

	Exposure float64
	Gamma    float64
}

// DefaultLightConfig returns the three-point rig used for previews.
func DefaultLightConfig() LightConfig {
	return LightConfig{
		Key:      mathutil.Vec3{180, 260, 140}.Normalize(),
		Rim:      mathutil.Vec3{-160, 130, -210}.Normalize(),
		Ambient:  0.55,
		Hemi:     0.50,
		KeyInt:   1.50,
		RimInt:   0.60,
		SpecInt:  0.45,
		SpecPow:  12,
		Exposure: 1.05,
		Gamma:    2.2,
	}
}

// ComputeShade returns the light reaching a surface with unit normal n.
// Surfaces are lit from both sides.
func (lc *LightConfig) ComputeShade(n mathutil.Vec3) float64 {
	key := math.Abs(n.Dot(lc.Key))
	rim := math.Abs(n.Dot(lc.Rim))
	hemi := (1-math.Abs(n[1]))*0.5 + 0.5

	half := lc.Key.Sub(viewDir).Normalize()
	spec := math.Pow(math.Max(n.Dot(half), 0), lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemi*lc.Hemi + key*lc.KeyInt + rim*lc.RimInt + spec
}

// Shade lights a base colour for a face with unit normal n and tone maps
// the result back to sRGB. Alpha passes through.
func (lc *LightConfig) Shade(c Color, n mathutil.Vec3) Color {
	s := lc.ComputeShade(n) * lc.Exposure
	inv := 1 / lc.Gamma
	out := Color{0, 0, 0, c[3]}
	for k := range 3 {
		out[k] = clamp255(math.Pow(ACESTonemap(srgbToLinear[c[k]]*s), inv) * 255)
	}
	return out
}

// srgbToLinear decodes 8-bit sRGB with a 2.2 gamma.
var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = math.Pow(float64(i)/255, 2.2)
	}
}

// ACESTonemap is the ACES filmic curve fit for a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
