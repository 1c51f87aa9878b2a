package viewmatrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meshrelax/internal/mathutil"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"", "iso", "top", "front"} {
		_, err := ByName(name)
		assert.NoError(t, err, name)
	}
	_, err := ByName("side")
	assert.Error(t, err)
}

func TestFitFramesPoints(t *testing.T) {
	pts := []mathutil.Vec3{{0, 0, 0}, {4, 0, 0}, {4, 2, 0}, {0, 2, 1}}
	pr := Fit(pts, mathutil.TopView, 100, 10, 0)
	px, py, _ := pr.ProjectVertices(pts)

	assert.InDelta(t, 10, px[0], 1e-9)
	assert.InDelta(t, 90, px[1], 1e-9)
	// screen y grows downwards
	assert.Greater(t, py[0], py[3])
	assert.InDelta(t, 50, (py[0]+py[3])/2, 1e-9)
}

func TestPerspectiveShrinksFarPoints(t *testing.T) {
	near := mathutil.Vec3{1, 1, 1}
	far := mathutil.Vec3{1, 1, -1}
	pts := []mathutil.Vec3{{-1, -1, -1}, {1, 1, 1}, near, far}
	pr := Fit(pts, mathutil.TopView, 200, 0, 60)
	require.True(t, pr.perspective)

	xn, _, zn := pr.Project(near)
	xf, _, zf := pr.Project(far)
	assert.Greater(t, zn, zf)
	assert.Greater(t, xn, xf)
}

func TestFitEmpty(t *testing.T) {
	pr := Fit(nil, mathutil.IsoView, 64, 4, 0)
	assert.Positive(t, pr.Scale)
	assert.Equal(t, mathutil.Vec3{}, pr.Center)
}
