package mask

import (
	"testing"

	"github.com/jpfielding/pixsort.go/pkg/pixel"
	"github.com/jpfielding/pixsort.go/pkg/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func alphaRow(t *testing.T, alphas ...uint8) *pixel.Buffer {
	t.Helper()
	b, err := pixel.New(len(alphas), 1)
	require.NoError(t, err)
	for x, a := range alphas {
		b.Set(x, 0, pixel.Pixel{R: 255, G: 255, B: 255, A: a})
	}
	return b
}

func TestSampler_NoMask(t *testing.T) {
	s := Sampler{}
	assert.True(t, s.Eligible(-5, 1000))
}

func TestSampler_Threshold(t *testing.T) {
	s := Sampler{Mask: alphaRow(t, 0, 255, 128, 127), Threshold: 128}
	assert.False(t, s.Eligible(0, 0))
	assert.True(t, s.Eligible(1, 0))
	assert.True(t, s.Eligible(2, 0), "threshold is inclusive")
	assert.False(t, s.Eligible(3, 0))
	assert.False(t, s.Eligible(4, 0), "out of bounds")
	assert.False(t, s.Eligible(0, 1), "out of bounds")
}

func TestSampler_Rotated(t *testing.T) {
	// 4x2 mask, only the top-left pixel is opaque
	m, err := pixel.New(4, 2)
	require.NoError(t, err)
	m.Set(0, 0, pixel.Pixel{A: 255})

	_, rc, err := transform.Rotate(m, 90)
	require.NoError(t, err)
	s := Sampler{Mask: m, Threshold: 255, Rotation: &rc}

	var hits [][2]int
	for y := 0; y < rc.WorkingHeight; y++ {
		for x := 0; x < rc.WorkingWidth; x++ {
			if s.Eligible(x, y) {
				hits = append(hits, [2]int{x, y})
			}
		}
	}
	// the rotated top-left pixel lands at the top-right of the rotated content
	require.Len(t, hits, 1)
	assert.Equal(t, [2]int{3, 1}, hits[0])
}

func TestFromBrightness(t *testing.T) {
	b, err := pixel.New(3, 1)
	require.NoError(t, err)
	b.Set(0, 0, pixel.Pixel{R: 0, G: 0, B: 0, A: 255})
	b.Set(1, 0, pixel.Pixel{R: 128, G: 128, B: 128, A: 255})
	b.Set(2, 0, pixel.Pixel{R: 255, G: 255, B: 255, A: 0})

	m, err := FromBrightness(b, 0.5)
	require.NoError(t, err)
	assert.Equal(t, pixel.Pixel{R: 255, G: 255, B: 255, A: 0}, m.At(0, 0))
	assert.Equal(t, uint8(255), m.At(1, 0).A, "128/255 is above 0.5")
	assert.Equal(t, uint8(255), m.At(2, 0).A, "source alpha is ignored")

	m, err = FromBrightness(b, 1)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), m.At(2, 0).A, "strictly greater than threshold")

	_, err = FromBrightness(b, 1.5)
	assert.Error(t, err)
}

func TestInvert(t *testing.T) {
	m := alphaRow(t, 0, 255, 100)
	inv, err := Invert(m)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), inv.At(0, 0).A)
	assert.Equal(t, uint8(0), inv.At(1, 0).A)
	assert.Equal(t, uint8(155), inv.At(2, 0).A)
	assert.Equal(t, uint8(255), inv.At(2, 0).R, "color untouched")
	assert.Equal(t, uint8(100), m.At(2, 0).A, "input untouched")

	twice, err := Invert(inv)
	require.NoError(t, err)
	assert.True(t, m.Equal(twice))
}
