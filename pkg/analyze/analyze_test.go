package analyze

import (
	"bytes"
	"testing"

	"github.com/jpfielding/pixsort.go/pkg/metric"
	"github.com/jpfielding/pixsort.go/pkg/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func greys(t *testing.T) *pixel.Buffer {
	t.Helper()
	b, err := pixel.FromPix(5, 1, []uint8{
		0, 0, 0, 255,
		51, 51, 51, 255,
		153, 153, 153, 255,
		255, 255, 255, 255,
		90, 90, 90, 0,
	})
	require.NoError(t, err)
	return b
}

func TestCompute(t *testing.T) {
	s, err := Compute(greys(t), metric.Brightness, 0.25, 0.75, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Pixels)
	assert.Equal(t, 1, s.Transparent)
	assert.InDelta(t, 0.45, s.Mean, 1e-9)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 1.0, s.Max)
	assert.InDelta(t, 0.0, s.P10, 1e-9)
	assert.InDelta(t, 0.2, s.Median, 1e-9)
	assert.InDelta(t, 1.0, s.P90, 1e-9)
	assert.InDelta(t, 0.25, s.InBand, 1e-9)
	assert.Equal(t, []int{2, 0, 1, 1}, s.Histogram)
	assert.Greater(t, s.StdDev, 0.0)
}

func TestCompute_AllTransparent(t *testing.T) {
	b, err := pixel.New(3, 2)
	require.NoError(t, err)
	s, err := Compute(b, metric.Hue, 0, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Pixels)
	assert.Equal(t, 6, s.Transparent)
	assert.Len(t, s.Histogram, DefaultBins)
}

func TestCompute_SinglePixel(t *testing.T) {
	b, err := pixel.FromPix(1, 1, []uint8{255, 0, 0, 255})
	require.NoError(t, err)
	s, err := Compute(b, metric.Saturation, 0, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Mean)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, []int{0, 1}, s.Histogram)
}

func TestCompute_Errors(t *testing.T) {
	_, err := Compute(greys(t), metric.Metric("luma"), 0, 1, 4)
	assert.Error(t, err)
	_, err = Compute(&pixel.Buffer{Width: 2, Height: 2}, metric.Brightness, 0, 1, 4)
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	s, err := Compute(greys(t), metric.Brightness, 0.25, 0.75, 4)
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, s.Render(&out, 10))
	text := out.String()
	assert.Contains(t, text, "Metric: brightness")
	assert.Contains(t, text, "4 visible, 1 transparent")
	assert.Contains(t, text, "In band: 25.0%")
	assert.Contains(t, text, "##########")
}
