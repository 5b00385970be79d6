package mask

import (
	"fmt"

	"github.com/jpfielding/pixsort.go/pkg/metric"
	"github.com/jpfielding/pixsort.go/pkg/pixel"
	"github.com/jpfielding/pixsort.go/pkg/transform"
)

// Sampler gates pixels on the alpha channel of a mask authored in original
// image space. A nil Mask makes every pixel eligible.
type Sampler struct {
	Mask      *pixel.Buffer
	Threshold int
	// Rotation is set when coordinates come from a rotated working buffer
	Rotation *transform.RotationContext
}

// Eligible reports whether the working-space pixel (x, y) passes the mask
func (s Sampler) Eligible(x, y int) bool {
	if s.Mask == nil {
		return true
	}
	if s.Rotation != nil {
		x, y = s.Rotation.ToOriginal(x, y)
	}
	if !s.Mask.In(x, y) {
		return false
	}
	return int(s.Mask.Pix[s.Mask.Offset(x, y)+3]) >= s.Threshold
}

// FromBrightness builds a white mask that is opaque where the source
// brightness is strictly above threshold and transparent elsewhere.
func FromBrightness(buf *pixel.Buffer, threshold float64) (*pixel.Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("mask: brightness threshold %v outside [0,1]", threshold)
	}
	out, err := pixel.New(buf.Width, buf.Height)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(buf.Pix); i += 4 {
		var alpha uint8
		if metric.BrightnessOf(buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2]) > threshold {
			alpha = 255
		}
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = 255, 255, 255, alpha
	}
	return out, nil
}

// Invert returns a copy with alpha replaced by 255-alpha
func Invert(m *pixel.Buffer) (*pixel.Buffer, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	out := m.Clone()
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 255 - out.Pix[i]
	}
	return out, nil
}
