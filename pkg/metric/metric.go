// Package metric computes the per-pixel scalars used to classify and order pixels.
// Every function returns a value normalized to [0,1].
package metric

import (
	"fmt"
	"strings"

	"github.com/jpfielding/pixsort.go/pkg/pixel"
)

// Metric names the scalar used for thresholding and ordering
type Metric string

const (
	Brightness Metric = "brightness"
	Hue        Metric = "hue"
	Saturation Metric = "saturation"
)

// Func is a pure RGB to [0,1] mapping
type Func func(r, g, b uint8) float64

// Parse is case-insensitive
func Parse(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case Brightness, Hue, Saturation:
		return m, nil
	}
	return "", fmt.Errorf("unknown metric %q (brightness|hue|saturation)", s)
}

func (m Metric) String() string {
	return string(m)
}

// Valid reports whether m is a known metric
func (m Metric) Valid() bool {
	_, err := Parse(string(m))
	return err == nil
}

// Func returns the scalar function, nil for an unknown metric
func (m Metric) Func() Func {
	switch m {
	case Brightness:
		return BrightnessOf
	case Hue:
		return HueOf
	case Saturation:
		return SaturationOf
	}
	return nil
}

// Of evaluates the metric for a pixel, ignoring alpha
func (m Metric) Of(p pixel.Pixel) float64 {
	if f := m.Func(); f != nil {
		return f(p.R, p.G, p.B)
	}
	return 0
}

// BrightnessOf is the unweighted channel mean
func BrightnessOf(r, g, b uint8) float64 {
	return float64(int(r)+int(g)+int(b)) / (3 * 255)
}

// SaturationOf is the HSV saturation
func SaturationOf(r, g, b uint8) float64 {
	hi, lo := maxMin(r, g, b)
	if hi == 0 {
		return 0
	}
	return float64(hi-lo) / float64(hi)
}

// HueOf is the HSV hue with a full turn mapped to 1
func HueOf(r, g, b uint8) float64 {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	hi8, lo8 := maxMin(r, g, b)
	if hi8 == lo8 {
		return 0
	}
	hi, lo := float64(hi8)/255, float64(lo8)/255
	d := hi - lo

	var h float64
	switch hi8 {
	case r:
		h = (gf - bf) / d
		if g < b {
			h += 6
		}
	case g:
		h = (bf-rf)/d + 2
	default:
		h = (rf-gf)/d + 4
	}
	return h / 6
}

func maxMin(r, g, b uint8) (uint8, uint8) {
	return max(r, g, b), min(r, g, b)
}
