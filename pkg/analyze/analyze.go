// Package analyze summarizes how a metric is distributed over an image so
// threshold bands can be chosen before sorting.
package analyze

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/jpfielding/pixsort.go/pkg/metric"
	"github.com/jpfielding/pixsort.go/pkg/pixel"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the histogram resolution used by the CLI
const DefaultBins = 20

// Stats describes the metric over the visible (alpha > 0) pixels
type Stats struct {
	Metric      metric.Metric `json:"metric"`
	Pixels      int           `json:"pixels"`
	Transparent int           `json:"transparent"`
	Mean        float64       `json:"mean"`
	StdDev      float64       `json:"stdDev"`
	Min         float64       `json:"min"`
	Max         float64       `json:"max"`
	P10         float64       `json:"p10"`
	Median      float64       `json:"median"`
	P90         float64       `json:"p90"`
	// InBand is the fraction of visible pixels inside [lower, upper]
	InBand    float64 `json:"inBand"`
	Histogram []int   `json:"histogram"`
}

// Compute gathers Stats for buf. bins < 1 uses DefaultBins.
func Compute(buf *pixel.Buffer, m metric.Metric, lower, upper float64, bins int) (*Stats, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	f := m.Func()
	if f == nil {
		return nil, fmt.Errorf("unknown metric %q", m)
	}
	if bins < 1 {
		bins = DefaultBins
	}
	s := &Stats{Metric: m, Histogram: make([]int, bins)}
	values := make([]float64, 0, buf.Width*buf.Height)
	inBand := 0
	for i := 0; i+3 < len(buf.Pix); i += 4 {
		if buf.Pix[i+3] == 0 {
			s.Transparent++
			continue
		}
		v := f(buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2])
		if v >= lower && v <= upper {
			inBand++
		}
		values = append(values, v)
	}
	s.Pixels = len(values)
	if len(values) == 0 {
		return s, nil
	}
	slices.Sort(values)

	s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	if math.IsNaN(s.StdDev) {
		// single sample
		s.StdDev = 0
	}
	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	s.P10 = stat.Quantile(0.1, stat.Empirical, values, nil)
	s.Median = stat.Quantile(0.5, stat.Empirical, values, nil)
	s.P90 = stat.Quantile(0.9, stat.Empirical, values, nil)
	s.InBand = float64(inBand) / float64(len(values))

	dividers := floats.Span(make([]float64, bins+1), 0, 1)
	// the upper divider is exclusive
	dividers[bins] = math.Nextafter(1, 2)
	counts := stat.Histogram(nil, dividers, values, nil)
	for i, c := range counts {
		s.Histogram[i] = int(c)
	}
	return s, nil
}

// Render writes a plain text report with a bar per histogram bin
func (s *Stats) Render(w io.Writer, width int) error {
	if width < 1 {
		width = 40
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Metric: %s\n", s.Metric)
	fmt.Fprintf(&sb, "Pixels: %d visible, %d transparent\n", s.Pixels, s.Transparent)
	fmt.Fprintf(&sb, "Mean: %.4f  StdDev: %.4f\n", s.Mean, s.StdDev)
	fmt.Fprintf(&sb, "Min: %.4f  P10: %.4f  Median: %.4f  P90: %.4f  Max: %.4f\n",
		s.Min, s.P10, s.Median, s.P90, s.Max)
	fmt.Fprintf(&sb, "In band: %.1f%%\n", s.InBand*100)

	peak := slices.Max(append([]int{1}, s.Histogram...))
	n := len(s.Histogram)
	for i, c := range s.Histogram {
		bar := c * width / peak
		fmt.Fprintf(&sb, "[%.2f,%.2f) %-*s %d\n",
			float64(i)/float64(n), float64(i+1)/float64(n), width, strings.Repeat("#", bar), c)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
