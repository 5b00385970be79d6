package sorter

import (
	"github.com/jpfielding/pixsort.go/pkg/pixel"
	"github.com/samber/lo"
)

// Random-mode run length is floor(n*RandomRunScale) + RandomRunMin + [0, RandomRunSpan)
const (
	RandomRunScale = 0.01
	RandomRunMin   = 1
	RandomRunSpan  = 100
)

// Interval is an inclusive span of line offsets
type Interval struct {
	Start int
	End   int
}

// Len is the number of pixels covered
func (iv Interval) Len() int {
	return iv.End - iv.Start + 1
}

// randSource is the subset of *rand.Rand the scan draws from
type randSource interface {
	Float64() float64
	IntN(n int) int
}

// selector finds the runs of one line
type selector struct {
	sortType SortType
	falloff  float64
	// trim ends runs at their last eligible pixel and stops random runs at
	// the last visible pixel
	trim bool
	rng  randSource
}

// runs walks line once and returns the runs that survive falloff, in scan
// order. eligible reports whether the pixel at offset i passes mask and
// threshold; transparent pixels are skipped before it is consulted and leave
// an open run open. An ineligible pixel closes the run at x-1, the line end at
// n-1.
func (s selector) runs(line []pixel.Pixel, eligible func(i int, p pixel.Pixel) bool) []Interval {
	var out []Interval
	n := len(line)
	limit := n - 1
	if s.trim {
		limit = lastVisible(line)
	}
	start, last := -1, -1
	for x := 0; x < n; x++ {
		p := line[x]
		if p.A == 0 {
			continue
		}
		ok := eligible(x, p)
		if start < 0 {
			if !ok {
				continue
			}
			if s.sortType == Random {
				end := lo.Clamp(x+s.randomLength(n), x, limit)
				out = s.close(out, x, end)
				x = end
				continue
			}
			start, last = x, x
			continue
		}
		if ok {
			last = x
			continue
		}
		out = s.close(out, start, s.end(last, x-1))
		start = -1
	}
	if start >= 0 {
		out = s.close(out, start, s.end(last, n-1))
	}
	return out
}

// end picks where a threshold run closes
func (s selector) end(last, closing int) int {
	if s.trim {
		return last
	}
	return closing
}

// lastVisible is the offset of the last non-transparent pixel, -1 if none
func lastVisible(line []pixel.Pixel) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].A != 0 {
			return i
		}
	}
	return -1
}

func (s selector) randomLength(n int) int {
	return int(float64(n)*RandomRunScale) + RandomRunMin + s.rng.IntN(RandomRunSpan)
}

// close applies the falloff draw to a finished run
func (s selector) close(out []Interval, start, end int) []Interval {
	if s.rng.Float64()*100 >= s.falloff {
		return out
	}
	if start > end {
		return out
	}
	return append(out, Interval{Start: start, End: end})
}
