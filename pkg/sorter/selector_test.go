package sorter

import (
	"testing"

	"github.com/jpfielding/pixsort.go/pkg/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays fixed draws and counts how many were taken
type scriptedRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptedRand) Float64() float64 {
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func (r *scriptedRand) IntN(n int) int {
	v := r.ints[r.ii%len(r.ints)] % n
	r.ii++
	return v
}

// always keeps every run when falloff is 100
func always() *scriptedRand {
	return &scriptedRand{floats: []float64{0.5}, ints: []int{0}}
}

// mark builds a line where 'e' is eligible, '.' is not and ' ' is transparent
func mark(s string) ([]pixel.Pixel, func(int, pixel.Pixel) bool) {
	line := make([]pixel.Pixel, len(s))
	for i, c := range s {
		switch c {
		case 'e':
			line[i] = pixel.Pixel{R: 1, A: 255}
		case '.':
			line[i] = pixel.Pixel{R: 0, A: 255}
		case ' ':
			line[i] = pixel.Pixel{R: 1, A: 0}
		}
	}
	return line, func(_ int, p pixel.Pixel) bool { return p.R == 1 }
}

func TestRuns_Threshold(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Interval
	}{
		{"Empty", "", nil},
		{"NoneEligible", "....", nil},
		{"AllEligible", "eeee", []Interval{{0, 3}}},
		{"Middle", ".ee.", []Interval{{1, 2}}},
		{"RunsToLineEnd", "..ee", []Interval{{2, 3}}},
		{"SingleLastPixel", "...e", []Interval{{3, 3}}},
		{"SinglePixels", "e.e.e", []Interval{{0, 0}, {2, 2}, {4, 4}}},
		{"TransparentInsideRun", "e e.", []Interval{{0, 2}}},
		{"TransparentDoesNotStart", "  .e", []Interval{{3, 3}}},
		{"TransparentTail", "ee  ", []Interval{{0, 3}}},
		{"TransparentBeforeTerminator", "ee .", []Interval{{0, 2}}},
		{"FullyTransparent", "    ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, eligible := mark(tt.line)
			s := selector{sortType: Threshold, falloff: 100, rng: always()}
			assert.Equal(t, tt.want, s.runs(line, eligible))
		})
	}
}

func TestRuns_FalloffPerRun(t *testing.T) {
	line, eligible := mark("ee.ee.ee")
	// draws are u/100: 10, 90, 49.9 against a falloff of 50
	r := &scriptedRand{floats: []float64{0.10, 0.90, 0.499}, ints: []int{0}}
	s := selector{sortType: Threshold, falloff: 50, rng: r}
	got := s.runs(line, eligible)
	assert.Equal(t, []Interval{{0, 1}, {6, 7}}, got)
	assert.Equal(t, 3, r.fi, "one draw per detected run")
}

func TestRuns_FalloffBounds(t *testing.T) {
	line, eligible := mark("e.ee.eee")
	none := selector{sortType: Threshold, falloff: 0, rng: &scriptedRand{floats: []float64{0}, ints: []int{0}}}
	assert.Empty(t, none.runs(line, eligible), "u >= 0 always skips")

	all := selector{sortType: Threshold, falloff: 100, rng: &scriptedRand{floats: []float64{0.999999}, ints: []int{0}}}
	assert.Len(t, all.runs(line, eligible), 3)
}

func TestRuns_Random(t *testing.T) {
	line, eligible := mark(".e..........e.......")
	// n=20 so the scaled part is 0; lengths are 1+IntN
	r := &scriptedRand{floats: []float64{0}, ints: []int{2, 50}}
	s := selector{sortType: Random, falloff: 100, rng: r}
	got := s.runs(line, eligible)
	require.Len(t, got, 2)
	assert.Equal(t, Interval{1, 4}, got[0], "start 1, length 3")
	assert.Equal(t, Interval{12, 19}, got[1], "clamped to the line end")
	assert.Equal(t, 2, r.ii)
}

func TestRuns_RandomIgnoresBandInsideRun(t *testing.T) {
	line, eligible := mark("e....e....")
	r := &scriptedRand{floats: []float64{0}, ints: []int{5}}
	s := selector{sortType: Random, falloff: 100, rng: r}
	// the first run covers 0..6 and swallows the eligible pixel at 5
	got := s.runs(line, eligible)
	assert.Equal(t, []Interval{{0, 6}}, got)
}

func TestRuns_RandomRunsIntoTransparentTail(t *testing.T) {
	line, eligible := mark(".ee.   ")
	s := selector{sortType: Random, falloff: 100, rng: &scriptedRand{floats: []float64{0}, ints: []int{40}}}
	assert.Equal(t, []Interval{{1, 6}}, s.runs(line, eligible))
}

func TestRuns_Trim(t *testing.T) {
	tests := []struct {
		name     string
		sortType SortType
		line     string
		want     []Interval
	}{
		{"TransparentTail", Threshold, "ee  ", []Interval{{0, 1}}},
		{"TransparentBeforeTerminator", Threshold, "ee .", []Interval{{0, 1}}},
		{"TransparentInsideRun", Threshold, "e e.", []Interval{{0, 2}}},
		{"Opaque", Threshold, ".ee.", []Interval{{1, 2}}},
		{"RandomStopsAtLastVisible", Random, ".ee.   ", []Interval{{1, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, eligible := mark(tt.line)
			r := &scriptedRand{floats: []float64{0}, ints: []int{40}}
			s := selector{sortType: tt.sortType, falloff: 100, trim: true, rng: r}
			assert.Equal(t, tt.want, s.runs(line, eligible))
		})
	}
}

func TestRandomLength_Scaled(t *testing.T) {
	s := selector{rng: &scriptedRand{floats: []float64{0}, ints: []int{0}}}
	assert.Equal(t, 1, s.randomLength(50))
	assert.Equal(t, 5+1, s.randomLength(500))
}

func TestInterval_Len(t *testing.T) {
	assert.Equal(t, 1, Interval{3, 3}.Len())
	assert.Equal(t, 4, Interval{0, 3}.Len())
}
