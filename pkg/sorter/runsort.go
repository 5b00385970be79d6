package sorter

import (
	"cmp"
	"slices"

	"github.com/jpfielding/pixsort.go/pkg/metric"
	"github.com/jpfielding/pixsort.go/pkg/pixel"
)

type keyed struct {
	p pixel.Pixel
	v float64
}

// sortRun stably orders line[iv.Start..iv.End] by ascending metric in place
func sortRun(line []pixel.Pixel, iv Interval, f metric.Func) {
	run := line[iv.Start : iv.End+1]
	if len(run) < 2 {
		return
	}
	keys := make([]keyed, len(run))
	for i, p := range run {
		keys[i] = keyed{p: p, v: f(p.R, p.G, p.B)}
	}
	slices.SortStableFunc(keys, func(a, b keyed) int {
		return cmp.Compare(a.v, b.v)
	})
	for i, k := range keys {
		run[i] = k.p
	}
}
