package sorter

import (
	"github.com/jpfielding/pixsort.go/pkg/mask"
	"github.com/jpfielding/pixsort.go/pkg/metric"
	"github.com/jpfielding/pixsort.go/pkg/pixel"
	"github.com/samber/lo"
)

// A chunk setting s in (0,100] divides an axis into
// ChunkMin + (ChunkMax-ChunkMin)*s/100 segments.
const (
	ChunkMin = 17
	ChunkMax = 61
)

// chunkWidth returns the segment length along an axis of n pixels, 0 when
// chunking is disabled.
func chunkWidth(n int, setting float64, length int) int {
	if length > 0 {
		return length
	}
	if setting <= 0 {
		return 0
	}
	count := ChunkMin + (ChunkMax-ChunkMin)*setting/100
	return max(1, int(float64(n)/count))
}

// lineProcessor sorts the rows or columns of one working buffer in place
type lineProcessor struct {
	buf      *pixel.Buffer
	vertical bool
	reverse  bool
	lower    float64
	upper    float64
	sortType SortType
	falloff  float64
	trim     bool
	value    metric.Func
	gate     mask.Sampler
	// segment lengths along and across lines, 0 disables mirroring
	chunkAlong  int
	chunkAcross int
}

func newLineProcessor(buf *pixel.Buffer, cfg Config, gate mask.Sampler) *lineProcessor {
	lp := &lineProcessor{
		buf:      buf,
		vertical: cfg.Direction.Vertical(),
		reverse:  cfg.Direction.Reversed(),
		lower:    cfg.LowerThreshold,
		upper:    cfg.UpperThreshold,
		sortType: cfg.SortType,
		falloff:  cfg.FalloffChance,
		trim:     cfg.TrimPadding,
		value:    cfg.Metric.Func(),
		gate:     gate,
	}
	lp.chunkAlong = chunkWidth(lp.lineLen(), cfg.ChunkSetting, cfg.ChunkLength)
	lp.chunkAcross = chunkWidth(lp.lineCount(), cfg.ChunkSetting, cfg.ChunkLength)
	return lp
}

func (lp *lineProcessor) lineCount() int {
	if lp.vertical {
		return lp.buf.Width
	}
	return lp.buf.Height
}

func (lp *lineProcessor) lineLen() int {
	if lp.vertical {
		return lp.buf.Height
	}
	return lp.buf.Width
}

// coord maps a physical offset within line idx to buffer coordinates
func (lp *lineProcessor) coord(idx, pos int) (int, int) {
	if lp.vertical {
		return idx, pos
	}
	return pos, idx
}

// process sorts line idx and returns the number of runs sorted
func (lp *lineProcessor) process(idx int, rng randSource) int {
	n := lp.lineLen()
	line := make([]pixel.Pixel, n)
	for pos := range line {
		x, y := lp.coord(idx, pos)
		line[pos] = lp.buf.At(x, y)
	}
	if lp.reverse {
		line = lo.Reverse(line)
	}

	sel := selector{sortType: lp.sortType, falloff: lp.falloff, trim: lp.trim, rng: rng}
	runs := sel.runs(line, func(i int, p pixel.Pixel) bool {
		pos := i
		if lp.reverse {
			pos = n - 1 - i
		}
		if !lp.gate.Eligible(lp.coord(idx, pos)) {
			return false
		}
		v := lp.value(p.R, p.G, p.B)
		return v >= lp.lower && v <= lp.upper
	})
	for _, iv := range runs {
		sortRun(line, iv, lp.value)
	}

	if lp.reverse {
		line = lo.Reverse(line)
	}
	lp.mirrorChunks(line, idx)
	for pos, p := range line {
		x, y := lp.coord(idx, pos)
		lp.buf.Set(x, y, p)
	}
	return len(runs)
}

// mirrorChunks reverses every other segment of the line. The starting parity
// alternates with each block of chunkAcross lines, giving a checkerboard.
func (lp *lineProcessor) mirrorChunks(line []pixel.Pixel, idx int) {
	c := lp.chunkAlong
	if c == 0 {
		return
	}
	flipLine := lp.chunkAcross > 0 && (idx/lp.chunkAcross)%2 == 1
	for k, s := 0, 0; s < len(line); k, s = k+1, s+c {
		if (k%2 == 1) == flipLine {
			continue
		}
		seg := line[s:min(s+c, len(line))]
		copy(seg, lo.Reverse(seg))
	}
}
