// Package sorter implements interval pixel sorting over RGBA buffers.
//
// ProcessImage optionally rotates the buffer into a padded working canvas,
// walks every row or column, sorts the runs of pixels whose metric falls in
// the configured band, and rotates back. All randomness comes from PCG
// streams seeded by Config.Seed, so output is reproducible.
package sorter

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/jpfielding/pixsort.go/pkg/mask"
	"github.com/jpfielding/pixsort.go/pkg/pixel"
	"github.com/jpfielding/pixsort.go/pkg/transform"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// sequentialStream is the PCG stream id of the shared sequential generator
const sequentialStream = 0x5eed

// ProcessImage sorts a copy of buf according to cfg. The input buffer is
// never modified; invalid input is rejected before any work starts.
func ProcessImage(buf *pixel.Buffer, cfg Config) (*pixel.Buffer, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil pixel buffer", ErrResource)
	}
	if err := buf.Validate(); err != nil {
		return nil, ConfigError{Field: "buffer", Message: err.Error(), Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	gate := mask.Sampler{Mask: cfg.Mask, Threshold: cfg.MaskThreshold}
	var (
		work *pixel.Buffer
		rc   transform.RotationContext
	)
	rotated := transform.Normalize(cfg.Angle) != 0
	if rotated {
		var err error
		if work, rc, err = transform.Rotate(buf, cfg.Angle); err != nil {
			return nil, fmt.Errorf("rotate: %w", err)
		}
		gate.Rotation = &rc
	} else {
		work = buf.Clone()
	}

	lp := newLineProcessor(work, cfg, gate)
	sorted := sortLines(lp, cfg)

	out := work
	if rotated {
		var err error
		if out, err = transform.Unrotate(work, rc); err != nil {
			return nil, fmt.Errorf("unrotate: %w", err)
		}
	}
	slog.Debug("pixel sort complete",
		slog.String("metric", cfg.Metric.String()),
		slog.String("direction", string(cfg.Direction)),
		slog.String("sortType", string(cfg.SortType)),
		slog.Float64("angle", cfg.Angle),
		slog.Int("lines", lp.lineCount()),
		slog.Int64("runs", sorted),
		slog.Duration("elapsed", time.Since(start)))
	return out, nil
}

// sortLines processes every line of lp in ThreadCount batches and returns the
// number of runs sorted. Batch boundaries only affect progress reporting.
func sortLines(lp *lineProcessor, cfg Config) int64 {
	total := lp.lineCount()
	perBatch := (total + cfg.ThreadCount - 1) / cfg.ThreadCount
	batches := lo.Chunk(lo.Range(total), perBatch)

	var sorted atomic.Int64
	seq := rand.New(rand.NewPCG(cfg.Seed, sequentialStream))
	done := 0
	for _, batch := range batches {
		if cfg.Parallel {
			var g errgroup.Group
			g.SetLimit(cfg.ThreadCount)
			for _, idx := range batch {
				g.Go(func() error {
					sorted.Add(int64(lp.process(idx, lineRand(cfg.Seed, idx))))
					return nil
				})
			}
			// lines never fail
			g.Wait()
		} else {
			for _, idx := range batch {
				sorted.Add(int64(lp.process(idx, seq)))
			}
		}
		done += len(batch)
		if cfg.Progress != nil {
			cfg.Progress(done, total)
		}
	}
	return sorted.Load()
}

// lineRand is the independent stream used for line idx in parallel mode
func lineRand(seed uint64, idx int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(idx)+1))
}
