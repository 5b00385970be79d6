package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/jpfielding/pixsort.go/pkg/config"
	"github.com/jpfielding/pixsort.go/pkg/imageio"
	"github.com/jpfielding/pixsort.go/pkg/logging"
	"github.com/jpfielding/pixsort.go/pkg/mask"
	"github.com/jpfielding/pixsort.go/pkg/pixel"
	"github.com/jpfielding/pixsort.go/pkg/sorter"
	"github.com/jpfielding/pixsort.go/pkg/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewSortCmd creates the sort cobra command
func NewSortCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "pixel sort an image",
		Long:  "Sorts runs of pixels whose metric falls in [lower, upper] along rows or columns, optionally rotated, masked and chunk mirrored.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("in")
			out, _ := cmd.Flags().GetString("out")
			if in == "" && len(args) > 0 {
				in = args[0]
			}
			if in == "" || out == "" {
				return fmt.Errorf("input and output paths are required. Use --in and --out")
			}
			file, err := loadFile(cmd)
			if err != nil {
				return err
			}
			applySortFlags(cmd.Flags(), file)
			if ensureSeed(file) {
				slog.DebugContext(ctx, "drew random seed", "seed", *file.Sort.Seed)
			}
			return runSort(ctx, file, in, out)
		},
	}

	d := config.Default()
	pf := cmd.PersistentFlags()
	pf.StringP("in", "i", "", "input image path (- for stdin)")
	pf.StringP("out", "o", "", "output image path (- for stdout)")
	pf.StringP("metric", "m", d.Sort.Metric, "sort metric (brightness|hue|saturation)")
	pf.Float64("lower", d.Sort.LowerThreshold, "lower threshold [0,1]")
	pf.Float64("upper", d.Sort.UpperThreshold, "upper threshold [0,1]")
	pf.Float64P("angle", "a", d.Sort.Angle, "sort angle in degrees")
	pf.Float64("falloff", d.Sort.FalloffChance, "percent chance a run is kept [0,100]")
	pf.String("sort-type", d.Sort.SortType, "run selection (threshold|random)")
	pf.StringP("direction", "d", d.Sort.Direction, "sort direction (right|left|down|up)")
	pf.Float64("chunk", d.Sort.ChunkSetting, "chunk mirroring density [0,100], 0 disables")
	pf.Int("chunk-length", d.Sort.ChunkLength, "absolute chunk length, overrides --chunk")
	pf.Uint64("seed", 0, "random seed (random when unset)")
	pf.Bool("trim-padding", d.Sort.TrimPadding, "keep rotation padding out of runs")
	pf.Int("threads", d.Processing.ThreadCount, "number of line batches")
	pf.Bool("parallel", d.Processing.Parallel, "process lines of a batch concurrently")
	pf.String("mask", d.Mask.Path, "mask image, its alpha gates sorting")
	pf.Bool("mask-from-image", d.Mask.FromImage, "build the mask from the input brightness")
	pf.Float64("mask-brightness", d.Mask.Brightness, "brightness threshold for --mask-from-image")
	pf.Bool("mask-invert", d.Mask.Invert, "invert the mask alpha")
	pf.Int("mask-threshold", d.Mask.Threshold, "minimum mask alpha [0,255]")
	pf.StringP("format", "f", d.Output.Format, "output format, defaults to the output extension")
	pf.Int("quality", d.Output.Quality, "jpeg quality")
	return cmd
}

// applySortFlags copies explicitly set flags over the file values
func applySortFlags(fs *pflag.FlagSet, f *config.File) {
	str := func(name string, dst *string) {
		if fs.Changed(name) {
			*dst, _ = fs.GetString(name)
		}
	}
	num := func(name string, dst *float64) {
		if fs.Changed(name) {
			*dst, _ = fs.GetFloat64(name)
		}
	}
	integer := func(name string, dst *int) {
		if fs.Changed(name) {
			*dst, _ = fs.GetInt(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if fs.Changed(name) {
			*dst, _ = fs.GetBool(name)
		}
	}
	str("metric", &f.Sort.Metric)
	num("lower", &f.Sort.LowerThreshold)
	num("upper", &f.Sort.UpperThreshold)
	num("angle", &f.Sort.Angle)
	num("falloff", &f.Sort.FalloffChance)
	str("sort-type", &f.Sort.SortType)
	str("direction", &f.Sort.Direction)
	num("chunk", &f.Sort.ChunkSetting)
	integer("chunk-length", &f.Sort.ChunkLength)
	boolean("trim-padding", &f.Sort.TrimPadding)
	if fs.Changed("seed") {
		seed, _ := fs.GetUint64("seed")
		f.Sort.Seed = &seed
	}
	integer("threads", &f.Processing.ThreadCount)
	boolean("parallel", &f.Processing.Parallel)
	str("mask", &f.Mask.Path)
	boolean("mask-from-image", &f.Mask.FromImage)
	num("mask-brightness", &f.Mask.Brightness)
	boolean("mask-invert", &f.Mask.Invert)
	integer("mask-threshold", &f.Mask.Threshold)
	str("format", &f.Output.Format)
	integer("quality", &f.Output.Quality)
}

// ensureSeed draws a seed when neither flag nor file set one, reporting whether it did
func ensureSeed(f *config.File) bool {
	if f.Sort.Seed != nil {
		return false
	}
	f.Sort.Seed = lo.ToPtr(rand.Uint64())
	return true
}

func runSort(ctx context.Context, file *config.File, in, out string) error {
	ctx = logging.AppendCtx(ctx, slog.String("run", util.HashUUID(file)))
	start := time.Now()

	cfg, err := file.ToSorter()
	if err != nil {
		return err
	}
	src, format, err := imageio.ReadFile(in)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "loaded image", "path", in, "format", format,
		"width", src.Width, "height", src.Height, "digest", util.PixelDigest(src.Pix))

	if cfg.Mask, err = loadMask(file, src); err != nil {
		return err
	}
	cfg.Progress = func(done, total int) {
		slog.InfoContext(ctx, fmt.Sprintf("Sorting... %d%%", done*100/total))
	}

	res, err := sorter.ProcessImage(src, cfg)
	if err != nil {
		return err
	}
	if err := writeOutput(out, file, res); err != nil {
		return err
	}
	slog.InfoContext(ctx, fmt.Sprintf("complete in %.2fs", time.Since(start).Seconds()),
		"path", out, "seed", cfg.Seed, "digest", util.PixelDigest(res.Pix))
	return nil
}

// loadMask builds the mask the file asks for, nil when there is none
func loadMask(file *config.File, src *pixel.Buffer) (*pixel.Buffer, error) {
	var (
		m   *pixel.Buffer
		err error
	)
	switch {
	case file.Mask.FromImage:
		m, err = mask.FromBrightness(src, file.Mask.Brightness)
	case file.Mask.Path != "":
		m, _, err = imageio.ReadFile(file.Mask.Path)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mask: %w", err)
	}
	if file.Mask.Invert {
		return mask.Invert(m)
	}
	return m, nil
}

// writeOutput encodes buf, inferring the format from the path unless the
// file names one. Stdout defaults to png.
func writeOutput(path string, file *config.File, buf *pixel.Buffer) error {
	name := file.Output.Format
	if name == "" && path == "-" {
		name = string(imageio.PNG)
	}
	var (
		format imageio.Format
		err    error
	)
	if name != "" {
		format, err = imageio.ParseFormat(name)
	} else {
		format, err = imageio.FormatFromPath(path)
	}
	if err != nil {
		return err
	}
	return imageio.WriteFile(path, buf, format, file.Output.Quality)
}
