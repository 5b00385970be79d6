package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jpfielding/pixsort.go/pkg/imageio"
	"github.com/jpfielding/pixsort.go/pkg/mask"
	"github.com/jpfielding/pixsort.go/pkg/pixel"
	"github.com/spf13/cobra"
)

// NewMaskCmd writes a mask image built from the input brightness
func NewMaskCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mask",
		Short: "create a mask from image brightness",
		Long:  "Writes a white image that is opaque where the input brightness exceeds the threshold and transparent elsewhere.",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out, err := inOut(cmd, args)
			if err != nil {
				return err
			}
			threshold, _ := cmd.Flags().GetFloat64("brightness")
			invert, _ := cmd.Flags().GetBool("invert")
			return convert(ctx, cmd, in, out, func(src *pixel.Buffer) (*pixel.Buffer, error) {
				m, err := mask.FromBrightness(src, threshold)
				if err != nil || !invert {
					return m, err
				}
				return mask.Invert(m)
			})
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("in", "i", "", "input image path (- for stdin)")
	pf.StringP("out", "o", "", "output image path (- for stdout)")
	pf.Float64P("brightness", "b", 0.5, "brightness threshold [0,1]")
	pf.Bool("invert", false, "invert the mask")
	pf.StringP("format", "f", "", "output format, defaults to the output extension")
	return cmd
}

// NewInvertCmd inverts the colours of an image, keeping alpha
func NewInvertCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invert",
		Short: "invert image colours",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out, err := inOut(cmd, args)
			if err != nil {
				return err
			}
			return convert(ctx, cmd, in, out, pixel.InvertColors)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringP("in", "i", "", "input image path (- for stdin)")
	pf.StringP("out", "o", "", "output image path (- for stdout)")
	pf.StringP("format", "f", "", "output format, defaults to the output extension")
	return cmd
}

func inOut(cmd *cobra.Command, args []string) (string, string, error) {
	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")
	if in == "" && len(args) > 0 {
		in = args[0]
	}
	if in == "" || out == "" {
		return "", "", fmt.Errorf("input and output paths are required. Use --in and --out")
	}
	return in, out, nil
}

// convert decodes in, applies fn and encodes the result to out
func convert(ctx context.Context, cmd *cobra.Command, in, out string, fn func(*pixel.Buffer) (*pixel.Buffer, error)) error {
	file, err := loadFile(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("format") {
		file.Output.Format, _ = cmd.Flags().GetString("format")
	}
	src, _, err := imageio.ReadFile(in)
	if err != nil {
		return err
	}
	res, err := fn(src)
	if err != nil {
		return err
	}
	if err := writeOutput(out, file, res); err != nil {
		return err
	}
	slog.InfoContext(ctx, "wrote image", "command", cmd.Name(), "path", out)
	return nil
}
