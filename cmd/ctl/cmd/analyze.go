package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jpfielding/pixsort.go/pkg/analyze"
	"github.com/jpfielding/pixsort.go/pkg/config"
	"github.com/jpfielding/pixsort.go/pkg/imageio"
	"github.com/jpfielding/pixsort.go/pkg/metric"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the analyze cobra command
func NewAnalyzeCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the metric distribution of an image",
		Long:  "Prints statistics and a histogram of a pixel metric, and how much of the image a threshold band selects.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath, _ := cmd.Flags().GetString("file")
			if filePath == "" && len(args) > 0 {
				filePath = args[0]
			}
			if filePath == "" {
				return fmt.Errorf("file path is required. Use --file flag or provide as argument")
			}

			file, err := loadFile(cmd)
			if err != nil {
				return err
			}
			applySortFlags(cmd.Flags(), file)
			m, err := metric.Parse(file.Sort.Metric)
			if err != nil {
				return err
			}
			bins, _ := cmd.Flags().GetInt("bins")

			buf, format, err := imageio.ReadFile(filePath)
			if err != nil {
				return fmt.Errorf("read error: %w", err)
			}
			stats, err := analyze.Compute(buf, m, file.Sort.LowerThreshold, file.Sort.UpperThreshold, bins)
			if err != nil {
				return err
			}

			switch outType, _ := cmd.Flags().GetString("output"); outType {
			case "json":
				j, _ := json.Marshal(stats)
				os.Stdout.Write(j)
			default:
				fmt.Printf("Image: %s (%s %dx%d)\n", filePath, format, buf.Width, buf.Height)
				return stats.Render(os.Stdout, 40)
			}
			return nil
		},
	}

	d := config.Default()
	pf := cmd.PersistentFlags()
	pf.String("file", "", "image file path to analyze")
	pf.StringP("metric", "m", d.Sort.Metric, "metric (brightness|hue|saturation)")
	pf.Float64("lower", d.Sort.LowerThreshold, "lower threshold [0,1]")
	pf.Float64("upper", d.Sort.UpperThreshold, "upper threshold [0,1]")
	pf.Int("bins", analyze.DefaultBins, "histogram bins")
	pf.String("output", "text", "output format (text|json)")

	return cmd
}
