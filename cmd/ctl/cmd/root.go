package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/pixsort.go/pkg/config"
	"github.com/jpfielding/pixsort.go/pkg/logging"
	"github.com/spf13/cobra"
)

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pixsortctl",
		Short: "a CLI for interval pixel sorting",
		Long:  "sorts runs of pixels along rows or columns of an image, optionally rotated and masked",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadFile(cmd)
			if err != nil {
				return err
			}
			logLevel := file.Logging.Level
			if cmd.Flags().Changed("log-level") {
				logLevel, _ = cmd.Flags().GetString("log-level")
			}
			logFile := file.Logging.File
			if cmd.Flags().Changed("log-file") {
				logFile, _ = cmd.Flags().GetString("log-file")
			}
			logJSON := file.Logging.JSON
			if cmd.Flags().Changed("log-json") {
				logJSON, _ = cmd.Flags().GetBool("log-json")
			}

			// Parse log level
			var level slog.Level
			levelErr := level.UnmarshalText([]byte(strings.ToUpper(logLevel)))
			if levelErr != nil {
				level = slog.LevelInfo
			}
			var w io.Writer = os.Stderr
			if logFile != "" {
				w = io.MultiWriter(os.Stderr, logging.FileWriter(logFile, 10, 3))
			}
			slog.SetDefault(logging.Logger(w, logJSON, level))

			if levelErr != nil {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", logLevel, "error", levelErr)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
		SilenceUsage: true,
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewSortCmd(ctx),
		NewMaskCmd(ctx),
		NewInvertCmd(ctx),
		NewAnalyzeCmd(ctx),
		NewConfigCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "Also write logs to this size-rotated file")
	pf.Bool("log-json", false, "Emit logs as JSON")
	pf.StringP("config", "c", "", "YAML config file (flags override its values)")
	return cmd
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Println(strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(gitsha)
		},
	}
	return cmd
}

// NewConfigCmd groups config file helpers
func NewConfigCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "config file helpers",
	}
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file holding the defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "pixsort.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := config.CreateDefaultFile(path); err != nil {
				return err
			}
			slog.InfoContext(ctx, "wrote default config", "path", path)
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

// loadFile reads the --config file, or the defaults when none is given
func loadFile(cmd *cobra.Command) (*config.File, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
