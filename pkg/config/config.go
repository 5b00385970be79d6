// Package config loads and saves pixsort settings as YAML.
// Missing files yield the defaults so a config file is always optional.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jpfielding/pixsort.go/pkg/metric"
	"github.com/jpfielding/pixsort.go/pkg/sorter"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// File is the on-disk configuration
type File struct {
	// Sort holds the parameters of one ProcessImage call
	Sort struct {
		Metric         string  `yaml:"metric" json:"metric"`
		LowerThreshold float64 `yaml:"lowerThreshold" json:"lowerThreshold"`
		UpperThreshold float64 `yaml:"upperThreshold" json:"upperThreshold"`
		Angle          float64 `yaml:"angle" json:"angle"`
		FalloffChance  float64 `yaml:"falloffChance" json:"falloffChance"`
		SortType       string  `yaml:"sortType" json:"sortType"`
		Direction      string  `yaml:"direction" json:"direction"`
		ChunkSetting   float64 `yaml:"chunkSetting" json:"chunkSetting"`
		ChunkLength    int     `yaml:"chunkLength" json:"chunkLength"`
		TrimPadding    bool    `yaml:"trimPadding" json:"trimPadding"`
		// Seed is nil when unset, the CLI then draws one
		Seed *uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`
	} `yaml:"sort" json:"sort"`

	// Mask gates which pixels may be sorted
	Mask struct {
		// Path of an image whose alpha channel is the mask
		Path string `yaml:"path" json:"path"`
		// FromImage builds the mask from the input's brightness instead
		FromImage  bool    `yaml:"fromImage" json:"fromImage"`
		Brightness float64 `yaml:"brightness" json:"brightness"`
		Invert     bool    `yaml:"invert" json:"invert"`
		Threshold  int     `yaml:"threshold" json:"threshold"`
	} `yaml:"mask" json:"mask"`

	Processing struct {
		// ThreadCount is the number of line batches
		ThreadCount int  `yaml:"threadCount" json:"threadCount"`
		Parallel    bool `yaml:"parallel" json:"parallel"`
	} `yaml:"processing" json:"processing"`

	Output struct {
		// Format overrides the format implied by the output extension
		Format  string `yaml:"format" json:"format"`
		Quality int    `yaml:"quality" json:"quality"`
	} `yaml:"output" json:"output"`

	Logging struct {
		Level string `yaml:"level" json:"level"`
		JSON  bool   `yaml:"json" json:"json"`
		File  string `yaml:"file" json:"file"`
	} `yaml:"logging" json:"logging"`
}

// Default returns the defaults of the interactive tool
func Default() *File {
	d := sorter.DefaultConfig()
	f := &File{}
	f.Sort.Metric = d.Metric.String()
	f.Sort.LowerThreshold = d.LowerThreshold
	f.Sort.UpperThreshold = d.UpperThreshold
	f.Sort.Angle = d.Angle
	f.Sort.FalloffChance = d.FalloffChance
	f.Sort.SortType = string(d.SortType)
	f.Sort.Direction = string(d.Direction)

	f.Mask.Brightness = 0.5
	f.Mask.Threshold = d.MaskThreshold

	f.Processing.ThreadCount = d.ThreadCount

	f.Output.Quality = 95

	f.Logging.Level = "INFO"
	return f
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*File, error) {
	f := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return f, nil
}

// Save writes f as YAML, creating parent directories
func Save(f *File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// CreateDefaultFile writes the defaults to path
func CreateDefaultFile(path string) error {
	return Save(Default(), path)
}

// ToSorter converts the file into a sorter configuration. The mask buffer is
// not loaded here; callers attach it once the input image is known.
func (f *File) ToSorter() (sorter.Config, error) {
	m, err := metric.Parse(f.Sort.Metric)
	if err != nil {
		return sorter.Config{}, sorter.ConfigError{Field: "metric", Message: err.Error(), Err: err}
	}
	st, err := sorter.ParseSortType(f.Sort.SortType)
	if err != nil {
		return sorter.Config{}, err
	}
	dir, err := sorter.ParseDirection(f.Sort.Direction)
	if err != nil {
		return sorter.Config{}, err
	}
	cfg := sorter.Config{
		Metric:         m,
		LowerThreshold: f.Sort.LowerThreshold,
		UpperThreshold: f.Sort.UpperThreshold,
		Angle:          f.Sort.Angle,
		FalloffChance:  f.Sort.FalloffChance,
		ThreadCount:    f.Processing.ThreadCount,
		SortType:       st,
		Direction:      dir,
		ChunkSetting:   f.Sort.ChunkSetting,
		ChunkLength:    f.Sort.ChunkLength,
		MaskThreshold:  f.Mask.Threshold,
		TrimPadding:    f.Sort.TrimPadding,
		Seed:           lo.FromPtr(f.Sort.Seed),
		Parallel:       f.Processing.Parallel,
	}
	return cfg, cfg.Validate()
}
