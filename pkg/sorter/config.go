package sorter

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jpfielding/pixsort.go/pkg/metric"
	"github.com/jpfielding/pixsort.go/pkg/pixel"
)

var (
	// ErrConfiguration is wrapped by every ConfigError
	ErrConfiguration = errors.New("sorter: invalid configuration")
	// ErrResource reports a missing buffer
	ErrResource = errors.New("sorter: resource unavailable")
)

// ConfigError is a single rejected configuration value
type ConfigError struct {
	Field   string
	Message string
	Err     error // optional cause
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("sorter: invalid %s: %s", e.Field, e.Message)
}

func (e ConfigError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConfiguration, e.Err}
	}
	return []error{ErrConfiguration}
}

// SortType selects how runs are detected
type SortType string

const (
	// Threshold sorts contiguous runs of eligible pixels
	Threshold SortType = "threshold"
	// Random sorts fixed pseudo-random lengths starting at eligible pixels
	Random SortType = "random"
)

// Direction selects the scan axis and order
type Direction string

const (
	Right Direction = "right"
	Left  Direction = "left"
	Down  Direction = "down"
	Up    Direction = "up"
)

// ParseSortType is case-insensitive
func ParseSortType(s string) (SortType, error) {
	switch t := SortType(strings.ToLower(strings.TrimSpace(s))); t {
	case Threshold, Random:
		return t, nil
	}
	return "", ConfigError{Field: "sortType", Message: fmt.Sprintf("unknown value %q (threshold|random)", s)}
}

// ParseDirection is case-insensitive
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Right, Left, Down, Up:
		return d, nil
	}
	return "", ConfigError{Field: "direction", Message: fmt.Sprintf("unknown value %q (right|left|down|up)", s)}
}

// Vertical reports whether lines are columns
func (d Direction) Vertical() bool {
	return d == Down || d == Up
}

// Reversed reports whether lines are scanned end to start
func (d Direction) Reversed() bool {
	return d == Left || d == Up
}

// Config is the complete parameter set for one ProcessImage call
type Config struct {
	Metric         metric.Metric
	LowerThreshold float64 // inclusive, [0,1]
	UpperThreshold float64 // inclusive, [0,1]
	Angle          float64 // degrees
	FalloffChance  float64 // percent of detected runs that are sorted
	ThreadCount    int     // number of line batches
	SortType       SortType
	Direction      Direction
	ChunkSetting   float64 // [0,100], 0 disables
	ChunkLength    int     // absolute segment length, overrides ChunkSetting
	Mask           *pixel.Buffer
	MaskThreshold  int // [0,255]
	Seed           uint64
	// Parallel runs the lines of a batch concurrently with one random stream
	// per line. Output is deterministic per seed but differs from sequential.
	Parallel bool
	// TrimPadding ends threshold runs at their last eligible pixel and stops
	// random runs at the last visible pixel, so the transparent padding of a
	// rotated canvas is never sorted into the image
	TrimPadding bool
	// Progress is called after every batch with the lines done so far
	Progress func(done, total int)
}

// DefaultConfig mirrors the defaults of the interactive tool
func DefaultConfig() Config {
	return Config{
		Metric:         metric.Brightness,
		LowerThreshold: 0.25,
		UpperThreshold: 0.75,
		FalloffChance:  100,
		ThreadCount:    4,
		SortType:       Threshold,
		Direction:      Right,
		MaskThreshold:  255,
	}
}

// Validate returns the first invalid field as a ConfigError
func (c Config) Validate() error {
	switch {
	case !c.Metric.Valid():
		return ConfigError{Field: "metric", Message: fmt.Sprintf("unknown value %q", c.Metric)}
	case !inRange(c.LowerThreshold, 0, 1):
		return ConfigError{Field: "lowerThreshold", Message: fmt.Sprintf("%v outside [0,1]", c.LowerThreshold)}
	case !inRange(c.UpperThreshold, 0, 1):
		return ConfigError{Field: "upperThreshold", Message: fmt.Sprintf("%v outside [0,1]", c.UpperThreshold)}
	case c.LowerThreshold > c.UpperThreshold:
		return ConfigError{Field: "thresholds", Message: fmt.Sprintf("lower %v above upper %v", c.LowerThreshold, c.UpperThreshold)}
	case math.IsNaN(c.Angle) || math.IsInf(c.Angle, 0):
		return ConfigError{Field: "angle", Message: fmt.Sprintf("%v is not finite", c.Angle)}
	case !inRange(c.FalloffChance, 0, 100):
		return ConfigError{Field: "falloffChance", Message: fmt.Sprintf("%v outside [0,100]", c.FalloffChance)}
	case c.ThreadCount < 1:
		return ConfigError{Field: "threadCount", Message: fmt.Sprintf("%d must be at least 1", c.ThreadCount)}
	case c.SortType != Threshold && c.SortType != Random:
		return ConfigError{Field: "sortType", Message: fmt.Sprintf("unknown value %q", c.SortType)}
	case c.Direction != Right && c.Direction != Left && c.Direction != Down && c.Direction != Up:
		return ConfigError{Field: "direction", Message: fmt.Sprintf("unknown value %q", c.Direction)}
	case !inRange(c.ChunkSetting, 0, 100):
		return ConfigError{Field: "chunkSetting", Message: fmt.Sprintf("%v outside [0,100]", c.ChunkSetting)}
	case c.ChunkLength < 0:
		return ConfigError{Field: "chunkLength", Message: fmt.Sprintf("%d is negative", c.ChunkLength)}
	case c.MaskThreshold < 0 || c.MaskThreshold > 255:
		return ConfigError{Field: "maskThreshold", Message: fmt.Sprintf("%d outside [0,255]", c.MaskThreshold)}
	}
	if c.Mask != nil {
		if err := c.Mask.Validate(); err != nil {
			return ConfigError{Field: "mask", Message: err.Error(), Err: err}
		}
	}
	return nil
}

// inRange is false for NaN
func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
