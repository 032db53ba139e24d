package master

import (
	"fmt"
	"runtime"

	"pkg.jsn.cam/stationreduce/pkg/source"
	"pkg.jsn.cam/stationreduce/pkg/stationreduce"
)

const (
	DefaultInputPath  = "testcase.txt"
	DefaultOutputPath = "output.txt"
)

// Config holds run configuration
type Config struct {
	InputPath  string
	OutputPath string
	Executor   string                     // "parallel" or "sequential"
	ReadMode   source.Mode                // how workers read their ranges
	Rounding   stationreduce.RoundingMode // how the report rounds
	SpillDir   string                     // park partials in a bbolt file here (empty = in memory)
	Workers    int
	Progress   bool
}

// DefaultConfig returns the configuration used when nothing is overridden.
// Workers follows GOMAXPROCS, which automaxprocs aligns with the CPU quota.
func DefaultConfig() Config {
	return Config{
		InputPath:  DefaultInputPath,
		OutputPath: DefaultOutputPath,
		Executor:   stationreduce.ExecutorParallel,
		ReadMode:   source.ModeMmap,
		Rounding:   stationreduce.RoundExact,
		Workers:    runtime.GOMAXPROCS(0),
	}
}

// Validate checks the configuration before any file is touched.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("input path is required")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: got %d", stationreduce.ErrInvalidWorkers, c.Workers)
	}
	if _, err := stationreduce.NewExecutor(c.Executor, c.Workers); err != nil {
		return err
	}
	if _, err := source.ParseMode(string(c.ReadMode)); err != nil {
		return err
	}
	if _, err := stationreduce.ParseRoundingMode(string(c.Rounding)); err != nil {
		return err
	}

	return nil
}
