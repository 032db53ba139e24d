package main

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"pkg.jsn.cam/stationreduce/internal/master"
	"pkg.jsn.cam/stationreduce/pkg/source"
	"pkg.jsn.cam/stationreduce/pkg/stationreduce"
)

func newRootCmd() *cobra.Command {
	cfg := master.DefaultConfig()

	var (
		readMode string
		rounding string
		quiet    bool
	)

	cmd := &cobra.Command{
		Use:   "stationreduce [input] [workers]",
		Short: "Compute per-station min/mean/max over a large measurements file",
		Long: `Scan a "<station>;<value>" file once, split across parallel workers,
and write "<station>=<min>/<mean>/<max>" for every station sorted by name.

Values are rounded up toward positive infinity to one decimal place.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.InputPath = args[0]
			}
			if len(args) > 1 {
				n, err := strconv.Atoi(args[1])
				if err != nil || n < 1 {
					return fmt.Errorf("workers must be a positive integer, got %q", args[1])
				}
				cfg.Workers = n
			}

			var err error
			if cfg.ReadMode, err = source.ParseMode(readMode); err != nil {
				return err
			}
			if cfg.Rounding, err = stationreduce.ParseRoundingMode(rounding); err != nil {
				return err
			}

			if quiet {
				log.SetOutput(io.Discard)
			}

			absPath, err := filepath.Abs(cfg.InputPath)
			if err != nil {
				return err
			}
			cfg.InputPath = absPath

			summary, err := master.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if !quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d stations to %s (%s scanned, %s records, %d chunks, %v)\n",
					summary.Stations, summary.Output, humanize.Bytes(uint64(summary.Bytes)),
					humanize.Comma(int64(summary.Records)), summary.Chunks, summary.Duration)
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.OutputPath, "output", "o", cfg.OutputPath, "report output path")
	flags.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "number of parallel workers (second positional argument wins)")
	flags.StringVar(&cfg.Executor, "executor", cfg.Executor, "chunk executor: parallel or sequential")
	flags.StringVar(&readMode, "read-mode", string(cfg.ReadMode), "how workers read the input: mmap, chunkmap or pread")
	flags.StringVar(&rounding, "rounding", string(cfg.Rounding), "rounding: exact, or float to reproduce ceil(x*10)/10 in float64")
	flags.StringVar(&cfg.SpillDir, "spill-dir", "", "park partial aggregates in a scratch bbolt file under this directory")
	flags.BoolVar(&cfg.Progress, "progress", false, "show a progress bar on stderr")
	flags.BoolVarP(&quiet, "quiet", "q", false, "suppress logs and the summary line")

	return cmd
}
