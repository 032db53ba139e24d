package main

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"pkg.jsn.cam/stationreduce/cmd/testdata/generator"
)

/* generates measurement files in the form of {station};{value} */

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		name       string
		outputPath string
		totalCount int64
		stations   int
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:           "testdata",
		Short:         "Generate measurement files for stationreduce",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := generator.Get(name, stations)
			if err != nil {
				return fmt.Errorf("%w (available: %s)", err, strings.Join(generator.List(), ", "))
			}
			gen.Init(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))

			if totalCount <= 0 {
				totalCount = gen.DefaultCount()
			}

			if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
				return err
			}
			file, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			defer file.Close()

			w := bufio.NewWriterSize(file, 1<<20)
			bar := progressbar.NewOptions64(totalCount,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription(gen.Description()),
				progressbar.OptionThrottle(200*time.Millisecond),
				progressbar.OptionShowCount(),
			)

			for i := int64(0); i < totalCount; i++ {
				if err := gen.WriteLine(w); err != nil {
					return err
				}
				if i%4096 == 0 {
					_ = bar.Set64(i)
				}
			}
			_ = bar.Finish()

			if err := w.Flush(); err != nil {
				return err
			}

			info, err := file.Stat()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "\nWrote %s lines (%s) to %s\n",
				humanize.Comma(totalCount), humanize.Bytes(uint64(info.Size())), outputPath)

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&name, "generator", "measurements", "generator to use")
	flags.StringVar(&outputPath, "output", "var/testcase.txt", "output file path")
	flags.Int64Var(&totalCount, "total_count", 0, "number of lines to generate (0 = generator default)")
	flags.IntVar(&stations, "stations", 400, "number of distinct stations")
	flags.Uint64Var(&seed, "seed", 1, "random seed")

	return cmd
}
