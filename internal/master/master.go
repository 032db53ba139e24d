package master

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"pkg.jsn.cam/stationreduce/internal/worker"
	"pkg.jsn.cam/stationreduce/pkg/source"
	"pkg.jsn.cam/stationreduce/pkg/stationreduce"
	"pkg.jsn.cam/stationreduce/pkg/stationreduce/protocol"
)

// Summary describes a finished run
type Summary struct {
	RunID    string
	Output   string
	Chunks   int
	Stations int
	Skipped  int
	Records  uint64
	Bytes    int64
	Duration time.Duration
}

// Master coordinates one run: it plans chunks, drives the executor, owns the
// reducer and writes the report.
type Master struct {
	cfg      Config
	runID    string
	executor stationreduce.Executor
}

// NewMaster validates cfg and prepares a run.
func NewMaster(cfg Config) (*Master, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	exec, err := stationreduce.NewExecutor(cfg.Executor, cfg.Workers)
	if err != nil {
		return nil, err
	}

	return &Master{
		cfg:      cfg,
		runID:    uuid.New().String(),
		executor: exec,
	}, nil
}

// RunID returns the identifier used in logs and scratch storage.
func (m *Master) RunID() string {
	return m.runID
}

func (m *Master) logf(format string, args ...any) {
	log.Printf("[MASTER:%s] "+format, append([]any{m.runID[:8]}, args...)...)
}

// Run performs the whole computation. On any error nothing is written to the
// output path.
func (m *Master) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()
	cfg := m.cfg

	src, err := source.Open(cfg.InputPath, cfg.ReadMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stationreduce.ErrInputAccess, err)
	}
	defer src.Close()

	size := src.Size()
	ranges, err := stationreduce.PlanChunks(src, size, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stationreduce.ErrInputAccess, err)
	}

	m.logf("Planned %d chunks over %s (%s, %d workers, %s)",
		len(ranges), humanize.Bytes(uint64(size)), cfg.InputPath, cfg.Workers, m.executor.Description())

	tasks := protocol.NewChunkTasks(m.runID, ranges)

	var store *worker.Storage
	if cfg.SpillDir != "" {
		store, err = worker.OpenStorage(cfg.SpillDir, m.runID)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := store.Cleanup(); err != nil {
				m.logf("Failed to clean up spill storage: %v", err)
			}
		}()
		m.logf("Spilling partials to %s", store.Path())
	}

	processor := worker.NewProcessor(src, store)
	bar := newProgress(cfg.Progress, size)
	reducer := stationreduce.NewReducer()

	summary := &Summary{
		RunID:  m.runID,
		Output: cfg.OutputPath,
		Chunks: len(ranges),
		Bytes:  size,
	}

	process := func(ctx context.Context, index int, _ stationreduce.ByteRange) (*stationreduce.Partial, error) {
		return processor.ProcessChunk(ctx, tasks[index])
	}

	merge := func(index int, p *stationreduce.Partial) error {
		task := tasks[index]

		if p == nil {
			if store == nil {
				return errors.New("worker returned no partial")
			}
			taken, err := store.TakePartial(index)
			if err != nil {
				return err
			}
			p = taken
		}

		reducer.Merge(p)

		summary.Records += task.Records
		summary.Skipped += task.Skipped
		_ = bar.Add64(task.Len())

		return nil
	}

	if err := m.executor.Run(ctx, ranges, process, merge); err != nil {
		m.logf("Run aborted: %v", err)
		return nil, err
	}
	_ = bar.Finish()

	global := reducer.Result()
	summary.Stations = global.Len()

	var report bytes.Buffer
	if err := stationreduce.WriteReport(&report, global, cfg.Rounding); err != nil {
		return nil, fmt.Errorf("%w: %w", stationreduce.ErrOutputWrite, err)
	}
	if err := writeFileAtomic(cfg.OutputPath, report.Bytes()); err != nil {
		return nil, fmt.Errorf("%w: %w", stationreduce.ErrOutputWrite, err)
	}

	summary.Duration = time.Since(started)

	m.logf("Merged %d partials: %d stations from %d records (%d skipped) in %v",
		reducer.Merged(), summary.Stations, summary.Records, summary.Skipped, summary.Duration)

	return summary, nil
}

// Run validates cfg and performs a single run.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
	m, err := NewMaster(cfg)
	if err != nil {
		return nil, err
	}

	return m.Run(ctx)
}
