package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/dustin/go-humanize"
	"pkg.jsn.cam/stationreduce/pkg/source"
	"pkg.jsn.cam/stationreduce/pkg/stationreduce"
	"pkg.jsn.cam/stationreduce/pkg/stationreduce/protocol"
)

// defaultKeyHint sizes each chunk's table up front; it grows past this as needed.
const defaultKeyHint = 1 << 10

// Processor handles chunk task execution
type Processor struct {
	src     source.Source
	store   *Storage
	keyHint int
}

// NewProcessor creates a new chunk processor. store may be nil, in which case
// partials are returned directly instead of being parked.
func NewProcessor(src source.Source, store *Storage) *Processor {
	return &Processor{
		src:     src,
		store:   store,
		keyHint: defaultKeyHint,
	}
}

// ProcessChunk scans, parses and aggregates the task's range into a frozen
// partial. With a Storage configured the partial is stored there and nil is
// returned; the caller collects it with Storage.TakePartial(task.Index).
func (p *Processor) ProcessChunk(ctx context.Context, task *protocol.ChunkTask) (*stationreduce.Partial, error) {
	log.Printf("[WORKER:%d] Processing %s (%s)", task.Index, task, humanize.Bytes(uint64(task.Len())))

	task.Start()

	agg := stationreduce.NewAggregator(p.keyHint)
	skipped := 0

	err := p.src.Scan(task.Range.Start, task.Range.End, func(block []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		lines := stationreduce.NewLineParser(block)
		agg.AddAll(lines.All())
		skipped += lines.Skipped()

		return nil
	})
	if err != nil {
		task.Fail(err)
		return nil, fmt.Errorf("%w: %s: %w", stationreduce.ErrChunkRead, task, err)
	}

	partial := agg.Freeze()
	task.Complete(partial.Records(), skipped)

	if skipped > 0 {
		log.Printf("[WORKER:%d] Skipped %d malformed lines", task.Index, skipped)
	}
	log.Printf("[WORKER:%d] Aggregated %d records into %d stations in %v",
		task.Index, partial.Records(), partial.Len(), task.Duration())

	if p.store == nil {
		return partial, nil
	}

	if err := p.store.StorePartial(task.Index, partial); err != nil {
		task.Fail(err)
		return nil, fmt.Errorf("store partial for %s: %w", task, err)
	}

	return nil, nil
}
