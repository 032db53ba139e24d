package stationreduce

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// scanWindow is how many bytes PlanChunks reads at a time while looking for a terminator.
const scanWindow = 64 * 1024

// PlanChunks splits [0, size) into at most workers contiguous, non-overlapping,
// line-aligned ranges. Every interior boundary sits immediately after a '\n' and
// the last range always ends at size. Fewer ranges are returned when the file
// is too small or has too few lines to give every worker a non-empty range.
func PlanChunks(r io.ReaderAt, size int64, workers int) ([]ByteRange, error) {
	if workers < 1 {
		return nil, ErrInvalidWorkers
	}
	if size <= 0 {
		return nil, nil
	}

	ranges := make([]ByteRange, 0, workers)
	buf := make([]byte, scanWindow)
	start := int64(0)

	for i := 1; i < workers && start < size; i++ {
		target := size / int64(workers) * int64(i)
		target += size % int64(workers) * int64(i) / int64(workers)

		// Search from target-1 so a target that already starts a line stays put,
		// but never from before start so the range cannot come out empty.
		from := max(target-1, start)
		end, err := nextLineStart(r, buf, from, size)
		if err != nil {
			return nil, fmt.Errorf("plan chunk %d: %w", i, err)
		}

		ranges = append(ranges, ByteRange{Start: start, End: end})
		start = end
	}

	if start < size {
		ranges = append(ranges, ByteRange{Start: start, End: size})
	}

	return ranges, nil
}

// nextLineStart returns the offset just past the first '\n' at or after from,
// or size when no terminator remains.
func nextLineStart(r io.ReaderAt, buf []byte, from, size int64) (int64, error) {
	for pos := from; pos < size; {
		n := min(int64(len(buf)), size-pos)

		read, err := r.ReadAt(buf[:n], pos)
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		if read == 0 {
			return 0, io.ErrUnexpectedEOF
		}

		if idx := bytes.IndexByte(buf[:read], '\n'); idx >= 0 {
			return pos + int64(idx) + 1, nil
		}
		pos += int64(read)
	}

	return size, nil
}
