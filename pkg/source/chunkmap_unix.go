//go:build unix

package source

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ChunkMapSource maps each scanned range on its own. Mapping offsets must be
// multiples of the page size, so the mapping starts at the page containing
// start and the leading bytes are skipped.
type ChunkMapSource struct {
	f        *os.File
	size     int64
	pageSize int64
}

// OpenChunkMap opens path for per-range mapping.
func OpenChunkMap(path string) (*ChunkMapSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return &ChunkMapSource{
		f:        f,
		size:     info.Size(),
		pageSize: int64(unix.Getpagesize()),
	}, nil
}

func (s *ChunkMapSource) Size() int64 {
	return s.size
}

func (s *ChunkMapSource) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

// Scan maps [start, end) and passes it to fn as a single block.
func (s *ChunkMapSource) Scan(start, end int64, fn BlockFunc) error {
	if err := checkRange(start, end, s.size); err != nil {
		return err
	}
	if start == end {
		return nil
	}

	offset := alignDown(start, s.pageSize)

	data, err := unix.Mmap(int(s.f.Fd()), offset, int(end-offset), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("mmap [%d, %d): %w", offset, end, err)
	}
	defer unix.Munmap(data)

	// Advisory only.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return fn(data[start-offset:])
}

func (s *ChunkMapSource) Close() error {
	return s.f.Close()
}
