package source

import (
	"fmt"

	"golang.org/x/exp/mmap"
)

// MmapSource maps the whole file read-only and serves ranges through a block buffer.
type MmapSource struct {
	r         *mmap.ReaderAt
	BlockSize int
}

// OpenMmap maps path into memory.
func OpenMmap(path string) (*MmapSource, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	return &MmapSource{r: r, BlockSize: DefaultBlockSize}, nil
}

func (s *MmapSource) Size() int64 {
	return int64(s.r.Len())
}

func (s *MmapSource) ReadAt(p []byte, off int64) (int, error) {
	return s.r.ReadAt(p, off)
}

// Scan implements Source.
func (s *MmapSource) Scan(start, end int64, fn BlockFunc) error {
	if err := checkRange(start, end, s.Size()); err != nil {
		return err
	}
	return scanReaderAt(s.r, start, end, s.BlockSize, fn)
}

func (s *MmapSource) Close() error {
	return s.r.Close()
}
