package source

import (
	"fmt"
	"os"
)

// FileSource serves ranges with positional reads on an open file.
type FileSource struct {
	f         *os.File
	size      int64
	BlockSize int
}

// OpenFile opens path for positional reads.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return &FileSource{f: f, size: info.Size(), BlockSize: DefaultBlockSize}, nil
}

func (s *FileSource) Size() int64 {
	return s.size
}

func (s *FileSource) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

// Scan implements Source.
func (s *FileSource) Scan(start, end int64, fn BlockFunc) error {
	if err := checkRange(start, end, s.size); err != nil {
		return err
	}
	return scanReaderAt(s.f, start, end, s.BlockSize, fn)
}

func (s *FileSource) Close() error {
	return s.f.Close()
}
