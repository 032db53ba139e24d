//go:build !unix

package source

import "fmt"

// ChunkMapSource is not available on this platform.
type ChunkMapSource struct{}

// OpenChunkMap always fails on this platform.
func OpenChunkMap(path string) (*ChunkMapSource, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, ModeChunkMap)
}

func (s *ChunkMapSource) Size() int64                               { return 0 }
func (s *ChunkMapSource) ReadAt(p []byte, off int64) (int, error)   { return 0, ErrUnsupportedMode }
func (s *ChunkMapSource) Scan(start, end int64, fn BlockFunc) error { return ErrUnsupportedMode }
func (s *ChunkMapSource) Close() error                              { return nil }
