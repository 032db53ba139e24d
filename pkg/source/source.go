// Package source provides scoped, read-only views over byte ranges of an input file.
//
// Every implementation hands out blocks that contain only whole lines of the
// requested range, so callers can parse a block without stitching. The modes
// are interchangeable; they differ only in how bytes reach memory.
package source

import (
	"fmt"
	"io"
)

// Mode names a Source implementation.
type Mode string

const (
	// ModeMmap maps the whole file once and copies ranges out in blocks.
	ModeMmap Mode = "mmap"
	// ModeChunkMap maps each requested range separately, page aligned.
	ModeChunkMap Mode = "chunkmap"
	// ModePread reads ranges with positional reads into a block buffer.
	ModePread Mode = "pread"
)

// DefaultBlockSize is the buffer size used by block-scanning sources.
const DefaultBlockSize = 4 << 20

// BlockFunc receives a buffer of whole lines. The buffer is only valid for the
// duration of the call.
type BlockFunc func(block []byte) error

// Source is a read-only view over one file.
type Source interface {
	io.ReaderAt

	// Size returns the file size in bytes.
	Size() int64

	// Scan calls fn with successive blocks that together cover [start, end)
	// exactly once. start must be 0 or follow a '\n'; end must follow a '\n'
	// or equal Size().
	Scan(start, end int64, fn BlockFunc) error

	Close() error
}

// ParseMode validates a mode name. An empty name selects ModeMmap.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeMmap, ModeChunkMap, ModePread:
		return m, nil
	case "":
		return ModeMmap, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Open opens path with the given mode.
func Open(path string, mode Mode) (Source, error) {
	switch mode {
	case ModeMmap, "":
		src, err := OpenMmap(path)
		if err != nil {
			return nil, err
		}
		return src, nil
	case ModeChunkMap:
		src, err := OpenChunkMap(path)
		if err != nil {
			return nil, err
		}
		return src, nil
	case ModePread:
		src, err := OpenFile(path)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

func checkRange(start, end, size int64) error {
	if start < 0 || end < start || end > size {
		return fmt.Errorf("%w: [%d, %d) of %d bytes", ErrInvalidRange, start, end, size)
	}
	return nil
}
