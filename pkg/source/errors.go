package source

import "errors"

var (
	ErrUnknownMode     = errors.New("unknown read mode")
	ErrUnsupportedMode = errors.New("read mode not supported on this platform")
	ErrInvalidRange    = errors.New("invalid byte range")
)
