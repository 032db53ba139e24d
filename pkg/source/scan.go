package source

import (
	"bytes"
	"errors"
	"io"
)

// scanReaderAt reads [start, end) from ra into a reusable buffer and calls fn
// with every prefix that ends on a line terminator. A line longer than the
// buffer grows it.
func scanReaderAt(ra io.ReaderAt, start, end int64, blockSize int, fn BlockFunc) error {
	if start == end {
		return nil
	}

	buf := make([]byte, min(int64(blockSize), end-start))
	carry := 0
	pos := start

	for pos < end {
		if carry == len(buf) {
			grown := make([]byte, len(buf)*2)
			copy(grown, buf[:carry])
			buf = grown
		}

		n := min(int64(len(buf)-carry), end-pos)
		read, err := ra.ReadAt(buf[carry:carry+int(n)], pos)
		if int64(read) < n {
			if err == nil || errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return err
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		pos += n
		data := buf[:carry+int(n)]

		if pos == end {
			return fn(data)
		}

		nl := bytes.LastIndexByte(data, '\n')
		if nl < 0 {
			carry = len(data)
			continue
		}

		if err := fn(data[:nl+1]); err != nil {
			return err
		}
		carry = copy(buf, data[nl+1:])
	}

	return nil
}
