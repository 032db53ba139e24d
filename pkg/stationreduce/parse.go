package stationreduce

import (
	"bytes"
	"iter"
)

// LineParser walks a buffer of whole "<key>;<value>\n" lines.
//
// Lines that are empty, lack the ';' delimiter, have an empty key or carry a
// value outside the fixed "-dd.d" shape are skipped and counted; parsing
// continues with the next line. The final line may omit its terminator, and a
// '\r' directly before the terminator is ignored.
type LineParser struct {
	data    []byte
	skipped int
}

// NewLineParser returns a parser over data. data is not copied.
func NewLineParser(data []byte) *LineParser {
	return &LineParser{data: data}
}

// All yields one (key, value) pair per valid line. The key aliases the parser's
// buffer and is only valid until the buffer is reused. Each call starts again
// from the beginning of the buffer.
func (p *LineParser) All() iter.Seq2[[]byte, Tenths] {
	return func(yield func([]byte, Tenths) bool) {
		p.skipped = 0
		data := p.data

		for len(data) > 0 {
			var line []byte
			if nl := bytes.IndexByte(data, '\n'); nl >= 0 {
				line, data = data[:nl], data[nl+1:]
			} else {
				line, data = data, nil
			}

			key, value, ok := splitLine(line)
			if !ok {
				p.skipped++
				continue
			}

			if !yield(key, value) {
				return
			}
		}
	}
}

// Skipped reports how many malformed lines the last iteration passed over.
func (p *LineParser) Skipped() int {
	return p.skipped
}

func splitLine(line []byte) ([]byte, Tenths, bool) {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}

	sep := bytes.IndexByte(line, ';')
	if sep <= 0 {
		return nil, 0, false
	}

	v, ok := ParseTenths(line[sep+1:])
	if !ok {
		return nil, 0, false
	}

	return line[:sep], v, true
}

// ParseTenths converts a literal of the form [-]d.d or [-]dd.d into tenths
// without going through a float. It reports false for anything else.
func ParseTenths(b []byte) (Tenths, bool) {
	switch len(b) {
	case 3: // d.d
		if isDigit(b[0]) && b[1] == '.' && isDigit(b[2]) {
			return Tenths(10*int64(b[0]-'0') + int64(b[2]-'0')), true
		}
	case 4:
		if b[0] == '-' { // -d.d
			if isDigit(b[1]) && b[2] == '.' && isDigit(b[3]) {
				return -Tenths(10*int64(b[1]-'0') + int64(b[3]-'0')), true
			}
		} else if isDigit(b[0]) && isDigit(b[1]) && b[2] == '.' && isDigit(b[3]) { // dd.d
			return Tenths(100*int64(b[0]-'0') + 10*int64(b[1]-'0') + int64(b[3]-'0')), true
		}
	case 5: // -dd.d
		if b[0] == '-' && isDigit(b[1]) && isDigit(b[2]) && b[3] == '.' && isDigit(b[4]) {
			return -Tenths(100*int64(b[1]-'0') + 10*int64(b[2]-'0') + int64(b[4]-'0')), true
		}
	}

	return 0, false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
