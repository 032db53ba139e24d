package stationreduce

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// RoundingMode selects how min, mean and max are rounded up to one decimal.
type RoundingMode string

const (
	// RoundExact rounds toward +Inf on the exact integer tenths.
	RoundExact RoundingMode = "exact"
	// RoundFloat computes ceil(x*10)/10 in float64 on the decoded value. Within
	// the value domain it agrees with RoundExact; it exists to reproduce
	// reports produced by that formula byte for byte.
	RoundFloat RoundingMode = "float"
)

// ParseRoundingMode validates a rounding mode name.
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch m := RoundingMode(s); m {
	case RoundExact, RoundFloat:
		return m, nil
	case "":
		return RoundExact, nil
	default:
		return "", fmt.Errorf("unknown rounding mode %q", s)
	}
}

// WriteReport writes one "<key>=<min>/<mean>/<max>\n" line per key of g,
// ordered by the keys' code points.
func WriteReport(w io.Writer, g *Global, mode RoundingMode) error {
	keys := make([]string, 0, g.Len())
	for key := range g.All() {
		keys = append(keys, key)
	}
	slices.SortFunc(keys, compareKeys)

	bw := bufio.NewWriter(w)
	line := make([]byte, 0, 128)

	for _, key := range keys {
		rec, _ := g.Get(key)

		line = append(line[:0], key...)
		line = append(line, '=')
		line = appendStats(line, rec, mode)
		line = append(line, '\n')

		if _, err := bw.Write(line); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// FormatRecord renders the "<min>/<mean>/<max>" part of a report line.
func FormatRecord(rec StationRecord, mode RoundingMode) string {
	return string(appendStats(nil, rec, mode))
}

func appendStats(dst []byte, rec StationRecord, mode RoundingMode) []byte {
	if mode == RoundFloat {
		dst = appendFloatTenth(dst, float64(rec.Min)/10)
		dst = append(dst, '/')
		dst = appendFloatTenth(dst, float64(rec.Sum)/float64(rec.Count)/10)
		dst = append(dst, '/')
		return appendFloatTenth(dst, float64(rec.Max)/10)
	}

	dst = rec.Min.AppendTo(dst)
	dst = append(dst, '/')
	dst = MeanCeil(rec).AppendTo(dst)
	dst = append(dst, '/')
	return rec.Max.AppendTo(dst)
}

// MeanCeil returns Sum/Count rounded toward +Inf to whole tenths.
func MeanCeil(rec StationRecord) Tenths {
	count := int64(rec.Count)
	q := rec.Sum / count
	// Integer division truncates toward zero, which already is the ceiling
	// for negative quotients.
	if rec.Sum%count != 0 && rec.Sum > 0 {
		q++
	}
	return Tenths(q)
}

func appendFloatTenth(dst []byte, x float64) []byte {
	v := math.Ceil(x*10) / 10
	if v == 0 {
		v = 0 // ceil(-0.5) is -0; render it as 0.0
	}
	return strconv.AppendFloat(dst, v, 'f', 1, 64)
}

// compareKeys orders keys by their decoded code points. Invalid UTF-8 decodes
// to U+FFFD; keys that decode identically fall back to byte order.
func compareKeys(a, b string) int {
	x, y := a, b
	for len(x) > 0 && len(y) > 0 {
		rx, nx := utf8.DecodeRuneInString(x)
		ry, ny := utf8.DecodeRuneInString(y)
		if rx != ry {
			return cmp.Compare(rx, ry)
		}
		x, y = x[nx:], y[ny:]
	}

	if c := cmp.Compare(len(x), len(y)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
