package stationreduce

import (
	"fmt"
	"strconv"
)

// Tenths is a one-decimal value stored as value×10, so 12.3 is 123 and -0.5 is -5.
type Tenths int64

// String renders t with exactly one fractional digit.
func (t Tenths) String() string {
	return string(t.AppendTo(nil))
}

// AppendTo appends the decimal form of t to dst.
func (t Tenths) AppendTo(dst []byte) []byte {
	v := int64(t)
	if v < 0 {
		dst = append(dst, '-')
		v = -v
	}
	dst = strconv.AppendInt(dst, v/10, 10)
	return append(dst, '.', byte('0'+v%10))
}

// ByteRange is a half-open interval [Start, End) into the input file.
type ByteRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Len returns the number of bytes covered by the range.
func (r ByteRange) Len() int64 {
	return r.End - r.Start
}

func (r ByteRange) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// StationRecord holds the running statistics for one key.
// Min <= Sum/Count <= Max holds once Count >= 1.
type StationRecord struct {
	Count uint64 `json:"count"`
	Sum   int64  `json:"sum"`
	Min   Tenths `json:"min"`
	Max   Tenths `json:"max"`
}

func newRecord(v Tenths) StationRecord {
	return StationRecord{Count: 1, Sum: int64(v), Min: v, Max: v}
}

// add folds a single observation into the record.
func (s *StationRecord) add(v Tenths) {
	s.Count++
	s.Sum += int64(v)
	s.Min = min(s.Min, v)
	s.Max = max(s.Max, v)
}

// Merge folds another record into s. It is associative and commutative.
func (s *StationRecord) Merge(o StationRecord) {
	s.Count += o.Count
	s.Sum += o.Sum
	s.Min = min(s.Min, o.Min)
	s.Max = max(s.Max, o.Max)
}
