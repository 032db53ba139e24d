package stationreduce

import (
	"iter"

	"github.com/cespare/xxhash/v2"
)

const minTableSize = 64

type slot struct {
	key  string
	hash uint64
	rec  StationRecord
	used bool
}

// table is an open-addressing hash table from raw key bytes to StationRecord.
// Lookups with a []byte key do not allocate; the key is copied only on insert.
type table struct {
	slots []slot
	mask  uint64
	n     int
}

func newTable(sizeHint int) *table {
	size := minTableSize
	for size < sizeHint*2 {
		size <<= 1
	}

	return &table{
		slots: make([]slot, size),
		mask:  uint64(size - 1),
	}
}

// observe adds a single value for key.
func (t *table) observe(key []byte, v Tenths) {
	h := xxhash.Sum64(key)

	for i := h & t.mask; ; i = (i + 1) & t.mask {
		s := &t.slots[i]
		if !s.used {
			*s = slot{key: string(key), hash: h, rec: newRecord(v), used: true}
			t.inserted()
			return
		}
		if s.hash == h && s.key == string(key) {
			s.rec.add(v)
			return
		}
	}
}

// put stores rec under key, replacing any previous record.
func (t *table) put(key string, rec StationRecord) {
	h := xxhash.Sum64String(key)

	for i := h & t.mask; ; i = (i + 1) & t.mask {
		s := &t.slots[i]
		if !s.used {
			*s = slot{key: key, hash: h, rec: rec, used: true}
			t.inserted()
			return
		}
		if s.hash == h && s.key == key {
			s.rec = rec
			return
		}
	}
}

func (t *table) get(key string) (StationRecord, bool) {
	h := xxhash.Sum64String(key)

	for i := h & t.mask; ; i = (i + 1) & t.mask {
		s := &t.slots[i]
		if !s.used {
			return StationRecord{}, false
		}
		if s.hash == h && s.key == key {
			return s.rec, true
		}
	}
}

func (t *table) all() iter.Seq2[string, StationRecord] {
	return func(yield func(string, StationRecord) bool) {
		for i := range t.slots {
			s := &t.slots[i]
			if s.used && !yield(s.key, s.rec) {
				return
			}
		}
	}
}

// inserted keeps the load factor at or below one half.
func (t *table) inserted() {
	t.n++
	if t.n*2 <= len(t.slots) {
		return
	}

	old := t.slots
	t.slots = make([]slot, len(old)*2)
	t.mask = uint64(len(t.slots) - 1)

	for _, s := range old {
		if !s.used {
			continue
		}
		i := s.hash & t.mask
		for t.slots[i].used {
			i = (i + 1) & t.mask
		}
		t.slots[i] = s
	}
}
