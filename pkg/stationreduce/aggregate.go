package stationreduce

import (
	"encoding/json"
	"iter"
)

// Aggregator builds the per-key statistics of a single chunk.
// It is owned by one worker and must not be shared.
type Aggregator struct {
	table   *table
	partial *Partial
	records uint64
}

// NewAggregator returns an empty aggregator sized for roughly sizeHint distinct keys.
func NewAggregator(sizeHint int) *Aggregator {
	return &Aggregator{table: newTable(sizeHint)}
}

// Add folds one observation into the aggregate. Calling Add after Freeze panics.
func (a *Aggregator) Add(key []byte, v Tenths) {
	if a.partial != nil {
		panic(ErrFrozen)
	}

	a.table.observe(key, v)
	a.records++
}

// AddAll folds every pair of seq into the aggregate.
func (a *Aggregator) AddAll(seq iter.Seq2[[]byte, Tenths]) {
	for key, v := range seq {
		a.Add(key, v)
	}
}

// Records returns the number of observations added so far.
func (a *Aggregator) Records() uint64 {
	return a.records
}

// Freeze hands the aggregate off as an immutable Partial. The aggregator
// accepts no further updates.
func (a *Aggregator) Freeze() *Partial {
	if a.partial == nil {
		a.partial = &Partial{table: a.table, records: a.records}
	}

	return a.partial
}

// Partial is the frozen aggregate of one chunk.
type Partial struct {
	table   *table
	records uint64
}

// NewPartial builds a frozen partial from an explicit key→record mapping.
func NewPartial(records map[string]StationRecord) *Partial {
	t := newTable(len(records))

	var total uint64
	for key, rec := range records {
		t.put(key, rec)
		total += rec.Count
	}

	return &Partial{table: t, records: total}
}

// Len returns the number of distinct keys.
func (p *Partial) Len() int {
	return p.table.n
}

// Records returns the number of observations folded into the partial.
func (p *Partial) Records() uint64 {
	return p.records
}

// Get returns the record for key.
func (p *Partial) Get(key string) (StationRecord, bool) {
	return p.table.get(key)
}

// All iterates the partial in unspecified order.
func (p *Partial) All() iter.Seq2[string, StationRecord] {
	return p.table.all()
}

// partialEntry carries the key as []byte so that keys which are not valid
// UTF-8 survive a JSON round trip.
type partialEntry struct {
	Key []byte `json:"key"`
	StationRecord
}

// MarshalJSON encodes the partial as a list of entries.
func (p *Partial) MarshalJSON() ([]byte, error) {
	entries := make([]partialEntry, 0, p.Len())
	for key, rec := range p.All() {
		entries = append(entries, partialEntry{Key: []byte(key), StationRecord: rec})
	}

	return json.Marshal(entries)
}

// UnmarshalJSON rebuilds a partial encoded by MarshalJSON.
func (p *Partial) UnmarshalJSON(data []byte) error {
	var entries []partialEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	t := newTable(len(entries))

	var total uint64
	for _, e := range entries {
		t.put(string(e.Key), e.StationRecord)
		total += e.Count
	}

	p.table = t
	p.records = total

	return nil
}
