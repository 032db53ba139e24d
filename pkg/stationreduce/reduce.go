package stationreduce

import "iter"

// Global is the merged aggregate of every chunk of a run.
type Global struct {
	records map[string]StationRecord
}

// Len returns the number of distinct keys.
func (g *Global) Len() int {
	return len(g.records)
}

// Get returns the record for key.
func (g *Global) Get(key string) (StationRecord, bool) {
	rec, ok := g.records[key]
	return rec, ok
}

// All iterates the aggregate in unspecified order.
func (g *Global) All() iter.Seq2[string, StationRecord] {
	return func(yield func(string, StationRecord) bool) {
		for key, rec := range g.records {
			if !yield(key, rec) {
				return
			}
		}
	}
}

// Reducer merges partials into a Global aggregate.
//
// A Reducer has a single owner: Merge is never called concurrently, which is
// why Global needs no locking. Partials may arrive in any order; the result
// does not depend on it.
type Reducer struct {
	global *Global
	merged int
	done   bool
}

// NewReducer returns a reducer with an empty aggregate.
func NewReducer() *Reducer {
	return &Reducer{global: &Global{records: make(map[string]StationRecord)}}
}

// Merge folds p into the global aggregate. Calling Merge after Result panics.
func (r *Reducer) Merge(p *Partial) {
	if r.done {
		panic(ErrFrozen)
	}

	for key, rec := range p.All() {
		if cur, ok := r.global.records[key]; ok {
			cur.Merge(rec)
			r.global.records[key] = cur
		} else {
			r.global.records[key] = rec
		}
	}
	r.merged++
}

// Merged returns how many partials have been merged.
func (r *Reducer) Merged() int {
	return r.merged
}

// Result finishes the reduction and returns the global aggregate.
func (r *Reducer) Result() *Global {
	r.done = true
	return r.global
}
