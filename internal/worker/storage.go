package worker

import (
	"fmt"
	"os"
	"path/filepath"

	"pkg.jsn.cam/stationreduce/pkg/stationreduce"
	"pkg.jsn.cam/stationreduce/pkg/storage"
)

// Storage parks frozen partials between a worker finishing a chunk and the
// reducer merging it. Everything it holds belongs to one run and is removed
// by Cleanup.
type Storage struct {
	store  *storage.JSONStore
	bucket []byte
	path   string
}

// NewStorage creates the run's bucket on backend.
func NewStorage(backend storage.Backend, runID string) (*Storage, error) {
	bucket := []byte(fmt.Sprintf("run_%s", runID))
	if err := backend.CreateBucket(bucket); err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
	}

	return &Storage{
		store:  storage.NewJSONStore(backend),
		bucket: bucket,
	}, nil
}

// OpenStorage creates a bbolt scratch database for the run under dir.
func OpenStorage(dir, runID string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create spill directory: %w", err)
	}

	dbPath := filepath.Join(dir, fmt.Sprintf("partials-%s.db", runID))

	backend, err := storage.NewBboltBackend(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open backend: %w", err)
	}

	s, err := NewStorage(backend, runID)
	if err != nil {
		backend.Close()
		os.Remove(dbPath)
		return nil, err
	}
	s.path = dbPath

	return s, nil
}

func chunkKey(index int) []byte {
	return []byte(fmt.Sprintf("chunk_%08d", index))
}

// StorePartial stores the partial of chunk index.
func (s *Storage) StorePartial(index int, p *stationreduce.Partial) error {
	return s.store.PutJSON(s.bucket, chunkKey(index), p)
}

// TakePartial loads the partial of chunk index and removes it from storage.
func (s *Storage) TakePartial(index int) (*stationreduce.Partial, error) {
	key := chunkKey(index)

	p := new(stationreduce.Partial)
	found, err := s.store.GetJSON(s.bucket, key, p)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !found {
		return nil, fmt.Errorf("load %s: partial not stored", key)
	}

	if err := s.store.Backend().Delete(s.bucket, key); err != nil {
		return nil, fmt.Errorf("delete %s: %w", key, err)
	}

	return p, nil
}

// Pending returns how many partials are stored and not yet taken.
func (s *Storage) Pending() (int, error) {
	return s.store.Backend().Len(s.bucket)
}

// Path returns the scratch database path, or "" for a non-file backend.
func (s *Storage) Path() string {
	return s.path
}

// Cleanup drops the run's bucket, closes the backend and removes the
// scratch file if there is one.
func (s *Storage) Cleanup() error {
	backend := s.store.Backend()

	err := backend.DeleteBucket(s.bucket)
	if cerr := backend.Close(); err == nil {
		err = cerr
	}

	if s.path != "" {
		if rerr := os.Remove(s.path); rerr != nil && !os.IsNotExist(rerr) && err == nil {
			err = rerr
		}
	}

	return err
}
