package storage

import (
	"fmt"
	"sync"
)

// MemoryBackend implements Backend using in-memory maps (not persistent)
type MemoryBackend struct {
	buckets map[string]map[string][]byte
	mu      sync.RWMutex
	closed  bool
}

// NewMemoryBackend creates a new in-memory storage backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		buckets: make(map[string]map[string][]byte),
	}
}

// bucket returns the named bucket; callers hold m.mu.
func (m *MemoryBackend) bucket(name []byte) (map[string][]byte, error) {
	if m.closed {
		return nil, ErrClosed
	}

	bkt, ok := m.buckets[string(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, name)
	}

	return bkt, nil
}

func (m *MemoryBackend) CreateBucket(name []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if _, ok := m.buckets[string(name)]; !ok {
		m.buckets[string(name)] = make(map[string][]byte)
	}

	return nil
}

func (m *MemoryBackend) DeleteBucket(name []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.buckets, string(name))

	return nil
}

func (m *MemoryBackend) BucketExists(name []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return false, ErrClosed
	}
	_, ok := m.buckets[string(name)]

	return ok, nil
}

func (m *MemoryBackend) Put(bucket, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bkt, err := m.bucket(bucket)
	if err != nil {
		return err
	}
	bkt[string(key)] = append([]byte(nil), value...)

	return nil
}

func (m *MemoryBackend) Get(bucket, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bkt, err := m.bucket(bucket)
	if err != nil {
		return nil, err
	}

	v, ok := bkt[string(key)]
	if !ok {
		return nil, nil
	}

	return append([]byte(nil), v...), nil
}

func (m *MemoryBackend) Delete(bucket, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bkt, err := m.bucket(bucket)
	if err != nil {
		return err
	}
	delete(bkt, string(key))

	return nil
}

func (m *MemoryBackend) Len(bucket []byte) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bkt, err := m.bucket(bucket)
	if err != nil {
		return 0, err
	}

	return len(bkt), nil
}

// ForEach visits a snapshot of the bucket, so fn may write to the backend.
func (m *MemoryBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	m.mu.RLock()
	bkt, err := m.bucket(bucket)
	if err != nil {
		m.mu.RUnlock()
		return err
	}

	snapshot := make(map[string][]byte, len(bkt))
	for k, v := range bkt {
		snapshot[k] = v
	}
	m.mu.RUnlock()

	for k, v := range snapshot {
		if err := fn([]byte(k), v); err != nil {
			return err
		}
	}

	return nil
}

func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.buckets = nil

	return nil
}
