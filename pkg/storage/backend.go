// Package storage holds the key-value backends used to park frozen partial
// aggregates between a worker finishing a chunk and the reducer merging it.
package storage

import "errors"

var (
	ErrBucketNotFound = errors.New("bucket not found")
	ErrClosed         = errors.New("backend closed")
)

// Backend is a bucketed key-value store. Keys and values are raw bytes;
// serialization is left to wrappers such as JSONStore.
//
// Implementations are safe for concurrent use: workers write their partials
// while the reducer reads and deletes others.
type Backend interface {
	CreateBucket(name []byte) error
	// DeleteBucket is idempotent.
	DeleteBucket(name []byte) error
	BucketExists(name []byte) (bool, error)

	Put(bucket, key, value []byte) error
	// Get returns nil, nil for a missing key.
	Get(bucket, key []byte) ([]byte, error)
	Delete(bucket, key []byte) error

	// Len returns the number of keys in a bucket.
	Len(bucket []byte) (int, error)
	ForEach(bucket []byte, fn func(k, v []byte) error) error

	Close() error
}
