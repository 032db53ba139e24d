package storage

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BboltBackend implements Backend on a bbolt file.
//
// The file is scratch space for a single run, so fsync is disabled: a crash
// loses the run anyway and the next run starts from scratch.
type BboltBackend struct {
	db *bolt.DB
}

// NewBboltBackend opens (or creates) a bbolt database at dbPath.
func NewBboltBackend(dbPath string) (*BboltBackend, error) {
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{
		Timeout:        time.Second,
		NoSync:         true,
		NoFreelistSync: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt database: %w", err)
	}

	return &BboltBackend{db: db}, nil
}

// Path returns the database file path.
func (b *BboltBackend) Path() string {
	return b.db.Path()
}

func bucketOf(tx *bolt.Tx, name []byte) (*bolt.Bucket, error) {
	bkt := tx.Bucket(name)
	if bkt == nil {
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, name)
	}
	return bkt, nil
}

func (b *BboltBackend) CreateBucket(name []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	})
}

func (b *BboltBackend) DeleteBucket(name []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket(name)
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}

func (b *BboltBackend) BucketExists(name []byte) (bool, error) {
	exists := false
	err := b.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(name) != nil
		return nil
	})

	return exists, err
}

func (b *BboltBackend) Put(bucket, key, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt, err := bucketOf(tx, bucket)
		if err != nil {
			return err
		}
		return bkt.Put(key, value)
	})
}

func (b *BboltBackend) Get(bucket, key []byte) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt, err := bucketOf(tx, bucket)
		if err != nil {
			return err
		}
		// Values are only valid for the life of the transaction.
		if v := bkt.Get(key); v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})

	return value, err
}

func (b *BboltBackend) Delete(bucket, key []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt, err := bucketOf(tx, bucket)
		if err != nil {
			return err
		}
		return bkt.Delete(key)
	})
}

func (b *BboltBackend) Len(bucket []byte) (int, error) {
	n := 0
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt, err := bucketOf(tx, bucket)
		if err != nil {
			return err
		}
		n = bkt.Stats().KeyN
		return nil
	})

	return n, err
}

// ForEach runs fn inside a read transaction; fn must not write to the backend.
func (b *BboltBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		bkt, err := bucketOf(tx, bucket)
		if err != nil {
			return err
		}
		return bkt.ForEach(fn)
	})
}

func (b *BboltBackend) Close() error {
	return b.db.Close()
}
