package storage

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// backendTestSuite runs the same checks against any Backend implementation
func backendTestSuite(t *testing.T, newBackend func(t *testing.T) Backend) {
	t.Run("CreateBucket", func(t *testing.T) {
		backend := newBackend(t)

		if err := backend.CreateBucket([]byte("run")); err != nil {
			t.Fatalf("CreateBucket failed: %v", err)
		}

		exists, err := backend.BucketExists([]byte("run"))
		if err != nil {
			t.Fatalf("BucketExists failed: %v", err)
		}
		if !exists {
			t.Error("Bucket should exist after creation")
		}

		// Idempotent
		if err := backend.CreateBucket([]byte("run")); err != nil {
			t.Errorf("CreateBucket should be idempotent: %v", err)
		}
	})

	t.Run("DeleteBucket", func(t *testing.T) {
		backend := newBackend(t)

		backend.CreateBucket([]byte("run"))
		if err := backend.DeleteBucket([]byte("run")); err != nil {
			t.Fatalf("DeleteBucket failed: %v", err)
		}

		exists, _ := backend.BucketExists([]byte("run"))
		if exists {
			t.Error("Bucket should not exist after deletion")
		}

		// Idempotent
		if err := backend.DeleteBucket([]byte("run")); err != nil {
			t.Errorf("DeleteBucket should be idempotent: %v", err)
		}
	})

	t.Run("PutGetDelete", func(t *testing.T) {
		backend := newBackend(t)
		backend.CreateBucket([]byte("run"))

		key, value := []byte("chunk_00000001"), []byte(`[{"key":"QmVybGlu"}]`)
		if err := backend.Put([]byte("run"), key, value); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		got, err := backend.Get([]byte("run"), key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, value) {
			t.Errorf("Get returned %s, want %s", got, value)
		}

		// The returned slice belongs to the caller.
		got[0] = 'X'
		again, _ := backend.Get([]byte("run"), key)
		if !bytes.Equal(again, value) {
			t.Errorf("Stored value changed to %s after mutating a Get result", again)
		}

		if err := backend.Delete([]byte("run"), key); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		got, err = backend.Get([]byte("run"), key)
		if err != nil || got != nil {
			t.Errorf("Get after Delete = %q, %v; want nil, nil", got, err)
		}
	})

	t.Run("MissingKey", func(t *testing.T) {
		backend := newBackend(t)
		backend.CreateBucket([]byte("run"))

		got, err := backend.Get([]byte("run"), []byte("nope"))
		if err != nil || got != nil {
			t.Errorf("Get of missing key = %q, %v; want nil, nil", got, err)
		}
	})

	t.Run("MissingBucket", func(t *testing.T) {
		backend := newBackend(t)

		if err := backend.Put([]byte("nope"), []byte("k"), []byte("v")); !errors.Is(err, ErrBucketNotFound) {
			t.Errorf("Put = %v, want ErrBucketNotFound", err)
		}
		if _, err := backend.Get([]byte("nope"), []byte("k")); !errors.Is(err, ErrBucketNotFound) {
			t.Errorf("Get = %v, want ErrBucketNotFound", err)
		}
		if _, err := backend.Len([]byte("nope")); !errors.Is(err, ErrBucketNotFound) {
			t.Errorf("Len = %v, want ErrBucketNotFound", err)
		}
	})

	t.Run("LenAndForEach", func(t *testing.T) {
		backend := newBackend(t)
		backend.CreateBucket([]byte("run"))

		want := make(map[string]string)
		for i := range 25 {
			k, v := fmt.Sprintf("chunk_%08d", i), fmt.Sprintf("partial-%d", i)
			want[k] = v
			if err := backend.Put([]byte("run"), []byte(k), []byte(v)); err != nil {
				t.Fatalf("Put failed: %v", err)
			}
		}

		n, err := backend.Len([]byte("run"))
		if err != nil {
			t.Fatalf("Len failed: %v", err)
		}
		if n != len(want) {
			t.Errorf("Len = %d, want %d", n, len(want))
		}

		got := make(map[string]string)
		err = backend.ForEach([]byte("run"), func(k, v []byte) error {
			got[string(k)] = string(v)
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach failed: %v", err)
		}
		if len(got) != len(want) {
			t.Fatalf("ForEach visited %d keys, want %d", len(got), len(want))
		}
		for k, v := range want {
			if got[k] != v {
				t.Errorf("ForEach saw %s=%q, want %q", k, got[k], v)
			}
		}
	})

	t.Run("ForEachError", func(t *testing.T) {
		backend := newBackend(t)
		backend.CreateBucket([]byte("run"))
		backend.Put([]byte("run"), []byte("a"), []byte("1"))

		errStop := errors.New("stop")
		err := backend.ForEach([]byte("run"), func(k, v []byte) error { return errStop })
		if !errors.Is(err, errStop) {
			t.Errorf("ForEach = %v, want %v", err, errStop)
		}
	})

	t.Run("ConcurrentPuts", func(t *testing.T) {
		backend := newBackend(t)
		backend.CreateBucket([]byte("run"))

		var wg sync.WaitGroup
		for i := range 16 {
			wg.Go(func() {
				key := fmt.Appendf(nil, "chunk_%08d", i)
				if err := backend.Put([]byte("run"), key, key); err != nil {
					t.Errorf("Put failed: %v", err)
				}
			})
		}
		wg.Wait()

		if n, _ := backend.Len([]byte("run")); n != 16 {
			t.Errorf("Len = %d after concurrent puts, want 16", n)
		}
	})
}
