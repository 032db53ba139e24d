package storage

import (
	"encoding/json"
	"fmt"
)

// JSONStore wraps a Backend and provides JSON serialization convenience methods
type JSONStore struct {
	backend Backend
}

// NewJSONStore creates a new JSON store wrapper around a backend
func NewJSONStore(backend Backend) *JSONStore {
	return &JSONStore{backend: backend}
}

// Backend returns the underlying backend
func (j *JSONStore) Backend() Backend {
	return j.backend
}

// PutJSON stores a JSON-encoded value in a bucket
func (j *JSONStore) PutJSON(bucket, key []byte, v any) error {
	data, err := EncodeJSON(v)
	if err != nil {
		return err
	}

	return j.backend.Put(bucket, key, data)
}

// GetJSON decodes the value stored under key into v. It reports false when
// the key does not exist.
func (j *JSONStore) GetJSON(bucket, key []byte, v any) (bool, error) {
	data, err := j.backend.Get(bucket, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}

	return true, DecodeJSON(data, v)
}

// EncodeJSON marshals a value to JSON bytes
func EncodeJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}

	return data, nil
}

// DecodeJSON unmarshals JSON bytes to a value
func DecodeJSON(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}

	return nil
}
