// Package store provides the durable key-value store shared by the
// selector and the account store. Keys map to JSON-serialized values.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrNotFound is returned when a key has no value.
	ErrNotFound = errors.New("store: key not found")
	// ErrQuotaExceeded is returned when a write would exceed the store's capacity.
	ErrQuotaExceeded = errors.New("store: quota exceeded")
	// ErrInvalidKey is returned for keys outside [A-Za-z0-9_-].
	ErrInvalidKey = errors.New("store: invalid key")
	// ErrInvalidValue is returned when a value is not valid JSON.
	ErrInvalidValue = errors.New("store: value is not valid JSON")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store is a durable key-value store.
type Store interface {
	// Get returns the raw JSON stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Apply commits all ops or none of them.
	Apply(ctx context.Context, ops ...Op) error
}

// Op is a single write inside an Apply batch.
type Op struct {
	Key    string
	Value  []byte
	Delete bool
}

// Put returns an Op storing value under key.
func Put(key string, value []byte) Op {
	return Op{Key: key, Value: value}
}

// Remove returns an Op deleting key.
func Remove(key string) Op {
	return Op{Key: key, Delete: true}
}

// PutJSON marshals v and returns an Op storing it under key.
func PutJSON(key string, v any) (Op, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Op{}, fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	return Put(key, data), nil
}

// GetJSON decodes the value under key into v.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return nil
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func validateOps(ops []Op) error {
	for _, op := range ops {
		if err := validateKey(op.Key); err != nil {
			return err
		}
		if !op.Delete && !json.Valid(op.Value) {
			return fmt.Errorf("%w: %s", ErrInvalidValue, op.Key)
		}
	}
	return nil
}
