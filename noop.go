package cache

import (
	"context"
	"time"
)

// NoOp is a ReadWriter stub.
type NoOp[T any] struct{}

var _ ReadWriter[int] = NoOp[int]{}

// Get does not find anything.
func (NoOp[T]) Get(ctx context.Context, key string) ([]T, error) {
	return nil, ErrNotFound
}

// Put discards values.
func (NoOp[T]) Put(ctx context.Context, key string, values []T) error {
	return nil
}

// PutWithTTL discards values.
func (NoOp[T]) PutWithTTL(ctx context.Context, key string, values []T, ttl time.Duration) error {
	return nil
}
