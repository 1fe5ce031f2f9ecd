package db

import (
	"context"
	"time"
)

// Store is the database facade used by the query service.
type Store interface {
	Pinger
	KVStore
	ListStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// ListStore provides capped list operations, newest element first.
type ListStore interface {
	// PushCapped prepends value, keeps at most maxLen elements and refreshes the TTL.
	PushCapped(ctx context.Context, key string, value []byte, maxLen int, ttl time.Duration) error
	// Pop removes and returns the newest element. ErrKeyNotFound when the list is empty.
	Pop(ctx context.Context, key string) ([]byte, error)
	// Range returns up to limit elements, newest first.
	Range(ctx context.Context, key string, limit int) ([][]byte, error)
}
