package history

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/querybar/internal/domain/session"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn        func(ctx context.Context, key string) ([]byte, error)
	setFn        func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	delFn        func(ctx context.Context, key string) error
	pushCappedFn func(ctx context.Context, key string, value []byte, maxLen int, ttl time.Duration) error
	popFn        func(ctx context.Context, key string) ([]byte, error)
	rangeFn      func(ctx context.Context, key string, limit int) ([][]byte, error)
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) PushCapped(ctx context.Context, key string, value []byte, maxLen int, ttl time.Duration) error {
	if m.pushCappedFn != nil {
		return m.pushCappedFn(ctx, key, value, maxLen, ttl)
	}
	return nil
}

func (m *mockStore) Pop(ctx context.Context, key string) ([]byte, error) {
	if m.popFn != nil {
		return m.popFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) Range(ctx context.Context, key string, limit int) ([][]byte, error) {
	if m.rangeFn != nil {
		return m.rangeFn(ctx, key, limit)
	}
	return [][]byte{}, nil
}

func mustID(t *testing.T, value string) session.ID {
	t.Helper()
	id, err := session.NewID(value)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return id
}
