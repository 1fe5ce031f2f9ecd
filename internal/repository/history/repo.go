package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/querybar/internal/db"
	"github.com/kailas-cloud/querybar/internal/domain"
	domhist "github.com/kailas-cloud/querybar/internal/domain/history"
	"github.com/kailas-cloud/querybar/internal/domain/session"
)

// store is the consumer interface for session history (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	PushCapped(ctx context.Context, key string, value []byte, maxLen int, ttl time.Duration) error
	Pop(ctx context.Context, key string) ([]byte, error)
	Range(ctx context.Context, key string, limit int) ([][]byte, error)
}

// Repo implements usecase/query.HistoryRepository.
type Repo struct {
	store    store
	maxDepth int
	ttl      time.Duration
}

// New creates a history repository keeping at most maxDepth entries per
// session. Keys expire after ttl of inactivity (0 disables expiry).
func New(s store, maxDepth int, ttl time.Duration) *Repo {
	if maxDepth <= 0 {
		maxDepth = 1
	}
	return &Repo{store: s, maxDepth: maxDepth, ttl: ttl}
}

// Push records an entry as the newest undo step.
func (r *Repo) Push(ctx context.Context, id session.ID, e domhist.Entry) error {
	data, err := json.Marshal(entryToDTO(e))
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	key := historyKey(id)
	if err := r.store.PushCapped(ctx, key, data, r.maxDepth, r.ttl); err != nil {
		return fmt.Errorf("push %s: %w", key, err)
	}
	return nil
}

// Pop removes and returns the newest entry.
func (r *Repo) Pop(ctx context.Context, id session.ID) (domhist.Entry, error) {
	key := historyKey(id)
	data, err := r.store.Pop(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domhist.Entry{}, domain.ErrHistoryEmpty
		}
		return domhist.Entry{}, fmt.Errorf("pop %s: %w", key, err)
	}
	return decodeEntry(data)
}

// List returns up to limit entries, newest first.
func (r *Repo) List(ctx context.Context, id session.ID, limit int) ([]domhist.Entry, error) {
	key := historyKey(id)
	items, err := r.store.Range(ctx, key, limit)
	if err != nil {
		return nil, fmt.Errorf("range %s: %w", key, err)
	}
	out := make([]domhist.Entry, 0, len(items))
	for _, item := range items {
		e, err := decodeEntry(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// SaveCurrent stores the session's current canonical query.
func (r *Repo) SaveCurrent(ctx context.Context, id session.ID, query string) error {
	key := currentKey(id)
	if err := r.store.SetWithTTL(ctx, key, []byte(query), r.ttl); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Current returns the session's current canonical query. found is false when
// nothing was saved yet.
func (r *Repo) Current(ctx context.Context, id session.ID) (query string, found bool, err error) {
	key := currentKey(id)
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return string(data), true, nil
}

// Clear drops the session's history and current query.
func (r *Repo) Clear(ctx context.Context, id session.ID) error {
	for _, key := range []string{historyKey(id), currentKey(id)} {
		if err := r.store.Del(ctx, key); err != nil {
			return fmt.Errorf("del %s: %w", key, err)
		}
	}
	return nil
}

func historyKey(id session.ID) string {
	return domain.KeyPrefix + "history:" + id.String()
}

func currentKey(id session.ID) string {
	return domain.KeyPrefix + "current:" + id.String()
}
