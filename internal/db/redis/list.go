package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/querybar/internal/db"
)

// PushCapped prepends value, trims the list to maxLen and refreshes its TTL
// in a single DoMulti round-trip. ttl <= 0 leaves the key without expiry.
func (s *Store) PushCapped(
	ctx context.Context, key string, value []byte, maxLen int, ttl time.Duration,
) error {
	if maxLen <= 0 {
		return fmt.Errorf("maxLen must be positive")
	}

	cmds := rueidis.Commands{
		s.b().Lpush().Key(key).Element(string(value)).Build(),
		s.b().Ltrim().Key(key).Start(0).Stop(int64(maxLen - 1)).Build(),
	}
	ops := []string{db.OpLPush, db.OpLTrim}
	if ttl > 0 {
		cmds = append(cmds, s.b().Expire().Key(key).Seconds(int64(ttl.Seconds())).Build())
		ops = append(ops, db.OpExpire)
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: ops[i], Err: err}
		}
	}
	return nil
}

// Pop removes and returns the newest element.
func (s *Store) Pop(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Lpop().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpLPop, Err: err}
	}
	return data, nil
}

// Range returns up to limit elements, newest first. A missing key yields an
// empty slice.
func (s *Store) Range(ctx context.Context, key string, limit int) ([][]byte, error) {
	if limit <= 0 {
		return [][]byte{}, nil
	}

	cmd := s.b().Lrange().Key(key).Start(0).Stop(int64(limit - 1)).Build()
	items, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpLRange, Err: err}
	}

	out := make([][]byte, len(items))
	for i, item := range items {
		out[i] = []byte(item)
	}
	return out, nil
}
