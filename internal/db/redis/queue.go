package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/thecaralice/trieve/internal/db"
)

// LPush prepends values to a list-backed queue.
func (s *Store) LPush(ctx context.Context, key string, values ...[]byte) error {
	if len(values) == 0 {
		return nil
	}
	elems := make([]string, len(values))
	for i, v := range values {
		elems[i] = string(v)
	}
	cmd := s.b().Lpush().Key(key).Element(elems...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpLPush, Err: err}
	}
	return nil
}

// RPop removes and returns the oldest queue entry.
// Returns db.ErrQueueEmpty when the list has no entries.
func (s *Store) RPop(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Rpop().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrQueueEmpty
		}
		return nil, &db.Error{Op: db.OpRPop, Err: err}
	}
	return data, nil
}

// LLen returns the queue depth.
func (s *Store) LLen(ctx context.Context, key string) (int64, error) {
	cmd := s.b().Llen().Key(key).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpLLen, Err: err}
	}
	return n, nil
}
