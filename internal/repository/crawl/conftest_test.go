package crawl

import (
	"context"

	"github.com/thecaralice/trieve/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn   func(ctx context.Context, key string) ([]byte, error)
	setFn   func(ctx context.Context, key string, value []byte) error
	delFn   func(ctx context.Context, key string) error
	scanFn  func(ctx context.Context, pattern string) ([]string, error)
	lpushFn func(ctx context.Context, key string, values ...[]byte) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) LPush(ctx context.Context, key string, values ...[]byte) error {
	if m.lpushFn != nil {
		return m.lpushFn(ctx, key, values...)
	}
	return nil
}
