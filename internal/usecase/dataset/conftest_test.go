package dataset

import (
	"context"

	"github.com/google/uuid"

	domds "github.com/thecaralice/trieve/internal/domain/dataset"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	createFn func(ctx context.Context, ds domds.Dataset) error
	getFn    func(ctx context.Context, id uuid.UUID) (domds.Dataset, error)
	listFn   func(ctx context.Context) ([]domds.Dataset, error)
	saveFn   func(ctx context.Context, ds domds.Dataset) error
	deleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *mockRepo) Create(ctx context.Context, ds domds.Dataset) error {
	if m.createFn != nil {
		return m.createFn(ctx, ds)
	}
	return nil
}

func (m *mockRepo) Get(ctx context.Context, id uuid.UUID) (domds.Dataset, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domds.Dataset{}, nil
}

func (m *mockRepo) List(ctx context.Context) ([]domds.Dataset, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockRepo) Save(ctx context.Context, ds domds.Dataset) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, ds)
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}
