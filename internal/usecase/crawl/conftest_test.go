package crawl

import (
	"context"
	"time"

	"github.com/google/uuid"

	domcrawl "github.com/thecaralice/trieve/internal/domain/crawl"
	domds "github.com/thecaralice/trieve/internal/domain/dataset"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	saveFn         func(ctx context.Context, req domcrawl.Request) error
	getByDatasetFn func(ctx context.Context, datasetID uuid.UUID) (domcrawl.Request, error)
	deleteFn       func(ctx context.Context, datasetID uuid.UUID) error
	enqueueFn      func(ctx context.Context, req domcrawl.Request) error
	listDueFn      func(ctx context.Context, now time.Time) ([]domcrawl.Request, error)
}

func (m *mockRepo) Save(ctx context.Context, req domcrawl.Request) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, req)
	}
	return nil
}

func (m *mockRepo) GetByDataset(ctx context.Context, datasetID uuid.UUID) (domcrawl.Request, error) {
	if m.getByDatasetFn != nil {
		return m.getByDatasetFn(ctx, datasetID)
	}
	return domcrawl.Request{}, nil
}

func (m *mockRepo) Delete(ctx context.Context, datasetID uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, datasetID)
	}
	return nil
}

func (m *mockRepo) Enqueue(ctx context.Context, req domcrawl.Request) error {
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, req)
	}
	return nil
}

func (m *mockRepo) ListDue(ctx context.Context, now time.Time) ([]domcrawl.Request, error) {
	if m.listDueFn != nil {
		return m.listDueFn(ctx, now)
	}
	return nil, nil
}

// mockDatasets implements DatasetGetter for tests.
type mockDatasets struct {
	getFn func(ctx context.Context, id uuid.UUID) (domds.Dataset, error)
}

func (m *mockDatasets) Get(ctx context.Context, id uuid.UUID) (domds.Dataset, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domds.Dataset{}, nil
}
