package chi

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/thecaralice/trieve/internal/domain"
	domcrawl "github.com/thecaralice/trieve/internal/domain/crawl"
	domds "github.com/thecaralice/trieve/internal/domain/dataset"
)

// fakeDatasetRepo is an in-memory dataset repository for handler tests.
type fakeDatasetRepo struct {
	mu       sync.Mutex
	datasets map[uuid.UUID]domds.Dataset
}

func newFakeDatasetRepo() *fakeDatasetRepo {
	return &fakeDatasetRepo{datasets: make(map[uuid.UUID]domds.Dataset)}
}

func (f *fakeDatasetRepo) Create(_ context.Context, ds domds.Dataset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.datasets[ds.ID()]; ok {
		return domain.ErrAlreadyExists
	}
	f.datasets[ds.ID()] = ds
	return nil
}

func (f *fakeDatasetRepo) Get(_ context.Context, id uuid.UUID) (domds.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ds, ok := f.datasets[id]
	if !ok {
		return domds.Dataset{}, domain.ErrNotFound
	}
	return ds, nil
}

func (f *fakeDatasetRepo) List(_ context.Context) ([]domds.Dataset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domds.Dataset, 0, len(f.datasets))
	for _, ds := range f.datasets {
		out = append(out, ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt() < out[j].CreatedAt() })
	return out, nil
}

func (f *fakeDatasetRepo) Save(_ context.Context, ds domds.Dataset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.datasets[ds.ID()]; !ok {
		return domain.ErrNotFound
	}
	f.datasets[ds.ID()] = ds
	return nil
}

func (f *fakeDatasetRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.datasets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.datasets, id)
	return nil
}

// fakeCrawlRepo is an in-memory crawl repository for handler tests.
type fakeCrawlRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]domcrawl.Request
	queued   []domcrawl.Request
}

func newFakeCrawlRepo() *fakeCrawlRepo {
	return &fakeCrawlRepo{requests: make(map[uuid.UUID]domcrawl.Request)}
}

func (f *fakeCrawlRepo) Save(_ context.Context, req domcrawl.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[req.DatasetID] = req
	return nil
}

func (f *fakeCrawlRepo) GetByDataset(_ context.Context, datasetID uuid.UUID) (domcrawl.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[datasetID]
	if !ok {
		return domcrawl.Request{}, domain.ErrCrawlNotFound
	}
	return req, nil
}

func (f *fakeCrawlRepo) Delete(_ context.Context, datasetID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.requests, datasetID)
	return nil
}

func (f *fakeCrawlRepo) Enqueue(_ context.Context, req domcrawl.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, req)
	return nil
}

func (f *fakeCrawlRepo) ListDue(_ context.Context, now time.Time) ([]domcrawl.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []domcrawl.Request
	for _, req := range f.requests {
		if req.Due(now) {
			due = append(due, req)
		}
	}
	return due, nil
}

// stubEmbedder returns a fixed vector.
type stubEmbedder struct {
	result domain.EmbeddingResult
	err    error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return s.result, s.err
}

// stubPinger implements health.DBPinger.
type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(_ context.Context) error { return s.err }
