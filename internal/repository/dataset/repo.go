package dataset

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/thecaralice/trieve/internal/domain"
	domds "github.com/thecaralice/trieve/internal/domain/dataset"
)

// store is the consumer interface for datasets (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

const keyPrefix = "trieve:dataset:"

func metaKey(id string) string {
	return keyPrefix + id
}

// Repo implements usecase/dataset.Repository.
type Repo struct {
	store    store
	defaults domds.ServerConfiguration
}

// New creates a dataset repository. defaults hydrate fields missing
// from stored records.
func New(s store, defaults domds.ServerConfiguration) *Repo {
	return &Repo{store: s, defaults: defaults}
}

// Create stores a new dataset hash.
func (r *Repo) Create(ctx context.Context, ds domds.Dataset) error {
	key := metaKey(ds.ID().String())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	hashData, err := datasetToHash(ds)
	if err != nil {
		return err
	}

	if err := r.store.HSet(ctx, key, hashData); err != nil {
		return fmt.Errorf("hset dataset %s: %w", ds.ID(), err)
	}
	return nil
}

// Get retrieves a dataset by id.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (domds.Dataset, error) {
	m, err := r.store.HGetAll(ctx, metaKey(id.String()))
	if err != nil {
		return domds.Dataset{}, fmt.Errorf("hgetall dataset %s: %w", id, err)
	}
	if len(m) == 0 {
		return domds.Dataset{}, domain.ErrNotFound
	}

	return datasetFromHash(m, r.defaults)
}

// List returns all datasets sorted by CreatedAt.
func (r *Repo) List(ctx context.Context) ([]domds.Dataset, error) {
	keys, err := r.store.Scan(ctx, metaKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan datasets: %w", err)
	}
	if len(keys) == 0 {
		return []domds.Dataset{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi datasets: %w", err)
	}

	datasets := make([]domds.Dataset, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		ds, err := datasetFromHash(m, r.defaults)
		if err != nil {
			return nil, fmt.Errorf("parse dataset %s: %w", keys[i], err)
		}
		datasets = append(datasets, ds)
	}

	sort.Slice(datasets, func(i, j int) bool {
		return datasets[i].CreatedAt() < datasets[j].CreatedAt()
	})

	return datasets, nil
}

// Save overwrites an existing dataset hash (configuration updates).
func (r *Repo) Save(ctx context.Context, ds domds.Dataset) error {
	key := metaKey(ds.ID().String())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	hashData, err := datasetToHash(ds)
	if err != nil {
		return err
	}

	if err := r.store.HSet(ctx, key, hashData); err != nil {
		return fmt.Errorf("hset dataset %s: %w", ds.ID(), err)
	}
	return nil
}

// Delete removes a dataset.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	key := metaKey(id.String())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del dataset %s: %w", id, err)
	}
	return nil
}
