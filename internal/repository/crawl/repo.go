package crawl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thecaralice/trieve/internal/db"
	"github.com/thecaralice/trieve/internal/domain"
	domcrawl "github.com/thecaralice/trieve/internal/domain/crawl"
)

// store is the consumer interface for crawl requests (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	LPush(ctx context.Context, key string, values ...[]byte) error
}

const (
	keyPrefix = "trieve:crawl:"
	// QueueKey is the list workers consume crawl jobs from.
	QueueKey = "scrape_queue"
)

func crawlKey(datasetID string) string {
	return keyPrefix + datasetID
}

// Repo implements usecase/crawl.Repository. One crawl request per
// dataset; queueing pushes the serialized request onto the scrape queue.
type Repo struct {
	store store
}

// New creates a crawl request repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save persists the crawl request under its dataset key.
func (r *Repo) Save(ctx context.Context, req domcrawl.Request) error {
	data, err := marshalRequest(req)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, crawlKey(req.DatasetID.String()), data); err != nil {
		return fmt.Errorf("set crawl request %s: %w", req.DatasetID, err)
	}
	return nil
}

// GetByDataset retrieves the crawl request for a dataset.
func (r *Repo) GetByDataset(ctx context.Context, datasetID uuid.UUID) (domcrawl.Request, error) {
	data, err := r.store.Get(ctx, crawlKey(datasetID.String()))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcrawl.Request{}, domain.ErrCrawlNotFound
		}
		return domcrawl.Request{}, fmt.Errorf("get crawl request %s: %w", datasetID, err)
	}
	return unmarshalRequest(data)
}

// Delete removes the crawl request for a dataset.
func (r *Repo) Delete(ctx context.Context, datasetID uuid.UUID) error {
	if err := r.store.Del(ctx, crawlKey(datasetID.String())); err != nil {
		return fmt.Errorf("del crawl request %s: %w", datasetID, err)
	}
	return nil
}

// Enqueue pushes the serialized request onto the scrape queue.
func (r *Repo) Enqueue(ctx context.Context, req domcrawl.Request) error {
	data, err := marshalRequest(req)
	if err != nil {
		return err
	}
	if err := r.store.LPush(ctx, QueueKey, data); err != nil {
		return fmt.Errorf("lpush scrape queue: %w", err)
	}
	return nil
}

// ListDue returns all crawl requests with next_crawl_at <= now.
func (r *Repo) ListDue(ctx context.Context, now time.Time) ([]domcrawl.Request, error) {
	keys, err := r.store.Scan(ctx, keyPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan crawl requests: %w", err)
	}

	due := make([]domcrawl.Request, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				continue // deleted between scan and get
			}
			return nil, fmt.Errorf("get crawl request %s: %w", key, err)
		}
		req, err := unmarshalRequest(data)
		if err != nil {
			return nil, fmt.Errorf("parse crawl request %s: %w", key, err)
		}
		if req.Due(now) {
			due = append(due, req)
		}
	}
	return due, nil
}
