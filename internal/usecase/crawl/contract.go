package crawl

import (
	"context"
	"time"

	"github.com/google/uuid"

	domcrawl "github.com/thecaralice/trieve/internal/domain/crawl"
	domds "github.com/thecaralice/trieve/internal/domain/dataset"
)

// Repository defines the storage contract for crawl requests.
type Repository interface {
	Save(ctx context.Context, req domcrawl.Request) error
	GetByDataset(ctx context.Context, datasetID uuid.UUID) (domcrawl.Request, error)
	Delete(ctx context.Context, datasetID uuid.UUID) error
	Enqueue(ctx context.Context, req domcrawl.Request) error
	ListDue(ctx context.Context, now time.Time) ([]domcrawl.Request, error)
}

// DatasetGetter checks that the crawl target dataset exists.
type DatasetGetter interface {
	Get(ctx context.Context, id uuid.UUID) (domds.Dataset, error)
}
