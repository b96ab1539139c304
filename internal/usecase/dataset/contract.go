package dataset

import (
	"context"

	"github.com/google/uuid"

	domds "github.com/thecaralice/trieve/internal/domain/dataset"
)

// Repository defines the storage contract for datasets.
type Repository interface {
	Create(ctx context.Context, ds domds.Dataset) error
	Get(ctx context.Context, id uuid.UUID) (domds.Dataset, error)
	List(ctx context.Context) ([]domds.Dataset, error)
	Save(ctx context.Context, ds domds.Dataset) error
	Delete(ctx context.Context, id uuid.UUID) error
}
