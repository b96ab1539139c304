package dataset

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/thecaralice/trieve/internal/domain"
	domds "github.com/thecaralice/trieve/internal/domain/dataset"
)

// Service handles dataset CRUD and configuration updates.
type Service struct {
	repo     Repository
	defaults domds.ServerConfiguration
}

// New creates a dataset service. defaults seed the configuration of
// new datasets.
func New(repo Repository, defaults domds.ServerConfiguration) *Service {
	return &Service{repo: repo, defaults: defaults}
}

// Defaults returns the process-wide default server configuration.
func (s *Service) Defaults() domds.ServerConfiguration {
	return s.defaults
}

// Create validates and stores a new dataset. The configuration starts
// from the defaults with the optional override applied on top.
func (s *Service) Create(
	ctx context.Context,
	name string,
	organizationID uuid.UUID,
	trackingID string,
	override *domds.ConfigurationOverride,
) (domds.Dataset, error) {
	cfg := s.defaults
	if override != nil {
		cfg = override.Apply(cfg)
	}

	ds, err := domds.New(name, organizationID, trackingID, cfg)
	if err != nil {
		return domds.Dataset{}, fmt.Errorf("validate dataset: %w: %w", domain.ErrInvalidDataset, err)
	}

	if err := s.repo.Create(ctx, ds); err != nil {
		return domds.Dataset{}, fmt.Errorf("create dataset: %w", err)
	}

	return ds, nil
}

// Get retrieves a dataset by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (domds.Dataset, error) {
	ds, err := s.repo.Get(ctx, id)
	if err != nil {
		return domds.Dataset{}, fmt.Errorf("get dataset: %w", err)
	}
	return ds, nil
}

// List returns all datasets.
func (s *Service) List(ctx context.Context) ([]domds.Dataset, error) {
	datasets, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return datasets, nil
}

// UpdateConfiguration merges the override onto the dataset's current
// configuration. A locked configuration rejects every update except an
// override that only unlocks it.
func (s *Service) UpdateConfiguration(
	ctx context.Context,
	id uuid.UUID,
	override domds.ConfigurationOverride,
) (domds.Dataset, error) {
	ds, err := s.repo.Get(ctx, id)
	if err != nil {
		return domds.Dataset{}, fmt.Errorf("get dataset: %w", err)
	}

	if ds.Configuration().Locked && !override.UnlocksOnly() {
		return domds.Dataset{}, domain.ErrConfigLocked
	}

	updated := ds.WithConfiguration(override.Apply(ds.Configuration()))
	if err := s.repo.Save(ctx, updated); err != nil {
		return domds.Dataset{}, fmt.Errorf("save dataset: %w", err)
	}

	return updated, nil
}

// Delete removes a dataset.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	return nil
}
