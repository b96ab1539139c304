package crawl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thecaralice/trieve/internal/domain"
	domcrawl "github.com/thecaralice/trieve/internal/domain/crawl"
	"github.com/thecaralice/trieve/internal/metrics"
)

// Service schedules and tracks site crawls for datasets.
type Service struct {
	repo     Repository
	datasets DatasetGetter
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a crawl service.
func New(repo Repository, datasets DatasetGetter, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		datasets: datasets,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Schedule creates or updates the crawl request for a dataset and
// pushes it onto the scrape queue. Updating merges the new options
// onto the stored ones.
func (s *Service) Schedule(ctx context.Context, datasetID uuid.UUID, opts domcrawl.Options) (domcrawl.Request, error) {
	if _, err := s.datasets.Get(ctx, datasetID); err != nil {
		return domcrawl.Request{}, fmt.Errorf("get dataset: %w", err)
	}

	prev, err := s.repo.GetByDataset(ctx, datasetID)
	switch {
	case err == nil:
		merged := opts.Merge(prev.Options)
		if err := merged.Validate(); err != nil {
			return domcrawl.Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidCrawlOptions, err)
		}
		prev.Options = merged
		prev.URL = merged.SiteURL
		prev.Status = domcrawl.StatusPending
		return s.persistAndEnqueue(ctx, prev)

	case errors.Is(err, domain.ErrCrawlNotFound):
		req, err := domcrawl.NewRequest(datasetID, opts)
		if err != nil {
			return domcrawl.Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidCrawlOptions, err)
		}
		return s.persistAndEnqueue(ctx, req)

	default:
		return domcrawl.Request{}, fmt.Errorf("get crawl request: %w", err)
	}
}

func (s *Service) persistAndEnqueue(ctx context.Context, req domcrawl.Request) (domcrawl.Request, error) {
	if err := s.repo.Save(ctx, req); err != nil {
		return domcrawl.Request{}, fmt.Errorf("save crawl request: %w", err)
	}
	if err := s.repo.Enqueue(ctx, req); err != nil {
		return domcrawl.Request{}, fmt.Errorf("enqueue crawl request: %w", err)
	}
	metrics.CrawlQueuedTotal.Inc()

	s.logger.Info("crawl scheduled",
		zap.String("dataset_id", req.DatasetID.String()),
		zap.String("url", req.URL),
		zap.String("interval", string(req.Options.Interval)),
		zap.Time("next_crawl_at", req.NextCrawlAt),
	)
	return req, nil
}

// Get returns the crawl request for a dataset.
func (s *Service) Get(ctx context.Context, datasetID uuid.UUID) (domcrawl.Request, error) {
	req, err := s.repo.GetByDataset(ctx, datasetID)
	if err != nil {
		return domcrawl.Request{}, fmt.Errorf("get crawl request: %w", err)
	}
	return req, nil
}

// UpdateStatus records a status transition reported by a worker.
func (s *Service) UpdateStatus(ctx context.Context, datasetID uuid.UUID, status domcrawl.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidCrawlOptions, status)
	}
	req, err := s.repo.GetByDataset(ctx, datasetID)
	if err != nil {
		return fmt.Errorf("get crawl request: %w", err)
	}
	req.Status = status
	if err := s.repo.Save(ctx, req); err != nil {
		return fmt.Errorf("save crawl request: %w", err)
	}
	return nil
}

// RequeueDue re-queues every crawl request whose next crawl time has
// passed and advances it by one interval. Requests whose dataset no
// longer exists are dropped. Returns the number requeued.
func (s *Service) RequeueDue(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.repo.ListDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due crawl requests: %w", err)
	}

	requeued := 0
	for _, req := range due {
		if _, err := s.datasets.Get(ctx, req.DatasetID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				if derr := s.repo.Delete(ctx, req.DatasetID); derr != nil {
					s.logger.Error("failed to drop crawl request for deleted dataset",
						zap.String("dataset_id", req.DatasetID.String()), zap.Error(derr))
				} else {
					s.logger.Info("dropped crawl request for deleted dataset",
						zap.String("dataset_id", req.DatasetID.String()))
				}
			} else {
				s.logger.Error("failed to check dataset for crawl request",
					zap.String("dataset_id", req.DatasetID.String()), zap.Error(err))
			}
			continue
		}

		advanced := req.Advance(now)
		if err := s.repo.Save(ctx, advanced); err != nil {
			s.logger.Error("failed to advance crawl request",
				zap.String("dataset_id", req.DatasetID.String()), zap.Error(err))
			continue
		}
		if err := s.repo.Enqueue(ctx, advanced); err != nil {
			s.logger.Error("failed to enqueue crawl request",
				zap.String("dataset_id", req.DatasetID.String()), zap.Error(err))
			continue
		}
		metrics.CrawlQueuedTotal.Inc()
		requeued++
	}

	if requeued > 0 {
		s.logger.Info("requeued due crawl requests", zap.Int("count", requeued))
	}
	return requeued, nil
}
