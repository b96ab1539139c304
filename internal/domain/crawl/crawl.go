package crawl

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a crawl request.
type Status string

const (
	// StatusPending means the request is queued but not picked up yet.
	StatusPending Status = "pending"
	// StatusScraping means a worker is crawling the site.
	StatusScraping Status = "scraping"
	// StatusCompleted means the crawl finished successfully.
	StatusCompleted Status = "completed"
	// StatusFailed means the crawl finished with an error.
	StatusFailed Status = "failed"
	// StatusCancelled means the crawl was cancelled.
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is a known lifecycle state.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusScraping, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Interval is how often a site is re-crawled.
type Interval string

const (
	// IntervalDaily re-crawls every 24 hours.
	IntervalDaily Interval = "daily"
	// IntervalWeekly re-crawls every 7 days.
	IntervalWeekly Interval = "weekly"
	// IntervalMonthly re-crawls every 30 days.
	IntervalMonthly Interval = "monthly"
)

// Duration converts the interval to a time.Duration.
// An unknown or empty interval falls back to daily.
func (i Interval) Duration() time.Duration {
	switch i {
	case IntervalWeekly:
		return 7 * 24 * time.Hour
	case IntervalMonthly:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Options configures how a dataset's site is crawled.
// Nil/zero fields keep the previously stored value when updating.
type Options struct {
	SiteURL      string
	Interval     Interval
	IncludePaths []string
	ExcludePaths []string
	PageLimit    int
}

// Validate checks the options for a new crawl request.
func (o Options) Validate() error {
	if o.SiteURL == "" {
		return fmt.Errorf("site url is required")
	}
	u, err := url.Parse(o.SiteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("site url must be absolute: %q", o.SiteURL)
	}
	if o.Interval != "" && o.Interval != IntervalDaily && o.Interval != IntervalWeekly && o.Interval != IntervalMonthly {
		return fmt.Errorf("unknown interval: %q", o.Interval)
	}
	if o.PageLimit < 0 {
		return fmt.Errorf("page limit must not be negative")
	}
	return nil
}

// Merge overlays o on top of prev: zero-valued fields keep prev's value.
func (o Options) Merge(prev Options) Options {
	out := prev
	if o.SiteURL != "" {
		out.SiteURL = o.SiteURL
	}
	if o.Interval != "" {
		out.Interval = o.Interval
	}
	if o.IncludePaths != nil {
		out.IncludePaths = o.IncludePaths
	}
	if o.ExcludePaths != nil {
		out.ExcludePaths = o.ExcludePaths
	}
	if o.PageLimit > 0 {
		out.PageLimit = o.PageLimit
	}
	return out
}

// Request is a scheduled crawl of a dataset's site.
type Request struct {
	ID            uuid.UUID
	DatasetID     uuid.UUID
	ScrapeID      uuid.UUID
	URL           string
	Status        Status
	Options       Options
	NextCrawlAt   time.Time
	AttemptNumber int
	CreatedAt     time.Time
}

// NewRequest validates options and creates a pending crawl request
// due immediately.
func NewRequest(datasetID uuid.UUID, opts Options) (Request, error) {
	if datasetID == uuid.Nil {
		return Request{}, fmt.Errorf("dataset id is required")
	}
	if err := opts.Validate(); err != nil {
		return Request{}, err
	}
	if opts.Interval == "" {
		opts.Interval = IntervalDaily
	}
	now := time.Now().UTC()
	return Request{
		ID:          uuid.New(),
		DatasetID:   datasetID,
		ScrapeID:    uuid.New(),
		URL:         opts.SiteURL,
		Status:      StatusPending,
		Options:     opts,
		NextCrawlAt: now,
		CreatedAt:   now,
	}, nil
}

// Due reports whether the request should be re-queued at the given time.
func (r Request) Due(now time.Time) bool {
	return !r.NextCrawlAt.After(now)
}

// Advance returns the request rescheduled one interval into the future
// with the attempt counter bumped.
func (r Request) Advance(now time.Time) Request {
	r.NextCrawlAt = now.Add(r.Options.Interval.Duration())
	r.AttemptNumber++
	r.Status = StatusPending
	return r
}
