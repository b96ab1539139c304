package crawl

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	domcrawl "github.com/thecaralice/trieve/internal/domain/crawl"
)

// requestRow is the JSON-serializable crawl request. The same shape is
// stored under the crawl key and pushed onto the scrape queue, so
// workers deserialize exactly what the repository wrote.
type requestRow struct {
	ID            string   `json:"id"`
	DatasetID     string   `json:"dataset_id"`
	ScrapeID      string   `json:"scrape_id"`
	URL           string   `json:"url"`
	Status        string   `json:"status"`
	Interval      string   `json:"interval"`
	IncludePaths  []string `json:"include_paths,omitempty"`
	ExcludePaths  []string `json:"exclude_paths,omitempty"`
	PageLimit     int      `json:"page_limit,omitempty"`
	NextCrawlAt   int64    `json:"next_crawl_at"`
	AttemptNumber int      `json:"attempt_number"`
	CreatedAt     int64    `json:"created_at"`
}

func rowFromRequest(req domcrawl.Request) requestRow {
	return requestRow{
		ID:            req.ID.String(),
		DatasetID:     req.DatasetID.String(),
		ScrapeID:      req.ScrapeID.String(),
		URL:           req.URL,
		Status:        string(req.Status),
		Interval:      string(req.Options.Interval),
		IncludePaths:  req.Options.IncludePaths,
		ExcludePaths:  req.Options.ExcludePaths,
		PageLimit:     req.Options.PageLimit,
		NextCrawlAt:   req.NextCrawlAt.UnixMilli(),
		AttemptNumber: req.AttemptNumber,
		CreatedAt:     req.CreatedAt.UnixMilli(),
	}
}

func requestFromRow(row requestRow) (domcrawl.Request, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domcrawl.Request{}, fmt.Errorf("invalid crawl id: %w", err)
	}
	datasetID, err := uuid.Parse(row.DatasetID)
	if err != nil {
		return domcrawl.Request{}, fmt.Errorf("invalid dataset id: %w", err)
	}
	scrapeID, err := uuid.Parse(row.ScrapeID)
	if err != nil {
		return domcrawl.Request{}, fmt.Errorf("invalid scrape id: %w", err)
	}

	return domcrawl.Request{
		ID:        id,
		DatasetID: datasetID,
		ScrapeID:  scrapeID,
		URL:       row.URL,
		Status:    domcrawl.Status(row.Status),
		Options: domcrawl.Options{
			SiteURL:      row.URL,
			Interval:     domcrawl.Interval(row.Interval),
			IncludePaths: row.IncludePaths,
			ExcludePaths: row.ExcludePaths,
			PageLimit:    row.PageLimit,
		},
		NextCrawlAt:   time.UnixMilli(row.NextCrawlAt).UTC(),
		AttemptNumber: row.AttemptNumber,
		CreatedAt:     time.UnixMilli(row.CreatedAt).UTC(),
	}, nil
}

func marshalRequest(req domcrawl.Request) ([]byte, error) {
	data, err := json.Marshal(rowFromRequest(req))
	if err != nil {
		return nil, fmt.Errorf("marshal crawl request: %w", err)
	}
	return data, nil
}

func unmarshalRequest(data []byte) (domcrawl.Request, error) {
	var row requestRow
	if err := json.Unmarshal(data, &row); err != nil {
		return domcrawl.Request{}, fmt.Errorf("unmarshal crawl request: %w", err)
	}
	return requestFromRow(row)
}
