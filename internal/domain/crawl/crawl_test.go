package crawl

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIntervalDuration(t *testing.T) {
	cases := []struct {
		interval Interval
		want     time.Duration
	}{
		{IntervalDaily, 24 * time.Hour},
		{IntervalWeekly, 7 * 24 * time.Hour},
		{IntervalMonthly, 30 * 24 * time.Hour},
		{"", 24 * time.Hour},
		{"hourly", 24 * time.Hour},
	}
	for _, tc := range cases {
		if got := tc.interval.Duration(); got != tc.want {
			t.Errorf("Interval(%q).Duration() = %v, want %v", tc.interval, got, tc.want)
		}
	}
}

func TestStatusIsValid(t *testing.T) {
	valid := []Status{StatusPending, StatusScraping, StatusCompleted, StatusFailed, StatusCancelled}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("Status(%q).IsValid() = false", s)
		}
	}
	if Status("done").IsValid() {
		t.Error(`Status("done").IsValid() = true`)
	}
	if Status("").IsValid() {
		t.Error(`Status("").IsValid() = true`)
	}
}

func TestOptionsValidate(t *testing.T) {
	ok := Options{SiteURL: "https://docs.example.com", Interval: IntervalWeekly, PageLimit: 100}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cases := []Options{
		{},
		{SiteURL: "not a url"},
		{SiteURL: "/relative/path"},
		{SiteURL: "example.com"},
		{SiteURL: "https://example.com", Interval: "hourly"},
		{SiteURL: "https://example.com", PageLimit: -1},
	}
	for _, opts := range cases {
		if err := opts.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", opts)
		}
	}
}

func TestOptionsMerge(t *testing.T) {
	prev := Options{
		SiteURL:      "https://old.example.com",
		Interval:     IntervalDaily,
		IncludePaths: []string{"/docs/*"},
		PageLimit:    50,
	}

	got := Options{Interval: IntervalMonthly}.Merge(prev)
	if got.SiteURL != prev.SiteURL {
		t.Errorf("SiteURL = %q, want %q", got.SiteURL, prev.SiteURL)
	}
	if got.Interval != IntervalMonthly {
		t.Errorf("Interval = %q, want monthly", got.Interval)
	}
	if got.PageLimit != 50 {
		t.Errorf("PageLimit = %d, want 50", got.PageLimit)
	}

	got = Options{SiteURL: "https://new.example.com", ExcludePaths: []string{"/blog/*"}}.Merge(prev)
	if got.SiteURL != "https://new.example.com" {
		t.Errorf("SiteURL = %q, want new url", got.SiteURL)
	}
	if len(got.IncludePaths) != 1 {
		t.Errorf("IncludePaths = %v, want kept from prev", got.IncludePaths)
	}
	if len(got.ExcludePaths) != 1 {
		t.Errorf("ExcludePaths = %v, want [/blog/*]", got.ExcludePaths)
	}
}

func TestNewRequest(t *testing.T) {
	datasetID := uuid.New()
	before := time.Now().UTC()

	req, err := NewRequest(datasetID, Options{SiteURL: "https://example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.ID == uuid.Nil || req.ScrapeID == uuid.Nil {
		t.Error("ids must be generated")
	}
	if req.DatasetID != datasetID {
		t.Errorf("DatasetID = %v, want %v", req.DatasetID, datasetID)
	}
	if req.Status != StatusPending {
		t.Errorf("Status = %q, want pending", req.Status)
	}
	if req.Options.Interval != IntervalDaily {
		t.Errorf("Interval = %q, want default daily", req.Options.Interval)
	}
	if req.NextCrawlAt.Before(before) {
		t.Errorf("NextCrawlAt = %v, want >= %v", req.NextCrawlAt, before)
	}
	if !req.Due(time.Now().UTC().Add(time.Second)) {
		t.Error("new request must be due immediately")
	}
}

func TestNewRequest_Invalid(t *testing.T) {
	if _, err := NewRequest(uuid.Nil, Options{SiteURL: "https://example.com"}); err == nil {
		t.Error("expected error for nil dataset id")
	}
	if _, err := NewRequest(uuid.New(), Options{}); err == nil {
		t.Error("expected error for missing site url")
	}
}

func TestRequestAdvance(t *testing.T) {
	req, err := NewRequest(uuid.New(), Options{SiteURL: "https://example.com", Interval: IntervalWeekly})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req.Status = StatusCompleted

	now := time.Now().UTC()
	advanced := req.Advance(now)

	want := now.Add(7 * 24 * time.Hour)
	if !advanced.NextCrawlAt.Equal(want) {
		t.Errorf("NextCrawlAt = %v, want %v", advanced.NextCrawlAt, want)
	}
	if advanced.AttemptNumber != req.AttemptNumber+1 {
		t.Errorf("AttemptNumber = %d, want %d", advanced.AttemptNumber, req.AttemptNumber+1)
	}
	if advanced.Status != StatusPending {
		t.Errorf("Status = %q, want pending", advanced.Status)
	}
	if advanced.Due(now) {
		t.Error("advanced request must not be due yet")
	}
}
