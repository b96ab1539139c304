package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidDataset signals an invalid dataset definition.
	ErrInvalidDataset = errors.New("invalid dataset")
	// ErrConfigLocked signals an update attempt on a locked configuration.
	ErrConfigLocked = errors.New("configuration locked")
	// ErrCrawlNotFound signals that a dataset has no crawl request.
	ErrCrawlNotFound = errors.New("crawl request not found")
	// ErrInvalidCrawlOptions signals invalid crawl options.
	ErrInvalidCrawlOptions = errors.New("invalid crawl options")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
