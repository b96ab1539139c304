package chi

import (
	domcrawl "github.com/thecaralice/trieve/internal/domain/crawl"
	domds "github.com/thecaralice/trieve/internal/domain/dataset"
)

// ErrorCode identifies an API error class.
type ErrorCode string

// API error codes.
const (
	CodeBadRequest           ErrorCode = "bad_request"
	CodeUnauthorized         ErrorCode = "unauthorized"
	CodeValidationFailed     ErrorCode = "validation_failed"
	CodeDatasetNotFound      ErrorCode = "dataset_not_found"
	CodeDatasetAlreadyExists ErrorCode = "dataset_already_exists"
	CodeConfigLocked         ErrorCode = "configuration_locked"
	CodeCrawlNotFound        ErrorCode = "crawl_not_found"
	CodeEmbeddingProviderErr ErrorCode = "embedding_provider_error"
	CodeInternalError        ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error payload.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ServerConfigurationJSON is the wire shape of a dataset's server
// configuration. Field names stay UPPER_SNAKE for compatibility with
// existing dashboards and SDKs. Pointer fields make the same struct
// usable as a partial update: absent keys mean "leave unchanged".
type ServerConfigurationJSON struct {
	LLMBaseURL      *string `json:"LLM_BASE_URL,omitempty"`
	LLMDefaultModel *string `json:"LLM_DEFAULT_MODEL,omitempty"`

	EmbeddingBaseURL     *string `json:"EMBEDDING_BASE_URL,omitempty"`
	EmbeddingModelName   *string `json:"EMBEDDING_MODEL_NAME,omitempty"`
	EmbeddingSize        *int    `json:"EMBEDDING_SIZE,omitempty"`
	EmbeddingQueryPrefix *string `json:"EMBEDDING_QUERY_PREFIX,omitempty"`

	MessageToQueryPrompt *string `json:"MESSAGE_TO_QUERY_PROMPT,omitempty"`
	RAGPrompt            *string `json:"RAG_PROMPT,omitempty"`
	SystemPrompt         *string `json:"SYSTEM_PROMPT,omitempty"`

	NRetrievalsToInclude *int `json:"N_RETRIEVALS_TO_INCLUDE,omitempty"`
	MaxLimit             *int `json:"MAX_LIMIT,omitempty"`

	FulltextEnabled         *bool `json:"FULLTEXT_ENABLED,omitempty"`
	SemanticEnabled         *bool `json:"SEMANTIC_ENABLED,omitempty"`
	UseMessageToQueryPrompt *bool `json:"USE_MESSAGE_TO_QUERY_PROMPT,omitempty"`
	IndexedOnly             *bool `json:"INDEXED_ONLY,omitempty"`
	Locked                  *bool `json:"LOCKED,omitempty"`

	FrequencyPenalty *float64 `json:"FREQUENCY_PENALTY,omitempty"`
	Temperature      *float64 `json:"TEMPERATURE,omitempty"`
	PresencePenalty  *float64 `json:"PRESENCE_PENALTY,omitempty"`
	StopTokens       []string `json:"STOP_TOKENS,omitempty"`
	MaxTokens        *int     `json:"MAX_TOKENS,omitempty"`

	BM25Enabled *bool    `json:"BM25_ENABLED,omitempty"`
	BM25B       *float64 `json:"BM25_B,omitempty"`
	BM25K       *float64 `json:"BM25_K,omitempty"`
	BM25AvgLen  *float64 `json:"BM25_AVG_LEN,omitempty"`
}

// ToOverride converts the wire shape into a domain override.
func (j ServerConfigurationJSON) ToOverride() domds.ConfigurationOverride {
	return domds.ConfigurationOverride{
		LLMBaseURL:      j.LLMBaseURL,
		LLMDefaultModel: j.LLMDefaultModel,

		EmbeddingBaseURL:     j.EmbeddingBaseURL,
		EmbeddingModelName:   j.EmbeddingModelName,
		EmbeddingSize:        j.EmbeddingSize,
		EmbeddingQueryPrefix: j.EmbeddingQueryPrefix,

		MessageToQueryPrompt: j.MessageToQueryPrompt,
		RAGPrompt:            j.RAGPrompt,
		SystemPrompt:         j.SystemPrompt,

		NRetrievalsToInclude: j.NRetrievalsToInclude,
		MaxLimit:             j.MaxLimit,

		FulltextEnabled:         j.FulltextEnabled,
		SemanticEnabled:         j.SemanticEnabled,
		UseMessageToQueryPrompt: j.UseMessageToQueryPrompt,
		IndexedOnly:             j.IndexedOnly,
		Locked:                  j.Locked,

		FrequencyPenalty: j.FrequencyPenalty,
		Temperature:      j.Temperature,
		PresencePenalty:  j.PresencePenalty,
		StopTokens:       j.StopTokens,
		MaxTokens:        j.MaxTokens,

		BM25Enabled: j.BM25Enabled,
		BM25B:       j.BM25B,
		BM25K:       j.BM25K,
		BM25AvgLen:  j.BM25AvgLen,
	}
}

// configToJSON converts a full domain configuration into the wire shape.
func configToJSON(cfg domds.ServerConfiguration) ServerConfigurationJSON {
	return ServerConfigurationJSON{
		LLMBaseURL:      &cfg.LLMBaseURL,
		LLMDefaultModel: &cfg.LLMDefaultModel,

		EmbeddingBaseURL:     &cfg.EmbeddingBaseURL,
		EmbeddingModelName:   &cfg.EmbeddingModelName,
		EmbeddingSize:        &cfg.EmbeddingSize,
		EmbeddingQueryPrefix: &cfg.EmbeddingQueryPrefix,

		MessageToQueryPrompt: &cfg.MessageToQueryPrompt,
		RAGPrompt:            &cfg.RAGPrompt,
		SystemPrompt:         cfg.SystemPrompt,

		NRetrievalsToInclude: &cfg.NRetrievalsToInclude,
		MaxLimit:             &cfg.MaxLimit,

		FulltextEnabled:         &cfg.FulltextEnabled,
		SemanticEnabled:         &cfg.SemanticEnabled,
		UseMessageToQueryPrompt: &cfg.UseMessageToQueryPrompt,
		IndexedOnly:             &cfg.IndexedOnly,
		Locked:                  &cfg.Locked,

		FrequencyPenalty: cfg.FrequencyPenalty,
		Temperature:      cfg.Temperature,
		PresencePenalty:  cfg.PresencePenalty,
		StopTokens:       cfg.StopTokens,
		MaxTokens:        cfg.MaxTokens,

		BM25Enabled: &cfg.BM25Enabled,
		BM25B:       &cfg.BM25B,
		BM25K:       &cfg.BM25K,
		BM25AvgLen:  &cfg.BM25AvgLen,
	}
}

// CreateDatasetRequest is the body of POST /api/dataset.
type CreateDatasetRequest struct {
	Name                string                   `json:"name"`
	OrganizationID      string                   `json:"organization_id"`
	TrackingID          string                   `json:"tracking_id,omitempty"`
	ServerConfiguration *ServerConfigurationJSON `json:"server_configuration,omitempty"`
}

// DatasetResponse is the JSON representation of a dataset.
type DatasetResponse struct {
	ID                  string                  `json:"id"`
	Name                string                  `json:"name"`
	OrganizationID      string                  `json:"organization_id"`
	TrackingID          string                  `json:"tracking_id,omitempty"`
	ServerConfiguration ServerConfigurationJSON `json:"server_configuration"`
	CreatedAt           int64                   `json:"created_at"`
}

func datasetToResponse(ds domds.Dataset) DatasetResponse {
	return DatasetResponse{
		ID:                  ds.ID().String(),
		Name:                ds.Name(),
		OrganizationID:      ds.OrganizationID().String(),
		TrackingID:          ds.TrackingID(),
		ServerConfiguration: configToJSON(ds.Configuration()),
		CreatedAt:           ds.CreatedAt(),
	}
}

// DatasetListResponse wraps the dataset listing.
type DatasetListResponse struct {
	Items []DatasetResponse `json:"items"`
	Total int               `json:"total"`
}

// ScheduleCrawlRequest is the body of POST /api/dataset/{id}/crawl.
type ScheduleCrawlRequest struct {
	SiteURL      string   `json:"site_url"`
	Interval     string   `json:"interval,omitempty"`
	IncludePaths []string `json:"include_paths,omitempty"`
	ExcludePaths []string `json:"exclude_paths,omitempty"`
	PageLimit    int      `json:"page_limit,omitempty"`
}

// UpdateCrawlStatusRequest is the body of PUT /api/dataset/{id}/crawl/status.
type UpdateCrawlStatusRequest struct {
	Status string `json:"status"`
}

// CrawlResponse is the JSON representation of a crawl request.
type CrawlResponse struct {
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

func crawlToResponse(req domcrawl.Request) CrawlResponse {
	return CrawlResponse{
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

// QueryVectorRequest is the body of POST /api/dataset/{id}/query-vector.
type QueryVectorRequest struct {
	Query string `json:"query"`
}

// QueryVectorResponse carries the query embedding and token usage.
type QueryVectorResponse struct {
	Embedding    []float32 `json:"embedding"`
	PromptTokens int       `json:"prompt_tokens"`
	TotalTokens  int       `json:"total_tokens"`
}

// HealthResponse reports aggregated component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
