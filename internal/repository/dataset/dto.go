package dataset

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	domds "github.com/thecaralice/trieve/internal/domain/dataset"
)

// configRow is the JSON-serializable server configuration. Field names
// match the wire shape consumed by dashboards and older readers, so
// they stay UPPER_SNAKE. Pointer fields distinguish absent keys from
// zero values on hydration.
type configRow struct {
	LLMBaseURL      *string `json:"LLM_BASE_URL"`
	LLMDefaultModel *string `json:"LLM_DEFAULT_MODEL"`

	EmbeddingBaseURL     *string `json:"EMBEDDING_BASE_URL"`
	EmbeddingModelName   *string `json:"EMBEDDING_MODEL_NAME"`
	EmbeddingSize        *int    `json:"EMBEDDING_SIZE"`
	EmbeddingQueryPrefix *string `json:"EMBEDDING_QUERY_PREFIX"`

	MessageToQueryPrompt *string `json:"MESSAGE_TO_QUERY_PROMPT"`
	RAGPrompt            *string `json:"RAG_PROMPT"`
	SystemPrompt         *string `json:"SYSTEM_PROMPT"`

	NRetrievalsToInclude *int `json:"N_RETRIEVALS_TO_INCLUDE"`
	MaxLimit             *int `json:"MAX_LIMIT"`

	FulltextEnabled         *bool `json:"FULLTEXT_ENABLED"`
	SemanticEnabled         *bool `json:"SEMANTIC_ENABLED"`
	UseMessageToQueryPrompt *bool `json:"USE_MESSAGE_TO_QUERY_PROMPT"`
	IndexedOnly             *bool `json:"INDEXED_ONLY"`
	Locked                  *bool `json:"LOCKED"`

	FrequencyPenalty *float64 `json:"FREQUENCY_PENALTY"`
	Temperature      *float64 `json:"TEMPERATURE"`
	PresencePenalty  *float64 `json:"PRESENCE_PENALTY"`
	StopTokens       []string `json:"STOP_TOKENS"`
	MaxTokens        *int     `json:"MAX_TOKENS"`

	BM25Enabled *bool    `json:"BM25_ENABLED"`
	BM25B       *float64 `json:"BM25_B"`
	BM25K       *float64 `json:"BM25_K"`
	BM25AvgLen  *float64 `json:"BM25_AVG_LEN"`
}

func rowFromConfig(cfg domds.ServerConfiguration) configRow {
	return configRow{
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

// configFromRow overlays the stored row onto the process defaults, so
// records written before a field existed pick up its default.
func configFromRow(row configRow, defaults domds.ServerConfiguration) domds.ServerConfiguration {
	override := domds.ConfigurationOverride{
		LLMBaseURL:      row.LLMBaseURL,
		LLMDefaultModel: row.LLMDefaultModel,

		EmbeddingBaseURL:     row.EmbeddingBaseURL,
		EmbeddingModelName:   row.EmbeddingModelName,
		EmbeddingSize:        row.EmbeddingSize,
		EmbeddingQueryPrefix: row.EmbeddingQueryPrefix,

		MessageToQueryPrompt: row.MessageToQueryPrompt,
		RAGPrompt:            row.RAGPrompt,
		SystemPrompt:         row.SystemPrompt,

		NRetrievalsToInclude: row.NRetrievalsToInclude,
		MaxLimit:             row.MaxLimit,

		FulltextEnabled:         row.FulltextEnabled,
		SemanticEnabled:         row.SemanticEnabled,
		UseMessageToQueryPrompt: row.UseMessageToQueryPrompt,
		IndexedOnly:             row.IndexedOnly,
		Locked:                  row.Locked,

		FrequencyPenalty: row.FrequencyPenalty,
		Temperature:      row.Temperature,
		PresencePenalty:  row.PresencePenalty,
		StopTokens:       row.StopTokens,
		MaxTokens:        row.MaxTokens,

		BM25Enabled: row.BM25Enabled,
		BM25B:       row.BM25B,
		BM25K:       row.BM25K,
		BM25AvgLen:  row.BM25AvgLen,
	}

	cfg := override.Apply(defaults)
	// Stored nulls for nullable fields must win over any non-nil default.
	cfg.SystemPrompt = row.SystemPrompt
	cfg.FrequencyPenalty = row.FrequencyPenalty
	cfg.Temperature = row.Temperature
	cfg.PresencePenalty = row.PresencePenalty
	cfg.StopTokens = row.StopTokens
	cfg.MaxTokens = row.MaxTokens
	return cfg
}

// datasetToHash converts a domain Dataset to a map for HSET.
func datasetToHash(ds domds.Dataset) (map[string]string, error) {
	cfgJSON, err := json.Marshal(rowFromConfig(ds.Configuration()))
	if err != nil {
		return nil, fmt.Errorf("marshal configuration: %w", err)
	}
	return map[string]string{
		"id":                   ds.ID().String(),
		"name":                 ds.Name(),
		"organization_id":      ds.OrganizationID().String(),
		"tracking_id":          ds.TrackingID(),
		"server_configuration": string(cfgJSON),
		"created_at":           strconv.FormatInt(ds.CreatedAt(), 10),
	}, nil
}

// datasetFromHash hydrates a domain Dataset from an HGETALL result map.
func datasetFromHash(m map[string]string, defaults domds.ServerConfiguration) (domds.Dataset, error) {
	id, err := uuid.Parse(m["id"])
	if err != nil {
		return domds.Dataset{}, fmt.Errorf("invalid dataset id: %w", err)
	}
	orgID, err := uuid.Parse(m["organization_id"])
	if err != nil {
		return domds.Dataset{}, fmt.Errorf("invalid organization id: %w", err)
	}
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return domds.Dataset{}, fmt.Errorf("invalid created_at: %w", err)
	}

	cfg := defaults
	if raw := m["server_configuration"]; raw != "" {
		var row configRow
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return domds.Dataset{}, fmt.Errorf("unmarshal configuration: %w", err)
		}
		cfg = configFromRow(row, defaults)
	}

	return domds.Reconstruct(id, m["name"], orgID, m["tracking_id"], cfg, createdAt), nil
}
