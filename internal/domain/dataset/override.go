package dataset

// ConfigurationOverride is a partial server configuration update.
// Nil fields leave the current value unchanged.
type ConfigurationOverride struct {
	LLMBaseURL      *string
	LLMDefaultModel *string

	EmbeddingBaseURL     *string
	EmbeddingModelName   *string
	EmbeddingSize        *int
	EmbeddingQueryPrefix *string

	MessageToQueryPrompt *string
	RAGPrompt            *string
	SystemPrompt         *string

	NRetrievalsToInclude *int
	MaxLimit             *int

	FulltextEnabled         *bool
	SemanticEnabled         *bool
	UseMessageToQueryPrompt *bool
	IndexedOnly             *bool
	Locked                  *bool

	FrequencyPenalty *float64
	Temperature      *float64
	PresencePenalty  *float64
	StopTokens       []string
	MaxTokens        *int

	BM25Enabled *bool
	BM25B       *float64
	BM25K       *float64
	BM25AvgLen  *float64
}

// IsZero reports whether the override changes nothing.
func (o ConfigurationOverride) IsZero() bool {
	return o.LLMBaseURL == nil &&
		o.LLMDefaultModel == nil &&
		o.EmbeddingBaseURL == nil &&
		o.EmbeddingModelName == nil &&
		o.EmbeddingSize == nil &&
		o.EmbeddingQueryPrefix == nil &&
		o.MessageToQueryPrompt == nil &&
		o.RAGPrompt == nil &&
		o.SystemPrompt == nil &&
		o.NRetrievalsToInclude == nil &&
		o.MaxLimit == nil &&
		o.FulltextEnabled == nil &&
		o.SemanticEnabled == nil &&
		o.UseMessageToQueryPrompt == nil &&
		o.IndexedOnly == nil &&
		o.Locked == nil &&
		o.FrequencyPenalty == nil &&
		o.Temperature == nil &&
		o.PresencePenalty == nil &&
		o.StopTokens == nil &&
		o.MaxTokens == nil &&
		o.BM25Enabled == nil &&
		o.BM25B == nil &&
		o.BM25K == nil &&
		o.BM25AvgLen == nil
}

// UnlocksOnly reports whether the override's single effect is turning
// the Locked flag off. Such overrides are the one update allowed on a
// locked configuration.
func (o ConfigurationOverride) UnlocksOnly() bool {
	if o.Locked == nil || *o.Locked {
		return false
	}
	rest := o
	rest.Locked = nil
	return rest.IsZero()
}

// Apply returns base with every non-nil override field replaced.
func (o ConfigurationOverride) Apply(base ServerConfiguration) ServerConfiguration {
	out := base

	if o.LLMBaseURL != nil {
		out.LLMBaseURL = *o.LLMBaseURL
	}
	if o.LLMDefaultModel != nil {
		out.LLMDefaultModel = *o.LLMDefaultModel
	}
	if o.EmbeddingBaseURL != nil {
		out.EmbeddingBaseURL = *o.EmbeddingBaseURL
	}
	if o.EmbeddingModelName != nil {
		out.EmbeddingModelName = *o.EmbeddingModelName
	}
	if o.EmbeddingSize != nil {
		out.EmbeddingSize = *o.EmbeddingSize
	}
	if o.EmbeddingQueryPrefix != nil {
		out.EmbeddingQueryPrefix = *o.EmbeddingQueryPrefix
	}
	if o.MessageToQueryPrompt != nil {
		out.MessageToQueryPrompt = *o.MessageToQueryPrompt
	}
	if o.RAGPrompt != nil {
		out.RAGPrompt = *o.RAGPrompt
	}
	if o.SystemPrompt != nil {
		out.SystemPrompt = o.SystemPrompt
	}
	if o.NRetrievalsToInclude != nil {
		out.NRetrievalsToInclude = *o.NRetrievalsToInclude
	}
	if o.MaxLimit != nil {
		out.MaxLimit = *o.MaxLimit
	}
	if o.FulltextEnabled != nil {
		out.FulltextEnabled = *o.FulltextEnabled
	}
	if o.SemanticEnabled != nil {
		out.SemanticEnabled = *o.SemanticEnabled
	}
	if o.UseMessageToQueryPrompt != nil {
		out.UseMessageToQueryPrompt = *o.UseMessageToQueryPrompt
	}
	if o.IndexedOnly != nil {
		out.IndexedOnly = *o.IndexedOnly
	}
	if o.Locked != nil {
		out.Locked = *o.Locked
	}
	if o.FrequencyPenalty != nil {
		out.FrequencyPenalty = o.FrequencyPenalty
	}
	if o.Temperature != nil {
		out.Temperature = o.Temperature
	}
	if o.PresencePenalty != nil {
		out.PresencePenalty = o.PresencePenalty
	}
	if o.StopTokens != nil {
		out.StopTokens = o.StopTokens
	}
	if o.MaxTokens != nil {
		out.MaxTokens = o.MaxTokens
	}
	if o.BM25Enabled != nil {
		out.BM25Enabled = *o.BM25Enabled
	}
	if o.BM25B != nil {
		out.BM25B = *o.BM25B
	}
	if o.BM25K != nil {
		out.BM25K = *o.BM25K
	}
	if o.BM25AvgLen != nil {
		out.BM25AvgLen = *o.BM25AvgLen
	}

	return out
}
