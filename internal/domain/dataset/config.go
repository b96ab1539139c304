package dataset

// ServerConfiguration holds the server-side tunables of a dataset's
// retrieval and generation pipeline. Nil pointer fields mean the value
// is not configured and the provider default applies.
type ServerConfiguration struct {
	LLMBaseURL      string
	LLMDefaultModel string

	EmbeddingBaseURL     string
	EmbeddingModelName   string
	EmbeddingSize        int
	EmbeddingQueryPrefix string

	MessageToQueryPrompt string
	RAGPrompt            string
	SystemPrompt         *string

	NRetrievalsToInclude int
	MaxLimit             int

	FulltextEnabled         bool
	SemanticEnabled         bool
	UseMessageToQueryPrompt bool
	IndexedOnly             bool
	Locked                  bool

	FrequencyPenalty *float64
	Temperature      *float64
	PresencePenalty  *float64
	StopTokens       []string
	MaxTokens        *int

	BM25Enabled bool
	BM25B       float64
	BM25K       float64
	BM25AvgLen  float64
}

// bm25ActiveLiteral is the only flag value that turns BM25 on by default.
// Anything else, including the empty string, leaves it off.
const bm25ActiveLiteral = "true"

// DefaultServerConfiguration returns the configuration a dataset is
// seeded with when no explicit override exists. bm25Active is the raw
// BM25 activation flag string from the environment; it enables BM25
// ranking only when it equals exactly "true".
func DefaultServerConfiguration(bm25Active string) ServerConfiguration {
	return ServerConfiguration{
		LLMBaseURL:      "",
		LLMDefaultModel: "",

		EmbeddingBaseURL:     "https://embedding.trieve.ai",
		EmbeddingModelName:   "jina-base-en",
		EmbeddingSize:        768,
		EmbeddingQueryPrefix: "Search for: ",

		MessageToQueryPrompt: "",
		RAGPrompt:            "",
		SystemPrompt:         nil,

		NRetrievalsToInclude: 8,
		MaxLimit:             10000,

		FulltextEnabled:         true,
		SemanticEnabled:         true,
		UseMessageToQueryPrompt: false,
		IndexedOnly:             false,
		Locked:                  false,

		FrequencyPenalty: nil,
		Temperature:      nil,
		PresencePenalty:  nil,
		StopTokens:       nil,
		MaxTokens:        nil,

		BM25Enabled: bm25Active == bm25ActiveLiteral,
		BM25B:       0.75,
		BM25K:       1.2,
		BM25AvgLen:  256,
	}
}
