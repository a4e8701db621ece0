package app

import "time"

// Config holds runtime configuration for the application. Precedence when
// assembling it: flags over environment over config file over defaults.
type Config struct {
	// Extraction
	InputDir    string
	Mode        string // "sentence" or "paragraph"
	StartPhrase string
	// Abbreviations and NoisePatterns extend the built-in filter tables.
	Abbreviations []string
	NoisePatterns []string

	// Output store (.csv or .db/.sqlite)
	OutputPath string

	// Embeddings
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string
	EmbedDim   int
	EmbedBatch int

	// Ranking
	TopK      int
	MinLength int

	// Optional result report
	ReportPath    string
	ReportPDFPath string

	// Embedding cache
	CacheDir    string
	CacheMaxAge time.Duration
	CacheClear  bool

	// Behavior
	Verbose bool
}
