// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxivhub/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for components that call the Generative AI API.
type AIConfig struct {
	// Model is the chat model identifier (e.g. "gemini-2.5-flash").
	Model string `json:"model" yaml:"model"`

	// ResearchModel is the model used for final answer generation. Falls back
	// to Model when empty.
	ResearchModel string `json:"research_model,omitempty" yaml:"research_model,omitempty"`

	// EmbeddingModel is the embedding model identifier (e.g. "gemini-embedding-001").
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// RetrievalConfig holds the tunable surface of passage retrieval.
type RetrievalConfig struct {
	// ScoreThreshold is the minimum similarity score for a retrieved passage
	// (default 0.45). Passages below it are excluded, not down-ranked.
	ScoreThreshold float64 `json:"score_threshold" yaml:"score_threshold"`

	// TopK is the maximum number of passages fetched per query (default 5).
	TopK int `json:"top_k" yaml:"top_k"`
}

// Normalize fills zero-valued fields with defaults.
func (c RetrievalConfig) Normalize() RetrievalConfig {
	if c.ScoreThreshold <= 0 {
		c.ScoreThreshold = 0.45
	}
	if c.TopK <= 0 {
		c.TopK = 5
	}
	return c
}

// IngestionConfig holds settings for the paper ingestion stage.
type IngestionConfig struct {
	HTTPConfig `yaml:",inline"`

	// DataDir is the base directory for local data (database, downloaded PDFs).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// DownloadDelay is the delay between consecutive PDF downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// ChunkSize is the target chunk length in bytes (default 1500).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive chunks (default 200).
	ChunkOverlap int `json:"chunk_overlap" yaml:"chunk_overlap"`

	// MinChunkLength drops chunks shorter than this many bytes (default 300).
	MinChunkLength int `json:"min_chunk_length" yaml:"min_chunk_length"`
}

// WebSearchConfig holds settings for the corrective web-search fallback.
type WebSearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey authenticates against the Tavily API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults is the number of web results to request (default 3).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Depth is the Tavily search depth: "basic" or "advanced" (default "advanced").
	Depth string `json:"depth" yaml:"depth"`
}

// PipelineConfig groups all stage configurations for the assistant.
type PipelineConfig struct {
	AI        AIConfig        `json:"ai" yaml:"ai"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Ingestion IngestionConfig `json:"ingestion" yaml:"ingestion"`
	WebSearch WebSearchConfig `json:"web_search" yaml:"web_search"`
}
