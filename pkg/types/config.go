// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Default values applied when configuration is missing or invalid.
const (
	DefaultProvider   = "groq"
	DefaultBatchSize  = 5
	DefaultMaxRetries = 3
	DefaultBaseDelay  = 2 * time.Second

	DefaultFeaturesFile = "features.txt"
	DefaultInputDir     = "input_files"
	DefaultOutputDir    = "output_files"
	DefaultProcessedDir = "processed_files"
	DefaultFilePattern  = "product_*.txt"
	DefaultSummaryFile  = "extraction_summary.json"
	DefaultHistoryDB    = "featex.db"
)

// LLMConfig holds settings for the inference provider.
type LLMConfig struct {
	// Provider selects the inference backend: openai, anthropic, or groq.
	Provider string `json:"provider" yaml:"provider"`

	// Model is the model identifier, or empty to use the provider default.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the total number of extraction attempts per document (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// BaseDelay is the backoff base between attempts; the wait doubles after
	// each failure (default 2s).
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay"`
}

// PathsConfig holds the directory layout for a batch run.
type PathsConfig struct {
	// Features is the path to the feature schema file, one name per line.
	Features string `json:"features" yaml:"features"`

	// InputDir contains the source documents.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives one spreadsheet per successfully processed document.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// ProcessedDir receives archived sources; failed sources land in
	// ProcessedDir/errors.
	ProcessedDir string `json:"processed_dir" yaml:"processed_dir"`

	// FilePattern is the glob matched against file names in InputDir.
	FilePattern string `json:"file_pattern" yaml:"file_pattern"`

	// SummaryFile is where the batch summary JSON is written.
	SummaryFile string `json:"summary_file" yaml:"summary_file"`

	// HistoryDB is the SQLite database recording past runs. Empty disables
	// history recording.
	HistoryDB string `json:"history_db,omitempty" yaml:"history_db,omitempty"`
}

// ProcessingConfig holds batch execution settings.
type ProcessingConfig struct {
	// BatchSize bounds the number of documents processed concurrently (default 5).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// Config groups all settings for the extraction pipeline.
type Config struct {
	LLM        LLMConfig        `json:"llm" yaml:"llm"`
	Paths      PathsConfig      `json:"paths" yaml:"paths"`
	Processing ProcessingConfig `json:"processing" yaml:"processing"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			Provider:   DefaultProvider,
			MaxRetries: DefaultMaxRetries,
			BaseDelay:  DefaultBaseDelay,
		},
		Paths: PathsConfig{
			Features:     DefaultFeaturesFile,
			InputDir:     DefaultInputDir,
			OutputDir:    DefaultOutputDir,
			ProcessedDir: DefaultProcessedDir,
			FilePattern:  DefaultFilePattern,
			SummaryFile:  DefaultSummaryFile,
			HistoryDB:    DefaultHistoryDB,
		},
		Processing: ProcessingConfig{
			BatchSize: DefaultBatchSize,
		},
	}
}

// Sanitize replaces invalid values with defaults and returns the list of
// fields that were reset. A non-positive batch size or retry count is never
// accepted; it falls back to the documented default instead.
func (c *Config) Sanitize() []string {
	var reset []string

	if c.Processing.BatchSize < 1 {
		c.Processing.BatchSize = DefaultBatchSize
		reset = append(reset, "processing.batch_size")
	}
	if c.LLM.MaxRetries < 1 {
		c.LLM.MaxRetries = DefaultMaxRetries
		reset = append(reset, "llm.max_retries")
	}
	if c.LLM.BaseDelay <= 0 {
		c.LLM.BaseDelay = DefaultBaseDelay
		reset = append(reset, "llm.base_delay")
	}

	return reset
}
