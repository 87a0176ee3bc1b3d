package types

import "time"

// ArtifactFormat selects which serializations the export layer writes.
type ArtifactFormat string

const (
	FormatJSON ArtifactFormat = "json"
	FormatYAML ArtifactFormat = "yaml"
	FormatBoth ArtifactFormat = "both"
)

// Valid reports whether f is one of the known formats.
func (f ArtifactFormat) Valid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatBoth:
		return true
	}
	return false
}

// PipelineConfig holds settings for a build of the educational framework.
type PipelineConfig struct {
	// InputDir is the directory holding one JSON document per entry.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives the exported artifacts.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Workers is the loader/tagger pool size. 1 or less runs sequentially.
	Workers int `json:"workers" yaml:"workers"`

	// TopK bounds the ranked concept list (default 20).
	TopK int `json:"top_k" yaml:"top_k"`

	// Templates is the number of top concepts that get a lesson template (default 10).
	Templates int `json:"templates" yaml:"templates"`

	// Difficulty is the difficulty label given to generated templates (default "Intermediate").
	Difficulty string `json:"difficulty" yaml:"difficulty"`

	// Format selects json, yaml, or both.
	Format ArtifactFormat `json:"format" yaml:"format"`

	// HierarchyFile optionally overrides the built-in topic hierarchy.
	HierarchyFile string `json:"hierarchy_file,omitempty" yaml:"hierarchy_file,omitempty"`

	// TeacherGuide controls whether teacher_guide.md/.html are written.
	TeacherGuide bool `json:"teacher_guide" yaml:"teacher_guide"`

	// QuickStart controls whether quick_start_lessons.md is written.
	QuickStart bool `json:"quick_start" yaml:"quick_start"`

	KnowledgeBase KnowledgeBaseConfig `json:"knowledge_base" yaml:"knowledge_base"`
}

// KnowledgeBaseConfig holds settings for the SQLite knowledge base.
type KnowledgeBaseConfig struct {
	// Enabled ingests tagged records into the knowledge base after a build.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir holds the index/ directory with the database file.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// AIConfig holds settings for the text-completion collaborator.
type AIConfig struct {
	// Backend selects openai, ollama, mock, or auto (first available).
	Backend string `json:"backend" yaml:"backend"`

	// Model is the model identifier for the selected backend.
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the OpenAI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL is the Ollama server URL (default http://localhost:11434).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// MaxTokens bounds each completion (default 500).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// RequestsPerSecond throttles completion calls; zero disables throttling.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// Timeout bounds each HTTP call to a backend.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// HTTPConfig holds settings shared by the RCSB clients.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AcquisitionConfig holds settings for downloading entry documents.
type AcquisitionConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadDelay is the delay between consecutive downloads (default 200ms).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// InputDir receives one <ID>.json document per entry.
	InputDir string `json:"input_dir" yaml:"input_dir"`
}

// SearchConfig holds settings for the RCSB full-text search.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of identifiers to return (default 100).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
